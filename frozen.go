// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package arraymap

import (
	"fmt"
	"iter"

	"golang.org/x/exp/slices"

	"github.com/flexatone/arraymap/internal/htcore"
	"github.com/flexatone/arraymap/internal/kview"
	"github.com/flexatone/arraymap/kind"
	"github.com/flexatone/arraymap/tbuf"
)

// FrozenIndex is an immutable, insertion-ordered unique-key index.
// Once built it never changes: there is no Add, Update, or Union on
// this type, only the shared read surface. A FrozenIndex is safe for
// concurrent readers without synchronization.
type FrozenIndex struct {
	c *core
}

var _ Indexer = (*FrozenIndex)(nil)

// NewFrozenKeys builds an opaque-mode FrozenIndex from keys in slice
// order. A key of an unsupported type fails with ErrTypeMismatch; a
// duplicate key (under canonical equality) fails the whole
// construction with ErrDuplicateKey.
func NewFrozenKeys(keys []any) (*FrozenIndex, error) {
	for i, k := range keys {
		if _, ok := kview.NewObjectView(k); !ok {
			return nil, fmt.Errorf("%w: unsupported key type %T at position %d", ErrTypeMismatch, k, i)
		}
	}
	ring := &objectRing{items: slices.Clone(keys)}
	c := newCore(ring, kind.Object, 0)
	t, err := buildTable(c.engine, ring, kind.Object)
	if err != nil {
		return nil, err
	}
	c.table = t
	return &FrozenIndex{c: c}, nil
}

// NewFrozenBuffer builds a buffer-mode FrozenIndex borrowing buf.
// The buffer must be read-only: construction over writeable storage
// fails with ErrTypeMismatch, since the index would have no way to
// notice later element mutation invalidating its slot array. The
// caller keeps buf's storage alive and unmodified for the lifetime
// of the index.
func NewFrozenBuffer(buf tbuf.Buffer) (*FrozenIndex, error) {
	if buf.Writeable() {
		return nil, fmt.Errorf("%w: buffer must not be writeable", ErrTypeMismatch)
	}
	if buf.Kind() == kind.Object {
		return nil, fmt.Errorf("%w: buffer kind must not be Object", ErrTypeMismatch)
	}
	ring := &frozenBufferRing{buf: buf}
	c := newCore(ring, buf.Kind(), buf.ElemWidth())
	t, err := buildTable(c.engine, ring, buf.Kind())
	if err != nil {
		return nil, err
	}
	c.table = t
	return &FrozenIndex{c: c}, nil
}

// NewFrozenFromFrozen copies src's keys, in order, into a new
// FrozenIndex. If src is buffer-mode the copy shares the same buffer
// borrow rather than duplicating storage.
func NewFrozenFromFrozen(src *FrozenIndex) (*FrozenIndex, error) {
	if fb, ok := src.c.ring.(*frozenBufferRing); ok {
		return NewFrozenBuffer(fb.buf)
	}
	return NewFrozenKeys(materializeAll(src.c))
}

// NewFrozenFromMutable snapshots src's current keys, in order, into a
// new FrozenIndex. Buffer-mode sources are copied, so later mutation
// of src does not affect the returned FrozenIndex.
func NewFrozenFromMutable(src *MutableIndex) (*FrozenIndex, error) {
	if mb, ok := src.c.ring.(*mutableBufferRing); ok {
		g := mb.g.Clone()
		buf := g.Buffer()
		return NewFrozenBuffer(buf.ReadOnly())
	}
	return NewFrozenKeys(materializeAll(src.c))
}

func materializeAll(c *core) []any {
	out := make([]any, c.Len())
	for i := range out {
		out[i] = c.ring.View(i).Materialize()
	}
	return out
}

// buildTable bulk-loads a table from an already-populated ring:
// iterate ordinals in order, inserting each one directly and failing
// on the first duplicate. Both ring shapes take this path, since both
// hold their full key set before the table is built.
func buildTable(e *kview.Engine, ring kview.Ring, k kind.Kind) (*htcore.Table, error) {
	n := ring.Len()
	t := htcore.New(e, ring, n)
	for i := 0; i < n; i++ {
		v := ring.View(i)
		p := kview.NewProbe(e, k, v.Materialize())
		if existing, found := t.Lookup(&p); found {
			return nil, fmt.Errorf("%w: position %d duplicates position %d", ErrDuplicateKey, i, existing)
		}
		t.Insert(v.Hash(e), i)
	}
	return t, nil
}

// Len reports the number of keys in the index.
func (f *FrozenIndex) Len() int { return f.c.Len() }

// Contains reports whether key is present. It never errors; probes
// of unsupported or mismatched type report absent.
func (f *FrozenIndex) Contains(key any) bool { return f.c.Contains(key) }

// Get returns the ordinal for key, or def if key is absent.
func (f *FrozenIndex) Get(key any, def int) int { return f.c.Get(key, def) }

// GetOk returns the ordinal for key and whether it was present.
func (f *FrozenIndex) GetOk(key any) (int, bool) { return f.c.GetOk(key) }

// Index returns the ordinal for key, or a wrapped ErrKeyMissing.
func (f *FrozenIndex) Index(key any) (int, error) { return f.c.Index(key) }

// Equal reports whether f and other hold the same keys in the same
// order.
func (f *FrozenIndex) Equal(other *FrozenIndex) bool { return f.c.Equal(other.c) }

// Keys iterates over the keys in insertion order.
func (f *FrozenIndex) Keys() iter.Seq[any] { return f.c.Keys() }

// Values iterates over the ordinals 0, 1, ... Len()-1.
func (f *FrozenIndex) Values() iter.Seq[int] { return f.c.Values() }

// Items iterates over (key, ordinal) pairs in insertion order.
func (f *FrozenIndex) Items() iter.Seq2[any, int] { return f.c.Items() }

// GetAll performs the strict bulk lookup: the ordinals of every key
// of seq as a read-only Int64 buffer, or ErrKeyMissing if any is absent.
func (f *FrozenIndex) GetAll(seq any) (tbuf.Buffer, error) { return f.c.GetAll(seq) }

// GetAny performs the tolerant bulk lookup: the ordinals of the keys
// of seq that are present, deduplicated, in first-occurrence order.
func (f *FrozenIndex) GetAny(seq any) ([]int, error) { return f.c.GetAny(seq) }

// KeyKind reports the key representation the index was built over.
func (f *FrozenIndex) KeyKind() kind.Kind { return f.c.KeyKind() }

// KeyWidth reports the fixed element width for Unicode and Bytes
// indexes, and 0 for every other kind.
func (f *FrozenIndex) KeyWidth() int { return f.c.KeyWidth() }
