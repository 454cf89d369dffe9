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
	"math"

	"github.com/flexatone/arraymap/internal/htcore"
	"github.com/flexatone/arraymap/internal/kview"
	"github.com/flexatone/arraymap/kind"
	"github.com/flexatone/arraymap/tbuf"
)

// MutableIndex is an insertion-ordered unique-key index that supports
// appending after construction. It shares the full read surface with
// FrozenIndex; readers and the single writer must be serialized
// externally.
type MutableIndex struct {
	c *core
}

var _ Indexer = (*MutableIndex)(nil)

// NewMutable returns an empty opaque-mode MutableIndex.
func NewMutable() *MutableIndex {
	ring := &objectRing{}
	c := newCore(ring, kind.Object, 0)
	c.table = htcore.New(c.engine, ring, 0)
	return &MutableIndex{c: c}
}

// NewMutableKeys builds an opaque-mode MutableIndex from keys in
// slice order, with the same type and uniqueness rules as
// NewFrozenKeys.
func NewMutableKeys(keys []any) (*MutableIndex, error) {
	m := NewMutable()
	if err := m.Update(keys); err != nil {
		return nil, err
	}
	return m, nil
}

// NewMutableBuffer builds a buffer-mode MutableIndex seeded with
// buf's elements. Unlike NewFrozenBuffer, the elements are copied
// into storage owned by the index, so buf may be released afterwards;
// the same read-only and uniqueness rules apply at construction. Keys
// added later must be representable in buf's element kind and width.
func NewMutableBuffer(buf tbuf.Buffer) (*MutableIndex, error) {
	if buf.Writeable() {
		return nil, fmt.Errorf("%w: buffer must not be writeable", ErrTypeMismatch)
	}
	if buf.Kind() == kind.Object {
		return nil, fmt.Errorf("%w: buffer kind must not be Object", ErrTypeMismatch)
	}
	g := tbuf.NewGrow(buf.Kind(), buf.ElemWidth())
	for i := 0; i < buf.Len(); i++ {
		g.Append(buf.ElemBytes(i))
	}
	ring := &mutableBufferRing{g: g}
	c := newCore(ring, buf.Kind(), buf.ElemWidth())
	t, err := buildTable(c.engine, ring, buf.Kind())
	if err != nil {
		return nil, err
	}
	c.table = t
	return &MutableIndex{c: c}, nil
}

// NewMutableFrom copies src into a new MutableIndex, preserving its
// key representation: buffer-mode sources yield a buffer-mode copy
// with its own storage, opaque sources an opaque copy.
func NewMutableFrom(src Indexer) (*MutableIndex, error) {
	var sc *core
	switch v := src.(type) {
	case *FrozenIndex:
		sc = v.c
	case *MutableIndex:
		sc = v.c
	default:
		return nil, fmt.Errorf("%w: cannot copy %T", ErrTypeMismatch, src)
	}
	switch ring := sc.ring.(type) {
	case *frozenBufferRing:
		return NewMutableBuffer(ring.buf)
	case *mutableBufferRing:
		g := ring.g.Clone()
		c := newCore(&mutableBufferRing{g: g}, sc.bufKind, sc.bufWidth)
		c.table = sc.table.Clone(c.ring)
		return &MutableIndex{c: c}, nil
	default:
		return NewMutableKeys(materializeAll(sc))
	}
}

// Len reports the number of keys in the index.
func (m *MutableIndex) Len() int { return m.c.Len() }

// Contains reports whether key is present. It never errors; probes
// of unsupported or mismatched type report absent.
func (m *MutableIndex) Contains(key any) bool { return m.c.Contains(key) }

// Get returns the ordinal for key, or def if key is absent.
func (m *MutableIndex) Get(key any, def int) int { return m.c.Get(key, def) }

// GetOk returns the ordinal for key and whether it was present.
func (m *MutableIndex) GetOk(key any) (int, bool) { return m.c.GetOk(key) }

// Index returns the ordinal for key, or a wrapped ErrKeyMissing.
func (m *MutableIndex) Index(key any) (int, error) { return m.c.Index(key) }

// Equal reports whether m and other hold the same keys in the same
// order.
func (m *MutableIndex) Equal(other *MutableIndex) bool { return m.c.Equal(other.c) }

// Keys iterates over the keys in insertion order.
func (m *MutableIndex) Keys() iter.Seq[any] { return m.c.Keys() }

// Values iterates over the ordinals 0, 1, ... Len()-1.
func (m *MutableIndex) Values() iter.Seq[int] { return m.c.Values() }

// Items iterates over (key, ordinal) pairs in insertion order.
func (m *MutableIndex) Items() iter.Seq2[any, int] { return m.c.Items() }

// GetAll performs the strict bulk lookup: the ordinals of every key
// of seq as a read-only Int64 buffer, or ErrKeyMissing if any is absent.
func (m *MutableIndex) GetAll(seq any) (tbuf.Buffer, error) { return m.c.GetAll(seq) }

// GetAny performs the tolerant bulk lookup: the ordinals of the keys
// of seq that are present, deduplicated, in first-occurrence order.
func (m *MutableIndex) GetAny(seq any) ([]int, error) { return m.c.GetAny(seq) }

// KeyKind reports the key representation the index was built over.
func (m *MutableIndex) KeyKind() kind.Kind { return m.c.KeyKind() }

// KeyWidth reports the fixed element width for Unicode and Bytes
// indexes, and 0 for every other kind.
func (m *MutableIndex) KeyWidth() int { return m.c.KeyWidth() }

// Add inserts key at the next ordinal (Len() before the call). A key
// already present fails with ErrDuplicateKey; a key that cannot be
// represented by the index's kind fails with ErrTypeMismatch. Either
// way a failed Add leaves the index unchanged.
func (m *MutableIndex) Add(key any) error {
	if ord, ok := m.c.lookup(key); ok {
		return fmt.Errorf("%w: %v already at position %d", ErrDuplicateKey, key, ord)
	}
	var ord int
	switch ring := m.c.ring.(type) {
	case *objectRing:
		if _, ok := kview.NewObjectView(key); !ok {
			return fmt.Errorf("%w: unsupported key type %T", ErrTypeMismatch, key)
		}
		ord = ring.append(key)
	case *mutableBufferRing:
		elem, err := encodeElemKind(m.c.bufKind, m.c.bufWidth, key)
		if err != nil {
			return err
		}
		ring.g.Append(elem)
		ord = ring.g.Len() - 1
	default:
		return fmt.Errorf("%w: index is not appendable", ErrTypeMismatch)
	}
	h := m.c.ring.View(ord).Hash(m.c.engine)
	m.c.table.Insert(h, ord)
	return nil
}

// Update inserts each key in order. The first failure stops the
// walk and is returned; keys inserted before it remain in the index,
// so a failed Update leaves a partially updated state.
func (m *MutableIndex) Update(keys []any) error {
	for _, k := range keys {
		if err := m.Add(k); err != nil {
			return err
		}
	}
	return nil
}

// Union returns a new MutableIndex holding m's keys, in order,
// followed by those of other's keys not already present, in other's
// order. Neither operand is modified. The result has m's key
// representation, so every key of other must be representable in it.
func (m *MutableIndex) Union(other Indexer) (*MutableIndex, error) {
	out, err := NewMutableFrom(m)
	if err != nil {
		return nil, err
	}
	for k := range other.Keys() {
		if out.Contains(k) {
			continue
		}
		if err := out.Add(k); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// encodeElemKind renders key as one fixed-width element of kind k,
// refusing any conversion that would not round-trip: out-of-range
// integers, fractional floats against integer kinds, value-changing
// float narrowing, and over-width text all fail with ErrTypeMismatch
// rather than storing a key unequal to the one the caller passed.
func encodeElemKind(k kind.Kind, width int, key any) ([]byte, error) {
	mismatch := func() ([]byte, error) {
		return nil, fmt.Errorf("%w: cannot store %T %v as %s", ErrTypeMismatch, key, key, k)
	}
	if k.FixedText() {
		switch v := key.(type) {
		case string:
			if k != kind.Unicode || len([]rune(v)) > width {
				return mismatch()
			}
			return tbuf.EncodeUnicode(v, width), nil
		case []byte:
			if k != kind.Bytes || len(v) > width {
				return mismatch()
			}
			return tbuf.EncodeBytes(v, width), nil
		default:
			return mismatch()
		}
	}
	n, ok := numericValue(key)
	if !ok {
		return mismatch()
	}
	if k.Float() {
		f, ok := n.asFloat64()
		if !ok {
			return mismatch()
		}
		switch k {
		case kind.Float64:
			return tbuf.EncodeElem(f), nil
		case kind.Float32:
			if narrowed := float64(float32(f)); narrowed != f && !math.IsNaN(f) {
				return mismatch()
			}
			return tbuf.EncodeElem(float32(f)), nil
		default: // Float16
			bits := tbuf.Float16FromFloat64(f)
			if back := tbuf.Float16ToFloat64(bits); back != f && !math.IsNaN(f) {
				return mismatch()
			}
			return tbuf.EncodeElem(bits), nil
		}
	}
	if k.Signed() {
		i, ok := n.asInt64()
		if !ok {
			return mismatch()
		}
		switch k {
		case kind.Int8:
			if i < -128 || i > 127 {
				return mismatch()
			}
			return tbuf.EncodeElem(int8(i)), nil
		case kind.Int16:
			if i < -32768 || i > 32767 {
				return mismatch()
			}
			return tbuf.EncodeElem(int16(i)), nil
		case kind.Int32:
			if i < -2147483648 || i > 2147483647 {
				return mismatch()
			}
			return tbuf.EncodeElem(int32(i)), nil
		default: // Int64, Datetime64
			return tbuf.EncodeElem(i), nil
		}
	}
	u, ok := n.asUint64()
	if !ok {
		return mismatch()
	}
	switch k {
	case kind.Uint8:
		if u > 0xff {
			return mismatch()
		}
		return tbuf.EncodeElem(uint8(u)), nil
	case kind.Uint16:
		if u > 0xffff {
			return mismatch()
		}
		return tbuf.EncodeElem(uint16(u)), nil
	case kind.Uint32:
		if u > 0xffffffff {
			return mismatch()
		}
		return tbuf.EncodeElem(uint32(u)), nil
	default: // Uint64
		return tbuf.EncodeElem(u), nil
	}
}
