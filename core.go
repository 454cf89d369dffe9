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

// Package arraymap implements an insertion-ordered, unique-key index
// mapping keys to the ordinal position at which they were first added.
// Two flavors share the same table core and keying machinery:
// FrozenIndex, built once from a complete set of keys and never
// mutated again, and MutableIndex, which supports incremental
// Add/Update/Union after construction.
//
// Keys come in two representations, fixed at construction: opaque Go
// values held by the index itself, or fixed-width elements of a
// borrowed read-only typed buffer (see package tbuf). Lookups accept
// any supported Go value and apply canonical cross-width equality, so
// an int probe of 20 finds a stored uint16 of 20 and a float64 probe
// of 20.0 finds both.
package arraymap

import (
	"fmt"
	"iter"

	"github.com/flexatone/arraymap/internal/htcore"
	"github.com/flexatone/arraymap/internal/kview"
	"github.com/flexatone/arraymap/kind"
	"github.com/flexatone/arraymap/tbuf"
)

// Indexer is the read surface shared by FrozenIndex and MutableIndex.
type Indexer interface {
	Len() int
	Contains(key any) bool
	Get(key any, def int) int
	GetOk(key any) (int, bool)
	Index(key any) (int, error)
	Keys() iter.Seq[any]
	Values() iter.Seq[int]
	Items() iter.Seq2[any, int]
	GetAll(seq any) (tbuf.Buffer, error)
	GetAny(seq any) ([]int, error)
}

// core is the engine/table/ring triple shared by FrozenIndex and
// MutableIndex. Neither exported type embeds it publicly -- both wrap
// it privately so that the mutable-only operations (Add, Update,
// Union) cannot be reached through a FrozenIndex value.
type core struct {
	engine   *kview.Engine
	table    *htcore.Table
	ring     kview.Ring
	bufKind  kind.Kind // kind.Object when opaque
	bufWidth int       // Unicode/Bytes element width; 0 otherwise
}

func newCore(ring kview.Ring, bufKind kind.Kind, bufWidth int) *core {
	return &core{
		engine:   &kview.Stable,
		ring:     ring,
		bufKind:  bufKind,
		bufWidth: bufWidth,
	}
}

// Len reports the number of keys in the index.
func (c *core) Len() int { return c.ring.Len() }

func (c *core) lookup(key any) (int, bool) {
	p := kview.NewProbe(c.engine, c.bufKind, key)
	return c.table.Lookup(&p)
}

// Contains reports whether key is present. It never errors: a key
// whose type cannot be classified into any category simply reports
// false.
func (c *core) Contains(key any) bool {
	_, ok := c.lookup(key)
	return ok
}

// Get returns the ordinal for key, or def if key is absent. Like
// Contains, an unclassifiable key reports absent rather than erroring.
func (c *core) Get(key any, def int) int {
	if ord, ok := c.lookup(key); ok {
		return ord
	}
	return def
}

// GetOk returns the ordinal for key and whether it was present.
func (c *core) GetOk(key any) (int, bool) {
	return c.lookup(key)
}

// Index returns the ordinal for key, or ErrKeyMissing wrapped with
// the key's value if absent. This is the strict, subscript-style
// lookup; Get and Contains are the tolerant ones.
func (c *core) Index(key any) (int, error) {
	if ord, ok := c.lookup(key); ok {
		return ord, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrKeyMissing, key)
}

// Equal reports whether c and other contain the same keys in the same
// insertion order, under canonical equality.
func (c *core) Equal(other *core) bool {
	if c.Len() != other.Len() {
		return false
	}
	for i := 0; i < c.Len(); i++ {
		a := c.ring.View(i).Materialize()
		p := kview.NewProbe(other.engine, other.bufKind, a)
		ord, ok := other.table.Lookup(&p)
		if !ok || ord != i {
			return false
		}
	}
	return true
}

// Keys iterates over the keys in insertion order. Buffer-mode indexes
// yield values of the stored element width (int8 values for an Int8
// buffer, date.Time for Datetime64).
func (c *core) Keys() iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := 0; i < c.Len(); i++ {
			if !yield(c.ring.View(i).Materialize()) {
				return
			}
		}
	}
}

// Values iterates over the ordinals 0, 1, ... Len()-1 in order.
func (c *core) Values() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.Len(); i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// Items iterates over (key, ordinal) pairs in insertion order.
func (c *core) Items() iter.Seq2[any, int] {
	return func(yield func(any, int) bool) {
		for i := 0; i < c.Len(); i++ {
			if !yield(c.ring.View(i).Materialize(), i) {
				return
			}
		}
	}
}
