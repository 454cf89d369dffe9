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

// Package htcore implements the open-addressed slot array mapping a
// probe's hash to the ordinal of the key that produced it. It never
// owns key storage itself -- it only asks a Ring for the view at a
// candidate ordinal, so the same probing code serves buffer-backed
// and opaque Key Stores alike.
package htcore

import (
	"github.com/flexatone/arraymap/internal/kview"
	"github.com/flexatone/arraymap/ints"
)

// empty marks an unoccupied slot. Ordinals are always >= 0, so -1 can
// never collide with a real ordinal.
const empty int64 = -1

// minCapacity is the smallest slot array ever allocated.
const minCapacity = 16

// maxLoadNum/maxLoadDen bound the fraction of occupied slots before
// the table doubles its capacity and rehashes every live ordinal.
const (
	maxLoadNum = 2
	maxLoadDen = 3
)

// Table is the open-addressed index over a Ring's ordinals. It is not
// safe for concurrent mutation; callers serialize writes themselves.
type Table struct {
	slots  []int64
	mask   uint64
	count  int
	engine *kview.Engine
	ring   kview.Ring
}

// New builds an empty Table sized for at least capacityHint live
// entries before its first growth.
func New(e *kview.Engine, ring kview.Ring, capacityHint int) *Table {
	want := uint64(capacityHint)*maxLoadDen/maxLoadNum + 1
	cap64 := ints.NextPow2(want)
	if cap64 < minCapacity {
		cap64 = minCapacity
	}
	t := &Table{
		slots:  make([]int64, cap64),
		mask:   cap64 - 1,
		engine: e,
		ring:   ring,
	}
	for i := range t.slots {
		t.slots[i] = empty
	}
	return t
}

// Len reports the number of occupied slots.
func (t *Table) Len() int { return t.count }

// Capacity reports the current slot array size, always a power of two.
func (t *Table) Capacity() int { return len(t.slots) }

// probeSeq walks the perturbed probe recurrence over the slot array:
//
//	i0 = h mod C
//	p  = h
//	i  = (5*i + 1 + p) mod C; p >>= 5
//
// The perturbation folds every bit of the hash into the walk, so the
// sequence visits every slot and two keys sharing low hash bits
// diverge after a few steps. visit is called for each candidate slot
// index in order; it returns true to stop the walk.
func (t *Table) probeSeq(h uint64, visit func(slot uint64) bool) {
	mask := t.mask
	i := h & mask
	p := h
	for {
		if visit(i) {
			return
		}
		i = (5*i + 1 + p) & mask
		p >>= 5
	}
}

// Lookup returns the ordinal stored under a key matching p, if any.
func (t *Table) Lookup(p *kview.Probe) (ordinal int, found bool) {
	if !p.Ok() {
		return 0, false
	}
	t.probeSeq(p.Hash(), func(slot uint64) bool {
		v := t.slots[slot]
		if v == empty {
			found = false
			return true
		}
		if t.ring.View(int(v)).Equals(p) {
			ordinal = int(v)
			found = true
			return true
		}
		return false
	})
	return ordinal, found
}

// Insert records that the key at ring ordinal `ordinal` hashes to h.
// The caller is responsible for having already confirmed (via Lookup)
// that no equal key is present; Insert does not itself check for
// duplicates, since on the append paths the key's view only becomes
// valid once it has actually been appended to the ring.
func (t *Table) Insert(h uint64, ordinal int) {
	if (t.count+1)*maxLoadDen > len(t.slots)*maxLoadNum {
		t.grow()
	}
	t.probeSeq(h, func(slot uint64) bool {
		if t.slots[slot] == empty {
			t.slots[slot] = int64(ordinal)
			return true
		}
		return false
	})
	t.count++
}

// Clone copies t's slot layout verbatim into a new Table probing
// ring instead. ring must hold the same keys in the same order as
// t's ring (a clone of it), or lookups will misresolve.
func (t *Table) Clone(ring kview.Ring) *Table {
	slots := make([]int64, len(t.slots))
	copy(slots, t.slots)
	return &Table{
		slots:  slots,
		mask:   t.mask,
		count:  t.count,
		engine: t.engine,
		ring:   ring,
	}
}

// grow doubles capacity and rehashes every occupied slot by
// re-deriving each live ordinal's hash from its current view. The
// Key Store is untouched; only slot positions move.
func (t *Table) grow() {
	old := t.slots
	newCap := uint64(len(old)) * 2
	t.slots = make([]int64, newCap)
	for i := range t.slots {
		t.slots[i] = empty
	}
	t.mask = newCap - 1
	for _, v := range old {
		if v == empty {
			continue
		}
		h := t.ring.View(int(v)).Hash(t.engine)
		t.probeSeq(h, func(slot uint64) bool {
			if t.slots[slot] == empty {
				t.slots[slot] = v
				return true
			}
			return false
		})
	}
}
