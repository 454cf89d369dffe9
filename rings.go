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
	"github.com/flexatone/arraymap/internal/kview"
	"github.com/flexatone/arraymap/tbuf"
)

// objectRing is the Key Store for opaque (non-buffer) indexes: a
// plain, append-only slice of the original Go values in insertion
// order. Every element has already been classified by the
// constructor, so View never fails here.
type objectRing struct {
	items []any
}

func (r *objectRing) Len() int { return len(r.items) }

func (r *objectRing) View(ord int) kview.View {
	v, _ := kview.NewObjectView(r.items[ord])
	return v
}

func (r *objectRing) append(x any) int {
	r.items = append(r.items, x)
	return len(r.items) - 1
}

// frozenBufferRing is the Key Store for a frozen, buffer-mode index:
// the borrowed buffer itself. The i-th key is the i-th element, so
// insertion order is buffer order and no per-key storage exists at
// all.
type frozenBufferRing struct {
	buf tbuf.Buffer
}

func (r *frozenBufferRing) Len() int { return r.buf.Len() }

func (r *frozenBufferRing) View(ord int) kview.View {
	return kview.BufferView(&r.buf, ord)
}

// mutableBufferRing is the Key Store for a mutable, buffer-mode
// index: an owned, growable flat store. Because Grow.Buffer() may
// return a new base pointer after a reallocating append, View always
// re-derives its Buffer snapshot rather than caching one.
type mutableBufferRing struct {
	g *tbuf.Grow
}

func (r *mutableBufferRing) Len() int { return r.g.Len() }

func (r *mutableBufferRing) View(ord int) kview.View {
	buf := r.g.Buffer()
	return kview.BufferView(&buf, ord)
}
