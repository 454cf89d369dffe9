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

package tbuf

import (
	"unsafe"

	"github.com/flexatone/arraymap/kind"
)

// Grow is an owned, append-only flat element store. Where Buffer
// borrows externally owned storage, Grow owns and reallocates its
// own: appends may relocate the backing array, so Grow hands out a
// fresh Buffer snapshot on request rather than handing out a pointer
// once.
type Grow struct {
	k         kind.Kind
	elemWidth int
	elemSize  int
	raw       []byte
	n         int
}

// NewGrow allocates an empty Grow for elements of kind k. elemWidth is
// meaningful only for Unicode (code points per element) and Bytes (bytes
// per element).
func NewGrow(k kind.Kind, elemWidth int) *Grow {
	return &Grow{k: k, elemWidth: elemWidth, elemSize: k.ElemSize(elemWidth)}
}

// Len reports the number of appended elements.
func (g *Grow) Len() int { return g.n }

// Append copies elem (which must be exactly g.elemSize bytes, in the
// host's native layout) onto the end of the store.
func (g *Grow) Append(elem []byte) {
	if len(elem) != g.elemSize {
		panic("tbuf: element size mismatch")
	}
	g.raw = append(g.raw, elem...)
	g.n++
}

// Clone returns a deep copy of g with its own backing storage.
func (g *Grow) Clone() *Grow {
	raw := make([]byte, len(g.raw))
	copy(raw, g.raw)
	return &Grow{k: g.k, elemWidth: g.elemWidth, elemSize: g.elemSize, raw: raw, n: g.n}
}

// Buffer returns a snapshot Buffer over the store's current backing
// array. The snapshot is invalidated by any subsequent Append that
// reallocates, so callers must re-fetch it after every mutation.
func (g *Grow) Buffer() Buffer {
	if g.n == 0 {
		return Raw(g.k, g.elemWidth, 0, nil, true)
	}
	return Raw(g.k, g.elemWidth, g.n, unsafe.Pointer(&g.raw[0]), true)
}
