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

// The constructors below alias a live Go slice's backing array rather
// than copying it. The returned Buffer is only valid for as long as
// the caller keeps the slice alive and unmodified.

func fromSlice[T any](k kind.Kind, s []T, writeable bool) Buffer {
	var ptr unsafe.Pointer
	if len(s) > 0 {
		ptr = unsafe.Pointer(&s[0])
	}
	return Buffer{kind: k, len: len(s), ptr: ptr, writeable: writeable}
}

func Int8(s []int8, writeable bool) Buffer     { return fromSlice(kind.Int8, s, writeable) }
func Int16(s []int16, writeable bool) Buffer   { return fromSlice(kind.Int16, s, writeable) }
func Int32(s []int32, writeable bool) Buffer   { return fromSlice(kind.Int32, s, writeable) }
func Int64(s []int64, writeable bool) Buffer   { return fromSlice(kind.Int64, s, writeable) }
func Uint8(s []uint8, writeable bool) Buffer   { return fromSlice(kind.Uint8, s, writeable) }
func Uint16(s []uint16, writeable bool) Buffer { return fromSlice(kind.Uint16, s, writeable) }
func Uint32(s []uint32, writeable bool) Buffer { return fromSlice(kind.Uint32, s, writeable) }
func Uint64(s []uint64, writeable bool) Buffer { return fromSlice(kind.Uint64, s, writeable) }
func Float32(s []float32, writeable bool) Buffer { return fromSlice(kind.Float32, s, writeable) }
func Float64(s []float64, writeable bool) Buffer { return fromSlice(kind.Float64, s, writeable) }

// Float16 builds a buffer over raw IEEE-754 binary16 bit patterns.
func Float16(bits []uint16, writeable bool) Buffer {
	return fromSlice(kind.Float16, bits, writeable)
}

// Datetime64 builds a buffer of 8-byte absolute timestamps, each an
// integer count of microseconds since the Unix epoch.
func Datetime64(us []int64, writeable bool) Buffer {
	return fromSlice(kind.Datetime64, us, writeable)
}

// Unicode builds a buffer of fixed-width Unicode strings, width code
// points per element, right-padded with zero code points. data must have
// length n*width.
func Unicode(width int, data []int32, writeable bool) Buffer {
	b := fromSlice(kind.Unicode, data, writeable)
	if width <= 0 {
		panic("tbuf: Unicode width must be positive")
	}
	b.elemWidth = width
	b.len = len(data) / width
	return b
}

// FromRaw builds a buffer of kind k directly over raw element
// storage, len(data)/elemsize elements in the host's native layout.
// data must be a whole number of elements.
func FromRaw(k kind.Kind, elemWidth int, data []byte, writeable bool) Buffer {
	sz := k.ElemSize(elemWidth)
	if len(data)%sz != 0 {
		panic("tbuf: raw storage is not a whole number of elements")
	}
	b := fromSlice(k, data, writeable)
	b.elemWidth = elemWidth
	b.len = len(data) / sz
	return b
}

// Bytes builds a buffer of fixed-width byte strings, width bytes per
// element, right-padded with zero bytes. data must have length n*width.
func Bytes(width int, data []byte, writeable bool) Buffer {
	b := fromSlice(kind.Bytes, data, writeable)
	if width <= 0 {
		panic("tbuf: Bytes width must be positive")
	}
	b.elemWidth = width
	b.len = len(data) / width
	return b
}
