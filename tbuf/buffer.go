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

// Package tbuf implements the minimal typed-buffer contract that an index
// borrows when it is constructed in buffer mode: a (kind, element width,
// element count, base pointer, writeable flag) tuple over contiguous,
// row-major storage. It intentionally does not attempt to be a general
// purpose typed-array library (that library is an external collaborator
// per the system's scope) -- it is only as rich as FrozenIndex/MutableIndex
// and the GetAll/GetAny bulk paths require.
package tbuf

import (
	"fmt"
	"unsafe"

	"github.com/flexatone/arraymap/kind"
)

// Buffer is a borrowed view over externally owned, contiguous storage.
// The zero Buffer is not valid; use one of the typed constructors or
// Raw.
type Buffer struct {
	kind      kind.Kind
	elemWidth int // for Unicode/Bytes: code points/bytes per element; else unused
	len       int
	ptr       unsafe.Pointer
	writeable bool
}

// Raw builds a Buffer directly from its component fields. It is the Go
// realization of the "typed buffer supplier" handle described in the
// system's external interface: callers that already have a pointer into
// externally-owned, row-major storage (e.g. a binding layer over another
// language's array object) use this instead of one of the slice-backed
// constructors, which always copy-free alias a live Go slice.
func Raw(k kind.Kind, elemWidth, length int, ptr unsafe.Pointer, writeable bool) Buffer {
	return Buffer{kind: k, elemWidth: elemWidth, len: length, ptr: ptr, writeable: writeable}
}

// Kind reports the buffer's element kind.
func (b *Buffer) Kind() kind.Kind { return b.kind }

// ElemWidth reports the per-element width for Unicode/Bytes kinds (code
// points or bytes per element); it is meaningless for other kinds.
func (b *Buffer) ElemWidth() int { return b.elemWidth }

// Len reports the element count.
func (b *Buffer) Len() int { return b.len }

// Writeable reports whether the backing storage may be mutated by some
// other owner. Buffer-mode construction requires this to be false.
func (b *Buffer) Writeable() bool { return b.writeable }

// ReadOnly returns a copy of the handle with the writeable flag
// cleared. The storage itself is unchanged.
func (b Buffer) ReadOnly() Buffer {
	b.writeable = false
	return b
}

// ElemSize is the byte size of one element.
func (b *Buffer) ElemSize() int { return b.kind.ElemSize(b.elemWidth) }

// Ptr returns the base pointer of the borrowed storage. Callers must not
// retain it beyond the lifetime of the Buffer's owner.
func (b *Buffer) Ptr() unsafe.Pointer { return b.ptr }

// At returns the element at index i, materialized as the Go-native value
// that best reflects its stored width (matching the "iteration yields
// host-native typed scalars" requirement): int8 for an Int8 buffer,
// uint32 for a Uint32 buffer, and so on. Unicode and Bytes elements are
// returned as string and []byte respectively, with no NUL trimming (that
// is a hashing/equality concern, not a materialization one).
func (b *Buffer) At(i int) any {
	if i < 0 || i >= b.len {
		panic(fmt.Sprintf("tbuf: index %d out of range [0,%d)", i, b.len))
	}
	switch b.kind {
	case kind.Int8:
		return *elemAt[int8](b, i)
	case kind.Int16:
		return *elemAt[int16](b, i)
	case kind.Int32:
		return *elemAt[int32](b, i)
	case kind.Int64:
		return *elemAt[int64](b, i)
	case kind.Uint8:
		return *elemAt[uint8](b, i)
	case kind.Uint16:
		return *elemAt[uint16](b, i)
	case kind.Uint32:
		return *elemAt[uint32](b, i)
	case kind.Uint64:
		return *elemAt[uint64](b, i)
	case kind.Float16:
		return *elemAt[uint16](b, i) // raw binary16 bits; see kview for decode
	case kind.Float32:
		return *elemAt[float32](b, i)
	case kind.Float64:
		return *elemAt[float64](b, i)
	case kind.Datetime64:
		return *elemAt[int64](b, i)
	case kind.Unicode:
		return string(runesAt(b, i))
	case kind.Bytes:
		return bytesAt(b, i)
	default:
		panic(fmt.Sprintf("tbuf: unsupported kind %s", b.kind))
	}
}

func elemAt[T any](b *Buffer, i int) *T {
	var zero T
	sz := int(unsafe.Sizeof(zero))
	return (*T)(unsafe.Add(b.ptr, i*sz))
}

// runesAt returns the i-th fixed-width Unicode element as a rune slice,
// including any trailing zero code points (storage padding).
func runesAt(b *Buffer, i int) []rune {
	n := b.elemWidth
	base := unsafe.Add(b.ptr, i*n*4)
	out := make([]rune, n)
	for j := 0; j < n; j++ {
		cp := *(*int32)(unsafe.Add(base, j*4))
		out[j] = rune(cp)
	}
	return out
}

// ElemBytes returns the raw storage bytes of the i-th element, in the
// host's native layout. The result aliases the backing storage.
func (b *Buffer) ElemBytes(i int) []byte {
	if i < 0 || i >= b.len {
		panic(fmt.Sprintf("tbuf: index %d out of range [0,%d)", i, b.len))
	}
	sz := b.ElemSize()
	return unsafe.Slice((*byte)(unsafe.Add(b.ptr, i*sz)), sz)
}

// RawBytes returns the full backing storage as one byte run of
// Len()*ElemSize() bytes. The result aliases the backing storage.
func (b *Buffer) RawBytes() []byte {
	if b.len == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(b.ptr), b.len*b.ElemSize())
}

// bytesAt returns the i-th fixed-width byte-string element, including any
// trailing zero bytes (storage padding).
func bytesAt(b *Buffer, i int) []byte {
	n := b.elemWidth
	base := unsafe.Add(b.ptr, i*n)
	out := make([]byte, n)
	for j := 0; j < n; j++ {
		out[j] = *(*byte)(unsafe.Add(base, j))
	}
	return out
}
