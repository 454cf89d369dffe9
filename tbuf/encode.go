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

import "unsafe"

// EncodeElem returns v's in-memory byte representation, in the host's
// native layout -- the same layout At/elemAt read back via unsafe
// pointer casts, so a Grow built from EncodeElem output round-trips
// through Buffer.At exactly.
func EncodeElem[T any](v T) []byte {
	sz := int(unsafe.Sizeof(v))
	out := make([]byte, sz)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(&v)), sz))
	return out
}

// EncodeUnicode renders s as width code points (truncating or NUL-padding
// as needed) in the 4-byte-per-rune layout runesAt expects.
func EncodeUnicode(s string, width int) []byte {
	rs := []rune(s)
	out := make([]byte, width*4)
	for i := 0; i < width && i < len(rs); i++ {
		b := EncodeElem(rs[i])
		copy(out[i*4:], b)
	}
	return out
}

// EncodeBytes renders b as a width-byte element, truncating or
// zero-padding as needed.
func EncodeBytes(b []byte, width int) []byte {
	out := make([]byte, width)
	n := len(b)
	if n > width {
		n = width
	}
	copy(out, b[:n])
	return out
}
