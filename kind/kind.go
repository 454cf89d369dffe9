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

// Package kind defines the tag that fixes the key representation of an
// index at construction time: one opaque-object kind, plus the
// fixed-width numeric, timestamp, and text element kinds a typed
// buffer can hold.
package kind

import "fmt"

// Kind is one of the key representations an index can be built over.
// It is immutable once an index is constructed.
type Kind uint8

const (
	// Object marks an opaque, heap-allocated Go key with user-supplied
	// hashing and equality (see the Key interface in internal/kview).
	Object Kind = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float16
	Float32
	Float64
	// Datetime64 is an 8-byte signed integer count of microseconds
	// since the Unix epoch, hashed and compared as that integer.
	Datetime64
	// Unicode is a fixed-width run of Unicode code points; the width
	// (code points per element) lives alongside the Kind, not in it.
	Unicode
	// Bytes is a fixed-width run of raw bytes; same width caveat as
	// Unicode.
	Bytes
)

func (k Kind) String() string {
	switch k {
	case Object:
		return "object"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Datetime64:
		return "datetime64"
	case Unicode:
		return "unicode"
	case Bytes:
		return "bytes"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Numeric reports whether k is one of the integer/float/datetime kinds
// that participate in cross-width canonical numeric equality.
func (k Kind) Numeric() bool {
	switch k {
	case Int8, Int16, Int32, Int64,
		Uint8, Uint16, Uint32, Uint64,
		Float16, Float32, Float64,
		Datetime64:
		return true
	}
	return false
}

// Signed reports whether k is one of the signed integer kinds.
func (k Kind) Signed() bool {
	switch k {
	case Int8, Int16, Int32, Int64, Datetime64:
		return true
	}
	return false
}

// Float reports whether k is one of the floating-point kinds.
func (k Kind) Float() bool {
	switch k {
	case Float16, Float32, Float64:
		return true
	}
	return false
}

// FixedText reports whether k's elements are a fixed-width run of
// code points or bytes rather than a scalar numeric value.
func (k Kind) FixedText() bool {
	return k == Unicode || k == Bytes
}

// ElemSize returns the size in bytes of one buffer element of kind k.
// For Unicode and Bytes, width is the caller-supplied element width
// (code points or bytes per element, respectively); ElemSize reports
// the corresponding byte count. ElemSize panics for Object, which has
// no fixed buffer representation.
func (k Kind) ElemSize(width int) int {
	switch k {
	case Int8, Uint8:
		return 1
	case Int16, Uint16, Float16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64, Datetime64:
		return 8
	case Unicode:
		return width * 4 // UCS-4: one int32 code point per slot
	case Bytes:
		return width
	default:
		panic(fmt.Sprintf("kind: %s has no fixed buffer representation", k))
	}
}
