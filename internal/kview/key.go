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

package kview

import "github.com/flexatone/arraymap/date"

// Key is the interface an Object-kind index requires from any key
// value that is not one of the built-in comparable primitives (bool,
// the sized integer and float types, string, []byte, date.Time): an
// opaque heap value with caller-defined equality and hashing.
//
// Hash and Equal must agree: if a.Equal(b) then a.Hash() == b.Hash().
type Key interface {
	Hash() uint64
	Equal(other any) bool
}

// objCategory classifies an opaque (Object-kind) value for storage and
// comparison purposes. Built-in comparable primitives are canonicalized
// through the same numeric/text rules the buffer kinds use (so that
// int(1), uint8(1), float64(1.0), and true all collide as keys), while
// anything else must implement Key.
type objCategory uint8

const (
	objNumeric objCategory = iota
	objString
	objBytes
	objCustom
)

// NewObjectView classifies x and builds its View directly, for Object-
// kind rings that store raw Go values. ok is false when x's type is
// wholly unsupported (not a built-in comparable primitive and not a
// Key).
func NewObjectView(x any) (View, bool) {
	cat, num, str, key, ok := classify(x)
	if !ok {
		return View{}, false
	}
	return ObjectView(cat, num, str, key, x), true
}

func classify(x any) (objCategory, canonNum, string, Key, bool) {
	switch v := x.(type) {
	case bool:
		return objNumeric, canonFromBool(v), "", nil, true
	case int:
		return objNumeric, canonFromInt64(int64(v)), "", nil, true
	case int8:
		return objNumeric, canonFromInt64(int64(v)), "", nil, true
	case int16:
		return objNumeric, canonFromInt64(int64(v)), "", nil, true
	case int32:
		return objNumeric, canonFromInt64(int64(v)), "", nil, true
	case int64:
		return objNumeric, canonFromInt64(v), "", nil, true
	case uint:
		return objNumeric, canonFromUint64(uint64(v)), "", nil, true
	case uint8:
		return objNumeric, canonFromUint64(uint64(v)), "", nil, true
	case uint16:
		return objNumeric, canonFromUint64(uint64(v)), "", nil, true
	case uint32:
		return objNumeric, canonFromUint64(uint64(v)), "", nil, true
	case uint64:
		return objNumeric, canonFromUint64(v), "", nil, true
	case float32:
		return objNumeric, canonFromFloat64(float64(v)), "", nil, true
	case float64:
		return objNumeric, canonFromFloat64(v), "", nil, true
	case date.Time:
		return objNumeric, canonFromInt64(v.UnixMicro()), "", nil, true
	case string:
		return objString, canonNum{}, v, nil, true
	case []byte:
		// Go strings are comparable and hashable as plain byte runs,
		// so []byte keys are stored as a string copy rather than in a
		// second representation
		return objBytes, canonNum{}, string(v), nil, true
	case Key:
		return objCustom, canonNum{}, "", v, true
	default:
		return 0, canonNum{}, "", nil, false
	}
}
