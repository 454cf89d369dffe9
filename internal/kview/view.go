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

// View is the per-ordinal key view: a cheap value providing
// hash/equals/materialize uniformly across opaque Go values and
// buffer elements of any supported kind, dispatching on a small
// closed set of tags rather than on Go's own dynamic typing.
package kview

import (
	"github.com/flexatone/arraymap/date"
	"github.com/flexatone/arraymap/kind"
	"github.com/flexatone/arraymap/tbuf"
	"github.com/flexatone/arraymap/utf8"
)

// View is the key view over one ordinal. Ring implementations (the
// opaque Key Store and the buffer-backed Key Store) produce a View on
// demand; Views are cheap value types, not retained.
type View struct {
	// buffer-mode fields
	buf *tbuf.Buffer
	ord int

	// object-mode fields
	objCat objCategory
	objNum canonNum
	objStr string
	objKey Key
	objVal any
}

// Ring is the Key Store abstraction the table core probes against:
// it doesn't care whether ordinals are backed by a borrowed typed
// buffer or an owned slice of opaque Go values.
type Ring interface {
	Len() int
	View(ordinal int) View
}

// BufferView constructs the View for the ordinal-th element of buf.
func BufferView(buf *tbuf.Buffer, ordinal int) View {
	return View{buf: buf, ord: ordinal}
}

// ObjectView constructs the View for an already-classified opaque
// value (see NewObjectView in key.go).
func ObjectView(cat objCategory, num canonNum, str string, key Key, orig any) View {
	return View{objCat: cat, objNum: num, objStr: str, objKey: key, objVal: orig, buf: nil}
}

func (v View) isObject() bool { return v.buf == nil }

// Hash computes the view's canonical hash under engine e. Values
// that can compare equal always hash equal: every numeric width
// funnels through the same canonNum, and fixed-width text hashes
// with its trailing zero padding stripped.
func (v View) Hash(e *Engine) uint64 {
	if v.isObject() {
		switch v.objCat {
		case objNumeric:
			return v.objNum.hash(e)
		case objString:
			return e.mixBytes([]byte(v.objStr))
		case objBytes:
			return e.mixBytes([]byte(v.objStr))
		default: // objCustom
			return v.objKey.Hash()
		}
	}
	switch v.buf.Kind() {
	case kind.Unicode:
		return e.mixBytes([]byte(string(utf8.TrimZeroRunes(v.runes()))))
	case kind.Bytes:
		return e.mixBytes(utf8.TrimZeroBytes(v.bytes()))
	default:
		return v.numeric().hash(e)
	}
}

// Equals reports whether v equals the lookup argument represented
// by p. Cross-category probes (say, a string probe against a numeric
// key) are unequal, never an error.
func (v View) Equals(p *Probe) bool {
	if !p.ok {
		return false
	}
	if v.isObject() {
		switch v.objCat {
		case objNumeric:
			return p.cat == catNumeric && v.objNum.equal(p.num)
		case objString:
			return p.cat == catString && v.objStr == p.str
		case objBytes:
			return p.cat == catBytes && v.objStr == string(p.byts)
		default: // objCustom
			return p.cat == catObject && v.objKey.Equal(p.orig)
		}
	}
	switch v.buf.Kind() {
	case kind.Unicode:
		if p.cat != catString {
			return false
		}
		return string(utf8.TrimZeroRunes(v.runes())) == utf8.TrimZeroString(p.str)
	case kind.Bytes:
		if p.cat != catBytes {
			return false
		}
		return string(utf8.TrimZeroBytes(v.bytes())) == string(utf8.TrimZeroBytes(p.byts))
	default:
		return p.cat == catNumeric && v.numeric().equal(p.num)
	}
}

// Materialize produces the host value for this ordinal. Buffer-mode
// numeric elements keep their stored width (an Int8 buffer yields
// int8 values), datetime64 elements become date.Time, and float16
// elements are promoted to float64, the narrowest Go type that can
// hold every binary16 value exactly. Fixed-width text yields the
// logical value, with the storage padding stripped.
func (v View) Materialize() any {
	if v.isObject() {
		return v.objVal
	}
	switch v.buf.Kind() {
	case kind.Unicode:
		return string(utf8.TrimZeroRunes(v.runes()))
	case kind.Bytes:
		return utf8.TrimZeroBytes(v.bytes())
	case kind.Datetime64:
		return date.UnixMicro(v.buf.At(v.ord).(int64))
	case kind.Float16:
		return tbuf.Float16ToFloat64(v.buf.At(v.ord).(uint16))
	default:
		return v.buf.At(v.ord)
	}
}

// numeric canonicalizes the buffer element at this ordinal. Valid
// only for v.buf.Kind().Numeric().
func (v View) numeric() canonNum {
	switch x := v.buf.At(v.ord).(type) {
	case int8:
		return canonFromInt64(int64(x))
	case int16:
		return canonFromInt64(int64(x))
	case int32:
		return canonFromInt64(int64(x))
	case int64:
		// Int64 and Datetime64 both store a signed 64-bit value
		return canonFromInt64(x)
	case uint8:
		return canonFromUint64(uint64(x))
	case uint16:
		if v.buf.Kind() == kind.Float16 {
			return canonFromFloat64(tbuf.Float16ToFloat64(x))
		}
		return canonFromUint64(uint64(x))
	case uint32:
		return canonFromUint64(uint64(x))
	case uint64:
		return canonFromUint64(x)
	case float32:
		return canonFromFloat64(float64(x))
	case float64:
		return canonFromFloat64(x)
	default:
		panic("kview: unreachable numeric kind")
	}
}

func (v View) runes() []rune {
	return []rune(v.buf.At(v.ord).(string))
}

func (v View) bytes() []byte {
	return v.buf.At(v.ord).([]byte)
}
