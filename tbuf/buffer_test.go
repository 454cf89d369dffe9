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
	"math"
	"reflect"
	"testing"

	"github.com/flexatone/arraymap/kind"
)

func TestAtWidths(t *testing.T) {
	cases := []struct {
		buf  Buffer
		want []any
	}{
		{Int8([]int8{-1, 2}, false), []any{int8(-1), int8(2)}},
		{Int16([]int16{-300}, false), []any{int16(-300)}},
		{Int32([]int32{1 << 20}, false), []any{int32(1 << 20)}},
		{Int64([]int64{-1 << 40}, false), []any{int64(-1 << 40)}},
		{Uint8([]uint8{255}, false), []any{uint8(255)}},
		{Uint16([]uint16{65535}, false), []any{uint16(65535)}},
		{Uint32([]uint32{1 << 30}, false), []any{uint32(1 << 30)}},
		{Uint64([]uint64{1 << 63}, false), []any{uint64(1) << 63}},
		{Float32([]float32{0.5}, false), []any{float32(0.5)}},
		{Float64([]float64{-2.25}, false), []any{-2.25}},
		{Datetime64([]int64{99}, false), []any{int64(99)}},
	}
	for _, c := range cases {
		if c.buf.Len() != len(c.want) {
			t.Fatalf("%s: Len %d", c.buf.Kind(), c.buf.Len())
		}
		for i, want := range c.want {
			if got := c.buf.At(i); !reflect.DeepEqual(got, want) {
				t.Errorf("%s At(%d): got %T %v, want %T %v", c.buf.Kind(), i, got, got, want, want)
			}
		}
	}
}

func TestUnicodeBuffer(t *testing.T) {
	b := Unicode(3, []int32{'f', 'o', 'o', 'b', 0, 0}, false)
	if b.Len() != 2 {
		t.Fatalf("Len: %d", b.Len())
	}
	if got := b.At(0); got != "foo" {
		t.Errorf("At(0): %q", got)
	}
	// padding is storage, not value trimming; At returns it
	if got := b.At(1); got != "b\x00\x00" {
		t.Errorf("At(1): %q", got)
	}
	if b.ElemSize() != 12 {
		t.Errorf("ElemSize: %d", b.ElemSize())
	}
}

func TestBytesBuffer(t *testing.T) {
	b := Bytes(2, []byte{'x', 'y', 'z', 0}, false)
	if b.Len() != 2 {
		t.Fatalf("Len: %d", b.Len())
	}
	if got := b.At(1).([]byte); !reflect.DeepEqual(got, []byte{'z', 0}) {
		t.Errorf("At(1): %v", got)
	}
}

func TestElemBytesRoundTrip(t *testing.T) {
	b := Int32([]int32{7, -7}, false)
	raw := b.ElemBytes(1)
	if len(raw) != 4 {
		t.Fatalf("ElemBytes len: %d", len(raw))
	}
	all := b.RawBytes()
	if len(all) != 8 {
		t.Fatalf("RawBytes len: %d", len(all))
	}
	cp := make([]byte, len(all))
	copy(cp, all)
	b2 := FromRaw(kind.Int32, 0, cp, false)
	if b2.Len() != 2 || b2.At(0) != int32(7) || b2.At(1) != int32(-7) {
		t.Errorf("FromRaw round trip: %v %v", b2.At(0), b2.At(1))
	}
}

func TestGrowAppend(t *testing.T) {
	g := NewGrow(kind.Uint16, 0)
	for i := 0; i < 100; i++ {
		g.Append(EncodeElem(uint16(i * 3)))
	}
	if g.Len() != 100 {
		t.Fatalf("Len: %d", g.Len())
	}
	buf := g.Buffer()
	if buf.At(99) != uint16(297) {
		t.Errorf("At(99): %v", buf.At(99))
	}
	cl := g.Clone()
	cl.Append(EncodeElem(uint16(999)))
	if g.Len() != 100 || cl.Len() != 101 {
		t.Errorf("clone aliasing: %d, %d", g.Len(), cl.Len())
	}
}

func TestEncodeUnicode(t *testing.T) {
	raw := EncodeUnicode("hi", 4)
	b := FromRaw(kind.Unicode, 4, raw, false)
	if got := b.At(0); got != "hi\x00\x00" {
		t.Errorf("got %q", got)
	}
	// over-width input truncates at the element boundary
	raw = EncodeUnicode("abcdef", 4)
	b = FromRaw(kind.Unicode, 4, raw, false)
	if got := b.At(0); got != "abcd" {
		t.Errorf("got %q", got)
	}
}

func TestFloat16RoundTrip(t *testing.T) {
	vals := []float64{0, 0.5, 1, 1.5, -2, 65504, 0.0009765625}
	for _, v := range vals {
		bits := Float16FromFloat64(v)
		if got := Float16ToFloat64(bits); got != v {
			t.Errorf("%v: round trip gave %v", v, got)
		}
	}
	if !math.IsInf(Float16ToFloat64(0x7c00), 1) {
		t.Error("0x7c00 should decode to +inf")
	}
	if !math.IsNaN(Float16ToFloat64(0x7e00)) {
		t.Error("0x7e00 should decode to NaN")
	}
	if got := Float16ToFloat64(0x8000); got != 0 || !math.Signbit(got) {
		t.Error("0x8000 should decode to -0")
	}
	// 2049 is not representable in binary16; nearest is 2048
	if got := Float16ToFloat64(Float16FromFloat64(2049)); got != 2048 {
		t.Errorf("2049 rounded to %v", got)
	}
}

func TestReadOnly(t *testing.T) {
	b := Int8([]int8{1}, true)
	if !b.Writeable() {
		t.Fatal("expected writeable")
	}
	r := b.ReadOnly()
	if r.Writeable() || !b.Writeable() {
		t.Fatal("ReadOnly should clear only the copy's flag")
	}
}
