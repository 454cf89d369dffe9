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
	"errors"
	"reflect"
	"testing"

	"github.com/flexatone/arraymap/date"
	"github.com/flexatone/arraymap/tbuf"
)

func TestMarshalRoundTripOpaque(t *testing.T) {
	keys := []any{
		"alpha", int(1), int8(-2), uint16(3), int64(1) << 40,
		3.25, float32(0.5), false, []byte{0xff, 0x00, 0x01},
		date.UnixMicro(1_600_000_000_000_000),
	}
	src, err := NewFrozenKeys(keys)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := src.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	dst := new(FrozenIndex)
	if err := dst.UnmarshalBinary(enc); err != nil {
		t.Fatal(err)
	}
	if !dst.Equal(src) {
		t.Fatal("round trip lost equality")
	}
	gotKeys, _ := collectItems(dst)
	if !reflect.DeepEqual(gotKeys, keys) {
		t.Errorf("round trip changed key types: got %#v", gotKeys)
	}
}

func TestMarshalRoundTripBuffer(t *testing.T) {
	src, err := NewFrozenBuffer(tbuf.Int16([]int16{-300, 0, 300}, false))
	if err != nil {
		t.Fatal(err)
	}
	enc, err := src.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	dst := new(FrozenIndex)
	if err := dst.UnmarshalBinary(enc); err != nil {
		t.Fatal(err)
	}
	if !dst.Equal(src) {
		t.Fatal("round trip lost equality")
	}
	// the decoded index keeps the element kind
	if dst.KeyKind() != src.KeyKind() {
		t.Errorf("kind: got %s, want %s", dst.KeyKind(), src.KeyKind())
	}
	if ord, ok := dst.GetOk(-300); !ok || ord != 0 {
		t.Errorf("GetOk(-300): got %d, %v", ord, ok)
	}
}

func TestMarshalRoundTripUnicode(t *testing.T) {
	data := []int32{'h', 'i', 0, 0, 'y', 'o', 'u', 0}
	src, err := NewFrozenBuffer(tbuf.Unicode(4, data, false))
	if err != nil {
		t.Fatal(err)
	}
	enc, err := src.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	dst := new(FrozenIndex)
	if err := dst.UnmarshalBinary(enc); err != nil {
		t.Fatal(err)
	}
	if ord, ok := dst.GetOk("you"); !ok || ord != 1 {
		t.Errorf("GetOk(you): got %d, %v", ord, ok)
	}
	if dst.KeyWidth() != 4 {
		t.Errorf("width: got %d", dst.KeyWidth())
	}
}

func TestMarshalMutable(t *testing.T) {
	src, err := NewMutableBuffer(tbuf.Float64([]float64{1.5, 2.5}, false))
	if err != nil {
		t.Fatal(err)
	}
	if err := src.Add(3.5); err != nil {
		t.Fatal(err)
	}
	enc, err := src.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	dst := new(MutableIndex)
	if err := dst.UnmarshalBinary(enc); err != nil {
		t.Fatal(err)
	}
	if !dst.Equal(src) {
		t.Fatal("round trip lost equality")
	}
	// the decoded index accepts further appends
	if err := dst.Add(4.5); err != nil {
		t.Fatal(err)
	}
	if src.Contains(4.5) {
		t.Error("decoding aliased the source")
	}
}

func TestMarshalCustomKeyFails(t *testing.T) {
	m := NewMutable()
	if err := m.Add(testKey{7}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.MarshalBinary(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("got %v, want ErrTypeMismatch", err)
	}
}

func TestUnmarshalCorrupt(t *testing.T) {
	src, _ := NewFrozenKeys([]any{"a", "b"})
	enc, err := src.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string][]byte{
		"empty":     {},
		"short":     enc[:1],
		"bad mode":  append([]byte{9}, enc[1:]...),
		"truncated": enc[:len(enc)-2],
	}
	for name, data := range cases {
		dst := new(FrozenIndex)
		if err := dst.UnmarshalBinary(data); err == nil {
			t.Errorf("%s: decode should fail", name)
		}
	}
}

// testKey is an opaque key with caller-defined hashing.
type testKey struct {
	id int
}

func (k testKey) Hash() uint64 { return uint64(k.id) * 0x9e3779b97f4a7c15 }

func (k testKey) Equal(other any) bool {
	o, ok := other.(testKey)
	return ok && o.id == k.id
}

func TestCustomKey(t *testing.T) {
	m := NewMutable()
	for i := 0; i < 10; i++ {
		if err := m.Add(testKey{i}); err != nil {
			t.Fatal(err)
		}
	}
	if ord, ok := m.GetOk(testKey{7}); !ok || ord != 7 {
		t.Errorf("GetOk(testKey{7}): got %d, %v", ord, ok)
	}
	if err := m.Add(testKey{3}); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate custom key: got %v", err)
	}
	if m.Contains(7) {
		t.Error("numeric probe should not match custom key")
	}
}
