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

package utf8

import (
	"reflect"
	"testing"
)

func TestTrimZeroString(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"\x00", ""},
		{"\x00\x00\x00", ""},
		{"abc", "abc"},
		{"abc\x00", "abc"},
		{"abc\x00\x00", "abc"},
		{"a\x00b", "a\x00b"}, // interior zeros are value, not padding
	}
	for _, c := range cases {
		if got := TrimZeroString(c.in); got != c.want {
			t.Errorf("TrimZeroString(%q): got %q", c.in, got)
		}
	}
}

func TestTrimZeroRunes(t *testing.T) {
	in := []rune{'x', 0, 'y', 0, 0}
	if got := TrimZeroRunes(in); !reflect.DeepEqual(got, []rune{'x', 0, 'y'}) {
		t.Errorf("got %v", got)
	}
	if got := TrimZeroRunes(nil); len(got) != 0 {
		t.Errorf("nil: got %v", got)
	}
}

func TestTrimZeroBytes(t *testing.T) {
	in := []byte{1, 0, 2, 0}
	if got := TrimZeroBytes(in); !reflect.DeepEqual(got, []byte{1, 0, 2}) {
		t.Errorf("got %v", got)
	}
	if got := TrimZeroBytes([]byte{0, 0}); len(got) != 0 {
		t.Errorf("all zero: got %v", got)
	}
}
