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

package persist

import (
	"bytes"
	"strings"
	"testing"

	"github.com/flexatone/arraymap"
	"github.com/flexatone/arraymap/tbuf"
)

func TestRoundTripStrings(t *testing.T) {
	src, err := arraymap.NewFrozenKeys([]any{"one", "two", "three"})
	if err != nil {
		t.Fatal(err)
	}
	for _, algo := range []string{"", "s2", "zstd"} {
		var buf bytes.Buffer
		if err := Encode(&buf, src, algo); err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		got, err := Decode(&buf)
		if err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		if !got.Equal(src) {
			t.Fatalf("%s: round trip lost equality", algo)
		}
		var vals []int
		for v := range got.Values() {
			vals = append(vals, v)
		}
		if len(vals) != 3 || vals[0] != 0 || vals[2] != 2 {
			t.Fatalf("%s: ordered values corrupted: %v", algo, vals)
		}
	}
}

func TestRoundTripBuffer(t *testing.T) {
	src, err := arraymap.NewFrozenBuffer(tbuf.Int64([]int64{-5, 0, 5, 1 << 40}, false))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, src, "s2"); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(src) {
		t.Fatal("round trip lost equality")
	}
	if ord, ok := got.GetOk(int64(1) << 40); !ok || ord != 3 {
		t.Errorf("GetOk(2^40): got %d, %v", ord, ok)
	}
}

func TestRoundTripMutable(t *testing.T) {
	src, err := arraymap.NewMutableKeys([]any{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, src, ""); err != nil {
		t.Fatal(err)
	}
	got, err := DecodeMutable(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := got.Add(4); err != nil {
		t.Fatal(err)
	}
	if got.Len() != 4 {
		t.Errorf("len: got %d", got.Len())
	}
}

func TestUnknownAlgo(t *testing.T) {
	src, _ := arraymap.NewFrozenKeys([]any{"x"})
	var buf bytes.Buffer
	if err := Encode(&buf, src, "lz4"); err == nil {
		t.Fatal("unknown algorithm should fail")
	}
}

func TestBadMagic(t *testing.T) {
	if _, err := Decode(strings.NewReader("XXXX.....")); err == nil {
		t.Fatal("bad magic should fail")
	}
}

func TestChecksumMismatch(t *testing.T) {
	src, err := arraymap.NewFrozenKeys([]any{"aaaa", "bbbb", "cccc"})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, src, "s2"); err != nil {
		t.Fatal(err)
	}
	enc := buf.Bytes()
	// flip one bit inside the stored checksum
	enc[len(Magic)+1+1+2+1] ^= 0x80
	if _, err := Decode(bytes.NewReader(enc)); err == nil {
		t.Fatal("corrupted frame should fail decode")
	}
}

func TestTruncated(t *testing.T) {
	src, _ := arraymap.NewFrozenKeys([]any{"p", "q"})
	var buf bytes.Buffer
	if err := Encode(&buf, src, "s2"); err != nil {
		t.Fatal(err)
	}
	enc := buf.Bytes()
	for _, n := range []int{0, 3, 5, 8, len(enc) - 1} {
		if _, err := Decode(bytes.NewReader(enc[:n])); err == nil {
			t.Errorf("truncation to %d bytes should fail", n)
		}
	}
}
