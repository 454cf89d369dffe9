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

package compr

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	src := make([]byte, 1<<16)
	rng := rand.New(rand.NewSource(0x5eed))
	// half-compressible input: repeated runs with random lengths
	for i := 0; i < len(src); {
		b := byte(rng.Intn(256))
		run := 1 + rng.Intn(32)
		for j := 0; j < run && i < len(src); j++ {
			src[i] = b
			i++
		}
	}
	for _, name := range []string{"s2", "zstd", "zstd-better"} {
		cmp := Compression(name)
		if cmp == nil {
			t.Fatalf("Compression(%q) = nil", name)
		}
		dec := Decompression(name)
		if dec == nil {
			t.Fatalf("Decompression(%q) = nil", name)
		}
		packed := cmp.Compress(src, nil)
		out := make([]byte, len(src))
		if err := dec.Decompress(packed, out); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !bytes.Equal(out, src) {
			t.Fatalf("%s: round trip mismatch", name)
		}
	}
}

func TestCompressAppends(t *testing.T) {
	prefix := []byte("header:")
	cmp := Compression("s2")
	out := cmp.Compress([]byte("payload payload payload"), append([]byte(nil), prefix...))
	if !bytes.HasPrefix(out, prefix) {
		t.Fatal("Compress must append to dst")
	}
}

func TestUnknownName(t *testing.T) {
	if Compression("nope") != nil || Decompression("nope") != nil {
		t.Fatal("unknown algorithm should yield nil")
	}
}
