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

import (
	"math"
	"testing"
)

func TestCanonEqual(t *testing.T) {
	cases := []struct {
		a, b  canonNum
		equal bool
	}{
		{canonFromInt64(20), canonFromUint64(20), true},
		{canonFromInt64(20), canonFromFloat64(20.0), true},
		{canonFromBool(true), canonFromInt64(1), true},
		{canonFromBool(false), canonFromFloat64(0.0), true},
		{canonFromInt64(20), canonFromFloat64(20.1), false},
		{canonFromInt64(-1), canonFromUint64(math.MaxUint64), false},
		{canonFromUint64(1 << 63), canonFromUint64(1 << 63), true},
		{canonFromUint64(1 << 63), canonFromInt64(math.MinInt64), false},
		{canonFromFloat64(0.5), canonFromFloat64(0.5), true},
		{canonFromFloat64(math.NaN()), canonFromFloat64(math.NaN()), false},
		{canonFromFloat64(0.0), canonFromFloat64(math.Copysign(0, -1)), true},
	}
	for i, c := range cases {
		if got := c.a.equal(c.b); got != c.equal {
			t.Errorf("case %d: equal = %v, want %v", i, got, c.equal)
		}
		// equality is symmetric
		if got := c.b.equal(c.a); got != c.equal {
			t.Errorf("case %d: reversed equal = %v, want %v", i, got, c.equal)
		}
	}
}

func TestCanonHashAgreement(t *testing.T) {
	// values that compare equal must hash equal
	e := &Stable
	pairs := [][2]canonNum{
		{canonFromInt64(20), canonFromUint64(20)},
		{canonFromInt64(20), canonFromFloat64(20.0)},
		{canonFromBool(true), canonFromFloat64(1.0)},
		{canonFromInt64(-7), canonFromFloat64(-7.0)},
		{canonFromUint64(1 << 63), canonFromFloat64(9223372036854775808.0)},
		{canonFromFloat64(0.0), canonFromFloat64(math.Copysign(0, -1))},
	}
	for i, p := range pairs {
		if !p[0].equal(p[1]) {
			t.Errorf("pair %d: expected equal", i)
		}
		if p[0].hash(e) != p[1].hash(e) {
			t.Errorf("pair %d: hashes differ", i)
		}
	}
}

func TestCanonFloatClassification(t *testing.T) {
	if c := canonFromFloat64(3.0); !c.hasInt || c.i != 3 {
		t.Errorf("3.0: %+v", c)
	}
	if c := canonFromFloat64(3.5); !c.nonIntegral {
		t.Errorf("3.5: %+v", c)
	}
	if c := canonFromFloat64(18446744073709549568.0); !c.hasUint {
		t.Errorf("largest sub-2^64 float: %+v", c)
	}
	if c := canonFromFloat64(18446744073709551616.0); !c.nonIntegral {
		t.Errorf("2^64 should stay a float: %+v", c)
	}
	if c := canonFromFloat64(1e300); !c.nonIntegral {
		t.Errorf("1e300 should stay a float: %+v", c)
	}
	if c := canonFromFloat64(math.Inf(1)); !c.nonIntegral {
		t.Errorf("+inf: %+v", c)
	}
}

func TestVolatileEngineDiffers(t *testing.T) {
	a := NewVolatileEngine()
	b := NewVolatileEngine()
	if a == b {
		t.Fatal("two volatile engines drew the same key")
	}
	if a.mix64(42) == Stable.mix64(42) && a.mix64(43) == Stable.mix64(43) {
		t.Fatal("volatile engine matches the stable key")
	}
}
