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

package date

import (
	"testing"
	"time"
)

func TestUnixMicroRoundTrip(t *testing.T) {
	for _, us := range []int64{0, 1, -1, 1_600_000_000_000_000, -62_135_596_800_000_000} {
		if got := UnixMicro(us).UnixMicro(); got != us {
			t.Errorf("%d: got %d", us, got)
		}
	}
}

func TestFromTime(t *testing.T) {
	ref := time.Date(2022, 3, 14, 15, 9, 26, 535_897_000, time.UTC)
	d := FromTime(ref)
	if got := d.Time(); !got.Equal(ref.Truncate(time.Microsecond)) {
		t.Errorf("got %v, want %v", got, ref)
	}
	if d.Unix() != ref.Unix() {
		t.Errorf("Unix: got %d, want %d", d.Unix(), ref.Unix())
	}
}

func TestOrdering(t *testing.T) {
	a, b := UnixMicro(100), UnixMicro(200)
	if !a.Before(b) || b.Before(a) || !b.After(a) {
		t.Error("ordering broken")
	}
	if !a.Equal(UnixMicro(100)) || a.Equal(b) {
		t.Error("equality broken")
	}
	if got := a.Add(100 * time.Microsecond); !got.Equal(b) {
		t.Errorf("Add: got %v", got)
	}
}

func TestString(t *testing.T) {
	d := Unix(1_600_000_000, 0)
	if got := d.String(); got != "2020-09-13T12:26:40Z" {
		t.Errorf("String: got %q", got)
	}
}
