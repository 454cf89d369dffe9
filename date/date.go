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

// Package date provides a compact absolute timestamp type.
//
// A Time is a signed 64-bit count of microseconds since the Unix
// epoch, which is exactly the in-memory representation of a
// datetime64 buffer element. Conversions to and from time.Time
// exist for interoperability at the edges; the hot paths only ever
// touch the integer.
package date

import (
	"time"
)

// A Time represents an absolute point in time with microsecond
// resolution. The zero Time is the Unix epoch.
type Time struct {
	us int64
}

// UnixMicro constructs a Time from a count of microseconds
// since the Unix epoch.
func UnixMicro(us int64) Time {
	return Time{us: us}
}

// Unix constructs a Time from seconds and nanoseconds since the
// Unix epoch. Nanosecond precision below one microsecond is
// discarded.
func Unix(sec, ns int64) Time {
	return Time{us: sec*1e6 + ns/1e3}
}

// FromTime converts a time.Time, discarding sub-microsecond
// precision.
func FromTime(t time.Time) Time {
	return Time{us: t.UnixMicro()}
}

// Now returns the current time.
func Now() Time {
	return FromTime(time.Now())
}

// UnixMicro returns t as microseconds since the Unix epoch.
func (t Time) UnixMicro() int64 { return t.us }

// Unix returns t as seconds since the Unix epoch.
func (t Time) Unix() int64 { return t.us / 1e6 }

// Time converts t to a time.Time in UTC.
func (t Time) Time() time.Time {
	return time.UnixMicro(t.us).UTC()
}

// Equal reports whether t and t2 denote the same instant.
func (t Time) Equal(t2 Time) bool { return t.us == t2.us }

// Before reports whether t is strictly before t2.
func (t Time) Before(t2 Time) bool { return t.us < t2.us }

// After reports whether t is strictly after t2.
func (t Time) After(t2 Time) bool { return t.us > t2.us }

// IsZero reports whether t is the zero Time (the Unix epoch).
func (t Time) IsZero() bool { return t.us == 0 }

// Add returns t shifted by d, truncated to microseconds.
func (t Time) Add(d time.Duration) Time {
	return Time{us: t.us + d.Microseconds()}
}

// String formats t as RFC3339 with microsecond precision.
func (t Time) String() string {
	return t.Time().Format("2006-01-02T15:04:05.999999Z07:00")
}
