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

// Package utf8 provides helpers for fixed-width text elements.
// Fixed-width storage right-pads each element with zero code points
// (or zero bytes), so the logical value of an element is its contents
// with that trailing padding removed.
package utf8

// TrimZeroRunes returns rs with trailing zero code points removed.
// The result aliases rs.
func TrimZeroRunes(rs []rune) []rune {
	end := len(rs)
	for end > 0 && rs[end-1] == 0 {
		end--
	}
	return rs[:end]
}

// TrimZeroString returns s with trailing zero code points removed.
// A zero code point encodes as a single zero byte, so this is a
// byte-level trim.
func TrimZeroString(s string) string {
	end := len(s)
	for end > 0 && s[end-1] == 0 {
		end--
	}
	return s[:end]
}

// TrimZeroBytes returns b with trailing zero bytes removed.
// The result aliases b.
func TrimZeroBytes(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}
