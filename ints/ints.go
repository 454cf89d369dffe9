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

// Package ints provides the power-of-two helpers the slot array
// sizes itself with.
package ints

import (
	"golang.org/x/exp/constraints"
)

// IsPow2 returns true if and only if v is a power of two.
func IsPow2[T constraints.Unsigned](v T) bool {
	return v != 0 && v&(v-1) == 0
}

// NextPow2 returns the smallest power of two >= v.
// NextPow2(0) is 1.
func NextPow2[T constraints.Unsigned](v T) T {
	if v <= 1 {
		return 1
	}
	v--
	for shift := uint(1); shift < uint(8*8); shift *= 2 {
		v |= v >> shift
	}
	return v + 1
}
