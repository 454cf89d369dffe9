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

import "math"

// IEEE-754 binary16 conversion. Float16 buffer elements are stored
// as raw bit patterns; every read promotes to float64 and every
// write narrows from float64, so these two routines are the only
// places the 16-bit format is interpreted.

// Float16ToFloat64 decodes an IEEE-754 binary16 bit pattern.
func Float16ToFloat64(bits uint16) float64 {
	sign := uint32(bits>>15) & 0x1
	exp := uint32(bits>>10) & 0x1f
	frac := uint32(bits) & 0x3ff

	var f32bits uint32
	switch exp {
	case 0:
		if frac == 0 {
			f32bits = sign << 31
		} else {
			// subnormal binary16: normalize into a normal float32
			e := -1
			for frac&0x400 == 0 {
				frac <<= 1
				e--
			}
			frac &= 0x3ff
			exp32 := uint32(int32(127-15+1) + int32(e))
			f32bits = (sign << 31) | (exp32 << 23) | (frac << 13)
		}
	case 0x1f:
		// inf/NaN
		f32bits = (sign << 31) | (0xff << 23) | (frac << 13)
	default:
		exp32 := exp - 15 + 127
		f32bits = (sign << 31) | (exp32 << 23) | (frac << 13)
	}
	return float64(math.Float32frombits(f32bits))
}

// Float16FromFloat64 encodes v as its nearest IEEE-754 binary16
// bit pattern, rounding the mantissa to nearest, ties to even.
func Float16FromFloat64(v float64) uint16 {
	f32 := math.Float32bits(float32(v))
	if fv := float64(math.Float32frombits(f32)); fv != v && !math.IsNaN(v) {
		// narrow to float32 rounding to odd, so the binary16 rounding
		// below never sees a false tie
		if math.Abs(fv) > math.Abs(v) {
			f32--
		}
		f32 |= 1
	}
	sign := uint16(f32>>16) & 0x8000
	exp32 := int32(f32>>23) & 0xff
	frac32 := f32 & 0x7fffff

	if exp32 == 0xff {
		if frac32 != 0 {
			return sign | 0x7e00 // NaN
		}
		return sign | 0x7c00 // Inf
	}
	exp := exp32 - 127 + 15
	if exp >= 0x1f {
		return sign | 0x7c00 // overflow to Inf
	}
	if exp <= 0 {
		if exp < -10 {
			return sign // flushes to zero
		}
		frac32 |= 0x800000
		shift := uint(14 - exp)
		frac := uint16(frac32 >> shift)
		rem, half := frac32&(1<<shift-1), uint32(1)<<(shift-1)
		if rem > half || (rem == half && frac&1 != 0) {
			frac++
		}
		return sign | frac
	}
	frac := uint16(frac32 >> 13)
	if rem := frac32 & 0x1fff; rem > 0x1000 || (rem == 0x1000 && frac&1 != 0) {
		frac++
	}
	// a carry out of the mantissa bumps the exponent (up to Inf)
	return sign | (uint16(exp)<<10 + frac)
}

// PackFloat16 converts vals to binary16 bit patterns, for use with
// the Float16 buffer constructor.
func PackFloat16(vals []float64) []uint16 {
	out := make([]uint16, len(vals))
	for i, v := range vals {
		out[i] = Float16FromFloat64(v)
	}
	return out
}
