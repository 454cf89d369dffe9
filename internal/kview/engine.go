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

// Package kview unifies opaque Go values and typed-buffer elements
// under one keying protocol: canonical hashing, canonical equality,
// and materialization, per ordinal.
package kview

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/dchest/siphash"
)

// Engine is a keyed 64-bit hash mixer. The zero Engine is not valid;
// use Stable or NewVolatileEngine.
type Engine struct {
	k0, k1 uint64
}

// Stable is a fixed-key engine: the same input always hashes to the
// same value across processes and machines. This is the default
// engine for every index, because the probe sequence over the slot
// array must be reproducible for growth and round-trip behavior to
// be testable.
var Stable = Engine{k0: 0, k1: 1}

// NewVolatileEngine returns an engine seeded from the system CSPRNG,
// so that hash values (and therefore collision and probe behavior)
// are unpredictable from one process to the next.
func NewVolatileEngine() Engine {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("kview: failed to seed volatile hash engine: " + err.Error())
	}
	return Engine{
		k0: binary.LittleEndian.Uint64(buf[0:8]),
		k1: binary.LittleEndian.Uint64(buf[8:16]),
	}
}

// mix64 hashes a single canonical 64-bit integer (the common case
// for every numeric kind once canonicalized, see canon.go).
func (e *Engine) mix64(v uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return siphash.Hash(e.k0, e.k1, buf[:])
}

// mixBytes hashes an arbitrary byte run (used for the fixed-width
// text kinds and for opaque string/[]byte keys).
func (e *Engine) mixBytes(b []byte) uint64 {
	return siphash.Hash(e.k0, e.k1, b)
}
