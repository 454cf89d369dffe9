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
	"github.com/flexatone/arraymap/date"
	"github.com/flexatone/arraymap/kind"
	"github.com/flexatone/arraymap/utf8"
)

// category is the probe's classification, built once per lookup call.
// It decides, together with the stored key's own Kind, whether a
// comparison is even attempted: cross-category comparisons are unequal
// by construction rather than by an explicit check at every call site.
type category uint8

const (
	catNone category = iota
	catNumeric
	catString
	catBytes
	catObject
)

// Probe is a single lookup argument, normalized and hashed once.
// Table.Lookup probes every occupied slot on the table's probe
// sequence against the same Probe value.
type Probe struct {
	cat  category
	num  canonNum
	str  string // raw probe text; NUL trimming applies to hashing, not here
	byts []byte // raw probe bytes
	orig any    // original probe value, for Key.Equal comparisons
	hash uint64
	ok   bool // whether hash/cat were computed (false if x's type is wholly unsupported)
}

// NewProbe classifies and hashes x using engine e, against a table
// whose keys have kind k. The kind matters only for text: a string
// probe against a fixed-width Unicode table hashes with trailing zero
// code points stripped, because that is how the stored elements hash
// their padded storage (likewise bytes). The returned Probe reports
// Ok() == false when x's type cannot be classified into any supported
// category; such a probe matches nothing.
func NewProbe(e *Engine, k kind.Kind, x any) Probe {
	switch v := x.(type) {
	case bool:
		return numProbe(e, canonFromBool(v))
	case int:
		return numProbe(e, canonFromInt64(int64(v)))
	case int8:
		return numProbe(e, canonFromInt64(int64(v)))
	case int16:
		return numProbe(e, canonFromInt64(int64(v)))
	case int32:
		return numProbe(e, canonFromInt64(int64(v)))
	case int64:
		return numProbe(e, canonFromInt64(v))
	case uint:
		return numProbe(e, canonFromUint64(uint64(v)))
	case uint8:
		return numProbe(e, canonFromUint64(uint64(v)))
	case uint16:
		return numProbe(e, canonFromUint64(uint64(v)))
	case uint32:
		return numProbe(e, canonFromUint64(uint64(v)))
	case uint64:
		return numProbe(e, canonFromUint64(v))
	case float32:
		return numProbe(e, canonFromFloat64(float64(v)))
	case float64:
		return numProbe(e, canonFromFloat64(v))
	case date.Time:
		return numProbe(e, canonFromInt64(v.UnixMicro()))
	case string:
		hashed := v
		if k == kind.Unicode {
			hashed = utf8.TrimZeroString(v)
		}
		return Probe{cat: catString, str: v, hash: e.mixBytes([]byte(hashed)), ok: true}
	case []byte:
		hashed := v
		if k == kind.Bytes {
			hashed = utf8.TrimZeroBytes(v)
		}
		return Probe{cat: catBytes, byts: v, hash: e.mixBytes(hashed), ok: true}
	case Key:
		return Probe{cat: catObject, orig: x, hash: v.Hash(), ok: true}
	default:
		return Probe{cat: catNone, ok: false}
	}
}

func numProbe(e *Engine, n canonNum) Probe {
	return Probe{cat: catNumeric, num: n, hash: n.hash(e), ok: true}
}

// Hash returns the probe's precomputed hash, meaningful only when
// Ok() is true.
func (p *Probe) Hash() uint64 { return p.hash }

// Ok reports whether p was built from a recognized key type at all.
func (p *Probe) Ok() bool { return p.ok }
