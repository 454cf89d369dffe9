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

package arraymap

import (
	"fmt"

	"github.com/flexatone/arraymap/kind"
	"github.com/flexatone/arraymap/tbuf"
)

// Sized is the bulk-lookup argument contract: an ordered sequence of
// keys with a known length. *tbuf.Buffer satisfies it directly, as
// does the Slice adapter for plain Go slices.
type Sized interface {
	Len() int
	At(i int) any
}

type anySlice []any

func (s anySlice) Len() int     { return len(s) }
func (s anySlice) At(i int) any { return s[i] }

type typedSlice[T any] []T

func (s typedSlice[T]) Len() int     { return len(s) }
func (s typedSlice[T]) At(i int) any { return s[i] }

// Slice adapts a typed Go slice into a Sized sequence of probe keys,
// for use with GetAll and GetAny.
func Slice[T any](s []T) Sized { return typedSlice[T](s) }

// asSized coerces the dynamic bulk-lookup argument. Scalars, maps,
// and anything else without an indexable length are rejected.
func asSized(seq any) (Sized, error) {
	switch v := seq.(type) {
	case Sized:
		return v, nil
	case []any:
		return anySlice(v), nil
	case tbuf.Buffer:
		return &v, nil
	case *tbuf.Buffer:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: bulk lookup requires a sized sequence, not %T", ErrTypeMismatch, seq)
	}
}

// GetAll looks up every key of seq and returns their ordinals as a
// read-only Int64 buffer of the same length. Any absent key fails
// the whole call with ErrKeyMissing and no partial output; a seq
// that is not a sized sequence fails with ErrTypeMismatch.
func (c *core) GetAll(seq any) (tbuf.Buffer, error) {
	s, err := asSized(seq)
	if err != nil {
		return tbuf.Buffer{}, err
	}
	out := make([]int64, s.Len())
	for i := range out {
		k := s.At(i)
		ord, ok := c.lookup(k)
		if !ok {
			return tbuf.Buffer{}, fmt.Errorf("%w: %v at position %d", ErrKeyMissing, k, i)
		}
		out[i] = int64(ord)
	}
	return tbuf.Int64(out, false), nil
}

// GetAny looks up every key of seq and returns the ordinals of those
// present, deduplicated by ordinal, in order of first occurrence.
// Absent keys are silently skipped; only a non-sized seq errors.
func (c *core) GetAny(seq any) ([]int, error) {
	s, err := asSized(seq)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, s.Len())
	seen := make(map[int]struct{}, s.Len())
	for i := 0; i < s.Len(); i++ {
		ord, ok := c.lookup(s.At(i))
		if !ok {
			continue
		}
		if _, dup := seen[ord]; dup {
			continue
		}
		seen[ord] = struct{}{}
		out = append(out, ord)
	}
	return out, nil
}

// KeyKind reports the key representation the index was built over:
// kind.Object for opaque indexes, the buffer element kind otherwise.
func (c *core) KeyKind() kind.Kind { return c.bufKind }

// KeyWidth reports the fixed element width for Unicode and Bytes
// indexes, and 0 for every other kind.
func (c *core) KeyWidth() int { return c.bufWidth }
