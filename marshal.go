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
	"encoding/binary"
	"fmt"
	"math"

	"github.com/flexatone/arraymap/date"
	"github.com/flexatone/arraymap/ints"
	"github.com/flexatone/arraymap/kind"
	"github.com/flexatone/arraymap/tbuf"
)

// Binary index encoding, independent of any outer framing (package
// persist adds compression and checksumming on top):
//
//	byte    mode (0 opaque, 1 buffer)
//	byte    kind tag
//	uvarint element width (Unicode/Bytes only, else 0)
//	uvarint length
//	uvarint slot-array capacity at encode time
//	payload
//
// A buffer payload is the raw element storage, length*elemsize bytes
// in native (little-endian) layout. An opaque payload is one
// tag-prefixed encoding per key in insertion order; the tag records
// the key's concrete Go type so decoding rebuilds identical values.
// Decoding replays ordinary construction, so a decoded index has a
// freshly built slot array rather than trusting serialized slots.

const (
	modeOpaque = 0
	modeBuffer = 1
)

// opaque key type tags
const (
	tagBool = iota
	tagInt
	tagInt8
	tagInt16
	tagInt32
	tagInt64
	tagUint
	tagUint8
	tagUint16
	tagUint32
	tagUint64
	tagFloat32
	tagFloat64
	tagString
	tagBytes
	tagTime
)

// MarshalBinary encodes the index for round-tripping. Opaque indexes
// holding custom Key values cannot be encoded and fail with
// ErrTypeMismatch.
func (f *FrozenIndex) MarshalBinary() ([]byte, error) { return f.c.marshal() }

// MarshalBinary encodes the index for round-tripping; see
// FrozenIndex.MarshalBinary.
func (m *MutableIndex) MarshalBinary() ([]byte, error) { return m.c.marshal() }

// UnmarshalBinary decodes an index produced by MarshalBinary on
// either flavor, replaying construction.
func (f *FrozenIndex) UnmarshalBinary(data []byte) error {
	c, err := unmarshal(data, func(keys []any) (*core, error) {
		idx, err := NewFrozenKeys(keys)
		if err != nil {
			return nil, err
		}
		return idx.c, nil
	}, func(buf tbuf.Buffer) (*core, error) {
		idx, err := NewFrozenBuffer(buf)
		if err != nil {
			return nil, err
		}
		return idx.c, nil
	})
	if err != nil {
		return err
	}
	f.c = c
	return nil
}

// UnmarshalBinary decodes an index produced by MarshalBinary on
// either flavor, replaying construction.
func (m *MutableIndex) UnmarshalBinary(data []byte) error {
	c, err := unmarshal(data, func(keys []any) (*core, error) {
		idx, err := NewMutableKeys(keys)
		if err != nil {
			return nil, err
		}
		return idx.c, nil
	}, func(buf tbuf.Buffer) (*core, error) {
		idx, err := NewMutableBuffer(buf)
		if err != nil {
			return nil, err
		}
		return idx.c, nil
	})
	if err != nil {
		return err
	}
	m.c = c
	return nil
}

func (c *core) marshal() ([]byte, error) {
	out := make([]byte, 0, 64)
	mode := byte(modeOpaque)
	if c.bufKind != kind.Object {
		mode = modeBuffer
	}
	out = append(out, mode, byte(c.bufKind))
	out = binary.AppendUvarint(out, uint64(c.bufWidth))
	out = binary.AppendUvarint(out, uint64(c.Len()))
	out = binary.AppendUvarint(out, uint64(c.table.Capacity()))
	if mode == modeBuffer {
		switch ring := c.ring.(type) {
		case *frozenBufferRing:
			return append(out, ring.buf.RawBytes()...), nil
		case *mutableBufferRing:
			buf := ring.g.Buffer()
			return append(out, buf.RawBytes()...), nil
		}
	}
	for i := 0; i < c.Len(); i++ {
		var err error
		out, err = appendKey(out, c.ring.View(i).Materialize())
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func appendKey(dst []byte, key any) ([]byte, error) {
	switch v := key.(type) {
	case bool:
		b := byte(0)
		if v {
			b = 1
		}
		return append(dst, tagBool, b), nil
	case int:
		return binary.AppendVarint(append(dst, tagInt), int64(v)), nil
	case int8:
		return binary.AppendVarint(append(dst, tagInt8), int64(v)), nil
	case int16:
		return binary.AppendVarint(append(dst, tagInt16), int64(v)), nil
	case int32:
		return binary.AppendVarint(append(dst, tagInt32), int64(v)), nil
	case int64:
		return binary.AppendVarint(append(dst, tagInt64), v), nil
	case uint:
		return binary.AppendUvarint(append(dst, tagUint), uint64(v)), nil
	case uint8:
		return binary.AppendUvarint(append(dst, tagUint8), uint64(v)), nil
	case uint16:
		return binary.AppendUvarint(append(dst, tagUint16), uint64(v)), nil
	case uint32:
		return binary.AppendUvarint(append(dst, tagUint32), uint64(v)), nil
	case uint64:
		return binary.AppendUvarint(append(dst, tagUint64), v), nil
	case float32:
		return binary.LittleEndian.AppendUint32(append(dst, tagFloat32), math.Float32bits(v)), nil
	case float64:
		return binary.LittleEndian.AppendUint64(append(dst, tagFloat64), math.Float64bits(v)), nil
	case string:
		dst = binary.AppendUvarint(append(dst, tagString), uint64(len(v)))
		return append(dst, v...), nil
	case []byte:
		dst = binary.AppendUvarint(append(dst, tagBytes), uint64(len(v)))
		return append(dst, v...), nil
	case date.Time:
		return binary.AppendVarint(append(dst, tagTime), v.UnixMicro()), nil
	default:
		return nil, fmt.Errorf("%w: cannot encode key of type %T", ErrTypeMismatch, key)
	}
}

func unmarshal(data []byte, fromKeys func([]any) (*core, error), fromBuffer func(tbuf.Buffer) (*core, error)) (*core, error) {
	corrupt := func(what string) (*core, error) {
		return nil, fmt.Errorf("arraymap: corrupt index encoding: %s", what)
	}
	if len(data) < 2 {
		return corrupt("truncated header")
	}
	mode, ktag := data[0], kind.Kind(data[1])
	data = data[2:]
	width, n := binary.Uvarint(data)
	if n <= 0 {
		return corrupt("bad width")
	}
	data = data[n:]
	length, n := binary.Uvarint(data)
	if n <= 0 || length > 1<<32 {
		return corrupt("bad length")
	}
	data = data[n:]
	capacity, n := binary.Uvarint(data)
	if n <= 0 || !ints.IsPow2(capacity) {
		return corrupt("bad capacity")
	}
	data = data[n:]
	switch mode {
	case modeBuffer:
		if ktag == kind.Object {
			return corrupt("buffer mode with object kind")
		}
		sz := ktag.ElemSize(int(width))
		if uint64(len(data)) != length*uint64(sz) {
			return corrupt("buffer payload size mismatch")
		}
		raw := make([]byte, len(data))
		copy(raw, data)
		return fromBuffer(tbuf.FromRaw(ktag, int(width), raw, false))
	case modeOpaque:
		if ktag != kind.Object {
			return corrupt("opaque mode with buffer kind")
		}
		keys := make([]any, 0, length)
		for i := uint64(0); i < length; i++ {
			var key any
			var err error
			key, data, err = decodeKey(data)
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		}
		if len(data) != 0 {
			return corrupt("trailing payload bytes")
		}
		return fromKeys(keys)
	default:
		return corrupt("unknown mode")
	}
}

func decodeKey(data []byte) (any, []byte, error) {
	corrupt := func(what string) (any, []byte, error) {
		return nil, nil, fmt.Errorf("arraymap: corrupt index encoding: %s", what)
	}
	if len(data) == 0 {
		return corrupt("truncated key")
	}
	tag := data[0]
	data = data[1:]
	varint := func() (int64, bool) {
		v, n := binary.Varint(data)
		if n <= 0 {
			return 0, false
		}
		data = data[n:]
		return v, true
	}
	uvarint := func() (uint64, bool) {
		v, n := binary.Uvarint(data)
		if n <= 0 {
			return 0, false
		}
		data = data[n:]
		return v, true
	}
	switch tag {
	case tagBool:
		if len(data) < 1 {
			return corrupt("truncated bool")
		}
		v := data[0] != 0
		return v, data[1:], nil
	case tagInt, tagInt8, tagInt16, tagInt32, tagInt64, tagTime:
		v, ok := varint()
		if !ok {
			return corrupt("bad varint key")
		}
		switch tag {
		case tagInt:
			return int(v), data, nil
		case tagInt8:
			return int8(v), data, nil
		case tagInt16:
			return int16(v), data, nil
		case tagInt32:
			return int32(v), data, nil
		case tagTime:
			return date.UnixMicro(v), data, nil
		default:
			return v, data, nil
		}
	case tagUint, tagUint8, tagUint16, tagUint32, tagUint64:
		v, ok := uvarint()
		if !ok {
			return corrupt("bad uvarint key")
		}
		switch tag {
		case tagUint:
			return uint(v), data, nil
		case tagUint8:
			return uint8(v), data, nil
		case tagUint16:
			return uint16(v), data, nil
		case tagUint32:
			return uint32(v), data, nil
		default:
			return v, data, nil
		}
	case tagFloat32:
		if len(data) < 4 {
			return corrupt("truncated float32")
		}
		v := math.Float32frombits(binary.LittleEndian.Uint32(data))
		return v, data[4:], nil
	case tagFloat64:
		if len(data) < 8 {
			return corrupt("truncated float64")
		}
		v := math.Float64frombits(binary.LittleEndian.Uint64(data))
		return v, data[8:], nil
	case tagString, tagBytes:
		n, ok := uvarint()
		if !ok || uint64(len(data)) < n {
			return corrupt("truncated text key")
		}
		raw := data[:n]
		data = data[n:]
		if tag == tagString {
			return string(raw), data, nil
		}
		out := make([]byte, n)
		copy(out, raw)
		return out, data, nil
	default:
		return corrupt(fmt.Sprintf("unknown key tag %d", tag))
	}
}
