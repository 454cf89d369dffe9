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

// Package persist frames an index's binary encoding for storage or
// transport: a fixed magic, a format version, a named compression
// algorithm applied to the payload, and a BLAKE2b-256 checksum of
// the uncompressed payload that is verified on decode.
package persist

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/flexatone/arraymap"
	"github.com/flexatone/arraymap/compr"
)

// Magic identifies a serialized index byte string.
var Magic = []byte("AMIX")

// Version is the current framing version. Decoders reject anything
// newer than the version they were built against.
const Version = 1

// DefaultAlgo is the compression applied when Encode is handed an
// empty algorithm name. s2 costs little even on incompressible
// payloads; "zstd" trades encode time for colder storage.
const DefaultAlgo = "s2"

// maxPayload bounds the decoded payload size accepted by Decode, so
// a corrupt or hostile length prefix cannot ask for an arbitrary
// allocation.
const maxPayload = 1 << 32

// Encode writes idx to w: magic, version, algorithm name, payload
// checksum, and the compressed payload. algo selects the compression
// algorithm by name ("" means DefaultAlgo).
func Encode(w io.Writer, idx encoding.BinaryMarshaler, algo string) error {
	if algo == "" {
		algo = DefaultAlgo
	}
	cmp := compr.Compression(algo)
	if cmp == nil {
		return fmt.Errorf("persist: unknown compression %q", algo)
	}
	raw, err := idx.MarshalBinary()
	if err != nil {
		return err
	}
	sum := blake2b.Sum256(raw)
	packed := cmp.Compress(raw, nil)

	hdr := make([]byte, 0, len(Magic)+2+len(algo)+2*binary.MaxVarintLen64+len(sum))
	hdr = append(hdr, Magic...)
	hdr = append(hdr, Version)
	hdr = append(hdr, byte(len(algo)))
	hdr = append(hdr, algo...)
	hdr = binary.AppendUvarint(hdr, uint64(len(raw)))
	hdr = append(hdr, sum[:]...)
	hdr = binary.AppendUvarint(hdr, uint64(len(packed)))
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	_, err = w.Write(packed)
	return err
}

// Decode reads a frame produced by Encode and reconstructs a
// FrozenIndex from it.
func Decode(r io.Reader) (*arraymap.FrozenIndex, error) {
	raw, err := payload(r)
	if err != nil {
		return nil, err
	}
	idx := new(arraymap.FrozenIndex)
	if err := idx.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return idx, nil
}

// DecodeMutable reads a frame produced by Encode and reconstructs a
// MutableIndex from it. The frame need not have been produced from a
// mutable index; the two flavors share one encoding.
func DecodeMutable(r io.Reader) (*arraymap.MutableIndex, error) {
	raw, err := payload(r)
	if err != nil {
		return nil, err
	}
	idx := new(arraymap.MutableIndex)
	if err := idx.UnmarshalBinary(raw); err != nil {
		return nil, err
	}
	return idx, nil
}

// payload reads and verifies the frame, returning the decompressed
// index encoding.
func payload(r io.Reader) ([]byte, error) {
	br := newByteReader(r)
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("persist: reading magic: %w", err)
	}
	if !bytes.Equal(magic, Magic) {
		return nil, fmt.Errorf("persist: bad magic %q", magic)
	}
	version, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("persist: reading version: %w", err)
	}
	if version == 0 || version > Version {
		return nil, fmt.Errorf("persist: unsupported version %d", version)
	}
	alen, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("persist: reading algorithm: %w", err)
	}
	algo := make([]byte, alen)
	if _, err := io.ReadFull(br, algo); err != nil {
		return nil, fmt.Errorf("persist: reading algorithm: %w", err)
	}
	dec := compr.Decompression(string(algo))
	if dec == nil {
		return nil, fmt.Errorf("persist: unknown compression %q", algo)
	}
	rawLen, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("persist: reading payload length: %w", err)
	}
	if rawLen > maxPayload {
		return nil, fmt.Errorf("persist: payload length %d exceeds limit", rawLen)
	}
	var sum [blake2b.Size256]byte
	if _, err := io.ReadFull(br, sum[:]); err != nil {
		return nil, fmt.Errorf("persist: reading checksum: %w", err)
	}
	packedLen, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("persist: reading compressed length: %w", err)
	}
	if packedLen > maxPayload {
		return nil, fmt.Errorf("persist: compressed length %d exceeds limit", packedLen)
	}
	packed := make([]byte, packedLen)
	if _, err := io.ReadFull(br, packed); err != nil {
		return nil, fmt.Errorf("persist: reading compressed payload: %w", err)
	}
	raw := make([]byte, rawLen)
	if err := dec.Decompress(packed, raw); err != nil {
		return nil, fmt.Errorf("persist: decompressing payload: %w", err)
	}
	if got := blake2b.Sum256(raw); got != sum {
		return nil, fmt.Errorf("persist: payload checksum mismatch")
	}
	return raw, nil
}

// byteReader adapts any reader to the io.ByteReader that
// binary.ReadUvarint wants without double-buffering the payload
// reads that follow.
type byteReader struct {
	io.Reader
}

func newByteReader(r io.Reader) *byteReader {
	return &byteReader{Reader: r}
}

func (b *byteReader) ReadByte() (byte, error) {
	var one [1]byte
	if _, err := io.ReadFull(b.Reader, one[:]); err != nil {
		return 0, err
	}
	return one[0], nil
}
