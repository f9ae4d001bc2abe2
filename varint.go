// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package greycat

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ReadVarU32 reads a variable-length encoded u32: up to five
// little-endian septets, continuation flagged by the high bit.
//
// The decoder intentionally mirrors the wire format's own legacy
// behavior: once the running shift passes 28 bits it stops tracking
// continuation and simply returns whatever has accumulated so far,
// silently mixing in whatever is left of the current byte. A 5-byte
// varint whose fifth byte has non-zero high bits is therefore
// truncated rather than rejected. This is a known quirk of the wire
// format, not a defect here; do not "fix" it without verifying
// wire-compatibility against a real GreyCat server.
func ReadVarU32(r io.Reader) (uint32, error) {
	var buf [1]byte
	var value uint32
	var shift uint32

	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, fmt.Errorf("read varint u32: %w", err)
		}
		header := uint32(buf[0])
		value |= (header & 0x7F) << shift
		shift += 7

		if shift > 28 {
			return value, nil
		}
		if header&0x80 == 0 {
			return value, nil
		}
	}
}

// WriteVarU32 writes v as a variable-length u32, emitting the minimum
// number of bytes (at most 5).
func WriteVarU32(w io.Writer, v uint32) (int, error) {
	var buf [5]byte
	n := 0
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if v == 0 {
			break
		}
	}
	if _, err := w.Write(buf[:n]); err != nil {
		return 0, fmt.Errorf("write varint u32: %w", err)
	}
	return n, nil
}

// ReadVarU64 reads a variable-length encoded u64 using the wire
// format's 8+1 scheme: up to eight length-tagged septets, and if all
// eight continuation bytes are consumed, a ninth byte that
// contributes its full 8 bits with no continuation flag of its own.
func ReadVarU64(r io.Reader) (uint64, error) {
	var buf [1]byte
	var value uint64

	for shift := uint(0); shift < 56; shift += 7 {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, fmt.Errorf("read varint u64: %w", err)
		}
		header := uint64(buf[0])
		value |= (header & 0x7F) << shift
		if header&0x80 == 0 {
			return value, nil
		}
	}

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read varint u64: %w", err)
	}
	value |= uint64(buf[0]) << 56
	return value, nil
}

// WriteVarU64 writes v as a variable-length u64, emitting the minimum
// number of bytes (at most 9, the ninth carrying a full 8 bits with no
// continuation flag).
func WriteVarU64(w io.Writer, v uint64) (int, error) {
	var buf [9]byte
	n := 0
	for n < 8 {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if v == 0 {
			break
		}
	}
	if n == 8 && v != 0 {
		// the 8 continuation bytes are exhausted: the 9th byte carries
		// the remaining bits verbatim, no continuation bit.
		buf[n] = byte(v)
		n++
	}
	if _, err := w.Write(buf[:n]); err != nil {
		return 0, fmt.Errorf("write varint u64: %w", err)
	}
	return n, nil
}

// ZigZagEncode maps a signed v onto the unsigned domain so that small
// magnitude values (positive or negative) encode to small varints.
func ZigZagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// ZigZagDecode is the inverse of ZigZagEncode.
func ZigZagDecode(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// ReadVarI64 reads a zigzag-encoded varint u64 into an i64.
func ReadVarI64(r io.Reader) (int64, error) {
	v, err := ReadVarU64(r)
	if err != nil {
		return 0, err
	}
	return ZigZagDecode(v), nil
}

// WriteVarI64 writes v as a zigzag-encoded varint u64.
func WriteVarI64(w io.Writer, v int64) (int, error) {
	return WriteVarU64(w, ZigZagEncode(v))
}

// ReadFixedU32LE reads a little-endian fixed-width u32.
func ReadFixedU32LE(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read fixed u32: %w", err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// WriteFixedU32LE writes v as a little-endian fixed-width u32.
func WriteFixedU32LE(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	if err != nil {
		return fmt.Errorf("write fixed u32: %w", err)
	}
	return nil
}

// ReadFixedU64LE reads a little-endian fixed-width u64.
func ReadFixedU64LE(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read fixed u64: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// WriteFixedU64LE writes v as a little-endian fixed-width u64.
func WriteFixedU64LE(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	if err != nil {
		return fmt.Errorf("write fixed u64: %w", err)
	}
	return nil
}

// ReadFixedU16LE reads a little-endian fixed-width u16.
func ReadFixedU16LE(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read fixed u16: %w", err)
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// WriteFixedU16LE writes v as a little-endian fixed-width u16.
func WriteFixedU16LE(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	if err != nil {
		return fmt.Errorf("write fixed u16: %w", err)
	}
	return nil
}

// ReadFixedU8 reads a single byte.
func ReadFixedU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read fixed u8: %w", err)
	}
	return buf[0], nil
}

// WriteFixedU8 writes a single byte.
func WriteFixedU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	if err != nil {
		return fmt.Errorf("write fixed u8: %w", err)
	}
	return nil
}

// ReadFixedF64LE reads a little-endian IEEE-754 double.
func ReadFixedF64LE(r io.Reader) (float64, error) {
	v, err := ReadFixedU64LE(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// WriteFixedF64LE writes v as a little-endian IEEE-754 double.
func WriteFixedF64LE(w io.Writer, v float64) error {
	return WriteFixedU64LE(w, math.Float64bits(v))
}
