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
	"fmt"
	"io"
)

// writeSymbolRef writes a symbol reference: tagStrLit followed by a
// varint u32 carrying (id<<1)|1. The low bit distinguishes a symbol
// reference from an inline string length wherever a vu32 length field
// doubles as either (core::String attributes, the top-level STR_LIT
// tag).
func writeSymbolRef(w io.Writer, id uint32) (int, error) {
	if err := WriteFixedU8(w, tagStrLit); err != nil {
		return 0, err
	}
	n, err := writeSymbolRefRaw(w, id)
	return 1 + n, err
}

func writeSymbolRefRaw(w io.Writer, id uint32) (int, error) {
	return WriteVarU32(w, (id<<1)|1)
}

// ReadSymbol reads a symbol reference written by writeSymbolRef's raw
// form (no leading tag byte: just the shifted, tagged varint) and
// resolves it against abi's symbol table. This is the "unconditional"
// symbol reader: callers that have already committed to STR_LIT
// framing (rather than probing read_string's dual length header) call
// this directly.
func ReadSymbol(r io.Reader, abi *Abi) (string, error) {
	v, err := ReadVarU32(r)
	if err != nil {
		return "", fmt.Errorf("read symbol: %w", err)
	}
	id := v >> 1
	return abi.Symbols.NameByID(id), nil
}

// writeAnyStringRaw writes s as an inline (non-interned) string: a
// varint u32 byte length shifted left one (low bit clear, to
// distinguish it from a symbol reference) followed by the raw UTF-8
// bytes.
func writeAnyStringRaw(w io.Writer, s string) (int, error) {
	b := []byte(s)
	n, err := WriteVarU32(w, uint32(len(b))<<1)
	if err != nil {
		return 0, err
	}
	if _, err := w.Write(b); err != nil {
		return 0, fmt.Errorf("write string bytes: %w", err)
	}
	return n + len(b), nil
}

// writeString writes s as a symbol reference if it is interned in
// abi's symbol table, or as a core::String object otherwise. This
// mirrors the original SDK's string-write probing: the wire never
// tags a value as "this was a symbol" independent of whether the
// sender happened to find a match.
func writeString(w io.Writer, abi *Abi, s string) (int, error) {
	if id, ok := abi.GetSymbolID(s); ok {
		return writeSymbolRef(w, id)
	}
	if err := WriteFixedU8(w, tagObject); err != nil {
		return 0, err
	}
	n, err := WriteVarU32(w, abi.Types.Core.StringID)
	if err != nil {
		return 0, err
	}
	m, err := writeAnyStringRaw(w, s)
	return 1 + n + m, err
}

// writeStringRawTo writes the raw (tag-less) form used as an object
// attribute body: either a symbol reference or an inline length+bytes
// string.
func writeStringRawTo(w io.Writer, abi *Abi, s string) (int, error) {
	if id, ok := abi.GetSymbolID(s); ok {
		return writeSymbolRefRaw(w, id)
	}
	return writeAnyStringRaw(w, s)
}

// ReadString reads the raw body of a core::String value: a varint
// u32 length where the low bit selects a symbol reference (bits 1..
// are the symbol id) or an inline byte length (bits 1.. shifted back
// down). Returns the decoded Value (KindSymbol or KindString).
func ReadString(r io.Reader, abi *Abi) (Value, error) {
	length, err := ReadVarU32(r)
	if err != nil {
		return Value{}, fmt.Errorf("read core string length: %w", err)
	}
	if length&1 == 1 {
		return Value{Kind: KindSymbol, Str: abi.Symbols.NameByID(length >> 1)}, nil
	}
	n := length >> 1
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Value{}, fmt.Errorf("read core string bytes: %w", err)
	}
	return Value{Kind: KindString, Str: string(buf)}, nil
}

// ReadObjectString reads a plain length-prefixed string with no
// symbol-table probing: a varint u32 byte length followed by the raw
// bytes. This is exposed for TypeLoader implementations that need to
// read a raw string attribute directly, bypassing the symbol/inline
// dual encoding core::String uses.
func ReadObjectString(r io.Reader) (string, error) {
	length, err := ReadVarU32(r)
	if err != nil {
		return "", fmt.Errorf("read object string length: %w", err)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read object string bytes: %w", err)
	}
	return string(buf), nil
}
