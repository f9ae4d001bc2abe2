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

// SymbolTable is an interned, order-preserving string pool. The empty
// symbol always occupies id 0. Ids are dense, assigned in insertion
// order, and never reassigned once the table is loaded.
type SymbolTable struct {
	names    []string
	idByName map[string]uint32
}

// readSymbolTable reads the symbol block: a u64 byte-size (skipped,
// kept only so external tools can do a random-access scan), a u32
// count N, then N varint-u32-length-prefixed UTF-8 entries.
func readSymbolTable(r io.Reader) (*SymbolTable, error) {
	if _, err := ReadFixedU64LE(r); err != nil {
		return nil, fmt.Errorf("read symbol table size: %w", err)
	}
	count, err := ReadFixedU32LE(r)
	if err != nil {
		return nil, fmt.Errorf("read symbol table count: %w", err)
	}

	names := make([]string, 0, count+1)
	names = append(names, "")
	for i := uint32(0); i < count; i++ {
		n, err := ReadVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("read symbol %d length: %w", i, err)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read symbol %d bytes: %w", i, err)
		}
		names = append(names, string(buf))
	}

	idByName := make(map[string]uint32, len(names))
	for id, name := range names {
		idByName[name] = uint32(id)
	}

	return &SymbolTable{names: names, idByName: idByName}, nil
}

// Len returns the number of symbols in the table, including the
// empty symbol at id 0.
func (t *SymbolTable) Len() int {
	return len(t.names)
}

// IDByName returns the id of name, if interned.
func (t *SymbolTable) IDByName(name string) (uint32, bool) {
	id, ok := t.idByName[name]
	return id, ok
}

// NameByID returns the interned string for id. It panics if id is out
// of range: callers are expected to only pass ids that were produced
// by this same table (attribute references, wire-read ids already
// validated against the type/function registries).
func (t *SymbolTable) NameByID(id uint32) string {
	return t.names[id]
}
