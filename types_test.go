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
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

type typeFixtureAttr struct {
	name, abiType, progTypeOffset, mappedAnyOffset, mappedAttOffset uint32
	sbiType, flags                                                  uint8
}

type typeFixture struct {
	module, name, libName                                     uint32
	mappedAbiTypeOffset, maskedAbiTypeOffset, nullableNbBytes uint32
	flags                                                      uint8
	attrs                                                      []typeFixtureAttr
}

// encodeTypeTable builds the wire bytes readTypeRegistry expects,
// mirroring the field order readTypeRegistry reads in.
func encodeTypeTable(types []typeFixture) []byte {
	var body bytes.Buffer
	_ = WriteFixedU32LE(&body, uint32(len(types)))
	_ = WriteFixedU32LE(&body, 0) // total attribute count, unused by the reader

	for _, ty := range types {
		_, _ = WriteVarU32(&body, ty.module)
		_, _ = WriteVarU32(&body, ty.name)
		_, _ = WriteVarU32(&body, ty.libName)
		_, _ = WriteVarU32(&body, uint32(len(ty.attrs)))
		_, _ = WriteVarU32(&body, 0) // attribute offset, ignored
		_, _ = WriteVarU32(&body, 0) // mapped_prog_type_offset, ignored
		_, _ = WriteVarU32(&body, ty.mappedAbiTypeOffset)
		_, _ = WriteVarU32(&body, ty.maskedAbiTypeOffset)
		_, _ = WriteVarU32(&body, ty.nullableNbBytes)
		body.WriteByte(ty.flags)

		for _, a := range ty.attrs {
			_, _ = WriteVarU32(&body, a.name)
			_, _ = WriteVarU32(&body, a.abiType)
			_, _ = WriteVarU32(&body, a.progTypeOffset)
			_, _ = WriteVarU32(&body, a.mappedAnyOffset)
			_, _ = WriteVarU32(&body, a.mappedAttOffset)
			body.WriteByte(a.sbiType)
			body.WriteByte(a.flags)
		}
	}

	var full bytes.Buffer
	_ = WriteFixedU64LE(&full, uint64(body.Len()))
	full.Write(body.Bytes())
	return full.Bytes()
}

// TestTypeRegistryResolvesForwardAndCyclicReferences builds two types
// that reference each other (A's only attribute points at B, B's only
// attribute points at A) to pin down that the second resolution pass
// handles both a forward reference (A -> B, B not yet loaded when A
// is read) and the resulting cycle.
func TestTypeRegistryResolvesForwardAndCyclicReferences(t *testing.T) {
	names := []string{"m", "A", "B", "next"}
	symbols, err := readSymbolTable(bytes.NewReader(encodeSymbolTable(names...)))
	require.NoError(t, err)
	m := mustID(t, symbols, "m")
	a := mustID(t, symbols, "A")
	b := mustID(t, symbols, "B")
	next := mustID(t, symbols, "next")

	wire := encodeTypeTable([]typeFixture{
		{
			module: m, name: a, mappedAbiTypeOffset: 0,
			attrs: []typeFixtureAttr{{name: next, progTypeOffset: 1, sbiType: tagObject, flags: 1 << 1}},
		},
		{
			module: m, name: b, mappedAbiTypeOffset: 1,
			attrs: []typeFixtureAttr{{name: next, progTypeOffset: 0, sbiType: tagObject, flags: 1 << 1}},
		},
	})

	registry, err := readTypeRegistry(bytes.NewReader(wire), symbols)
	require.NoError(t, err)
	require.Len(t, registry.Types, 2)

	typeA := registry.Types[0]
	typeB := registry.Types[1]
	require.Same(t, typeB, typeA.Attrs[0].ProgType)
	require.Same(t, typeA, typeB.Attrs[0].ProgType)
}

func TestTypeRegistryUnresolvableReferenceErrors(t *testing.T) {
	names := []string{"m", "A", "next"}
	symbols, err := readSymbolTable(bytes.NewReader(encodeSymbolTable(names...)))
	require.NoError(t, err)
	m := mustID(t, symbols, "m")
	a := mustID(t, symbols, "A")
	next := mustID(t, symbols, "next")

	wire := encodeTypeTable([]typeFixture{
		{
			module: m, name: a,
			attrs: []typeFixtureAttr{{name: next, progTypeOffset: 50, sbiType: tagObject, flags: 1 << 1}},
		},
	})

	_, err = readTypeRegistry(bytes.NewReader(wire), symbols)
	require.ErrorIs(t, err, ErrUnknownType)
}

func mustID(t *testing.T, symbols *SymbolTable, name string) uint32 {
	t.Helper()
	id, ok := symbols.IDByName(name)
	require.True(t, ok)
	return id
}
