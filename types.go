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

// sbiType is the static-byte-type byte attached to an attribute:
// either one of the primitive tag codes (meaning the attribute's wire
// encoding omits the per-value tag byte) or UNDEFINED, meaning the
// attribute is polymorphic and the tag byte is present on the wire.
type sbiType = uint8

// Type describes one entry of the ABI's type table: a native/runtime
// type, a struct-like type with an ordered attribute list, or an enum
// (attributes double as named variants).
type Type struct {
	LibName uint32
	Module  uint32
	Name    uint32

	// MappedAbiTypeOffset is the id of the "program" type this wire
	// type maps onto; it may equal this type's own id.
	MappedAbiTypeOffset uint32
	MaskedAbiTypeOffset uint32

	// NullableNbBytes is the size, in bytes, of the nullable-bitset
	// prefix written/read for instances of this type.
	NullableNbBytes uint32

	IsNative   bool
	IsAbstract bool
	IsEnum     bool
	IsMasked   bool

	// Attrs is nil for a type with zero attributes (e.g. most native
	// types), non-nil (possibly empty) otherwise.
	Attrs []Attr

	// id is this type's own index into the owning registry's Types
	// slice; kept for FQN()/NamedFQN() and debug formatting.
	id uint32
}

// ID returns this type's id within its ABI's type table.
func (t *Type) ID() uint32 {
	return t.id
}

// Attr describes one attribute of a Type.
type Attr struct {
	Name uint32

	// AbiType is the declared wire type id of this attribute.
	AbiType uint32

	// ProgType is resolved, after the registry's second load pass,
	// to a shared handle on the referenced Type. It is never nil
	// once a *TypeRegistry has finished loading.
	ProgType *Type

	MappedAnyOffset uint32
	// MappedAttOffset is the target slot index in the mapped type's
	// value array.
	MappedAttOffset uint32

	// SbiType is UNDEFINED when this attribute is polymorphic (the
	// wire carries a tag byte before the value), or a concrete
	// primitive tag code when the attribute's type is statically
	// known (the tag byte is elided on the wire).
	SbiType sbiType

	Nullable bool
	// Mapped is false when the attribute is consumed from the wire
	// but has no corresponding slot in the mapped type (its bytes
	// must still be read to keep the stream aligned).
	Mapped bool

	// progTypeDeferred holds the raw wire id until the registry's
	// second pass resolves ProgType; it tolerates forward and cyclic
	// references among types.
	progTypeDeferred uint32
}

// String renders "name: Type#N" before resolution or "name:
// module::name" after, mirroring the original SDK's attribute
// formatter.
func (a *Attr) String() string {
	if a.ProgType == nil {
		return fmt.Sprintf("%d: Type#%d", a.Name, a.progTypeDeferred)
	}
	return fmt.Sprintf("%d: %d::%d", a.Name, a.ProgType.Module, a.ProgType.Name)
}

// CoreType caches the type ids of the handful of core types the codec
// needs to consult by identity rather than by name after load: the
// string, array and map wire representations. Node variants are not
// included here because primitive tags already disambiguate them at
// decode time; this shortcut exists purely for the serializer's
// "any string"/array/map framing.
type CoreType struct {
	StringID uint32
	ArrayID  uint32
	MapID    uint32
}

// TypeRegistry is the parsed, cross-referenced type table of an ABI.
type TypeRegistry struct {
	Types []*Type
	Core  CoreType
}

// Get returns the type with the given id, or nil if out of range.
func (r *TypeRegistry) Get(id uint32) *Type {
	if int(id) >= len(r.Types) {
		return nil
	}
	return r.Types[id]
}

// readTypeRegistry reads the type block: a u64 byte-size, a u32 type
// count, a u32 total-attribute count (informational, unused), then
// per-type fields as described in spec §4.2. A second pass resolves
// every attribute's deferred ProgType reference once all types exist,
// which is required because attribute->type references may form
// cycles (self-referencing or mutually-referencing types).
func readTypeRegistry(r io.Reader, symbols *SymbolTable) (*TypeRegistry, error) {
	if _, err := ReadFixedU64LE(r); err != nil {
		return nil, fmt.Errorf("read type table size: %w", err)
	}
	nbTypes, err := ReadFixedU32LE(r)
	if err != nil {
		return nil, fmt.Errorf("read type count: %w", err)
	}
	if _, err := ReadFixedU32LE(r); err != nil {
		return nil, fmt.Errorf("read attribute count: %w", err)
	}

	types := make([]*Type, 0, nbTypes)
	var core CoreType

	for i := uint32(0); i < nbTypes; i++ {
		module, err := ReadVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("read type %d module: %w", i, err)
		}
		name, err := ReadVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("read type %d name: %w", i, err)
		}
		libName, err := ReadVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("read type %d lib_name: %w", i, err)
		}
		attrsLen, err := ReadVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("read type %d attribute count: %w", i, err)
		}
		if _, err := ReadVarU32(r); err != nil { // attribute offset, ignored
			return nil, fmt.Errorf("read type %d attribute offset: %w", i, err)
		}
		if _, err := ReadVarU32(r); err != nil { // mapped_prog_type_offset, ignored
			return nil, fmt.Errorf("read type %d mapped_prog_type_offset: %w", i, err)
		}
		mappedAbiTypeOffset, err := ReadVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("read type %d mapped_abi_type_offset: %w", i, err)
		}
		maskedAbiTypeOffset, err := ReadVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("read type %d masked_abi_type_offset: %w", i, err)
		}
		nullableNbBytes, err := ReadVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("read type %d nullable_nb_bytes: %w", i, err)
		}
		var flagsBuf [1]byte
		if _, err := io.ReadFull(r, flagsBuf[:]); err != nil {
			return nil, fmt.Errorf("read type %d flags: %w", i, err)
		}
		flags := flagsBuf[0]

		var attrs []Attr
		if attrsLen > 0 {
			attrs = make([]Attr, attrsLen)
			for j := uint32(0); j < attrsLen; j++ {
				attrName, err := ReadVarU32(r)
				if err != nil {
					return nil, fmt.Errorf("read type %d attr %d name: %w", i, j, err)
				}
				abiType, err := ReadVarU32(r)
				if err != nil {
					return nil, fmt.Errorf("read type %d attr %d abi_type: %w", i, j, err)
				}
				progTypeOffset, err := ReadVarU32(r)
				if err != nil {
					return nil, fmt.Errorf("read type %d attr %d prog_type_offset: %w", i, j, err)
				}
				mappedAnyOffset, err := ReadVarU32(r)
				if err != nil {
					return nil, fmt.Errorf("read type %d attr %d mapped_any_offset: %w", i, j, err)
				}
				mappedAttOffset, err := ReadVarU32(r)
				if err != nil {
					return nil, fmt.Errorf("read type %d attr %d mapped_att_offset: %w", i, j, err)
				}
				var sbiBuf [1]byte
				if _, err := io.ReadFull(r, sbiBuf[:]); err != nil {
					return nil, fmt.Errorf("read type %d attr %d sbi_type: %w", i, j, err)
				}
				var attrFlagsBuf [1]byte
				if _, err := io.ReadFull(r, attrFlagsBuf[:]); err != nil {
					return nil, fmt.Errorf("read type %d attr %d flags: %w", i, j, err)
				}
				attrFlags := attrFlagsBuf[0]

				attrs[j] = Attr{
					Name:             attrName,
					AbiType:          abiType,
					MappedAnyOffset:  mappedAnyOffset,
					MappedAttOffset:  mappedAttOffset,
					SbiType:          sbiBuf[0],
					Nullable:         attrFlags&1 != 0,
					Mapped:           attrFlags&(1<<1) != 0,
					progTypeDeferred: progTypeOffset,
				}
				// Resolve immediately if the referenced type already
				// exists (a backward reference); otherwise the second
				// pass below resolves it once all types are loaded.
				if int(progTypeOffset) < len(types) {
					attrs[j].ProgType = types[progTypeOffset]
				}
			}
		}

		if symbols.NameByID(module) == "core" {
			switch symbols.NameByID(name) {
			case "String":
				core.StringID = i
			case "Array":
				core.ArrayID = i
			case "Map":
				core.MapID = i
			}
		}

		ty := &Type{
			Module:              module,
			Name:                name,
			LibName:             libName,
			MappedAbiTypeOffset: mappedAbiTypeOffset,
			MaskedAbiTypeOffset: maskedAbiTypeOffset,
			NullableNbBytes:     nullableNbBytes,
			IsNative:            flags&1 != 0,
			IsAbstract:          flags&(1<<1) != 0,
			IsEnum:              flags&(1<<2) != 0,
			IsMasked:            flags&(1<<3) != 0,
			Attrs:               attrs,
			id:                  i,
		}
		types = append(types, ty)
	}

	for _, ty := range types {
		for j := range ty.Attrs {
			a := &ty.Attrs[j]
			if a.ProgType == nil {
				if int(a.progTypeDeferred) >= len(types) {
					return nil, fmt.Errorf("%w: attribute %q references type id %d", ErrUnknownType, a.Name, a.progTypeDeferred)
				}
				a.ProgType = types[a.progTypeDeferred]
			}
		}
	}

	return &TypeRegistry{Types: types, Core: core}, nil
}

// FQN renders "module::name" using raw symbol ids, matching the
// original SDK's AbiType::fqn (used internally before symbols are
// available, e.g. in error messages built while still loading).
func (t *Type) FQN() string {
	return fmt.Sprintf("%d::%d", t.Module, t.Name)
}

// NamedFQN renders "module::name" resolved against abi's symbol
// table.
func (t *Type) NamedFQN(abi *Abi) string {
	return fmt.Sprintf("%s::%s", abi.Symbols.NameByID(t.Module), abi.Symbols.NameByID(t.Name))
}
