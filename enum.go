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

// Enum is one variant of an ABI enum type: the owning Type, the
// variant attribute's MappedAttOffset (not its index in the wire
// type's attribute list; writeRawTo emits it verbatim), and the variant's
// interned name (kept alongside the offset so String/Debug formatting
// never needs to re-walk the ABI).
type Enum struct {
	Type   *Type
	Offset uint32
	Key    string
}

func (e *Enum) String() string {
	return fmt.Sprintf("%s::%s", e.Type.FQN(), e.Key)
}

func (e *Enum) writeTo(w io.Writer) (int, error) {
	if err := WriteFixedU8(w, tagEnum); err != nil {
		return 0, err
	}
	n, err := WriteVarU32(w, e.Type.MappedAbiTypeOffset)
	if err != nil {
		return 0, err
	}
	m, err := e.writeRawTo(w)
	return 1 + n + m, err
}

func (e *Enum) writeRawTo(w io.Writer) (int, error) {
	return WriteVarU32(w, e.Offset)
}

// readEnum reads an enum's own type id, then its variant offset.
func readEnum(r io.Reader, abi *Abi) (*Enum, error) {
	enumID, err := ReadVarU32(r)
	if err != nil {
		return nil, fmt.Errorf("read enum type id: %w", err)
	}
	ty := abi.Types.Get(enumID)
	if ty == nil {
		return nil, fmt.Errorf("%w: enum type id %d", ErrUnknownType, enumID)
	}
	return readTypedEnum(r, ty, abi)
}

// readTypedEnum reads just the variant offset, using en as the
// already-known enum type.
func readTypedEnum(r io.Reader, en *Type, abi *Abi) (*Enum, error) {
	offset, err := ReadVarU32(r)
	if err != nil {
		return nil, fmt.Errorf("read enum offset: %w", err)
	}
	if en.Attrs == nil {
		return nil, fmt.Errorf("%w: %q", ErrEnumNoAttrs, en.NamedFQN(abi))
	}
	if int(offset) >= len(en.Attrs) {
		return nil, fmt.Errorf("enum %q has no field at offset %d", en.NamedFQN(abi), offset)
	}
	attr := en.Attrs[offset]
	return &Enum{
		Type:   en,
		Key:    abi.Symbols.NameByID(attr.Name),
		Offset: attr.MappedAttOffset,
	}, nil
}

// readStaticEnumAttr reads a static-sbi_type ENUM attribute's variant
// offset, indexing it into declaredTy's own attribute list (the wire
// type named by the attribute's abi_type) rather than progTy's -- the
// two only coincide when the enum isn't masked/mapped to a
// differently-ordered program type. The resulting Enum still carries
// progTy, since that's the type the decoded value is addressed as.
func readStaticEnumAttr(r io.Reader, declaredTy, progTy *Type, abi *Abi) (*Enum, error) {
	offset, err := ReadVarU32(r)
	if err != nil {
		return nil, fmt.Errorf("read enum offset: %w", err)
	}
	if declaredTy.Attrs == nil {
		return nil, fmt.Errorf("%w: %q", ErrEnumNoAttrs, declaredTy.NamedFQN(abi))
	}
	if int(offset) >= len(declaredTy.Attrs) {
		return nil, fmt.Errorf("enum %q has no field at offset %d", declaredTy.NamedFQN(abi), offset)
	}
	attr := declaredTy.Attrs[offset]
	return &Enum{
		Type:   progTy,
		Key:    abi.Symbols.NameByID(attr.Name),
		Offset: attr.MappedAttOffset,
	}, nil
}
