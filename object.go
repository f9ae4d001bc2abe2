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

// Object is an instance of a non-core struct-like ABI type: its
// program Type plus, when the type declares attributes, the slot
// vector of decoded values (nil Values means a zero-attribute type
// instance, distinct from an empty-but-present slot vector).
type Object struct {
	Type   *Type
	Values []Value
}

// Get returns the value at index, or Null if the object carries no
// value vector at all (a zero-attribute type).
func (o *Object) Get(index int) Value {
	if o.Values == nil {
		return Null
	}
	return o.Values[index]
}

// Set replaces the value at index. It panics if index is out of
// bounds or the object has no value vector, mirroring the original
// SDK's set_value, which is likewise only safe to call with a known
// valid index.
func (o *Object) Set(index int, value Value) {
	o.Values[index] = value
}

func (o *Object) String() string {
	return fmt.Sprintf("%s%v", o.Type.FQN(), o.Values)
}

const bitsetBlockSize = 8

func attrIsNull(bitset []byte, offset int) bool {
	return (bitset[offset>>3]>>(offset&(bitsetBlockSize-1)))&1 == 0
}

func setNull(bitset []byte, offset int) {
	bitset[offset>>3] &^= 1 << (offset & (bitsetBlockSize - 1))
}

func setNotNull(bitset []byte, offset int) {
	bitset[offset>>3] |= 1 << (offset & (bitsetBlockSize - 1))
}

// writeTo writes the OBJECT tag, the type's mapped id, then the
// object body via writeRawTo.
func (o *Object) writeTo(w io.Writer, abi *Abi) (int, error) {
	if err := WriteFixedU8(w, tagObject); err != nil {
		return 0, err
	}
	n, err := WriteVarU32(w, o.Type.MappedAbiTypeOffset)
	if err != nil {
		return 0, err
	}
	m, err := o.writeRawTo(w, abi)
	return 1 + n + m, err
}

// writeRawTo encodes the object body: the nullable bitset (if the
// type has any nullable attributes), then each attribute's value,
// skipping the value entirely for an attribute that is both nullable
// and actually null.
func (o *Object) writeRawTo(w io.Writer, abi *Abi) (int, error) {
	hasAttrs := o.Type.Attrs != nil
	hasValues := o.Values != nil
	switch {
	case !hasAttrs && !hasValues:
		return 0, nil
	case !hasAttrs && hasValues:
		return 0, fmt.Errorf("%w: object %q has 0 attributes defined but %d values", ErrObjectShapeInvalid, o.Type.FQN(), len(o.Values))
	case hasAttrs && !hasValues:
		return 0, fmt.Errorf("%w: object %q has %d attributes defined but 0 values", ErrObjectShapeInvalid, o.Type.FQN(), len(o.Type.Attrs))
	}

	n := 0
	attrs := o.Type.Attrs

	if o.Type.NullableNbBytes > 0 {
		bitset := make([]byte, o.Type.NullableNbBytes)
		nullableOffset := 0
		for i, attr := range attrs {
			if attr.Nullable {
				if o.Values[i].Kind == KindNull {
					setNull(bitset, nullableOffset)
				} else {
					setNotNull(bitset, nullableOffset)
				}
				nullableOffset++
			}
		}
		if _, err := w.Write(bitset); err != nil {
			return 0, fmt.Errorf("write nullable bitset: %w", err)
		}
		n += len(bitset)
	}

	for i, attr := range attrs {
		value := o.Values[i]
		if attr.Nullable && value.Kind == KindNull {
			continue
		}

		switch attr.SbiType {
		case tagBool:
			if value.Kind != KindBool {
				return 0, fmt.Errorf("%w: attribute %q in %q expected bool, got %v", ErrAttrMismatch, attr.String(), o.Type.FQN(), value)
			}
			m, err := value.WriteRawTo(w, abi)
			if err != nil {
				return 0, err
			}
			n += m
		case tagChar:
			if value.Kind != KindChar {
				return 0, fmt.Errorf("%w: attribute %q in %q expected char, got %v", ErrAttrMismatch, attr.String(), o.Type.FQN(), value)
			}
			m, err := value.WriteRawTo(w, abi)
			if err != nil {
				return 0, err
			}
			n += m
		case tagInt:
			if value.Kind != KindInt {
				return 0, fmt.Errorf("%w: attribute %q in %q expected int, got %v", ErrAttrMismatch, attr.String(), o.Type.FQN(), value)
			}
			m, err := value.WriteRawTo(w, abi)
			if err != nil {
				return 0, err
			}
			n += m
		case tagFloat:
			if value.Kind != KindFloat {
				return 0, fmt.Errorf("%w: attribute %q in %q expected float, got %v", ErrAttrMismatch, attr.String(), o.Type.FQN(), value)
			}
			m, err := value.WriteRawTo(w, abi)
			if err != nil {
				return 0, err
			}
			n += m
		case tagObject:
			switch value.Kind {
			case KindObject, KindArray, KindMap, KindString, KindSymbol, KindEnum:
				m, err := value.WriteRawTo(w, abi)
				if err != nil {
					return 0, err
				}
				n += m
			default:
				return 0, fmt.Errorf("%w: attribute %q in %q expected an object, got %v", ErrAttrMismatch, attr.String(), o.Type.FQN(), value)
			}
		case tagUndefined:
			m, err := value.WriteTo(w, abi)
			if err != nil {
				return 0, err
			}
			n += m
		case tagNull:
			// statically-typed-null attribute: nothing ever written.
		default:
			m, err := value.WriteRawTo(w, abi)
			if err != nil {
				return 0, err
			}
			n += m
		}
	}

	return n, nil
}
