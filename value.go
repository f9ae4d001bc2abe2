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

// Kind discriminates the variant a Value holds. Most kinds reuse the
// wire's own primitive tag byte as their numeric value; the three
// kinds that share the OBJECT wire tag with ordinary struct objects
// (string, array, map) are assigned values above
// the primitive tag range so they never collide.
type Kind = uint8

const (
	KindNull      Kind = tagNull
	KindBool      Kind = tagBool
	KindChar      Kind = tagChar
	KindInt       Kind = tagInt
	KindFloat     Kind = tagFloat
	KindNode      Kind = tagNode
	KindNodeTime  Kind = tagNodeTime
	KindNodeIndex Kind = tagNodeIndex
	KindNodeList  Kind = tagNodeList
	KindNodeGeo   Kind = tagNodeGeo
	KindGeo       Kind = tagGeo
	KindTime      Kind = tagTime
	KindDuration  Kind = tagDuration
	KindSymbol    Kind = tagStrLit
	KindEnum      Kind = tagEnum
	KindObject    Kind = tagObject

	// KindString, KindArray and KindMap all travel under the OBJECT
	// wire tag (disambiguated there by the attached type id matching
	// the ABI's core string/array/map type), but get their own Kind
	// here so callers can switch on Value.Kind without consulting an
	// Abi.
	KindString Kind = 0xF1
	KindArray  Kind = 0xF2
	KindMap    Kind = 0xF3
)

// MapEntry is one key/value pair of a Map-kind Value. Wire order is
// preserved on read and reproduced verbatim on write; no ordering is
// imposed, matching the original SDK's map representation being an
// ordered structure only incidentally (insertion order on write, and
// whatever order the wire held on read).
type MapEntry struct {
	Key   Value
	Value Value
}

// Value is a tagged union over every wire-representable GreyCat
// value. Exactly the fields relevant to Kind are meaningful; the rest
// are left at their zero value. This shape was chosen over a Go
// interface-per-variant design so that zero-value construction
// (Value{} is Null) stays simple, at the cost of a somewhat larger
// struct than a pointer-based sum type would need. Because Value holds
// slices, it is not comparable with == and cannot key a Go map.
type Value struct {
	Kind Kind

	Int      int64
	Float    Float
	Bool     bool
	Char     rune
	Str      string // Symbol or String
	Array    []Value
	Map      []MapEntry
	Node     Node
	NodeTime NodeTime
	NodeIdx  NodeIndex
	NodeList NodeList
	NodeGeo  NodeGeo
	Geo      Geo
	Time     Time
	Duration Duration
	Enum     *Enum
	Object   *Object
}

// Null is the zero Value.
var Null = Value{Kind: KindNull}

func IntValue(v int64) Value           { return Value{Kind: KindInt, Int: v} }
func FloatValue(v float64) Value       { return Value{Kind: KindFloat, Float: NewFloat(v)} }
func BoolValue(v bool) Value           { return Value{Kind: KindBool, Bool: v} }
func CharValue(v rune) Value           { return Value{Kind: KindChar, Char: v} }
func StringValue(v string) Value       { return Value{Kind: KindString, Str: v} }
func SymbolValue(v string) Value       { return Value{Kind: KindSymbol, Str: v} }
func ArrayValue(v []Value) Value       { return Value{Kind: KindArray, Array: v} }
func MapValue(v []MapEntry) Value      { return Value{Kind: KindMap, Map: v} }
func NodeValue(v Node) Value           { return Value{Kind: KindNode, Node: v} }
func NodeTimeValue(v NodeTime) Value   { return Value{Kind: KindNodeTime, NodeTime: v} }
func NodeIndexValue(v NodeIndex) Value { return Value{Kind: KindNodeIndex, NodeIdx: v} }
func NodeListValue(v NodeList) Value   { return Value{Kind: KindNodeList, NodeList: v} }
func NodeGeoValue(v NodeGeo) Value     { return Value{Kind: KindNodeGeo, NodeGeo: v} }
func GeoValue(v Geo) Value             { return Value{Kind: KindGeo, Geo: v} }
func TimeValue(v Time) Value           { return Value{Kind: KindTime, Time: v} }
func DurationValue(v Duration) Value   { return Value{Kind: KindDuration, Duration: v} }
func EnumValue(v *Enum) Value          { return Value{Kind: KindEnum, Enum: v} }
func ObjectValue(v *Object) Value      { return Value{Kind: KindObject, Object: v} }

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return v.Float.String()
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindChar:
		return fmt.Sprintf("%c", v.Char)
	case KindString:
		return v.Str
	case KindSymbol:
		return v.Str
	case KindArray:
		return fmt.Sprintf("%v", v.Array)
	case KindMap:
		return fmt.Sprintf("%v", v.Map)
	case KindNode:
		return v.Node.String()
	case KindNodeTime:
		return v.NodeTime.String()
	case KindNodeIndex:
		return v.NodeIdx.String()
	case KindNodeList:
		return v.NodeList.String()
	case KindNodeGeo:
		return v.NodeGeo.String()
	case KindGeo:
		return v.Geo.String()
	case KindTime:
		return v.Time.String()
	case KindDuration:
		return v.Duration.String()
	case KindEnum:
		return v.Enum.String()
	case KindObject:
		return v.Object.String()
	default:
		return fmt.Sprintf("Value{Kind:%d}", v.Kind)
	}
}

// WriteTo serializes v fully, with its leading tag byte (and, for
// object/array/map/enum, the type id that follows it).
func (v Value) WriteTo(w io.Writer, abi *Abi) (int, error) {
	switch v.Kind {
	case KindNull:
		if err := WriteFixedU8(w, tagNull); err != nil {
			return 0, err
		}
		return 1, nil
	case KindInt:
		if err := WriteFixedU8(w, tagInt); err != nil {
			return 0, err
		}
		n, err := WriteVarI64(w, v.Int)
		return 1 + n, err
	case KindFloat:
		return v.Float.writeTo(w)
	case KindBool:
		if err := WriteFixedU8(w, tagBool); err != nil {
			return 0, err
		}
		var b uint8
		if v.Bool {
			b = 1
		}
		if err := WriteFixedU8(w, b); err != nil {
			return 0, err
		}
		return 2, nil
	case KindChar:
		if !isASCIIRune(v.Char) {
			return 0, fmt.Errorf("%w: %q", ErrNotASCII, v.Char)
		}
		if err := WriteFixedU8(w, tagChar); err != nil {
			return 0, err
		}
		if err := WriteFixedU8(w, byte(v.Char)); err != nil {
			return 0, err
		}
		return 2, nil
	case KindSymbol:
		id, ok := abi.GetSymbolID(v.Str)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownSymbol, v.Str)
		}
		return writeSymbolRef(w, id)
	case KindString:
		return writeString(w, abi, v.Str)
	case KindArray:
		if err := WriteFixedU8(w, tagObject); err != nil {
			return 0, err
		}
		n, err := WriteVarU32(w, abi.Types.Core.ArrayID)
		if err != nil {
			return 0, err
		}
		m, err := v.writeArrayRawTo(w, abi)
		return 1 + n + m, err
	case KindMap:
		if err := WriteFixedU8(w, tagObject); err != nil {
			return 0, err
		}
		n, err := WriteVarU32(w, abi.Types.Core.MapID)
		if err != nil {
			return 0, err
		}
		m, err := v.writeMapRawTo(w, abi)
		return 1 + n + m, err
	case KindNode:
		return v.Node.writeTo(w)
	case KindNodeTime:
		return v.NodeTime.writeTo(w)
	case KindNodeIndex:
		return v.NodeIdx.writeTo(w)
	case KindNodeList:
		return v.NodeList.writeTo(w)
	case KindNodeGeo:
		return v.NodeGeo.writeTo(w)
	case KindGeo:
		return v.Geo.writeTo(w)
	case KindTime:
		return v.Time.writeTo(w)
	case KindDuration:
		return v.Duration.writeTo(w)
	case KindEnum:
		return v.Enum.writeTo(w)
	case KindObject:
		return v.Object.writeTo(w, abi)
	default:
		return 0, fmt.Errorf("write value: unhandled kind %d", v.Kind)
	}
}

// WriteRawTo serializes v without its leading tag (and, for
// object/array/map, without the type id): used when an attribute's
// static type already told the reader what to expect.
func (v Value) WriteRawTo(w io.Writer, abi *Abi) (int, error) {
	switch v.Kind {
	case KindNull:
		return 0, nil
	case KindInt:
		return WriteVarI64(w, v.Int)
	case KindFloat:
		return v.Float.writeRawTo(w)
	case KindBool:
		var b uint8
		if v.Bool {
			b = 1
		}
		if err := WriteFixedU8(w, b); err != nil {
			return 0, err
		}
		return 1, nil
	case KindChar:
		if !isASCIIRune(v.Char) {
			return 0, fmt.Errorf("%w: %q", ErrNotASCII, v.Char)
		}
		if err := WriteFixedU8(w, byte(v.Char)); err != nil {
			return 0, err
		}
		return 1, nil
	case KindSymbol:
		id, ok := abi.GetSymbolID(v.Str)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownSymbol, v.Str)
		}
		return writeSymbolRefRaw(w, id)
	case KindString:
		return writeStringRawTo(w, abi, v.Str)
	case KindArray:
		return v.writeArrayRawTo(w, abi)
	case KindMap:
		return v.writeMapRawTo(w, abi)
	case KindNode:
		return v.Node.writeRawTo(w)
	case KindNodeTime:
		return v.NodeTime.writeRawTo(w)
	case KindNodeIndex:
		return v.NodeIdx.writeRawTo(w)
	case KindNodeList:
		return v.NodeList.writeRawTo(w)
	case KindNodeGeo:
		return v.NodeGeo.writeRawTo(w)
	case KindGeo:
		return v.Geo.writeRawTo(w)
	case KindTime:
		return v.Time.writeRawTo(w)
	case KindDuration:
		return v.Duration.writeRawTo(w)
	case KindEnum:
		return v.Enum.writeRawTo(w)
	case KindObject:
		return v.Object.writeRawTo(w, abi)
	default:
		return 0, fmt.Errorf("write value raw: unhandled kind %d", v.Kind)
	}
}

func (v Value) writeArrayRawTo(w io.Writer, abi *Abi) (int, error) {
	n, err := WriteVarU32(w, uint32(len(v.Array)))
	if err != nil {
		return 0, err
	}
	for _, elem := range v.Array {
		m, err := elem.WriteTo(w, abi)
		if err != nil {
			return 0, err
		}
		n += m
	}
	return n, nil
}

func (v Value) writeMapRawTo(w io.Writer, abi *Abi) (int, error) {
	n, err := WriteVarU32(w, uint32(len(v.Map)))
	if err != nil {
		return 0, err
	}
	for _, entry := range v.Map {
		k, err := entry.Key.WriteTo(w, abi)
		if err != nil {
			return 0, err
		}
		n += k
		val, err := entry.Value.WriteTo(w, abi)
		if err != nil {
			return 0, err
		}
		n += val
	}
	return n, nil
}

func isASCIIRune(r rune) bool {
	return r >= 0 && r < 0x80
}
