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

func roundTripValue(t *testing.T, abi *Abi, v Value) Value {
	t.Helper()
	var buf bytes.Buffer
	_, err := v.WriteTo(&buf, abi)
	require.NoError(t, err)
	got, err := ReadValue(bytes.NewReader(buf.Bytes()), abi)
	require.NoError(t, err)
	return got
}

func TestValueRoundTripPrimitives(t *testing.T) {
	abi := newTestAbi(t)

	require.Equal(t, Null, roundTripValue(t, abi, Null))
	require.Equal(t, IntValue(-42), roundTripValue(t, abi, IntValue(-42)))
	require.Equal(t, BoolValue(true), roundTripValue(t, abi, BoolValue(true)))
	require.Equal(t, BoolValue(false), roundTripValue(t, abi, BoolValue(false)))
	require.Equal(t, CharValue('d'), roundTripValue(t, abi, CharValue('d')))

	got := roundTripValue(t, abi, FloatValue(3.14159))
	require.Equal(t, KindFloat, got.Kind)
	require.True(t, NewFloat(3.14159).Equal(got.Float))
}

// TestCharWireIsOneByte pins the worked example from the wire spec:
// 'd' (0x64) encodes as tag (0x02) followed by exactly one body byte.
func TestCharWireIsOneByte(t *testing.T) {
	abi := newTestAbi(t)
	var buf bytes.Buffer
	_, err := CharValue('d').WriteTo(&buf, abi)
	require.NoError(t, err)
	require.Equal(t, []byte{tagChar, 0x64}, buf.Bytes())
}

func TestCharRejectsNonASCII(t *testing.T) {
	abi := newTestAbi(t)
	var buf bytes.Buffer
	_, err := CharValue('é').WriteTo(&buf, abi)
	require.ErrorIs(t, err, ErrNotASCII)
}

func TestValueRoundTripNodesGeoTimeDuration(t *testing.T) {
	abi := newTestAbi(t)

	require.Equal(t, NodeValue(Node(0xABCDEF)), roundTripValue(t, abi, NodeValue(Node(0xABCDEF))))
	require.Equal(t, NodeTimeValue(NodeTime(123)), roundTripValue(t, abi, NodeTimeValue(NodeTime(123))))
	require.Equal(t, NodeIndexValue(NodeIndex(456)), roundTripValue(t, abi, NodeIndexValue(NodeIndex(456))))
	require.Equal(t, NodeListValue(NodeList(789)), roundTripValue(t, abi, NodeListValue(NodeList(789))))
	require.Equal(t, NodeGeoValue(NodeGeo(321)), roundTripValue(t, abi, NodeGeoValue(NodeGeo(321))))

	g := FromLatLng(48.1173, -1.6777)
	require.Equal(t, GeoValue(g), roundTripValue(t, abi, GeoValue(g)))

	require.Equal(t, TimeValue(NewTime(1_700_000_000_000_000)), roundTripValue(t, abi, TimeValue(NewTime(1_700_000_000_000_000))))
	require.Equal(t, DurationValue(NewDuration(-5_000_000)), roundTripValue(t, abi, DurationValue(NewDuration(-5_000_000))))
}

// TestValueStringDispatch pins the write-side probing: a string that
// matches an interned symbol is written (and read back) as a symbol,
// not as a core::String object, and vice versa.
func TestValueStringDispatch(t *testing.T) {
	abi := newTestAbi(t)

	interned := roundTripValue(t, abi, StringValue(fxPoint))
	require.Equal(t, KindSymbol, interned.Kind)
	require.Equal(t, fxPoint, interned.Str)

	fresh := roundTripValue(t, abi, StringValue("not interned anywhere"))
	require.Equal(t, KindString, fresh.Kind)
	require.Equal(t, "not interned anywhere", fresh.Str)
}

func TestSymbolValueUnknownIsError(t *testing.T) {
	abi := newTestAbi(t)
	var buf bytes.Buffer
	_, err := SymbolValue("totally-unknown-symbol").WriteTo(&buf, abi)
	require.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestValueRoundTripArray(t *testing.T) {
	abi := newTestAbi(t)
	arr := ArrayValue([]Value{IntValue(1), StringValue("hi"), BoolValue(true), Null})
	got := roundTripValue(t, abi, arr)
	require.Equal(t, KindArray, got.Kind)
	require.Len(t, got.Array, 4)
	require.Equal(t, IntValue(1), got.Array[0])
	require.Equal(t, BoolValue(true), got.Array[2])
	require.Equal(t, Null, got.Array[3])
}

func TestValueRoundTripMap(t *testing.T) {
	abi := newTestAbi(t)
	m := MapValue([]MapEntry{
		{Key: StringValue("a"), Value: IntValue(1)},
		{Key: StringValue("b"), Value: IntValue(2)},
	})
	got := roundTripValue(t, abi, m)
	require.Equal(t, KindMap, got.Kind)
	require.Len(t, got.Map, 2)
	require.Equal(t, "a", got.Map[0].Key.Str)
	require.Equal(t, IntValue(1), got.Map[0].Value)
}

func TestValueRoundTripEmptyArrayAndMap(t *testing.T) {
	abi := newTestAbi(t)
	got := roundTripValue(t, abi, ArrayValue(nil))
	require.Equal(t, KindArray, got.Kind)
	require.Len(t, got.Array, 0)

	gotMap := roundTripValue(t, abi, MapValue(nil))
	require.Equal(t, KindMap, gotMap.Kind)
	require.Len(t, gotMap.Map, 0)
}
