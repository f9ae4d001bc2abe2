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

// Package greycat implements a client-side codec for the GreyCat
// runtime's ABI-described binary wire format: an indexed, self
// describing type system (symbols, types, functions) paired with a
// recursive tagged-value serializer/deserializer.
package greycat

import (
	"fmt"
	"io"
)

// WriteValue serializes v with its leading tag, equivalent to calling
// v.WriteTo(w, abi) but matching the naming of the package's other
// top-level Read*/Write* pairs.
func WriteValue(w io.Writer, abi *Abi, v Value) (int, error) {
	return v.WriteTo(w, abi)
}

// HeaderValue pairs a decoded/encoded Value with the request headers
// that preceded it on the wire.
type HeaderValue struct {
	Headers RequestHeaders
	Value   Value
}

// ReadHeaderValue reads request headers followed by a single tagged
// value, the framing used for individual request/response payloads
// (as opposed to the larger ABI block, which carries its own
// AbiHeaders).
func ReadHeaderValue(r io.Reader, abi *Abi) (HeaderValue, error) {
	headers, err := readRequestHeaders(r)
	if err != nil {
		return HeaderValue{}, fmt.Errorf("read header value headers: %w", err)
	}
	value, err := ReadValue(r, abi)
	if err != nil {
		return HeaderValue{}, fmt.Errorf("read header value: %w", err)
	}
	return HeaderValue{Headers: headers, Value: value}, nil
}

// WriteTo writes h's headers followed by its value.
func (h HeaderValue) WriteTo(w io.Writer, abi *Abi) (int, error) {
	n, err := h.Headers.WriteTo(w)
	if err != nil {
		return 0, err
	}
	m, err := h.Value.WriteTo(w, abi)
	return n + m, err
}
