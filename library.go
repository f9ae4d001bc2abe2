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

import "io"

// TypeLoader decodes the body of a native type's instance from r. It
// is handed the reader directly (rather than mimicking the original
// SDK's "the reader implements the loader" trick) since Go has no
// equivalent of implementing a trait for every Read implementation.
// TypeLoaderFunc adapts a plain function to this interface.
type TypeLoader interface {
	Load(r io.Reader, ty *Type, abi *Abi) (Value, error)
}

// TypeLoaderFunc adapts a function to a TypeLoader.
type TypeLoaderFunc func(r io.Reader, ty *Type, abi *Abi) (Value, error)

// Load calls f.
func (f TypeLoaderFunc) Load(r io.Reader, ty *Type, abi *Abi) (Value, error) {
	return f(r, ty, abi)
}

// TypeFactory constructs a native type's instance from its already
// decoded attribute values, for libraries that build instances
// programmatically rather than off the wire.
type TypeFactory interface {
	Create(ty *Type, attrs []Value) (Value, error)
}

// TypeFactoryFunc adapts a function to a TypeFactory.
type TypeFactoryFunc func(ty *Type, attrs []Value) (Value, error)

// Create calls f.
func (f TypeFactoryFunc) Create(ty *Type, attrs []Value) (Value, error) {
	return f(ty, attrs)
}

// Library is an extension registered with an Abi to handle native
// types: its Configure hook contributes loaders/factories keyed by
// fully-qualified type name, and its Init hook runs once the Abi is
// otherwise fully loaded.
type Library interface {
	Name() string
	Configure(loaders map[string]TypeLoader, factories map[string]TypeFactory) error
	Init(abi *Abi) error
}

// stdLibrary is the always-present default library. Unlike the rest
// of an Abi's libraries, it is never supplied by the caller; LoadAbi
// appends it automatically unless the caller already registered one
// named "std".
type stdLibrary struct{}

func newStdLibrary() *stdLibrary {
	return &stdLibrary{}
}

func (*stdLibrary) Name() string { return "std" }

func (*stdLibrary) Configure(loaders map[string]TypeLoader, factories map[string]TypeFactory) error {
	loaders["core::String"] = TypeLoaderFunc(func(r io.Reader, ty *Type, abi *Abi) (Value, error) {
		s, err := ReadString(r, abi)
		if err != nil {
			return Value{}, err
		}
		return ObjectValue(&Object{Type: ty, Values: []Value{s}}), nil
	})
	return nil
}

// Init has nothing to do for the standard library: core::String,
// core::Array and core::Map are decoded structurally by id rather
// than through the loader registry (see readObjectOfType), so there
// is no further state to prepare here.
func (*stdLibrary) Init(abi *Abi) error {
	return nil
}
