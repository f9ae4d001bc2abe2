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
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/spaolacci/murmur3"
)

// RequestHeaders precede every request/response payload exchanged
// with a GreyCat server.
type RequestHeaders struct {
	Protocol uint16
	Magic    uint16
	Version  uint32
}

func readRequestHeaders(r io.Reader) (RequestHeaders, error) {
	protocol, err := ReadFixedU16LE(r)
	if err != nil {
		return RequestHeaders{}, fmt.Errorf("read request headers protocol: %w", err)
	}
	magic, err := ReadFixedU16LE(r)
	if err != nil {
		return RequestHeaders{}, fmt.Errorf("read request headers magic: %w", err)
	}
	version, err := ReadFixedU32LE(r)
	if err != nil {
		return RequestHeaders{}, fmt.Errorf("read request headers version: %w", err)
	}
	return RequestHeaders{Protocol: protocol, Magic: magic, Version: version}, nil
}

// WriteTo writes the request headers with no leading framing of their
// own (there is nothing that precedes them), returning the number of
// bytes written (always 8: 2+2+4).
func (h RequestHeaders) WriteTo(w io.Writer) (int, error) {
	if err := WriteFixedU16LE(w, h.Protocol); err != nil {
		return 0, err
	}
	if err := WriteFixedU16LE(w, h.Magic); err != nil {
		return 0, err
	}
	if err := WriteFixedU32LE(w, h.Version); err != nil {
		return 0, err
	}
	return 8, nil
}

// AbiHeaders is the request headers plus the opaque CRC that follows
// them in an ABI block. The CRC is retained but never validated by
// this SDK.
type AbiHeaders struct {
	RequestHeaders
	CRC uint64
}

func readAbiHeaders(r io.Reader) (AbiHeaders, error) {
	headers, err := readRequestHeaders(r)
	if err != nil {
		return AbiHeaders{}, err
	}
	crc, err := ReadFixedU64LE(r)
	if err != nil {
		return AbiHeaders{}, fmt.Errorf("read abi crc: %w", err)
	}
	return AbiHeaders{RequestHeaders: headers, CRC: crc}, nil
}

// ModVar is a module-level variable declared on the ABI's synthetic
// root type.
type ModVar struct {
	Module   uint32
	Name     uint32
	Type     *Type
	Nullable bool
}

// Abi is a fully loaded GreyCat ABI: symbols, types, functions, the
// request/crc headers it was read with, and any library extensions
// registered for native type loading/factory hooks. It is read-only
// after LoadAbi returns and safe for concurrent readers.
type Abi struct {
	Headers   AbiHeaders
	Symbols   *SymbolTable
	Types     *TypeRegistry
	Functions *FunctionRegistry

	libraries []Library
	loaders   map[string]TypeLoader
	factories map[string]TypeFactory

	typeIndex map[uint32][]*Type
	fnIndex   map[uint32][]*Function
}

// AbiBuilder configures optional library extensions before loading an
// ABI. The zero value is ready to use.
type AbiBuilder struct {
	libraries []Library
}

// NewAbiBuilder returns an empty AbiBuilder.
func NewAbiBuilder() *AbiBuilder {
	return &AbiBuilder{}
}

// WithLibrary appends a single library extension.
func (b *AbiBuilder) WithLibrary(lib Library) *AbiBuilder {
	b.libraries = append(b.libraries, lib)
	return b
}

// WithLibraries appends a batch of library extensions.
func (b *AbiBuilder) WithLibraries(libs []Library) *AbiBuilder {
	b.libraries = append(b.libraries, libs...)
	return b
}

// Build reads an ABI from r using the libraries accumulated so far.
func (b *AbiBuilder) Build(r io.Reader) (*Abi, error) {
	return LoadAbi(r, b.libraries)
}

// LoadAbi reads a complete ABI block from r: headers, CRC, symbol
// table, type registry, function registry, in that order. If no
// supplied library is named "std", a default std library is appended.
func LoadAbi(r io.Reader, libraries []Library) (*Abi, error) {
	headers, err := readAbiHeaders(r)
	if err != nil {
		return nil, fmt.Errorf("load abi headers: %w", err)
	}
	symbols, err := readSymbolTable(r)
	if err != nil {
		return nil, fmt.Errorf("load abi symbols: %w", err)
	}
	types, err := readTypeRegistry(r, symbols)
	if err != nil {
		return nil, fmt.Errorf("load abi types: %w", err)
	}
	functions, err := readFunctionRegistry(r, types)
	if err != nil {
		return nil, fmt.Errorf("load abi functions: %w", err)
	}

	hasStd := false
	for _, lib := range libraries {
		if lib.Name() == "std" {
			hasStd = true
			break
		}
	}
	if !hasStd {
		libraries = append(libraries, newStdLibrary())
	}

	abi := &Abi{
		Headers:   headers,
		Symbols:   symbols,
		Types:     types,
		Functions: functions,
		libraries: libraries,
		loaders:   make(map[string]TypeLoader),
		factories: make(map[string]TypeFactory),
	}

	for _, lib := range libraries {
		if err := lib.Configure(abi.loaders, abi.factories); err != nil {
			return nil, fmt.Errorf("configure library %q: %w", lib.Name(), err)
		}
	}
	for _, lib := range libraries {
		if err := lib.Init(abi); err != nil {
			return nil, fmt.Errorf("init library %q: %w", lib.Name(), err)
		}
	}

	abi.buildIndexes()
	return abi, nil
}

// symbolPairHash hashes a (module, name) symbol-id pair the same way
// for both the type and the function indexes, so bucket collisions
// across either index have the same, cheap shape to resolve.
func symbolPairHash(module, name uint32) uint32 {
	var key [8]byte
	binary.LittleEndian.PutUint32(key[0:4], module)
	binary.LittleEndian.PutUint32(key[4:8], name)
	return murmur3.Sum32(key[:])
}

func (a *Abi) buildIndexes() {
	a.typeIndex = make(map[uint32][]*Type, len(a.Types.Types))
	for _, ty := range a.Types.Types {
		h := symbolPairHash(ty.Module, ty.Name)
		a.typeIndex[h] = append(a.typeIndex[h], ty)
	}

	a.fnIndex = make(map[uint32][]*Function, len(a.Functions.Functions))
	for _, fn := range a.Functions.Functions {
		h := symbolPairHash(fn.Module, fn.Name)
		a.fnIndex[h] = append(a.fnIndex[h], fn)
	}
}

// GetSymbolID returns the id of the symbol named value, if interned.
func (a *Abi) GetSymbolID(value string) (uint32, bool) {
	return a.Symbols.IDByName(value)
}

// moduleAndName resolves two plain names to their symbol ids.
func (a *Abi) moduleAndName(module, name string) (uint32, uint32, bool) {
	m, ok := a.Symbols.IDByName(module)
	if !ok {
		return 0, 0, false
	}
	n, ok := a.Symbols.IDByName(name)
	if !ok {
		return 0, 0, false
	}
	return m, n, true
}

// parseFQN splits fqn on the first "::" into (module, name). This
// mirrors the original SDK exactly: only the first separator is
// consumed, so a three-part "module::type::name" collapses into
// module="module", name="type::name" -- which will simply fail to
// resolve to a symbol (symbols never contain "::"). Owner-qualified
// lookups are expected to go through GetTypeByModuleAndName instead.
func (a *Abi) parseFQN(fqn string) (uint32, uint32, bool) {
	module, name, found := strings.Cut(fqn, "::")
	if !found {
		return 0, 0, false
	}
	return a.moduleAndName(module, name)
}

// GetTypeByFQN resolves a "module::name" fully-qualified name to its
// Type.
func (a *Abi) GetTypeByFQN(fqn string) *Type {
	module, name, ok := a.parseFQN(fqn)
	if !ok {
		return nil
	}
	return a.findType(module, name)
}

// GetTypeByModuleAndName resolves a type by its separate module and
// name strings.
func (a *Abi) GetTypeByModuleAndName(module, name string) *Type {
	m, n, ok := a.moduleAndName(module, name)
	if !ok {
		return nil
	}
	return a.findType(m, n)
}

func (a *Abi) findType(module, name uint32) *Type {
	for _, ty := range a.typeIndex[symbolPairHash(module, name)] {
		if ty.Module == module && ty.Name == name {
			return ty
		}
	}
	return nil
}

// GetFnByFQN resolves a "module::name" fully-qualified name to its
// Function. As with GetTypeByFQN/parseFQN, a three-part
// "module::type::name" does not resolve; the owning type is not part
// of the match, so a method is found by its module and name alone.
func (a *Abi) GetFnByFQN(fqn string) *Function {
	module, name, ok := a.parseFQN(fqn)
	if !ok {
		return nil
	}
	for _, fn := range a.fnIndex[symbolPairHash(module, name)] {
		if fn.Module == module && fn.Name == name {
			return fn
		}
	}
	return nil
}

// rootTypeFQN is the synthetic type carrying module-level variables
// as its attribute list.
const rootTypeFQN = "::$$$root"

// GetModVars enumerates the attributes of the synthetic root type,
// re-splitting each attribute's "<module>.<name>" symbol into a
// ModVar. Returns nil if the ABI has no root type (e.g. a minimal
// hand-built ABI in tests).
func (a *Abi) GetModVars() []ModVar {
	root := a.GetTypeByFQN(rootTypeFQN)
	if root == nil {
		return nil
	}

	modvars := make([]ModVar, 0, len(root.Attrs))
	for _, attr := range root.Attrs {
		full := a.Symbols.NameByID(attr.Name)
		module, name, found := strings.Cut(full, ".")
		if !found {
			continue // malformed modvar name, skip rather than panic
		}
		moduleID, ok1 := a.Symbols.IDByName(module)
		nameID, ok2 := a.Symbols.IDByName(name)
		if !ok1 || !ok2 {
			continue
		}
		modvars = append(modvars, ModVar{
			Module:   moduleID,
			Name:     nameID,
			Type:     attr.ProgType,
			Nullable: attr.Nullable,
		})
	}
	return modvars
}

// CheckProtocol compares a received payload's request headers against
// this ABI's own protocol field, returning ErrProtocolMismatch if they
// disagree. The SDK never attempts tolerant or versioned decoding: a
// mismatch is always a hard error.
func (a *Abi) CheckProtocol(headers RequestHeaders) error {
	if headers.Protocol != a.Headers.Protocol {
		return fmt.Errorf("%w: abi protocol %d, payload protocol %d", ErrProtocolMismatch, a.Headers.Protocol, headers.Protocol)
	}
	return nil
}
