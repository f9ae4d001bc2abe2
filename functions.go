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

// Param describes one parameter of a Function.
type Param struct {
	Name     uint32
	Type     *Type
	Nullable bool
}

// Function describes one entry of the ABI's function table.
type Function struct {
	Module uint32
	// Type is the owning type, or nil for a free function (wire id 0
	// is normalized to "no owner" at load time).
	Type    *Type
	Name    uint32
	LibName uint32
	Params  []Param

	ReturnType     *Type
	ReturnNullable bool
	IsTask         bool
}

// FQN renders "module::type::name" for a method, or "module::name"
// for a free function, using raw symbol ids.
func (f *Function) FQN() string {
	if f.Type != nil {
		return fmt.Sprintf("%d::%d::%d", f.Module, f.Type.Name, f.Name)
	}
	return fmt.Sprintf("%d::%d", f.Module, f.Name)
}

// NamedFQN renders the same shape as FQN but resolved against abi's
// symbol table.
func (f *Function) NamedFQN(abi *Abi) string {
	module := abi.Symbols.NameByID(f.Module)
	name := abi.Symbols.NameByID(f.Name)
	if f.Type != nil {
		return fmt.Sprintf("%s::%s::%s", module, abi.Symbols.NameByID(f.Type.Name), name)
	}
	return fmt.Sprintf("%s::%s", module, name)
}

// FunctionRegistry is the parsed function table of an ABI, indexed by
// fully-qualified name for O(1) lookup.
type FunctionRegistry struct {
	Functions []*Function
	byFQN     map[string]*Function
}

// readFunctionRegistry reads the function block: a u64 byte-size, a
// u32 count, then per-function fields as described in spec §4.3.
// Duplicate FQNs are not expected on the wire; if they occur, the last
// one read wins, matching the original SDK's HashMap-based index.
func readFunctionRegistry(r io.Reader, types *TypeRegistry) (*FunctionRegistry, error) {
	if _, err := ReadFixedU64LE(r); err != nil {
		return nil, fmt.Errorf("read function table size: %w", err)
	}
	count, err := ReadFixedU32LE(r)
	if err != nil {
		return nil, fmt.Errorf("read function count: %w", err)
	}

	functions := make([]*Function, 0, count)
	byFQN := make(map[string]*Function, count)

	for i := uint32(0); i < count; i++ {
		module, err := ReadVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("read function %d module: %w", i, err)
		}
		ownerID, err := ReadVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("read function %d owner type: %w", i, err)
		}
		name, err := ReadVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("read function %d name: %w", i, err)
		}
		libName, err := ReadVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("read function %d lib_name: %w", i, err)
		}
		paramCount, err := ReadVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("read function %d param count: %w", i, err)
		}

		params := make([]Param, paramCount)
		for j := uint32(0); j < paramCount; j++ {
			var nullableBuf [1]byte
			if _, err := io.ReadFull(r, nullableBuf[:]); err != nil {
				return nil, fmt.Errorf("read function %d param %d nullable: %w", i, j, err)
			}
			paramType, err := ReadVarU32(r)
			if err != nil {
				return nil, fmt.Errorf("read function %d param %d type: %w", i, j, err)
			}
			paramName, err := ReadVarU32(r)
			if err != nil {
				return nil, fmt.Errorf("read function %d param %d name: %w", i, j, err)
			}
			ty := types.Get(paramType)
			if ty == nil {
				return nil, fmt.Errorf("%w: function %d param %d references type id %d", ErrUnknownType, i, j, paramType)
			}
			params[j] = Param{
				Name:     paramName,
				Type:     ty,
				Nullable: nullableBuf[0] != 0,
			}
		}

		returnTypeID, err := ReadVarU32(r)
		if err != nil {
			return nil, fmt.Errorf("read function %d return type: %w", i, err)
		}
		var flagsBuf [1]byte
		if _, err := io.ReadFull(r, flagsBuf[:]); err != nil {
			return nil, fmt.Errorf("read function %d flags: %w", i, err)
		}
		flags := flagsBuf[0]

		returnType := types.Get(returnTypeID)
		if returnType == nil {
			return nil, fmt.Errorf("%w: function %d return type id %d", ErrUnknownType, i, returnTypeID)
		}

		var owner *Type
		if ownerID != 0 {
			owner = types.Get(ownerID)
			if owner == nil {
				return nil, fmt.Errorf("%w: function %d owner type id %d", ErrUnknownType, i, ownerID)
			}
		}

		fn := &Function{
			Module:         module,
			Type:           owner,
			Name:           name,
			LibName:        libName,
			Params:         params,
			ReturnType:     returnType,
			ReturnNullable: flags&1 != 0,
			IsTask:         flags&(1<<1) != 0,
		}
		functions = append(functions, fn)
		byFQN[fn.FQN()] = fn
	}

	return &FunctionRegistry{Functions: functions, byFQN: byFQN}, nil
}

// byFQNRaw looks up a function by its raw-symbol-id FQN (as produced
// by Function.FQN). The ABI's name-based resolver (Abi.GetFnByFQN)
// does not use it; it goes through the Abi's own hash index.
func (r *FunctionRegistry) byFQNRaw(fqn string) (*Function, bool) {
	f, ok := r.byFQN[fqn]
	return f, ok
}
