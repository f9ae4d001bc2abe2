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

import "errors"

// Sentinel errors a host program can match with errors.Is. The codec
// itself always returns a wrapped error carrying the offending name,
// these exist only so callers can branch on the error kind.
var (
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrUnknownType        = errors.New("unknown type")
	ErrUnknownFunction    = errors.New("unknown function")
	ErrNativeUnsupported  = errors.New("unsupported native type")
	ErrFnUnsupported      = errors.New("function pointers are not supported")
	ErrProtocolMismatch   = errors.New("protocol mismatch")
	ErrNotASCII           = errors.New("not an ASCII char")
	ErrAttrMismatch       = errors.New("attribute value/type mismatch")
	ErrObjectShapeInvalid = errors.New("object has attributes but no values, or vice versa")
	ErrEnumNoAttrs        = errors.New("enum type has no attributes")
)
