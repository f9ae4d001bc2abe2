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

// Node, NodeTime, NodeIndex, NodeList and NodeGeo are distinct
// wrapper types over an opaque u64 handle into the runtime's graph
// store. They are kept as separate Go types (rather than one aliased
// type) because each has its own wire tag and the codec must not
// confuse one for another, even though their wire representation
// (a plain varint u64) is identical. Unlike core::String/Array/Map,
// these are never looked up by name at decode time: the primitive
// tag already disambiguates them.
type (
	Node      uint64
	NodeTime  uint64
	NodeIndex uint64
	NodeList  uint64
	NodeGeo   uint64
)

func (n Node) String() string      { return fmt.Sprintf("%X", uint64(n)) }
func (n NodeTime) String() string  { return fmt.Sprintf("%X", uint64(n)) }
func (n NodeIndex) String() string { return fmt.Sprintf("%X", uint64(n)) }
func (n NodeList) String() string  { return fmt.Sprintf("%X", uint64(n)) }
func (n NodeGeo) String() string   { return fmt.Sprintf("%X", uint64(n)) }

func (n Node) writeTo(w io.Writer) (int, error)      { return writeNodeLike(w, tagNode, uint64(n)) }
func (n Node) writeRawTo(w io.Writer) (int, error)    { return WriteVarU64(w, uint64(n)) }
func (n NodeTime) writeTo(w io.Writer) (int, error)   { return writeNodeLike(w, tagNodeTime, uint64(n)) }
func (n NodeTime) writeRawTo(w io.Writer) (int, error) { return WriteVarU64(w, uint64(n)) }
func (n NodeIndex) writeTo(w io.Writer) (int, error)  { return writeNodeLike(w, tagNodeIndex, uint64(n)) }
func (n NodeIndex) writeRawTo(w io.Writer) (int, error) {
	return WriteVarU64(w, uint64(n))
}
func (n NodeList) writeTo(w io.Writer) (int, error) { return writeNodeLike(w, tagNodeList, uint64(n)) }
func (n NodeList) writeRawTo(w io.Writer) (int, error) {
	return WriteVarU64(w, uint64(n))
}
func (n NodeGeo) writeTo(w io.Writer) (int, error) { return writeNodeLike(w, tagNodeGeo, uint64(n)) }
func (n NodeGeo) writeRawTo(w io.Writer) (int, error) {
	return WriteVarU64(w, uint64(n))
}

func writeNodeLike(w io.Writer, tag uint8, v uint64) (int, error) {
	if err := WriteFixedU8(w, tag); err != nil {
		return 0, err
	}
	n, err := WriteVarU64(w, v)
	return 1 + n, err
}

func readNode(r io.Reader) (Node, error) {
	v, err := readNodeLike(r)
	return Node(v), err
}

func readNodeTime(r io.Reader) (NodeTime, error) {
	v, err := readNodeLike(r)
	return NodeTime(v), err
}

func readNodeIndex(r io.Reader) (NodeIndex, error) {
	v, err := readNodeLike(r)
	return NodeIndex(v), err
}

func readNodeList(r io.Reader) (NodeList, error) {
	v, err := readNodeLike(r)
	return NodeList(v), err
}

func readNodeGeo(r io.Reader) (NodeGeo, error) {
	v, err := readNodeLike(r)
	return NodeGeo(v), err
}

func readNodeLike(r io.Reader) (uint64, error) {
	v, err := ReadVarU64(r)
	if err != nil {
		return 0, fmt.Errorf("read node: %w", err)
	}
	return v, nil
}
