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

// Primitive tag codes, as they appear on the wire prefixing a tagged
// value or describing an attribute's static type.
const (
	tagNull      uint8 = 0
	tagBool      uint8 = 1
	tagChar      uint8 = 2
	tagInt       uint8 = 3
	tagFloat     uint8 = 4
	tagNode      uint8 = 5
	tagNodeTime  uint8 = 6
	tagNodeIndex uint8 = 7
	tagNodeList  uint8 = 8
	tagNodeGeo   uint8 = 9
	tagGeo       uint8 = 10
	tagTime      uint8 = 11
	tagDuration  uint8 = 12
	tagEnum      uint8 = 14
	tagObject    uint8 = 15
	tagFn        uint8 = 26
	// tagUndefined means "polymorphic, tag-prefixed on the wire" when
	// it appears as an attribute's static sbi_type. It never appears
	// standalone as a value's own leading tag byte.
	tagUndefined uint8 = 27
	tagStrLit    uint8 = 28
)
