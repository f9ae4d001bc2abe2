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
	"io"
	"time"
)

// Time is a signed microsecond offset from the Unix epoch.
type Time int64

// NewTime wraps t as microseconds since the epoch.
func NewTime(v int64) Time { return Time(v) }

// Std converts t to a standard library time.Time in UTC.
func (t Time) Std() time.Time {
	return time.UnixMicro(int64(t)).UTC()
}

// String renders t as RFC3339 with microsecond precision, matching
// the original SDK's ISO-8601 debug rendering. time.UnixMicro never
// fails to produce a usable time.Time, so unlike the original there is
// no raw-integer fallback branch.
func (t Time) String() string {
	return t.Std().Format("2006-01-02T15:04:05.000000Z07:00")
}

func (t Time) writeTo(w io.Writer) (int, error) {
	if err := WriteFixedU8(w, tagTime); err != nil {
		return 0, err
	}
	n, err := t.writeRawTo(w)
	return 1 + n, err
}

func (t Time) writeRawTo(w io.Writer) (int, error) {
	return WriteVarI64(w, int64(t))
}

func readTime(r io.Reader) (Time, error) {
	v, err := ReadVarI64(r)
	if err != nil {
		return 0, err
	}
	return Time(v), nil
}

// Duration is a signed microsecond span.
type Duration int64

// NewDuration wraps d as microseconds.
func NewDuration(v int64) Duration { return Duration(v) }

// Std converts d to a standard library time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d) * time.Microsecond
}

func (d Duration) String() string {
	return d.Std().String()
}

func (d Duration) writeTo(w io.Writer) (int, error) {
	if err := WriteFixedU8(w, tagDuration); err != nil {
		return 0, err
	}
	n, err := d.writeRawTo(w)
	return 1 + n, err
}

func (d Duration) writeRawTo(w io.Writer) (int, error) {
	return WriteVarI64(w, int64(d))
}

func readDuration(r io.Reader) (Duration, error) {
	v, err := ReadVarI64(r)
	if err != nil {
		return 0, err
	}
	return Duration(v), nil
}
