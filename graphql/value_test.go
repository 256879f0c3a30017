// Copyright 2019 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package graphql

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestScalarFromGo(t *testing.T) {
	tests := []struct {
		name    string
		goValue reflect.Value
		typ     *gqlType
		want    valueExpectations
		wantErr bool
	}{
		{
			name:    "String/Empty",
			goValue: reflect.ValueOf(""),
			typ:     stringType,
			want:    valueExpectations{scalar: ""},
		},
		{
			name:    "String/Nonempty",
			goValue: reflect.ValueOf("foo"),
			typ:     stringType,
			want:    valueExpectations{scalar: "foo"},
		},
		{
			name:    "String/Null",
			goValue: reflect.ValueOf(new(*string)).Elem(),
			typ:     stringType,
			want:    valueExpectations{null: true},
		},
		{
			name:    "Boolean/True",
			goValue: reflect.ValueOf(true),
			typ:     booleanType,
			want:    valueExpectations{scalar: "true"},
		},
		{
			name:    "Boolean/False",
			goValue: reflect.ValueOf(false),
			typ:     booleanType,
			want:    valueExpectations{scalar: "false"},
		},
		{
			name:    "Integer/Int32/Negative",
			goValue: reflect.ValueOf(int32(-123)),
			typ:     intType,
			want:    valueExpectations{scalar: "-123"},
		},
		{
			name:    "Integer/Int/Positive",
			goValue: reflect.ValueOf(int(123)),
			typ:     intType,
			want:    valueExpectations{scalar: "123"},
		},
		{
			name:    "Integer/WrongKind",
			goValue: reflect.ValueOf("not an int"),
			typ:     intType,
			wantErr: true,
		},
		{
			name:    "NonNullable/Nil",
			goValue: reflect.ValueOf(new(*string)).Elem(),
			typ:     stringType.toNonNullable(),
			wantErr: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := scalarFromGo(test.goValue, test.typ)
			if err != nil {
				if !test.wantErr {
					t.Fatalf("scalarFromGo(...) = _, %v; want no error", err)
				}
				return
			}
			if test.wantErr {
				t.Fatalf("scalarFromGo(...) = %v, <nil>; want error", got)
			}
			test.want.check(t, got)
		})
	}
}

// valueExpectations describes the shape a Value under test is expected to
// have, and reports mismatches through an errorfer (usually a *testing.T)
// rather than panicking, so a single test case can point out every field
// that diverged instead of stopping at the first one.
type valueExpectations struct {
	null   bool
	scalar string
	object []fieldExpectations
	list   []valueExpectations
}

type fieldExpectations struct {
	key   string
	value valueExpectations
}

func (expect *valueExpectations) check(e errorfer, v Value) {
	if gotNull := v.IsNull(); gotNull != expect.null {
		e.Errorf("v.IsNull() = %t; want %t", gotNull, expect.null)
	}
	if v.IsNull() {
		return
	}
	if len(expect.object) > 0 {
		if v.NumFields() != len(expect.object) {
			var gotKeys, wantKeys []string
			for i := 0; i < v.NumFields(); i++ {
				gotKeys = append(gotKeys, v.Field(i).Key)
			}
			for _, f := range expect.object {
				wantKeys = append(wantKeys, f.key)
			}
			diff := cmp.Diff(wantKeys, gotKeys,
				cmpopts.SortSlices(func(a, b string) bool { return a < b }))
			e.Errorf("v fields (-want +got):\n%s", diff)
			return
		}
		for i, wantField := range expect.object {
			gotField := v.Field(i)
			if gotField.Key != wantField.key {
				e.Errorf("fields[%d].key = %q; want %q", i, gotField.Key, wantField.key)
			}
			wantField.value.check(e, gotField.Value)
		}
		return
	}
	if len(expect.list) > 0 {
		if v.Len() != len(expect.list) {
			e.Errorf("v.Len() = %d; want %d", v.Len(), len(expect.list))
			return
		}
		for i, wantElem := range expect.list {
			wantElem.check(e, v.At(i))
		}
		return
	}
	if gotScalar := v.Scalar(); gotScalar != expect.scalar {
		e.Errorf("v.Scalar() = %q; want %q", gotScalar, expect.scalar)
	}
}

type errorfer interface {
	Errorf(format string, arguments ...interface{})
}
