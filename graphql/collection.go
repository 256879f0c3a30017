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
	"sort"

	"golang.org/x/xerrors"
)

// The functions in this file are the collection-abstraction method
// invocations a ProjectionFragment can carry (§3): Where, OrderBy, Skip,
// Take, Select, Count, Any, First. Each operates directly on the
// reflect.Value a field's projectFunc chain is passing around, the same
// raw representation readField used to work with in the teacher, so that
// filter_ext.go, sort_ext.go, page_ext.go and connection_ext.go can compose
// them without converting to and from graphql.Value until a field's
// expression chain is fully evaluated.

func asCollection(coll reflect.Value) (reflect.Value, error) {
	coll = unwrapPointer(coll)
	if !coll.IsValid() {
		return coll, nil
	}
	if coll.Kind() != reflect.Slice && coll.Kind() != reflect.Array {
		return reflect.Value{}, newExecutionError(xerrors.Errorf("collection expression applied to non-collection value of type %v", coll.Type()))
	}
	return coll, nil
}

// collWhere returns the elements of coll for which pred reports true,
// preserving order.
func collWhere(coll reflect.Value, pred func(reflect.Value) (bool, error)) (reflect.Value, error) {
	coll, err := asCollection(coll)
	if err != nil || !coll.IsValid() {
		return coll, err
	}
	out := reflect.MakeSlice(reflect.SliceOf(coll.Type().Elem()), 0, coll.Len())
	for i := 0; i < coll.Len(); i++ {
		elem := coll.Index(i)
		ok, err := pred(elem)
		if err != nil {
			return reflect.Value{}, err
		}
		if ok {
			out = reflect.Append(out, elem)
		}
	}
	return out, nil
}

// collOrderBy returns a stably-sorted copy of coll. less must implement a
// strict weak ordering over coll's element type; if descending is true,
// the comparison is inverted rather than the final slice reversed, so the
// sort remains stable with respect to less, not its complement.
func collOrderBy(coll reflect.Value, less func(a, b reflect.Value) bool, descending bool) (reflect.Value, error) {
	coll, err := asCollection(coll)
	if err != nil || !coll.IsValid() {
		return coll, err
	}
	out := reflect.MakeSlice(coll.Type(), coll.Len(), coll.Len())
	reflect.Copy(out, coll)
	sort.SliceStable(out.Interface(), func(i, j int) bool {
		if descending {
			return less(out.Index(j), out.Index(i))
		}
		return less(out.Index(i), out.Index(j))
	})
	return out, nil
}

// collSkip returns coll with its first n elements dropped. n is clamped to
// [0, coll.Len()].
func collSkip(coll reflect.Value, n int) (reflect.Value, error) {
	coll, err := asCollection(coll)
	if err != nil || !coll.IsValid() {
		return coll, err
	}
	if n < 0 {
		n = 0
	}
	if n > coll.Len() {
		n = coll.Len()
	}
	return coll.Slice(n, coll.Len()), nil
}

// collTake returns the first n elements of coll. n is clamped to
// [0, coll.Len()].
func collTake(coll reflect.Value, n int) (reflect.Value, error) {
	coll, err := asCollection(coll)
	if err != nil || !coll.IsValid() {
		return coll, err
	}
	if n < 0 {
		n = 0
	}
	if n > coll.Len() {
		n = coll.Len()
	}
	return coll.Slice(0, n), nil
}

// collCount returns the number of elements in coll, or 0 for an invalid
// (nil) collection.
func collCount(coll reflect.Value) (int, error) {
	coll, err := asCollection(coll)
	if err != nil {
		return 0, err
	}
	if !coll.IsValid() {
		return 0, nil
	}
	return coll.Len(), nil
}

// collAny reports whether coll has at least one element satisfying pred.
// A nil pred reports whether coll has any elements at all.
func collAny(coll reflect.Value, pred func(reflect.Value) (bool, error)) (bool, error) {
	coll, err := asCollection(coll)
	if err != nil || !coll.IsValid() {
		return false, err
	}
	if pred == nil {
		return coll.Len() > 0, nil
	}
	for i := 0; i < coll.Len(); i++ {
		ok, err := pred(coll.Index(i))
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// collFirst returns the first element of coll, or the invalid reflect.Value
// if coll is nil or empty.
func collFirst(coll reflect.Value) (reflect.Value, error) {
	coll, err := asCollection(coll)
	if err != nil || !coll.IsValid() || coll.Len() == 0 {
		return reflect.Value{}, err
	}
	return coll.Index(0), nil
}

// collSelect maps each element of coll through mapFn, in order. Unlike the
// other collection operations, the result is not a reflect.Value slice:
// mapFn is used to build per-element anonymous records (Edge values,
// projected sub-selections) whose Go type is synthesized by the caller, so
// the natural representation is a plain []interface{}.
func collSelect(coll reflect.Value, mapFn func(elem reflect.Value, index int) (interface{}, error)) ([]interface{}, error) {
	coll, err := asCollection(coll)
	if err != nil {
		return nil, err
	}
	if !coll.IsValid() {
		return nil, nil
	}
	out := make([]interface{}, coll.Len())
	for i := 0; i < coll.Len(); i++ {
		v, err := mapFn(coll.Index(i), i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
