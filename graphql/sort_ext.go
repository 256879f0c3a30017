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

	"zombiezen.com/go/graphql-server/internal/filterlang"
)

const (
	sortByArgName         = "sortBy"
	sortDescendingArgName = "sortDescending"
)

// sortExtension adds a "sortBy"/"sortDescending" argument pair to a list
// field. sortBy is a generated enum listing the element type's sortable
// (scalar or enum) fields, per §4.6's "typed input argument enumerating
// sortable fields with direction"; sortDescending flips the comparison.
type sortExtension struct {
	enumName string
}

// Sort returns a fieldExtension that lets callers order a list field's
// elements by one of its scalar or enum fields. It may only be attached to
// a field whose type is a list of Object.
func Sort() fieldExtension {
	return &sortExtension{}
}

func (ext *sortExtension) Configure(schema *Schema, field *objectTypeField) error {
	if !field.typ.isList() {
		return newCompilerError("sort extension: field %q is not a list", field.name)
	}
	elemType := field.typ.listElem.toNonNullable()
	if !elemType.isObject() {
		return newCompilerError("sort extension: field %q's element type is not an Object", field.name)
	}

	ext.enumName = elemType.obj.name + "SortField"
	enumTyp, ok := schema.types[ext.enumName]
	if !ok {
		info := &enumType{name: ext.enumName, symbols: make(map[string]struct{})}
		for _, fieldName := range elemType.obj.fieldOrder {
			f := elemType.obj.fields[fieldName]
			if f.typ.isScalar() || f.typ.isEnum() {
				info.symbols[fieldName] = struct{}{}
				info.symbolOrder = append(info.symbolOrder, fieldName)
			}
		}
		if len(info.symbolOrder) == 0 {
			return newCompilerError("sort extension: type %q has no sortable fields", elemType.obj.name)
		}
		enumTyp = newEnumType(info, "Sortable fields of "+elemType.obj.name+".")
		if err := schema.AddType(enumTyp); err != nil {
			return err
		}
	}

	if field.args == nil {
		field.args = make(map[string]inputValueDefinition)
	}
	if _, exists := field.args[sortByArgName]; exists {
		return newCompilerError("sort extension: field %q already has a %q argument", field.name, sortByArgName)
	}
	field.args[sortByArgName] = inputValueDefinition{
		description:  "Field to order the returned elements by.",
		defaultValue: Value{typ: enumTyp.toNullable()},
	}
	field.argOrder = append(field.argOrder, sortByArgName)

	descendingDefault, errs := coerceInput(booleanType.toNonNullable(), ScalarInput("false"))
	if len(errs) != 0 {
		return wrapCompilerError(errs[0])
	}
	field.args[sortDescendingArgName] = inputValueDefinition{
		description:  "Reverses the sort order when true.",
		defaultValue: descendingDefault,
	}
	field.argOrder = append(field.argOrder, sortDescendingArgName)

	return nil
}

func (ext *sortExtension) GetExpression(bc *buildCtx, current projectFunc) (projectFunc, error) {
	return func(pc *projectContext, parent reflect.Value, args map[string]Value) (reflect.Value, error) {
		coll, err := current(pc, parent, args)
		if err != nil {
			return reflect.Value{}, err
		}
		sortBy, ok := args[sortByArgName]
		if !ok || sortBy.IsNull() {
			return coll, nil
		}
		keyExpr, err := filterlang.CompileKey(sortBy.Scalar())
		if err != nil {
			return reflect.Value{}, newCompilerError("malformed %s expression: %v", sortByArgName, err)
		}
		descending := args[sortDescendingArgName].Boolean()

		// collOrderBy's comparator (ultimately sort.SliceStable's) can't
		// propagate an error mid-sort, so the first one found is latched
		// and the comparator short-circuits to false for the rest.
		var evalErr error
		less := func(a, b reflect.Value) bool {
			if evalErr != nil {
				return false
			}
			lt, err := keyExpr.Less(a, b)
			if err != nil {
				evalErr = err
				return false
			}
			return lt
		}
		sorted, err := collOrderBy(coll, less, descending)
		if err != nil {
			return reflect.Value{}, wrapElementError(err)
		}
		if evalErr != nil {
			return reflect.Value{}, wrapElementError(evalErr)
		}
		return sorted, nil
	}, nil
}
