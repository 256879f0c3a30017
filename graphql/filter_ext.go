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

const filterArgName = "filter"

// filterExtension adds a "filter" string argument to a list field and
// narrows the projected collection to the elements the compiled predicate
// matches, per §6's filter sub-language.
type filterExtension struct{}

// Filter returns a fieldExtension that lets callers pass a boolean filter
// expression (see internal/filterlang) as the field's "filter" argument.
// It may only be attached to a field whose type is a list.
func Filter() fieldExtension {
	return &filterExtension{}
}

func (ext *filterExtension) Configure(schema *Schema, field *objectTypeField) error {
	if !field.typ.isList() {
		return newCompilerError("filter extension: field %q is not a list", field.name)
	}
	if field.args == nil {
		field.args = make(map[string]inputValueDefinition)
	}
	if _, exists := field.args[filterArgName]; exists {
		return newCompilerError("filter extension: field %q already has a %q argument", field.name, filterArgName)
	}
	field.args[filterArgName] = inputValueDefinition{
		description:  "Filter expression narrowing the returned elements.",
		defaultValue: Value{typ: stringType},
	}
	field.argOrder = append(field.argOrder, filterArgName)
	return nil
}

func (ext *filterExtension) GetExpression(bc *buildCtx, current projectFunc) (projectFunc, error) {
	return func(pc *projectContext, parent reflect.Value, args map[string]Value) (reflect.Value, error) {
		coll, err := current(pc, parent, args)
		if err != nil {
			return reflect.Value{}, err
		}
		arg, ok := args[filterArgName]
		if !ok || arg.IsNull() {
			return coll, nil
		}
		pred, err := filterlang.Compile(arg.Scalar())
		if err != nil {
			return reflect.Value{}, newCompilerError("malformed %s expression: %v", filterArgName, err)
		}
		filtered, err := collWhere(coll, pred.Match)
		if err != nil {
			return reflect.Value{}, wrapElementError(err)
		}
		return filtered, nil
	}, nil
}
