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
	"strconv"
)

const (
	skipArgName = "skip"
	takeArgName = "take"

	defaultPageSize = 20
)

// offsetPageHost is the host value page_ext.go's resolve closures are
// computed against: the "anonymous record" §4.6 describes
// ({ items, hasPreviousPage, hasNextPage, totalItems }) realized as an
// ordinary Go struct, read by fieldAccessor exactly as reflect.go reads any
// other host struct's fields.
type offsetPageHost struct {
	Items           interface{}
	HasPreviousPage bool
	HasNextPage     bool
	TotalItems      int
}

var offsetPageHostType = reflect.TypeOf(offsetPageHost{})

// pageExtension adds "skip"/"take" arguments to a list field and rewrites
// its return type to a record carrying the requested page alongside
// hasPreviousPage/hasNextPage/totalItems, per §4.6's offset paging
// extension.
type pageExtension struct {
	wrapperName string
}

// OffsetPage returns a fieldExtension implementing offset-based paging:
// the field's "skip"/"take" arguments slice its list, and its result is
// rewritten to a page record carrying the slice alongside paging metadata.
func OffsetPage() fieldExtension {
	return &pageExtension{}
}

func (ext *pageExtension) Configure(schema *Schema, field *objectTypeField) error {
	if !field.typ.isList() {
		return newCompilerError("offset page extension: field %q is not a list", field.name)
	}
	elemType := field.typ.listElem

	ext.wrapperName = registeredTypeName(elemType) + "OffsetPage"
	pageType, ok := schema.types[ext.wrapperName]
	if !ok {
		itemsIndex := offsetPageHostType.Field(0).Index
		hasPrevIndex := offsetPageHostType.Field(1).Index
		hasNextIndex := offsetPageHostType.Field(2).Index
		totalIndex := offsetPageHostType.Field(3).Index

		info := &objectType{
			name:     ext.wrapperName,
			fields:   make(map[string]objectTypeField),
			hostType: offsetPageHostType,
		}
		pageType = newObjectType(info, "A page of "+registeredTypeName(elemType)+" sliced by skip/take.")
		addRecordField(info, "items", field.typ, fieldAccessor(itemsIndex))
		addRecordField(info, "hasPreviousPage", booleanType.toNonNullable(), fieldAccessor(hasPrevIndex))
		addRecordField(info, "hasNextPage", booleanType.toNonNullable(), fieldAccessor(hasNextIndex))
		addRecordField(info, "totalItems", intType.toNonNullable(), fieldAccessor(totalIndex))
		if err := schema.AddType(pageType); err != nil {
			return err
		}
	}
	field.typ = pageType.toNonNullable()

	if field.args == nil {
		field.args = make(map[string]inputValueDefinition)
	}
	skipDefault, errs := coerceInput(intType.toNonNullable(), ScalarInput("0"))
	if len(errs) != 0 {
		return wrapCompilerError(errs[0])
	}
	takeDefault, errs := coerceInput(intType.toNonNullable(), ScalarInput(strconv.Itoa(defaultPageSize)))
	if len(errs) != 0 {
		return wrapCompilerError(errs[0])
	}
	field.args[skipArgName] = inputValueDefinition{
		description:  "Number of leading elements to drop.",
		defaultValue: skipDefault,
	}
	field.args[takeArgName] = inputValueDefinition{
		description:  "Maximum number of elements to return.",
		defaultValue: takeDefault,
	}
	field.argOrder = append(field.argOrder, skipArgName, takeArgName)

	return nil
}

func (ext *pageExtension) GetExpression(bc *buildCtx, current projectFunc) (projectFunc, error) {
	return func(pc *projectContext, parent reflect.Value, args map[string]Value) (reflect.Value, error) {
		coll, err := current(pc, parent, args)
		if err != nil {
			return reflect.Value{}, err
		}
		skip, err := argInt(args[skipArgName], 0)
		if err != nil {
			return reflect.Value{}, newInvalidArgumentError("%s: %v", skipArgName, err)
		}
		take, err := argInt(args[takeArgName], defaultPageSize)
		if err != nil {
			return reflect.Value{}, newInvalidArgumentError("%s: %v", takeArgName, err)
		}
		if skip < 0 {
			skip = 0
		}
		if take < 0 {
			take = 0
		}
		total, err := collCount(coll)
		if err != nil {
			return reflect.Value{}, wrapElementError(err)
		}
		skipped, err := collSkip(coll, skip)
		if err != nil {
			return reflect.Value{}, wrapElementError(err)
		}
		page, err := collTake(skipped, take)
		if err != nil {
			return reflect.Value{}, wrapElementError(err)
		}
		host := &offsetPageHost{
			Items:           page.Interface(),
			HasPreviousPage: skip > 0,
			HasNextPage:     skip+take < total,
			TotalItems:      total,
		}
		return reflect.ValueOf(host), nil
	}, nil
}

// addRecordField installs a plain, extension-free field on info, reused by
// page_ext.go and connection_ext.go to build their synthesized wrapper
// Object types.
func addRecordField(info *objectType, name string, typ *gqlType, resolve projectFunc) {
	info.fields[name] = objectTypeField{
		name:    name,
		typ:     typ,
		resolve: resolve,
	}
	info.fieldOrder = append(info.fieldOrder, name)
}

// argInt parses an Int-typed argument Value, defaulting if v is the zero
// Value (absent) or null.
func argInt(v Value, def int) (int, error) {
	if v.typ == nil || v.IsNull() {
		return def, nil
	}
	n, err := strconv.Atoi(v.Scalar())
	if err != nil {
		return 0, err
	}
	return n, nil
}
