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
)

const (
	firstArgName  = "first"
	afterArgName  = "after"
	lastArgName   = "last"
	beforeArgName = "before"

	maxPageSize = 100
)

// pageInfoHost backs the shared PageInfo type every connection field
// returns; StartCursor/EndCursor are *string so a nil pointer projects as
// null the same way any other optional host field would.
type pageInfoHost struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     *string
	EndCursor       *string
}

var pageInfoHostType = reflect.TypeOf(pageInfoHost{})

// edgeHost backs the synthesized <T>Edge type: a node alongside the cursor
// of its position at the time the connection was paged.
type edgeHost struct {
	Node   interface{}
	Cursor string
}

var edgeHostType = reflect.TypeOf(edgeHost{})

// connectionHost backs the synthesized <T>Connection type §4.6 describes.
type connectionHost struct {
	Edges      interface{}
	TotalCount int
	PageInfo   *pageInfoHost
}

var connectionHostType = reflect.TypeOf(connectionHost{})

// connectionExtension rewrites a list field into a Relay-style cursor
// connection: it adds first/after/last/before arguments and returns a
// <T>Connection record in place of the bare list.
type connectionExtension struct {
	edgeName       string
	connectionName string
}

// Connection returns a fieldExtension implementing Relay-style cursor
// paging. Like the other collection extensions it composes onto whatever
// projectFunc precedes it in the field's extension chain, so attaching
// Filter()/Sort() before Connection() on the same field applies them to
// the underlying collection before paging math runs - there is no separate
// relocation step because composeField already threads extensions through
// in registration order.
func Connection() fieldExtension {
	return &connectionExtension{}
}

func (ext *connectionExtension) Configure(schema *Schema, field *objectTypeField) error {
	if !field.typ.isList() {
		return newCompilerError("connection extension: field %q is not a list", field.name)
	}
	nodeType := field.typ.listElem

	if err := ensurePageInfoType(schema); err != nil {
		return err
	}

	nodeName := registeredTypeName(nodeType)
	ext.edgeName = nodeName + "Edge"
	ext.connectionName = nodeName + "Connection"

	edgeType, ok := schema.types[ext.edgeName]
	if !ok {
		info := &objectType{
			name:     ext.edgeName,
			fields:   make(map[string]objectTypeField),
			hostType: edgeHostType,
		}
		edgeType = newObjectType(info, "An edge in a "+ext.connectionName+".")
		addRecordField(info, "node", nodeType, fieldAccessor(edgeHostType.Field(0).Index))
		addRecordField(info, "cursor", stringType.toNonNullable(), fieldAccessor(edgeHostType.Field(1).Index))
		if err := schema.AddType(edgeType); err != nil {
			return err
		}
	}

	connType, ok := schema.types[ext.connectionName]
	if !ok {
		info := &objectType{
			name:     ext.connectionName,
			fields:   make(map[string]objectTypeField),
			hostType: connectionHostType,
		}
		connType = newObjectType(info, "A paginated view over "+nodeName+".")
		addRecordField(info, "edges", listOf(edgeType.toNonNullable()).toNonNullable(), fieldAccessor(connectionHostType.Field(0).Index))
		addRecordField(info, "totalCount", intType.toNonNullable(), fieldAccessor(connectionHostType.Field(1).Index))
		addRecordField(info, "pageInfo", schema.types["PageInfo"].toNonNullable(), fieldAccessor(connectionHostType.Field(2).Index))
		if err := schema.AddType(connType); err != nil {
			return err
		}
	}
	field.typ = connType.toNonNullable()

	if field.args == nil {
		field.args = make(map[string]inputValueDefinition)
	}
	field.args[firstArgName] = inputValueDefinition{description: "Returns the first n elements after the cursor.", defaultValue: Value{typ: intType}}
	field.args[afterArgName] = inputValueDefinition{description: "Cursor to page forward from.", defaultValue: Value{typ: stringType}}
	field.args[lastArgName] = inputValueDefinition{description: "Returns the last n elements before the cursor.", defaultValue: Value{typ: intType}}
	field.args[beforeArgName] = inputValueDefinition{description: "Cursor to page backward from.", defaultValue: Value{typ: stringType}}
	field.argOrder = append(field.argOrder, firstArgName, afterArgName, lastArgName, beforeArgName)

	return nil
}

// ensurePageInfoType registers the shared PageInfo object type once per
// schema; every connection field's Connection wrapper references it.
func ensurePageInfoType(schema *Schema) error {
	if schema.HasType("PageInfo") {
		return nil
	}
	info := &objectType{
		name:     "PageInfo",
		fields:   make(map[string]objectTypeField),
		hostType: pageInfoHostType,
	}
	typ := newObjectType(info, "Pagination metadata for a connection.")
	addRecordField(info, "hasNextPage", booleanType.toNonNullable(), fieldAccessor(pageInfoHostType.Field(0).Index))
	addRecordField(info, "hasPreviousPage", booleanType.toNonNullable(), fieldAccessor(pageInfoHostType.Field(1).Index))
	addRecordField(info, "startCursor", stringType, fieldAccessor(pageInfoHostType.Field(2).Index))
	addRecordField(info, "endCursor", stringType, fieldAccessor(pageInfoHostType.Field(3).Index))
	return schema.AddType(typ)
}

func (ext *connectionExtension) GetExpression(bc *buildCtx, current projectFunc) (projectFunc, error) {
	return func(pc *projectContext, parent reflect.Value, args map[string]Value) (reflect.Value, error) {
		coll, err := current(pc, parent, args)
		if err != nil {
			return reflect.Value{}, err
		}
		coll, err = asCollection(coll)
		if err != nil {
			return reflect.Value{}, wrapElementError(err)
		}
		total, err := collCount(coll)
		if err != nil {
			return reflect.Value{}, wrapElementError(err)
		}

		first, hasFirst, err := optionalInt(args[firstArgName])
		if err != nil {
			return reflect.Value{}, newInvalidArgumentError("%s: %v", firstArgName, err)
		}
		last, hasLast, err := optionalInt(args[lastArgName])
		if err != nil {
			return reflect.Value{}, newInvalidArgumentError("%s: %v", lastArgName, err)
		}
		after, hasAfter, err := optionalCursor(args[afterArgName])
		if err != nil {
			return reflect.Value{}, err
		}
		before, hasBefore, err := optionalCursor(args[beforeArgName])
		if err != nil {
			return reflect.Value{}, err
		}
		if hasAfter && hasBefore {
			return reflect.Value{}, newInvalidArgumentError("%s and %s are mutually exclusive", afterArgName, beforeArgName)
		}
		if hasFirst && (first < 0 || first > maxPageSize) {
			return reflect.Value{}, newInvalidArgumentError("%s must be between 0 and %d", firstArgName, maxPageSize)
		}
		if hasLast && (last < 0 || last > maxPageSize) {
			return reflect.Value{}, newInvalidArgumentError("%s must be between 0 and %d", lastArgName, maxPageSize)
		}
		if !hasFirst && !hasLast {
			first = defaultPageSize
			hasFirst = true
		}

		var skipN, takeN int
		switch {
		case hasAfter && hasFirst:
			skipN, takeN = after+1, first
		case hasBefore && hasLast:
			skipN = before - last
			if skipN < 0 {
				skipN = 0
			}
			takeN = last
			if before < takeN {
				takeN = before
			}
		case hasLast:
			skipN = total - last
			if skipN < 0 {
				skipN = 0
			}
			takeN = last
		default:
			skipN, takeN = 0, first
		}
		if skipN > total {
			skipN = total
		}
		if skipN+takeN > total {
			takeN = total - skipN
		}
		if takeN < 0 {
			takeN = 0
		}

		page, err := collSkip(coll, skipN)
		if err != nil {
			return reflect.Value{}, wrapElementError(err)
		}
		page, err = collTake(page, takeN)
		if err != nil {
			return reflect.Value{}, wrapElementError(err)
		}

		n := page.Len()
		edges := make([]*edgeHost, n)
		for i := 0; i < n; i++ {
			edges[i] = &edgeHost{
				Node:   page.Index(i).Interface(),
				Cursor: encodeCursor(skipN + i),
			}
		}

		pageInfo := &pageInfoHost{
			HasNextPage:     skipN+n < total,
			HasPreviousPage: skipN > 0,
		}
		if n > 0 {
			startCursor := edges[0].Cursor
			endCursor := edges[n-1].Cursor
			pageInfo.StartCursor = &startCursor
			pageInfo.EndCursor = &endCursor
		}

		host := &connectionHost{
			Edges:      edges,
			TotalCount: total,
			PageInfo:   pageInfo,
		}
		return reflect.ValueOf(host), nil
	}, nil
}

// optionalInt reads an Int-typed argument Value, reporting whether it was
// non-null.
func optionalInt(v Value) (n int, present bool, err error) {
	if v.typ == nil || v.IsNull() {
		return 0, false, nil
	}
	n, err = argInt(v, 0)
	return n, true, err
}

// optionalCursor decodes a String-typed cursor argument Value, reporting
// whether it was non-null. An empty string decodes to "not present" per
// §6's "decode('') = null".
func optionalCursor(v Value) (offset int, present bool, err error) {
	if v.typ == nil || v.IsNull() || v.Scalar() == "" {
		return 0, false, nil
	}
	offset, err = decodeCursor(v.Scalar())
	if err != nil {
		return 0, false, err
	}
	return offset, true, nil
}
