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
	"context"
	"reflect"

	"golang.org/x/xerrors"
)

// executePlan runs a bound operation's top-level selections against root,
// the Go value backing the query or mutation object, and assembles the
// result the same way the teacher's valueFromGo assembled an Object value,
// except each field's raw data comes from its precompiled projectFunc
// chain rather than a fresh name-based reflect lookup.
func executePlan(ctx context.Context, schema *Schema, variables map[string]Value, principal Principal, rootType *gqlType, root reflect.Value, plan *operationPlan) (Value, []error) {
	pc := &projectContext{ctx: ctx, variables: variables, principal: principal}
	fields, errs := executeSelections(pc, schema, rootType, root, plan.selections)
	return Value{typ: rootType, val: fields}, errs
}

func executeSelections(pc *projectContext, schema *Schema, contextType *gqlType, parent reflect.Value, sels []*boundSelection) ([]Field, []error) {
	fields := make([]Field, 0, len(sels))
	var errs []error
	for _, sel := range sels {
		if err := checkContext(pc.ctx); err != nil {
			errs = append(errs, wrapFieldError(sel.key, sel.loc, err))
			fields = append(fields, Field{Key: sel.key, Value: Value{typ: sel.typ}})
			continue
		}
		val, ferrs := executeSelection(pc, schema, contextType, parent, sel)
		fields = append(fields, Field{Key: sel.key, Value: val})
		for _, e := range ferrs {
			errs = append(errs, wrapFieldError(sel.key, sel.loc, e))
		}
	}
	return fields, errs
}

func executeSelection(pc *projectContext, schema *Schema, contextType *gqlType, parent reflect.Value, sel *boundSelection) (Value, []error) {
	if sel.name == typeNameFieldName {
		name := registeredTypeName(contextType)
		return Value{typ: sel.typ, val: name}, nil
	}
	if len(sel.field.requiredAuth) > 0 && !hasAllAuthorizations(pc.principal, sel.field.requiredAuth) {
		return Value{typ: sel.typ}, []error{newUnauthorizedError("field %q requires authorization", sel.name)}
	}
	if sel.project == nil {
		return Value{typ: sel.typ}, []error{newExecutionError(xerrors.Errorf("field %q has no resolver", sel.name))}
	}
	raw, err := sel.project(pc, parent, sel.args)
	if err != nil {
		return Value{typ: sel.typ}, []error{err}
	}
	return projectTyped(pc, schema, raw, sel.typ, sel.children, sel.byType)
}

// projectTyped converts a projectFunc's raw host-data result into a
// GraphQL Value, recursing into nested selections for composite types. It
// plays the role the teacher's valueFromGo played for every field; the
// difference is that by the time a Value reaches here, the field
// extension pipeline (filtering, sorting, paging, authorization) has
// already run as part of producing raw.
func projectTyped(pc *projectContext, schema *Schema, raw reflect.Value, typ *gqlType, children []*boundSelection, byType map[string][]*boundSelection) (Value, []error) {
	raw = unwrapPointer(raw)
	if !raw.IsValid() {
		if !typ.isNullable() {
			return Value{typ: typ}, []error{newExecutionError(xerrors.Errorf("cannot convert nil to %v", typ))}
		}
		return Value{typ: typ, val: nil}, nil
	}
	switch {
	case typ.isScalar() || typ.isEnum():
		v, err := scalarFromGo(raw, typ)
		if err != nil {
			return Value{typ: typ}, []error{newExecutionError(err)}
		}
		return v, nil
	case typ.isList():
		if k := raw.Kind(); k != reflect.Slice && k != reflect.Array {
			return Value{typ: typ}, []error{newExecutionError(xerrors.Errorf("cannot convert %v to %v", raw.Type(), typ))}
		}
		vals := make([]Value, raw.Len())
		var errs []error
		for i := range vals {
			var ferrs []error
			vals[i], ferrs = projectTyped(pc, schema, raw.Index(i), typ.listElem, children, byType)
			for _, e := range ferrs {
				errs = append(errs, &listElementError{idx: i, err: e})
			}
			if len(ferrs) > 0 && !typ.listElem.isNullable() {
				return Value{typ: typ}, errs
			}
		}
		return Value{typ: typ, val: vals}, errs
	case typ.isObject():
		fields, errs := executeSelections(pc, schema, typ, raw, children)
		return Value{typ: typ, val: fields}, errs
	case typ.isInterface(), typ.isUnion():
		concrete, err := concreteObjectType(typ, raw)
		if err != nil {
			return Value{typ: typ}, []error{err}
		}
		fields, errs := executeSelections(pc, schema, concrete, raw, byType[registeredTypeName(concrete)])
		return Value{typ: typ, val: fields}, errs
	default:
		return Value{typ: typ}, []error{newExecutionError(xerrors.Errorf("unhandled type: %v", typ))}
	}
}

// typeNamer lets a host type declare its own GraphQL type name for
// Interface/Union dispatch instead of relying on concreteObjectType's
// fallback of matching the Go type to a registered hostType verbatim; a
// host value that embeds another (e.g. to share fields across a union)
// would otherwise be ambiguous.
type typeNamer interface {
	GraphQLTypeName() string
}

// concreteObjectType determines which of declared's possible Object types
// raw actually is, first consulting the typeNamer interface and falling
// back to matching raw's Go type against each possible type's hostType.
func concreteObjectType(declared *gqlType, raw reflect.Value) (*gqlType, error) {
	raw = unwrapPointer(raw)
	if !raw.IsValid() {
		return nil, newExecutionError(xerrors.Errorf("cannot determine concrete type of nil value for %v", declared))
	}
	if tn, ok := interfaceValueForAssertions(raw).(typeNamer); ok {
		if t, ok2 := lookupPossibleType(declared, tn.GraphQLTypeName()); ok2 {
			return t, nil
		}
	}
	goType := raw.Type()
	for possible := range declared.possibleTypes() {
		if possible.isObject() && possible.obj.hostType == goType {
			return possible, nil
		}
	}
	return nil, newExecutionError(xerrors.Errorf("cannot determine concrete type of %v for %v", goType, declared))
}

func lookupPossibleType(declared *gqlType, name string) (*gqlType, bool) {
	for possible := range declared.possibleTypes() {
		if registeredTypeName(possible) == name {
			return possible, true
		}
	}
	return nil, false
}
