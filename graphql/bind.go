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
	"golang.org/x/xerrors"
	"zombiezen.com/go/graphql-server/internal/gqlang"
)

// boundSelection is one compiled output field: a validated, fragment-
// inlined, directive-resolved Field node paired with the composed
// projectFunc that will produce its value and the nested boundSelections
// (if any) that describe how to project its children. Binding happens once
// per request, against the variables that request supplied, and composes
// each field's projectFunc (composeField) as part of that binding.
type boundSelection struct {
	key     string
	loc     Location
	name    string
	field   *objectTypeField
	project projectFunc
	args    map[string]Value
	typ     *gqlType

	// children holds the bound subselection for an Object-typed field,
	// known statically from the schema.
	children []*boundSelection

	// byType holds the bound subselection for an Interface- or Union-typed
	// field, one list per possible concrete Object type, keyed by that
	// type's name. Which list applies is only known once the field's
	// runtime value's concrete type is determined during execution.
	byType map[string][]*boundSelection
}

// operationPlan is the Binder's output for a single operation: the root
// selection set, already inlined and directive-resolved against a specific
// set of coerced variable values.
type operationPlan struct {
	selections []*boundSelection
}

// bindOperation binds op's top-level selection set against rootType (the
// schema's query or mutation Object type).
func bindOperation(bc *buildCtx, source string, doc *gqlang.Document, op *gqlang.Operation, rootType *gqlType, variables map[string]Value) (*operationPlan, []error) {
	sels, errs := bindSelectionSet(bc, source, doc, variables, rootType, op.SelectionSet)
	if len(errs) > 0 {
		return nil, errs
	}
	return &operationPlan{selections: sels}, nil
}

// bindSelectionSet inlines fragment spreads and inline fragments, evaluates
// @skip/@include, and compiles each remaining field into a boundSelection.
// typ is the composite Object type the selection set is taken against; for
// Interface/Union fields, bindField calls back in once per possible type.
func bindSelectionSet(bc *buildCtx, source string, doc *gqlang.Document, variables map[string]Value, typ *gqlType, ast *gqlang.SelectionSet) ([]*boundSelection, []error) {
	if ast == nil {
		return nil, nil
	}
	var out []*boundSelection
	var errs []error
	for _, sel := range ast.Sel {
		switch {
		case sel.Field != nil:
			bound, ferrs := bindField(bc, source, doc, variables, typ, sel.Field)
			errs = append(errs, ferrs...)
			if bound != nil {
				out = append(out, bound)
			}
		case sel.FragmentSpread != nil:
			skip, serrs := directivesSkip(source, variables, sel.FragmentSpread.Directives)
			errs = append(errs, serrs...)
			if skip || len(serrs) > 0 {
				continue
			}
			frag := doc.FindFragment(sel.FragmentSpread.Name.Value)
			if frag == nil {
				errs = append(errs, xerrors.Errorf("no such fragment %q", sel.FragmentSpread.Name.Value))
				continue
			}
			if !typeConditionMatches(bc.schema, typ, frag.Type) {
				continue
			}
			sub, serrs := bindSelectionSet(bc, source, doc, variables, typ, frag.SelectionSet)
			out = append(out, sub...)
			errs = append(errs, serrs...)
		case sel.InlineFragment != nil:
			skip, serrs := directivesSkip(source, variables, sel.InlineFragment.Directives)
			errs = append(errs, serrs...)
			if skip || len(serrs) > 0 {
				continue
			}
			if !typeConditionMatches(bc.schema, typ, sel.InlineFragment.Type) {
				continue
			}
			sub, serrs := bindSelectionSet(bc, source, doc, variables, typ, sel.InlineFragment.SelectionSet)
			out = append(out, sub...)
			errs = append(errs, serrs...)
		}
	}
	return out, errs
}

func bindField(bc *buildCtx, source string, doc *gqlang.Document, variables map[string]Value, parentType *gqlType, astField *gqlang.Field) (*boundSelection, []error) {
	skip, errs := directivesSkip(source, variables, astField.Directives)
	if len(errs) > 0 {
		return nil, errs
	}
	if skip {
		return nil, nil
	}

	name := astField.Name.Value
	key := name
	if astField.Alias != nil {
		key = astField.Alias.Value
	}
	loc := astPositionToLocation(astField.Name.Start.ToPosition(source))

	var fieldInfo *objectTypeField
	switch name {
	case typeNameFieldName:
		fieldInfo = typeNameField()
	case schemaFieldName:
		fieldInfo = schemaField(bc.schema)
	case typeByNameFieldName:
		fieldInfo = typeByNameField(bc.schema)
	default:
		fieldInfo = parentType.field(name)
	}
	if fieldInfo == nil {
		return nil, []error{wrapFieldError(key, loc, xerrors.Errorf("unknown field %q on %v", name, parentType))}
	}

	args, argErrs := coerceArgumentValues(source, variables, *fieldInfo, astField.Arguments)
	for _, err := range argErrs {
		errs = append(errs, wrapFieldError(key, loc, err))
	}

	var project projectFunc
	if name == typeNameFieldName {
		// __typename depends on contextType, which only the executor knows
		// at the point a field's concrete type is resolved.
	} else {
		var perr error
		project, perr = composeField(bc, fieldInfo)
		if perr != nil {
			errs = append(errs, wrapFieldError(key, loc, perr))
		}
	}

	bound := &boundSelection{
		key:     key,
		loc:     loc,
		name:    name,
		field:   fieldInfo,
		project: project,
		args:    args,
		typ:     fieldInfo.typ,
	}

	if selType := fieldInfo.typ.selectionSetType(); selType != nil {
		switch {
		case selType.isObject():
			children, serrs := bindSelectionSet(bc, source, doc, variables, selType, astField.SelectionSet)
			bound.children = children
			errs = append(errs, serrs...)
		case selType.isInterface(), selType.isUnion():
			bound.byType = make(map[string][]*boundSelection)
			for possible := range selType.possibleTypes() {
				children, serrs := bindSelectionSet(bc, source, doc, variables, possible, astField.SelectionSet)
				bound.byType[registeredTypeName(possible)] = children
				errs = append(errs, serrs...)
			}
		}
	}
	return bound, errs
}

// typeConditionMatches reports whether a fragment conditioned on cond
// applies to a selection taken against typ: an untyped fragment always
// applies, a same-named condition always applies, and otherwise typ must
// implement the named interface or belong to the named union.
func typeConditionMatches(schema *Schema, typ *gqlType, cond *gqlang.TypeCondition) bool {
	if cond == nil {
		return true
	}
	name := cond.Name.Value
	if registeredTypeName(typ) == name {
		return true
	}
	condType, ok := schema.types[name]
	if !ok {
		return false
	}
	switch {
	case condType.isInterface():
		return typ.implements(condType)
	case condType.isUnion():
		for _, m := range condType.union.members {
			if m.toNonNullable() == typ.toNonNullable() {
				return true
			}
		}
	}
	return false
}

// directivesSkip evaluates @skip and @include, in that order, against an
// already-coerced variable set and reports whether the selection carrying
// dirs should be omitted.
func directivesSkip(source string, variables map[string]Value, dirs gqlang.Directives) (bool, []error) {
	if d := dirs.Get("skip"); d != nil {
		v, errs := evalDirectiveIf(source, variables, d)
		if len(errs) > 0 {
			return false, errs
		}
		if v {
			return true, nil
		}
	}
	if d := dirs.Get("include"); d != nil {
		v, errs := evalDirectiveIf(source, variables, d)
		if len(errs) > 0 {
			return false, errs
		}
		if !v {
			return true, nil
		}
	}
	return false, nil
}

func evalDirectiveIf(source string, variables map[string]Value, d *gqlang.Directive) (bool, []error) {
	arg := d.Arguments.ByName("if")
	if arg == nil {
		return false, []error{xerrors.Errorf("@%s requires an \"if\" argument", d.Name.Value)}
	}
	v, errs := coerceInputValue(source, variables, booleanType.toNonNullable(), arg.Value)
	if len(errs) > 0 {
		return false, errs
	}
	return v.Boolean(), nil
}
