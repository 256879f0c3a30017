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
	"sync"
)

// gqlType represents a GraphQL type: one of Scalar, Object, Input, Enum,
// Interface, or Union, optionally wrapped as a list and/or marked non-null.
//
// Types can be compared for equality using ==. Types with the same name from
// different schemas are never equal.
type gqlType struct {
	scalar      string
	listElem    *gqlType
	obj         *objectType
	input       *inputObjectType
	enum        *enumType
	iface       *interfaceType
	union       *unionType
	description string
	nonNull     bool

	// nullVariant is the same type with the nonNull flag flipped.
	// This is to ensure that either version of the type has a consistent address.
	nullVariant *gqlType

	listInit sync.Once
	listOf_  *gqlType
}

// objectType is the shared representation of a GraphQL Object type: the
// Go realization of spec.md's SchemaType for kind Object.
type objectType struct {
	name       string
	fields     map[string]objectTypeField
	fieldOrder []string
	interfaces []*gqlType
	hostType   reflect.Type
}

// objectTypeField is the Go realization of spec.md's Field: a SchemaType
// member with a resolve expression, an extension pipeline, and an
// authorization requirement, in addition to its declared type and arguments.
type objectTypeField struct {
	name              string
	description       string
	typ               *gqlType
	args              map[string]inputValueDefinition
	argOrder          []string
	resolve           projectFunc
	extensions        []fieldExtension
	requiredAuth      []string
	deprecationReason string
}

func (f *objectTypeField) isDeprecated() bool {
	return f.deprecationReason != ""
}

// field looks up a field by its GraphQL name, returning nil if obj has no
// such field. obj may be nil, in which case field always returns nil (the
// interface/union variants of a composite type have no objectType of their
// own to consult).
func (obj *objectType) field(name string) *objectTypeField {
	if obj == nil {
		return nil
	}
	f, ok := obj.fields[name]
	if !ok {
		return nil
	}
	return &f
}

type inputObjectType struct {
	name        string
	description string
	fields      map[string]inputValueDefinition
	fieldOrder  []string
}

type inputValueDefinition struct {
	description string
	// defaultValue.typ will always be set. Most of the time, defaultValue
	// is valid value of the type. However, if the type is non-nullable and
	// does not have a default, the value will be typed null.
	//
	// This is the only way to distinguish not having a default from having a
	// null default, but it's the only situation in which not having a default is
	// relevant in the GraphQL specification.
	defaultValue Value
}

func (ivd inputValueDefinition) typ() *gqlType {
	return ivd.defaultValue.typ
}

// enumType is the Go realization of spec.md's SchemaType for kind Enum: a
// closed set of named symbols, each optionally carrying its own deprecation
// reason.
type enumType struct {
	name        string
	description string
	symbols     map[string]struct{}
	symbolOrder []string
	deprecated  map[string]string
}

func newEnumType(info *enumType, description string) *gqlType {
	info.description = description
	nullable := &gqlType{enum: info}
	nonNullable := &gqlType{enum: info, nonNull: true}
	nullable.nullVariant = nonNullable
	nonNullable.nullVariant = nullable
	return nullable
}

func (e *enumType) has(sym string) bool {
	_, ok := e.symbols[sym]
	return ok
}

// interfaceType is the Go realization of spec.md's SchemaType for kind
// Interface: a field contract that zero or more Object types may implement.
type interfaceType struct {
	name       string
	fields     map[string]objectTypeField
	fieldOrder []string
	// implementors is populated as object types declare this interface via
	// SchemaBuilder; it drives possibleTypes() for fragment type-condition
	// compatibility checks.
	implementors []*gqlType
}

// field looks up a field by GraphQL name on typ, returning nil if typ is
// neither an Object nor an Interface type, or has no such field.
func (typ *gqlType) field(name string) *objectTypeField {
	switch {
	case typ.isObject():
		return typ.obj.field(name)
	case typ.isInterface():
		return typ.iface.field(name)
	default:
		return nil
	}
}

func (iface *interfaceType) field(name string) *objectTypeField {
	if iface == nil {
		return nil
	}
	f, ok := iface.fields[name]
	if !ok {
		return nil
	}
	return &f
}

func newInterfaceType(info *interfaceType, description string) *gqlType {
	nullable := &gqlType{iface: info, description: description}
	nonNullable := &gqlType{iface: info, description: description, nonNull: true}
	nullable.nullVariant = nonNullable
	nonNullable.nullVariant = nullable
	return nullable
}

// unionType is the Go realization of spec.md's SchemaType for kind Union: an
// unordered set of possible Object types with no fields of its own beyond
// the introspection-visible member list.
type unionType struct {
	name    string
	members []*gqlType
}

func newUnionType(info *unionType, description string) *gqlType {
	nullable := &gqlType{union: info, description: description}
	nonNullable := &gqlType{union: info, description: description, nonNull: true}
	nullable.nullVariant = nonNullable
	nonNullable.nullVariant = nullable
	return nullable
}

// Predefined types.
var (
	intType     = newScalarType("Int", "")
	floatType   = newScalarType("Float", "")
	stringType  = newScalarType("String", "")
	booleanType = newScalarType("Boolean", "")
	idType      = newScalarType("ID", "")
)

func newScalarType(name, description string) *gqlType {
	nullable := &gqlType{scalar: name, description: description}
	nonNullable := &gqlType{scalar: name, description: description, nonNull: true}
	nullable.nullVariant = nonNullable
	nonNullable.nullVariant = nullable
	return nullable
}

func newObjectType(info *objectType, description string) *gqlType {
	nullable := &gqlType{obj: info, description: description}
	nonNullable := &gqlType{obj: info, description: description, nonNull: true}
	nullable.nullVariant = nonNullable
	nonNullable.nullVariant = nullable
	return nullable
}

func newInputObjectType(info *inputObjectType, description string) *gqlType {
	info.description = description
	nullable := &gqlType{input: info}
	nonNullable := &gqlType{input: info, nonNull: true}
	nullable.nullVariant = nonNullable
	nonNullable.nullVariant = nullable
	return nullable
}

func listOf(elem *gqlType) *gqlType {
	elem.listInit.Do(func() {
		nullable := &gqlType{listElem: elem}
		nonNullable := &gqlType{listElem: elem, nonNull: true}
		nullable.nullVariant = nonNullable
		nonNullable.nullVariant = nullable
		elem.listOf_ = nullable
	})
	return elem.listOf_
}

// String returns the type reference string.
func (typ *gqlType) String() string {
	suffix := ""
	if typ.nonNull {
		suffix = "!"
	}
	switch {
	case typ == nil:
		return "<nil>"
	case typ.isScalar():
		return typ.scalar + suffix
	case typ.isList():
		return "[" + typ.listElem.String() + "]" + suffix
	case typ.isObject():
		return typ.obj.name + suffix
	case typ.isInputObject():
		return typ.input.name + suffix
	case typ.isEnum():
		return typ.enum.name + suffix
	case typ.isInterface():
		return typ.iface.name + suffix
	case typ.isUnion():
		return typ.union.name + suffix
	default:
		return "<invalid type>"
	}
}

func (typ *gqlType) typeDescription() string {
	switch {
	case typ == nil:
		return ""
	case typ.isEnum():
		return typ.enum.description
	case typ.isInputObject():
		return typ.input.description
	default:
		return typ.description
	}
}

// isNullable reports whether the type permits null.
func (typ *gqlType) isNullable() bool {
	return !typ.nonNull
}

func (typ *gqlType) toNullable() *gqlType {
	if typ.isNullable() {
		return typ
	}
	return typ.nullVariant
}

func (typ *gqlType) toNonNullable() *gqlType {
	if !typ.isNullable() {
		return typ
	}
	return typ.nullVariant
}

func (typ *gqlType) isScalar() bool {
	return typ.scalar != ""
}

func (typ *gqlType) isList() bool {
	return typ.listElem != nil
}

func (typ *gqlType) isObject() bool {
	return typ.obj != nil
}

func (typ *gqlType) isInputObject() bool {
	return typ.input != nil
}

func (typ *gqlType) isEnum() bool {
	return typ.enum != nil
}

func (typ *gqlType) isInterface() bool {
	return typ.iface != nil
}

func (typ *gqlType) isUnion() bool {
	return typ.union != nil
}

// isCompositeType reports whether typ has a selection set, i.e. can appear
// as a fragment type condition.
// https://graphql.github.io/graphql-spec/June2018/#IsCompositeType()
func (typ *gqlType) isCompositeType() bool {
	return typ.isObject() || typ.isInterface() || typ.isUnion()
}

// isInputType reports whether typ can be used as an input.
// See https://graphql.github.io/graphql-spec/June2018/#IsInputType()
func (typ *gqlType) isInputType() bool {
	for typ.isList() {
		typ = typ.listElem
	}
	return typ.isScalar() || typ.isInputObject() || typ.isEnum()
}

// isOutputType reports whether typ can be used as an output.
// See https://graphql.github.io/graphql-spec/June2018/#IsOutputType()
func (typ *gqlType) isOutputType() bool {
	for typ.isList() {
		typ = typ.listElem
	}
	return typ.isScalar() || typ.isObject() || typ.isInterface() || typ.isUnion() || typ.isEnum()
}

func (typ *gqlType) selectionSetType() *gqlType {
	for typ.isList() {
		typ = typ.listElem
	}
	if !typ.isCompositeType() {
		return nil
	}
	return typ
}

// possibleTypes returns the set of concrete Object types that a value of typ
// could be. For an Object type, that is the type itself; for Interface and
// Union types, it is the set of implementors/members registered with the
// SchemaBuilder.
func (typ *gqlType) possibleTypes() map[*gqlType]struct{} {
	base := typ.toNonNullable()
	result := make(map[*gqlType]struct{})
	switch {
	case base.isObject():
		result[base.toNullable()] = struct{}{}
	case base.isInterface():
		for _, impl := range base.iface.implementors {
			result[impl.toNullable()] = struct{}{}
		}
	case base.isUnion():
		for _, member := range base.union.members {
			result[member.toNullable()] = struct{}{}
		}
	}
	return result
}

// implements reports whether object type typ declares iface among its
// interfaces.
func (typ *gqlType) implements(iface *gqlType) bool {
	if !typ.isObject() {
		return false
	}
	for _, i := range typ.obj.interfaces {
		if i.toNonNullable() == iface.toNonNullable() {
			return true
		}
	}
	return false
}

// areTypesCompatible reports if a value variableType can be passed to a usage
// expecting locationType. See https://graphql.github.io/graphql-spec/June2018/#AreTypesCompatible()
func areTypesCompatible(locationType, variableType *gqlType) bool {
	for {
		switch {
		case !locationType.isNullable():
			if variableType.isNullable() {
				return false
			}
			locationType = locationType.toNullable()
			variableType = variableType.toNullable()
		case !variableType.isNullable():
			variableType = variableType.toNullable()
		case locationType.isList():
			if !variableType.isList() {
				return false
			}
			locationType = locationType.listElem
			variableType = variableType.listElem
		case variableType.isList():
			return false
		default:
			return locationType == variableType
		}
	}
}
