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
	"fmt"
	"reflect"
	"sync"
)

// Predefined introspection field names.
const (
	typeByNameFieldName = "__type"
	schemaFieldName     = "__schema"
	typeNameFieldName   = "__typename"
)

// schemaType returns the built-in __Schema type.
func schemaType() *gqlType {
	return introspectionSchema().types["__Schema"]
}

// typeType returns the built-in __Type type.
func typeType() *gqlType {
	return introspectionSchema().types["__Type"]
}

func typeNameField() *objectTypeField {
	return &objectTypeField{
		name: typeNameFieldName,
		typ:  stringType.toNonNullable(),
	}
}

// typeByNameField implements the root "__type(name: String!): __Type" field.
// Its resolve is a plain projectFunc closure over schema rather than a
// reflected struct or method lookup, since the field it answers isn't one
// schema itself exposes.
func typeByNameField(schema *Schema) *objectTypeField {
	return &objectTypeField{
		name: typeByNameFieldName,
		typ:  typeType(),
		args: map[string]inputValueDefinition{
			"name": {defaultValue: Value{typ: stringType.toNonNullable()}},
		},
		argOrder: []string{"name"},
		resolve: func(pc *projectContext, parent reflect.Value, args map[string]Value) (reflect.Value, error) {
			name := args["name"].Scalar()
			typ := schema.types[name]
			if typ == nil {
				return reflect.Value{}, nil
			}
			return reflect.ValueOf(typ), nil
		},
	}
}

// schemaField implements the root "__schema: __Schema!" field.
func schemaField(schema *Schema) *objectTypeField {
	return &objectTypeField{
		name: schemaFieldName,
		typ:  schemaType().toNonNullable(),
		resolve: func(pc *projectContext, parent reflect.Value, args map[string]Value) (reflect.Value, error) {
			s := &schemaObject{
				QueryType:    schema.query,
				MutationType: schema.mutation,
			}
			for _, name := range schema.typeOrder {
				s.Types = append(s.Types, schema.types[name])
			}
			return reflect.ValueOf(s), nil
		},
	}
}

// schemaObject is a representation of __Schema.
type schemaObject struct {
	Types            []*gqlType
	QueryType        *gqlType
	MutationType     *gqlType
	SubscriptionType *gqlType
	Directives       *[]interface{}
}

// The methods below give *gqlType and *objectTypeField the exported Go
// surface that __Type/__Field/__InputValue/__EnumValue resolution needs.
// They're read the same way any other field reads a Go struct or method -
// through defaultFieldAccessor's name-based lookup in composeField - since
// gqlType and objectTypeField never register explicit resolves for their
// own introspection fields.

// namedInputValue is the Go representation of __InputValue: a description
// of one argument or input-object field, readable by defaultFieldAccessor's
// struct-field lookup since all its fields are exported.
type namedInputValue struct {
	Name         string
	Description  *string
	Type         *gqlType
	DefaultValue *string
}

// enumValueInfo is the Go representation of __EnumValue.
type enumValueInfo struct {
	Name              string
	Description       *string
	IsDeprecated      bool
	DeprecationReason *string
}

func describeDefaultValue(v Value) *string {
	if v.IsNull() {
		return nil
	}
	s := fmt.Sprintf("%v", v.GoValue())
	return &s
}

func namedInputValuesFromDefs(names []string, defs map[string]inputValueDefinition) []*namedInputValue {
	result := make([]*namedInputValue, 0, len(names))
	for _, name := range names {
		defn := defs[name]
		niv := &namedInputValue{
			Name:         name,
			Type:         defn.typ(),
			DefaultValue: describeDefaultValue(defn.defaultValue),
		}
		if defn.description != "" {
			d := defn.description
			niv.Description = &d
		}
		result = append(result, niv)
	}
	return result
}

// Kind implements the __Type.kind field.
func (typ *gqlType) Kind() string {
	switch {
	case typ.nonNull:
		return "NON_NULL"
	case typ.isList():
		return "LIST"
	case typ.isObject():
		return "OBJECT"
	case typ.isInterface():
		return "INTERFACE"
	case typ.isUnion():
		return "UNION"
	case typ.isEnum():
		return "ENUM"
	case typ.isInputObject():
		return "INPUT_OBJECT"
	default:
		return "SCALAR"
	}
}

// Name implements the __Type.name field.
func (typ *gqlType) Name() *string {
	if typ.nonNull || typ.isList() {
		return nil
	}
	name := registeredTypeName(typ)
	if name == "" {
		return nil
	}
	return &name
}

// Description implements the __Type.description field.
func (typ *gqlType) Description() *string {
	if typ.nonNull || typ.isList() {
		return nil
	}
	d := typ.typeDescription()
	if d == "" {
		return nil
	}
	return &d
}

// OfType implements the __Type.ofType field.
func (typ *gqlType) OfType() *gqlType {
	switch {
	case typ.nonNull:
		return typ.toNullable()
	case typ.isList():
		return typ.listElem
	default:
		return nil
	}
}

// Fields implements the __Type.fields field; it returns nil for any type
// other than Object or Interface, as the introspection spec requires.
func (typ *gqlType) Fields(args map[string]Value) []*objectTypeField {
	base := typ.toNonNullable()
	var fieldMap map[string]objectTypeField
	var order []string
	switch {
	case base.isObject():
		fieldMap, order = base.obj.fields, base.obj.fieldOrder
	case base.isInterface():
		fieldMap, order = base.iface.fields, base.iface.fieldOrder
	default:
		return nil
	}
	includeDeprecated := false
	if v, ok := args["includeDeprecated"]; ok {
		includeDeprecated = v.Boolean()
	}
	result := make([]*objectTypeField, 0, len(order))
	for _, name := range order {
		f := fieldMap[name]
		if f.isDeprecated() && !includeDeprecated {
			continue
		}
		result = append(result, &f)
	}
	return result
}

// Interfaces implements the __Type.interfaces field.
func (typ *gqlType) Interfaces() []*gqlType {
	base := typ.toNonNullable()
	if !base.isObject() {
		return nil
	}
	return base.obj.interfaces
}

// PossibleTypes implements the __Type.possibleTypes field.
func (typ *gqlType) PossibleTypes() []*gqlType {
	base := typ.toNonNullable()
	if !base.isInterface() && !base.isUnion() {
		return nil
	}
	set := base.possibleTypes()
	result := make([]*gqlType, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	return result
}

// EnumValues implements the __Type.enumValues field.
func (typ *gqlType) EnumValues(args map[string]Value) []*enumValueInfo {
	base := typ.toNonNullable()
	if !base.isEnum() {
		return nil
	}
	includeDeprecated := false
	if v, ok := args["includeDeprecated"]; ok {
		includeDeprecated = v.Boolean()
	}
	result := make([]*enumValueInfo, 0, len(base.enum.symbolOrder))
	for _, sym := range base.enum.symbolOrder {
		reason, deprecated := base.enum.deprecated[sym]
		if deprecated && !includeDeprecated {
			continue
		}
		info := &enumValueInfo{Name: sym, IsDeprecated: deprecated}
		if deprecated {
			r := reason
			info.DeprecationReason = &r
		}
		result = append(result, info)
	}
	return result
}

// InputFields implements the __Type.inputFields field.
func (typ *gqlType) InputFields() []*namedInputValue {
	base := typ.toNonNullable()
	if !base.isInputObject() {
		return nil
	}
	return namedInputValuesFromDefs(base.input.fieldOrder, base.input.fields)
}

// Name implements the __Field.name field.
func (f *objectTypeField) Name() string {
	return f.name
}

// Description implements the __Field.description field.
func (f *objectTypeField) Description() *string {
	if f.description == "" {
		return nil
	}
	d := f.description
	return &d
}

// Type implements the __Field.type field.
func (f *objectTypeField) Type() *gqlType {
	return f.typ
}

// Args implements the __Field.args field.
func (f *objectTypeField) Args() []*namedInputValue {
	return namedInputValuesFromDefs(f.argOrder, f.args)
}

// IsDeprecated implements the __Field.isDeprecated field.
func (f *objectTypeField) IsDeprecated() bool {
	return f.isDeprecated()
}

// DeprecationReason implements the __Field.deprecationReason field.
func (f *objectTypeField) DeprecationReason() *string {
	if f.deprecationReason == "" {
		return nil
	}
	r := f.deprecationReason
	return &r
}

var introspect struct {
	sync.Once
	schema *Schema
	err    error
}

func introspectionSchema() *Schema {
	// https://graphql.github.io/graphql-spec/June2018/#sec-Schema-Introspection
	introspect.Once.Do(func() {
		introspect.schema, introspect.err = parseSchema(`
type __Schema {
  types: [__Type!]!
  queryType: __Type!
  mutationType: __Type
  subscriptionType: __Type
  directives: [__Directive!]!
}

type __Type {
  kind: __TypeKind!
  name: String
  description: String

  # OBJECT and INTERFACE only
  fields(includeDeprecated: Boolean = false): [__Field!]

  # OBJECT only
  interfaces: [__Type!]

  # INTERFACE and UNION only
  possibleTypes: [__Type!]

  # ENUM only
  enumValues(includeDeprecated: Boolean = false): [__EnumValue!]

  # INPUT_OBJECT only
  inputFields: [__InputValue!]

  # NON_NULL and LIST only
  ofType: __Type
}

type __Field {
  name: String!
  description: String
  args: [__InputValue!]!
  type: __Type!
  isDeprecated: Boolean!
  deprecationReason: String
}

type __InputValue {
  name: String!
  description: String
  type: __Type!
  defaultValue: String
}

type __EnumValue {
  name: String!
  description: String
  isDeprecated: Boolean!
  deprecationReason: String
}

enum __TypeKind {
  SCALAR
  OBJECT
  INTERFACE
  UNION
  ENUM
  INPUT_OBJECT
  LIST
  NON_NULL
}

type __Directive {
  name: String!
  description: String
  locations: [__DirectiveLocation!]!
  args: [__InputValue!]!
}

enum __DirectiveLocation {
  QUERY
  MUTATION
  SUBSCRIPTION
  FIELD
  FRAGMENT_DEFINITION
  FRAGMENT_SPREAD
  INLINE_FRAGMENT
  SCHEMA
  SCALAR
  OBJECT
  FIELD_DEFINITION
  ARGUMENT_DEFINITION
  INTERFACE
  UNION
  ENUM
  ENUM_VALUE
  INPUT_OBJECT
  INPUT_FIELD_DEFINITION
}
		`, true)
	})
	if introspect.err != nil {
		panic(introspect.err)
	}
	return introspect.schema
}
