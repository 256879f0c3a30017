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
	"strings"

	"golang.org/x/xerrors"
	"zombiezen.com/go/graphql-server/internal/gqlang"
)

// Schema is a parsed set of type definitions. A Schema built by ParseSchema
// is read-only; a Schema built with NewSchema can additionally be grown
// with the AddType/AddField/AddAllFields family below, which is how
// reflect.go's derived types and the Field Extension Pipeline's
// schema-build-time rewrites (§4.6) get wired together.
type Schema struct {
	query    *gqlType
	mutation *gqlType
	types    map[string]*gqlType

	// typeOrder records registration order, builtins first, so that
	// introspection.go's __schema.types enumerates types in a stable,
	// deterministic order rather than Go's randomized map order.
	typeOrder []string
}

// NewSchema returns an empty Schema ready for programmatic construction via
// AddType, AddField, and AddAllFields, the SchemaBuilder surface spec.md
// describes. This is the path reflect.go's ReflectObjectType uses, as
// opposed to ParseSchema's SDL text parsing.
func NewSchema() *Schema {
	s := &Schema{types: make(map[string]*gqlType)}
	for _, b := range []*gqlType{booleanType, floatType, intType, stringType, idType} {
		s.types[b.String()] = b
		s.typeOrder = append(s.typeOrder, b.String())
	}
	return s
}

// SetQuery designates typ as the schema's root Query object type.
func (schema *Schema) SetQuery(typ *gqlType) error {
	if !typ.isObject() {
		return newCompilerError("query type %v must be an object", typ)
	}
	schema.query = typ
	return nil
}

// SetMutation designates typ as the schema's root Mutation object type.
func (schema *Schema) SetMutation(typ *gqlType) error {
	if !typ.isObject() {
		return newCompilerError("mutation type %v must be an object", typ)
	}
	schema.mutation = typ
	return nil
}

// HasType reports whether a type named name has already been registered.
func (schema *Schema) HasType(name string) bool {
	_, ok := schema.types[name]
	return ok
}

// AddType registers typ under its own name. It is an error to register two
// types with the same name, or to register a type with no name of its own
// (a bare scalar, list, or non-null wrapper).
func (schema *Schema) AddType(typ *gqlType) error {
	name := registeredTypeName(typ)
	if name == "" {
		return newCompilerError("type %v has no name to register under", typ)
	}
	if schema.types == nil {
		schema.types = make(map[string]*gqlType)
	}
	if _, exists := schema.types[name]; exists {
		return newCompilerError("type %q already registered", name)
	}
	schema.types[name] = typ
	schema.typeOrder = append(schema.typeOrder, name)
	base := typ.toNonNullable()
	if base.isObject() {
		for _, iface := range base.obj.interfaces {
			iface.iface.implementors = append(iface.iface.implementors, base)
		}
	}
	if base.isUnion() {
		// Nothing further to wire; members were supplied at construction.
	}
	return nil
}

func registeredTypeName(typ *gqlType) string {
	base := typ.toNonNullable()
	switch {
	case base.isObject():
		return base.obj.name
	case base.isInputObject():
		return base.input.name
	case base.isEnum():
		return base.enum.name
	case base.isInterface():
		return base.iface.name
	case base.isUnion():
		return base.union.name
	case base.isScalar():
		return base.scalar
	default:
		return ""
	}
}

// objectOf returns the objectType backing a previously registered Object
// type, or an error if typeName is unknown or not an Object type.
func (schema *Schema) objectOf(typeName string) (*objectType, error) {
	typ := schema.types[typeName]
	if typ == nil {
		return nil, newCompilerError("unknown type %q", typeName)
	}
	obj := typ.toNonNullable().obj
	if obj == nil {
		return nil, newCompilerError("type %q is not an object type", typeName)
	}
	return obj, nil
}

// AddField attaches field under fieldName to the previously registered
// Object type typeName, running each of field.extensions' Configure in
// registration order. The loop re-reads the length of field.extensions on
// every iteration, so an extension that a Configure appends is configured
// too.
func (schema *Schema) AddField(typeName, fieldName string, field objectTypeField) error {
	obj, err := schema.objectOf(typeName)
	if err != nil {
		return err
	}
	if _, exists := obj.fields[fieldName]; exists {
		return newCompilerError("field %q already defined on type %q", fieldName, typeName)
	}
	field.name = fieldName
	for i := 0; i < len(field.extensions); i++ {
		if err := field.extensions[i].Configure(schema, &field); err != nil {
			return wrapCompilerError(err)
		}
	}
	obj.fields[fieldName] = field
	obj.fieldOrder = append(obj.fieldOrder, fieldName)
	return nil
}

// ReplaceField overwrites a previously added field's definition, re-running
// Configure for its (possibly new) extensions.
func (schema *Schema) ReplaceField(typeName, fieldName string, field objectTypeField) error {
	obj, err := schema.objectOf(typeName)
	if err != nil {
		return err
	}
	if _, exists := obj.fields[fieldName]; !exists {
		return newCompilerError("field %q not defined on type %q", fieldName, typeName)
	}
	field.name = fieldName
	for i := 0; i < len(field.extensions); i++ {
		if err := field.extensions[i].Configure(schema, &field); err != nil {
			return wrapCompilerError(err)
		}
	}
	obj.fields[fieldName] = field
	return nil
}

// RemoveField deletes a field from a previously registered Object type.
func (schema *Schema) RemoveField(typeName, fieldName string) error {
	obj, err := schema.objectOf(typeName)
	if err != nil {
		return err
	}
	if _, exists := obj.fields[fieldName]; !exists {
		return newCompilerError("field %q not defined on type %q", fieldName, typeName)
	}
	delete(obj.fields, fieldName)
	for i, n := range obj.fieldOrder {
		if n == fieldName {
			obj.fieldOrder = append(obj.fieldOrder[:i], obj.fieldOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Deprecate marks a previously added field as deprecated, recording reason
// for introspection.go's deprecationReason.
func (schema *Schema) Deprecate(typeName, fieldName, reason string) error {
	obj, err := schema.objectOf(typeName)
	if err != nil {
		return err
	}
	f, exists := obj.fields[fieldName]
	if !exists {
		return newCompilerError("field %q not defined on type %q", fieldName, typeName)
	}
	f.deprecationReason = reason
	obj.fields[fieldName] = f
	return nil
}

// GetField returns a previously added field's definition.
func (schema *Schema) GetField(typeName, fieldName string) (*objectTypeField, bool) {
	typ := schema.types[typeName]
	if typ == nil {
		return nil, false
	}
	f := typ.field(fieldName)
	if f == nil {
		return nil, false
	}
	return f, true
}

// AddAllFields reflects every exported field of hostType (see reflect.go)
// and adds each one, by its GraphQL name, to the previously registered
// Object type typeName. Fields already present on the type (added earlier
// by an explicit AddField call) are left untouched, so that callers can
// override individual fields either before or after calling
// AddAllFields.
func (schema *Schema) AddAllFields(typeName string, hostType reflect.Type) error {
	for hostType.Kind() == reflect.Ptr {
		hostType = hostType.Elem()
	}
	if hostType.Kind() != reflect.Struct {
		return newCompilerError("AddAllFields: %v is not a struct type", hostType)
	}
	obj, err := schema.objectOf(typeName)
	if err != nil {
		return err
	}
	r := newReflector()
	r.cache[hostType] = schema.types[typeName].toNonNullable()
	scratch := &objectType{
		name:   obj.name,
		fields: make(map[string]objectTypeField),
	}
	r.reflectStructFields(hostType, scratch)
	for _, name := range scratch.fieldOrder {
		if _, exists := obj.fields[name]; exists {
			continue
		}
		obj.fields[name] = scratch.fields[name]
		obj.fieldOrder = append(obj.fieldOrder, name)
	}
	obj.hostType = hostType
	return nil
}

// ParseSchema parses a GraphQL document containing type definitions.
func ParseSchema(source string) (*Schema, error) {
	return parseSchema(source, false)
}

func parseSchema(source string, internal bool) (*Schema, error) {
	doc, errs := gqlang.Parse(source)
	if len(errs) > 0 {
		msgBuilder := new(strings.Builder)
		msgBuilder.WriteString("parse schema:")
		for _, err := range errs {
			msgBuilder.WriteByte('\n')
			if p, ok := gqlang.ErrorPosition(err); ok {
				msgBuilder.WriteString(p.String())
				msgBuilder.WriteString(": ")
			}
			msgBuilder.WriteString(err.Error())
		}
		return nil, xerrors.New(msgBuilder.String())
	}
	for _, defn := range doc.Definitions {
		if defn.Operation != nil {
			return nil, xerrors.Errorf("parse schema: %v: operations not allowed", defn.Operation.Start.ToPosition(source))
		}
	}
	typeMap, order, err := buildTypeMap(source, internal, doc)
	if err != nil {
		return nil, xerrors.Errorf("parse schema: %v", err)
	}
	schema := &Schema{
		query:     typeMap["Query"],
		mutation:  typeMap["Mutation"],
		types:     typeMap,
		typeOrder: order,
	}
	if !internal {
		if schema.query == nil {
			return nil, xerrors.New("parse schema: could not find Query type")
		}
		if !schema.query.isObject() {
			return nil, xerrors.Errorf("parse schema: query type %v must be an object", schema.query)
		}
		if schema.mutation != nil && !schema.mutation.isObject() {
			return nil, xerrors.Errorf("parse schema: mutation type %v must be an object", schema.mutation)
		}
	}
	return schema, nil
}

const reservedPrefix = "__"

func buildTypeMap(source string, internal bool, doc *gqlang.Document) (map[string]*gqlType, []string, error) {
	typeMap := make(map[string]*gqlType)
	var order []string
	builtins := []*gqlType{
		booleanType,
		floatType,
		intType,
		stringType,
		idType,
	}
	for _, b := range builtins {
		typeMap[b.String()] = b
		order = append(order, b.String())
	}
	// First pass: fill out lookup table.
	for _, defn := range doc.Definitions {
		t := defn.Type
		if t == nil {
			continue
		}
		name := t.Name()
		if !internal && strings.HasPrefix(name.Value, reservedPrefix) {
			return nil, nil, xerrors.Errorf("%v: use of reserved name %q", name.Start.ToPosition(source), name.Value)
		}
		if typeMap[name.Value] != nil {
			return nil, nil, xerrors.Errorf("%v: multiple types with name %q", name.Start.ToPosition(source), name.Value)
		}
		order = append(order, name.Value)

		switch {
		case t.Scalar != nil:
			typeMap[name.Value] = newScalarType(name.Value, t.Scalar.Description.Value())
		case t.Enum != nil:
			info := &enumType{
				name:    name.Value,
				symbols: make(map[string]struct{}),
			}
			for _, v := range defn.Type.Enum.Values.Values {
				sym := v.Value.Value
				if !internal && strings.HasPrefix(sym, reservedPrefix) {
					return nil, nil, xerrors.Errorf("%v: use of reserved name %q", v.Value.Start.ToPosition(source), sym)
				}
				if info.has(sym) {
					return nil, nil, xerrors.Errorf("%v: multiple enum values with name %q", v.Value.Start.ToPosition(source), sym)
				}
				info.symbols[sym] = struct{}{}
				info.symbolOrder = append(info.symbolOrder, sym)
			}
			typeMap[name.Value] = newEnumType(info, t.Enum.Description.Value())
		case t.Object != nil:
			typeMap[name.Value] = newObjectType(&objectType{
				name:   name.Value,
				fields: make(map[string]objectTypeField),
			}, t.Object.Description.Value())
		case t.InputObject != nil:
			typeMap[name.Value] = newInputObjectType(&inputObjectType{
				name:   name.Value,
				fields: make(map[string]inputValueDefinition),
			}, t.InputObject.Description.Value())
		}
	}
	// Second pass: fill in object definitions.
	for _, defn := range doc.Definitions {
		if defn.Type == nil {
			continue
		}
		switch {
		case defn.Type.Object != nil:
			if err := fillObjectTypeFields(source, internal, typeMap, defn.Type.Object); err != nil {
				return nil, nil, err
			}
		case defn.Type.InputObject != nil:
			if err := fillInputObjectTypeFields(source, internal, typeMap, defn.Type.InputObject); err != nil {
				return nil, nil, err
			}
		}
	}
	return typeMap, order, nil
}

func fillObjectTypeFields(source string, internal bool, typeMap map[string]*gqlType, obj *gqlang.ObjectTypeDefinition) error {
	info := typeMap[obj.Name.Value].obj
	for _, fieldDefn := range obj.Fields.Defs {
		fieldName := fieldDefn.Name.Value
		if !internal && strings.HasPrefix(fieldName, reservedPrefix) {
			return xerrors.Errorf("%v: use of reserved name %q", fieldDefn.Name.Start.ToPosition(source), fieldName)
		}
		if _, found := info.fields[fieldName]; found {
			return xerrors.Errorf("%v: multiple fields named %q in %s", fieldDefn.Name.Start.ToPosition(source), fieldName, obj.Name)
		}
		typ := resolveTypeRef(typeMap, fieldDefn.Type)
		if typ == nil {
			return xerrors.Errorf("%v: undefined type %v", fieldDefn.Type.Start().ToPosition(source), fieldDefn.Type)
		}
		if !typ.isOutputType() {
			return xerrors.Errorf("%v: %v is not an output type", fieldDefn.Type.Start().ToPosition(source), fieldDefn.Type)
		}
		f := objectTypeField{
			name:        fieldName,
			description: fieldDefn.Description.Value(),
			typ:         typ,
		}
		if fieldDefn.Args != nil {
			f.args = make(map[string]inputValueDefinition)
			for _, arg := range fieldDefn.Args.Args {
				argName := arg.Name.Value
				if !internal && strings.HasPrefix(argName, reservedPrefix) {
					return xerrors.Errorf("%v: use of reserved name %q", arg.Name.Start.ToPosition(source), argName)
				}
				if _, found := f.args[argName]; found {
					return xerrors.Errorf("%v: multiple arguments named %q for field %s.%s", arg.Name.Start.ToPosition(source), argName, obj.Name, fieldName)
				}
				typ := resolveTypeRef(typeMap, arg.Type)
				if typ == nil {
					return xerrors.Errorf("%v: undefined type %v", arg.Type.Start().ToPosition(source), arg.Type)
				}
				if !typ.isInputType() {
					return xerrors.Errorf("%v: %v is not an input type", arg.Type.Start().ToPosition(source), arg.Type)
				}
				defaultValue := Value{typ: typ}
				if arg.Default != nil {
					if errs := validateConstantValue(source, typ, arg.Default.Value); len(errs) > 0 {
						return errs[0]
					}
					defaultValue = coerceConstantInputValue(typ, arg.Default.Value)
				}
				f.args[argName] = inputValueDefinition{defaultValue: defaultValue}
				f.argOrder = append(f.argOrder, argName)
			}
		}
		info.fields[fieldName] = f
		info.fieldOrder = append(info.fieldOrder, fieldName)
	}
	return nil
}

func fillInputObjectTypeFields(source string, internal bool, typeMap map[string]*gqlType, obj *gqlang.InputObjectTypeDefinition) error {
	info := typeMap[obj.Name.Value].input
	for _, fieldDefn := range obj.Fields.Defs {
		fieldName := fieldDefn.Name.Value
		if !internal && strings.HasPrefix(fieldName, reservedPrefix) {
			return xerrors.Errorf("%v: use of reserved name %q", fieldDefn.Name.Start.ToPosition(source), fieldName)
		}
		if _, found := info.fields[fieldName]; found {
			return xerrors.Errorf("%v: multiple fields named %q in %s", fieldDefn.Name.Start.ToPosition(source), fieldName, obj.Name)
		}
		typ := resolveTypeRef(typeMap, fieldDefn.Type)
		if typ == nil {
			return xerrors.Errorf("%v: undefined type %v", fieldDefn.Type.Start().ToPosition(source), fieldDefn.Type)
		}
		if !typ.isInputType() {
			return xerrors.Errorf("%v: %v is not an input type", fieldDefn.Type.Start().ToPosition(source), fieldDefn.Type)
		}
		var f inputValueDefinition
		if fieldDefn.Default != nil {
			f.defaultValue = coerceConstantInputValue(typ, fieldDefn.Default.Value)
		} else {
			f.defaultValue.typ = typ
		}
		info.fields[fieldDefn.Name.Value] = f
		info.fieldOrder = append(info.fieldOrder, fieldName)
	}
	return nil
}

func resolveTypeRef(typeMap map[string]*gqlType, ref *gqlang.TypeRef) *gqlType {
	switch {
	case ref.Named != nil:
		return typeMap[ref.Named.Value]
	case ref.List != nil:
		elem := resolveTypeRef(typeMap, ref.List.Type)
		if elem == nil {
			return nil
		}
		return listOf(elem)
	case ref.NonNull != nil && ref.NonNull.Named != nil:
		base := typeMap[ref.NonNull.Named.Value]
		if base == nil {
			return nil
		}
		return base.toNonNullable()
	case ref.NonNull != nil && ref.NonNull.List != nil:
		elem := resolveTypeRef(typeMap, ref.NonNull.List.Type)
		if elem == nil {
			return nil
		}
		return listOf(elem).toNonNullable()
	default:
		panic("unrecognized type reference form")
	}
}

func (schema *Schema) operationType(opType gqlang.OperationType) *gqlType {
	switch opType {
	case gqlang.Query:
		return schema.query
	case gqlang.Mutation:
		return schema.mutation
	case gqlang.Subscription:
		return nil
	default:
		panic("unknown operation type")
	}
}
