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
	"strings"
	"sync"
)

// The Host Type Reflector walks a host Go type's exported fields with
// reflect and derives a gqlType for it, the way the teacher's convert.go
// walks a destination Go type to coerce a Value into it, but in the
// opposite direction: schema derivation instead of value coercion. Field
// name munging deliberately mirrors convert.go's findConvertField
// case-insensitive matching idiom, generalized from "match a known name"
// to "produce a camelCase name from an exported Go identifier."

// registeredEnum records the symbol set RegisterEnum associated with a Go
// type, so that reflecting over a field of that type produces an enum
// gqlType rather than a String scalar.
type registeredEnum struct {
	name    string
	symbols []string
}

var enumRegistry sync.Map // reflect.Type -> *registeredEnum

// RegisterEnum associates name and symbols with the Go type of zero, so
// that ReflectObjectType realizes any field of that type as a GraphQL enum
// instead of falling back to a String scalar. zero is typically a named
// string or int type's zero value, e.g. RegisterEnum("TaskStatus",
// TaskStatus(""), "OPEN", "DONE").
func RegisterEnum(name string, zero interface{}, symbols ...string) {
	t := reflect.TypeOf(zero)
	ordered := append([]string(nil), symbols...)
	enumRegistry.Store(t, &registeredEnum{name: name, symbols: ordered})
}

func lookupRegisteredEnum(t reflect.Type) (*registeredEnum, bool) {
	v, ok := enumRegistry.Load(t)
	if !ok {
		return nil, false
	}
	return v.(*registeredEnum), true
}

// goToGraphQLFieldName converts an exported Go struct field name into the
// lower-cameled GraphQL name spec.md's Host Type Reflector mandates: "ID"
// becomes "id", "LastName" becomes "lastName", "HTTPStatus" becomes
// "httpStatus". It lowercases a leading run of uppercase letters, keeping
// the last letter of that run as the start of the following word if one
// follows.
func goToGraphQLFieldName(name string) string {
	if name == "" {
		return name
	}
	i := 0
	for i < len(name) && isASCIIUpper(name[i]) {
		i++
	}
	switch {
	case i == 0:
		return name
	case i >= len(name)-1:
		return strings.ToLower(name)
	case i == 1:
		return strings.ToLower(name[:1]) + name[1:]
	default:
		return strings.ToLower(name[:i-1]) + name[i-1:]
	}
}

func isASCIIUpper(c byte) bool {
	return 'A' <= c && c <= 'Z'
}

// graphQLToGoFieldName converts a GraphQL field name into the exported Go
// identifier defaultFieldAccessor looks for: the inverse of
// goToGraphQLFieldName for the common case of a single leading capital
// ("name" becomes "Name"). Unlike goToGraphQLFieldName this isn't a true
// inverse for names with an initial acronym run, since that case is
// ambiguous going backwards; the teacher's readField had the same
// limitation.
func graphQLToGoFieldName(name string) string {
	if name == "" {
		return name
	}
	if c := name[0]; 'a' <= c && c <= 'z' {
		return string(c-'a'+'A') + name[1:]
	}
	return name
}

// fieldTag is the parsed form of a `graphql:"..."` struct tag.
type fieldTag struct {
	name string
	auth []string
	skip bool
}

// parseFieldTag parses the value of a `graphql` struct tag. "-" skips the
// field entirely; "name=foo" overrides the reflected field name; any
// number of "auth=requirement" entries add to the field's required
// authorization set (§4.6's authorization extension, §2 component 8),
// e.g. `graphql:"auth=role:admin"`.
func parseFieldTag(raw string) fieldTag {
	if raw == "-" {
		return fieldTag{skip: true}
	}
	var tag fieldTag
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, hasEquals := strings.Cut(part, "=")
		if !hasEquals {
			if tag.name == "" {
				tag.name = part
			}
			continue
		}
		switch key {
		case "name":
			tag.name = value
		case "auth":
			tag.auth = append(tag.auth, value)
		}
	}
	return tag
}

// reflector memoizes gqlType derivation by Go type so that self-referential
// host types (a Task that references its parent Project, which references
// its Tasks) terminate instead of recursing forever.
type reflector struct {
	cache map[reflect.Type]*gqlType
}

func newReflector() *reflector {
	return &reflector{cache: make(map[reflect.Type]*gqlType)}
}

// ReflectObjectType derives a GraphQL Object gqlType from hostType, an
// exported struct type. name is used as the Object type's schema name.
// Nested struct, slice, and pointer fields are reflected recursively;
// fields of a type previously registered with RegisterEnum become enums;
// every other field falls back to the nearest matching scalar, with the
// precise conversion performed at execution time by scalarFromGo (which
// already falls back further, to encoding.TextMarshaler and fmt.Stringer,
// for types this package cannot otherwise name).
func ReflectObjectType(hostType reflect.Type, name string) *gqlType {
	for hostType.Kind() == reflect.Ptr {
		hostType = hostType.Elem()
	}
	r := newReflector()
	typ := r.reflectType(hostType, name)
	base := typ.toNonNullable()
	if base.isObject() {
		base.obj.name = name
	}
	return typ
}

func (r *reflector) reflectType(goType reflect.Type, fallbackName string) *gqlType {
	nonNull := true
	for goType.Kind() == reflect.Ptr {
		nonNull = false
		goType = goType.Elem()
	}

	if cached, ok := r.cache[goType]; ok {
		if nonNull {
			return cached
		}
		return cached.toNullable()
	}

	if reg, ok := lookupRegisteredEnum(goType); ok {
		symbols := make(map[string]struct{}, len(reg.symbols))
		for _, s := range reg.symbols {
			symbols[s] = struct{}{}
		}
		et := newEnumType(&enumType{
			name:        reg.name,
			symbols:     symbols,
			symbolOrder: reg.symbols,
		}, "")
		base := et.toNonNullable()
		r.cache[goType] = base
		if nonNull {
			return base
		}
		return base.toNullable()
	}

	switch goType.Kind() {
	case reflect.Slice, reflect.Array:
		elem := r.reflectType(goType.Elem(), fallbackName)
		lt := listOf(elem).toNonNullable()
		if nonNull {
			return lt
		}
		return lt.toNullable()
	case reflect.Struct:
		obj := &objectType{
			name:       structTypeName(goType, fallbackName),
			fields:     make(map[string]objectTypeField),
			hostType:   goType,
		}
		ot := newObjectType(obj, "")
		base := ot.toNonNullable()
		// Cache before walking fields: a struct that references its own
		// type (directly or through another struct) must see this
		// partially-built entry rather than recursing unboundedly.
		r.cache[goType] = base
		r.reflectStructFields(goType, obj)
		if nonNull {
			return base
		}
		return base.toNullable()
	default:
		base := r.reflectScalarKind(goType).toNonNullable()
		r.cache[goType] = base
		if nonNull {
			return base
		}
		return base.toNullable()
	}
}

func structTypeName(goType reflect.Type, fallbackName string) string {
	if goType.Name() != "" {
		return goType.Name()
	}
	return fallbackName
}

func (r *reflector) reflectScalarKind(goType reflect.Type) *gqlType {
	switch goType.Kind() {
	case reflect.Bool:
		return booleanType
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return intType
	case reflect.Float32, reflect.Float64:
		return floatType
	case reflect.String:
		return stringType
	default:
		// Any other kind is advertised as String; at execution time
		// scalarFromGo converts such a value through encoding.TextMarshaler
		// or fmt.Stringer if it implements one.
		return stringType
	}
}

func (r *reflector) reflectStructFields(goType reflect.Type, obj *objectType) {
	for i := 0; i < goType.NumField(); i++ {
		sf := goType.Field(i)
		if sf.PkgPath != "" {
			// Unexported field: not reachable via reflect.Value.Interface,
			// so it cannot be projected.
			continue
		}
		tag := parseFieldTag(sf.Tag.Get("graphql"))
		if tag.skip {
			continue
		}
		name := tag.name
		if name == "" {
			name = goToGraphQLFieldName(sf.Name)
		}
		if _, exists := obj.fields[name]; exists {
			continue
		}
		fieldType := r.reflectType(sf.Type, sf.Name)
		index := append([]int(nil), sf.Index...)
		obj.fields[name] = objectTypeField{
			name:         name,
			typ:          fieldType,
			resolve:      fieldAccessor(index),
			requiredAuth: tag.auth,
		}
		obj.fieldOrder = append(obj.fieldOrder, name)
	}
}

// fieldAccessor returns the projectFunc that reads the struct field at
// index off of parent. It is the reflect.go realization of the teacher's
// readField fast path ("goValue.FieldByName(goName)"), precomputed once at
// schema-build time instead of looked up by name on every request.
func fieldAccessor(index []int) projectFunc {
	return func(pc *projectContext, parent reflect.Value, args map[string]Value) (reflect.Value, error) {
		parent = unwrapPointer(parent)
		if !parent.IsValid() {
			return reflect.Value{}, nil
		}
		return parent.FieldByIndex(index), nil
	}
}

// methodAccessor adapts a Go method into a projectFunc, reusing
// callFieldMethod's signature-matching logic (context.Context,
// map[string]Value parameters; (T, error) or (T) results) for resolvers
// that SchemaBuilder.AddField wires up explicitly rather than deriving
// from a plain struct field.
func methodAccessor(methodName string) projectFunc {
	return func(pc *projectContext, parent reflect.Value, args map[string]Value) (reflect.Value, error) {
		parent = unwrapPointer(parent)
		if !parent.IsValid() {
			return reflect.Value{}, nil
		}
		recv := parent
		if recv.Kind() != reflect.Interface && recv.CanAddr() {
			recv = recv.Addr()
		}
		method := recv.MethodByName(methodName)
		if !method.IsValid() {
			return reflect.Value{}, newCompilerError("no such method %q on %v", methodName, parent.Type())
		}
		var ctx context.Context = context.Background()
		if pc != nil && pc.ctx != nil {
			ctx = pc.ctx
		}
		return callFieldMethod(ctx, method, args)
	}
}

// defaultFieldAccessor is composeField's fallback projectFunc for a field
// with no explicit resolve: the same two-step lookup the teacher's
// readField performed per request (struct field first, method otherwise),
// except the GraphQL-to-Go name conversion happens once here instead of on
// every execution. It is what lets a field declared through ParseSchema's
// SDL parser - which has no host type to reflect over at schema-build time -
// and the introspection meta-types in introspection.go, which expose their
// data only through Go methods, resolve through the same projectFunc
// pipeline as any field reflect.go derived directly.
func defaultFieldAccessor(graphQLName string, hasArgs bool) projectFunc {
	goName := graphQLToGoFieldName(graphQLName)
	method := methodAccessor(goName)
	return func(pc *projectContext, parent reflect.Value, args map[string]Value) (reflect.Value, error) {
		parent = unwrapPointer(parent)
		if !parent.IsValid() {
			return reflect.Value{}, nil
		}
		if !hasArgs && parent.Kind() == reflect.Struct {
			if fv := parent.FieldByName(goName); fv.IsValid() {
				return fv, nil
			}
		}
		return method(pc, parent, args)
	}
}
