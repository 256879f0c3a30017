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
)

// projectContext carries the per-request state threaded through every
// projectFunc invocation during execution of a single operation: the
// request's context.Context (for cancellation, same as the teacher's
// Server.resolve threads ctx through valueFromGo), the
// operation's coerced top-level variables, and the calling Principal.
type projectContext struct {
	ctx       context.Context
	variables map[string]Value
	principal Principal
}

// projectFunc is the Go realization of spec.md's ProjectionFragment: a
// composable closure that reads from a host object graph and returns the
// raw Go value a single selection projects, given the parent host value
// and that selection's coerced arguments.
//
// A projectFunc never performs GraphQL-level coercion itself (that is
// executor.go's projectTyped's job, once per selection, after the full
// extension chain has run) - it only ever produces the reflect.Value the
// rest of the pipeline should treat as this field's host data. This is
// deliberately the same shape as the teacher's callFieldMethod: bind.go
// composes one projectFunc per bound field (see composeField) and the
// executor calls it for every parent value.
type projectFunc func(pc *projectContext, parent reflect.Value, args map[string]Value) (reflect.Value, error)

// nullGuard wraps inner so that it is never called with an invalid
// (unwrapped-nil) parent, mirroring the nil-handling valueFromGo already
// does via unwrapPointer before attempting to read fields off a Go value.
// Every extension's GetExpression and every plain field composition wraps
// its projectFunc in nullGuard so that a nil parent anywhere in the chain
// short-circuits to a null result instead of panicking on a nil pointer
// dereference.
func nullGuard(inner projectFunc) projectFunc {
	return func(pc *projectContext, parent reflect.Value, args map[string]Value) (reflect.Value, error) {
		parent = unwrapPointer(parent)
		if !parent.IsValid() {
			return reflect.Value{}, nil
		}
		return inner(pc, parent, args)
	}
}

// buildCtx is the state threaded through binding as bind.go walks an
// operation's selections. It is passed to composeField and on to every
// fieldExtension's GetExpression so that an extension can consult the
// schema without a global. (Configure receives the *Schema directly.)
type buildCtx struct {
	schema *Schema
}

// composeField combines a field's raw resolve expression with its
// registered extensions, in registration order, producing the single
// projectFunc the executor actually calls for that field. This is the
// "expression builder" step of §4.5: extensions rewrite the closure rather
// than being consulted again at execution time.
func composeField(bc *buildCtx, field *objectTypeField) (projectFunc, error) {
	expr := field.resolve
	if expr == nil {
		// A field with no explicit resolve (an SDL-declared field from
		// ParseSchema, or a field of one of introspection.go's __Schema,
		// __Type, __Field, __InputValue or __EnumValue types) falls
		// back to the same name-based lookup the teacher's readField used:
		// a matching struct field first, a matching method otherwise.
		expr = defaultFieldAccessor(field.name, len(field.args) != 0)
	}
	expr = nullGuard(expr)
	for _, ext := range field.extensions {
		var err error
		expr, err = ext.GetExpression(bc, expr)
		if err != nil {
			return nil, wrapCompilerError(err)
		}
		expr = nullGuard(expr)
	}
	return expr, nil
}
