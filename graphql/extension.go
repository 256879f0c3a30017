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

// fieldExtension is the Field Extension Pipeline's unit of composition
// (§4.6): a schema-build-time rewrite of a field's projectFunc. Filtering,
// sorting, offset paging, cursor paging, and authorization are all
// implemented as fieldExtensions registered on an objectTypeField in the
// order they should apply; SchemaBuilder.AddField runs Configure once per
// extension at schema-build time, and composeField (project.go) runs
// GetExpression once per extension to assemble the field's final
// projectFunc.
type fieldExtension interface {
	// Configure is called once, when the extension is attached to a
	// field, so it can validate and adjust the field's declaration (for
	// example, the connection extension adds the "first"/"after"
	// arguments and rewrites the field's declared type to the Connection
	// wrapper type). Configure may inspect and mutate field in place, and
	// may consult schema to look up or register auxiliary types.
	Configure(schema *Schema, field *objectTypeField) error

	// GetExpression wraps current, the projectFunc assembled so far from
	// extensions earlier in the pipeline (or the field's raw resolve
	// expression, for the first extension), returning the projectFunc
	// that should run in its place. Extensions that change collection
	// shape (filter, sort, paging) typically call current and then
	// transform the reflect.Value it returns; the authorization extension
	// returns current unchanged, since the executor checks the field's
	// required authorizations before calling it.
	GetExpression(bc *buildCtx, current projectFunc) (projectFunc, error)
}

// wrapElementError classifies an error raised while evaluating a
// collection-extension's per-element logic (a filter predicate, a sort
// key) against actual host data. Errors already classified by this
// package - including asCollection's own ExecutionErrorKind for a
// non-collection host value - pass through unchanged; anything else (a
// filterlang evaluation failure against a particular element) is
// host-data-dependent and so is reported as ExecutionErrorKind too,
// matching errors.go's "a host resolver returned an error" description.
func wrapElementError(err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != UnknownErrorKind {
		return err
	}
	return newExecutionError(err)
}
