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

// authExtension copies a static set of authorization requirements onto a
// field at schema-build time. It does not need to rewrite the field's
// projectFunc itself: executor.go's executeSelection consults
// field.requiredAuth directly, before calling the composed projection, for
// every field regardless of whether its requirements came from RequireAuth
// or from a `graphql:"auth=..."` struct tag (reflect.go). GetExpression is
// therefore a pass-through; Configure is the whole extension.
type authExtension struct {
	required []string
}

// RequireAuth returns a fieldExtension that adds names to a field's
// required-authorization set, in addition to any the Host Type Reflector
// already populated from a `graphql:"auth=..."` struct tag.
func RequireAuth(names ...string) fieldExtension {
	return &authExtension{required: append([]string(nil), names...)}
}

func (ext *authExtension) Configure(schema *Schema, field *objectTypeField) error {
	field.requiredAuth = append(field.requiredAuth, ext.required...)
	return nil
}

func (ext *authExtension) GetExpression(bc *buildCtx, current projectFunc) (projectFunc, error) {
	return current, nil
}
