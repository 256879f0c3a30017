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

/*
Package graphql provides a GraphQL execution engine. During execution, a GraphQL
server transforms requests into Go method calls and struct field accesses. This
package follows the specification laid out at https://graphql.github.io/graphql-spec/June2018/

For the common case where you are serving GraphQL over HTTP, see the graphqlhttp
package in this module.

Methods

Field methods must have the following signature (with square brackets
indicating optional elements):

	func (foo *Foo) Bar([ctx context.Context,] [args map[string]graphql.Value]) (ResultType[, error])

The ctx parameter will have a Context deriving from the one passed to Execute.
The args parameter will be a map filled with the arguments passed to the field.
A method never needs to know which of its result's own fields the request
selected: the compiled projection for each subfield is applied afterward,
regardless of what this method returns.

Scalars

Go values will be converted to scalars in the result by trying the following
in order:

	1) Call a method named IsGraphQLNull if present. If it returns true, then
	convert to null.

	2) Use the encoding.TextMarshaler interface if present.

	3) Examine the Go type and GraphQL types and attempt coercion.
*/
package graphql
