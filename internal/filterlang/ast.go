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

package filterlang

// Expr is a node in a parsed filter expression.
type Expr interface {
	isExpr()
}

// Literal is a boolean, integer, float, string, or null constant.
type Literal struct {
	Kind  LiteralKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

// LiteralKind distinguishes the possible shapes a Literal can hold.
type LiteralKind int

const (
	BoolLiteral LiteralKind = iota
	IntLiteral
	FloatLiteral
	StringLiteral
	NullLiteral
)

// Member is a field access, resolved against Recv's value at evaluation
// time (or against the current element, when Recv is nil, which is how a
// bare identifier parses). Chaining Member nodes realizes dotted paths
// ("a.b.c") as well as field access off a collection method's result
// ("tasks.first().name").
type Member struct {
	Recv Expr
	Name string
}

// Call is a collection method invocation on Recv, e.g. "tasks.where(...)".
type Call struct {
	Recv   Expr
	Method string
	Args   []Expr
}

// Unary is a prefix operator applied to X. Op is "-".
type Unary struct {
	Op string
	X  Expr
}

// Binary is an infix operator applied to X and Y. Op is one of "^", "*",
// "/", "%", "+", "-", "<", "<=", ">", ">=", "==", "!=", "&&", "||".
type Binary struct {
	Op string
	X  Expr
	Y  Expr
}

func (*Literal) isExpr() {}
func (*Member) isExpr()  {}
func (*Call) isExpr()    {}
func (*Unary) isExpr()   {}
func (*Binary) isExpr()  {}

// collectionMethods are the method names §6 permits on a collection-typed
// path; every other name in a Call is rejected at parse time.
var collectionMethods = map[string]bool{
	"where":      true,
	"filter":     true,
	"any":        true,
	"first":      true,
	"last":       true,
	"take":       true,
	"skip":       true,
	"count":      true,
	"orderBy":    true,
	"orderByDesc": true,
}
