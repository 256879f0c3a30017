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

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
)

// Predicate is a compiled filter expression, ready to be evaluated once per
// element of a host collection.
type Predicate struct {
	expr Expr
}

// Compile parses source and returns a Predicate over it. The filter
// extension (graphql/filter_ext.go) calls this once per request, against
// whatever string the caller supplied for the field's "filter" argument.
func Compile(source string) (*Predicate, error) {
	expr, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return &Predicate{expr: expr}, nil
}

// Match evaluates the predicate against elem, a single element of the
// collection being filtered.
func (p *Predicate) Match(elem reflect.Value) (bool, error) {
	v, err := eval(p.expr, elem)
	if err != nil {
		return false, err
	}
	return asBool(v)
}

// KeyExpr is a compiled sort key expression: a single field path (or more
// generally, any filter-language expression) evaluated once per element to
// produce the value two elements are compared by.
type KeyExpr struct {
	expr Expr
}

// CompileKey parses source as a sort key expression, e.g. "name" or
// "project.name".
func CompileKey(source string) (*KeyExpr, error) {
	expr, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return &KeyExpr{expr: expr}, nil
}

// Less reports whether a sorts before b under the key expression.
func (k *KeyExpr) Less(a, b reflect.Value) (bool, error) {
	av, err := eval(k.expr, a)
	if err != nil {
		return false, err
	}
	bv, err := eval(k.expr, b)
	if err != nil {
		return false, err
	}
	c, err := compareValues(av, bv)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

// value is the dynamic result of evaluating an Expr: exactly one of a bool,
// an int64, a float64, a string, null, a collection (rv holds a slice or
// array), or a raw struct-ish reflect.Value awaiting further Member access
// (the result of a bare field or of first()/last()).
type value struct {
	kind byte // 'b', 'i', 'f', 's', 'n' (null), 'c' (collection), 'r' (raw)
	b    bool
	i    int64
	f    float64
	s    string
	rv   reflect.Value
}

func eval(expr Expr, elem reflect.Value) (value, error) {
	switch e := expr.(type) {
	case *Literal:
		return literalValue(e), nil
	case *Member:
		return evalMember(e, elem)
	case *Unary:
		return evalUnary(e, elem)
	case *Binary:
		return evalBinary(e, elem)
	case *Call:
		return evalCall(e, elem)
	default:
		return value{}, fmt.Errorf("filterlang: unhandled expression node %T", expr)
	}
}

func literalValue(e *Literal) value {
	switch e.Kind {
	case BoolLiteral:
		return value{kind: 'b', b: e.Bool}
	case IntLiteral:
		return value{kind: 'i', i: e.Int}
	case FloatLiteral:
		return value{kind: 'f', f: e.Float}
	case StringLiteral:
		return value{kind: 's', s: e.Str}
	default:
		return value{kind: 'n'}
	}
}

func evalMember(e *Member, elem reflect.Value) (value, error) {
	var base reflect.Value
	if e.Recv == nil {
		base = elem
	} else {
		v, err := eval(e.Recv, elem)
		if err != nil {
			return value{}, err
		}
		if v.kind == 'n' {
			return value{kind: 'n'}, nil
		}
		if v.kind != 'r' {
			return value{}, fmt.Errorf("filterlang: field %q: value has no fields", e.Name)
		}
		base = v.rv
	}
	base = deref(base)
	if !base.IsValid() {
		return value{kind: 'n'}, nil
	}
	if base.Kind() != reflect.Struct {
		return value{}, fmt.Errorf("filterlang: field %q: %v is not a struct", e.Name, base.Type())
	}
	f, ok := resolveField(base, e.Name)
	if !ok {
		return value{}, fmt.Errorf("filterlang: unknown field %q on %v", e.Name, base.Type())
	}
	return reflectToValue(f), nil
}

func evalUnary(e *Unary, elem reflect.Value) (value, error) {
	x, err := eval(e.X, elem)
	if err != nil {
		return value{}, err
	}
	if e.Op != "-" {
		return value{}, fmt.Errorf("filterlang: unsupported unary operator %q", e.Op)
	}
	switch x.kind {
	case 'i':
		return value{kind: 'i', i: -x.i}, nil
	case 'f':
		return value{kind: 'f', f: -x.f}, nil
	default:
		return value{}, fmt.Errorf("filterlang: unary - requires a number")
	}
}

func evalBinary(e *Binary, elem reflect.Value) (value, error) {
	switch e.Op {
	case "&&":
		x, err := evalBoolOn(e.X, elem)
		if err != nil || !x {
			return value{kind: 'b', b: false}, err
		}
		y, err := evalBoolOn(e.Y, elem)
		return value{kind: 'b', b: y}, err
	case "||":
		x, err := evalBoolOn(e.X, elem)
		if err != nil {
			return value{}, err
		}
		if x {
			return value{kind: 'b', b: true}, nil
		}
		y, err := evalBoolOn(e.Y, elem)
		return value{kind: 'b', b: y}, err
	}

	x, err := eval(e.X, elem)
	if err != nil {
		return value{}, err
	}
	y, err := eval(e.Y, elem)
	if err != nil {
		return value{}, err
	}
	switch e.Op {
	case "==":
		return value{kind: 'b', b: valuesEqual(x, y)}, nil
	case "!=":
		return value{kind: 'b', b: !valuesEqual(x, y)}, nil
	case "<", "<=", ">", ">=":
		c, err := compareValues(x, y)
		if err != nil {
			return value{}, err
		}
		switch e.Op {
		case "<":
			return value{kind: 'b', b: c < 0}, nil
		case "<=":
			return value{kind: 'b', b: c <= 0}, nil
		case ">":
			return value{kind: 'b', b: c > 0}, nil
		default:
			return value{kind: 'b', b: c >= 0}, nil
		}
	case "^":
		if !isNumeric(x) || !isNumeric(y) {
			return value{}, fmt.Errorf("filterlang: ^ requires numeric operands")
		}
		return value{kind: 'f', f: math.Pow(numAsFloat(x), numAsFloat(y))}, nil
	case "+", "-", "*", "%", "/":
		return arith(e.Op, x, y)
	default:
		return value{}, fmt.Errorf("filterlang: unsupported operator %q", e.Op)
	}
}

func evalBoolOn(expr Expr, elem reflect.Value) (bool, error) {
	v, err := eval(expr, elem)
	if err != nil {
		return false, err
	}
	return asBool(v)
}

func asBool(v value) (bool, error) {
	if v.kind != 'b' {
		return false, fmt.Errorf("filterlang: expected a boolean result, got %s", kindName(v.kind))
	}
	return v.b, nil
}

func kindName(k byte) string {
	switch k {
	case 'i', 'f':
		return "number"
	case 's':
		return "string"
	case 'n':
		return "null"
	case 'c':
		return "collection"
	case 'r':
		return "record"
	default:
		return "boolean"
	}
}

func isNumeric(v value) bool {
	return v.kind == 'i' || v.kind == 'f'
}

func numAsFloat(v value) float64 {
	if v.kind == 'i' {
		return float64(v.i)
	}
	return v.f
}

func arith(op string, x, y value) (value, error) {
	if !isNumeric(x) || !isNumeric(y) {
		return value{}, fmt.Errorf("filterlang: operator %q requires numeric operands", op)
	}
	bothInt := x.kind == 'i' && y.kind == 'i'
	switch op {
	case "+":
		if bothInt {
			return value{kind: 'i', i: x.i + y.i}, nil
		}
		return value{kind: 'f', f: numAsFloat(x) + numAsFloat(y)}, nil
	case "-":
		if bothInt {
			return value{kind: 'i', i: x.i - y.i}, nil
		}
		return value{kind: 'f', f: numAsFloat(x) - numAsFloat(y)}, nil
	case "*":
		if bothInt {
			return value{kind: 'i', i: x.i * y.i}, nil
		}
		return value{kind: 'f', f: numAsFloat(x) * numAsFloat(y)}, nil
	case "%":
		if bothInt {
			if y.i == 0 {
				return value{}, fmt.Errorf("filterlang: modulo by zero")
			}
			return value{kind: 'i', i: x.i % y.i}, nil
		}
		return value{kind: 'f', f: math.Mod(numAsFloat(x), numAsFloat(y))}, nil
	case "/":
		return value{kind: 'f', f: numAsFloat(x) / numAsFloat(y)}, nil
	default:
		return value{}, fmt.Errorf("filterlang: unsupported operator %q", op)
	}
}

func valuesEqual(a, b value) bool {
	if a.kind == 'n' || b.kind == 'n' {
		return a.kind == 'n' && b.kind == 'n'
	}
	if isNumeric(a) && isNumeric(b) {
		return numAsFloat(a) == numAsFloat(b)
	}
	if a.kind == 's' && b.kind == 's' {
		return a.s == b.s
	}
	if a.kind == 'b' && b.kind == 'b' {
		return a.b == b.b
	}
	return false
}

func compareValues(a, b value) (int, error) {
	switch {
	case isNumeric(a) && isNumeric(b):
		af, bf := numAsFloat(a), numAsFloat(b)
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	case a.kind == 's' && b.kind == 's':
		return strings.Compare(a.s, b.s), nil
	default:
		return 0, fmt.Errorf("filterlang: cannot compare %s and %s", kindName(a.kind), kindName(b.kind))
	}
}

// evalCall evaluates a collection method invocation. A null receiver
// (a nil slice field, or a dotted path through a nil pointer) behaves as an
// empty collection rather than an error, the same null-propagation idiom
// project.go's nullGuard applies to ordinary field projection.
func evalCall(e *Call, elem reflect.Value) (value, error) {
	recv, err := eval(e.Recv, elem)
	if err != nil {
		return value{}, err
	}
	if recv.kind == 'n' {
		switch e.Method {
		case "count":
			return value{kind: 'i'}, nil
		case "any":
			return value{kind: 'b'}, nil
		case "first", "last":
			return value{kind: 'n'}, nil
		default:
			return value{kind: 'n'}, nil
		}
	}
	if recv.kind != 'c' {
		return value{}, fmt.Errorf("filterlang: %s: receiver is not a collection", e.Method)
	}
	coll := recv.rv

	switch e.Method {
	case "where", "filter":
		if len(e.Args) != 1 {
			return value{}, fmt.Errorf("filterlang: %s: expected 1 argument", e.Method)
		}
		out, err := filterColl(coll, e.Args[0])
		if err != nil {
			return value{}, err
		}
		return value{kind: 'c', rv: out}, nil
	case "any":
		if len(e.Args) == 0 {
			return value{kind: 'b', b: coll.Len() > 0}, nil
		}
		ok, err := anyColl(coll, e.Args[0])
		if err != nil {
			return value{}, err
		}
		return value{kind: 'b', b: ok}, nil
	case "first":
		idx, err := firstIndex(coll, e.Args, false)
		if err != nil {
			return value{}, err
		}
		if idx < 0 {
			return value{kind: 'n'}, nil
		}
		return value{kind: 'r', rv: coll.Index(idx)}, nil
	case "last":
		idx, err := firstIndex(coll, e.Args, true)
		if err != nil {
			return value{}, err
		}
		if idx < 0 {
			return value{kind: 'n'}, nil
		}
		return value{kind: 'r', rv: coll.Index(idx)}, nil
	case "take":
		n, err := intArg(e.Args, elem)
		if err != nil {
			return value{}, err
		}
		return value{kind: 'c', rv: clampSlice(coll, 0, n)}, nil
	case "skip":
		n, err := intArg(e.Args, elem)
		if err != nil {
			return value{}, err
		}
		return value{kind: 'c', rv: clampSlice(coll, n, coll.Len())}, nil
	case "count":
		if len(e.Args) == 0 {
			return value{kind: 'i', i: int64(coll.Len())}, nil
		}
		n, err := countColl(coll, e.Args[0])
		if err != nil {
			return value{}, err
		}
		return value{kind: 'i', i: int64(n)}, nil
	case "orderBy":
		if len(e.Args) != 1 {
			return value{}, fmt.Errorf("filterlang: orderBy: expected 1 argument")
		}
		out, err := orderByColl(coll, e.Args[0], false)
		if err != nil {
			return value{}, err
		}
		return value{kind: 'c', rv: out}, nil
	case "orderByDesc":
		if len(e.Args) != 1 {
			return value{}, fmt.Errorf("filterlang: orderByDesc: expected 1 argument")
		}
		out, err := orderByColl(coll, e.Args[0], true)
		if err != nil {
			return value{}, err
		}
		return value{kind: 'c', rv: out}, nil
	default:
		return value{}, fmt.Errorf("filterlang: unknown collection method %q", e.Method)
	}
}

func filterColl(coll reflect.Value, pred Expr) (reflect.Value, error) {
	out := reflect.MakeSlice(coll.Type(), 0, coll.Len())
	for i := 0; i < coll.Len(); i++ {
		ok, err := evalBoolOn(pred, coll.Index(i))
		if err != nil {
			return reflect.Value{}, err
		}
		if ok {
			out = reflect.Append(out, coll.Index(i))
		}
	}
	return out, nil
}

func anyColl(coll reflect.Value, pred Expr) (bool, error) {
	for i := 0; i < coll.Len(); i++ {
		ok, err := evalBoolOn(pred, coll.Index(i))
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func countColl(coll reflect.Value, pred Expr) (int, error) {
	n := 0
	for i := 0; i < coll.Len(); i++ {
		ok, err := evalBoolOn(pred, coll.Index(i))
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// firstIndex returns the index of the first (or, if fromEnd, last) element
// matching pred, or -1 if none matches. A nil pred matches every element,
// so an empty args list yields the first/last element of coll.
func firstIndex(coll reflect.Value, args []Expr, fromEnd bool) (int, error) {
	var pred Expr
	if len(args) > 0 {
		pred = args[0]
	}
	if fromEnd {
		for i := coll.Len() - 1; i >= 0; i-- {
			if pred == nil {
				return i, nil
			}
			ok, err := evalBoolOn(pred, coll.Index(i))
			if err != nil {
				return -1, err
			}
			if ok {
				return i, nil
			}
		}
		return -1, nil
	}
	for i := 0; i < coll.Len(); i++ {
		if pred == nil {
			return i, nil
		}
		ok, err := evalBoolOn(pred, coll.Index(i))
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

func intArg(args []Expr, elem reflect.Value) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("filterlang: expected 1 integer argument")
	}
	v, err := eval(args[0], elem)
	if err != nil {
		return 0, err
	}
	if !isNumeric(v) {
		return 0, fmt.Errorf("filterlang: expected a numeric argument")
	}
	return int(numAsFloat(v)), nil
}

func clampSlice(coll reflect.Value, start, end int) reflect.Value {
	if start < 0 {
		start = 0
	}
	if end > coll.Len() {
		end = coll.Len()
	}
	if start > end {
		start = end
	}
	return coll.Slice(start, end)
}

// orderByColl evaluates keyExpr once per element of coll (in the element's
// own scope, so "orderBy(age)" resolves age against each item rather than
// the enclosing element) and returns a stably-sorted copy.
func orderByColl(coll reflect.Value, keyExpr Expr, desc bool) (reflect.Value, error) {
	n := coll.Len()
	out := reflect.MakeSlice(coll.Type(), n, n)
	reflect.Copy(out, coll)
	keys := make([]value, n)
	for i := 0; i < n; i++ {
		k, err := eval(keyExpr, out.Index(i))
		if err != nil {
			return reflect.Value{}, err
		}
		keys[i] = k
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	var sortErr error
	sort.SliceStable(idx, func(a, b int) bool {
		if sortErr != nil {
			return false
		}
		c, err := compareValues(keys[idx[a]], keys[idx[b]])
		if err != nil {
			sortErr = err
			return false
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	if sortErr != nil {
		return reflect.Value{}, sortErr
	}
	sorted := reflect.MakeSlice(coll.Type(), n, n)
	for i, j := range idx {
		sorted.Index(i).Set(out.Index(j))
	}
	return sorted, nil
}

func reflectToValue(rv reflect.Value) value {
	rv = deref(rv)
	if !rv.IsValid() {
		return value{kind: 'n'}
	}
	switch rv.Kind() {
	case reflect.Bool:
		return value{kind: 'b', b: rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value{kind: 'i', i: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value{kind: 'i', i: int64(rv.Uint())}
	case reflect.Float32, reflect.Float64:
		return value{kind: 'f', f: rv.Float()}
	case reflect.String:
		return value{kind: 's', s: rv.String()}
	case reflect.Slice, reflect.Array:
		return value{kind: 'c', rv: rv}
	default:
		return value{kind: 'r', rv: rv}
	}
}

func deref(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// resolveField looks up name against base's exported fields, converting
// each Go field name to its GraphQL camelCase form with the same rule
// reflect.go's goToGraphQLFieldName applies, so a filter expression can use
// the same field names the GraphQL schema advertises.
func resolveField(base reflect.Value, name string) (reflect.Value, bool) {
	t := base.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		if graphQLFieldName(sf.Name) == name {
			return base.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func graphQLFieldName(name string) string {
	if name == "" {
		return name
	}
	i := 0
	for i < len(name) && 'A' <= name[i] && name[i] <= 'Z' {
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
