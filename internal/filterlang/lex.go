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

// Package filterlang implements the small boolean expression language the
// Filter field extension accepts as its "filter" argument: field references,
// comparisons, arithmetic, and collection method calls (where, any, count,
// orderBy, ...) evaluated against a host element with reflect. The lexer
// below is a hand-written rune-at-a-time scanner in the same style as
// internal/gqlang's, generalized from GraphQL's token set to this
// language's operator set.
package filterlang

import "fmt"

type tokenKind int

const (
	tEOF tokenKind = iota
	tIdent
	tInt
	tFloat
	tString
	tLParen
	tRParen
	tDot
	tComma
	tCaret
	tStar
	tSlash
	tPercent
	tPlus
	tMinus
	tLt
	tLe
	tGt
	tGe
	tEq
	tNe
	tAndAnd
	tOrOr
)

type token struct {
	kind   tokenKind
	source string
	pos    int
}

func (tok token) String() string {
	if tok.source == "" {
		return "<EOF>"
	}
	return tok.source
}

type lexError struct {
	pos int
	msg string
}

func (e *lexError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.pos, e.msg)
}

type lexer struct {
	input string
	pos   int
}

func lex(input string) ([]token, error) {
	l := &lexer{input: input}
	var tokens []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tEOF {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

var punctuators = []struct {
	pat  string
	kind tokenKind
}{
	{"&&", tAndAnd},
	{"||", tOrOr},
	{"<=", tLe},
	{">=", tGe},
	{"==", tEq},
	{"!=", tNe},
	{"(", tLParen},
	{")", tRParen},
	{".", tDot},
	{",", tComma},
	{"^", tCaret},
	{"*", tStar},
	{"/", tSlash},
	{"%", tPercent},
	{"+", tPlus},
	{"-", tMinus},
	{"<", tLt},
	{">", tGt},
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.input) {
		return token{kind: tEOF, pos: start}, nil
	}
	c := l.input[l.pos]
	switch {
	case isIdentStart(c):
		n := l.pos + 1
		for n < len(l.input) && isIdentPart(l.input[n]) {
			n++
		}
		tok := token{kind: tIdent, source: l.input[l.pos:n], pos: start}
		l.pos = n
		return tok, nil
	case c == '"':
		return l.lexString()
	case isDigit(c):
		return l.lexNumber()
	}
	for _, p := range punctuators {
		if hasPrefixAt(l.input, l.pos, p.pat) {
			l.pos += len(p.pat)
			return token{kind: p.kind, source: p.pat, pos: start}, nil
		}
	}
	return token{}, &lexError{pos: start, msg: fmt.Sprintf("unexpected character %q", c)}
}

func hasPrefixAt(s string, pos int, prefix string) bool {
	if pos+len(prefix) > len(s) {
		return false
	}
	return s[pos:pos+len(prefix)] == prefix
}

func (l *lexer) lexString() (token, error) {
	start := l.pos
	n := l.pos + 1
	for n < len(l.input) {
		switch l.input[n] {
		case '\\':
			n += 2
			continue
		case '"':
			tok := token{kind: tString, source: l.input[start : n+1], pos: start}
			l.pos = n + 1
			return tok, nil
		}
		n++
	}
	return token{}, &lexError{pos: start, msg: "unterminated string literal"}
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	n := l.pos
	for n < len(l.input) && isDigit(l.input[n]) {
		n++
	}
	isFloat := false
	if n+1 < len(l.input) && l.input[n] == '.' && isDigit(l.input[n+1]) {
		isFloat = true
		n += 2
		for n < len(l.input) && isDigit(l.input[n]) {
			n++
		}
	}
	if n < len(l.input) && (l.input[n] == 'e' || l.input[n] == 'E') {
		m := n + 1
		if m < len(l.input) && (l.input[m] == '+' || l.input[m] == '-') {
			m++
		}
		if m < len(l.input) && isDigit(l.input[m]) {
			isFloat = true
			n = m + 1
			for n < len(l.input) && isDigit(l.input[n]) {
				n++
			}
		}
	}
	kind := tInt
	if isFloat {
		kind = tFloat
	}
	tok := token{kind: kind, source: l.input[start:n], pos: start}
	l.pos = n
	return tok, nil
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
