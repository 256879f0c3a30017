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

	"golang.org/x/xerrors"
)

// ErrorKind classifies the errors this package can return, following the
// same "wrap with a distinguishing type, walk the chain with xerrors" idiom
// the rest of the package uses for *fieldError and *listElementError.
type ErrorKind int

// Kinds of errors a Server can produce while handling a request.
const (
	// UnknownErrorKind is the zero value, used for errors that did not
	// originate from this package's own classification (e.g. an error
	// returned directly by a host resolver method).
	UnknownErrorKind ErrorKind = iota
	// ParseErrorKind indicates the request document could not be parsed as
	// GraphQL.
	ParseErrorKind
	// CompilerErrorKind indicates the document parsed but failed validation
	// or binding against the schema: unknown fields, type mismatches,
	// malformed filter expressions, and similar errors that are independent
	// of any particular host data.
	CompilerErrorKind
	// InvalidArgumentKind indicates an argument value was syntactically
	// valid but not acceptable to the field it was passed to (for example,
	// a negative "first" argument to a paginated field).
	InvalidArgumentKind
	// InvalidCursorKind indicates a cursor argument could not be decoded.
	// A well-formed cursor that lies outside the collection is not an error;
	// the connection extension clamps it to the collection's bounds.
	InvalidCursorKind
	// UnauthorizedKind indicates the request's Principal lacked the
	// authorization required to read a field.
	UnauthorizedKind
	// ExecutionErrorKind indicates a host resolver returned an error while
	// producing a field's value.
	ExecutionErrorKind
	// CancelledKind indicates the request's context was cancelled or timed
	// out before execution completed.
	CancelledKind
)

// String returns the wire prefix used by toResponseError, e.g.
// "invalid argument".
func (k ErrorKind) String() string {
	switch k {
	case ParseErrorKind:
		return "parse error"
	case CompilerErrorKind:
		return "compiler error"
	case InvalidArgumentKind:
		return "invalid argument"
	case InvalidCursorKind:
		return "invalid cursor"
	case UnauthorizedKind:
		return "unauthorized"
	case ExecutionErrorKind:
		return "execution error"
	case CancelledKind:
		return "cancelled"
	default:
		return "error"
	}
}

// kindError is the common representation for every classified error this
// package returns. It is never exported directly; callers observe the kind
// through the Kind function.
type kindError struct {
	kind ErrorKind
	err  error
}

func (e *kindError) Error() string {
	return e.kind.String() + ": " + e.err.Error()
}

func (e *kindError) Unwrap() error {
	return e.err
}

func newParseError(err error) error {
	return &kindError{kind: ParseErrorKind, err: err}
}

func newCompilerError(format string, args ...interface{}) error {
	return &kindError{kind: CompilerErrorKind, err: xerrors.Errorf(format, args...)}
}

func wrapCompilerError(err error) error {
	return &kindError{kind: CompilerErrorKind, err: err}
}

func newInvalidArgumentError(format string, args ...interface{}) error {
	return &kindError{kind: InvalidArgumentKind, err: xerrors.Errorf(format, args...)}
}

func newInvalidCursorError(format string, args ...interface{}) error {
	return &kindError{kind: InvalidCursorKind, err: xerrors.Errorf(format, args...)}
}

func newUnauthorizedError(format string, args ...interface{}) error {
	return &kindError{kind: UnauthorizedKind, err: xerrors.Errorf(format, args...)}
}

func newExecutionError(err error) error {
	return &kindError{kind: ExecutionErrorKind, err: err}
}

func newCancelledError(err error) error {
	return &kindError{kind: CancelledKind, err: err}
}

// checkContext converts ctx.Err() into a CancelledKind error if the context
// has been cancelled or has exceeded its deadline.
func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return newCancelledError(err)
	}
	return nil
}

// Kind returns the ErrorKind classification of err, walking the xerrors
// chain the same way toResponseError does. It returns UnknownErrorKind if
// err (or anything it wraps) was not produced by this package's
// classification helpers above.
func Kind(err error) ErrorKind {
	var ke *kindError
	if xerrors.As(err, &ke) {
		return ke.kind
	}
	return UnknownErrorKind
}
