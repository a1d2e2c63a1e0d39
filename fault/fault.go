/*
Copyright 2024 The RedwoodJS Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package fault defines the error kinds that end a quickstart run.
package fault

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Kind classifies a fatal condition.
type Kind string

const (
	NotFound              Kind = "not_found"
	AmbiguousInstallation Kind = "ambiguous_installation"
	MultipleInstallations Kind = "multiple_installations"
	VersionTooOld         Kind = "version_too_old"
	ParseError            Kind = "parse_error"
	ReadError             Kind = "read_error"
	WriteError            Kind = "write_error"
	CanonicalizationError Kind = "canonicalization_error"
	SubprocessFailure     Kind = "subprocess_failure"

	// Orchestration collaborators.
	Usage        Kind = "usage"
	Network      Kind = "network"
	ExtractError Kind = "extract_error"
)

// Error is the error type returned by every quickstart component.
type Error struct {
	Kind  Kind
	Msg   string
	Hint  []string // extra lines printed under Msg
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error of the given kind.
func New(kind Kind, msg string, hint ...string) error {
	return &Error{Kind: kind, Msg: msg, Hint: hint}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around cause.
func Wrap(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// KindOf returns the kind of the first Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ExitCode maps err to the process exit code. Every fault is terminal.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Print writes err and its hint lines to w.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	color.New(color.FgRed).Fprintln(w, err.Error())
	var fe *Error
	if errors.As(err, &fe) {
		for _, line := range fe.Hint {
			fmt.Fprintln(w, line)
		}
	}
}
