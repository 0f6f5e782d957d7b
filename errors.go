/*
 * errors.go, part of preparemd.
 *
 *
 * Copyright 2024 The preparemd Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package preparemd

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error. Every error in this module aborts the run, the
// kind only tells the user (and the tests) what went wrong.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindMissingFile
	KindExternalTool
	KindParse
	KindUnknownProfile
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindMissingFile:
		return "missing file"
	case KindExternalTool:
		return "external tool"
	case KindParse:
		return "parse"
	case KindUnknownProfile:
		return "unknown profile"
	}
	return "unknown"
}

// Sentinel errors. An *Error wraps exactly one of them, so callers can
// test with errors.Is.
var (
	ErrValidation          = errors.New("invalid parameter")
	ErrInvalidBox          = errors.New("invalid box")
	ErrMissingFile         = errors.New("missing file")
	ErrExternalTool        = errors.New("external tool failed")
	ErrStructureParse      = errors.New("cannot parse structure")
	ErrMalformedLog        = errors.New("malformed log")
	ErrTermNotFound        = errors.New("energy term not found")
	ErrMissingStatistic    = errors.New("missing statistic")
	ErrUnknownQueueProfile = errors.New("unknown queue profile")
	ErrUnknownForceField   = errors.New("unknown force field")
)

var sentinelKinds = map[error]Kind{
	ErrValidation:          KindValidation,
	ErrInvalidBox:          KindValidation,
	ErrMissingFile:         KindMissingFile,
	ErrExternalTool:        KindExternalTool,
	ErrStructureParse:      KindParse,
	ErrMalformedLog:        KindParse,
	ErrTermNotFound:        KindParse,
	ErrMissingStatistic:    KindParse,
	ErrUnknownQueueProfile: KindUnknownProfile,
	ErrUnknownForceField:   KindUnknownProfile,
}

// Error is the error type returned by all the packages of preparemd.
// The Decorate method allows to add the names of the functions the error
// went through, without changing its type.
type Error struct {
	sentinel error
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	cause    error
}

// NewError builds an Error of the class given by sentinel. The optional cause
// is kept so errors.Is/As also see it.
func NewError(sentinel error, filename, message string, cause error) *Error {
	return &Error{sentinel: sentinel, message: message, filename: filename, cause: cause}
}

// Errorf is NewError with a formatted message and no cause.
func Errorf(sentinel error, format string, a ...interface{}) *Error {
	return &Error{sentinel: sentinel, message: fmt.Sprintf(format, a...)}
}

func (E *Error) Error() string {
	var b strings.Builder
	b.WriteString(E.sentinel.Error())
	if E.filename != "" {
		fmt.Fprintf(&b, " (%s)", E.filename)
	}
	if E.message != "" {
		b.WriteString(": ")
		b.WriteString(E.message)
	}
	if E.cause != nil {
		b.WriteString(": ")
		b.WriteString(E.cause.Error())
	}
	return b.String()
}

// Decorate adds deco to the call trail and returns the trail. An empty deco
// just returns the current trail.
func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func (E *Error) FileName() string { return E.filename }

func (E *Error) Kind() Kind { return sentinelKinds[E.sentinel] }

// Unwrap exposes both the class sentinel and the underlying cause.
func (E *Error) Unwrap() []error {
	if E.cause == nil {
		return []error{E.sentinel}
	}
	return []error{E.sentinel, E.cause}
}

// KindOf returns the Kind of the first *Error found in err's chain,
// or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return KindUnknown
}

// errDecorate decorates err with caller if it is an *Error, and returns it
// unchanged otherwise.
func errDecorate(err error, caller string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}
