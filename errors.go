// Copyright (C) 2024  wwhai
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, see <https://www.gnu.org/licenses/>.

package uniden

import (
	"errors"
	"fmt"
)

var (
	ErrMemoryExhausted     = errors.New("uniden: scanner memory exhausted")
	ErrProgramModeRequired = errors.New("uniden: operation requires program mode")
	ErrUnknownField        = errors.New("uniden: unknown field")
	ErrNotConnected        = errors.New("uniden: transport is not connected")
	ErrNoIndex             = errors.New("uniden: parent record is not on the scanner")
	ErrSystemType          = errors.New("uniden: operation does not fit the system type")
)

// CommandError is returned when the scanner answers a command with one of
// its error tokens (NG, ORER, FER, ERR or an empty response).
type CommandError struct {
	Command string
	Token   string
}

func (e *CommandError) Error() string {
	token := e.Token
	if token == "" {
		token = "<empty>"
	}
	return fmt.Sprintf("uniden: command %q rejected by scanner: %s", e.Command, token)
}

// HierarchyError reports a broken index chain: asymmetric links, a revisited
// index, a child that names another parent or a walk longer than the table.
type HierarchyError struct {
	Table  string
	Index  Index
	Reason string
}

func (e *HierarchyError) Error() string {
	return fmt.Sprintf("uniden: %s chain broken at index %d: %s", e.Table, e.Index, e.Reason)
}

// CodecError reports a wire or document value that could not be converted.
type CodecError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *CodecError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("uniden: cannot decode %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("uniden: field %s: cannot convert %q: %s", e.Field, e.Value, e.Reason)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// StaleRecordError is returned for any operation on a record that was deleted.
type StaleRecordError struct {
	Kind  Kind
	Index Index
}

func (e *StaleRecordError) Error() string {
	return fmt.Sprintf("uniden: %s %d was deleted", e.Kind, e.Index)
}

// IsCommandError reports whether err carries a scanner error token.
func IsCommandError(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce)
}

// IsHierarchyError reports whether err is a chain traversal failure.
func IsHierarchyError(err error) bool {
	var he *HierarchyError
	return errors.As(err, &he)
}
