// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

package survey

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a conversion run was aborted.
type ErrorKind int

const (
	// ErrorKindUnknown unclassified failure.
	ErrorKindUnknown ErrorKind = iota
	// ErrorKindConfig invalid user supplied configuration.
	ErrorKindConfig
	// ErrorKindStructure the document lacks the expected placemark structure.
	ErrorKindStructure
	// ErrorKindFormat unreadable container or XML.
	ErrorKindFormat
	// ErrorKindData a record lacks a value a later stage requires.
	ErrorKindData
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindConfig:
		return "config"
	case ErrorKindStructure:
		return "structure"
	case ErrorKindFormat:
		return "format"
	case ErrorKindData:
		return "data"
	default:
		return "unknown"
	}
}

// Error is the single error type surfaced by every stage of a conversion.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ConfigError builds an ErrorKindConfig error.
func ConfigError(err error, format string, args ...any) *Error {
	return &Error{Kind: ErrorKindConfig, Message: fmt.Sprintf(format, args...), Err: err}
}

// StructureError builds an ErrorKindStructure error.
func StructureError(err error, format string, args ...any) *Error {
	return &Error{Kind: ErrorKindStructure, Message: fmt.Sprintf(format, args...), Err: err}
}

// FormatError builds an ErrorKindFormat error.
func FormatError(err error, format string, args ...any) *Error {
	return &Error{Kind: ErrorKindFormat, Message: fmt.Sprintf(format, args...), Err: err}
}

// DataError builds an ErrorKindData error.
func DataError(err error, format string, args ...any) *Error {
	return &Error{Kind: ErrorKindData, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ErrorKindUnknown
}

// IsConfigError reports whether err was caused by invalid configuration.
func IsConfigError(err error) bool {
	return KindOf(err) == ErrorKindConfig
}

// IsStructureError reports whether err was caused by an unexpected document structure.
func IsStructureError(err error) bool {
	return KindOf(err) == ErrorKindStructure
}

// IsFormatError reports whether err was caused by an unreadable container.
func IsFormatError(err error) bool {
	return KindOf(err) == ErrorKindFormat
}

// IsDataError reports whether err was caused by a missing reading.
func IsDataError(err error) bool {
	return KindOf(err) == ErrorKindData
}
