package serial

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnknownFormat indicates a name, MIME type or extension has no registered format.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrParse indicates input text does not conform to the format's grammar
	// or cannot be materialized into the requested shape.
	ErrParse = errors.New("parse failed")

	// ErrSerialize indicates a value cannot be represented in the target format.
	ErrSerialize = errors.New("serialize failed")

	// ErrConfiguration indicates an invalid registry setup, such as two
	// formats claiming the same name.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrConvert indicates a value could not be reshaped between a generic
	// mapping and a typed value.
	ErrConvert = errors.New("convert failed")
)

// errEmptyDocument is the ParseError cause for blank input.
var errEmptyDocument = errors.New("empty document")

// Lookup kinds reported by FormatError.
const (
	LookupName      = "name"
	LookupMIMEType  = "mime type"
	LookupExtension = "extension"
)

// FormatError reports a failed format lookup.
type FormatError struct {
	Kind  string // LookupName, LookupMIMEType or LookupExtension
	Value string // the name, MIME type or extension that did not resolve
}

func (e *FormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: empty %s", ErrUnknownFormat.Error(), e.Kind)
	}
	return fmt.Sprintf("%s for %s %q", ErrUnknownFormat.Error(), e.Kind, e.Value)
}

func (e *FormatError) Unwrap() error {
	return ErrUnknownFormat
}

// ParseError represents malformed input.
// Line and Column are 1-based and zero when the location is unknown.
type ParseError struct {
	Format string // canonical name of the format that failed
	Line   int
	Column int
	Cause  error // original error from the underlying library
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Format, ErrParse.Error())
	switch {
	case e.Line > 0 && e.Column > 0:
		msg = fmt.Sprintf("%s at line %d, column %d", msg, e.Line, e.Column)
	case e.Line > 0:
		msg = fmt.Sprintf("%s at line %d", msg, e.Line)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// SerializeError represents a value that could not be written.
type SerializeError struct {
	Format string
	Cause  error
}

func (e *SerializeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Format, ErrSerialize.Error(), e.Cause)
	}
	return fmt.Sprintf("%s %s", e.Format, ErrSerialize.Error())
}

func (e *SerializeError) Unwrap() error {
	return ErrSerialize
}

// ConfigError represents a registry configuration error.
type ConfigError struct {
	Format string // canonical name of the format being registered
	Name   string // name, MIME type or extension that collided
	Owner  string // canonical name of the format already holding Name
	Reason string // set when the failure is not about a particular name
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration.Error(), e.Reason)
	}
	if e.Name == "" && e.Format == "" {
		return fmt.Sprintf("%s: no formats registered", ErrConfiguration.Error())
	}
	if e.Name == "" {
		return fmt.Sprintf("%s: format %q declares no name", ErrConfiguration.Error(), e.Format)
	}
	if e.Owner == "" {
		return fmt.Sprintf("%s: %q is not a registered format", ErrConfiguration.Error(), e.Name)
	}
	return fmt.Sprintf("%s: %q of format %q already registered by %q",
		ErrConfiguration.Error(), e.Name, e.Format, e.Owner)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// ConvertError represents a failed reshape between a mapping and a typed value.
type ConvertError struct {
	Type  string // target type name
	Cause error
}

func (e *ConvertError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s to %s: %v", ErrConvert.Error(), e.Type, e.Cause)
	}
	return fmt.Sprintf("%s to %s", ErrConvert.Error(), e.Type)
}

func (e *ConvertError) Unwrap() error {
	return ErrConvert
}

// StatusError reports a non-success HTTP response while fetching a URL source.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// newFormatError creates a FormatError for a failed lookup.
func newFormatError(kind, value string) error {
	return &FormatError{Kind: kind, Value: value}
}

// newSerializeError creates a SerializeError for marshal failures.
func newSerializeError(format string, cause error) error {
	return &SerializeError{Format: format, Cause: cause}
}

// newConvertError creates a ConvertError for reshape failures.
func newConvertError(typeName string, cause error) error {
	return &ConvertError{Type: typeName, Cause: cause}
}
