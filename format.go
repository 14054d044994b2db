package serial

import (
	"io"
)

// Format is a named text serialization scheme.
type Format interface {
	// Names returns the short names of the format; the first is canonical (e.g., "yaml").
	Names() []string

	// ContentTypes returns the MIME types of the format; the first is canonical
	// (e.g., "application/json").
	ContentTypes() []string

	// Extensions returns the file extensions of the format, without the leading dot.
	Extensions() []string

	// Serialize encodes v as text.
	Serialize(v any) (string, error)

	// Parse decodes a single document from r into target, which must be a non-nil pointer.
	Parse(r io.Reader, target any) error

	// ParseList decodes a sequence document from r into target, which must be
	// a non-nil pointer to a slice.
	ParseList(r io.Reader, target any) error
}

// Map is the generic key-value shape used when the caller does not name a type.
type Map = map[string]any

// canonicalName returns the first declared name of f.
func canonicalName(f Format) string {
	if names := f.Names(); len(names) > 0 {
		return names[0]
	}
	return ""
}

// canonicalContentType returns the first declared MIME type of f.
func canonicalContentType(f Format) string {
	if types := f.ContentTypes(); len(types) > 0 {
		return types[0]
	}
	return ""
}
