package serial

import (
	"bytes"
	"io"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

// jsonFormat implements Format for JSON.
type jsonFormat struct {
	mapper *Mapper
}

// JSON returns the JSON format backed by mapper.
func JSON(mapper *Mapper) Format {
	return &jsonFormat{mapper: mapper}
}

func (f *jsonFormat) Names() []string { return []string{"json"} }

func (f *jsonFormat) ContentTypes() []string {
	return []string{"application/json", "text/json"}
}

func (f *jsonFormat) Extensions() []string { return []string{"json"} }

// Serialize encodes v as JSON.
func (f *jsonFormat) Serialize(v any) (string, error) {
	data, err := f.mapper.Marshal(v)
	if err != nil {
		return "", newSerializeError("json", err)
	}
	return string(data), nil
}

// Parse decodes JSON from r into target.
func (f *jsonFormat) Parse(r io.Reader, target any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if firstByte(data) == 0 {
		return &ParseError{Format: "json", Cause: errEmptyDocument}
	}
	if err := f.mapper.Unmarshal(data, target); err != nil {
		return jsonParseError(data, err)
	}
	return nil
}

// ParseList decodes a JSON array from r into target.
func (f *jsonFormat) ParseList(r io.Reader, target any) error {
	slice, err := slicePointer(target)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	switch first := firstByte(data); {
	case first == 0:
		return &ParseError{Format: "json", Cause: errEmptyDocument}
	case first == 'n' && !isNull(data):
		return &ParseError{Format: "json", Cause: errors.New("expected a sequence or null")}
	case first != '[' && first != 'n':
		return &ParseError{Format: "json", Cause: errors.Newf("expected a sequence, found %q", first)}
	}
	if err := f.mapper.Unmarshal(data, target); err != nil {
		return jsonParseError(data, err)
	}
	ensureSlice(slice)
	return nil
}

// jsonParseError locates a decoder error within data.
func jsonParseError(data []byte, cause error) error {
	pe := &ParseError{Format: "json", Cause: cause}
	var offset int64 = -1
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(cause, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(cause, &typeErr):
		offset = typeErr.Offset
	}
	if offset >= 0 {
		pe.Line, pe.Column = position(data, offset)
	}
	return pe
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, column int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	head := data[:offset]
	line = bytes.Count(head, []byte{'\n'}) + 1
	column = int(offset) - (bytes.LastIndexByte(head, '\n') + 1)
	if column == 0 {
		column = 1
	}
	return line, column
}

// firstByte returns the first non-whitespace byte of data, or 0.
func firstByte(data []byte) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// isNull reports whether data holds only the JSON literal null.
func isNull(data []byte) bool {
	return bytes.Equal(bytes.Trim(data, " \t\r\n\ufeff"), []byte("null"))
}

// slicePointer checks that target is a non-nil pointer to a slice.
func slicePointer(target any) (reflect.Value, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return reflect.Value{}, errors.Newf("list target must be a non-nil pointer to a slice, got %T", target)
	}
	return rv.Elem(), nil
}

// ensureSlice replaces a nil slice with an empty one.
func ensureSlice(slice reflect.Value) {
	if slice.IsNil() {
		slice.Set(reflect.MakeSlice(slice.Type(), 0, 0))
	}
}
