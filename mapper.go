package serial

import (
	"bytes"
	"encoding"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

// errCycle is returned when a value graph refers back to itself.
var errCycle = errors.New("encountered a cycle")

// Mapper converts between Go values and the generic JSON data model.
// Every format shares one Mapper, so field naming follows `json` struct tags
// regardless of the text syntax being produced.
//
// A Mapper is immutable after construction and safe for concurrent use.
type Mapper struct {
	escapeHTML bool
	indent     string
	encodeOpts []json.EncodeOptionFunc
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithEscapeHTML escapes <, > and & inside JSON strings.
func WithEscapeHTML() MapperOption {
	return func(m *Mapper) {
		m.escapeHTML = true
	}
}

// WithIndent makes JSON output indented with the given string.
func WithIndent(indent string) MapperOption {
	return func(m *Mapper) {
		m.indent = indent
	}
}

// NewMapper creates a Mapper.
func NewMapper(opts ...MapperOption) *Mapper {
	m := &Mapper{}
	for _, opt := range opts {
		opt(m)
	}
	if !m.escapeHTML {
		m.encodeOpts = append(m.encodeOpts, json.DisableHTMLEscape())
	}
	return m
}

// Marshal encodes v as JSON text using the mapper's generation settings.
func (m *Mapper) Marshal(v any) ([]byte, error) {
	v, err := prepare(v)
	if err != nil {
		return nil, err
	}
	if m.indent != "" {
		return json.MarshalIndentWithOption(v, "", m.indent, m.encodeOpts...)
	}
	return json.MarshalWithOption(v, m.encodeOpts...)
}

// Unmarshal decodes JSON text into v.
func (m *Mapper) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Convert reshapes from into target, which must be a non-nil pointer.
func (m *Mapper) Convert(from, target any) error {
	data, err := m.compact(from)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// tree reshapes v into generic values (Map, []any, string, bool, nil, int64,
// uint64 or float64). Integral numbers stay integral.
func (m *Mapper) tree(v any) (any, error) {
	data, err := m.compact(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return resolveNumbers(out), nil
}

func (m *Mapper) compact(v any) ([]byte, error) {
	v, err := prepare(v)
	if err != nil {
		return nil, err
	}
	return json.MarshalWithOption(v, m.encodeOpts...)
}

// prepare rejects cyclic graphs and gives nested generic maps text keys.
func prepare(v any) (any, error) {
	if err := checkCycle(reflect.ValueOf(v), make(map[visit]struct{})); err != nil {
		return nil, err
	}
	return textKeys(v)
}

type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

func resolveNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = resolveNumbers(e)
		}
	case []any:
		for i, e := range t {
			t[i] = resolveNumbers(e)
		}
	case number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(t.String(), 10, 64); err == nil {
			return u
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	}
	return v
}

// textKeys returns v with every map[any]any inside generic containers
// (Map, []any, []Map) replaced by a Map keyed by the text form of each key.
// Containers are copied only when something inside them changes, so v is
// never modified. Two keys with the same text form are an error.
func textKeys(v any) (any, error) {
	out, _, err := rekey(v)
	return out, err
}

func rekey(v any) (any, bool, error) {
	switch t := v.(type) {
	case map[any]any:
		out := make(Map, len(t))
		for k, e := range t {
			key := fmt.Sprint(k)
			if _, dup := out[key]; dup {
				return nil, false, errors.Newf("map keys collide as %q", key)
			}
			val, _, err := rekey(e)
			if err != nil {
				return nil, false, err
			}
			out[key] = val
		}
		return out, true, nil
	case map[string]any:
		var out Map
		for k, e := range t {
			val, changed, err := rekey(e)
			if err != nil {
				return nil, false, err
			}
			if !changed {
				continue
			}
			if out == nil {
				out = maps.Clone(t)
			}
			out[k] = val
		}
		if out == nil {
			return t, false, nil
		}
		return out, true, nil
	case []any:
		var out []any
		for i, e := range t {
			val, changed, err := rekey(e)
			if err != nil {
				return nil, false, err
			}
			if !changed {
				continue
			}
			if out == nil {
				out = slices.Clone(t)
			}
			out[i] = val
		}
		if out == nil {
			return t, false, nil
		}
		return out, true, nil
	case []Map:
		var out []Map
		for i, e := range t {
			val, changed, err := rekey(e)
			if err != nil {
				return nil, false, err
			}
			if !changed {
				continue
			}
			if out == nil {
				out = slices.Clone(t)
			}
			out[i] = val.(Map)
		}
		if out == nil {
			return t, false, nil
		}
		return out, true, nil
	}
	return v, false, nil
}

// visit identifies a reference on the current encoding path.
type visit struct {
	ptr uintptr
	typ reflect.Type
	n   int
}

var (
	marshalerType     = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// encodesItself reports whether the encoder hands v to its MarshalJSON or
// MarshalText method instead of walking its fields.
func encodesItself(v reflect.Value) bool {
	t := v.Type()
	if t.Implements(marshalerType) || t.Implements(textMarshalerType) {
		return true
	}
	if v.CanAddr() {
		pt := reflect.PointerTo(t)
		return pt.Implements(marshalerType) || pt.Implements(textMarshalerType)
	}
	return false
}

// checkCycle walks the graph of v the way the encoder does and fails if a
// pointer, map or slice is reached again while it is still being walked.
// Fields tagged `json:"-"` and values with their own marshal method are
// not walked.
func checkCycle(v reflect.Value, path map[visit]struct{}) error {
	if !v.IsValid() {
		return nil
	}
	if v.Kind() != reflect.Interface && encodesItself(v) {
		return nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nil
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if v.Kind() == reflect.Slice {
			key.n = v.Len()
		}
		if _, ok := path[key]; ok {
			return errors.Wrapf(errCycle, "via %s", v.Type())
		}
		path[key] = struct{}{}
		defer delete(path, key)
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return checkCycle(v.Elem(), path)
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() && !f.Anonymous {
				continue
			}
			if f.Tag.Get("json") == "-" {
				continue
			}
			if err := checkCycle(v.Field(i), path); err != nil {
				return err
			}
		}
	case reflect.Map:
		if !mayReference(v.Type().Elem()) {
			return nil
		}
		iter := v.MapRange()
		for iter.Next() {
			if err := checkCycle(iter.Value(), path); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		if !mayReference(v.Type().Elem()) {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := checkCycle(v.Index(i), path); err != nil {
				return err
			}
		}
	}
	return nil
}

// mayReference reports whether values of t can hold references.
func mayReference(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return true
	}
	return false
}
