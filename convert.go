package serial

import (
	"context"
	"reflect"

	"github.com/cockroachdb/errors"
)

// ConvertToMap reshapes v into a generic mapping through the shared mapper.
// When v is itself a map, entries whose key is not a string are dropped;
// maps nested below the top level keep every entry with its key as text.
func ConvertToMap(s *Serializer, v any) (Map, error) {
	out, err := convertToMap(s.mapper, v)
	emitConvertComplete(context.Background(), "serial.Map", 1, err)
	if err != nil {
		return nil, newConvertError("serial.Map", err)
	}
	return out, nil
}

func convertToMap(m *Mapper, v any) (Map, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map {
		var out Map
		if err := m.Convert(v, &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	out := make(Map, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key()
		if key.Kind() == reflect.Interface {
			key = key.Elem()
		}
		if key.Kind() != reflect.String {
			continue
		}
		if _, dup := out[key.String()]; dup {
			return nil, errors.Newf("map keys collide as %q", key.String())
		}
		var val any
		if err := m.Convert(iter.Value().Interface(), &val); err != nil {
			return nil, err
		}
		out[key.String()] = val
	}
	return out, nil
}

// ConvertToObject reshapes a generic mapping into a T.
func ConvertToObject[T any](s *Serializer, m Map) (T, error) {
	name := typeName[T]()
	var out T
	err := s.mapper.Convert(m, &out)
	emitConvertComplete(context.Background(), name, 1, err)
	if err != nil {
		var zero T
		return zero, newConvertError(name, err)
	}
	return out, nil
}

// ConvertToObjects reshapes each mapping of ms into a T, preserving order.
func ConvertToObjects[T any](s *Serializer, ms []Map) ([]T, error) {
	name := typeName[T]()
	out := make([]T, 0, len(ms))
	for _, m := range ms {
		var obj T
		if err := s.mapper.Convert(m, &obj); err != nil {
			emitConvertComplete(context.Background(), name, len(ms), err)
			return nil, newConvertError(name, err)
		}
		out = append(out, obj)
	}
	emitConvertComplete(context.Background(), name, len(ms), nil)
	return out, nil
}
