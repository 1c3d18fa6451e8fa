package casing

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Schema renames keys through an explicit table derived from the json tags
// of Go types. Keys it does not know fall back to SnakeKey and CamelKey.
//
// A field may pin its snake_case name with a `snake:"..."` tag when the
// character rule would produce the wrong result.
type Schema struct {
	toSnake map[string]string
	toCamel map[string]string
}

// NewSchema collects the json field names of the given values' types,
// following pointers, slices, arrays, maps and nested structs.
func NewSchema(samples ...any) *Schema {
	s := &Schema{
		toSnake: make(map[string]string),
		toCamel: make(map[string]string),
	}
	seen := make(map[reflect.Type]bool)
	for _, v := range samples {
		s.collect(reflect.TypeOf(v), seen)
	}
	return s
}

func (s *Schema) collect(t reflect.Type, seen map[reflect.Type]bool) {
	for t != nil && (t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map) {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct || seen[t] {
		return
	}
	seen[t] = true

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		snake := f.Tag.Get("snake")
		if snake == "" {
			snake = SnakeKey(name)
		}
		s.toSnake[name] = snake
		s.toCamel[snake] = name
		s.collect(f.Type, seen)
	}
}

// Keys returns the number of known field names.
func (s *Schema) Keys() int {
	return len(s.toSnake)
}

// Snake renames keys of a decoded JSON value to snake_case.
func (s *Schema) Snake(v any) any {
	return transform(v, func(k string) string {
		if out, ok := s.toSnake[k]; ok {
			return out
		}
		return SnakeKey(k)
	})
}

// Camel renames keys of a decoded JSON value back to their declared names.
func (s *Schema) Camel(v any) any {
	return transform(v, func(k string) string {
		if out, ok := s.toCamel[k]; ok {
			return out
		}
		return CamelKey(k)
	})
}

// MarshalSnake encodes v as JSON with snake_case keys.
func (s *Schema) MarshalSnake(v any) ([]byte, error) {
	generic, err := toGeneric(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(s.Snake(generic))
}

// UnmarshalSnake decodes snake_case JSON into dst, which must be a pointer
// to a type whose json tags use the declared names.
func (s *Schema) UnmarshalSnake(data []byte, dst any) error {
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("decoding snake_case document: %w", err)
	}
	raw, err := json.Marshal(s.Camel(generic))
	if err != nil {
		return fmt.Errorf("re-encoding document: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decoding into %T: %w", dst, err)
	}
	return nil
}

func toGeneric(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", v, err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decoding %T: %w", v, err)
	}
	return generic, nil
}
