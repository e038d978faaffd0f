// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	timeType          = reflect.TypeFor[time.Time]()
	numberType        = reflect.TypeFor[json.Number]()
	marshalerType     = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Marshal serializes v to a JSON string, replacing every time.Time with a
// TaggedDate object. Struct fields follow the usual json tags.
func Marshal(v any) (string, error) {
	tree, err := toTree(reflect.ValueOf(v))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerializeFailed, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err = enc.Encode(tree); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerializeFailed, err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Parse reads data into a generic tree (maps, slices, json.Number, strings,
// bools and nil). TaggedDate objects are left as they are, so re-encoding
// the tree with [Marshal] reproduces an equivalent document.
func Parse(data string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeserializeFailed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrDeserializeFailed)
	}
	return tree, nil
}

// Unmarshal parses data into target, reviving TaggedDate objects.
//
// For a *any target the result is a generic tree in which dates are
// time.Time values and numbers are float64. For any other target time.Time
// and *time.Time fields are set straight from the TaggedDate, so every year
// [FormatDate] can write is read back; the rest is decoded by encoding/json.
func Unmarshal(data string, target any) error {
	tree, err := Parse(data)
	if err != nil {
		return err
	}
	return Assign(tree, target)
}

// Assign stores an already parsed tree into target, see [Unmarshal].
func Assign(tree any, target any) error {
	if anyPtr, ok := target.(*any); ok {
		*anyPtr = revive(tree)
		return nil
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer, got %T", ErrDeserializeFailed, target)
	}

	if err := assign(rv.Elem(), tree); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserializeFailed, err)
	}
	return nil
}

// revive turns TaggedDates into time.Time and json.Number into float64.
func revive(node any) any {
	switch n := node.(type) {
	case map[string]any:
		if t, ok := untagDate(n); ok {
			return t
		}
		out := make(map[string]any, len(n))
		for k, v := range n {
			out[k] = revive(v)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			out[i] = revive(v)
		}
		return out
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	default:
		return n
	}
}

// flatten replaces TaggedDates with RFC 3339 strings for targets that
// decode dates themselves (string fields, json.Unmarshaler types).
func flatten(node any) any {
	switch n := node.(type) {
	case map[string]any:
		if t, ok := untagDate(n); ok {
			return t.Format(time.RFC3339Nano)
		}
		out := make(map[string]any, len(n))
		for k, v := range n {
			out[k] = flatten(v)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			out[i] = flatten(v)
		}
		return out
	default:
		return n
	}
}

func toTree(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}

	switch v.Type() {
	case timeType:
		return tagDate(v.Interface().(time.Time)), nil
	case numberType:
		return v.Interface(), nil
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil, nil
		}
		if v.Kind() == reflect.Pointer && v.Elem().Type() == timeType {
			return toTree(v.Elem())
		}
	}

	if v.Type().Implements(marshalerType) || v.Type().Implements(textMarshalerType) {
		return v.Interface(), nil
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		return toTree(v.Elem())

	case reflect.Struct:
		return structToTree(v)

	case reflect.Map:
		if v.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			key, err := mapKey(iter.Key())
			if err != nil {
				return nil, err
			}
			val, err := toTree(iter.Value())
			if err != nil {
				return nil, err
			}
			out[key] = val
		}
		return out, nil

	case reflect.Slice:
		if v.IsNil() {
			return nil, nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Interface(), nil
		}
		fallthrough
	case reflect.Array:
		out := make([]any, v.Len())
		for i := range v.Len() {
			val, err := toTree(v.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil

	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return v.Interface(), nil
	}

	return nil, fmt.Errorf("unsupported type %s", v.Type())
}

func structToTree(v reflect.Value) (map[string]any, error) {
	t := v.Type()
	out := make(map[string]any, t.NumField())

	for i := range t.NumField() {
		f := t.Field(i)
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		embeddedStruct := f.Anonymous && ft.Kind() == reflect.Struct && ft != timeType
		if !f.IsExported() && !embeddedStruct {
			continue
		}

		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		fv := v.Field(i)

		if embeddedStruct && name == "" {
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			inner, err := structToTree(fv)
			if err != nil {
				return nil, err
			}
			// outer fields take precedence over promoted ones
			for k, val := range inner {
				if _, exists := out[k]; !exists {
					out[k] = val
				}
			}
			continue
		}
		if !f.IsExported() {
			continue
		}

		if name == "" {
			name = f.Name
		}
		if hasOption(opts, "omitempty") && isEmptyValue(fv) {
			continue
		}
		if hasOption(opts, "omitzero") && fv.IsZero() {
			continue
		}

		val, err := toTree(fv)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		out[name] = val
	}
	return out, nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		b, err := tm.MarshalText()
		return string(b), err
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", fmt.Errorf("unsupported map key type %s", k.Type())
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}
