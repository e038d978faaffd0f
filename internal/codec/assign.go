package codec

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var (
	unmarshalerType     = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// assign stores node into v, which must be settable. Branches that carry no
// TaggedDate are handed to encoding/json as they are; branches that do are
// walked here, so time.Time values are set from ParseDate and keep years
// that time.Time.UnmarshalJSON rejects.
func assign(v reflect.Value, node any) error {
	if node == nil {
		switch v.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			v.SetZero()
		}
		return nil
	}

	if v.Type() == timeType {
		return assignTime(v, node)
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return assign(v.Elem(), node)
	}

	if !containsDate(node) {
		return decodeJSON(v, node)
	}
	ptrType := reflect.PointerTo(v.Type())
	if ptrType.Implements(unmarshalerType) || ptrType.Implements(textUnmarshalerType) {
		return decodeJSON(v, flatten(node))
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return decodeJSON(v, flatten(node))
		}
		v.Set(reflect.ValueOf(revive(node)))
		return nil
	case reflect.Struct:
		return assignStruct(v, node)
	case reflect.Map:
		return assignMap(v, node)
	case reflect.Slice:
		items, ok := node.([]any)
		if !ok {
			return mismatch(node, v.Type())
		}
		out := reflect.MakeSlice(v.Type(), len(items), len(items))
		for i, item := range items {
			if err := assign(out.Index(i), item); err != nil {
				return err
			}
		}
		v.Set(out)
		return nil
	case reflect.Array:
		items, ok := node.([]any)
		if !ok {
			return mismatch(node, v.Type())
		}
		for i := range v.Len() {
			if i >= len(items) {
				v.Index(i).SetZero()
				continue
			}
			if err := assign(v.Index(i), items[i]); err != nil {
				return err
			}
		}
		return nil
	default:
		return decodeJSON(v, flatten(node))
	}
}

func assignTime(v reflect.Value, node any) error {
	switch n := node.(type) {
	case map[string]any:
		if t, ok := untagDate(n); ok {
			v.Set(reflect.ValueOf(t))
			return nil
		}
	case string:
		t, err := ParseDate(n)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(t))
		return nil
	}
	return mismatch(node, v.Type())
}

func assignStruct(v reflect.Value, node any) error {
	obj, ok := node.(map[string]any)
	if !ok {
		return mismatch(node, v.Type())
	}

	fields := structFields(v.Type())
	for name, val := range obj {
		index, ok := lookupField(fields, name)
		if !ok {
			continue
		}
		fv, err := fieldByIndex(v, index)
		if err != nil {
			return err
		}
		if err = assign(fv, val); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
	}
	return nil
}

func assignMap(v reflect.Value, node any) error {
	obj, ok := node.(map[string]any)
	if !ok {
		return mismatch(node, v.Type())
	}
	if v.IsNil() {
		v.Set(reflect.MakeMapWithSize(v.Type(), len(obj)))
	}

	for k, val := range obj {
		key, err := parseMapKey(k, v.Type().Key())
		if err != nil {
			return err
		}
		elem := reflect.New(v.Type().Elem()).Elem()
		if err = assign(elem, val); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		v.SetMapIndex(key, elem)
	}
	return nil
}

func parseMapKey(k string, t reflect.Type) (reflect.Value, error) {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		key := reflect.New(t)
		if err := key.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(k)); err != nil {
			return reflect.Value{}, err
		}
		return key.Elem(), nil
	}

	key := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		key.SetString(k)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(k, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		key.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(k, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		key.SetUint(n)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported map key type %s", t)
	}
	return key, nil
}

func decodeJSON(v reflect.Value, node any) error {
	raw, err := json.Marshal(node)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v.Addr().Interface())
}

func mismatch(node any, t reflect.Type) error {
	return fmt.Errorf("cannot assign %T to %s", node, t)
}

// containsDate reports whether a TaggedDate occurs anywhere in node.
func containsDate(node any) bool {
	switch n := node.(type) {
	case map[string]any:
		if _, ok := untagDate(n); ok {
			return true
		}
		for _, v := range n {
			if containsDate(v) {
				return true
			}
		}
	case []any:
		for _, v := range n {
			if containsDate(v) {
				return true
			}
		}
	}
	return false
}

type field struct {
	name  string
	index []int
}

// structFields lists the JSON-visible fields of t, promoted fields of
// untagged embedded structs included. Outer fields shadow promoted ones,
// which matches structToTree.
func structFields(t reflect.Type) []field {
	var out []field
	seen := make(map[string]bool)

	var walk func(t reflect.Type, prefix []int)
	walk = func(t reflect.Type, prefix []int) {
		var embedded []reflect.StructField
		for i := range t.NumField() {
			f := t.Field(i)
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}

			tag := f.Tag.Get("json")
			if tag == "-" {
				continue
			}
			name, _, _ := strings.Cut(tag, ",")

			if f.Anonymous && ft.Kind() == reflect.Struct && ft != timeType && name == "" {
				embedded = append(embedded, f)
				continue
			}
			if !f.IsExported() {
				continue
			}
			if name == "" {
				name = f.Name
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, field{name: name, index: append(append([]int(nil), prefix...), i)})
		}

		for _, f := range embedded {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			walk(ft, append(append([]int(nil), prefix...), f.Index...))
		}
	}
	walk(t, nil)
	return out
}

// lookupField prefers an exact name and falls back to a case-insensitive
// match, as encoding/json does.
func lookupField(fields []field, name string) ([]int, bool) {
	for _, f := range fields {
		if f.name == name {
			return f.index, true
		}
	}
	for _, f := range fields {
		if strings.EqualFold(f.name, name) {
			return f.index, true
		}
	}
	return nil, false
}

// fieldByIndex is reflect.Value.FieldByIndex that allocates nil embedded
// pointers on the way.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, fmt.Errorf("cannot set embedded pointer to unexported struct %s", v.Type().Elem())
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, nil
}
