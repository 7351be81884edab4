// Package layering deep-copies and overlays plain Go values: maps, slices,
// pointers, interfaces and structs. Values must be acyclic.
package layering

import "reflect"

// Clone returns a deep copy of value. Unexported struct fields are copied by
// assignment, so anything they reference stays shared.
func Clone[T any](value T) T {
	copied := deepCopy(reflect.ValueOf(&value).Elem())
	result, _ := copied.Interface().(T)
	return result
}

// MergeLayers composes values ordered from strongest to weakest. Stronger
// layers win; nil pointers, maps, slices and interfaces fall through to the
// next weaker layer, and maps are merged key by key.
func MergeLayers[T any](layers ...T) T {
	var zero T
	if len(layers) == 0 {
		return zero
	}

	merged := deepCopy(reflect.ValueOf(&layers[len(layers)-1]).Elem())
	for i := len(layers) - 2; i >= 0; i-- {
		merged = overlay(reflect.ValueOf(&layers[i]).Elem(), merged)
	}

	result, _ := merged.Interface().(T)
	return result
}

// deepCopy returns a value of v's type holding no references shared with v.
func deepCopy(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	out := reflect.New(v.Type()).Elem()

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return out
		}
		ptr := reflect.New(v.Type().Elem())
		ptr.Elem().Set(deepCopy(v.Elem()))
		out.Set(ptr)
	case reflect.Interface:
		if v.IsNil() {
			return out
		}
		out.Set(deepCopy(v.Elem()))
	case reflect.Struct:
		out.Set(v)
		for i := range v.NumField() {
			field := out.Field(i)
			if field.CanSet() {
				field.Set(deepCopy(v.Field(i)))
			}
		}
	case reflect.Map:
		if v.IsNil() {
			return out
		}
		m := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			m.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		out.Set(m)
	case reflect.Slice:
		if v.IsNil() {
			return out
		}
		s := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := range v.Len() {
			s.Index(i).Set(deepCopy(v.Index(i)))
		}
		out.Set(s)
	case reflect.Array:
		for i := range v.Len() {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
	default:
		out.Set(v)
	}
	return out
}

// overlay places strong over weak. The result has strong's type; a weak value
// of a different type is ignored.
func overlay(strong, weak reflect.Value) reflect.Value {
	if !strong.IsValid() {
		return deepCopy(weak)
	}
	if !weak.IsValid() || weak.Type() != strong.Type() {
		return deepCopy(strong)
	}

	switch strong.Kind() {
	case reflect.Pointer:
		if strong.IsNil() {
			return deepCopy(weak)
		}
		if weak.IsNil() {
			return deepCopy(strong)
		}
		ptr := reflect.New(strong.Type().Elem())
		ptr.Elem().Set(overlay(strong.Elem(), weak.Elem()))
		return ptr
	case reflect.Interface:
		if strong.IsNil() {
			return deepCopy(weak)
		}
		if weak.IsNil() {
			return deepCopy(strong)
		}
		out := reflect.New(strong.Type()).Elem()
		out.Set(overlay(strong.Elem(), weak.Elem()))
		return out
	case reflect.Struct:
		out := deepCopy(strong)
		for i := range strong.NumField() {
			field := out.Field(i)
			if field.CanSet() {
				field.Set(overlay(strong.Field(i), weak.Field(i)))
			}
		}
		return out
	case reflect.Map:
		if strong.IsNil() {
			return deepCopy(weak)
		}
		if weak.IsNil() {
			return deepCopy(strong)
		}
		out := deepCopy(weak)
		iter := strong.MapRange()
		for iter.Next() {
			key := iter.Key()
			if existing := out.MapIndex(key); existing.IsValid() {
				out.SetMapIndex(key, overlay(iter.Value(), existing))
				continue
			}
			out.SetMapIndex(key, deepCopy(iter.Value()))
		}
		return out
	case reflect.Slice:
		if strong.IsNil() {
			return deepCopy(weak)
		}
		return deepCopy(strong)
	case reflect.Array:
		out := reflect.New(strong.Type()).Elem()
		for i := range strong.Len() {
			out.Index(i).Set(overlay(strong.Index(i), weak.Index(i)))
		}
		return out
	default:
		return deepCopy(strong)
	}
}
