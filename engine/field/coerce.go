package field

import (
	"math"
	"reflect"
)

// coerce converts value to typ. Integers widen into any integer or float type that can hold
// them; floats never narrow into integers. Lists and maps are converted element by element.
func coerce(value any, typ reflect.Type) (any, bool) {
	if value == nil {
		return nil, false
	}
	out, ok := coerceValue(reflect.ValueOf(value), typ)
	if !ok {
		return nil, false
	}
	return out.Interface(), true
}

func coerceValue(rv reflect.Value, typ reflect.Type) (reflect.Value, bool) {
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			if typ.Kind() == reflect.Interface {
				return reflect.Zero(typ), true
			}
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	if rv.Type() == typ {
		return rv, true
	}
	if typ.Kind() == reflect.Interface {
		if rv.Type().Implements(typ) {
			out := reflect.New(typ).Elem()
			out.Set(rv)
			return out, true
		}
		return reflect.Value{}, false
	}
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return toInt(rv, typ)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return toUint(rv, typ)
	case reflect.Float32, reflect.Float64:
		return toFloat(rv, typ)
	case reflect.String, reflect.Bool:
		if rv.Kind() == typ.Kind() {
			return rv.Convert(typ), true
		}
	case reflect.Slice:
		return toSlice(rv, typ)
	case reflect.Map:
		return toMap(rv, typ)
	}
	return reflect.Value{}, false
}

func toInt(rv reflect.Value, typ reflect.Type) (reflect.Value, bool) {
	out := reflect.New(typ).Elem()
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if out.OverflowInt(rv.Int()) {
			return reflect.Value{}, false
		}
		out.SetInt(rv.Int())
		return out, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
			return reflect.Value{}, false
		}
		out.SetInt(int64(u))
		return out, true
	}
	return reflect.Value{}, false
}

func toUint(rv reflect.Value, typ reflect.Type) (reflect.Value, bool) {
	out := reflect.New(typ).Elem()
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < 0 || out.OverflowUint(uint64(i)) {
			return reflect.Value{}, false
		}
		out.SetUint(uint64(i))
		return out, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if out.OverflowUint(rv.Uint()) {
			return reflect.Value{}, false
		}
		out.SetUint(rv.Uint())
		return out, true
	}
	return reflect.Value{}, false
}

func toFloat(rv reflect.Value, typ reflect.Type) (reflect.Value, bool) {
	out := reflect.New(typ).Elem()
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.SetFloat(float64(rv.Int()))
		return out, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		out.SetFloat(float64(rv.Uint()))
		return out, true
	case reflect.Float32, reflect.Float64:
		out.SetFloat(rv.Float())
		return out, true
	}
	return reflect.Value{}, false
}

func toSlice(rv reflect.Value, typ reflect.Type) (reflect.Value, bool) {
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return reflect.Value{}, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return reflect.Zero(typ), true
	}
	out := reflect.MakeSlice(typ, rv.Len(), rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item, ok := coerceValue(rv.Index(i), typ.Elem())
		if !ok {
			return reflect.Value{}, false
		}
		out.Index(i).Set(item)
	}
	return out, true
}

func toMap(rv reflect.Value, typ reflect.Type) (reflect.Value, bool) {
	if rv.Kind() != reflect.Map {
		return reflect.Value{}, false
	}
	if rv.IsNil() {
		return reflect.Zero(typ), true
	}
	out := reflect.MakeMapWithSize(typ, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, ok := coerceValue(iter.Key(), typ.Key())
		if !ok {
			return reflect.Value{}, false
		}
		val, ok := coerceValue(iter.Value(), typ.Elem())
		if !ok {
			return reflect.Value{}, false
		}
		out.SetMapIndex(key, val)
	}
	return out, true
}
