// Package types holds the data model shared by the nanodoc packages: document
// bodies, the ordered id-to-body mapping that forms a collection, and the
// sentinel errors.
package types

import "reflect"

// IDField is the body field that carries a caller-supplied document id on
// creation and the document id on query results. It is never stored inside a
// body.
const IDField = "id"

// Body is the field mapping of a single document. Values are JSON-compatible:
// string, float64, bool, nil, map[string]interface{} or []interface{}.
type Body map[string]interface{}

// Clone returns a deep copy of the body. A nil body clones to an empty one.
func (b Body) Clone() Body {
	out := make(Body, len(b))
	for k, v := range b {
		out[k] = CloneValue(v)
	}
	return out
}

// WithID returns a copy of the body with the id field set.
func (b Body) WithID(id string) Body {
	out := b.Clone()
	out[IDField] = id
	return out
}

// CloneValue deep copies a JSON-compatible value. Maps and slices of any
// element type are copied recursively; everything else is returned as is.
func CloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case Body:
		return val.Clone()
	case map[string]interface{}:
		return map[string]interface{}(Body(val).Clone())
	case []interface{}:
		if val == nil {
			return val
		}
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	case string, bool, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return val
	}
	return cloneReflect(reflect.ValueOf(v)).Interface()
}

// cloneReflect handles typed slices and maps such as []string or
// map[string]int that callers may put in a body before it is persisted.
func cloneReflect(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(cloneElem(rv.Index(i), rv.Type().Elem()))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneElem(iter.Value(), rv.Type().Elem()))
		}
		return out
	}
	return rv
}

func cloneElem(elem reflect.Value, typ reflect.Type) reflect.Value {
	if elem.Kind() == reflect.Interface {
		if elem.IsNil() {
			return reflect.Zero(typ)
		}
		return reflect.ValueOf(CloneValue(elem.Interface()))
	}
	return cloneReflect(elem)
}
