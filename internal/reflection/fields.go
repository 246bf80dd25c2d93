package reflection

import (
	"reflect"
	"strconv"
	"sync"
	"unsafe"
)

// FieldInfo describes a directly declared struct field.
type FieldInfo struct {
	Index    int
	Name     string
	Type     reflect.Type
	Tag      reflect.StructTag
	Exported bool
}

var fieldCache sync.Map // map[reflect.Type][]FieldInfo

// StructType returns the struct type behind t, dereferencing one pointer.
// The second result is false when t is neither a struct nor a pointer to one.
func StructType(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t, t.Kind() == reflect.Struct
}

// StructFields returns the fields declared directly on the struct behind t,
// in declaration order. Promoted fields of embedded structs are not included.
func StructFields(t reflect.Type) []FieldInfo {
	st, ok := StructType(t)
	if !ok {
		return nil
	}

	if cached, ok := fieldCache.Load(st); ok {
		return cached.([]FieldInfo)
	}

	fields := make([]FieldInfo, st.NumField())
	for i := range fields {
		f := st.Field(i)
		fields[i] = FieldInfo{
			Index:    i,
			Name:     f.Name,
			Type:     f.Type,
			Tag:      f.Tag,
			Exported: f.IsExported(),
		}
	}

	actual, _ := fieldCache.LoadOrStore(st, fields)
	return actual.([]FieldInfo)
}

// FieldByName finds a directly declared field.
func FieldByName(t reflect.Type, name string) (FieldInfo, bool) {
	for _, f := range StructFields(t) {
		if f.Name == name {
			return f, true
		}
	}

	return FieldInfo{}, false
}

// SetField assigns value to field index of the addressable struct target,
// bypassing export restrictions.
func SetField(target reflect.Value, index int, value reflect.Value) {
	field := target.Field(index)
	if !field.CanSet() {
		field = reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
	}

	if !value.IsValid() {
		value = reflect.Zero(field.Type())
	}

	field.Set(value)
}

// TagKeys returns the keys of a conventional struct tag in the order they
// appear. Parsing stops at the first malformed pair, like reflect.StructTag.Lookup.
func TagKeys(tag reflect.StructTag) []string {
	var keys []string

	for tag != "" {
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}

		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			break
		}
		name := string(tag[:i])
		tag = tag[i+1:]

		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			break
		}
		if _, err := strconv.Unquote(string(tag[:i+1])); err != nil {
			break
		}
		tag = tag[i+1:]

		keys = append(keys, name)
	}

	return keys
}
