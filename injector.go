package typedi

import (
	"reflect"
	"slices"

	"github.com/inventex/typedi/internal/reflection"
)

// injectableFields lists the fields of d.Type eligible for injection, in
// declaration order. Only fields declared directly on the struct are
// considered. Service types that are not structs (or pointers to structs)
// have none.
func injectableFields(d *Descriptor, policy MarkerPolicy) ([]reflection.FieldInfo, error) {
	all := reflection.StructFields(d.Type)
	if len(all) == 0 {
		return nil, nil
	}

	var eligible []reflection.FieldInfo
	for _, f := range all {
		if slices.Contains(d.InjectFields, f.Name) {
			eligible = append(eligible, f)
			continue
		}

		marked, err := hasInjectMarker(f.Tag, policy)
		if err != nil {
			return nil, FieldInjectionError{ServiceType: d.Type, Field: f.Name, Cause: err}
		}

		if marked {
			eligible = append(eligible, f)
		}
	}

	return eligible, nil
}

// hasInjectMarker reads the inject marker from a struct tag under policy.
func hasInjectMarker(tag reflect.StructTag, policy MarkerPolicy) (bool, error) {
	value, ok := tag.Lookup(InjectTag)
	if !ok || value == "-" {
		return false, nil
	}

	switch policy {
	case MarkerAny:
		return true, nil
	case MarkerStrict:
		if keys := reflection.TagKeys(tag); len(keys) != 1 {
			return false, ErrMarkerConflict
		}
		return true, nil
	default:
		keys := reflection.TagKeys(tag)
		return len(keys) > 0 && keys[0] == InjectTag, nil
	}
}

// injectFields resolves each field through the container and assigns it,
// ignoring export restrictions. Pointer instances are populated in place;
// struct values are copied first and the populated copy is returned.
// Resolution errors are returned as is.
func (r *resolution) injectFields(instance reflect.Value, fields []reflection.FieldInfo) (reflect.Value, error) {
	if len(fields) == 0 {
		return instance, nil
	}

	var target reflect.Value
	switch instance.Kind() {
	case reflect.Pointer:
		if instance.IsNil() || instance.Elem().Kind() != reflect.Struct {
			return instance, nil
		}
		target = instance.Elem()
	case reflect.Struct:
		target = reflect.New(instance.Type()).Elem()
		target.Set(instance)
		instance = target
	default:
		return instance, nil
	}

	for _, f := range fields {
		value, err := r.get(f.Type)
		if err != nil {
			return reflect.Value{}, err
		}

		reflection.SetField(target, f.Index, reflect.ValueOf(value))
	}

	return instance, nil
}
