package typedi

import (
	"reflect"
)

// Factory is a pluggable creation strategy for a service. When a service
// declares a factory, the factory is fully responsible for wiring the
// instance it returns; no field injection is applied afterwards.
type Factory interface {
	Create() (any, error)
}

// FactoryFunc adapts an ordinary function to the Factory interface.
type FactoryFunc func() (any, error)

// Create calls f().
func (f FactoryFunc) Create() (any, error) {
	return f()
}

// NullFactory is the sentinel meaning "no custom factory". Passing it (or
// a nil Factory) to GetWith selects reflective construction.
type NullFactory struct{}

// Create returns nothing. It exists only so NullFactory satisfies Factory.
func (NullFactory) Create() (any, error) {
	return nil, nil
}

var (
	factoryType     = reflect.TypeOf((*Factory)(nil)).Elem()
	nullFactoryType = reflect.TypeOf(NullFactory{})
)

// isNullFactory reports whether f selects reflective construction.
func isNullFactory(f Factory) bool {
	switch f := f.(type) {
	case nil:
		return true
	case NullFactory:
		return true
	case *NullFactory:
		return true
	case FactoryFunc:
		return f == nil
	}

	v := reflect.ValueOf(f)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// isNullFactoryType reports whether t names the sentinel factory type.
func isNullFactoryType(t reflect.Type) bool {
	return t == nil || t == nullFactoryType || t == reflect.PointerTo(nullFactoryType)
}

// validateFactoryType checks that a zero value of t can act as a Factory.
func validateFactoryType(t reflect.Type) error {
	if t == nil || t.Kind() == reflect.Interface {
		return ErrFactoryInvalid
	}

	if !t.Implements(factoryType) {
		return ErrFactoryInvalid
	}

	return nil
}

// newFactory builds a factory of type t through its zero-argument
// construction: a fresh zero value, allocated when t is a pointer type.
func newFactory(t reflect.Type) Factory {
	if isNullFactoryType(t) {
		return nil
	}

	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(Factory)
	}

	return reflect.New(t).Elem().Interface().(Factory)
}
