package typedi

import (
	"fmt"
	"reflect"
)

// Resolver is the read side shared by Container and Registry.
type Resolver interface {
	Get(serviceType reflect.Type) (any, error)
	GetToken(token string) (any, error)
}

// Store is the write side shared by Container and Registry.
type Store interface {
	Set(serviceType reflect.Type, instance any) error
	Has(serviceType reflect.Type) bool
	Remove(serviceType reflect.Type)
}

var (
	_ Resolver = (*Container)(nil)
	_ Resolver = (*Registry)(nil)
	_ Store    = (*Container)(nil)
	_ Store    = (*Registry)(nil)
)

// Resolve is a generic helper function that resolves a service as type T.
func Resolve[T any](r Resolver) (T, error) {
	var zero T

	if r == nil {
		return zero, ErrRegistryNil
	}

	instance, err := r.Get(typeOf[T]())
	if err != nil {
		return zero, err
	}

	return assertType[T](instance, "type assertion")
}

// MustResolve resolves a service and panics on error.
func MustResolve[T any](r Resolver) T {
	result, err := Resolve[T](r)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", formatType(typeOf[T]()), err))
	}
	return result
}

// ResolveWith resolves T from c with an explicit lifetime and factory.
// T does not need to be registered.
func ResolveWith[T any](c *Container, singleton bool, factory Factory) (T, error) {
	var zero T

	if c == nil {
		return zero, ErrRegistryNil
	}

	instance, err := c.GetWith(typeOf[T](), singleton, factory)
	if err != nil {
		return zero, err
	}

	return assertType[T](instance, "type assertion")
}

// Token returns the value stored under token as type T.
func Token[T any](r Resolver, token string) (T, error) {
	var zero T

	if r == nil {
		return zero, ErrRegistryNil
	}

	value, err := r.GetToken(token)
	if err != nil {
		return zero, err
	}

	return assertType[T](value, fmt.Sprintf("token %q", token))
}

// MustToken returns a token value and panics on error.
func MustToken[T any](r Resolver, token string) T {
	result, err := Token[T](r, token)
	if err != nil {
		panic(fmt.Sprintf("failed to read token %q: %v", token, err))
	}
	return result
}

// SetInstance stores instance as the cached singleton of T.
func SetInstance[T any](s Store, instance T) error {
	if s == nil {
		return ErrRegistryNil
	}
	return s.Set(typeOf[T](), instance)
}

// HasInstance reports whether an instance of T is cached.
func HasInstance[T any](s Store) bool {
	return s != nil && s.Has(typeOf[T]())
}

// RemoveInstance evicts the cached instance of T.
func RemoveInstance[T any](s Store) {
	if s != nil {
		s.Remove(typeOf[T]())
	}
}

func assertType[T any](value any, context string) (T, error) {
	result, ok := value.(T)
	if !ok {
		var zero T
		return zero, TypeMismatchError{
			Expected: typeOf[T](),
			Actual:   reflect.TypeOf(value),
			Context:  context,
		}
	}

	return result, nil
}
