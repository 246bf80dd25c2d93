// Package digbridge exposes typedi services to a go.uber.org/dig container.
//
// Each bridged type becomes a dig constructor that resolves the service
// from a typedi.Resolver. dig invokes a constructor at most once per
// container, so a transient typedi service is built once for dig.
//
// Example usage:
//
//	dc := dig.New()
//	if err := digbridge.ProvideType[*UserService](dc, registry); err != nil {
//	    log.Fatal(err)
//	}
//
//	err := dc.Invoke(func(users *UserService) {
//	    // ...
//	})
package digbridge

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/dig"

	"github.com/inventex/typedi"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// ErrResolverNil is returned when no resolver is given.
var ErrResolverNil = errors.New("digbridge: resolver cannot be nil")

// Provide registers a dig constructor for serviceType that resolves it from r.
func Provide(dc *dig.Container, r typedi.Resolver, serviceType reflect.Type, opts ...dig.ProvideOption) error {
	if r == nil {
		return ErrResolverNil
	}

	if serviceType == nil {
		return typedi.ErrServiceTypeNil
	}

	ctor := constructor(serviceType, func() (any, error) {
		return r.Get(serviceType)
	})

	if err := dc.Provide(ctor.Interface(), opts...); err != nil {
		return fmt.Errorf("digbridge: provide %s: %w", serviceType, err)
	}

	return nil
}

// ProvideType registers a dig constructor for T that resolves it from r.
func ProvideType[T any](dc *dig.Container, r typedi.Resolver, opts ...dig.ProvideOption) error {
	return Provide(dc, r, reflect.TypeOf((*T)(nil)).Elem(), opts...)
}

// ProvideToken registers the typedi value stored under token as a dig
// value of type T named token. Consumers receive it through a dig.In
// struct field tagged name:"<token>".
func ProvideToken[T any](dc *dig.Container, r typedi.Resolver, token string) error {
	if r == nil {
		return ErrResolverNil
	}

	serviceType := reflect.TypeOf((*T)(nil)).Elem()
	ctor := constructor(serviceType, func() (any, error) {
		return typedi.Token[T](r, token)
	})

	if err := dc.Provide(ctor.Interface(), dig.Name(token)); err != nil {
		return fmt.Errorf("digbridge: provide token %q: %w", token, err)
	}

	return nil
}

// ProvideCatalog bridges every service type registered in c's catalog.
func ProvideCatalog(dc *dig.Container, c *typedi.Container) error {
	if c == nil {
		return ErrResolverNil
	}

	for _, t := range c.Catalog().Types() {
		if err := Provide(dc, c, t); err != nil {
			return err
		}
	}

	return nil
}

// constructor builds a func() (serviceType, error) around resolve.
func constructor(serviceType reflect.Type, resolve func() (any, error)) reflect.Value {
	fnType := reflect.FuncOf(nil, []reflect.Type{serviceType, errType}, false)

	return reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		instance, err := resolve()
		if err != nil {
			return []reflect.Value{reflect.Zero(serviceType), reflect.ValueOf(&err).Elem()}
		}

		value := reflect.ValueOf(instance)
		if !value.IsValid() {
			value = reflect.Zero(serviceType)
		} else if value.Type() != serviceType {
			value = value.Convert(serviceType)
		}

		return []reflect.Value{value, reflect.Zero(errType)}
	})
}
