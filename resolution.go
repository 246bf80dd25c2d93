package typedi

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/inventex/typedi/internal/reflection"
)

// resolution tracks one top-level resolution call as it recurses through
// constructor parameters and fields. It records the construction locks the
// chain already holds so that re-entering a type it is building does not
// deadlock; an undetected cycle recurses until the stack is exhausted.
//
// A resolution is confined to the goroutine that started it.
type resolution struct {
	container *Container
	held      map[reflect.Type]struct{}
	depth     int
}

func (c *Container) newResolution() *resolution {
	return &resolution{container: c}
}

// get resolves t the way Container.Get does, within this chain.
func (r *resolution) get(t reflect.Type) (any, error) {
	if t == nil {
		return nil, ErrServiceTypeNil
	}

	d, ok := r.container.catalog.Lookup(t)
	if !ok {
		return nil, UnknownDependencyError{ServiceType: t, Available: r.container.catalog.Types()}
	}

	return r.getWith(t, d.Singleton, newFactory(d.FactoryType))
}

// getWith implements the singleton and transient paths of GetWith.
func (r *resolution) getWith(t reflect.Type, singleton bool, factory Factory) (any, error) {
	c := r.container
	if c.closed.Load() {
		return nil, ErrContainerClosed
	}

	if !singleton {
		return r.createInstance(t, factory)
	}

	if instance, ok := c.store.getInstance(t); ok {
		return instance, nil
	}

	if c.config.ConstructionLock && !r.holds(t) {
		mu := c.constructionLock(t)
		mu.Lock()
		defer mu.Unlock()

		r.hold(t)
		defer r.release(t)

		if instance, ok := c.store.getInstance(t); ok {
			return instance, nil
		}
	}

	instance, err := r.createInstance(t, factory)
	if err != nil {
		return nil, err
	}

	if !c.store.setInstance(t, instance, true) {
		// Close ran while the instance was being built
		if err := dispose(context.Background(), instance); err != nil {
			c.logger.Debug("typedi: dispose after close failed",
				"container", c.name,
				"type", t.String(),
				"error", err,
			)
		}
		return nil, ErrContainerClosed
	}

	c.logger.Debug("typedi: cached singleton",
		"container", c.name,
		"type", t.String(),
	)

	return instance, nil
}

// createInstance builds a new instance of t. A non-null factory is used as
// is; otherwise t is constructed reflectively and its fields injected.
// A failed construction leaves nothing behind.
func (r *resolution) createInstance(t reflect.Type, factory Factory) (any, error) {
	if !isNullFactory(factory) {
		return r.createWithFactory(t, factory)
	}

	var (
		p   *plan
		err error
	)
	if d, ok := r.container.catalog.Lookup(t); ok {
		p, err = r.container.plans.get(d)
	} else {
		// Unregistered types are planned per call; the type may be registered later
		p, err = r.container.plans.build(&Descriptor{Type: t})
	}
	if err != nil {
		return nil, err
	}

	r.depth++
	defer func() { r.depth-- }()

	var instance reflect.Value
	if p.constructor == nil {
		instance = newZero(t)
	} else {
		instance, err = r.invoke(t, p.constructor)
		if err != nil {
			return nil, err
		}
	}

	instance, err = r.injectFields(instance, p.fields)
	if err != nil {
		return nil, err
	}

	r.container.logger.Debug("typedi: constructed",
		"container", r.container.name,
		"type", t.String(),
		"depth", r.depth,
	)

	return instance.Interface(), nil
}

func (r *resolution) invoke(t reflect.Type, ctor *Constructor) (reflect.Value, error) {
	invoker := reflection.NewConstructorInvoker()

	value, fromCall, err := invoker.Invoke(ctor.ConstructorInfo, argumentResolver{r: r, service: t})
	if err != nil {
		if !fromCall {
			return reflect.Value{}, err
		}

		var panicErr *reflection.PanicError
		if errors.As(err, &panicErr) {
			return reflect.Value{}, ConstructorPanicError{ServiceType: t, Panic: panicErr.Value, Stack: panicErr.Stack}
		}

		return reflect.Value{}, ConstructorInvocationError{ServiceType: t, Constructor: ctor.Type, Cause: err}
	}

	if isNilValue(value) {
		return reflect.Value{}, ConstructorInvocationError{ServiceType: t, Constructor: ctor.Type, Cause: ErrInstanceNil}
	}

	return asServiceType(value, t), nil
}

func (r *resolution) createWithFactory(t reflect.Type, factory Factory) (any, error) {
	instance, err := reflection.Recover(factory.Create)
	if err != nil {
		var panicErr *reflection.PanicError
		if errors.As(err, &panicErr) {
			return nil, ConstructorPanicError{ServiceType: t, Panic: panicErr.Value, Stack: panicErr.Stack}
		}

		return nil, FactoryError{ServiceType: t, Factory: reflect.TypeOf(factory), Cause: err}
	}

	if instance == nil || isNilValue(reflect.ValueOf(instance)) {
		return nil, FactoryError{ServiceType: t, Factory: reflect.TypeOf(factory), Cause: ErrInstanceNil}
	}

	if actual := reflect.TypeOf(instance); !actual.AssignableTo(t) {
		return nil, TypeMismatchError{Expected: t, Actual: actual, Context: "factory result"}
	}
	instance = asServiceType(reflect.ValueOf(instance), t).Interface()

	r.container.logger.Debug("typedi: created by factory",
		"container", r.container.name,
		"type", t.String(),
		"factory", reflect.TypeOf(factory).String(),
	)

	return instance, nil
}

func (r *resolution) holds(t reflect.Type) bool {
	_, ok := r.held[t]
	return ok
}

func (r *resolution) hold(t reflect.Type) {
	if r.held == nil {
		r.held = make(map[reflect.Type]struct{})
	}
	r.held[t] = struct{}{}
}

func (r *resolution) release(t reflect.Type) {
	delete(r.held, t)
}

// argumentResolver supplies constructor arguments: parameters whose type is
// a registered service are resolved; the rest get their zero value, or fail
// when strict parameters are enabled.
type argumentResolver struct {
	r       *resolution
	service reflect.Type
}

func (a argumentResolver) ResolveArgument(param reflection.ParameterInfo) (reflect.Value, error) {
	c := a.r.container
	if !c.catalog.Contains(param.Type) {
		if c.config.StrictParameters {
			return reflect.Value{}, UnresolvableParameterError{
				ServiceType:   a.service,
				ParameterType: param.Type,
				Index:         param.Index,
			}
		}
		return reflect.Value{}, nil
	}

	value, err := a.r.get(param.Type)
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(value), nil
}

// constructionLock returns the mutex serializing singleton construction of t.
func (c *Container) constructionLock(t reflect.Type) *sync.Mutex {
	if mu, ok := c.locks.Load(t); ok {
		return mu.(*sync.Mutex)
	}

	mu, _ := c.locks.LoadOrStore(t, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// asServiceType converts an assignable value to t unless t is an interface,
// where the dynamic type is kept.
func asServiceType(v reflect.Value, t reflect.Type) reflect.Value {
	if t.Kind() == reflect.Interface || v.Type() == t {
		return v
	}

	return v.Convert(t)
}

func isNilValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}

	return false
}
