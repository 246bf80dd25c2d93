package typedi

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
)

// Registry maps names to containers and owns one unnamed default container.
// It is an ordinary value: create one at startup and pass it to the code
// that needs it.
//
// Named containers are created on first access with the registry's options
// and share its catalog.
//
// Example:
//
//	registry, err := typedi.NewRegistry(catalog)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer registry.Close()
//
//	users, err := typedi.Resolve[*UserService](registry)
//	tenant := registry.Of("tenant-a")
type Registry struct {
	catalog    *Catalog
	options    *options
	defaultCtr *Container

	containers sync.Map // map[string]*Container
}

// NewRegistry creates a registry and its default container.
func NewRegistry(catalog *Catalog, opts ...Option) (*Registry, error) {
	if catalog == nil {
		return nil, ErrCatalogNil
	}

	o := newOptions(opts)

	return &Registry{
		catalog:    catalog,
		options:    o,
		defaultCtr: newContainer("", catalog, o),
	}, nil
}

// Of returns the container registered under name, creating an empty one
// on first access. The empty name selects the default container.
func (r *Registry) Of(name string) *Container {
	if name == "" {
		return r.defaultCtr
	}

	if c, ok := r.containers.Load(name); ok {
		return c.(*Container)
	}

	created := newContainer(name, r.catalog, r.options)
	actual, loaded := r.containers.LoadOrStore(name, created)
	if !loaded {
		r.options.logger.Debug("typedi: registered container", "container", name)
	}

	return actual.(*Container)
}

// Default returns the default container.
func (r *Registry) Default() *Container {
	return r.defaultCtr
}

// Names returns the names of the containers created so far, sorted.
func (r *Registry) Names() []string {
	var names []string
	r.containers.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})

	sort.Strings(names)
	return names
}

// Catalog returns the catalog shared by the registry's containers.
func (r *Registry) Catalog() *Catalog {
	return r.catalog
}

// Get resolves serviceType from the default container.
func (r *Registry) Get(serviceType reflect.Type) (any, error) {
	return r.defaultCtr.Get(serviceType)
}

// GetWith resolves serviceType from the default container with an explicit
// lifetime and factory.
func (r *Registry) GetWith(serviceType reflect.Type, singleton bool, factory Factory) (any, error) {
	return r.defaultCtr.GetWith(serviceType, singleton, factory)
}

// GetToken returns a token value from the default container.
func (r *Registry) GetToken(token string) (any, error) {
	return r.defaultCtr.GetToken(token)
}

// Set stores a singleton instance in the default container.
func (r *Registry) Set(serviceType reflect.Type, instance any) error {
	return r.defaultCtr.Set(serviceType, instance)
}

// SetToken stores a token value in the default container.
func (r *Registry) SetToken(token string, value any) error {
	return r.defaultCtr.SetToken(token, value)
}

// Has reports whether the default container caches serviceType.
func (r *Registry) Has(serviceType reflect.Type) bool {
	return r.defaultCtr.Has(serviceType)
}

// HasToken reports whether the default container stores token.
func (r *Registry) HasToken(token string) bool {
	return r.defaultCtr.HasToken(token)
}

// Remove evicts serviceType from the default container.
func (r *Registry) Remove(serviceType reflect.Type) {
	r.defaultCtr.Remove(serviceType)
}

// RemoveToken deletes token from the default container.
func (r *Registry) RemoveToken(token string) {
	r.defaultCtr.RemoveToken(token)
}

// Reset empties the default container. Named containers are untouched.
func (r *Registry) Reset() {
	r.defaultCtr.Reset()
}

// Close closes every named container and then the default container.
func (r *Registry) Close() error {
	return r.CloseContext(context.Background())
}

// CloseContext is Close with a context handed to disposable services.
func (r *Registry) CloseContext(ctx context.Context) error {
	var errs []error

	for _, name := range r.Names() {
		if c, ok := r.containers.Load(name); ok {
			if err := c.(*Container).CloseContext(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if err := r.defaultCtr.CloseContext(ctx); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return DisposalError{Context: "registry", Errors: flattenDisposal(errs)}
	}

	return nil
}

func flattenDisposal(errs []error) []error {
	var flat []error
	for _, err := range errs {
		var de DisposalError
		if errors.As(err, &de) {
			flat = append(flat, de.Errors...)
			continue
		}
		flat = append(flat, err)
	}
	return flat
}
