package typedi

import (
	"reflect"
	"sort"
	"sync"

	"github.com/inventex/typedi/internal/reflection"
)

// Catalog is the table of service descriptors shared by containers. It
// replaces declarative markers with explicit registration: each service type
// is registered once, at startup, with its lifetime, optional factory,
// constructors and inject fields.
//
// Catalog is safe for concurrent use, but registrations are expected to
// happen before containers start resolving.
//
// Example:
//
//	catalog := typedi.NewCatalog()
//	typedi.Register[*Logger](catalog, typedi.Global(), typedi.WithConstructor(NewLogger))
//	typedi.Register[*UserService](catalog, typedi.InjectFields("Logger"))
//
//	registry, err := typedi.NewRegistry(catalog)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	users, err := typedi.Resolve[*UserService](registry)
type Catalog struct {
	mu sync.RWMutex

	// services stores descriptors by service type
	services map[reflect.Type]*Descriptor

	// order keeps registration order for Types
	order []reflect.Type

	analyzer *reflection.Analyzer
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		services: make(map[reflect.Type]*Descriptor),
		analyzer: reflection.New(),
	}
}

// Register adds a descriptor for serviceType.
func (c *Catalog) Register(serviceType reflect.Type, opts ...ServiceOption) error {
	d, err := newDescriptor(serviceType, c.analyzer, opts...)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[serviceType]; exists {
		return AlreadyRegisteredError{ServiceType: serviceType}
	}

	c.services[serviceType] = d
	c.order = append(c.order, serviceType)

	return nil
}

// AddModules applies one or more modules to the catalog.
func (c *Catalog) AddModules(modules ...ModuleOption) error {
	for _, module := range modules {
		if module == nil {
			continue
		}

		if err := module(c); err != nil {
			return err
		}
	}

	return nil
}

// Lookup returns the descriptor registered for t.
func (c *Catalog) Lookup(t reflect.Type) (*Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.services[t]
	return d, ok
}

// Contains checks if a service type is registered.
func (c *Catalog) Contains(t reflect.Type) bool {
	_, ok := c.Lookup(t)
	return ok
}

// Count returns the number of registered services.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.services)
}

// Types returns the registered service types in registration order.
func (c *Catalog) Types() []reflect.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()

	types := make([]reflect.Type, len(c.order))
	copy(types, c.order)
	return types
}

// Descriptors returns a copy of all descriptors sorted by type name.
// This is useful for inspection and debugging.
func (c *Catalog) Descriptors() []*Descriptor {
	c.mu.RLock()
	descriptors := make([]*Descriptor, 0, len(c.services))
	for _, d := range c.services {
		descriptors = append(descriptors, d)
	}
	c.mu.RUnlock()

	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Type.String() < descriptors[j].Type.String()
	})

	return descriptors
}

// Register adds a descriptor for T to the catalog.
//
// Example:
//
//	err := typedi.Register[*Cache](catalog, typedi.Global(), typedi.WithConstructor(NewCache))
func Register[T any](c *Catalog, opts ...ServiceOption) error {
	if c == nil {
		return ErrCatalogNil
	}

	return c.Register(typeOf[T](), opts...)
}

// MustRegister is like Register but panics on error. It suits package-level
// catalog setup where a bad registration is a programming error.
func MustRegister[T any](c *Catalog, opts ...ServiceOption) {
	if err := Register[T](c, opts...); err != nil {
		panic(err)
	}
}

// typeOf returns the reflect.Type of T, including interface types.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
