package typedi

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Container builds, wires and caches service instances. It owns a
// type-keyed instance cache for singletons and a string-keyed value store
// for tokens. Containers never consult each other.
//
// Container is safe for concurrent use.
type Container struct {
	id      uuid.UUID
	name    string
	catalog *Catalog
	config  Config
	logger  *slog.Logger

	store *instanceStore
	plans *planCache

	// locks holds one construction mutex per singleton type
	locks sync.Map // map[reflect.Type]*sync.Mutex

	closed atomic.Bool
}

// NewContainer creates an empty container resolving services from catalog.
//
// Example:
//
//	catalog := typedi.NewCatalog()
//	typedi.MustRegister[*Config](catalog, typedi.Global(), typedi.WithConstructor(LoadAppConfig))
//
//	c, err := typedi.NewContainer(catalog)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err := typedi.Resolve[*Config](c)
func NewContainer(catalog *Catalog, opts ...Option) (*Container, error) {
	if catalog == nil {
		return nil, ErrCatalogNil
	}

	return newContainer("", catalog, newOptions(opts)), nil
}

func newContainer(name string, catalog *Catalog, o *options) *Container {
	c := &Container{
		id:      uuid.New(),
		name:    name,
		catalog: catalog,
		config:  o.config,
		logger:  o.logger,
		store:   newInstanceStore(),
		plans:   newPlanCache(o.config.MarkerPolicy),
	}

	c.logger.Debug("typedi: container created",
		"container", name,
		"id", c.id.String(),
	)

	return c
}

// ID returns the unique identifier assigned at creation.
func (c *Container) ID() string {
	return c.id.String()
}

// Name returns the registry name of the container. The default container
// and containers built with NewContainer have an empty name.
func (c *Container) Name() string {
	return c.name
}

// Catalog returns the catalog the container resolves from.
func (c *Container) Catalog() *Catalog {
	return c.catalog
}

// Config returns the container configuration.
func (c *Container) Config() Config {
	return c.config
}

// Get resolves serviceType using its registered descriptor. Singletons are
// cached; transient services are constructed on every call.
// It fails with ErrUnknownDependency when serviceType is not registered.
func (c *Container) Get(serviceType reflect.Type) (any, error) {
	if c.closed.Load() {
		return nil, ErrContainerClosed
	}

	return c.newResolution().get(serviceType)
}

// GetWith resolves serviceType with an explicit lifetime and creation
// strategy, ignoring the descriptor's own settings. A nil factory or a
// NullFactory selects reflective construction. Unlike Get, serviceType does
// not need to be registered.
func (c *Container) GetWith(serviceType reflect.Type, singleton bool, factory Factory) (any, error) {
	if serviceType == nil {
		return nil, ErrServiceTypeNil
	}

	if c.closed.Load() {
		return nil, ErrContainerClosed
	}

	return c.newResolution().getWith(serviceType, singleton, factory)
}

// GetToken returns the value stored under token.
// It fails with ErrUnknownDependency when token was never set.
func (c *Container) GetToken(token string) (any, error) {
	if c.closed.Load() {
		return nil, ErrContainerClosed
	}

	value, ok := c.store.getValue(token)
	if !ok {
		return nil, UnknownDependencyError{Token: token}
	}

	return value, nil
}

// Set stores instance as the cached singleton of serviceType, bypassing
// construction. instance must be assignable to serviceType.
func (c *Container) Set(serviceType reflect.Type, instance any) error {
	if serviceType == nil {
		return ErrServiceTypeNil
	}

	if instance == nil || isNilValue(reflect.ValueOf(instance)) {
		return ErrInstanceNil
	}

	if c.closed.Load() {
		return ErrContainerClosed
	}

	value := reflect.ValueOf(instance)
	if !value.Type().AssignableTo(serviceType) {
		return TypeMismatchError{Expected: serviceType, Actual: value.Type(), Context: "set instance"}
	}

	if !c.store.setInstance(serviceType, asServiceType(value, serviceType).Interface(), false) {
		return ErrContainerClosed
	}

	return nil
}

// SetToken stores value under token, replacing any previous value.
func (c *Container) SetToken(token string, value any) error {
	if value == nil {
		return ErrInstanceNil
	}

	if c.closed.Load() {
		return ErrContainerClosed
	}

	if !c.store.setValue(token, value) {
		return ErrContainerClosed
	}

	return nil
}

// Has reports whether an instance of serviceType is cached.
func (c *Container) Has(serviceType reflect.Type) bool {
	return serviceType != nil && c.store.hasInstance(serviceType)
}

// HasToken reports whether a value is stored under token.
func (c *Container) HasToken(token string) bool {
	return c.store.hasValue(token)
}

// Remove evicts the cached instance of serviceType. The next Get of a
// singleton builds a fresh one. The evicted instance is not disposed.
func (c *Container) Remove(serviceType reflect.Type) {
	if serviceType == nil {
		return
	}

	c.store.deleteInstance(serviceType)
	c.logger.Debug("typedi: evicted",
		"container", c.name,
		"type", serviceType.String(),
	)
}

// RemoveToken deletes the value stored under token.
func (c *Container) RemoveToken(token string) {
	c.store.deleteValue(token)
	c.logger.Debug("typedi: evicted",
		"container", c.name,
		"token", token,
	)
}

// Reset empties the instance cache and the value store in one step.
// Cached instances are not disposed; use Close for that.
func (c *Container) Reset() {
	c.store.clear()
	c.logger.Debug("typedi: reset", "container", c.name)
}

// Types returns the types with a cached instance, in caching order.
func (c *Container) Types() []reflect.Type {
	return c.store.types()
}

// Tokens returns the tokens with a stored value, sorted.
func (c *Container) Tokens() []string {
	return c.store.tokens()
}

// Close empties the container and disposes the singletons it constructed,
// most recently cached first. Instances stored with Set are not disposed.
// After Close, resolution and store methods return ErrContainerClosed.
func (c *Container) Close() error {
	return c.CloseContext(context.Background())
}

// CloseContext is Close with a context handed to DisposableWithContext services.
func (c *Container) CloseContext(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	owned := c.store.close()
	c.logger.Debug("typedi: closing",
		"container", c.name,
		"instances", len(owned),
	)

	return disposeAll(ctx, "container", owned)
}

// IsClosed reports whether Close has been called.
func (c *Container) IsClosed() bool {
	return c.closed.Load()
}
