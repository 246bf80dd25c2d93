// Package typedi provides an inversion-of-control container that builds,
// wires and caches service instances on demand.
//
// # Overview
//
// Services are registered once in a Catalog. Containers resolve them lazily:
//   - Two lifetimes: singleton (one instance per container) and transient
//   - Constructor injection with optional preferred-constructor selection
//   - Field injection, including unexported fields
//   - Custom factories that take over construction entirely
//   - A string-keyed value store for configuration and tokens
//   - A Registry of named containers plus a default container
//   - Thread-safe operations
//
// # Basic Usage
//
// Create a catalog, register your services, build a registry, and resolve:
//
//	catalog := typedi.NewCatalog()
//	typedi.MustRegister[*Logger](catalog, typedi.Global(), typedi.WithConstructor(NewLogger))
//	typedi.MustRegister[*UserService](catalog, typedi.WithConstructor(NewUserService))
//
//	registry, err := typedi.NewRegistry(catalog)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer registry.Close()
//
//	users, err := typedi.Resolve[*UserService](registry)
//
// # Lifetimes
//
// A service registered with Global is a singleton: the first resolution
// constructs it and every later resolution on the same container returns
// the cached instance until it is removed or the container is reset.
// Every other service is transient and is constructed on every resolution.
//
// # Constructors
//
// A service with one constructor always uses it. A service with several
// must mark exactly one with ConstructWith, otherwise resolution fails with
// ErrAmbiguousConstruction. Struct and pointer-to-struct services without
// constructors are built from their zero value.
//
// Constructor parameters whose type is a registered service are resolved
// recursively. Other parameters receive their zero value, unless
// WithStrictParameters is set:
//
//	func NewUserService(logger *Logger, retries int) *UserService {
//	    // logger is resolved, retries is 0
//	}
//
// # Field Injection
//
// After construction, fields listed with InjectFields or tagged with the
// inject marker are resolved and assigned:
//
//	type UserService struct {
//	    Logger *Logger `inject:""`
//	    repo   *UserRepository
//	}
//
//	typedi.MustRegister[*UserService](catalog, typedi.InjectFields("repo"))
//
// By default only the first key of a struct tag is inspected, so the marker
// is honored only when it comes first. WithMarkerPolicy selects MarkerAny or
// MarkerStrict instead.
//
// # Factories
//
// A service registered WithFactory is created by a fresh instance of the
// factory type on each construction. The factory is fully responsible for
// wiring: no field injection is applied to its output.
//
//	type ConnFactory struct{}
//
//	func (ConnFactory) Create() (any, error) { return Dial() }
//
//	typedi.MustRegister[*Conn](catalog, typedi.Global(), typedi.WithFactory[ConnFactory]())
//
// # Tokens
//
// Arbitrary values can be stored under a string token. Tokens are never
// constructed; they must be set before they are read:
//
//	registry.SetToken("dsn", "postgres://localhost/app")
//	dsn, err := typedi.Token[string](registry, "dsn")
//
// # Concurrency
//
// Containers are safe for concurrent use. The first construction of each
// singleton type runs under a per-type lock so concurrent callers observe a
// single instance. Dependency cycles are not detected: a cycle recurses
// until the stack is exhausted.
//
// # Error Handling
//
// Errors can be tested with errors.Is against the sentinel values and
// inspected with errors.As:
//
//	_, err := typedi.Resolve[*Missing](registry)
//	if errors.Is(err, typedi.ErrUnknownDependency) {
//	    // not registered
//	}
//
// Errors raised while resolving a dependency propagate unchanged to the
// top-level caller. A failed construction is never cached.
package typedi
