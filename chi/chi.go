// Package chi provides typedi integration for the Chi router.
//
// This package provides middleware that selects a named container from a
// typedi.Registry for each request and type-safe handler wrappers that
// resolve controllers from it.
//
// Example usage:
//
//	registry, _ := typedi.NewRegistry(catalog)
//
//	r := chi.NewRouter()
//	r.Route("/tenants/{tenant}", func(r chi.Router) {
//	    r.Use(typedichi.Middleware(registry, typedichi.WithURLParam("tenant")))
//	    r.Get("/users/{id}", typedichi.Handle(UserController.GetByID))
//	})
package chi

import (
	"log/slog"
	"net/http"

	gochi "github.com/go-chi/chi/v5"

	"github.com/inventex/typedi"
)

// Config holds the configuration for the container middleware.
type Config struct {
	// NameFunc picks the container name for a request. The empty name
	// selects the registry's default container.
	NameFunc func(*http.Request) string

	// ErrorHandler is called when the selected container cannot serve the
	// request or a middleware fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)

	// Middlewares are functions that run after the container is selected.
	// They can be used to seed request data into the container, etc.
	Middlewares []func(*typedi.Container, *http.Request) error
}

// Option configures the container middleware.
type Option func(*Config)

// WithURLParam selects the container named by a chi URL parameter. The
// middleware must be mounted where the parameter is already routed, such
// as inside r.Route or with r.With.
func WithURLParam(param string) Option {
	return func(c *Config) {
		c.NameFunc = func(r *http.Request) string {
			return gochi.URLParam(r, param)
		}
	}
}

// WithNameFunc sets a custom container selector.
func WithNameFunc(fn func(*http.Request) string) Option {
	return func(c *Config) {
		c.NameFunc = fn
	}
}

// WithErrorHandler sets the error handler for container selection failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithMiddleware adds a middleware function that runs after container selection.
// Multiple middlewares are executed in the order they are added.
func WithMiddleware(mw func(*typedi.Container, *http.Request) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	return &Config{
		NameFunc: func(*http.Request) string { return "" },
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to select container", "error", err, "path", r.URL.Path)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
}

// Middleware creates a Chi middleware that attaches a container from reg
// to each request context. The container can be retrieved using
// typedi.FromContext.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(typedichi.Middleware(registry))
func Middleware(reg *typedi.Registry, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if reg == nil {
				cfg.ErrorHandler(w, r, typedi.ErrRegistryNil)
				return
			}

			container := reg.Of(cfg.NameFunc(r))
			if container.IsClosed() {
				cfg.ErrorHandler(w, r, typedi.ErrContainerClosed)
				return
			}

			r = r.WithContext(typedi.WithContainer(r.Context(), container))

			for _, mw := range cfg.Middlewares {
				if err := mw(container, r); err != nil {
					cfg.ErrorHandler(w, r, err)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(http.ResponseWriter, *http.Request, any)

	// ContainerErrorHandler is called when no container is attached to the request.
	ContainerErrorHandler func(http.ResponseWriter, *http.Request, error)

	// ResolutionErrorHandler is called when service resolution fails.
	ResolutionErrorHandler func(http.ResponseWriter, *http.Request, error)
}

// HandlerOption configures the Handle wrapper.
type HandlerOption func(*HandlerConfig)

// WithPanicRecovery enables or disables panic recovery in the handler.
func WithPanicRecovery(enabled bool) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicRecovery = enabled
	}
}

// WithPanicHandler sets the handler for panics.
func WithPanicHandler(h func(http.ResponseWriter, *http.Request, any)) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithContainerErrorHandler sets the error handler for missing containers.
func WithContainerErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ContainerErrorHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for service resolution failures.
func WithResolutionErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ResolutionErrorHandler = h
	}
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		PanicRecovery: false,
		PanicHandler: func(w http.ResponseWriter, r *http.Request, v any) {
			slog.Error("panic in handler", "panic", v)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		ContainerErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to get container from context", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		ResolutionErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to resolve controller", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
}

// Handle wraps a controller method for type-safe resolution from the
// request's container. The controller type T must be registered in the
// registry's catalog.
//
// The method signature should be: func(T, http.ResponseWriter, *http.Request)
//
// Example:
//
//	r.Get("/users/{id}", typedichi.Handle((*UserController).GetByID))
func Handle[T any](method func(T, http.ResponseWriter, *http.Request), opts ...HandlerOption) http.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					cfg.PanicHandler(w, r, v)
				}
			}()
		}

		container, err := typedi.FromContext(r.Context())
		if err != nil {
			cfg.ContainerErrorHandler(w, r, err)
			return
		}

		controller, err := typedi.Resolve[T](container)
		if err != nil {
			cfg.ResolutionErrorHandler(w, r, err)
			return
		}

		method(controller, w, r)
	}
}
