package typedi

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// Shared Test Types
// ============================================================================

// TLogger is a dependency-free service.
type TLogger struct {
	ID     int64
	Prefix string
}

// TConfig is a dependency-free service.
type TConfig struct {
	DSN string
}

// TService depends on TLogger and TConfig through its constructor.
type TService struct {
	Logger *TLogger
	Config *TConfig
	Retry  int
}

// TInterface is a basic interface for testing.
type TInterface interface {
	GetID() int64
}

func (l *TLogger) GetID() int64 { return l.ID }

// TInjected receives its dependencies through fields.
type TInjected struct {
	Logger *TLogger `inject:""`
	config *TConfig `inject:""`
	Skip   *TLogger
	Off    *TLogger `inject:"-"`
}

// TValueService is a struct-valued service with an injected field.
type TValueService struct {
	Logger *TLogger `inject:""`
	Name   string
}

// TDisposable records its Close calls.
type TDisposable struct {
	Name     string
	closed   atomic.Bool
	closeErr error
	record   *closeRecorder
}

func (d *TDisposable) Close() error {
	if d.closed.Swap(true) {
		return errors.New("already closed")
	}
	if d.record != nil {
		d.record.add(d.Name)
	}
	return d.closeErr
}

func (d *TDisposable) IsClosed() bool {
	return d.closed.Load()
}

type closeRecorder struct {
	mu    sync.Mutex
	names []string
}

func (r *closeRecorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
}

func (r *closeRecorder) order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

// TA and TB form the factory scenario: TA is a singleton built by a factory
// that assigns its own TB; TB is transient and reflectively constructed.
type TA struct {
	B *TB `inject:""`
}

type TB struct {
	ID int64
}

type TAFactory struct{}

func (TAFactory) Create() (any, error) {
	return &TA{B: &TB{ID: -1}}, nil
}

// TMulti has two constructors.
type TMulti struct {
	Value int
}

// ============================================================================
// Shared Constructors
// ============================================================================

var instanceCounter atomic.Int64

func nextID() int64 {
	return instanceCounter.Add(1)
}

func NewTLogger() *TLogger {
	return &TLogger{ID: nextID(), Prefix: "test"}
}

func NewTConfig() *TConfig {
	return &TConfig{DSN: "memory://"}
}

func NewTService(logger *TLogger, config *TConfig, retry int) *TService {
	return &TService{Logger: logger, Config: config, Retry: retry}
}

func NewTB() *TB {
	return &TB{ID: nextID()}
}

// ============================================================================
// Helpers
// ============================================================================

var (
	tLoggerType   = reflect.TypeOf((*TLogger)(nil))
	tConfigType   = reflect.TypeOf((*TConfig)(nil))
	tServiceType  = reflect.TypeOf((*TService)(nil))
	tInjectedType = reflect.TypeOf((*TInjected)(nil))
	tAType        = reflect.TypeOf((*TA)(nil))
	tBType        = reflect.TypeOf((*TB)(nil))
)

// discardLogger returns a logger that drops every record.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestCatalog registers the shared services.
func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	c := NewCatalog()
	require.NoError(t, Register[*TLogger](c, Global(), WithConstructor(NewTLogger)))
	require.NoError(t, Register[*TConfig](c, Global(), WithConstructor(NewTConfig)))
	require.NoError(t, Register[*TService](c, WithConstructor(NewTService)))
	require.NoError(t, Register[*TInjected](c))
	require.NoError(t, Register[*TA](c, Global(), WithFactory[TAFactory]()))
	require.NoError(t, Register[*TB](c, WithConstructor(NewTB)))
	return c
}

// newTestContainer creates a container over catalog with a silent logger.
func newTestContainer(t *testing.T, catalog *Catalog, opts ...Option) *Container {
	t.Helper()

	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	c, err := NewContainer(catalog, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return c
}
