package reflection_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/inventex/typedi/internal/reflection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test types
type Database struct {
	ConnectionString string
}

type Logger interface {
	Log(msg string)
}

type ConsoleLogger struct{}

func (c *ConsoleLogger) Log(msg string) {}

type UserService struct {
	DB     *Database
	Logger Logger
}

// Test constructors
func NewDatabase(connStr string) *Database {
	return &Database{ConnectionString: connStr}
}

func NewUserService(db *Database, logger Logger) *UserService {
	return &UserService{DB: db, Logger: logger}
}

func NewUserServiceWithError(db *Database) (*UserService, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	return &UserService{DB: db}, nil
}

func TestAnalyzer_Analyze(t *testing.T) {
	tests := []struct {
		name        string
		constructor any
		params      []reflect.Type
		result      reflect.Type
		hasError    bool
	}{
		{
			name:        "no parameters",
			constructor: func() *Database { return &Database{} },
			result:      reflect.TypeOf(&Database{}),
		},
		{
			name:        "value parameter",
			constructor: NewDatabase,
			params:      []reflect.Type{reflect.TypeOf("")},
			result:      reflect.TypeOf(&Database{}),
		},
		{
			name:        "interface parameter",
			constructor: NewUserService,
			params:      []reflect.Type{reflect.TypeOf(&Database{}), reflect.TypeOf((*Logger)(nil)).Elem()},
			result:      reflect.TypeOf(&UserService{}),
		},
		{
			name:        "error return",
			constructor: NewUserServiceWithError,
			params:      []reflect.Type{reflect.TypeOf(&Database{})},
			result:      reflect.TypeOf(&UserService{}),
			hasError:    true,
		},
		{
			name:        "interface result",
			constructor: func() Logger { return &ConsoleLogger{} },
			result:      reflect.TypeOf((*Logger)(nil)).Elem(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := reflection.New().Analyze(tt.constructor)
			require.NoError(t, err)

			assert.Equal(t, tt.result, info.Result)
			assert.Equal(t, tt.hasError, info.HasErrorReturn)
			assert.Equal(t, reflect.TypeOf(tt.constructor), info.Type)

			require.Len(t, info.Parameters, len(tt.params))
			for i, p := range info.Parameters {
				assert.Equal(t, i, p.Index)
				assert.Equal(t, tt.params[i], p.Type)
			}
		})
	}
}

func TestAnalyzer_AnalyzeErrors(t *testing.T) {
	var nilFunc func() *Database

	tests := []struct {
		name        string
		constructor any
		wantErr     error
	}{
		{"nil", nil, reflection.ErrConstructorNil},
		{"nil function", nilFunc, reflection.ErrConstructorNil},
		{"not a function", "NewDatabase", reflection.ErrNotFunction},
		{"variadic", func(...string) *Database { return nil }, reflection.ErrVariadic},
		{"no result", func() {}, reflection.ErrNoResult},
		{"only error", func() error { return nil }, reflection.ErrNoResult},
		{"too many results", func() (*Database, *Database, error) { return nil, nil, nil }, reflection.ErrTooManyResults},
		{"second result not error", func() (*Database, string) { return nil, "" }, reflection.ErrInvalidSecondResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reflection.New().Analyze(tt.constructor)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAnalyzer_Cache(t *testing.T) {
	a := reflection.New()

	first, err := a.Analyze(NewDatabase)
	require.NoError(t, err)
	assert.Equal(t, 1, a.CacheSize())

	// Closures of one type share a signature but keep their own value
	one := func() *Database { return &Database{ConnectionString: "one"} }
	two := func() *Database { return &Database{ConnectionString: "two"} }

	infoOne, err := a.Analyze(one)
	require.NoError(t, err)
	infoTwo, err := a.Analyze(two)
	require.NoError(t, err)

	assert.Equal(t, 2, a.CacheSize())
	assert.Same(t, infoOne.Signature, infoTwo.Signature)
	assert.Equal(t, "one", infoOne.Value.Call(nil)[0].Interface().(*Database).ConnectionString)
	assert.Equal(t, "two", infoTwo.Value.Call(nil)[0].Interface().(*Database).ConnectionString)

	again, err := a.Analyze(NewDatabase)
	require.NoError(t, err)
	assert.Same(t, first.Signature, again.Signature)

	a.Clear()
	assert.Zero(t, a.CacheSize())
}

func TestAnalyzer_Concurrent(t *testing.T) {
	a := reflection.New()

	var wg sync.WaitGroup
	signatures := make([]*reflection.Signature, 32)
	for i := range signatures {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			info, err := a.Analyze(NewUserService)
			if err == nil {
				signatures[i] = info.Signature
			}
		}(i)
	}
	wg.Wait()

	for _, sig := range signatures {
		require.NotNil(t, sig)
		assert.Same(t, signatures[0], sig)
	}
	assert.Equal(t, 1, a.CacheSize())
}
