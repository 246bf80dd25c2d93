package reflection_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/inventex/typedi/internal/reflection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapResolver resolves parameters from a map keyed by type.
type mapResolver struct {
	values map[reflect.Type]any
	err    error
	calls  []reflect.Type
}

func (m *mapResolver) ResolveArgument(param reflection.ParameterInfo) (reflect.Value, error) {
	m.calls = append(m.calls, param.Type)
	if m.err != nil {
		return reflect.Value{}, m.err
	}

	v, ok := m.values[param.Type]
	if !ok {
		return reflect.Value{}, nil
	}
	return reflect.ValueOf(v), nil
}

func analyze(t *testing.T, constructor any) *reflection.ConstructorInfo {
	t.Helper()

	info, err := reflection.New().Analyze(constructor)
	require.NoError(t, err)
	return info
}

func TestConstructorInvoker_Invoke(t *testing.T) {
	invoker := reflection.NewConstructorInvoker()
	db := &Database{ConnectionString: "memory"}
	logger := &ConsoleLogger{}

	t.Run("resolved arguments in order", func(t *testing.T) {
		loggerType := reflect.TypeOf((*Logger)(nil)).Elem()
		resolver := &mapResolver{values: map[reflect.Type]any{
			reflect.TypeOf(db): db,
			loggerType:         logger,
		}}

		value, fromCall, err := invoker.Invoke(analyze(t, NewUserService), resolver)
		require.NoError(t, err)
		assert.False(t, fromCall)

		svc := value.Interface().(*UserService)
		assert.Same(t, db, svc.DB)
		assert.Same(t, logger, svc.Logger)
		assert.Equal(t, []reflect.Type{reflect.TypeOf(db), loggerType}, resolver.calls)
	})

	t.Run("unresolved arguments are zero", func(t *testing.T) {
		value, _, err := invoker.Invoke(analyze(t, NewDatabase), &mapResolver{})
		require.NoError(t, err)
		assert.Empty(t, value.Interface().(*Database).ConnectionString)

		value, _, err = invoker.Invoke(analyze(t, NewUserService), &mapResolver{})
		require.NoError(t, err)
		svc := value.Interface().(*UserService)
		assert.Nil(t, svc.DB)
		assert.Nil(t, svc.Logger)
	})

	t.Run("resolver error is not from the call", func(t *testing.T) {
		resolveErr := errors.New("cannot resolve")

		_, fromCall, err := invoker.Invoke(analyze(t, NewDatabase), &mapResolver{err: resolveErr})
		assert.Same(t, resolveErr, err)
		assert.False(t, fromCall)
	})

	t.Run("returned error", func(t *testing.T) {
		_, fromCall, err := invoker.Invoke(analyze(t, NewUserServiceWithError), &mapResolver{})
		require.EqualError(t, err, "database is required")
		assert.True(t, fromCall)

		resolver := &mapResolver{values: map[reflect.Type]any{reflect.TypeOf(db): db}}
		value, fromCall, err := invoker.Invoke(analyze(t, NewUserServiceWithError), resolver)
		require.NoError(t, err)
		assert.False(t, fromCall)
		assert.Same(t, db, value.Interface().(*UserService).DB)
	})

	t.Run("panic", func(t *testing.T) {
		info := analyze(t, func() *Database { panic("no database") })

		_, fromCall, err := invoker.Invoke(info, &mapResolver{})
		assert.True(t, fromCall)

		var panicErr *reflection.PanicError
		require.ErrorAs(t, err, &panicErr)
		assert.Equal(t, "no database", panicErr.Value)
		assert.NotEmpty(t, panicErr.Stack)
		assert.Equal(t, "panic: no database", panicErr.Error())
	})
}

func TestRecover(t *testing.T) {
	result, err := reflection.Recover(func() (any, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, result)

	boom := errors.New("boom")
	_, err = reflection.Recover(func() (any, error) { return nil, boom })
	assert.Same(t, boom, err)

	_, err = reflection.Recover(func() (any, error) { panic(boom) })
	var panicErr *reflection.PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Same(t, boom, panicErr.Value)
}
