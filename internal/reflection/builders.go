package reflection

import (
	"fmt"
	"reflect"
	"runtime/debug"
)

// ArgumentResolver supplies a value for each constructor parameter.
// This will be implemented by the container's resolution path.
type ArgumentResolver interface {
	ResolveArgument(param ParameterInfo) (reflect.Value, error)
}

// PanicError reports a panic raised while invoking a constructor.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ConstructorInvoker invokes constructors with resolved arguments.
type ConstructorInvoker struct{}

// NewConstructorInvoker creates a new constructor invoker.
func NewConstructorInvoker() *ConstructorInvoker {
	return &ConstructorInvoker{}
}

// Invoke resolves the arguments of info and calls it.
// Argument resolution errors are returned unchanged. A returned constructor
// error is returned unchanged as well; callers tell them apart with the
// second boolean result, which is true when the error came from the call.
func (ci *ConstructorInvoker) Invoke(info *ConstructorInfo, resolver ArgumentResolver) (reflect.Value, bool, error) {
	args := make([]reflect.Value, len(info.Parameters))
	for i, param := range info.Parameters {
		value, err := resolver.ResolveArgument(param)
		if err != nil {
			return reflect.Value{}, false, err
		}

		if !value.IsValid() {
			value = reflect.Zero(param.Type)
		}

		args[i] = value
	}

	results, err := call(info.Value, args)
	if err != nil {
		return reflect.Value{}, true, err
	}

	if info.HasErrorReturn {
		if last := results[len(results)-1]; !last.IsNil() {
			return reflect.Value{}, true, last.Interface().(error)
		}
	}

	return results[0], false, nil
}

// call invokes fn and turns a panic into a *PanicError.
func call(fn reflect.Value, args []reflect.Value) (results []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	return fn.Call(args), nil
}

// Recover runs fn and turns a panic into a *PanicError.
func Recover(fn func() (any, error)) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	return fn()
}
