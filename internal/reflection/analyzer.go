package reflection

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

var (
	ErrConstructorNil      = errors.New("constructor cannot be nil")
	ErrNotFunction         = errors.New("constructor must be a function")
	ErrVariadic            = errors.New("variadic constructors are not supported")
	ErrNoResult            = errors.New("constructor must return a value")
	ErrTooManyResults      = errors.New("constructor must return at most 2 values")
	ErrInvalidSecondResult = errors.New("constructor's second return value must be error")
)

// Analyzer performs reflection-based analysis of constructor functions.
// Signatures are cached per function type; the function value itself is
// never cached because closures of the same type share a code pointer.
type Analyzer struct {
	mu    sync.RWMutex
	cache map[reflect.Type]*Signature
}

// Signature is the type-level shape of a constructor.
type Signature struct {
	Parameters     []ParameterInfo
	Result         reflect.Type
	HasErrorReturn bool
}

// ConstructorInfo is an analyzed constructor: its callable value and signature.
type ConstructorInfo struct {
	*Signature

	Type  reflect.Type
	Value reflect.Value
}

// ParameterInfo describes a constructor parameter.
type ParameterInfo struct {
	Type  reflect.Type
	Index int
}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{
		cache: make(map[reflect.Type]*Signature),
	}
}

// Analyze validates a constructor function and extracts its signature.
func (a *Analyzer) Analyze(constructor any) (*ConstructorInfo, error) {
	if constructor == nil {
		return nil, ErrConstructorNil
	}

	val := reflect.ValueOf(constructor)
	typ := val.Type()
	if typ.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w, got %s", ErrNotFunction, typ)
	}

	if val.IsNil() {
		return nil, ErrConstructorNil
	}

	a.mu.RLock()
	sig, ok := a.cache[typ]
	a.mu.RUnlock()

	if !ok {
		var err error
		sig, err = analyzeSignature(typ)
		if err != nil {
			return nil, err
		}

		a.mu.Lock()
		if cached, exists := a.cache[typ]; exists {
			sig = cached
		} else {
			a.cache[typ] = sig
		}
		a.mu.Unlock()
	}

	return &ConstructorInfo{
		Signature: sig,
		Type:      typ,
		Value:     val,
	}, nil
}

func analyzeSignature(fnType reflect.Type) (*Signature, error) {
	if fnType.IsVariadic() {
		return nil, ErrVariadic
	}

	switch fnType.NumOut() {
	case 0:
		return nil, ErrNoResult
	case 1, 2:
	default:
		return nil, ErrTooManyResults
	}

	sig := &Signature{
		Parameters: make([]ParameterInfo, fnType.NumIn()),
		Result:     fnType.Out(0),
	}

	if implementsError(sig.Result) && fnType.NumOut() == 1 {
		return nil, ErrNoResult
	}

	if fnType.NumOut() == 2 {
		if fnType.Out(1) != errType {
			return nil, ErrInvalidSecondResult
		}
		sig.HasErrorReturn = true
	}

	for i := 0; i < fnType.NumIn(); i++ {
		sig.Parameters[i] = ParameterInfo{
			Type:  fnType.In(i),
			Index: i,
		}
	}

	return sig, nil
}

// Clear clears the signature cache.
func (a *Analyzer) Clear() {
	a.mu.Lock()
	a.cache = make(map[reflect.Type]*Signature)
	a.mu.Unlock()
}

// CacheSize returns the number of cached signatures.
func (a *Analyzer) CacheSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.cache)
}

// implementsError checks if a type implements the error interface.
func implementsError(t reflect.Type) bool {
	return t.Implements(errType)
}
