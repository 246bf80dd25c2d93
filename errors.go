package typedi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// Typed errors below wrap or match these; test for them with errors.Is.

var (
	// Resolution errors.
	ErrUnknownDependency     = errors.New("unknown dependency")
	ErrAmbiguousConstruction = errors.New("ambiguous construction")
	ErrServiceTypeNil        = errors.New("service type cannot be nil")
	ErrUnresolvableParameter = errors.New("constructor parameter is not a service")
	ErrNoConstructor         = errors.New("service has no constructor")

	// Store errors.
	ErrInstanceNil     = errors.New("instance cannot be nil")
	ErrContainerClosed = errors.New("container has been closed")

	// Registration errors.
	ErrConstructorInvalid = errors.New("invalid constructor")
	ErrFactoryInvalid     = errors.New("factory type must implement typedi.Factory")
	ErrFieldNotFound      = errors.New("field not found")
	ErrMarkerConflict     = errors.New("inject marker must be the only tag on the field")

	// Wiring errors.
	ErrCatalogNil            = errors.New("catalog cannot be nil")
	ErrRegistryNil           = errors.New("registry cannot be nil")
	ErrContainerNotInContext = errors.New("no container found in context")
)

var (
	_ error = UnknownDependencyError{}
	_ error = AmbiguousConstructionError{}
	_ error = AlreadyRegisteredError{}
	_ error = RegistrationError{}
	_ error = ValidationError{}
	_ error = ModuleError{}
	_ error = TypeMismatchError{}
	_ error = ConstructorInvocationError{}
	_ error = ConstructorPanicError{}
	_ error = FactoryError{}
	_ error = FieldInjectionError{}
	_ error = UnresolvableParameterError{}
	_ error = DisposalError{}
	_ error = ConfigError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// UnknownDependencyError is returned when a type has no service descriptor
// or a token was never set.
type UnknownDependencyError struct {
	ServiceType reflect.Type   // nil for token lookups
	Token       string         // empty for type lookups
	Available   []reflect.Type // registered types, used for suggestions
}

func (e UnknownDependencyError) Error() string {
	var b strings.Builder

	if e.ServiceType == nil {
		b.WriteString(fmt.Sprintf("unknown dependency: %q", e.Token))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("unknown dependency: %s is not a service", formatType(e.ServiceType)))

	if similar := findSimilarTypes(e.ServiceType, e.Available); len(similar) > 0 {
		b.WriteString("\n\nDid you mean one of these?\n")
		for _, t := range similar {
			b.WriteString(fmt.Sprintf("  • %s\n", formatType(t)))
		}
	}

	return b.String()
}

func (e UnknownDependencyError) Is(target error) bool {
	return target == ErrUnknownDependency
}

// findSimilarTypes finds types with similar names using a simple substring match.
func findSimilarTypes(target reflect.Type, available []reflect.Type) []reflect.Type {
	if target == nil || len(available) == 0 {
		return nil
	}

	targetName := target.String()
	targetShortName := shortName(target)

	var similar []reflect.Type
	for _, t := range available {
		if t == nil || t == target {
			continue
		}

		typeName := t.String()
		typeShortName := shortName(t)

		if targetShortName == typeShortName ||
			strings.Contains(strings.ToLower(typeName), strings.ToLower(targetShortName)) ||
			strings.Contains(strings.ToLower(targetName), strings.ToLower(typeShortName)) {
			similar = append(similar, t)
		}

		if len(similar) >= 5 {
			break
		}
	}

	return similar
}

func shortName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}

	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}

// AmbiguousConstructionError indicates a service with several constructors
// where not exactly one carries the preferred marker.
type AmbiguousConstructionError struct {
	ServiceType reflect.Type
	Candidates  int
	Preferred   int
}

func (e AmbiguousConstructionError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("ambiguous construction: %s has %d constructors and %d marked preferred\n\n",
		formatType(e.ServiceType), e.Candidates, e.Preferred))

	b.WriteString("To resolve this:\n")
	if e.Preferred == 0 {
		b.WriteString("  • Register exactly one constructor with typedi.ConstructWith\n")
	} else {
		b.WriteString("  • Keep typedi.ConstructWith on one constructor and use typedi.WithConstructor for the others\n")
	}

	return b.String()
}

func (e AmbiguousConstructionError) Is(target error) bool {
	return target == ErrAmbiguousConstruction
}

// AlreadyRegisteredError indicates a service type is already in the catalog.
type AlreadyRegisteredError struct {
	ServiceType reflect.Type
}

func (e AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("service %s already registered", formatType(e.ServiceType))
}

// RegistrationError wraps errors during service registration.
type RegistrationError struct {
	ServiceType reflect.Type
	Operation   string // "constructor", "factory", "inject-field"
	Cause       error
}

func (e RegistrationError) Error() string {
	return fmt.Sprintf("failed to register %s (%s): %v", formatType(e.ServiceType), e.Operation, e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// ValidationError indicates a validation failure.
type ValidationError struct {
	ServiceType reflect.Type
	Cause       error
}

func (e ValidationError) Error() string {
	if e.ServiceType != nil {
		return fmt.Sprintf("%s: %v", formatType(e.ServiceType), e.Cause)
	}
	return e.Cause.Error()
}

func (e ValidationError) Unwrap() error {
	return e.Cause
}

// ModuleError wraps errors from module registration.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError indicates a value is not assignable to the requested type.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
	Context  string // "factory result", "set instance", "type assertion", etc.
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Context, formatType(e.Expected), formatType(e.Actual))
}

// ConstructorInvocationError wraps an error returned by a constructor.
type ConstructorInvocationError struct {
	ServiceType reflect.Type
	Constructor reflect.Type
	Cause       error
}

func (e ConstructorInvocationError) Error() string {
	return fmt.Sprintf("failed to construct %s with %s: %v",
		formatType(e.ServiceType), formatType(e.Constructor), e.Cause)
}

func (e ConstructorInvocationError) Unwrap() error {
	return e.Cause
}

// ConstructorPanicError indicates a constructor or factory panicked.
// It captures the panic value and stack trace for debugging.
type ConstructorPanicError struct {
	ServiceType reflect.Type
	Panic       any
	Stack       []byte
}

func (e ConstructorPanicError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("constructing %s panicked: %v\n", formatType(e.ServiceType), e.Panic))

	if len(e.Stack) > 0 {
		b.WriteString("\nStack trace:\n")
		b.Write(e.Stack)
	}

	return b.String()
}

// FactoryError wraps an error returned by a custom factory.
type FactoryError struct {
	ServiceType reflect.Type
	Factory     reflect.Type
	Cause       error
}

func (e FactoryError) Error() string {
	return fmt.Sprintf("factory %s failed to create %s: %v", formatType(e.Factory), formatType(e.ServiceType), e.Cause)
}

func (e FactoryError) Unwrap() error {
	return e.Cause
}

// FieldInjectionError reports a field that cannot take part in injection.
type FieldInjectionError struct {
	ServiceType reflect.Type
	Field       string
	Cause       error
}

func (e FieldInjectionError) Error() string {
	return fmt.Sprintf("cannot inject %s.%s: %v", formatType(e.ServiceType), e.Field, e.Cause)
}

func (e FieldInjectionError) Unwrap() error {
	return e.Cause
}

// UnresolvableParameterError is returned in strict parameter mode when a
// constructor parameter type has no service descriptor.
type UnresolvableParameterError struct {
	ServiceType   reflect.Type
	ParameterType reflect.Type
	Index         int
}

func (e UnresolvableParameterError) Error() string {
	return fmt.Sprintf("parameter %d (%s) of %s constructor is not a service",
		e.Index, formatType(e.ParameterType), formatType(e.ServiceType))
}

func (e UnresolvableParameterError) Is(target error) bool {
	return target == ErrUnresolvableParameter
}

// DisposalError aggregates disposal errors.
type DisposalError struct {
	Context string // "container", "registry"
	Errors  []error
}

func (e DisposalError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s disposal failed: %v", e.Context, e.Errors[0])
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s disposal failed with %d errors:", e.Context, len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
	}
	return sb.String()
}

func (e DisposalError) Unwrap() []error {
	return e.Errors
}

// ConfigError reports an environment value that cannot be parsed.
type ConfigError struct {
	Key   string
	Value string
	Cause error
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid %s=%q: %v", e.Key, e.Value, e.Cause)
}

func (e ConfigError) Unwrap() error {
	return e.Cause
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Func:
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
