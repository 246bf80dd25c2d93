package typedi

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/inventex/typedi/internal/reflection"
)

// Descriptor marks a type as constructible by a container. It carries the
// singleton/transient choice, the optional factory type, the candidate
// constructors, and the explicitly marked inject fields.
//
// Descriptors are immutable once registered. Containers consult them lazily,
// the first time a type is resolved.
type Descriptor struct {
	// Type is the service type this descriptor produces
	Type reflect.Type

	// Singleton caches one instance per container; false means transient
	Singleton bool

	// FactoryType names a Factory implementation; nil means no factory
	FactoryType reflect.Type

	// Constructors are the candidate constructors, in registration order
	Constructors []Constructor

	// InjectFields are field names marked for injection
	InjectFields []string
}

// Constructor is an analyzed constructor function plus its preferred marker.
type Constructor struct {
	*reflection.ConstructorInfo

	Preferred bool
}

// HasFactory reports whether the descriptor names a non-sentinel factory.
func (d *Descriptor) HasFactory() bool {
	return !isNullFactoryType(d.FactoryType)
}

func (d *Descriptor) String() string {
	lifetime := "transient"
	if d.Singleton {
		lifetime = "singleton"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s (%s", formatType(d.Type), lifetime))
	if d.HasFactory() {
		b.WriteString(fmt.Sprintf(", factory %s", formatType(d.FactoryType)))
	}
	if n := len(d.Constructors); n > 0 {
		b.WriteString(fmt.Sprintf(", %d constructors", n))
	}
	b.WriteString(")")

	return b.String()
}

// A ServiceOption configures a descriptor during registration.
type ServiceOption interface {
	applyServiceOption(*serviceOptions)
}

type serviceOptions struct {
	Singleton    bool
	FactoryType  reflect.Type
	Constructors []constructorOption
	InjectFields []string
}

type constructorOption struct {
	fn        any
	preferred bool
}

// Global is a ServiceOption that makes the service a singleton: one
// instance is cached per container and reused.
func Global() ServiceOption {
	return globalOption{}
}

type globalOption struct{}

func (globalOption) String() string { return "Global()" }

func (globalOption) applyServiceOption(opts *serviceOptions) {
	opts.Singleton = true
}

// WithFactory is a ServiceOption naming the factory type used to create the
// service. A fresh F is built from its zero value on every resolution of an
// uncached instance.
//
//	type ConnFactory struct{}
//
//	func (ConnFactory) Create() (any, error) { return dial() }
//
//	typedi.Register[*Conn](catalog, typedi.Global(), typedi.WithFactory[ConnFactory]())
func WithFactory[F Factory]() ServiceOption {
	return factoryOption{t: reflect.TypeOf((*F)(nil)).Elem()}
}

type factoryOption struct {
	t reflect.Type
}

func (o factoryOption) String() string {
	return fmt.Sprintf("WithFactory[%s]()", o.t)
}

func (o factoryOption) applyServiceOption(opts *serviceOptions) {
	opts.FactoryType = o.t
}

// WithConstructor is a ServiceOption adding a candidate constructor. The
// constructor must return the service (or a value assignable to it),
// optionally followed by an error.
//
// A service with a single constructor always uses it. A service with several
// must mark exactly one with ConstructWith.
func WithConstructor(fn any) ServiceOption {
	return constructorOption{fn: fn}
}

// ConstructWith is a ServiceOption adding the preferred constructor, used
// when a service has more than one.
func ConstructWith(fn any) ServiceOption {
	return constructorOption{fn: fn, preferred: true}
}

func (o constructorOption) String() string {
	if o.preferred {
		return fmt.Sprintf("ConstructWith(%T)", o.fn)
	}
	return fmt.Sprintf("WithConstructor(%T)", o.fn)
}

func (o constructorOption) applyServiceOption(opts *serviceOptions) {
	opts.Constructors = append(opts.Constructors, o)
}

// InjectFields is a ServiceOption marking fields for injection after
// reflective construction. Unexported fields are allowed.
func InjectFields(names ...string) ServiceOption {
	return injectOption(names)
}

type injectOption []string

func (o injectOption) String() string {
	return fmt.Sprintf("InjectFields(%s)", strings.Join(o, ", "))
}

func (o injectOption) applyServiceOption(opts *serviceOptions) {
	opts.InjectFields = append(opts.InjectFields, o...)
}

// newDescriptor validates opts against serviceType and builds a descriptor.
func newDescriptor(serviceType reflect.Type, analyzer *reflection.Analyzer, opts ...ServiceOption) (*Descriptor, error) {
	if serviceType == nil {
		return nil, ErrServiceTypeNil
	}

	options := &serviceOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt.applyServiceOption(options)
		}
	}

	d := &Descriptor{
		Type:      serviceType,
		Singleton: options.Singleton,
	}

	if !isNullFactoryType(options.FactoryType) {
		if err := validateFactoryType(options.FactoryType); err != nil {
			return nil, RegistrationError{ServiceType: serviceType, Operation: "factory", Cause: err}
		}
		d.FactoryType = options.FactoryType
	}

	for _, c := range options.Constructors {
		info, err := analyzer.Analyze(c.fn)
		if err != nil {
			return nil, RegistrationError{
				ServiceType: serviceType,
				Operation:   "constructor",
				Cause:       fmt.Errorf("%w: %w", ErrConstructorInvalid, err),
			}
		}

		if !info.Result.AssignableTo(serviceType) {
			return nil, RegistrationError{
				ServiceType: serviceType,
				Operation:   "constructor",
				Cause: TypeMismatchError{
					Expected: serviceType,
					Actual:   info.Result,
					Context:  "constructor result",
				},
			}
		}

		d.Constructors = append(d.Constructors, Constructor{ConstructorInfo: info, Preferred: c.preferred})
	}

	for _, name := range options.InjectFields {
		if _, ok := reflection.FieldByName(serviceType, name); !ok {
			return nil, RegistrationError{
				ServiceType: serviceType,
				Operation:   "inject-field",
				Cause:       fmt.Errorf("%w: %q", ErrFieldNotFound, name),
			}
		}
		d.InjectFields = append(d.InjectFields, name)
	}

	return d, nil
}
