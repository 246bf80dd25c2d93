package typedi

import (
	"reflect"

	"github.com/inventex/typedi/internal/reflection"
)

// selectConstructor picks the constructor used to build d.Type.
//
// A single constructor is always used. With several, exactly one must have
// been registered through ConstructWith. A nil constructor with a nil error
// selects implicit construction, available to struct and pointer-to-struct
// types registered without constructors.
func selectConstructor(d *Descriptor) (*Constructor, error) {
	switch len(d.Constructors) {
	case 0:
		if _, ok := reflection.StructType(d.Type); !ok {
			return nil, ValidationError{ServiceType: d.Type, Cause: ErrNoConstructor}
		}
		return nil, nil
	case 1:
		return &d.Constructors[0], nil
	}

	var (
		selected  *Constructor
		preferred int
	)
	for i := range d.Constructors {
		if d.Constructors[i].Preferred {
			preferred++
			selected = &d.Constructors[i]
		}
	}

	if preferred != 1 {
		return nil, AmbiguousConstructionError{
			ServiceType: d.Type,
			Candidates:  len(d.Constructors),
			Preferred:   preferred,
		}
	}

	return selected, nil
}

// newZero allocates a zero instance of a struct or pointer-to-struct type.
func newZero(t reflect.Type) reflect.Value {
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem())
	}

	return reflect.New(t).Elem()
}
