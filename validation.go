package typedi

import (
	"errors"
)

// Validate checks every registered descriptor the way the first resolution
// would: constructor selection and inject markers under policy. Nothing is
// constructed. Resolution never calls Validate; it is an opt-in startup
// check that reports all problems at once.
//
// Example:
//
//	if err := catalog.Validate(typedi.MarkerFirst); err != nil {
//	    log.Fatal(err)
//	}
func (c *Catalog) Validate(policy MarkerPolicy) error {
	var errs []error

	for _, d := range c.Descriptors() {
		if err := validateDescriptor(d, policy); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// validateDescriptor reports whether d can be planned.
func validateDescriptor(d *Descriptor, policy MarkerPolicy) error {
	if d == nil || d.Type == nil {
		return ErrServiceTypeNil
	}

	if d.HasFactory() {
		if err := validateFactoryType(d.FactoryType); err != nil {
			return ValidationError{ServiceType: d.Type, Cause: err}
		}
		return nil
	}

	if _, err := selectConstructor(d); err != nil {
		return err
	}

	if _, err := injectableFields(d, policy); err != nil {
		return err
	}

	return nil
}
