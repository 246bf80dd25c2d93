package typedi

import (
	"context"
	"fmt"
)

// disposeAll closes every disposable instance in reverse order (LIFO),
// collecting failures into a DisposalError.
func disposeAll(ctx context.Context, label string, instances []any) error {
	var errs []error

	for i := len(instances) - 1; i >= 0; i-- {
		if err := dispose(ctx, instances[i]); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return DisposalError{Context: label, Errors: errs}
	}

	return nil
}

func dispose(ctx context.Context, instance any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispose %T panicked: %v", instance, r)
		}
	}()

	switch d := instance.(type) {
	case DisposableWithContext:
		if err := d.Close(ctx); err != nil {
			return fmt.Errorf("dispose %T: %w", instance, err)
		}
	case Disposable:
		if err := d.Close(); err != nil {
			return fmt.Errorf("dispose %T: %w", instance, err)
		}
	}

	return nil
}
