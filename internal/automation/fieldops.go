package automation

import (
	"context"
	"fmt"
	"log"
)

// FieldOp writes one profile field.
type FieldOp struct {
	Name  string
	Apply func(ctx context.Context, b Browser) error
}

// FieldError records a field that could not be written.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("failed to update %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// RunFieldOps applies ops in order. A failing op is logged and skipped so the
// remaining fields are still attempted. It stops early only when ctx is done.
func RunFieldOps(ctx context.Context, b Browser, ops []FieldOp, logger *log.Logger) (applied []string, failed []*FieldError) {
	for _, op := range ops {
		if ctx.Err() != nil {
			failed = append(failed, &FieldError{Field: op.Name, Err: ctx.Err()})
			continue
		}
		if err := op.Apply(ctx, b); err != nil {
			logger.Printf("[AUTOMATION] %s not updated: %v", op.Name, err)
			failed = append(failed, &FieldError{Field: op.Name, Err: err})
			continue
		}
		logger.Printf("[AUTOMATION] %s updated", op.Name)
		applied = append(applied, op.Name)
	}
	return applied, failed
}

// steps chains browser actions, stopping at the first error.
func steps(ctx context.Context, actions ...func(context.Context) error) error {
	for _, act := range actions {
		if err := act(ctx); err != nil {
			return err
		}
	}
	return nil
}
