package app

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/todo/pkg/gateway"
	"tableflip.dev/todo/pkg/task"
)

var (
	// ErrPartialBatch matches a delete-all where at least one deletion failed.
	ErrPartialBatch = errors.New("app: delete-all partially failed")
	// ErrNotConfirmed is returned when delete-all was declined or no
	// confirmation step was available.
	ErrNotConfirmed = errors.New("app: delete-all not confirmed")
	// ErrWatchUnsupported is returned by Watch for backends that cannot
	// report external changes.
	ErrWatchUnsupported = errors.New("app: backend does not support watching")
)

// BatchError reports the deletions of a delete-all that did not succeed. The
// collection is left as it was when a BatchError is returned.
type BatchError struct {
	Total  int
	Failed []gateway.Result
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("app: delete-all: %d of %d deletions failed", len(e.Failed), e.Total)
}

func (e *BatchError) Is(target error) bool { return target == ErrPartialBatch }

func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, r := range e.Failed {
		errs = append(errs, r.Err)
	}
	return errs
}

// IDs lists the ids whose deletion failed.
func (e *BatchError) IDs() []string {
	ids := make([]string, 0, len(e.Failed))
	for _, r := range e.Failed {
		ids = append(ids, r.ID)
	}
	return ids
}

// Confirmer is the explicit confirmation step in front of delete-all.
type Confirmer interface {
	Confirm(ctx context.Context, count int) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, count int) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, count int) (bool, error) {
	return f(ctx, count)
}

// Yes confirms every request. It backs --yes style flags.
var Yes Confirmer = ConfirmFunc(func(context.Context, int) (bool, error) { return true, nil })

// Message renders err for a view.
func Message(err error) string {
	var be *BatchError
	var ve *task.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Reason.Error()
	case errors.As(err, &be):
		return fmt.Sprintf("%d of %d tasks could not be deleted", len(be.Failed), be.Total)
	case errors.Is(err, ErrNotConfirmed):
		return "delete-all cancelled"
	default:
		return gateway.Message(err)
	}
}
