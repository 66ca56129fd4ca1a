package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrTransport matches any failed exchange with a backend.
	ErrTransport = errors.New("transport error")
	// ErrTimeout matches calls that ran past their deadline.
	ErrTimeout = errors.New("timed out")
	// ErrNotFound matches lookups of ids the backend does not know.
	ErrNotFound = errors.New("task not found")
)

// TransportError is a non-success response or a network/storage failure.
type TransportError struct {
	Op     string
	ID     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	msg := "gateway: " + e.Op
	if e.ID != "" {
		msg += " " + e.ID
	}
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: HTTP %d %s: %v", msg, e.Status, http.StatusText(e.Status), e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: HTTP %d %s", msg, e.Status, http.StatusText(e.Status))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	default:
		return msg + ": " + ErrTransport.Error()
	}
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError is a call abandoned at its deadline. It counts as a transport
// failure too.
type TimeoutError struct {
	Op    string
	ID    string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	msg := "gateway: " + e.Op
	if e.ID != "" {
		msg += " " + e.ID
	}
	return fmt.Sprintf("%s: timed out after %s", msg, e.After)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == ErrTransport
}

func (e *TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// NotFoundError reports an id the backend does not hold.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("gateway: task %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Message renders err for display in a view: short, without the package
// prefix.
func Message(err error) string {
	var nf *NotFoundError
	var te *TimeoutError
	var tr *TransportError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &nf):
		return "task not found"
	case errors.As(err, &te):
		return fmt.Sprintf("%s timed out", te.Op)
	case errors.As(err, &tr) && tr.Status != 0:
		return fmt.Sprintf("HTTP %d: network problems", tr.Status)
	case errors.As(err, &tr):
		return "network problems"
	default:
		return err.Error()
	}
}
