package catalog

import (
	"errors"
	"fmt"

	"github.com/desertthunder/moviedb/internal/models"
)

var (
	// ErrRejected matches every [RejectionError].
	ErrRejected       = errors.New("request rejected")
	ErrInvalidValue   = errors.New("invalid value")
	ErrDuplicateTitle = errors.New("duplicate title")
	ErrNotFound       = errors.New("movie not found")
	ErrUnknownField   = models.ErrUnknownField
	ErrTypeMismatch   = models.ErrTypeMismatch
)

// Reason classifies why the manager rejected a request.
type Reason int

const (
	ReasonInvalidValue Reason = iota
	ReasonDuplicateTitle
	ReasonNotFound
	ReasonUnknownField
	ReasonTypeMismatch
)

func (r Reason) String() string {
	switch r {
	case ReasonInvalidValue:
		return "invalid_value"
	case ReasonDuplicateTitle:
		return "duplicate_title"
	case ReasonNotFound:
		return "not_found"
	case ReasonUnknownField:
		return "unknown_field"
	case ReasonTypeMismatch:
		return "type_mismatch"
	default:
		return "rejected"
	}
}

func (r Reason) sentinel() error {
	switch r {
	case ReasonInvalidValue:
		return ErrInvalidValue
	case ReasonDuplicateTitle:
		return ErrDuplicateTitle
	case ReasonNotFound:
		return ErrNotFound
	case ReasonUnknownField:
		return ErrUnknownField
	case ReasonTypeMismatch:
		return ErrTypeMismatch
	default:
		return nil
	}
}

// RejectionError reports a request the catalog refused without touching the store.
type RejectionError struct {
	Reason  Reason
	Field   models.Field // FieldUnknown when the rejection is not about one field
	Message string
}

func (e *RejectionError) Error() string {
	if e.Field != models.FieldUnknown {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Is matches [ErrRejected] and the sentinel for the rejection's reason.
func (e *RejectionError) Is(target error) bool {
	return target == ErrRejected || target == e.Reason.sentinel()
}

func invalid(f models.Field, format string, args ...any) error {
	return &RejectionError{Reason: ReasonInvalidValue, Field: f, Message: fmt.Sprintf(format, args...)}
}

func duplicate(title string) error {
	return &RejectionError{
		Reason:  ReasonDuplicateTitle,
		Field:   models.FieldTitle,
		Message: fmt.Sprintf("a movie titled %q already exists", title),
	}
}

func notFound(title string) error {
	return &RejectionError{Reason: ReasonNotFound, Message: fmt.Sprintf("no movie titled %q", title)}
}

// fromFieldError converts a field parsing error into a rejection.
func fromFieldError(err error) error {
	switch {
	case errors.Is(err, models.ErrUnknownField):
		return &RejectionError{Reason: ReasonUnknownField, Message: err.Error()}
	case errors.Is(err, models.ErrTypeMismatch):
		return &RejectionError{Reason: ReasonTypeMismatch, Message: err.Error()}
	default:
		return err
	}
}

// IsRejection reports whether err is a catalog rejection and returns it.
func IsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
