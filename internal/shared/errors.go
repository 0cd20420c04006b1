package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Storage errors
	ErrStoreUnavailable = fmt.Errorf("store unavailable")
	ErrDuplicateKey     = fmt.Errorf("duplicate key")
	ErrNotFound         = fmt.Errorf("record not found")

	// Input errors
	ErrUnreadableSource = fmt.Errorf("unable to read source")
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrMissingArgument  = fmt.Errorf("missing required argument")
	ErrInvalidArgument  = fmt.Errorf("invalid argument")
	ErrInvalidFlag      = fmt.Errorf("invalid flag value")
)
