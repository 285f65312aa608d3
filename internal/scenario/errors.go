package scenario

import (
	"errors"
	"fmt"
)

var (
	// ErrNoConfigResource is returned when a flow is run before any
	// configuration resource was declared.
	ErrNoConfigResource = errors.New("no configuration resource declared")
	// ErrSessionFailed is returned by every call made on a failed session.
	ErrSessionFailed = errors.New("scenario session already failed")
	// ErrConfigLoad matches every *ConfigLoadError.
	ErrConfigLoad = errors.New("configuration load failed")
	// ErrUnexpectedResultCount matches every *UnexpectedResultCountError.
	ErrUnexpectedResultCount = errors.New("unexpected result count")
)

// ConfigLoadError reports a failure to parse or build a configuration
// resource, including unknown extension names met while building it.
type ConfigLoadError struct {
	Resource string
	Err      error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("failed to load configuration '%s': %v", e.Resource, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

// Is matches ErrConfigLoad.
func (e *ConfigLoadError) Is(target error) bool { return target == ErrConfigLoad }

// UnexpectedResultCountError reports a flow whose result count differs from
// the expected count.
type UnexpectedResultCountError struct {
	Flow     string
	Expected int
	Actual   int
}

func (e *UnexpectedResultCountError) Error() string {
	return fmt.Sprintf("flow '%s': expected %d result(s), got %d", e.Flow, e.Expected, e.Actual)
}

// Is matches ErrUnexpectedResultCount.
func (e *UnexpectedResultCountError) Is(target error) bool {
	return target == ErrUnexpectedResultCount
}
