package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName matches any *DuplicateNameError.
	ErrDuplicateName = errors.New("extension name already registered")
	// ErrUnknownName matches any *UnknownNameError.
	ErrUnknownName = errors.New("extension name not registered")
	// ErrEmptyName is returned when registering an empty extension name.
	ErrEmptyName = errors.New("extension name must not be empty")
	// ErrNilFactory is returned when registering a nil factory.
	ErrNilFactory = errors.New("extension factory must not be nil")
)

// DuplicateNameError reports a second registration of an extension name
// within one registry.
type DuplicateNameError struct {
	Namespace string
	Name      string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("namespace '%s': extension '%s' already registered", e.Namespace, e.Name)
}

// Is lets errors.Is match ErrDuplicateName.
func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

// UnknownNameError reports a lookup of an extension name that was never
// registered.
type UnknownNameError struct {
	Namespace string
	Name      string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("namespace '%s': no extension registered for '%s'", e.Namespace, e.Name)
}

// Is lets errors.Is match ErrUnknownName.
func (e *UnknownNameError) Is(target error) bool {
	return target == ErrUnknownName
}
