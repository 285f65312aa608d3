package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFlowNotFound matches any *FlowNotFoundError.
	ErrFlowNotFound = errors.New("flow not found")
	// ErrProcessorFailed matches any *ProcessorError.
	ErrProcessorFailed = errors.New("processor failed")
)

// FlowNotFoundError reports a request for a flow the loaded configuration
// does not define.
type FlowNotFoundError struct {
	Flow      string
	Resource  string
	Available []string
}

func (e *FlowNotFoundError) Error() string {
	return fmt.Sprintf("flow '%s' is not defined in '%s' (available: %s)", e.Flow, e.Resource, strings.Join(e.Available, ", "))
}

// Is lets errors.Is match ErrFlowNotFound.
func (e *FlowNotFoundError) Is(target error) bool {
	return target == ErrFlowNotFound
}

// ProcessorError wraps the failure of one processor of a flow.
type ProcessorError struct {
	Flow    string
	Index   int
	Element string
	Err     error
}

func (e *ProcessorError) Error() string {
	return fmt.Sprintf("flow '%s', processor #%d (%s): %v", e.Flow, e.Index, e.Element, e.Err)
}

func (e *ProcessorError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrProcessorFailed.
func (e *ProcessorError) Is(target error) bool {
	return target == ErrProcessorFailed
}
