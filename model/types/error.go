package types

import "fmt"

// NewMethodNotFoundError reports an unregistered method name.
func NewMethodNotFoundError(name string) error {
	return fmt.Errorf("method %v not found", name)
}

// NewInvalidInputError reports a body invoked with the wrong input type.
func NewInvalidInputError(in interface{}) error {
	return fmt.Errorf("invalid input %T", in)
}

// NewInvalidOutputError reports a body invoked with the wrong output type.
func NewInvalidOutputError(out interface{}) error {
	return fmt.Errorf("invalid output %T", out)
}
