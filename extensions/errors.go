// extensions/errors.go
package extensions

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedConfiguration is matched when a requested API type is not recognized or cannot
	// be built from a client handle.
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")
	// ErrConstructionFailure is matched when a recognized API type failed to initialise.
	ErrConstructionFailure = errors.New("construction failure")
)

// UnsupportedOperationError is returned by ApiFactory when an API instance cannot be provided.
type UnsupportedOperationError struct {
	TypeName  string
	Namespace string
	Kind      error // ErrUnsupportedConfiguration or ErrConstructionFailure
	Msg       string
	Err       error
}

func (e *UnsupportedOperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap exposes the error kind and the underlying cause to errors.Is and errors.As.
func (e *UnsupportedOperationError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func notInNamespace(typeName, namespace string) *UnsupportedOperationError {
	return &UnsupportedOperationError{
		TypeName:  typeName,
		Namespace: namespace,
		Kind:      ErrUnsupportedConfiguration,
		Msg: fmt.Sprintf("%s is not a supported API type. Supported API types live in the %s package.",
			typeName, namespace),
	}
}

func missingConstructor(typeName, namespace string) *UnsupportedOperationError {
	return &UnsupportedOperationError{
		TypeName:  typeName,
		Namespace: namespace,
		Kind:      ErrUnsupportedConfiguration,
		Msg: fmt.Sprintf("%s has no single argument constructor taking in apiclient.Handle. Supported API types live in the %s package.",
			typeName, namespace),
	}
}

func constructionFailed(typeName, namespace string, err error) *UnsupportedOperationError {
	return &UnsupportedOperationError{
		TypeName:  typeName,
		Namespace: namespace,
		Kind:      ErrConstructionFailure,
		Msg:       fmt.Sprintf("construction of %s failed", typeName),
		Err:       err,
	}
}
