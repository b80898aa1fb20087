package auth

import "fmt"

// TokenEndpointError is an OAuth2 error response from the token endpoint.
type TokenEndpointError struct {
	StatusCode  int
	ErrorCode   string
	Description string
	Err         error
}

func (e *TokenEndpointError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("token endpoint returned %d: %s", e.StatusCode, e.ErrorCode)
	}
	return fmt.Sprintf("token endpoint returned %d: %s (%s)", e.StatusCode, e.ErrorCode, e.Description)
}

func (e *TokenEndpointError) Unwrap() error {
	return e.Err
}
