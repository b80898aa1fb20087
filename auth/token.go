// auth/token.go
/* Package auth provides the access tokens the identity SDK attaches to outbound calls. Providers are
synchronous: Get either returns a currently valid token or fails with an error wrapping ErrTokenAcquisition. */
package auth

import (
	"errors"
	"fmt"
	"time"
)

// ErrTokenAcquisition is matched by every error a TokenProvider returns.
var ErrTokenAcquisition = errors.New("unable to acquire access token")

// Token is an access credential plus its validity metadata.
type Token struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    time.Time // zero means the token does not expire
}

// Valid reports whether the token has a value and has not expired.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	return t.ExpiresAt.IsZero() || time.Now().Before(t.ExpiresAt)
}

// TokenProvider supplies a currently valid token on demand.
type TokenProvider interface {
	Get() (*Token, error)
}

// TokenError describes a failed token acquisition.
type TokenError struct {
	Op  string
	Err error
}

func (e *TokenError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, ErrTokenAcquisition)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrTokenAcquisition, e.Err)
}

// Unwrap exposes both ErrTokenAcquisition and the underlying cause.
func (e *TokenError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTokenAcquisition}
	}
	return []error{ErrTokenAcquisition, e.Err}
}
