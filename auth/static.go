// auth/static.go
package auth

// StaticTokenProvider returns the same non-expiring token on every call. It backs personal access
// token authentication.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider wraps a personal access token.
func NewStaticTokenProvider(accessToken string) *StaticTokenProvider {
	return &StaticTokenProvider{token: accessToken}
}

// Get returns the configured token, or an error if none was configured.
func (p *StaticTokenProvider) Get() (*Token, error) {
	if p.token == "" {
		return nil, &TokenError{Op: "personal access token"}
	}
	return &Token{AccessToken: p.token, TokenType: "Bearer"}, nil
}
