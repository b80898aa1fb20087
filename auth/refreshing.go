// auth/refreshing.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/finbourne/identity-sdk-go/headers/redact"
	"github.com/finbourne/identity-sdk-go/logger"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultScopes are requested on every password grant. offline_access yields a refresh token.
var DefaultScopes = []string{"openid", "client", "offline_access"}

// DefaultTokenTimeout bounds each request to the token endpoint.
const DefaultTokenTimeout = 30 * time.Second

// Credentials are the OAuth2 resource-owner credentials used to obtain tokens.
type Credentials struct {
	TokenURL     string
	Username     string
	Password     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// RefreshingTokenProvider obtains tokens with the OAuth2 password grant and renews them with the
// refresh token once they expire. If the refresh is rejected it falls back to a fresh password grant.
type RefreshingTokenProvider struct {
	credentials       Credentials
	config            *oauth2.Config
	httpClient        *http.Client
	timeout           time.Duration
	hideSensitiveData bool
	Logger            logger.Logger

	tokenLock sync.Mutex
	current   *oauth2.Token
}

// RefreshingTokenProviderOption configures a RefreshingTokenProvider.
type RefreshingTokenProviderOption func(*RefreshingTokenProvider)

// WithHTTPClient routes token requests through httpClient, typically the proxy-aware client built
// for the API itself.
func WithHTTPClient(httpClient *http.Client) RefreshingTokenProviderOption {
	return func(p *RefreshingTokenProvider) {
		p.httpClient = httpClient
	}
}

// WithLogger sets the logger used to report token grants and refresh failures.
func WithLogger(log logger.Logger) RefreshingTokenProviderOption {
	return func(p *RefreshingTokenProvider) {
		p.Logger = log
	}
}

// WithHideSensitiveData redacts token values in debug logs.
func WithHideSensitiveData(hide bool) RefreshingTokenProviderOption {
	return func(p *RefreshingTokenProvider) {
		p.hideSensitiveData = hide
	}
}

// NewRefreshingTokenProvider creates a provider for the given credentials. No token is requested
// until the first call to Get.
func NewRefreshingTokenProvider(credentials Credentials, opts ...RefreshingTokenProviderOption) *RefreshingTokenProvider {
	scopes := credentials.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	p := &RefreshingTokenProvider{
		credentials: credentials,
		config: &oauth2.Config{
			ClientID:     credentials.ClientID,
			ClientSecret: credentials.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  credentials.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: scopes,
		},
		timeout: DefaultTokenTimeout,
		Logger:  logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns the cached token while it is valid, refreshing or re-acquiring it otherwise.
func (p *RefreshingTokenProvider) Get() (*Token, error) {
	p.tokenLock.Lock()
	defer p.tokenLock.Unlock()

	if p.current.Valid() {
		return toToken(p.current), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}

	if p.current != nil && p.current.RefreshToken != "" {
		refreshed, err := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: p.current.RefreshToken}).Token()
		if err == nil {
			return p.store(refreshed, "refresh_token"), nil
		}
		p.Logger.Warn("Token refresh rejected, requesting a new token", zap.Error(err))
	}

	token, err := p.config.PasswordCredentialsToken(ctx, p.credentials.Username, p.credentials.Password)
	if err != nil {
		p.current = nil
		return nil, &TokenError{Op: "password grant", Err: describeTokenError(err)}
	}
	return p.store(token, "password"), nil
}

func (p *RefreshingTokenProvider) store(token *oauth2.Token, grant string) *Token {
	if token.RefreshToken == "" && p.current != nil {
		token.RefreshToken = p.current.RefreshToken
	}
	p.current = token
	p.Logger.Info("Access token obtained", zap.String("grant_type", grant), zap.Time("expiry", token.Expiry))
	// The token value itself is only ever written at debug level.
	p.Logger.Debug("Access token value",
		zap.String("AccessToken", redact.RedactSensitiveHeaderData(p.hideSensitiveData, "AccessToken", token.AccessToken)),
	)
	return toToken(token)
}

func toToken(t *oauth2.Token) *Token {
	return &Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.Type(),
		ExpiresAt:    t.Expiry,
	}
}

// describeTokenError keeps the status code and OAuth error code of a token endpoint rejection.
func describeTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil && retrieveErr.ErrorCode != "" {
		return &TokenEndpointError{
			StatusCode:  retrieveErr.Response.StatusCode,
			ErrorCode:   retrieveErr.ErrorCode,
			Description: retrieveErr.ErrorDescription,
			Err:         err,
		}
	}
	return err
}
