// extensions/refreshing_client.go
package extensions

import (
	"context"
	"errors"
	"net/http"

	"github.com/finbourne/identity-sdk-go/apiclient"
	"github.com/finbourne/identity-sdk-go/auth"
	"github.com/finbourne/identity-sdk-go/response"
)

// RefreshingTokenApiClient is an apiclient.Handle that sets the Authorization header of the handle
// it wraps from a fresh token before every call. It does not cache tokens; freshness is the
// provider's concern.
type RefreshingTokenApiClient struct {
	apiClient     apiclient.Handle
	tokenProvider auth.TokenProvider
}

var _ apiclient.Handle = (*RefreshingTokenApiClient)(nil)

// NewRefreshingTokenApiClient wraps apiClient, which performs the actual dispatch.
func NewRefreshingTokenApiClient(apiClient apiclient.Handle, tokenProvider auth.TokenProvider) *RefreshingTokenApiClient {
	return &RefreshingTokenApiClient{
		apiClient:     apiClient,
		tokenProvider: tokenProvider,
	}
}

// Dispatch fetches a token, sets "Bearer <token>" as the Authorization header of the wrapped handle
// and delegates the unchanged call. If no token can be obtained the call fails with an
// *response.APIError matching auth.ErrTokenAcquisition and the wrapped handle is not invoked.
func (c *RefreshingTokenApiClient) Dispatch(ctx context.Context, call *apiclient.Call) (*http.Response, error) {
	token, err := c.tokenProvider.Get()
	if err == nil && token == nil {
		err = &auth.TokenError{Op: "token provider returned no token"}
	}
	if err != nil {
		if !errors.Is(err, auth.ErrTokenAcquisition) {
			err = &auth.TokenError{Op: "token provider", Err: err}
		}
		return nil, response.NewClientError("failed to acquire access token", err)
	}

	c.setAccessToken(token)
	return c.apiClient.Dispatch(ctx, call)
}

func (c *RefreshingTokenApiClient) setAccessToken(token *auth.Token) {
	c.apiClient.AddDefaultHeader(apiclient.AuthorizationHeader, "Bearer "+token.AccessToken)
}

// AddDefaultHeader sets a default header on the inner handle.
func (c *RefreshingTokenApiClient) AddDefaultHeader(key, value string) {
	c.apiClient.AddDefaultHeader(key, value)
}

// DefaultHeader reads a default header from the inner handle.
func (c *RefreshingTokenApiClient) DefaultHeader(key string) string {
	return c.apiClient.DefaultHeader(key)
}

// BasePath returns the inner handle's base path.
func (c *RefreshingTokenApiClient) BasePath() string {
	return c.apiClient.BasePath()
}

// Unwrap returns the handle that performs the dispatch.
func (c *RefreshingTokenApiClient) Unwrap() apiclient.Handle {
	return c.apiClient
}
