// apiclient/handle.go
/* Package apiclient holds the client handle shared by every identity API type. A handle carries the base
path of the identity API and a set of default headers (including Authorization), and dispatches calls
built by the API types. */
package apiclient

import (
	"context"
	"net/http"
)

// Handle is the capability every API instance delegates its calls to. Handles are shared by reference,
// and any holder may change the default headers.
type Handle interface {
	// Dispatch sends the call and returns the successful response. Non-2xx responses are
	// returned as *response.APIError.
	Dispatch(ctx context.Context, call *Call) (*http.Response, error)
	// AddDefaultHeader sets a header sent with every subsequent call, replacing any previous value.
	AddDefaultHeader(key, value string)
	// DefaultHeader returns the current value of a default header.
	DefaultHeader(key string) string
	// BasePath returns the root URL of the identity API.
	BasePath() string
}

// Pair is a single query parameter.
type Pair struct {
	Name  string
	Value string
}

// Call describes one identity API operation as built by an API type.
type Call struct {
	Path                  string
	Method                string
	QueryParams           []Pair
	CollectionQueryParams []Pair
	Body                  any
	HeaderParams          map[string]string
	CookieParams          map[string]string
	FormParams            map[string]any
	// AuthNames lists the auth schemes the operation accepts. Calls with none are sent without
	// the Authorization default header.
	AuthNames []string
	// Callback, when set, is invoked once with the outcome of the call.
	Callback func(resp *http.Response, err error)
}
