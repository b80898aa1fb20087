// redirecthandler/redirecthandler.go
// Package redirecthandler keeps bearer and proxy credentials from following a redirect to another host.
package redirecthandler

import (
	"fmt"
	"net/http"

	"github.com/finbourne/identity-sdk-go/logger"
	"go.uber.org/zap"
)

// DefaultMaxRedirects matches the net/http client limit.
const DefaultMaxRedirects = 10

// RedirectHandler is the redirect policy installed on identity API clients.
type RedirectHandler struct {
	Logger           logger.Logger
	MaxRedirects     int
	SensitiveHeaders []string // removed on cross-host redirects
}

// NewRedirectHandler creates a policy following at most maxRedirects redirects.
func NewRedirectHandler(log logger.Logger, maxRedirects int) *RedirectHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &RedirectHandler{
		Logger:           log,
		MaxRedirects:     maxRedirects,
		SensitiveHeaders: []string{"Authorization", "Proxy-Authorization", "Cookie"},
	}
}

// WithRedirectHandling applies the redirect policy to an http.Client.
func (r *RedirectHandler) WithRedirectHandling(client *http.Client) {
	client.CheckRedirect = r.checkRedirect
}

func (r *RedirectHandler) checkRedirect(req *http.Request, via []*http.Request) error {
	if req.Method == http.MethodPost || req.Method == http.MethodPatch {
		r.Logger.Warn("Redirect attempted on non-idempotent method, not following", zap.String("method", req.Method))
		return http.ErrUseLastResponse
	}

	if len(via) >= r.MaxRedirects {
		r.Logger.Warn("Maximum redirects reached", zap.Int("maxRedirects", r.MaxRedirects))
		return &MaxRedirectsError{MaxRedirects: r.MaxRedirects}
	}

	for _, previous := range via {
		if previous.URL.String() == req.URL.String() {
			return &RedirectLoopError{URL: req.URL.String()}
		}
	}

	// net/http copies headers set on the original request onto the redirect, including the
	// bearer token the client added itself.
	if req.URL.Host != via[0].URL.Host {
		for _, header := range r.SensitiveHeaders {
			req.Header.Del(header)
		}
	}

	r.Logger.Debug("Redirecting request",
		zap.String("originalURL", via[len(via)-1].URL.String()),
		zap.String("newURL", req.URL.String()),
		zap.Int("redirectCount", len(via)),
	)
	return nil
}

// RedirectLoopError is returned when a redirect points back at a URL already visited.
type RedirectLoopError struct {
	URL string
}

func (e *RedirectLoopError) Error() string {
	return fmt.Sprintf("redirect loop detected at %s", e.URL)
}

// MaxRedirectsError is returned when the redirect chain exceeds MaxRedirects.
type MaxRedirectsError struct {
	MaxRedirects int
}

func (e *MaxRedirectsError) Error() string {
	return fmt.Sprintf("maximum redirects reached: %d", e.MaxRedirects)
}

// SetupRedirectHandler installs the redirect policy, or refuses all redirects when maxRedirects is zero.
func SetupRedirectHandler(client *http.Client, maxRedirects int, log logger.Logger) error {
	if maxRedirects < 0 {
		return fmt.Errorf("invalid maxRedirects value: %d", maxRedirects)
	}
	if maxRedirects == 0 {
		client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
		return nil
	}
	NewRedirectHandler(log, maxRedirects).WithRedirectHandling(client)
	return nil
}
