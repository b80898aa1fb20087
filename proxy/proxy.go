// proxy.go

package proxy

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/finbourne/identity-sdk-go/logger"
	"github.com/finbourne/identity-sdk-go/status"
	"go.uber.org/zap"
)

const ProxyAuthorizationHeader = "Proxy-Authorization"

// Config describes an HTTP proxy and the credentials used to answer its challenges.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// URL returns the proxy address as an http URL.
func (c Config) URL() (*url.URL, error) {
	if c.Host == "" {
		return nil, errors.New("proxy host is empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return nil, fmt.Errorf("proxy port %d is out of range", c.Port)
	}
	return &url.URL{Scheme: "http", Host: net.JoinHostPort(c.Host, strconv.Itoa(c.Port))}, nil
}

// HasCredentials reports whether a username or password was configured.
func (c Config) HasCredentials() bool {
	return c.Username != "" || c.Password != ""
}

// BasicCredential returns the Proxy-Authorization value for the configured username and password.
func BasicCredential(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// InitializeProxy routes httpClient through the proxy described by cfg. When credentials are set,
// plain HTTP requests answer a 407 challenge with a single authenticated retry, and CONNECT tunnels
// for HTTPS targets carry the credential up front.
func InitializeProxy(httpClient *http.Client, cfg Config, log logger.Logger) error {
	proxyURL, err := cfg.URL()
	if err != nil {
		log.Error("Failed to build proxy URL", zap.Error(err))
		return fmt.Errorf("invalid proxy configuration: %w", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyURL(proxyURL)

	if !cfg.HasCredentials() {
		httpClient.Transport = transport
		log.Info("Proxy configured", zap.String("ProxyURL", proxyURL.String()))
		return nil
	}

	credential := BasicCredential(cfg.Username, cfg.Password)
	transport.ProxyConnectHeader = http.Header{ProxyAuthorizationHeader: []string{credential}}
	httpClient.Transport = &Authenticator{
		Next:       transport,
		Credential: credential,
		Logger:     log,
	}

	log.Info("Proxy configured", zap.String("ProxyURL", proxyURL.String()), zap.Bool("Authenticated", true))
	return nil
}

// Authenticator is an http.RoundTripper answering proxy authentication challenges. A request that
// receives a 407 without carrying a Proxy-Authorization header is retried exactly once with Credential.
type Authenticator struct {
	Next       http.RoundTripper
	Credential string
	Logger     logger.Logger
}

// RoundTrip implements http.RoundTripper.
func (a *Authenticator) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := a.Next.RoundTrip(req)
	if err != nil || !status.IsProxyAuthChallenge(resp) {
		return resp, err
	}
	if req.Header.Get(ProxyAuthorizationHeader) != "" {
		return resp, nil
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		a.Logger.Warn("Proxy challenge received for a request whose body cannot be replayed", zap.String("url", req.URL.Redacted()))
		return resp, nil
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return resp, nil
		}
		retry.Body = body
	}
	retry.Header.Set(ProxyAuthorizationHeader, a.Credential)

	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	a.Logger.Debug("Answering proxy authentication challenge", zap.String("url", req.URL.Redacted()))
	return a.Next.RoundTrip(retry)
}
