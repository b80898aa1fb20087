// extensions/httpclient_factory.go
package extensions

import (
	"fmt"
	"net/http"

	"github.com/finbourne/identity-sdk-go/logger"
	"github.com/finbourne/identity-sdk-go/proxy"
	"github.com/finbourne/identity-sdk-go/redirecthandler"
)

// HttpClientFactory builds the *http.Client used to reach the identity API.
type HttpClientFactory struct {
	Logger logger.Logger
}

// NewHttpClientFactory creates a factory that logs proxy setup to log, or discards logs when log is nil.
func NewHttpClientFactory(log logger.Logger) *HttpClientFactory {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &HttpClientFactory{Logger: log}
}

// Build returns a client routed through the configured proxy, answering its authentication
// challenges with the configured proxy credentials. Without a proxy address the client connects
// directly. A proxy configured without a username or password is used for routing only and gets
// no authenticator. Redirects to another host drop the bearer token. Timeouts and TLS settings keep the
// net/http defaults.
func (f *HttpClientFactory) Build(cfg ApiConfiguration) (*http.Client, error) {
	httpClient := &http.Client{}
	if err := redirecthandler.SetupRedirectHandler(httpClient, redirecthandler.DefaultMaxRedirects, f.Logger); err != nil {
		return nil, err
	}

	if cfg.ProxyAddress != "" {
		proxyConfig := proxy.Config{
			Host:     cfg.ProxyAddress,
			Port:     cfg.ProxyPort,
			Username: cfg.ProxyUsername,
			Password: cfg.ProxyPassword,
		}
		if err := proxy.InitializeProxy(httpClient, proxyConfig, f.Logger); err != nil {
			return nil, fmt.Errorf("failed to configure proxy: %w", err)
		}
		return httpClient, nil
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	httpClient.Transport = transport
	return httpClient, nil
}
