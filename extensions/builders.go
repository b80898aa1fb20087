// extensions/builders.go
package extensions

import (
	"fmt"

	"github.com/finbourne/identity-sdk-go/apiclient"
	"github.com/finbourne/identity-sdk-go/auth"
	"github.com/finbourne/identity-sdk-go/logger"
	"go.uber.org/zap"
)

// ApplicationHeader names the calling application in every request.
const ApplicationHeader = "X-LUSID-Application"

// ApiClientBuilder assembles a token-refreshing client handle from an ApiConfiguration.
type ApiClientBuilder struct {
	HttpClientFactory *HttpClientFactory
	Logger            logger.Logger
}

// NewApiClientBuilder creates a builder that logs to log, or discards logs when log is nil.
func NewApiClientBuilder(log logger.Logger) *ApiClientBuilder {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &ApiClientBuilder{
		HttpClientFactory: NewHttpClientFactory(log),
		Logger:            log,
	}
}

// Build validates cfg and returns a handle that authenticates every call, with either the personal
// access token or OAuth2 tokens obtained through the same proxy settings as the API calls.
func (b *ApiClientBuilder) Build(cfg ApiConfiguration) (apiclient.Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	httpClient, err := b.HttpClientFactory.Build(cfg)
	if err != nil {
		return nil, err
	}

	client := apiclient.NewClient(cfg.IdentityURL, httpClient,
		apiclient.WithLogger(b.Logger),
		apiclient.WithHideSensitiveData(cfg.HideSensitiveData),
	)
	if cfg.ApplicationName != "" {
		client.AddDefaultHeader(ApplicationHeader, cfg.ApplicationName)
	}

	var tokenProvider auth.TokenProvider
	if cfg.UsesPersonalAccessToken() {
		tokenProvider = auth.NewStaticTokenProvider(cfg.PersonalAccessToken)
	} else {
		tokenProvider = auth.NewRefreshingTokenProvider(auth.Credentials{
			TokenURL:     cfg.TokenURL,
			Username:     cfg.Username,
			Password:     cfg.Password,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
		},
			auth.WithHTTPClient(httpClient),
			auth.WithLogger(b.Logger),
			auth.WithHideSensitiveData(cfg.HideSensitiveData),
		)
	}

	b.Logger.Debug("Identity API client built",
		zap.String("identity_url", cfg.IdentityURL),
		zap.Bool("personal_access_token", cfg.UsesPersonalAccessToken()),
		zap.Bool("proxy", cfg.ProxyAddress != ""),
	)
	return NewRefreshingTokenApiClient(client, tokenProvider), nil
}

// BuildApiFactory builds an ApiFactory from cfg, logging with the configured level and format.
func BuildApiFactory(cfg ApiConfiguration) (*ApiFactory, error) {
	cfg.SetDefaultValues()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.BuildLogger(logger.ParseLogLevelFromString(cfg.LogLevel), cfg.LogOutputFormat)
	if err != nil {
		return nil, err
	}

	apiClient, err := NewApiClientBuilder(log).Build(cfg)
	if err != nil {
		return nil, err
	}
	return NewApiFactory(apiClient, WithLogger(log)), nil
}

// BuildApiFactoryFromSource loads the configuration from the secrets file at path, or from the
// environment when path is empty, and builds an ApiFactory.
func BuildApiFactoryFromSource(path string) (*ApiFactory, error) {
	cfg, err := LoadConfiguration(path)
	if err != nil {
		return nil, err
	}
	return BuildApiFactory(*cfg)
}
