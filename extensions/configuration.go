// extensions/configuration.go
// Description: loading, defaulting and validation of the settings used to reach the identity API.
package extensions

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"

	"github.com/finbourne/identity-sdk-go/logger"
)

const (
	DefaultLogLevelString        = "LogLevelInfo"
	DefaultLogOutputFormatString = logger.LogOutputHumanReadable
)

// Environment variables read by LoadConfigurationFromEnv.
const (
	EnvIdentityURL   = "FBN_IDENTITY_API_URL"
	EnvTokenURL      = "FBN_TOKEN_URL"
	EnvUsername      = "FBN_USERNAME"
	EnvPassword      = "FBN_PASSWORD"
	EnvClientID      = "FBN_CLIENT_ID"
	EnvClientSecret  = "FBN_CLIENT_SECRET"
	EnvAppName       = "FBN_APP_NAME"
	EnvAccessToken   = "FBN_ACCESS_TOKEN"
	EnvProxyAddress  = "FBN_PROXY_ADDRESS"
	EnvProxyPort     = "FBN_PROXY_PORT"
	EnvProxyUsername = "FBN_PROXY_USERNAME"
	EnvProxyPassword = "FBN_PROXY_PASSWORD"

	EnvLogLevel          = "FBN_LOG_LEVEL"
	EnvLogOutputFormat   = "FBN_LOG_OUTPUT_FORMAT"
	EnvHideSensitiveData = "FBN_HIDE_SENSITIVE_DATA"
)

// ApiConfiguration holds everything needed to reach the identity API.
type ApiConfiguration struct {
	IdentityURL string

	// OAuth2 password grant
	TokenURL     string
	Username     string
	Password     string
	ClientID     string
	ClientSecret string

	// PersonalAccessToken takes precedence over the OAuth2 credentials when set.
	PersonalAccessToken string
	ApplicationName     string

	// Proxy
	ProxyAddress  string
	ProxyPort     int
	ProxyUsername string
	ProxyPassword string

	// Log
	LogLevel          string
	LogOutputFormat   string
	HideSensitiveData bool
}

// secretsFile mirrors the JSON secrets file layout.
type secretsFile struct {
	Api struct {
		IdentityURL     string `json:"identityUrl"`
		TokenURL        string `json:"tokenUrl"`
		Username        string `json:"username"`
		Password        string `json:"password"`
		ClientID        string `json:"clientId"`
		ClientSecret    string `json:"clientSecret"`
		ApplicationName string `json:"applicationName"`
		AccessToken     string `json:"accessToken"`
	} `json:"api"`
	Proxy *struct {
		Address  string `json:"address"`
		Port     int    `json:"port"`
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"proxy"`
	Log struct {
		Level             string `json:"level"`
		OutputFormat      string `json:"outputFormat"`
		HideSensitiveData bool   `json:"hideSensitiveData"`
	} `json:"log"`
}

// LoadConfigurationFromFile reads a JSON secrets file. Logging options come from its optional log object.
func LoadConfigurationFromFile(path string) (*ApiConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var secrets secretsFile
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w", path, err)
	}

	cfg := &ApiConfiguration{
		IdentityURL:         secrets.Api.IdentityURL,
		TokenURL:            secrets.Api.TokenURL,
		Username:            secrets.Api.Username,
		Password:            secrets.Api.Password,
		ClientID:            secrets.Api.ClientID,
		ClientSecret:        secrets.Api.ClientSecret,
		ApplicationName:     secrets.Api.ApplicationName,
		PersonalAccessToken: secrets.Api.AccessToken,
		LogLevel:            secrets.Log.Level,
		LogOutputFormat:     secrets.Log.OutputFormat,
		HideSensitiveData:   secrets.Log.HideSensitiveData,
	}
	if secrets.Proxy != nil {
		cfg.ProxyAddress = secrets.Proxy.Address
		cfg.ProxyPort = secrets.Proxy.Port
		cfg.ProxyUsername = secrets.Proxy.Username
		cfg.ProxyPassword = secrets.Proxy.Password
	}
	return cfg, nil
}

// LoadConfigurationFromEnv reads the FBN_* environment variables.
func LoadConfigurationFromEnv() (*ApiConfiguration, error) {
	cfg := &ApiConfiguration{
		IdentityURL:         os.Getenv(EnvIdentityURL),
		TokenURL:            os.Getenv(EnvTokenURL),
		Username:            os.Getenv(EnvUsername),
		Password:            os.Getenv(EnvPassword),
		ClientID:            os.Getenv(EnvClientID),
		ClientSecret:        os.Getenv(EnvClientSecret),
		ApplicationName:     os.Getenv(EnvAppName),
		PersonalAccessToken: os.Getenv(EnvAccessToken),
		ProxyAddress:        os.Getenv(EnvProxyAddress),
		ProxyUsername:       os.Getenv(EnvProxyUsername),
		ProxyPassword:       os.Getenv(EnvProxyPassword),
		LogLevel:            os.Getenv(EnvLogLevel),
		LogOutputFormat:     os.Getenv(EnvLogOutputFormat),
	}

	if port := os.Getenv(EnvProxyPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvProxyPort, port, err)
		}
		cfg.ProxyPort = p
	}

	if hide := os.Getenv(EnvHideSensitiveData); hide != "" {
		h, err := strconv.ParseBool(hide)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvHideSensitiveData, hide, err)
		}
		cfg.HideSensitiveData = h
	}
	return cfg, nil
}

// LoadConfiguration reads the secrets file at path, or the environment when path is empty.
func LoadConfiguration(path string) (*ApiConfiguration, error) {
	if path == "" {
		return LoadConfigurationFromEnv()
	}
	return LoadConfigurationFromFile(path)
}

// SetDefaultValues fills in unset logging options.
func (c *ApiConfiguration) SetDefaultValues() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevelString
	}
	if c.LogOutputFormat == "" {
		c.LogOutputFormat = DefaultLogOutputFormatString
	}
}

// UsesPersonalAccessToken reports whether calls authenticate with a personal access token.
func (c *ApiConfiguration) UsesPersonalAccessToken() bool {
	return c.PersonalAccessToken != ""
}

// Validate checks the configuration is complete enough to build a client.
func (c *ApiConfiguration) Validate() error {
	if c.IdentityURL == "" {
		return errors.New("identity API url is required")
	}
	if u, err := url.Parse(c.IdentityURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid identity API url: %s", c.IdentityURL)
	}

	if !c.UsesPersonalAccessToken() {
		missing := []string{}
		for name, value := range map[string]string{
			"tokenUrl":     c.TokenURL,
			"username":     c.Username,
			"password":     c.Password,
			"clientId":     c.ClientID,
			"clientSecret": c.ClientSecret,
		} {
			if value == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			return fmt.Errorf("no personal access token supplied and OAuth2 credentials are incomplete, missing: %v", missing)
		}
	}

	if c.ProxyAddress != "" && (c.ProxyPort < 1 || c.ProxyPort > 65535) {
		return fmt.Errorf("invalid proxy port: %d", c.ProxyPort)
	}

	if c.LogLevel != "" && !slices.Contains(logger.ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if c.LogOutputFormat != "" && !slices.Contains([]string{logger.LogOutputJSON, logger.LogOutputHumanReadable}, c.LogOutputFormat) {
		return fmt.Errorf("invalid log output format: %s", c.LogOutputFormat)
	}

	return nil
}
