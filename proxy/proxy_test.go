package proxy

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/finbourne/identity-sdk-go/logger"
	"github.com/finbourne/identity-sdk-go/mocklogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// challengingProxy answers 407 until the expected credential is presented.
type challengingProxy struct {
	credential string

	mu         sync.Mutex
	authHeader []string
	targets    []string
	bodies     []string
}

func (p *challengingProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	p.mu.Lock()
	p.authHeader = append(p.authHeader, r.Header.Get(ProxyAuthorizationHeader))
	p.targets = append(p.targets, r.URL.String())
	p.bodies = append(p.bodies, string(body))
	p.mu.Unlock()

	if r.Header.Get(ProxyAuthorizationHeader) != p.credential {
		w.Header().Set("Proxy-Authenticate", `Basic realm="corp"`)
		w.WriteHeader(http.StatusProxyAuthRequired)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("proxied"))
}

func (p *challengingProxy) requests() ([]string, []string, []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.authHeader...), append([]string(nil), p.targets...), append([]string(nil), p.bodies...)
}

func proxyConfig(t *testing.T, server *httptest.Server, username, password string) Config {
	t.Helper()
	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return Config{Host: host, Port: port, Username: username, Password: password}
}

func TestBasicCredential(t *testing.T) {
	assert.Equal(t, "Basic dXNlcjpwYXNz", BasicCredential("user", "pass"))
}

func TestConfig_URL(t *testing.T) {
	u, err := Config{Host: "proxy.corp", Port: 8080}.URL()
	require.NoError(t, err)
	assert.Equal(t, "http://proxy.corp:8080", u.String())

	_, err = Config{Host: "proxy.corp", Port: 0}.URL()
	assert.Error(t, err)
	_, err = Config{Port: 8080}.URL()
	assert.Error(t, err)
}

func TestInitializeProxy_RetriesOnceOnChallenge(t *testing.T) {
	p := &challengingProxy{credential: BasicCredential("proxyuser", "proxypass")}
	server := httptest.NewServer(p)
	defer server.Close()

	httpClient := &http.Client{}
	require.NoError(t, InitializeProxy(httpClient, proxyConfig(t, server, "proxyuser", "proxypass"), logger.NewNopLogger()))

	resp, err := httpClient.Post("http://identity.example.com/api/roles", "application/json", strings.NewReader(`{"a":1}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	auth, targets, bodies := p.requests()
	require.Len(t, auth, 2, "exactly one retry should be sent")
	assert.Empty(t, auth[0])
	assert.Equal(t, "Basic cHJveHl1c2VyOnByb3h5cGFzcw==", auth[1])
	assert.Equal(t, "http://identity.example.com/api/roles", targets[1])
	assert.Equal(t, `{"a":1}`, bodies[1], "the body should be replayed on retry")
}

func TestInitializeProxy_WrongCredentialsAreNotRetriedAgain(t *testing.T) {
	p := &challengingProxy{credential: BasicCredential("proxyuser", "proxypass")}
	server := httptest.NewServer(p)
	defer server.Close()

	httpClient := &http.Client{}
	require.NoError(t, InitializeProxy(httpClient, proxyConfig(t, server, "proxyuser", "wrong"), logger.NewNopLogger()))

	resp, err := httpClient.Get("http://identity.example.com/api/roles")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusProxyAuthRequired, resp.StatusCode)
	auth, _, _ := p.requests()
	assert.Len(t, auth, 2)
}

func TestInitializeProxy_WithoutCredentials(t *testing.T) {
	p := &challengingProxy{credential: BasicCredential("proxyuser", "proxypass")}
	server := httptest.NewServer(p)
	defer server.Close()

	mockLog := mocklogger.NewMockLogger()
	mockLog.On("Info", "Proxy configured", mock.Anything).Once()

	httpClient := &http.Client{}
	require.NoError(t, InitializeProxy(httpClient, proxyConfig(t, server, "", ""), mockLog))

	transport, ok := httpClient.Transport.(*http.Transport)
	require.True(t, ok, "no authenticator without credentials")
	proxyURL, err := transport.Proxy(&http.Request{URL: &url.URL{Scheme: "http", Host: "identity.example.com"}})
	require.NoError(t, err)
	assert.Equal(t, server.URL, proxyURL.String())

	resp, err := httpClient.Get("http://identity.example.com/api/roles")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusProxyAuthRequired, resp.StatusCode)
	auth, _, _ := p.requests()
	assert.Len(t, auth, 1)

	mockLog.AssertExpectations(t)
}

func TestInitializeProxy_InvalidConfig(t *testing.T) {
	mockLog := mocklogger.NewMockLogger()
	mockLog.On("Error", "Failed to build proxy URL", mock.Anything).Return(assert.AnError).Once()

	err := InitializeProxy(&http.Client{}, Config{Host: "proxy.corp", Port: 70000}, mockLog)

	assert.EqualError(t, err, "invalid proxy configuration: proxy port 70000 is out of range")
	mockLog.AssertExpectations(t)
}

func TestAuthenticator_ConnectHeaderCarriesCredential(t *testing.T) {
	httpClient := &http.Client{}
	require.NoError(t, InitializeProxy(httpClient, Config{Host: "proxy.corp", Port: 3128, Username: "u", Password: "p"}, logger.NewNopLogger()))

	authenticator, ok := httpClient.Transport.(*Authenticator)
	require.True(t, ok)
	transport := authenticator.Next.(*http.Transport)
	assert.Equal(t, BasicCredential("u", "p"), transport.ProxyConnectHeader.Get(ProxyAuthorizationHeader))
}
