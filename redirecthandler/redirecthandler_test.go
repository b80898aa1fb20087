// redirecthandler/redirecthandler_test.go
package redirecthandler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/finbourne/identity-sdk-go/mocklogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, maxRedirects int) *http.Client {
	t.Helper()
	client := &http.Client{}
	require.NoError(t, SetupRedirectHandler(client, maxRedirects, nil))
	return client
}

func TestCheckRedirect_StripsCredentialsAcrossHosts(t *testing.T) {
	var received atomic.Value
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Store(r.Header.Get("Authorization"))
	}))
	defer other.Close()

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 127.0.0.1 and localhost are different hosts as far as the redirect is concerned.
		http.Redirect(w, r, strings.Replace(other.URL, "127.0.0.1", "localhost", 1), http.StatusFound)
	}))
	defer origin.Close()

	req, err := http.NewRequest(http.MethodGet, origin.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")

	resp, err := newClient(t, DefaultMaxRedirects).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "", received.Load())
}

func TestCheckRedirect_KeepsCredentialsOnSameHost(t *testing.T) {
	var received atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		received.Store(r.Header.Get("Authorization"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL+"/old", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret")

	resp, err := newClient(t, DefaultMaxRedirects).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer secret", received.Load())
}

func TestCheckRedirect_Limits(t *testing.T) {
	tests := []struct {
		name         string
		maxRedirects int
		handler      http.HandlerFunc
		wantStatus   int
		wantErr      any
	}{
		{
			name:         "redirects disabled",
			maxRedirects: 0,
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/elsewhere", http.StatusFound)
			},
			wantStatus: http.StatusFound,
		},
		{
			name:         "maximum redirects reached",
			maxRedirects: 2,
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, r.URL.Path+"x", http.StatusFound)
			},
			wantErr: &MaxRedirectsError{},
		},
		{
			name:         "redirect loop",
			maxRedirects: DefaultMaxRedirects,
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/a" {
					http.Redirect(w, r, "/b", http.StatusFound)
					return
				}
				http.Redirect(w, r, "/a", http.StatusFound)
			},
			wantErr: &RedirectLoopError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			resp, err := newClient(t, tt.maxRedirects).Get(server.URL + "/a")
			switch target := tt.wantErr.(type) {
			case *MaxRedirectsError:
				require.Error(t, err)
				assert.True(t, errors.As(err, &target))
			case *RedirectLoopError:
				require.Error(t, err)
				assert.True(t, errors.As(err, &target))
			default:
				require.NoError(t, err)
				resp.Body.Close()
				assert.Equal(t, tt.wantStatus, resp.StatusCode)
			}
		})
	}
}

func TestCheckRedirect_DoesNotFollowPost(t *testing.T) {
	mockLog := mocklogger.NewMockLogger()
	mockLog.On("Warn", "Redirect attempted on non-idempotent method, not following", mock.Anything).Return()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusTemporaryRedirect)
	}))
	defer server.Close()

	client := &http.Client{}
	require.NoError(t, SetupRedirectHandler(client, DefaultMaxRedirects, mockLog))

	resp, err := client.Post(server.URL, "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	mockLog.AssertExpectations(t)
}

func TestSetupRedirectHandler_RejectsNegativeLimit(t *testing.T) {
	assert.Error(t, SetupRedirectHandler(&http.Client{}, -1, nil))
}
