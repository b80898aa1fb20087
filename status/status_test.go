package status

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSuccessStatusCode(t *testing.T) {
	assert.True(t, IsSuccessStatusCode(http.StatusOK))
	assert.True(t, IsSuccessStatusCode(http.StatusNoContent))
	assert.False(t, IsSuccessStatusCode(http.StatusMovedPermanently))
	assert.False(t, IsSuccessStatusCode(http.StatusNotFound))
}

func TestIsProxyAuthChallenge(t *testing.T) {
	assert.True(t, IsProxyAuthChallenge(&http.Response{StatusCode: http.StatusProxyAuthRequired}))
	assert.False(t, IsProxyAuthChallenge(&http.Response{StatusCode: http.StatusUnauthorized}))
	assert.False(t, IsProxyAuthChallenge(nil))
}

func TestIsTransientError(t *testing.T) {
	assert.True(t, IsTransientError(&http.Response{StatusCode: http.StatusBadGateway}))
	assert.False(t, IsTransientError(&http.Response{StatusCode: http.StatusBadRequest}))
	assert.False(t, IsTransientError(nil))
}
