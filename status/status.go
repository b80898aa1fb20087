// status.go
// Package status classifies HTTP status codes returned by the identity API and the proxies in front of it.
package status

import (
	"net/http"
)

// IsSuccessStatusCode reports whether the status code is in the 2xx range.
func IsSuccessStatusCode(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// IsProxyAuthChallenge reports whether the response is a 407 challenge from a proxy.
func IsProxyAuthChallenge(resp *http.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusProxyAuthRequired
}

// IsTransientError checks if an HTTP response indicates a transient error.
func IsTransientError(resp *http.Response) bool {
	transientStatusCodes := map[int]bool{
		http.StatusInternalServerError: true,
		http.StatusBadGateway:          true,
		http.StatusServiceUnavailable:  true,
		http.StatusGatewayTimeout:      true,
	}
	return resp != nil && transientStatusCodes[resp.StatusCode]
}
