// headers/redact/redact.go
package redact

import (
	"net/http"
)

const redacted = "REDACTED"

// sensitiveKeys are header (or field) names whose values must never reach the logs.
var sensitiveKeys = map[string]bool{
	"AccessToken":         true,
	"Authorization":       true,
	"Proxy-Authorization": true,
	"Cookie":              true,
}

// RedactSensitiveHeaderData redacts sensitive data based on the hideSensitiveData flag.
func RedactSensitiveHeaderData(hideSensitiveData bool, key, value string) string {
	if hideSensitiveData && (sensitiveKeys[key] || sensitiveKeys[http.CanonicalHeaderKey(key)]) {
		return redacted
	}
	return value
}

// RedactHeaders returns a copy of headers suitable for logging.
func RedactHeaders(hideSensitiveData bool, headers http.Header) map[string][]string {
	out := make(map[string][]string, len(headers))
	for key, values := range headers {
		copied := make([]string, len(values))
		for i, v := range values {
			copied[i] = RedactSensitiveHeaderData(hideSensitiveData, key, v)
		}
		out[key] = copied
	}
	return out
}
