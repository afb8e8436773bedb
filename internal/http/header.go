package http

import (
	"net/http"
	"strings"
)

const (
	headerRequestID     = "x-request-id"
	headerAPIKey        = "x-api-key"
	headerAuthorization = "authorization"
	headerUserAgent     = "user-agent"

	bearerPrefix = "Bearer "
)

func requestID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerRequestID))
}

func setRequestID(r *http.Request, requestID string) {
	r.Header.Set(headerRequestID, requestID)
}

func apiKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerAPIKey))
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Empty when the header is missing or not a bearer scheme.
func bearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get(headerAuthorization))
	if !strings.HasPrefix(auth, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
}

func userAgent(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerUserAgent))
}
