// Package utils provides common utility functions.
package utils

import "net/http"

// DefaultUserAgent identifies the fetcher to remote APIs.
const DefaultUserAgent = "econfetch/1.0"

// HTTPHelper provides HTTP utility functions.
type HTTPHelper struct {
	userAgent string
}

// NewHTTPHelper creates a new HTTP helper. An empty user agent falls back to DefaultUserAgent.
func NewHTTPHelper(userAgent string) *HTTPHelper {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &HTTPHelper{userAgent: userAgent}
}

// IsSuccess reports whether the status code is 2xx.
func (h *HTTPHelper) IsSuccess(statusCode int) bool {
	return statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices
}

// BuildHeaders creates HTTP headers with defaults. Custom headers override defaults.
func (h *HTTPHelper) BuildHeaders(customHeaders map[string]string) map[string]string {
	headers := map[string]string{
		"User-Agent": h.userAgent,
		"Accept":     "application/json",
	}

	for key, value := range customHeaders {
		headers[http.CanonicalHeaderKey(key)] = value
	}

	return headers
}
