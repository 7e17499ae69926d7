package paubox

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is returned when the Paubox API answers with a non-2xx status.
type APIError struct {
	// StatusCode is the HTTP status code from the API.
	StatusCode int
	// Body is the raw response body, trimmed.
	Body string
	// Permanent indicates the request will not succeed if repeated unchanged.
	Permanent bool
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("paubox: %d - %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("paubox: %d - %s", e.StatusCode, e.Body)
}

// IsPermanent reports whether err is an APIError that will not succeed on
// a repeated attempt.
func IsPermanent(err error) bool {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Permanent
	}
	return false
}

// StatusCode extracts the HTTP status from err, or 0 when err did not
// come from an API response.
func StatusCode(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}

// ClassifyHTTPError creates an APIError from an HTTP status code and
// response body. It returns nil for 2xx statuses.
func ClassifyHTTPError(statusCode int, body string) *APIError {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	ae := &APIError{
		StatusCode: statusCode,
		Body:       strings.TrimSpace(body),
	}

	switch {
	case statusCode == http.StatusTooManyRequests:
		ae.Permanent = false
	case statusCode >= 500:
		ae.Permanent = containsPermanentServerIndicator(body)
	default:
		// 3xx and 4xx will not change without a different request.
		ae.Permanent = true
	}

	return ae
}

// containsPermanentServerIndicator checks if a 5xx response body points at
// an account problem rather than a passing outage.
func containsPermanentServerIndicator(body string) bool {
	lower := strings.ToLower(body)
	permanentPatterns := []string{
		"invalid api key",
		"authentication failed",
		"account suspended",
		"account disabled",
		"unauthorized",
	}
	for _, pattern := range permanentPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
