package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx answer from the OpenRouter API.
type APIError struct {
	StatusCode   int
	Message      string
	RetryAfterMs int
}

// Error satisfies the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true for rate limit and upstream availability errors.
func (e *APIError) IsRetryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable:
		return true
	}
	return false
}

// IsUnauthorized reports whether the key was refused.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsInsufficientCredit reports whether the account ran out of credit.
func (e *APIError) IsInsufficientCredit() bool {
	return e.StatusCode == http.StatusPaymentRequired
}

// readAPIError builds an APIError from a failed response, preferring the
// message in OpenRouter's {"error":{"message":...}} envelope.
func readAPIError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := strings.TrimSpace(string(raw))

	var envelope struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Error != nil && envelope.Error.Message != "" {
		msg = envelope.Error.Message
	}
	return &APIError{
		StatusCode:   resp.StatusCode,
		Message:      msg,
		RetryAfterMs: parseRetryAfter(resp.Header),
	}
}

// parseRetryAfter extracts the retry delay from a Retry-After header given
// either in seconds or as an HTTP-date.
func parseRetryAfter(h http.Header) int {
	if h == nil {
		return 0
	}
	ra := strings.TrimSpace(h.Get("Retry-After"))
	if ra == "" {
		return 0
	}
	if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
		return secs * 1000
	}
	if t, err := time.Parse(time.RFC1123, ra); err == nil {
		if ms := int(time.Until(t).Milliseconds()); ms > 0 {
			return ms
		}
	}
	return 0
}
