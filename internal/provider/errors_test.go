package provider

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      APIError
		expected string
	}{
		{"with message", APIError{StatusCode: 401, Message: "No auth credentials found"}, "HTTP 401: No auth credentials found"},
		{"without message", APIError{StatusCode: 500}, "HTTP 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAPIError_Classification(t *testing.T) {
	tests := []struct {
		status                      int
		retryable, unauth, noCredit bool
	}{
		{429, true, false, false},
		{502, true, false, false},
		{503, true, false, false},
		{401, false, true, false},
		{403, false, true, false},
		{402, false, false, true},
		{400, false, false, false},
	}
	for _, tt := range tests {
		e := &APIError{StatusCode: tt.status}
		if e.IsRetryable() != tt.retryable {
			t.Errorf("%d: IsRetryable() = %v, want %v", tt.status, e.IsRetryable(), tt.retryable)
		}
		if e.IsUnauthorized() != tt.unauth {
			t.Errorf("%d: IsUnauthorized() = %v, want %v", tt.status, e.IsUnauthorized(), tt.unauth)
		}
		if e.IsInsufficientCredit() != tt.noCredit {
			t.Errorf("%d: IsInsufficientCredit() = %v, want %v", tt.status, e.IsInsufficientCredit(), tt.noCredit)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	t.Run("nil header", func(t *testing.T) {
		if got := parseRetryAfter(nil); got != 0 {
			t.Errorf("got %d, want 0", got)
		}
	})

	t.Run("seconds", func(t *testing.T) {
		h := http.Header{}
		h.Set("Retry-After", "3")
		if got := parseRetryAfter(h); got != 3000 {
			t.Errorf("got %d, want 3000", got)
		}
	})

	t.Run("http date in the future", func(t *testing.T) {
		h := http.Header{}
		h.Set("Retry-After", time.Now().Add(10*time.Second).UTC().Format(time.RFC1123))
		got := parseRetryAfter(h)
		if got <= 0 || got > 10000 {
			t.Errorf("got %d, want within (0, 10000]", got)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		h := http.Header{}
		h.Set("Retry-After", "later")
		if got := parseRetryAfter(h); got != 0 {
			t.Errorf("got %d, want 0", got)
		}
	})
}

func TestReadAPIError(t *testing.T) {
	t.Run("openrouter envelope", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: 402,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader(`{"error":{"code":402,"message":"Insufficient credits"}}`)),
		}
		e := readAPIError(resp)
		if e.StatusCode != 402 || e.Message != "Insufficient credits" {
			t.Errorf("got %+v", e)
		}
	})

	t.Run("plain body", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: 500,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader("upstream exploded\n")),
		}
		e := readAPIError(resp)
		if e.Message != "upstream exploded" {
			t.Errorf("Message = %q", e.Message)
		}
	})
}
