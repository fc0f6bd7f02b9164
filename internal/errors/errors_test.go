package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(500, "/api/conversations", "internal server error")

	expected := "API error [500] at /api/conversations: internal server error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "/x", "boom")
	if noStatus.Error() != "API error at /x: boom" {
		t.Errorf("Error() = %s", noStatus.Error())
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("fetch conversations", "http://localhost:5000", cause)

	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}

	wrapped := fmt.Errorf("load: %w", err)
	if !IsNetworkError(wrapped) {
		t.Error("IsNetworkError should see through wrapping")
	}
	if GetEndpoint(wrapped) != "http://localhost:5000" {
		t.Errorf("GetEndpoint = %q", GetEndpoint(wrapped))
	}
}

func TestParseError_Is(t *testing.T) {
	err := NewParseError("not an array", "conversations")

	if err.Error() != "parse error at conversations: not an array" {
		t.Errorf("Error() = %s", err.Error())
	}

	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("ParseError should match ErrInvalidResponse")
	}

	if !err.Is(NewParseError("other", "")) {
		t.Error("ParseError should match another ParseError")
	}

	if err.Is(errors.New("parse error")) {
		t.Error("ParseError should not match an arbitrary error")
	}

	if !IsParseError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsParseError should see through wrapping")
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"api error", NewAPIError(404, "/x", "missing"), 404},
		{"wrapped api error", fmt.Errorf("ctx: %w", NewAPIError(502, "/x", "bad")), 502},
		{"network error", NewNetworkError("op", "/x", nil), 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetHTTPStatus(tt.err); got != tt.want {
				t.Errorf("GetHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("%w: data/conversations.json", ErrNotFound)) {
		t.Error("wrapped ErrNotFound not detected")
	}
	if IsNotFound(NewParseError("bad", "")) {
		t.Error("ParseError reported as not found")
	}
}
