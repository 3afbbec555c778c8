package discovery

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "wrapped invalid URL",
			err:      fmt.Errorf("%w: missing ']' in host", ErrInvalidURL),
			expected: "invalid_url",
		},
		{
			name:     "wrapped unauthorized",
			err:      fmt.Errorf("%w: 401 Unauthorized", ErrUnauthorized),
			expected: "unauthorized",
		},
		{
			name:     "wrapped network",
			err:      fmt.Errorf("%w: dial tcp: connection refused", ErrNetwork),
			expected: "network",
		},
		{
			name:     "wrapped protocol",
			err:      fmt.Errorf("%w: success=false", ErrProtocol),
			expected: "protocol",
		},
		{
			name:     "unrelated error",
			err:      errors.New("boom"),
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.expected {
				t.Errorf("Kind() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://bewcloud.example.com/dav", "https://bewcloud.example.com"},
		{"https://bewcloud.example.com/dav/", "https://bewcloud.example.com"},
		{"https://bewcloud.example.com", "https://bewcloud.example.com"},
		{"https://dav.example.com", "https://dav.example.com"},
		{"https://example.com/cloud/dav", "https://example.com/cloud"},
		{"https://example.com/davinci", "https://example.com/davinci"},
		{"  http://localhost:8000/dav  ", "http://localhost:8000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeBaseURL(tt.input); got != tt.expected {
				t.Errorf("NormalizeBaseURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDirectoriesURL(t *testing.T) {
	got := directoriesURL("https://bewcloud.example.com/dav")
	want := "https://bewcloud.example.com/api/files/get-directories"
	if got != want {
		t.Errorf("directoriesURL() = %q, want %q", got, want)
	}
}
