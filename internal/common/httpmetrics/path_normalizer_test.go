package httpmetrics

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", "/"},
		{"root", "/", "/"},
		{"static route", "/api/v1/blog/bulk", "/api/v1/blog/bulk"},
		{"uuid collapsed", "/api/v1/blog/22222222-2222-4222-8222-222222222222", "/api/v1/blog/{id}"},
		{"numeric segment collapsed", "/api/v1/blog/123", "/api/v1/blog/{param}"},
		{"mixed segment kept", "/api/v1/blog/abc123", "/api/v1/blog/abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.path); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
