// Package testing provides test utilities for serial.
package testing

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/zoobzio/serial"
)

// TestSerializer returns a new Serializer with the built-in formats.
func TestSerializer(tb testing.TB, opts ...serial.Option) *serial.Serializer {
	tb.Helper()
	s, err := serial.New(opts...)
	if err != nil {
		tb.Fatalf("serial.New() error: %v", err)
	}
	return s
}

// WriteFile writes content to name inside a per-test temporary directory
// and returns the file path.
func WriteFile(tb testing.TB, name, content string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		tb.Fatalf("WriteFile(%q) error: %v", name, err)
	}
	return path
}

// ServeFiles starts an HTTP server that serves files keyed by URL path
// (e.g., "/users.json") and returns its base URL. Unknown paths get 404.
// The server is closed when the test ends.
func ServeFiles(tb testing.TB, files map[string]string) string {
	tb.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(content))
	}))
	tb.Cleanup(srv.Close)
	return srv.URL
}

// SimpleUser is a flat record shape.
type SimpleUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Address is a nested record shape.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

// Customer is a record shape with nested, list, map and optional fields.
type Customer struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Age     int               `json:"age"`
	Active  bool              `json:"active"`
	Score   float64           `json:"score"`
	Tags    []string          `json:"tags"`
	Labels  map[string]string `json:"labels"`
	Address *Address          `json:"address,omitempty"`
}

// SampleCustomer returns a fully populated Customer.
func SampleCustomer() Customer {
	return Customer{
		ID:     "c-1",
		Name:   "Alice",
		Age:    34,
		Active: true,
		Score:  9.5,
		Tags:   []string{"gold", "early"},
		Labels: map[string]string{"region": "eu", "tier": "1"},
		Address: &Address{
			Street: "1 Main St",
			City:   "Lisbon",
		},
	}
}
