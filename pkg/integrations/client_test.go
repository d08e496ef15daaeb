package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/avatarshuffle/pkg/buildinfo"
	"github.com/matzehuels/avatarshuffle/pkg/httputil"
)

func TestNewClient(t *testing.T) {
	headers := map[string]string{"Authorization": "Bearer token"}
	client := NewClient(headers)

	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.http.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.http.Timeout, DefaultTimeout)
	}
	if client.headers["Authorization"] != "Bearer token" {
		t.Error("NewClient() headers not set correctly")
	}
	if NewClient(nil).headers != nil {
		t.Error("NewClient() should allow nil headers")
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if ua := r.Header.Get("User-Agent"); ua != buildinfo.UserAgent() {
			t.Errorf("User-Agent = %q, want %q", ua, buildinfo.UserAgent())
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(nil).WithHTTPClient(server.Client())

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var gotDefault, gotOverride string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDefault = r.Header.Get("X-Default")
		gotOverride = r.Header.Get("X-Override")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := NewClient(map[string]string{"X-Default": "d", "X-Override": "default"}).WithHTTPClient(server.Client())

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL, map[string]string{"X-Override": "overridden"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if gotDefault != "d" || gotOverride != "overridden" {
		t.Errorf("headers = %q, %q", gotDefault, gotOverride)
	}
}

func TestClientPostJSON(t *testing.T) {
	type request struct {
		Prompt string `json:"prompt"`
		N      int    `json:"n"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"echo": req.Prompt, "n": req.N})
	}))
	defer server.Close()

	client := NewClient(nil).WithHTTPClient(server.Client())

	var resp struct {
		Echo string `json:"echo"`
		N    int    `json:"n"`
	}
	if err := client.PostJSON(context.Background(), server.URL, nil, request{Prompt: "cat", N: 3}, &resp); err != nil {
		t.Fatalf("PostJSON() error: %v", err)
	}
	if resp.Echo != "cat" || resp.N != 3 {
		t.Errorf("PostJSON() = %+v", resp)
	}
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		wantIs    error
		retryable bool
	}{
		{"404 Not Found", 404, ErrNotFound, false},
		{"400 Bad Request", 400, ErrNetwork, false},
		{"401 Unauthorized", 401, ErrNetwork, false},
		{"429 Too Many Requests", 429, ErrNetwork, false},
		{"500 Internal Server Error", 500, ErrNetwork, true},
		{"503 Service Unavailable", 503, ErrNetwork, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			client := NewClient(nil).WithHTTPClient(server.Client())
			var resp map[string]string
			err := client.Get(context.Background(), server.URL, &resp)

			if !errors.Is(err, tt.wantIs) {
				t.Errorf("error = %v, want %v", err, tt.wantIs)
			}
			if got := httputil.IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v", got, tt.retryable)
			}
			if got := StatusCode(err); got != tt.code {
				t.Errorf("StatusCode() = %d, want %d", got, tt.code)
			}
			var se *StatusError
			if errors.As(err, &se) && se.Body != `{"error":"nope"}` {
				t.Errorf("Body = %q", se.Body)
			}
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	var resp map[string]string
	err := NewClient(nil).Get(context.Background(), url, &resp)
	if !errors.Is(err, ErrNetwork) || !httputil.IsRetryable(err) {
		t.Errorf("error = %v, want retryable ErrNetwork", err)
	}
	if StatusCode(err) != 0 {
		t.Error("network errors carry no status")
	}
}

func TestClientDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	var resp map[string]string
	err := NewClient(nil).WithHTTPClient(server.Client()).Get(context.Background(), server.URL, &resp)
	if err == nil || httputil.IsRetryable(err) {
		t.Errorf("error = %v, want non-retryable decode error", err)
	}
}
