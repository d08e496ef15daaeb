package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/avatarshuffle/pkg/buildinfo"
	"github.com/matzehuels/avatarshuffle/pkg/httputil"
	"github.com/matzehuels/avatarshuffle/pkg/observability"
)

// DefaultTimeout bounds each upstream request unless WithHTTPClient
// replaces the client.
const DefaultTimeout = 10 * time.Second

// Sentinels a StatusError unwraps to. Transport failures wrap ErrNetwork.
var (
	ErrNotFound = errors.New("upstream resource not found")
	ErrNetwork  = errors.New("upstream request failed")
)

// Client provides shared HTTP functionality for the upstream API clients:
// default headers, JSON encoding, status classification and HTTP hooks.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client with default headers applied to every request.
// Pass nil for headers if none are needed.
func NewClient(headers map[string]string) *Client {
	return &Client{http: &http.Client{Timeout: DefaultTimeout}, headers: headers}
}

// WithHTTPClient replaces the underlying *http.Client, e.g. to set a
// longer timeout or to talk to a test server.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with
// defaults. Request-specific headers override client defaults.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.do(ctx, http.MethodGet, url, headers, nil)
	if err != nil {
		return err
	}
	defer body.Close()
	return decode(body, v)
}

// PostJSON encodes in as the request body, performs an HTTP POST and
// JSON-decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	h := map[string]string{"Content-Type": "application/json"}
	for k, v := range headers {
		h[k] = v
	}
	body, err := c.do(ctx, http.MethodPost, url, h, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer body.Close()
	return decode(body, out)
}

func decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, headers map[string]string, body io.Reader) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string // first bytes of the response body
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps 404 to ErrNotFound and everything else to ErrNetwork.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrNetwork
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not
// a status failure.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

const maxErrorBody = 512

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	err := &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	if resp.StatusCode >= 500 {
		return httputil.Retryable(err)
	}
	return err
}
