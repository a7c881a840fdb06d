// Package transport is the load generator's HTTP edge: one GET with a
// timeout in, one status code or transport failure out. Everything the
// worker loop knows about HTTP lives behind the Client interface.
package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Client issues single GET attempts against the configured target.
type Client interface {
	Get(ctx context.Context, path string) (int, error)
}

// Options configures HTTPClient construction.
type Options struct {
	BaseURL string        // scheme://host[:port]
	Timeout time.Duration // whole-exchange budget per request
	Workers int           // sizes the connection pool
}

// HTTPClient is the production Client: one pooled http.Client tuned to
// sustain the whole worker pool looping against a single host.
type HTTPClient struct {
	base   string
	client *http.Client
}

// NewHTTPClient builds a client whose connection pool matches the
// worker count, so every worker can hold a keep-alive connection.
func NewHTTPClient(opts Options) *HTTPClient {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}

	return &HTTPClient{
		base: strings.TrimRight(opts.BaseURL, "/"),
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          opts.Workers,
				MaxIdleConnsPerHost:   opts.Workers,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   5 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
				ForceAttemptHTTP2:     true,
			},
		},
	}
}

// Get issues one GET for path and returns the response status code.
// A zero code with a non-nil error is a transport failure (connection
// refused, timeout, DNS, or a broken response body). The body is
// always drained so the connection goes back to the pool.
func (h *HTTPClient) Get(ctx context.Context, path string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.base+path, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return 0, fmt.Errorf("read response body: %w", err)
	}

	return resp.StatusCode, nil
}
