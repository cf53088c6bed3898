// Package http fetches remote wallpapers.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jmylchreest/wallhue/internal/version"
)

const (
	// UserAgentName is sent as the product token of the User-Agent header.
	UserAgentName = "wallhue"

	// DefaultTimeout is the request timeout used when none is given.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBytes caps the size of a downloaded body.
	DefaultMaxBytes int64 = 64 << 20
)

// FetchOptions configures a single Fetch call.
type FetchOptions struct {
	// Timeout for the whole request. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxBytes is the largest body accepted. Zero means DefaultMaxBytes.
	MaxBytes int64

	// Headers are added to the request after the User-Agent.
	Headers map[string]string
}

// UserAgent returns the User-Agent header value.
func UserAgent() string {
	return fmt.Sprintf("%s/%s", UserAgentName, version.Version)
}

// Fetch performs a GET on url and returns the body. Non-200 responses and
// bodies larger than MaxBytes are errors.
func Fetch(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxBytes
	}

	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent())
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", maxBytes)
	}

	return data, nil
}
