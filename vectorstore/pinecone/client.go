// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/indexit/vectorstore"
)

const defaultTimeout = 30 * time.Second

// Client talks to the Pinecone data plane of one index over REST.
// The host is the index endpoint from the console, not the global API.
type Client struct {
	httpClient *http.Client
	host       string
	apiKey     string
	batchSize  int
	logger     *slog.Logger
}

var _ vectorstore.Store = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			httpClient = &http.Client{Timeout: defaultTimeout}
		}
		c.httpClient = httpClient
		return nil
	}
}

// WithBatchSize sets how many vectors are sent per upsert request.
func WithBatchSize(size int) Option {
	return func(c *Client) error {
		if size < 1 {
			return fmt.Errorf("batch size must be greater than 0, got %d", size)
		}
		c.batchSize = size
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// New creates a client for the index at host. A host without a scheme gets
// https prepended.
func New(host, apiKey string, opts ...Option) (*Client, error) {
	if host == "" {
		return nil, ErrHostRequired
	}
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	if !strings.Contains(host, "://") {
		host = "https://" + host
	}

	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		host:       strings.TrimRight(host, "/"),
		apiKey:     apiKey,
		batchSize:  vectorstore.UpsertBatchSize,
		logger:     slog.Default().With("component", "pinecone"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Close releases idle connections. The client keeps no other state.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// do issues one JSON request against the index host. Non-2xx responses
// surface the response body in the returned error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.host+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: %s returned status %d: %s",
			ErrRequestFailed, path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
