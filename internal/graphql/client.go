// Package graphql is a minimal client for the school backend's GraphQL endpoint.
//
// Every call is a stateless POST of {query, variables, operationName}. A non-2xx status
// or a non-empty errors array fails the call with an *apperr.BackendError carrying the
// original messages. Calls are never retried.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmynk/schoolfees/internal/apperr"
	"github.com/mmynk/schoolfees/internal/metrics"
	"github.com/mmynk/schoolfees/internal/tenant"
)

// DefaultTimeout bounds every request when no other timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 16 << 20

// Request is the JSON body posted to the endpoint.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Error is one entry of a GraphQL errors array.
type Error struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// Response is the JSON body returned by the endpoint.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors,omitempty"`
}

// Client posts GraphQL operations to one endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a client for the endpoint with a DefaultTimeout HTTP client.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Do posts one operation and decodes its data into out (which may be nil).
// The tenant headers found in ctx are forwarded.
func (c *Client) Do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	start := time.Now()
	err := c.do(ctx, op, query, vars, out)

	metrics.GraphQLRequests.WithLabelValues(op, metrics.Outcome(err)).Inc()
	metrics.GraphQLDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		slog.Warn("GraphQL request failed", "operation", op, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return err
	}
	slog.Debug("GraphQL request ok", "operation", op, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (c *Client) do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(Request{Query: query, Variables: vars, OperationName: op})
	if err != nil {
		return &apperr.BackendError{Op: op, Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &apperr.BackendError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	tenant.ApplyHeader(ctx, req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apperr.BackendError{Op: op, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &apperr.BackendError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var gqlResp Response
	decodeErr := json.Unmarshal(raw, &gqlResp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Servers often describe the failure in an errors array even on non-2xx.
		return &apperr.BackendError{Op: op, Status: resp.StatusCode, Messages: messages(gqlResp.Errors)}
	}
	if decodeErr != nil {
		return &apperr.BackendError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", decodeErr)}
	}
	if len(gqlResp.Errors) > 0 {
		return &apperr.BackendError{Op: op, Status: resp.StatusCode, Messages: messages(gqlResp.Errors)}
	}

	if out == nil || len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		if out != nil {
			return &apperr.BackendError{Op: op, Status: resp.StatusCode, Err: errors.New("response has no data")}
		}
		return nil
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return &apperr.BackendError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode data: %w", err)}
	}
	return nil
}

func messages(errs []Error) []string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Message != "" {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}
