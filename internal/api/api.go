package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trading-risk-assistant/internal/interfaces"
	"trading-risk-assistant/internal/logger"
	"trading-risk-assistant/internal/store"
	"trading-risk-assistant/internal/types"
)

// Client talks to a running risk assistant service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	useLogging bool
}

var _ interfaces.Evaluator = (*Client)(nil)

type ClientOption func(*Client)

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

func WithLogging(enabled bool) ClientOption {
	return func(c *Client) {
		c.useLogging = enabled
	}
}

// WithHTTPClient replaces the transport, e.g. with an httptest server client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: map[string]string{
			"Accept": "application/json",
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Evaluate asks the service for a decision without journalling it.
func (c *Client) Evaluate(ctx context.Context, req types.EvaluationRequest) (types.Decision, error) {
	return c.EvaluateAndSave(ctx, EvaluateRequest{
		Answers: req.Answers,
		Stats:   req.Stats,
		Trade:   req.Trade,
	})
}

func (c *Client) EvaluateAndSave(ctx context.Context, body EvaluateRequest) (types.Decision, error) {
	var d types.Decision
	err := c.do(ctx, http.MethodPost, "/api/v1/evaluate", body, &d)
	return d, err
}

func (c *Client) Questions(ctx context.Context) (map[string][]store.Question, error) {
	var qs map[string][]store.Question
	err := c.do(ctx, http.MethodGet, "/api/v1/questions", nil, &qs)
	return qs, err
}

func (c *Client) Recent(ctx context.Context, n int) ([]types.JournalEntry, error) {
	var entries []types.JournalEntry
	q := url.Values{"limit": {strconv.Itoa(n)}}
	err := c.do(ctx, http.MethodGet, "/api/v1/journal?"+q.Encode(), nil, &entries)
	return entries, err
}

func (c *Client) Summary(ctx context.Context, days int) (types.JournalSummary, error) {
	var s types.JournalSummary
	q := url.Values{"days": {strconv.Itoa(days)}}
	err := c.do(ctx, http.MethodGet, "/api/v1/journal/summary?"+q.Encode(), nil, &s)
	return s, err
}

func (c *Client) Insights(ctx context.Context) (types.Insights, error) {
	var ins types.Insights
	err := c.do(ctx, http.MethodGet, "/api/v1/coach", nil, &ins)
	return ins, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	u := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	c.logDebug(ctx, "HTTP Request", "method", method, "url", u)
	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logError(ctx, "HTTP request failed", "method", method, "url", u, "error", err)
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	c.logDebug(ctx, "HTTP Response",
		"method", method,
		"url", u,
		"status", httpResp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	var env rawResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		if httpResp.StatusCode >= 400 {
			return &StatusError{Status: httpResp.StatusCode, Message: string(raw)}
		}
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if httpResp.StatusCode >= 400 {
		c.logWarn(ctx, "HTTP error response", "url", u, "status", httpResp.StatusCode, "message", env.Message)
		return &StatusError{Status: httpResp.StatusCode, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

func (c *Client) logDebug(ctx context.Context, msg string, args ...any) {
	if c.useLogging {
		logger.Debug(ctx, msg, args...)
	}
}

func (c *Client) logWarn(ctx context.Context, msg string, args ...any) {
	if c.useLogging {
		logger.Warn(ctx, msg, args...)
	}
}

func (c *Client) logError(ctx context.Context, msg string, args ...any) {
	if c.useLogging {
		logger.Error(ctx, msg, args...)
	}
}
