// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "hostel-portal/internal/common/errors"
	"hostel-portal/internal/common/logger"
	"hostel-portal/internal/common/metrics"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Recorder receives one observation per backend round trip.
type Recorder interface {
	RecordRequest(ctx context.Context, method string, status int, duration time.Duration)
}

// Client talks JSON to the hostel backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	tracer     trace.Tracer
	recorder   Recorder
	logger     logger.Logger
}

type Option func(*Client)

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tracer: noop.NewTracerProvider().Tracer(""),
		logger: logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTokenSource returns a copy of the client that authenticates with ts.
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON issues a GET with the given query and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// SendJSON issues a request with a JSON body (nil for none) and decodes the
// response into out when out is non-nil.
func (c *Client) SendJSON(ctx context.Context, method, path string, body, out interface{}) error {
	return c.do(ctx, method, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	ctx, span := c.tracer.Start(ctx, method+" "+routeOf(path),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.method", method)),
	)
	defer span.End()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "token")
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		metrics.BackendRequests.WithLabelValues(method, "error").Inc()
		c.record(ctx, method, 0, elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("backend request failed", map[string]interface{}{
			"method":    method,
			"path":      path,
			"requestId": requestID,
			"error":     err,
		})
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	metrics.BackendRequests.WithLabelValues(method, statusClass(resp.StatusCode)).Inc()
	c.record(ctx, method, resp.StatusCode, elapsed)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug("backend request", map[string]interface{}{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"requestId":  requestID,
		"durationMs": elapsed.Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp)
		span.SetStatus(codes.Error, apiErr.Error())
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) record(ctx context.Context, method string, status int, d time.Duration) {
	if c.recorder != nil {
		c.recorder.RecordRequest(ctx, method, status, d)
	}
}

func decodeAPIError(resp *http.Response) *apperrors.APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	apiErr := &apperrors.APIError{Status: resp.StatusCode, Body: string(raw)}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}

func statusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}

// routeOf strips the query string so span names stay low-cardinality.
func routeOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
