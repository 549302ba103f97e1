// Package providerhttp is the outbound HTTP transport shared by every provider adapter.
// It applies the provider's request budget, traces and measures each call, caps the
// response size and classifies failures into integration errors.
package providerhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/infrastructure/ratelimit"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// MaxResponseSize caps how much of a provider response body is read (10MB)
	MaxResponseSize = 10 * 1024 * 1024

	// DefaultTimeout is the per-request timeout when none is configured
	DefaultTimeout = 30 * time.Second

	tracerName = "github.com/siparisbot/backend/providerhttp"
)

// Recorder receives one observation per provider request.
type Recorder interface {
	RecordProviderRequest(ctx context.Context, provider, operation string, statusCode int, duration time.Duration, err error)
}

// Config configures a Client.
type Config struct {
	// Provider is the display name used in errors, spans and metrics (e.g. "Trendyol")
	Provider string
	// Timeout bounds a whole request including reading the body. Default 30s.
	Timeout time.Duration
	// Budget rate limits the provider. Optional.
	Budget *ratelimit.Budget
	// HTTPClient overrides the default traced client. Optional.
	HTTPClient *http.Client
	// Recorder receives request metrics. Optional.
	Recorder Recorder
	// Logger for request logging. Optional.
	Logger *zap.Logger
}

// Client sends requests to one provider.
type Client struct {
	provider   string
	httpClient *http.Client
	budget     *ratelimit.Budget
	recorder   Recorder
	logger     *zap.Logger
	tracer     trace.Tracer
}

// New creates a Client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		provider:   cfg.Provider,
		httpClient: httpClient,
		budget:     cfg.Budget,
		recorder:   cfg.Recorder,
		logger:     logger.With(zap.String("provider", cfg.Provider)),
		tracer:     otel.Tracer(tracerName),
	}
}

// Provider returns the provider display name.
func (c *Client) Provider() string {
	return c.provider
}

// Request describes one outbound call. Body is sent byte for byte.
type Request struct {
	// Operation names the call for spans and metrics (e.g. "orders.list")
	Operation string
	Method    string
	URL       string
	Header    http.Header
	Body      []byte
}

// Response is a successful (2xx) provider response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do sends the request and returns the response when the status is 2xx.
// Failures are returned as *integration.IntegrationError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var resp *Response
	err := c.observe(ctx, req.Operation, req.Method, req.URL, func(ctx context.Context) (int, error) {
		var err error
		resp, err = c.send(ctx, req)
		if resp != nil {
			return resp.StatusCode, nil
		}
		var ie *integration.IntegrationError
		if errors.As(err, &ie) {
			return ie.StatusCode, err
		}
		return 0, err
	})
	return resp, err
}

// Run applies the budget, span, logging and metrics of Do to a call made
// through a provider SDK. fn reports the HTTP status it saw, 0 when unknown.
// Errors from fn are returned unchanged.
func (c *Client) Run(ctx context.Context, operation string, fn func(ctx context.Context) (int, error)) error {
	return c.observe(ctx, operation, "", "", fn)
}

// HTTPClient returns the underlying http.Client so SDKs share its transport and timeout.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *Client) observe(ctx context.Context, operation, method, endpoint string, fn func(ctx context.Context) (int, error)) error {
	attrs := []attribute.KeyValue{
		attribute.String("provider.name", c.provider),
		attribute.String("provider.operation", operation),
	}
	if method != "" {
		attrs = append(attrs, attribute.String("http.request.method", method))
	}
	ctx, span := c.tracer.Start(ctx, c.provider+"."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	start := time.Now()
	statusCode, err := c.withBudget(ctx, fn)
	duration := time.Since(start)

	if statusCode > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	}

	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Int("status", statusCode),
		zap.Duration("duration", duration),
	}
	if endpoint != "" {
		fields = append(fields, zap.String("endpoint", redactURL(endpoint)))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("Provider request failed", append(fields, zap.Error(err))...)
	} else {
		c.logger.Debug("Provider request completed", fields...)
	}

	if c.recorder != nil {
		c.recorder.RecordProviderRequest(ctx, c.provider, operation, statusCode, duration, err)
	}

	return err
}

func (c *Client) withBudget(ctx context.Context, fn func(ctx context.Context) (int, error)) (int, error) {
	if c.budget != nil {
		release, err := c.budget.Acquire(ctx)
		if err != nil {
			return 0, integration.NewTransportError(c.provider, err)
		}
		defer release()
	}
	return fn(ctx)
}

func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, integration.NewTransportError(c.provider, fmt.Errorf("failed to create request: %w", err))
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, integration.NewTransportError(c.provider, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, MaxResponseSize))
	if err != nil {
		return nil, integration.NewTransportError(c.provider, fmt.Errorf("failed to read response: %w", err))
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, integration.NewHTTPStatusError(c.provider, httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}, nil
}

// DoJSON sends the request and decodes a 2xx body into out. A nil out skips decoding.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return integration.NewInvalidResponseError(c.provider, err)
	}
	return nil
}

// EncodeJSON marshals a request body, mapping failures to a transport error for the provider.
func (c *Client) EncodeJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, integration.NewTransportError(c.provider, fmt.Errorf("failed to encode request: %w", err))
	}
	return b, nil
}

// JSONHeader returns a header set with Content-Type application/json.
func JSONHeader() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return h
}

// redactURL drops the query string, which may carry access tokens.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
