package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/shiptrack-go/internal/cli/session"
	"github.com/yndnr/shiptrack-go/internal/telemetry/logger"
	"github.com/yndnr/shiptrack-go/internal/telemetry/metric"
)

// DefaultBaseURL is the local development API address.
const DefaultBaseURL = "http://localhost:8000"

// Client sends requests to the shipment API.
type Client struct {
	baseURL   string
	client    *http.Client
	session   *session.Manager
	logger    logger.Logger
	metrics   *metric.Registry
	limiter   *rate.Limiter
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMetrics records every request in reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(c *Client) {
		c.metrics = reg
	}
}

// WithRateLimit caps dispatch at rps requests per second. rps <= 0
// leaves the client unlimited.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for baseURL. sess may be nil, in which case
// authenticated requests go out without a token.
func NewClient(baseURL string, sess *session.Manager, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{},
		session:   sess,
		logger:    logger.Default(),
		userAgent: "shiptrack-cli",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Session returns the session the client reads tokens from.
func (c *Client) Session() *session.Manager {
	return c.session
}

// Do performs req and decodes a successful JSON body into out. out may be
// nil to discard the body. Every returned error is a *Error.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	reqID := ulid.Make().String()
	ctx = logger.WithRequestID(ctx, reqID)
	log := logger.L(logger.WithLogger(ctx, c.logger)).With("method", req.method(), "path", req.Path)

	httpReq, err := c.build(ctx, req)
	if err != nil {
		return err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return newError(err, "request cancelled: %v", err)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(req, 0, elapsed)
		log.Debug("request failed", "error", err, "duration", elapsed)
		return newError(err, "network error: %v", err)
	}
	defer resp.Body.Close()

	c.observe(req, resp.StatusCode, elapsed)
	log.Debug("request finished", "status", resp.StatusCode, "duration", elapsed)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newError(err, "network error: read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Message: messageFromBody(resp.StatusCode, body)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newError(err, "invalid response body: %v", err)
	}
	return nil
}

// Do is the typed form of Client.Do.
func Do[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out T
	err := c.Do(ctx, req, &out)
	return out, err
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, newError(err, "encode request body: %v", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method(), c.baseURL+req.Path, bodyReader)
	if err != nil {
		return nil, newError(err, "create request: %v", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if req.RequiresAuth && c.session != nil {
		if token, ok := c.session.Token(); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return httpReq, nil
}

func (c *Client) observe(req Request, status int, d time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveRequest(req.method(), req.name(), status, d)
	}
}
