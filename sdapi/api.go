package sdapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/ayunami2000/sdgen/config"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	userAgent       = "sdgen/1.0"
)

type httpTransport struct {
	next   http.RoundTripper
	logger *log.Logger
}

func (t *httpTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set(RequestIDHeader, requestID)
	}

	start := time.Now()
	res, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.Debug("request failed", "method", req.Method, "url", req.URL.Redacted(), "request_id", requestID, "err", err)
		return nil, err
	}

	t.logger.Debug("request finished", "method", req.Method, "url", req.URL.Redacted(), "request_id", requestID, "status", res.StatusCode, "elapsed", time.Since(start))
	return res, nil
}

type Client struct {
	cfg        config.ClientConfig
	limits     config.Limits
	transport  http.RoundTripper
	httpClient *http.Client
	logger     *log.Logger
}

type Option func(*Client)

// WithTransport replaces http.DefaultTransport underneath the client's own
// round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithLimits(limits config.Limits) Option {
	return func(c *Client) {
		c.limits = limits
	}
}

func NewClient(cfg config.ClientConfig, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, config.ErrAPIURLRequired
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = config.DefaultHealthTimeout
	}

	c := &Client{
		cfg:       cfg,
		limits:    config.DefaultLimits(),
		transport: http.DefaultTransport,
		logger:    log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(c)
	}

	// Deadlines come from per-request contexts, not from http.Client.Timeout.
	c.httpClient = &http.Client{
		Transport: &httpTransport{next: c.transport, logger: c.logger},
	}

	return c, nil
}

func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

func (c *Client) Timeout() time.Duration {
	return c.cfg.Timeout
}

// CheckConnection probes /health. Any failure, including a network error,
// is reported as false.
func (c *Client) CheckConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/health", nil)
	if err != nil {
		c.logger.Debug("could not build health request", "err", err)
		return false
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}

	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 8<<10))

	return res.StatusCode == http.StatusOK
}

// Render posts the request to /generate and returns the undecoded response.
func (c *Client) Render(ctx context.Context, data *GenerationRequest) (*RawResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.cfg.BaseURL+"/generate", strings.NewReader(data.Form().Encode()))
	if err != nil {
		return nil, newError(ErrRequest, "Request failed", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classify(ctx, err)
	}

	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, c.classify(ctx, err)
	}

	return &RawResponse{
		StatusCode: res.StatusCode,
		Body:       body,
		Elapsed:    time.Since(start),
	}, nil
}

func (c *Client) classify(parent context.Context, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return newError(ErrInterrupted, "Request interrupted", err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return newError(ErrTimeout, fmt.Sprintf("Request timed out after %s", c.cfg.Timeout), err)
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return newError(ErrConnection, "Failed to connect to API", err)
	}

	return newError(ErrRequest, "Request failed", err)
}

// Generate validates data, probes the service, sends the request and
// decodes the image. Nothing is sent when validation or the probe fails.
func (c *Client) Generate(ctx context.Context, data *GenerationRequest) (*Result, error) {
	if err := data.Validate(c.limits); err != nil {
		return nil, err
	}

	c.logger.Info("Checking API connection...")
	if !c.CheckConnection(ctx) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, newError(ErrInterrupted, "Request interrupted", ctx.Err())
		}
		return nil, newError(ErrConnection, fmt.Sprintf("Cannot connect to API at %s. Make sure the remote server is running.", c.cfg.BaseURL), nil)
	}
	c.logger.Info("Connected to API")
	c.logger.Info("Generating image", "prompt", data.Prompt, "size", fmt.Sprintf("%dx%d", data.Width, data.Height), "steps", data.Steps)

	c.logger.Debug("Sending generation request", "url", c.cfg.BaseURL+"/generate")
	raw, err := c.Render(ctx, data)
	if err != nil {
		return nil, err
	}

	res, err := Decode(raw, data.Seed)
	if err != nil {
		return nil, err
	}

	c.logger.Info(fmt.Sprintf("Generated in %.2fs", res.InferenceTime.Seconds()), "seed", res.Seed)
	return res, nil
}
