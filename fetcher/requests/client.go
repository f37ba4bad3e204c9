package requests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	loggerpkg "nexusiq/pkg/logger"
)

// Default values for the transport.
const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxAttempts = 3
	DefaultURLTemplate = "https://%s.api.riotgames.com"
)

// Validator is implemented by the response schemas.
// A failed validation means a required field is missing.
type Validator interface {
	Validate() error
}

// ClientConfig contains the values used to create the transport client.
type ClientConfig struct {
	ApiKey          string
	Timeout         time.Duration
	BaseURLTemplate string
	MaxAttempts     int
}

// Client does authenticated requests to the Riot API.
// It's safe for concurrent use, the only shared state is the connection pool and the limiter.
type Client struct {
	httpClient  *http.Client
	limiter     *RateLimiter
	logger      *loggerpkg.Logger
	apiKey      string
	timeout     time.Duration
	urlTemplate string
	maxAttempts int
}

// NewClient creates the transport client.
func NewClient(cfg ClientConfig, httpClient *http.Client, limiter *RateLimiter, logger *loggerpkg.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	if logger == nil {
		logger = loggerpkg.Nop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	template := cfg.BaseURLTemplate
	if template == "" {
		template = DefaultURLTemplate
	}

	return &Client{
		httpClient:  httpClient,
		limiter:     limiter,
		logger:      logger,
		apiKey:      cfg.ApiKey,
		timeout:     timeout,
		urlTemplate: template,
		maxAttempts: attempts,
	}
}

// BuildURL substitutes the routing value into the base url template.
func (c *Client) BuildURL(routing string, path string, query url.Values) string {
	base := c.urlTemplate
	if strings.Contains(base, "%s") {
		base = fmt.Sprintf(base, routing)
	}

	full := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	return full
}

// Get does a authenticated GET against the routing value and path, decoding the body into out.
// Transient failures are retried up to the attempt bound.
func (c *Client) Get(ctx context.Context, routing string, path string, query url.Values, out any) error {
	if c.apiKey == "" {
		return &AuthenticationError{}
	}

	target := c.BuildURL(routing, path, query)

	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err = c.attempt(ctx, routing, target, out)
		if err == nil {
			return nil
		}

		// Explicit signals and cancellations are surfaced right away.
		if !IsRetryable(err) || ctx.Err() != nil {
			return err
		}

		c.logger.Warnf("Attempt %d/%d on %s %s failed: %v", attempt, c.maxAttempts, routing, path, err)
	}

	return err
}

// Run a single attempt with it's own timeout.
func (c *Client) attempt(ctx context.Context, routing string, target string, out any) error {
	if err := c.limiter.Wait(ctx, routing); err != nil {
		return fmt.Errorf("waiting for the rate limiter: %w", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating the request: %w", err)
	}

	// Add the token.
	req.Header.Set("X-Riot-Token", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.classifyTransportError(ctx, attemptCtx, err)
	}
	defer resp.Body.Close()

	if statusErr := classifyStatus(resp); statusErr != nil {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.classifyTransportError(ctx, attemptCtx, err)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &MalformedResponseError{Err: err}
	}

	if v, ok := out.(Validator); ok {
		if err := v.Validate(); err != nil {
			return &MalformedResponseError{Err: err}
		}
	}

	return nil
}

// Classify a failure that happened before a status was received.
func (c *Client) classifyTransportError(parent context.Context, attemptCtx context.Context, err error) error {
	// The caller cancelled, this is not a upstream fault.
	if parent.Err() != nil {
		return parent.Err()
	}

	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Timeout: c.timeout}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Timeout: c.timeout}
	}

	return &TransportError{Err: err}
}

// classifyStatus maps a non 2xx response into the error taxonomy.
// The order matters, the first match wins.
func classifyStatus(resp *http.Response) error {
	status := resp.StatusCode

	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthenticationError{StatusCode: status}
	case status == http.StatusNotFound:
		return &NotFoundError{}
	case status == http.StatusTooManyRequests:
		retryAfter, ok := parseRetryAfter(resp.Header.Get("Retry-After"))
		return &RateLimitError{RetryAfter: retryAfter, HasRetryAfter: ok}
	case status >= 500 && status < 600:
		return &ServerError{StatusCode: status}
	default:
		return &UnexpectedStatusError{StatusCode: status}
	}
}

// Parse the Retry-After header in seconds.
func parseRetryAfter(value string) (time.Duration, bool) {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

// Requester is the contract the domain fetchers depend on.
type Requester interface {
	Get(ctx context.Context, routing string, path string, query url.Values, out any) error
}
