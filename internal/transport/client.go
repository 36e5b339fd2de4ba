// Package transport provides the HTTP client used for CMS calls: retries on
// 429 and 5xx responses, client-side rate limiting and pluggable auth.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/carefinder/listingkit/pkg/constants"
	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/logging"
)

// maxResponseSize guards against unbounded response bodies.
const maxResponseSize = 4 << 20

// Client performs authenticated, rate-limited HTTP requests with retries.
type Client struct {
	http    *retryablehttp.Client
	auth    Authenticator
	limiter *rate.Limiter
	service string
}

// Options configures a Client.
type Options struct {
	// Service names the remote side in errors and logs.
	Service string
	// RatePerSecond caps the request rate; zero means unlimited.
	RatePerSecond float64
	// MaxRetries bounds retry attempts after the first request.
	MaxRetries int
	// RetryWaitMin and RetryWaitMax bound the backoff between attempts.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// Timeout applies to each attempt.
	Timeout time.Duration
	// Logger receives retry diagnostics.
	Logger *zerolog.Logger
}

// DefaultOptions returns the options used for CMS requests.
func DefaultOptions() Options {
	return Options{
		Service:       "cms",
		RatePerSecond: constants.DefaultRatePerSecond,
		MaxRetries:    constants.MaxRetries,
		RetryWaitMin:  constants.RetryBackoff,
		RetryWaitMax:  constants.MaxRetryBackoff,
		Timeout:       constants.DefaultHTTPTimeout,
	}
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator, opts Options) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.MaxRetries
	rc.RetryWaitMin = opts.RetryWaitMin
	rc.RetryWaitMax = opts.RetryWaitMax
	rc.HTTPClient.Timeout = opts.Timeout
	rc.Logger = &leveledLogger{logger: logger}
	// Hand the final response back instead of a generic "giving up" error so
	// the status code can be classified.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}

	return &Client{
		http:    rc,
		auth:    auth,
		limiter: rate.NewLimiter(limit, constants.BurstSize),
		service: opts.Service,
	}
}

// Do sends a request with body marshaled as JSON and decodes a JSON response
// into target when target is non-nil. Non-2xx responses become APIErrors.
func (c *Client) Do(ctx context.Context, method, url string, body, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.WrapAPI(c.service, 0, err)
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.WrapParse("json", "request", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return errors.WrapAPI(c.service, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.auth.Apply(req.Request)

	resp, err := c.http.Do(req)
	if err != nil {
		return &errors.APIError{Service: c.service, Endpoint: url, Message: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &errors.APIError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Endpoint:   url,
			Message:    truncate(string(data), 200),
		}
	}

	if target == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger *zerolog.Logger
}

func (l *leveledLogger) Error(msg string, kv ...any) { l.event(l.logger.Error(), msg, kv) }
func (l *leveledLogger) Warn(msg string, kv ...any)  { l.event(l.logger.Warn(), msg, kv) }
func (l *leveledLogger) Info(msg string, kv ...any)  { l.event(l.logger.Debug(), msg, kv) }
func (l *leveledLogger) Debug(msg string, kv ...any) { l.event(l.logger.Trace(), msg, kv) }

func (l *leveledLogger) event(e *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}
