// Package transport executes sub-requests against the transparency API.
//
// It owns everything about getting bytes back reliably: the shared rate
// limiter, exponential backoff on HTTP 429, bounded retries on network
// failures, and the explicit "no matching data" acknowledgement that the
// API sends instead of an empty body. Payload interpretation beyond that
// marker is left to the decode package.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"entsogo/internal/models"
)

const (
	// DefaultBaseURL is the production endpoint of the transparency API.
	DefaultBaseURL = "https://web-api.tp.entsoe.eu/api"

	defaultTimeout        = 30 * time.Second
	defaultMaxRetries     = 3
	defaultBaseDelay      = time.Second
	defaultMaxDelay       = 60 * time.Second
	defaultNetworkRetries = 2
	defaultNetworkDelay   = 500 * time.Millisecond
	defaultUserAgent      = "entsogo/0.1"

	timestampFormat = "200601021504" // YYYYMMDDHHmm, UTC
)

// Config holds transport behaviour. Zero fields fall back to defaults;
// only Token has no default.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	// Rate-limit retry policy: backoff BaseDelay*2^attempt, capped at
	// MaxDelay, at most MaxRetries retries after the first attempt.
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration

	// Network failures get a shorter, flat-ish budget.
	NetworkRetries int
	NetworkDelay   time.Duration

	UserAgent string
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = defaultBaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = defaultMaxDelay
	}
	if c.NetworkRetries <= 0 {
		c.NetworkRetries = defaultNetworkRetries
	}
	if c.NetworkDelay <= 0 {
		c.NetworkDelay = defaultNetworkDelay
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	return c
}

// throttle is the backoff clock shared by all concurrent sub-requests of
// a client. When one request gets a 429, every request waits out the same
// penalty window instead of piling more retries onto a throttled API.
type throttle struct {
	mu        sync.Mutex
	notBefore time.Time
}

func (t *throttle) penalize(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	until := time.Now().Add(d)
	if until.After(t.notBefore) {
		t.notBefore = until
	}
}

func (t *throttle) delay() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Until(t.notBefore)
}

// Client executes sub-requests. Safe for concurrent use; the limiter and
// throttle are shared across all in-flight calls.
type Client struct {
	cfg      Config
	http     *http.Client
	limiter  *rate.Limiter
	throttle *throttle
	logger   *logrus.Logger
	metrics  *Metrics

	// sleep is swapped out by tests to observe backoff intervals.
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a transport client. limiter may be shared between several
// clients to pool a process-wide request budget; pass nil to disable
// client-side pacing. metrics may be nil.
func New(cfg Config, limiter *rate.Limiter, logger *logrus.Logger, metrics *Metrics) *Client {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		limiter:  limiter,
		throttle: &throttle{},
		logger:   logger,
		metrics:  metrics,
		sleep:    sleepWithContext,
	}
}

// Fetch executes one sub-request and returns its raw payload.
//
// Failure modes: *models.AuthenticationError (401/403, never retried),
// *models.RateLimitError (429 budget exhausted), *models.NetworkError
// (transport failures and 5xx after retries), *models.APIResponseError
// (unexpected 4xx), or the models.ErrNoData sentinel when the API
// explicitly acknowledged that no data matches.
func (c *Client) Fetch(ctx context.Context, sub models.SubRequest) (*models.RawPayload, error) {
	if c.cfg.Token == "" {
		return nil, &models.AuthenticationError{StatusCode: 0}
	}

	requestID := uuid.NewString()
	log := c.logger.WithFields(logrus.Fields{
		"request_id":    requestID,
		"document_type": sub.Family.DocumentType,
		"family":        sub.Family.Name,
		"dimension":     sub.Dimension.Key(),
	})

	rateAttempts := 0
	netAttempts := 0
	attempts := 0

	for {
		attempts++
		payload, status, err := c.do(ctx, sub, requestID)
		if err == nil {
			c.count(sub, "ok")
			return payload, nil
		}
		if ctx.Err() != nil {
			// Cancelled queries abandon their sub-requests outright.
			return nil, ctx.Err()
		}

		switch {
		case errors.Is(err, models.ErrNoData):
			c.count(sub, "no_data")
			log.Debug("API acknowledged no matching data")
			return nil, err

		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			c.count(sub, "auth_error")
			return nil, &models.AuthenticationError{StatusCode: status}

		case status == http.StatusTooManyRequests:
			if rateAttempts >= c.cfg.MaxRetries {
				c.count(sub, "rate_limited")
				return nil, &models.RateLimitError{Attempts: attempts}
			}
			delay := backoff(c.cfg.BaseDelay, rateAttempts, c.cfg.MaxDelay)
			rateAttempts++
			// All waiting funnels through the shared throttle so that
			// concurrent sub-requests back off together. The next attempt
			// picks the penalty up in do().
			c.throttle.penalize(delay)
			c.countRetry(sub)
			log.WithField("delay", delay.String()).Warn("rate limited, backing off")

		case retryable(status, err):
			if netAttempts >= c.cfg.NetworkRetries {
				c.count(sub, "network_error")
				return nil, &models.NetworkError{Attempts: attempts, Err: err}
			}
			netAttempts++
			c.countRetry(sub)
			log.WithError(err).Warn("transient failure, retrying")
			if err := c.sleep(ctx, c.cfg.NetworkDelay); err != nil {
				return nil, err
			}

		default:
			// A well-formed but unexpected 4xx: retrying will not help.
			c.count(sub, "api_error")
			return nil, err
		}
	}
}

// do performs a single attempt.
func (c *Client) do(ctx context.Context, sub models.SubRequest, requestID string) (*models.RawPayload, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, err
		}
	}
	if d := c.throttle.delay(); d > 0 {
		if err := c.sleep(ctx, d); err != nil {
			return nil, 0, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint := c.cfg.BaseURL + "?" + c.params(sub).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if c.metrics != nil {
		c.metrics.Duration.WithLabelValues(sub.Family.DocumentType).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, resp.StatusCode, err
	}

	// The "no data" acknowledgement is identified by its payload, not by
	// the HTTP status: the API wraps it in a 400.
	if reason, ok := noDataAcknowledgement(body); ok {
		return nil, resp.StatusCode, fmt.Errorf("%w: %s", models.ErrNoData, reason)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= 500 {
			return nil, resp.StatusCode, fmt.Errorf("server error: HTTP %d", resp.StatusCode)
		}
		if resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode == http.StatusUnauthorized ||
			resp.StatusCode == http.StatusForbidden {
			return nil, resp.StatusCode, fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		return nil, resp.StatusCode, &models.APIResponseError{
			Msg:     fmt.Sprintf("unexpected HTTP %d", resp.StatusCode),
			Snippet: models.Snippet(body),
		}
	}

	return &models.RawPayload{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, resp.StatusCode, nil
}

// params builds the query string for one sub-request.
func (c *Client) params(sub models.SubRequest) url.Values {
	v := url.Values{}
	v.Set("securityToken", c.cfg.Token)
	v.Set("periodStart", sub.Start.UTC().Format(timestampFormat))
	v.Set("periodEnd", sub.End.UTC().Format(timestampFormat))
	v.Set("documentType", sub.Family.DocumentType)
	if sub.Family.ProcessType != "" {
		v.Set("processType", sub.Family.ProcessType)
	}
	if sub.PSRType != "" {
		v.Set("psrType", sub.PSRType)
	}
	for key, val := range sub.Family.Extra {
		v.Set(key, val)
	}

	switch sub.Family.AreaParam {
	case models.AreaParamBiddingZone:
		v.Set("outBiddingZone_Domain", sub.AreaEIC)
	case models.AreaParamInDomain:
		v.Set("in_Domain", sub.AreaEIC)
	case models.AreaParamInOutSame:
		v.Set("in_Domain", sub.AreaEIC)
		v.Set("out_Domain", sub.AreaEIC)
	case models.AreaParamControlArea:
		v.Set("controlArea_Domain", sub.AreaEIC)
	case models.AreaParamBorder:
		v.Set("in_Domain", sub.ToEIC)
		v.Set("out_Domain", sub.AreaEIC)
	}
	return v
}

func (c *Client) count(sub models.SubRequest, outcome string) {
	if c.metrics != nil {
		c.metrics.Requests.WithLabelValues(sub.Family.DocumentType, outcome).Inc()
	}
}

func (c *Client) countRetry(sub models.SubRequest) {
	if c.metrics != nil {
		c.metrics.Retries.WithLabelValues(sub.Family.DocumentType).Inc()
	}
}

// backoff computes BaseDelay*2^attempt capped at max.
func backoff(base time.Duration, attempt int, max time.Duration) time.Duration {
	d := base << uint(attempt)
	if d > max || d <= 0 {
		return max
	}
	return d
}

// retryable reports whether a failed attempt is worth repeating: network
// errors, timeouts, and 5xx responses. Malformed-response errors are not;
// the same bytes would come back again.
func retryable(status int, err error) bool {
	if status >= 500 {
		return true
	}
	var apiErr *models.APIResponseError
	if errors.As(err, &apiErr) {
		return false
	}
	return err != nil && !errors.Is(err, context.Canceled)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
