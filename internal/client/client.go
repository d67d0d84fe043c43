// Package client is the public entry point: it wires the planner,
// transport, decoder, and assembler into one fetch pipeline and exposes a
// method per document family operation.
package client

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"entsogo/internal/assemble"
	"entsogo/internal/decode"
	"entsogo/internal/models"
	"entsogo/internal/planner"
	"entsogo/internal/transport"
)

const defaultMaxConcurrency = 4

// Options configures a Client.
type Options struct {
	// Transport carries the token, endpoint, and retry policy.
	Transport transport.Config

	// RatePerSecond and RateBurst build the client-side pacing limiter.
	// Zero disables pacing. Ignored when Limiter is set.
	RatePerSecond float64
	RateBurst     int

	// Limiter, when non-nil, is used instead of a freshly built one.
	// Several clients in one process can share it to pool a single
	// request budget against the API.
	Limiter *rate.Limiter

	// MaxConcurrency bounds the sub-request worker pool.
	MaxConcurrency int

	Logger *logrus.Logger

	// Metrics, when non-nil, receives the transport metric set.
	Metrics prometheus.Registerer
}

// Client fetches transparency platform data. Safe for concurrent use.
type Client struct {
	transport   *transport.Client
	logger      *logrus.Logger
	concurrency int
}

// New builds a client. The security token is required; everything else
// has defaults.
func New(opts Options) (*Client, error) {
	if opts.Transport.Token == "" {
		return nil, &models.InvalidParameterError{
			Msg: "API security token is required (set api.token or ENTSOGO_API_TOKEN)",
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	limiter := opts.Limiter
	if limiter == nil && opts.RatePerSecond > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}

	var metrics *transport.Metrics
	if opts.Metrics != nil {
		metrics = transport.NewMetrics(opts.Metrics)
	}

	concurrency := opts.MaxConcurrency
	if concurrency <= 0 {
		concurrency = defaultMaxConcurrency
	}

	return &Client{
		transport:   transport.New(opts.Transport, limiter, logger, metrics),
		logger:      logger,
		concurrency: concurrency,
	}, nil
}

// Fetch executes one logical query: plan, fan out, decode, merge.
//
// Sub-requests run concurrently on a bounded pool. A failing sub-request
// cancels its siblings and fails the whole query; a cancelled context
// returns no partial table.
func (c *Client) Fetch(ctx context.Context, q models.Query) (*models.Table, error) {
	subs, err := planner.Plan(q)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"family":       q.Family.Name,
		"sub_requests": len(subs),
		"dimensions":   len(q.Dimensions),
	}).Debug("query planned")

	partials := make([]assemble.Partial, len(subs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, sub := range subs {
		i, sub := i, sub
		g.Go(func() error {
			partial, err := c.run(gctx, sub)
			if err != nil {
				return err
			}
			partials[i] = partial
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assemble.Merge(q, partials)
}

// run executes one sub-request through transport and decoding. Explicit
// no-data outcomes are carried as markers, not errors; the assembler
// decides whether the query as a whole came up empty.
func (c *Client) run(ctx context.Context, sub models.SubRequest) (assemble.Partial, error) {
	payload, err := c.transport.Fetch(ctx, sub)
	if errors.Is(err, models.ErrNoData) {
		return assemble.Partial{Sub: sub, NoData: true}, nil
	}
	if err != nil {
		return assemble.Partial{}, err
	}

	observations, err := decode.Parse(payload)
	if errors.Is(err, models.ErrNoData) {
		return assemble.Partial{Sub: sub, NoData: true}, nil
	}
	if err != nil {
		return assemble.Partial{}, err
	}

	return assemble.Partial{Sub: sub, Observations: observations}, nil
}
