package llm

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// BreakerProvider is a decorator that stops calling the inner provider once
// it keeps failing. While open, calls fail immediately with
// *ErrProviderUnavailable and no network I/O happens.
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker wraps p with a circuit breaker named name.
func WithBreaker(p Provider, name string, cfg BreakerConfig, log logrus.FieldLogger) *BreakerProvider {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = 1
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("llm circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !countsAsFailure(err)
		},
	})

	return &BreakerProvider{inner: p, cb: cb}
}

func (b *BreakerProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Generate(ctx, req)
	})
	if err != nil {
		return nil, mapBreakerError(err)
	}
	return res.(*Response), nil
}

func (b *BreakerProvider) ModelID() string {
	return b.inner.ModelID()
}

// HealthCheck goes through the breaker too, so an open breaker answers the
// check without touching the network.
func (b *BreakerProvider) HealthCheck(ctx context.Context) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.HealthCheck(ctx)
	})
	if err != nil {
		return mapBreakerError(err)
	}
	return nil
}

// State returns the breaker state: "closed", "half-open" or "open".
func (b *BreakerProvider) State() string {
	return b.cb.State().String()
}

func mapBreakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &ErrProviderUnavailable{Err: err}
	}
	return err
}

// countsAsFailure reports whether err says the provider is unhealthy or
// refusing us, as opposed to a bad answer or a caller that gave up.
func countsAsFailure(err error) bool {
	var unavailable *ErrProviderUnavailable
	var rateLimit *ErrRateLimit
	var auth *ErrAuth
	switch {
	case errors.As(err, &unavailable), errors.As(err, &rateLimit), errors.As(err, &auth):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}
