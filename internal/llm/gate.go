package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// GateConfig sizes the admission gate.
type GateConfig struct {
	MaxConcurrency    int
	RequestsPerMinute int
	TokensPerMinute   int
}

// Gate is the counting admission gate shared by every document run. It
// holds a concurrency ceiling plus request and token budgets and contains
// no document data. Callers over budget wait; nothing is dropped.
type Gate struct {
	sem      *semaphore.Weighted
	requests *rate.Limiter
	tokens   *rate.Limiter
	logger   *zap.Logger
	cfg      GateConfig
}

// NewGate creates a Gate. Zero or negative budgets disable that limit.
func NewGate(cfg GateConfig, logger *zap.Logger) *Gate {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gate{
		sem:    semaphore.NewWeighted(int64(cfg.MaxConcurrency)),
		logger: logger,
		cfg:    cfg,
	}
	if cfg.RequestsPerMinute > 0 {
		g.requests = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), burstFor(cfg.RequestsPerMinute))
	}
	if cfg.TokensPerMinute > 0 {
		g.tokens = rate.NewLimiter(rate.Limit(float64(cfg.TokensPerMinute)/60.0), cfg.TokensPerMinute)
	}
	return g
}

// burstFor allows a short burst of requests without exceeding the minute budget.
func burstFor(perMinute int) int {
	b := perMinute / 6
	if b < 1 {
		b = 1
	}
	return b
}

// Config returns the gate sizing.
func (g *Gate) Config() GateConfig {
	return g.cfg
}

// Acquire waits for a concurrency slot and for request and token budget.
// The returned release must be called when the call finishes.
func (g *Gate) Acquire(ctx context.Context, estimatedTokens int) (func(), error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	release := func() { g.sem.Release(1) }

	if err := g.wait(ctx, g.requests, 1, "requests"); err != nil {
		release()
		return nil, err
	}
	if g.tokens != nil {
		n := estimatedTokens
		if n > g.tokens.Burst() {
			n = g.tokens.Burst()
		}
		if n < 1 {
			n = 1
		}
		if err := g.wait(ctx, g.tokens, n, "tokens"); err != nil {
			release()
			return nil, err
		}
	}
	return release, nil
}

func (g *Gate) wait(ctx context.Context, lim *rate.Limiter, n int, budget string) error {
	if lim == nil {
		return nil
	}
	r := lim.ReserveN(time.Now(), n)
	if !r.OK() {
		return fmt.Errorf("%w: %s request of %d exceeds burst", ErrRateBudgetExceeded, budget, n)
	}
	delay := r.Delay()
	if delay <= 0 {
		return nil
	}

	g.logger.Debug("llm.Gate.Acquire: waiting for budget",
		zap.String("budget", budget),
		zap.Duration("delay", delay),
		zap.NamedError("reason", ErrRateBudgetExceeded),
	)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
