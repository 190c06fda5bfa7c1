package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"privlens/internal/domain"
	"privlens/internal/port"
)

const (
	healthTimeout   = 5 * time.Second
	healthPrompt    = "Reply with the single word OK."
	healthMaxTokens = 5
)

type healthState struct {
	mu        sync.Mutex
	checkedAt time.Time
	err       error
}

// Ping sends one minimal secondary-tier completion through the gate and
// reports whether the provider chain answered. It does not retry. Results
// are reused for HealthTTL so frequent readiness checks do not spend quota.
func (c *Client) Ping(ctx context.Context) error {
	c.health.mu.Lock()
	defer c.health.mu.Unlock()

	if c.cfg.HealthTTL > 0 && !c.health.checkedAt.IsZero() && time.Since(c.health.checkedAt) < c.cfg.HealthTTL {
		return c.health.err
	}

	pingCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req := port.ReasoningRequest{Tier: domain.TierSecondary, Prompt: healthPrompt, MaxTokens: healthMaxTokens}
	_, err := c.once(pingCtx, req, EstimateTokens(req))
	if ctxErr := ctx.Err(); ctxErr != nil {
		// The caller gave up; that says nothing about the provider.
		return ctxErr
	}
	if err != nil {
		err = fmt.Errorf("reasoning provider %s: %w", c.provider.Name(), err)
		c.logger.Warn("llm.Client.Ping: provider unhealthy", zap.Error(err))
	}

	c.health.checkedAt = time.Now()
	c.health.err = err
	return err
}
