package llm

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"privlens/internal/config"
	"privlens/internal/port"
)

// ClientConfig controls retries and per-call timeouts.
type ClientConfig struct {
	MaxRetries    int
	CallTimeout   time.Duration
	Backoff       Backoff
	MaxRetryAfter time.Duration
	// HealthTTL is how long a Ping result is reused. Zero disables caching.
	HealthTTL time.Duration
}

// ClientConfigFromConfig builds a ClientConfig from the reasoning settings.
func ClientConfigFromConfig(cfg *config.ReasoningConfig) ClientConfig {
	return ClientConfig{
		MaxRetries:  cfg.MaxRetries,
		CallTimeout: cfg.CallTimeout(),
		Backoff: Backoff{
			Base: time.Duration(cfg.BaseBackoffMs) * time.Millisecond,
			Max:  time.Duration(cfg.MaxBackoffMs) * time.Millisecond,
		},
		MaxRetryAfter: 30 * time.Second,
		HealthTTL:     30 * time.Second,
	}
}

// Client is the rate-limited, retrying reasoning client. It implements
// port.Reasoner and is safe for concurrent use by many document runs.
type Client struct {
	provider port.CompletionProvider
	gate     *Gate
	cfg      ClientConfig
	logger   *zap.Logger
	health   healthState
}

// NewClient creates a Client over provider, admitting calls through gate.
func NewClient(provider port.CompletionProvider, gate *Gate, cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{provider: provider, gate: gate, cfg: cfg, logger: logger}
}

// EstimateTokens approximates the token cost of a request for the token budget.
func EstimateTokens(req port.ReasoningRequest) int {
	return len(req.Prompt)/4 + req.MaxTokens
}

// Analyze issues req and decodes the response into out. Transient failures
// are retried with backoff; authentication and schema failures return at
// once. Cancelling ctx aborts the call and any pending wait.
func (c *Client) Analyze(ctx context.Context, req port.ReasoningRequest, out port.Schema) (*port.ReasoningMeta, error) {
	if req.Tier == "" {
		req.Tier = TierFor(req.Kind)
	}
	tokens := EstimateTokens(req)
	start := time.Now()
	log := c.logger.With(zap.String("kind", string(req.Kind)), zap.String("tier", string(req.Tier)))

	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.retryDelay(attempt-1, lastErr)); err != nil {
				return nil, err
			}
		}
		attempts++

		resp, err := c.once(ctx, req, tokens)
		if err == nil {
			err = Decode(resp.Text, out)
			if err == nil {
				return &port.ReasoningMeta{
					Provider: resp.Provider,
					Model:    resp.Model,
					Attempts: attempts,
					Latency:  time.Since(start),
				}, nil
			}
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		lastErr = err
		if !IsTransient(err) {
			log.Warn("llm.Client.Analyze: non-retryable failure", zap.Int("attempt", attempts), zap.Error(err))
			return nil, err
		}
		log.Debug("llm.Client.Analyze: transient failure", zap.Int("attempt", attempts), zap.Error(err))
	}

	var malformed *MalformedResponseError
	if errors.As(lastErr, &malformed) {
		return nil, &SchemaValidationError{Err: lastErr, Raw: malformed.Raw}
	}
	log.Warn("llm.Client.Analyze: retries exhausted", zap.Int("attempts", attempts), zap.Error(lastErr))
	return nil, &TransientAnalysisError{Attempts: attempts, Err: lastErr}
}

func (c *Client) once(ctx context.Context, req port.ReasoningRequest, tokens int) (*port.CompletionResponse, error) {
	release, err := c.gate.Acquire(ctx, tokens)
	if err != nil {
		return nil, err
	}
	defer release()

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	return c.provider.Complete(callCtx, port.CompletionRequest{
		Tier:        req.Tier,
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
}

// retryDelay honours Retry-After on 429 (capped) and backs off otherwise.
func (c *Client) retryDelay(retry int, lastErr error) time.Duration {
	var rlErr *RateLimitError
	if errors.As(lastErr, &rlErr) {
		d := rlErr.RetryAfter
		if c.cfg.MaxRetryAfter > 0 && d > c.cfg.MaxRetryAfter {
			d = c.cfg.MaxRetryAfter
		}
		return d
	}
	return c.cfg.Backoff.Delay(retry)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
