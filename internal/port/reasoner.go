package port

import (
	"context"
	"time"

	"privlens/internal/domain"
)

// Schema is an expected reasoning response shape. Validate runs after the
// response has been decoded into it.
type Schema interface {
	Validate() error
}

// ReasoningRequest is one structured call to the reasoning service.
type ReasoningRequest struct {
	Kind        domain.AnalysisKind
	Tier        domain.ModelTier
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// ReasoningMeta describes how a successful call was served.
type ReasoningMeta struct {
	Provider string
	Model    string
	Attempts int
	Latency  time.Duration
}

// Reasoner is the rate-limited, retrying call contract used by every
// analysis stage: prompt plus expected schema in, validated record out.
type Reasoner interface {
	Analyze(ctx context.Context, req ReasoningRequest, out Schema) (*ReasoningMeta, error)
}

// HealthChecker reports whether a dependency can currently serve requests.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// CompletionRequest is a single provider call, without retries.
type CompletionRequest struct {
	Tier        domain.ModelTier
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// CompletionResponse is the raw text returned by a provider.
type CompletionResponse struct {
	Text         string
	Model        string
	Provider     string
	FinishReason string
}

// CompletionProvider abstracts one reasoning service vendor.
type CompletionProvider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
