package port

import (
	"context"

	"privlens/internal/domain"
)

// PolicyPipeline runs one document through the full analysis pipeline.
type PolicyPipeline interface {
	Run(ctx context.Context, input domain.DocumentInput) (*domain.DocumentResult, error)
}

// TextExtractor turns an uploaded document into plain policy text.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}
