package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"privlens/internal/domain"
)

// MockPolicyPipeline is a mock implementation of port.PolicyPipeline.
type MockPolicyPipeline struct {
	mock.Mock
}

func (m *MockPolicyPipeline) Run(ctx context.Context, input domain.DocumentInput) (*domain.DocumentResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentResult), args.Error(1)
}

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	args := m.Called(ctx, filename, data)
	return args.String(0), args.Error(1)
}
