package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"privlens/internal/port"
)

// MockReasoner is a mock implementation of port.Reasoner. Use Run on the
// expectation to populate the out schema.
type MockReasoner struct {
	mock.Mock
}

func (m *MockReasoner) Analyze(ctx context.Context, req port.ReasoningRequest, out port.Schema) (*port.ReasoningMeta, error) {
	args := m.Called(ctx, req, out)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ReasoningMeta), args.Error(1)
}
