package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"privlens/internal/domain"
	"privlens/internal/llm"
	"privlens/internal/port"
	"privlens/mocks"
)

func TestClient_Ping_SendsMinimalSecondaryCall(t *testing.T) {
	p := new(mocks.MockCompletionProvider)
	p.On("Complete", mock.Anything, mock.MatchedBy(func(r port.CompletionRequest) bool {
		return r.Tier == domain.TierSecondary && r.MaxTokens <= 5 && r.Prompt != ""
	})).Return(textResponse("OK"), nil).Once()

	require.NoError(t, newTestClient(p, 3).Ping(context.Background()))
	p.AssertExpectations(t)
}

func TestClient_Ping_ReportsProviderFailureWithoutRetry(t *testing.T) {
	authErr := &llm.AuthError{Err: errors.New("invalid api key")}
	p := new(mocks.MockCompletionProvider)
	p.On("Complete", mock.Anything, mock.Anything).Return(nil, authErr).Once()

	err := newTestClient(p, 3).Ping(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, authErr)
	p.AssertNumberOfCalls(t, "Complete", 1)
}

func TestClient_Ping_ReusesResultWithinTTL(t *testing.T) {
	p := new(mocks.MockCompletionProvider)
	p.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("503 unavailable")).Once()

	gate := llm.NewGate(llm.GateConfig{MaxConcurrency: 1}, nil)
	c := llm.NewClient(p, gate, llm.ClientConfig{CallTimeout: time.Second, HealthTTL: time.Minute}, nil)

	first := c.Ping(context.Background())
	second := c.Ping(context.Background())
	require.Error(t, first)
	assert.Equal(t, first, second)
	p.AssertNumberOfCalls(t, "Complete", 1)
}

func TestClient_Ping_WaitsForGate(t *testing.T) {
	p := new(mocks.MockCompletionProvider)
	gate := llm.NewGate(llm.GateConfig{MaxConcurrency: 1}, nil)
	c := llm.NewClient(p, gate, llm.ClientConfig{CallTimeout: time.Second}, nil)

	release, err := gate.Acquire(context.Background(), 1)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, c.Ping(ctx), context.DeadlineExceeded)
	p.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}
