package llm_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
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

type valueSchema struct {
	Value string `json:"value"`
}

func (s *valueSchema) Validate() error {
	if s.Value == "" {
		return errors.New("value is required")
	}
	return nil
}

func newTestClient(p port.CompletionProvider, maxRetries int) *llm.Client {
	gate := llm.NewGate(llm.GateConfig{MaxConcurrency: 4}, nil)
	return llm.NewClient(p, gate, llm.ClientConfig{
		MaxRetries:    maxRetries,
		CallTimeout:   time.Second,
		Backoff:       llm.Backoff{Base: time.Millisecond, Max: 2 * time.Millisecond},
		MaxRetryAfter: time.Millisecond,
	}, nil)
}

func textResponse(text string) *port.CompletionResponse {
	return &port.CompletionResponse{Text: text, Model: "gpt-4o", Provider: "mock"}
}

func TestClient_Analyze_Success(t *testing.T) {
	p := new(mocks.MockCompletionProvider)
	p.On("Complete", mock.Anything, mock.Anything).Return(textResponse("```json\n{\"value\":\"ok\"}\n```"), nil).Once()

	c := newTestClient(p, 2)
	var out valueSchema
	meta, err := c.Analyze(context.Background(), port.ReasoningRequest{Kind: domain.KindImpact, Prompt: "p"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "ok", out.Value)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, "gpt-4o", meta.Model)
	p.AssertExpectations(t)
}

func TestClient_Analyze_TierFromKind(t *testing.T) {
	p := new(mocks.MockCompletionProvider)
	p.On("Complete", mock.Anything, mock.MatchedBy(func(r port.CompletionRequest) bool {
		return r.Tier == domain.TierSecondary
	})).Return(textResponse(`{"value":"ok"}`), nil).Once()

	c := newTestClient(p, 0)
	var out valueSchema
	_, err := c.Analyze(context.Background(), port.ReasoningRequest{Kind: domain.KindEntities, Prompt: "p"}, &out)

	require.NoError(t, err)
	p.AssertExpectations(t)
}

func TestClient_Analyze_RetriesServerError(t *testing.T) {
	p := new(mocks.MockCompletionProvider)
	p.On("Complete", mock.Anything, mock.Anything).Return(nil, &llm.StatusError{Provider: "mock", StatusCode: 503}).Once()
	p.On("Complete", mock.Anything, mock.Anything).Return(textResponse(`{"value":"second"}`), nil).Once()

	c := newTestClient(p, 2)
	var out valueSchema
	meta, err := c.Analyze(context.Background(), port.ReasoningRequest{Kind: domain.KindSummary, Prompt: "p"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "second", out.Value)
	assert.Equal(t, 2, meta.Attempts)
	p.AssertNumberOfCalls(t, "Complete", 2)
}

func TestClient_Analyze_TimeoutsExhaustRetries(t *testing.T) {
	p := new(mocks.MockCompletionProvider)
	p.On("Complete", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded)

	c := newTestClient(p, 2)
	var out valueSchema
	_, err := c.Analyze(context.Background(), port.ReasoningRequest{Kind: domain.KindImpact, Prompt: "p"}, &out)

	var transient *llm.TransientAnalysisError
	require.ErrorAs(t, err, &transient)
	assert.Equal(t, 3, transient.Attempts)
	p.AssertNumberOfCalls(t, "Complete", 3)
}

func TestClient_Analyze_MalformedBecomesSchemaErrorAfterRetries(t *testing.T) {
	p := new(mocks.MockCompletionProvider)
	p.On("Complete", mock.Anything, mock.Anything).Return(textResponse("not json at all"), nil)

	c := newTestClient(p, 1)
	var out valueSchema
	_, err := c.Analyze(context.Background(), port.ReasoningRequest{Kind: domain.KindImpact, Prompt: "p"}, &out)

	var schemaErr *llm.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	p.AssertNumberOfCalls(t, "Complete", 2)
}

func TestClient_Analyze_ValidationFailureNotRetried(t *testing.T) {
	p := new(mocks.MockCompletionProvider)
	p.On("Complete", mock.Anything, mock.Anything).Return(textResponse(`{"value":""}`), nil)

	c := newTestClient(p, 3)
	var out valueSchema
	_, err := c.Analyze(context.Background(), port.ReasoningRequest{Kind: domain.KindImpact, Prompt: "p"}, &out)

	var schemaErr *llm.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	p.AssertNumberOfCalls(t, "Complete", 1)
}

func TestClient_Analyze_AuthFailureNotRetried(t *testing.T) {
	p := new(mocks.MockCompletionProvider)
	p.On("Complete", mock.Anything, mock.Anything).Return(nil, &llm.AuthError{Provider: "mock", Err: errors.New("401")})

	c := newTestClient(p, 3)
	var out valueSchema
	_, err := c.Analyze(context.Background(), port.ReasoningRequest{Kind: domain.KindImpact, Prompt: "p"}, &out)

	var authErr *llm.AuthError
	require.ErrorAs(t, err, &authErr)
	p.AssertNumberOfCalls(t, "Complete", 1)
}

func TestClient_Analyze_RateLimitedThenSucceeds(t *testing.T) {
	p := new(mocks.MockCompletionProvider)
	p.On("Complete", mock.Anything, mock.Anything).Return(nil, llm.NewRateLimitError("mock", errors.New("429"), 60)).Once()
	p.On("Complete", mock.Anything, mock.Anything).Return(textResponse(`{"value":"ok"}`), nil).Once()

	c := newTestClient(p, 1)
	var out valueSchema
	start := time.Now()
	_, err := c.Analyze(context.Background(), port.ReasoningRequest{Kind: domain.KindImpact, Prompt: "p"}, &out)

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second, "Retry-After wait should be capped")
}

func TestClient_Analyze_CancelledContext(t *testing.T) {
	p := new(mocks.MockCompletionProvider)

	c := newTestClient(p, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out valueSchema
	_, err := c.Analyze(ctx, port.ReasoningRequest{Kind: domain.KindImpact, Prompt: "p"}, &out)

	assert.ErrorIs(t, err, context.Canceled)
	p.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestClient_Analyze_CancelStopsInFlightCall(t *testing.T) {
	p := new(mocks.MockCompletionProvider)
	p.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.Canceled)

	c := newTestClient(p, 2)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	var out valueSchema
	_, err := c.Analyze(ctx, port.ReasoningRequest{Kind: domain.KindImpact, Prompt: "p"}, &out)

	assert.ErrorIs(t, err, context.Canceled)
	p.AssertNumberOfCalls(t, "Complete", 1)
}

func TestClient_Analyze_ConcurrencyCeiling(t *testing.T) {
	var inFlight, maxSeen int32
	p := new(mocks.MockCompletionProvider)
	p.On("Complete", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				m := atomic.LoadInt32(&maxSeen)
				if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		}).
		Return(textResponse(`{"value":"ok"}`), nil)

	gate := llm.NewGate(llm.GateConfig{MaxConcurrency: 2}, nil)
	c := llm.NewClient(p, gate, llm.ClientConfig{CallTimeout: time.Second}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out valueSchema
			_, err := c.Analyze(context.Background(), port.ReasoningRequest{Kind: domain.KindImpact, Prompt: "p"}, &out)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&maxSeen), int32(2))
	p.AssertNumberOfCalls(t, "Complete", 8)
}
