package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"privlens/internal/handler"
	"privlens/mocks"
)

func TestHealthHandler(t *testing.T) {
	repo := new(mocks.MockAnalysisRepo)
	h := handler.NewHealthHandler(repo, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	h.Liveness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	repo.On("Ping", mock.Anything).Return(nil).Once()
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	h.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	repo.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	h.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func readiness(t *testing.T, h *handler.HealthHandler) (int, map[string]string) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	h.Readiness(c)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthHandler_ReadinessReportsReasoning(t *testing.T) {
	repo := new(mocks.MockAnalysisRepo)
	reasoning := new(mocks.MockHealthChecker)
	h := handler.NewHealthHandler(repo, reasoning)
	repo.On("Ping", mock.Anything).Return(nil)

	reasoning.On("Ping", mock.Anything).Return(nil).Once()
	code, body := readiness(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["reasoning"])

	reasoning.On("Ping", mock.Anything).Return(errors.New("401 invalid api key")).Once()
	code, body = readiness(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "unavailable", body["reasoning"])

	reasoning.AssertExpectations(t)
}

func TestHealthHandler_StoreDownSkipsReasoning(t *testing.T) {
	repo := new(mocks.MockAnalysisRepo)
	reasoning := new(mocks.MockHealthChecker)
	h := handler.NewHealthHandler(repo, reasoning)
	repo.On("Ping", mock.Anything).Return(errors.New("connection refused"))

	code, body := readiness(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body["status"])
	reasoning.AssertNotCalled(t, "Ping", mock.Anything)
}
