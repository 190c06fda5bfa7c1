package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"privlens/internal/domain"
	"privlens/internal/handler"
	"privlens/internal/router"
	"privlens/internal/service"
	"privlens/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSetup_Routes(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	repo := new(mocks.MockAnalysisRepo)
	r := router.Setup(handler.NewPolicyHandler(svc, 0), handler.NewHealthHandler(repo, nil), []string{"http://localhost:3000"}, nil)

	id := uuid.New()
	svc.On("Models").Return(service.ModelInfo{})
	svc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrAnalysisNotFound)
	repo.On("Ping", mock.Anything).Return(nil)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/api/v1/policies/models", http.StatusOK},
		{http.MethodGet, "/api/v1/policies/" + id.String(), http.StatusNotFound},
		{http.MethodOptions, "/api/v1/policies/analyze", http.StatusNoContent},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, tt.path, http.NoBody)
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}
