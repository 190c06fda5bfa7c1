package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"privlens/internal/domain"
	"privlens/internal/export"
	"privlens/internal/service"
)

// MockAnalysisService is a mock implementation of service.AnalysisService.
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, input domain.DocumentInput) (*service.AnalysisResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnalysisResponse), args.Error(1)
}

func (m *MockAnalysisService) AnalyzeFile(ctx context.Context, input *service.AnalyzeFileInput) (*service.AnalysisResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnalysisResponse), args.Error(1)
}

func (m *MockAnalysisService) GetByID(ctx context.Context, id uuid.UUID) (*service.AnalysisResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnalysisResponse), args.Error(1)
}

func (m *MockAnalysisService) List(ctx context.Context, offset, limit int) ([]domain.AnalysisRecord, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AnalysisRecord), args.Int(1), args.Error(2)
}

func (m *MockAnalysisService) Export(ctx context.Context, id uuid.UUID, format export.Format) (*service.ExportOutput, error) {
	args := m.Called(ctx, id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportOutput), args.Error(1)
}

func (m *MockAnalysisService) Models() service.ModelInfo {
	args := m.Called()
	return args.Get(0).(service.ModelInfo)
}
