package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"privlens/internal/aggregate"
	"privlens/internal/domain"
	"privlens/internal/export"
	"privlens/internal/port"
)

// AnalyzeFileInput is the DTO for analyzing an uploaded policy file.
type AnalyzeFileInput struct {
	Filename      string
	Data          []byte
	CompanyName   string
	CompanyURL    string
	ContactEmail  string
	PolicyTitle   string
	Version       string
	EffectiveDate string
	MaxChunkSize  int
}

// AnalysisResponse is a document result together with its presentation
// components.
type AnalysisResponse struct {
	*domain.DocumentResult
	Components  []domain.UIComponent `json:"components"`
	ArtifactURL string               `json:"artifact_url,omitempty"`
}

// ExportOutput is a rendered report file.
type ExportOutput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AnalysisService defines the policy analysis contract.
type AnalysisService interface {
	Analyze(ctx context.Context, input domain.DocumentInput) (*AnalysisResponse, error)
	AnalyzeFile(ctx context.Context, input *AnalyzeFileInput) (*AnalysisResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*AnalysisResponse, error)
	List(ctx context.Context, offset, limit int) ([]domain.AnalysisRecord, int, error)
	Export(ctx context.Context, id uuid.UUID, format export.Format) (*ExportOutput, error)
	Models() ModelInfo
}

// Options holds the tunables of the analysis service.
type Options struct {
	MaxUploadBytes int64
	PresignExpiry  int64
	Models         ModelInfo
}

type analysisService struct {
	pipeline  port.PolicyPipeline
	extractor port.TextExtractor
	repo      port.AnalysisRepository
	storage   port.ObjectStorage
	opts      Options
	logger    *zap.Logger
}

// NewAnalysisService creates a new AnalysisService implementation.
func NewAnalysisService(
	pipeline port.PolicyPipeline,
	extractor port.TextExtractor,
	repo port.AnalysisRepository,
	storage port.ObjectStorage,
	opts Options,
	logger *zap.Logger,
) AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &analysisService{
		pipeline:  pipeline,
		extractor: extractor,
		repo:      repo,
		storage:   storage,
		opts:      opts,
		logger:    logger,
	}
}

func (s *analysisService) Analyze(ctx context.Context, input domain.DocumentInput) (*AnalysisResponse, error) {
	res, err := s.pipeline.Run(ctx, input)
	if err != nil {
		return nil, err
	}

	resp := &AnalysisResponse{DocumentResult: res, Components: aggregate.UIComponents(res)}
	resp.ArtifactURL = s.persist(ctx, res)
	return resp, nil
}

func (s *analysisService) AnalyzeFile(ctx context.Context, input *AnalyzeFileInput) (*AnalysisResponse, error) {
	if s.opts.MaxUploadBytes > 0 && int64(len(input.Data)) > s.opts.MaxUploadBytes {
		return nil, domain.ErrFileTooLarge
	}

	text, err := s.extractor.Extract(ctx, input.Filename, input.Data)
	if err != nil {
		return nil, err
	}

	return s.Analyze(ctx, domain.DocumentInput{
		PolicyContent: text,
		CompanyName:   input.CompanyName,
		CompanyURL:    input.CompanyURL,
		ContactEmail:  input.ContactEmail,
		PolicyTitle:   input.PolicyTitle,
		Version:       input.Version,
		EffectiveDate: input.EffectiveDate,
		MaxChunkSize:  input.MaxChunkSize,
	})
}

// persist stores the artifact and the record. Failures are logged and do
// not affect the analysis response. It returns a download URL when one is
// available.
func (s *analysisService) persist(ctx context.Context, res *domain.DocumentResult) string {
	payload, err := json.Marshal(res)
	if err != nil {
		s.logger.Error("analysisService.persist: marshalling result", zap.String("id", res.ID.String()), zap.Error(err))
		return ""
	}

	key := artifactKey(res.ID)
	url := ""
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Key:         key,
		Body:        bytes.NewReader(payload),
		ContentType: "application/json",
		Size:        int64(len(payload)),
	}); err != nil {
		s.logger.Warn("analysisService.persist: artifact upload failed", zap.String("id", res.ID.String()), zap.Error(err))
		key = ""
	} else if s.opts.PresignExpiry > 0 {
		url, err = s.storage.GetPresignedURL(ctx, key, s.opts.PresignExpiry)
		if err != nil {
			s.logger.Warn("analysisService.persist: presign failed", zap.String("key", key), zap.Error(err))
			url = ""
		}
	}

	rec := &domain.AnalysisRecord{
		ID:               res.ID,
		CompanyName:      res.CompanyName,
		CompanyURL:       res.CompanyURL,
		ContactEmail:     res.ContactEmail,
		PolicyTitle:      res.PolicyTitle,
		Version:          res.Version,
		EffectiveDate:    res.EffectiveDate,
		Status:           domain.AnalysisStatusCompleted,
		OverallRisk:      res.OverallRiskLevel,
		SectionCount:     len(res.Sections),
		HighRiskSections: res.HighRiskSections,
		ProcessingTimeMs: res.ProcessingTime.Milliseconds(),
		Result:           payload,
		ArtifactKey:      key,
		CreatedAt:        res.CreatedAt,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Warn("analysisService.persist: saving record failed", zap.String("id", res.ID.String()), zap.Error(err))
	}
	return url
}

func (s *analysisService) GetByID(ctx context.Context, id uuid.UUID) (*AnalysisResponse, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := []byte(rec.Result)
	if len(payload) == 0 && rec.ArtifactKey != "" {
		payload, err = s.storage.Download(ctx, rec.ArtifactKey)
		if err != nil {
			return nil, fmt.Errorf("analysisService.GetByID: loading artifact: %w", err)
		}
	}
	if len(payload) == 0 {
		return nil, domain.ErrAnalysisNotFound
	}

	var res domain.DocumentResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("analysisService.GetByID: decoding result: %w", err)
	}
	return &AnalysisResponse{DocumentResult: &res, Components: aggregate.UIComponents(&res)}, nil
}

func (s *analysisService) List(ctx context.Context, offset, limit int) ([]domain.AnalysisRecord, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *analysisService) Export(ctx context.Context, id uuid.UUID, format export.Format) (*ExportOutput, error) {
	resp, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, resp.DocumentResult, format); err != nil {
		return nil, fmt.Errorf("analysisService.Export: %w", err)
	}
	created := resp.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return &ExportOutput{
		Filename:    export.BuildFilename(resp.CompanyName, created, format),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func (s *analysisService) Models() ModelInfo {
	return s.opts.Models
}

func artifactKey(id uuid.UUID) string {
	return id.String() + ".json"
}
