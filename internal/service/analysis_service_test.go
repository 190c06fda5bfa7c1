package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"privlens/internal/config"
	"privlens/internal/domain"
	"privlens/internal/export"
	"privlens/internal/port"
	"privlens/internal/service"
	"privlens/mocks"
)

type fixture struct {
	pipeline  *mocks.MockPolicyPipeline
	extractor *mocks.MockTextExtractor
	repo      *mocks.MockAnalysisRepo
	storage   *mocks.MockObjectStorage
	svc       service.AnalysisService
}

func newFixture(opts service.Options) *fixture {
	f := &fixture{
		pipeline:  new(mocks.MockPolicyPipeline),
		extractor: new(mocks.MockTextExtractor),
		repo:      new(mocks.MockAnalysisRepo),
		storage:   new(mocks.MockObjectStorage),
	}
	f.svc = service.NewAnalysisService(f.pipeline, f.extractor, f.repo, f.storage, opts, nil)
	return f
}

func sampleResult() *domain.DocumentResult {
	return &domain.DocumentResult{
		ID:               uuid.New(),
		CompanyName:      "Acme Corp",
		PolicyTitle:      "Acme Privacy Notice",
		Version:          "3.2",
		OverallRiskLevel: domain.RiskHigh,
		HighRiskSections: 1,
		ProcessingTime:   1500 * time.Millisecond,
		CreatedAt:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Sections: []domain.SectionResult{
			{
				RankedSection: domain.RankedSection{
					SectionAnalysis: domain.SectionAnalysis{
						Chunk:   domain.ContentChunk{ID: "chunk_0", RawText: "We sell your data."},
						Title:   "Sharing",
						Summary: "Data is sold.",
						Impact:  domain.UserImpact{SensitivityScore: 9},
					},
					ImportanceScore: 0.9,
					Priority:        1,
					RiskLevel:       domain.RiskHigh,
				},
				QuizStatus:    domain.QuizNotRequired,
				ComponentType: domain.ComponentHighlightCard,
			},
		},
	}
}

func TestAnalysisService_Analyze_PersistsRecordAndArtifact(t *testing.T) {
	f := newFixture(service.Options{PresignExpiry: 600})
	res := sampleResult()
	input := domain.DocumentInput{PolicyContent: "policy text", CompanyName: "Acme Corp"}

	f.pipeline.On("Run", mock.Anything, input).Return(res, nil)
	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Key == res.ID.String()+".json" && in.ContentType == "application/json"
	})).Return(&port.UploadOutput{Location: "s3://bucket/key"}, nil)
	f.storage.On("GetPresignedURL", mock.Anything, res.ID.String()+".json", int64(600)).
		Return("https://signed.example/key", nil)
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.AnalysisRecord) bool {
		return r.ID == res.ID &&
			r.Status == domain.AnalysisStatusCompleted &&
			r.OverallRisk == domain.RiskHigh &&
			r.SectionCount == 1 &&
			r.ProcessingTimeMs == 1500 &&
			r.ArtifactKey == res.ID.String()+".json" &&
			r.PolicyTitle == "Acme Privacy Notice" &&
			r.Version == "3.2" &&
			len(r.Result) > 0
	})).Return(nil)

	resp, err := f.svc.Analyze(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, res, resp.DocumentResult)
	assert.Len(t, resp.Components, 1)
	assert.Equal(t, "https://signed.example/key", resp.ArtifactURL)

	f.pipeline.AssertExpectations(t)
	f.storage.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestAnalysisService_Analyze_PersistenceFailuresIgnored(t *testing.T) {
	f := newFixture(service.Options{PresignExpiry: 600})
	res := sampleResult()

	f.pipeline.On("Run", mock.Anything, mock.Anything).Return(res, nil)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("bucket gone"))
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.AnalysisRecord) bool {
		return r.ArtifactKey == ""
	})).Return(errors.New("db down"))

	resp, err := f.svc.Analyze(context.Background(), domain.DocumentInput{})
	require.NoError(t, err)
	assert.Empty(t, resp.ArtifactURL)
	f.storage.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalysisService_Analyze_PipelineError(t *testing.T) {
	f := newFixture(service.Options{})
	inputErr := domain.NewInputError(domain.ErrMissingCompanyName, "")
	f.pipeline.On("Run", mock.Anything, mock.Anything).Return(nil, inputErr)

	resp, err := f.svc.Analyze(context.Background(), domain.DocumentInput{PolicyContent: "x"})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrMissingCompanyName)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAnalysisService_AnalyzeFile_TooLarge(t *testing.T) {
	f := newFixture(service.Options{MaxUploadBytes: 4})

	_, err := f.svc.AnalyzeFile(context.Background(), &service.AnalyzeFileInput{
		Filename: "policy.txt",
		Data:     []byte("too many bytes"),
	})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	f.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalysisService_AnalyzeFile_ExtractsThenRuns(t *testing.T) {
	f := newFixture(service.Options{MaxUploadBytes: 1 << 20})
	res := sampleResult()
	data := []byte("<p>We sell your data.</p>")

	f.extractor.On("Extract", mock.Anything, "policy.html", data).Return("We sell your data.", nil)
	f.pipeline.On("Run", mock.Anything, domain.DocumentInput{
		PolicyContent: "We sell your data.",
		CompanyName:   "Acme Corp",
		CompanyURL:    "https://acme.example",
		PolicyTitle:   "Acme Privacy Notice",
		EffectiveDate: "2026-01-01",
		MaxChunkSize:  1200,
	}).Return(res, nil)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.svc.AnalyzeFile(context.Background(), &service.AnalyzeFileInput{
		Filename:      "policy.html",
		Data:          data,
		CompanyName:   "Acme Corp",
		CompanyURL:    "https://acme.example",
		PolicyTitle:   "Acme Privacy Notice",
		EffectiveDate: "2026-01-01",
		MaxChunkSize:  1200,
	})
	require.NoError(t, err)
	assert.Equal(t, res.ID, resp.ID)
	f.extractor.AssertExpectations(t)
	f.pipeline.AssertExpectations(t)
}

func TestAnalysisService_AnalyzeFile_ExtractionError(t *testing.T) {
	f := newFixture(service.Options{})
	f.extractor.On("Extract", mock.Anything, "policy.doc", mock.Anything).Return("", domain.ErrUnsupportedFileType)

	_, err := f.svc.AnalyzeFile(context.Background(), &service.AnalyzeFileInput{Filename: "policy.doc", Data: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	f.pipeline.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestAnalysisService_GetByID_FromRecord(t *testing.T) {
	f := newFixture(service.Options{})
	res := sampleResult()
	payload, err := json.Marshal(res)
	require.NoError(t, err)

	f.repo.On("GetByID", mock.Anything, res.ID).Return(&domain.AnalysisRecord{ID: res.ID, Result: payload}, nil)

	resp, err := f.svc.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", resp.CompanyName)
	require.Len(t, resp.Sections, 1)
	assert.Equal(t, "Sharing", resp.Sections[0].Title)
	assert.Len(t, resp.Components, 1)
	f.storage.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)
}

func TestAnalysisService_GetByID_FromArtifact(t *testing.T) {
	f := newFixture(service.Options{})
	res := sampleResult()
	payload, err := json.Marshal(res)
	require.NoError(t, err)

	f.repo.On("GetByID", mock.Anything, res.ID).Return(&domain.AnalysisRecord{ID: res.ID, ArtifactKey: "k.json"}, nil)
	f.storage.On("Download", mock.Anything, "k.json").Return(payload, nil)

	resp, err := f.svc.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, resp.ID)
}

func TestAnalysisService_GetByID_NotFound(t *testing.T) {
	f := newFixture(service.Options{})
	id := uuid.New()
	f.repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrAnalysisNotFound)

	_, err := f.svc.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrAnalysisNotFound)
}

func TestAnalysisService_GetByID_NoPayload(t *testing.T) {
	f := newFixture(service.Options{})
	id := uuid.New()
	f.repo.On("GetByID", mock.Anything, id).Return(&domain.AnalysisRecord{ID: id}, nil)

	_, err := f.svc.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrAnalysisNotFound)
}

func TestAnalysisService_Export_CSV(t *testing.T) {
	f := newFixture(service.Options{})
	res := sampleResult()
	payload, err := json.Marshal(res)
	require.NoError(t, err)
	f.repo.On("GetByID", mock.Anything, res.ID).Return(&domain.AnalysisRecord{ID: res.ID, Result: payload}, nil)

	out, err := f.svc.Export(context.Background(), res.ID, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "Acme_Corp_privacy_2024-05-01.csv", out.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", out.ContentType)
	assert.True(t, strings.Contains(string(out.Data), "Sharing"))
}

func TestAnalysisService_List(t *testing.T) {
	f := newFixture(service.Options{})
	records := []domain.AnalysisRecord{{ID: uuid.New(), CompanyName: "Acme Corp"}}
	f.repo.On("List", mock.Anything, 0, 20).Return(records, 1, nil)

	got, total, err := f.svc.List(context.Background(), 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, records, got)
}

func TestNewModelInfo(t *testing.T) {
	r := &config.ReasoningConfig{
		Primary:           config.ProviderConfig{Provider: "openai", APIKey: "secret", PrimaryModel: "gpt-4o", SecondaryModel: "gpt-4o-mini"},
		Fallback:          config.ProviderConfig{Provider: "claude", PrimaryModel: "claude-sonnet"},
		MaxConcurrency:    5,
		RequestsPerMinute: 60,
		TokensPerMinute:   90000,
		MaxRetries:        3,
	}
	info := service.NewModelInfo(r, &config.PipelineConfig{QuizThreshold: 8})

	require.Len(t, info.Providers, 2)
	assert.Equal(t, "openai", info.Providers[0].Name)
	assert.Equal(t, "claude", info.Providers[1].Name)
	assert.Equal(t, domain.TierSecondary, info.TierPolicy[domain.KindEntities])
	assert.Equal(t, domain.TierPrimary, info.TierPolicy[domain.KindQuiz])
	assert.Equal(t, 8.0, info.QuizThreshold)

	raw, err := json.Marshal(info)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
}
