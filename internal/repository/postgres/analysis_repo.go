package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"privlens/internal/domain"
	"privlens/internal/port"
)

type analysisRepo struct {
	db *sqlx.DB
}

// NewAnalysisRepo creates a new PostgreSQL-backed AnalysisRepository.
func NewAnalysisRepo(db *sqlx.DB) port.AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Create(ctx context.Context, rec *domain.AnalysisRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO policy_analyses (
		id, company_name, company_url, contact_email,
		policy_title, policy_version, effective_date, status,
		overall_risk, section_count, high_risk_sections, processing_time_ms,
		result, artifact_key, created_at
	) VALUES (
		:id, :company_name, :company_url, :contact_email,
		:policy_title, :policy_version, :effective_date, :status,
		:overall_risk, :section_count, :high_risk_sections, :processing_time_ms,
		:result, :artifact_key, :created_at
	)`

	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("analysisRepo.Create: %w", err)
	}
	return nil
}

func (r *analysisRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AnalysisRecord, error) {
	var rec domain.AnalysisRecord
	err := r.db.GetContext(ctx, &rec, "SELECT * FROM policy_analyses WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("analysisRepo.GetByID: %w", err)
	}
	return &rec, nil
}

// List returns records newest first without their result payload.
func (r *analysisRepo) List(ctx context.Context, offset, limit int) ([]domain.AnalysisRecord, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM policy_analyses"); err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.List count: %w", err)
	}

	var recs []domain.AnalysisRecord
	err := r.db.SelectContext(ctx, &recs,
		`SELECT id, company_name, company_url, contact_email,
			policy_title, policy_version, effective_date, status,
			overall_risk, section_count, high_risk_sections, processing_time_ms,
			artifact_key, created_at
		 FROM policy_analyses
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.List: %w", err)
	}
	return recs, total, nil
}

func (r *analysisRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
