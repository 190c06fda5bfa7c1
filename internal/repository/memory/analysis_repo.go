// Package memory provides in-process repositories used when no database is
// configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"privlens/internal/domain"
	"privlens/internal/port"
)

type analysisRepo struct {
	mu      sync.RWMutex
	records map[uuid.UUID]domain.AnalysisRecord
}

// NewAnalysisRepo creates an in-memory AnalysisRepository.
func NewAnalysisRepo() port.AnalysisRepository {
	return &analysisRepo{records: make(map[uuid.UUID]domain.AnalysisRecord)}
}

func (r *analysisRepo) Create(_ context.Context, rec *domain.AnalysisRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = *rec
	return nil
}

func (r *analysisRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.AnalysisRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrAnalysisNotFound
	}
	return &rec, nil
}

func (r *analysisRepo) List(_ context.Context, offset, limit int) ([]domain.AnalysisRecord, int, error) {
	r.mu.RLock()
	all := make([]domain.AnalysisRecord, 0, len(r.records))
	for _, rec := range r.records {
		rec.Result = nil
		all = append(all, rec)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})

	total := len(all)
	if offset >= total {
		return []domain.AnalysisRecord{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *analysisRepo) Ping(context.Context) error { return nil }
