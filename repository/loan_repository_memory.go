package repository

import (
	"context"
	"sync"
	"time"

	"loan-cost/domain"
)

// LoanRepositoryMemory is an in-memory implementation of LoanRepository.
type LoanRepositoryMemory struct {
	mu   sync.RWMutex
	data []domain.CalculationRecord
}

// NewLoanRepositoryMemory creates a new in-memory loan repository.
func NewLoanRepositoryMemory() *LoanRepositoryMemory {
	return &LoanRepositoryMemory{
		data: []domain.CalculationRecord{},
	}
}

// Save stores the calculation in memory.
func (r *LoanRepositoryMemory) Save(_ context.Context, record domain.CalculationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = append(r.data, record)
	return nil
}

func (r *LoanRepositoryMemory) Get(_ context.Context, id string) (domain.CalculationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.data {
		if rec.ID == id {
			return rec, nil
		}
	}
	return domain.CalculationRecord{}, ErrNotFound
}

func (r *LoanRepositoryMemory) List(_ context.Context, limit int) ([]domain.CalculationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.data) {
		limit = len(r.data)
	}

	out := make([]domain.CalculationRecord, 0, limit)
	for i := len(r.data) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.data[i])
	}
	return out, nil
}

func (r *LoanRepositoryMemory) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.data[:0]
	var deleted int64
	for _, rec := range r.data {
		if rec.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	r.data = kept
	return deleted, nil
}
