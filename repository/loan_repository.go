package repository

import (
	"context"
	"errors"
	"time"

	"loan-cost/domain"
)

// ErrNotFound is returned when no calculation has the requested ID.
var ErrNotFound = errors.New("calculation not found")

// LoanRepository stores the history of cost calculations.
type LoanRepository interface {
	Save(ctx context.Context, record domain.CalculationRecord) error
	Get(ctx context.Context, id string) (domain.CalculationRecord, error)
	// List returns the most recent records first.
	List(ctx context.Context, limit int) ([]domain.CalculationRecord, error)
	// DeleteBefore removes records created before cutoff and reports how many.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
