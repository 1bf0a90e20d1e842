package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"loan-cost/calculator"
	"loan-cost/domain"
	"loan-cost/repository"
)

type LoanService struct {
	repo   repository.LoanRepository
	cache  repository.CacheRepository
	engine *calculator.Engine
	log    zerolog.Logger
	now    func() time.Time
}

// NewLoanService creates a new LoanService with the given repository and cache.
func NewLoanService(
	repo repository.LoanRepository,
	cache repository.CacheRepository,
	engine *calculator.Engine,
	log zerolog.Logger,
) *LoanService {
	if engine == nil {
		engine = calculator.New(calculator.DefaultConfig)
	}
	return &LoanService{
		repo:   repo,
		cache:  cache,
		engine: engine,
		log:    log.With().Str("component", "loan_service").Logger(),
		now:    time.Now,
	}
}

// CalculateCost validates the request, computes the cost breakdown and
// records it in the history.
func (s *LoanService) CalculateCost(
	ctx context.Context,
	req domain.LoanRequest,
) (domain.CalculationRecord, error) {
	terms, err := ToLoanTerms(req)
	if err != nil {
		return domain.CalculationRecord{}, err
	}

	record := domain.CalculationRecord{
		ID:        uuid.New().String(),
		CreatedAt: s.now().UTC(),
		Terms:     terms,
		Breakdown: s.Breakdown(ctx, terms),
	}

	if math.IsNaN(record.Breakdown.EffectiveAnnualRate) {
		s.log.Warn().
			Str("id", record.ID).
			Float64("principal", terms.Principal).
			Int("periods", terms.Periods).
			Msg("Effective annual rate did not converge")
	}

	// History is not critical: a failed save never fails the calculation
	if err := s.repo.Save(ctx, record); err != nil {
		s.log.Warn().Err(err).Str("id", record.ID).Msg("Failed to save loan calculation")
	}

	return record, nil
}

// Breakdown computes the cost of already validated terms, going through the
// cache first.
func (s *LoanService) Breakdown(ctx context.Context, terms domain.LoanTerms) domain.LoanCostBreakdown {
	key := repository.CacheKey(terms)

	if data, ok := s.cache.Get(ctx, key); ok {
		breakdown, err := repository.DecodeBreakdown(data)
		if err == nil {
			return breakdown
		}
		s.log.Warn().Err(err).Str("key", key).Msg("Discarding unreadable cache entry")
	}

	breakdown := s.engine.ComputeLoanOutput(terms)

	data, err := repository.EncodeBreakdown(breakdown)
	if err == nil {
		err = s.cache.Set(ctx, key, data)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to cache loan calculation")
	}

	return breakdown
}

// History returns the most recent calculations, newest first.
func (s *LoanService) History(ctx context.Context, limit int) ([]domain.CalculationRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	records, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return records, nil
}

// Get returns one stored calculation. It wraps repository.ErrNotFound.
func (s *LoanService) Get(ctx context.Context, id string) (domain.CalculationRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.CalculationRecord{}, fmt.Errorf("failed to load calculation: %w", err)
	}
	return record, nil
}
