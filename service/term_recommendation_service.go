package service

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"loan-cost/domain"
)

type TermRecommendationService struct {
	loanService *LoanService
}

func NewTermRecommendationService(loanService *LoanService) *TermRecommendationService {
	return &TermRecommendationService{loanService: loanService}
}

// RecommendTerm prices the loan over a range of terms and ranks them by the
// requested preference, best first.
func (s *TermRecommendationService) RecommendTerm(
	ctx context.Context,
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {
	if input.MinTermMonths < MinTermMonths || input.MaxTermMonths < MinTermMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: terms must be at least %d month", ErrInvalidTermRange, MinTermMonths)
	}
	if input.MinTermMonths > input.MaxTermMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: minimum term above maximum", ErrInvalidTermRange)
	}
	if input.MaxTermMonths > MaxTermMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: maximum term exceeds %d months", ErrInvalidTermRange, MaxTermMonths)
	}
	if input.StepMonths < 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: negative step", ErrInvalidTermRange)
	}
	step := input.StepMonths
	if step == 0 {
		step = DefaultTermStep
	}
	if (input.MaxTermMonths-input.MinTermMonths)/step+1 > MaxTermCandidates {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: more than %d candidate terms", ErrInvalidTermRange, MaxTermCandidates)
	}
	if !finite(input.MaxMonthlyPayment) || input.MaxMonthlyPayment < 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: maximum monthly payment %v", ErrInvalidTermRange, input.MaxMonthlyPayment)
	}

	preference := input.Preference
	if preference == "" {
		preference = domain.PreferenceLowestRate
	}
	switch preference {
	case domain.PreferenceLowestRate, domain.PreferenceLowestInstallment, domain.PreferenceLowestCost:
	default:
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: %q", ErrInvalidPreference, preference)
	}

	loan := input.Loan
	loan.Duration = input.MinTermMonths
	loan.DurationUnit = domain.DurationMonths
	base, err := ToLoanTerms(loan)
	if err != nil {
		return domain.TermRecommendationResult{}, err
	}

	var recommendations []domain.TermRecommendation
	for term := input.MinTermMonths; term <= input.MaxTermMonths; term += step {
		terms := base
		terms.Periods = term

		breakdown := s.loanService.Breakdown(ctx, terms)

		if input.MaxMonthlyPayment > 0 && breakdown.FullPeriodicInstallment > input.MaxMonthlyPayment {
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermMonths: term,
			Breakdown:  breakdown,
			Score:      score(breakdown, preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermRecommendationResult{}, ErrNoEligibleTerm
	}

	recommendations = rank(recommendations)

	return domain.TermRecommendationResult{
		RecommendedTerm: recommendations[0].TermMonths,
		Recommendations: recommendations,
	}, nil
}

// score is lower-is-better. An unavailable rate ranks last.
func score(b domain.LoanCostBreakdown, preference string) float64 {
	switch preference {
	case domain.PreferenceLowestInstallment:
		return b.FullPeriodicInstallment
	case domain.PreferenceLowestCost:
		return b.TotalCost
	}
	if math.IsNaN(b.EffectiveAnnualRate) {
		return math.Inf(1)
	}
	return b.EffectiveAnnualRate
}

// rank orders by ascending score; equal scores keep the shorter term first.
func rank(recs []domain.TermRecommendation) []domain.TermRecommendation {
	scores := make([]float64, len(recs))
	for i, r := range recs {
		scores[i] = r.Score
	}
	inds := make([]int, len(recs))
	floats.ArgsortStable(scores, inds)

	ranked := make([]domain.TermRecommendation, len(recs))
	for i, idx := range inds {
		ranked[i] = recs[idx]
	}
	return ranked
}
