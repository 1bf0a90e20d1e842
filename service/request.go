package service

import (
	"fmt"
	"math"

	"loan-cost/domain"
)

// ToLoanTerms validates a user request and converts it to canonical terms:
// the rate from percent to a fraction, the duration to months.
func ToLoanTerms(req domain.LoanRequest) (domain.LoanTerms, error) {
	if !finite(req.Amount) || req.Amount <= 0 {
		return domain.LoanTerms{}, fmt.Errorf("%w: %v", ErrInvalidAmount, req.Amount)
	}
	if req.Amount > MaxLoanAmount {
		return domain.LoanTerms{}, fmt.Errorf("%w: exceeds the maximum of %.2f", ErrInvalidAmount, MaxLoanAmount)
	}
	if !finite(req.AnnualRatePercent) || req.AnnualRatePercent < 0 {
		return domain.LoanTerms{}, fmt.Errorf("%w: %v", ErrInvalidRate, req.AnnualRatePercent)
	}
	if req.AnnualRatePercent > MaxInterestRate {
		return domain.LoanTerms{}, fmt.Errorf("%w: exceeds the maximum of %.2f%%", ErrInvalidRate, MaxInterestRate)
	}
	if !finite(req.InitialFees) || req.InitialFees < 0 {
		return domain.LoanTerms{}, fmt.Errorf("%w: %v", ErrInvalidFees, req.InitialFees)
	}
	if !finite(req.InsuranceCost) || req.InsuranceCost < 0 {
		return domain.LoanTerms{}, fmt.Errorf("%w: %v", ErrInvalidInsurance, req.InsuranceCost)
	}

	months, err := durationInMonths(req.Duration, req.DurationUnit)
	if err != nil {
		return domain.LoanTerms{}, err
	}

	return domain.LoanTerms{
		Principal:     req.Amount,
		AnnualRate:    req.AnnualRatePercent / 100,
		Periods:       months,
		InitialFees:   req.InitialFees,
		InsuranceCost: req.InsuranceCost,
	}, nil
}

func durationInMonths(duration int, unit string) (int, error) {
	var months int
	switch unit {
	case "", domain.DurationMonths:
		months = duration
	case domain.DurationYears:
		if duration > MaxTermMonths/MonthsPerYear {
			return 0, fmt.Errorf("%w: exceeds the maximum of %d months", ErrInvalidTerm, MaxTermMonths)
		}
		months = duration * MonthsPerYear
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDurationUnit, unit)
	}

	if months < MinTermMonths {
		return 0, fmt.Errorf("%w: %d %s", ErrInvalidTerm, duration, unit)
	}
	if months > MaxTermMonths {
		return 0, fmt.Errorf("%w: exceeds the maximum of %d months", ErrInvalidTerm, MaxTermMonths)
	}
	return months, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
