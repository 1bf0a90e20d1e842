package domain

import "time"

// LoanTerms is the canonical, already validated input of a cost calculation.
// AnnualRate is a fraction (0.035 for 3.5%) and Periods is counted in months.
type LoanTerms struct {
	Principal     float64
	AnnualRate    float64
	Periods       int
	InitialFees   float64
	InsuranceCost float64
}

// LoanCostBreakdown holds the aggregate cost of a loan.
// Both rate fields are NaN when the effective rate could not be solved.
type LoanCostBreakdown struct {
	PeriodicInstallmentWithoutInsurance float64
	FullPeriodicInstallment             float64
	TotalInterest                       float64
	TotalCostWithoutInsurance           float64
	TotalCost                           float64
	EffectiveAnnualRate                 float64
	EffectiveInsuranceAnnualRate        float64
}

const (
	DurationMonths = "months"
	DurationYears  = "years"
)

// LoanRequest is what a user enters: a rate in percent and a duration in
// months or years.
type LoanRequest struct {
	Amount            float64 `json:"amount"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	Duration          int     `json:"duration"`
	DurationUnit      string  `json:"duration_unit,omitempty"` // "months" (default) or "years"
	InitialFees       float64 `json:"initial_fees"`
	InsuranceCost     float64 `json:"insurance_cost"`
}

// CalculationRecord is one stored calculation.
type CalculationRecord struct {
	ID        string
	CreatedAt time.Time
	Terms     LoanTerms
	Breakdown LoanCostBreakdown
}
