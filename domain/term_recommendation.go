package domain

const (
	PreferenceLowestRate        = "lowest_rate"
	PreferenceLowestInstallment = "lowest_installment"
	PreferenceLowestCost        = "lowest_cost"
)

type TermRecommendationInput struct {
	Loan              LoanRequest `json:"loan"` // Duration is ignored
	MinTermMonths     int         `json:"min_term_months"`
	MaxTermMonths     int         `json:"max_term_months"`
	StepMonths        int         `json:"step_months,omitempty"`         // defaults to 12
	MaxMonthlyPayment float64     `json:"max_monthly_payment,omitempty"` // 0 means no ceiling
	Preference        string      `json:"preference,omitempty"`          // defaults to lowest_rate
}

type TermRecommendation struct {
	TermMonths int
	Breakdown  LoanCostBreakdown
	Score      float64 // lower is better
}

type TermRecommendationResult struct {
	RecommendedTerm int
	Recommendations []TermRecommendation
}
