package service

const (
	MaxLoanAmount   = 1_000_000_000.0 // 1 billion
	MaxInterestRate = 1000.0          // 1000% a year
	MaxTermMonths   = 600             // 50 years
	MinTermMonths   = 1
	MonthsPerYear   = 12

	// Term recommendation limits
	MaxTermCandidates = 120 // at most this many terms evaluated per request
	DefaultTermStep   = 12

	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)
