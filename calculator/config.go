// Package calculator is the numeric core of the loan cost computation:
// the closed-form installment of an amortizing loan and the Newton-Raphson
// solver that recovers the effective annual rate from a payment stream.
//
// Everything in this package is pure. No I/O, no logging, no shared state;
// an Engine may be used from any number of goroutines.
package calculator

// MonthsPerYear is the base period of the default configuration.
const MonthsPerYear = 12

// Config holds the numeric parameters of the engine.
type Config struct {
	// PeriodsPerYear converts the nominal annual rate to a periodic rate
	// (simple division) and annualizes the solved discount factor.
	PeriodsPerYear int

	// InitialDiscountFactor is the Newton-Raphson starting point.
	InitialDiscountFactor float64

	// Tolerance is the |g(x)| below which the solver accepts x.
	Tolerance float64

	// DerivativeThreshold is the minimum |g'(x)|.
	// Below this, iteration stops to avoid division by near-zero.
	DerivativeThreshold float64

	// MaxIterations bounds the work of a single solve.
	MaxIterations int
}

// DefaultConfig is a monthly engine.
var DefaultConfig = Config{
	PeriodsPerYear:        MonthsPerYear,
	InitialDiscountFactor: 0.99,
	Tolerance:             1e-7,
	DerivativeThreshold:   1e-7,
	MaxIterations:         100,
}

// Engine computes installments, effective rates and full cost breakdowns.
type Engine struct {
	cfg Config
}

// New creates an Engine. Zero fields of cfg fall back to DefaultConfig.
func New(cfg Config) *Engine {
	if cfg.PeriodsPerYear <= 0 {
		cfg.PeriodsPerYear = DefaultConfig.PeriodsPerYear
	}
	if cfg.InitialDiscountFactor <= 0 {
		cfg.InitialDiscountFactor = DefaultConfig.InitialDiscountFactor
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultConfig.Tolerance
	}
	if cfg.DerivativeThreshold <= 0 {
		cfg.DerivativeThreshold = DefaultConfig.DerivativeThreshold
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig.MaxIterations
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective configuration of e.
func (e *Engine) Config() Config {
	return e.cfg
}

var defaultEngine = New(DefaultConfig)
