package calculator

import "math"

// Failure tells why a solve did not converge.
type Failure int

const (
	FailureNone Failure = iota
	// FailureFlatDerivative: |g'(x)| fell under the derivative threshold.
	FailureFlatDerivative
	// FailureIterationLimit: MaxIterations steps without |g(x)| < Tolerance.
	FailureIterationLimit
	// FailureNonFinite: the iterate left the real numbers.
	FailureNonFinite
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureFlatDerivative:
		return "flat derivative"
	case FailureIterationLimit:
		return "iteration limit"
	case FailureNonFinite:
		return "non-finite iterate"
	}
	return "unknown"
}

// RateOutcome is the result of an effective rate solve. Rate and
// DiscountFactor are meaningful only when Converged is true.
type RateOutcome struct {
	Converged      bool
	Rate           float64
	DiscountFactor float64
	Iterations     int
	Failure        Failure
}

// Value returns the annual rate, or NaN when the solve did not converge.
func (o RateOutcome) Value() float64 {
	if !o.Converged {
		return math.NaN()
	}
	return o.Rate
}

// SolveEffectiveAnnualRate finds the per-period discount factor x for which
// the level payment stream implied by totalCost, plus the upfront fees,
// discounts back exactly to principal, and annualizes it.
//
//	A     = (totalCost + principal - initialFees) / periods
//	g(x)  = A * Σ_{i=1..n} x^i + initialFees - principal
//	g'(x) = A * Σ_{i=1..n} i * x^(i-1)
//	rate  = (1/x)^PeriodsPerYear - 1
//
// The solver never fails loudly: a flat tangent or an exhausted iteration
// budget comes back as a non-converged outcome. An all-zero stream (nothing
// borrowed, no fees, no cost) satisfies g for every x and is reported as a
// zero rate instead of annualizing the starting point.
func (e *Engine) SolveEffectiveAnnualRate(periods int, principal, initialFees, totalCost float64) RateOutcome {
	totalReimbursed := totalCost + principal
	averageInstallment := (totalReimbursed - initialFees) / float64(periods)
	offset := initialFees - principal

	if averageInstallment == 0 && offset == 0 {
		return RateOutcome{Converged: true, Rate: 0, DiscountFactor: 1}
	}

	x := e.cfg.InitialDiscountFactor
	for iter := 0; iter < e.cfg.MaxIterations; iter++ {
		g, dg := cashFlowBalance(x, periods, averageInstallment, offset)

		if math.IsNaN(g) || math.IsInf(g, 0) {
			return RateOutcome{Iterations: iter, Failure: FailureNonFinite}
		}
		if math.Abs(g) < e.cfg.Tolerance {
			return RateOutcome{
				Converged:      true,
				Rate:           math.Pow(1/x, float64(e.cfg.PeriodsPerYear)) - 1,
				DiscountFactor: x,
				Iterations:     iter,
			}
		}
		if math.Abs(dg) < e.cfg.DerivativeThreshold {
			return RateOutcome{Iterations: iter, Failure: FailureFlatDerivative}
		}

		x -= g / dg
	}

	return RateOutcome{Iterations: e.cfg.MaxIterations, Failure: FailureIterationLimit}
}

// SolveEffectiveAnnualRate uses the default monthly engine.
func SolveEffectiveAnnualRate(periods int, principal, initialFees, totalCost float64) RateOutcome {
	return defaultEngine.SolveEffectiveAnnualRate(periods, principal, initialFees, totalCost)
}

// cashFlowBalance evaluates g(x) and g'(x) in a single pass.
func cashFlowBalance(x float64, periods int, installment, offset float64) (float64, float64) {
	var sum, deriv float64
	pow := 1.0 // x^(i-1)
	for i := 1; i <= periods; i++ {
		deriv += float64(i) * pow
		pow *= x
		sum += pow
	}
	return installment*sum + offset, installment * deriv
}
