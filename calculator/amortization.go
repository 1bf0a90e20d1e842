package calculator

import "math"

// Installment is the fixed payment of an amortizing loan and the interest it
// accrues over the whole term.
type Installment struct {
	Installment   float64
	TotalInterest float64
}

// ComputeInstallment returns the fixed periodic payment that amortizes
// principal over periods at annualRate.
//
// Formula: A = P * r * (1+r)^n / ((1+r)^n - 1), with r = annualRate / PeriodsPerYear.
//
// The periodic rate is a simple division of the nominal rate, not the
// compound (1+annualRate)^(1/PeriodsPerYear) - 1.
// periods must be >= 1.
func (e *Engine) ComputeInstallment(principal, annualRate float64, periods int) Installment {
	n := float64(periods)
	r := annualRate / float64(e.cfg.PeriodsPerYear)

	if r == 0 {
		return Installment{Installment: principal / n}
	}

	f := math.Pow(1+r, n)
	installment := principal * r * f / (f - 1)

	return Installment{
		Installment:   installment,
		TotalInterest: installment*n - principal,
	}
}

// ComputeInstallment uses the default monthly engine.
func ComputeInstallment(principal, annualRate float64, periods int) Installment {
	return defaultEngine.ComputeInstallment(principal, annualRate, periods)
}
