package calculator

import "loan-cost/domain"

// ComputeLoanOutput assembles the full cost breakdown of terms.
//
// The effective rate is solved twice, once with the insurance cost in the
// payment stream and once without; the insurance share of the rate is the
// difference, and is NaN whenever either solve fails.
func (e *Engine) ComputeLoanOutput(terms domain.LoanTerms) domain.LoanCostBreakdown {
	inst := e.ComputeInstallment(terms.Principal, terms.AnnualRate, terms.Periods)

	costWithoutInsurance := terms.InitialFees + inst.TotalInterest
	totalCost := costWithoutInsurance + terms.InsuranceCost

	allIn := e.SolveEffectiveAnnualRate(terms.Periods, terms.Principal, terms.InitialFees, totalCost).Value()
	withoutInsurance := e.SolveEffectiveAnnualRate(terms.Periods, terms.Principal, terms.InitialFees, costWithoutInsurance).Value()

	return domain.LoanCostBreakdown{
		PeriodicInstallmentWithoutInsurance: inst.Installment,
		FullPeriodicInstallment:             (terms.Principal + inst.TotalInterest + terms.InsuranceCost) / float64(terms.Periods),
		TotalInterest:                       inst.TotalInterest,
		TotalCostWithoutInsurance:           costWithoutInsurance,
		TotalCost:                           totalCost,
		EffectiveAnnualRate:                 allIn,
		EffectiveInsuranceAnnualRate:        allIn - withoutInsurance,
	}
}

// ComputeLoanOutput uses the default monthly engine.
func ComputeLoanOutput(terms domain.LoanTerms) domain.LoanCostBreakdown {
	return defaultEngine.ComputeLoanOutput(terms)
}
