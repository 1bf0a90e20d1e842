package calculator

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-cost/domain"
)

var mortgageTerms = domain.LoanTerms{
	Principal:     200_000,
	AnnualRate:    0.035,
	Periods:       240,
	InitialFees:   2500,
	InsuranceCost: 10_000,
}

func TestComputeLoanOutput_Mortgage(t *testing.T) {
	got := ComputeLoanOutput(mortgageTerms)

	assert.InDelta(t, 1159.92, got.PeriodicInstallmentWithoutInsurance, 0.005)
	assert.InDelta(t, 1201.59, got.FullPeriodicInstallment, 0.005)
	assert.InDelta(t, 78_380.66, got.TotalInterest, 0.01)
	assert.InDelta(t, 80_880.66, got.TotalCostWithoutInsurance, 0.01)
	assert.InDelta(t, 90_880.66, got.TotalCost, 0.01)
	assert.InDelta(t, 0.041217, got.EffectiveAnnualRate, 1e-6)
	assert.InDelta(t, 0.004179, got.EffectiveInsuranceAnnualRate, 1e-6)
	assert.LessOrEqual(t, got.TotalCostWithoutInsurance, got.TotalCost)
}

func TestComputeLoanOutput_ZeroRate(t *testing.T) {
	got := ComputeLoanOutput(domain.LoanTerms{
		Principal: 12_000,
		Periods:   12,
	})

	assert.Equal(t, 1000.0, got.PeriodicInstallmentWithoutInsurance)
	assert.Equal(t, 1000.0, got.FullPeriodicInstallment)
	assert.Equal(t, 0.0, got.TotalInterest)
	assert.Equal(t, 0.0, got.TotalCostWithoutInsurance)
	assert.Equal(t, 0.0, got.TotalCost)
	assert.InDelta(t, 0.0, got.EffectiveAnnualRate, 1e-9)
	assert.InDelta(t, 0.0, got.EffectiveInsuranceAnnualRate, 1e-9)
}

func TestComputeLoanOutput_SinglePeriod(t *testing.T) {
	got := ComputeLoanOutput(domain.LoanTerms{
		Principal:     10_000,
		AnnualRate:    0.05,
		Periods:       1,
		InitialFees:   100,
		InsuranceCost: 50,
	})

	assert.InDelta(t, 10_041.67, got.PeriodicInstallmentWithoutInsurance, 0.005)
	assert.InDelta(t, 10_091.67, got.FullPeriodicInstallment, 0.005)
	assert.InDelta(t, 0.258730, got.EffectiveAnnualRate, 1e-6)
	assert.InDelta(t, 0.258730-0.185898, got.EffectiveInsuranceAnnualRate, 1e-5)
}

func TestComputeLoanOutput_InsuranceDecomposition(t *testing.T) {
	withInsurance := ComputeLoanOutput(mortgageTerms)

	noInsurance := mortgageTerms
	noInsurance.InsuranceCost = 0
	without := ComputeLoanOutput(noInsurance)

	require.False(t, math.IsNaN(withInsurance.EffectiveAnnualRate))
	require.False(t, math.IsNaN(without.EffectiveAnnualRate))
	assert.InDelta(t,
		withInsurance.EffectiveAnnualRate-without.EffectiveAnnualRate,
		withInsurance.EffectiveInsuranceAnnualRate,
		1e-12,
	)
	assert.InDelta(t, 0.0, without.EffectiveInsuranceAnnualRate, 1e-12)
	assert.Equal(t, without.TotalCost, without.TotalCostWithoutInsurance)
}

func TestComputeLoanOutput_NonConvergencePropagatesNaN(t *testing.T) {
	engine := New(Config{MaxIterations: 1})

	got := engine.ComputeLoanOutput(mortgageTerms)

	assert.True(t, math.IsNaN(got.EffectiveAnnualRate))
	assert.True(t, math.IsNaN(got.EffectiveInsuranceAnnualRate))
	// The closed-form figures do not depend on the solver.
	assert.InDelta(t, 90_880.66, got.TotalCost, 0.01)
}

func TestComputeLoanOutput_MonotonicInRate(t *testing.T) {
	terms := mortgageTerms
	prev := ComputeLoanOutput(terms)
	for _, rate := range []float64{0.04, 0.05, 0.075, 0.1} {
		terms.AnnualRate = rate
		got := ComputeLoanOutput(terms)
		assert.Greater(t, got.TotalInterest, prev.TotalInterest)
		assert.Greater(t, got.PeriodicInstallmentWithoutInsurance, prev.PeriodicInstallmentWithoutInsurance)
		assert.Greater(t, got.EffectiveAnnualRate, prev.EffectiveAnnualRate)
		prev = got
	}
}

func TestComputeLoanOutput_IsPure(t *testing.T) {
	first := ComputeLoanOutput(mortgageTerms)

	var wg sync.WaitGroup
	results := make([]domain.LoanCostBreakdown, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ComputeLoanOutput(mortgageTerms)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, bits(first), bits(got))
	}
}

func bits(b domain.LoanCostBreakdown) [7]uint64 {
	return [7]uint64{
		math.Float64bits(b.PeriodicInstallmentWithoutInsurance),
		math.Float64bits(b.FullPeriodicInstallment),
		math.Float64bits(b.TotalInterest),
		math.Float64bits(b.TotalCostWithoutInsurance),
		math.Float64bits(b.TotalCost),
		math.Float64bits(b.EffectiveAnnualRate),
		math.Float64bits(b.EffectiveInsuranceAnnualRate),
	}
}
