package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestComputeInstallment(t *testing.T) {
	tests := []struct {
		name         string
		principal    float64
		annualRate   float64
		periods      int
		wantPayment  float64
		wantInterest float64
	}{
		{
			name:         "20 year mortgage",
			principal:    200_000,
			annualRate:   0.035,
			periods:      240,
			wantPayment:  1159.92,
			wantInterest: 78_380.66,
		},
		{
			name:         "one year consumer loan",
			principal:    5000,
			annualRate:   0.12,
			periods:      12,
			wantPayment:  444.24,
			wantInterest: 330.93,
		},
		{
			name:         "single period",
			principal:    10_000,
			annualRate:   0.05,
			periods:      1,
			wantPayment:  10_041.67,
			wantInterest: 41.67,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeInstallment(tt.principal, tt.annualRate, tt.periods)
			assert.InDelta(t, tt.wantPayment, got.Installment, 0.005)
			assert.InDelta(t, tt.wantInterest, got.TotalInterest, 0.01)
		})
	}
}

func TestComputeInstallment_ZeroRateIsExact(t *testing.T) {
	cases := []struct {
		principal float64
		periods   int
	}{
		{12_000, 12},
		{1000, 3},
		{999_999.99, 600},
		{0, 1},
		{7, 1},
	}

	for _, c := range cases {
		got := ComputeInstallment(c.principal, 0, c.periods)
		assert.Equal(t, c.principal/float64(c.periods), got.Installment)
		assert.Equal(t, 0.0, got.TotalInterest)
	}
}

func TestComputeInstallment_AmortizationIdentity(t *testing.T) {
	for _, rate := range []float64{0.001, 0.01, 0.035, 0.12, 0.5} {
		for _, periods := range []int{1, 2, 12, 240, 360} {
			got := ComputeInstallment(150_000, rate, periods)
			identity := got.Installment*float64(periods) - 150_000
			assert.True(t,
				scalar.EqualWithinAbsOrRel(identity, got.TotalInterest, 1e-9, 1e-9),
				"rate=%v periods=%d: %v != %v", rate, periods, identity, got.TotalInterest,
			)
		}
	}
}

func TestComputeInstallment_MonotonicInRate(t *testing.T) {
	prev := ComputeInstallment(80_000, 0, 180)
	for rate := 0.005; rate <= 0.2; rate += 0.005 {
		got := ComputeInstallment(80_000, rate, 180)
		require.Greater(t, got.Installment, prev.Installment, "rate %v", rate)
		require.Greater(t, got.TotalInterest, prev.TotalInterest, "rate %v", rate)
		prev = got
	}
}

func TestComputeInstallment_SinglePeriodIsFinite(t *testing.T) {
	got := ComputeInstallment(1000, 0.24, 1)
	assert.False(t, math.IsNaN(got.Installment) || math.IsInf(got.Installment, 0))
	assert.InDelta(t, 1020.0, got.Installment, 1e-9)
	assert.InDelta(t, 20.0, got.TotalInterest, 1e-9)
}

func TestEngine_PeriodsPerYear(t *testing.T) {
	quarterly := New(Config{PeriodsPerYear: 4})

	got := quarterly.ComputeInstallment(10_000, 0.08, 4)
	want := ComputeInstallment(10_000, 0.08*3, 4) // same periodic rate, 2%

	assert.InDelta(t, want.Installment, got.Installment, 1e-9)
	assert.Equal(t, 4, quarterly.Config().PeriodsPerYear)
	assert.Equal(t, DefaultConfig.MaxIterations, quarterly.Config().MaxIterations)
}
