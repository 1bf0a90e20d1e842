package http

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"loan-cost/domain"
)

// TermsResponse echoes the canonical terms a breakdown was computed from.
type TermsResponse struct {
	Principal     float64 `json:"principal"`
	AnnualRate    float64 `json:"annual_rate"`
	Periods       int     `json:"periods"`
	InitialFees   float64 `json:"initial_fees"`
	InsuranceCost float64 `json:"insurance_cost"`
}

// BreakdownResponse is the JSON form of a cost breakdown. JSON has no NaN,
// so an unavailable rate is null and flagged as not available.
type BreakdownResponse struct {
	PeriodicInstallmentWithoutInsurance float64  `json:"periodic_installment_without_insurance"`
	FullPeriodicInstallment             float64  `json:"full_periodic_installment"`
	TotalInterest                       float64  `json:"total_interest"`
	TotalCostWithoutInsurance           float64  `json:"total_cost_without_insurance"`
	TotalCost                           float64  `json:"total_cost"`
	EffectiveAnnualRate                 *float64 `json:"effective_annual_rate"`
	EffectiveInsuranceAnnualRate        *float64 `json:"effective_insurance_annual_rate"`
	EffectiveRateAvailable              bool     `json:"effective_rate_available"`
}

type CalculationResponse struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Terms     TermsResponse     `json:"terms"`
	Breakdown BreakdownResponse `json:"breakdown"`
}

type TermRecommendationResponse struct {
	TermMonths int               `json:"term_months"`
	Score      *float64          `json:"score"`
	Breakdown  BreakdownResponse `json:"breakdown"`
}

type TermRecommendationResultResponse struct {
	RecommendedTerm int                          `json:"recommended_term"`
	Recommendations []TermRecommendationResponse `json:"recommendations"`
}

func newBreakdownResponse(b domain.LoanCostBreakdown) BreakdownResponse {
	rate := optionalRate(b.EffectiveAnnualRate)
	return BreakdownResponse{
		PeriodicInstallmentWithoutInsurance: b.PeriodicInstallmentWithoutInsurance,
		FullPeriodicInstallment:             b.FullPeriodicInstallment,
		TotalInterest:                       b.TotalInterest,
		TotalCostWithoutInsurance:           b.TotalCostWithoutInsurance,
		TotalCost:                           b.TotalCost,
		EffectiveAnnualRate:                 rate,
		EffectiveInsuranceAnnualRate:        optionalRate(b.EffectiveInsuranceAnnualRate),
		EffectiveRateAvailable:              rate != nil,
	}
}

func newCalculationResponse(rec domain.CalculationRecord) CalculationResponse {
	return CalculationResponse{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		Terms: TermsResponse{
			Principal:     rec.Terms.Principal,
			AnnualRate:    rec.Terms.AnnualRate,
			Periods:       rec.Terms.Periods,
			InitialFees:   rec.Terms.InitialFees,
			InsuranceCost: rec.Terms.InsuranceCost,
		},
		Breakdown: newBreakdownResponse(rec.Breakdown),
	}
}

func newTermRecommendationResultResponse(res domain.TermRecommendationResult) TermRecommendationResultResponse {
	out := TermRecommendationResultResponse{
		RecommendedTerm: res.RecommendedTerm,
		Recommendations: make([]TermRecommendationResponse, 0, len(res.Recommendations)),
	}
	for _, r := range res.Recommendations {
		out.Recommendations = append(out.Recommendations, TermRecommendationResponse{
			TermMonths: r.TermMonths,
			Score:      optionalRate(r.Score),
			Breakdown:  newBreakdownResponse(r.Breakdown),
		})
	}
	return out
}

func optionalRate(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// writeJSON encodes into a buffer first so a failed encode does not leave a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn().Err(err).Msg("Error writing response")
	}
}
