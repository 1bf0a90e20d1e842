package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"loan-cost/domain"
)

const cacheKeyPrefix = "loancost:v1:"

// cachedBreakdown is the wire shape of a cached result. msgpack keeps NaN
// rates, which JSON would reject.
type cachedBreakdown struct {
	Installment          float64 `msgpack:"i"`
	FullInstallment      float64 `msgpack:"fi"`
	TotalInterest        float64 `msgpack:"ti"`
	CostWithoutInsurance float64 `msgpack:"cw"`
	TotalCost            float64 `msgpack:"tc"`
	EffectiveRate        float64 `msgpack:"ear"`
	InsuranceRate        float64 `msgpack:"iar"`
}

// CacheKey is a canonical key for terms. Floats are written in their
// shortest exact form so distinct inputs never share a key.
func CacheKey(terms domain.LoanTerms) string {
	var b strings.Builder
	b.WriteString(cacheKeyPrefix)
	b.WriteString(strconv.FormatFloat(terms.Principal, 'g', -1, 64))
	b.WriteByte(':')
	b.WriteString(strconv.FormatFloat(terms.AnnualRate, 'g', -1, 64))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(terms.Periods))
	b.WriteByte(':')
	b.WriteString(strconv.FormatFloat(terms.InitialFees, 'g', -1, 64))
	b.WriteByte(':')
	b.WriteString(strconv.FormatFloat(terms.InsuranceCost, 'g', -1, 64))
	return b.String()
}

func EncodeBreakdown(b domain.LoanCostBreakdown) ([]byte, error) {
	data, err := msgpack.Marshal(cachedBreakdown{
		Installment:          b.PeriodicInstallmentWithoutInsurance,
		FullInstallment:      b.FullPeriodicInstallment,
		TotalInterest:        b.TotalInterest,
		CostWithoutInsurance: b.TotalCostWithoutInsurance,
		TotalCost:            b.TotalCost,
		EffectiveRate:        b.EffectiveAnnualRate,
		InsuranceRate:        b.EffectiveInsuranceAnnualRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode breakdown: %w", err)
	}
	return data, nil
}

func DecodeBreakdown(data []byte) (domain.LoanCostBreakdown, error) {
	var c cachedBreakdown
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return domain.LoanCostBreakdown{}, fmt.Errorf("failed to decode breakdown: %w", err)
	}
	return domain.LoanCostBreakdown{
		PeriodicInstallmentWithoutInsurance: c.Installment,
		FullPeriodicInstallment:             c.FullInstallment,
		TotalInterest:                       c.TotalInterest,
		TotalCostWithoutInsurance:           c.CostWithoutInsurance,
		TotalCost:                           c.TotalCost,
		EffectiveAnnualRate:                 c.EffectiveRate,
		EffectiveInsuranceAnnualRate:        c.InsuranceRate,
	}, nil
}
