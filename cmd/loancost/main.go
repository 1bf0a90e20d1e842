package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli"

	"loan-cost/domain"
	"loan-cost/pkg/logger"
	"loan-cost/repository"
	"loan-cost/service"
)

func main() {
	amountFlag := cli.Float64Flag{Name: "amount", Usage: "amount borrowed", Required: true}
	rateFlag := cli.Float64Flag{Name: "rate", Usage: "nominal yearly interest rate, in percent", Required: true}
	feesFlag := cli.Float64Flag{Name: "fees", Usage: "upfront fees"}
	insuranceFlag := cli.Float64Flag{Name: "insurance", Usage: "total insurance cost over the term"}
	durationFlag := cli.IntFlag{Name: "duration", Usage: "loan duration", Required: true}
	unitFlag := cli.StringFlag{Name: "unit", Value: domain.DurationMonths, Usage: "duration unit: months or years"}
	minFlag := cli.IntFlag{Name: "min", Value: 12, Usage: "shortest term to consider, in months"}
	maxFlag := cli.IntFlag{Name: "max", Value: 360, Usage: "longest term to consider, in months"}
	stepFlag := cli.IntFlag{Name: "step", Value: service.DefaultTermStep, Usage: "months between candidate terms"}
	maxPaymentFlag := cli.Float64Flag{Name: "max-payment", Usage: "highest acceptable monthly payment (0 = no limit)"}
	preferenceFlag := cli.StringFlag{Name: "preference", Value: domain.PreferenceLowestRate, Usage: "lowest_rate, lowest_installment or lowest_cost"}

	loanService := service.NewLoanService(
		repository.NewLoanRepositoryMemory(),
		repository.NewMockCache(),
		nil,
		logger.Nop(),
	)

	loanRequest := func(cctx *cli.Context) domain.LoanRequest {
		return domain.LoanRequest{
			Amount:            cctx.Float64(amountFlag.Name),
			AnnualRatePercent: cctx.Float64(rateFlag.Name),
			Duration:          cctx.Int(durationFlag.Name),
			DurationUnit:      cctx.String(unitFlag.Name),
			InitialFees:       cctx.Float64(feesFlag.Name),
			InsuranceCost:     cctx.Float64(insuranceFlag.Name),
		}
	}

	app := cli.NewApp()
	app.Name = "loancost"
	app.Usage = "true cost and effective annual rate of an amortizing loan"
	app.Commands = []cli.Command{
		{
			Name:  "cost",
			Usage: "compute the cost breakdown of a loan",
			Flags: []cli.Flag{amountFlag, rateFlag, durationFlag, unitFlag, feesFlag, insuranceFlag},
			Action: func(cctx *cli.Context) error {
				return runCost(os.Stdout, loanService, loanRequest(cctx))
			},
		},
		{
			Name:  "compare",
			Usage: "rank loan terms by preference",
			Flags: []cli.Flag{amountFlag, rateFlag, feesFlag, insuranceFlag, minFlag, maxFlag, stepFlag, maxPaymentFlag, preferenceFlag},
			Action: func(cctx *cli.Context) error {
				return runCompare(os.Stdout, service.NewTermRecommendationService(loanService), domain.TermRecommendationInput{
					Loan: domain.LoanRequest{
						Amount:            cctx.Float64(amountFlag.Name),
						AnnualRatePercent: cctx.Float64(rateFlag.Name),
						InitialFees:       cctx.Float64(feesFlag.Name),
						InsuranceCost:     cctx.Float64(insuranceFlag.Name),
					},
					MinTermMonths:     cctx.Int(minFlag.Name),
					MaxTermMonths:     cctx.Int(maxFlag.Name),
					StepMonths:        cctx.Int(stepFlag.Name),
					MaxMonthlyPayment: cctx.Float64(maxPaymentFlag.Name),
					Preference:        cctx.String(preferenceFlag.Name),
				})
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runCost(w io.Writer, loanService *service.LoanService, req domain.LoanRequest) error {
	record, err := loanService.CalculateCost(context.Background(), req)
	if err != nil {
		return err
	}

	b := record.Breakdown
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Term\t%d months\n", record.Terms.Periods)
	fmt.Fprintf(tw, "Installment (without insurance)\t%.2f\n", b.PeriodicInstallmentWithoutInsurance)
	fmt.Fprintf(tw, "Installment (with insurance)\t%.2f\n", b.FullPeriodicInstallment)
	fmt.Fprintf(tw, "Total interest\t%.2f\n", b.TotalInterest)
	fmt.Fprintf(tw, "Total cost (without insurance)\t%.2f\n", b.TotalCostWithoutInsurance)
	fmt.Fprintf(tw, "Total cost\t%.2f\n", b.TotalCost)
	fmt.Fprintf(tw, "Effective annual rate\t%s\n", percent(b.EffectiveAnnualRate))
	fmt.Fprintf(tw, "  of which insurance\t%s\n", percent(b.EffectiveInsuranceAnnualRate))
	return tw.Flush()
}

func runCompare(w io.Writer, svc *service.TermRecommendationService, input domain.TermRecommendationInput) error {
	result, err := svc.RecommendTerm(context.Background(), input)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TERM\tINSTALLMENT\tTOTAL COST\tEFFECTIVE RATE\t")
	for _, r := range result.Recommendations {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%s\t\n",
			r.TermMonths,
			r.Breakdown.FullPeriodicInstallment,
			r.Breakdown.TotalCost,
			percent(r.Breakdown.EffectiveAnnualRate),
		)
	}
	fmt.Fprintf(tw, "\nRecommended term: %d months\n", result.RecommendedTerm)
	return tw.Flush()
}

// percent renders a rate, or n/a when it could not be solved.
func percent(rate float64) string {
	if math.IsNaN(rate) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f%%", rate*100)
}
