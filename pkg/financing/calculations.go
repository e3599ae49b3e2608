// Package financing computes acquisition loan payments and amortization schedules.
package financing

import (
	"fmt"
	"math"

	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"github.com/iwvelando/acquisition-forecast/pkg/constants"
	"github.com/iwvelando/acquisition-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// Result holds the financing figures derived from an asking price.
type Result struct {
	DownPayment    float64 `json:"downPayment"`
	LoanAmount     float64 `json:"loanAmount"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	AnnualPayment  float64 `json:"annualPayment"`
}

// Payment holds the values for a given monthly payment.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// YearSummary aggregates one loan year of a schedule.
type YearSummary struct {
	Year          int     `json:"year"`
	Payment       float64 `json:"payment"`
	Principal     float64 `json:"principal"`
	Interest      float64 `json:"interest"`
	EndingBalance float64 `json:"endingBalance"`
}

// Compute derives the down payment, loan amount and payments for buying at
// askingPrice under terms.
func Compute(askingPrice float64, terms business.FinancingTerms) Result {
	downPayment := askingPrice * mathutil.FromPercent(terms.DownPaymentPercent)
	loanAmount := askingPrice - downPayment
	monthly := CalculateMonthlyPayment(loanAmount, terms.InterestRatePercent, terms.TermYears)
	return Result{
		DownPayment:    downPayment,
		LoanAmount:     loanAmount,
		MonthlyPayment: monthly,
		AnnualPayment:  monthly * constants.MonthsPerYear,
	}
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the
// standard amortization formula. The rate is a whole-number percentage.
func CalculateMonthlyPayment(loanAmount, annualInterestRatePercent float64, termYears int) float64 {
	if loanAmount <= 0 || annualInterestRatePercent < 0 || termYears <= 0 {
		return 0
	}

	termMonths := float64(termYears * constants.MonthsPerYear)
	if annualInterestRatePercent == 0 {
		// For zero interest, simply divide the principal by term
		return loanAmount / termMonths
	}

	monthlyRate := annualInterestRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
	power := math.Pow(1.00+monthlyRate, termMonths)
	return loanAmount * monthlyRate * power / (power - 1.00)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRatePercent float64) float64 {
	return remainingPrincipal * annualInterestRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// DebtServiceCoverage is annual profit divided by annual debt service, or 0
// when there is no debt to service.
func DebtServiceCoverage(annualProfit, annualPayment float64) float64 {
	return mathutil.SafeDivide(annualProfit, annualPayment)
}

// ScheduleGenerator provides utilities for generating loan amortization schedules
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// GenerateSchedule creates the monthly amortization schedule for a loan. An
// empty schedule is returned when there is nothing to amortize.
func (g *ScheduleGenerator) GenerateSchedule(loanAmount, annualInterestRatePercent float64, termYears int) []Payment {
	monthlyPayment := CalculateMonthlyPayment(loanAmount, annualInterestRatePercent, termYears)
	if monthlyPayment <= 0 {
		g.logger.Debug("no amortization schedule for loan",
			zap.String("op", "financing.GenerateSchedule"),
			zap.Float64("loanAmount", loanAmount),
			zap.Float64("interestRatePercent", annualInterestRatePercent),
			zap.Int("termYears", termYears),
		)
		return nil
	}

	termMonths := termYears * constants.MonthsPerYear
	schedule := make([]Payment, 0, termMonths)
	remaining := loanAmount
	for month := 1; month <= termMonths; month++ {
		var current Payment
		current.Month = month
		current.Payment = monthlyPayment
		current.Interest = CalculateInterestPayment(remaining, annualInterestRatePercent)
		current.Principal = monthlyPayment - current.Interest

		if month == termMonths || mathutil.Round(remaining-current.Principal) == 0 {
			// We will get machine error otherwise so just set to 0.
			current.Principal = remaining
			current.Payment = current.Principal + current.Interest
			current.RemainingPrincipal = 0.00
			schedule = append(schedule, current)
			break
		}

		current.RemainingPrincipal = remaining - current.Principal
		remaining = current.RemainingPrincipal
		schedule = append(schedule, current)
	}

	g.logger.Debug(fmt.Sprintf("generated %d-month amortization schedule with payment %.2f",
		len(schedule), monthlyPayment),
		zap.String("op", "financing.GenerateSchedule"),
	)
	return schedule
}

// YearlyDebtService aggregates a monthly schedule into loan years.
func YearlyDebtService(schedule []Payment) []YearSummary {
	var years []YearSummary
	for _, p := range schedule {
		year := (p.Month-1)/constants.MonthsPerYear + 1
		if len(years) == 0 || years[len(years)-1].Year != year {
			years = append(years, YearSummary{Year: year})
		}
		current := &years[len(years)-1]
		current.Payment += p.Payment
		current.Principal += p.Principal
		current.Interest += p.Interest
		current.EndingBalance = p.RemainingPrincipal
	}
	return years
}
