// Package cashflow projects the yearly cash flows of an acquired business
// over a holding period, including the exit at the end of the period.
package cashflow

import (
	"math"

	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"github.com/iwvelando/acquisition-forecast/pkg/constants"
	"github.com/iwvelando/acquisition-forecast/pkg/validation"
)

// Assumptions parameterize a projection. Rates are fractions.
type Assumptions struct {
	InvestmentPeriod     int     `json:"investmentPeriod" validate:"gte=1"`
	RevenueGrowthRate    float64 `json:"revenueGrowthRate"`
	ProfitMargin         float64 `json:"profitMargin"`
	ExitMultiple         float64 `json:"exitMultiple" validate:"gte=0"`
	AdditionalInvestment float64 `json:"additionalInvestment" validate:"gte=0"`
	WorkingCapital       float64 `json:"workingCapital" validate:"gte=0"`
}

// Validate rejects assumptions the projection cannot run with, notably a
// holding period under one year.
func (a Assumptions) Validate() error {
	return validation.ValidateStruct(a)
}

// DefaultAssumptions returns the standard projection for facts, taking the
// profit margin from the business's current figures.
func DefaultAssumptions(facts business.Facts) Assumptions {
	return Assumptions{
		InvestmentPeriod:  constants.DefaultInvestmentPeriod,
		RevenueGrowthRate: constants.DefaultRevenueGrowthRate,
		ProfitMargin:      facts.ProfitMargin(),
		ExitMultiple:      constants.DefaultExitMultiple,
	}
}

// Year is one projected year before any exit proceeds.
type Year struct {
	Year        int     `json:"year"`
	Revenue     float64 `json:"revenue"`
	Profit      float64 `json:"profit"`
	NetCashFlow float64 `json:"netCashFlow"`
}

// Schedule is a projected holding period. YearlyCashFlows excludes the exit;
// AdjustedCashFlows carries the exit value and working-capital recovery in
// its final element.
type Schedule struct {
	Years                  []Year    `json:"years"`
	ExitValue              float64   `json:"exitValue"`
	WorkingCapitalRecovery float64   `json:"workingCapitalRecovery"`
	YearlyCashFlows        []float64 `json:"yearlyCashFlows"`
	AdjustedCashFlows      []float64 `json:"adjustedCashFlows"`
}

// Project builds the schedule for a business currently earning
// annualRevenue. a.InvestmentPeriod must be at least 1.
func Project(annualRevenue float64, a Assumptions) Schedule {
	period := a.InvestmentPeriod
	reinvestment := a.AdditionalInvestment / float64(period)

	schedule := Schedule{
		Years:           make([]Year, 0, period),
		YearlyCashFlows: make([]float64, 0, period),
	}
	for y := 1; y <= period; y++ {
		revenue := annualRevenue * math.Pow(1+a.RevenueGrowthRate, float64(y))
		profit := revenue * a.ProfitMargin
		cashFlow := profit - reinvestment
		schedule.Years = append(schedule.Years, Year{
			Year:        y,
			Revenue:     revenue,
			Profit:      profit,
			NetCashFlow: cashFlow,
		})
		schedule.YearlyCashFlows = append(schedule.YearlyCashFlows, cashFlow)
	}

	if n := len(schedule.Years); n > 0 {
		schedule.ExitValue = schedule.Years[n-1].Profit * a.ExitMultiple
	}
	schedule.WorkingCapitalRecovery = a.WorkingCapital

	schedule.AdjustedCashFlows = make([]float64, len(schedule.YearlyCashFlows))
	copy(schedule.AdjustedCashFlows, schedule.YearlyCashFlows)
	if n := len(schedule.AdjustedCashFlows); n > 0 {
		schedule.AdjustedCashFlows[n-1] += schedule.ExitValue + schedule.WorkingCapitalRecovery
	}

	return schedule
}
