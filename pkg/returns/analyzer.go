// Package returns analyzes the leveraged returns of an acquisition: ROI,
// payback, IRR, NPV, risk classification and sensitivity.
package returns

import (
	"math"

	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"github.com/iwvelando/acquisition-forecast/pkg/cashflow"
	"github.com/iwvelando/acquisition-forecast/pkg/constants"
	"github.com/iwvelando/acquisition-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// Risk factor descriptions.
const (
	FactorLowROI          = "Low projected ROI"
	FactorLongPayback     = "Long payback period"
	FactorHighVolatility  = "High cash flow volatility"
	FactorNegativeReturns = "Negative projected returns"
	FactorNone            = "No significant risk factors identified"
)

// Sensitivity holds the total ROI of the projection re-run with exactly one
// assumption perturbed.
type Sensitivity struct {
	LowGrowthROI        float64 `json:"lowGrowthROI"`
	HighGrowthROI       float64 `json:"highGrowthROI"`
	LowMarginROI        float64 `json:"lowMarginROI"`
	HighMarginROI       float64 `json:"highMarginROI"`
	LowExitMultipleROI  float64 `json:"lowExitMultipleROI"`
	HighExitMultipleROI float64 `json:"highExitMultipleROI"`
}

// Analysis is the full return profile of a projected acquisition.
type Analysis struct {
	TotalROI            float64            `json:"totalROI"`
	AnnualizedROI       float64            `json:"annualizedROI"`
	NetProfit           float64            `json:"netProfit"`
	PaybackPeriodYears  float64            `json:"paybackPeriodYears"`
	TotalInvestment     float64            `json:"totalInvestment"`
	ExitValue           float64            `json:"exitValue"`
	TotalCashFlow       float64            `json:"totalCashFlow"`
	IRR                 float64            `json:"irr"`
	IRRConverged        bool               `json:"irrConverged"`
	NPV                 float64            `json:"npv"`
	Volatility          float64            `json:"volatility"`
	YearlyCashFlows     []float64          `json:"yearlyCashFlows"`
	AdjustedCashFlows   []float64          `json:"adjustedCashFlows"`
	CumulativeCashFlows []float64          `json:"cumulativeCashFlows"`
	RiskLevel           business.RiskLevel `json:"riskLevel"`
	RiskDescription     string             `json:"riskDescription"`
	RiskFactors         []string           `json:"riskFactors"`
	Sensitivity         Sensitivity        `json:"sensitivity"`
}

// Analyzer computes return analyses. It is safe for concurrent use.
type Analyzer struct {
	logger *zap.Logger
}

// NewAnalyzer creates a new analyzer instance
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger}
}

// outcome is a single projection evaluated down to its ROI.
type outcome struct {
	schedule        cashflow.Schedule
	totalInvestment float64
	totalCashFlow   float64
	netProfit       float64
	totalROI        float64
}

func evaluate(purchasePrice, annualRevenue float64, a cashflow.Assumptions) outcome {
	schedule := cashflow.Project(annualRevenue, a)
	investment := purchasePrice + a.AdditionalInvestment + a.WorkingCapital
	total := mathutil.Sum(schedule.AdjustedCashFlows)
	net := total - investment
	return outcome{
		schedule:        schedule,
		totalInvestment: investment,
		totalCashFlow:   total,
		netProfit:       net,
		totalROI:        mathutil.SafeDivide(net, investment),
	}
}

// Analyze projects the business bought at purchasePrice and derives its
// return profile. a.InvestmentPeriod must be at least 1.
func (an *Analyzer) Analyze(purchasePrice, annualRevenue float64, a cashflow.Assumptions) Analysis {
	base := evaluate(purchasePrice, annualRevenue, a)
	schedule := base.schedule

	irr, iterations, converged := InternalRateOfReturn(schedule.AdjustedCashFlows, base.totalInvestment)
	if !converged {
		an.logger.Debug("IRR did not converge, using last estimate",
			zap.String("op", "returns.Analyze"),
			zap.Int("iterations", iterations),
			zap.Float64("irr", irr),
		)
	}

	payback := PaybackPeriod(schedule.YearlyCashFlows, base.totalInvestment)
	volatility := Volatility(schedule.YearlyCashFlows)
	level, description := classify(base.totalROI, payback, volatility)

	result := Analysis{
		TotalROI:            base.totalROI,
		AnnualizedROI:       annualize(base.totalROI, a.InvestmentPeriod),
		NetProfit:           base.netProfit,
		PaybackPeriodYears:  payback,
		TotalInvestment:     base.totalInvestment,
		ExitValue:           schedule.ExitValue,
		TotalCashFlow:       base.totalCashFlow,
		IRR:                 irr,
		IRRConverged:        converged,
		NPV:                 NetPresentValue(schedule.AdjustedCashFlows, base.totalInvestment, constants.DiscountRate),
		Volatility:          volatility,
		YearlyCashFlows:     schedule.YearlyCashFlows,
		AdjustedCashFlows:   schedule.AdjustedCashFlows,
		CumulativeCashFlows: cumulative(schedule.YearlyCashFlows),
		RiskLevel:           level,
		RiskDescription:     description,
		RiskFactors:         riskFactors(base.totalROI, payback, volatility),
		Sensitivity:         sweep(purchasePrice, annualRevenue, a),
	}

	an.logger.Debug("return analysis computed",
		zap.String("op", "returns.Analyze"),
		zap.Float64("totalROI", result.TotalROI),
		zap.Float64("irr", result.IRR),
		zap.String("riskLevel", string(result.RiskLevel)),
	)
	return result
}

// sweep re-runs the projection six times, each time scaling exactly one
// assumption.
func sweep(purchasePrice, annualRevenue float64, base cashflow.Assumptions) Sensitivity {
	roi := func(mutate func(a *cashflow.Assumptions)) float64 {
		a := base
		mutate(&a)
		return evaluate(purchasePrice, annualRevenue, a).totalROI
	}
	return Sensitivity{
		LowGrowthROI:        roi(func(a *cashflow.Assumptions) { a.RevenueGrowthRate *= 0.5 }),
		HighGrowthROI:       roi(func(a *cashflow.Assumptions) { a.RevenueGrowthRate *= 1.5 }),
		LowMarginROI:        roi(func(a *cashflow.Assumptions) { a.ProfitMargin *= 0.8 }),
		HighMarginROI:       roi(func(a *cashflow.Assumptions) { a.ProfitMargin *= 1.2 }),
		LowExitMultipleROI:  roi(func(a *cashflow.Assumptions) { a.ExitMultiple *= 0.8 }),
		HighExitMultipleROI: roi(func(a *cashflow.Assumptions) { a.ExitMultiple *= 1.2 }),
	}
}

func annualize(totalROI float64, period int) float64 {
	if period < 1 {
		return 0
	}
	growth := 1 + totalROI
	if growth <= 0 {
		// A total loss has no real-valued root.
		return -1
	}
	return math.Pow(growth, 1/float64(period)) - 1
}

func cumulative(flows []float64) []float64 {
	out := make([]float64, len(flows))
	running := 0.0
	for i, cf := range flows {
		running += cf
		out[i] = running
	}
	return out
}

// PaybackPeriod returns the first 1-based year in which cumulative flows
// reach investment, or the number of years when they never do.
func PaybackPeriod(flows []float64, investment float64) float64 {
	running := 0.0
	for i, cf := range flows {
		running += cf
		if running >= investment {
			return float64(i + 1)
		}
	}
	return float64(len(flows))
}

// Volatility is the coefficient of variation (population standard deviation
// over mean) of flows; 0 for fewer than two flows or a zero mean.
func Volatility(flows []float64) float64 {
	if len(flows) < 2 {
		return 0
	}
	mean := mathutil.Mean(flows)
	if mean == 0 {
		return 0
	}
	return mathutil.PopulationStdDev(flows) / mean
}

func classify(totalROI, payback, volatility float64) (business.RiskLevel, string) {
	switch {
	case totalROI > 0.30 && payback < 3 && volatility < 0.20:
		return business.RiskLow, "Strong returns with a quick payback and stable cash flows"
	case totalROI > 0.15 && payback < 5 && volatility < 0.40:
		return business.RiskMedium, "Moderate returns with an acceptable payback and cash flow variability"
	default:
		return business.RiskHigh, "Returns, payback or cash flow stability fall outside comfortable ranges"
	}
}

func riskFactors(totalROI, payback, volatility float64) []string {
	var factors []string
	if totalROI < 0.10 {
		factors = append(factors, FactorLowROI)
	}
	if payback > 5 {
		factors = append(factors, FactorLongPayback)
	}
	if volatility > 0.30 {
		factors = append(factors, FactorHighVolatility)
	}
	if totalROI < 0 {
		factors = append(factors, FactorNegativeReturns)
	}
	if len(factors) == 0 {
		factors = append(factors, FactorNone)
	}
	return factors
}
