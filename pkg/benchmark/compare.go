package benchmark

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"github.com/iwvelando/acquisition-forecast/pkg/mathutil"
)

// Rating buckets an overall comparison score.
type Rating string

const (
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingFair      Rating = "Fair"
	RatingPoor      Rating = "Poor"
)

// Analysis is the result of comparing a business to its industry benchmark.
type Analysis struct {
	Industry                  string  `json:"industry"`
	RevenueMultipleComparison float64 `json:"revenueMultipleComparison"`
	ProfitMultipleComparison  float64 `json:"profitMultipleComparison"`
	SizeComparison            float64 `json:"sizeComparison"`
	GrowthComparison          float64 `json:"growthComparison"`
	OverallScore              float64 `json:"overallScore"`
	Rating                    Rating  `json:"rating"`
	Recommendation            string  `json:"recommendation"`
}

// Compare scores the asking-price multiples, size and growth of a business
// against bench. A comparison ratio of 1 means the business prices exactly
// at the industry multiple.
func Compare(facts business.Facts, bench Benchmark) Analysis {
	revenue := facts.AnnualRevenue
	profit := facts.AnnualProfit

	var revenueComparison, profitComparison, growthComparison float64
	if revenue > 0 {
		revenueComparison = mathutil.SafeDivide(facts.AskingPrice/revenue, bench.RevenueMultiple)
		// Reduces to 1/(1+typicalGrowthRate) for any positive revenue.
		growthComparison = revenue / (revenue * (1 + bench.TypicalGrowthRate))
	}
	if profit > 0 {
		profitComparison = mathutil.SafeDivide(facts.AskingPrice/profit, bench.ProfitMultiple)
	}
	sizeComparison := mathutil.SafeDivide(revenue, bench.AverageBusinessSize)

	revenueScore := math.Max(0, 1-math.Abs(revenueComparison-1))
	profitScore := math.Max(0, 1-math.Abs(profitComparison-1))
	sizeScore := math.Min(1, sizeComparison)
	growthScore := growthComparison

	overall := (revenueScore + profitScore + sizeScore + growthScore) / 4
	rating := rate(overall)

	return Analysis{
		Industry:                  bench.Industry,
		RevenueMultipleComparison: revenueComparison,
		ProfitMultipleComparison:  profitComparison,
		SizeComparison:            sizeComparison,
		GrowthComparison:          growthComparison,
		OverallScore:              overall,
		Rating:                    rating,
		Recommendation:            recommendations[rating],
	}
}

var recommendations = map[Rating]string{
	RatingExcellent: "Excellent: pricing and scale align closely with industry benchmarks.",
	RatingGood:      "Good: the business compares favorably with industry benchmarks with minor deviations.",
	RatingFair:      "Fair: notable deviations from industry benchmarks warrant closer review.",
	RatingPoor:      "Poor: pricing or scale diverges significantly from industry benchmarks.",
}

func rate(score float64) Rating {
	switch {
	case score >= 0.8:
		return RatingExcellent
	case score >= 0.6:
		return RatingGood
	case score >= 0.4:
		return RatingFair
	default:
		return RatingPoor
	}
}

// EstimateValuations derives one valuation record per benchmark multiple
// that has a positive base metric. Profit stands in for EBITDA and SDE.
func EstimateValuations(facts business.Facts, bench Benchmark, businessID uuid.UUID) []business.ValuationRecord {
	type estimate struct {
		base       float64
		multiple   float64
		method     business.Methodology
		confidence business.ConfidenceLevel
	}
	estimates := []estimate{
		{facts.AnnualRevenue, bench.RevenueMultiple, business.MethodRevenueMultiple, business.ConfidenceMedium},
		{facts.AnnualProfit, bench.ProfitMultiple, business.MethodProfitMultiple, business.ConfidenceMedium},
		{facts.AnnualProfit, bench.EBITDAMultiple, business.MethodEBITDAMultiple, business.ConfidenceLow},
		{facts.AnnualProfit, bench.SDEMultiple, business.MethodSDEMultiple, business.ConfidenceMedium},
	}

	var records []business.ValuationRecord
	for _, e := range estimates {
		if e.base <= 0 || e.multiple <= 0 {
			continue
		}
		multiple := e.multiple
		record := business.NewValuationRecord(businessID, e.base*multiple, multiple, e.method, e.confidence).
			WithNotes(fmt.Sprintf("estimated from %s benchmark", bench.Industry))
		switch e.method {
		case business.MethodRevenueMultiple:
			record.RevenueMultiple = &multiple
		case business.MethodProfitMultiple:
			record.ProfitMultiple = &multiple
		case business.MethodEBITDAMultiple:
			record.EBITDAMultiple = &multiple
		case business.MethodSDEMultiple:
			record.SDEMultiple = &multiple
		}
		records = append(records, record)
	}
	return records
}
