package offer

import (
	"fmt"
	"strings"

	"github.com/iwvelando/acquisition-forecast/pkg/benchmark"
	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"github.com/iwvelando/acquisition-forecast/pkg/format"
	"github.com/iwvelando/acquisition-forecast/pkg/mathutil"
)

func displayName(facts business.Facts) string {
	if name := strings.TrimSpace(facts.Name); name != "" {
		return name
	}
	return "the business"
}

func executiveSummary(facts business.Facts, rec Recommendation) string {
	return fmt.Sprintf(
		"Based on an average valuation of %s against an asking price of %s, we recommend offering %s for %s, a %s discount to asking. "+
			"The acceptable range runs from %s to %s with %s confidence.",
		format.WholeCurrency(rec.AverageValuation),
		format.WholeCurrency(facts.AskingPrice),
		format.WholeCurrency(rec.RecommendedOffer),
		displayName(facts),
		format.Percent(rec.DiscountToAsking),
		format.WholeCurrency(rec.MinimumOffer),
		format.WholeCurrency(rec.MaximumOffer),
		strings.ToLower(string(rec.Confidence)),
	)
}

func industryComparison(facts business.Facts, bench benchmark.Benchmark, analysis benchmark.Analysis) string {
	revenueMultiple := mathutil.SafeDivide(facts.AskingPrice, facts.AnnualRevenue)
	profitMultiple := mathutil.SafeDivide(facts.AskingPrice, facts.AnnualProfit)
	return fmt.Sprintf(
		"The asking price is %s revenue and %s profit, against %s industry multiples of %s revenue and %s profit. Benchmark rating: %s (score %.2f).",
		format.Multiple(revenueMultiple),
		format.Multiple(profitMultiple),
		bench.Industry,
		format.Multiple(bench.RevenueMultiple),
		format.Multiple(bench.ProfitMultiple),
		analysis.Rating,
		analysis.OverallScore,
	)
}

func marketFactors(facts business.Facts, bench benchmark.Benchmark, analysis benchmark.Analysis) []string {
	factors := []string{
		fmt.Sprintf("%s industry risk is rated %s", bench.Industry, strings.ToLower(string(bench.RiskLevel))),
		fmt.Sprintf("Typical %s growth is %s per year", bench.Industry, format.Percent(bench.TypicalGrowthRate)),
		fmt.Sprintf("Revenue is %s of the average %s business (%s)",
			format.Percent(analysis.SizeComparison), bench.Industry, format.WholeCurrency(bench.AverageBusinessSize)),
	}
	if facts.YearsEstablished > 0 {
		factors = append(factors, fmt.Sprintf("Operating for %d years", facts.YearsEstablished))
	}
	if facts.EmployeeCount > 0 {
		factors = append(factors, fmt.Sprintf("%d employees", facts.EmployeeCount))
	}
	return factors
}

func openingStrategy(facts business.Facts, rec Recommendation) string {
	return fmt.Sprintf(
		"Open at %s, %s below asking, anchored on the %s average valuation and the identified risks. "+
			"Leave room to move toward the recommended %s as the seller responds.",
		format.WholeCurrency(rec.OpeningOffer),
		format.Percent(1-mathutil.SafeDivide(rec.OpeningOffer, facts.AskingPrice)),
		format.WholeCurrency(rec.AverageValuation),
		format.WholeCurrency(rec.RecommendedOffer),
	)
}

func talkingPoints(facts business.Facts, rec Recommendation) []string {
	points := []string{
		fmt.Sprintf("Recorded valuations range from %s to %s",
			format.WholeCurrency(rec.ValuationRange.Low), format.WholeCurrency(rec.ValuationRange.High)),
		fmt.Sprintf("Profit margin of %s", format.Percent(facts.ProfitMargin())),
		fmt.Sprintf("Benchmark rating of %s against %s peers", rec.Benchmark.Rating, rec.Benchmark.Industry),
	}
	for _, risk := range rec.RiskFactors {
		points = append(points, fmt.Sprintf("%s risk: %s", risk.Category, risk.Description))
	}
	return points
}

func concessionStrategy(rec Recommendation) string {
	return fmt.Sprintf(
		"Concede in small steps from %s toward %s, trading each increase for terms such as seller financing, an earn-out or transition support. "+
			"Walk away above %s.",
		format.WholeCurrency(rec.OpeningOffer),
		format.WholeCurrency(rec.RecommendedOffer),
		format.WholeCurrency(rec.MaximumOffer),
	)
}

func nextSteps(facts business.Facts, rec Recommendation) []string {
	steps := []string{
		fmt.Sprintf("Submit a letter of intent for %s at %s", displayName(facts), format.WholeCurrency(rec.OpeningOffer)),
		"Request three years of financial statements and tax returns",
	}
	for _, risk := range rec.RiskFactors {
		steps = append(steps, risk.Mitigation)
	}
	steps = append(steps, "Arrange financing and schedule closing")
	return steps
}
