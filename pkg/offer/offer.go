// Package offer turns recorded valuations, benchmark comparison and risk
// heuristics into a negotiation recommendation for a business.
package offer

import (
	"strings"

	"github.com/iwvelando/acquisition-forecast/pkg/benchmark"
	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"github.com/iwvelando/acquisition-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// Severity grades a single risk factor.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Serious reports whether the severity lowers offer confidence.
func (s Severity) Serious() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// RiskFactor is one identified risk with a suggested mitigation.
type RiskFactor struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Mitigation  string   `json:"mitigation"`
}

// Range is a closed interval of values.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Recommendation is the full negotiation recommendation for a business.
type Recommendation struct {
	ExecutiveSummary    string                   `json:"executiveSummary"`
	Confidence          business.ConfidenceLevel `json:"confidence"`
	ConfidenceScore     int                      `json:"confidenceScore"`
	MinimumOffer        float64                  `json:"minimumOffer"`
	RecommendedOffer    float64                  `json:"recommendedOffer"`
	MaximumOffer        float64                  `json:"maximumOffer"`
	OpeningOffer        float64                  `json:"openingOffer"`
	AverageValuation    float64                  `json:"averageValuation"`
	ValuationRange      Range                    `json:"valuationRange"`
	DiscountToAsking    float64                  `json:"discountToAsking"`
	IndustryComparison  string                   `json:"industryComparison"`
	Benchmark           benchmark.Analysis       `json:"benchmark"`
	MarketPositionScore float64                  `json:"marketPositionScore"`
	MarketFactors       []string                 `json:"marketFactors"`
	RiskFactors         []RiskFactor             `json:"riskFactors"`
	OpeningStrategy     string                   `json:"openingStrategy"`
	KeyTalkingPoints    []string                 `json:"keyTalkingPoints"`
	ConcessionStrategy  string                   `json:"concessionStrategy"`
	NextSteps           []string                 `json:"nextSteps"`
}

// Discount bounds and offer band multipliers.
const (
	MinDiscount = 0.05
	MaxDiscount = 0.30

	minimumOfferFactor = 0.85
	maximumOfferFactor = 1.15
	openingOfferFactor = 0.90
)

// Heuristic thresholds.
const (
	largeRevenue         = 2000000
	mediumRevenue        = 1000000
	smallRevenue         = 500000
	strongMargin         = 0.25
	healthyMargin        = 0.15
	thinMargin           = 0.10
	youngBusinessYears   = 5
	valuationSpreadLimit = 0.30
)

// Recommender builds offer recommendations. It is safe for concurrent use.
type Recommender struct {
	logger  *zap.Logger
	catalog *benchmark.Catalog
}

// NewRecommender returns a recommender resolving industries against catalog,
// or the embedded catalog when catalog is nil.
func NewRecommender(logger *zap.Logger, catalog *benchmark.Catalog) *Recommender {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalog == nil {
		catalog = benchmark.Default()
	}
	return &Recommender{logger: logger, catalog: catalog}
}

// Recommend derives the offer band, scores and narrative for facts from the
// valuations recorded for it. Without records the asking price stands in for
// the valuation.
func (r *Recommender) Recommend(facts business.Facts, records []business.ValuationRecord) Recommendation {
	values := business.Values(records)

	average := facts.AskingPrice
	valuationRange := Range{Low: facts.AskingPrice, High: facts.AskingPrice}
	if len(values) > 0 {
		average = mathutil.Mean(values)
		valuationRange.Low, valuationRange.High = mathutil.MinMax(values)
	}

	discount := DiscountToAsking(facts.AskingPrice, average, facts.Industry)
	recommended := facts.AskingPrice * (1 - discount)
	minimum := recommended * minimumOfferFactor
	maximum := recommended * maximumOfferFactor
	opening := minimum * openingOfferFactor

	bench := r.catalog.Lookup(facts.Industry)
	comparison := benchmark.Compare(facts, bench)

	risks := RiskFactors(facts, values)
	score := ConfidenceScore(facts, len(values), risks)

	rec := Recommendation{
		Confidence:          ConfidenceFromScore(score),
		ConfidenceScore:     score,
		MinimumOffer:        minimum,
		RecommendedOffer:    recommended,
		MaximumOffer:        maximum,
		OpeningOffer:        opening,
		AverageValuation:    average,
		ValuationRange:      valuationRange,
		DiscountToAsking:    discount,
		Benchmark:           comparison,
		MarketPositionScore: MarketPositionScore(facts),
		RiskFactors:         risks,
	}
	rec.IndustryComparison = industryComparison(facts, bench, comparison)
	rec.MarketFactors = marketFactors(facts, bench, comparison)
	rec.ExecutiveSummary = executiveSummary(facts, rec)
	rec.OpeningStrategy = openingStrategy(facts, rec)
	rec.KeyTalkingPoints = talkingPoints(facts, rec)
	rec.ConcessionStrategy = concessionStrategy(rec)
	rec.NextSteps = nextSteps(facts, rec)

	r.logger.Debug("offer band computed",
		zap.String("op", "offer.Recommend"),
		zap.String("business", facts.Name),
		zap.Int("valuations", len(values)),
		zap.Float64("discount", discount),
		zap.Float64("openingOffer", opening),
		zap.Float64("recommendedOffer", recommended),
		zap.Float64("maximumOffer", maximum),
		zap.String("confidence", string(rec.Confidence)),
	)
	return rec
}

// normalizeIndustry lowercases label and drops spaces so "Financial
// Services" and "financialservices" compare equal.
func normalizeIndustry(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "")
}

var industryAdjustments = map[string]float64{
	"technology":    0.05,
	"manufacturing": -0.02,
	"retail":        0.02,
	"services":      0.03,
}

// IndustryAdjustment is the extra discount applied for an industry label.
func IndustryAdjustment(industry string) float64 {
	return industryAdjustments[normalizeIndustry(industry)]
}

var industryRisks = map[string]Severity{
	"technology":        SeverityHigh,
	"financialservices": SeverityHigh,
	"healthcare":        SeverityMedium,
	"services":          SeverityMedium,
	"manufacturing":     SeverityMedium,
	"retail":            SeverityMedium,
}

// IndustryRisk grades the inherent risk of an industry label. Unlisted
// industries are Low.
func IndustryRisk(industry string) Severity {
	if s, ok := industryRisks[normalizeIndustry(industry)]; ok {
		return s
	}
	return SeverityLow
}

// DiscountToAsking returns the fraction below askingPrice to aim for, bounded
// to [MinDiscount, MaxDiscount].
func DiscountToAsking(askingPrice, averageValuation float64, industry string) float64 {
	gap := mathutil.SafeDivide(askingPrice-averageValuation, askingPrice)
	return mathutil.Clamp(gap+IndustryAdjustment(industry), MinDiscount, MaxDiscount)
}

// MarketPositionScore rates the business's position in [0, 1] from its scale,
// margin and age.
func MarketPositionScore(facts business.Facts) float64 {
	score := 0.5

	switch {
	case facts.AnnualRevenue > largeRevenue:
		score += 0.2
	case facts.AnnualRevenue > mediumRevenue:
		score += 0.1
	}

	switch margin := facts.ProfitMargin(); {
	case margin > strongMargin:
		score += 0.2
	case margin > healthyMargin:
		score += 0.1
	}

	if facts.YearsEstablished < youngBusinessYears {
		score += 0.1
	}

	return mathutil.Clamp(score, 0, 1)
}

// ConfidenceScore scores how well supported an offer is. It starts at 3.
func ConfidenceScore(facts business.Facts, valuationCount int, risks []RiskFactor) int {
	score := 3
	switch {
	case valuationCount >= 3:
		score++
	case valuationCount == 0:
		score--
	}
	for _, risk := range risks {
		if risk.Severity.Serious() {
			score--
		}
	}
	if facts.AnnualRevenue > 0 && facts.AnnualProfit > 0 {
		score++
	}
	return score
}

// ConfidenceFromScore maps a confidence score to its level.
func ConfidenceFromScore(score int) business.ConfidenceLevel {
	switch {
	case score <= 1:
		return business.ConfidenceLow
	case score <= 3:
		return business.ConfidenceMedium
	case score <= 5:
		return business.ConfidenceHigh
	default:
		return business.ConfidenceVeryHigh
	}
}

// RiskFactors identifies the risks of acquiring facts given its recorded
// valuation values.
func RiskFactors(facts business.Facts, valuations []float64) []RiskFactor {
	var risks []RiskFactor

	if len(valuations) >= 3 {
		mean := mathutil.Mean(valuations)
		if spread := mathutil.SafeDivide(mathutil.PopulationStdDev(valuations), mean); spread > valuationSpreadLimit {
			risks = append(risks, RiskFactor{
				Category:    "Valuation",
				Description: "Recorded valuations vary by more than 30% of their mean",
				Severity:    SeverityMedium,
				Mitigation:  "Commission an independent valuation and reconcile the methodologies before committing to a price",
			})
		}
	}

	if facts.ProfitMargin() < thinMargin {
		risks = append(risks, RiskFactor{
			Category:    "Profitability",
			Description: "Profit margin is below 10%",
			Severity:    SeverityHigh,
			Mitigation:  "Review the cost structure in due diligence and tie part of the price to margin improvement",
		})
	}

	if severity := IndustryRisk(facts.Industry); severity != SeverityLow {
		risks = append(risks, RiskFactor{
			Category:    "Industry",
			Description: "The industry carries " + strings.ToLower(string(severity)) + " inherent risk",
			Severity:    severity,
			Mitigation:  "Stress-test projections against industry downturns and seek seller transition support",
		})
	}

	if facts.AnnualRevenue < smallRevenue {
		risks = append(risks, RiskFactor{
			Category:    "Scale",
			Description: "Annual revenue is below $500,000",
			Severity:    SeverityMedium,
			Mitigation:  "Verify customer concentration and plan for owner dependence during the transition",
		})
	}

	return risks
}
