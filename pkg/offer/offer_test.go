package offer

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"go.uber.org/zap"
)

func establishedFacts() business.Facts {
	return business.Facts{
		ID:               uuid.MustParse("9b2f8a58-3d1c-4a0e-9f43-6d5f0e7b1c2a"),
		Name:             "Ridgeline Builders",
		Industry:         "Construction",
		AskingPrice:      1200000,
		AnnualRevenue:    1500000,
		AnnualProfit:     300000,
		EmployeeCount:    14,
		YearsEstablished: 12,
	}
}

func records(businessID uuid.UUID, values ...float64) []business.ValuationRecord {
	out := make([]business.ValuationRecord, 0, len(values))
	for _, v := range values {
		out = append(out, business.NewValuationRecord(businessID, v, 0, business.MethodMarketComparison, business.ConfidenceMedium))
	}
	return out
}

func TestRecommendHighConfidence(t *testing.T) {
	facts := establishedFacts()
	rec := NewRecommender(zap.NewNop(), nil).Recommend(facts, records(facts.ID, 1000000, 1100000, 1200000))

	if len(rec.RiskFactors) != 0 {
		t.Fatalf("expected no risk factors, got %+v", rec.RiskFactors)
	}
	if rec.ConfidenceScore != 5 {
		t.Errorf("ConfidenceScore = %d, expected 5", rec.ConfidenceScore)
	}
	if rec.Confidence != business.ConfidenceHigh {
		t.Errorf("Confidence = %s, expected High", rec.Confidence)
	}

	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"AverageValuation", rec.AverageValuation, 1100000},
		{"ValuationRange.Low", rec.ValuationRange.Low, 1000000},
		{"ValuationRange.High", rec.ValuationRange.High, 1200000},
		{"DiscountToAsking", rec.DiscountToAsking, 100000.0 / 1200000.0},
		{"RecommendedOffer", rec.RecommendedOffer, 1100000},
		{"MinimumOffer", rec.MinimumOffer, 935000},
		{"MaximumOffer", rec.MaximumOffer, 1265000},
		{"OpeningOffer", rec.OpeningOffer, 841500},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.expected) > 1e-6 {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.expected)
		}
	}

	if !strings.Contains(rec.ExecutiveSummary, "$1,100,000") {
		t.Errorf("executive summary missing recommended offer: %q", rec.ExecutiveSummary)
	}
	if !strings.Contains(rec.ExecutiveSummary, "high confidence") {
		t.Errorf("executive summary missing confidence: %q", rec.ExecutiveSummary)
	}
	if !strings.Contains(rec.OpeningStrategy, "$841,500") {
		t.Errorf("opening strategy missing opening offer: %q", rec.OpeningStrategy)
	}
	if rec.Benchmark.Industry != "Construction" {
		t.Errorf("benchmark industry = %q, expected Construction", rec.Benchmark.Industry)
	}
	if len(rec.KeyTalkingPoints) == 0 || len(rec.NextSteps) == 0 || len(rec.MarketFactors) == 0 {
		t.Error("expected narrative lists to be populated")
	}
}

func TestRecommendWithoutValuations(t *testing.T) {
	facts := establishedFacts()
	facts.Industry = "Services"
	rec := NewRecommender(nil, nil).Recommend(facts, nil)

	if rec.AverageValuation != facts.AskingPrice {
		t.Errorf("AverageValuation = %v, expected asking price", rec.AverageValuation)
	}
	if rec.ValuationRange != (Range{Low: facts.AskingPrice, High: facts.AskingPrice}) {
		t.Errorf("ValuationRange = %+v, expected a point at asking", rec.ValuationRange)
	}
	if rec.DiscountToAsking != MinDiscount {
		t.Errorf("DiscountToAsking = %v, expected floor %v", rec.DiscountToAsking, MinDiscount)
	}
	// 3 - 1 (no valuations) + 1 (profitable); Services risk is not serious.
	if rec.ConfidenceScore != 3 || rec.Confidence != business.ConfidenceMedium {
		t.Errorf("confidence = %d/%s, expected 3/Medium", rec.ConfidenceScore, rec.Confidence)
	}
}

func TestRecommendIsDeterministic(t *testing.T) {
	facts := establishedFacts()
	recs := records(facts.ID, 900000, 1300000, 1500000, 700000)
	recommender := NewRecommender(nil, nil)

	first := recommender.Recommend(facts, recs)
	second := recommender.Recommend(facts, recs)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical recommendations for identical inputs")
	}
}

func TestDiscountToAsking(t *testing.T) {
	tests := []struct {
		name     string
		asking   float64
		average  float64
		industry string
		expected float64
	}{
		{"Clamped high", 1000000, 500000, "Retail", MaxDiscount},
		{"Clamped low", 1000000, 1200000, "manufacturing", MinDiscount},
		{"Technology adjustment", 1000000, 900000, "Technology", 0.15},
		{"Unlisted industry", 1000000, 800000, "Agriculture", 0.20},
		{"No asking price", 0, 0, "", MinDiscount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountToAsking(tt.asking, tt.average, tt.industry)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("DiscountToAsking() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestIndustryTables(t *testing.T) {
	tests := []struct {
		industry   string
		adjustment float64
		risk       Severity
	}{
		{"Technology", 0.05, SeverityHigh},
		{"Financial Services", 0, SeverityHigh},
		{"healthcare", 0, SeverityMedium},
		{" Services ", 0.03, SeverityMedium},
		{"Manufacturing", -0.02, SeverityMedium},
		{"RETAIL", 0.02, SeverityMedium},
		{"Construction", 0, SeverityLow},
		{"", 0, SeverityLow},
	}
	for _, tt := range tests {
		t.Run(tt.industry, func(t *testing.T) {
			if got := IndustryAdjustment(tt.industry); got != tt.adjustment {
				t.Errorf("IndustryAdjustment() = %v, expected %v", got, tt.adjustment)
			}
			if got := IndustryRisk(tt.industry); got != tt.risk {
				t.Errorf("IndustryRisk() = %s, expected %s", got, tt.risk)
			}
		})
	}
}

func TestMarketPositionScore(t *testing.T) {
	tests := []struct {
		name     string
		facts    business.Facts
		expected float64
	}{
		{"Large profitable young business clamps", business.Facts{AnnualRevenue: 2500000, AnnualProfit: 750000, YearsEstablished: 3}, 1.0},
		{"Mid-size healthy margin", business.Facts{AnnualRevenue: 1500000, AnnualProfit: 300000, YearsEstablished: 10}, 0.7},
		{"Small thin margin", business.Facts{AnnualRevenue: 400000, AnnualProfit: 20000, YearsEstablished: 10}, 0.5},
		{"No revenue young", business.Facts{YearsEstablished: 1}, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarketPositionScore(tt.facts); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("MarketPositionScore() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestRiskFactors(t *testing.T) {
	facts := business.Facts{
		Industry:      "Technology",
		AnnualRevenue: 400000,
		AnnualProfit:  20000,
	}
	risks := RiskFactors(facts, []float64{100, 200, 600})

	expected := []struct {
		category string
		severity Severity
	}{
		{"Valuation", SeverityMedium},
		{"Profitability", SeverityHigh},
		{"Industry", SeverityHigh},
		{"Scale", SeverityMedium},
	}
	if len(risks) != len(expected) {
		t.Fatalf("expected %d risk factors, got %+v", len(expected), risks)
	}
	for i, e := range expected {
		if risks[i].Category != e.category || risks[i].Severity != e.severity {
			t.Errorf("risk %d = %s/%s, expected %s/%s", i, risks[i].Category, risks[i].Severity, e.category, e.severity)
		}
		if risks[i].Mitigation == "" {
			t.Errorf("risk %d has no mitigation", i)
		}
	}

	// Three valuations and a profitable business offset two serious factors.
	if score := ConfidenceScore(facts, 3, risks); score != 3 {
		t.Errorf("ConfidenceScore = %d, expected 3", score)
	}
}

func TestRiskFactorsNeedThreeValuationsForSpread(t *testing.T) {
	facts := establishedFacts()
	if risks := RiskFactors(facts, []float64{100, 900}); len(risks) != 0 {
		t.Errorf("expected no risks with two valuations, got %+v", risks)
	}
}

func TestConfidenceFromScore(t *testing.T) {
	tests := []struct {
		score    int
		expected business.ConfidenceLevel
	}{
		{-1, business.ConfidenceLow},
		{0, business.ConfidenceLow},
		{1, business.ConfidenceLow},
		{2, business.ConfidenceMedium},
		{3, business.ConfidenceMedium},
		{4, business.ConfidenceHigh},
		{5, business.ConfidenceHigh},
		{6, business.ConfidenceVeryHigh},
	}
	for _, tt := range tests {
		if got := ConfidenceFromScore(tt.score); got != tt.expected {
			t.Errorf("ConfidenceFromScore(%d) = %s, expected %s", tt.score, got, tt.expected)
		}
	}
}
