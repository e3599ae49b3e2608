package engine

import (
	"math"
	"reflect"
	"testing"

	"github.com/iwvelando/acquisition-forecast/pkg/benchmark"
	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"github.com/iwvelando/acquisition-forecast/pkg/cashflow"
	"github.com/iwvelando/acquisition-forecast/pkg/testutil"
	"go.uber.org/zap"
)

func TestComputeFinancingZeroInterest(t *testing.T) {
	facts := testutil.SampleFacts()
	facts.Financing.InterestRatePercent = 0

	result := ComputeFinancing(facts)

	loan := facts.AskingPrice * 0.8
	expectedAnnual := 12 * loan / float64(facts.Financing.TermYears*12)
	if math.Abs(result.AnnualPayment-expectedAnnual) > 1e-9 {
		t.Errorf("AnnualPayment = %v, expected %v", result.AnnualPayment, expectedAnnual)
	}
	if math.Abs(result.LoanAmount-loan) > 1e-9 {
		t.Errorf("LoanAmount = %v, expected %v", result.LoanAmount, loan)
	}
}

func TestProjectReturnsUsesAskingPrice(t *testing.T) {
	facts := testutil.SampleFacts()
	assumptions := cashflow.DefaultAssumptions(facts)

	analysis := ProjectReturns(facts, assumptions)
	if analysis.TotalInvestment != facts.AskingPrice {
		t.Errorf("TotalInvestment = %v, expected asking price %v", analysis.TotalInvestment, facts.AskingPrice)
	}
	if len(analysis.YearlyCashFlows) != assumptions.InvestmentPeriod {
		t.Errorf("expected %d yearly flows, got %d", assumptions.InvestmentPeriod, len(analysis.YearlyCashFlows))
	}
}

func TestScenarios(t *testing.T) {
	facts := testutil.SampleFacts()
	set := GenerateScenarios(facts, facts.AskingPrice)
	if len(set.Scenarios) != 3 {
		t.Fatalf("expected 3 scenarios, got %d", len(set.Scenarios))
	}

	analysis := AnalyzeScenarios(set)
	if !(analysis.Pessimistic < analysis.Realistic && analysis.Realistic < analysis.Optimistic) {
		t.Errorf("scenario values out of order: %+v", analysis)
	}
}

func TestBenchmarkLookupAndCompare(t *testing.T) {
	if got := LookupBenchmark("tech").Industry; got != "Technology" {
		t.Errorf("LookupBenchmark(tech) = %q, expected Technology", got)
	}
	if got := LookupBenchmark("Unknown Industry").Industry; got != "Services" {
		t.Errorf("LookupBenchmark(Unknown Industry) = %q, expected Services", got)
	}

	facts := testutil.SampleFacts()
	analysis := CompareToBenchmark(facts, LookupBenchmark(facts.Industry))
	if analysis.Industry != "Services" {
		t.Errorf("comparison industry = %q, expected Services", analysis.Industry)
	}
	if analysis.OverallScore <= 0 {
		t.Errorf("OverallScore = %v, expected positive", analysis.OverallScore)
	}
}

func TestRecommendOffer(t *testing.T) {
	facts := testutil.SampleFacts()
	records := testutil.SampleValuations(facts.ID)

	rec := RecommendOffer(facts, records)
	if !(rec.OpeningOffer < rec.MinimumOffer && rec.MinimumOffer < rec.RecommendedOffer && rec.RecommendedOffer < rec.MaximumOffer) {
		t.Errorf("offer band out of order: %+v", rec)
	}
	if !reflect.DeepEqual(rec, RecommendOffer(facts, records)) {
		t.Error("expected identical recommendations for identical inputs")
	}
}

func TestNewWithCustomCatalog(t *testing.T) {
	catalog, err := benchmark.NewCatalog([]benchmark.Benchmark{
		{Industry: "Laundromat", RevenueMultiple: 1.1, ProfitMultiple: 4, RiskLevel: business.RiskLow},
	}, "Laundromat")
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	e := New(zap.NewNop(), catalog)
	if got := e.LookupBenchmark("Technology").Industry; got != "Laundromat" {
		t.Errorf("custom catalog lookup = %q, expected fallback Laundromat", got)
	}
	if got := e.RecommendOffer(testutil.SampleFacts(), nil).Benchmark.Industry; got != "Laundromat" {
		t.Errorf("recommendation benchmark = %q, expected Laundromat", got)
	}
}
