package benchmark

import (
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/iwvelando/acquisition-forecast/pkg/business"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{"Exact match", "Technology", "Technology"},
		{"Exact match ignores case", "technology", "Technology"},
		{"Exact match ignores surrounding space", "  Retail ", "Retail"},
		{"Substring of entry name", "tech", "Technology"},
		{"Entry name inside label", "Specialty Retail Stores", "Retail"},
		{"Exact beats earlier substring", "financial services", "Financial Services"},
		{"First substring match wins", "service", "Services"},
		{"Unknown industry falls back", "Unknown Industry", "Services"},
		{"Empty label falls back", "", "Services"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lookup(tt.label); got.Industry != tt.expected {
				t.Errorf("Lookup(%q) = %s, expected %s", tt.label, got.Industry, tt.expected)
			}
		})
	}
}

func TestDefaultCatalogIsShared(t *testing.T) {
	if Default() != Default() {
		t.Fatal("expected the default catalog to be built once")
	}

	entries := Default().Entries()
	if len(entries) == 0 {
		t.Fatal("expected embedded catalog entries")
	}
	entries[0].Industry = "mutated"
	if Default().Entries()[0].Industry == "mutated" {
		t.Fatal("Entries() must return a copy")
	}
	if Default().Fallback().Industry != "Services" {
		t.Errorf("fallback = %s, expected Services", Default().Fallback().Industry)
	}
}

func TestNewCatalogErrors(t *testing.T) {
	entries := []Benchmark{{Industry: "Retail"}, {Industry: "Services"}}

	if _, err := NewCatalog(nil, "Services"); err == nil {
		t.Error("expected error for empty catalog")
	}
	if _, err := NewCatalog(entries, "Mining"); err == nil {
		t.Error("expected error for missing fallback")
	}
	if _, err := NewCatalog(append(entries, Benchmark{Industry: "retail"}), "Services"); err == nil {
		t.Error("expected error for duplicate industry")
	}
	if _, err := NewCatalog(entries, "services"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadCatalog(t *testing.T) {
	doc := `fallback: Other
industries:
  - industry: Bakeries
    revenueMultiple: 0.5
    riskLevel: Low
  - industry: Other
    revenueMultiple: 0.6
    riskLevel: Medium
`
	catalog, err := LoadCatalog(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if got := catalog.Lookup("bakery"); got.Industry != "Other" {
		t.Errorf("Lookup(bakery) = %s, expected Other (no substring match)", got.Industry)
	}
	if got := catalog.Lookup("Artisan Bakeries"); got.Industry != "Bakeries" {
		t.Errorf("Lookup(Artisan Bakeries) = %s, expected Bakeries", got.Industry)
	}
	if got := catalog.Lookup("bakeries"); got.RiskLevel != business.RiskLow {
		t.Errorf("risk level = %s, expected Low", got.RiskLevel)
	}

	if _, err := LoadCatalog(strings.NewReader("industries: [")); err == nil {
		t.Error("expected decode error")
	}
}

func TestCompare(t *testing.T) {
	facts := business.Facts{AskingPrice: 800000, AnnualRevenue: 1000000, AnnualProfit: 200000}
	result := Compare(facts, Lookup("Services"))

	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"revenue multiple comparison", result.RevenueMultipleComparison, 1.0},
		{"profit multiple comparison", result.ProfitMultipleComparison, 4.0 / 3.0},
		{"size comparison", result.SizeComparison, 1.0},
		{"growth comparison", result.GrowthComparison, 1 / 1.05},
		{"overall score", result.OverallScore, (1 + (1 - 1.0/3.0) + 1 + 1/1.05) / 4},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.expected) > 1e-9 {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.expected)
		}
	}
	if result.Rating != RatingExcellent {
		t.Errorf("rating = %s, expected Excellent", result.Rating)
	}
	if !strings.HasPrefix(result.Recommendation, "Excellent") {
		t.Errorf("recommendation = %q", result.Recommendation)
	}
}

func TestCompareGrowthIgnoresRevenue(t *testing.T) {
	bench := Lookup("Technology")
	small := Compare(business.Facts{AskingPrice: 100000, AnnualRevenue: 50000}, bench)
	large := Compare(business.Facts{AskingPrice: 100000, AnnualRevenue: 9000000}, bench)

	if math.Abs(small.GrowthComparison-large.GrowthComparison) > 1e-12 {
		t.Errorf("growth comparison varies with revenue: %v vs %v", small.GrowthComparison, large.GrowthComparison)
	}
	if math.Abs(small.GrowthComparison-1/1.12) > 1e-12 {
		t.Errorf("growth comparison = %v, expected 1/1.12", small.GrowthComparison)
	}
}

func TestCompareWithoutRevenueOrProfit(t *testing.T) {
	result := Compare(business.Facts{AskingPrice: 250000}, Lookup("Retail"))

	if result.RevenueMultipleComparison != 0 || result.ProfitMultipleComparison != 0 {
		t.Errorf("expected zero multiple comparisons, got %+v", result)
	}
	if result.GrowthComparison != 0 || result.SizeComparison != 0 {
		t.Errorf("expected zero size/growth comparisons, got %+v", result)
	}
	if result.OverallScore != 0 || result.Rating != RatingPoor {
		t.Errorf("expected Poor with zero score, got %v %s", result.OverallScore, result.Rating)
	}
}

func TestEstimateValuations(t *testing.T) {
	id := uuid.New()
	facts := business.Facts{AnnualRevenue: 1000000, AnnualProfit: 200000}
	records := EstimateValuations(facts, Lookup("Services"), id)

	if len(records) != 4 {
		t.Fatalf("expected 4 estimates, got %d", len(records))
	}

	expected := map[business.Methodology]float64{
		business.MethodRevenueMultiple: 800000,
		business.MethodProfitMultiple:  600000,
		business.MethodEBITDAMultiple:  800000,
		business.MethodSDEMultiple:     500000,
	}
	for _, r := range records {
		if r.BusinessID != id {
			t.Errorf("record %s has business id %s", r.Methodology, r.BusinessID)
		}
		if math.Abs(r.CalculatedValue-expected[r.Methodology]) > 1e-6 {
			t.Errorf("%s value = %v, expected %v", r.Methodology, r.CalculatedValue, expected[r.Methodology])
		}
	}
	if records[0].RevenueMultiple == nil || *records[0].RevenueMultiple != 0.8 {
		t.Error("expected revenue multiple component on revenue estimate")
	}

	if got := EstimateValuations(business.Facts{AnnualRevenue: 1000000}, Lookup("Services"), id); len(got) != 1 {
		t.Errorf("expected only the revenue estimate without profit, got %d", len(got))
	}
}
