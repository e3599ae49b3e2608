// Package engine is the library surface of the acquisition model: each
// function is a pure computation over the supplied facts.
package engine

import (
	"sync"

	"github.com/iwvelando/acquisition-forecast/pkg/benchmark"
	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"github.com/iwvelando/acquisition-forecast/pkg/cashflow"
	"github.com/iwvelando/acquisition-forecast/pkg/financing"
	"github.com/iwvelando/acquisition-forecast/pkg/offer"
	"github.com/iwvelando/acquisition-forecast/pkg/returns"
	"github.com/iwvelando/acquisition-forecast/pkg/scenario"
	"go.uber.org/zap"
)

// Engine binds the model to a logger and benchmark catalog.
type Engine struct {
	catalog     *benchmark.Catalog
	analyzer    *returns.Analyzer
	recommender *offer.Recommender
}

// New returns an engine. A nil logger disables logging and a nil catalog
// selects the embedded benchmark table.
func New(logger *zap.Logger, catalog *benchmark.Catalog) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalog == nil {
		catalog = benchmark.Default()
	}
	return &Engine{
		catalog:     catalog,
		analyzer:    returns.NewAnalyzer(logger),
		recommender: offer.NewRecommender(logger, catalog),
	}
}

var defaultEngine = sync.OnceValue(func() *Engine { return New(nil, nil) })

// ComputeFinancing splits the asking price into down payment and loan and
// amortizes the loan.
func (e *Engine) ComputeFinancing(facts business.Facts) financing.Result {
	return financing.Compute(facts.AskingPrice, facts.Financing)
}

// ProjectReturns analyzes buying the business at its asking price under
// assumptions. assumptions.InvestmentPeriod must be at least 1.
func (e *Engine) ProjectReturns(facts business.Facts, assumptions cashflow.Assumptions) returns.Analysis {
	return e.analyzer.Analyze(facts.AskingPrice, facts.AnnualRevenue, assumptions)
}

// GenerateScenarios values the business under the standard scenarios.
func (e *Engine) GenerateScenarios(facts business.Facts, baseValuation float64) scenario.Set {
	return scenario.Generate(facts, baseValuation)
}

// AnalyzeScenarios summarizes a scenario set.
func (e *Engine) AnalyzeScenarios(set scenario.Set) scenario.Analysis {
	return scenario.Analyze(set)
}

// LookupBenchmark resolves an industry label. It always returns an entry.
func (e *Engine) LookupBenchmark(label string) benchmark.Benchmark {
	return e.catalog.Lookup(label)
}

// CompareToBenchmark scores the business against bench.
func (e *Engine) CompareToBenchmark(facts business.Facts, bench benchmark.Benchmark) benchmark.Analysis {
	return benchmark.Compare(facts, bench)
}

// RecommendOffer builds the negotiation recommendation from the valuations
// recorded for the business.
func (e *Engine) RecommendOffer(facts business.Facts, records []business.ValuationRecord) offer.Recommendation {
	return e.recommender.Recommend(facts, records)
}

// ComputeFinancing uses the default engine.
func ComputeFinancing(facts business.Facts) financing.Result {
	return defaultEngine().ComputeFinancing(facts)
}

// ProjectReturns uses the default engine.
func ProjectReturns(facts business.Facts, assumptions cashflow.Assumptions) returns.Analysis {
	return defaultEngine().ProjectReturns(facts, assumptions)
}

// GenerateScenarios uses the default engine.
func GenerateScenarios(facts business.Facts, baseValuation float64) scenario.Set {
	return defaultEngine().GenerateScenarios(facts, baseValuation)
}

// AnalyzeScenarios uses the default engine.
func AnalyzeScenarios(set scenario.Set) scenario.Analysis {
	return defaultEngine().AnalyzeScenarios(set)
}

// LookupBenchmark uses the default engine.
func LookupBenchmark(label string) benchmark.Benchmark {
	return defaultEngine().LookupBenchmark(label)
}

// CompareToBenchmark uses the default engine.
func CompareToBenchmark(facts business.Facts, bench benchmark.Benchmark) benchmark.Analysis {
	return defaultEngine().CompareToBenchmark(facts, bench)
}

// RecommendOffer uses the default engine.
func RecommendOffer(facts business.Facts, records []business.ValuationRecord) offer.Recommendation {
	return defaultEngine().RecommendOffer(facts, records)
}
