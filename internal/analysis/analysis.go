// Package analysis runs every part of the acquisition model against one deal
// configuration and collects the results into a single report.
package analysis

import (
	"context"
	"fmt"

	"github.com/iwvelando/acquisition-forecast/internal/config"
	"github.com/iwvelando/acquisition-forecast/internal/optimizer"
	"github.com/iwvelando/acquisition-forecast/pkg/benchmark"
	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"github.com/iwvelando/acquisition-forecast/pkg/cashflow"
	"github.com/iwvelando/acquisition-forecast/pkg/engine"
	"github.com/iwvelando/acquisition-forecast/pkg/financing"
	"github.com/iwvelando/acquisition-forecast/pkg/mathutil"
	"github.com/iwvelando/acquisition-forecast/pkg/offer"
	"github.com/iwvelando/acquisition-forecast/pkg/optimization"
	"github.com/iwvelando/acquisition-forecast/pkg/returns"
	"github.com/iwvelando/acquisition-forecast/pkg/scenario"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Report holds all information related to the analysis of one deal.
type Report struct {
	Business            business.Facts             `json:"business"`
	Assumptions         cashflow.Assumptions       `json:"assumptions"`
	Valuations          []business.ValuationRecord `json:"valuations"`
	EstimatedValuations bool                       `json:"estimatedValuations"`
	BaseValuation       float64                    `json:"baseValuation"`
	Financing           financing.Result           `json:"financing"`
	DebtService         []financing.YearSummary    `json:"debtService,omitempty"`
	DebtServiceCoverage float64                    `json:"debtServiceCoverage"`
	Returns             returns.Analysis           `json:"returns"`
	Scenarios           scenario.Set               `json:"scenarios"`
	ScenarioAnalysis    scenario.Analysis          `json:"scenarioAnalysis"`
	Benchmark           benchmark.Benchmark        `json:"benchmark"`
	BenchmarkAnalysis   benchmark.Analysis         `json:"benchmarkAnalysis"`
	Offer               offer.Recommendation       `json:"offer"`
	Optimization        *optimization.Summary      `json:"optimization,omitempty"`
	Warnings            []string                   `json:"warnings,omitempty"`
}

// Run validates conf and produces its report. The independent parts of the
// model run concurrently; each writes its own report fields.
func Run(ctx context.Context, logger *zap.Logger, conf *config.Configuration) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf == nil {
		return nil, eris.New("analysis: configuration cannot be nil")
	}

	inputs, err := conf.Inputs()
	if err != nil {
		return nil, eris.Wrap(err, "analysis: invalid configuration")
	}
	facts := inputs.Facts

	eng := engine.New(logger, nil)
	report := &Report{
		Business:    facts,
		Assumptions: inputs.Assumptions,
		Valuations:  inputs.Valuations,
		Warnings:    conf.ValidateConfiguration(),
		Benchmark:   eng.LookupBenchmark(facts.Industry),
	}

	if len(report.Valuations) == 0 {
		report.Valuations = benchmark.EstimateValuations(facts, report.Benchmark, facts.ID)
		report.EstimatedValuations = len(report.Valuations) > 0
		logger.Debug(fmt.Sprintf("estimated %d valuations from the %s benchmark",
			len(report.Valuations), report.Benchmark.Industry),
			zap.String("op", "analysis.Run"),
		)
	}
	report.BaseValuation = baseValuation(facts, report.Valuations)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Financing = eng.ComputeFinancing(facts)
		schedule := financing.NewScheduleGenerator(logger).GenerateSchedule(
			report.Financing.LoanAmount, facts.Financing.InterestRatePercent, facts.Financing.TermYears)
		report.DebtService = financing.YearlyDebtService(schedule)
		report.DebtServiceCoverage = financing.DebtServiceCoverage(facts.AnnualProfit, report.Financing.AnnualPayment)
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Returns = eng.ProjectReturns(facts, inputs.Assumptions)
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		set := eng.GenerateScenarios(facts, report.BaseValuation)
		if len(inputs.Scenarios) > 0 {
			set = set.WithCustom(facts, report.BaseValuation, inputs.Scenarios...)
		}
		report.Scenarios = set
		report.ScenarioAnalysis = eng.AnalyzeScenarios(set)
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.BenchmarkAnalysis = eng.CompareToBenchmark(facts, report.Benchmark)
		report.Offer = eng.RecommendOffer(facts, report.Valuations)
		return nil
	})

	if conf.Optimizer != nil && conf.Optimizer.Enabled {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			summary, err := optimizer.NewRunner(logger).Run(facts, inputs.Assumptions, conf.Optimizer)
			if err != nil {
				return eris.Wrap(err, "analysis: optimizer failed")
			}
			report.Optimization = &summary
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("completed acquisition analysis",
		zap.String("op", "analysis.Run"),
		zap.String("business", facts.Name),
		zap.Int("valuations", len(report.Valuations)),
		zap.Float64("recommendedOffer", report.Offer.RecommendedOffer),
		zap.String("scenarioRecommendation", string(report.ScenarioAnalysis.Recommendation)),
	)

	return report, nil
}

// baseValuation is the mean valuation, or the asking price when there are
// no valuations.
func baseValuation(facts business.Facts, records []business.ValuationRecord) float64 {
	values := business.Values(records)
	if len(values) == 0 {
		return facts.AskingPrice
	}
	return mathutil.Mean(values)
}
