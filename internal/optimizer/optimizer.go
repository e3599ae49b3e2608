// Package optimizer searches for the highest purchase price at which an
// acquisition still meets a target internal rate of return.
package optimizer

import (
	"fmt"

	"github.com/iwvelando/acquisition-forecast/internal/config"
	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"github.com/iwvelando/acquisition-forecast/pkg/cashflow"
	"github.com/iwvelando/acquisition-forecast/pkg/format"
	"github.com/iwvelando/acquisition-forecast/pkg/mathutil"
	"github.com/iwvelando/acquisition-forecast/pkg/optimization"
	"github.com/iwvelando/acquisition-forecast/pkg/returns"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FieldPurchasePrice is the only field the optimizer adjusts.
const FieldPurchasePrice = "purchasePrice"

type Runner struct {
	logger   *zap.Logger
	analyzer *returns.Analyzer
}

type evaluation struct {
	price       float64
	irr         float64
	npvAtTarget float64
}

// feasible reports whether the projection at this price earns at least the
// target rate, i.e. its NPV at the target rate is non-negative.
func (e evaluation) feasible() bool {
	return e.npvAtTarget >= 0
}

func (e evaluation) headroom() float64 {
	return e.npvAtTarget
}

// NewRunner constructs a Runner.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, analyzer: returns.NewAnalyzer(logger)}
}

// Run bisects the purchase price between the configured bounds. cfg is
// normalized in place against the asking price.
func (r *Runner) Run(facts business.Facts, assumptions cashflow.Assumptions, cfg *config.OptimizerConfig) (optimization.Summary, error) {
	if cfg == nil {
		return optimization.Summary{}, eris.New("optimizer: configuration cannot be nil")
	}
	if err := cfg.Validate(facts.AskingPrice); err != nil {
		return optimization.Summary{}, err
	}
	if err := assumptions.Validate(); err != nil {
		return optimization.Summary{}, eris.Wrap(err, "optimizer: invalid assumptions")
	}

	target := mathutil.FromPercent(cfg.TargetIRRPercent)
	minPrice, maxPrice := *cfg.MinPrice, *cfg.MaxPrice

	evaluate := func(price float64) evaluation {
		analysis := r.analyzer.Analyze(price, facts.AnnualRevenue, assumptions)
		return evaluation{
			price:       price,
			irr:         analysis.IRR,
			npvAtTarget: returns.NetPresentValue(analysis.AdjustedCashFlows, analysis.TotalInvestment, target),
		}
	}

	summary := optimization.Summary{
		TargetName:      facts.Name,
		Field:           FieldPurchasePrice,
		Original:        facts.AskingPrice,
		OriginalDisplay: format.Currency(facts.AskingPrice),
		TargetIRR:       target,
	}

	lower := evaluate(minPrice)
	upper := evaluate(maxPrice)

	var final evaluation
	iterations := 0
	converged := false

	switch {
	case !lower.feasible():
		final = lower
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"unable to reach a %s IRR within bounds %s to %s",
			format.Percent(target), format.Currency(minPrice), format.Currency(maxPrice)))
	case upper.feasible():
		final = upper
		converged = true
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"target IRR is met across the whole range; maximum bound %s applied", format.Currency(maxPrice)))
	default:
		lo, hi := lower, upper
		for iterations < cfg.MaxIterations && hi.price-lo.price > cfg.Tolerance {
			mid := evaluate((lo.price + hi.price) / 2)
			iterations++
			if mid.feasible() {
				lo = mid
			} else {
				hi = mid
			}
		}
		final = lo
		converged = hi.price-lo.price <= cfg.Tolerance
		if !converged {
			summary.Notes = append(summary.Notes, fmt.Sprintf(
				"stopped after %d iterations with a %s search window", iterations, format.Currency(hi.price-lo.price)))
		}
	}

	summary.Value = final.price
	summary.ValueDisplay = format.Currency(final.price)
	summary.AchievedIRR = final.irr
	summary.Headroom = final.headroom()
	summary.Iterations = iterations
	summary.Converged = converged

	r.logger.Info("optimizer adjusted purchase price",
		zap.String("op", "optimizer.Run"),
		zap.String("business", facts.Name),
		zap.Float64("askingPrice", facts.AskingPrice),
		zap.Float64("optimizedPrice", summary.Value),
		zap.Float64("targetIRR", target),
		zap.Float64("achievedIRR", summary.AchievedIRR),
		zap.Float64("headroom", summary.Headroom),
		zap.Int("iterations", iterations),
		zap.Bool("converged", converged),
	)

	return summary, nil
}
