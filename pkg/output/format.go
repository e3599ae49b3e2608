// Package output provides utilities for formatting and displaying analysis reports.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/acquisition-forecast/internal/analysis"
	"github.com/iwvelando/acquisition-forecast/pkg/constants"
	"github.com/iwvelando/acquisition-forecast/pkg/format"
	"github.com/iwvelando/acquisition-forecast/pkg/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders report to w in the named output format.
func Write(w io.Writer, outputFormat string, report *analysis.Report) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	default:
		return PrettyFormat(w, report)
	}
}

// reportWriter keeps the first write error so rendering code can print
// unconditionally.
type reportWriter struct {
	w   io.Writer
	p   *message.Printer
	err error
}

func (rw *reportWriter) printf(format string, args ...interface{}) {
	if rw.err != nil {
		return
	}
	_, rw.err = rw.p.Fprintf(rw.w, format, args...)
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report *analysis.Report) error {
	rw := &reportWriter{w: w, p: message.NewPrinter(language.English)}
	b := report.Business

	rw.printf("--- Acquisition analysis for %s ---\n", b.Name)
	rw.printf("Industry: %s (benchmark %s)\n", b.Industry, report.Benchmark.Industry)
	rw.printf("Asking price: %s | Revenue: %s | Profit: %s\n\n",
		format.Currency(b.AskingPrice), format.Currency(b.AnnualRevenue), format.Currency(b.AnnualProfit))

	fin := report.Financing
	rw.printf("Financing:\n")
	rw.printf("  Down payment %s, loan %s\n", format.Currency(fin.DownPayment), format.Currency(fin.LoanAmount))
	rw.printf("  Monthly payment %s, annual payment %s, debt service coverage %.2f\n",
		format.Currency(fin.MonthlyPayment), format.Currency(fin.AnnualPayment), report.DebtServiceCoverage)
	if len(report.DebtService) > 0 {
		rw.printf("Year | Payment       | Principal     | Interest      | Balance\n")
		rw.printf("____ | _____________ | _____________ | _____________ | _______\n")
		for _, y := range report.DebtService {
			rw.printf("%4d | %13s | %13s | %13s | %s\n", y.Year,
				format.Currency(y.Payment), format.Currency(y.Principal),
				format.Currency(y.Interest), format.Currency(y.EndingBalance))
		}
	}
	rw.printf("\n")

	ret := report.Returns
	rw.printf("Returns over %d years:\n", report.Assumptions.InvestmentPeriod)
	rw.printf("  Total ROI %s, annualized %s\n", format.Percent(ret.TotalROI), format.Percent(ret.AnnualizedROI))
	irrNote := ""
	if !ret.IRRConverged {
		irrNote = " (not converged)"
	}
	rw.printf("  IRR %s%s, NPV %s, payback %.1f years\n", format.Percent(ret.IRR), irrNote,
		format.Currency(ret.NPV), ret.PaybackPeriodYears)
	rw.printf("  Risk: %s\n", ret.RiskDescription)
	rw.printf("Year | Cash flow     | Cumulative\n")
	rw.printf("____ | _____________ | __________\n")
	for i, flow := range ret.AdjustedCashFlows {
		cumulative := 0.0
		if i < len(ret.CumulativeCashFlows) {
			cumulative = ret.CumulativeCashFlows[i]
		}
		rw.printf("%4d | %13s | %s\n", i+1, format.Currency(flow), format.Currency(cumulative))
	}
	rw.printf("\n")

	rw.printf("Scenarios (base valuation %s):\n", format.Currency(report.BaseValuation))
	for _, s := range report.Scenarios.Scenarios {
		rw.printf("  %-20s %-12s %15s  %s confidence\n", s.Name, s.Type, format.Currency(s.CalculatedValue), s.Confidence)
	}
	sa := report.ScenarioAnalysis
	rw.printf("  Range %s, risk premium %s, risk %s: %s\n\n",
		format.Currency(sa.ValueRange), format.Percent(sa.RiskPremium), sa.RiskLevel, sa.Recommendation)

	ba := report.BenchmarkAnalysis
	rw.printf("Benchmark: %s (score %.2f)\n  %s\n\n", ba.Rating, ba.OverallScore, ba.Recommendation)

	o := report.Offer
	rw.printf("Offer recommendation:\n  %s\n", o.ExecutiveSummary)
	rw.printf("  Opening %s | Minimum %s | Recommended %s | Maximum %s\n",
		format.Currency(o.OpeningOffer), format.Currency(o.MinimumOffer),
		format.Currency(o.RecommendedOffer), format.Currency(o.MaximumOffer))
	for _, rf := range o.RiskFactors {
		rw.printf("  [%s] %s: %s\n", rf.Severity, rf.Category, rf.Description)
	}
	if len(o.KeyTalkingPoints) > 0 {
		rw.printf("  Talking points:\n")
		for _, point := range o.KeyTalkingPoints {
			rw.printf("    - %s\n", point)
		}
	}
	if len(o.NextSteps) > 0 {
		rw.printf("  Next steps:\n")
		for i, step := range o.NextSteps {
			rw.printf("    %d. %s\n", i+1, step)
		}
	}

	if opt := report.Optimization; opt != nil {
		rw.printf("\nOptimization adjustments:\n")
		status := "converged"
		if !opt.Converged {
			status = "not converged"
		}
		rw.printf("  %s (%s): %s -> %s for a %s IRR target (achieved %s, %d iterations, %s)\n",
			opt.TargetName, opt.Field, opt.OriginalDisplay, opt.ValueDisplay,
			format.Percent(opt.TargetIRR), format.Percent(opt.AchievedIRR), opt.Iterations, status)
		for _, note := range opt.Notes {
			rw.printf("  Note: %s\n", note)
		}
	}

	if len(report.Warnings) > 0 {
		rw.printf("\nWarnings:\n")
		for _, warning := range report.Warnings {
			rw.printf("  - %s\n", warning)
		}
	}
	return rw.err
}

// CsvFormat outputs the report as section, metric and value rows.
func CsvFormat(w io.Writer, report *analysis.Report) error {
	cw := csv.NewWriter(w)
	money := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	ratio := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

	rows := [][]string{
		{"section", "metric", "value"},
		{"business", "name", report.Business.Name},
		{"business", "industry", report.Business.Industry},
		{"business", "askingPrice", money(report.Business.AskingPrice)},
		{"financing", "downPayment", money(report.Financing.DownPayment)},
		{"financing", "loanAmount", money(report.Financing.LoanAmount)},
		{"financing", "monthlyPayment", money(report.Financing.MonthlyPayment)},
		{"financing", "annualPayment", money(report.Financing.AnnualPayment)},
		{"financing", "debtServiceCoverage", ratio(report.DebtServiceCoverage)},
		{"returns", "totalROI", ratio(report.Returns.TotalROI)},
		{"returns", "annualizedROI", ratio(report.Returns.AnnualizedROI)},
		{"returns", "irr", ratio(report.Returns.IRR)},
		{"returns", "npv", money(report.Returns.NPV)},
		{"returns", "paybackPeriodYears", ratio(report.Returns.PaybackPeriodYears)},
		{"returns", "riskLevel", string(report.Returns.RiskLevel)},
	}
	for i, flow := range report.Returns.AdjustedCashFlows {
		rows = append(rows, []string{"cashflow", fmt.Sprintf("year%d", i+1), money(flow)})
	}
	for _, s := range report.Scenarios.Scenarios {
		rows = append(rows, []string{"scenario", s.Name, money(s.CalculatedValue)})
	}
	rows = append(rows,
		[]string{"scenarioAnalysis", "recommendedValue", money(report.ScenarioAnalysis.RecommendedValue)},
		[]string{"scenarioAnalysis", "recommendation", string(report.ScenarioAnalysis.Recommendation)},
		[]string{"benchmark", "rating", string(report.BenchmarkAnalysis.Rating)},
		[]string{"benchmark", "overallScore", ratio(report.BenchmarkAnalysis.OverallScore)},
		[]string{"offer", "openingOffer", money(report.Offer.OpeningOffer)},
		[]string{"offer", "minimumOffer", money(report.Offer.MinimumOffer)},
		[]string{"offer", "recommendedOffer", money(report.Offer.RecommendedOffer)},
		[]string{"offer", "maximumOffer", money(report.Offer.MaximumOffer)},
		[]string{"offer", "confidence", string(report.Offer.Confidence)},
	)
	if opt := report.Optimization; opt != nil {
		rows = append(rows,
			[]string{"optimization", opt.Field, money(opt.Value)},
			[]string{"optimization", "achievedIRR", ratio(opt.AchievedIRR)},
			[]string{"optimization", "converged", strconv.FormatBool(opt.Converged)},
		)
	}
	if len(report.Warnings) > 0 {
		rows = append(rows, []string{"warnings", "all", strings.Join(report.Warnings, "; ")})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("output: writing csv: %w", err)
	}
	return nil
}

// JSONFormat outputs the full report as indented JSON.
func JSONFormat(w io.Writer, report *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("output: encoding json: %w", err)
	}
	return nil
}
