package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/iwvelando/acquisition-forecast/pkg/benchmark"
	"github.com/iwvelando/acquisition-forecast/pkg/format"
	"github.com/spf13/cobra"
)

var benchmarksCmd = &cobra.Command{
	Use:   "benchmarks [industry]",
	Short: "List the industry benchmarks or resolve one industry label",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := benchmark.Default()
		if len(args) == 1 {
			return writeBenchmarks(cmd.OutOrStdout(), []benchmark.Benchmark{catalog.Lookup(args[0])})
		}
		return writeBenchmarks(cmd.OutOrStdout(), catalog.Entries())
	},
}

func writeBenchmarks(w io.Writer, entries []benchmark.Benchmark) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Industry\tRevenue\tProfit\tEBITDA\tSDE\tAvg size\tGrowth\tRisk")
	for _, b := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.Industry,
			format.Multiple(b.RevenueMultiple),
			format.Multiple(b.ProfitMultiple),
			format.Multiple(b.EBITDAMultiple),
			format.Multiple(b.SDEMultiple),
			format.WholeCurrency(b.AverageBusinessSize),
			format.Percent(b.TypicalGrowthRate),
			b.RiskLevel,
		)
	}
	return tw.Flush()
}
