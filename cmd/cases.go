package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/reformlab/impact-cli/internal/pipeline"
	"github.com/reformlab/impact-cli/internal/report"
	"github.com/reformlab/impact-cli/internal/selector"
)

var (
	casesMetric    string
	casesDirection string
	casesFormat    string
	casesOutput    string
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "Rank filtered households by reform impact",
	Long:  "Applies the filter flags to the household table and lists the most extreme cases by the chosen metric.",
	RunE:  runCases,
}

func init() {
	casesCmd.Flags().StringVar(&casesMetric, "metric", string(selector.MetricIncomeTotal), "ranking metric (federal-tax-pct, federal-tax-total, net-income-pct, net-income-total)")
	casesCmd.Flags().StringVar(&casesDirection, "direction", string(selector.Largest), "ranking direction (largest or smallest)")
	casesCmd.Flags().StringVar(&casesFormat, "format", "table", "output format (table or csv)")
	casesCmd.Flags().StringVar(&casesOutput, "output", "", "output file path (default stdout)")
	addFilterFlags(casesCmd)
	rootCmd.AddCommand(casesCmd)
}

func runCases(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate("cases"); err != nil {
		return err
	}

	crit, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}
	m, err := selector.ParseMetric(casesMetric)
	if err != nil {
		return err
	}
	dir, err := selector.ParseDirection(casesDirection)
	if err != nil {
		return err
	}

	store, err := loadStore(cmd.Context())
	if err != nil {
		return err
	}
	eng := pipeline.New(store)

	ranked, err := eng.Cases(crit, m, dir)
	if err != nil {
		return err
	}

	return outputCases(ranked, m, casesFormat, casesOutput)
}

func outputCases(ranked []selector.RankedCase, m selector.Metric, format, outputPath string) error {
	var w *os.File
	if outputPath != "" {
		var err error
		w, err = os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "cases: create output file %s", outputPath)
		}
		defer w.Close() //nolint:errcheck
	} else {
		w = os.Stdout
	}

	switch format {
	case "csv":
		return writeCasesCSV(w, ranked, m)
	case "table":
		return writeCasesTable(w, ranked, m)
	default:
		return eris.Errorf("cases: unsupported format %q", format)
	}
}

func writeCasesCSV(w io.Writer, ranked []selector.RankedCase, m selector.Metric) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"rank", "household_id", "state", "weight", string(m)}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "cases: write CSV header")
	}

	for _, rc := range ranked {
		row := []string{
			strconv.Itoa(rc.Rank),
			rc.Household.ID,
			rc.Household.State,
			fmt.Sprintf("%.1f", rc.Household.Weight),
			fmt.Sprintf("%.2f", rc.Value),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "cases: write CSV row")
		}
	}
	return nil
}

func writeCasesTable(w io.Writer, ranked []selector.RankedCase, m selector.Metric) error {
	if len(ranked) == 0 {
		_, err := fmt.Fprintln(w, "No cases.")
		return err
	}

	header := fmt.Sprintf("%-5s %-12s %-5s %12s %16s\n",
		"Rank", "Household", "State", "Weight", string(m))
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "cases: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 54)); err != nil {
		return eris.Wrap(err, "cases: write table separator")
	}

	for _, v := range report.NewRankedCaseViews(ranked, m) {
		weight := "n/a"
		if v.Weight != nil {
			weight = report.Weight(*v.Weight)
		}
		line := fmt.Sprintf("%-5d %-12s %-5s %12s %16s\n",
			v.Rank, v.ID, v.State, weight, v.Formatted)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "cases: write table row")
		}
	}
	return nil
}
