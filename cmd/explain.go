package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/reformlab/impact-cli/internal/model"
	"github.com/reformlab/impact-cli/internal/pipeline"
	"github.com/reformlab/impact-cli/internal/report"
	"github.com/reformlab/impact-cli/internal/selector"
	"github.com/reformlab/impact-cli/internal/waterfall"
)

var (
	explainHousehold string
	explainRandomKey string
	explainRedraw    bool
	explainMetric    string
	explainDirection string
	explainRank      int
	explainTaxes     string
	explainFormat    string
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain the reform's impact on one household",
	Long:  "Selects a household (by id, by rank, or at random from the filtered pool), decomposes its net income change into per-provision waterfall steps, verifies the decomposition, and prints a plain-language story.",
	RunE:  runExplain,
}

func init() {
	explainCmd.Flags().StringVar(&explainHousehold, "household", "", "household id to explain (must be in the filtered pool)")
	explainCmd.Flags().StringVar(&explainRandomKey, "random-key", "", "previously drawn household id to keep")
	explainCmd.Flags().BoolVar(&explainRedraw, "redraw", false, "force a fresh random draw")
	explainCmd.Flags().StringVar(&explainMetric, "metric", "", "rank by metric (federal-tax-pct, federal-tax-total, net-income-pct, net-income-total)")
	explainCmd.Flags().StringVar(&explainDirection, "direction", "", "ranking direction (largest or smallest)")
	explainCmd.Flags().IntVar(&explainRank, "rank", 0, "1-based rank to pick from the ranked list")
	explainCmd.Flags().StringVar(&explainTaxes, "taxes", "federal", "tax types in the waterfall, comma-separated (federal,state)")
	explainCmd.Flags().StringVar(&explainFormat, "format", "text", "output format (text or json)")
	addFilterFlags(explainCmd)
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate("explain"); err != nil {
		return err
	}

	crit, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}
	taxes, err := parseTaxes(explainTaxes)
	if err != nil {
		return err
	}

	store, err := loadStore(cmd.Context())
	if err != nil {
		return err
	}
	eng := pipeline.New(store)

	req := pipeline.Request{
		Criteria:    crit,
		HouseholdID: explainHousehold,
		RandomKey:   explainRandomKey,
		Redraw:      explainRedraw,
		Metric:      selector.Metric(explainMetric),
		Direction:   selector.Direction(explainDirection),
		Rank:        explainRank,
		Taxes:       taxes,
	}
	if explainHousehold == "" && (explainMetric != "" || explainDirection != "" || explainRank > 0) {
		req.Mode = pipeline.ModeRanked
	}

	res, err := eng.Explain(req)
	if err != nil {
		return err
	}

	m := resolveMetric(selector.Metric(explainMetric))
	switch explainFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newExplainOutput(res, store.Catalog(), m)); err != nil {
			return eris.Wrap(err, "explain: encode result")
		}
		return nil
	case "text":
		printExplain(res, store.Catalog(), m)
		return nil
	default:
		return eris.Errorf("explain: unsupported format %q", explainFormat)
	}
}

// explainOutput is the JSON envelope shared by the CLI and the API.
type explainOutput struct {
	Reform       string                  `json:"reform"`
	Household    report.HouseholdView    `json:"household"`
	RandomKey    string                  `json:"random_key,omitempty"`
	Ranked       []report.RankedCaseView `json:"ranked,omitempty"`
	Waterfall    report.WaterfallView    `json:"waterfall"`
	Verification report.VerificationView `json:"verification"`
	Story        string                  `json:"story"`
}

func newExplainOutput(res *pipeline.Result, cat *model.Catalog, m selector.Metric) explainOutput {
	out := explainOutput{
		Reform:       cat.Reform,
		Household:    report.NewHouseholdView(res.Household, cat),
		RandomKey:    res.RandomKey,
		Waterfall:    report.NewWaterfallView(res.Waterfall),
		Verification: report.NewVerificationView(res.Verification),
		Story:        res.Story,
	}
	if len(res.Ranked) > 0 {
		out.Ranked = report.NewRankedCaseViews(res.Ranked, m)
	}
	return out
}

func printExplain(res *pipeline.Result, cat *model.Catalog, m selector.Metric) {
	h := res.Household

	marital := "single"
	if h.IsMarried {
		marital = "married"
	}
	fmt.Printf("Reform:      %s\n", cat.Reform)
	fmt.Printf("Household:   %s\n", h.ID)
	fmt.Printf("State:       %s\n", h.State)
	fmt.Printf("Age of head: %s (%s)\n", fmtCount(h.AgeOfHead), marital)
	fmt.Printf("Dependents:  %s\n", fmtCount(h.NumDependents))
	fmt.Printf("Weight:      %s families\n", report.Weight(h.Weight))
	fmt.Printf("Net change:  %s (%s)\n",
		report.SignedMoney(h.TotalNetIncomeChange), report.Percent(h.PctNetIncomeChange))
	if res.RandomKey != "" {
		fmt.Printf("Random key:  %s\n", res.RandomKey)
	}

	var sources []model.IncomeSource
	for _, s := range h.IncomeSources() {
		if s.Amount > 0 {
			sources = append(sources, s)
		}
	}
	if len(sources) > 0 {
		fmt.Println("\nIncome sources:")
		for _, s := range sources {
			fmt.Printf("  %-24s %14s\n", s.Name, report.Money(s.Amount))
		}
	}

	if len(res.Ranked) > 0 {
		fmt.Println("\nRanked cases:")
		for _, v := range report.NewRankedCaseViews(res.Ranked, m) {
			marker := " "
			if v.ID == h.ID {
				marker = "*"
			}
			fmt.Printf("  %s %-16s %-5s %14s\n", marker, v.Label, v.State, v.Formatted)
		}
	}

	fmt.Println("\nWaterfall:")
	for _, s := range res.Waterfall.Steps {
		delta := ""
		if s.Kind == waterfall.StepRelative {
			delta = report.SignedMoney(s.Delta)
		}
		fmt.Printf("  %-48s %14s %14s\n", s.Label, delta, report.Money(s.Running))
	}
	if d := res.Waterfall.Driver; d != nil {
		fmt.Printf("\nBiggest driver: %s (%s)\n", d.Name, report.SignedMoney(d.NetIncomeDelta))
	}

	v := res.Verification
	status := "passed"
	if !v.Passed {
		status = "FAILED"
	}
	fmt.Printf("\nVerification %s: calculated %s, actual %s\n",
		status, report.Money(v.Calculated), report.Money(v.Actual))
	if !v.Passed {
		fmt.Printf("  %s\n", report.Discrepancy(v))
	}

	fmt.Println("\n" + res.Story)
}

func fmtCount(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}
