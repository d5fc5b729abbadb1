package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/reformlab/impact-cli/internal/pipeline"
	"github.com/reformlab/impact-cli/internal/selector"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the dataset against the reform catalog",
	Long:  "Loads the dataset, reports load statistics and unrankable households, and runs the waterfall consistency check on every row.",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate("validate"); err != nil {
		return err
	}

	store, err := loadStore(cmd.Context())
	if err != nil {
		return err
	}
	eng := pipeline.New(store)
	audit := eng.Audit()

	st := store.Stats()
	fmt.Printf("Source:          %s\n", store.Source())
	fmt.Printf("Reform:          %s\n", store.Catalog().Reform)
	fmt.Printf("Components:      %d\n", store.Catalog().Len())
	fmt.Printf("Rows read:       %d\n", st.Rows)
	fmt.Printf("Loaded:          %d\n", st.Loaded)
	fmt.Printf("Missing id:      %d\n", st.MissingID)
	fmt.Printf("Negative weight: %d\n", st.NegativeWeight)

	metrics := []selector.Metric{
		selector.MetricTaxPct,
		selector.MetricTaxTotal,
		selector.MetricIncomePct,
		selector.MetricIncomeTotal,
	}
	var unrankable bool
	for _, m := range metrics {
		if audit.NaNMetric[m] > 0 {
			unrankable = true
			break
		}
	}
	if unrankable {
		fmt.Println("\nUnrankable households per metric:")
		for _, m := range metrics {
			if n := audit.NaNMetric[m]; n > 0 {
				fmt.Printf("  %-22s %d\n", m, n)
			}
		}
	}

	if len(audit.Failures) > 0 {
		fmt.Printf("\nVerification failures (%d):\n", len(audit.Failures))
		for _, id := range audit.Failures {
			fmt.Printf("  %s\n", id)
		}
		return eris.Errorf("validate: %d of %d households failed verification",
			len(audit.Failures), audit.Households)
	}

	fmt.Printf("\nAll %d households verified.\n", audit.Households)
	return nil
}
