package main

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reformlab/impact-cli/internal/filter"
	"github.com/reformlab/impact-cli/internal/model"
	"github.com/reformlab/impact-cli/internal/report"
	"github.com/reformlab/impact-cli/internal/waterfall"
)

var (
	exportOutput      string
	exportFormat      string
	exportConcurrency int
	exportTaxes       string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export explained households for the filtered pool",
	Long:  "Runs the waterfall decomposition and consistency check for every household matching the filter flags and writes the results as JSON or CSV.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output file path (default stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json or csv)")
	exportCmd.Flags().IntVar(&exportConcurrency, "concurrency", 0, "concurrent workers (default from config)")
	exportCmd.Flags().StringVar(&exportTaxes, "taxes", "federal,state", "tax types in the waterfall, comma-separated (federal,state)")
	addFilterFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}

type exportResult struct {
	household    *model.Household
	waterfall    *waterfall.Result
	verification waterfall.Verification
	story        string
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate("export"); err != nil {
		return err
	}

	crit, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}
	if err := crit.Validate(); err != nil {
		return err
	}
	taxes, err := parseTaxes(exportTaxes)
	if err != nil {
		return err
	}

	store, err := loadStore(cmd.Context())
	if err != nil {
		return err
	}
	cat := store.Catalog()

	filtered, err := filter.Apply(store.Households(), crit)
	if err != nil {
		return err
	}

	concurrency := exportConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Export.Concurrency
	}

	zap.L().Info("export: starting batch",
		zap.Int("households", len(filtered)),
		zap.Int("concurrency", concurrency))

	// Results land at their pool index so output order matches load order.
	results := make([]*exportResult, len(filtered))
	var succeeded, failed atomic.Int64

	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(concurrency)

	for i := range filtered {
		h := &filtered[i]
		g.Go(func() error {
			wf, err := waterfall.Compute(h, cat, taxes)
			if err != nil {
				failed.Add(1)
				zap.L().Error("export: decompose failed",
					zap.String("household", h.ID),
					zap.Error(err))
				return nil // don't abort batch on individual failure
			}
			results[i] = &exportResult{
				household:    h,
				waterfall:    wf,
				verification: waterfall.Verify(h, wf),
				story:        report.Story(h, cat.Reform, wf.Driver),
			}
			succeeded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*exportResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}

	zap.L().Info("export: batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()))

	var w *os.File
	if exportOutput != "" {
		w, err = os.Create(exportOutput)
		if err != nil {
			return eris.Wrapf(err, "export: create output file %s", exportOutput)
		}
		defer w.Close() //nolint:errcheck
	} else {
		w = os.Stdout
	}

	switch exportFormat {
	case "json":
		return writeExportJSON(w, store.Source(), cat, out)
	case "csv":
		return writeExportCSV(w, out)
	default:
		return eris.Errorf("export: unsupported format %q", exportFormat)
	}
}

type exportRow struct {
	Household    report.HouseholdView    `json:"household"`
	Waterfall    report.WaterfallView    `json:"waterfall"`
	Verification report.VerificationView `json:"verification"`
	Story        string                  `json:"story"`
}

type exportEnvelope struct {
	ExportID    string      `json:"export_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Reform      string      `json:"reform"`
	Source      string      `json:"source"`
	Count       int         `json:"count"`
	Households  []exportRow `json:"households"`
}

func writeExportJSON(w io.Writer, source string, cat *model.Catalog, results []*exportResult) error {
	env := exportEnvelope{
		ExportID:    uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Reform:      cat.Reform,
		Source:      source,
		Count:       len(results),
		Households:  make([]exportRow, len(results)),
	}
	for i, r := range results {
		env.Households[i] = exportRow{
			Household:    report.NewHouseholdView(r.household, cat),
			Waterfall:    report.NewWaterfallView(r.waterfall),
			Verification: report.NewVerificationView(r.verification),
			Story:        r.story,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return eris.Wrap(err, "export: encode results")
	}
	return nil
}

func writeExportCSV(w io.Writer, results []*exportResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"household_id", "state", "weight", "age_of_head", "married", "dependents",
		"net_income_change", "pct_net_income_change", "federal_tax_change",
		"state_tax_change", "driver", "verified",
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}

	for _, r := range results {
		h := r.household
		driver := ""
		if r.waterfall.Driver != nil {
			driver = r.waterfall.Driver.Name
		}
		row := []string{
			h.ID,
			h.State,
			csvNum(h.Weight),
			csvNum(h.AgeOfHead),
			strconv.FormatBool(h.IsMarried),
			csvNum(h.NumDependents),
			csvNum(h.TotalNetIncomeChange),
			csvNum(h.PctNetIncomeChange),
			csvNum(h.TotalFederalTaxChange),
			csvNum(h.TotalStateTaxChange),
			driver,
			strconv.FormatBool(r.verification.Passed),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write CSV row")
		}
	}
	return nil
}

// csvNum renders a numeric cell, leaving missing values blank.
func csvNum(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
