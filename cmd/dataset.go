package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reformlab/impact-cli/internal/dataset"
	"github.com/reformlab/impact-cli/internal/filter"
	"github.com/reformlab/impact-cli/internal/model"
	"github.com/reformlab/impact-cli/internal/selector"
	"github.com/reformlab/impact-cli/internal/waterfall"
)

// loadCatalog resolves the reform catalog: the built-in HR1 catalog unless
// config points at a YAML override.
func loadCatalog() (*model.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return model.HR1(), nil
	}
	return model.LoadCatalog(cfg.Catalog.Path)
}

func loadStore(ctx context.Context) (*dataset.Store, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	store, err := dataset.Load(ctx, cfg.Dataset, cat)
	if err != nil {
		return nil, err
	}

	st := store.Stats()
	zap.L().Info("dataset loaded",
		zap.String("source", store.Source()),
		zap.String("reform", cat.Reform),
		zap.Int("households", store.Len()),
		zap.Int("dropped_missing_id", st.MissingID),
		zap.Int("dropped_negative_weight", st.NegativeWeight),
	)
	return store, nil
}

// addFilterFlags registers the household filter flags shared by explain,
// cases, and export.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("state", "", "filter by state code (e.g. CA)")
	cmd.Flags().Bool("married", false, "filter by marital status")
	cmd.Flags().String("dependents", "", "filter by dependent count bucket (0, 1, 2, 3+)")
	cmd.Flags().Float64("min-age", 0, "minimum age of head")
	cmd.Flags().Float64("max-age", 0, "maximum age of head")
	cmd.Flags().Float64("min-weight", 0, "minimum household weight")
	cmd.Flags().Float64("min-net-income", 0, "minimum baseline net income")
	cmd.Flags().Float64("max-net-income", 0, "maximum baseline net income")
}

// criteriaFromFlags builds filter criteria from whichever filter flags the
// user actually set. Unset flags stay nil so they match everything.
func criteriaFromFlags(cmd *cobra.Command) (filter.Criteria, error) {
	var c filter.Criteria
	fl := cmd.Flags()

	if fl.Changed("state") {
		v, _ := fl.GetString("state")
		c.State = &v
	}
	if fl.Changed("married") {
		v, _ := fl.GetBool("married")
		c.Married = &v
	}
	if fl.Changed("dependents") {
		v, _ := fl.GetString("dependents")
		b, err := filter.ParseBucket(v)
		if err != nil {
			return c, err
		}
		c.Dependents = &b
	}
	if fl.Changed("min-age") {
		v, _ := fl.GetFloat64("min-age")
		c.MinAge = &v
	}
	if fl.Changed("max-age") {
		v, _ := fl.GetFloat64("max-age")
		c.MaxAge = &v
	}
	if fl.Changed("min-weight") {
		v, _ := fl.GetFloat64("min-weight")
		c.MinWeight = &v
	}
	if fl.Changed("min-net-income") {
		v, _ := fl.GetFloat64("min-net-income")
		c.MinNetIncome = &v
	}
	if fl.Changed("max-net-income") {
		v, _ := fl.GetFloat64("max-net-income")
		c.MaxNetIncome = &v
	}

	return c, nil
}

// parseTaxes converts a comma-separated --taxes value into waterfall
// options. An empty value selects nothing, which Compute rejects.
func parseTaxes(s string) (waterfall.Options, error) {
	var opts waterfall.Options
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "":
		case "federal":
			opts.ShowFederal = true
		case "state":
			opts.ShowState = true
		default:
			return opts, eris.Errorf("cmd: unknown tax type %q (want federal or state)", part)
		}
	}
	return opts, nil
}

func resolveMetric(m selector.Metric) selector.Metric {
	if m == "" {
		return selector.MetricIncomeTotal
	}
	return m
}
