package main

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reformlab/impact-cli/internal/filter"
	"github.com/reformlab/impact-cli/internal/model"
	"github.com/reformlab/impact-cli/internal/selector"
	"github.com/reformlab/impact-cli/internal/waterfall"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"explain", "cases", "export", "validate", "serve"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "impact-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestExplainCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"household", "random-key", "redraw", "metric", "direction", "rank", "taxes", "format", "state", "married", "dependents"} {
		flag := explainCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "explain should have --%s flag", flagName)
	}

	taxes := explainCmd.Flags().Lookup("taxes")
	require.NotNil(t, taxes)
	assert.Equal(t, "federal", taxes.DefValue)

	format := explainCmd.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestCasesCommand_Flags(t *testing.T) {
	metric := casesCmd.Flags().Lookup("metric")
	require.NotNil(t, metric)
	assert.Equal(t, "net-income-total", metric.DefValue)

	direction := casesCmd.Flags().Lookup("direction")
	require.NotNil(t, direction)
	assert.Equal(t, "largest", direction.DefValue)
}

func TestExportCommand_Flags(t *testing.T) {
	format := exportCmd.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "json", format.DefValue)

	taxes := exportCmd.Flags().Lookup("taxes")
	require.NotNil(t, taxes)
	assert.Equal(t, "federal,state", taxes.DefValue)

	concurrency := exportCmd.Flags().Lookup("concurrency")
	require.NotNil(t, concurrency)
	assert.Equal(t, "0", concurrency.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestParseTaxes(t *testing.T) {
	tests := []struct {
		in   string
		want waterfall.Options
	}{
		{"federal", waterfall.Options{ShowFederal: true}},
		{"state", waterfall.Options{ShowState: true}},
		{"federal,state", waterfall.Options{ShowFederal: true, ShowState: true}},
		{" Federal , STATE ", waterfall.Options{ShowFederal: true, ShowState: true}},
		{"", waterfall.Options{}},
	}
	for _, tt := range tests {
		got, err := parseTaxes(tt.in)
		require.NoError(t, err, "parseTaxes(%q)", tt.in)
		assert.Equal(t, tt.want, got, "parseTaxes(%q)", tt.in)
	}
}

func TestParseTaxes_Unknown(t *testing.T) {
	_, err := parseTaxes("federal,local")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local")
}

func TestCriteriaFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addFilterFlags(cmd)
	require.NoError(t, cmd.Flags().Set("state", "CA"))
	require.NoError(t, cmd.Flags().Set("married", "true"))
	require.NoError(t, cmd.Flags().Set("dependents", "3+"))
	require.NoError(t, cmd.Flags().Set("min-age", "30"))

	c, err := criteriaFromFlags(cmd)
	require.NoError(t, err)

	require.NotNil(t, c.State)
	assert.Equal(t, "CA", *c.State)
	require.NotNil(t, c.Married)
	assert.True(t, *c.Married)
	require.NotNil(t, c.Dependents)
	assert.Equal(t, filter.BucketThree, *c.Dependents)
	require.NotNil(t, c.MinAge)
	assert.Equal(t, 30.0, *c.MinAge)

	assert.Nil(t, c.MaxAge)
	assert.Nil(t, c.MinWeight)
	assert.Nil(t, c.MinNetIncome)
	assert.Nil(t, c.MaxNetIncome)
}

func TestCriteriaFromFlags_UnsetStayNil(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addFilterFlags(cmd)

	c, err := criteriaFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, filter.Criteria{}, c)
}

func TestCriteriaFromFlags_BadBucket(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addFilterFlags(cmd)
	require.NoError(t, cmd.Flags().Set("dependents", "5"))

	_, err := criteriaFromFlags(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependents bucket")
}

func TestWriteCasesCSV(t *testing.T) {
	ranked := []selector.RankedCase{
		{Rank: 1, Household: &model.Household{ID: "7", State: "CA", Weight: 1200.4}, Value: -350.5},
		{Rank: 2, Household: &model.Household{ID: "9", State: "TX", Weight: 800}, Value: 120},
	}

	var buf bytes.Buffer
	err := writeCasesCSV(&buf, ranked, selector.MetricIncomeTotal)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rank,household_id,state,weight,net-income-total", lines[0])
	assert.Equal(t, "1,7,CA,1200.4,-350.50", lines[1])
	assert.Equal(t, "2,9,TX,800.0,120.00", lines[2])
}

func TestWriteCasesTable(t *testing.T) {
	ranked := []selector.RankedCase{
		{Rank: 1, Household: &model.Household{ID: "7", State: "CA", Weight: 1200.4}, Value: -350.5},
	}

	var buf bytes.Buffer
	err := writeCasesTable(&buf, ranked, selector.MetricIncomeTotal)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Rank")
	assert.Contains(t, out, "7")
	assert.Contains(t, out, "CA")
	assert.Contains(t, out, "$-350.50")
}

func TestWriteCasesTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := writeCasesTable(&buf, nil, selector.MetricIncomeTotal)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No cases.")
}

func TestWriteExportCSV(t *testing.T) {
	h := &model.Household{
		ID:                    "7",
		State:                 "CA",
		Weight:                100,
		AgeOfHead:             45,
		IsMarried:             true,
		NumDependents:         2,
		TotalNetIncomeChange:  -500,
		PctNetIncomeChange:    -1.5,
		TotalFederalTaxChange: 500,
	}
	r := &exportResult{
		household: h,
		waterfall: &waterfall.Result{
			Driver: &waterfall.Driver{Name: "Rate Reform", NetIncomeDelta: -300},
		},
		verification: waterfall.Verification{Passed: true},
	}

	var buf bytes.Buffer
	err := writeExportCSV(&buf, []*exportResult{r})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "7,CA,100,45,true,2,-500,-1.5,500,0,Rate Reform,true", lines[1])
}

func TestWriteExportCSV_NaNCellsBlank(t *testing.T) {
	h := &model.Household{
		ID:        "8",
		State:     "TX",
		Weight:    50,
		AgeOfHead: math.NaN(),
	}
	r := &exportResult{
		household:    h,
		waterfall:    &waterfall.Result{},
		verification: waterfall.Verification{Passed: false},
	}

	var buf bytes.Buffer
	err := writeExportCSV(&buf, []*exportResult{r})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "8,TX,50,,false,0,0,0,0,0,,false", lines[1])
}

func TestCsvNum(t *testing.T) {
	assert.Equal(t, "1500.5", csvNum(1500.5))
	assert.Equal(t, "-200", csvNum(-200))
	assert.Equal(t, "", csvNum(math.NaN()))
}
