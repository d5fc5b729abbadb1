package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reformlab/impact-cli/internal/model"
)

// testCatalog returns a small two-component catalog so test tables stay
// readable; the decode path does not care how many components a bill has.
func testCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	cat, err := model.NewCatalog("Sample bill", []model.Component{
		{Name: "Rate Reform"},
		{Name: "Credit Reform", Key: "CR"},
	})
	require.NoError(t, err)
	return cat
}

// testHeader returns a header satisfying the full column contract for cat.
func testHeader(cat *model.Catalog) []string {
	return requiredColumns(cat)
}

// testRow builds a row aligned with header. Columns absent from fields are
// left blank and parse to NaN.
func testRow(header []string, fields map[string]string) []string {
	row := make([]string, len(header))
	for i, col := range header {
		row[i] = fields[col]
	}
	return row
}

// baseFields is a complete, internally consistent household row for the
// test catalog: the two component deltas sum to the stored total.
func baseFields(id string) map[string]string {
	return map[string]string{
		"Household ID":           id,
		"State":                  "CA",
		"Age of Head":            "45.0",
		"Is Married":             "True",
		"Age of Spouse":          "43.0",
		"Number of Dependents":   "2.0",
		"Age of Dependent 1":     "9.0",
		"Age of Dependent 2":     "12.0",
		"Employment Income":      "85000",
		"Self-Employment Income": "0",
		"Tip Income":             "1200",
		"Overtime Income":        "0",
		"Capital Gains":          "500",

		"Household Weight":               "1500.5",
		"Baseline Federal Tax Liability": "10000",
		"Baseline Net Income":            "72400",
		"Property Taxes":                 "3200",
		"State Income Tax":               "2100",

		"Total Change in Federal Tax Liability":      "500",
		"Percentage Change in Federal Tax Liability": "5.0",
		"Total Change in Net Income":                 "-500",
		"Percentage Change in Net Income":            "-0.7",
		"Total Change in State Tax Liability":        "0",
		"Percentage Change in State Tax Liability":   "0",

		"Federal tax liability after Rate Reform": "10200",
		"State tax liability after Rate Reform":   "2100",
		"Net income change after Rate Reform":     "-200",
		"Federal tax liability after CR":          "9700",
		"State tax liability after CR":            "2100",
		"Net income change after CR":              "-300",
	}
}
