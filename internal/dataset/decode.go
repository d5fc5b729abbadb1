package dataset

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/reformlab/impact-cli/internal/model"
)

// Column names of the input table. The contract is case- and spelling-exact;
// the loader rejects tables that rename or drop any of them.
const (
	colHouseholdID   = "Household ID"
	colState         = "State"
	colAgeOfHead     = "Age of Head"
	colIsMarried     = "Is Married"
	colAgeOfSpouse   = "Age of Spouse"
	colNumDependents = "Number of Dependents"

	colEmploymentIncome     = "Employment Income"
	colSelfEmploymentIncome = "Self-Employment Income"
	colTipIncome            = "Tip Income"
	colOvertimeIncome       = "Overtime Income"
	colCapitalGains         = "Capital Gains"

	colWeight             = "Household Weight"
	colBaselineFederalTax = "Baseline Federal Tax Liability"
	colBaselineNetIncome  = "Baseline Net Income"
	colPropertyTaxes      = "Property Taxes"
	colStateIncomeTax     = "State Income Tax"

	colTotalFederalTaxChange = "Total Change in Federal Tax Liability"
	colPctFederalTaxChange   = "Percentage Change in Federal Tax Liability"
	colTotalNetIncomeChange  = "Total Change in Net Income"
	colPctNetIncomeChange    = "Percentage Change in Net Income"
	colTotalStateTaxChange   = "Total Change in State Tax Liability"
	colPctStateTaxChange     = "Percentage Change in State Tax Liability"
)

var dependentAgeCols = [model.MaxDependentSlots]string{
	"Age of Dependent 1",
	"Age of Dependent 2",
	"Age of Dependent 3",
	"Age of Dependent 4",
	"Age of Dependent 5",
	"Age of Dependent 6",
	"Age of Dependent 7",
	"Age of Dependent 8",
	"Age of Dependent 9",
	"Age of Dependent 10",
	"Age of Dependent 11",
}

// requiredColumns lists every column the decode needs, including the three
// per-component columns for each catalog entry.
func requiredColumns(cat *model.Catalog) []string {
	cols := []string{
		colHouseholdID, colState, colAgeOfHead, colIsMarried, colAgeOfSpouse, colNumDependents,
	}
	cols = append(cols, dependentAgeCols[:]...)
	cols = append(cols,
		colEmploymentIncome, colSelfEmploymentIncome, colTipIncome, colOvertimeIncome, colCapitalGains,
		colWeight, colBaselineFederalTax, colBaselineNetIncome, colPropertyTaxes, colStateIncomeTax,
		colTotalFederalTaxChange, colPctFederalTaxChange,
		colTotalNetIncomeChange, colPctNetIncomeChange,
		colTotalStateTaxChange, colPctStateTaxChange,
	)
	for _, comp := range cat.Components {
		cols = append(cols, comp.FederalCol, comp.StateCol, comp.NetIncomeCol)
	}
	return cols
}

// decodeTable maps the header, checks the column contract, and decodes every
// data row into a Store. Rows with no household ID or a negative weight are
// dropped and counted; a duplicate household ID fails the whole load.
func decodeTable(source string, header []string, rows [][]string, cat *model.Catalog) (*Store, error) {
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range requiredColumns(cat) {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("dataset: %s is missing required columns: %s",
			source, strings.Join(missing, ", "))
	}

	var stats Stats
	households := make([]model.Household, 0, len(rows))
	for _, row := range rows {
		stats.Rows++

		id := normalizeID(getCol(row, colIdx, colHouseholdID))
		if id == "" {
			stats.MissingID++
			continue
		}

		h := decodeRow(row, colIdx, cat)
		h.ID = id
		if h.Weight < 0 {
			stats.NegativeWeight++
			continue
		}

		households = append(households, h)
		stats.Loaded++
	}

	if stats.MissingID > 0 || stats.NegativeWeight > 0 {
		zap.L().Warn("dataset: dropped rows during load",
			zap.String("source", source),
			zap.Int("missing_id", stats.MissingID),
			zap.Int("negative_weight", stats.NegativeWeight),
		)
	}
	if len(households) == 0 {
		return nil, eris.Errorf("dataset: %s has no loadable households", source)
	}

	return NewStore(source, cat, households, stats)
}

// decodeRow parses one data row. Blank or malformed numeric cells become NaN.
func decodeRow(row []string, colIdx map[string]int, cat *model.Catalog) model.Household {
	nan := math.NaN()
	cell := func(col string) float64 {
		return parseFloat64Or(getCol(row, colIdx, col), nan)
	}

	h := model.Household{
		State:         getCol(row, colIdx, colState),
		AgeOfHead:     cell(colAgeOfHead),
		IsMarried:     parseBool(getCol(row, colIdx, colIsMarried)),
		AgeOfSpouse:   cell(colAgeOfSpouse),
		NumDependents: cell(colNumDependents),

		EmploymentIncome:     cell(colEmploymentIncome),
		SelfEmploymentIncome: cell(colSelfEmploymentIncome),
		TipIncome:            cell(colTipIncome),
		OvertimeIncome:       cell(colOvertimeIncome),
		CapitalGains:         cell(colCapitalGains),

		Weight:             cell(colWeight),
		BaselineFederalTax: cell(colBaselineFederalTax),
		BaselineNetIncome:  cell(colBaselineNetIncome),
		StateIncomeTax:     cell(colStateIncomeTax),
		PropertyTaxes:      cell(colPropertyTaxes),

		TotalFederalTaxChange: cell(colTotalFederalTaxChange),
		PctFederalTaxChange:   cell(colPctFederalTaxChange),
		TotalNetIncomeChange:  cell(colTotalNetIncomeChange),
		PctNetIncomeChange:    cell(colPctNetIncomeChange),
		TotalStateTaxChange:   cell(colTotalStateTaxChange),
		PctStateTaxChange:     cell(colPctStateTaxChange),
	}

	for i, col := range dependentAgeCols {
		h.DependentSlots[i] = cell(col)
	}

	h.Impacts = make([]model.ComponentImpact, cat.Len())
	for i := range cat.Components {
		comp := &cat.Components[i]
		h.Impacts[i] = model.ComponentImpact{
			FederalTaxAfter: cell(comp.FederalCol),
			StateTaxAfter:   cell(comp.StateCol),
			NetIncomeDelta:  cell(comp.NetIncomeCol),
		}
	}

	return h
}
