package report

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reformlab/impact-cli/internal/model"
	"github.com/reformlab/impact-cli/internal/selector"
	"github.com/reformlab/impact-cli/internal/waterfall"
)

func viewCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	cat, err := model.NewCatalog("Sample bill", []model.Component{{Name: "Rate Reform"}, {Name: "Credit Reform"}})
	require.NoError(t, err)
	return cat
}

func TestNewHouseholdView(t *testing.T) {
	cat := viewCatalog(t)
	h := &model.Household{
		ID:        "77",
		State:     "OH",
		AgeOfHead: 40,
		IsMarried: true, AgeOfSpouse: 38,
		EmploymentIncome:     52000,
		SelfEmploymentIncome: 0,
		TipIncome:            800,
		OvertimeIncome:       math.NaN(),
		CapitalGains:         -100,
		Weight:               950,
		BaselineNetIncome:    48000,
		PropertyTaxes:        math.NaN(),
		Impacts: []model.ComponentImpact{
			{FederalTaxAfter: 5000, StateTaxAfter: 900, NetIncomeDelta: -120},
			{FederalTaxAfter: math.NaN(), StateTaxAfter: 900, NetIncomeDelta: 0},
		},
	}
	h.DependentSlots[0] = 7

	v := NewHouseholdView(h, cat)

	assert.Equal(t, "77", v.ID)
	require.NotNil(t, v.AgeOfSpouse)
	assert.Equal(t, 38.0, *v.AgeOfSpouse)
	assert.Equal(t, []float64{7}, v.DependentAges)
	assert.Nil(t, v.PropertyTaxes)

	// Only positive amounts survive; NaN and negatives drop out.
	require.Len(t, v.IncomeSources, 2)
	assert.Equal(t, "Employment Income", v.IncomeSources[0].Name)
	assert.Equal(t, "Tip Income", v.IncomeSources[1].Name)

	require.Len(t, v.Components, 2)
	assert.Equal(t, "Rate Reform", v.Components[0].Name)
	assert.Nil(t, v.Components[1].FederalTaxAfter)

	// NaN inputs must not poison serialization.
	_, err := json.Marshal(v)
	require.NoError(t, err)
}

func TestNewHouseholdViewUnmarriedHidesSpouse(t *testing.T) {
	cat := viewCatalog(t)
	h := &model.Household{
		ID: "1", State: "OH", IsMarried: false, AgeOfSpouse: 38,
		Impacts: make([]model.ComponentImpact, 2),
	}

	v := NewHouseholdView(h, cat)
	assert.Nil(t, v.AgeOfSpouse)
}

func TestNewWaterfallView(t *testing.T) {
	res := &waterfall.Result{
		Steps: []waterfall.Step{
			{Label: waterfall.BaselineLabel, Delta: 10000, Running: 10000, Kind: waterfall.StepAbsolute},
			{Label: "Rate Reform", Delta: 500, Running: 10500, Kind: waterfall.StepRelative},
			{Label: waterfall.FinalLabel, Delta: 10500, Running: 10500, Kind: waterfall.StepTotal},
		},
		Baseline: 10000,
		Final:    10500,
		Driver:   &waterfall.Driver{Name: "Rate Reform", NetIncomeDelta: -500},
	}

	v := NewWaterfallView(res)

	require.Len(t, v.Steps, 3)
	assert.Equal(t, waterfall.StepRelative, v.Steps[1].Kind)
	require.NotNil(t, v.Steps[1].Delta)
	assert.Equal(t, 500.0, *v.Steps[1].Delta)
	require.NotNil(t, v.Driver)
	assert.Equal(t, "$-500.00", v.Driver.Formatted)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"relative"`)
}

func TestNewWaterfallViewNoDriver(t *testing.T) {
	res := &waterfall.Result{Baseline: 100, Final: 100}

	v := NewWaterfallView(res)
	assert.Nil(t, v.Driver)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "driver")
}

func TestNewVerificationView(t *testing.T) {
	pass := NewVerificationView(waterfall.Verification{Calculated: 150, Actual: 150.5, Passed: true})
	assert.True(t, pass.Passed)
	assert.Empty(t, pass.Message)

	fail := NewVerificationView(waterfall.Verification{Calculated: 150, Actual: 140, Passed: false})
	assert.False(t, fail.Passed)
	assert.Equal(t, "Discrepancy detected: Calculated change $150.00 vs Actual change $140.00", fail.Message)
}

func TestNewRankedCaseViews(t *testing.T) {
	pool := []model.Household{
		{ID: "1", State: "CA", Weight: 100, TotalNetIncomeChange: 900},
		{ID: "2", State: "TX", Weight: 200, TotalNetIncomeChange: -300},
	}
	ranked := selector.Rank(pool, selector.MetricIncomeTotal, selector.Largest)

	views := NewRankedCaseViews(ranked, selector.MetricIncomeTotal)
	require.Len(t, views, 2)
	assert.Equal(t, "#1: 1", views[0].Label)
	assert.Equal(t, "$+900.00", views[0].Formatted)
	assert.Equal(t, "$-300.00", views[1].Formatted)

	pctViews := NewRankedCaseViews(selector.Rank(pool, selector.MetricIncomePct, selector.Largest), selector.MetricIncomePct)
	require.Len(t, pctViews, 2)
	assert.Equal(t, "+0.0%", pctViews[0].Formatted)
}
