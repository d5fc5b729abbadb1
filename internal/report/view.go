package report

import (
	"math"

	"github.com/reformlab/impact-cli/internal/model"
	"github.com/reformlab/impact-cli/internal/selector"
	"github.com/reformlab/impact-cli/internal/waterfall"
)

// opt drops NaN to nil so encoding/json writes null instead of erroring.
func opt(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// HouseholdView is the serializable profile of a household.
type HouseholdView struct {
	ID            string               `json:"id"`
	State         string               `json:"state"`
	AgeOfHead     *float64             `json:"age_of_head"`
	IsMarried     bool                 `json:"is_married"`
	AgeOfSpouse   *float64             `json:"age_of_spouse,omitempty"`
	DependentAges []float64            `json:"dependent_ages,omitempty"`
	IncomeSources []model.IncomeSource `json:"income_sources,omitempty"`

	Weight             *float64 `json:"weight"`
	BaselineFederalTax *float64 `json:"baseline_federal_tax"`
	BaselineNetIncome  *float64 `json:"baseline_net_income"`
	StateIncomeTax     *float64 `json:"state_income_tax"`
	PropertyTaxes      *float64 `json:"property_taxes"`

	TotalFederalTaxChange *float64 `json:"total_federal_tax_change"`
	PctFederalTaxChange   *float64 `json:"pct_federal_tax_change"`
	TotalNetIncomeChange  *float64 `json:"total_net_income_change"`
	PctNetIncomeChange    *float64 `json:"pct_net_income_change"`
	TotalStateTaxChange   *float64 `json:"total_state_tax_change"`
	PctStateTaxChange     *float64 `json:"pct_state_tax_change"`

	Components []ComponentView `json:"components"`
}

// ComponentView is one reform's simulated effect on a household.
type ComponentView struct {
	Name            string   `json:"name"`
	FederalTaxAfter *float64 `json:"federal_tax_after"`
	StateTaxAfter   *float64 `json:"state_tax_after"`
	NetIncomeDelta  *float64 `json:"net_income_delta"`
}

// NewHouseholdView builds the profile view. Income sources with no amount
// are dropped; the spouse age only appears for married households.
func NewHouseholdView(h *model.Household, cat *model.Catalog) HouseholdView {
	v := HouseholdView{
		ID:            h.ID,
		State:         h.State,
		AgeOfHead:     opt(h.AgeOfHead),
		IsMarried:     h.IsMarried,
		DependentAges: h.DependentAges(),

		Weight:             opt(h.Weight),
		BaselineFederalTax: opt(h.BaselineFederalTax),
		BaselineNetIncome:  opt(h.BaselineNetIncome),
		StateIncomeTax:     opt(h.StateIncomeTax),
		PropertyTaxes:      opt(h.PropertyTaxes),

		TotalFederalTaxChange: opt(h.TotalFederalTaxChange),
		PctFederalTaxChange:   opt(h.PctFederalTaxChange),
		TotalNetIncomeChange:  opt(h.TotalNetIncomeChange),
		PctNetIncomeChange:    opt(h.PctNetIncomeChange),
		TotalStateTaxChange:   opt(h.TotalStateTaxChange),
		PctStateTaxChange:     opt(h.PctStateTaxChange),
	}

	if h.IsMarried {
		v.AgeOfSpouse = opt(h.AgeOfSpouse)
	}

	for _, s := range h.IncomeSources() {
		if s.Amount > 0 {
			v.IncomeSources = append(v.IncomeSources, s)
		}
	}

	v.Components = make([]ComponentView, cat.Len())
	for i := range cat.Components {
		v.Components[i] = ComponentView{
			Name:            cat.Components[i].Name,
			FederalTaxAfter: opt(h.Impacts[i].FederalTaxAfter),
			StateTaxAfter:   opt(h.Impacts[i].StateTaxAfter),
			NetIncomeDelta:  opt(h.Impacts[i].NetIncomeDelta),
		}
	}

	return v
}

// StepView is one serializable bar of a decomposition.
type StepView struct {
	Label   string             `json:"label"`
	Delta   *float64           `json:"delta"`
	Running *float64           `json:"running"`
	Kind    waterfall.StepKind `json:"kind"`
}

// DriverView is the serializable biggest-driver callout.
type DriverView struct {
	Name           string   `json:"name"`
	NetIncomeDelta *float64 `json:"net_income_delta"`
	Formatted      string   `json:"formatted"`
}

// WaterfallView is the serializable decomposition.
type WaterfallView struct {
	Steps    []StepView  `json:"steps"`
	Baseline *float64    `json:"baseline"`
	Final    *float64    `json:"final"`
	Driver   *DriverView `json:"driver,omitempty"`
}

// NewWaterfallView builds the serializable decomposition.
func NewWaterfallView(res *waterfall.Result) WaterfallView {
	v := WaterfallView{
		Steps:    make([]StepView, len(res.Steps)),
		Baseline: opt(res.Baseline),
		Final:    opt(res.Final),
	}
	for i, s := range res.Steps {
		v.Steps[i] = StepView{
			Label:   s.Label,
			Delta:   opt(s.Delta),
			Running: opt(s.Running),
			Kind:    s.Kind,
		}
	}
	if res.Driver != nil {
		v.Driver = &DriverView{
			Name:           res.Driver.Name,
			NetIncomeDelta: opt(res.Driver.NetIncomeDelta),
			Formatted:      SignedMoney(res.Driver.NetIncomeDelta),
		}
	}
	return v
}

// VerificationView is the serializable consistency check. Message carries
// the discrepancy warning when the check fails.
type VerificationView struct {
	Calculated *float64 `json:"calculated"`
	Actual     *float64 `json:"actual"`
	Passed     bool     `json:"passed"`
	Message    string   `json:"message,omitempty"`
}

// NewVerificationView builds the serializable consistency check.
func NewVerificationView(v waterfall.Verification) VerificationView {
	view := VerificationView{
		Calculated: opt(v.Calculated),
		Actual:     opt(v.Actual),
		Passed:     v.Passed,
	}
	if !v.Passed {
		view.Message = Discrepancy(v)
	}
	return view
}

// RankedCaseView is one serializable entry of a ranked selection.
type RankedCaseView struct {
	Rank      int      `json:"rank"`
	Label     string   `json:"label"`
	ID        string   `json:"id"`
	State     string   `json:"state"`
	Weight    *float64 `json:"weight"`
	Value     *float64 `json:"value"`
	Formatted string   `json:"formatted"`
}

// NewRankedCaseViews builds the serializable ranked list. The formatted
// value follows the metric: percentages for pct metrics, signed dollars
// otherwise.
func NewRankedCaseViews(ranked []selector.RankedCase, m selector.Metric) []RankedCaseView {
	views := make([]RankedCaseView, len(ranked))
	for i, rc := range ranked {
		formatted := SignedMoney(rc.Value)
		if m.Percent() {
			formatted = Percent(rc.Value)
		}
		views[i] = RankedCaseView{
			Rank:      rc.Rank,
			Label:     rc.Label(),
			ID:        rc.Household.ID,
			State:     rc.Household.State,
			Weight:    opt(rc.Household.Weight),
			Value:     opt(rc.Value),
			Formatted: formatted,
		}
	}
	return views
}
