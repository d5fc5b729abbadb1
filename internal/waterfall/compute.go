package waterfall

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/reformlab/impact-cli/internal/model"
)

// A reform is active for a household when its absolute net income impact
// exceeds this many dollars. Microsimulation output carries sub-cent noise
// on reforms that do not actually touch a household.
const activeThreshold = 0.01

// ErrNoTaxType reports that neither federal nor state liability was
// selected, leaving nothing to decompose.
var ErrNoTaxType = eris.New("waterfall: no tax type selected")

// Compute builds the liability decomposition for one household. The baseline
// anchor sums the selected liabilities, each active reform contributes the
// tax-side mirror of its net income impact, and the final anchor comes from
// the dataset's stored totals rather than the running sum.
func Compute(h *model.Household, cat *model.Catalog, opts Options) (*Result, error) {
	if !opts.ShowFederal && !opts.ShowState {
		return nil, ErrNoTaxType
	}
	if len(h.Impacts) != cat.Len() {
		return nil, eris.Errorf("waterfall: household %q has %d component impacts, catalog %q has %d",
			h.ID, len(h.Impacts), cat.Reform, cat.Len())
	}

	var baseline float64
	if opts.ShowFederal {
		baseline += h.BaselineFederalTax
	}
	if opts.ShowState {
		baseline += h.StateIncomeTax
	}

	steps := make([]Step, 0, cat.Len()+2)
	steps = append(steps, Step{Label: BaselineLabel, Delta: baseline, Running: baseline, Kind: StepAbsolute})

	running := baseline
	var driver *Driver
	for i := range cat.Components {
		delta := h.Impacts[i].NetIncomeDelta
		if !(math.Abs(delta) > activeThreshold) {
			continue
		}

		taxDelta := -delta
		running += taxDelta
		steps = append(steps, Step{
			Label:   cat.Components[i].Name,
			Delta:   taxDelta,
			Running: running,
			Kind:    StepRelative,
		})

		if driver == nil || math.Abs(delta) > math.Abs(driver.NetIncomeDelta) {
			driver = &Driver{Name: cat.Components[i].Name, NetIncomeDelta: delta}
		}
	}

	final := baseline
	if opts.ShowFederal {
		final += h.TotalFederalTaxChange
	}
	if opts.ShowState {
		final += h.TotalStateTaxChange
	}
	steps = append(steps, Step{Label: FinalLabel, Delta: final, Running: final, Kind: StepTotal})

	return &Result{Steps: steps, Baseline: baseline, Final: final, Driver: driver}, nil
}
