package waterfall

import (
	"math"

	"github.com/reformlab/impact-cli/internal/model"
)

// Verification tolerance in dollars. Per-reform impacts are simulated
// independently, so their sum drifts from the jointly-simulated total by a
// few dollars on interacting reforms.
const verifyTolerance = 3.0

// Verification compares the summed per-reform steps against the dataset's
// stored total change.
type Verification struct {
	Calculated float64
	Actual     float64
	Passed     bool
}

// Verify sums the relative steps of a decomposition and checks them against
// the household's stored total. A NaN on either side fails the check.
func Verify(h *model.Household, res *Result) Verification {
	var calculated float64
	for _, s := range res.Steps {
		if s.Kind == StepRelative {
			calculated += s.Delta
		}
	}

	actual := -h.TotalNetIncomeChange
	return Verification{
		Calculated: calculated,
		Actual:     actual,
		Passed:     math.Abs(calculated-actual) < verifyTolerance,
	}
}
