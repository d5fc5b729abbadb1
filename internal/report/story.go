package report

import (
	"fmt"
	"math"

	"github.com/reformlab/impact-cli/internal/model"
	"github.com/reformlab/impact-cli/internal/waterfall"
)

// Story renders the one-paragraph narrative for a household's result.
func Story(h *model.Household, reform string, driver *waterfall.Driver) string {
	change := h.TotalNetIncomeChange

	driverText := "No single reform has a major impact."
	if driver != nil {
		driverText = fmt.Sprintf("The biggest driver is %s (%s).",
			driver.Name, SignedMoney(driver.NetIncomeDelta))
	}

	return fmt.Sprintf(
		"This %s household (ID: %s) %s %s the %s, with a net income change of %s (%s). %s The household represents approximately %s similar American families.",
		h.State, h.ID,
		impactLevel(change), impactDirection(change), reform,
		Money(change), Percent(h.PctNetIncomeChange),
		driverText,
		Weight(h.Weight),
	)
}

// Discrepancy renders the warning shown when verification fails.
func Discrepancy(v waterfall.Verification) string {
	return fmt.Sprintf("Discrepancy detected: Calculated change %s vs Actual change %s",
		Money(v.Calculated), Money(v.Actual))
}

func impactLevel(change float64) string {
	switch abs := math.Abs(change); {
	case abs > 1000:
		return "significantly"
	case abs > 100:
		return "moderately"
	default:
		return "minimally"
	}
}

func impactDirection(change float64) string {
	if change > 0 {
		return "benefits from"
	}
	return "is burdened by"
}
