package selector

import (
	"fmt"
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/reformlab/impact-cli/internal/model"
)

// Ranked mode surfaces at most this many extreme cases.
const maxRanked = 20

// Metric is the aggregate a ranked selection orders by.
type Metric string

const (
	MetricTaxPct      Metric = "federal-tax-pct"
	MetricTaxTotal    Metric = "federal-tax-total"
	MetricIncomePct   Metric = "net-income-pct"
	MetricIncomeTotal Metric = "net-income-total"
)

// ParseMetric converts a flag or query value into a Metric.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricTaxPct, MetricTaxTotal, MetricIncomePct, MetricIncomeTotal:
		return Metric(s), nil
	}
	return "", eris.Errorf("selector: invalid metric %q (want %s, %s, %s, or %s)",
		s, MetricTaxPct, MetricTaxTotal, MetricIncomePct, MetricIncomeTotal)
}

// Value reads the metric off a household.
func (m Metric) Value(h *model.Household) float64 {
	switch m {
	case MetricTaxPct:
		return h.PctFederalTaxChange
	case MetricTaxTotal:
		return h.TotalFederalTaxChange
	case MetricIncomePct:
		return h.PctNetIncomeChange
	case MetricIncomeTotal:
		return h.TotalNetIncomeChange
	}
	return math.NaN()
}

// Percent reports whether the metric is a percentage.
func (m Metric) Percent() bool {
	return m == MetricTaxPct || m == MetricIncomePct
}

// Direction orders a ranked selection by signed value.
type Direction string

const (
	Largest  Direction = "largest"
	Smallest Direction = "smallest"
)

// ParseDirection converts a flag or query value into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Largest, Smallest:
		return Direction(s), nil
	}
	return "", eris.Errorf("selector: invalid direction %q (want %s or %s)", s, Largest, Smallest)
}

// RankedCase is one entry of a ranked selection, most extreme first.
type RankedCase struct {
	Rank      int
	Household *model.Household
	Value     float64
}

// Label names a ranked case for dropdowns and tables.
func (rc RankedCase) Label() string {
	return fmt.Sprintf("#%d: %s", rc.Rank, rc.Household.ID)
}

// Rank orders the filtered pool by metric and keeps the top cases.
// Households whose metric is NaN are excluded before ranking; ties keep
// table order.
func Rank(filtered []model.Household, m Metric, dir Direction) []RankedCase {
	idx := make([]int, 0, len(filtered))
	for i := range filtered {
		if math.IsNaN(m.Value(&filtered[i])) {
			continue
		}
		idx = append(idx, i)
	}

	sort.SliceStable(idx, func(a, b int) bool {
		va := m.Value(&filtered[idx[a]])
		vb := m.Value(&filtered[idx[b]])
		if dir == Smallest {
			return va < vb
		}
		return va > vb
	})

	if len(idx) > maxRanked {
		idx = idx[:maxRanked]
	}

	ranked := make([]RankedCase, len(idx))
	for i, j := range idx {
		ranked[i] = RankedCase{
			Rank:      i + 1,
			Household: &filtered[j],
			Value:     m.Value(&filtered[j]),
		}
	}
	return ranked
}
