package pipeline

import (
	"math"

	"github.com/reformlab/impact-cli/internal/selector"
	"github.com/reformlab/impact-cli/internal/waterfall"
)

// AuditResult summarizes a verification sweep over the whole table.
type AuditResult struct {
	Households int
	// Failures lists the household ids whose decomposition disagrees with
	// the stored total.
	Failures []string
	// NaNMetric counts households excluded from each ranking metric.
	NaNMetric map[selector.Metric]int
}

var auditMetrics = []selector.Metric{
	selector.MetricTaxPct,
	selector.MetricTaxTotal,
	selector.MetricIncomePct,
	selector.MetricIncomeTotal,
}

// Audit decomposes and verifies every household. The tax toggles do not
// affect the relative steps, so a single federal pass covers the check.
func (e *Engine) Audit() AuditResult {
	res := AuditResult{
		Households: e.store.Len(),
		NaNMetric:  make(map[selector.Metric]int, len(auditMetrics)),
	}

	cat := e.store.Catalog()
	households := e.store.Households()
	for i := range households {
		h := &households[i]

		for _, m := range auditMetrics {
			if math.IsNaN(m.Value(h)) {
				res.NaNMetric[m]++
			}
		}

		wf, err := waterfall.Compute(h, cat, waterfall.Options{ShowFederal: true})
		if err != nil {
			res.Failures = append(res.Failures, h.ID)
			continue
		}
		if v := waterfall.Verify(h, wf); !v.Passed {
			res.Failures = append(res.Failures, h.ID)
		}
	}

	return res
}
