// Package pipeline runs full recompute passes over the loaded household
// table: filter the pool, select a household, decompose its liability
// change, verify the decomposition, and narrate the result.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/rotisserie/eris"

	"github.com/reformlab/impact-cli/internal/dataset"
	"github.com/reformlab/impact-cli/internal/filter"
	"github.com/reformlab/impact-cli/internal/model"
	"github.com/reformlab/impact-cli/internal/report"
	"github.com/reformlab/impact-cli/internal/selector"
	"github.com/reformlab/impact-cli/internal/waterfall"
)

// Result is one explained household.
type Result struct {
	Household *model.Household

	// RandomKey echoes the drawn household's id in random mode so the next
	// pass can stay sticky.
	RandomKey string

	// Ranked is the full ranked list in ranked mode.
	Ranked []selector.RankedCase

	Waterfall    *waterfall.Result
	Verification waterfall.Verification
	Story        string
}

// Engine binds a loaded table to a random picker.
type Engine struct {
	store  *dataset.Store
	picker *selector.Picker
}

// New builds an Engine with a crypto-seeded picker.
func New(store *dataset.Store) *Engine {
	return &Engine{store: store, picker: selector.NewPicker()}
}

// NewSeeded builds an Engine whose random draws replay deterministically.
func NewSeeded(store *dataset.Store, seed int64) *Engine {
	return &Engine{store: store, picker: selector.NewPickerSeeded(seed)}
}

// Store returns the table the engine runs over.
func (e *Engine) Store() *dataset.Store { return e.store }

// Explain runs one full pass for the request. A failed verification does
// not fail the pass; it is logged and reported in the result.
func (e *Engine) Explain(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}
	var h *model.Household

	switch req.mode() {
	case ModeByID:
		filtered, err := filter.Apply(e.store.Households(), req.Criteria)
		if err != nil {
			return nil, err
		}
		h, err = selector.ByID(filtered, req.HouseholdID)
		if err != nil {
			return nil, err
		}

	case ModeRanked:
		filtered, err := filter.Apply(e.store.Households(), req.Criteria)
		if err != nil {
			return nil, err
		}
		ranked := selector.Rank(filtered, req.metric(), req.direction())
		if len(ranked) == 0 {
			return nil, eris.Wrap(filter.ErrNoMatches, "pipeline: no rankable households")
		}
		rank := req.rank()
		if rank > len(ranked) {
			return nil, eris.Wrapf(ErrInvalidRequest, "pipeline: rank %d out of range (1-%d)",
				rank, len(ranked))
		}
		res.Ranked = ranked
		h = ranked[rank-1].Household

	default:
		filtered, err := filter.Apply(e.store.Households(), req.Criteria)
		if err != nil {
			return nil, err
		}
		h, err = e.picker.Random(filtered, req.RandomKey, req.Redraw)
		if err != nil {
			return nil, err
		}
		res.RandomKey = h.ID
	}

	wf, err := waterfall.Compute(h, e.store.Catalog(), req.Taxes)
	if err != nil {
		return nil, err
	}

	ver := waterfall.Verify(h, wf)
	if !ver.Passed {
		zap.L().Warn("pipeline: verification failed",
			zap.String("household", h.ID),
			zap.Float64("calculated", ver.Calculated),
			zap.Float64("actual", ver.Actual),
		)
	}

	res.Household = h
	res.Waterfall = wf
	res.Verification = ver
	res.Story = report.Story(h, e.store.Catalog().Reform, wf.Driver)
	return res, nil
}

// Cases filters the table and ranks the extreme cases for a metric.
func (e *Engine) Cases(c filter.Criteria, m selector.Metric, dir selector.Direction) ([]selector.RankedCase, error) {
	if err := c.Validate(); err != nil {
		return nil, eris.Wrap(ErrInvalidRequest, err.Error())
	}
	filtered, err := filter.Apply(e.store.Households(), c)
	if err != nil {
		return nil, err
	}
	return selector.Rank(filtered, m, dir), nil
}
