package pipeline

import (
	"github.com/rotisserie/eris"

	"github.com/reformlab/impact-cli/internal/filter"
	"github.com/reformlab/impact-cli/internal/selector"
	"github.com/reformlab/impact-cli/internal/waterfall"
)

// ErrInvalidRequest marks request errors callers can fix: unknown modes,
// malformed metrics, out-of-range ranks.
var ErrInvalidRequest = eris.New("pipeline: invalid request")

// Mode selects how the household to explain is chosen.
type Mode string

const (
	// ModeByID looks a household up within the filtered pool.
	ModeByID Mode = "by-id"
	// ModeRandom draws from the filtered pool, sticky across passes.
	ModeRandom Mode = "random"
	// ModeRanked picks the rank-th most extreme case in the filtered pool.
	ModeRanked Mode = "ranked"
)

// ParseMode converts a flag or request value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeByID, ModeRandom, ModeRanked:
		return Mode(s), nil
	}
	return "", eris.Errorf("pipeline: invalid mode %q (want %s, %s, or %s)",
		s, ModeByID, ModeRandom, ModeRanked)
}

// Request describes one recompute pass. The zero value draws a random
// household from the full table with nothing to decompose, so callers set
// at least Taxes. The JSON form is the API request body.
type Request struct {
	Criteria filter.Criteria `json:"criteria"`
	Mode     Mode            `json:"mode,omitempty"`

	// by-id mode
	HouseholdID string `json:"household_id,omitempty"`

	// random mode
	RandomKey string `json:"random_key,omitempty"`
	Redraw    bool   `json:"redraw,omitempty"`

	// ranked mode
	Metric    selector.Metric    `json:"metric,omitempty"`
	Direction selector.Direction `json:"direction,omitempty"`
	Rank      int                `json:"rank,omitempty"`

	Taxes waterfall.Options `json:"taxes"`
}

// Validate rejects malformed requests before any work happens.
func (r Request) Validate() error {
	if err := r.Criteria.Validate(); err != nil {
		return eris.Wrap(ErrInvalidRequest, err.Error())
	}
	if r.Mode != "" {
		if _, err := ParseMode(string(r.Mode)); err != nil {
			return eris.Wrap(ErrInvalidRequest, err.Error())
		}
	}
	if r.Mode == ModeByID && r.HouseholdID == "" {
		return eris.Wrap(ErrInvalidRequest, "pipeline: by-id mode requires a household id")
	}
	if r.Metric != "" {
		if _, err := selector.ParseMetric(string(r.Metric)); err != nil {
			return eris.Wrap(ErrInvalidRequest, err.Error())
		}
	}
	if r.Direction != "" {
		if _, err := selector.ParseDirection(string(r.Direction)); err != nil {
			return eris.Wrap(ErrInvalidRequest, err.Error())
		}
	}
	if r.Rank < 0 {
		return eris.Wrapf(ErrInvalidRequest, "pipeline: rank %d must be positive", r.Rank)
	}
	return nil
}

// mode resolves the effective mode: an explicit mode wins, a household id
// implies by-id, anything else draws randomly.
func (r Request) mode() Mode {
	if r.Mode != "" {
		return r.Mode
	}
	if r.HouseholdID != "" {
		return ModeByID
	}
	return ModeRandom
}

func (r Request) metric() selector.Metric {
	if r.Metric == "" {
		return selector.MetricIncomeTotal
	}
	return r.Metric
}

func (r Request) direction() selector.Direction {
	if r.Direction == "" {
		return selector.Largest
	}
	return r.Direction
}

func (r Request) rank() int {
	if r.Rank == 0 {
		return 1
	}
	return r.Rank
}
