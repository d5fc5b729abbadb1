// Package filter narrows the household table to the subset matching a set
// of demographic and economic criteria. Unset criteria match everything;
// set criteria combine with AND.
package filter

import (
	"github.com/rotisserie/eris"

	"github.com/reformlab/impact-cli/internal/model"
)

// ErrNoMatches reports that no household satisfied the criteria.
var ErrNoMatches = eris.New("filter: no matching households")

// Bucket groups households by dependent count. The top bucket is open-ended.
type Bucket string

const (
	BucketNone  Bucket = "0"
	BucketOne   Bucket = "1"
	BucketTwo   Bucket = "2"
	BucketThree Bucket = "3+"
)

// ParseBucket converts a flag or query value into a Bucket.
func ParseBucket(s string) (Bucket, error) {
	switch Bucket(s) {
	case BucketNone, BucketOne, BucketTwo, BucketThree:
		return Bucket(s), nil
	}
	return "", eris.Errorf("filter: invalid dependents bucket %q (want 0, 1, 2, or 3+)", s)
}

// matches reports whether a dependent count falls in the bucket. NaN counts
// match nothing.
func (b Bucket) matches(n float64) bool {
	switch b {
	case BucketNone:
		return n == 0
	case BucketOne:
		return n == 1
	case BucketTwo:
		return n == 2
	case BucketThree:
		return n >= 3
	}
	return false
}

// Criteria is one filter pass over the household table. Nil fields are
// inactive. The JSON form doubles as the API request shape.
type Criteria struct {
	State        *string  `json:"state,omitempty"`
	Married      *bool    `json:"married,omitempty"`
	Dependents   *Bucket  `json:"dependents,omitempty"`
	MinAge       *float64 `json:"min_age,omitempty"`
	MaxAge       *float64 `json:"max_age,omitempty"`
	MinWeight    *float64 `json:"min_weight,omitempty"`
	MinNetIncome *float64 `json:"min_net_income,omitempty"`
	MaxNetIncome *float64 `json:"max_net_income,omitempty"`
}

// Validate rejects criteria that could never match or carry malformed values.
func (c Criteria) Validate() error {
	if c.Dependents != nil {
		if _, err := ParseBucket(string(*c.Dependents)); err != nil {
			return err
		}
	}
	if c.MinAge != nil && c.MaxAge != nil && *c.MinAge > *c.MaxAge {
		return eris.Errorf("filter: min age %.0f exceeds max age %.0f", *c.MinAge, *c.MaxAge)
	}
	if c.MinNetIncome != nil && c.MaxNetIncome != nil && *c.MinNetIncome > *c.MaxNetIncome {
		return eris.Errorf("filter: min net income %.2f exceeds max net income %.2f",
			*c.MinNetIncome, *c.MaxNetIncome)
	}
	return nil
}

// matches applies every active criterion. Range checks are written so a NaN
// field never satisfies a bounded criterion.
func (c Criteria) matches(h *model.Household) bool {
	if c.State != nil && h.State != *c.State {
		return false
	}
	if c.Married != nil && h.IsMarried != *c.Married {
		return false
	}
	if c.Dependents != nil && !c.Dependents.matches(h.NumDependents) {
		return false
	}
	if c.MinAge != nil && !(h.AgeOfHead >= *c.MinAge) {
		return false
	}
	if c.MaxAge != nil && !(h.AgeOfHead <= *c.MaxAge) {
		return false
	}
	if c.MinWeight != nil && !(h.Weight >= *c.MinWeight) {
		return false
	}
	if c.MinNetIncome != nil && !(h.BaselineNetIncome >= *c.MinNetIncome) {
		return false
	}
	if c.MaxNetIncome != nil && !(h.BaselineNetIncome <= *c.MaxNetIncome) {
		return false
	}
	return true
}

// Apply returns the households matching the criteria, preserving table
// order. An empty result is ErrNoMatches.
func Apply(households []model.Household, c Criteria) ([]model.Household, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	out := make([]model.Household, 0, len(households))
	for i := range households {
		if c.matches(&households[i]) {
			out = append(out, households[i])
		}
	}
	if len(out) == 0 {
		return nil, ErrNoMatches
	}
	return out, nil
}
