// Package selector picks the household a recompute pass explains: a direct
// ID lookup, a sticky random draw, or a ranked extreme case.
package selector

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/rotisserie/eris"

	"github.com/reformlab/impact-cli/internal/model"
)

// ErrNotFound reports that the requested household is not in the table.
var ErrNotFound = eris.New("selector: household not found")

// ByID looks a household up in the filtered pool. An id that exists in the
// table but was filtered out is still not found.
func ByID(pool []model.Household, id string) (*model.Household, error) {
	for i := range pool {
		if pool[i].ID == id {
			return &pool[i], nil
		}
	}
	return nil, eris.Wrapf(ErrNotFound, "selector: household %q", id)
}

// Picker draws random households. The generator is seeded once so repeated
// draws within a session walk one sequence.
type Picker struct {
	rng *rand.Rand
}

// NewPicker seeds a Picker from crypto/rand, falling back to the clock.
func NewPicker() *Picker {
	return NewPickerSeeded(newSeed())
}

// NewPickerSeeded builds a Picker with a fixed seed for reproducible draws.
func NewPickerSeeded(seed int64) *Picker {
	return &Picker{rng: rand.New(rand.NewSource(seed))}
}

func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Random draws a household from the filtered pool. A previous draw is sticky:
// if prevID is still in the pool and redraw is false, the same household
// comes back. The pool order is the table order, so a given seed replays the
// same sequence of draws.
func (p *Picker) Random(filtered []model.Household, prevID string, redraw bool) (*model.Household, error) {
	if len(filtered) == 0 {
		return nil, eris.Wrap(ErrNotFound, "selector: empty selection pool")
	}

	if prevID != "" && !redraw {
		for i := range filtered {
			if filtered[i].ID == prevID {
				return &filtered[i], nil
			}
		}
	}

	return &filtered[p.rng.Intn(len(filtered))], nil
}
