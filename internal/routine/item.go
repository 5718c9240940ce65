package routine

import (
	"encoding/json"
	"fmt"

	"github.com/claude/limber/internal/catalog"
)

// Item is one step of an assembled routine: a stretch, a transition gap,
// or a rest pause. The implementation set is closed; consumers
// discriminate with a type switch rather than probing fields.
type Item interface {
	// Duration is the time in seconds the step occupies in the routine.
	Duration() int

	routineItem()
}

// StretchItem is a catalog stretch placed in a routine.
type StretchItem struct {
	Stretch catalog.Stretch
}

// Duration is the stretch's effective hold time (both sides for bilateral).
func (s StretchItem) Duration() int { return s.Stretch.EffectiveSeconds() }

func (StretchItem) routineItem() {}

// MarshalJSON emits the underlying catalog record unchanged, so hosts see
// the same stretch shape the catalog endpoint serves.
func (s StretchItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Stretch)
}

// Fixed labels for synthesized filler items. These never carry exercise
// content; the wire discriminants identify them.
const (
	transitionName        = "Transition"
	transitionDescription = "Get ready for the next stretch"
	restName              = "Rest"
	restDescription       = "Breathe out and relax"
)

// Transition is a synthesized pacing gap inserted before a stretch.
type Transition struct {
	ID      string
	Seconds int
}

func (t Transition) Duration() int { return t.Seconds }

func (Transition) routineItem() {}

type transitionWire struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Seconds      int    `json:"seconds"`
	IsTransition bool   `json:"isTransition"`
}

func (t Transition) MarshalJSON() ([]byte, error) {
	return json.Marshal(transitionWire{
		ID:           t.ID,
		Name:         transitionName,
		Description:  transitionDescription,
		Seconds:      t.Seconds,
		IsTransition: true,
	})
}

func (t *Transition) UnmarshalJSON(data []byte) error {
	var w transitionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.ID = w.ID
	t.Seconds = w.Seconds
	return nil
}

// Rest is a synthesized pause item, distinct from a pacing transition.
type Rest struct {
	ID      string
	Seconds int
}

func (r Rest) Duration() int { return r.Seconds }

func (Rest) routineItem() {}

type restWire struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Seconds     int    `json:"seconds"`
	IsRest      bool   `json:"isRest"`
}

func (r Rest) MarshalJSON() ([]byte, error) {
	return json.Marshal(restWire{
		ID:          r.ID,
		Name:        restName,
		Description: restDescription,
		Seconds:     r.Seconds,
		IsRest:      true,
	})
}

func (r *Rest) UnmarshalJSON(data []byte) error {
	var w restWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.ID = w.ID
	r.Seconds = w.Seconds
	return nil
}

// Sequence is an ordered routine. Elements marshal with their wire
// discriminants (isTransition / isRest); unmarshalling reconstructs the
// concrete item types, so a decoded sequence type-switches identically
// to a freshly generated one.
type Sequence []Item

// TotalSeconds is the summed duration of every step, fillers included.
func (q Sequence) TotalSeconds() int {
	total := 0
	for _, it := range q {
		total += it.Duration()
	}
	return total
}

// StretchCount is the number of real exercise steps in the sequence.
func (q Sequence) StretchCount() int {
	n := 0
	for _, it := range q {
		if _, ok := it.(StretchItem); ok {
			n++
		}
	}
	return n
}

func (q *Sequence) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make(Sequence, 0, len(raws))
	for i, raw := range raws {
		var probe struct {
			IsTransition bool `json:"isTransition"`
			IsRest       bool `json:"isRest"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return fmt.Errorf("sequence item %d: %w", i, err)
		}

		switch {
		case probe.IsTransition:
			var t Transition
			if err := json.Unmarshal(raw, &t); err != nil {
				return fmt.Errorf("sequence item %d: %w", i, err)
			}
			out = append(out, t)
		case probe.IsRest:
			var r Rest
			if err := json.Unmarshal(raw, &r); err != nil {
				return fmt.Errorf("sequence item %d: %w", i, err)
			}
			out = append(out, r)
		default:
			var s catalog.Stretch
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("sequence item %d: %w", i, err)
			}
			out = append(out, StretchItem{Stretch: s})
		}
	}

	*q = out
	return nil
}
