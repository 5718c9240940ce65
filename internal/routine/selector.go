package routine

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/claude/limber/internal/catalog"
)

// minAreaPool is the smallest area-filtered pool worth keeping; below it
// the area filter is relaxed to all demo-eligible stretches so rare area
// requests do not starve.
const minAreaPool = 3

// eligible applies the catalog filters in order: demo plus area
// intersection, then position, then the desk-friendly restriction to
// non-bilateral stretches. Each filter is skipped rather than applied
// when it would leave too little to work with, and the filters relax
// independently of one another.
func eligible(pool []catalog.Stretch, cfg Config, log *slog.Logger) []catalog.Stretch {
	demo := make([]catalog.Stretch, 0, len(pool))
	byArea := make([]catalog.Stretch, 0, len(pool))
	for _, s := range pool {
		if !s.HasDemo {
			continue
		}
		demo = append(demo, s)
		if matchesAreas(s, cfg.Areas) {
			byArea = append(byArea, s)
		}
	}

	out := byArea
	if len(out) < minAreaPool {
		if len(out) < len(demo) {
			log.Warn("area filter relaxed", "areas", cfg.Areas, "matched", len(out))
		}
		out = demo
	}

	if cfg.Position != catalog.PositionAll && cfg.Position != "" {
		byPos := make([]catalog.Stretch, 0, len(out))
		for _, s := range out {
			if s.Position == cfg.Position {
				byPos = append(byPos, s)
			}
		}
		if len(byPos) > 0 {
			out = byPos
		} else {
			log.Warn("position filter skipped", "position", cfg.Position)
		}
	}

	if cfg.DeskFriendly {
		single := make([]catalog.Stretch, 0, len(out))
		for _, s := range out {
			if !s.Bilateral {
				single = append(single, s)
			}
		}
		if len(single) > 0 {
			out = single
		}
	}

	return out
}

func matchesAreas(s catalog.Stretch, areas []catalog.Area) bool {
	for _, a := range areas {
		if a == catalog.AreaFullBody || s.HasArea(a) {
			return true
		}
	}
	return false
}

// partitionByPosition stably moves stretches matching the requested
// position ahead of the rest, keeping relative order on both sides.
func partitionByPosition(items []catalog.Stretch, pos catalog.Position) []catalog.Stretch {
	if pos == catalog.PositionAll || pos == "" {
		return items
	}
	matched := make([]catalog.Stretch, 0, len(items))
	rest := make([]catalog.Stretch, 0, len(items))
	for _, s := range items {
		if s.Position == pos {
			matched = append(matched, s)
		} else {
			rest = append(rest, s)
		}
	}
	return append(matched, rest...)
}

// newTransition mints the next counter-named transition. The counter is
// shared across assembly, top-up, and augmentation so IDs stay unique
// within one routine.
func newTransition(next *int, seconds int) Transition {
	*next++
	return Transition{ID: fmt.Sprintf("transition-%d", *next), Seconds: seconds}
}

// selectSequence filters, orders, and greedily assembles stretches until
// the accumulated duration reaches the window minimum. A transition is
// placed before every stretch after the first when one is configured. It
// never fails: an exhausted pool yields whatever fit, possibly nothing.
// The second return value is the shuffled remainder, in draw order, for
// the post-processor to swap in and top up with.
func selectSequence(pool []catalog.Stretch, cfg Config, rng Shuffler, log *slog.Logger, nextTransition *int) (Sequence, []catalog.Stretch) {
	candidates := partitionByPosition(eligible(pool, cfg, log), cfg.Position)

	shuffled := slices.Clone(candidates)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var (
		seq   Sequence
		total int
		taken int
	)
	for _, s := range shuffled {
		if total >= cfg.Window.Min {
			break
		}
		if cfg.TransitionSeconds > 0 && len(seq) > 0 {
			t := newTransition(nextTransition, cfg.TransitionSeconds)
			seq = append(seq, t)
			total += t.Seconds
		}
		seq = append(seq, StretchItem{Stretch: s})
		total += s.EffectiveSeconds()
		taken++
	}
	return seq, shuffled[taken:]
}
