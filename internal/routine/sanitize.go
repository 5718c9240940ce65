package routine

import (
	"errors"
	"log/slog"

	"github.com/claude/limber/internal/catalog"
)

// ErrNoStretches is the pipeline's only caller-visible failure: after
// filtering and augmentation, not a single stretch remains.
var ErrNoStretches = errors.New("no suitable stretches")

// maxAugmentItems caps how many stretches the low-yield retry may graft
// onto a degenerate routine.
const maxAugmentItems = 4

// filterPremium strips premium stretches when the requester is not
// entitled to them. Transitions and rests pass through untouched.
func filterPremium(seq Sequence, entitled bool) Sequence {
	if entitled {
		return seq
	}
	out := make(Sequence, 0, len(seq))
	for _, it := range seq {
		if st, ok := it.(StretchItem); ok && st.Stretch.Premium {
			continue
		}
		out = append(out, it)
	}
	return out
}

// dropOrphanTransitions removes every transition that does not sit
// directly before a stretch, and any transition left opening the
// sequence. One left-to-right pass judging each transition by its
// neighbor at the original index; applying it twice changes nothing.
func dropOrphanTransitions(seq Sequence) Sequence {
	out := make(Sequence, 0, len(seq))
	for i, it := range seq {
		if _, ok := it.(Transition); !ok {
			out = append(out, it)
			continue
		}
		if len(out) == 0 || i+1 >= len(seq) {
			continue
		}
		if _, ok := seq[i+1].(StretchItem); !ok {
			continue
		}
		out = append(out, it)
	}
	return out
}

// sanitize applies the premium filter and the orphan sweep, then judges
// the yield. Zero stretches is fatal. Exactly one triggers a single
// bounded retry: re-select with transitions disabled to maximize yield,
// graft on the extra stretches, and sweep for orphans once more.
func sanitize(seq Sequence, pool []catalog.Stretch, cfg Config, rng Shuffler, log *slog.Logger, nextTransition *int) (Sequence, error) {
	seq = filterPremium(seq, cfg.Entitled)
	seq = dropOrphanTransitions(seq)

	switch seq.StretchCount() {
	case 0:
		return nil, ErrNoStretches
	case 1:
		log.Warn("single stretch after filtering, augmenting", "areas", cfg.Areas)
		seq = augment(seq, pool, cfg, rng, log, nextTransition)
		seq = dropOrphanTransitions(seq)
	}
	return seq, nil
}

// augment grows a single-stretch routine from a second selection pass
// run with transitions disabled. Up to maxAugmentItems new stretches are
// appended in that pass's draw order, each cleared again for demo and
// premium and distinct from anything already present, with fresh
// transitions at the originally requested length in between.
func augment(seq Sequence, pool []catalog.Stretch, cfg Config, rng Shuffler, log *slog.Logger, next *int) Sequence {
	extra, leftover := selectSequence(pool, cfg.withoutTransitions(), rng, log, next)

	present := make(map[string]bool)
	for _, it := range seq {
		if st, ok := it.(StretchItem); ok {
			present[st.Stretch.ID] = true
		}
	}

	candidates := make([]catalog.Stretch, 0, len(extra)+len(leftover))
	for _, it := range extra {
		if st, ok := it.(StretchItem); ok {
			candidates = append(candidates, st.Stretch)
		}
	}
	candidates = append(candidates, leftover...)

	added := 0
	for _, s := range candidates {
		if added >= maxAugmentItems {
			break
		}
		if present[s.ID] || !s.HasDemo {
			continue
		}
		if s.Premium && !cfg.Entitled {
			continue
		}
		if cfg.TransitionSeconds > 0 {
			seq = append(seq, newTransition(next, cfg.TransitionSeconds))
		}
		seq = append(seq, StretchItem{Stretch: s})
		present[s.ID] = true
		added++
	}
	return seq
}
