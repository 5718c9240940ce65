package routine

import (
	"fmt"

	"github.com/claude/limber/internal/catalog"
)

const (
	// maxAreaRun caps consecutive stretches sharing a primary area.
	maxAreaRun = 3
	// topUpFraction of the window maximum is the duration top-up aims for.
	topUpFraction = 0.9
)

// enforceVariety breaks runs of more than maxAreaRun consecutive
// stretches sharing a primary area by swapping the violating stretch for
// an unused candidate with a different one. Transitions and rests do not
// interrupt a run. Best effort: when no candidate qualifies the run
// stays, and swapped-out stretches are discarded rather than returned to
// the pool.
func enforceVariety(seq Sequence, pool []catalog.Stretch) (Sequence, []catalog.Stretch) {
	var (
		runArea catalog.Area
		runLen  int
	)
	for i, it := range seq {
		st, ok := it.(StretchItem)
		if !ok {
			continue
		}
		area := st.Stretch.PrimaryArea()
		if area == runArea {
			runLen++
		} else {
			runArea, runLen = area, 1
		}
		if runLen <= maxAreaRun {
			continue
		}
		j := indexOtherArea(pool, runArea)
		if j < 0 {
			continue
		}
		repl := pool[j]
		pool = append(pool[:j], pool[j+1:]...)
		seq[i] = StretchItem{Stretch: repl}
		runArea, runLen = repl.PrimaryArea(), 1
	}
	return seq, pool
}

func indexOtherArea(pool []catalog.Stretch, area catalog.Area) int {
	for i, s := range pool {
		if s.PrimaryArea() != area {
			return i
		}
	}
	return -1
}

// insertRests places a rest after every cfg.RestEvery-th stretch, except
// at the very end. It runs before top-up so rest time counts toward the
// duration window.
func insertRests(seq Sequence, cfg Config) Sequence {
	if cfg.RestEvery <= 0 || cfg.RestSeconds <= 0 {
		return seq
	}
	out := make(Sequence, 0, len(seq)+len(seq)/cfg.RestEvery)
	var stretches, rests int
	for i, it := range seq {
		out = append(out, it)
		if _, ok := it.(StretchItem); !ok {
			continue
		}
		stretches++
		if stretches%cfg.RestEvery == 0 && i < len(seq)-1 {
			rests++
			out = append(out, Rest{ID: fmt.Sprintf("rest-%d", rests), Seconds: cfg.RestSeconds})
		}
	}
	return out
}

// topUp appends unused candidates, transition first per the assembly
// rule, until the total duration reaches topUpFraction of the window
// maximum or the pool runs out. The last append may overshoot the
// maximum by that one item; the overshoot is accepted, not corrected.
func topUp(seq Sequence, pool []catalog.Stretch, cfg Config, nextTransition *int) Sequence {
	target := int(float64(cfg.Window.Max) * topUpFraction)
	total := seq.TotalSeconds()
	for len(pool) > 0 && total < target {
		s := pool[0]
		pool = pool[1:]
		if cfg.TransitionSeconds > 0 && len(seq) > 0 {
			t := newTransition(nextTransition, cfg.TransitionSeconds)
			seq = append(seq, t)
			total += t.Seconds
		}
		seq = append(seq, StretchItem{Stretch: s})
		total += s.EffectiveSeconds()
	}
	return seq
}
