package routine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/claude/limber/internal/catalog"
)

// Summary describes the resolved configuration behind a routine. It is
// display data only; nothing downstream derives behavior from it.
type Summary struct {
	Description        string `json:"description"`
	IssueType          string `json:"issueType"`
	Duration           string `json:"duration"`
	Area               string `json:"area"`
	TransitionDuration int    `json:"transitionDuration"`
}

// Routine is one generated sequence with its identity and summary.
type Routine struct {
	ID      uuid.UUID `json:"id"`
	Items   Sequence  `json:"items"`
	Summary Summary   `json:"summary"`
}

// TotalSeconds is the summed duration of every item in the routine.
func (r *Routine) TotalSeconds() int {
	return r.Items.TotalSeconds()
}

// Generator runs the selection pipeline over an in-memory catalog. It
// keeps no per-request state, so a single Generator serves concurrent
// requests; the catalog slice is read, never written.
type Generator struct {
	catalog []catalog.Stretch
	rng     Shuffler
	log     *slog.Logger
}

func NewGenerator(cat []catalog.Stretch, rng Shuffler, log *slog.Logger) *Generator {
	return &Generator{catalog: cat, rng: rng, log: log}
}

// Generate builds one routine for the request: resolve the config, select
// and assemble, enforce variety, insert rests, top up the duration, then
// sanitize. The only error is ErrNoStretches; every other shortfall
// degrades into a smaller routine.
func (g *Generator) Generate(req Request) (*Routine, error) {
	cfg := BuildConfig(req)

	var nextTransition int
	seq, pool := selectSequence(g.catalog, cfg, g.rng, g.log, &nextTransition)
	seq, pool = enforceVariety(seq, pool)
	seq = insertRests(seq, cfg)
	seq = topUp(seq, pool, cfg, &nextTransition)

	seq, err := sanitize(seq, g.catalog, cfg, g.rng, g.log, &nextTransition)
	if err != nil {
		return nil, err
	}

	r := &Routine{
		ID:      uuid.New(),
		Items:   seq,
		Summary: buildSummary(cfg),
	}
	g.log.Info("routine generated",
		"id", r.ID,
		"area", r.Summary.Area,
		"stretches", seq.StretchCount(),
		"seconds", seq.TotalSeconds())
	return r, nil
}

func buildSummary(cfg Config) Summary {
	area := joinAreas(cfg.Areas)

	desc := fmt.Sprintf("%s minute %s routine", cfg.Bucket, area)
	if cfg.Issue != "" {
		desc += fmt.Sprintf(" for %s", cfg.Issue)
	}
	if cfg.DeskFriendly {
		desc += ", desk friendly"
	}

	return Summary{
		Description:        desc,
		IssueType:          string(cfg.Issue),
		Duration:           cfg.Bucket,
		Area:               area,
		TransitionDuration: cfg.TransitionSeconds,
	}
}

func joinAreas(areas []catalog.Area) string {
	parts := make([]string, len(areas))
	for i, a := range areas {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}
