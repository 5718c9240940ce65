package mcp

import (
	"context"
	"time"

	"github.com/claude/limber/internal/catalog"
	"github.com/claude/limber/internal/routine"
	"github.com/claude/limber/internal/settings"
	"github.com/claude/limber/internal/storage"
)

// Local implements DataSource against the in-process engine, database, and
// settings store. Used when the MCP server runs alongside the main server.
type Local struct {
	db  *storage.DB
	st  *settings.Store
	gen *routine.Generator
	cat []catalog.Stretch
}

// Compile-time check: *Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal creates a Local data source.
func NewLocal(db *storage.DB, st *settings.Store, gen *routine.Generator, cat []catalog.Stretch) *Local {
	return &Local{db: db, st: st, gen: gen, cat: cat}
}

func (l *Local) GenerateRoutine(ctx context.Context, params GenerateParams, userID int) (*storage.RoutineRow, error) {
	transition := 0
	if params.TransitionSeconds != nil {
		transition = *params.TransitionSeconds
	} else {
		var err error
		transition, err = l.st.TransitionSeconds()
		if err != nil {
			return nil, err
		}
	}

	entitled, err := l.db.IsPremium(ctx, userID)
	if err != nil {
		return nil, err
	}

	areas := make([]catalog.Area, 0, len(params.Areas))
	for _, a := range params.Areas {
		areas = append(areas, catalog.Area(a))
	}

	rt, err := l.gen.Generate(routine.Request{
		Text:              params.Text,
		Issue:             routine.Issue(params.Issue),
		Areas:             areas,
		Position:          catalog.Position(params.Position),
		Bucket:            params.Duration,
		DeskFriendly:      params.DeskFriendly,
		RestEvery:         params.RestEvery,
		RestSeconds:       params.RestSeconds,
		TransitionSeconds: transition,
		Entitled:          entitled,
	})
	if err != nil {
		return nil, err
	}

	row := storage.NewRoutineRow(rt, userID)
	if err := l.db.InsertRoutine(ctx, row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (l *Local) ListStretches(_ context.Context, area catalog.Area, pos catalog.Position) ([]catalog.Stretch, error) {
	return catalog.Filter(l.cat, area, pos), nil
}

func (l *Local) QueryRoutines(ctx context.Context, start, end time.Time, userID int) ([]storage.RoutineRow, error) {
	return l.db.QueryRoutines(ctx, userID, start, end)
}

func (l *Local) GetStretchStats(ctx context.Context, userID int) (*storage.StretchStats, error) {
	return l.db.GetStretchStats(ctx, userID)
}

func (l *Local) TransitionSeconds(_ context.Context) (int, error) {
	return l.st.TransitionSeconds()
}

func (l *Local) SetTransitionSeconds(_ context.Context, seconds int) error {
	return l.st.SetTransitionSeconds(seconds)
}
