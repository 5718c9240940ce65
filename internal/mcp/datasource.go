package mcp

import (
	"context"
	"time"

	"github.com/claude/limber/internal/catalog"
	"github.com/claude/limber/internal/storage"
)

// GenerateParams carries a routine request across both data sources. It
// mirrors the POST /api/v1/routines body: free text and explicit fields can
// be mixed, and a nil TransitionSeconds means use the stored setting.
type GenerateParams struct {
	Text              string   `json:"text,omitempty"`
	Issue             string   `json:"issue,omitempty"`
	Areas             []string `json:"areas,omitempty"`
	Position          string   `json:"position,omitempty"`
	Duration          string   `json:"duration,omitempty"`
	DeskFriendly      bool     `json:"deskFriendly,omitempty"`
	RestEvery         int      `json:"restEvery,omitempty"`
	RestSeconds       int      `json:"restSeconds,omitempty"`
	TransitionSeconds *int     `json:"transitionSeconds,omitempty"`
}

// DataSource abstracts the data layer for MCP tools. Local (in-process
// engine and database) and HTTPClient (remote via REST API) both satisfy
// this interface.
type DataSource interface {
	GenerateRoutine(ctx context.Context, params GenerateParams, userID int) (*storage.RoutineRow, error)
	ListStretches(ctx context.Context, area catalog.Area, pos catalog.Position) ([]catalog.Stretch, error)
	QueryRoutines(ctx context.Context, start, end time.Time, userID int) ([]storage.RoutineRow, error)
	GetStretchStats(ctx context.Context, userID int) (*storage.StretchStats, error)
	TransitionSeconds(ctx context.Context) (int, error)
	SetTransitionSeconds(ctx context.Context, seconds int) error
}
