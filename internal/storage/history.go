package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/claude/limber/internal/routine"
)

// RoutineRow is one generated routine as stored. Items carries the full
// sequence as JSONB so clients can replay a routine exactly as it was
// generated.
type RoutineRow struct {
	ID                uuid.UUID        `json:"id"`
	UserID            int              `json:"userId"`
	Description       string           `json:"description"`
	IssueType         string           `json:"issueType"`
	Area              string           `json:"area"`
	Duration          string           `json:"duration"`
	TransitionSeconds int              `json:"transitionSeconds"`
	TotalSeconds      int              `json:"totalSeconds"`
	StretchCount      int              `json:"stretchCount"`
	Items             routine.Sequence `json:"items"`
	CreatedAt         time.Time        `json:"createdAt"`
	CompletedAt       *time.Time       `json:"completedAt,omitempty"`
}

// NewRoutineRow flattens a generated routine into its history row.
func NewRoutineRow(r *routine.Routine, userID int) RoutineRow {
	return RoutineRow{
		ID:                r.ID,
		UserID:            userID,
		Description:       r.Summary.Description,
		IssueType:         r.Summary.IssueType,
		Area:              r.Summary.Area,
		Duration:          r.Summary.Duration,
		TransitionSeconds: r.Summary.TransitionDuration,
		TotalSeconds:      r.TotalSeconds(),
		StretchCount:      r.Items.StretchCount(),
		Items:             r.Items,
	}
}

// InsertRoutine records a generated routine.
func (db *DB) InsertRoutine(ctx context.Context, row RoutineRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO routine_history (id, user_id, description, issue_type, area, duration,
		 transition_seconds, total_seconds, stretch_count, items)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT DO NOTHING`,
		row.ID, row.UserID, row.Description, row.IssueType, row.Area, row.Duration,
		row.TransitionSeconds, row.TotalSeconds, row.StretchCount, row.Items)
	if err != nil {
		return fmt.Errorf("inserting routine: %w", err)
	}
	return nil
}

// CompleteRoutine marks a routine as finished. Returns false when the
// routine does not exist for this user or was already completed.
func (db *DB) CompleteRoutine(ctx context.Context, id uuid.UUID, userID int) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE routine_history SET completed_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND completed_at IS NULL`,
		id, userID)
	if err != nil {
		return false, fmt.Errorf("completing routine: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetRoutine retrieves a single routine with its full item sequence.
func (db *DB) GetRoutine(ctx context.Context, id uuid.UUID, userID int) (*RoutineRow, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, description, issue_type, area, duration,
		 transition_seconds, total_seconds, stretch_count, items, created_at, completed_at
		 FROM routine_history
		 WHERE id = $1 AND user_id = $2`,
		id, userID)

	var r RoutineRow
	err := row.Scan(&r.ID, &r.UserID, &r.Description, &r.IssueType, &r.Area, &r.Duration,
		&r.TransitionSeconds, &r.TotalSeconds, &r.StretchCount, &r.Items, &r.CreatedAt, &r.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("querying routine: %w", err)
	}
	return &r, nil
}

// QueryRoutines retrieves a user's routines in a time range, newest
// first.
func (db *DB) QueryRoutines(ctx context.Context, userID int, start, end time.Time) ([]RoutineRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, description, issue_type, area, duration,
		 transition_seconds, total_seconds, stretch_count, items, created_at, completed_at
		 FROM routine_history
		 WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		 ORDER BY created_at DESC`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying routines: %w", err)
	}
	defer rows.Close()

	var result []RoutineRow
	for rows.Next() {
		var r RoutineRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.Description, &r.IssueType, &r.Area, &r.Duration,
			&r.TransitionSeconds, &r.TotalSeconds, &r.StretchCount, &r.Items, &r.CreatedAt, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning routine: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
