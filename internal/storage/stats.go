package storage

import (
	"context"
	"fmt"
	"time"
)

// StretchStats holds aggregate statistics about a user's routines.
type StretchStats struct {
	TotalRoutines     int64      `json:"totalRoutines"`
	CompletedRoutines int64      `json:"completedRoutines"`
	TotalSeconds      int64      `json:"totalSeconds"`
	CurrentStreak     int        `json:"currentStreak"`
	FirstRoutine      *time.Time `json:"firstRoutine"`
	LastRoutine       *time.Time `json:"lastRoutine"`
	ByArea            []AreaStat `json:"byArea"`
}

// AreaStat holds the routine count for a single target area.
type AreaStat struct {
	Area  string `json:"area"`
	Count int64  `json:"count"`
}

// GetStretchStats returns aggregate statistics for a user's routines.
// TotalSeconds sums completed routines only; the streak counts
// consecutive days with at least one completion, ending today or
// yesterday.
func (db *DB) GetStretchStats(ctx context.Context, userID int) (*StretchStats, error) {
	stats := &StretchStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(completed_at),
		 COALESCE(SUM(total_seconds) FILTER (WHERE completed_at IS NOT NULL), 0)
		 FROM routine_history WHERE user_id = $1`, userID,
	).Scan(&stats.TotalRoutines, &stats.CompletedRoutines, &stats.TotalSeconds)
	if err != nil {
		return nil, fmt.Errorf("counting routines: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT MIN(created_at), MAX(created_at) FROM routine_history WHERE user_id = $1`, userID,
	).Scan(&stats.FirstRoutine, &stats.LastRoutine)
	if err != nil {
		return nil, fmt.Errorf("querying date range: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT area, COUNT(*)
		 FROM routine_history
		 WHERE user_id = $1 AND area <> ''
		 GROUP BY area
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying routines by area: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s AreaStat
		if err := rows.Scan(&s.Area, &s.Count); err != nil {
			return nil, fmt.Errorf("scanning area stat: %w", err)
		}
		stats.ByArea = append(stats.ByArea, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	days, err := db.completionDays(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.CurrentStreak = streakFromDays(days, time.Now())

	return stats, nil
}

// completionDays returns the distinct days on which the user completed a
// routine, newest first.
func (db *DB) completionDays(ctx context.Context, userID int) ([]time.Time, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT DISTINCT completed_at::date
		 FROM routine_history
		 WHERE user_id = $1 AND completed_at IS NOT NULL
		 ORDER BY 1 DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying completion days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning completion day: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// streakFromDays computes the current daily streak from distinct
// completion days sorted newest first. A streak that last advanced
// before yesterday is over.
func streakFromDays(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	day := func(t time.Time) string { return t.Format("2006-01-02") }

	expect := now
	if day(days[0]) != day(now) {
		if day(days[0]) != day(now.AddDate(0, 0, -1)) {
			return 0
		}
		expect = now.AddDate(0, 0, -1)
	}

	streak := 0
	for _, d := range days {
		if day(d) != day(expect) {
			break
		}
		streak++
		expect = expect.AddDate(0, 0, -1)
	}
	return streak
}
