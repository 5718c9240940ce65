package mcp

import (
	"context"
	"time"

	"github.com/claude/limber/internal/catalog"
	"github.com/claude/limber/internal/routine"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGenerateRoutine = mcp.NewTool("generate_routine",
	mcp.WithDescription("Generate a stretch routine and record it in the history. Free text and explicit fields can be mixed; explicit fields win. Returns the full routine with its item sequence and summary."),
	mcp.WithString("text", mcp.Description("Free-text request (e.g. 'my neck is stiff from sitting at my desk all day')")),
	mcp.WithString("issue", mcp.Description("Explicit issue type"), mcp.Enum("stiffness", "pain", "tiredness", "flexibility")),
	mcp.WithString("area", mcp.Description("Target body area (e.g. Neck, Shoulders, Lower Back, Full Body)")),
	mcp.WithString("position", mcp.Description("Required body position"), mcp.Enum("Standing", "Sitting", "Lying", "All")),
	mcp.WithString("duration", mcp.Description("Duration bucket in minutes. Defaults to '5'."), mcp.Enum("5", "10", "15")),
	mcp.WithBoolean("desk_friendly", mcp.Description("Only stretches that work at a desk")),
	mcp.WithNumber("rest_every", mcp.Description("Insert a rest after every N stretches (0 disables rests)")),
	mcp.WithNumber("transition_seconds", mcp.Description("Seconds of transition between stretches. Defaults to the stored setting.")),
)

var toolPreviewIntent = mcp.NewTool("preview_intent",
	mcp.WithDescription("Parse a free-text request without generating a routine. Shows which issue, areas, position, and activity the text maps to."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Free-text request to parse")),
)

var toolListStretches = mcp.NewTool("list_stretches",
	mcp.WithDescription("Browse the stretch catalog with optional area and position filters."),
	mcp.WithString("area", mcp.Description("Filter by body area (e.g. Neck, Hips). Full Body matches everything.")),
	mcp.WithString("position", mcp.Description("Filter by position"), mcp.Enum("Standing", "Sitting", "Lying")),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Query generated routines over a time range, newest first. Includes completion state."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Aggregate routine stats: totals, completion counts, time stretched, current daily streak, and per-area breakdown."),
)

var toolSetTransition = mcp.NewTool("set_transition",
	mcp.WithDescription("Set the stored transition duration used between stretches when a request does not specify one."),
	mcp.WithNumber("seconds", mcp.Required(), mcp.Description("Transition duration in seconds (0 disables transitions)")),
)

// --- Tool handlers ---

func (h *handlers) generateRoutine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := GenerateParams{
		Text:         req.GetString("text", ""),
		Issue:        req.GetString("issue", ""),
		Position:     req.GetString("position", ""),
		Duration:     req.GetString("duration", ""),
		DeskFriendly: req.GetBool("desk_friendly", false),
		RestEvery:    req.GetInt("rest_every", 0),
	}
	if area := req.GetString("area", ""); area != "" {
		params.Areas = []string{area}
	}
	if secs := req.GetInt("transition_seconds", -1); secs >= 0 {
		params.TransitionSeconds = &secs
	}

	uid := UserIDFromContext(ctx)
	row, err := h.ds.GenerateRoutine(ctx, params, uid)
	if err != nil {
		h.log.Error("mcp generate_routine", "error", err)
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(row)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) previewIntent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text parameter is required"), nil
	}

	result, err := mcp.NewToolResultJSON(routine.ParseIntent(text))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listStretches(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	area := catalog.Area(req.GetString("area", ""))
	pos := catalog.Position(req.GetString("position", ""))

	stretches, err := h.ds.ListStretches(ctx, area, pos)
	if err != nil {
		h.log.Error("mcp list_stretches", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stretches)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	rows, err := h.ds.QueryRoutines(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	stats, err := h.ds.GetStretchStats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) setTransition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seconds, err := req.RequireInt("seconds")
	if err != nil {
		return mcp.NewToolResultError("seconds parameter is required"), nil
	}

	if err := h.ds.SetTransitionSeconds(ctx, seconds); err != nil {
		h.log.Error("mcp set_transition", "error", err)
		return mcp.NewToolResultError("update failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]int{"transitionSeconds": seconds})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
