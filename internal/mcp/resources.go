package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) catalogResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	stretches, err := h.ds.ListStretches(ctx, "", "")
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(stretches)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) summaryResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	stats, err := h.ds.GetStretchStats(ctx, uid)
	if err != nil {
		return nil, err
	}

	end := time.Now()
	recent, err := h.ds.QueryRoutines(ctx, end.AddDate(0, 0, -14), end, uid)
	if err != nil {
		h.log.Warn("summary: history query failed", "error", err)
	}

	transition, err := h.ds.TransitionSeconds(ctx)
	if err != nil {
		h.log.Warn("summary: transition setting unavailable", "error", err)
	}

	summary := map[string]any{
		"stats":             stats,
		"recentRoutines":    recent,
		"transitionSeconds": transition,
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
