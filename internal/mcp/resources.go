package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) catalogResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	progs := h.cat.Programs()
	out := make([]map[string]any, 0, len(progs))
	for _, p := range progs {
		days := make([]any, 0, len(p.DayIDs))
		for _, dayID := range p.DayIDs {
			if d, err := h.cat.Day(p.ID, dayID); err == nil {
				days = append(days, d)
			}
		}
		out = append(out, map[string]any{
			"program": p,
			"days":    days,
		})
	}
	return jsonResource(req.Params.URI, out)
}

func (h *handlers) activeSessionResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.tracker.ActiveSession())
}

func (h *handlers) recentHistoryResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	cutoff := time.Now().AddDate(0, 0, -14)

	recent := []any{}
	for _, e := range h.tracker.History() {
		if e.FinishedAt.Before(cutoff) {
			continue
		}
		recent = append(recent, e)
	}
	return jsonResource(req.Params.URI, recent)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
