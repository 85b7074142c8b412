package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListPrograms = mcp.NewTool("list_programs",
	mcp.WithDescription("List all training programs with their days, exercises, and prescriptions."),
)

var toolGetActiveSession = mcp.NewTool("get_active_session",
	mcp.WithDescription("Get the currently active workout session including per-set reps, weight, and completion, plus rest timer status."),
)

var toolGetRotation = mcp.NewTool("get_rotation",
	mcp.WithDescription("Get the next scheduled day for each program according to its rotation pointer."),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Get completed workouts, most recent first. Each entry includes the day, finish time, total volume, and a snapshot of the sets."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of entries to return. Defaults to 20.")),
)

var toolGetVolumeSummary = mcp.NewTool("get_volume_summary",
	mcp.WithDescription("Aggregate training volume (sum of weight x reps over completed sets) from history: total, per program, and workout count."),
	mcp.WithNumber("days", mcp.Description("Look-back window in days. Defaults to 30.")),
)

// --- Tool handlers ---

func (h *handlers) listPrograms(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getActiveSession(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := h.tracker.ActiveSession()
	active, remaining := h.tracker.RestRemaining()

	result, err := mcp.NewToolResultJSON(map[string]any{
		"session": sess,
		"rest": map[string]any{
			"active":            active,
			"remaining_seconds": remaining,
		},
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRotation(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := make([]map[string]any, 0)
	for _, p := range h.cat.Programs() {
		day, err := h.tracker.NextDay(p.ID)
		if err != nil {
			h.log.Error("mcp get_rotation", "program", p.ID, "error", err)
			continue
		}
		out = append(out, map[string]any{
			"program_id": p.ID,
			"next_day":   day.ID,
			"title":      day.Title,
		})
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	if limit < 1 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}

	entries := h.tracker.History()
	if limit < len(entries) {
		entries = entries[:limit]
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 30)
	if days < 1 {
		return mcp.NewToolResultError("days must be positive"), nil
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	var total float64
	count := 0
	byProgram := map[string]float64{}
	for _, e := range h.tracker.History() {
		if e.FinishedAt.Before(cutoff) {
			continue
		}
		total += e.TotalVolume
		byProgram[e.ProgramID] += e.TotalVolume
		count++
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"days":         days,
		"workouts":     count,
		"total_volume": total,
		"by_program":   byProgram,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
