package mcp

import (
	"log/slog"

	"github.com/claude/repcycle/internal/catalog"
	"github.com/claude/repcycle/internal/tracker"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered. The
// surface is read-only: LLM clients can inspect programs, the active
// session, rotation, and history, but all mutations go through the HTTP API.
func New(tr *tracker.Tracker, cat *catalog.Catalog, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepCycle", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepCycle workout tracker. Query training programs, the active workout session, day rotation, and workout history with volume totals."),
	)

	h := &handlers{tracker: tr, cat: cat, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListPrograms, Handler: h.listPrograms},
		server.ServerTool{Tool: toolGetActiveSession, Handler: h.getActiveSession},
		server.ServerTool{Tool: toolGetRotation, Handler: h.getRotation},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetVolumeSummary, Handler: h.getVolumeSummary},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCatalog, Handler: h.catalogResource},
		server.ServerResource{Resource: resActiveSession, Handler: h.activeSessionResource},
		server.ServerResource{Resource: resRecentHistory, Handler: h.recentHistoryResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	tracker *tracker.Tracker
	cat     *catalog.Catalog
	log     *slog.Logger
}

// --- Resource definitions ---

var resCatalog = mcp.NewResource(
	"repcycle://catalog",
	"Program Catalog",
	mcp.WithResourceDescription("All training programs with their days, exercises, prescriptions, and swap groups"),
	mcp.WithMIMEType("application/json"),
)

var resActiveSession = mcp.NewResource(
	"repcycle://active_session",
	"Active Session",
	mcp.WithResourceDescription("The currently active workout session with per-set progress, or null when none is active"),
	mcp.WithMIMEType("application/json"),
)

var resRecentHistory = mcp.NewResource(
	"repcycle://recent_history",
	"Recent History",
	mcp.WithResourceDescription("Completed workouts from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)
