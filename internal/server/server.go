package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/repcycle/internal/catalog"
	"github.com/claude/repcycle/internal/tracker"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker *tracker.Tracker
	cat     *catalog.Catalog
	log     *slog.Logger
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(tr *tracker.Tracker, cat *catalog.Catalog, log *slog.Logger) *Server {
	s := &Server{
		tracker: tr,
		cat:     cat,
		log:     log,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/v1/state", s.handleState)
	s.router.Get("/api/v1/catalog", s.handleCatalog)
	s.router.Get("/api/v1/catalog/programs/{id}", s.handleGetProgram)

	s.router.Route("/api/v1/session", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Post("/start", s.handleStartSession)
		r.Post("/reset", s.handleResetSession)
		r.Post("/finish", s.handleFinishSession)
		r.Get("/rest", s.handleGetRest)
		r.Post("/rest/skip", s.handleSkipRest)

		r.Route("/exercises/{exID}", func(r chi.Router) {
			r.Post("/toggle", s.handleToggleChecklistItem)
			r.Post("/swap", s.handleSwapExercise)
			r.Post("/sets", s.handleAddSet)
			r.Put("/sets/count", s.handleSetSetCount)
			r.Post("/sets/{idx}/toggle", s.handleToggleSet)
			r.Put("/sets/{idx}", s.handleEditSet)
		})
	})

	s.router.Get("/api/v1/history", s.handleHistory)
	s.router.Delete("/api/v1/history", s.handleClearHistory)
	s.router.Get("/api/v1/settings", s.handleGetSettings)
	s.router.Put("/api/v1/settings", s.handlePutSettings)
}

// MountMCP mounts the MCP transport handler at /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Mount("/mcp", h)
}
