package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/limber/internal/catalog"
	"github.com/claude/limber/internal/routine"
	"github.com/claude/limber/internal/settings"
	"github.com/claude/limber/internal/storage"
	"github.com/go-chi/chi/v5"
	"tailscale.com/client/local"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *storage.DB
	settings *settings.Store
	gen      *routine.Generator
	catalog  []catalog.Stretch
	log      *slog.Logger
	apiKey   string
	ts       *local.Client
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, st *settings.Store, gen *routine.Generator, cat []catalog.Stretch, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		settings: st,
		gen:      gen,
		catalog:  cat,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale installs the local client used to resolve request identity
// via WhoIs. Without it every request maps to the local dev user.
func (s *Server) SetTailscale(lc *local.Client) {
	s.ts = lc
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.identity)

		r.Post("/routines", s.handleGenerateRoutine)
		r.Get("/routines/history", s.handleRoutineHistory)
		r.Get("/routines/{id}", s.handleGetRoutine)
		r.Post("/routines/{id}/complete", s.handleCompleteRoutine)
		r.Get("/stats", s.handleStats)
		r.Get("/stretches", s.handleListStretches)
		r.Get("/settings/transition", s.handleGetTransition)
		r.Put("/settings/transition", s.handleSetTransition)
		r.Get("/me", s.handleMe)

		// Entitlement changes require the API key (billing webhook)
		r.Route("/me/premium", func(pr chi.Router) {
			pr.Use(APIKeyAuth(s.apiKey))
			pr.Put("/", s.handleSetPremium)
		})
	})
}
