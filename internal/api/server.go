package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/manweave/internal/config"
	"github.com/dgallion1/manweave/internal/render"
	"github.com/dgallion1/manweave/internal/viewer"
)

// Server is the HTTP surface of the manual viewer.
type Server struct {
	router   chi.Router
	viewer   *viewer.Viewer
	renderer *render.Renderer
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(v *viewer.Viewer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		viewer:   v,
		renderer: render.New(),
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Read endpoints are public; the manual is the product.
	r.Get("/health", s.handleHealth)
	r.Get("/manual/toc", s.handleTOC)
	r.Get("/manual/pages/{pageID}", s.handlePage)
	r.Get("/manual/report", s.handleReport)

	// Mutating endpoints require the API key.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.ManweaveAPIKey, s.log))

		r.Post("/manual/rebuild", s.handleRebuild)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
