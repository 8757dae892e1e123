package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/shardpdf/internal/config"
)

// Server is the HTTP conversion service. Each accepted request becomes an
// independent conversion job; a semaphore bounds how many run at once.
type Server struct {
	router chi.Router
	jobs   *JobStore
	cfg    config.Config
	log    *slog.Logger

	sem chan struct{}
	wg  sync.WaitGroup
}

// NewServer creates and configures the HTTP server.
func NewServer(cfg config.Config, log *slog.Logger) *Server {
	s := &Server{
		jobs: NewJobStore(cfg.JobTTL()),
		cfg:  cfg,
		log:  log,
		sem:  make(chan struct{}, cfg.MaxActiveJobs),
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

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}
		r.Post("/api/convert", s.handleConvert)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
	})

	s.router = r
}

// Start launches the job store cleanup loop.
func (s *Server) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.jobs.Cleanup()
			}
		}
	}()
}

// Stop waits for background work to finish.
func (s *Server) Stop() {
	s.wg.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
