// Package web is the HTML front end: the chi router, the route handlers,
// form validation and template rendering.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/userfeedback/internal/logging"
	"github.com/dmitrijs2005/userfeedback/internal/server/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Pinger reports storage health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address         string
	logger          logging.Logger
	handlers        *Handlers
	sessions        *session.Manager
	renderer        Renderer
	db              Pinger
	shutdownTimeout time.Duration
}

func NewServer(addr string, l logging.Logger, h *Handlers, sm *session.Manager, r Renderer, db Pinger) *Server {
	return &Server{
		address:         addr,
		logger:          l.With("module", "http_server"),
		handlers:        h,
		sessions:        sm,
		renderer:        r,
		db:              db,
		shutdownTimeout: 10 * time.Second,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.NotFound(s.notFound)

	r.Get("/healthz", s.health)

	r.Group(func(r chi.Router) {
		r.Use(s.sessions.Middleware)

		h := s.handlers
		r.Get("/", s.adapt(h.Home))
		r.Get("/register", s.adapt(h.Register))
		r.Post("/register", s.adapt(h.Register))
		r.Get("/login", s.adapt(h.Login))
		r.Post("/login", s.adapt(h.Login))
		r.Get("/logout", s.adapt(h.Logout))

		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/", s.adapt(h.Profile, "username"))
			r.Post("/delete", s.adapt(h.DeleteUser, "username"))
			r.Get("/feedback/add", s.adapt(h.AddFeedback, "username"))
			r.Post("/feedback/add", s.adapt(h.AddFeedback, "username"))
		})

		r.Route("/feedback/{id}", func(r chi.Router) {
			r.Get("/update", s.adapt(h.UpdateFeedback, "id"))
			r.Post("/update", s.adapt(h.UpdateFeedback, "id"))
			r.Post("/delete", s.adapt(h.DeleteFeedback, "id"))
		})
	})

	return r
}

// adapt runs a HandlerFunc for an HTTP request: it collects the form and the
// named path params, persists identity changes (even when the handler
// failed) and writes the outcome.
func (s *Server) adapt(h HandlerFunc, params ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeHTML(w, http.StatusBadRequest, "<h1>Bad request</h1>")
			return
		}

		req := Request{Method: r.Method, Form: r.PostForm, Params: make(map[string]string, len(params))}
		for _, p := range params {
			req.Params[p] = chi.URLParam(r, p)
		}

		id := session.FromContext(r.Context())
		out, err := h(r.Context(), id, req)

		if saveErr := s.sessions.Save(w, id); saveErr != nil && err == nil {
			err = saveErr
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		s.writeOutcome(w, r, id, out)
	}
}

func (s *Server) writeOutcome(w http.ResponseWriter, r *http.Request, id *session.Identity, out Outcome) {
	if out.IsRedirect() {
		http.Redirect(w, r, out.Target, http.StatusFound)
		return
	}

	identity, _ := id.Get()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.renderer.Render(w, out.View, page{Identity: identity, Form: out.Form, Data: out.Data})
	if err != nil {
		s.writeError(w, r, err)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(r.Context(), "health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unavailable"))
		return
	}
	_, _ = w.Write([]byte("ok"))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}
