// internal/httpserver/server.go
//
// HTTP server wiring for the Mastermind backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access log).
//   - Public endpoints: "/", "/health", "/metrics", "/leaderboard".
//   - Game endpoints (optional auth): /game/new, /game/guess, /game/auto.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Solver endpoints (optional auth): the engine guesses a secret only the
//     client knows, /solver/*.
//   - Auth + profile endpoints: /auth/*, /stats/me.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token
//     is present; routes still run for guests.
//   - Each session is locked for the duration of a request touching it.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/auth"
	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/metrics"
	"github.com/robalobadob/mastermind/internal/results"
	"github.com/robalobadob/mastermind/internal/store"
)

// maxLength bounds the guess length accepted over HTTP.
const maxLength = 10

// Deps are the collaborators of a Server.
type Deps struct {
	Sessions store.Store
	Results  *results.Store
	Daily    *daily.Store // optional, enables /daily
	Auth     *auth.Service
	Config   config.Config
}

// Server bundles router, session store, result history and accounts.
type Server struct {
	r        *chi.Mux
	sessions store.Store
	results  *results.Store
	daily    *daily.Store
	auth     *auth.Service
	cfg      config.Config
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Config.DefaultLength == 0 {
		d.Config.DefaultLength = game.DefaultLength
	}
	if d.Config.DefaultDomain == 0 {
		d.Config.DefaultDomain = game.DefaultElements
	}
	if d.Config.CookieName == "" {
		d.Config.CookieName = "mastermind_token"
	}
	if d.Config.AnonCookieName == "" {
		d.Config.AnonCookieName = "mastermind_anon"
	}
	if d.Config.SessionIdle == 0 {
		d.Config.SessionIdle = time.Hour
	}
	s := &Server{r: chi.NewRouter(), sessions: d.Sessions, results: d.Results, daily: d.Daily, auth: d.Auth, cfg: d.Config}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(30 * time.Second))
	s.r.Use(s.cors)

	s.r.With(jsonContentType).Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "mastermind-go",
			"endpoints": []string{
				"/health", "/metrics", "GET /leaderboard",
				"POST /game/new", "POST /game/guess", "POST /game/auto",
				"POST /solver/new", "POST /solver/feedback", "POST /solver/undo", "GET /solver/{id}",
				"POST /daily/new", "POST /daily/guess", "GET /daily/leaderboard",
				"/auth/*", "GET /stats/me",
			},
		})
	})
	s.r.With(jsonContentType).Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.sessions.Len()})
	})
	s.r.Handle("/metrics", promhttp.Handler())

	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)
		r.Use(s.withOptionalAuth)
		s.mountGame(r)
		s.mountSolver(r)
		s.mountDaily(r)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)
		s.mountAuth(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start serves HTTP on addr until ctx is done, then shuts down gracefully.
// Idle sessions are swept in the background meanwhile.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	go s.sweep(ctx, time.Minute)

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// sweep drops sessions idle for longer than the configured period.
func (s *Server) sweep(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.sessions.Sweep(ctx, now.Add(-s.cfg.SessionIdle)); n > 0 {
				log.Debug().Int("dropped", n).Msg("swept idle sessions")
			}
			metrics.SetLiveSessions(s.sessions.Len())
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// sizeOptions resolves length and domain size from a request, falling back
// to the configured defaults.
func (s *Server) sizeOptions(length, elements int) (int, []game.Element, error) {
	if length == 0 {
		length = s.cfg.DefaultLength
	}
	if elements == 0 {
		elements = s.cfg.DefaultDomain
	}
	if length < 1 || length > maxLength {
		return 0, nil, errors.New("length must be 1-10")
	}
	if elements < 1 || elements > game.MaxElements {
		return 0, nil, errors.New("elements must be 1-10")
	}
	return length, game.DefaultDomain(elements), nil
}

func newID() string { return uuid.NewString() }
