// internal/httpserver/server.go
//
// HTTP server wiring for the Sentence Scrambler.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts, request logging, CORS).
//   - Public endpoints: "/" (activity page), "/print", "/health", "/static/*".
//   - JSON API under /api: catalog, current round, new round, answer, reveal, worksheet.
//   - Anonymous session cookie: one private round.Session per visitor.
//   - Idle sessions are evicted from the store by a sweeper that runs alongside Run.
//
// Notes:
//   - Sessions live in the store only; there are no accounts and nothing is persisted.
//   - Handlers load the session, run one reducer action, and save the result.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scrambler/assets"
	"github.com/robalobadob/scrambler/internal/catalog"
	"github.com/robalobadob/scrambler/internal/round"
	"github.com/robalobadob/scrambler/internal/store"
)

// Options configures a Server.
type Options struct {
	Store          store.Store
	Engine         *round.Engine
	ClientOrigin   string // CORS origin allowed to send credentials
	CookieName     string
	SecureCookies  bool
	HistoryDisplay int           // custom sentences listed on the page
	SessionTTL     time.Duration // idle time before a session is evicted
}

const defaultSessionTTL = 24 * time.Hour

// Server bundles router, session store and round engine.
type Server struct {
	r      *chi.Mux
	store  store.Store
	engine *round.Engine
	tmpl   *template.Template
	opts   Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "scrambler_session"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	s := &Server{
		r:      chi.NewRouter(),
		store:  opts.Store,
		engine: opts.Engine,
		tmpl:   assets.Templates(),
		opts:   opts,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(cors(opts.ClientOrigin))         // credentials-friendly CORS

	// --- pages ---
	s.r.Get("/", s.handleIndex)
	s.r.Get("/print", s.handlePrint)
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(assets.StaticFS())))

	// --- JSON ---
	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Get("/debug/catalog", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.engine.Catalog.Stats())
		})
		r.Get("/debug/sessions", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]int{"sessions": s.store.Len()})
		})
		s.mountRound(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router as an http.Handler.
func (s *Server) Handler() http.Handler { return s.r }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// Idle sessions are swept while the server runs.
func (s *Server) Run(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		s.sweepSessions(ctx)
	}()
	defer func() {
		cancel()
		<-sweepDone
	}()

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down http server")
		return srv.Shutdown(shutdownCtx)
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

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin != "" {
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs method, path, status, bytes and duration for every request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("dur", time.Since(start)).
			Msg("http")
	})
}

// ------------------------------ sessions -----------------------------------

// sweepSessions evicts idle sessions every quarter TTL until ctx ends.
func (s *Server) sweepSessions(ctx context.Context) {
	every := s.opts.SessionTTL / 4
	if every < time.Second {
		every = time.Second
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.evictIdle(ctx, now)
		}
	}
}

// evictIdle deletes sessions unused for longer than SessionTTL before now.
func (s *Server) evictIdle(ctx context.Context, now time.Time) int {
	n := 0
	for _, id := range s.store.IdleSince(ctx, now.Add(-s.opts.SessionTTL)) {
		if err := s.store.Delete(ctx, id); err != nil {
			log.Error().Err(err).Str("session", id).Msg("evict session")
			continue
		}
		n++
	}
	if n > 0 {
		log.Info().Int("evicted", n).Int("remaining", s.store.Len()).Msg("idle sessions swept")
	}
	return n
}

// ensureSessionID returns the visitor's session cookie or sets a new one.
func (s *Server) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(s.opts.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	sameSite := http.SameSiteLaxMode
	if s.opts.SecureCookies {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: sameSite,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
	// Make the new cookie visible to later reads within this request.
	r.AddCookie(&http.Cookie{Name: s.opts.CookieName, Value: id})
	return id
}

// loadSession returns the visitor's session, starting an idle one if needed.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (round.Session, error) {
	id := s.ensureSessionID(w, r)
	sess, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return round.Session{ID: id, Tier: catalog.Easy}, nil
	}
	return sess, err
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
