// Package server exposes ring layouts and live interaction sessions over
// HTTP and WebSocket.
//
// Stateless endpoints compute a layout for a focal entity and viewport and
// return it as JSON or a rendered image. Sessions hold one viewer's
// interaction state (selection, drags, pins) on the server: the client
// streams pointer events over a WebSocket and receives a frame after every
// change, while a frame ticker drives the release and reset animations.
// Roster updates from the configured source re-layout every open session.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/tavalabs/tava/pkg/observability"
	"github.com/tavalabs/tava/pkg/pipeline"
	"github.com/tavalabs/tava/pkg/ringgraph"
	"github.com/tavalabs/tava/pkg/roster"
	"github.com/tavalabs/tava/pkg/session"
)

// Defaults for Config fields left zero.
const (
	DefaultFrameInterval = 16 * time.Millisecond
	shutdownTimeout      = 5 * time.Second
	persistInterval      = time.Second
	cleanupInterval      = time.Minute
)

// Config wires a Server.
type Config struct {
	Runner *pipeline.Runner
	Source pipeline.Source
	Store  session.Store

	Params   ringgraph.Params
	Viewport ringgraph.Viewport // used when a request gives no size

	FrameInterval time.Duration
	SessionTTL    time.Duration

	Logger *log.Logger
}

// Server serves the HTTP API. Create it with New.
type Server struct {
	cfg      Config
	logger   *log.Logger
	router   chi.Router
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	roster   *roster.Roster
	sessions map[string]*live
}

// New takes an initial snapshot from cfg.Source and builds the router.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Source == nil {
		cfg.Source = pipeline.NewStaticSource(roster.Demo(), "")
	}
	if cfg.Store == nil {
		cfg.Store = session.NewMemoryStore()
	}
	if cfg.Params == (ringgraph.Params{}) {
		cfg.Params = ringgraph.DefaultParams()
	}
	if cfg.Viewport.Width == 0 && cfg.Viewport.Height == 0 {
		cfg.Viewport = ringgraph.Viewport{Width: pipeline.DefaultWidth, Height: pipeline.DefaultHeight}
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}

	r, err := cfg.Source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		logger:   cfg.Logger.WithPrefix("server"),
		roster:   r,
		sessions: make(map[string]*live),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Get("/render.{format}", s.handleRender)
		r.Get("/entities/{id}", s.handleEntity)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/events", s.handleEvents)
			r.Get("/ws", s.handleWebSocket)
		})
	})
	return r
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Run serves on addr until ctx is cancelled, following the roster source
// and driving session animations in the background.
func (s *Server) Run(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		err := s.cfg.Source.Subscribe(ctx, s.SetRoster)
		if err != nil && !stderrors.Is(err, context.Canceled) {
			s.logger.Error("roster subscription ended", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		s.animate(ctx)
	}()
	go func() {
		defer wg.Done()
		s.maintain(ctx)
	}()

	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	var err error
	select {
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		err = srv.Shutdown(shutdownCtx)
	case err = <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}
	cancel()
	wg.Wait()
	s.persistAll(context.Background(), true)
	return err
}

// Roster returns the current snapshot.
func (s *Server) Roster() *roster.Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster
}

// SetRoster installs a new snapshot and re-layouts every open session.
// Pins of nodes that kept their ring survive.
func (s *Server) SetRoster(r *roster.Roster) {
	s.mu.Lock()
	if s.roster != nil && s.roster.Hash() == r.Hash() {
		s.mu.Unlock()
		return
	}
	s.roster = r
	open := make([]*live, 0, len(s.sessions))
	for _, lv := range s.sessions {
		open = append(open, lv)
	}
	s.mu.Unlock()

	for _, lv := range open {
		lv.setLayout(s.compute(r, lv.focal(), lv.viewport()))
	}
	s.logger.Info("roster updated", "profiles", r.Len(), "sessions", len(open))
}

func (s *Server) compute(r *roster.Roster, focal string, vp ringgraph.Viewport) *ringgraph.Layout {
	return ringgraph.Compute(focal, r, vp, s.cfg.Params)
}

// animate advances running animations once per frame interval.
func (s *Server) animate(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.FrameInterval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			for _, lv := range s.liveSessions() {
				lv.tick(dt)
			}
		}
	}
}

// maintain persists changed sessions and evicts expired ones.
func (s *Server) maintain(ctx context.Context) {
	persist := time.NewTicker(persistInterval)
	defer persist.Stop()
	cleanup := time.NewTicker(cleanupInterval)
	defer cleanup.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-persist.C:
			s.persistAll(ctx, false)
		case <-cleanup.C:
			s.evictIdle(ctx)
			if err := s.cfg.Store.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

func (s *Server) persistAll(ctx context.Context, final bool) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	for _, id := range ids {
		s.persist(ctx, id)
	}
	if final && len(ids) > 0 {
		s.logger.Debug("persisted sessions", "count", len(ids))
	}
}

func (s *Server) persist(ctx context.Context, id string) {
	lv := s.lookup(id)
	if lv == nil {
		return
	}
	snap, changed := lv.capture(s.cfg.SessionTTL)
	if !changed {
		return
	}
	if err := s.cfg.Store.Set(ctx, &snap); err != nil {
		s.logger.Warn("persist session failed", "session", shortID(id), "error", err)
	}
}

// evictIdle drops live sessions whose stored copy has expired. Sessions
// with a connected WebSocket client are never idle.
func (s *Server) evictIdle(ctx context.Context) {
	s.mu.RLock()
	candidates := make(map[string]*live, len(s.sessions))
	for id, lv := range s.sessions {
		candidates[id] = lv
	}
	s.mu.RUnlock()

	for id, lv := range candidates {
		lv.mu.Lock()
		expired := lv.snap.IsExpired()
		lv.mu.Unlock()
		if !expired || lv.watched() {
			continue
		}
		s.mu.Lock()
		if s.sessions[id] == lv {
			delete(s.sessions, id)
		}
		s.mu.Unlock()
		observability.Session().OnSessionClose(ctx, id, time.Since(lv.opened))
		s.logger.Debug("session expired", "session", shortID(id))
	}
}

func (s *Server) liveSessions() []*live {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*live, 0, len(s.sessions))
	for _, lv := range s.sessions {
		out = append(out, lv)
	}
	return out
}

func (s *Server) lookup(id string) *live {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}
