package server

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tavalabs/tava/pkg/buildinfo"
	"github.com/tavalabs/tava/pkg/errors"
	"github.com/tavalabs/tava/pkg/graph"
	"github.com/tavalabs/tava/pkg/observability"
	"github.com/tavalabs/tava/pkg/pipeline"
	"github.com/tavalabs/tava/pkg/ringgraph"
	"github.com/tavalabs/tava/pkg/session"
)

// contentTypes per render format.
var contentTypes = map[string]string{
	graph.FormatSVG:  "image/svg+xml",
	graph.FormatPNG:  "image/png",
	graph.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	graph.FormatJSON: "application/json",
}

// =============================================================================
// Stateless endpoints
// =============================================================================

type healthResponse struct {
	Status   string         `json:"status"`
	Build    buildinfo.Info `json:"build"`
	Profiles int            `json:"profiles"`
	Sessions int            `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := healthResponse{
		Status:   "ok",
		Build:    buildinfo.Get(),
		Profiles: s.roster.Len(),
		Sessions: len(s.sessions),
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, resp)
}

// layoutOptions reads focal, width, height and selected from the query.
func (s *Server) layoutOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Focal:    q.Get("focal"),
		Selected: q.Get("selected"),
		Width:    s.cfg.Viewport.Width,
		Height:   s.cfg.Viewport.Height,
		Params:   s.cfg.Params,
		Title:    q.Get("title"),
	}
	if opts.Focal == "" {
		opts.Focal = s.cfg.Source.Focal()
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"width", &opts.Width}, {"height", &opts.Height}} {
		if v := q.Get(f.name); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidViewport, "%s must be a number, got %q", f.name, v)
			}
			*f.dst = n
		}
	}
	opts.Labels = q.Get("labels") != "false"
	opts.Connectors = q.Get("connectors") != "false"
	return opts, nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.layoutOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	l, err := s.cfg.Runner.Layout(r.Context(), s.Roster(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := errors.ValidateFormat(format, graph.Formats...); err != nil {
		writeError(w, err)
		return
	}
	opts, err := s.layoutOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.cfg.Runner.Execute(r.Context(), s.Roster(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateEntityID(id); err != nil {
		writeError(w, err)
		return
	}
	opts, err := s.layoutOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := errors.ValidateEntityID(opts.Focal); err != nil {
		writeError(w, err)
		return
	}
	snapshot := s.Roster()
	l := s.compute(snapshot, opts.Focal, ringgraph.Viewport{Width: opts.Width, Height: opts.Height})
	detail, ok := ringgraph.Describe(snapshot, l, id)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeEntityNotFound, ringgraph.DetailsNotFound))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// =============================================================================
// Sessions
// =============================================================================

type createSessionRequest struct {
	Focal  string  `json:"focal,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

type sessionResponse struct {
	ID        string       `json:"id"`
	ExpiresAt time.Time    `json:"expires_at"`
	Frame     graph.Layout `json:"frame"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Focal == "" {
		req.Focal = s.cfg.Source.Focal()
	}
	if req.Width == 0 && req.Height == 0 {
		req.Width, req.Height = s.cfg.Viewport.Width, s.cfg.Viewport.Height
	}
	if err := errors.ValidateEntityID(req.Focal); err != nil {
		writeError(w, err)
		return
	}
	if err := errors.ValidateViewport(req.Width, req.Height); err != nil {
		writeError(w, err)
		return
	}

	snap := session.New(req.Focal, req.Width, req.Height, s.cfg.SessionTTL)
	if err := s.cfg.Store.Set(r.Context(), snap); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	lv := s.open(*snap)
	observability.Session().OnSessionOpen(r.Context(), snap.ID, snap.Focal)
	s.logger.Info("session opened", "session", shortID(snap.ID), "focal", snap.Focal)

	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:        snap.ID,
		ExpiresAt: snap.ExpiresAt,
		Frame:     lv.frame(s.Roster()),
	})
}

// open makes snap live, replacing any earlier live copy.
func (s *Server) open(snap session.Snapshot) *live {
	lv := newLive(snap, s.compute(s.Roster(), snap.Focal, snap.Viewport()))
	s.mu.Lock()
	s.sessions[snap.ID] = lv
	s.mu.Unlock()
	return lv
}

// resolve returns the live session for the {id} route parameter, reviving
// it from the store after a restart.
func (s *Server) resolve(r *http.Request) (*live, string, error) {
	id := chi.URLParam(r, "id")
	if lv := s.lookup(id); lv != nil {
		lv.mu.Lock()
		lv.snap.Touch(s.cfg.SessionTTL)
		lv.mu.Unlock()
		return lv, id, nil
	}
	snap, err := s.cfg.Store.Get(r.Context(), id)
	if err != nil {
		return nil, id, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if snap == nil {
		return nil, id, errors.New(errors.ErrCodeSessionNotFound, "session %q not found or expired", id)
	}
	snap.Touch(s.cfg.SessionTTL)
	s.logger.Debug("session revived", "session", shortID(id))
	return s.open(*snap), id, nil
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	lv, id, err := s.resolve(r)
	if err != nil {
		writeError(w, err)
		return
	}
	lv.mu.Lock()
	expires := lv.snap.ExpiresAt
	lv.mu.Unlock()
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, ExpiresAt: expires, Frame: lv.frame(s.Roster())})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.close(r, id)
	if err := s.cfg.Store.Delete(r.Context(), id); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) close(r *http.Request, id string) {
	s.mu.Lock()
	lv, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		observability.Session().OnSessionClose(r.Context(), id, time.Since(lv.opened))
		s.logger.Info("session closed", "session", shortID(id))
	}
}

// handleEvents applies one event or a batch over plain HTTP, for clients
// without WebSocket support. The batch is checked before any event is
// applied, so a rejected batch leaves the session untouched. The response
// is the frame after the batch.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	lv, id, err := s.resolve(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMessageSize))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	events, err := decodeEvents(data)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := lv.validate(events); err != nil {
		writeError(w, err)
		return
	}
	for _, ev := range events {
		if err := s.dispatch(r, lv, id, ev); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, lv.frame(s.Roster()))
}

func (s *Server) dispatch(r *http.Request, lv *live, id string, ev Event) error {
	observability.Session().OnSessionEvent(r.Context(), id, ev.Type)
	snapshot := s.Roster()
	return lv.apply(ev, func(focal string, vp ringgraph.Viewport) *ringgraph.Layout {
		return s.compute(snapshot, focal, vp)
	})
}
