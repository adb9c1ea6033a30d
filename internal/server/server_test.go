package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tavalabs/tava/pkg/errors"
	"github.com/tavalabs/tava/pkg/graph"
	"github.com/tavalabs/tava/pkg/pipeline"
	"github.com/tavalabs/tava/pkg/roster"
	"github.com/tavalabs/tava/pkg/session"
)

func newTestServer(t *testing.T, store session.Store) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	s, err := New(context.Background(), Config{
		Runner: pipeline.NewRunner(nil, nil, logger),
		Source: pipeline.NewStaticSource(roster.Demo(), ""),
		Store:  store,
		Logger: logger,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func createSession(t *testing.T, s *Server) sessionResponse {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/sessions", createSessionRequest{Width: 390, Height: 844})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: %d %s", rec.Code, rec.Body.String())
	}
	return decode[sessionResponse](t, rec)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decode[healthResponse](t, rec)
	if got.Status != "ok" || got.Profiles != roster.Demo().Len() {
		t.Errorf("health = %+v", got)
	}
}

func TestLayout(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name     string
		path     string
		status   int
		direct   int
		selected string
	}{
		{"Default", "/api/layout", http.StatusOK, 3, ""},
		{"Selected", "/api/layout?selected=demo-user-2&width=800&height=600", http.StatusOK, 3, "demo-user-2"},
		{"Stranger", "/api/layout?focal=stranger", http.StatusOK, 0, ""},
		{"BadWidth", "/api/layout?width=wide", http.StatusBadRequest, 0, ""},
		{"BadFocal", "/api/layout?focal=..%2Fetc", http.StatusBadRequest, 0, ""},
		{"UnknownSelection", "/api/layout?selected=nobody", http.StatusNotFound, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tt.path, nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				body := decode[errorBody](t, rec)
				if body.Code == "" || body.Error == "" {
					t.Errorf("error body = %+v", body)
				}
				return
			}
			l := decode[graph.Layout](t, rec)
			if l.Stats.Direct != tt.direct || l.Selected != tt.selected {
				t.Errorf("direct = %d selected = %q", l.Stats.Direct, l.Selected)
			}
		})
	}
}

func TestRender(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		format, contentType, prefix string
	}{
		{"svg", "image/svg+xml", "<svg "},
		{"dot", "text/vnd.graphviz; charset=utf-8", "graph G {"},
		{"json", "application/json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/render."+tt.format+"?title=Demo", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q", ct)
			}
			if !strings.HasPrefix(strings.TrimSpace(rec.Body.String()), tt.prefix) {
				t.Errorf("body starts %q", rec.Body.String()[:min(40, rec.Body.Len())])
			}
		})
	}

	t.Run("UnknownFormat", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/api/render.gif", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

func TestEntity(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/entities/demo-user-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	detail := decode[struct {
		ID, Ring, Name, Label string
	}](t, rec)
	if detail.Name != "Alice" || detail.Ring != "first" || detail.Label != "A" {
		t.Errorf("detail = %+v", detail)
	}

	rec = do(t, s, http.MethodGet, "/api/entities/nobody", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown entity status = %d", rec.Code)
	}
	if body := decode[errorBody](t, rec); body.Code != errors.ErrCodeEntityNotFound {
		t.Errorf("code = %q", body.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	created := createSession(t, s)
	if created.ID == "" || created.Frame.Stats.Direct != 3 {
		t.Fatalf("created = %+v", created)
	}
	path := "/api/sessions/" + created.ID

	rec := do(t, s, http.MethodPost, path+"/events", []Event{
		{Type: EventSelect, ID: "demo-user-1"},
		{Type: EventDown, ID: "demo-user-2"},
		{Type: EventMove, ID: "demo-user-2", DX: 40, DY: 10},
		{Type: EventCancel, ID: "demo-user-2"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("events: %d %s", rec.Code, rec.Body.String())
	}
	frame := decode[graph.Layout](t, rec)
	if frame.Selected != "demo-user-2" {
		// Pressing a node selects it.
		t.Errorf("Selected = %q", frame.Selected)
	}
	if n, _ := frame.Node("demo-user-2"); n.State != "pinned" {
		t.Errorf("state = %q, want pinned", n.State)
	}

	rec = do(t, s, http.MethodGet, path, nil)
	if got := decode[sessionResponse](t, rec); got.Frame.Selected != frame.Selected {
		t.Errorf("GET lost selection: %q", got.Frame.Selected)
	}

	rec = do(t, s, http.MethodPost, path+"/events", []Event{{Type: EventDown, ID: "nobody"}})
	if rec.Code != http.StatusNotFound {
		t.Errorf("down on unknown node: %d", rec.Code)
	}
	rec = do(t, s, http.MethodPost, path+"/events", []Event{{Type: "wiggle"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown event type: %d", rec.Code)
	}
	rec = do(t, s, http.MethodPost, path+"/events", []Event{{Type: EventResize, Width: -1, Height: 10}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad resize: %d", rec.Code)
	}

	rec = do(t, s, http.MethodDelete, path, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, path, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted session status = %d", rec.Code)
	}
	if body := decode[errorBody](t, rec); body.Code != errors.ErrCodeSessionNotFound {
		t.Errorf("code = %q", body.Code)
	}
}

func TestSessionEvents(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		status   int
		selected string
	}{
		{
			name:     "single event",
			body:     Event{Type: EventSelect, ID: "demo-user-1"},
			status:   http.StatusOK,
			selected: "demo-user-1",
		},
		{
			name:     "batch",
			body:     []Event{{Type: EventSelect, ID: "demo-user-1"}, {Type: EventSelect, ID: "demo-user-2"}},
			status:   http.StatusOK,
			selected: "demo-user-2",
		},
		{
			name:   "rejected batch applies nothing",
			body:   []Event{{Type: EventSelect, ID: "demo-user-1"}, {Type: EventDown, ID: "nobody"}},
			status: http.StatusNotFound,
		},
		{
			name:   "malformed",
			body:   "not an event",
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			path := "/api/sessions/" + createSession(t, s).ID

			rec := do(t, s, http.MethodPost, path+"/events", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			got := decode[sessionResponse](t, do(t, s, http.MethodGet, path, nil))
			if got.Frame.Selected != tt.selected {
				t.Errorf("Selected = %q, want %q", got.Frame.Selected, tt.selected)
			}
		})
	}
}

func TestEvictIdleSkipsWatched(t *testing.T) {
	s := newTestServer(t, nil)
	id := createSession(t, s).ID
	lv := s.lookup(id)
	if lv == nil {
		t.Fatal("session not live")
	}
	expire := func() {
		lv.mu.Lock()
		lv.snap.ExpiresAt = time.Now().Add(-time.Second)
		lv.mu.Unlock()
	}

	_, unsubscribe := lv.subscribe()
	expire()
	s.evictIdle(context.Background())
	if s.lookup(id) == nil {
		t.Fatal("watched session evicted")
	}

	// A disconnecting client touches the session on its way out.
	unsubscribe()
	lv.touch(time.Minute)
	s.evictIdle(context.Background())
	if s.lookup(id) == nil {
		t.Fatal("session evicted right after its client left")
	}

	expire()
	s.evictIdle(context.Background())
	if s.lookup(id) != nil {
		t.Error("idle session not evicted")
	}
}

func TestSessionResize(t *testing.T) {
	s := newTestServer(t, nil)
	created := createSession(t, s)

	rec := do(t, s, http.MethodPost, "/api/sessions/"+created.ID+"/events",
		[]Event{{Type: EventResize, Width: 200, Height: 200}})
	if rec.Code != http.StatusOK {
		t.Fatalf("resize: %d %s", rec.Code, rec.Body.String())
	}
	frame := decode[graph.Layout](t, rec)
	if frame.Size > 200 || frame.Size > created.Frame.Size {
		t.Errorf("size %v does not fit the 200pt viewport (was %v)", frame.Size, created.Frame.Size)
	}
}

func TestSessionRevive(t *testing.T) {
	store := session.NewMemoryStore()
	first := newTestServer(t, store)
	created := createSession(t, first)
	path := "/api/sessions/" + created.ID

	rec := do(t, first, http.MethodPost, path+"/events", []Event{{Type: EventSelect, ID: "demo-user-3"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("events: %d", rec.Code)
	}
	first.persistAll(context.Background(), true)

	// A second server sharing the store picks the session back up.
	second := newTestServer(t, store)
	rec = do(t, second, http.MethodGet, path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("revive: %d %s", rec.Code, rec.Body.String())
	}
	if got := decode[sessionResponse](t, rec); got.Frame.Selected != "demo-user-3" {
		t.Errorf("revived selection = %q", got.Frame.Selected)
	}
}

func TestSetRoster(t *testing.T) {
	s := newTestServer(t, nil)
	created := createSession(t, s)

	s.SetRoster(roster.Demo().Like(roster.LocalUserID, "demo-user-9"))

	rec := do(t, s, http.MethodGet, "/api/sessions/"+created.ID, nil)
	got := decode[sessionResponse](t, rec)
	if got.Frame.Stats.Direct != 4 {
		t.Errorf("direct after roster update = %d, want 4", got.Frame.Stats.Direct)
	}
	if _, ok := got.Frame.Node("demo-user-9"); !ok {
		t.Error("new like missing from session frame")
	}
}

func TestWebSocket(t *testing.T) {
	s := newTestServer(t, nil)
	created := createSession(t, s)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/" + created.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func() Message {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		return msg
	}
	// readUntil skips frames until match reports true.
	readUntil := func(match func(Message) bool) Message {
		t.Helper()
		for {
			if msg := read(); match(msg) {
				return msg
			}
		}
	}

	if msg := read(); msg.Type != MessageFrame || msg.Frame == nil {
		t.Fatalf("first message = %+v", msg)
	}

	if err := conn.WriteJSON(Event{Type: EventSelect, ID: "demo-user-1"}); err != nil {
		t.Fatal(err)
	}
	readUntil(func(m Message) bool {
		return m.Type == MessageFrame && m.Frame.Selected == "demo-user-1"
	})

	if err := conn.WriteJSON(Event{Type: EventSelect, ID: "nobody"}); err != nil {
		t.Fatal(err)
	}
	msg := readUntil(func(m Message) bool { return m.Type == MessageError })
	if msg.Error.Code != errors.ErrCodeEntityNotFound {
		t.Errorf("error code = %q", msg.Error.Code)
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/api/sessions/missing/ws", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestDecodeEvents(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"Single", `{"type":"select","id":"a"}`, 1, false},
		{"Batch", ` [{"type":"down","id":"a"},{"type":"up","id":"a"}]`, 2, false},
		{"Empty", `[]`, 0, false},
		{"Garbage", `{"type":`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeEvents([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeInvalidViewport, http.StatusBadRequest},
		{errors.ErrCodeEntityNotFound, http.StatusNotFound},
		{errors.ErrCodeSessionNotFound, http.StatusNotFound},
		{errors.ErrCodeSourceUnavailable, http.StatusServiceUnavailable},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
