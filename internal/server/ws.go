package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tavalabs/tava/pkg/errors"
	"github.com/tavalabs/tava/pkg/graph"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum size of a client message or request body.
	maxMessageSize = 64 * 1024
)

// Message types sent to WebSocket clients.
const (
	MessageFrame = "frame"
	MessageError = "error"
)

// Message is one server-to-client WebSocket message.
type Message struct {
	Type  string        `json:"type"`
	Frame *graph.Layout `json:"frame,omitempty"`
	Error *errorBody    `json:"error,omitempty"`
}

// handleWebSocket streams frames for one session and applies the events the
// client sends. A client message is either one Event or an array of them.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	lv, id, err := s.resolve(r)
	if err != nil {
		writeError(w, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "session", shortID(id), "error", err)
		return
	}
	s.logger.Debug("websocket connected", "session", shortID(id))

	signal, unsubscribe := lv.subscribe()
	defer func() {
		unsubscribe()
		lv.touch(s.cfg.SessionTTL)
	}()

	// errs carries event failures from the read loop to the writer, which
	// owns all writes on conn.
	errs := make(chan error, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writePump(conn, lv, signal, errs)
	}()

	s.readPump(r, conn, lv, id, errs)
	close(errs)
	<-done
	s.logger.Debug("websocket closed", "session", shortID(id))
}

func (s *Server) readPump(r *http.Request, conn *websocket.Conn, lv *live, id string, errs chan<- error) {
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		lv.touch(s.cfg.SessionTTL)
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseNoStatusReceived,
			) {
				s.logger.Warn("websocket read error", "session", shortID(id), "error", err)
			}
			return
		}

		events, err := decodeEvents(data)
		if err == nil {
			for _, ev := range events {
				if err = s.dispatch(r, lv, id, ev); err != nil {
					break
				}
			}
		}
		if err != nil {
			select {
			case errs <- err:
			default:
			}
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, lv *live, signal <-chan struct{}, errs <-chan error) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	send := func(msg Message) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg) == nil
	}
	sendFrame := func() bool {
		frame := lv.frame(s.Roster())
		return send(Message{Type: MessageFrame, Frame: &frame})
	}

	if !sendFrame() {
		return
	}
	for {
		select {
		case <-signal:
			if !sendFrame() {
				return
			}
		case err, ok := <-errs:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			code := errors.GetCode(err)
			if !send(Message{Type: MessageError, Error: &errorBody{Error: errors.UserMessage(err), Code: code}}) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// decodeEvents accepts a single event object or an array of events.
func decodeEvents(data []byte) ([]Event, error) {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		var events []Event
		if err := json.Unmarshal(data, &events); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid event batch")
		}
		return events, nil
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid event")
	}
	return []Event{ev}, nil
}
