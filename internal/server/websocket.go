package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/wire"
)

const (
	wsWriteWait    = 10 * time.Second
	wsMaxMessage   = 4096
	wsEventBuffer  = 32
	wsOutboxBuffer = 16
)

type upgrader struct {
	websocket.Upgrader
}

func newUpgrader(allowed []string) upgrader {
	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		origins[strings.ToLower(strings.TrimSuffix(o, "/"))] = true
	}
	return upgrader{websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(origins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false
			}
			return origins[strings.ToLower(u.Scheme+"://"+u.Host)]
		},
	}}
}

// stream serves one session over a WebSocket. Every applied move on the session, from
// this connection or any other client, is pushed as a "move" message;
// rejected moves are answered only to the sender.
func (a *API) stream(w http.ResponseWriter, r *http.Request) {
	enc, err := wire.ParseEncoding(r.FormValue("encoding"))
	if err != nil {
		a.fail(w, r, badRequest(err))
		return
	}
	id := r.FormValue("id")
	sub, err := a.manager.Subscribe(id, wsEventBuffer)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	defer sub.Cancel()

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		a.logger.Warn("websocket upgrade failed", "id", id, "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessage)

	a.logger.Debug("websocket connected", "id", id, "remote", clientIP(r))

	outbox := make(chan wire.ServerMessage, wsOutboxBuffer)
	stop := make(chan struct{})
	defer close(stop)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		a.readLoop(conn, id, enc, outbox, stop)
	}()

	if snap, err := a.manager.CurrentState(id); err == nil {
		state := wire.StateFrom(snap, enc)
		if err := a.write(conn, wire.ServerMessage{Type: "state", State: &state}); err != nil {
			return
		}
	}

	for {
		select {
		case res := <-sub.Events():
			move := wire.MoveResultFrom(id, res, enc)
			if err := a.write(conn, wire.ServerMessage{Type: "move", Move: &move}); err != nil {
				return
			}
		case msg := <-outbox:
			if err := a.write(conn, msg); err != nil {
				return
			}
		case <-sub.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
				time.Now().Add(wsWriteWait))
			return
		case <-readerDone:
			a.logger.Debug("websocket closed", "id", id)
			return
		}
	}
}

func (a *API) readLoop(conn *websocket.Conn, id string, enc wire.Encoding, outbox chan<- wire.ServerMessage, stop <-chan struct{}) {
	for {
		var msg wire.ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				a.logger.Debug("websocket read ended", "id", id, "error", err)
			}
			return
		}

		reply, ok := a.handleMessage(id, enc, msg)
		if !ok {
			continue
		}
		select {
		case outbox <- reply:
		case <-stop:
			return
		}
	}
}

// handleMessage returns the direct reply for msg, if any.
func (a *API) handleMessage(id string, enc wire.Encoding, msg wire.ClientMessage) (wire.ServerMessage, bool) {
	switch msg.Type {
	case "move":
		dir, err := engine.ParseDirection(msg.Direction)
		if err != nil {
			return errorMessage(err), true
		}
		res, err := a.manager.ApplyMove(id, dir)
		if err != nil {
			return errorMessage(err), true
		}
		if res.Applied {
			// Delivered through the subscription.
			return wire.ServerMessage{}, false
		}
		move := wire.MoveResultFrom(id, res, enc)
		return wire.ServerMessage{Type: "move", Move: &move}, true
	case "state":
		snap, err := a.manager.CurrentState(id)
		if err != nil {
			return errorMessage(err), true
		}
		state := wire.StateFrom(snap, enc)
		return wire.ServerMessage{Type: "state", State: &state}, true
	}
	return errorMessage(badRequest(errors.New("unknown message type " + msg.Type))), true
}

func errorMessage(err error) wire.ServerMessage {
	e := wire.ErrorFrom(err)
	return wire.ServerMessage{Type: "error", Error: &e}
}

func (a *API) write(conn *websocket.Conn, msg wire.ServerMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}
