// Package server exposes game sessions and the leaderboard over HTTP and
// WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/hint"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/wire"
)

var (
	errBadRequest  = errors.New("bad request")
	errUnavailable = errors.New("leaderboard unavailable")
)

func badRequest(err error) error {
	return fmt.Errorf("%w: %w", errBadRequest, err)
}

// Leaderboard is the subset of storage.Store the API needs.
type Leaderboard interface {
	TopScores(rows, columns, limit int) ([]storage.ScoreEntry, error)
	RecordFinished(snap session.Snapshot, name string) (int64, error)
}

// Options configures the API handler.
type Options struct {
	Manager *session.Manager
	Scores  Leaderboard // nil disables the leaderboard routes
	Oracle  hint.Oracle
	Config  config.Config
	Logger  *log.Logger
}

// API serves the game routes.
type API struct {
	manager  *session.Manager
	scores   Leaderboard
	oracle   hint.Oracle
	cfg      config.Config
	logger   *log.Logger
	upgrader upgrader
}

// NewHandler builds the routed and wrapped HTTP handler.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Manager == nil {
		return nil, errors.New("server: session manager is required")
	}
	if opts.Oracle == nil {
		opts.Oracle = hint.NewRandom(time.Now().UnixNano())
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	api := &API{
		manager:  opts.Manager,
		scores:   opts.Scores,
		oracle:   opts.Oracle,
		cfg:      opts.Config,
		logger:   opts.Logger,
		upgrader: newUpgrader(opts.Config.Server.AllowedOrigins),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", api.health)
	mux.HandleFunc("POST /api/game/new", api.newGame)
	mux.HandleFunc("POST /api/game/move", api.move)
	mux.HandleFunc("GET /api/game/state", api.state)
	mux.HandleFunc("GET /api/game/hint", api.hint)
	mux.HandleFunc("POST /api/game/replay", api.replay)
	mux.HandleFunc("GET /api/leader-board", api.topScores)
	mux.HandleFunc("POST /api/leader-board", api.saveScore)
	mux.HandleFunc("GET /api/ws", api.stream)

	return Chain(mux,
		WithRequestID,
		WithAccessLog(opts.Logger),
		WithRecover(opts.Logger),
	), nil
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"service":  "t2048",
		"sessions": a.manager.Count(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) newGame(w http.ResponseWriter, r *http.Request) {
	enc, err := wire.ParseEncoding(r.FormValue("encoding"))
	if err != nil {
		a.fail(w, r, badRequest(err))
		return
	}
	rows, err := intParam(r, "rows", a.cfg.Board.Rows)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	columns, err := intParam(r, "columns", a.cfg.Board.Columns)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	snap, err := a.manager.NewSession(rows, columns)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.NewGameFrom(snap, enc))
}

func (a *API) move(w http.ResponseWriter, r *http.Request) {
	enc, err := wire.ParseEncoding(r.FormValue("encoding"))
	if err != nil {
		a.fail(w, r, badRequest(err))
		return
	}
	id := r.FormValue("id")
	dir, err := engine.ParseDirection(r.FormValue("direction"))
	if err != nil {
		a.fail(w, r, err)
		return
	}

	res, err := a.manager.ApplyMove(id, dir)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.MoveResultFrom(id, res, enc))
}

func (a *API) state(w http.ResponseWriter, r *http.Request) {
	enc, err := wire.ParseEncoding(r.FormValue("encoding"))
	if err != nil {
		a.fail(w, r, badRequest(err))
		return
	}
	snap, err := a.manager.CurrentState(r.FormValue("id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.StateFrom(snap, enc))
}

func (a *API) hint(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("id")
	snap, err := a.manager.CurrentState(id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	board, err := engine.FromValues(snap.Board)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	ctx := r.Context()
	if a.cfg.Hint.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Hint.Timeout)
		defer cancel()
	}
	dir, err := a.oracle.Suggest(ctx, board)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.Hint{ID: id, Direction: dir.String()})
}

func (a *API) replay(w http.ResponseWriter, r *http.Request) {
	var req wire.ReplayRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		a.fail(w, r, badRequest(fmt.Errorf("decode replay: %w", err)))
		return
	}
	enc, err := wire.ParseEncoding(req.Encoding)
	if err != nil {
		a.fail(w, r, badRequest(err))
		return
	}
	tiles, moves, err := req.Decode()
	if err != nil {
		a.fail(w, r, badRequest(err))
		return
	}

	snap, err := a.manager.Replay(req.Rows, req.Columns, tiles, moves)
	if err != nil {
		a.fail(w, r, badRequest(err))
		return
	}
	writeJSON(w, http.StatusCreated, wire.StateFrom(snap, enc))
}

func (a *API) topScores(w http.ResponseWriter, r *http.Request) {
	if a.scores == nil {
		a.fail(w, r, errUnavailable)
		return
	}
	rows, err := intParam(r, "rows", a.cfg.Board.Rows)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	columns, err := intParam(r, "columns", a.cfg.Board.Columns)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	entries, err := a.scores.TopScores(rows, columns, a.cfg.Leaderboard.Size)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]wire.Score, 0, len(entries))
	for _, e := range entries {
		out = append(out, wire.Score{Name: e.Name, Score: e.Score, MaxTile: e.MaxTile})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) saveScore(w http.ResponseWriter, r *http.Request) {
	if a.scores == nil {
		a.fail(w, r, errUnavailable)
		return
	}
	id := r.FormValue("id")
	name := storage.NormalizeName(r.FormValue("name"), a.cfg.Leaderboard.MaxNameLength, a.cfg.Leaderboard.DefaultName)

	snap, err := a.manager.Finish(id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if _, err := a.scores.RecordFinished(snap, name); err != nil {
		a.fail(w, r, err)
		return
	}
	a.logger.Info("score saved", "id", id, "name", name, "score", snap.Score,
		"board", fmt.Sprintf("%dx%d", snap.Rows, snap.Columns))
	writeJSON(w, http.StatusCreated, wire.Score{Name: name, Score: snap.Score, MaxTile: snap.MaxTile})
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := wire.ErrorFrom(err)
	switch {
	case errors.Is(err, hint.ErrNoMove):
		body.Code = "NoMove"
	case errors.Is(err, errUnavailable):
		body.Code = "Unavailable"
	}
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", "request_id", RequestIDFromContext(r.Context()), "path", r.URL.Path, "error", err)
		if status == http.StatusInternalServerError {
			body.Error = "internal server error"
		}
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, engine.ErrInvalidDirection),
		errors.Is(err, engine.ErrInvalidSize),
		errors.Is(err, session.ErrBoardSize),
		errors.Is(err, wire.ErrInvalidEncoding):
		return http.StatusBadRequest
	case errors.Is(err, hint.ErrNoMove):
		return http.StatusConflict
	case errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(fmt.Errorf("%s: %q is not a number", name, raw))
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
