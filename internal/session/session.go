// Package session owns game sessions: one board, its score, availability and
// the in-memory tile and move history. A Session is not safe for concurrent
// use; Manager serializes access per session id.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

// StartingTiles is the number of tiles dealt when a game begins.
const StartingTiles = 2

var (
	// ErrMoveRejected means the requested direction would not change the board.
	ErrMoveRejected = errors.New("session: move not available")

	// ErrGameOver means the session is terminal and accepts no more moves.
	ErrGameOver = errors.New("session: game is over")
)

// MoveResult reports the outcome of one applied (or rejected) move.
type MoveResult struct {
	Applied    bool
	Reason     error // ErrMoveRejected or ErrGameOver when not applied
	Direction  engine.Direction
	Movements  []engine.Movement
	Merges     []engine.Merge
	NewTile    *engine.Placement
	Score      int
	ScoreDelta int
	Available  engine.Availability
	Terminal   bool
}

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	ID          string
	Rows        int
	Columns     int
	Board       [][]int
	Score       int
	MaxTile     int
	Available   engine.Availability
	Terminal    bool
	Moves       int
	TileHistory []engine.Placement
	MoveHistory []engine.Direction
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Session is a single game.
type Session struct {
	id        string
	board     *engine.Board
	source    engine.TileSource
	score     int
	available engine.Availability
	terminal  bool

	tileHistory []engine.Placement
	moveHistory []engine.Direction

	createdAt time.Time
	updatedAt time.Time
	now       func() time.Time
}

// New creates a session on an empty rows x columns board and deals the
// starting tiles from src.
func New(id string, rows, columns int, src engine.TileSource) (*Session, error) {
	board, err := engine.EmptyMatrix(rows, columns)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Session{
		id:     id,
		board:  board,
		source: src,
		now:    time.Now,
	}
	s.createdAt = s.now()
	s.updatedAt = s.createdAt

	for range StartingTiles {
		if _, err := s.spawn(); err != nil {
			return nil, fmt.Errorf("session: dealing starting tiles: %w", err)
		}
	}
	s.refresh()
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Score returns the cumulative score.
func (s *Session) Score() int {
	return s.score
}

// Terminal reports whether no direction is playable.
func (s *Session) Terminal() bool {
	return s.terminal
}

// Available returns the playable directions.
func (s *Session) Available() engine.Availability {
	return s.available
}

// Board returns a copy of the current board.
func (s *Session) Board() *engine.Board {
	return s.board.Clone()
}

// StartingTiles returns the tiles dealt at game start.
func (s *Session) StartingTiles() []engine.Placement {
	n := min(StartingTiles, len(s.tileHistory))
	out := make([]engine.Placement, n)
	copy(out, s.tileHistory[:n])
	return out
}

// UpdatedAt returns when the session last changed.
func (s *Session) UpdatedAt() time.Time {
	return s.updatedAt
}

// Apply slides the board toward dir, scores the merges, spawns one tile and
// recomputes availability. Unavailable moves and moves after the game ended
// leave the session untouched and come back with Applied false.
func (s *Session) Apply(dir engine.Direction) MoveResult {
	result := MoveResult{
		Direction: dir,
		Score:     s.score,
		Available: s.available,
		Terminal:  s.terminal,
	}

	if s.terminal {
		result.Reason = ErrGameOver
		return result
	}
	if !s.available.Get(dir) {
		result.Reason = ErrMoveRejected
		return result
	}

	res := engine.Resolve(s.board, dir)
	s.board = res.Board
	delta := engine.ScoreDelta(res)
	s.score += delta
	s.moveHistory = append(s.moveHistory, dir)

	// A successful slide always leaves at least one cell free; failing here
	// means the availability check and the resolver disagree.
	placement, err := s.spawn()
	if err != nil {
		panic(fmt.Sprintf("session %s: spawn after %s: %v", s.id, dir, err))
	}
	s.refresh()

	result.Applied = true
	result.Movements = res.Movements
	result.Merges = res.Merges
	result.NewTile = &placement
	result.Score = s.score
	result.ScoreDelta = delta
	result.Available = s.available
	result.Terminal = s.terminal
	return result
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	tiles := make([]engine.Placement, len(s.tileHistory))
	copy(tiles, s.tileHistory)
	moves := make([]engine.Direction, len(s.moveHistory))
	copy(moves, s.moveHistory)

	return Snapshot{
		ID:          s.id,
		Rows:        s.board.Rows(),
		Columns:     s.board.Columns(),
		Board:       s.board.Values(),
		Score:       s.score,
		MaxTile:     s.board.MaxTile(),
		Available:   s.available,
		Terminal:    s.terminal,
		Moves:       len(s.moveHistory),
		TileHistory: tiles,
		MoveHistory: moves,
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.updatedAt,
	}
}

func (s *Session) spawn() (engine.Placement, error) {
	p, err := engine.Spawn(s.board, s.source)
	if err != nil {
		return engine.Placement{}, err
	}
	s.tileHistory = append(s.tileHistory, p)
	return p, nil
}

func (s *Session) refresh() {
	s.available = engine.Available(s.board)
	s.terminal = !s.available.Any()
	s.updatedAt = s.now()
}
