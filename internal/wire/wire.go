// Package wire converts session and engine results into the JSON shapes
// served over HTTP and WebSocket.
package wire

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/session"
)

// ErrInvalidEncoding is returned for unknown encoding names and for values
// that cannot be represented in the requested encoding.
var ErrInvalidEncoding = errors.New("wire: invalid tile encoding")

// Encoding selects how tile values travel.
type Encoding int

const (
	// EncodeValue sends tiles as-is: 2, 4, 8 ...
	EncodeValue Encoding = iota
	// EncodeExponent sends log2 of the value: 1, 2, 3 ... Empty stays 0.
	EncodeExponent
)

// ParseEncoding maps "value" (or "") and "exponent" to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "value":
		return EncodeValue, nil
	case "exponent", "exp", "log2":
		return EncodeExponent, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidEncoding, s)
}

func (e Encoding) String() string {
	if e == EncodeExponent {
		return "exponent"
	}
	return "value"
}

// Encode converts a tile value for the wire.
func (e Encoding) Encode(v int) int {
	if e != EncodeExponent || v <= 0 {
		return v
	}
	return bits.Len(uint(v)) - 1
}

// Decode converts a wire tile back to a value.
func (e Encoding) Decode(v int) (int, error) {
	if e != EncodeExponent {
		if v < 0 || (v != 0 && v&(v-1) != 0) || v == 1 {
			return 0, fmt.Errorf("%w: %d is not a tile value", ErrInvalidEncoding, v)
		}
		return v, nil
	}
	if v < 0 || v > 62 {
		return 0, fmt.Errorf("%w: exponent %d", ErrInvalidEncoding, v)
	}
	if v == 0 {
		return 0, nil
	}
	return 1 << v, nil
}

func (e Encoding) board(values [][]int) [][]int {
	out := make([][]int, len(values))
	for r, row := range values {
		out[r] = make([]int, len(row))
		for c, v := range row {
			out[r][c] = e.Encode(v)
		}
	}
	return out
}

// Tile is a placement on the wire.
type Tile struct {
	Row    int `json:"row"`
	Column int `json:"column"`
	Value  int `json:"value"`
}

// Movement describes where a tile travelled during a move.
type Movement struct {
	FromRow    int  `json:"fromRow"`
	FromColumn int  `json:"fromColumn"`
	ToRow      int  `json:"toRow"`
	ToColumn   int  `json:"toColumn"`
	Value      int  `json:"value"`
	Merged     bool `json:"merged,omitempty"`
}

// Merge describes one pair of tiles collapsing into a new tile.
type Merge struct {
	Row    int `json:"row"`
	Column int `json:"column"`
	Value  int `json:"value"`
}

// Available mirrors engine.Availability.
type Available struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// NewGame is the response to a new game request.
type NewGame struct {
	ID            string    `json:"id"`
	Rows          int       `json:"rows"`
	Columns       int       `json:"columns"`
	Board         [][]int   `json:"board"`
	StartingTiles []Tile    `json:"startingTiles"`
	Score         int       `json:"score"`
	Available     Available `json:"available"`
	Terminal      bool      `json:"terminal"`
	Encoding      string    `json:"encoding"`
}

// MoveResult is the response to a move request.
type MoveResult struct {
	ID         string     `json:"id"`
	Direction  string     `json:"direction"`
	Applied    bool       `json:"applied"`
	Reason     string     `json:"reason,omitempty"`
	Movements  []Movement `json:"movements"`
	Merges     []Merge    `json:"merges"`
	NewTile    *Tile      `json:"newTile,omitempty"`
	Score      int        `json:"score"`
	ScoreDelta int        `json:"scoreDelta"`
	Available  Available  `json:"available"`
	Terminal   bool       `json:"terminal"`
}

// State is a full snapshot of a game.
type State struct {
	ID          string    `json:"id"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	Board       [][]int   `json:"board"`
	Score       int       `json:"score"`
	MaxTile     int       `json:"maxTile"`
	Moves       int       `json:"moves"`
	Available   Available `json:"available"`
	Terminal    bool      `json:"terminal"`
	TileHistory []Tile    `json:"tileHistory"`
	MoveHistory []string  `json:"moveHistory"`
	Encoding    string    `json:"encoding"`
}

// ReplayRequest carries a recorded game.
type ReplayRequest struct {
	Rows     int      `json:"rows"`
	Columns  int      `json:"columns"`
	Encoding string   `json:"encoding"`
	Tiles    []Tile   `json:"tiles"`
	Moves    []string `json:"moves"`
}

// Hint is a suggested direction.
type Hint struct {
	ID        string `json:"id"`
	Direction string `json:"direction"`
}

// Score is a leaderboard row.
type Score struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	MaxTile int    `json:"maxTile,omitempty"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ClientMessage is sent by WebSocket clients.
type ClientMessage struct {
	Type      string `json:"type"` // "move" or "state"
	Direction string `json:"direction,omitempty"`
}

// ServerMessage is sent to WebSocket clients.
type ServerMessage struct {
	Type  string      `json:"type"` // "move", "state" or "error"
	Move  *MoveResult `json:"move,omitempty"`
	State *State      `json:"state,omitempty"`
	Error *Error      `json:"error,omitempty"`
}

// FromAvailability converts engine availability.
func FromAvailability(a engine.Availability) Available {
	return Available{Up: a.Up, Down: a.Down, Left: a.Left, Right: a.Right}
}

func (e Encoding) tile(p engine.Placement) Tile {
	return Tile{Row: p.Row, Column: p.Column, Value: e.Encode(p.Value)}
}

func (e Encoding) tiles(ps []engine.Placement) []Tile {
	out := make([]Tile, len(ps))
	for i, p := range ps {
		out[i] = e.tile(p)
	}
	return out
}

// NewGameFrom builds the new-game response.
func NewGameFrom(s session.Snapshot, enc Encoding) NewGame {
	starting := s.TileHistory
	if len(starting) > session.StartingTiles {
		starting = starting[:session.StartingTiles]
	}
	return NewGame{
		ID:            s.ID,
		Rows:          s.Rows,
		Columns:       s.Columns,
		Board:         enc.board(s.Board),
		StartingTiles: enc.tiles(starting),
		Score:         s.Score,
		Available:     FromAvailability(s.Available),
		Terminal:      s.Terminal,
		Encoding:      enc.String(),
	}
}

// MoveResultFrom builds the move response.
func MoveResultFrom(id string, r session.MoveResult, enc Encoding) MoveResult {
	out := MoveResult{
		ID:         id,
		Direction:  r.Direction.String(),
		Applied:    r.Applied,
		Movements:  make([]Movement, 0, len(r.Movements)),
		Merges:     make([]Merge, 0, len(r.Merges)),
		Score:      r.Score,
		ScoreDelta: r.ScoreDelta,
		Available:  FromAvailability(r.Available),
		Terminal:   r.Terminal,
	}
	if r.Reason != nil {
		out.Reason = ReasonCode(r.Reason)
	}
	for _, m := range r.Movements {
		out.Movements = append(out.Movements, Movement{
			FromRow:    m.From.Row,
			FromColumn: m.From.Column,
			ToRow:      m.To.Row,
			ToColumn:   m.To.Column,
			Value:      enc.Encode(m.Tile.Value),
			Merged:     m.Merged || m.MergedInto != 0,
		})
	}
	for _, m := range r.Merges {
		out.Merges = append(out.Merges, Merge{
			Row:    m.At.Row,
			Column: m.At.Column,
			Value:  enc.Encode(m.Result.Value),
		})
	}
	if r.NewTile != nil {
		t := enc.tile(*r.NewTile)
		out.NewTile = &t
	}
	return out
}

// StateFrom builds the snapshot response.
func StateFrom(s session.Snapshot, enc Encoding) State {
	moves := make([]string, len(s.MoveHistory))
	for i, d := range s.MoveHistory {
		moves[i] = d.String()
	}
	return State{
		ID:          s.ID,
		Rows:        s.Rows,
		Columns:     s.Columns,
		Board:       enc.board(s.Board),
		Score:       s.Score,
		MaxTile:     s.MaxTile,
		Moves:       s.Moves,
		Available:   FromAvailability(s.Available),
		Terminal:    s.Terminal,
		TileHistory: enc.tiles(s.TileHistory),
		MoveHistory: moves,
		Encoding:    enc.String(),
	}
}

// Decode normalizes a replay request into engine types.
func (r ReplayRequest) Decode() ([]engine.Placement, []engine.Direction, error) {
	enc, err := ParseEncoding(r.Encoding)
	if err != nil {
		return nil, nil, err
	}
	tiles := make([]engine.Placement, len(r.Tiles))
	for i, t := range r.Tiles {
		v, err := enc.Decode(t.Value)
		if err != nil {
			return nil, nil, fmt.Errorf("tile %d: %w", i, err)
		}
		if v == 0 {
			return nil, nil, fmt.Errorf("tile %d: %w: empty tile", i, ErrInvalidEncoding)
		}
		tiles[i] = engine.Placement{Row: t.Row, Column: t.Column, Value: v}
	}
	moves := make([]engine.Direction, len(r.Moves))
	for i, m := range r.Moves {
		d, err := engine.ParseDirection(m)
		if err != nil {
			return nil, nil, fmt.Errorf("move %d: %w", i, err)
		}
		moves[i] = d
	}
	return tiles, moves, nil
}

// ReasonCode maps a rejection to its wire code.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, session.ErrGameOver):
		return "GameOver"
	case errors.Is(err, session.ErrMoveRejected):
		return "MoveNotAvailable"
	case errors.Is(err, session.ErrSessionNotFound):
		return "SessionNotFound"
	case errors.Is(err, session.ErrBoardSize), errors.Is(err, engine.ErrInvalidSize):
		return "InvalidSize"
	case errors.Is(err, engine.ErrInvalidDirection):
		return "InvalidDirection"
	case errors.Is(err, ErrInvalidEncoding):
		return "InvalidEncoding"
	}
	return "InvalidRequest"
}

// ErrorFrom wraps err for the wire.
func ErrorFrom(err error) Error {
	return Error{Error: err.Error(), Code: ReasonCode(err)}
}
