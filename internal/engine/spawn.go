package engine

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrNoEmptyCell is returned when a spawn is attempted on a full board.
	ErrNoEmptyCell = errors.New("engine: no empty cell")

	// ErrDictatedExhausted is returned when a DictatedSource has no placements left.
	ErrDictatedExhausted = errors.New("engine: dictated tile source exhausted")

	// ErrDictatedOccupied is returned when a dictated placement targets a
	// cell that is not empty.
	ErrDictatedOccupied = errors.New("engine: dictated cell is occupied")
)

// DefaultSpawn4Probability is the chance that a spawned tile is a 4.
const DefaultSpawn4Probability = 0.10

// Placement describes a spawned tile.
type Placement struct {
	Row    int `json:"row"`
	Column int `json:"column"`
	Value  int `json:"value"`
}

// Coord returns the placement position.
func (p Placement) Coord() Coord {
	return Coord{Row: p.Row, Column: p.Column}
}

// TileSource decides where the next tile goes and what value it has.
// empty is never empty when Next is called.
type TileSource interface {
	Next(empty []Coord) (Placement, error)
}

// RandomSource picks a uniformly random empty cell and yields 2, or 4 with
// probability Spawn4.
type RandomSource struct {
	rng    *rand.Rand
	spawn4 float64
}

// NewRandomSource creates a random tile source with the given seed.
func NewRandomSource(seed int64, spawn4 float64) *RandomSource {
	return &RandomSource{
		rng:    rand.New(rand.NewSource(seed)),
		spawn4: spawn4,
	}
}

// Next implements TileSource.
func (s *RandomSource) Next(empty []Coord) (Placement, error) {
	cell := empty[s.rng.Intn(len(empty))]

	value := 2
	if s.rng.Float64() < s.spawn4 {
		value = 4
	}
	return Placement{Row: cell.Row, Column: cell.Column, Value: value}, nil
}

// DictatedSource replays placements chosen elsewhere, e.g. a server that
// decides tiles or a recorded game.
type DictatedSource struct {
	queue []Placement
}

// NewDictatedSource creates a source that yields the given placements in order.
func NewDictatedSource(placements ...Placement) *DictatedSource {
	q := make([]Placement, len(placements))
	copy(q, placements)
	return &DictatedSource{queue: q}
}

// Push appends a placement to the queue.
func (s *DictatedSource) Push(p Placement) {
	s.queue = append(s.queue, p)
}

// Remaining returns how many placements are still queued.
func (s *DictatedSource) Remaining() int {
	return len(s.queue)
}

// Next implements TileSource.
func (s *DictatedSource) Next(empty []Coord) (Placement, error) {
	if len(s.queue) == 0 {
		return Placement{}, ErrDictatedExhausted
	}
	p := s.queue[0]
	for _, c := range empty {
		if c == p.Coord() {
			s.queue = s.queue[1:]
			return p, nil
		}
	}
	return Placement{}, fmt.Errorf("%w: (%d,%d)", ErrDictatedOccupied, p.Row, p.Column)
}

// Spawn places one tile chosen by src into an empty cell of board.
func Spawn(board *Board, src TileSource) (Placement, error) {
	empty := board.EmptyCells()
	if len(empty) == 0 {
		return Placement{}, ErrNoEmptyCell
	}
	p, err := src.Next(empty)
	if err != nil {
		return Placement{}, err
	}
	if !board.Contains(p.Coord()) || !board.Tile(p.Coord()).Empty() {
		return Placement{}, fmt.Errorf("%w: (%d,%d)", ErrDictatedOccupied, p.Row, p.Column)
	}
	board.Place(p.Coord(), p.Value)
	return p, nil
}
