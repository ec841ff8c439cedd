// Package hint suggests a direction for the current board. Oracles never
// mutate the board they are given.
package hint

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

// ErrNoMove is returned when the board has no playable direction.
var ErrNoMove = errors.New("hint: no move available")

// Oracle picks a direction for a board.
type Oracle interface {
	Suggest(ctx context.Context, board *engine.Board) (engine.Direction, error)
}

// New returns the oracle registered under name.
func New(name string, seed int64) (Oracle, error) {
	switch name {
	case "", "random":
		return NewRandom(seed), nil
	case "greedy":
		return Greedy{}, nil
	}
	return nil, fmt.Errorf("hint: unknown oracle %q", name)
}

// Random picks uniformly among the available directions.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a random oracle.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Suggest implements Oracle.
func (o *Random) Suggest(ctx context.Context, board *engine.Board) (engine.Direction, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	moves := engine.Available(board).List()
	if len(moves) == 0 {
		return 0, ErrNoMove
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return moves[o.rng.Intn(len(moves))], nil
}

// Greedy picks the direction with the largest immediate score, then the
// one leaving the most empty cells. Ties fall back to Directions order.
type Greedy struct{}

// Suggest implements Oracle.
func (Greedy) Suggest(ctx context.Context, board *engine.Board) (engine.Direction, error) {
	best, bestScore, bestEmpty := engine.Direction(-1), -1, -1
	for _, d := range engine.Directions {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if !engine.IsAvailable(board, d) {
			continue
		}
		res := engine.Resolve(board, d)
		score := engine.ScoreDelta(res)
		empty := len(res.Board.EmptyCells())
		if score > bestScore || (score == bestScore && empty > bestEmpty) {
			best, bestScore, bestEmpty = d, score, empty
		}
	}
	if bestScore < 0 {
		return 0, ErrNoMove
	}
	return best, nil
}
