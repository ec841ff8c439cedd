package session

import (
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

// Replay rebuilds a session from a recorded tile-creation history and move
// history. The first StartingTiles placements are dealt, then every move
// consumes exactly one further placement. A move that the recording cannot
// reproduce aborts the replay.
func Replay(id string, rows, columns int, tiles []engine.Placement, moves []engine.Direction) (*Session, error) {
	if len(tiles) < StartingTiles+len(moves) {
		return nil, fmt.Errorf("session: replay needs %d tiles for %d moves, got %d",
			StartingTiles+len(moves), len(moves), len(tiles))
	}

	src := engine.NewDictatedSource(tiles...)
	s, err := New(id, rows, columns, src)
	if err != nil {
		return nil, err
	}

	for i, dir := range moves {
		if !dir.Valid() {
			return nil, fmt.Errorf("session: replay move %d: %w", i, engine.ErrInvalidDirection)
		}
		if s.terminal {
			return nil, fmt.Errorf("session: replay move %d (%s): %w", i, dir, ErrGameOver)
		}
		if !s.available.Get(dir) {
			return nil, fmt.Errorf("session: replay move %d (%s): %w", i, dir, ErrMoveRejected)
		}

		res := engine.Resolve(s.board, dir)
		p, err := engine.Spawn(res.Board, src)
		if err != nil {
			return nil, fmt.Errorf("session: replay move %d (%s): %w", i, dir, err)
		}
		s.board = res.Board
		s.score += engine.ScoreDelta(res)
		s.moveHistory = append(s.moveHistory, dir)
		s.tileHistory = append(s.tileHistory, p)
		s.refresh()
	}
	return s, nil
}
