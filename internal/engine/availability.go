package engine

// Availability holds which directions are currently playable.
type Availability struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// Get returns the flag for dir.
func (a Availability) Get(dir Direction) bool {
	switch dir {
	case DirUp:
		return a.Up
	case DirDown:
		return a.Down
	case DirLeft:
		return a.Left
	case DirRight:
		return a.Right
	default:
		return false
	}
}

// Any reports whether at least one direction is playable.
func (a Availability) Any() bool {
	return a.Up || a.Down || a.Left || a.Right
}

// List returns the playable directions in Directions order.
func (a Availability) List() []Direction {
	var out []Direction
	for _, d := range Directions {
		if a.Get(d) {
			out = append(out, d)
		}
	}
	return out
}

// IsAvailable reports whether sliding toward dir would change the board:
// some line has a gap before a later tile, or two equal tiles adjacent once
// gaps are ignored. The board is only read.
func IsAvailable(board *Board, dir Direction) bool {
	if !dir.Valid() {
		return false
	}
	for idx := range board.LineCount(dir) {
		if lineAvailable(board, board.CellsInLine(dir, idx)) {
			return true
		}
	}
	return false
}

func lineAvailable(board *Board, line []Coord) bool {
	sawGap := false
	prev := 0
	for _, c := range line {
		t := board.Tile(c)
		if t.Empty() {
			sawGap = true
			continue
		}
		if sawGap || t.Value == prev {
			return true
		}
		prev = t.Value
	}
	return false
}

// Available computes the flags for all four directions.
func Available(board *Board) Availability {
	return Availability{
		Up:    IsAvailable(board, DirUp),
		Down:  IsAvailable(board, DirDown),
		Left:  IsAvailable(board, DirLeft),
		Right: IsAvailable(board, DirRight),
	}
}

// IsTerminal reports whether no direction is playable.
func IsTerminal(board *Board) bool {
	return !Available(board).Any()
}
