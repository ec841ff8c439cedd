package engine

// Movement records where one tile ends up after a slide.
// MergedInto is the ID of the partner this tile was merged into, or 0.
// A tile whose partner merged into it has Merged set instead.
type Movement struct {
	Tile       Tile
	From       Coord
	To         Coord
	MergedInto uint64
	Merged     bool
}

// Moved reports whether the tile changed position.
func (m Movement) Moved() bool {
	return m.From != m.To
}

// Merge records two equal tiles combining into a new one.
// Leading is the tile nearer the slide edge, Trailing the one absorbed into it.
type Merge struct {
	Leading  Tile
	Trailing Tile
	Result   Tile
	At       Coord
}

// Resolution is the outcome of sliding a board in one direction.
// The input board is never modified; Board is the new arrangement.
type Resolution struct {
	Direction Direction
	Board     *Board
	Movements []Movement
	Merges    []Merge
	Changed   bool
}

// Resolve slides every line of board toward dir, merging each adjacent
// equal pair at most once.
func Resolve(board *Board, dir Direction) Resolution {
	order := make([]int, board.LineCount(dir))
	for i := range order {
		order[i] = i
	}
	return resolveLines(board, dir, order)
}

// resolveLines resolves the lines in the given order. Lines are independent,
// so the order only affects the sequence of records, never the outcome.
func resolveLines(board *Board, dir Direction, order []int) Resolution {
	res := Resolution{Direction: dir}

	next, _ := EmptyMatrix(board.rows, board.columns)
	next.nextID = board.nextID

	for _, idx := range order {
		line := board.CellsInLine(dir, idx)
		moves, merges := resolveLine(board, next, line)
		res.Movements = append(res.Movements, moves...)
		res.Merges = append(res.Merges, merges...)
	}

	for _, m := range res.Movements {
		if m.Moved() {
			res.Changed = true
			break
		}
	}
	if len(res.Merges) > 0 {
		res.Changed = true
	}

	res.Board = next
	return res
}

type lineTile struct {
	tile Tile
	from Coord
}

// resolveLine compacts one line of src into dst.
func resolveLine(src, dst *Board, line []Coord) ([]Movement, []Merge) {
	compacted := make([]lineTile, 0, len(line))
	for _, c := range line {
		if t := src.Tile(c); !t.Empty() {
			compacted = append(compacted, lineTile{tile: t, from: c})
		}
	}
	if len(compacted) == 0 {
		return nil, nil
	}

	var (
		moves  []Movement
		merges []Merge
	)
	pos := 0
	for i := 0; i < len(compacted); i++ {
		lead := compacted[i]
		dest := line[pos]
		pos++

		if i+1 < len(compacted) && compacted[i+1].tile.Value == lead.tile.Value {
			trail := compacted[i+1]
			i++

			result := dst.Place(dest, lead.tile.Value*2)
			moves = append(moves,
				Movement{Tile: lead.tile, From: lead.from, To: dest, Merged: true},
				Movement{Tile: trail.tile, From: trail.from, To: dest, MergedInto: lead.tile.ID},
			)
			merges = append(merges, Merge{
				Leading:  lead.tile,
				Trailing: trail.tile,
				Result:   result,
				At:       dest,
			})
			continue
		}

		dst.put(dest, lead.tile)
		moves = append(moves, Movement{Tile: lead.tile, From: lead.from, To: dest})
	}
	return moves, merges
}
