package engine

import (
	"errors"
	"fmt"
)

// MinSize is the smallest allowed number of rows or columns.
const MinSize = 2

// ErrInvalidSize is returned when a board dimension is below MinSize.
var ErrInvalidSize = errors.New("engine: invalid board size")

// Coord is a zero-based cell position. Row 0 is the top edge, column 0 the left edge.
type Coord struct {
	Row    int
	Column int
}

// Tile is an immutable tile identity. A zero ID means the cell is empty.
// Merging never mutates a tile; both partners are replaced by a new tile.
type Tile struct {
	ID    uint64
	Value int
}

// Empty reports whether the cell holding this tile is empty.
func (t Tile) Empty() bool {
	return t.ID == 0
}

// Board is a rows x columns grid of tiles.
type Board struct {
	rows    int
	columns int
	cells   []Tile // row-major
	nextID  uint64
}

// EmptyMatrix returns a board with every cell empty.
func EmptyMatrix(rows, columns int) (*Board, error) {
	if rows < MinSize || columns < MinSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, columns)
	}
	return &Board{
		rows:    rows,
		columns: columns,
		cells:   make([]Tile, rows*columns),
		nextID:  1,
	}, nil
}

// FromValues builds a board from a value matrix; 0 marks an empty cell.
// Tile IDs are assigned in row-major order. Used by tests and replays.
func FromValues(values [][]int) (*Board, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidSize)
	}
	b, err := EmptyMatrix(len(values), len(values[0]))
	if err != nil {
		return nil, err
	}
	for r, row := range values {
		if len(row) != b.columns {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidSize, r, len(row), b.columns)
		}
		for c, v := range row {
			if v != 0 {
				b.Place(Coord{Row: r, Column: c}, v)
			}
		}
	}
	return b, nil
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Columns returns the number of columns.
func (b *Board) Columns() int { return b.columns }

// Contains reports whether c lies on the board.
func (b *Board) Contains(c Coord) bool {
	return c.Row >= 0 && c.Row < b.rows && c.Column >= 0 && c.Column < b.columns
}

func (b *Board) index(c Coord) int {
	return c.Row*b.columns + c.Column
}

// Tile returns the tile at c. Out-of-range coordinates read as empty.
func (b *Board) Tile(c Coord) Tile {
	if !b.Contains(c) {
		return Tile{}
	}
	return b.cells[b.index(c)]
}

// Place mints a new tile with the given value at c and returns it.
// It overwrites whatever occupied the cell; callers check emptiness first.
func (b *Board) Place(c Coord, value int) Tile {
	t := Tile{ID: b.nextID, Value: value}
	b.nextID++
	b.cells[b.index(c)] = t
	return t
}

// put stores an existing tile at c without minting a new identity.
func (b *Board) put(c Coord, t Tile) {
	b.cells[b.index(c)] = t
}

// EmptyCells returns the coordinates of all empty cells in row-major order.
func (b *Board) EmptyCells() []Coord {
	var cells []Coord
	for i, t := range b.cells {
		if t.Empty() {
			cells = append(cells, Coord{Row: i / b.columns, Column: i % b.columns})
		}
	}
	return cells
}

// Full reports whether no cell is empty.
func (b *Board) Full() bool {
	for _, t := range b.cells {
		if t.Empty() {
			return false
		}
	}
	return true
}

// LineCount returns how many lines a slide in dir operates on.
func (b *Board) LineCount(dir Direction) int {
	if dir.vertical() {
		return b.columns
	}
	return b.rows
}

// CellsInLine returns the coordinates of one row (left/right) or one column
// (up/down), ordered so that index 0 is the edge the direction slides toward.
// This is the only place direction-specific orientation happens.
func (b *Board) CellsInLine(dir Direction, index int) []Coord {
	n := b.columns
	if dir.vertical() {
		n = b.rows
	}
	line := make([]Coord, n)
	for i := range n {
		switch dir {
		case DirUp:
			line[i] = Coord{Row: i, Column: index}
		case DirDown:
			line[i] = Coord{Row: n - 1 - i, Column: index}
		case DirLeft:
			line[i] = Coord{Row: index, Column: i}
		case DirRight:
			line[i] = Coord{Row: index, Column: n - 1 - i}
		}
	}
	return line
}

// Clone returns a deep copy. Tile identities and the ID counter are preserved.
func (b *Board) Clone() *Board {
	cells := make([]Tile, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		rows:    b.rows,
		columns: b.columns,
		cells:   cells,
		nextID:  b.nextID,
	}
}

// Values returns the board as a value matrix with 0 for empty cells.
func (b *Board) Values() [][]int {
	out := make([][]int, b.rows)
	for r := range b.rows {
		out[r] = make([]int, b.columns)
		for c := range b.columns {
			out[r][c] = b.cells[r*b.columns+c].Value
		}
	}
	return out
}

// MaxTile returns the highest tile value on the board.
func (b *Board) MaxTile() int {
	maxVal := 0
	for _, t := range b.cells {
		if t.Value > maxVal {
			maxVal = t.Value
		}
	}
	return maxVal
}

// Sum returns the total of all tile values.
func (b *Board) Sum() int {
	total := 0
	for _, t := range b.cells {
		total += t.Value
	}
	return total
}

// Equal reports whether two boards have the same shape and values.
// Tile identities are ignored.
func (b *Board) Equal(other *Board) bool {
	if b.rows != other.rows || b.columns != other.columns {
		return false
	}
	for i := range b.cells {
		if b.cells[i].Value != other.cells[i].Value {
			return false
		}
	}
	return true
}
