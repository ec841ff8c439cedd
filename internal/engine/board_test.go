package engine

import (
	"errors"
	"testing"
)

func mustBoard(t *testing.T, values [][]int) *Board {
	t.Helper()
	b, err := FromValues(values)
	if err != nil {
		t.Fatalf("FromValues(%v) failed: %v", values, err)
	}
	return b
}

func equalValues(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for r := range a {
		if len(a[r]) != len(b[r]) {
			return false
		}
		for c := range a[r] {
			if a[r][c] != b[r][c] {
				return false
			}
		}
	}
	return true
}

func TestEmptyMatrix(t *testing.T) {
	b, err := EmptyMatrix(3, 5)
	if err != nil {
		t.Fatalf("EmptyMatrix(3, 5) failed: %v", err)
	}
	if b.Rows() != 3 || b.Columns() != 5 {
		t.Errorf("dimensions = %dx%d, want 3x5", b.Rows(), b.Columns())
	}
	if got := len(b.EmptyCells()); got != 15 {
		t.Errorf("EmptyCells count = %d, want 15", got)
	}
	if b.Full() {
		t.Error("empty board should not be full")
	}
}

func TestEmptyMatrixRejectsSmallSizes(t *testing.T) {
	tests := []struct {
		rows, columns int
	}{
		{1, 4},
		{4, 1},
		{0, 0},
		{-2, 3},
	}

	for _, tc := range tests {
		if _, err := EmptyMatrix(tc.rows, tc.columns); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("EmptyMatrix(%d, %d) error = %v, want ErrInvalidSize", tc.rows, tc.columns, err)
		}
	}
}

func TestFromValuesRagged(t *testing.T) {
	_, err := FromValues([][]int{{2, 0, 0}, {0, 2}})
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("FromValues with ragged rows error = %v, want ErrInvalidSize", err)
	}
}

func TestCellsInLineOrientation(t *testing.T) {
	b, err := EmptyMatrix(3, 4)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		dir   Direction
		index int
		want  []Coord
	}{
		{
			name:  "left runs from column 0",
			dir:   DirLeft,
			index: 1,
			want:  []Coord{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
		},
		{
			name:  "right is reversed",
			dir:   DirRight,
			index: 2,
			want:  []Coord{{2, 3}, {2, 2}, {2, 1}, {2, 0}},
		},
		{
			name:  "up runs from row 0",
			dir:   DirUp,
			index: 3,
			want:  []Coord{{0, 3}, {1, 3}, {2, 3}},
		},
		{
			name:  "down is reversed",
			dir:   DirDown,
			index: 0,
			want:  []Coord{{2, 0}, {1, 0}, {0, 0}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := b.CellsInLine(tc.dir, tc.index)
			if len(got) != len(tc.want) {
				t.Fatalf("CellsInLine(%s, %d) length = %d, want %d", tc.dir, tc.index, len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("CellsInLine(%s, %d)[%d] = %v, want %v", tc.dir, tc.index, i, got[i], tc.want[i])
				}
			}
		})
	}

	if b.LineCount(DirLeft) != 3 || b.LineCount(DirUp) != 4 {
		t.Errorf("LineCount left/up = %d/%d, want 3/4", b.LineCount(DirLeft), b.LineCount(DirUp))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := mustBoard(t, [][]int{
		{2, 0},
		{0, 4},
	})
	clone := b.Clone()
	clone.Place(Coord{0, 1}, 8)

	if !b.Tile(Coord{0, 1}).Empty() {
		t.Error("placing on a clone should not affect the source board")
	}
	if clone.Tile(Coord{0, 0}).ID != b.Tile(Coord{0, 0}).ID {
		t.Error("clone should preserve tile identities")
	}
}

func TestPlaceMintsUniqueIDs(t *testing.T) {
	b, _ := EmptyMatrix(2, 2)
	seen := make(map[uint64]bool)
	for _, c := range []Coord{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		tile := b.Place(c, 2)
		if tile.ID == 0 {
			t.Fatal("placed tile should have a non-zero ID")
		}
		if seen[tile.ID] {
			t.Errorf("duplicate tile ID %d", tile.ID)
		}
		seen[tile.ID] = true
	}
	if !b.Full() {
		t.Error("board should be full")
	}
}

func TestMaxTileAndSum(t *testing.T) {
	b := mustBoard(t, [][]int{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4},
		{8, 16, 32, 64},
	})

	if got := b.MaxTile(); got != 2048 {
		t.Errorf("MaxTile = %d, want 2048", got)
	}
	if got := b.Sum(); got != 4218 {
		t.Errorf("Sum = %d, want 4218", got)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"up", DirUp, false},
		{"Down", DirDown, false},
		{" left ", DirLeft, false},
		{"RIGHT", DirRight, false},
		{"diagonal", 0, true},
		{"", 0, true},
	}

	for _, tc := range tests {
		got, err := ParseDirection(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidDirection) {
				t.Errorf("ParseDirection(%q) error = %v, want ErrInvalidDirection", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
}

func TestDirectionText(t *testing.T) {
	for _, d := range Directions {
		text, err := d.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d) failed: %v", d, err)
		}
		var back Direction
		if err := back.UnmarshalText(text); err != nil || back != d {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", text, back, err, d)
		}
	}

	if _, err := Direction(9).MarshalText(); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("MarshalText of invalid direction error = %v", err)
	}
}
