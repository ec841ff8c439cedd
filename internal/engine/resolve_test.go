package engine

import (
	"math/rand"
	"testing"
)

func rowBoard(t *testing.T, row [4]int) *Board {
	t.Helper()
	return mustBoard(t, [][]int{
		row[:],
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
}

func TestResolveRowLeft(t *testing.T) {
	tests := []struct {
		name     string
		input    [4]int
		expected [4]int
		score    int
		changed  bool
	}{
		{
			name:     "merged result does not absorb the next tile",
			input:    [4]int{2, 2, 4, 0},
			expected: [4]int{4, 4, 0, 0},
			score:    4,
			changed:  true,
		},
		{
			name:     "first pair merges, trailing tile stays",
			input:    [4]int{2, 0, 2, 2},
			expected: [4]int{4, 2, 0, 0},
			score:    4,
			changed:  true,
		},
		{
			name:     "merge with trailing tile",
			input:    [4]int{2, 2, 2, 0},
			expected: [4]int{4, 2, 0, 0},
			score:    4,
			changed:  true,
		},
		{
			name:     "double merge",
			input:    [4]int{4, 4, 4, 4},
			expected: [4]int{8, 8, 0, 0},
			score:    16,
			changed:  true,
		},
		{
			name:     "no merge possible",
			input:    [4]int{2, 4, 8, 16},
			expected: [4]int{2, 4, 8, 16},
			score:    0,
			changed:  false,
		},
		{
			name:     "slide with gap",
			input:    [4]int{0, 0, 2, 2},
			expected: [4]int{4, 0, 0, 0},
			score:    4,
			changed:  true,
		},
		{
			name:     "slide with multiple gaps",
			input:    [4]int{2, 0, 0, 2},
			expected: [4]int{4, 0, 0, 0},
			score:    4,
			changed:  true,
		},
		{
			name:     "already compact",
			input:    [4]int{4, 2, 0, 0},
			expected: [4]int{4, 2, 0, 0},
			score:    0,
			changed:  false,
		},
		{
			name:     "empty row",
			input:    [4]int{0, 0, 0, 0},
			expected: [4]int{0, 0, 0, 0},
			score:    0,
			changed:  false,
		},
		{
			name:     "single tile",
			input:    [4]int{0, 4, 0, 0},
			expected: [4]int{4, 0, 0, 0},
			score:    0,
			changed:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(rowBoard(t, tt.input), DirLeft)
			got := res.Board.Values()[0]
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Fatalf("Resolve(%v, left) row = %v, want %v", tt.input, got, tt.expected)
				}
			}
			if score := ScoreDelta(res); score != tt.score {
				t.Errorf("Resolve(%v, left) score = %d, want %d", tt.input, score, tt.score)
			}
			if res.Changed != tt.changed {
				t.Errorf("Resolve(%v, left) changed = %v, want %v", tt.input, res.Changed, tt.changed)
			}
		})
	}
}

func TestResolveAllDirections(t *testing.T) {
	tests := []struct {
		name     string
		dir      Direction
		board    [][]int
		expected [][]int
		score    int
	}{
		{
			name: "left",
			dir:  DirLeft,
			board: [][]int{
				{2, 2, 0, 0},
				{4, 0, 4, 0},
				{2, 2, 2, 2},
				{0, 0, 0, 2},
			},
			expected: [][]int{
				{4, 0, 0, 0},
				{8, 0, 0, 0},
				{4, 4, 0, 0},
				{2, 0, 0, 0},
			},
			score: 20,
		},
		{
			name: "right",
			dir:  DirRight,
			board: [][]int{
				{2, 2, 0, 0},
				{4, 0, 4, 0},
				{2, 2, 2, 2},
				{0, 0, 0, 2},
			},
			expected: [][]int{
				{0, 0, 0, 4},
				{0, 0, 0, 8},
				{0, 0, 4, 4},
				{0, 0, 0, 2},
			},
			score: 20,
		},
		{
			name: "up",
			dir:  DirUp,
			board: [][]int{
				{2, 4, 2, 0},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 2},
			},
			expected: [][]int{
				{4, 8, 4, 2},
				{0, 0, 4, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			score: 20,
		},
		{
			name: "down",
			dir:  DirDown,
			board: [][]int{
				{2, 4, 2, 2},
				{2, 0, 2, 0},
				{0, 4, 2, 0},
				{0, 0, 2, 0},
			},
			expected: [][]int{
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 4, 0},
				{4, 8, 4, 2},
			},
			score: 20,
		},
		{
			name: "down on a wide board",
			dir:  DirDown,
			board: [][]int{
				{2, 0, 8, 0, 2},
				{2, 4, 0, 0, 2},
			},
			expected: [][]int{
				{0, 0, 0, 0, 0},
				{4, 4, 8, 0, 4},
			},
			score: 8,
		},
		{
			name: "right on a tall board",
			dir:  DirRight,
			board: [][]int{
				{2, 2},
				{0, 4},
				{8, 0},
				{16, 16},
				{0, 0},
			},
			expected: [][]int{
				{0, 4},
				{0, 4},
				{0, 8},
				{0, 32},
				{0, 0},
			},
			score: 36,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(mustBoard(t, tt.board), tt.dir)
			if got := res.Board.Values(); !equalValues(got, tt.expected) {
				t.Errorf("Resolve(%s): got\n%v\nwant\n%v", tt.dir, got, tt.expected)
			}
			if score := ScoreDelta(res); score != tt.score {
				t.Errorf("Resolve(%s) score = %d, want %d", tt.dir, score, tt.score)
			}
			if !res.Changed {
				t.Errorf("Resolve(%s) should indicate board changed", tt.dir)
			}
		})
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	values := [][]int{
		{2, 2, 0, 4},
		{0, 4, 4, 0},
	}
	b := mustBoard(t, values)
	Resolve(b, DirLeft)

	if got := b.Values(); !equalValues(got, values) {
		t.Errorf("input board changed: got %v, want %v", got, values)
	}
}

func TestResolveDestinationsAndMergeRecords(t *testing.T) {
	// Row [2, _, 2, 2]: the pair at columns 0 and 2 merges at column 0,
	// the tile from column 3 lands at column 1.
	b := rowBoard(t, [4]int{2, 0, 2, 2})
	first := b.Tile(Coord{0, 0})
	second := b.Tile(Coord{0, 2})
	third := b.Tile(Coord{0, 3})

	res := Resolve(b, DirLeft)

	if len(res.Merges) != 1 {
		t.Fatalf("merges = %d, want 1", len(res.Merges))
	}
	m := res.Merges[0]
	if m.Leading.ID != first.ID || m.Trailing.ID != second.ID {
		t.Errorf("merge pair = (%d, %d), want (%d, %d)", m.Leading.ID, m.Trailing.ID, first.ID, second.ID)
	}
	if m.At != (Coord{0, 0}) || m.Result.Value != 4 {
		t.Errorf("merge result = %v at %v, want value 4 at (0,0)", m.Result, m.At)
	}
	if m.Result.ID == first.ID || m.Result.ID == second.ID {
		t.Error("merge result must be a new tile identity")
	}
	if got := res.Board.Tile(Coord{0, 0}); got.ID != m.Result.ID {
		t.Errorf("board holds tile %d at (0,0), want merge result %d", got.ID, m.Result.ID)
	}

	byID := make(map[uint64]Movement)
	for _, mv := range res.Movements {
		byID[mv.Tile.ID] = mv
	}

	if mv := byID[second.ID]; mv.MergedInto != first.ID || mv.To != byID[first.ID].To {
		t.Errorf("consumed tile movement = %+v, want merged into %d at partner destination", mv, first.ID)
	}
	if mv := byID[first.ID]; !mv.Merged || mv.Moved() {
		t.Errorf("leading tile movement = %+v, want merged in place", mv)
	}
	if mv := byID[third.ID]; mv.To != (Coord{0, 1}) || mv.MergedInto != 0 {
		t.Errorf("lone tile movement = %+v, want destination (0,1)", mv)
	}
	if got := res.Board.Tile(Coord{0, 1}); got.ID != third.ID {
		t.Error("surviving tile should keep its identity")
	}
}

func TestResolveNoOpDestinationsEqualPositions(t *testing.T) {
	b := mustBoard(t, [][]int{
		{2, 4, 8},
		{4, 8, 2},
	})
	res := Resolve(b, DirLeft)

	if res.Changed {
		t.Error("full compacted board with no pairs should not change")
	}
	for _, mv := range res.Movements {
		if mv.Moved() {
			t.Errorf("tile %d moved from %v to %v", mv.Tile.ID, mv.From, mv.To)
		}
	}
}

// randomBoard fills roughly half of a rows x columns board with small powers of two.
func randomBoard(t *testing.T, rng *rand.Rand, rows, columns int) *Board {
	t.Helper()
	b, err := EmptyMatrix(rows, columns)
	if err != nil {
		t.Fatal(err)
	}
	for r := range rows {
		for c := range columns {
			if rng.Intn(2) == 0 {
				b.Place(Coord{r, c}, 2<<rng.Intn(3))
			}
		}
	}
	return b
}

func TestResolveSecondPassOnlyMergesFreshResults(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := range 300 {
		b := randomBoard(t, rng, 2+rng.Intn(4), 2+rng.Intn(4))
		for _, dir := range Directions {
			first := Resolve(b, dir)
			second := Resolve(first.Board, dir)

			fresh := make(map[uint64]bool)
			for _, m := range first.Merges {
				fresh[m.Result.ID] = true
			}

			for _, m := range second.Merges {
				if !fresh[m.Leading.ID] && !fresh[m.Trailing.ID] {
					t.Fatalf("trial %d %s: second pass merged two tiles untouched by the first: %v", trial, dir, b.Values())
				}
			}
			for _, mv := range second.Movements {
				if mv.Moved() && mv.MergedInto == 0 && !mv.Merged {
					// A plain slide after a plain compaction means a gap survived.
					if len(second.Merges) == 0 {
						t.Fatalf("trial %d %s: second pass slid tile without merges: %v", trial, dir, b.Values())
					}
				}
			}
			if len(first.Merges) == 0 && second.Changed {
				t.Fatalf("trial %d %s: merge-free resolution is not idempotent: %v", trial, dir, b.Values())
			}
		}
	}
}

func TestResolveFirstPassLeavesNoGaps(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for range 200 {
		b := randomBoard(t, rng, 4, 4)
		for _, dir := range Directions {
			res := Resolve(b, dir)
			for idx := range res.Board.LineCount(dir) {
				sawGap := false
				for _, c := range res.Board.CellsInLine(dir, idx) {
					empty := res.Board.Tile(c).Empty()
					if !empty && sawGap {
						t.Fatalf("%s: gap before tile at %v in %v", dir, c, res.Board.Values())
					}
					if empty {
						sawGap = true
					}
				}
			}
		}
	}
}

func TestAvailabilityMatchesResolution(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for range 500 {
		b := randomBoard(t, rng, 2+rng.Intn(3), 2+rng.Intn(3))
		for _, dir := range Directions {
			res := Resolve(b, dir)
			if got := IsAvailable(b, dir); got != res.Changed {
				t.Fatalf("IsAvailable(%s) = %v but Resolve changed = %v for %v", dir, got, res.Changed, b.Values())
			}
		}
	}
}

func TestResolveConservesValueAndScores(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	for range 300 {
		b := randomBoard(t, rng, 4, 4)
		for _, dir := range Directions {
			res := Resolve(b, dir)
			if res.Board.Sum() != b.Sum() {
				t.Fatalf("%s: sum changed from %d to %d", dir, b.Sum(), res.Board.Sum())
			}

			want := 0
			for _, m := range res.Merges {
				if m.Result.Value != 2*m.Leading.Value || m.Leading.Value != m.Trailing.Value {
					t.Fatalf("%s: bad merge %+v", dir, m)
				}
				want += m.Result.Value
			}
			if got := ScoreDelta(res); got != want {
				t.Fatalf("%s: ScoreDelta = %d, want %d", dir, got, want)
			}
		}
	}
}

func TestResolveLineOrderIrrelevant(t *testing.T) {
	rng := rand.New(rand.NewSource(9))

	for range 200 {
		b := randomBoard(t, rng, 4, 5)
		for _, dir := range Directions {
			order := rng.Perm(b.LineCount(dir))
			shuffled := resolveLines(b, dir, order)
			straight := Resolve(b, dir)

			if !shuffled.Board.Equal(straight.Board) {
				t.Fatalf("%s: line order %v changed the outcome", dir, order)
			}
			if ScoreDelta(shuffled) != ScoreDelta(straight) {
				t.Fatalf("%s: line order %v changed the score", dir, order)
			}
		}
	}
}
