package session

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

func dictated(ps ...engine.Placement) *engine.DictatedSource {
	return engine.NewDictatedSource(ps...)
}

func TestNewDealsStartingTiles(t *testing.T) {
	s, err := New("g1", 4, 4, engine.NewRandomSource(7, engine.DefaultSpawn4Probability))
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, "g1", snap.ID)
	assert.Equal(t, 4, snap.Rows)
	assert.Equal(t, 4, snap.Columns)
	assert.Len(t, snap.TileHistory, StartingTiles)
	assert.Len(t, s.StartingTiles(), StartingTiles)
	assert.Zero(t, snap.Score)
	assert.False(t, snap.Terminal)
	assert.True(t, snap.Available.Any())

	filled := 0
	for _, row := range snap.Board {
		for _, v := range row {
			if v != 0 {
				filled++
				assert.Contains(t, []int{2, 4}, v)
			}
		}
	}
	assert.Equal(t, StartingTiles, filled)
}

func TestNewRejectsInvalidSize(t *testing.T) {
	_, err := New("bad", 1, 4, dictated())
	require.ErrorIs(t, err, engine.ErrInvalidSize)
}

func TestApplyMergesAndSpawns(t *testing.T) {
	s, err := New("g", 4, 4, dictated(
		engine.Placement{Row: 0, Column: 0, Value: 2},
		engine.Placement{Row: 0, Column: 1, Value: 2},
		engine.Placement{Row: 3, Column: 3, Value: 2},
	))
	require.NoError(t, err)

	res := s.Apply(engine.DirLeft)
	require.True(t, res.Applied)
	assert.NoError(t, res.Reason)
	assert.Equal(t, 4, res.ScoreDelta)
	assert.Equal(t, 4, res.Score)
	require.Len(t, res.Merges, 1)
	assert.Equal(t, 4, res.Merges[0].Result.Value)
	require.NotNil(t, res.NewTile)
	assert.Equal(t, engine.Placement{Row: 3, Column: 3, Value: 2}, *res.NewTile)

	want := [][]int{
		{4, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 2},
	}
	snap := s.Snapshot()
	assert.Equal(t, want, snap.Board)
	assert.Equal(t, []engine.Direction{engine.DirLeft}, snap.MoveHistory)
	assert.Len(t, snap.TileHistory, 3)
	assert.Equal(t, res.Available, snap.Available)
}

func TestApplyRejectsUnavailableMove(t *testing.T) {
	s, err := New("g", 3, 3, dictated(
		engine.Placement{Row: 0, Column: 0, Value: 2},
		engine.Placement{Row: 0, Column: 1, Value: 4},
	))
	require.NoError(t, err)
	before := s.Snapshot()

	res := s.Apply(engine.DirLeft)
	assert.False(t, res.Applied)
	assert.ErrorIs(t, res.Reason, ErrMoveRejected)
	assert.Nil(t, res.NewTile)
	assert.Equal(t, before.Board, s.Snapshot().Board)
	assert.Empty(t, s.Snapshot().MoveHistory)

	res = s.Apply(engine.DirUp)
	assert.ErrorIs(t, res.Reason, ErrMoveRejected)
}

func TestApplyReachesGameOver(t *testing.T) {
	s, err := New("g", 2, 2, dictated(
		engine.Placement{Row: 0, Column: 0, Value: 2},
		engine.Placement{Row: 0, Column: 1, Value: 4},
		engine.Placement{Row: 0, Column: 0, Value: 8},
		engine.Placement{Row: 0, Column: 0, Value: 16},
	))
	require.NoError(t, err)

	res := s.Apply(engine.DirDown)
	require.True(t, res.Applied)
	assert.Equal(t, [][]int{{8, 0}, {2, 4}}, s.Snapshot().Board)
	assert.False(t, res.Terminal)

	res = s.Apply(engine.DirRight)
	require.True(t, res.Applied)
	assert.Equal(t, [][]int{{16, 8}, {2, 4}}, s.Snapshot().Board)
	assert.True(t, res.Terminal)
	assert.False(t, res.Available.Any())
	assert.True(t, s.Terminal())

	for _, d := range engine.Directions {
		res = s.Apply(d)
		assert.False(t, res.Applied)
		assert.ErrorIs(t, res.Reason, ErrGameOver)
	}
	assert.Zero(t, s.Score())
}

func TestSnapshotIsACopy(t *testing.T) {
	s, err := New("g", 3, 3, engine.NewRandomSource(3, 0.1))
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Board[0][0] = 4096
	snap.TileHistory[0].Value = 4096

	fresh := s.Snapshot()
	assert.NotEqual(t, 4096, fresh.Board[0][0])
	assert.NotEqual(t, 4096, fresh.TileHistory[0].Value)
}

// playRandom applies random available moves until the game ends or limit
// moves have been made.
func playRandom(s *Session, rng *rand.Rand, limit int) {
	for range limit {
		avail := s.Available().List()
		if len(avail) == 0 {
			return
		}
		s.Apply(avail[rng.Intn(len(avail))])
	}
}

func TestReplayReproducesGame(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for _, size := range [][2]int{{4, 4}, {3, 5}, {6, 3}} {
		s, err := New("orig", size[0], size[1], engine.NewRandomSource(rng.Int63(), engine.DefaultSpawn4Probability))
		require.NoError(t, err)
		playRandom(s, rng, 300)
		orig := s.Snapshot()

		replayed, err := Replay("copy", orig.Rows, orig.Columns, orig.TileHistory, orig.MoveHistory)
		require.NoError(t, err)

		got := replayed.Snapshot()
		assert.Equal(t, orig.Board, got.Board)
		assert.Equal(t, orig.Score, got.Score)
		assert.Equal(t, orig.Terminal, got.Terminal)
		assert.Equal(t, orig.Available, got.Available)
		assert.Equal(t, orig.TileHistory, got.TileHistory)
	}
}

func TestReplayRejectsBadHistory(t *testing.T) {
	tiles := []engine.Placement{
		{Row: 0, Column: 0, Value: 2},
		{Row: 0, Column: 1, Value: 4},
		{Row: 2, Column: 2, Value: 2},
	}

	t.Run("too few tiles", func(t *testing.T) {
		_, err := Replay("r", 3, 3, tiles[:2], []engine.Direction{engine.DirDown})
		require.Error(t, err)
	})

	t.Run("unavailable move", func(t *testing.T) {
		_, err := Replay("r", 3, 3, tiles, []engine.Direction{engine.DirLeft})
		require.ErrorIs(t, err, ErrMoveRejected)
	})

	t.Run("tile on occupied cell", func(t *testing.T) {
		bad := append([]engine.Placement(nil), tiles...)
		bad[2] = engine.Placement{Row: 2, Column: 0, Value: 2}
		_, err := Replay("r", 3, 3, bad, []engine.Direction{engine.DirDown})
		require.ErrorIs(t, err, engine.ErrDictatedOccupied)
	})

	t.Run("invalid direction", func(t *testing.T) {
		_, err := Replay("r", 3, 3, tiles, []engine.Direction{engine.Direction(7)})
		require.ErrorIs(t, err, engine.ErrInvalidDirection)
	})
}
