package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

func TestScoreboardCyclesBoardSizes(t *testing.T) {
	store := openStore(t)
	for _, e := range []storage.ScoreEntry{
		{Name: "ann", Score: 120, Rows: 4, Columns: 4, MaxTile: 32},
		{Name: "ben", Score: 300, Rows: 4, Columns: 4, MaxTile: 64},
		{Name: "cat", Score: 40, Rows: 3, Columns: 3, MaxTile: 16},
	} {
		_, err := store.SaveScore(e)
		require.NoError(t, err)
	}

	m := NewScoreboardModel(store, BoardSize{Rows: 4, Columns: 4}, 10, 100, 30)
	assert.Equal(t, []BoardSize{{3, 3}, {4, 4}}, m.sizes)
	assert.Equal(t, 1, m.sizeCursor)
	require.Len(t, m.scores, 2)
	assert.Equal(t, "ben", m.scores[0].Name)
	assert.Contains(t, m.View(), "HIGH SCORES - 4x4")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	assert.Equal(t, BoardSize{Rows: 3, Columns: 3}, m.current())
	require.Len(t, m.scores, 1)
	assert.Equal(t, "cat", m.scores[0].Name)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	assert.Equal(t, BoardSize{Rows: 4, Columns: 4}, m.current())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(ScoreboardModel)
	assert.True(t, m.IsGoingBack())
	assert.False(t, m.IsQuitting())
	require.NotNil(t, cmd)
}

func TestScoreboardUnplayedSize(t *testing.T) {
	m := NewScoreboardModel(nil, BoardSize{Rows: 5, Columns: 5}, 0, 60, 20)
	assert.Equal(t, []BoardSize{{5, 5}}, m.sizes)
	assert.Empty(t, m.scores)
	assert.Contains(t, m.View(), "No scores recorded yet")
}

func TestMenuSelectsSize(t *testing.T) {
	m := NewMenuModel(3, 6, BoardSize{Rows: 4, Columns: 4}, 80, 24)
	require.Len(t, m.sizes, 4)
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.View(), "> 4x4")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(MenuModel)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	require.NotNil(t, cmd)
	require.NotNil(t, m.Selected())
	assert.Equal(t, BoardSize{Rows: 5, Columns: 5}, m.Selected().Size)
	assert.False(t, m.Selected().Scoreboard)
}

func TestMenuOpensScoreboardAndQuits(t *testing.T) {
	m := NewMenuModel(3, 4, BoardSize{}, 80, 24)
	assert.Equal(t, 0, m.cursor)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	sel := next.(MenuModel).Selected()
	require.NotNil(t, sel)
	assert.True(t, sel.Scoreboard)
	assert.Equal(t, BoardSize{Rows: 3, Columns: 3}, sel.Size)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Nil(t, next.(MenuModel).Selected())
	assert.Empty(t, next.(MenuModel).View())
}
