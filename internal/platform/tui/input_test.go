package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapDirection(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want engine.Direction
		ok   bool
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, engine.DirUp, true},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, engine.DirDown, true},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, engine.DirLeft, true},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, engine.DirRight, true},
		{"w", runes("w"), engine.DirUp, true},
		{"a", runes("a"), engine.DirLeft, true},
		{"s", runes("s"), engine.DirDown, true},
		{"d", runes("d"), engine.DirRight, true},
		{"vim k", runes("k"), engine.DirUp, true},
		{"vim j", runes("j"), engine.DirDown, true},
		{"vim h", runes("h"), engine.DirLeft, true},
		{"vim l", runes("l"), engine.DirRight, true},
		{"hint", runes("H"), 0, false},
		{"restart", runes("r"), 0, false},
		{"quit", runes("q"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := km.Direction(tt.msg)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSwipeDirection(t *testing.T) {
	s := NewSwipe()

	tests := []struct {
		name   string
		dx, dy int
		want   engine.Direction
		ok     bool
	}{
		{"right", 5, 0, engine.DirRight, true},
		{"left", -5, 0, engine.DirLeft, true},
		{"up", 0, -3, engine.DirUp, true},
		{"down", 0, 3, engine.DirDown, true},
		{"mostly right", 4, -1, engine.DirRight, true},
		{"mostly up", 2, -2, engine.DirUp, true},
		{"mostly left", -6, 1, engine.DirLeft, true},
		{"mostly down", -1, 2, engine.DirDown, true},
		{"one row counts double", 0, 1, engine.DirDown, true},
		{"too short", 1, 0, 0, false},
		{"no movement", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Direction(tt.dx, tt.dy)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSwipeHandle(t *testing.T) {
	press := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}
	release := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
	}

	t.Run("drag", func(t *testing.T) {
		s := NewSwipe()
		_, ok := s.Handle(press(10, 10))
		assert.False(t, ok)
		_, ok = s.Handle(tea.MouseMsg{X: 14, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
		assert.False(t, ok)
		dir, ok := s.Handle(release(20, 10))
		assert.True(t, ok)
		assert.Equal(t, engine.DirRight, dir)
	})

	t.Run("release without press", func(t *testing.T) {
		s := NewSwipe()
		_, ok := s.Handle(release(20, 10))
		assert.False(t, ok)
	})

	t.Run("right button ignored", func(t *testing.T) {
		s := NewSwipe()
		s.Handle(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
		_, ok := s.Handle(release(20, 10))
		assert.False(t, ok)
	})

	t.Run("press consumed once", func(t *testing.T) {
		s := NewSwipe()
		s.Handle(press(10, 10))
		_, ok := s.Handle(release(10, 2))
		assert.True(t, ok)
		_, ok = s.Handle(release(10, 20))
		assert.False(t, ok)
	})
}

func TestRenderBoard(t *testing.T) {
	out := RenderBoard([][]int{{2, 0}, {0, 2048}}, nil)
	assert.Contains(t, out, "2048")
	assert.Contains(t, out, "2")

	// Exponents past the palette reuse its last entry.
	assert.NotPanics(t, func() { tileStyle(1 << 20) })
}
