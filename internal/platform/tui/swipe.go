package tui

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

const (
	defaultSwipeMinLength = 2.0
	// Terminal cells are roughly twice as tall as they are wide.
	defaultCellAspect = 2.0
)

// Swipe turns a mouse press/release pair into a slide direction.
type Swipe struct {
	MinLength  float64 // drags shorter than this, in column widths, are ignored
	CellAspect float64 // height of a cell relative to its width

	pressed bool
	x0, y0  int
}

// NewSwipe returns a swipe mapper with default thresholds.
func NewSwipe() Swipe {
	return Swipe{MinLength: defaultSwipeMinLength, CellAspect: defaultCellAspect}
}

// Handle feeds a mouse message into the mapper. It returns a direction once a
// left-button drag is released far enough from where it started.
func (s *Swipe) Handle(msg tea.MouseMsg) (engine.Direction, bool) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return 0, false
	}
	switch msg.Action {
	case tea.MouseActionPress:
		s.pressed = true
		s.x0, s.y0 = msg.X, msg.Y
	case tea.MouseActionRelease:
		if !s.pressed {
			return 0, false
		}
		s.pressed = false
		return s.Direction(msg.X-s.x0, msg.Y-s.y0)
	}
	return 0, false
}

// Direction quantizes a drag of (dx, dy) terminal cells, y growing downward,
// into one of four 90° sectors centred on the axes.
func (s Swipe) Direction(dx, dy int) (engine.Direction, bool) {
	aspect := s.CellAspect
	if aspect <= 0 {
		aspect = 1
	}
	x := float64(dx)
	y := -float64(dy) * aspect // up is positive
	if math.Hypot(x, y) < s.MinLength {
		return 0, false
	}
	return quantize(math.Atan2(y, x)), true
}

func quantize(theta float64) engine.Direction {
	switch {
	case theta < -3*math.Pi/4:
		return engine.DirLeft
	case theta < -math.Pi/4:
		return engine.DirDown
	case theta < math.Pi/4:
		return engine.DirRight
	case theta < 3*math.Pi/4:
		return engine.DirUp
	default:
		return engine.DirLeft
	}
}
