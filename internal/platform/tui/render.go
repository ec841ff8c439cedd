package tui

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

const (
	tileWidth  = 7
	tileHeight = 3
)

// tilePalette maps a tile exponent (2 -> 1, 4 -> 2, ...) to background and
// foreground colors. Exponents past the end reuse the last entry.
var tilePalette = []struct{ bg, fg string }{
	{"236", "240"}, // empty
	{"230", "235"}, // 2
	{"223", "235"}, // 4
	{"215", "231"}, // 8
	{"209", "231"}, // 16
	{"203", "231"}, // 32
	{"196", "231"}, // 64
	{"228", "235"}, // 128
	{"227", "235"}, // 256
	{"226", "235"}, // 512
	{"220", "235"}, // 1024
	{"214", "231"}, // 2048
	{"57", "231"},  // 4096+
}

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(0, 2).
			Bold(true)
)

// tileStyle returns the style for a tile value.
func tileStyle(value int) lipgloss.Style {
	idx := 0
	if value > 0 {
		idx = bits.Len(uint(value)) - 1
	}
	if idx >= len(tilePalette) {
		idx = len(tilePalette) - 1
	}
	p := tilePalette[idx]
	return lipgloss.NewStyle().
		Width(tileWidth).
		Height(tileHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Background(lipgloss.Color(p.bg)).
		Foreground(lipgloss.Color(p.fg)).
		Bold(value >= 8)
}

// RenderBoard draws a value matrix as a grid of colored tiles. Cells in
// marked are drawn with an underline.
func RenderBoard(values [][]int, marked map[engine.Coord]bool) string {
	rows := make([]string, 0, len(values))
	for r, row := range values {
		cells := make([]string, 0, len(row)*2)
		for c, v := range row {
			if c > 0 {
				cells = append(cells, " ")
			}
			label := ""
			if v > 0 {
				label = strconv.Itoa(v)
			}
			st := tileStyle(v)
			if marked[engine.Coord{Row: r, Column: c}] {
				st = st.Underline(true).Blink(true)
			}
			cells = append(cells, st.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
