package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// MenuKeyMap defines the key bindings for the board size menu.
type MenuKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Scoreboard key.Binding
	Quit       key.Binding
}

// DefaultMenuKeyMap returns default menu bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "w", "k")),
		Down:       key.NewBinding(key.WithKeys("down", "s", "j")),
		Select:     key.NewBinding(key.WithKeys("enter", " ")),
		Scoreboard: key.NewBinding(key.WithKeys("tab")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c", "esc")),
	}
}

// MenuSelection is the outcome of the board size menu.
type MenuSelection struct {
	Size       BoardSize
	Scoreboard bool // open the high scores instead of playing
}

// MenuModel lets the player pick a square board size.
type MenuModel struct {
	sizes    []BoardSize
	cursor   int
	width    int
	height   int
	keys     MenuKeyMap
	selected *MenuSelection
	quitting bool
}

// NewMenuModel lists square boards from minSize to maxSize with the cursor on
// preferred when it is one of them.
func NewMenuModel(minSize, maxSize int, preferred BoardSize, width, height int) MenuModel {
	m := MenuModel{
		width:  width,
		height: height,
		keys:   DefaultMenuKeyMap(),
	}
	for n := minSize; n <= maxSize; n++ {
		size := BoardSize{Rows: n, Columns: n}
		if size == preferred {
			m.cursor = len(m.sizes)
		}
		m.sizes = append(m.sizes, size)
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.sizes)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.sizes) > 0 {
			m.selected = &MenuSelection{Size: m.sizes[m.cursor]}
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.Scoreboard):
		if len(m.sizes) > 0 {
			m.selected = &MenuSelection{Size: m.sizes[m.cursor], Scoreboard: true}
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("2 0 4 8"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select board size:", m.width))
	b.WriteString("\n\n")

	for i, size := range m.sizes {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, size), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("Enter: Play  |  Tab: High scores  |  Q: Quit"), m.width))

	return b.String()
}

// Selected returns the selection, or nil if the player quit.
func (m MenuModel) Selected() *MenuSelection {
	return m.selected
}

// RunMenu shows the board size menu and returns the player's choice, or nil
// if they quit.
func RunMenu(minSize, maxSize int, preferred BoardSize, width, height int) (*MenuSelection, error) {
	p := tea.NewProgram(
		NewMenuModel(minSize, maxSize, preferred, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return nil, nil
	}
	return m.Selected(), nil
}
