package tui

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/hint"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Leaderboard records final scores and reads the best ones back.
type Leaderboard interface {
	RecordFinished(snap session.Snapshot, name string) (int64, error)
	TopScores(rows, columns, limit int) ([]storage.ScoreEntry, error)
}

// Options configures a game model.
type Options struct {
	Rows    int
	Columns int
	Spawn4  float64
	Seed    int64  // 0 = time based
	Name    string // leaderboard name

	// Source, when set, deals the tiles of the first game. Restarts always
	// use a random source.
	Source engine.TileSource

	Scores          Leaderboard // nil disables saving
	LeaderboardSize int
	Oracle          hint.Oracle // nil disables hints
	HintTimeout     time.Duration
	Logger          *log.Logger
}

type hintMsg struct {
	id  string
	dir engine.Direction
	err error
}

type scoresMsg struct {
	id      string
	entries []storage.ScoreEntry
	err     error
}

// Model is the Bubble Tea model for one player at one board.
type Model struct {
	opts  Options
	seeds *rand.Rand
	sess  *session.Session

	keys  KeyMap
	help  help.Model
	swipe Swipe

	marked  map[engine.Coord]bool
	moveSeq int
	status  string
	hinting bool

	saved      bool
	showScores bool
	scores     []storage.ScoreEntry
	scoreTable table.Model

	width    int
	height   int
	quitting bool
}

// NewModel creates a model and deals the first game.
func NewModel(opts Options) (Model, error) {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.LeaderboardSize <= 0 {
		opts.LeaderboardSize = defaultTopScores
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	m := Model{
		opts:       opts,
		seeds:      rand.New(rand.NewSource(opts.Seed)),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		swipe:      NewSwipe(),
		scoreTable: newScoreTable(0, opts.LeaderboardSize),
	}

	src := opts.Source
	if src == nil {
		src = m.randomSource()
	}
	sess, err := session.New(uuid.NewString(), opts.Rows, opts.Columns, src)
	if err != nil {
		return Model{}, err
	}
	m.sess = sess
	return m, nil
}

func (m Model) randomSource() engine.TileSource {
	return engine.NewRandomSource(m.seeds.Int63(), m.opts.Spawn4)
}

// Session returns the current game.
func (m Model) Session() *session.Session {
	return m.sess
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if dir, ok := m.swipe.Handle(msg); ok {
			return m.move(dir)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case clearHighlightMsg:
		if msg.seq == m.moveSeq {
			m.marked = nil
		}
		return m, nil

	case hintMsg:
		return m.handleHint(msg), nil

	case scoresMsg:
		if msg.id != m.sess.ID() {
			return m, nil
		}
		if msg.err != nil {
			m.opts.Logger.Warn("leaderboard unavailable", "error", msg.err)
			m.status = "Could not reach the leaderboard"
			return m, nil
		}
		m.scores = msg.entries
		m.scoreTable.SetRows(scoreRows(msg.entries))
		m.scoreTable.GotoTop()
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		return m.restart(), nil

	case key.Matches(msg, m.keys.Hint):
		return m.requestHint()

	case key.Matches(msg, m.keys.Scores):
		m.showScores = !m.showScores
		if m.showScores {
			return m, m.loadScoresCmd()
		}
		return m, nil
	}

	if dir, ok := m.keys.Direction(msg); ok {
		return m.move(dir)
	}
	return m, nil
}

// move applies dir to the session. A finished game is saved once.
func (m Model) move(dir engine.Direction) (tea.Model, tea.Cmd) {
	res := m.sess.Apply(dir)
	if !res.Applied {
		if !res.Terminal {
			m.status = fmt.Sprintf("Can't move %s", dir)
		}
		return m, nil
	}

	m.status = ""
	m.moveSeq++
	m.marked = make(map[engine.Coord]bool, len(res.Merges)+1)
	for _, mg := range res.Merges {
		m.marked[mg.At] = true
	}
	if res.NewTile != nil {
		m.marked[res.NewTile.Coord()] = true
	}
	cmds := []tea.Cmd{clearHighlightCmd(m.moveSeq)}

	if res.Terminal && !m.saved {
		m.saved = true
		m.showScores = true
		cmds = append(cmds, m.saveCmd())
	}
	return m, tea.Batch(cmds...)
}

// restart deals a fresh game on the same board size.
func (m Model) restart() Model {
	sess, err := session.New(uuid.NewString(), m.opts.Rows, m.opts.Columns, m.randomSource())
	if err != nil {
		// The size was accepted for the first game.
		m.status = err.Error()
		return m
	}
	m.sess = sess
	m.saved = false
	m.showScores = false
	m.marked = nil
	m.status = ""
	m.hinting = false
	return m
}

func (m Model) requestHint() (tea.Model, tea.Cmd) {
	if m.opts.Oracle == nil || m.hinting || m.sess.Terminal() {
		return m, nil
	}
	m.hinting = true
	m.status = "Thinking..."

	oracle, timeout := m.opts.Oracle, m.opts.HintTimeout
	id, board := m.sess.ID(), m.sess.Board()
	return m, func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		dir, err := oracle.Suggest(ctx, board)
		return hintMsg{id: id, dir: dir, err: err}
	}
}

func (m Model) handleHint(msg hintMsg) Model {
	if msg.id != m.sess.ID() {
		return m
	}
	m.hinting = false
	if msg.err != nil {
		m.status = "No hint available"
		return m
	}
	m.status = "Hint: " + strings.ToUpper(msg.dir.String()[:1]) + msg.dir.String()[1:]
	return m
}

// saveCmd records the finished game and returns the refreshed top scores.
func (m Model) saveCmd() tea.Cmd {
	scores := m.opts.Scores
	if scores == nil {
		return nil
	}
	snap := m.sess.Snapshot()
	name, limit, logger := m.opts.Name, m.opts.LeaderboardSize, m.opts.Logger
	return func() tea.Msg {
		if _, err := scores.RecordFinished(snap, name); err != nil {
			return scoresMsg{id: snap.ID, err: err}
		}
		logger.Info("score saved", "name", name, "score", snap.Score, "board", fmt.Sprintf("%dx%d", snap.Rows, snap.Columns))
		entries, err := scores.TopScores(snap.Rows, snap.Columns, limit)
		return scoresMsg{id: snap.ID, entries: entries, err: err}
	}
}

func (m Model) loadScoresCmd() tea.Cmd {
	scores := m.opts.Scores
	if scores == nil {
		return nil
	}
	id, rows, columns, limit := m.sess.ID(), m.opts.Rows, m.opts.Columns, m.opts.LeaderboardSize
	return func() tea.Msg {
		entries, err := scores.TopScores(rows, columns, limit)
		return scoresMsg{id: id, entries: entries, err: err}
	}
}

// View renders the board, the score line and the help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.sess.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render("2 0 4 8"))
	b.WriteString("  ")
	b.WriteString(fmt.Sprintf("Score: %d  Best tile: %d  Moves: %d  (%dx%d)",
		snap.Score, snap.MaxTile, snap.Moves, snap.Rows, snap.Columns))
	b.WriteString("\n\n")

	board := RenderBoard(snap.Board, m.marked)
	if snap.Terminal {
		board = lipgloss.JoinVertical(lipgloss.Center, board,
			overlayStyle.Render("GAME OVER  -  press r to play again"))
	}
	if m.showScores && m.opts.Scores != nil {
		board = lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", m.renderScores())
	}
	b.WriteString(board)
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m Model) renderScores() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	if len(m.scores) == 0 {
		return style.Render(dimStyle.Italic(true).Render("No scores yet"))
	}
	return style.Render("Top scores\n" + m.scoreTable.View())
}

// Run starts the Bubble Tea program with the given options.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // swipe input
	)

	_, err = p.Run()
	return err
}
