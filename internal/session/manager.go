package session

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

var (
	// ErrSessionNotFound is returned for ids the manager does not know.
	ErrSessionNotFound = errors.New("session: not found")

	// ErrBoardSize is returned when requested dimensions fall outside the limits.
	ErrBoardSize = errors.New("session: board size out of range")
)

// ManagerConfig holds configuration for the manager.
type ManagerConfig struct {
	MinSize       int
	MaxSize       int
	Spawn4        float64
	IdleTTL       time.Duration // Sessions untouched for this long are dropped
	CleanupPeriod time.Duration // How often to look for idle sessions
	Seed          int64         // 0 seeds from the clock
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MinSize:       engine.MinSize,
		MaxSize:       8,
		Spawn4:        engine.DefaultSpawn4Probability,
		IdleTTL:       30 * time.Minute,
		CleanupPeriod: time.Minute,
	}
}

// entry pairs a session with the lock that serializes its moves.
type entry struct {
	mu      sync.Mutex
	session *Session
	subs    map[*Subscription]struct{}
}

// Manager keeps live sessions keyed by id. Operations on different ids run
// in parallel; operations on the same id never interleave.
type Manager struct {
	config ManagerConfig
	logger *log.Logger

	seedMu sync.Mutex
	seeds  *rand.Rand

	mu       sync.RWMutex
	sessions map[string]*entry

	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a new manager. A nil logger discards output.
func NewManager(cfg ManagerConfig, logger *log.Logger) *Manager {
	if cfg.MinSize < engine.MinSize {
		cfg.MinSize = engine.MinSize
	}
	if cfg.MaxSize < cfg.MinSize {
		cfg.MaxSize = cfg.MinSize
	}
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = time.Minute
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Manager{
		config:   cfg,
		logger:   logger,
		seeds:    rand.New(rand.NewSource(seed)),
		sessions: make(map[string]*entry),
		done:     make(chan struct{}),
	}
}

// Config returns the manager configuration.
func (m *Manager) Config() ManagerConfig {
	return m.config
}

// Start begins the idle-session cleanup loop.
func (m *Manager) Start() {
	go m.cleanupLoop()
}

// Stop shuts down the cleanup loop. Safe to call multiple times.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
	})
}

// ValidateSize checks dimensions against the configured limits.
func (m *Manager) ValidateSize(rows, columns int) error {
	if rows < m.config.MinSize || rows > m.config.MaxSize ||
		columns < m.config.MinSize || columns > m.config.MaxSize {
		return fmt.Errorf("%w: %dx%d not within %d..%d", ErrBoardSize, rows, columns, m.config.MinSize, m.config.MaxSize)
	}
	return nil
}

// NewSession starts a game with random tile spawns and returns its snapshot.
func (m *Manager) NewSession(rows, columns int) (Snapshot, error) {
	if err := m.ValidateSize(rows, columns); err != nil {
		return Snapshot{}, err
	}

	s, err := New(uuid.NewString(), rows, columns, engine.NewRandomSource(m.nextSeed(), m.config.Spawn4))
	if err != nil {
		return Snapshot{}, err
	}
	m.add(s)
	m.logger.Debug("session created", "id", s.ID(), "rows", rows, "columns", columns)
	return s.Snapshot(), nil
}

// Replay rebuilds a game from its history and keeps it as a live session.
func (m *Manager) Replay(rows, columns int, tiles []engine.Placement, moves []engine.Direction) (Snapshot, error) {
	if err := m.ValidateSize(rows, columns); err != nil {
		return Snapshot{}, err
	}
	s, err := Replay(uuid.NewString(), rows, columns, tiles, moves)
	if err != nil {
		return Snapshot{}, err
	}
	// Play continues with random spawns once the recording is exhausted.
	s.source = engine.NewRandomSource(m.nextSeed(), m.config.Spawn4)
	m.add(s)
	m.logger.Debug("session replayed", "id", s.ID(), "moves", len(moves))
	return s.Snapshot(), nil
}

// ApplyMove applies dir to the session with the given id.
func (m *Manager) ApplyMove(id string, dir engine.Direction) (MoveResult, error) {
	if !dir.Valid() {
		return MoveResult{}, fmt.Errorf("%w: %d", engine.ErrInvalidDirection, int(dir))
	}
	e, ok := m.get(id)
	if !ok {
		return MoveResult{}, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	result := e.session.Apply(dir)
	if result.Applied {
		m.logger.Debug("move applied", "id", id, "direction", dir, "score", result.Score, "terminal", result.Terminal)
		for sub := range e.subs {
			sub.send(result)
		}
	}
	return result, nil
}

// CurrentState returns a snapshot of the session.
func (m *Manager) CurrentState(id string) (Snapshot, error) {
	e, ok := m.get(id)
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Snapshot(), nil
}

// Finish removes the session and returns its final snapshot.
func (m *Manager) Finish(id string) (Snapshot, error) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	m.closeSubscribers(e)
	snap := e.session.Snapshot()
	m.logger.Debug("session finished", "id", id, "score", snap.Score, "max_tile", snap.MaxTile)
	return snap, nil
}

// Subscribe registers for applied-move notifications on a session.
func (m *Manager) Subscribe(id string, buffer int) (*Subscription, error) {
	e, ok := m.get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sub := newSubscription(buffer)

	e.mu.Lock()
	e.subs[sub] = struct{}{}
	e.mu.Unlock()

	sub.cancel = func() {
		e.mu.Lock()
		delete(e.subs, sub)
		e.mu.Unlock()
		sub.close()
	}
	return sub, nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) add(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = &entry{
		session: s,
		subs:    make(map[*Subscription]struct{}),
	}
}

func (m *Manager) get(id string) (*entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	return e, ok
}

func (m *Manager) nextSeed() int64 {
	m.seedMu.Lock()
	defer m.seedMu.Unlock()
	return m.seeds.Int63()
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(m.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.expireIdle(time.Now())
		case <-m.done:
			return
		}
	}
}

// expireIdle drops sessions idle for longer than IdleTTL and returns how
// many were removed.
func (m *Manager) expireIdle(now time.Time) int {
	if m.config.IdleTTL <= 0 {
		return 0
	}

	m.mu.Lock()
	var expired []*entry
	for id, e := range m.sessions {
		e.mu.Lock()
		idle := now.Sub(e.session.UpdatedAt()) > m.config.IdleTTL
		e.mu.Unlock()
		if idle {
			expired = append(expired, e)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, e := range expired {
		e.mu.Lock()
		m.closeSubscribers(e)
		e.mu.Unlock()
		m.logger.Info("session expired", "id", e.session.ID())
	}
	return len(expired)
}

// closeSubscribers must be called with e.mu held.
func (m *Manager) closeSubscribers(e *entry) {
	for sub := range e.subs {
		sub.close()
		delete(e.subs, sub)
	}
}
