// Package session manages independent 2048 engines for network front
// ends. Each session owns one engine and serializes access to it.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/games/t2048/grid"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session: not found")

// ScoreSink receives the final score of every finished game.
// *storage.Store implements it.
type ScoreSink interface {
	SaveScore(gameID string, score int) (int64, error)
}

// Options configures a Manager.
type Options struct {
	Engine grid.Config
	// GameID is the score table sessions report to.
	GameID string
	// Seed makes sessions deterministic. Session n uses Seed+n; zero
	// seeds from the clock.
	Seed   int64
	Sink   ScoreSink
	Logger *log.Logger
}

// Manager owns a set of sessions keyed by uuid.
type Manager struct {
	opts Options

	mu       sync.RWMutex
	sessions map[string]*Session
	created  int64
}

// NewManager creates a manager. The engine configuration is checked up
// front so Create only fails on exhausted randomness.
func NewManager(opts Options) (*Manager, error) {
	if err := opts.Engine.Validate(); err != nil {
		return nil, err
	}
	if opts.GameID == "" {
		opts.GameID = "2048_endless"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Manager{
		opts:     opts,
		sessions: make(map[string]*Session),
	}, nil
}

// Create starts a new session with a fresh game.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seed := time.Now().UnixNano()
	if m.opts.Seed != 0 {
		seed = m.opts.Seed + m.created
	}

	engine, err := grid.New(m.opts.Engine, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, fmt.Errorf("session: cannot create engine: %w", err)
	}
	if _, err := engine.NewGame(); err != nil {
		return nil, fmt.Errorf("session: cannot start game: %w", err)
	}

	s := &Session{
		ID:      uuid.NewString(),
		Created: time.Now(),
		gameID:  m.opts.GameID,
		engine:  engine,
		sink:    m.opts.Sink,
		logger:  m.opts.Logger,
	}
	m.sessions[s.ID] = s
	m.created++

	m.opts.Logger.Debug("session created", "id", s.ID, "seed", seed)
	return s, nil
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete removes the session with id.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	m.opts.Logger.Debug("session deleted", "id", id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Info summarizes a session for listings.
type Info struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Score   int       `json:"score"`
	MaxTile int       `json:"max_tile"`
	Won     bool      `json:"won"`
	Over    bool      `json:"over"`
}

// List returns all sessions, oldest first.
func (m *Manager) List() []Info {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	infos := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		snap := s.Snapshot()
		infos = append(infos, Info{
			ID:      s.ID,
			Created: s.Created,
			Score:   snap.Score,
			MaxTile: snap.MaxTile(),
			Won:     snap.Won,
			Over:    snap.Over,
		})
	}
	slices.SortFunc(infos, func(a, b Info) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return infos
}

// Session is one running game. All methods are safe for concurrent use.
type Session struct {
	ID      string
	Created time.Time

	gameID string
	sink   ScoreSink
	logger *log.Logger

	mu       sync.Mutex
	engine   *grid.Engine
	recorded bool // Final score handed to the sink
}

// Do runs fn with exclusive access to the engine. A game that is over
// when fn returns has its score reported to the sink once.
func (s *Session) Do(fn func(e *grid.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fn(s.engine)
	s.recordLocked()
	return err
}

func (s *Session) recordLocked() {
	if !s.engine.Over() {
		s.recorded = false
		return
	}
	if s.recorded {
		return
	}
	s.recorded = true
	s.logger.Info("game over", "session", s.ID, "score", s.engine.Score())
	// Scoreless games are not worth a row, matching the terminal front end.
	if s.sink != nil && s.engine.Score() > 0 {
		if _, err := s.sink.SaveScore(s.gameID, s.engine.Score()); err != nil {
			s.logger.Error("cannot save score", "session", s.ID, "err", err)
		}
	}
}

// Move applies one move.
func (s *Session) Move(dir grid.Direction) (grid.MoveResult, error) {
	var res grid.MoveResult
	err := s.Do(func(e *grid.Engine) error {
		var err error
		res, err = e.Move(dir)
		return err
	})
	return res, err
}

// NewGame restarts the session.
func (s *Session) NewGame() (grid.Snapshot, error) {
	var snap grid.Snapshot
	err := s.Do(func(e *grid.Engine) error {
		var err error
		snap, err = e.NewGame()
		return err
	})
	return snap, err
}

// Snapshot returns the current state.
func (s *Session) Snapshot() grid.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}
