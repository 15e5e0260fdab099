package portal

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"daily-updates/internal/nav"
	"daily-updates/internal/news"
	"daily-updates/internal/render"
)

// Mode selects how the visible items are computed.
type Mode int

const (
	ModeFilter Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "filter"
}

// Session is the page state of one viewer.
type Session struct {
	ID string

	mu         sync.Mutex
	Nav        *nav.State
	Mode       Mode
	Criteria   news.Criteria
	Query      string
	Flash      string
	container  render.Container
	generation int
	lastSeen   time.Time
}

func newSession(state *nav.State) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Nav:      state,
		Criteria: news.Unfiltered,
		lastSeen: time.Now(),
	}
}

func (s *Session) touch() {
	s.lastSeen = time.Now()
}

func (s *Session) viewLocked() View {
	return View{
		Container: s.container.HTML(),
		Nav:       *s.Nav,
		Mode:      s.Mode.String(),
		Criteria:  s.Criteria,
		Query:     s.Query,
		Flash:     s.Flash,
	}
}

// Sessions stores sessions by id
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessions creates an empty store.
func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*Session)}
}

// Get returns the session with id.
func (ss *Sessions) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	s, ok := ss.sessions[id]
	return s, ok
}

// Add stores s under its id.
func (ss *Sessions) Add(s *Session) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[s.ID] = s
}

// Len returns the number of sessions.
func (ss *Sessions) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// Prune drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (ss *Sessions) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	ss.mu.Lock()
	defer ss.mu.Unlock()

	removed := 0
	for id, s := range ss.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(ss.sessions, id)
			removed++
		}
	}
	return removed
}
