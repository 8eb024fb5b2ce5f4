package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"rentalmap/internal/model"
)

// ErrNoCommit is returned when a display view is requested before any
// search has been committed. Callers skip rendering entirely in that
// case.
var ErrNoCommit = errors.New("no search committed yet")

// SessionState is the per-login view state. The committed and plottable
// views change only through Commit; recomputing a preview from live
// criteria never touches them, which is what keeps the table and map
// stable while the user adjusts controls.
type SessionState struct {
	committedView []model.Listing
	plottableView []model.Listing
	hasCommitted  bool
	showAll       bool
}

// Commit freezes a filtered view: the plottable subset (rows with both
// coordinates present and finite) is computed, both views are replaced
// wholesale, and the committed flag is set. Last write wins; views are
// never merged.
func (s *SessionState) Commit(view []model.Listing) {
	committed := make([]model.Listing, len(view))
	copy(committed, view)

	plottable := make([]model.Listing, 0, len(committed))
	for _, l := range committed {
		if l.HasCoordinates() {
			plottable = append(plottable, l)
		}
	}

	s.committedView = committed
	s.plottableView = plottable
	s.hasCommitted = true
}

// ToggleShowAll flips the display toggle between "all committed
// matches" and "map-plottable matches only". Independent of Commit.
func (s *SessionState) ToggleShowAll() {
	s.showAll = !s.showAll
}

// ShowAll reports the current display toggle.
func (s *SessionState) ShowAll() bool {
	return s.showAll
}

// HasCommitted reports whether any search has ever been committed in
// this session. Never resets to false.
func (s *SessionState) HasCommitted() bool {
	return s.hasCommitted
}

// DisplayView returns the view the result table should render: the full
// committed view when show-all is on, otherwise the plottable subset.
func (s *SessionState) DisplayView() ([]model.Listing, error) {
	if !s.hasCommitted {
		return nil, ErrNoCommit
	}
	if s.showAll {
		return s.committedView, nil
	}
	return s.plottableView, nil
}

// PlottableView returns the coordinate-valid subset of the committed
// view for map projection.
func (s *SessionState) PlottableView() ([]model.Listing, error) {
	if !s.hasCommitted {
		return nil, ErrNoCommit
	}
	return s.plottableView, nil
}

// session pairs the view state with its expiry.
type session struct {
	state   *SessionState
	expires time.Time
}

// SessionManager hands each logged-in user context its own independent
// SessionState, keyed by an opaque token carried in a cookie. State is
// memory-only: it dies with the session, never the database.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
}

// NewSessionManager creates a session manager with the given idle TTL
func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*session),
		ttl:      ttl,
	}
}

// Create starts a fresh session and returns its token.
func (m *SessionManager) Create() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	m.mu.Lock()
	m.sessions[token] = &session{
		state:   &SessionState{},
		expires: time.Now().Add(m.ttl),
	}
	m.mu.Unlock()

	return token, nil
}

// Get returns the state for a token, extending its expiry. Expired or
// unknown tokens return false.
func (m *SessionManager) Get(token string) (*SessionState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[token]
	if !ok {
		return nil, false
	}
	if time.Now().After(sess.expires) {
		delete(m.sessions, token)
		return nil, false
	}
	sess.expires = time.Now().Add(m.ttl)
	return sess.state, true
}

// Destroy ends a session. Unknown tokens are a no-op.
func (m *SessionManager) Destroy(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Sweep removes expired sessions. Called periodically from main.
func (m *SessionManager) Sweep() {
	now := time.Now()
	m.mu.Lock()
	for token, sess := range m.sessions {
		if now.After(sess.expires) {
			delete(m.sessions, token)
		}
	}
	m.mu.Unlock()
}
