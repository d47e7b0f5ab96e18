// Package session keeps one scroll-sync controller per connected reference
// page. Clients post layout snapshots; the controller runs against them and
// the resulting scroll commands are returned to the client.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docsite/internal/content"
	"github.com/dgallion1/docsite/internal/scrollsync"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Session is one mounted reference page.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	updatedAt   time.Time
	layout      *Layout
	ctrl        *scrollsync.Controller
	navigations []scrollsync.Target
}

// View is a JSON-safe copy of session state. Commands and Navigations are
// drained: each is reported once.
type View struct {
	ID          string              `json:"session_id"`
	Document    string              `json:"document"`
	Phase       scrollsync.Phase    `json:"phase"`
	State       scrollsync.State    `json:"state"`
	Commands    []Command           `json:"commands"`
	Navigations []scrollsync.Target `json:"navigations"`
	// ResyncMS is set while a throttled recomputation is queued: the client
	// fetches the view again after that many milliseconds to pick it up.
	ResyncMS int64 `json:"resync_ms,omitempty"`
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()
}

// UpdatedAt returns the time of the last client interaction.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) navigate(t scrollsync.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigations = append(s.navigations, t)
}

// Controller exposes the session's controller.
func (s *Session) Controller() *scrollsync.Controller { return s.ctrl }

// Scroll applies a new snapshot and reports a scroll event.
func (s *Session) Scroll(snap Snapshot) View {
	s.touch()
	s.layout.Update(snap)
	s.ctrl.Scroll()
	return s.View()
}

// Pointer reports the pointer entering or leaving the navigation panel.
func (s *Session) Pointer(inside bool) View {
	s.touch()
	if inside {
		s.ctrl.PointerEnter()
	} else {
		s.ctrl.PointerLeave()
	}
	return s.View()
}

// Follow reports a click on an outline entry of the mounted document.
func (s *Session) Follow(title string) View {
	s.touch()
	s.ctrl.Follow(title)
	return s.View()
}

// View drains pending commands and navigations.
func (s *Session) View() View {
	s.mu.Lock()
	navs := s.navigations
	s.navigations = nil
	s.mu.Unlock()
	if navs == nil {
		navs = []scrollsync.Target{}
	}
	v := View{
		ID:          s.ID,
		Document:    s.ctrl.Document(),
		Phase:       s.ctrl.Phase(),
		State:       s.ctrl.State(),
		Commands:    s.layout.Drain(),
		Navigations: navs,
	}
	if s.ctrl.SyncPending() {
		v.ResyncMS = s.ctrl.ThrottleInterval().Milliseconds()
	}
	return v
}

// Options are applied to every session's controller. DOM and Navigator
// are set per session.
type Options struct {
	Controller scrollsync.Options
	TTL        time.Duration
	Logger     *slog.Logger
}

// Store is a thread-safe in-memory session registry with TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     Options
	log      *slog.Logger
}

func NewStore(opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
		log:      log,
	}
}

// Create mounts doc in a new session.
func (s *Store) Create(doc *content.Document, fragment string, snap Snapshot) *Session {
	now := time.Now()
	sess := &Session{
		ID:        newID(),
		CreatedAt: now,
		updatedAt: now,
		layout:    NewLayout(snap),
	}

	opts := s.opts.Controller
	opts.DOM = sess.layout
	opts.Navigator = scrollsync.NavigatorFunc(sess.navigate)
	opts.Logger = s.log.With("session", sess.ID)
	sess.ctrl = scrollsync.New(opts)
	sess.ctrl.Mount(doc, fragment)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.log.Info("session created", "session", sess.ID, "document", doc.Key)
	return sess
}

// Get returns the session for id.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete disposes the session's controller and forgets it.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	sess.ctrl.Dispose()
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	now := time.Now()
	var expired []*Session
	for id, sess := range s.sessions {
		if now.Sub(sess.UpdatedAt()) > s.opts.TTL {
			delete(s.sessions, id)
			expired = append(expired, sess)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.ctrl.Dispose()
	}
	if len(expired) > 0 {
		s.log.Info("sessions expired", "count", len(expired))
	}
	return len(expired)
}

// Run evicts expired sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

// Close disposes every session.
func (s *Store) Close() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()
	for _, sess := range all {
		sess.ctrl.Dispose()
	}
}
