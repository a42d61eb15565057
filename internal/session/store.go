package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ramunarlapati-13/Master/internal/gallery"
)

// Content is what every new session's gallery is mounted with.
type Content struct {
	Title       string
	Description string
	Entries     []gallery.Entry
}

// Options tune a Store.
type Options struct {
	// TTL is how long a session may sit idle before it is unmounted.
	TTL time.Duration
	// ReportsPerSecond limits viewport reports per session.
	ReportsPerSecond float64
	// OnMount runs once for every new session before it is handed out.
	OnMount func(*Session)
}

// Store holds the live sessions.
type Store struct {
	content Content
	opts    Options
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a store and starts its idle sweep.
func NewStore(content Content, opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if opts.ReportsPerSecond <= 0 {
		opts.ReportsPerSecond = 20
	}
	st := &Store{
		content:  content,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
	go st.cleanupLoop()
	return st
}

// Get returns a live session and marks it as used.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}
	s.touch(st.now())
	return s, true
}

// Create mounts a fresh gallery under a new random id.
func (st *Store) Create() *Session {
	s := newSession(uuid.NewString(), st.content, st.opts.ReportsPerSecond, st.now())
	if st.opts.OnMount != nil {
		st.opts.OnMount(s)
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Remove unmounts a session immediately.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		s.unmount()
	}
}

// Len is the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Close stops the sweep and unmounts every session.
func (st *Store) Close() {
	st.stopOnce.Do(func() { close(st.stop) })

	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range sessions {
		s.unmount()
	}
}

func (st *Store) cleanupLoop() {
	interval := min(st.opts.TTL, time.Minute)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-st.stop:
			return
		case <-ticker.C:
			if n := st.sweep(st.now()); n > 0 {
				log.WithField("count", n).Debug("Unmounted idle gallery sessions")
			}
		}
	}
}

// sweep unmounts sessions idle for longer than the TTL and returns how many.
func (st *Store) sweep(now time.Time) int {
	var expired []*Session

	st.mu.Lock()
	for id, s := range st.sessions {
		if s.idleSince(now) > st.opts.TTL {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.unmount()
	}
	return len(expired)
}
