// Package session keeps one mounted gallery per visitor. A session lives in
// memory only; when it idles past its TTL it is unmounted and every video
// resource it holds is released.
package session

import (
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramunarlapati-13/Master/internal/gallery"
	"github.com/ramunarlapati-13/Master/internal/media"
)

// commandBuffer bounds the playback commands queued for a tab that is not
// reading its event stream.
const commandBuffer = 64

// Session is one visitor's mounted gallery.
type Session struct {
	ID      string
	Gallery *gallery.Controller

	players  map[gallery.ID]*media.Player
	elements map[gallery.ID]*media.RemoteElement
	commands chan media.Command
	limiter  *rate.Limiter
	done     chan struct{}

	mu       sync.Mutex
	lastSeen time.Time
	closed   bool
}

func newSession(id string, content Content, rps float64, now time.Time) *Session {
	s := &Session{
		ID:       id,
		Gallery:  gallery.NewController(content.Title, content.Description, content.Entries),
		players:  make(map[gallery.ID]*media.Player),
		elements: make(map[gallery.ID]*media.RemoteElement),
		commands: make(chan media.Command, commandBuffer),
		limiter:  rate.NewLimiter(rate.Limit(rps), max(1, int(rps))),
		done:     make(chan struct{}),
		lastSeen: now,
	}
	for _, e := range content.Entries {
		if !e.IsVideo() {
			continue
		}
		name := strconv.Itoa(int(e.ID))
		el := media.NewRemoteElement(name, s.deliver)
		s.elements[e.ID] = el
		s.players[e.ID] = media.NewPlayer(name, el)
	}
	return s
}

// deliver queues a command for the event stream without blocking.
func (s *Session) deliver(c media.Command) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.commands <- c:
		return true
	default:
		return false
	}
}

// Media returns the player and its element for a video entry.
func (s *Session) Media(id gallery.ID) (*media.Player, *media.RemoteElement, bool) {
	p, ok := s.players[id]
	if !ok {
		return nil, nil, false
	}
	return p, s.elements[id], true
}

// Videos lists the ids of entries that have a player, in ascending order.
func (s *Session) Videos() []gallery.ID {
	ids := make([]gallery.ID, 0, len(s.players))
	for id := range s.players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Commands is the stream of playback commands for the visitor's tab.
func (s *Session) Commands() <-chan media.Command {
	return s.commands
}

// Done is closed once the session has been unmounted.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// AllowViewportReport applies the per-session report rate limit.
func (s *Session) AllowViewportReport() bool {
	return s.limiter.Allow()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// unmount releases every player and ends the event stream.
func (s *Session) unmount() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	for _, p := range s.players {
		p.Release()
	}
	close(s.done)
}
