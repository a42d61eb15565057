package media

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Element is the playback surface a Player controls.
type Element interface {
	// Ready reports whether enough is buffered to start playing right away.
	Ready() bool
	// CanPlay returns a channel that is closed once playback can start.
	CanPlay() <-chan struct{}
	Play() error
	Pause()
	// Release stops all loading and frees the media resource.
	Release()
}

// Player starts and stops one video from visibility changes. Visibility
// reports are level-triggered: repeating the current state is a no-op.
//
// Becoming visible on an element that is not ready yet starts a one-shot wait
// for CanPlay. Each visibility change bumps a generation counter; a wait that
// resolves after its generation has passed never starts playback.
type Player struct {
	id      string
	el      Element
	mu      sync.Mutex
	visible bool
	playing bool
	buffer  bool
	gen     uint64
	cancel  context.CancelFunc
	closed  bool
	waiters sync.WaitGroup
}

// NewPlayer wraps el. id is only used in log fields.
func NewPlayer(id string, el Element) *Player {
	return &Player{id: id, el: el, buffer: true}
}

// SetVisible reports whether the element is currently within the viewport.
func (p *Player) SetVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.visible == visible {
		return
	}
	p.visible = visible
	p.gen++
	p.stopWaitLocked()

	if !visible {
		p.playing = false
		p.el.Pause()
		return
	}

	if p.el.Ready() {
		p.buffer = false
		p.playLocked()
		return
	}

	p.buffer = true
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.waiters.Add(1)
	go p.waitCanPlay(ctx, p.gen)
}

func (p *Player) waitCanPlay(ctx context.Context, gen uint64) {
	defer p.waiters.Done()

	select {
	case <-ctx.Done():
		return
	case <-p.el.CanPlay():
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || !p.visible || p.gen != gen {
		log.WithField("media", p.id).Debug("Dropping stale can-play wakeup")
		return
	}
	p.cancel = nil
	p.buffer = false
	p.playLocked()
}

func (p *Player) playLocked() {
	if err := p.el.Play(); err != nil {
		log.WithFields(log.Fields{"media": p.id, "error": err}).Debug("Video playback failed")
		p.playing = false
		return
	}
	p.playing = true
}

func (p *Player) stopWaitLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Visible reports the last visibility state.
func (p *Player) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

// Playing reports whether the last play attempt succeeded and the element has
// not been paused since.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Buffering reports whether the buffering indicator should be shown.
func (p *Player) Buffering() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer
}

// Release pauses the element, abandons any pending wait and frees the media.
// The player ignores further visibility reports.
func (p *Player) Release() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.gen++
	p.stopWaitLocked()
	p.playing = false
	p.el.Pause()
	p.el.Release()
	p.mu.Unlock()

	p.waiters.Wait()
}
