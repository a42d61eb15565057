package media

import (
	"errors"
	"sync"
)

var (
	ErrReleased    = errors.New("media: element released")
	ErrUndelivered = errors.New("media: command not delivered")
)

// Action is a playback instruction sent to the browser.
type Action string

const (
	ActionPlay    Action = "play"
	ActionPause   Action = "pause"
	ActionRelease Action = "release"
)

// Command tells the client what to do with one video element.
type Command struct {
	Media  string `json:"media"`
	Action Action `json:"action"`
}

// Sink delivers a command and reports whether it was accepted.
type Sink func(Command) bool

// RemoteElement is an Element living in a browser tab. Buffering state comes
// in through SetReady; playback instructions go out through the sink.
type RemoteElement struct {
	id       string
	sink     Sink
	mu       sync.Mutex
	ready    bool
	pending  chan struct{}
	released bool
}

// NewRemoteElement returns an element that sends its commands to sink.
func NewRemoteElement(id string, sink Sink) *RemoteElement {
	return &RemoteElement{id: id, sink: sink}
}

// SetReady records the client's buffering state. Becoming ready wakes any
// goroutine waiting on CanPlay.
func (r *RemoteElement) SetReady(ready bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ready = ready
	if ready && r.pending != nil {
		close(r.pending)
		r.pending = nil
	}
}

func (r *RemoteElement) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}

func (r *RemoteElement) CanPlay() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ready {
		done := make(chan struct{})
		close(done)
		return done
	}
	if r.pending == nil {
		r.pending = make(chan struct{})
	}
	return r.pending
}

func (r *RemoteElement) Play() error {
	r.mu.Lock()
	released := r.released
	r.mu.Unlock()

	if released {
		return ErrReleased
	}
	if !r.sink(Command{Media: r.id, Action: ActionPlay}) {
		return ErrUndelivered
	}
	return nil
}

func (r *RemoteElement) Pause() {
	r.sink(Command{Media: r.id, Action: ActionPause})
}

func (r *RemoteElement) Release() {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return
	}
	r.released = true
	r.ready = false
	r.mu.Unlock()

	r.sink(Command{Media: r.id, Action: ActionRelease})
}
