package mineflow

import (
	"errors"
	"fmt"
	"sync"
)

// ErrChannelSinkClosed is returned when a channel sink is written to after being closed.
var ErrChannelSinkClosed = errors.New("mineflow: channel sink closed")

// ViewHandler is invoked with every view rendered by the update loop.
type ViewHandler func(View) error

// NewCallbackSink adapts a ViewHandler into a full ports.ViewSink implementation so callers
// can plug arbitrary functions without defining structs.
func NewCallbackSink(name string, fn ViewHandler) ViewSink {
	if name == "" {
		name = "callback"
	}
	return &callbackSink{name: name, fn: fn}
}

// NewChannelSink exposes views via a channel; it returns the sink, the read-only channel,
// and a close function that the caller should invoke during shutdown. Render
// blocks while the channel buffer is full.
func NewChannelSink(name string, buffer int) (ViewSink, <-chan View, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan View, buffer)
	s := &channelSink{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return s, ch, func() { s.close() }
}

type callbackSink struct {
	name string
	fn   ViewHandler
}

func (s *callbackSink) Render(v View) error {
	if s.fn == nil {
		return fmt.Errorf("callback sink %q: nil handler", s.name)
	}
	return s.fn(cloneView(v))
}

func (s *callbackSink) Name() string { return s.name }

type channelSink struct {
	name   string
	ch     chan View
	closed chan struct{}
	once   sync.Once
	// sending is held by Render for the whole send so close never closes ch
	// under a blocked sender.
	sending sync.RWMutex
}

func (s *channelSink) Render(v View) error {
	s.sending.RLock()
	defer s.sending.RUnlock()

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	default:
	}

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	case s.ch <- cloneView(v):
		return nil
	}
}

func (s *channelSink) Name() string { return s.name }

func (s *channelSink) close() {
	s.once.Do(func() {
		close(s.closed)
		s.sending.Lock()
		close(s.ch)
		s.sending.Unlock()
	})
}

// cloneView copies the rows so receivers on other goroutines own their view.
func cloneView(v View) View {
	rows := make([]Row, len(v.Rows))
	for i, r := range v.Rows {
		r.Key = append([]string(nil), r.Key...)
		rows[i] = r
	}
	v.Rows = rows
	return v
}
