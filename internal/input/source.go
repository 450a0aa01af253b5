// Package input abstracts where terminal events come from: the live
// screen, or a recorded replay script for deterministic runs. Both sides
// speak tcell events so the widgets cannot tell them apart.
package input

import (
	"errors"

	"github.com/gdamore/tcell/v2"

	"sentinel/internal/terminal"
)

// ErrScriptDone reports that a replay script has been fully consumed.
// The session treats it as a successful end of session.
var ErrScriptDone = errors.New("replay script exhausted")

// ErrClosed reports that the live screen was finalized under us.
var ErrClosed = errors.New("input source closed")

// Source delivers one event per call, blocking until one is available.
type Source interface {
	Next() (tcell.Event, error)
}

// Live reads events from the terminal surface.
type Live struct {
	scr terminal.Surface
}

func NewLive(scr terminal.Surface) *Live {
	return &Live{scr: scr}
}

func (l *Live) Next() (tcell.Event, error) {
	ev := l.scr.PollEvent()
	if ev == nil {
		return nil, ErrClosed
	}
	return ev, nil
}

// Queue wraps a Source with a push-back buffer so the protocol machine
// can inject a synthetic keystroke ahead of the real stream.
type Queue struct {
	src     Source
	pending []tcell.Event
}

func NewQueue(src Source) *Queue {
	return &Queue{src: src}
}

// Push queues an event to be returned before anything from the source.
func (q *Queue) Push(ev tcell.Event) {
	q.pending = append(q.pending, ev)
}

func (q *Queue) Next() (tcell.Event, error) {
	if len(q.pending) > 0 {
		ev := q.pending[0]
		q.pending = q.pending[1:]
		return ev, nil
	}
	return q.src.Next()
}
