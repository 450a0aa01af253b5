package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"sentinel/internal/input"
	"sentinel/internal/terminal"
	"sentinel/internal/theme"
)

// newTestUI builds a UI over a simulation screen, driven by a replay
// script.
func newTestUI(script string, width, height int) *UI {
	scr, _ := terminal.NewSimulation(width, height)
	queue := input.NewQueue(input.NewReplay(strings.NewReader(script)))
	u := New(scr, queue, theme.Default())
	u.SetFixedSize(width, height, nil)
	return u
}

// eventSource feeds a fixed list of prebuilt events, for cases the
// replay script grammar cannot express (mouse, Ctrl+C).
type eventSource struct {
	events []tcell.Event
}

func (s *eventSource) Next() (tcell.Event, error) {
	if len(s.events) == 0 {
		return nil, input.ErrScriptDone
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

func newEventUI(width, height int, events ...tcell.Event) *UI {
	scr, _ := terminal.NewSimulation(width, height)
	queue := input.NewQueue(&eventSource{events: events})
	u := New(scr, queue, theme.Default())
	u.SetFixedSize(width, height, nil)
	return u
}

func key(k tcell.Key) tcell.Event {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func click(x, y int) tcell.Event {
	return tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone)
}
