// Package ui implements the sentinel screen engine: a scrollable text
// pane plus the four interactive widgets (menu, text, quantity, confirm)
// the protocol state machine drives. Everything renders on a small fixed
// character grid through the terminal Surface and reads events from an
// input Queue, so the whole package runs headlessly in tests.
package ui

import (
	"errors"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"sentinel/internal/input"
	"sentinel/internal/terminal"
	"sentinel/internal/theme"
)

// Default geometry of a scanner terminal screen.
const (
	DefaultWidth  = 18
	DefaultHeight = 6
)

// ErrBack is returned by widgets when the operator presses Escape. It is
// a navigation signal, not a failure; the protocol loop answers it with
// a back call.
var ErrBack = errors.New("step back requested")

// ErrInterrupt is returned when the operator presses Ctrl+C. The
// protocol loop answers it with an end call.
var ErrInterrupt = errors.New("session interrupted")

// UI owns viewport geometry, theme and the event stream for one session.
type UI struct {
	scr    terminal.Surface
	events *input.Queue
	Theme  *theme.Theme

	width    int
	height   int
	autoSize bool
	// fetchSize re-fetches server-fixed geometry on resize events.
	fetchSize func() (int, int, error)
}

func New(scr terminal.Surface, events *input.Queue, th *theme.Theme) *UI {
	return &UI{
		scr:    scr,
		events: events,
		Theme:  th,
		width:  DefaultWidth,
		height: DefaultHeight,
	}
}

// Size reports the current viewport geometry.
func (u *UI) Size() (width, height int) {
	return u.width, u.height
}

// SetFixedSize pins the viewport to a server-provided geometry. fetch,
// when non-nil, is consulted again on every terminal resize event.
func (u *UI) SetFixedSize(width, height int, fetch func() (int, int, error)) {
	u.autoSize = false
	u.fetchSize = fetch
	u.width = width
	u.height = height
	u.scr.SetSize(width, height)
}

// SetAutoSize derives the viewport from the physical terminal.
func (u *UI) SetAutoSize() {
	u.autoSize = true
	u.fetchSize = nil
	u.width, u.height = u.scr.Size()
}

// Push injects a synthetic event ahead of the real input stream.
func (u *UI) Push(ev tcell.Event) {
	u.events.Push(ev)
}

// Beep rings the terminal bell.
func (u *UI) Beep() {
	u.scr.Beep()
}

// RestoreBase repaints the whole background with the base color pair,
// undoing an error pane's recolor.
func (u *UI) RestoreBase() {
	u.scr.Fill(u.Theme.Style(theme.Base))
	u.scr.Show()
}

// Busy paints a transient indicator in the bottom-left corner while an
// RPC is outstanding. The next widget redraw wipes it.
func (u *UI) Busy() {
	u.scr.Print(0, u.height-1, "...", u.Theme.Style(theme.Info).Bold(true))
	u.scr.Show()
}

// nextEvent is the single blocking read site. Escape and Ctrl+C are
// turned into their control-flow errors here; resize events re-derive
// the geometry and are handed back so the calling widget redraws —
// they never travel further up. Mouse release events are dropped.
func (u *UI) nextEvent() (tcell.Event, error) {
	for {
		ev, err := u.events.Next()
		if err != nil {
			return nil, err
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape:
				return nil, ErrBack
			case tcell.KeyCtrlC:
				return nil, ErrInterrupt
			}
			return ev, nil
		case *tcell.EventMouse:
			if ev.Buttons()&tcell.Button1 == 0 {
				continue
			}
			return ev, nil
		case *tcell.EventResize:
			u.applyResize()
			return ev, nil
		}
	}
}

func (u *UI) applyResize() {
	if u.autoSize {
		u.width, u.height = u.scr.Size()
		return
	}
	if u.fetchSize != nil {
		if w, h, err := u.fetchSize(); err == nil && w > 0 && h > 0 {
			u.width, u.height = w, h
		}
	}
	u.scr.SetSize(u.width, u.height)
}

// drawTitle renders a centered one-line title on the top row and reports
// how many rows it consumed.
func (u *UI) drawTitle(title string) int {
	if title == "" {
		return 0
	}
	style := u.Theme.Style(theme.Info).Reverse(true).Bold(true)
	u.scr.Print(0, 0, center(title, u.width), style)
	return 1
}

// center pads text with spaces on both sides to the given cell width,
// cropping when it does not fit.
func center(text string, width int) string {
	text = runewidth.Truncate(text, width, "")
	pad := width - runewidth.StringWidth(text)
	if pad <= 0 {
		return text
	}
	left := pad / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", pad-left)
}

func isBackspace(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		return true
	}
	return false
}

func isEnter(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEnter
}

// digitKey reports the decimal digit of a key event, if any.
func digitKey(ev *tcell.EventKey) (int, bool) {
	if ev.Key() == tcell.KeyRune && ev.Rune() >= '0' && ev.Rune() <= '9' {
		return int(ev.Rune() - '0'), true
	}
	return 0, false
}
