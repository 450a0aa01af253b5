package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"sentinel/internal/theme"
)

// Text runs the free-text editor: a growable buffer seeded from def,
// rendered on the bottom row under a scrollable message pane. Printable
// runes and control runes below 32 (except NUL) append; backspace and
// delete trim; Enter — or reaching size when non-zero — returns the
// buffer with surrounding whitespace trimmed.
func (u *UI) Text(message, def string, size int, title string) (string, error) {
	value := []rune(def)

	for {
		line := u.height - 1
		display := caretNotation(value)
		if len(display) > u.width-1 {
			display = display[len(display)-(u.width-1):]
		}
		cursorX := len(display)
		if cursorX > u.width-1 {
			cursorX = u.width - 1
		}
		cursor := [2]int{cursorX, line}

		chrome := func() {
			u.scr.Print(0, line, string(display), u.Theme.Style(theme.Info).Bold(true))
		}

		ev, err := u.Scroll(Pane{
			Text:   message,
			Title:  title,
			Height: u.height - 1,
			Cursor: &cursor,
		}, chrome)
		if err != nil {
			return "", err
		}

		key, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		switch {
		case isEnter(key):
			return strings.TrimSpace(string(value)), nil
		case isBackspace(key):
			if len(value) > 0 {
				value = value[:len(value)-1]
			}
		default:
			if r, ok := editableRune(key); ok {
				value = append(value, r)
				if size > 0 && len(value) >= size {
					return strings.TrimSpace(string(value)), nil
				}
			}
		}
	}
}

// editableRune reports the rune a key event contributes to the buffer.
// Control keys below 32 are kept (scanner suffixes arrive that way);
// NUL is the deletion sentinel and never stored.
func editableRune(ev *tcell.EventKey) (rune, bool) {
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r != 0 {
			return r, true
		}
		return 0, false
	}
	if k := ev.Key(); k > 0 && k < 32 {
		return rune(k), true
	}
	return 0, false
}

// caretNotation renders the buffer with control runes in caret form
// (^A, ^?), skipping NUL.
func caretNotation(value []rune) []rune {
	var out []rune
	for _, r := range value {
		switch {
		case r == 0:
		case r < 32:
			out = append(out, '^', '@'+r)
		case r == 127:
			out = append(out, '^', '?')
		default:
			out = append(out, r)
		}
	}
	return out
}
