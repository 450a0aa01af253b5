package ui

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"sentinel/internal/theme"
)

// Glyphs for the scroll affordances at the right edge.
const (
	glyphUp   = '↑'
	glyphDown = '↓'
)

// Pane describes one block of text to render.
type Pane struct {
	Text  string
	Title string
	X, Y  int
	Role  theme.Role
	Bold  bool
	// Background recolors the whole grid with the pane's color pair
	// (used by error panes).
	Background bool
	// Height limits the pane to the top N rows, leaving room for a
	// widget footer. Zero means the full viewport.
	Height int
	// Cursor places the hardware cursor; nil parks it bottom-right.
	Cursor *[2]int
	// PassVertical hands KeyUp/KeyDown back to the caller instead of
	// scrolling (the confirm toggle needs them).
	PassVertical bool
}

func (u *UI) paneStyle(p Pane) tcell.Style {
	style := u.Theme.Style(p.Role)
	if p.Bold {
		style = style.Bold(true)
	}
	return style
}

// DrawFixed writes the pane text verbatim at its origin. Fire and
// forget: no wrapping, no scrolling, no input.
func (u *UI) DrawFixed(p Pane) {
	y := p.Y + u.drawTitle(p.Title)
	u.scr.Print(p.X, y, p.Text, u.paneStyle(p))
	u.scr.Show()
}

// Scroll renders the pane with soft-wrapped, vertically scrollable text
// and blocks until an event the caller should act on. KeyDown/KeyUp
// adjust the scroll offset and redraw; this loop is the only place
// scrolling input is interpreted. chrome, when non-nil, repaints
// whatever the widget drew outside the pane; it runs on every redraw so
// footers survive scrolling and resizes.
func (u *UI) Scroll(p Pane, chrome func()) (tcell.Event, error) {
	offset := 0
	for {
		offset = u.renderScroll(p, offset, chrome)

		ev, err := u.nextEvent()
		if err != nil {
			return nil, err
		}
		key, ok := ev.(*tcell.EventKey)
		if !ok {
			if _, resized := ev.(*tcell.EventResize); resized {
				continue
			}
			return ev, nil
		}
		switch key.Key() {
		case tcell.KeyDown:
			if p.PassVertical {
				return ev, nil
			}
			offset++
		case tcell.KeyUp:
			if p.PassVertical {
				return ev, nil
			}
			offset--
		default:
			return ev, nil
		}
	}
}

// renderScroll draws one frame of the scrolling pane and returns the
// clamped scroll offset.
func (u *UI) renderScroll(p Pane, offset int, chrome func()) int {
	style := u.paneStyle(p)
	if p.Background {
		u.scr.Fill(style)
	} else {
		u.scr.Fill(u.Theme.Style(theme.Base))
	}
	if chrome != nil {
		chrome()
	}

	y := p.Y + u.drawTitle(p.Title)
	limit := p.Height
	if limit <= 0 || limit > u.height {
		limit = u.height
	}
	window := limit - y
	if window < 1 {
		window = 1
	}

	lines := wrapText(p.Text, u.width-p.X-1)

	maxOffset := len(lines) - window
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}

	end := offset + window
	if end > len(lines) {
		end = len(lines)
	}
	for i, line := range lines[offset:end] {
		u.scr.Print(p.X, y+i, line, style)
	}

	// Scroll affordances and proportional position indicator.
	if offset > 0 {
		u.scr.SetCell(u.width-1, y, glyphUp, style)
	}
	arrowRow := limit - 1
	if arrowRow > u.height-2 {
		arrowRow = u.height - 2
	}
	if offset+window < len(lines) {
		u.scr.SetCell(u.width-1, arrowRow, glyphDown, style)
	}
	if window < len(lines) && maxOffset > 0 {
		percent := float64(offset) / float64(maxOffset)
		pos := y + int(math.Round(float64(window-1)*percent))
		if pos > u.height-2 {
			pos = u.height - 2
		}
		u.scr.SetCell(u.width-1, pos, ' ', u.Theme.Style(theme.Info).Reverse(true))
	}

	if p.Cursor != nil {
		u.scr.ShowCursor(p.Cursor[0], p.Cursor[1])
	} else {
		u.scr.ShowCursor(u.width-1, u.height-1)
	}
	u.scr.Show()
	return offset
}

// Message shows a scrollable message pane and waits for any dismissing
// keystroke.
func (u *UI) Message(text, title string) error {
	_, err := u.Scroll(Pane{Text: text, Title: title}, nil)
	return err
}

// ShowError beeps, shows the message on the error background and
// restores the base background once dismissed.
func (u *UI) ShowError(text, title string) error {
	u.scr.Beep()
	_, err := u.Scroll(Pane{
		Text:       text,
		Title:      title,
		Role:       theme.Error,
		Background: true,
	}, nil)
	u.RestoreBase()
	return err
}
