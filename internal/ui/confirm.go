package ui

import (
	"github.com/gdamore/tcell/v2"

	"sentinel/internal/theme"
)

// Confirm runs the yes/no toggle under a scrollable message pane.
// "No" starts highlighted; any arrow key flips the toggle; y/o and n
// set the state directly; a click picks by screen half and a
// double-click confirms; Enter returns the current state.
func (u *UI) Confirm(message, title string) (bool, error) {
	confirm := false
	var clicks clickTracker

	for {
		chrome := func() {
			yesWidth := u.width / 2
			noWidth := u.width - yesWidth - 1
			info := u.Theme.Style(theme.Info)
			yesStyle, noStyle := info, info.Bold(true).Reverse(true)
			if confirm {
				yesStyle, noStyle = noStyle, yesStyle
			}
			u.scr.Print(0, u.height-1, center("Yes", yesWidth), yesStyle)
			u.scr.Print(yesWidth, u.height-1, center("No", noWidth), noStyle)
		}

		ev, err := u.Scroll(Pane{
			Text:         message,
			Title:        title,
			Height:       u.height - 1,
			PassVertical: true,
		}, chrome)
		if err != nil {
			return false, err
		}

		switch ev := ev.(type) {
		case *tcell.EventMouse:
			x, _ := ev.Position()
			confirm = x < u.width/2
			if clicks.double(ev) {
				return confirm, nil
			}
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEnter:
				return confirm, nil
			case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight:
				confirm = !confirm
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'y', 'Y', 'o', 'O':
					confirm = true
				case 'n', 'N':
					confirm = false
				}
			}
		}
	}
}
