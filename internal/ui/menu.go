package ui

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"sentinel/internal/theme"
)

// doubleClickWindow is how close two clicks on the same row must be to
// count as a double-click; tcell reports raw button presses only.
const doubleClickWindow = 400 * time.Millisecond

// clickTracker turns consecutive Button1 presses into double-clicks.
type clickTracker struct {
	when time.Time
	row  int
}

func (c *clickTracker) double(ev *tcell.EventMouse) bool {
	_, row := ev.Position()
	double := !c.when.IsZero() && ev.When().Sub(c.when) <= doubleClickWindow && row == c.row
	c.when = ev.When()
	c.row = row
	if double {
		c.when = time.Time{}
	}
	return double
}

// Menu lets the operator pick one of the labels and returns its index.
// Digits accumulate an index and auto-confirm once the digit width of
// the entry count is reached; arrows move the highlight with wraparound;
// left/right pan long labels; a click selects the clicked visible row
// and a double-click confirms. Callers must never pass an empty slice —
// "no entries" is converted into an error display before reaching here.
func (u *UI) Menu(labels []string, title string) (int, error) {
	n := len(labels)
	highlighted := 0
	firstCol := 0
	nbChar := digitWidth(n)
	maxLen := 0
	for _, label := range labels {
		if w := runewidth.StringWidth(label); w > maxLen {
			maxLen = w
		}
	}
	var clicks clickTracker

	for {
		u.drawMenu(labels, highlighted, firstCol, nbChar, title)

		ev, err := u.nextEvent()
		if err != nil {
			return 0, err
		}
		pressedDigit := false

		switch ev := ev.(type) {
		case *tcell.EventResize:
			continue
		case *tcell.EventMouse:
			yoff := 0
			if title != "" {
				yoff = 1
			}
			first, _ := u.menuWindow(n, highlighted, yoff)
			_, row := ev.Position()
			highlighted = first + row - yoff
			if highlighted < 0 {
				highlighted = 0
			}
			if highlighted > n-1 {
				highlighted = n - 1
			}
			if clicks.double(ev) {
				return highlighted, nil
			}
		case *tcell.EventKey:
			switch {
			case isEnter(ev):
				return highlighted, nil
			case isBackspace(ev):
				highlighted /= 10
			default:
				if d, ok := digitKey(ev); ok {
					highlighted = highlighted*10 + d
					pressedDigit = true
					break
				}
				switch ev.Key() {
				case tcell.KeyDown:
					highlighted++
				case tcell.KeyUp:
					highlighted--
				case tcell.KeyRight:
					// Pan the label window, keeping at least one
					// column of the longest label visible.
					maxPan := maxLen - u.width + nbChar + 3
					if maxPan < 0 {
						maxPan = 0
					}
					if firstCol < maxPan {
						firstCol++
					}
				case tcell.KeyLeft:
					if firstCol > 0 {
						firstCol--
					}
				}
			}
		}

		highlighted = ((highlighted % n) + n) % n

		// Auto-confirm once the accumulated index fills the digit
		// width of the entry count.
		if pressedDigit && highlighted != 0 && digitWidth(highlighted) >= nbChar {
			return highlighted, nil
		}
	}
}

// menuWindow computes the visible row budget and the first visible entry
// index; the window centers on the highlight once the list no longer
// fits.
func (u *UI) menuWindow(n, highlighted, yoff int) (first, rows int) {
	rows = u.height - 1 - yoff
	if n > rows {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	middle := (rows - 1) / 2
	if n > rows && highlighted >= middle {
		first = highlighted - middle
		if first > n-rows {
			first = n - rows
		}
	}
	return first, rows
}

func (u *UI) drawMenu(labels []string, highlighted, firstCol, nbChar int, title string) {
	base := u.Theme.Style(theme.Base)
	info := u.Theme.Style(theme.Info)
	u.scr.Fill(base)
	yoff := u.drawTitle(title)

	n := len(labels)
	first, rows := u.menuWindow(n, highlighted, yoff)
	avail := u.width - nbChar - 3

	for i := first; i < n && i < first+rows; i++ {
		line := fmt.Sprintf("%*d: %s", nbChar, i, cropLabel(labels[i], firstCol, avail))
		style := base
		if i == highlighted {
			style = base.Reverse(true).Bold(true)
			for runewidth.StringWidth(line) < u.width-1 {
				line += " "
			}
		}
		u.scr.Print(0, yoff+i-first, line, style)
	}

	if first > 0 {
		u.scr.SetCell(u.width-1, yoff, glyphUp, base)
	}
	if first+rows < n {
		u.scr.SetCell(u.width-1, yoff+rows, glyphDown, base)
	}

	u.scr.Print(0, u.height-1, fmt.Sprintf("Selected : %d", highlighted), info.Bold(true))

	// Proportional position indicator when the list overflows.
	if rows < n {
		pos := yoff + int(math.Round(float64(rows)*float64(highlighted)/float64(n)))
		if pos > u.height-2 {
			pos = u.height - 2
		}
		u.scr.SetCell(u.width-1, pos, ' ', info.Reverse(true))
	}

	u.scr.ShowCursor(u.width-1, u.height-1)
	u.scr.Show()
}

// cropLabel returns the label window starting at rune column firstCol,
// truncated to the available cell width.
func cropLabel(label string, firstCol, avail int) string {
	if avail < 1 {
		return ""
	}
	runes := []rune(label)
	if firstCol >= len(runes) {
		return ""
	}
	return runewidth.Truncate(string(runes[firstCol:]), avail, "")
}

// digitWidth returns the number of decimal digits needed for n.
func digitWidth(n int) int {
	if n < 1 {
		return 1
	}
	return int(math.Floor(math.Log10(float64(n)))) + 1
}
