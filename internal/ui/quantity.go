package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"sentinel/internal/theme"
)

// Quantity runs the numeric editor, seeded with def. The first digit
// pressed replaces the seeded value exactly once; up/right increment and
// down/left decrement by one; a decimal separator (./,/*) is accepted at
// most once and never in integer mode. Enter parses and returns the
// value.
func (u *UI) Quantity(message, def string, integer bool, title string) (float64, error) {
	qty := def
	if qty == "" {
		qty = "0"
	}
	digitPressed := false

	for {
		chrome := func() {
			u.scr.Print(0, u.height-1,
				fmt.Sprintf("Selected : %s", qty),
				u.Theme.Style(theme.Info).Bold(true))
		}

		ev, err := u.Scroll(Pane{
			Text:         message,
			Title:        title,
			Height:       u.height - 1,
			PassVertical: true,
		}, chrome)
		if err != nil {
			return 0, err
		}

		key, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		switch {
		case isEnter(key):
			v, err := strconv.ParseFloat(strings.TrimSuffix(qty, "."), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid quantity %q: %w", qty, err)
			}
			return v, nil
		case isBackspace(key):
			if len(qty) > 0 {
				qty = qty[:len(qty)-1]
			}
			digitPressed = true
		default:
			if d, ok := digitKey(key); ok {
				if !digitPressed {
					qty = "0"
					digitPressed = true
				}
				if qty == "0" {
					qty = strconv.Itoa(d)
				} else {
					qty += strconv.Itoa(d)
				}
				break
			}
			switch key.Key() {
			case tcell.KeyUp, tcell.KeyRight:
				qty = formatQuantity(parseQuantity(qty) + 1)
			case tcell.KeyDown, tcell.KeyLeft:
				qty = formatQuantity(parseQuantity(qty) - 1)
			case tcell.KeyRune:
				r := key.Rune()
				if !integer && !strings.Contains(qty, ".") &&
					(r == '.' || r == ',' || r == '*') {
					qty += "."
				}
			}
		}

		if qty == "" {
			qty = "0"
		}
	}
}

// formatQuantity uses the general numeric format so increments never
// accumulate trailing zeros.
func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseQuantity(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "."), 64)
	if err != nil {
		return 0
	}
	return v
}
