// Package theme defines the sentinel color scheme: three foreground/
// background pairs named base, info and error. The defaults match the
// classic scanner terminal look and can be replaced by the server's
// screen_colors configuration once per session.
package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Role selects one of the theme's color pairs.
type Role int

const (
	Base Role = iota
	Info
	Error
)

// Pair is one foreground/background color combination.
type Pair struct {
	Fg tcell.Color
	Bg tcell.Color
}

// Theme holds the three color pairs of a session. It is owned by the
// Session and passed explicitly; there is no process-wide theme.
type Theme struct {
	Base  Pair
	Info  Pair
	Error Pair
}

// colorNames maps the eight color names the server may send to terminal
// colors.
var colorNames = map[string]tcell.Color{
	"black":   tcell.ColorBlack,
	"blue":    tcell.ColorBlue,
	"cyan":    tcell.ColorTeal,
	"green":   tcell.ColorGreen,
	"magenta": tcell.ColorPurple,
	"red":     tcell.ColorMaroon,
	"white":   tcell.ColorWhite,
	"yellow":  tcell.ColorOlive,
}

// Default returns the built-in scheme: white on blue, info yellow on
// blue, errors yellow on red.
func Default() *Theme {
	return &Theme{
		Base:  Pair{Fg: tcell.ColorWhite, Bg: tcell.ColorBlue},
		Info:  Pair{Fg: tcell.ColorOlive, Bg: tcell.ColorBlue},
		Error: Pair{Fg: tcell.ColorOlive, Bg: tcell.ColorMaroon},
	}
}

// Style returns the tcell style for a role.
func (t *Theme) Style(role Role) tcell.Style {
	p := t.pair(role)
	return tcell.StyleDefault.Foreground(p.Fg).Background(p.Bg)
}

func (t *Theme) pair(role Role) Pair {
	switch role {
	case Info:
		return t.Info
	case Error:
		return t.Error
	default:
		return t.Base
	}
}

// Apply replaces the color pairs with the server-configured names.
// Unknown color names leave the previous color in place.
func (t *Theme) Apply(colors map[string][2]string) {
	apply := func(p *Pair, names [2]string) {
		if c, ok := colorNames[names[0]]; ok {
			p.Fg = c
		}
		if c, ok := colorNames[names[1]]; ok {
			p.Bg = c
		}
	}
	if names, ok := colors["base"]; ok {
		apply(&t.Base, names)
	}
	if names, ok := colors["info"]; ok {
		apply(&t.Info, names)
	}
	if names, ok := colors["error"]; ok {
		apply(&t.Error, names)
	}
}
