// Package terminal wraps the physical terminal behind a small capability
// surface so the display engine and widgets can run against a live tcell
// screen or a headless simulation screen in tests.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Surface is the capability interface the rest of the client consumes.
type Surface interface {
	// Size reports the current grid size in cells.
	Size() (width, height int)
	// SetSize requests a grid resize where the backend supports it.
	SetSize(width, height int)
	// Print writes text starting at cell (x, y) with the given style.
	Print(x, y int, text string, style tcell.Style)
	// SetCell writes a single rune at (x, y).
	SetCell(x, y int, r rune, style tcell.Style)
	// ShowCursor places the hardware cursor.
	ShowCursor(x, y int)
	// Fill clears the whole grid to the style's background.
	Fill(style tcell.Style)
	// Show flushes pending writes to the terminal.
	Show()
	// PollEvent blocks for the next key/mouse/resize event. A nil event
	// means the screen has been finalized.
	PollEvent() tcell.Event
	// Beep rings the terminal bell.
	Beep()
	// Fini restores the terminal.
	Fini()
}

// Screen adapts a tcell.Screen to the Surface interface.
type Screen struct {
	scr tcell.Screen
}

// New initializes the live terminal screen with mouse reporting enabled.
func New() (*Screen, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := scr.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	scr.EnableMouse(tcell.MouseButtonEvents)
	return &Screen{scr: scr}, nil
}

// NewSimulation returns a Surface over a tcell simulation screen, for
// headless tests.
func NewSimulation(width, height int) (*Screen, tcell.SimulationScreen) {
	sim := tcell.NewSimulationScreen("UTF-8")
	sim.Init()
	sim.SetSize(width, height)
	return &Screen{scr: sim}, sim
}

func (s *Screen) Size() (int, int) {
	return s.scr.Size()
}

func (s *Screen) SetSize(width, height int) {
	s.scr.SetSize(width, height)
}

func (s *Screen) Print(x, y int, text string, style tcell.Style) {
	col := x
	row := y
	for _, r := range text {
		if r == '\n' {
			row++
			col = x
			continue
		}
		s.scr.SetContent(col, row, r, nil, style)
		col++
	}
}

func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	s.scr.SetContent(x, y, r, nil, style)
}

func (s *Screen) ShowCursor(x, y int) {
	s.scr.ShowCursor(x, y)
}

func (s *Screen) Fill(style tcell.Style) {
	s.scr.Fill(' ', style)
}

func (s *Screen) Show() {
	s.scr.Show()
}

func (s *Screen) PollEvent() tcell.Event {
	return s.scr.PollEvent()
}

func (s *Screen) Beep() {
	s.scr.Beep()
}

func (s *Screen) Fini() {
	s.scr.Fini()
}
