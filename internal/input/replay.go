package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// namedKeys maps the replay script's named-key tokens to tcell keys.
var namedKeys = map[string]tcell.Key{
	"KEY_UP":        tcell.KeyUp,
	"KEY_DOWN":      tcell.KeyDown,
	"KEY_LEFT":      tcell.KeyLeft,
	"KEY_RIGHT":     tcell.KeyRight,
	"KEY_BACKSPACE": tcell.KeyBackspace2,
	"KEY_DC":        tcell.KeyDelete,
	"KEY_ENTER":     tcell.KeyEnter,
	"KEY_ESCAPE":    tcell.KeyEscape,
}

// Replay reads keystrokes from a recorded script. Each byte is one
// keystroke, except a literal colon which introduces a named-key token
// terminated by a newline (":KEY_DOWN\n"). End of script surfaces as
// ErrScriptDone.
type Replay struct {
	r *bufio.Reader
}

func NewReplay(r io.Reader) *Replay {
	return &Replay{r: bufio.NewReader(r)}
}

func (s *Replay) Next() (tcell.Event, error) {
	r, _, err := s.r.ReadRune()
	if err == io.EOF {
		return nil, ErrScriptDone
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read replay script: %w", err)
	}

	if r == ':' {
		token, err := s.r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read replay script: %w", err)
		}
		token = strings.TrimSuffix(token, "\n")
		key, ok := namedKeys[token]
		if !ok {
			return nil, fmt.Errorf("unknown key token %q in replay script", token)
		}
		return tcell.NewEventKey(key, 0, tcell.ModNone), nil
	}

	switch r {
	case '\n', '\r':
		return tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), nil
	case 0x1b:
		return tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), nil
	case 0x7f, 0x08:
		return tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), nil
	default:
		return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone), nil
	}
}
