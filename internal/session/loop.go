package session

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"sentinel/internal/input"
	"sentinel/internal/log"
	"sentinel/internal/rpc"
	"sentinel/internal/ui"
)

// errorReplyLines is the operator-visible text of a locally synthesized
// error reply after an unexpected failure.
var errorReplyLines = []string{
	"An error occured", "", "Please contact your administrator",
}

// Run executes the protocol loop until the operator ends the session or
// a replay script is exhausted. Unexpected failures never leave the
// loop: they are written to the diagnostic log and converted into a
// local error reply.
func (s *Session) Run() error {
	var cur *rpc.Reply
	for {
		next, err := s.iterate(cur)
		if err != nil {
			if errors.Is(err, input.ErrScriptDone) {
				log.Info("replay script finished")
				return nil
			}
			return err
		}
		cur = next
	}
}

// iterate runs one step and resolves its outcome: navigation signals
// become back/end calls, unexpected failures become a diagnostic log
// entry plus a local error reply. Only end-of-input conditions are
// returned.
func (s *Session) iterate(cur *rpc.Reply) (*rpc.Reply, error) {
	next, err := s.safeStep(cur)
	switch {
	case err == nil:
		return next, nil

	case errors.Is(err, ui.ErrBack):
		back, berr := s.call("back", nil)
		if berr != nil {
			return s.failure(cur, berr), nil
		}
		if back.Code == "F" {
			// The back-step restored nothing: dismiss the
			// termination message before the operator sees it.
			s.queue.Push(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
		}
		s.ui.RestoreBase()
		return back, nil

	case errors.Is(err, ui.ErrInterrupt):
		end, eerr := s.call("end", nil)
		if eerr != nil {
			return s.failure(cur, eerr), nil
		}
		s.ui.RestoreBase()
		return end, nil

	case errors.Is(err, input.ErrScriptDone), errors.Is(err, input.ErrClosed):
		return nil, err

	default:
		return s.failure(cur, err), nil
	}
}

// safeStep shields the loop from panics in widget or parsing code.
func (s *Session) safeStep(cur *rpc.Reply) (reply *rpc.Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return s.step(cur)
}

// step interprets one reply: outside a scenario the top-level menu is
// offered; inside, the reply code selects the widget and the follow-up
// call per the protocol table.
func (s *Session) step(cur *rpc.Reply) (*rpc.Reply, error) {
	if !s.Scenario.InProgress() {
		return s.selectScenario()
	}
	if cur == nil {
		// Mid-scenario at startup: replay the current step.
		return s.call("restart", nil)
	}

	title := cur.Title
	if title == "" && s.Scenario.Name != "" {
		title = s.Scenario.Name
	}
	if cur.Beep {
		s.ui.Beep()
	}
	text := cur.Text()

	switch cur.Code {
	case "Q", "N":
		integer := cur.Code == "N"
		seed := formatSeed(rpc.Number(cur.Value))
		qty, err := s.ui.Quantity(text, seed, integer, title)
		if err != nil {
			return nil, err
		}
		if integer {
			return s.call("action", int64(qty))
		}
		return s.call("action", qty)

	case "C":
		confirmed, err := s.ui.Confirm(text, title)
		if err != nil {
			return nil, err
		}
		return s.call("action", confirmed)

	case "T":
		def, size := rpc.TextDefault(cur.Value)
		entered, err := s.ui.Text(text, def, size, title)
		if err != nil {
			return nil, err
		}
		return s.call("action", entered)

	case "R":
		s.Scenario = rpc.Scenario{}
		if err := s.ui.ShowError(text, title); err != nil {
			return nil, err
		}
		// No further RPC: the next step falls back to the top level.
		return cur, nil

	case "U":
		if err := s.ui.Message(text, title); err != nil {
			return nil, err
		}
		return s.call("back", nil)

	case "E":
		if err := s.ui.ShowError(text, title); err != nil {
			return nil, err
		}
		// Retry unless the server flagged a blocking value; kept as
		// observed in server behavior.
		if !rpc.Truthy(cur.Value) {
			return s.call("action", nil)
		}
		return s.call("back", nil)

	case "M":
		if err := s.ui.Message(text, title); err != nil {
			return nil, err
		}
		return s.call("action", cur.Value)

	case "L":
		next := cur
		if len(cur.Entries) > 0 {
			idx, err := s.ui.Menu(entryLabels(cur.Entries), title)
			if err != nil {
				return nil, err
			}
			next, err = s.call("action", cur.Entries[idx].Key)
			if err != nil {
				return nil, err
			}
		} else {
			// Empty list: synthesize the error locally, no RPC.
			next = rpc.NewLocalReply("E", []string{"No value available"}, true)
		}
		// A submenu response may reveal the scenario identity.
		if err := s.refreshScenario(); err != nil {
			return nil, err
		}
		return next, nil

	case "F":
		s.Scenario = rpc.Scenario{}
		if err := s.ui.Message(text, title); err != nil {
			return nil, err
		}
		return cur, nil

	default:
		log.Warn("unrecognized reply code", "code", cur.Code)
		return s.call("restart", nil)
	}
}

// selectScenario offers the top-level scenario menu.
func (s *Session) selectScenario() (*rpc.Reply, error) {
	menu, err := s.call("menu", nil)
	if err != nil {
		return nil, err
	}
	if len(menu.Entries) == 0 {
		if err := s.ui.ShowError("No scenario available !", ""); err != nil {
			return nil, err
		}
		return nil, nil
	}

	idx, err := s.ui.Menu(entryLabels(menu.Entries), "Scenarios")
	if err != nil {
		return nil, err
	}
	next, err := s.call("action", menu.Entries[idx].Key)
	if err != nil {
		return nil, err
	}
	if err := s.refreshScenario(); err != nil {
		return nil, err
	}
	return next, nil
}

// failure records the error with full session context in the diagnostic
// log and synthesizes the "contact your administrator" reply.
func (s *Session) failure(cur *rpc.Reply, cause error) *rpc.Reply {
	log.Error("unexpected failure in protocol loop", "error", cause)

	report := CrashReport{
		Time:         time.Now(),
		HardwareCode: s.HardwareCode,
		Scenario:     s.Scenario,
		Last:         s.last,
		Cause:        cause,
	}
	if cur != nil {
		report.Last = cur
	}
	if err := WriteCrashReport(s.logFile, report); err != nil {
		log.Error("failed to write crash report", "path", s.logFile, "error", err)
	}

	return rpc.NewLocalReply("E", errorReplyLines, false)
}

func entryLabels(entries []rpc.Entry) []string {
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}
	return labels
}

// formatSeed renders the server's default quantity without trailing
// zeros, matching the editor's own formatting.
func formatSeed(v float64) string {
	return fmt.Sprintf("%g", v)
}
