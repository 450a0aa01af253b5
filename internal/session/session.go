// Package session owns the lifetime of one terminal connection: the
// immutable hardware identity, the active scenario, the protocol state
// machine that maps remote reply codes to widgets, and the diagnostic
// sink for unexpected failures.
package session

import (
	"fmt"
	"os"
	"strings"

	"sentinel/internal/input"
	"sentinel/internal/log"
	"sentinel/internal/rpc"
	"sentinel/internal/ui"
)

// Session is the process-wide state for one terminal connection. The
// hardware code is resolved once during Start and immutable afterwards.
type Session struct {
	HardwareCode string
	Scenario     rpc.Scenario

	conn  rpc.Connection
	ui    *ui.UI
	queue *input.Queue

	logFile   string
	audioFile string
	replay    bool

	// last reply, kept only as context for crash reports
	last *rpc.Reply
}

// Params wires a session together.
type Params struct {
	Conn      rpc.Connection
	UI        *ui.UI
	Queue     *input.Queue
	LogFile   string
	AudioFile string
	// Replay is set when a recorded script drives the session; a
	// stale server-side session is reset before the loop starts.
	Replay bool
}

func New(p Params) *Session {
	return &Session{
		conn:      p.Conn,
		ui:        p.UI,
		queue:     p.Queue,
		logFile:   p.LogFile,
		audioFile: p.AudioFile,
		replay:    p.Replay,
	}
}

// Start resolves screen geometry, terminal identity and theme colors
// from the server. Failures here are fatal: the main loop must not run
// on an unidentified terminal.
func (s *Session) Start() error {
	// Identity first: the server answers the configuration calls per
	// terminal. Manual code entry runs on the default 18x6 grid.
	if err := s.resolveIdentity(); err != nil {
		return err
	}
	if err := s.setupGeometry(); err != nil {
		return err
	}
	if err := s.reloadColors(); err != nil {
		return err
	}

	if s.replay {
		// Reset a session left over from a crashed replay run.
		if _, err := s.call("end", nil); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
	}

	log.Info("session started",
		"hardware", s.HardwareCode, "scenario", s.Scenario.String())
	return nil
}

// setupGeometry asks the server for the hardware screen size; zeros mean
// the terminal's own size is authoritative.
func (s *Session) setupGeometry() error {
	width, height, err := s.screenSize()
	if err != nil {
		return err
	}
	if width == 0 || height == 0 {
		s.ui.SetAutoSize()
		return nil
	}
	s.ui.SetFixedSize(width, height, s.screenSize)
	return nil
}

func (s *Session) screenSize() (int, int, error) {
	reply, err := s.conn.Call(s.HardwareCode, "screen_size", nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch screen size: %w", err)
	}
	return reply.Size()
}

// resolveIdentity determines the hardware code: the SSH client address,
// then the SENTINEL_CODE variable, then manual entry. Each candidate is
// verified with scanner_check before being adopted.
func (s *Session) resolveIdentity() error {
	if ssh := os.Getenv("SSH_CONNECTION"); ssh != "" {
		code := strings.Fields(ssh)[0]
		if s.adoptIdentity(code) {
			return nil
		}
	}
	if code := os.Getenv("SENTINEL_CODE"); code != "" {
		if s.adoptIdentity(code) {
			return nil
		}
	}

	code, err := s.ui.Text(
		"Autoconfiguration failed !\nPlease enter terminal code", "", 0, "")
	if err != nil {
		return fmt.Errorf("terminal code entry aborted: %w", err)
	}
	if !s.adoptIdentity(code) {
		return fmt.Errorf("terminal code %q not accepted by server", code)
	}
	return nil
}

func (s *Session) adoptIdentity(code string) bool {
	scenario, err := s.conn.Check(code)
	if err != nil {
		log.Warn("scanner_check refused terminal code", "code", code, "error", err)
		return false
	}
	s.HardwareCode = code
	s.Scenario = scenario
	return true
}

// reloadColors replaces the default theme with the server-configured
// color pairs and repaints the background.
func (s *Session) reloadColors() error {
	reply, err := s.conn.Call(s.HardwareCode, "screen_colors", nil)
	if err != nil {
		return fmt.Errorf("failed to fetch screen colors: %w", err)
	}
	colors, err := reply.Colors()
	if err != nil {
		return err
	}
	s.ui.Theme.Apply(colors)
	s.ui.RestoreBase()
	return nil
}

// call performs one scanner_call, showing the busy hint while the RPC is
// outstanding, and records the reply for crash-report context.
func (s *Session) call(action string, message any) (*rpc.Reply, error) {
	s.ui.Busy()
	reply, err := s.conn.Call(s.HardwareCode, action, message)
	if err != nil {
		return nil, err
	}
	s.last = reply
	return reply, nil
}

// refreshScenario re-derives the scenario identity from the server; a
// negative answer while mid-flow becomes the bare "active" marker.
func (s *Session) refreshScenario() error {
	scenario, err := s.conn.Check(s.HardwareCode)
	if err != nil {
		return fmt.Errorf("scanner_check failed: %w", err)
	}
	if !scenario.InProgress() {
		scenario = rpc.Scenario{Active: true}
	}
	s.Scenario = scenario
	return nil
}
