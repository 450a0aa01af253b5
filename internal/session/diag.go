package session

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"sentinel/internal/rpc"
)

// CrashReport is one diagnostic log entry: the full session context at
// the moment an unexpected failure was caught.
type CrashReport struct {
	Time         time.Time
	HardwareCode string
	Scenario     rpc.Scenario
	// Last is the reply being processed when the failure happened.
	Last  *rpc.Reply
	Cause error
}

const ruleLine = "###############################################################################"

// WriteCrashReport appends the report to the diagnostic log. The file is
// opened and closed per write so no handle outlives the entry.
func WriteCrashReport(path string, report CrashReport) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open diagnostic log: %w", err)
	}
	defer f.Close()

	code, result, value := "", "", ""
	if report.Last != nil {
		code = report.Last.Code
		result = strings.Join(report.Last.Lines(), " | ")
		value = fmt.Sprintf("%v", report.Last.Value)
	}

	trace := ""
	if report.Cause != nil {
		trace = report.Cause.Error()
	}
	if !strings.Contains(trace, "goroutine ") {
		trace += "\n" + string(debug.Stack())
	}

	_, err = fmt.Fprintf(f, `%s
# %s
# Hardware code : %s
# Current scenario : %s
# Current values :
#	code : %s
#	result : %s
#	value : %s
%s
%s
`,
		ruleLine,
		report.Time.Format("2006-01-02 15:04:05"),
		report.HardwareCode,
		report.Scenario,
		code,
		result,
		value,
		ruleLine,
		strings.TrimRight(trace, "\n"),
	)
	if err != nil {
		return fmt.Errorf("failed to write diagnostic log: %w", err)
	}
	return nil
}
