package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Level mirrors the teacher's ErrorLevel (kanso/internal/errors), renamed
// from compiler diagnostics to the engine's own outcomes (spec §6
// "colorized terminal summaries via fatih/color").
type Level string

const (
	LevelConflict Level = "conflict"
	LevelTimeout  Level = "timeout"
	LevelTestCase Level = "test case"
)

func levelColor(l Level) func(a ...interface{}) string {
	switch l {
	case LevelConflict:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case LevelTimeout:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case LevelTestCase:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.Bold).SprintFunc()
	}
}

// Summary is one terminal-reported line item: a conflict closed by
// internal/bidir, a solver timeout, or a generated test case.
type Summary struct {
	Level    Level
	Location string // "function:block", empty if not applicable
	Message  string
	Detail   string // dimmed secondary line, e.g. a file path
}

// FormatSummary renders one Summary with the same bold-header/dim-detail
// convention the teacher's ErrorReporter used for compiler diagnostics
// (kanso/internal/errors/reporter.go FormatError), adapted to report
// symbolic-execution outcomes instead of parse/type errors.
func FormatSummary(s Summary) string {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	lc := levelColor(s.Level)

	var b strings.Builder
	if s.Location != "" {
		fmt.Fprintf(&b, "%s %s: %s\n", lc(string(s.Level)), bold(s.Location), s.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s\n", lc(string(s.Level)), s.Message)
	}
	if s.Detail != "" {
		fmt.Fprintf(&b, "  %s %s\n", dim("-->"), dim(s.Detail))
	}
	return b.String()
}

// FormatRunSummary renders the end-of-run tally: counts of conflicts
// closed, timeouts, and test cases emitted (spec §6 "end-of-run test-case
// summaries").
func FormatRunSummary(conflicts, timeouts, testCases int) string {
	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	return fmt.Sprintf("%s %s  %s  %s\n",
		bold("run complete:"),
		red(fmt.Sprintf("%d conflicts", conflicts)),
		yellow(fmt.Sprintf("%d timeouts", timeouts)),
		green(fmt.Sprintf("%d test cases", testCases)),
	)
}
