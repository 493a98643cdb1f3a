// Package report writes the per-run output directory described in spec
// §6 "Persisted state", and renders the colorized terminal summaries the
// teacher's compiler diagnostics used fatih/color for (kanso/internal/
// errors/reporter.go), now reporting symbolic-execution outcomes instead
// of parse/type errors.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/segmentio/ksuid"

	"symexec/internal/coreerr"
	"symexec/internal/expr"
	"symexec/internal/querylog"
)

// Run owns one run's output directory (spec §6: replay-mock file,
// assembly listing, optional final lifted IR, serialized queries in both
// forms, per-test input logs).
type Run struct {
	dir       string
	queryLog  *querylog.Logger
	queryFile *os.File
	smtFile   *os.File

	conflicts int
	timeouts  int
	testCases int
}

// Open creates dir (and its subdirectories) and returns a Run writing into
// it. minQueryWallTime is passed straight through to the human-readable
// query logger (spec §4.7 item 3's threshold).
func Open(dir string, minQueryWallTime time.Duration) (*Run, error) {
	if err := os.MkdirAll(filepath.Join(dir, "tests"), 0o755); err != nil {
		return nil, coreerr.WrapFatal(err, "report.Open: mkdir")
	}

	queryFile, err := os.Create(filepath.Join(dir, "queries.log"))
	if err != nil {
		return nil, coreerr.WrapFatal(err, "report.Open: queries.log")
	}
	smtFile, err := os.Create(filepath.Join(dir, "queries.smt2"))
	if err != nil {
		queryFile.Close()
		return nil, coreerr.WrapFatal(err, "report.Open: queries.smt2")
	}

	return &Run{
		dir:       dir,
		queryLog:  querylog.NewLogger(queryFile, minQueryWallTime),
		queryFile: queryFile,
		smtFile:   smtFile,
	}, nil
}

// Close flushes and releases every file this Run opened.
func (r *Run) Close() error {
	err1 := r.queryFile.Close()
	err2 := r.smtFile.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// LogQuery records a solver query in both the human-readable grammar
// (internal/querylog) and SMT-LIB v2 text.
func (r *Run) LogQuery(constraints []*expr.Node, query *expr.Node, wallTime time.Duration) error {
	if _, err := r.queryLog.Log(constraints, query, wallTime); err != nil {
		return err
	}
	if _, err := r.smtFile.WriteString(ToSMTLIB(constraints, query)); err != nil {
		return err
	}
	return nil
}

// WriteAssemblyListing persists the assembly listing of spec §6 item (b).
func (r *Run) WriteAssemblyListing(text string) error {
	return os.WriteFile(filepath.Join(r.dir, "assembly.s"), []byte(text), 0o644)
}

// WriteLiftedIR persists the optional final lifted IR of spec §6 item
// (c); callers that never lift an IR simply never call this.
func (r *Run) WriteLiftedIR(text string) error {
	return os.WriteFile(filepath.Join(r.dir, "lifted.ir"), []byte(text), 0o644)
}

// WriteReplayMock persists the replay-mock file of spec §6 item (a): a
// deterministic record of every mocked external call this run made, in
// the order it made them.
func (r *Run) WriteReplayMock(text string) error {
	return os.WriteFile(filepath.Join(r.dir, "replay.mock"), []byte(text), 0o644)
}

// WriteTestCase persists one per-test input log (spec §6 item (e)) and
// emits a colorized terminal summary line for it.
func (r *Run) WriteTestCase(label string, input []byte) (string, error) {
	name := fmt.Sprintf("%s-%s.ktest", label, ksuid.New().String())
	path := filepath.Join(r.dir, "tests", name)
	if err := os.WriteFile(path, input, 0o644); err != nil {
		return "", err
	}
	r.testCases++
	fmt.Fprint(os.Stdout, FormatSummary(Summary{Level: LevelTestCase, Message: label, Detail: path}))
	return path, nil
}

// ReportConflict emits a colorized terminal summary for a conflict the
// bidirectional engine closed (spec §4.12, spec §6's "colorized terminal
// ... conflicts (C12)").
func (r *Run) ReportConflict(location, message string) {
	r.conflicts++
	fmt.Fprint(os.Stdout, FormatSummary(Summary{Level: LevelConflict, Location: location, Message: message}))
}

// ReportTimeout emits a colorized terminal summary for a solver timeout.
func (r *Run) ReportTimeout(location, message string) {
	r.timeouts++
	fmt.Fprint(os.Stdout, FormatSummary(Summary{Level: LevelTimeout, Location: location, Message: message}))
}

// Finish prints the end-of-run tally.
func (r *Run) Finish() {
	fmt.Fprint(os.Stdout, FormatRunSummary(r.conflicts, r.timeouts, r.testCases))
}

