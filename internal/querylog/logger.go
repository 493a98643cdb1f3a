package querylog

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	"symexec/internal/expr"
	"symexec/internal/expr/alpha"
)

// Logger writes queries exceeding MinWallTime to an underlying writer in
// the format grammar.go parses back (spec §4.7 item 3).
type Logger struct {
	w           io.Writer
	minWallTime time.Duration
}

// NewLogger returns a Logger writing to w, logging only queries whose
// reported wall time is >= minWallTime.
func NewLogger(w io.Writer, minWallTime time.Duration) *Logger {
	return &Logger{w: w, minWallTime: minWallTime}
}

// Log serializes constraints and the optional query expression if wallTime
// meets the configured threshold, returning whether anything was written.
func (l *Logger) Log(constraints []*expr.Node, query *expr.Node, wallTime time.Duration) (bool, error) {
	if wallTime < l.minWallTime {
		return false, nil
	}

	b := alpha.NewBuilder()
	for _, c := range constraints {
		b.Visit(c)
	}
	if query != nil {
		b.Visit(query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# query %s %dms\n", ksuid.New().String(), wallTime.Milliseconds())
	for _, e := range b.Entries() {
		fmt.Fprintf(&sb, "array alpha_%d domain=%d range=%d\n",
			e.Index, e.List.ArrayDomainWidth(), e.List.ArrayRangeWidth())
	}
	for _, c := range constraints {
		fmt.Fprintf(&sb, "constraint <<<%s>>>\n", c.String())
	}
	if query != nil {
		fmt.Fprintf(&sb, "query <<<%s>>>\n", query.String())
	}
	sb.WriteString("\n")

	if _, err := io.WriteString(l.w, sb.String()); err != nil {
		return false, err
	}
	return true, nil
}

// ParsedEntry is Entry with delimiter wrapping stripped and the raw
// constraint/query text exposed as plain strings, the shape the replay
// harness consumes.
type ParsedEntry struct {
	ID          string
	DurationMs  int
	Constraints []string
	Query       string
	HasQuery    bool
}

// Decode converts every parsed Entry in a Log into a ParsedEntry.
func Decode(log *Log) []ParsedEntry {
	out := make([]ParsedEntry, 0, len(log.Entries))
	for _, e := range log.Entries {
		pe := ParsedEntry{ID: e.ID, DurationMs: e.DurationMs}
		for _, c := range e.Constraints {
			pe.Constraints = append(pe.Constraints, stripDelims(c.Expr))
		}
		if e.Query != nil {
			pe.HasQuery = true
			pe.Query = stripDelims(*e.Query)
		}
		out = append(out, pe)
	}
	return out
}
