// Package querylog serializes solver queries that exceed a configured
// minimum wall time into a human-readable text format (spec §4.7 "Query
// logger: serializes every query that exceeds a configured minimum wall
// time, with comment syntax per format"), and can parse that format back
// via a participle grammar for the replay/diagnostic test harness (spec §6
// "serialized queries ... in a human-readable form").
//
// The format mirrors the teacher's own source grammar (grammar/shared.go):
// a flat sequence of line records, each introduced by a keyword literal
// matched directly against the Ident token (participle's standard
// literal-vs-token-value matching, the same trick kanso's own grammar
// relies on for "struct", "fn", etc.), with expression text carried opaquely
// between <<< >>> delimiters since this grammar only needs to delimit
// records, not re-parse expression syntax.
package querylog

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var logLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Hash", `#`, nil},
		{"ExprBody", `<<<[^\n]*>>>`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Int", `[0-9]+`, nil},
		{"Punct", `[=:]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

// ArrayDecl is one "array alpha_N domain=D range=R" line.
type ArrayDecl struct {
	Name   string `"array" @Ident`
	Domain int    `"domain" "=" @Int`
	Range  int    `"range" "=" @Int`
}

// ConstraintDecl is one "constraint <<<...>>>" line.
type ConstraintDecl struct {
	Expr string `"constraint" @ExprBody`
}

// Entry is a single logged query: its correlation id, the wall time that
// triggered logging, the arrays it names, its constraints, and (if present)
// the query expression itself.
type Entry struct {
	ID          string            `"#" "query" @(Int? Ident)`
	DurationMs  int               `@Int "ms"`
	Arrays      []*ArrayDecl      `@@*`
	Constraints []*ConstraintDecl `@@*`
	Query       *string           `("query" @ExprBody)?`
}

// Log is a sequence of entries, the unit Parse reads.
type Log struct {
	Entries []*Entry `@@*`
}

var parser = participle.MustBuild[Log](
	participle.Lexer(logLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parse reads a complete query log previously produced by Logger.Log.
func Parse(text string) (*Log, error) {
	return parser.ParseString("", text)
}

// stripDelims removes the <<< >>> wrapper a parsed ExprBody token carries.
func stripDelims(s string) string {
	if len(s) >= 6 && s[:3] == "<<<" && s[len(s)-3:] == ">>>" {
		return s[3 : len(s)-3]
	}
	return s
}
