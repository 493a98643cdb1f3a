// Package telemetry wires the engine's packages into a single commonlog
// hierarchy, scoped by component name the way the teacher's LSP entry point
// scopes its handler logger.
package telemetry

import (
	"github.com/tliron/commonlog"
)

// Scope returns a logger namespaced under "symexec.<name>", e.g.
// "symexec.solver" or "symexec.searcher".
func Scope(name string) commonlog.Logger {
	return commonlog.GetLogger("symexec." + name)
}

// Configure sets the global verbosity, mirroring the teacher's
// commonlog.Configure(1, nil) call in cmd/kanso-lsp.
func Configure(maxLevel int) {
	commonlog.Configure(maxLevel, nil)
}
