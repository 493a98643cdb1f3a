// Package sarif mirrors the slice of the SARIF result schema (spec §6)
// that the core both ingests (pre-existing findings fed in as extra
// targets) and emits (discovered errors at end of run). No SARIF parsing
// or validation lives here, matching spec §1's scope for this layer: just
// the structs a JSON encoder/decoder can drive directly.
package sarif

// Region locates a span within a single artifact by line/column.
type Region struct {
	StartLine   int `json:"startLine"`
	EndLine     int `json:"endLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// ArtifactLocation names the file a Region is within.
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// PhysicalLocation pairs an artifact with a region inside it.
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// Location is one entry of Result.locations.
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// ThreadFlowLocation is one step of a codeFlow's threadFlow.locations.
type ThreadFlowLocation struct {
	Location Location `json:"location"`
}

// ThreadFlow is one thread's sequence of locations within a code flow.
type ThreadFlow struct {
	Locations []ThreadFlowLocation `json:"locations"`
}

// CodeFlow groups the thread flows that together explain how a result
// was reached (spec "Result.codeFlows.threadFlows.locations").
type CodeFlow struct {
	ThreadFlows []ThreadFlow `json:"threadFlows"`
}

// Result is one SARIF finding, either ingested as a seed target or
// produced at the end of a run.
type Result struct {
	RuleID     string     `json:"ruleId,omitempty"`
	Message    string     `json:"message,omitempty"`
	Locations  []Location `json:"locations,omitempty"`
	CodeFlows  []CodeFlow `json:"codeFlows,omitempty"`
	Confidence float64    `json:"confidence,omitempty"`
}

// Run is one SARIF run's result list; File is the top-level document a
// single SARIF log holds one or more Runs of.
type Run struct {
	Results []Result `json:"results"`
}

type File struct {
	Runs []Run `json:"runs"`
}
