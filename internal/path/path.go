// Package path implements the Path & PathConstraints model of spec §4.6:
// an immutable sequence of basic-block records, classified by how control
// flow moved between functions, from which a call stack can be
// reconstructed without any side information.
package path

// Transition classifies how a block transition moved between functions
// (spec §4.6): In for entering a call, Out for leaving a function, None
// for an intra-function jump.
type Transition int

const (
	None Transition = iota
	In
	Out
)

// BlockRecord is one entry in a Path: the block reached, which function
// owns it, and how we got there.
type BlockRecord struct {
	Function   string
	Block      string
	Transition Transition
}

// Path is an immutable sequence of BlockRecords with first/last
// instruction indices into the first and last blocks respectively (spec
// §3). Advance never mutates; it returns a new Path holding its own copy
// of the block slice with the new record appended.
type Path struct {
	blocks     []BlockRecord
	firstInstr int
	lastInstr  int
}

// Empty returns the zero Path (no blocks yet).
func Empty() *Path {
	return &Path{}
}

// Blocks returns the block sequence (read-only view).
func (p *Path) Blocks() []BlockRecord { return p.blocks }

// FirstInstr / LastInstr are the instruction indices into the first and
// last blocks of the path.
func (p *Path) FirstInstr() int { return p.firstInstr }
func (p *Path) LastInstr() int  { return p.lastInstr }

// Advance appends a block transition to the path, recording instrIndex as
// the last instruction reached in that block.
func (p *Path) Advance(rec BlockRecord, instrIndex int) *Path {
	blocks := append(append([]BlockRecord{}, p.blocks...), rec)
	first := p.firstInstr
	if len(p.blocks) == 0 {
		first = instrIndex
	}
	return &Path{blocks: blocks, firstInstr: first, lastInstr: instrIndex}
}

// GetStack reconstructs the call stack of function names from the path
// alone (spec §4.6), using each block's Transition to push (In), pop
// (Out), or leave the top frame alone (None). reversed=false returns the
// stack with the caller-most frame first; reversed=true returns the
// innermost frame first.
func (p *Path) GetStack(reversed bool) []string {
	var stack []string
	for _, b := range p.blocks {
		switch b.Transition {
		case In:
			stack = append(stack, b.Function)
		case Out:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case None:
		}
	}
	if !reversed {
		return stack
	}
	out := make([]string, len(stack))
	for i, f := range stack {
		out[len(stack)-1-i] = f
	}
	return out
}

// Concat appends r's blocks after l's, preserving both the first
// instruction index (from l, or r if l is empty) and the stack
// reconstruction (spec testable property 9: "concat(l, r) preserves it").
func Concat(l, r *Path) *Path {
	if len(l.blocks) == 0 {
		return r
	}
	if len(r.blocks) == 0 {
		return l
	}
	blocks := append(append([]BlockRecord{}, l.blocks...), r.blocks...)
	return &Path{blocks: blocks, firstInstr: l.firstInstr, lastInstr: r.lastInstr}
}
