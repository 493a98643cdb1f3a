package expr

// Action is the algebra a Visitor's Visit hook returns to steer traversal,
// matching spec §4.1 ("an action algebra of DoChildren | SkipChildren |
// ChangeTo(expr) | ChangeChildrenTo(args...)"). This is grounded on the
// teacher's metadata visitor (kanso/internal/ast/metadata_visitor.go),
// which drives an AST walk off a similarly small verdict type returned by
// each hook, generalized here to rewrite rather than just collect.
type ActionKind uint8

const (
	DoChildren ActionKind = iota
	SkipChildren
	ChangeTo
	ChangeChildrenTo
)

type Action struct {
	Kind     ActionKind
	Node     *Node   // valid when Kind == ChangeTo
	Children []*Node // valid when Kind == ChangeChildrenTo
}

func Continue() Action        { return Action{Kind: DoChildren} }
func Stop() Action            { return Action{Kind: SkipChildren} }
func ReplaceWith(n *Node) Action { return Action{Kind: ChangeTo, Node: n} }
func Rechild(children ...*Node) Action {
	return Action{Kind: ChangeChildrenTo, Children: children}
}

// Visitor is implemented by rewrite passes over the DAG. Visit runs
// pre-order; PostVisit (if non-nil logic is needed) is modeled by calling
// Rewrite again bottom-up, since Go has no virtual post-order hook to
// override selectively.
type Visitor interface {
	Visit(n *Node) Action
}

// VisitorFunc adapts a plain function to the Visitor interface.
type VisitorFunc func(n *Node) Action

func (f VisitorFunc) Visit(n *Node) Action { return f(n) }

// Rewrite performs a depth-first traversal of n driven by v, honoring the
// action algebra and rebuilding parents whose children changed. Visitors
// may memoize per-node results; Rewrite does this for every call so that a
// DAG with shared subexpressions is only visited once per unique node
// (spec §4.1: "Visitors may memoize results per node").
func Rewrite(v Visitor, n *Node) (*Node, error) {
	memo := make(map[*Node]*Node)
	return rewrite(v, n, memo)
}

func rewrite(v Visitor, n *Node, memo map[*Node]*Node) (*Node, error) {
	if cached, ok := memo[n]; ok {
		return cached, nil
	}

	act := v.Visit(n)
	switch act.Kind {
	case SkipChildren:
		memo[n] = n
		return n, nil
	case ChangeTo:
		memo[n] = act.Node
		return act.Node, nil
	case ChangeChildrenTo:
		out, err := rebuild(n, act.Children)
		if err != nil {
			return nil, err
		}
		memo[n] = out
		return out, nil
	}

	// DoChildren: rewrite each operand, post-order hook rebuilds the parent
	// only if something actually changed (spec §4.1: "Post-order hooks
	// allow rewrites after child rewrites land").
	if len(n.operands) == 0 {
		memo[n] = n
		return n, nil
	}
	children := make([]*Node, len(n.operands))
	changed := false
	for i, op := range n.operands {
		c, err := rewrite(v, op, memo)
		if err != nil {
			return nil, err
		}
		children[i] = c
		if c != op {
			changed = true
		}
	}
	if !changed {
		memo[n] = n
		return n, nil
	}
	out, err := rebuild(n, children)
	if err != nil {
		return nil, err
	}
	memo[n] = out
	return out, nil
}

// rebuild reconstructs a node of the same kind over new children, running
// it back through the canonical builder so folding/normalization still
// applies after a rewrite.
func rebuild(n *Node, children []*Node) (*Node, error) {
	switch n.kind {
	case Constant:
		return n, nil
	case Add:
		return NewAdd(children[0], children[1])
	case Sub:
		return NewSub(children[0], children[1])
	case Mul:
		return NewMul(children[0], children[1])
	case UDiv:
		return NewUDiv(children[0], children[1])
	case SDiv:
		return NewSDiv(children[0], children[1])
	case URem:
		return NewURem(children[0], children[1])
	case SRem:
		return NewSRem(children[0], children[1])
	case And:
		return NewAnd(children[0], children[1])
	case Or:
		return NewOr(children[0], children[1])
	case Xor:
		return NewXor(children[0], children[1])
	case Shl:
		return NewShl(children[0], children[1])
	case LShr:
		return NewLShr(children[0], children[1])
	case AShr:
		return NewAShr(children[0], children[1])
	case Not:
		return NewNot(children[0]), nil
	case Eq:
		return NewEq(children[0], children[1])
	case Ne:
		return NewNe(children[0], children[1])
	case Ult:
		return NewUlt(children[0], children[1])
	case Ule:
		return NewUle(children[0], children[1])
	case Slt:
		return NewSlt(children[0], children[1])
	case Sle:
		return NewSle(children[0], children[1])
	case ZExt:
		return NewZExt(children[0], n.width)
	case SExt:
		return NewSExt(children[0], n.width)
	case Extract:
		return NewExtract(children[0], n.ExtractOffset(), n.width)
	case Concat:
		return NewConcat(children[0], children[1])
	case Select:
		return NewSelect(children[0], children[1], children[2])
	case Read:
		return NewReadRaw(n.UpdateList(), children[0])
	case Pointer:
		return NewPointer(children[0], children[1])
	case FAdd:
		return NewFAdd(children[0], children[1], n.RoundingModeOf())
	case FSub:
		return NewFSub(children[0], children[1], n.RoundingModeOf())
	case FMul:
		return NewFMul(children[0], children[1], n.RoundingModeOf())
	case FDiv:
		return NewFDiv(children[0], children[1], n.RoundingModeOf())
	case FSqrt:
		return NewFSqrt(children[0], n.RoundingModeOf()), nil
	case FRint:
		return NewFRint(children[0], n.RoundingModeOf()), nil
	case FAbs:
		return NewFAbs(children[0]), nil
	case IsNaN:
		return NewIsNaN(children[0]), nil
	case IsInfinite:
		return NewIsInfinite(children[0]), nil
	case IsNormal:
		return NewIsNormal(children[0]), nil
	case IsSubnormal:
		return NewIsSubnormal(children[0]), nil
	default:
		return nil, &InvalidOperandWidth{Kind: n.kind, Details: "no rebuild rule registered"}
	}
}

// ConstantFoldingVisitor is the canonical "fold what's already foldable"
// pass: since every builder already folds eagerly, visiting with it simply
// forces a bottom-up rebuild, which is enough to collapse any subtree whose
// leaves have since become constant through a ReplaceVisitor substitution.
type ConstantFoldingVisitor struct{}

func (ConstantFoldingVisitor) Visit(n *Node) Action { return Continue() }

// ReplaceVisitor substitutes one node for another wherever it's found,
// named in spec §4.1 as the other canonical visitor example.
type ReplaceVisitor struct {
	From, To *Node
}

func (r ReplaceVisitor) Visit(n *Node) Action {
	if n == r.From {
		return ReplaceWith(r.To)
	}
	return Continue()
}

// Replace substitutes `from` with `to` throughout expr, refolding along the
// way.
func Replace(n, from, to *Node) (*Node, error) {
	if from == to {
		return n, nil
	}
	return Rewrite(ReplaceVisitor{From: from, To: to}, n)
}
