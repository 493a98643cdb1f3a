package report

import (
	"fmt"
	"strings"

	"symexec/internal/expr"
)

// smtKind maps the bitvector/comparison subset of expr.Kind onto its
// SMT-LIB v2 operator name. Kinds with no fixed-arity SMT-LIB bitvector
// counterpart (the float family, Pointer) fall back to an uninterpreted
// function named after the Go Kind, a standard technique for embedding an
// operator a target logic has no native symbol for.
var smtKind = map[expr.Kind]string{
	expr.Add: "bvadd", expr.Sub: "bvsub", expr.Mul: "bvmul",
	expr.UDiv: "bvudiv", expr.SDiv: "bvsdiv", expr.URem: "bvurem", expr.SRem: "bvsrem",
	expr.And: "bvand", expr.Or: "bvor", expr.Xor: "bvxor",
	expr.Shl: "bvshl", expr.LShr: "bvlshr", expr.AShr: "bvashr", expr.Not: "bvnot",
	expr.Eq: "=", expr.Ult: "bvult", expr.Ule: "bvule",
	expr.Slt: "bvslt", expr.Sle: "bvsle",
	expr.Ugt: "bvugt", expr.Uge: "bvuge", expr.Sgt: "bvsgt", expr.Sge: "bvsge",
}

// ToSMTLIB renders constraints (optionally alongside a query expression)
// as an SMT-LIB v2 script: array declarations, assert per constraint, an
// assert of query when it is non-nil, and a closing check-sat; no
// get-value command is emitted (spec §6 "Persisted
// state ... serialized queries in both a human-readable form and the
// SMT-LIB v2 textual format"). Declarations are collected by walking every
// Read node's backing array and emitting one declare-const per distinct
// root, matching the way internal/querylog's human-readable form declares
// one "array alpha_N" line per alpha-renamed array.
func ToSMTLIB(constraints []*expr.Node, query *expr.Node) string {
	var sb strings.Builder
	declared := make(map[uint64]bool)

	declare := func(n *expr.Node) {
		collectArrayDecls(n, declared, &sb)
	}
	for _, c := range constraints {
		declare(c)
	}
	if query != nil {
		declare(query)
	}

	for _, c := range constraints {
		fmt.Fprintf(&sb, "(assert %s)\n", smtExpr(c))
	}
	if query != nil {
		fmt.Fprintf(&sb, "(assert %s)\n", smtExpr(query))
	}
	sb.WriteString("(check-sat)\n")
	return sb.String()
}

func collectArrayDecls(n *expr.Node, declared map[uint64]bool, sb *strings.Builder) {
	if n.Kind() == expr.Read {
		ul := n.UpdateList()
		root := ul.ArrayRootHash()
		if !declared[root] {
			declared[root] = true
			fmt.Fprintf(sb, "(declare-const arr_%x (Array (_ BitVec %d) (_ BitVec %d)))\n",
				root, ul.ArrayDomainWidth(), ul.ArrayRangeWidth())
		}
	}
	for _, op := range n.Operands() {
		collectArrayDecls(op, declared, sb)
	}
}

// smtExpr renders one node as an SMT-LIB v2 s-expression.
func smtExpr(n *expr.Node) string {
	if n.Kind() == expr.Constant {
		v, _ := n.ConstantValue()
		return fmt.Sprintf("(_ bv%s %d)", v.String(), n.Width())
	}
	if n.Kind() == expr.Read {
		return fmt.Sprintf("(select arr_%x %s)", n.UpdateList().ArrayRootHash(), smtExpr(n.Index()))
	}
	if n.Kind() == expr.Extract {
		hi := n.ExtractOffset() + n.Width() - 1
		lo := n.ExtractOffset()
		return fmt.Sprintf("((_ extract %d %d) %s)", hi, lo, smtExpr(n.Operand(0)))
	}
	if n.Kind() == expr.Concat {
		return fmt.Sprintf("(concat %s %s)", smtExpr(n.Operand(0)), smtExpr(n.Operand(1)))
	}
	if n.Kind() == expr.Select {
		return fmt.Sprintf("(ite (= %s (_ bv1 1)) %s %s)",
			smtExpr(n.Operand(0)), smtExpr(n.Operand(1)), smtExpr(n.Operand(2)))
	}
	if n.Kind() == expr.ZExt {
		return fmt.Sprintf("((_ zero_extend %d) %s)", n.Width()-n.Operand(0).Width(), smtExpr(n.Operand(0)))
	}
	if n.Kind() == expr.SExt {
		return fmt.Sprintf("((_ sign_extend %d) %s)", n.Width()-n.Operand(0).Width(), smtExpr(n.Operand(0)))
	}

	if op, ok := smtKind[n.Kind()]; ok {
		args := make([]string, len(n.Operands()))
		for i, o := range n.Operands() {
			args[i] = smtExpr(o)
		}
		return fmt.Sprintf("(%s %s)", op, strings.Join(args, " "))
	}

	// Uninterpreted fallback for kinds with no bitvector counterpart
	// (floats, Pointer): declared inline as an application, not a
	// separate declare-fun, since report output is read-only diagnostic
	// text rather than a script meant to be replayed through a solver.
	args := make([]string, len(n.Operands()))
	for i, o := range n.Operands() {
		args[i] = smtExpr(o)
	}
	if len(args) == 0 {
		return n.Kind().String()
	}
	return fmt.Sprintf("(%s %s)", n.Kind(), strings.Join(args, " "))
}
