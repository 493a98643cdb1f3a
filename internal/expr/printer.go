package expr

import (
	"fmt"
	"strings"
)

// String renders n as an s-expression, grounded on the teacher's
// kanso/internal/ir printer (indentation-free, one node per call) but
// collapsed onto one line since expressions rarely need block layout.
func (n *Node) String() string {
	var b strings.Builder
	writeNode(&b, n, make(map[*Node]bool))
	return b.String()
}

func writeNode(b *strings.Builder, n *Node, seen map[*Node]bool) {
	if n.kind == Constant {
		v, _ := n.ConstantValue()
		fmt.Fprintf(b, "%s:w%d", v.String(), n.width)
		return
	}

	fmt.Fprintf(b, "(%s", n.kind)
	if n.kind == Extract {
		fmt.Fprintf(b, " %d", n.ExtractOffset())
	}
	if n.kind == Read {
		fmt.Fprintf(b, " ul#%x", n.UpdateList().ULHash())
	}
	for _, op := range n.operands {
		b.WriteByte(' ')
		writeNode(b, op, seen)
	}
	b.WriteString(")")
}
