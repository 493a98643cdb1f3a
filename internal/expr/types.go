// Package expr implements the hash-consed, reference-counted expression
// DAG of spec §3/§4.1 (component C1): bitvector, array-read, comparison,
// cast, float, and pointer terms over canonical, interned nodes.
//
// The DAG is grounded on the teacher's internal/ir instruction set
// (kanso/internal/ir/types.go): a closed interface (there, Instruction;
// here, the Kind tag) over a fixed family of node shapes, each carrying
// its operands and a back-pointer-free payload. Where the teacher dispatches
// through a Go interface per instruction struct, the DAG instead uses one
// Node type with a Kind tag and a small payload, so that hash-consing can
// compare nodes structurally without a type switch over N concrete types.
package expr

import "fmt"

// Kind tags every expression variant named in spec §3.
type Kind uint8

const (
	Invalid Kind = iota

	Constant
	Read // C2: a read from an UpdateList at a given index

	Concat
	Extract

	Select // ITE: cond ? trueExpr : falseExpr

	Add
	Sub
	Mul
	UDiv
	SDiv
	URem
	SRem

	And
	Or
	Xor
	Shl
	LShr
	AShr
	Not

	Eq
	Ne
	Ult
	Ule
	Slt
	Sle
	Ugt
	Uge
	Sgt
	Sge

	ZExt
	SExt

	FAdd
	FSub
	FMul
	FDiv
	FSqrt
	FAbs
	FRint
	IsNaN
	IsInfinite
	IsNormal
	IsSubnormal

	Pointer
)

func (k Kind) String() string {
	switch k {
	case Constant:
		return "Constant"
	case Read:
		return "Read"
	case Concat:
		return "Concat"
	case Extract:
		return "Extract"
	case Select:
		return "Select"
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case Mul:
		return "Mul"
	case UDiv:
		return "UDiv"
	case SDiv:
		return "SDiv"
	case URem:
		return "URem"
	case SRem:
		return "SRem"
	case And:
		return "And"
	case Or:
		return "Or"
	case Xor:
		return "Xor"
	case Shl:
		return "Shl"
	case LShr:
		return "LShr"
	case AShr:
		return "AShr"
	case Not:
		return "Not"
	case Eq:
		return "Eq"
	case Ne:
		return "Ne"
	case Ult:
		return "Ult"
	case Ule:
		return "Ule"
	case Slt:
		return "Slt"
	case Sle:
		return "Sle"
	case Ugt:
		return "Ugt"
	case Uge:
		return "Uge"
	case Sgt:
		return "Sgt"
	case Sge:
		return "Sge"
	case ZExt:
		return "ZExt"
	case SExt:
		return "SExt"
	case FAdd:
		return "FAdd"
	case FSub:
		return "FSub"
	case FMul:
		return "FMul"
	case FDiv:
		return "FDiv"
	case FSqrt:
		return "FSqrt"
	case FAbs:
		return "FAbs"
	case FRint:
		return "FRint"
	case IsNaN:
		return "IsNaN"
	case IsInfinite:
		return "IsInfinite"
	case IsNormal:
		return "IsNormal"
	case IsSubnormal:
		return "IsSubnormal"
	case Pointer:
		return "Pointer"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsComparison reports whether k always produces a width-1 result.
func (k Kind) IsComparison() bool {
	switch k {
	case Eq, Ne, Ult, Ule, Slt, Sle, Ugt, Uge, Sgt, Sge, IsNaN, IsInfinite, IsNormal, IsSubnormal:
		return true
	default:
		return false
	}
}

func (k Kind) IsFloat() bool {
	switch k {
	case FAdd, FSub, FMul, FDiv, FSqrt, FAbs, FRint, IsNaN, IsInfinite, IsNormal, IsSubnormal:
		return true
	default:
		return false
	}
}

func (k Kind) IsCommutative() bool {
	switch k {
	case Add, Mul, And, Or, Xor, Eq, Ne, FAdd, FMul:
		return true
	default:
		return false
	}
}

// RoundingMode is the IEEE-754 rounding mode carried by float arithmetic
// terms (spec §3: "Float terms carry a rounding mode ... drawn from
// {RNE, RNA, RU, RD, RZ}").
type RoundingMode uint8

const (
	RNE RoundingMode = iota // round to nearest, ties to even
	RNA                     // round to nearest, ties away from zero
	RU                      // round up (toward +inf)
	RD                      // round down (toward -inf)
	RZ                      // round toward zero
)

func (r RoundingMode) String() string {
	switch r {
	case RNE:
		return "RNE"
	case RNA:
		return "RNA"
	case RU:
		return "RU"
	case RD:
		return "RD"
	case RZ:
		return "RZ"
	default:
		return "RM(?)"
	}
}

// InvalidOperandWidth is returned by the New* builders when operand widths violate an
// operator's typing (spec §4.1, testable property 2).
type InvalidOperandWidth struct {
	Kind    Kind
	Details string
}

func (e *InvalidOperandWidth) Error() string {
	return fmt.Sprintf("invalid operand width for %s: %s", e.Kind, e.Details)
}
