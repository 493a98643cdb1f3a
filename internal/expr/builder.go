package expr

import "math/big"

// requireWidth returns an *InvalidOperandWidth error when cond is false:
// spec §4.1 says width mismatches "fail loudly"; we return the error
// rather than panicking so callers in the interpreter can turn it into a
// coreerr.Fatal at the boundary that actually owns recovery policy.
func requireWidth(kind Kind, cond bool, details string) error {
	if cond {
		return nil
	}
	return &InvalidOperandWidth{Kind: kind, Details: details}
}

func sameWidth(a, b *Node) bool { return a.width == b.width }

// commutativeOrder returns (x, y) ordered by height, ties broken by
// uintptrOf's hash-derived key rather than the raw pointer, so that
// Add(a,b) and Add(b,a) canonicalize to the same node (spec §4.1).
func commutativeOrder(a, b *Node) (*Node, *Node) {
	ha, hb := a.Height(), b.Height()
	if ha > hb || (ha == hb && uintptrOf(a) > uintptrOf(b)) {
		return b, a
	}
	return a, b
}

// uintptrOf gives a stable, arbitrary total order over node identities for
// tie-breaking equal-height commutative operands.
func uintptrOf(n *Node) uint64 {
	return mix(n.hash, uint64(len(n.operands)))
}

// NewAdd builds a canonical Add, applying constant folding and the
// Add(c, Add(c', x)) -> Add(c+c', x) regrouping named in spec §4.1.
func NewAdd(a, b *Node) (*Node, error) {
	if err := requireWidth(Add, sameWidth(a, b), "Add operands must share a width"); err != nil {
		return nil, err
	}
	if av, ok := a.ConstantValue(); ok {
		if bv, ok2 := b.ConstantValue(); ok2 {
			return Constant_(new(big.Int).Add(av, bv), a.width), nil
		}
		if av.Sign() == 0 {
			return b, nil
		}
		// Add(c, Add(c', x)) -> Add(c+c', x)
		if b.kind == Add {
			if l, ok := b.operands[0].ConstantValue(); ok {
				sum := Constant_(new(big.Int).Add(av, l), a.width)
				return NewAdd(sum, b.operands[1])
			}
		}
	}
	if bv, ok := b.ConstantValue(); ok && bv.Sign() == 0 {
		return a, nil
	}
	x, y := commutativeOrder(a, b)
	return internTable.intern(Add, a.width, []*Node{x, y}, nil), nil
}

func NewSub(a, b *Node) (*Node, error) {
	if err := requireWidth(Sub, sameWidth(a, b), "Sub operands must share a width"); err != nil {
		return nil, err
	}
	if av, ok := a.ConstantValue(); ok {
		if bv, ok2 := b.ConstantValue(); ok2 {
			return Constant_(new(big.Int).Sub(av, bv), a.width), nil
		}
	}
	if bv, ok := b.ConstantValue(); ok && bv.Sign() == 0 {
		return a, nil
	}
	if a == b {
		return ConstantU64(0, a.width), nil
	}
	return internTable.intern(Sub, a.width, []*Node{a, b}, nil), nil
}

func NewMul(a, b *Node) (*Node, error) {
	if err := requireWidth(Mul, sameWidth(a, b), "Mul operands must share a width"); err != nil {
		return nil, err
	}
	if av, ok := a.ConstantValue(); ok {
		if bv, ok2 := b.ConstantValue(); ok2 {
			return Constant_(new(big.Int).Mul(av, bv), a.width), nil
		}
		switch {
		case av.Sign() == 0:
			return a, nil
		case av.Cmp(big.NewInt(1)) == 0:
			return b, nil
		}
	}
	if bv, ok := b.ConstantValue(); ok {
		switch {
		case bv.Sign() == 0:
			return b, nil
		case bv.Cmp(big.NewInt(1)) == 0:
			return a, nil
		}
	}
	x, y := commutativeOrder(a, b)
	return internTable.intern(Mul, a.width, []*Node{x, y}, nil), nil
}

func newDivRem(kind Kind, a, b *Node, foldFn func(a, b *big.Int, width uint32) *big.Int) (*Node, error) {
	if err := requireWidth(kind, sameWidth(a, b), "operands must share a width"); err != nil {
		return nil, err
	}
	if av, ok := a.ConstantValue(); ok {
		if bv, ok2 := b.ConstantValue(); ok2 && bv.Sign() != 0 {
			return Constant_(foldFn(av, bv, a.width), a.width), nil
		}
	}
	return internTable.intern(kind, a.width, []*Node{a, b}, nil), nil
}

func NewUDiv(a, b *Node) (*Node, error) {
	return newDivRem(UDiv, a, b, func(x, y *big.Int, w uint32) *big.Int { return new(big.Int).Div(x, y) })
}

func NewURem(a, b *Node) (*Node, error) {
	return newDivRem(URem, a, b, func(x, y *big.Int, w uint32) *big.Int { return new(big.Int).Mod(x, y) })
}

func NewSDiv(a, b *Node) (*Node, error) {
	return newDivRem(SDiv, a, b, func(x, y *big.Int, w uint32) *big.Int {
		sx, sy := signedValue(x, w), signedValue(y, w)
		q := new(big.Int).Quo(sx, sy)
		return reduce(q, w)
	})
}

func NewSRem(a, b *Node) (*Node, error) {
	return newDivRem(SRem, a, b, func(x, y *big.Int, w uint32) *big.Int {
		sx, sy := signedValue(x, w), signedValue(y, w)
		r := new(big.Int).Rem(sx, sy)
		return reduce(r, w)
	})
}

// bitwise ops: And/Or/Xor/Shl/LShr/AShr/Not, with absorption laws for
// boolean constants (spec §4.1: "absorption for And/Or with boolean constants").
func NewAnd(a, b *Node) (*Node, error) {
	if err := requireWidth(And, sameWidth(a, b), "And operands must share a width"); err != nil {
		return nil, err
	}
	if av, ok := a.ConstantValue(); ok {
		if bv, ok2 := b.ConstantValue(); ok2 {
			return Constant_(new(big.Int).And(av, bv), a.width), nil
		}
		if av.Sign() == 0 {
			return a, nil
		}
		if a.IsAllOnes() {
			return b, nil
		}
	}
	if b.IsAllOnes() {
		return a, nil
	}
	if bv, ok := b.ConstantValue(); ok && bv.Sign() == 0 {
		return b, nil
	}
	if a == b {
		return a, nil
	}
	x, y := commutativeOrder(a, b)
	return internTable.intern(And, a.width, []*Node{x, y}, nil), nil
}

func NewOr(a, b *Node) (*Node, error) {
	if err := requireWidth(Or, sameWidth(a, b), "Or operands must share a width"); err != nil {
		return nil, err
	}
	if av, ok := a.ConstantValue(); ok {
		if bv, ok2 := b.ConstantValue(); ok2 {
			return Constant_(new(big.Int).Or(av, bv), a.width), nil
		}
		if av.Sign() == 0 {
			return b, nil
		}
		if a.IsAllOnes() {
			return a, nil
		}
	}
	if b.IsAllOnes() {
		return b, nil
	}
	if bv, ok := b.ConstantValue(); ok && bv.Sign() == 0 {
		return a, nil
	}
	if a == b {
		return a, nil
	}
	x, y := commutativeOrder(a, b)
	return internTable.intern(Or, a.width, []*Node{x, y}, nil), nil
}

func NewXor(a, b *Node) (*Node, error) {
	if err := requireWidth(Xor, sameWidth(a, b), "Xor operands must share a width"); err != nil {
		return nil, err
	}
	if av, ok := a.ConstantValue(); ok {
		if bv, ok2 := b.ConstantValue(); ok2 {
			return Constant_(new(big.Int).Xor(av, bv), a.width), nil
		}
		if av.Sign() == 0 {
			return b, nil
		}
	}
	if bv, ok := b.ConstantValue(); ok && bv.Sign() == 0 {
		return a, nil
	}
	if a == b {
		return ConstantU64(0, a.width), nil
	}
	return internTable.intern(Xor, a.width, []*Node{a, b}, nil), nil
}

func newShift(kind Kind, a, b *Node, foldFn func(v *big.Int, shift uint, width uint32) *big.Int) (*Node, error) {
	if err := requireWidth(kind, sameWidth(a, b), "shift operands must share a width"); err != nil {
		return nil, err
	}
	if bv, ok := b.ConstantValue(); ok {
		if bv.Sign() == 0 {
			return a, nil
		}
		if av, ok2 := a.ConstantValue(); ok2 {
			return Constant_(foldFn(av, uint(bv.Uint64()), a.width), a.width), nil
		}
	}
	return internTable.intern(kind, a.width, []*Node{a, b}, nil), nil
}

func NewShl(a, b *Node) (*Node, error) {
	return newShift(Shl, a, b, func(v *big.Int, s uint, w uint32) *big.Int {
		return new(big.Int).Lsh(v, s)
	})
}

func NewLShr(a, b *Node) (*Node, error) {
	return newShift(LShr, a, b, func(v *big.Int, s uint, w uint32) *big.Int {
		return new(big.Int).Rsh(v, s)
	})
}

func NewAShr(a, b *Node) (*Node, error) {
	return newShift(AShr, a, b, func(v *big.Int, s uint, w uint32) *big.Int {
		sv := signedValue(v, w)
		return reduce(new(big.Int).Rsh(sv, s), w)
	})
}

func NewNot(a *Node) *Node {
	if av, ok := a.ConstantValue(); ok {
		return Constant_(new(big.Int).Not(av), a.width)
	}
	if a.kind == Not {
		return a.operands[0]
	}
	return internTable.intern(Not, a.width, []*Node{a}, nil)
}

// comparisons: all produce width-1 results (spec §3 invariant).
func newCompare(kind Kind, a, b *Node, foldFn func(a, b *big.Int) bool) (*Node, error) {
	if err := requireWidth(kind, sameWidth(a, b), "comparison operands must share a width"); err != nil {
		return nil, err
	}
	if av, ok := a.ConstantValue(); ok {
		if bv, ok2 := b.ConstantValue(); ok2 {
			if foldFn(av, bv) {
				return True(), nil
			}
			return False(), nil
		}
	}
	// canonicalize Eq(c, x): constant on the left (spec §4.1).
	if kind == Eq || kind == Ne {
		if _, ok := a.ConstantValue(); !ok {
			if _, ok2 := b.ConstantValue(); ok2 {
				a, b = b, a
			}
		}
		if a == b {
			if kind == Eq {
				return True(), nil
			}
			return False(), nil
		}
	}
	return internTable.intern(kind, 1, []*Node{a, b}, nil), nil
}

func NewEq(a, b *Node) (*Node, error) {
	return newCompare(Eq, a, b, func(x, y *big.Int) bool { return x.Cmp(y) == 0 })
}
func NewNe(a, b *Node) (*Node, error) {
	return newCompare(Ne, a, b, func(x, y *big.Int) bool { return x.Cmp(y) != 0 })
}
func NewUlt(a, b *Node) (*Node, error) {
	return newCompare(Ult, a, b, func(x, y *big.Int) bool { return x.Cmp(y) < 0 })
}
func NewUle(a, b *Node) (*Node, error) {
	return newCompare(Ule, a, b, func(x, y *big.Int) bool { return x.Cmp(y) <= 0 })
}
func NewSlt(a, b *Node) (*Node, error) {
	w := a.width
	return newCompare(Slt, a, b, func(x, y *big.Int) bool { return signedValue(x, w).Cmp(signedValue(y, w)) < 0 })
}
func NewSle(a, b *Node) (*Node, error) {
	w := a.width
	return newCompare(Sle, a, b, func(x, y *big.Int) bool { return signedValue(x, w).Cmp(signedValue(y, w)) <= 0 })
}

// Ugt/Uge/Sgt/Sge are duals, built from Ult/Ule/Slt/Sle per spec §3
// ("unsigned/signed duals").
func NewUgt(a, b *Node) (*Node, error) { return NewUlt(b, a) }
func NewUge(a, b *Node) (*Node, error) { return NewUle(b, a) }
func NewSgt(a, b *Node) (*Node, error) { return NewSlt(b, a) }
func NewSge(a, b *Node) (*Node, error) { return NewSle(b, a) }

// NewZExt/NewSExt cast a to a wider width.
func NewZExt(a *Node, width uint32) (*Node, error) {
	if err := requireWidth(ZExt, width > a.width, "ZExt target width must exceed operand width"); err != nil {
		return nil, err
	}
	if av, ok := a.ConstantValue(); ok {
		return Constant_(new(big.Int).Set(av), width), nil
	}
	return internTable.intern(ZExt, width, []*Node{a}, nil), nil
}

func NewSExt(a *Node, width uint32) (*Node, error) {
	if err := requireWidth(SExt, width > a.width, "SExt target width must exceed operand width"); err != nil {
		return nil, err
	}
	if av, ok := a.ConstantValue(); ok {
		return Constant_(reduce(signedValue(av, a.width), width), width), nil
	}
	return internTable.intern(SExt, width, []*Node{a}, nil), nil
}

// NewExtract takes `width` bits starting at bit `offset`.
func NewExtract(a *Node, offset, width uint32) (*Node, error) {
	if err := requireWidth(Extract, offset+width <= a.width, "Extract range must lie within the operand"); err != nil {
		return nil, err
	}
	if offset == 0 && width == a.width {
		return a, nil
	}
	if av, ok := a.ConstantValue(); ok {
		shifted := new(big.Int).Rsh(av, uint(offset))
		return Constant_(shifted, width), nil
	}
	// distributivity of Extract across Concat (spec §4.1).
	if a.kind == Concat {
		hi, lo := a.operands[0], a.operands[1]
		if offset+width <= lo.width {
			return NewExtract(lo, offset, width)
		}
		if offset >= lo.width {
			return NewExtract(hi, offset-lo.width, width)
		}
	}
	// adjacent Extracts over the same base fuse (spec §4.1: "fusion of
	// adjacent Extracts over the same base").
	if a.kind == Extract {
		return NewExtract(a.operands[0], a.ExtractOffset()+offset, width)
	}
	return internTable.intern(Extract, width, []*Node{a}, extractPayload{offset: offset}), nil
}

// NewConcat builds hi:lo, fusing adjacent Extracts over the same base
// (spec §4.1).
func NewConcat(hi, lo *Node) (*Node, error) {
	width := hi.width + lo.width
	if hv, ok := hi.ConstantValue(); ok {
		if lv, ok2 := lo.ConstantValue(); ok2 {
			v := new(big.Int).Lsh(hv, uint(lo.width))
			v.Or(v, lv)
			return Constant_(v, width), nil
		}
	}
	if hi.kind == Extract && lo.kind == Extract && hi.operands[0] == lo.operands[0] {
		if hi.ExtractOffset() == lo.ExtractOffset()+lo.width {
			return NewExtract(hi.operands[0], lo.ExtractOffset(), width)
		}
	}
	return internTable.intern(Concat, width, []*Node{hi, lo}, nil), nil
}

// NewSelect builds cond ? t : f (an if-then-else term); cond must be width 1.
func NewSelect(cond, t, f *Node) (*Node, error) {
	if err := requireWidth(Select, cond.width == 1, "Select condition must be width 1"); err != nil {
		return nil, err
	}
	if err := requireWidth(Select, sameWidth(t, f), "Select branches must share a width"); err != nil {
		return nil, err
	}
	if IsTrue(cond) {
		return t, nil
	}
	if IsFalse(cond) {
		return f, nil
	}
	if t == f {
		return t, nil
	}
	return internTable.intern(Select, t.width, []*Node{cond, t, f}, nil), nil
}

// NewRead builds a Read over an UpdateList at the given index. The
// forwarding/constant-fold rules of spec §4.2 ("ReadExpr::create") are
// implemented by the symbarray package, which calls NewReadRaw once it has
// decided a plain Read node (rather than a forwarded value) is needed.
func NewReadRaw(list UpdateListRef, index *Node) (*Node, error) {
	if err := requireWidth(Read, index.width == list.ArrayDomainWidth(), "Read index width must match array domain width"); err != nil {
		return nil, err
	}
	return internTable.intern(Read, list.ArrayRangeWidth(), []*Node{index}, readPayload{list: list}), nil
}

// float arithmetic: spec §3 lists FAdd/FSub/FMul/FDiv/FSqrt/FAbs/FRint plus
// the predicate family IsNaN/IsInfinite/IsNormal/IsSubnormal. Folding
// transcendentals/exact float semantics is explicitly out of scope (spec
// §1 non-goals: "verifying floating-point transcendentals"), so these
// builders canonicalize shape and carry the rounding mode without folding.
func newFloatBinary(kind Kind, a, b *Node, rm RoundingMode) (*Node, error) {
	if err := requireWidth(kind, sameWidth(a, b), "float operands must share a width"); err != nil {
		return nil, err
	}
	return internTable.intern(kind, a.width, []*Node{a, b}, roundingPayload{mode: rm}), nil
}

func NewFAdd(a, b *Node, rm RoundingMode) (*Node, error) { return newFloatBinary(FAdd, a, b, rm) }
func NewFSub(a, b *Node, rm RoundingMode) (*Node, error) { return newFloatBinary(FSub, a, b, rm) }
func NewFMul(a, b *Node, rm RoundingMode) (*Node, error) { return newFloatBinary(FMul, a, b, rm) }
func NewFDiv(a, b *Node, rm RoundingMode) (*Node, error) { return newFloatBinary(FDiv, a, b, rm) }

func newFloatUnary(kind Kind, a *Node, rm RoundingMode) *Node {
	return internTable.intern(kind, a.width, []*Node{a}, roundingPayload{mode: rm})
}

func NewFSqrt(a *Node, rm RoundingMode) *Node { return newFloatUnary(FSqrt, a, rm) }
func NewFRint(a *Node, rm RoundingMode) *Node { return newFloatUnary(FRint, a, rm) }
func NewFAbs(a *Node) *Node {
	return internTable.intern(FAbs, a.width, []*Node{a}, nil)
}

func newFloatPredicate(kind Kind, a *Node) *Node {
	return internTable.intern(kind, 1, []*Node{a}, nil)
}

func NewIsNaN(a *Node) *Node       { return newFloatPredicate(IsNaN, a) }
func NewIsInfinite(a *Node) *Node  { return newFloatPredicate(IsInfinite, a) }
func NewIsNormal(a *Node) *Node    { return newFloatPredicate(IsNormal, a) }
func NewIsSubnormal(a *Node) *Node { return newFloatPredicate(IsSubnormal, a) }

// NewPointer builds a (base, value) pair used to track provenance through
// pointer arithmetic (spec §3: "Pointer (pairs base+value)").
func NewPointer(base, value *Node) (*Node, error) {
	if err := requireWidth(Pointer, sameWidth(base, value), "Pointer base and value must share a width"); err != nil {
		return nil, err
	}
	return internTable.intern(Pointer, value.width, []*Node{base, value}, nil), nil
}
