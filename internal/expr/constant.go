package expr

import "math/big"

// bigIntPayload wraps a Constant node's value. Values are always stored
// already reduced modulo 2^width (spec GLOSSARY: "all arithmetic is modulo
// 2^w"), so two Constants with the same reduced value and width hash and
// compare equal.
type bigIntPayload struct {
	value *big.Int
}

func (p *bigIntPayload) hashOf() uint64 {
	h := uint64(2166136261)
	for _, b := range p.value.Bytes() {
		h = mix(h, uint64(b))
	}
	return h
}

func mask(width uint32) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1))
}

func reduce(v *big.Int, width uint32) *big.Int {
	r := new(big.Int).And(v, mask(width))
	if r.Sign() < 0 {
		r.Add(r, new(big.Int).Lsh(big.NewInt(1), uint(width)))
	}
	return r
}

// ConstantU64 builds a canonical Constant node from an unsigned 64-bit value.
func ConstantU64(value uint64, width uint32) *Node {
	return Constant_(new(big.Int).SetUint64(value), width)
}

// Constant_ builds a canonical Constant node (reducing value mod 2^width
// first); trailing underscore avoids colliding with the Constant Kind.
func Constant_(value *big.Int, width uint32) *Node {
	v := reduce(value, width)
	return internTable.intern(Constant, width, nil, &bigIntPayload{value: v})
}

// True/False are the canonical width-1 booleans.
func True() *Node  { return ConstantU64(1, 1) }
func False() *Node { return ConstantU64(0, 1) }

// IsTrue/IsFalse test identity against the canonical booleans (safe because
// of interning: any width-1 constant 1 is True()).
func IsTrue(n *Node) bool  { return n == True() }
func IsFalse(n *Node) bool { return n == False() }

// signedValue reinterprets a reduced unsigned value as signed in `width` bits.
func signedValue(v *big.Int, width uint32) *big.Int {
	if v.Bit(int(width)-1) == 0 {
		return new(big.Int).Set(v)
	}
	return new(big.Int).Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(width)))
}
