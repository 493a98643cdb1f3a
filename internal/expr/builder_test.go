package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterningIdentity(t *testing.T) {
	a := ConstantU64(5, 32)
	b := ConstantU64(3, 32)

	sum1, err := NewAdd(a, b)
	require.NoError(t, err)
	sum2, err := NewAdd(ConstantU64(5, 32), ConstantU64(3, 32))
	require.NoError(t, err)

	assert.True(t, Equal(sum1, sum2))
}

func TestFoldCorrectness(t *testing.T) {
	a := ConstantU64(5, 8)
	b := ConstantU64(250, 8)

	sum, err := NewAdd(a, b)
	require.NoError(t, err)
	v, ok := sum.ConstantValue()
	require.True(t, ok)
	assert.Equal(t, uint64(255), v.Uint64())

	sum2, err := NewAdd(sum, ConstantU64(2, 8))
	require.NoError(t, err)
	v2, _ := sum2.ConstantValue()
	assert.Equal(t, uint64(1), v2.Uint64())
}

func TestWidthMismatchFailsLoudly(t *testing.T) {
	a := ConstantU64(1, 32)
	b := ConstantU64(1, 64)
	_, err := NewAdd(a, b)
	require.Error(t, err)
	var iw *InvalidOperandWidth
	assert.ErrorAs(t, err, &iw)
}

func TestCommutativeNormalization(t *testing.T) {
	s := symbolic(8)
	a, err := NewAnd(ConstantU64(7, 8), s)
	require.NoError(t, err)
	b, err := NewAnd(s, ConstantU64(7, 8))
	require.NoError(t, err)
	assert.True(t, Equal(a, b))
}

func TestIdentityAndAbsorption(t *testing.T) {
	s := symbolic(16)

	zero := ConstantU64(0, 16)
	sum, err := NewAdd(s, zero)
	require.NoError(t, err)
	assert.True(t, Equal(sum, s))

	allOnes := ConstantU64(0xFFFF, 16)
	andRes, err := NewAnd(s, allOnes)
	require.NoError(t, err)
	assert.True(t, Equal(andRes, s))

	orRes, err := NewOr(s, zero)
	require.NoError(t, err)
	assert.True(t, Equal(orRes, s))
}

func TestEqCanonicalizesConstantToLeft(t *testing.T) {
	s := symbolic(8)
	c := ConstantU64(9, 8)

	a, err := NewEq(s, c)
	require.NoError(t, err)
	b, err := NewEq(c, s)
	require.NoError(t, err)
	assert.True(t, Equal(a, b))
	assert.Equal(t, Constant, a.operands[0].kind)
}

func TestExtractConcatDistributivity(t *testing.T) {
	lo := ConstantU64(0x34, 8)
	hi := ConstantU64(0x12, 8)
	whole, err := NewConcat(hi, lo)
	require.NoError(t, err)

	v, ok := whole.ConstantValue()
	require.True(t, ok)
	assert.Equal(t, uint64(0x1234), v.Uint64())

	low8, err := NewExtract(whole, 0, 8)
	require.NoError(t, err)
	lv, _ := low8.ConstantValue()
	assert.Equal(t, uint64(0x34), lv.Uint64())
}

func TestHashEqualityAgreement(t *testing.T) {
	s := symbolic(8)
	a, err := NewAdd(s, ConstantU64(1, 8))
	require.NoError(t, err)
	b, err := NewAdd(s, ConstantU64(1, 8))
	require.NoError(t, err)

	assert.Equal(t, a.Hash(), b.Hash())
	assert.True(t, Equal(a, b))
}

func TestSignedComparison(t *testing.T) {
	negOne := ConstantU64(0xFF, 8) // -1 as signed 8-bit
	one := ConstantU64(1, 8)

	lt, err := NewSlt(negOne, one)
	require.NoError(t, err)
	assert.True(t, IsTrue(lt))

	ult, err := NewUlt(negOne, one)
	require.NoError(t, err)
	assert.True(t, IsFalse(ult))
}

func TestRewriteReplace(t *testing.T) {
	s := symbolic(8)
	e, err := NewAdd(s, ConstantU64(1, 8))
	require.NoError(t, err)

	replaced, err := Replace(e, s, ConstantU64(9, 8))
	require.NoError(t, err)
	v, ok := replaced.ConstantValue()
	require.True(t, ok)
	assert.Equal(t, uint64(10), v.Uint64())
}

// symbolic returns a fresh, never-folded leaf node via a stub Read, since
// the expr package alone has no array source to read from (that lives in
// symbarray, which imports expr -- building one here directly keeps these
// tests free of that dependency).
var opaqueCounter int

func symbolic(width uint32) *Node {
	opaqueCounter++
	ul := &stubUpdateList{id: uint64(opaqueCounter), domain: 32, rangeW: width}
	idx := ConstantU64(uint64(opaqueCounter), 32)
	n, err := NewReadRaw(ul, idx)
	if err != nil {
		panic(err)
	}
	return n
}

type stubUpdateList struct {
	id     uint64
	domain uint32
	rangeW uint32
}

func (s *stubUpdateList) ULHash() uint64           { return s.id }
func (s *stubUpdateList) ArrayDomainWidth() uint32 { return s.domain }
func (s *stubUpdateList) ArrayRangeWidth() uint32  { return s.rangeW }
func (s *stubUpdateList) ArrayRootHash() uint64    { return s.id }
func (s *stubUpdateList) Equal(other UpdateListRef) bool {
	o, ok := other.(*stubUpdateList)
	return ok && o.id == s.id
}
