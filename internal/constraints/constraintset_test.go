package constraints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/expr"
	"symexec/internal/simplify"
)

func symbolicVar(id uint64, width uint32) *expr.Node {
	ul := &stubUL{id: id, domain: 32, rangeW: width}
	n, err := expr.NewReadRaw(ul, expr.ConstantU64(id, 32))
	if err != nil {
		panic(err)
	}
	return n
}

type stubUL struct {
	id     uint64
	domain uint32
	rangeW uint32
}

func (s *stubUL) ULHash() uint64           { return s.id }
func (s *stubUL) ArrayDomainWidth() uint32 { return s.domain }
func (s *stubUL) ArrayRangeWidth() uint32  { return s.rangeW }
func (s *stubUL) ArrayRootHash() uint64    { return s.id }
func (s *stubUL) Equal(other expr.UpdateListRef) bool {
	o, ok := other.(*stubUL)
	return ok && o.id == s.id
}

func TestAddConstraintMonotonicity(t *testing.T) {
	cs := New(simplify.Simple, 1)
	x := symbolicVar(1, 8)
	lt, err := expr.NewUlt(x, expr.ConstantU64(10, 8))
	require.NoError(t, err)

	added, err := cs.AddConstraint(lt)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Len(t, cs.Constraints(), 1)
}

func TestAddConstraintTrueIsNoop(t *testing.T) {
	cs := New(simplify.Simple, 1)
	added, err := cs.AddConstraint(expr.True())
	require.NoError(t, err)
	assert.Nil(t, added)
	assert.Empty(t, cs.Constraints())
}

func TestAddConstraintFalseIsInfeasible(t *testing.T) {
	cs := New(simplify.Simple, 1)
	_, err := cs.AddConstraint(expr.False())
	require.Error(t, err)
	var infeasible ErrInfeasible
	assert.ErrorAs(t, err, &infeasible)
}

func TestAddConstraintSplitsConjunction(t *testing.T) {
	cs := New(simplify.Simple, 1)
	x := symbolicVar(1, 1)
	y := symbolicVar(2, 1)
	and, err := expr.NewAnd(x, y)
	require.NoError(t, err)

	added, err := cs.AddConstraint(and)
	require.NoError(t, err)
	assert.Len(t, added, 2)
	assert.Len(t, cs.Constraints(), 2)
}

func TestIndependencePartitioning(t *testing.T) {
	cs := New(simplify.Simple, 1)
	x := symbolicVar(1, 8)
	y := symbolicVar(2, 8)

	cx, err := expr.NewUlt(x, expr.ConstantU64(10, 8))
	require.NoError(t, err)
	cy, err := expr.NewUlt(y, expr.ConstantU64(20, 8))
	require.NoError(t, err)

	_, err = cs.AddConstraint(cx)
	require.NoError(t, err)
	_, err = cs.AddConstraint(cy)
	require.NoError(t, err)

	factorsForX := cs.GetAllIndependentConstraintsSets(x)
	require.Len(t, factorsForX, 1)
	assert.Len(t, factorsForX[0], 1)
	assert.True(t, expr.Equal(factorsForX[0][0], cx))
}

func TestMergingFactorsOnSharedArray(t *testing.T) {
	cs := New(simplify.Simple, 1)
	x := symbolicVar(1, 8)

	c1, err := expr.NewUlt(x, expr.ConstantU64(10, 8))
	require.NoError(t, err)
	c2, err := expr.NewUgt(x, expr.ConstantU64(1, 8))
	require.NoError(t, err)

	_, err = cs.AddConstraint(c1)
	require.NoError(t, err)
	_, err = cs.AddConstraint(c2)
	require.NoError(t, err)

	factorsForX := cs.GetAllIndependentConstraintsSets(x)
	require.Len(t, factorsForX, 1)
	assert.Len(t, factorsForX[0], 2)
}

func TestCloneCopyOnWrite(t *testing.T) {
	cs := New(simplify.Simple, 1)
	x := symbolicVar(1, 8)
	c1, err := expr.NewUlt(x, expr.ConstantU64(10, 8))
	require.NoError(t, err)
	_, err = cs.AddConstraint(c1)
	require.NoError(t, err)

	clone := cs.Clone(2)
	c2, err := expr.NewUgt(x, expr.ConstantU64(1, 8))
	require.NoError(t, err)
	_, err = clone.AddConstraint(c2)
	require.NoError(t, err)

	assert.Len(t, cs.Constraints(), 1)
	assert.Len(t, clone.Constraints(), 2)
}

func TestConcretizationUpdateOnly(t *testing.T) {
	cs := New(simplify.Simple, 1)
	cs.Concretize(42, []byte{1, 2, 3})

	cs.RewriteConcretization(map[uint64][]byte{42: {9, 9, 9}, 99: {1}})
	v, ok := cs.Assignment(42)
	require.True(t, ok)
	assert.Equal(t, []byte{9, 9, 9}, v)

	_, ok = cs.Assignment(99)
	assert.False(t, ok, "RewriteConcretization must not introduce new bindings")
}
