package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/expr"
)

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

func byteRead(arrayID uint64, index uint64) *expr.Node {
	ul := &stubUL{id: arrayID, domain: 32, rangeW: 8}
	n, err := expr.NewReadRaw(ul, expr.ConstantU64(index, 32))
	if err != nil {
		panic(err)
	}
	return n
}

func TestComputeValidityResolvesFromAssignment(t *testing.T) {
	x := byteRead(1, 0)
	eq, err := expr.NewEq(x, expr.ConstantU64(5, 8))
	require.NoError(t, err)

	v, err := Dummy{}.ComputeValidity(Query{Expr: eq, Assignment: map[uint64][]byte{1: {5}}})
	require.NoError(t, err)
	assert.Equal(t, True, v)

	v, err = Dummy{}.ComputeValidity(Query{Expr: eq, Assignment: map[uint64][]byte{1: {6}}})
	require.NoError(t, err)
	assert.Equal(t, False, v)
}

func TestComputeValidityUnknownWithoutAssignment(t *testing.T) {
	x := byteRead(1, 0)
	eq, err := expr.NewEq(x, expr.ConstantU64(5, 8))
	require.NoError(t, err)

	v, err := Dummy{}.ComputeValidity(Query{Expr: eq})
	require.NoError(t, err)
	assert.Equal(t, Unknown, v)
}

func TestComputeValueErrorsWhenNotConcrete(t *testing.T) {
	x := byteRead(1, 0)
	_, err := Dummy{}.ComputeValue(Query{Expr: x})
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestComputeInitialValuesSatisfiable(t *testing.T) {
	x := byteRead(1, 0)
	lt, err := expr.NewUlt(x, expr.ConstantU64(10, 8))
	require.NoError(t, err)

	assignment, ok, err := Dummy{}.ComputeInitialValues(
		Query{Constraints: []*expr.Node{lt}, Assignment: map[uint64][]byte{1: {3}}},
		[]expr.UpdateListRef{&stubUL{id: 1, domain: 32, rangeW: 8}},
	)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte{3}, assignment[1])
}

func TestComputeInitialValuesInfeasible(t *testing.T) {
	x := byteRead(1, 0)
	lt, err := expr.NewUlt(x, expr.ConstantU64(10, 8))
	require.NoError(t, err)

	_, ok, err := Dummy{}.ComputeInitialValues(
		Query{Constraints: []*expr.Node{lt}, Assignment: map[uint64][]byte{1: {20}}},
		nil,
	)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckReturnsCounterexampleOnFalse(t *testing.T) {
	x := byteRead(1, 0)
	lt, err := expr.NewUlt(x, expr.ConstantU64(10, 8))
	require.NoError(t, err)

	result, err := Dummy{}.Check(Query{Constraints: []*expr.Node{lt}, Assignment: map[uint64][]byte{1: {20}}})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, []byte{20}, result.Counterexample[1])
}
