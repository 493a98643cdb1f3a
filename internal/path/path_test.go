package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/expr"
	"symexec/internal/simplify"
)

func TestStackReconstructionPushPop(t *testing.T) {
	p := Empty()
	p = p.Advance(BlockRecord{Function: "main", Block: "entry", Transition: None}, 0)
	p = p.Advance(BlockRecord{Function: "foo", Block: "entry", Transition: In}, 0)
	p = p.Advance(BlockRecord{Function: "foo", Block: "exit", Transition: None}, 3)
	p = p.Advance(BlockRecord{Function: "main", Block: "after_call", Transition: Out}, 1)

	assert.Equal(t, []string{}, p.GetStack(false))
	assert.Equal(t, []string{}, p.GetStack(true))
}

func TestStackReconstructionNestedCalls(t *testing.T) {
	p := Empty()
	p = p.Advance(BlockRecord{Function: "main", Transition: None}, 0)
	p = p.Advance(BlockRecord{Function: "a", Transition: In}, 0)
	p = p.Advance(BlockRecord{Function: "b", Transition: In}, 0)

	assert.Equal(t, []string{"a", "b"}, p.GetStack(false))
	assert.Equal(t, []string{"b", "a"}, p.GetStack(true))
}

func TestConcatPreservesStack(t *testing.T) {
	l := Empty().Advance(BlockRecord{Function: "main", Transition: None}, 0)
	r := Empty().Advance(BlockRecord{Function: "a", Transition: In}, 0)

	merged := Concat(l, r)
	assert.Equal(t, []string{"a"}, merged.GetStack(false))
	assert.Equal(t, l.FirstInstr(), merged.FirstInstr())
	assert.Equal(t, r.LastInstr(), merged.LastInstr())
}

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

func TestAddConstraintBindsToCurrentPosition(t *testing.T) {
	pc := New(simplify.Simple, 1)
	pc.AdvancePath(BlockRecord{Function: "main", Transition: None}, 0)

	x := symbolicVar(1, 8)
	lt, err := expr.NewUlt(x, expr.ConstantU64(10, 8))
	require.NoError(t, err)

	added, err := pc.AddConstraint(lt)
	require.NoError(t, err)
	require.Len(t, added, 1)

	positions := pc.Replay()
	require.Len(t, positions, 1)
	assert.Equal(t, 0, positions[0].BlockIndex)

	bound := pc.ConstraintsAt(positions[0])
	require.Len(t, bound, 1)
	assert.True(t, expr.Equal(bound[0], lt))
}

func TestAddConstraintNoOpDoesNotRecordPosition(t *testing.T) {
	pc := New(simplify.Simple, 1)
	pc.AdvancePath(BlockRecord{Function: "main", Transition: None}, 0)

	_, err := pc.AddConstraint(expr.True())
	require.NoError(t, err)
	assert.Empty(t, pc.Replay())
}
