package alpha

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/expr"
)

type stubUL struct{ id uint64 }

func (s *stubUL) ULHash() uint64           { return s.id }
func (s *stubUL) ArrayDomainWidth() uint32 { return 32 }
func (s *stubUL) ArrayRangeWidth() uint32  { return 8 }
func (s *stubUL) ArrayRootHash() uint64    { return s.id }
func (s *stubUL) Equal(other expr.UpdateListRef) bool {
	o, ok := other.(*stubUL)
	return ok && o.id == s.id
}

func TestFingerprintIgnoresConcreteArrayIdentity(t *testing.T) {
	idx := expr.ConstantU64(0, 32)
	r1, err := expr.NewReadRaw(&stubUL{id: 1}, idx)
	require.NoError(t, err)
	r2, err := expr.NewReadRaw(&stubUL{id: 2}, idx)
	require.NoError(t, err)

	b1, b2 := NewBuilder(), NewBuilder()
	assert.Equal(t, b1.Fingerprint(r1), b2.Fingerprint(r2))
}

func TestIndexAssignmentIsVisitOrder(t *testing.T) {
	idx := expr.ConstantU64(0, 32)
	r1, err := expr.NewReadRaw(&stubUL{id: 7}, idx)
	require.NoError(t, err)
	r2, err := expr.NewReadRaw(&stubUL{id: 9}, idx)
	require.NoError(t, err)
	sum, err := expr.NewConcat(r1, r2)
	require.NoError(t, err)

	b := NewBuilder()
	b.Visit(sum)
	assert.Equal(t, 0, b.IndexOf(&stubUL{id: 7}))
	assert.Equal(t, 1, b.IndexOf(&stubUL{id: 9}))
}
