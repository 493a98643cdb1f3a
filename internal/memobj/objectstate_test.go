package memobj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/expr"
)

func newTestObject(size uint64) *MemoryObject {
	return &MemoryObject{ID: 1, Size: expr.ConstantU64(size, 32), Address: 0x1000, AllocSite: "test"}
}

func TestConcreteWriteReadRoundTrip(t *testing.T) {
	os := New(newTestObject(16), 1)
	require.NoError(t, os.Write8(2, 0x42))

	v, err := os.Read8(2)
	require.NoError(t, err)
	cv, ok := v.ConstantValue()
	require.True(t, ok)
	assert.Equal(t, uint64(0x42), cv.Uint64())
}

func TestNonOverlappingWritesDoNotClobber(t *testing.T) {
	os := New(newTestObject(16), 1)
	require.NoError(t, os.Write8(0, 1))
	require.NoError(t, os.Write8(1, 2))
	require.NoError(t, os.Write8(2, 3))

	for i, want := range []byte{1, 2, 3} {
		v, err := os.Read8(uint64(i))
		require.NoError(t, err)
		cv, _ := v.ConstantValue()
		assert.Equal(t, uint64(want), cv.Uint64())
	}
}

func TestSymbolicWriteThenReRead(t *testing.T) {
	os := New(newTestObject(16), 1)

	sym, err := expr.NewReadRaw(newStubUL(t), expr.ConstantU64(0, 32))
	require.NoError(t, err)
	require.NoError(t, os.Write8Symbolic(5, sym))

	v, err := os.Read8(5)
	require.NoError(t, err)
	assert.True(t, expr.Equal(v, sym))

	require.NoError(t, os.Write8(6, 0))
	v2, err := os.Read8(5)
	require.NoError(t, err)
	assert.True(t, expr.Equal(v2, sym))
}

func TestOutOfBoundsConstantSize(t *testing.T) {
	os := New(newTestObject(4), 1)
	err := os.Write8(10, 1)
	require.Error(t, err)
}

func TestCloneIndependence(t *testing.T) {
	os := New(newTestObject(16), 1)
	require.NoError(t, os.Write8(0, 1))
	clone := os.Clone(2)
	require.NoError(t, clone.Write8(0, 9))

	v1, _ := os.Read8(0)
	v2, _ := clone.Read8(0)
	cv1, _ := v1.ConstantValue()
	cv2, _ := v2.ConstantValue()
	assert.Equal(t, uint64(1), cv1.Uint64())
	assert.Equal(t, uint64(9), cv2.Uint64())
}

func TestReadWidthLittleEndian(t *testing.T) {
	os := New(newTestObject(16), 1)
	require.NoError(t, os.WriteWidth(0, 32, expr.ConstantU64(0x11223344, 32)))

	b0, _ := os.Read8(0)
	b3, _ := os.Read8(3)
	v0, _ := b0.ConstantValue()
	v3, _ := b3.ConstantValue()
	assert.Equal(t, uint64(0x44), v0.Uint64())
	assert.Equal(t, uint64(0x11), v3.Uint64())

	whole, err := os.ReadWidth(0, 32)
	require.NoError(t, err)
	cv, ok := whole.ConstantValue()
	require.True(t, ok)
	assert.Equal(t, uint64(0x11223344), cv.Uint64())
}

type stubUL struct{ id uint64 }

func (s *stubUL) ULHash() uint64           { return s.id }
func (s *stubUL) ArrayDomainWidth() uint32 { return 32 }
func (s *stubUL) ArrayRangeWidth() uint32  { return 8 }
func (s *stubUL) ArrayRootHash() uint64    { return s.id }
func (s *stubUL) Equal(other expr.UpdateListRef) bool {
	o, ok := other.(*stubUL)
	return ok && o.id == s.id
}

func newStubUL(t *testing.T) *stubUL {
	t.Helper()
	return &stubUL{id: 999}
}
