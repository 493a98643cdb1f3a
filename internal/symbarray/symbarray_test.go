package symbarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/expr"
	"symexec/internal/sparse"
)

func makeSymbolic(name string, domain, rangeW uint32) *Array {
	size := expr.ConstantU64(256, 32)
	return Create(size, domain, rangeW, Source{Kind: SourceMakeSymbolic, Name: name, Version: 0})
}

func TestArrayInterningIdentity(t *testing.T) {
	a := makeSymbolic("buf", 32, 8)
	b := makeSymbolic("buf", 32, 8)
	assert.Same(t, a, b)
}

func TestArrayInterningDistinguishesSource(t *testing.T) {
	a := makeSymbolic("buf", 32, 8)
	b := makeSymbolic("other", 32, 8)
	assert.NotSame(t, a, b)
}

func TestUpdateListForwarding(t *testing.T) {
	arr := makeSymbolic("buf", 32, 8)
	ul := New(arr)
	idx := expr.ConstantU64(4, 32)
	val := expr.ConstantU64(0x42, 8)
	ul2 := ul.Extend(idx, val)

	read, err := Read(ul2, expr.ConstantU64(4, 32))
	require.NoError(t, err)
	v, ok := read.ConstantValue()
	require.True(t, ok)
	assert.Equal(t, uint64(0x42), v.Uint64())
}

func TestUpdateListForwardingSkipsWrongIndex(t *testing.T) {
	arr := makeSymbolic("buf", 32, 8)
	ul := New(arr)
	ul2 := ul.Extend(expr.ConstantU64(4, 32), expr.ConstantU64(0x42, 8))
	ul3 := ul2.Extend(expr.ConstantU64(5, 32), expr.ConstantU64(0x99, 8))

	read, err := Read(ul3, expr.ConstantU64(4, 32))
	require.NoError(t, err)
	v, ok := read.ConstantValue()
	require.True(t, ok)
	assert.Equal(t, uint64(0x42), v.Uint64())
}

func TestReadFallsThroughToConstantSource(t *testing.T) {
	values := sparse.New(0)
	values.Store(2, 0x77)
	size := expr.ConstantU64(16, 32)
	arr := Create(size, 32, 8, Source{Kind: SourceConstant, Values: values, Default: 0})
	ul := New(arr)

	read, err := Read(ul, expr.ConstantU64(2, 32))
	require.NoError(t, err)
	v, ok := read.ConstantValue()
	require.True(t, ok)
	assert.Equal(t, uint64(0x77), v.Uint64())
}

func TestReadOverSymbolicIndexStopsForwarding(t *testing.T) {
	arr := makeSymbolic("buf", 32, 8)
	ul := New(arr)

	symIdx, err := expr.NewReadRaw(ul, expr.ConstantU64(0, 32))
	require.NoError(t, err)
	ul2 := ul.Extend(symIdx, expr.ConstantU64(1, 8))

	read, err := Read(ul2, expr.ConstantU64(4, 32))
	require.NoError(t, err)
	_, isConst := read.ConstantValue()
	assert.False(t, isConst)
	assert.Equal(t, expr.Read, read.Kind())
}

func TestUpdateListEqualityIsStructural(t *testing.T) {
	arr := makeSymbolic("buf", 32, 8)
	a := New(arr).Extend(expr.ConstantU64(1, 32), expr.ConstantU64(2, 8))
	b := New(arr).Extend(expr.ConstantU64(1, 32), expr.ConstantU64(2, 8))
	assert.NotSame(t, a, b)
	assert.True(t, a.Equal(b))
}
