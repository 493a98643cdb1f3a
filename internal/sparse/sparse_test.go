package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefault(t *testing.T) {
	m := New(0xAA)
	assert.Equal(t, byte(0xAA), m.Load(5))
	assert.False(t, m.Has(5))
}

func TestStoreLoad(t *testing.T) {
	m := New(0)
	m.Store(3, 7)
	assert.Equal(t, byte(7), m.Load(3))
	assert.True(t, m.Has(3))
	assert.Equal(t, byte(0), m.Load(4))
}

func TestBulkStore(t *testing.T) {
	m := New(0)
	pairs := []struct {
		idx uint64
		v   byte
	}{{0, 1}, {2, 3}, {4, 5}}
	i := 0
	m.BulkStore(func() (uint64, byte, bool) {
		if i >= len(pairs) {
			return 0, 0, false
		}
		p := pairs[i]
		i++
		return p.idx, p.v, true
	})
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, byte(3), m.Load(2))
}

func TestRangeAscending(t *testing.T) {
	m := New(0)
	m.Store(5, 1)
	m.Store(1, 2)
	m.Store(3, 3)

	var seen []uint64
	m.Range(func(idx uint64, v byte) bool {
		seen = append(seen, idx)
		return true
	})
	require.Equal(t, []uint64{1, 3, 5}, seen)
}

func TestRangeEarlyStop(t *testing.T) {
	m := New(0)
	m.Store(1, 1)
	m.Store(2, 2)
	m.Store(3, 3)

	count := 0
	m.Range(func(idx uint64, v byte) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestMaterialize(t *testing.T) {
	m := New(0xFF)
	m.Store(1, 0x11)
	out := m.Materialize(4)
	assert.Equal(t, []byte{0xFF, 0x11, 0xFF, 0xFF}, out)
}

func TestCloneIndependence(t *testing.T) {
	m := New(0)
	m.Store(0, 1)
	cp := m.Clone()
	cp.Store(0, 2)
	assert.Equal(t, byte(1), m.Load(0))
	assert.Equal(t, byte(2), cp.Load(0))
}

func TestCompare(t *testing.T) {
	a := New(0)
	a.Store(0, 1)
	b := New(0)
	b.Store(0, 2)
	assert.Equal(t, -1, a.Compare(b, 4))
	assert.Equal(t, 1, b.Compare(a, 4))
	assert.Equal(t, 0, a.Compare(a.Clone(), 4))
}
