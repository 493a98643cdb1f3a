package solver

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/expr"
	"symexec/internal/solver/backend"
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

func TestChainComputeValidityPassesThrough(t *testing.T) {
	chain := Build(backend.Dummy{}, Config{})

	x := byteRead(1, 0)
	eq, err := expr.NewEq(x, expr.ConstantU64(5, 8))
	require.NoError(t, err)

	v, err := chain.ComputeValidity(backend.Query{Expr: eq, Assignment: map[uint64][]byte{1: {5}}})
	require.NoError(t, err)
	assert.Equal(t, backend.True, v)
}

func TestChainComputeInitialValuesCached(t *testing.T) {
	chain := Build(backend.Dummy{}, Config{})

	x := byteRead(1, 0)
	lt, err := expr.NewUlt(x, expr.ConstantU64(10, 8))
	require.NoError(t, err)

	objects := []expr.UpdateListRef{&stubUL{id: 1, domain: 32, rangeW: 8}}
	q := backend.Query{Constraints: []*expr.Node{lt}, Assignment: map[uint64][]byte{1: {3}}}

	a1, ok1, err := chain.ComputeInitialValues(q, objects)
	require.NoError(t, err)
	require.True(t, ok1)

	a2, ok2, err := chain.ComputeInitialValues(q, objects)
	require.NoError(t, err)
	require.True(t, ok2)
	assert.Equal(t, a1, a2)
}

func TestQueryLoggerCapturesSlowQueries(t *testing.T) {
	var buf bytes.Buffer
	chain := Build(backend.Dummy{}, Config{QueryLogWriter: &buf, QueryLogMinWallTime: 0})

	x := byteRead(1, 0)
	eq, err := expr.NewEq(x, expr.ConstantU64(5, 8))
	require.NoError(t, err)

	_, err = chain.ComputeValidity(backend.Query{Expr: eq, Assignment: map[uint64][]byte{1: {5}}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "query")
}

func TestSupervisedTimeoutFiresForSlowBackend(t *testing.T) {
	slow := slowBackend{delay: 50 * time.Millisecond}
	sup := backend.WithTimeout(slow)
	sup.SetLimits(5*time.Millisecond, 0)

	_, err := sup.ComputeTruth(backend.Query{Expr: expr.True()})
	require.Error(t, err)
}

func TestValidatingDetectsOracleDisagreement(t *testing.T) {
	chain := newValidating(backend.Dummy{}, disagreeingOracle{})

	x := byteRead(1, 0)
	eq, err := expr.NewEq(x, expr.ConstantU64(5, 8))
	require.NoError(t, err)

	_, err = chain.ComputeValidity(backend.Query{Expr: eq, Assignment: map[uint64][]byte{1: {5}}})
	require.Error(t, err)
}

type slowBackend struct {
	backend.Dummy
	delay time.Duration
}

func (s slowBackend) ComputeTruth(q backend.Query) (bool, error) {
	time.Sleep(s.delay)
	return true, nil
}

type disagreeingOracle struct {
	backend.Dummy
}

func (disagreeingOracle) ComputeValidity(q backend.Query) (backend.Validity, error) {
	return backend.False, nil
}
