package bidir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/expr"
	"symexec/internal/symbarray"
)

func makeArrayRead(name string, index uint64) *expr.Node {
	arr := symbarray.Create(nil, 32, 8, symbarray.Source{Kind: symbarray.SourceMakeSymbolic, Name: name, Version: 0})
	ul := symbarray.New(arr)
	n, err := expr.NewReadRaw(ul, expr.ConstantU64(index, 32))
	if err != nil {
		panic(err)
	}
	return n
}

func TestComposeAlphaRenamesObligationArrays(t *testing.T) {
	reachedRead := makeArrayRead("buf", 0)
	pobRead := makeArrayRead("buf", 0) // same shape/name as reachedRead's array

	r := &ReachedState{StateID: 1, Location: Location{Function: "f", Block: "b"}, Constraints: []*expr.Node{reachedRead}}
	pob := NewObligation(Location{Function: "f", Block: "b"}, []*expr.Node{pobRead})

	composed, err := Compose(r, pob)
	require.NoError(t, err)
	require.Len(t, composed, 2)

	assert.Equal(t, reachedRead, composed[0], "reached state's own constraints pass through unchanged")
	assert.NotEqual(t, pobRead.UpdateList().ArrayRootHash(), composed[1].UpdateList().ArrayRootHash(),
		"the obligation's array must be renamed so it cannot collide with the reached state's array of the same name")
}

func TestComposeRenamesSameArrayConsistentlyAcrossMultipleReads(t *testing.T) {
	arr := symbarray.Create(nil, 32, 8, symbarray.Source{Kind: symbarray.SourceMakeSymbolic, Name: "buf", Version: 0})
	ul := symbarray.New(arr)
	read0, err := expr.NewReadRaw(ul, expr.ConstantU64(0, 32))
	require.NoError(t, err)
	read1, err := expr.NewReadRaw(ul, expr.ConstantU64(1, 32))
	require.NoError(t, err)

	r := &ReachedState{StateID: 1, Location: Location{Function: "f", Block: "b"}}
	pob := NewObligation(Location{Function: "f", Block: "b"}, []*expr.Node{read0, read1})

	composed, err := Compose(r, pob)
	require.NoError(t, err)
	require.Len(t, composed, 2)
	assert.Equal(t, composed[0].UpdateList().ArrayRootHash(), composed[1].UpdateList().ArrayRootHash(),
		"both reads of the same array must be renamed to the same fresh array")
}
