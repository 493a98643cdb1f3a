package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symexec/internal/expr"
)

func TestOpenCreatesRunDirectoryLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run1")
	r, err := Open(dir, 0)
	require.NoError(t, err)
	defer r.Close()

	_, err = os.Stat(filepath.Join(dir, "tests"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "queries.log"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "queries.smt2"))
	assert.NoError(t, err)
}

func TestLogQueryWritesBothForms(t *testing.T) {
	dir := t.TempDir()
	r, err := Open(dir, 0)
	require.NoError(t, err)

	c := expr.ConstantU64(1, 8)
	require.NoError(t, r.LogQuery([]*expr.Node{c}, nil, time.Millisecond))
	require.NoError(t, r.Close())

	logText, err := os.ReadFile(filepath.Join(dir, "queries.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logText), "# query")

	smtText, err := os.ReadFile(filepath.Join(dir, "queries.smt2"))
	require.NoError(t, err)
	assert.Contains(t, string(smtText), "check-sat")
}

func TestWriteTestCasePersistsFileAndCountsTowardSummary(t *testing.T) {
	dir := t.TempDir()
	r, err := Open(dir, 0)
	require.NoError(t, err)
	defer r.Close()

	path, err := r.WriteTestCase("overflow", []byte("a=1\n"))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a=1\n", string(content))
	assert.Equal(t, 1, r.testCases)
}

func TestReportConflictAndTimeoutIncrementCounters(t *testing.T) {
	dir := t.TempDir()
	r, err := Open(dir, 0)
	require.NoError(t, err)
	defer r.Close()

	r.ReportConflict("main:bad", "entry unreachable")
	r.ReportTimeout("main:slow", "solver exceeded limit")

	assert.Equal(t, 1, r.conflicts)
	assert.Equal(t, 1, r.timeouts)
}
