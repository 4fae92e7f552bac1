package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gnolang/seqcheck/internal/metrics"
	tt "github.com/gnolang/seqcheck/internal/types"
)

const mixedCases = `cases:
  - name: holds-as-expected
    check: repeats
    seq: [a, b, a]
  - name: wrongly-expected
    check: no-repeats
    seq: [a, b, a]
  - name: typo
    check: repeat
    seq: [a]
  - name: too-few-items
    check: pigeonhole
    items: [a]
    labels: [a]
  - name: fails-as-expected
    check: merge
    left: ["1"]
    right: ["2"]
    merged: ["2", "2"]
    expect: fails
`

// createTempDir creates a temporary directory removed after the test.
func createTempDir(t testing.TB, prefix string) string {
	tempDir, err := os.MkdirTemp("", prefix)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return tempDir
}

func writeCaseFile(t testing.TB, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(nil, nil)
	require.NoError(t, err)
	assert.Len(t, engine.checks, len(allCheckConstructors))
	assert.NotEmpty(t, engine.RunID())
}

func TestEngineRunSource(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(zaptest.NewLogger(t), nil)
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte(mixedCases))
	require.NoError(t, err)
	require.Len(t, issues, 3)

	assert.Equal(t, "no-repeats", issues[0].Check)
	assert.Equal(t, "wrongly-expected", issues[0].Case)
	assert.Equal(t, 5, issues[0].Line)
	assert.Contains(t, issues[0].Message, "to hold")
	assert.Contains(t, issues[0].Note, `"a" at positions 0 and 2`)

	assert.Equal(t, UnknownCheck, issues[1].Check)
	assert.Contains(t, issues[1].Message, `"repeat"`)

	assert.Equal(t, InvalidCase, issues[2].Check)
	assert.Contains(t, issues[2].Message, "pigeonhole")
}

func TestEngineSeverityConfig(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(zaptest.NewLogger(t), map[string]tt.ConfigCheck{
		"no-repeats":  {Severity: tt.SeverityOff},
		"pigeonhole":  {Severity: tt.SeverityWarning},
		"not-a-check": {Severity: tt.SeverityInfo},
	})
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte(`cases:
  - check: no-repeats
    seq: [a, a]
  - check: pigeonhole
    items: [a, b, a]
    labels: [a, b]
    expect: fails
`))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "pigeonhole", issues[0].Check)
	assert.Equal(t, tt.SeverityWarning, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "to fail")
	assert.Contains(t, issues[0].Witness, `"a" at positions 0 and 2`)
}

func TestEngineIgnoreCheck(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(nil, nil)
	require.NoError(t, err)
	engine.IgnoreCheck("no-repeats")
	engine.IgnoreCheck("repeat")

	issues, err := engine.RunSource([]byte(mixedCases))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, InvalidCase, issues[0].Check)
}

func TestEngineRun(t *testing.T) {
	t.Parallel()

	dir := createTempDir(t, "engine_run")
	path := writeCaseFile(t, dir, "mixed.seq.yaml", mixedCases)
	rec := metrics.New()

	engine, err := NewEngine(zaptest.NewLogger(t), nil, WithMetrics(rec), WithConcurrency(2))
	require.NoError(t, err)

	issues, err := engine.Run(path)
	require.NoError(t, err)
	require.Len(t, issues, 3)
	for _, issue := range issues {
		assert.Equal(t, path, issue.Filename)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.FilesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.CasesTotal.WithLabelValues("repeats", metrics.OutcomeHolds)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.CasesTotal.WithLabelValues("pigeonhole", metrics.OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.IssuesTotal.WithLabelValues(UnknownCheck, "error")))
}

func TestEngineRunErrors(t *testing.T) {
	t.Parallel()

	dir := createTempDir(t, "engine_errors")
	engine, err := NewEngine(nil, nil)
	require.NoError(t, err)

	_, err = engine.Run(filepath.Join(dir, "missing.seq.yaml"))
	assert.ErrorContains(t, err, "error reading case file")

	bad := writeCaseFile(t, dir, "bad.seq.yaml", "cases: [")
	_, err = engine.Run(bad)
	assert.ErrorContains(t, err, bad)
}

func TestEngineIgnorePath(t *testing.T) {
	t.Parallel()

	dir := createTempDir(t, "engine_ignore")
	vendored := filepath.Join(dir, "vendor")
	require.NoError(t, os.Mkdir(vendored, 0o755))
	inVendor := writeCaseFile(t, vendored, "a.seq.yaml", mixedCases)
	draft := writeCaseFile(t, dir, "draft.seq.yml", mixedCases)
	kept := writeCaseFile(t, dir, "kept.seq.yaml", mixedCases)

	engine, err := NewEngine(nil, nil)
	require.NoError(t, err)
	engine.IgnorePath(vendored)
	engine.IgnorePath("*.seq.yml")

	for _, path := range []string{inVendor, draft} {
		issues, err := engine.Run(path)
		require.NoError(t, err)
		assert.Empty(t, issues, path)
	}

	issues, err := engine.Run(kept)
	require.NoError(t, err)
	assert.NotEmpty(t, issues)
}

func TestEngineNolint(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(nil, nil)
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte(`cases:
  # nolint:no-repeats
  - name: silenced
    check: no-repeats
    seq: [a, a]
  - name: inline # nolint
    check: repeats
    seq: [a]
  # nolint:merge
  - name: other-check
    check: no-repeats
    seq: [b, b]
`))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "other-check", issues[0].Case)
}

func TestEngineNolintFile(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(nil, nil)
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte(`# nolint:unknown-check
cases:
  - check: sorted
    seq: [a]
`))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestEngineScenarios(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(zaptest.NewLogger(t), nil)
	require.NoError(t, err)

	issues, err := engine.Run(filepath.Join("testdata", "scenarios.seq.yaml"))
	require.NoError(t, err)
	assert.Empty(t, issues)
}
