package internal

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/seqcheck/internal/metrics"
	tt "github.com/gnolang/seqcheck/internal/types"
)

func sampleIssues(filename string) []tt.Issue {
	return []tt.Issue{{
		Check:    "merge",
		Case:     "interleave",
		Filename: filename,
		Line:     3,
		Message:  "expected merge to hold, but it fails",
		Severity: tt.SeverityWarning,
	}}
}

const memberMiss = `cases:
  - name: bad
    check: member
    elem: z
    seq: [a, b]
`

func TestCache(t *testing.T) {
	t.Parallel()

	tmpDir := createTempDir(t, "cache-test")
	cache, err := NewCache(filepath.Join(tmpDir, "cache"))
	require.NoError(t, err)

	source := []byte(mixedCases)
	const settings = "merge=error"

	t.Run("StoreAndReopen", func(t *testing.T) {
		issues := sampleIssues("a.seq.yaml")
		require.NoError(t, cache.Store("a.seq.yaml", source, settings, issues))

		loaded, found := cache.Lookup("a.seq.yaml", source, settings)
		assert.True(t, found)
		assert.Equal(t, issues, loaded)

		reopened, err := NewCache(cache.Dir())
		require.NoError(t, err)
		loaded, found = reopened.Lookup("a.seq.yaml", source, settings)
		assert.True(t, found)
		assert.Equal(t, issues, loaded)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.Lookup("nonexistent.seq.yaml", source, settings)
		assert.False(t, found)
	})

	t.Run("ContentChanged", func(t *testing.T) {
		require.NoError(t, cache.Store("b.seq.yaml", source, settings, sampleIssues("b.seq.yaml")))
		_, found := cache.Lookup("b.seq.yaml", []byte("cases: []\n"), settings)
		assert.False(t, found)
	})

	t.Run("SettingsChanged", func(t *testing.T) {
		require.NoError(t, cache.Store("c.seq.yaml", source, settings, sampleIssues("c.seq.yaml")))
		_, found := cache.Lookup("c.seq.yaml", source, "merge=off")
		assert.False(t, found)
	})

	t.Run("InvalidateAll", func(t *testing.T) {
		require.NoError(t, cache.Store("d.seq.yaml", source, settings, nil))
		require.NoError(t, cache.InvalidateAll())

		_, found := cache.Lookup("d.seq.yaml", source, settings)
		assert.False(t, found)
	})
}

func TestCacheExpiry(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(filepath.Join(createTempDir(t, "cache-expiry"), "cache"))
	require.NoError(t, err)

	source := []byte(mixedCases)
	require.NoError(t, cache.Store("a.seq.yaml", source, "", nil))
	cache.SetMaxAge(-time.Second)

	_, found := cache.Lookup("a.seq.yaml", source, "")
	assert.False(t, found)
}

func TestCacheDiscardsCorruptFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(createTempDir(t, "cache-corrupt"), "cache")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, cacheFileName), []byte("not gob"), 0o644))

	cache, err := NewCache(dir)
	require.NoError(t, err)
	_, found := cache.Lookup("a.seq.yaml", nil, "")
	assert.False(t, found)
}

func TestCacheWithEngine(t *testing.T) {
	t.Parallel()

	tmpDir := createTempDir(t, "cache-engine-test")
	cache, err := NewCache(filepath.Join(tmpDir, "cache"))
	require.NoError(t, err)
	rec := metrics.New()

	engine, err := NewEngine(nil, nil, WithCache(cache), WithMetrics(rec))
	require.NoError(t, err)

	filename := writeCaseFile(t, tmpDir, "mixed.seq.yaml", mixedCases)

	issues, err := engine.Run(filename)
	require.NoError(t, err)
	assert.NotEmpty(t, issues)

	cached, err := engine.Run(filename)
	require.NoError(t, err)
	assert.Equal(t, issues, cached)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.FilesTotal.WithLabelValues("cached")))

	writeCaseFile(t, tmpDir, "mixed.seq.yaml", "cases:\n  - check: repeats\n    seq: [a, a]\n")
	fresh, err := engine.Run(filename)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestCacheRespectsIgnoredChecks(t *testing.T) {
	t.Parallel()

	tmpDir := createTempDir(t, "cache-ignore")
	cacheDir := filepath.Join(tmpDir, "cache")
	filename := writeCaseFile(t, tmpDir, "member.seq.yaml", memberMiss)

	first, err := NewCache(cacheDir)
	require.NoError(t, err)
	engine, err := NewEngine(nil, nil, WithCache(first))
	require.NoError(t, err)

	issues, err := engine.Run(filename)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "member", issues[0].Check)

	second, err := NewCache(cacheDir)
	require.NoError(t, err)
	ignoring, err := NewEngine(nil, nil, WithCache(second))
	require.NoError(t, err)
	ignoring.IgnoreCheck("member")

	issues, err = ignoring.Run(filename)
	require.NoError(t, err)
	assert.Empty(t, issues)

	// a severity change from config is a different run too
	third, err := NewCache(cacheDir)
	require.NoError(t, err)
	warning, err := NewEngine(nil, map[string]tt.ConfigCheck{"member": {Severity: tt.SeverityWarning}}, WithCache(third))
	require.NoError(t, err)

	issues, err = warning.Run(filename)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, tt.SeverityWarning, issues[0].Severity)
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(filepath.Join(createTempDir(t, "cache-concurrency-test"), "cache"))
	require.NoError(t, err)

	source := []byte(mixedCases)
	issues := sampleIssues("a.seq.yaml")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.Store("a.seq.yaml", source, "", issues))
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Lookup("a.seq.yaml", source, "")
		}()
	}
	wg.Wait()

	got, found := cache.Lookup("a.seq.yaml", source, "")
	assert.True(t, found)
	assert.Equal(t, issues, got)
}
