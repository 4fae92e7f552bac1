package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/seqcheck/internal/metrics"
	tt "github.com/gnolang/seqcheck/internal/types"
)

// Checks reported by the engine itself rather than by a relation.
const (
	UnknownCheck = "unknown-check"
	InvalidCase  = "invalid-case"
)

const defaultConcurrency = 8

// Engine verifies the cases of case files against the registered checks.
type Engine struct {
	logger  *zap.Logger
	metrics *metrics.Recorder
	cache   *Cache
	runID   string

	checks        map[string]Check
	ignoredChecks map[string]bool
	ignoredPaths  []string
	concurrency   int

	watcher    *fsnotify.Watcher
	watchMu    sync.Mutex
	isWatching bool
	done       chan struct{}
	stopped    chan struct{}
}

// EngineOption configures optional engine collaborators.
type EngineOption func(*Engine)

func WithMetrics(r *metrics.Recorder) EngineOption {
	return func(e *Engine) { e.metrics = r }
}

func WithCache(c *Cache) EngineOption {
	return func(e *Engine) { e.cache = c }
}

// WithConcurrency bounds how many checks run at once per file.
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewEngine creates an engine with every registered check enabled, then
// applies the configured severities. A nil logger discards logs.
func NewEngine(logger *zap.Logger, checks map[string]tt.ConfigCheck, opts ...EngineOption) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.NewString()
	engine := &Engine{
		logger:        logger.With(zap.String("run_id", runID)),
		runID:         runID,
		ignoredChecks: make(map[string]bool),
		concurrency:   defaultConcurrency,
	}
	for _, opt := range opts {
		opt(engine)
	}
	engine.applyChecks(checks)
	return engine, nil
}

func (e *Engine) applyChecks(configured map[string]tt.ConfigCheck) {
	e.checks = make(map[string]Check, len(allCheckConstructors))
	for name, newCheck := range allCheckConstructors {
		e.checks[name] = newCheck()
	}

	for name, cfg := range configured {
		c, ok := e.checks[name]
		if !ok {
			e.logger.Warn("Ignoring unknown check in config", zap.String("check", name))
			continue
		}
		if cfg.Severity == tt.SeverityOff {
			e.IgnoreCheck(name)
		}
		c.SetSeverity(cfg.Severity)
	}
}

// RunID identifies this engine in logs and reports.
func (e *Engine) RunID() string {
	return e.runID
}

func (e *Engine) IgnoreCheck(name string) {
	e.ignoredChecks[name] = true
}

// IgnorePath skips files matching a glob pattern or lying under a
// directory prefix.
func (e *Engine) IgnorePath(pattern string) {
	e.ignoredPaths = append(e.ignoredPaths, pattern)
}

func (e *Engine) isIgnoredPath(path string) bool {
	for _, p := range e.ignoredPaths {
		if ok, _ := filepath.Match(p, path); ok {
			return true
		}
		if ok, _ := filepath.Match(p, filepath.Base(path)); ok {
			return true
		}
		if strings.HasPrefix(filepath.Clean(path), filepath.Clean(p)+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// settingsKey fingerprints everything besides the file contents that
// decides which issues a run reports: every check's severity and the
// checks being ignored.
func (e *Engine) settingsKey() string {
	parts := make([]string, 0, len(e.checks)+len(e.ignoredChecks))
	for name, c := range e.checks {
		if !e.ignoredChecks[name] {
			parts = append(parts, name+"="+c.Severity().String())
		}
	}
	for name := range e.ignoredChecks {
		parts = append(parts, name+"=off")
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// Run verifies every case of the given file.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.isIgnoredPath(filename) {
		e.logger.Debug("Skipping ignored path", zap.String("file", filename))
		return nil, nil
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		e.metrics.RecordFile("error")
		return nil, fmt.Errorf("error reading case file: %w", err)
	}

	var settings string
	if e.cache != nil {
		settings = e.settingsKey()
		if issues, ok := e.cache.Lookup(filename, source, settings); ok {
			e.metrics.RecordFile("cached")
			e.logger.Debug("Cache hit", zap.String("file", filename))
			return issues, nil
		}
	}

	issues, err := e.RunSource(source)
	if err != nil {
		e.metrics.RecordFile("error")
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	for i := range issues {
		issues[i].Filename = filename
	}
	e.metrics.RecordFile("ok")

	if e.cache != nil {
		if err := e.cache.Store(filename, source, settings, issues); err != nil {
			e.logger.Warn("Failed to cache results", zap.String("file", filename), zap.Error(err))
		}
	}
	return issues, nil
}

// RunSource verifies every case of an in-memory case file.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	cases, nolintMgr, err := parseCaseFile(source)
	if err != nil {
		return nil, err
	}

	var (
		g         errgroup.Group
		mu        sync.Mutex
		allIssues []tt.Issue
	)
	g.SetLimit(e.concurrency)

	for _, c := range cases {
		g.Go(func() error {
			issue, ok := e.evaluate(c)
			if !ok || nolintMgr.IsNolint(issue.Line, issue.Check) {
				return nil
			}
			mu.Lock()
			allIssues = append(allIssues, issue)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(allIssues, func(i, j int) bool {
		if allIssues[i].Line != allIssues[j].Line {
			return allIssues[i].Line < allIssues[j].Line
		}
		return allIssues[i].Check < allIssues[j].Check
	})

	e.logger.Debug("Verified cases", zap.Int("cases", len(cases)), zap.Int("issues", len(allIssues)))
	return allIssues, nil
}

// evaluate runs the case through its check and reports an issue when the
// verified outcome disagrees with the expectation.
func (e *Engine) evaluate(c tt.Case) (tt.Issue, bool) {
	base := tt.Issue{Check: c.Check, Case: c.Name, Line: c.Line}

	if e.ignoredChecks[c.Check] {
		e.metrics.RecordCase(c.Check, metrics.OutcomeSkipped, 0)
		return tt.Issue{}, false
	}
	check, ok := e.checks[c.Check]
	if !ok {
		base.Check = UnknownCheck
		base.Message = fmt.Sprintf("case %q names unknown check %q", c.Name, c.Check)
		base.Severity = tt.SeverityError
		e.metrics.RecordIssue(UnknownCheck, base.Severity.String())
		return base, true
	}

	start := time.Now()
	outcome, err := check.Run(c)
	elapsed := time.Since(start)

	if err != nil {
		e.metrics.RecordCase(c.Check, metrics.OutcomeError, elapsed)
		base.Check = InvalidCase
		base.Message = fmt.Sprintf("%s: %v", c.Check, err)
		base.Severity = tt.SeverityError
		e.metrics.RecordIssue(InvalidCase, base.Severity.String())
		e.logger.Debug("Case could not be verified", zap.String("case", c.Name), zap.Error(err))
		return base, true
	}

	result := metrics.OutcomeFails
	if outcome.Holds {
		result = metrics.OutcomeHolds
	}
	e.metrics.RecordCase(c.Check, result, elapsed)

	if outcome.Holds == c.WantHolds() {
		return tt.Issue{}, false
	}

	base.Severity = check.Severity()
	base.Witness = outcome.Witness
	base.Note = outcome.Detail
	if outcome.Holds {
		base.Message = fmt.Sprintf("expected %s to fail, but it holds", c.Check)
	} else {
		base.Message = fmt.Sprintf("expected %s to hold, but it fails", c.Check)
	}
	e.metrics.RecordIssue(c.Check, base.Severity.String())
	return base, true
}
