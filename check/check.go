package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/seqcheck/internal"
	tt "github.com/gnolang/seqcheck/internal/types"
)

// DefaultConfigPath is where init writes the configuration.
const DefaultConfigPath = ".seqcheck.yaml"

type Engine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunSource(source []byte) ([]tt.Issue, error)
	IgnoreCheck(check string)
	IgnorePath(path string)
}

// New builds an engine from the configuration file. An empty path, or a
// missing default config, falls back to every check at error severity.
func New(logger *zap.Logger, configurationPath string, opts ...internal.EngineOption) (*internal.Engine, error) {
	config, err := loadConfiguration(configurationPath)
	if err != nil {
		return nil, err
	}
	return internal.NewEngine(logger, config.Checks, opts...)
}

// Options tune directory processing.
type Options struct {
	// Workers bounds concurrent files; zero means runtime.NumCPU().
	Workers int
	// Progress receives the progress bar; nil disables it.
	Progress io.Writer
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	sources [][]byte,
	processor func(Engine, []byte) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		issues, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	processor func(Engine, string) ([]tt.Issue, error),
	opts Options,
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, processor, opts)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

// ProcessPath verifies a single case file, or every case file under a
// directory with a bounded worker pool. Files that fail to load are
// logged and skipped; cancellation aborts the walk.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
	processor func(Engine, string) ([]tt.Issue, error),
	opts Options,
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !internal.IsCaseFile(path) {
			return nil, nil
		}
		return processor(engine, path)
	}

	files, err := collectCaseFiles(path)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sem := make(chan struct{}, workers)

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription(path),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		issues []tt.Issue
	)

	for _, filePath := range files {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			fileIssues, err := processor(engine, fp)
			if bar != nil {
				_ = bar.Add(1)
			}
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				return
			}

			mu.Lock()
			issues = append(issues, fileIssues...)
			mu.Unlock()
		}(filePath)
	}
	wg.Wait()

	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(opts.Progress)
	}
	return issues, nil
}

func collectCaseFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fileInfo.IsDir() && internal.IsCaseFile(filePath) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", root, err)
	}
	return files, nil
}

func ProcessFile(engine Engine, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine Engine, source []byte) ([]tt.Issue, error) {
	return engine.RunSource(source)
}

// Config represents the overall configuration with a name and the
// per-check settings.
type Config struct {
	Name   string                    `yaml:"name"`
	Checks map[string]tt.ConfigCheck `yaml:"checks"`
}

// DefaultConfig lists every registered check at error severity.
func DefaultConfig() Config {
	checks := make(map[string]tt.ConfigCheck)
	for _, name := range internal.CheckNames() {
		checks[name] = tt.ConfigCheck{Severity: tt.SeverityError}
	}
	return Config{Name: "seqcheck", Checks: checks}
}

// WriteConfig writes the configuration as YAML to path.
func WriteConfig(path string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}
	if err := os.WriteFile(path, d, 0o644); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	return nil
}

func loadConfiguration(configurationPath string) (Config, error) {
	if configurationPath == "" {
		return Config{}, nil
	}
	config, err := parseConfigurationFile(configurationPath)
	if errors.Is(err, os.ErrNotExist) && configurationPath == DefaultConfigPath {
		return Config{}, nil
	}
	return config, err
}

func parseConfigurationFile(configurationPath string) (Config, error) {
	var config Config

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("error parsing %s: %w", configurationPath, err)
	}

	return config, nil
}
