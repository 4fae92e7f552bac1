package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/seqcheck/check"
	"github.com/gnolang/seqcheck/formatter"
	"github.com/gnolang/seqcheck/internal"
	tt "github.com/gnolang/seqcheck/internal/types"
)

type checkOptions struct {
	ignoreChecks string
	ignorePaths  string
	jsonOutput   bool
	outPath      string
	cache        cacheOptions
	workers      int
}

type cacheOptions struct {
	dir    string
	maxAge time.Duration
	clear  bool
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Verify the cases of case files and report mismatches",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("please provide file or directory paths")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), root.timeout)
			defer cancel()

			engine, err := newEngine(root, opts.cache)
			if err != nil {
				return err
			}
			for _, c := range splitList(opts.ignoreChecks) {
				engine.IgnoreCheck(c)
			}
			for _, p := range splitList(opts.ignorePaths) {
				engine.IgnorePath(p)
			}

			issues, err := check.ProcessFiles(ctx, root.logger, engine, args, check.ProcessFile, check.Options{
				Workers:  opts.workers,
				Progress: cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("error processing files: %w", err)
			}

			if err := printIssues(cmd.OutOrStdout(), root.logger, issues, opts.jsonOutput, opts.outPath); err != nil {
				return err
			}
			if len(issues) > 0 {
				return fmt.Errorf("%w: %d", ErrIssuesFound, len(issues))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ignoreChecks, "ignore", "", "Comma-separated list of checks to ignore")
	cmd.Flags().StringVar(&opts.ignorePaths, "ignore-paths", "", "Comma-separated list of paths or globs to ignore")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output issues in JSON format")
	cmd.Flags().StringVarP(&opts.outPath, "output", "o", "", "Output path (when using JSON)")
	cmd.Flags().StringVar(&opts.cache.dir, "cache-dir", "", "Cache results in this directory")
	cmd.Flags().DurationVar(&opts.cache.maxAge, "cache-max-age", 0, "Discard cached results older than this (default 24h)")
	cmd.Flags().BoolVar(&opts.cache.clear, "clear-cache", false, "Drop every cached result before verifying")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Number of files verified concurrently (default: number of CPUs)")

	return cmd
}

func newEngine(root *rootOptions, co cacheOptions) (*internal.Engine, error) {
	engineOpts := []internal.EngineOption{internal.WithMetrics(root.recorder)}
	if co.dir != "" {
		cache, err := internal.NewCache(co.dir)
		if err != nil {
			return nil, err
		}
		if co.maxAge > 0 {
			cache.SetMaxAge(co.maxAge)
		}
		if co.clear {
			if err := cache.InvalidateAll(); err != nil {
				return nil, err
			}
		}
		root.logger.Debug("Using result cache", zap.String("dir", cache.Dir()))
		engineOpts = append(engineOpts, internal.WithCache(cache))
	}

	engine, err := check.New(root.logger, root.cfgFile, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	root.logger.Debug("Engine ready", zap.String("run_id", engine.RunID()))
	return engine, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printIssues(w io.Writer, logger *zap.Logger, issues []tt.Issue, isJSON bool, jsonOutput string) error {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	if isJSON {
		d, err := json.Marshal(issuesByFile)
		if err != nil {
			return fmt.Errorf("error marshalling issues to JSON: %w", err)
		}
		if jsonOutput == "" {
			_, err = fmt.Fprintln(w, string(d))
			return err
		}
		if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
			return fmt.Errorf("error writing JSON output file: %w", err)
		}
		return nil
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	for _, filename := range sortedFiles {
		sourceCode, err := internal.ReadSourceCode(filename)
		if err != nil {
			logger.Warn("Error reading case file", zap.String("file", filename), zap.Error(err))
		}
		fmt.Fprint(w, formatter.GenerateFormattedIssue(issuesByFile[filename], sourceCode))
	}
	return nil
}
