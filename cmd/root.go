package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gnolang/seqcheck/check"
	"github.com/gnolang/seqcheck/internal/metrics"
)

const defaultTimeout = 5 * time.Minute

// ErrIssuesFound is returned when verification reported at least one issue.
var ErrIssuesFound = errors.New("issues found")

type rootOptions struct {
	cfgFile     string
	timeout     time.Duration
	verbose     bool
	dumpMetrics bool

	logger   *zap.Logger
	recorder *metrics.Recorder
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	checkCmd := newCheckCmd(opts)

	rootCmd := &cobra.Command{
		Use:              "seqcheck [paths...]",
		Args:             cobra.ArbitraryArgs,
		Short:            "seqcheck - verify sequence relation claims and report the evidence",
		TraverseChildren: true,
		SilenceUsage:     true,
		SilenceErrors:    true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			opts.recorder = metrics.New()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// no subcommand
			if len(args) == 0 {
				return cmd.Help()
			}
			// seqcheck [path1 path2 ...] behaves like the check subcommand
			checkCmd.SetContext(cmd.Context())
			return checkCmd.RunE(checkCmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", check.DefaultConfigPath, "Path to the configuration file")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "Set a timeout for verification")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.dumpMetrics, "metrics", false, "Print Prometheus metrics to stderr on exit")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newPigeonCmd(opts))

	return rootCmd
}

// finish flushes the logger and dumps metrics when requested.
func (o *rootOptions) finish(w io.Writer) {
	if o.dumpMetrics && o.recorder != nil {
		if err := o.recorder.WriteText(w); err != nil && o.logger != nil {
			o.logger.Error("Error writing metrics", zap.Error(err))
		}
	}
	if o.logger != nil {
		_ = o.logger.Sync()
	}
}

// Execute runs the seqcheck command line.
func Execute(args []string, stdout, stderr io.Writer) error {
	opts := &rootOptions{}
	rootCmd := newRootCmd(opts)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	opts.finish(stderr)
	return err
}
