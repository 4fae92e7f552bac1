package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnolang/seqcheck/formatter"
	"github.com/gnolang/seqcheck/internal"
	tt "github.com/gnolang/seqcheck/internal/types"
)

func newWatchCmd(root *rootOptions) *cobra.Command {
	var co cacheOptions

	cmd := &cobra.Command{
		Use:   "watch [dirs...]",
		Short: "Re-verify case files whenever they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			engine, err := newEngine(root, co)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var mu sync.Mutex
			out := cmd.OutOrStdout()
			report := func(filename string, issues []tt.Issue) {
				mu.Lock()
				defer mu.Unlock()
				if len(issues) == 0 {
					fmt.Fprintf(out, "%s: all cases verified\n", filename)
					return
				}
				source, _ := internal.ReadSourceCode(filename)
				fmt.Fprint(out, formatter.GenerateFormattedIssue(issues, source))
			}

			if err := engine.StartWatching(args, report); err != nil {
				return err
			}
			<-ctx.Done()
			return engine.StopWatching()
		},
	}

	cmd.Flags().StringVar(&co.dir, "cache-dir", "", "Cache results in this directory")
	return cmd
}
