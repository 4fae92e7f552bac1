package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnolang/seqcheck/internal"
	"github.com/gnolang/seqcheck/internal/metrics"
	tt "github.com/gnolang/seqcheck/internal/types"
)

func newPigeonCmd(root *rootOptions) *cobra.Command {
	var c tt.Case

	cmd := &cobra.Command{
		Use:   "pigeon",
		Short: "Find two items sharing a label when items outnumber labels",
		Example: `  seqcheck pigeon --items 1,2,1 --labels a,b --assign 1=a,2=b
  seqcheck pigeon --items x,y,x --labels x,y`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(c.Items) == 0 {
				return errors.New("please provide --items")
			}
			c.Check = "pigeonhole"

			outcome, err := runPigeon(root.recorder, c)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Witness)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&c.Items, "items", nil, "Comma-separated items")
	cmd.Flags().StringSliceVar(&c.Labels, "labels", nil, "Comma-separated labels, fewer than items")
	cmd.Flags().StringToStringVar(&c.Assign, "assign", nil, "Item to label assignment (item=label,...); items are their own labels when empty")
	return cmd
}

// runPigeon runs the pigeonhole check and records it like the engine
// records a case.
func runPigeon(rec *metrics.Recorder, c tt.Case) (tt.Outcome, error) {
	start := time.Now()
	outcome, err := internal.RunCase(c)
	elapsed := time.Since(start)
	if err != nil {
		rec.RecordCase(c.Check, metrics.OutcomeError, elapsed)
		return tt.Outcome{}, err
	}
	rec.RecordCase(c.Check, metrics.OutcomeHolds, elapsed)
	return outcome, nil
}
