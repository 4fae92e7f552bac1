package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnolang/seqcheck/check"
)

func newInitCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file enabling every check",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.cfgFile
			if path == "" {
				path = check.DefaultConfigPath
			}
			if err := check.WriteConfig(path, check.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", path)
			return nil
		},
	}
}
