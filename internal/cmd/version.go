package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolkov/forkjoin/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "forkjoin version %s (%s, %s)\n", info.Version, info.Algorithm, info.GoVersion)
			return err
		},
	}
}
