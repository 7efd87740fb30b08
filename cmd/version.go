package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vnykmshr/lazyflow/internal/build"
)

// NewVersionCommand returns the command to get the lazyflow version
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Return the lazyflow version",
		Long:  "Return the lazyflow version.",
		RunE:  version,
		Args:  cobra.NoArgs,
	}
}

// print out the built version
func version(cmd *cobra.Command, _ []string) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "lazyflow version %s date %s commit %s\n", build.Version, build.Date, build.Commit)
	return err
}
