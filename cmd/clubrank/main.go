package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "clubrank",
		Short:        "Compute club point leaderboards from seed files",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(leaderboardCmd())
	return root
}
