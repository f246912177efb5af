package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rainwatch/internal/config"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			b := config.NewBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "rainctl %s (commit %s, built %s)\n", b.Version, b.Commit, b.BuildTime)
		},
	}
}
