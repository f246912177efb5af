// Command rainctl operates a RainWatch deployment from a workstation.
//
// Usage:
//
//	rainctl classify                 Run one classification and print the outcome
//	rainctl seed --sentence "..."    Store a sentence for today
//	rainctl template -f yaml         Render the SAM template
//	rainctl version                  Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rainctl",
		Short: "Operate the RainWatch classifier",
		Long: `rainctl seeds the sentence table, runs the rain classifier outside Lambda
and renders the deployment template.

Configuration is read from the same environment variables as the Lambda
functions (DYNAMODB_TABLE_NAME, BEDROCK_REGION, ...). APP_ENV defaults to
"local".`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newClassifyCmd(),
		newSeedCmd(),
		newTemplateCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
