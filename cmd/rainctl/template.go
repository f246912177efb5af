package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rainwatch/internal/stack"
)

func newTemplateCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
		opts         stack.Options
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Render the SAM template for the RainWatch stack",
		Long: `Template prints the CloudFormation (SAM) template that deploys the greeter,
the classifier and the sentence table.

Examples:
    rainctl template
    rainctl template --format json -o template.json
    rainctl template --with-queue --arch x86_64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := renderTemplate(opts, outputFormat)
			if err != nil {
				return err
			}
			if outputFile == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(outputFile, out, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outputFile, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&opts.Architecture, "arch", "arm64", "Lambda architecture: arm64 or x86_64")
	cmd.Flags().StringVar(&opts.BedrockRegion, "bedrock-region", "us-east-1", "Region of the Bedrock model")
	cmd.Flags().StringVar(&opts.MetricNamespace, "metric-namespace", "RainWatch", "CloudWatch namespace for outcome metrics")
	cmd.Flags().BoolVar(&opts.WithOutcomeQueue, "with-queue", false, "Add an SQS queue receiving classification outcomes")

	return cmd
}

func renderTemplate(opts stack.Options, format string) ([]byte, error) {
	tpl, err := stack.Build(opts)
	if err != nil {
		return nil, err
	}
	switch format {
	case "yaml", "yml":
		return tpl.YAML()
	case "json":
		out, err := tpl.JSON()
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
