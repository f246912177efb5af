package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rainwatch/internal/classifier"
	"rainwatch/internal/config"
	"rainwatch/internal/types"
)

// classifyResult is printed after a run.
type classifyResult struct {
	Date      string          `json:"date"`
	Label     types.Label     `json:"label,omitempty"`
	Matched   bool            `json:"matched"`
	Response  string          `json:"response,omitempty"`
	ErrorCode types.ErrorCode `json:"error_code,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type classifyRunner interface {
	Classify(ctx context.Context) (types.Outcome, error)
}

func newClassifyCmd() *cobra.Command {
	var (
		date      string
		matchMode string
		noSinks   bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Run one classification against the configured table and model",
		Long: `Classify runs the same workflow as the classifier Lambda and prints the
outcome as JSON. Unlike the Lambda, any failure makes the command exit non-zero.

Examples:
    rainctl classify
    rainctl classify --date 2026-10-19 --match-mode substring`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if _, ok := os.LookupEnv("APP_ENV"); !ok {
				_ = os.Setenv("APP_ENV", "local")
			}
			if matchMode != "" {
				_ = os.Setenv("LABEL_MATCH_MODE", matchMode)
			}

			cfg, err := config.LoadConfig(config.NewSSMProvider(os.Getenv("AWS_REGION")))
			if err != nil {
				return err
			}
			if noSinks {
				cfg.Observability.EnableMetrics = false
				cfg.Observability.OutcomeQueueURL = ""
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))

			awsCfg, err := cfg.AWS.SDKConfig(ctx)
			if err != nil {
				return err
			}
			p, err := classifier.NewFromConfig(cfg, awsCfg, logger)
			if err != nil {
				return err
			}
			if date != "" {
				day, err := time.ParseInLocation(types.DateKeyLayout, date, p.Location)
				if err != nil {
					return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
				}
				p.Now = func() time.Time { return day.Add(12 * time.Hour) }
			}

			return runClassify(ctx, p, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Classify this date key instead of today")
	cmd.Flags().StringVar(&matchMode, "match-mode", "", "Label matching: phrase or substring (default: $LABEL_MATCH_MODE)")
	cmd.Flags().BoolVar(&noSinks, "no-sinks", true, "Skip CloudWatch metrics and the outcome queue")

	return cmd
}

// runClassify prints the outcome and returns the run error, if any.
func runClassify(ctx context.Context, r classifyRunner, out io.Writer) error {
	ctx = types.WithInvocationID(ctx, uuid.New().String())

	outcome, runErr := r.Classify(ctx)
	res := classifyResult{
		Date:     outcome.Date,
		Label:    outcome.Label,
		Matched:  outcome.Matched,
		Response: outcome.Response,
	}
	if runErr != nil {
		res.ErrorCode = types.CodeOf(runErr)
		res.Error = runErr.Error()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	return runErr
}
