package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"

	"rainwatch/internal/config"
	"rainwatch/internal/records"
	"rainwatch/internal/types"
)

// sentencePutter is satisfied by records.Writer.
type sentencePutter interface {
	PutSentence(ctx context.Context, date, sentence string, now time.Time) (types.DatedRecord, error)
}

func newSeedCmd() *cobra.Command {
	var (
		sentence string
		date     string
		table    string
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store a sentence in the sentence table",
		Long: `Seed writes one sentence under a date key. The classifier picks the most
recently written sentence for today.

Examples:
    rainctl seed --sentence "Heavy thunder expected after lunch"
    rainctl seed --sentence "Clear skies" --date 2026-10-20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			awsCfg, err := config.AWSConfig{
				Region:      envOr("AWS_REGION", "us-east-1"),
				EndpointURL: os.Getenv("AWS_ENDPOINT_URL"),
			}.SDKConfig(ctx)
			if err != nil {
				return err
			}

			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("invalid --timezone: %w", err)
			}

			w := records.NewWriter(dynamodb.NewFromConfig(awsCfg), table)
			return runSeed(ctx, w, cmd.OutOrStdout(), date, sentence, time.Now(), loc)
		},
	}

	cmd.Flags().StringVarP(&sentence, "sentence", "s", "", "Sentence to store (required)")
	cmd.Flags().StringVar(&date, "date", "", "Date key YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&table, "table", os.Getenv("DYNAMODB_TABLE_NAME"), "Table name (default: $DYNAMODB_TABLE_NAME)")
	cmd.Flags().StringVar(&timezone, "timezone", envOr("CLASSIFY_TIMEZONE", "UTC"), "Zone used to compute today's date")
	_ = cmd.MarkFlagRequired("sentence")

	return cmd
}

func runSeed(ctx context.Context, w sentencePutter, out io.Writer, date, sentence string, now time.Time, loc *time.Location) error {
	if sentence == "" {
		return fmt.Errorf("sentence must not be empty")
	}
	if date == "" {
		date = records.DateKey(now, loc)
	} else if _, err := time.Parse(types.DateKeyLayout, date); err != nil {
		return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
	}

	rec, err := w.PutSentence(ctx, date, sentence, now)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
