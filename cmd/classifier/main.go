// Package main is the entrypoint for the rain classifier Lambda function.
//
// Each invocation reads the newest sentence stored for today, asks the model
// which rain condition it describes and logs the matching label. The trigger
// payload is ignored.
//
// This file handles dependency wiring (Cold Start) and delegates the workflow
// to the internal/classifier package.
package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"

	"rainwatch/internal/classifier"
	"rainwatch/internal/config"
	"rainwatch/internal/inference"
	"rainwatch/internal/types"
)

// runner is the part of classifier.Pipeline the handler drives.
type runner interface {
	Classify(ctx context.Context) (types.Outcome, error)
}

// Handler adapts the pipeline to the Lambda runtime.
type Handler struct {
	Pipeline runner
	Logger   *slog.Logger
	// Strict returns pipeline failures to the runtime instead of swallowing them.
	Strict bool
}

// Handle runs one classification. Failures are logged with their error code;
// unless Strict is set the invocation still reports success.
func (h *Handler) Handle(ctx context.Context, _ json.RawMessage) error {
	ctx = types.WithInvocationID(ctx, invocationID(ctx))
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("invocation_id", types.GetInvocationID(ctx))

	outcome, err := h.Pipeline.Classify(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "classification failed",
			"date", outcome.Date,
			"error_code", types.CodeOf(err),
			"error", err,
		)
		if h.Strict {
			return err
		}
		return nil
	}

	if outcome.Matched {
		logger.InfoContext(ctx, "label found",
			"date", outcome.Date,
			"label", outcome.Label,
		)
	} else {
		logger.WarnContext(ctx, "unexpected response",
			"date", outcome.Date,
			"response", outcome.Response,
		)
	}
	return nil
}

// invocationID prefers the Lambda request ID and falls back to a UUID in
// local mode.
func invocationID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.New().String()
}

func main() {
	// Bootstrap logger until the configured level is known.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig(config.NewSSMProvider(os.Getenv("AWS_REGION")))
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With("service", cfg.Service, "version", cfg.Build.Version)

	logger.Info("Classifier Lambda initializing (cold start)")

	awsCfg, err := cfg.AWS.SDKConfig(context.Background())
	if err != nil {
		logger.Error("Failed to load AWS SDK config", "error", err)
		os.Exit(1)
	}

	pipeline, err := classifier.NewFromConfig(cfg, awsCfg, logger)
	if err != nil {
		logger.Error("Failed to wire classifier", "error", err)
		os.Exit(1)
	}

	h := &Handler{
		Pipeline: pipeline,
		Logger:   logger,
		Strict:   cfg.Classifier.StrictErrors,
	}

	logger.Info("Classifier Lambda initialized",
		"table", cfg.Store.TableName,
		"bedrock_region", cfg.Inference.Region,
		"model_id", inference.ModelID,
		"timezone", cfg.Classifier.Timezone,
		"match_mode", cfg.Classifier.MatchMode,
		"sinks", len(pipeline.Sinks),
	)

	// Local mode: read the trigger event from stdin and run once.
	// Usage: echo '{}' | APP_ENV=local go run ./cmd/classifier
	if cfg.Environment == "local" {
		logger.Info("APP_ENV=local: reading event from stdin")
		payload, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Error("Failed to read stdin", "error", err)
			os.Exit(1)
		}
		if len(payload) == 0 {
			payload = []byte("{}")
		}
		if err := h.Handle(context.Background(), json.RawMessage(payload)); err != nil {
			logger.Error("Handler execution failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Handler execution completed")
		return
	}

	lambda.Start(h.Handle)
}
