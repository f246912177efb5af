// Package main is the entrypoint for the greeter Lambda function. It logs a
// greeting and answers with the name of its own log stream.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"rainwatch/internal/config"
)

// Greeter answers every invocation with the log stream name.
type Greeter struct {
	Logger *slog.Logger
	// StreamName reports the current log stream.
	StreamName func() string
}

// Handle ignores the event.
func (g *Greeter) Handle(ctx context.Context, _ json.RawMessage) (string, error) {
	stream := g.StreamName()
	g.Logger.InfoContext(ctx, "hello world", "log_stream", stream)
	return stream, nil
}

func logStreamName() string {
	if lambdacontext.LogStreamName != "" {
		return lambdacontext.LogStreamName
	}
	return os.Getenv("AWS_LAMBDA_LOG_STREAM_NAME")
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With("service", "greeter", "version", config.NewBuildInfo().Version)

	if err := config.ResolveSecrets(config.NewSSMProvider(os.Getenv("AWS_REGION"))); err != nil {
		logger.Error("Failed to resolve secrets", "error", err)
		os.Exit(1)
	}

	g := &Greeter{Logger: logger, StreamName: logStreamName}

	// Local mode: read the event from stdin and print the answer.
	if os.Getenv("APP_ENV") == "local" {
		payload, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Error("Failed to read stdin", "error", err)
			os.Exit(1)
		}
		out, err := g.Handle(context.Background(), json.RawMessage(payload))
		if err != nil {
			logger.Error("Handler execution failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(out)
		return
	}

	lambda.Start(g.Handle)
}
