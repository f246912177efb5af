package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreeterReturnsStreamName(t *testing.T) {
	buf := &bytes.Buffer{}
	g := &Greeter{
		Logger:     slog.New(slog.NewJSONHandler(buf, nil)),
		StreamName: func() string { return "2026/10/19/[$LATEST]abc123" },
	}

	out, err := g.Handle(context.Background(), json.RawMessage(`{"anything":true}`))
	require.NoError(t, err)
	assert.Equal(t, "2026/10/19/[$LATEST]abc123", out)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello world", line["msg"])
	assert.Equal(t, "2026/10/19/[$LATEST]abc123", line["log_stream"])
}

func TestGreeterEmptyStreamName(t *testing.T) {
	g := &Greeter{Logger: slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)), StreamName: func() string { return "" }}

	out, err := g.Handle(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLogStreamNameFallsBackToEnv(t *testing.T) {
	saved := lambdacontext.LogStreamName
	t.Cleanup(func() { lambdacontext.LogStreamName = saved })

	lambdacontext.LogStreamName = ""
	t.Setenv("AWS_LAMBDA_LOG_STREAM_NAME", "from-env")
	assert.Equal(t, "from-env", logStreamName())

	lambdacontext.LogStreamName = "from-runtime"
	assert.Equal(t, "from-runtime", logStreamName())
}
