// Package inference sends a prompt to the text-generation model on Amazon
// Bedrock and returns the first text segment of its answer.
//
// Each Invoke is exactly one billed InvokeModel call. Retries are disabled on
// the SDK client built by NewClient and the package adds none of its own.
package inference

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/tidwall/gjson"

	"rainwatch/internal/types"
)

const (
	// ModelID is the Bedrock model used for classification.
	ModelID = "anthropic.claude-3-haiku-20240307-v1:0"

	// MaxTokens caps the length of the model answer.
	MaxTokens = 1000

	// anthropicVersion is the Messages API version Bedrock expects in the body.
	anthropicVersion = "bedrock-2023-05-31"

	contentTypeJSON = "application/json"
)

// bedrockAPI is the subset of the Bedrock runtime client used by Invoker.
type bedrockAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// NewClient builds a Bedrock runtime client for region with SDK retries
// disabled.
func NewClient(awsCfg aws.Config, region string) *bedrockruntime.Client {
	return bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		o.Region = region
		o.Retryer = aws.NopRetryer{}
	})
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

// requestBody is the Anthropic Messages payload accepted by InvokeModel.
type requestBody struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Messages         []message `json:"messages"`
}

// Invoker calls the model once per prompt.
type Invoker struct {
	client bedrockAPI
	logger *slog.Logger
}

// NewInvoker creates an Invoker. A nil logger uses slog.Default().
func NewInvoker(client bedrockAPI, logger *slog.Logger) *Invoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{client: client, logger: logger}
}

// Invoke sends prompt as a single user message and returns content[0].text.
//
// Errors:
//   - types.ErrCodeUpstreamModel wrapping the SDK error on any call failure.
//   - types.ErrCodeInternalMalformedResponse when the body is not JSON or
//     lacks a string content[0].text.
func (i *Invoker) Invoke(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(requestBody{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        MaxTokens,
		Messages: []message{{
			Role:    "user",
			Content: []contentBlock{{Type: "text", Text: prompt}},
		}},
	})
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected, "failed to serialize model request", err)
	}

	start := time.Now()
	out, err := i.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(ModelID),
		ContentType: aws.String(contentTypeJSON),
		Accept:      aws.String(contentTypeJSON),
		Body:        body,
	})
	if err != nil {
		return "", types.NewAppError(types.ErrCodeUpstreamModel, "model invocation failed", err).
			WithDetails(map[string]any{"model_id": ModelID})
	}

	i.logger.InfoContext(ctx, "model invoked",
		"model_id", ModelID,
		"latency_ms", time.Since(start).Milliseconds(),
		"response_bytes", len(out.Body),
	)

	return FirstText(out.Body)
}

// FirstText extracts content[0].text from a Messages API response body.
func FirstText(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", types.NewAppError(types.ErrCodeInternalMalformedResponse, "model response is not valid JSON", nil)
	}

	text := gjson.GetBytes(body, "content.0.text")
	if !text.Exists() {
		return "", types.NewAppError(types.ErrCodeInternalMalformedResponse, "model response has no content[0].text", nil).
			WithDetails(map[string]any{"stop_reason": gjson.GetBytes(body, "stop_reason").String()})
	}
	if text.Type != gjson.String {
		return "", types.NewAppError(types.ErrCodeInternalMalformedResponse, "model response content[0].text is not a string", nil)
	}

	return text.String(), nil
}
