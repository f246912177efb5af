// Package queue fans classification outcomes out to an SQS queue so that
// downstream consumers can react without polling logs.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"rainwatch/internal/types"
)

// SQSSender abstracts the SQS SendMessage operation for testability.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// OutcomeMessage is the JSON body of one outcome notification.
type OutcomeMessage struct {
	InvocationID string      `json:"invocation_id,omitempty"`
	Date         string      `json:"date"`
	Label        types.Label `json:"label,omitempty"`
	Matched      bool        `json:"matched"`
	Response     string      `json:"response"`
}

// OutcomePublisher sends successful outcomes to queueURL. Failed runs carry no
// outcome and are not published.
type OutcomePublisher struct {
	client   SQSSender
	queueURL string
	logger   *slog.Logger
}

// NewOutcomePublisher creates an OutcomePublisher.
func NewOutcomePublisher(client SQSSender, queueURL string, logger *slog.Logger) *OutcomePublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutcomePublisher{client: client, queueURL: queueURL, logger: logger}
}

// Name identifies the sink in logs.
func (p *OutcomePublisher) Name() string { return "sqs" }

// RecordOutcome implements classifier.OutcomeSink.
func (p *OutcomePublisher) RecordOutcome(ctx context.Context, outcome types.Outcome, runErr error) error {
	if runErr != nil {
		return nil
	}

	body, err := json.Marshal(OutcomeMessage{
		InvocationID: types.GetInvocationID(ctx),
		Date:         outcome.Date,
		Label:        outcome.Label,
		Matched:      outcome.Matched,
		Response:     outcome.Response,
	})
	if err != nil {
		return fmt.Errorf("queue: failed to marshal outcome: %w", err)
	}

	out, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqsTypes.MessageAttributeValue{
			"label": {
				DataType:    aws.String("String"),
				StringValue: aws.String(outcome.String()),
			},
			"date": {
				DataType:    aws.String("String"),
				StringValue: aws.String(outcome.Date),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("queue: failed to send outcome to %s: %w", p.queueURL, err)
	}

	p.logger.DebugContext(ctx, "outcome published",
		"queue_url", p.queueURL,
		"message_id", aws.ToString(out.MessageId),
	)
	return nil
}
