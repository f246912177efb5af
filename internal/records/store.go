// Package records reads and writes dated sentences in DynamoDB.
//
// The table is keyed by date (partition, "YYYY-MM-DD") and created_at
// (sort, RFC3339 with nanoseconds in UTC), so a descending query on one date
// returns the most recently written sentence first.
package records

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"

	"rainwatch/internal/types"
)

// Attribute names of the sentence table.
const (
	AttrDate      = "date"
	AttrCreatedAt = "created_at"
	AttrSentence  = "sentence"
)

// createdAtLayout sorts lexically in insertion order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// DateKey formats now as a partition key in loc. A nil loc means UTC.
func DateKey(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(types.DateKeyLayout)
}

// dynamoQueryAPI is the subset of the DynamoDB client used by Fetcher.
type dynamoQueryAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// dynamoPutAPI is the subset of the DynamoDB client used by Writer.
type dynamoPutAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Fetcher returns the newest sentence stored for a date.
type Fetcher struct {
	client    dynamoQueryAPI
	tableName string
	logger    *slog.Logger
}

// NewFetcher creates a Fetcher for tableName. A nil logger uses slog.Default().
func NewFetcher(client dynamoQueryAPI, tableName string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, tableName: tableName, logger: logger}
}

// LatestSentence queries date with Limit 1 in descending sort-key order and
// returns the sentence of the single item.
//
// Errors:
//   - types.ErrCodeNotFoundSentence when the date has no items.
//   - types.ErrCodeUpstreamStore wrapping the SDK error on any query failure.
//   - types.ErrCodeInternalUnexpected when the item cannot be decoded.
func (f *Fetcher) LatestSentence(ctx context.Context, date string) (string, error) {
	keyCond := expression.Key(AttrDate).Equal(expression.Value(date))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build key condition", err)
	}

	out, err := f.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(f.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
		ScanIndexForward:          aws.Bool(false),
	})
	if err != nil {
		return "", types.NewAppError(types.ErrCodeUpstreamStore, "sentence query failed", err).
			WithDetails(map[string]any{"table": f.tableName, "date": date})
	}

	if len(out.Items) == 0 {
		return "", types.NewAppError(types.ErrCodeNotFoundSentence, "no sentences found for today", nil).
			WithDetails(map[string]any{"table": f.tableName, "date": date})
	}

	var rec types.DatedRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected, "failed to decode sentence item", err)
	}
	if _, ok := out.Items[0][AttrSentence]; !ok {
		return "", types.NewAppError(types.ErrCodeInternalUnexpected, "sentence item has no sentence attribute", nil).
			WithDetails(map[string]any{"date": date})
	}

	f.logger.DebugContext(ctx, "sentence fetched",
		"table", f.tableName,
		"date", date,
		"created_at", rec.CreatedAt,
	)

	return rec.Sentence, nil
}

// Writer stores sentences. The classifier never writes; Writer backs the
// seeding command used to prepare a table.
type Writer struct {
	client    dynamoPutAPI
	tableName string
	newID     func() string
}

// NewWriter creates a Writer for tableName.
func NewWriter(client dynamoPutAPI, tableName string) *Writer {
	return &Writer{
		client:    client,
		tableName: tableName,
		newID:     func() string { return uuid.New().String() },
	}
}

// PutSentence stores sentence under date with a created_at taken from now.
func (w *Writer) PutSentence(ctx context.Context, date, sentence string, now time.Time) (types.DatedRecord, error) {
	rec := types.DatedRecord{
		Date:      date,
		CreatedAt: now.UTC().Format(createdAtLayout),
		ID:        w.newID(),
		Sentence:  sentence,
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return types.DatedRecord{}, fmt.Errorf("records: failed to marshal record: %w", err)
	}

	if _, err := w.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(w.tableName),
		Item:      item,
	}); err != nil {
		return types.DatedRecord{}, types.NewAppError(types.ErrCodeUpstreamStore, "sentence put failed", err)
	}

	return rec, nil
}
