// Package telemetry publishes classification metrics to CloudWatch.
package telemetry

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"rainwatch/internal/types"
)

// cloudwatchAPI is the subset of the CloudWatch SDK client used here.
type cloudwatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricPublisher emits one ClassificationOutcome datum per run, dimensioned
// by label, and a ClassificationFailure datum dimensioned by error code when
// the run failed.
type MetricPublisher struct {
	client    cloudwatchAPI
	namespace string
}

// NewMetricPublisher creates a MetricPublisher. An empty namespace falls back
// to types.MetricNamespace.
func NewMetricPublisher(client cloudwatchAPI, namespace string) *MetricPublisher {
	if namespace == "" {
		namespace = types.MetricNamespace
	}
	return &MetricPublisher{client: client, namespace: namespace}
}

// Name identifies the sink in logs.
func (p *MetricPublisher) Name() string { return "cloudwatch" }

// RecordOutcome implements classifier.OutcomeSink.
func (p *MetricPublisher) RecordOutcome(ctx context.Context, outcome types.Outcome, runErr error) error {
	data := []cwTypes.MetricDatum{
		countDatum(types.MetricClassificationOutcome, types.DimLabel, labelDimension(outcome, runErr)),
	}
	if runErr != nil {
		data = append(data, countDatum(types.MetricClassificationFailure, types.DimErrorCode, string(types.CodeOf(runErr))))
	}

	_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(p.namespace),
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("failed to publish classification metrics: %w", err)
	}
	return nil
}

func labelDimension(outcome types.Outcome, runErr error) string {
	switch {
	case runErr != nil:
		return types.DimValueError
	case !outcome.Matched:
		return types.DimValueUnexpected
	default:
		return string(outcome.Label)
	}
}

func countDatum(name, dimName, dimValue string) cwTypes.MetricDatum {
	return cwTypes.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(1),
		Unit:       cwTypes.StandardUnitCount,
		Dimensions: []cwTypes.Dimension{
			{
				Name:  aws.String(dimName),
				Value: aws.String(dimValue),
			},
		},
	}
}
