package classifier

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"rainwatch/internal/config"
	"rainwatch/internal/inference"
	"rainwatch/internal/labels"
	"rainwatch/internal/queue"
	"rainwatch/internal/records"
	"rainwatch/internal/telemetry"
)

// NewFromConfig wires a Pipeline against live AWS clients. Sinks are added
// for CloudWatch when metrics are enabled and for SQS when an outcome queue
// is configured.
func NewFromConfig(cfg *config.Config, awsCfg aws.Config, logger *slog.Logger) (*Pipeline, error) {
	mode, err := labels.ParseMode(cfg.Classifier.MatchMode)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		Fetcher:  records.NewFetcher(dynamodb.NewFromConfig(awsCfg), cfg.Store.TableName, logger),
		Invoker:  inference.NewInvoker(inference.NewClient(awsCfg, cfg.Inference.Region), logger),
		Matcher:  labels.Matcher{Mode: mode},
		Location: cfg.Classifier.Location(),
		Logger:   logger,
	}

	if cfg.Observability.EnableMetrics {
		p.Sinks = append(p.Sinks, telemetry.NewMetricPublisher(
			cloudwatch.NewFromConfig(awsCfg), cfg.Observability.MetricNamespace))
	}
	if cfg.Observability.OutcomeQueueURL != "" {
		p.Sinks = append(p.Sinks, queue.NewOutcomePublisher(
			sqs.NewFromConfig(awsCfg), cfg.Observability.OutcomeQueueURL, logger))
	}

	return p, nil
}
