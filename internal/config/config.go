// Package config defines the configuration shared by the RainWatch functions.
// Configuration is loaded once at process initialization (Lambda cold start) and
// is immutable thereafter; components receive the sub-struct they need through
// their constructors and never read the environment themselves.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> AWS SSM Parameter Store (Lowest)
package config

import (
	"log/slog"
	"strings"
	"time"
)

// Config is the top-level configuration struct.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"rainwatch"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`

	// Domain Configurations
	Store         StoreConfig
	Inference     InferenceConfig
	Classifier    ClassifierConfig
	AWS           AWSConfig
	Observability ObservabilityConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo `ignored:"true"`
}

// StoreConfig identifies the table holding dated sentences.
type StoreConfig struct {
	TableName string `envconfig:"DYNAMODB_TABLE_NAME" validate:"required"`
}

// InferenceConfig holds the inference endpoint location. The model identifier
// is a constant of the inference package.
type InferenceConfig struct {
	Region string `envconfig:"BEDROCK_REGION" default:"us-east-1" validate:"required"`
}

// ClassifierConfig controls how a classification run is keyed and reported.
type ClassifierConfig struct {
	// Timezone is the IANA zone used to compute today's partition key.
	Timezone string `envconfig:"CLASSIFY_TIMEZONE" default:"UTC" validate:"required,timezone"`
	// MatchMode selects label matching: "phrase" or "substring".
	MatchMode string `envconfig:"LABEL_MATCH_MODE" default:"phrase" validate:"oneof=phrase substring"`
	// StrictErrors makes the Lambda handler return pipeline failures instead
	// of logging them and reporting success.
	StrictErrors bool `envconfig:"STRICT_ERRORS" default:"false"`
}

// Location resolves Timezone. Validation guarantees the zone exists, so the
// UTC fallback only applies to hand-built configs.
func (c ClassifierConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AWSConfig holds the regional configuration shared by the SDK clients.
type AWSConfig struct {
	Region string `envconfig:"AWS_REGION" default:"us-east-1"`

	// LocalStack Support (Empty in Prod)
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL" validate:"omitempty,url"`
}

// ObservabilityConfig holds metric and outcome fan-out settings.
type ObservabilityConfig struct {
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"RainWatch"`
	EnableMetrics   bool   `envconfig:"ENABLE_METRICS" default:"true"`
	// OutcomeQueueURL, when set, receives one SQS message per classification.
	OutcomeQueueURL string `envconfig:"OUTCOME_QUEUE_URL" validate:"omitempty,url"`
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// BuildInfo holds build-time metadata injected via ldflags.
// These values are NOT populated from environment variables.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrSSMResolution indicates a failure when fetching secrets from AWS SSM.
	ErrSSMResolution ConfigErrorType = "SSM_FAILURE"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
