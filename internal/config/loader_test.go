package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSecretProvider is a configurable fake for SSM resolution.
type testSecretProvider struct {
	values     map[string]string
	err        error
	calledWith []string
	callCount  int
}

func (p *testSecretProvider) GetParametersBatch(_ context.Context, keys []string) (map[string]string, error) {
	p.callCount++
	p.calledWith = append(p.calledWith, keys...)
	if p.err != nil {
		return nil, p.err
	}
	result := make(map[string]string)
	for _, k := range keys {
		if v, ok := p.values[k]; ok {
			result[k] = v
		}
	}
	return result, nil
}

// unsetEnv removes key for the duration of the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

// setMinimalEnv sets the variables required for a valid local Config and
// clears optional ones that a developer shell might carry.
func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv("APP_ENV", "local")
	t.Setenv("DYNAMODB_TABLE_NAME", "rainwatch-sentences")

	for _, key := range []string{
		"SERVICE_NAME", "LOG_LEVEL", "BEDROCK_REGION", "CLASSIFY_TIMEZONE",
		"LABEL_MATCH_MODE", "STRICT_ERRORS", "AWS_ENDPOINT_URL",
		"METRIC_NAMESPACE", "ENABLE_METRICS", "OUTCOME_QUEUE_URL",
	} {
		unsetEnv(t, key)
	}
}

func TestLoadConfigLocalDefaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "rainwatch", cfg.Service)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "rainwatch-sentences", cfg.Store.TableName)
	assert.Equal(t, "us-east-1", cfg.Inference.Region)
	assert.Equal(t, "UTC", cfg.Classifier.Timezone)
	assert.Equal(t, "phrase", cfg.Classifier.MatchMode)
	assert.False(t, cfg.Classifier.StrictErrors)
	assert.Equal(t, "RainWatch", cfg.Observability.MetricNamespace)
	assert.True(t, cfg.Observability.EnableMetrics)
	assert.Empty(t, cfg.Observability.OutcomeQueueURL)
	assert.Equal(t, "dev", cfg.Build.Version)
}

func TestLoadConfigOverrides(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("BEDROCK_REGION", "eu-central-1")
	t.Setenv("CLASSIFY_TIMEZONE", "Asia/Tokyo")
	t.Setenv("LABEL_MATCH_MODE", "substring")
	t.Setenv("STRICT_ERRORS", "true")
	t.Setenv("ENABLE_METRICS", "false")
	t.Setenv("OUTCOME_QUEUE_URL", "https://sqs.us-east-1.amazonaws.com/123/outcomes")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "eu-central-1", cfg.Inference.Region)
	assert.Equal(t, "Asia/Tokyo", cfg.Classifier.Location().String())
	assert.Equal(t, "substring", cfg.Classifier.MatchMode)
	assert.True(t, cfg.Classifier.StrictErrors)
	assert.False(t, cfg.Observability.EnableMetrics)
	assert.Equal(t, "https://sqs.us-east-1.amazonaws.com/123/outcomes", cfg.Observability.OutcomeQueueURL)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

// TestLoadConfigSetsUTC verifies that LoadConfig sets time.Local to UTC.
func TestLoadConfigSetsUTC(t *testing.T) {
	setMinimalEnv(t)

	originalLocal := time.Local
	t.Cleanup(func() {
		time.Local = originalLocal
	})
	nyc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	time.Local = nyc

	_, err = LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, time.Local)
}

func TestLoadConfigValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid environment", "APP_ENV", "qa"},
		{"missing table", "DYNAMODB_TABLE_NAME", ""},
		{"unknown timezone", "CLASSIFY_TIMEZONE", "Mars/Olympus_Mons"},
		{"unknown match mode", "LABEL_MATCH_MODE", "fuzzy"},
		{"bad queue url", "OUTCOME_QUEUE_URL", "not a url"},
		{"bad log level", "LOG_LEVEL", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setMinimalEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig(nil)
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected *ConfigError, got %T", err)
			assert.Equal(t, ErrValidation, cfgErr.Type)
		})
	}
}

func TestLoadConfigParsingFailure(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("STRICT_ERRORS", "maybe")

	_, err := LoadConfig(nil)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrParsing, cfgErr.Type)
}

// TestLoadConfigSSMResolution verifies that _SSM_PARAM pointers are resolved
// through the provider when APP_ENV is not "local".
func TestLoadConfigSSMResolution(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("APP_ENV", "dev")
	unsetEnv(t, "DYNAMODB_TABLE_NAME")
	t.Setenv("DYNAMODB_TABLE_NAME_SSM_PARAM", "/dev/rainwatch/table")

	provider := &testSecretProvider{
		values: map[string]string{"/dev/rainwatch/table": "resolved-table"},
	}

	cfg, err := LoadConfig(provider)
	require.NoError(t, err)

	assert.Equal(t, "resolved-table", cfg.Store.TableName)
	assert.Equal(t, 1, provider.callCount)
	assert.Equal(t, []string{"/dev/rainwatch/table"}, provider.calledWith)
}

// TestLoadConfigSSMSkippedForLocal verifies that SSM resolution is skipped
// when APP_ENV is "local".
func TestLoadConfigSSMSkippedForLocal(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("SOME_SECRET_SSM_PARAM", "/local/some/path")

	provider := &testSecretProvider{}
	_, err := LoadConfig(provider)
	require.NoError(t, err)
	assert.Zero(t, provider.callCount)
}

func fakeDeps(env map[string]string) (loaderDeps, map[string]string) {
	set := make(map[string]string)
	return loaderDeps{
		lookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		setEnv: func(key, value string) error {
			set[key] = value
			return nil
		},
		environ: func() []string {
			out := make([]string, 0, len(env))
			for k, v := range env {
				out = append(out, k+"="+v)
			}
			return out
		},
	}, set
}

func TestResolveSSMParams(t *testing.T) {
	t.Run("existing target wins over SSM", func(t *testing.T) {
		deps, set := fakeDeps(map[string]string{
			"DYNAMODB_TABLE_NAME":           "from-env",
			"DYNAMODB_TABLE_NAME_SSM_PARAM": "/prod/table",
		})
		provider := &testSecretProvider{}

		require.NoError(t, resolveSSMParams(provider, deps))
		assert.Zero(t, provider.callCount)
		assert.Empty(t, set)
	})

	t.Run("empty path is ignored", func(t *testing.T) {
		deps, _ := fakeDeps(map[string]string{"X_SSM_PARAM": ""})
		assert.NoError(t, resolveSSMParams(nil, deps))
	})

	t.Run("nil provider with pending bindings", func(t *testing.T) {
		deps, _ := fakeDeps(map[string]string{"B_SSM_PARAM": "/b", "A_SSM_PARAM": "/a"})

		err := resolveSSMParams(nil, deps)
		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, ErrSSMResolution, cfgErr.Type)
		assert.Contains(t, cfgErr.Message, "A, B")
	})

	t.Run("provider error is wrapped", func(t *testing.T) {
		deps, _ := fakeDeps(map[string]string{"A_SSM_PARAM": "/a"})
		cause := errors.New("throttled")

		err := resolveSSMParams(&testSecretProvider{err: cause}, deps)
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("missing parameter is reported", func(t *testing.T) {
		deps, set := fakeDeps(map[string]string{"A_SSM_PARAM": "/a", "B_SSM_PARAM": "/b"})
		provider := &testSecretProvider{values: map[string]string{"/a": "alpha"}}

		err := resolveSSMParams(provider, deps)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "SSM parameters not found for: B"), err.Error())
		assert.Equal(t, "alpha", set["A"])
	})
}

func TestConfigErrorFormat(t *testing.T) {
	withCause := &ConfigError{Type: ErrParsing, Message: "bad", Err: errors.New("boom")}
	assert.Equal(t, "[PARSING_FAILED] bad: boom", withCause.Error())

	withoutCause := &ConfigError{Type: ErrValidation, Message: "bad"}
	assert.Equal(t, "[VALIDATION_FAILED] bad", withoutCause.Error())
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), "LogLevel=%q", in)
	}
}

func TestClassifierLocationFallback(t *testing.T) {
	cfg := ClassifierConfig{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())
}
