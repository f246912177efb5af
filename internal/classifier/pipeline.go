// Package classifier runs the rain classification workflow:
//
//	Fetching -> Prompting -> Invoking -> Matching
//
// Stages run sequentially on the caller's goroutine. A failure in Fetching or
// Invoking ends the run and is returned to the caller unchanged; deciding
// whether that failure is fatal belongs to the invocation harness.
package classifier

import (
	"context"
	"log/slog"
	"time"

	"rainwatch/internal/labels"
	"rainwatch/internal/prompt"
	"rainwatch/internal/records"
	"rainwatch/internal/types"
)

// Stage names a step of the workflow. It is logged with every stage event.
type Stage string

const (
	StageFetching  Stage = "fetching"
	StagePrompting Stage = "prompting"
	StageInvoking  Stage = "invoking"
	StageMatching  Stage = "matching"
)

// SentenceFetcher returns the newest sentence for a date key.
type SentenceFetcher interface {
	LatestSentence(ctx context.Context, date string) (string, error)
}

// ModelInvoker sends a prompt to the model and returns its answer text.
type ModelInvoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// OutcomeSink observes finished runs. err is nil when outcome is valid.
type OutcomeSink interface {
	RecordOutcome(ctx context.Context, outcome types.Outcome, err error) error
}

// Pipeline wires the four stages together.
type Pipeline struct {
	Fetcher  SentenceFetcher
	Invoker  ModelInvoker
	Matcher  labels.Matcher
	Location *time.Location
	Sinks    []OutcomeSink
	Logger   *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Classify runs the workflow once. The returned Outcome carries the date key
// even when err is non-nil.
func (p *Pipeline) Classify(ctx context.Context) (types.Outcome, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("invocation_id", types.GetInvocationID(ctx))

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	outcome := types.Outcome{Date: records.DateKey(now(), p.Location)}
	outcome, err := p.run(ctx, logger, outcome)
	p.notify(ctx, logger, outcome, err)
	return outcome, err
}

func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, outcome types.Outcome) (types.Outcome, error) {
	logger.DebugContext(ctx, "stage started", "stage", StageFetching, "date", outcome.Date)
	sentence, err := p.Fetcher.LatestSentence(ctx, outcome.Date)
	if err != nil {
		return outcome, err
	}

	logger.DebugContext(ctx, "stage started", "stage", StagePrompting, "sentence_len", len(sentence))
	text := prompt.Build(sentence)

	logger.DebugContext(ctx, "stage started", "stage", StageInvoking)
	response, err := p.Invoker.Invoke(ctx, text)
	if err != nil {
		return outcome, err
	}
	outcome.Response = response

	logger.DebugContext(ctx, "stage started", "stage", StageMatching, "match_mode", p.Matcher.Mode)
	outcome.Label, outcome.Matched = p.Matcher.Match(response)

	return outcome, nil
}

// notify reports the run to every sink. Sink failures are logged only.
func (p *Pipeline) notify(ctx context.Context, logger *slog.Logger, outcome types.Outcome, err error) {
	for _, sink := range p.Sinks {
		if sinkErr := sink.RecordOutcome(ctx, outcome, err); sinkErr != nil {
			logger.WarnContext(ctx, "outcome sink failed",
				"sink", sinkName(sink),
				"error", sinkErr,
			)
		}
	}
}

func sinkName(s OutcomeSink) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "unnamed"
}
