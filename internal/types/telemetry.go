package types

// Telemetry metric names for CloudWatch.
// All components MUST use these constants.
const (
	// Metric Names
	MetricClassificationOutcome = "ClassificationOutcome"
	MetricClassificationFailure = "ClassificationFailure"

	// Dimension Keys
	DimLabel     = "Label"
	DimErrorCode = "ErrorCode"

	// Dimension values used when no label was produced.
	DimValueUnexpected = "unexpected"
	DimValueError      = "error"

	// Metric Namespace
	MetricNamespace = "RainWatch"
)
