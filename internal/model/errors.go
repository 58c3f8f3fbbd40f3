package model

import "github.com/cockroachdb/errors"

// Error taxonomy. Callers attach these with errors.Mark and test with
// errors.Is, so the underlying cause stays in the chain.
var (
	// ErrDatasetUnavailable is returned when the dataset cannot be read or parsed.
	ErrDatasetUnavailable = errors.New("tuner: dataset unavailable")

	// ErrInsufficientData is returned when the sample size exceeds the dataset size.
	ErrInsufficientData = errors.New("tuner: insufficient data")

	// ErrTransport is returned for connection errors and timeouts on a single query.
	ErrTransport = errors.New("tuner: transport failure")

	// ErrProtocol is returned for non-200 responses and malformed bodies.
	ErrProtocol = errors.New("tuner: protocol failure")

	// ErrSweepAborted is returned when the abort policy stops a sweep.
	ErrSweepAborted = errors.New("tuner: sweep aborted")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("tuner: invalid config")
)
