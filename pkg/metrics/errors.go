package metrics

import "errors"

// Sentinel kinds for metrics errors.
var (
	ErrNilGatherer = errors.New("metrics gatherer is nil")
)
