package weather

import "errors"

var (
	// ErrMalformedForecast is returned when a raw forecast payload is missing
	// fields the windowing step requires. The cycle should be skipped and
	// retried on the next schedule tick.
	ErrMalformedForecast = errors.New("malformed forecast payload")

	// ErrEmptySequence is returned by aggregators when the observation
	// sequence is empty; min/max/avg are undefined on an empty window.
	ErrEmptySequence = errors.New("empty observation sequence")

	// ErrFieldCollision is returned when two summaries contribute the same
	// field name to the flat export record. This is a programming defect, not
	// a per-cycle condition, and callers should abort on it.
	ErrFieldCollision = errors.New("duplicate field name in export record")
)
