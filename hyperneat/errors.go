package hyperneat

import "errors"

var (
	// ErrConfiguration marks settings that can never produce a valid run
	// (for example weight_min_value > weight_max_value). It is reported once at
	// setup and is not recoverable inside the pipeline.
	ErrConfiguration = errors.New("config error")

	// ErrInvariantViolation marks a corrupted genome or a logic defect. The
	// offending operation is aborted and its target is left untouched.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrNoMutation is returned by Mutate when every operator rate is zero.
	ErrNoMutation = errors.New("no mutation operator enabled")
)
