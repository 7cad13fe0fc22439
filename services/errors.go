package services

import "errors"

var (
	// ErrSwapNotFound is returned when no record exists for a swap id.
	ErrSwapNotFound = errors.New("swap not found")

	// ErrConditionFailed is returned when a guarded write lost a race:
	// the record changed between the read and the conditional update.
	ErrConditionFailed = errors.New("conditional update failed")
)
