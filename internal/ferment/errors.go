package ferment

import "errors"

// Configuration errors, fatal at Simulator construction. A validated
// Simulator has no failure modes at run time.
var (
	// ErrTimeStep indicates a zero or negative integration step.
	ErrTimeStep = errors.New("ferment: time step must be positive")

	// ErrDuration indicates a duration shorter than a single step.
	ErrDuration = errors.New("ferment: duration must cover at least one time step")

	// ErrSigma indicates a non-positive stress tolerance width.
	ErrSigma = errors.New("ferment: stress tolerance (sigma) must be positive")

	// ErrYield indicates a non-positive substrate yield coefficient.
	ErrYield = errors.New("ferment: yield coefficient must be positive")
)
