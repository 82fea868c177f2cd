package dynamo

import "errors"

// Domain errors for entity construction and validation.
var (
	// ErrZeroMass indicates a dynamic body with zero or negative mass.
	ErrZeroMass = errors.New("dynamo: body mass must be positive")

	// ErrDegenerateNormal indicates a plane collider whose normal is not unit length.
	ErrDegenerateNormal = errors.New("dynamo: plane normal must be unit length")

	// ErrInvalidScale indicates a box with a non-positive scale or half extent.
	ErrInvalidScale = errors.New("dynamo: box scale and half extents must be positive")

	// ErrInvalidRadius indicates a sphere collider with a non-positive radius.
	ErrInvalidRadius = errors.New("dynamo: sphere radius must be positive")

	// ErrWrongShape indicates a body carrying the collider of another kind.
	ErrWrongShape = errors.New("dynamo: collider shape does not match body kind")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidSnapshot indicates a persisted snapshot that is structurally wrong.
	ErrInvalidSnapshot = errors.New("dynamo: invalid snapshot")
)

// ValidationError wraps a sentinel with the entity that failed.
type ValidationError struct {
	Entity  string
	Field   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return e.Entity + "." + e.Field + ": " + e.Wrapped.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}
