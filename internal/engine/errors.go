package engine

import "errors"

// Sentinel errors for engine operations.
// Check with errors.Is: errors.Is(err, engine.ErrNotFound)
var (
	// ErrNotFound means the id is absent from the repository.
	ErrNotFound = errors.New("engine: knowledge point not found")
	// ErrInvalidInput means the operation was declined before any state
	// changed, e.g. a blank title or an unknown status.
	ErrInvalidInput = errors.New("engine: invalid input")
	// ErrStorage wraps a failed persistence flush. The in-memory change
	// has already been applied and is not rolled back; durability may
	// lag memory until the next successful flush.
	ErrStorage = errors.New("engine: storage failure")
)
