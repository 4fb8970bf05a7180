package selection

import "errors"

var (
	// ErrStaleScope is returned for a toggle issued against a filter scope
	// that has since been replaced. Callers drop it silently.
	ErrStaleScope = errors.New("selection scope is stale")

	ErrRowNotVisible = errors.New("row is not in the loaded page")
)
