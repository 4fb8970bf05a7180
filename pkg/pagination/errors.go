package pagination

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPageSize      = errors.New("invalid page size")
	ErrInvalidOffset        = errors.New("invalid offset")
	ErrInvalidSortDirection = errors.New("invalid sort direction")
)

// InvalidSortFieldError reports a sort path that cannot be rendered into a
// store query. Callers fall back to the last valid sort.
type InvalidSortFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidSortFieldError) Error() string {
	return fmt.Sprintf("invalid sort field %q: %s", e.Field, e.Reason)
}
