package bulk

import (
	"errors"
	"fmt"

	"datahub-portal-be/pkg/selection"
)

var (
	ErrNothingSelected = errors.New("nothing is selected")
	ErrBackendFailure  = errors.New("bulk action failed")
)

// SelectionTooLargeError is returned before any backend call when the id
// list that would be sent is over the limit. The selection is left as is so
// the user can narrow it.
type SelectionTooLargeError struct {
	Mode  selection.Mode
	Size  int
	Limit int
}

func (e *SelectionTooLargeError) Error() string {
	return fmt.Sprintf("selection of %d ids exceeds the limit of %d: narrow your filter or reduce the selection", e.Size, e.Limit)
}
