package selection

import "sort"

type ItemID = string

type Mode string

const (
	ModeNone      Mode = "none"
	ModeInclusion Mode = "inclusion"
	ModeExclusion Mode = "exclusion"
)

// State is the selection description. In inclusion mode IDs are the targeted
// items; in exclusion mode every item matching the filter scope is targeted
// except IDs.
type State struct {
	Mode Mode
	IDs  map[ItemID]struct{}
}

func emptyState() State {
	return State{Mode: ModeNone, IDs: map[ItemID]struct{}{}}
}

func (s State) Len() int {
	return len(s.IDs)
}

func (s State) Contains(id ItemID) bool {
	_, ok := s.IDs[id]
	return ok
}

// SortedIDs returns IDs in a stable order for requests and persistence.
func (s State) SortedIDs() []ItemID {
	ids := make([]ItemID, 0, len(s.IDs))
	for id := range s.IDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s State) clone() State {
	ids := make(map[ItemID]struct{}, len(s.IDs))
	for id := range s.IDs {
		ids[id] = struct{}{}
	}
	return State{Mode: s.Mode, IDs: ids}
}

type HeaderState string

const (
	HeaderUnchecked     HeaderState = "unchecked"
	HeaderIndeterminate HeaderState = "indeterminate"
	HeaderChecked       HeaderState = "checked"
)

func (h HeaderState) Checked() bool       { return h == HeaderChecked }
func (h HeaderState) Indeterminate() bool { return h == HeaderIndeterminate }

// PageWindow is the currently materialized page plus the server-reported
// number of items matching the filter scope.
type PageWindow struct {
	Rows          []ItemID `json:"rows"`
	TotalMatching int      `json:"totalMatching"`
}

// FilterScope is the active set of filter, search and sort parameters. The
// manager only compares keys; any change invalidates the selection.
type FilterScope interface {
	Key() string
}
