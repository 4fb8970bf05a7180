package selection

import (
	"sync/atomic"
	"time"
)

// Manager tracks which rows of a server-paginated, filtered dataset are
// selected for a bulk action. It is not safe for concurrent use; callers
// serialize access per view.
type Manager struct {
	state        State
	scopeKey     string
	scopeVersion uint64

	window  PageWindow
	visible map[ItemID]struct{}

	pageToken        uint64
	pageScopeVersion uint64
}

// lastVersionSeed is the most recent seed handed out by newVersionSeed.
var lastVersionSeed atomic.Uint64

// newVersionSeed returns a strictly increasing clock-based starting version.
// A view recreated after a reset or expiry must never reissue a version a
// client may still hold.
func newVersionSeed() uint64 {
	now := uint64(time.Now().UnixMicro())
	for {
		last := lastVersionSeed.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if lastVersionSeed.CompareAndSwap(last, next) {
			return next
		}
	}
}

// observeVersion keeps later seeds above v, an issued version or one read
// from a snapshot written by another instance.
func observeVersion(v uint64) {
	for {
		last := lastVersionSeed.Load()
		if v <= last || lastVersionSeed.CompareAndSwap(last, v) {
			return
		}
	}
}

func NewManager() *Manager {
	return &Manager{
		state:        emptyState(),
		scopeVersion: newVersionSeed(),
		visible:      map[ItemID]struct{}{},
	}
}

func (m *Manager) State() State {
	return m.state.clone()
}

func (m *Manager) ScopeVersion() uint64 {
	return m.scopeVersion
}

func (m *Manager) ScopeKey() string {
	return m.scopeKey
}

func (m *Manager) Window() PageWindow {
	return m.window
}

// ToggleRow flips the membership of id. version must be the scope version
// the caller observed when it rendered the row.
func (m *Manager) ToggleRow(version uint64, id ItemID) error {
	if version != m.scopeVersion {
		return ErrStaleScope
	}
	if _, ok := m.visible[id]; !ok {
		return ErrRowNotVisible
	}

	switch m.state.Mode {
	case ModeNone:
		m.state = State{Mode: ModeInclusion, IDs: map[ItemID]struct{}{id: {}}}

	case ModeInclusion:
		flip(m.state.IDs, id)
		if len(m.state.IDs) == 0 {
			m.state = emptyState()
		}

	case ModeExclusion:
		flip(m.state.IDs, id)
		if len(m.state.IDs) >= m.window.TotalMatching {
			m.state = emptyState()
		}
	}
	return nil
}

// ToggleAll drives the header checkbox. Selecting everything only switches
// representation; it never needs the full list of matching ids.
func (m *Manager) ToggleAll(version uint64) error {
	if version != m.scopeVersion {
		return ErrStaleScope
	}
	if m.window.TotalMatching == 0 {
		return nil
	}

	if m.Header() == HeaderChecked {
		m.state = emptyState()
		return nil
	}
	m.state = State{Mode: ModeExclusion, IDs: map[ItemID]struct{}{}}
	return nil
}

// OnFilterScopeChange discards the selection and the loaded page, and
// returns the new scope version.
func (m *Manager) OnFilterScopeChange(scope FilterScope) uint64 {
	m.state = emptyState()
	m.window = PageWindow{}
	m.visible = map[ItemID]struct{}{}
	m.scopeKey = scope.Key()
	m.scopeVersion++
	observeVersion(m.scopeVersion)
	return m.scopeVersion
}

// ApplyFilterScope resets only when scope differs from the current one.
func (m *Manager) ApplyFilterScope(scope FilterScope) (uint64, bool) {
	if scope.Key() == m.scopeKey {
		return m.scopeVersion, false
	}
	return m.OnFilterScopeChange(scope), true
}

// Reset clears the selection after a completed bulk action. The scope and
// loaded page stay as they are.
func (m *Manager) Reset() {
	m.state = emptyState()
}

// BeginPageRequest issues a token for a page fetch. Only the response to the
// latest request, within the same scope, is applied.
func (m *Manager) BeginPageRequest() uint64 {
	m.pageToken++
	m.pageScopeVersion = m.scopeVersion
	return m.pageToken
}

func (m *Manager) ApplyPageWindow(token uint64, window PageWindow) bool {
	if token != m.pageToken || m.pageScopeVersion != m.scopeVersion {
		return false
	}

	m.window = PageWindow{
		Rows:          append([]ItemID(nil), window.Rows...),
		TotalMatching: window.TotalMatching,
	}
	m.visible = make(map[ItemID]struct{}, len(window.Rows))
	for _, id := range window.Rows {
		m.visible[id] = struct{}{}
	}

	if m.state.Mode == ModeExclusion && len(m.state.IDs) >= m.window.TotalMatching {
		m.state = emptyState()
	}
	return true
}

func (m *Manager) Header() HeaderState {
	n := len(m.state.IDs)
	total := m.window.TotalMatching

	switch m.state.Mode {
	case ModeExclusion:
		if n == 0 {
			return HeaderChecked
		}
		if n < total {
			return HeaderIndeterminate
		}
	case ModeInclusion:
		if total > 0 && n >= total {
			return HeaderChecked
		}
		if n > 0 {
			return HeaderIndeterminate
		}
	}
	return HeaderUnchecked
}

// EffectiveCount is the number of items the bulk action would touch.
func (m *Manager) EffectiveCount() int {
	switch m.state.Mode {
	case ModeInclusion:
		return len(m.state.IDs)
	case ModeExclusion:
		if n := m.window.TotalMatching - len(m.state.IDs); n > 0 {
			return n
		}
	}
	return 0
}

func (m *Manager) IsSelected(id ItemID) bool {
	switch m.state.Mode {
	case ModeInclusion:
		return m.state.Contains(id)
	case ModeExclusion:
		return !m.state.Contains(id)
	}
	return false
}

// SelectedOnPage lists the loaded rows that are currently selected, in page order.
func (m *Manager) SelectedOnPage() []ItemID {
	out := make([]ItemID, 0, len(m.window.Rows))
	for _, id := range m.window.Rows {
		if m.IsSelected(id) {
			out = append(out, id)
		}
	}
	return out
}

// Resolve returns the state to hand to a bulk action. When every matching
// row is already loaded an exclusion collapses into a plain inclusion list.
func (m *Manager) Resolve() State {
	if m.state.Mode != ModeExclusion || m.window.TotalMatching == 0 || len(m.window.Rows) < m.window.TotalMatching {
		return m.state.clone()
	}

	ids := make(map[ItemID]struct{}, len(m.window.Rows))
	for _, id := range m.window.Rows {
		if !m.state.Contains(id) {
			ids[id] = struct{}{}
		}
	}
	if len(ids) == 0 {
		return emptyState()
	}
	return State{Mode: ModeInclusion, IDs: ids}
}

func flip(ids map[ItemID]struct{}, id ItemID) {
	if _, ok := ids[id]; ok {
		delete(ids, id)
		return
	}
	ids[id] = struct{}{}
}
