package selection

// Snapshot is the serializable form of a Manager, used by session stores.
type Snapshot struct {
	Mode             Mode       `json:"mode"`
	IDs              []ItemID   `json:"ids"`
	ScopeKey         string     `json:"scopeKey"`
	ScopeVersion     uint64     `json:"scopeVersion"`
	Window           PageWindow `json:"window"`
	PageToken        uint64     `json:"pageToken"`
	PageScopeVersion uint64     `json:"pageScopeVersion"`
}

func (m *Manager) Snapshot() Snapshot {
	return Snapshot{
		Mode:             m.state.Mode,
		IDs:              m.state.SortedIDs(),
		ScopeKey:         m.scopeKey,
		ScopeVersion:     m.scopeVersion,
		Window:           PageWindow{Rows: append([]ItemID(nil), m.window.Rows...), TotalMatching: m.window.TotalMatching},
		PageToken:        m.pageToken,
		PageScopeVersion: m.pageScopeVersion,
	}
}

// Restore rebuilds a Manager from s. An unknown mode restores as none.
func Restore(s Snapshot) *Manager {
	m := NewManager()
	if s.ScopeVersion > 0 {
		m.scopeVersion = s.ScopeVersion
		observeVersion(s.ScopeVersion)
	}
	m.scopeKey = s.ScopeKey
	m.pageToken = s.PageToken
	m.pageScopeVersion = s.PageScopeVersion

	m.window = PageWindow{Rows: append([]ItemID(nil), s.Window.Rows...), TotalMatching: s.Window.TotalMatching}
	for _, id := range s.Window.Rows {
		m.visible[id] = struct{}{}
	}

	switch s.Mode {
	case ModeInclusion, ModeExclusion:
		ids := make(map[ItemID]struct{}, len(s.IDs))
		for _, id := range s.IDs {
			ids[id] = struct{}{}
		}
		if s.Mode == ModeInclusion && len(ids) == 0 {
			break
		}
		m.state = State{Mode: s.Mode, IDs: ids}
	}
	return m
}
