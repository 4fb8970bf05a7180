package pagination

// RestrictTo fails with InvalidSortFieldError when a sort key starts at a
// root the store does not expose.
func (q Query) RestrictTo(roots map[string]bool) error {
	for _, f := range q.Sort {
		if !roots[f.Path[0]] {
			return &InvalidSortFieldError{Field: f.Name(), Reason: "unknown field " + f.Path[0]}
		}
	}
	return nil
}

// RenameRoots returns a copy of q whose sort roots are replaced through
// names. Roots without an entry are kept.
func (q Query) RenameRoots(names map[string]string) Query {
	sort := make([]SortField, len(q.Sort))
	for i, f := range q.Sort {
		path := append([]string(nil), f.Path...)
		if renamed, ok := names[path[0]]; ok {
			path[0] = renamed
		}
		sort[i] = SortField{Path: path, Direction: f.Direction}
	}
	q.Sort = sort
	return q
}

// RestrictToFlat is RestrictTo for stores without nested fields: every sort
// key must be a single listed segment.
func (q Query) RestrictToFlat(columns map[string]bool) error {
	for _, f := range q.Sort {
		if len(f.Path) > 1 {
			return &InvalidSortFieldError{Field: f.Name(), Reason: "nested fields are not sortable here"}
		}
	}
	return q.RestrictTo(columns)
}

// RestrictNesting fails with InvalidSortFieldError when a nested sort key
// starts at a root outside nested. Such a key would otherwise be read as a
// reference into another relation.
func (q Query) RestrictNesting(nested map[string]bool) error {
	for _, f := range q.Sort {
		if len(f.Path) > 1 && !nested[f.Path[0]] {
			return &InvalidSortFieldError{Field: f.Name(), Reason: f.Path[0] + " has no nested fields"}
		}
	}
	return nil
}
