package pagination

// Tree renders each sort key as a nested document, one entry per key:
// "organization.name" desc becomes {"organization": {"name": "desc"}}.
func (q Query) Tree() []map[string]any {
	out := make([]map[string]any, 0, len(q.Sort))
	for _, f := range q.Sort {
		var node any = string(f.Direction)
		for i := len(f.Path) - 1; i >= 0; i-- {
			node = map[string]any{f.Path[i]: node}
		}
		out = append(out, node.(map[string]any))
	}
	return out
}
