package pagination

import (
	"strings"

	"gorm.io/gorm/clause"
)

// SQLColumns maps sort paths onto a relational schema.
//
// A single segment is a column of Table. A path whose root is listed in JSON
// walks into that jsonb column. Any other nested path is rendered as a
// qualified "relation"."column" reference, so the query must join it.
type SQLColumns struct {
	Table   string
	JSON    map[string]bool
	Aliases map[string]string
}

func (c SQLColumns) Expression(path []string) string {
	segments := make([]string, len(path))
	copy(segments, path)
	if alias, ok := c.Aliases[segments[0]]; ok {
		segments[0] = alias
	}

	if len(segments) == 1 {
		return c.qualify(segments[0])
	}

	if c.JSON[segments[0]] {
		var b strings.Builder
		b.WriteString(c.qualify(segments[0]))
		for i, seg := range segments[1:] {
			if i == len(segments)-2 {
				b.WriteString("->>'" + seg + "'")
			} else {
				b.WriteString("->'" + seg + "'")
			}
		}
		return b.String()
	}

	quoted := make([]string, len(segments))
	for i, seg := range segments {
		quoted[i] = quote(seg)
	}
	return strings.Join(quoted, ".")
}

func (c SQLColumns) qualify(column string) string {
	if c.Table == "" {
		return quote(column)
	}
	return quote(c.Table) + "." + quote(column)
}

// SQLOrder renders the sort keys as GORM order columns. Segments were
// validated as identifiers when the query was built.
func (q Query) SQLOrder(cols SQLColumns) []clause.OrderByColumn {
	order := make([]clause.OrderByColumn, 0, len(q.Sort))
	for _, f := range q.Sort {
		order = append(order, clause.OrderByColumn{
			Column: clause.Column{Name: cols.Expression(f.Path), Raw: true},
			Desc:   f.Direction == Desc,
		})
	}
	return order
}

func quote(identifier string) string {
	return `"` + identifier + `"`
}
