package pagination

import "strings"

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts asc/desc in any case. An empty string yields fallback.
func ParseDirection(raw string, fallback Direction) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return fallback, nil
	case string(Asc), "ascending":
		return Asc, nil
	case string(Desc), "descending":
		return Desc, nil
	default:
		return "", ErrInvalidSortDirection
	}
}

// Unbounded is the page size that asks for every matching row.
const Unbounded = -1

type Config struct {
	DefaultPageSize  int
	MaxPageSize      int
	DefaultDirection Direction
	DefaultSortField string
}

func DefaultConfig() Config {
	return Config{
		DefaultPageSize:  20,
		MaxPageSize:      1000,
		DefaultDirection: Desc,
		DefaultSortField: "",
	}
}

// Request is the logical paging request as it arrives from a client.
type Request struct {
	PageSize      int
	Offset        int
	SortFields    []string
	SortDirection string
}

// Query is the validated, store-independent form of a Request.
type Query struct {
	Limit     int
	Skip      int
	Unbounded bool
	Sort      []SortField
}

type Builder struct {
	cfg Config
}

func NewBuilder(cfg Config) *Builder {
	if cfg.DefaultDirection == "" {
		cfg.DefaultDirection = Desc
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = DefaultConfig().DefaultPageSize
	}
	return &Builder{cfg: cfg}
}

func (b *Builder) Config() Config {
	return b.cfg
}

// Build validates req. Every sort field shares the request direction.
func (b *Builder) Build(req Request) (Query, error) {
	q := Query{Skip: req.Offset}
	if req.Offset < 0 {
		return Query{}, ErrInvalidOffset
	}

	switch {
	case req.PageSize == Unbounded:
		q.Unbounded = true
	case req.PageSize == 0:
		q.Limit = b.cfg.DefaultPageSize
	case req.PageSize < 0:
		return Query{}, ErrInvalidPageSize
	case b.cfg.MaxPageSize > 0 && req.PageSize > b.cfg.MaxPageSize:
		q.Limit = b.cfg.MaxPageSize
	default:
		q.Limit = req.PageSize
	}

	dir, err := ParseDirection(req.SortDirection, b.cfg.DefaultDirection)
	if err != nil {
		return Query{}, err
	}

	fields := splitFields(req.SortFields)
	if len(fields) == 0 && b.cfg.DefaultSortField != "" {
		fields = []string{b.cfg.DefaultSortField}
	}

	for _, raw := range fields {
		f, err := ParseSortField(raw, dir)
		if err != nil {
			return Query{}, err
		}
		q.Sort = append(q.Sort, f)
	}

	return q, nil
}

// WithSort returns a copy of q sorted by fields instead.
func (q Query) WithSort(fields []SortField) Query {
	q.Sort = append([]SortField(nil), fields...)
	return q
}

func splitFields(raw []string) []string {
	joined := strings.TrimSpace(strings.Join(raw, ","))
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}
