package pagination

import (
	"regexp"
	"strings"
)

const pathSeparator = "."

var segmentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SortField is one validated sort key. Path holds the dot-separated segments,
// so "organization.name" sorts by the nested name field of organization.
type SortField struct {
	Path      []string
	Direction Direction
}

// Name returns the dotted form of the path.
func (f SortField) Name() string {
	return strings.Join(f.Path, pathSeparator)
}

// ParseSortField splits raw on the path separator and validates every segment.
func ParseSortField(raw string, dir Direction) (SortField, error) {
	field := strings.TrimSpace(raw)
	if field == "" {
		return SortField{}, &InvalidSortFieldError{Field: raw, Reason: "empty field"}
	}

	segments := strings.Split(field, pathSeparator)
	for i, seg := range segments {
		switch {
		case seg == "" && i == 0:
			return SortField{}, &InvalidSortFieldError{Field: field, Reason: "leading separator"}
		case seg == "" && i == len(segments)-1:
			return SortField{}, &InvalidSortFieldError{Field: field, Reason: "trailing separator"}
		case seg == "":
			return SortField{}, &InvalidSortFieldError{Field: field, Reason: "consecutive separators"}
		case !segmentPattern.MatchString(seg):
			return SortField{}, &InvalidSortFieldError{Field: field, Reason: "segment " + seg + " is not an identifier"}
		}
	}

	return SortField{Path: segments, Direction: dir}, nil
}
