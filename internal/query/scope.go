package query

import (
	"strings"
	"time"
)

// SortKey identifies the primary sort column for entry listings.
type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByDuration SortKey = "duration"
	SortByProject  SortKey = "project"
)

// SortDir identifies the sort direction.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Pagination defaults applied when the caller passes absent or non-numeric values.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Filters are the raw listing parameters supplied by a caller before
// authorization has been applied.
type Filters struct {
	// AllUsers requests an unrestricted user scope ("all").
	AllUsers bool
	// Users requests an explicit set of user ids. Ignored when AllUsers is set.
	Users []string
	// Search is a case-insensitive substring matched against entry
	// description, project name, and client name.
	Search string
	// Projects restricts results to the named projects. Empty means all.
	Projects []string
	// DateFrom and DateTo bound entries by the calendar date of their start
	// time, inclusive on both ends.
	DateFrom  *time.Time
	DateTo    *time.Time
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Scope is the resolved, authorized query scope consumed by the persistence
// layer and the report aggregator. It never leaks authorization internals
// past this boundary.
type Scope struct {
	AllUsers  bool
	UserIDs   []string
	Search    string
	Projects  []string
	DateFrom  *time.Time
	DateTo    *time.Time
	SortBy    SortKey
	SortOrder SortDir
	Page      int
	Limit     int
	Offset    int
}

// ParseUserFilter converts a raw comma-separated user filter into Filters
// fields: "all" requests the unrestricted scope, an empty string requests the
// default principal-only scope.
func ParseUserFilter(raw string) (allUsers bool, users []string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	if strings.EqualFold(raw, "all") {
		return true, nil
	}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			users = append(users, id)
		}
	}
	return false, users
}

// parseSortKey normalizes the requested sort column, defaulting to date.
func parseSortKey(raw string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(raw))) {
	case SortByDuration:
		return SortByDuration
	case SortByProject:
		return SortByProject
	default:
		return SortByDate
	}
}

// parseSortDir normalizes the requested sort direction, defaulting to descending.
func parseSortDir(raw string) SortDir {
	if SortDir(strings.ToLower(strings.TrimSpace(raw))) == SortAsc {
		return SortAsc
	}
	return SortDesc
}
