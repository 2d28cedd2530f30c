package listing

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// AllValue is the select option that means "no constraint".
const AllValue = "all"

// Facet is one named filter dimension. Values lists the closed enum when
// there is one; an empty Values means free text.
type Facet struct {
	Key    string
	Label  string
	Values []string
}

// QueryState is what the user has asked for: search, filters and page.
type QueryState struct {
	SearchTerm   string
	Filters      map[string]string
	Page         int
	ItemsPerPage int
	// Interacted is set once the user touches search or a filter.
	Interacted bool
}

func (s QueryState) clone() QueryState {
	s.Filters = copyFilters(s.Filters)
	return s
}

// Query is the parameter set for one list or stats request.
type Query struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string
}

// IsActiveValue reports whether a facet value constrains the query.
func IsActiveValue(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != AllValue
}

// StatsValues carries search and active facets, without page or limit.
func (q Query) StatsValues() url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	for key, val := range q.Filters {
		if IsActiveValue(val) {
			v.Set(key, strings.TrimSpace(val))
		}
	}
	return v
}

// Values is the full list request parameter set.
func (q Query) Values() url.Values {
	v := q.StatsValues()
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// ActiveFilters returns the active facets in key order, for display.
func (q Query) ActiveFilters() []string {
	keys := make([]string, 0, len(q.Filters))
	for k, v := range q.Filters {
		if IsActiveValue(v) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func copyFilters(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
