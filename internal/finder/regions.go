package finder

import (
	"sort"
	"strings"

	"github.com/david/youth-hub/internal/models"
)

// RegionTable maps a region name to its member countries. A country may be
// listed under more than one region; the table is used as given.
type RegionTable map[string][]string

func (r RegionTable) Countries(region string) []string {
	return r[region]
}

func (r RegionTable) Contains(region, country string) bool {
	for _, c := range r[region] {
		if c == country {
			return true
		}
	}
	return false
}

// Names returns the region names in lexical order.
func (r RegionTable) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Selectors returns the "Region: X" selector values in lexical order.
func (r RegionTable) Selectors() []string {
	names := r.Names()
	for i, name := range names {
		names[i] = models.RegionPrefix + name
	}
	return names
}

// RegionName extracts X from a "Region: X" selector.
func RegionName(selector string) (string, bool) {
	if !strings.HasPrefix(selector, models.RegionPrefix) {
		return "", false
	}
	return strings.TrimPrefix(selector, models.RegionPrefix), true
}
