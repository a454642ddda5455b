package finder

import (
	"slices"
	"strings"

	"github.com/david/youth-hub/internal/models"
)

// LocalLimit caps the locality recommendations.
const LocalLimit = 3

// Local returns the most recently posted records of one concrete country,
// independent of any other criteria. Region and "All" selectors yield nil.
func (e *Engine) Local(records []models.Opportunity, country string) []models.Opportunity {
	if country == "" || country == models.All || strings.HasPrefix(country, strings.TrimSpace(models.RegionPrefix)) {
		return nil
	}
	sorted := slices.Clone(records)
	SortByPosted(sorted, e.now().Location())

	var out []models.Opportunity
	for _, rec := range sorted {
		if rec.Country != country {
			continue
		}
		out = append(out, rec)
		if len(out) == LocalLimit {
			break
		}
	}
	return out
}

// LatestJobs returns up to n Jobs records, newest first.
func (e *Engine) LatestJobs(records []models.Opportunity, n int) []models.Opportunity {
	sorted := slices.Clone(records)
	SortByPosted(sorted, e.now().Location())

	out := make([]models.Opportunity, 0, n)
	for _, rec := range sorted {
		if len(out) == n {
			break
		}
		if rec.Category == models.CategoryJobs {
			out = append(out, rec)
		}
	}
	return out
}
