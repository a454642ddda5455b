package finder

import (
	"strings"
	"time"

	"github.com/david/youth-hub/internal/models"
)

// Engine evaluates the listing pipeline. Regions and Now are its only inputs
// beyond the records and criteria passed to each call.
type Engine struct {
	Regions RegionTable
	Now     func() time.Time
}

func New(regions RegionTable) *Engine {
	return &Engine{Regions: regions, Now: time.Now}
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Filter returns the records satisfying every predicate in c.
func (e *Engine) Filter(records []models.Opportunity, c models.Criteria) []models.Opportunity {
	now := e.now()
	today := Midnight(now)
	search := strings.ToLower(c.Search)

	out := make([]models.Opportunity, 0, len(records))
	for _, rec := range records {
		if !matchesSearch(rec, search) ||
			!e.matchesGeography(rec.Country, c.Country) ||
			!matchesSelector(string(rec.Category), c.Category) ||
			!matchesSelector(rec.EducationLevel, c.Education) ||
			!matchesPosted(rec.PostedDate, c.PostedWithin, now) ||
			!matchesDeadline(rec.Deadline, c.Deadline, today) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Apply filters then sorts: the baseline list.
func (e *Engine) Apply(records []models.Opportunity, c models.Criteria) []models.Opportunity {
	return e.Sort(e.Filter(records, c), c.SortBy)
}

func matchesSearch(rec models.Opportunity, lowered string) bool {
	if lowered == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.Title), lowered) ||
		strings.Contains(strings.ToLower(rec.Organization), lowered)
}

func matchesSelector(value, selector string) bool {
	return selector == "" || selector == models.All || selector == value
}

func (e *Engine) matchesGeography(country, selector string) bool {
	if selector == "" || selector == models.All || selector == country {
		return true
	}
	if region, ok := RegionName(selector); ok {
		return e.Regions.Contains(region, country)
	}
	return false
}

// postedCutoff returns the earliest posting instant admitted by window. The
// second result is false when the window does not constrain.
func postedCutoff(window string, now time.Time) (time.Time, bool) {
	switch window {
	case models.PostedLast24Hours:
		return now.Add(-24 * time.Hour), true
	case models.PostedLast7Days:
		return now.AddDate(0, 0, -7), true
	case models.PostedLast30Days:
		return now.AddDate(0, 0, -30), true
	case models.PostedLast3Months:
		return now.AddDate(0, -3, 0), true
	default:
		return time.Time{}, false
	}
}

func matchesPosted(posted, window string, now time.Time) bool {
	cutoff, ok := postedCutoff(window, now)
	if !ok {
		return true
	}
	t, ok := ParseDate(posted, now.Location())
	if !ok {
		return false
	}
	return !t.Before(cutoff)
}

func matchesDeadline(deadline, window string, today time.Time) bool {
	if models.IsOpenEnrollment(deadline) {
		return window == models.AllUpcoming
	}
	due, ok := ParseDate(deadline, today.Location())
	if !ok || due.Before(today) {
		return false
	}

	switch window {
	case models.DeadlineNext7Days:
		return !due.After(today.AddDate(0, 0, 7))
	case models.DeadlineNext30Days:
		return !due.After(today.AddDate(0, 0, 30))
	case models.DeadlineNext3Months:
		return !due.After(today.AddDate(0, 3, 0))
	case models.DeadlineOver3Months:
		return due.After(today.AddDate(0, 3, 0))
	default:
		return true
	}
}
