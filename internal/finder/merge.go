package finder

import (
	"github.com/david/youth-hub/internal/models"
)

// Match is a record resolved from an external recommendation.
type Match struct {
	models.Opportunity
	Rationale string `json:"rationale"`
}

// Translation keys for the list headings.
const (
	HeadingAIMatches  = "yourTopAiMatches"
	HeadingByDeadline = "opportunitiesByDeadline"
	HeadingLatest     = "latestOpportunities"
)

// View is what a listing page renders: AI matches, when any, above the
// baseline list.
type View struct {
	Heading         string               `json:"heading"`
	BaselineHeading string               `json:"baselineHeading"`
	Recommendations []Match              `json:"recommendations,omitempty"`
	Opportunities   []models.Opportunity `json:"opportunities"`
}

// Resolve looks up each recommended id in records, keeping the external
// order. Ids with no record are dropped.
func Resolve(recs []models.AIRecommendation, records []models.Opportunity) []Match {
	byID := make(map[int64]models.Opportunity, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	out := make([]Match, 0, len(recs))
	for _, r := range recs {
		rec, ok := byID[r.ID]
		if !ok {
			continue
		}
		out = append(out, Match{Opportunity: rec, Rationale: r.Rationale})
	}
	return out
}

// Merge builds the display view. The baseline is always carried in full.
func Merge(recs []models.AIRecommendation, baseline, records []models.Opportunity, sortMode string) View {
	v := View{
		BaselineHeading: HeadingLatest,
		Opportunities:   baseline,
	}
	if sortMode == models.SortUpcomingDeadline {
		v.BaselineHeading = HeadingByDeadline
	}
	if v.Opportunities == nil {
		v.Opportunities = []models.Opportunity{}
	}

	v.Recommendations = Resolve(recs, records)
	if len(v.Recommendations) == 0 {
		v.Recommendations = nil
		v.Heading = v.BaselineHeading
		return v
	}
	v.Heading = HeadingAIMatches
	return v
}
