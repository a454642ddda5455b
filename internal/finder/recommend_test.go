package finder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/youth-hub/internal/models"
)

func TestLocal(t *testing.T) {
	e := fixedEngine(time.Date(2024, 12, 8, 0, 0, 0, 0, time.UTC))
	records := []models.Opportunity{
		rec(1, "Kenya", "2024-11-01", "2025-01-01"),
		rec(2, "Kenya", "2024-12-01", "2024-01-01"),
		rec(3, "Ghana", "2024-12-07", "2025-01-01"),
		rec(4, "Kenya", "2024-11-15", "Open Enrollment"),
		rec(5, "Kenya", "2024-12-05", "2025-01-01"),
	}

	got := e.Local(records, "Kenya")
	require.Len(t, got, LocalLimit)
	assert.Equal(t, []int64{5, 2, 4}, ids(got))
	for _, o := range got {
		assert.Equal(t, "Kenya", o.Country)
	}

	assert.Nil(t, e.Local(records, models.All))
	assert.Nil(t, e.Local(records, ""))
	assert.Nil(t, e.Local(records, "Region: East Africa"))
	assert.Empty(t, e.Local(records, "Chad"))
}

func TestLatestJobs(t *testing.T) {
	e := fixedEngine(time.Date(2024, 12, 8, 0, 0, 0, 0, time.UTC))
	var records []models.Opportunity
	for i, posted := range []string{"2024-11-01", "2024-12-01", "2024-11-20", "2024-12-03", "2024-12-04"} {
		r := rec(int64(i+1), "Ghana", posted, "2025-01-01")
		if i != 4 {
			r.Category = models.CategoryJobs
		}
		records = append(records, r)
	}

	assert.Equal(t, []int64{4, 2, 3}, ids(e.LatestJobs(records, 3)))
}

func TestMerge(t *testing.T) {
	records := []models.Opportunity{
		rec(1, "Ghana", "2024-12-01", "2025-01-01"),
		rec(2, "Kenya", "2024-12-02", "2025-01-01"),
	}
	baseline := []models.Opportunity{records[1], records[0]}

	t.Run("dangling ids dropped, order kept", func(t *testing.T) {
		recs := []models.AIRecommendation{
			{ID: 2, Rationale: "fits your bio"},
			{ID: 999, Rationale: "ghost"},
			{ID: 1, Rationale: "also good"},
		}
		v := Merge(recs, baseline, records, models.SortLatestPostings)

		require.Len(t, v.Recommendations, 2)
		assert.Equal(t, int64(2), v.Recommendations[0].ID)
		assert.Equal(t, "fits your bio", v.Recommendations[0].Rationale)
		assert.Equal(t, int64(1), v.Recommendations[1].ID)
		assert.Equal(t, HeadingAIMatches, v.Heading)
		assert.Equal(t, []int64{2, 1}, ids(v.Opportunities))
	})

	t.Run("no matches shows baseline only", func(t *testing.T) {
		v := Merge([]models.AIRecommendation{{ID: 999}}, baseline, records, models.SortUpcomingDeadline)
		assert.Nil(t, v.Recommendations)
		assert.Equal(t, HeadingByDeadline, v.Heading)
		assert.Len(t, v.Opportunities, 2)
	})

	t.Run("nil baseline renders empty list", func(t *testing.T) {
		v := Merge(nil, nil, records, models.SortLatestPostings)
		assert.Equal(t, HeadingLatest, v.Heading)
		assert.NotNil(t, v.Opportunities)
	})
}

func TestRegionTable(t *testing.T) {
	table := RegionTable{
		"West Africa":    {"Ghana", "Mauritania"},
		"North Africa":   {"Egypt", "Mauritania"},
		"Central Africa": {"Chad"},
	}

	assert.True(t, table.Contains("West Africa", "Mauritania"))
	assert.True(t, table.Contains("North Africa", "Mauritania"))
	assert.False(t, table.Contains("Central Africa", "Ghana"))
	assert.Equal(t, []string{"Region: Central Africa", "Region: North Africa", "Region: West Africa"}, table.Selectors())

	name, ok := RegionName("Region: North Africa")
	assert.True(t, ok)
	assert.Equal(t, "North Africa", name)
	_, ok = RegionName("Ghana")
	assert.False(t, ok)
}
