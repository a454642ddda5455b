package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/david/youth-hub/internal/finder"
	"github.com/david/youth-hub/internal/models"
	"github.com/david/youth-hub/internal/storage"
)

var testNow = time.Date(2024, 12, 8, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func newCatalog(t *testing.T, kv storage.KV) *Catalog {
	t.Helper()
	c, err := Load(context.Background(), kv, zap.NewNop(), fixedNow)
	require.NoError(t, err)
	return c
}

func validDraft() Draft {
	return Draft{
		Title:          "Youth Climate Fellowship",
		Organization:   "AU Green Office",
		Category:       "Fellowships",
		Description:    "Six months of climate policy work.",
		Deadline:       "2025-05-01",
		Country:        "Senegal",
		EducationLevel: "Bachelors",
		Link:           "https://example.org/apply",
	}
}

func TestSeed(t *testing.T) {
	recs, err := Seed(testNow)
	require.NoError(t, err)
	require.Len(t, recs, 17)

	byID := map[int64]models.Opportunity{}
	for _, r := range recs {
		byID[r.ID] = r
	}
	assert.Equal(t, "2024-12-06", byID[15].PostedDate)
	assert.Equal(t, "2024-12-08", byID[16].PostedDate)
	assert.Equal(t, "2024-12-07", byID[17].PostedDate)
	assert.True(t, byID[6].IsOpenEnrollment())
	require.NotNil(t, byID[17].Details)
	assert.Len(t, byID[17].Details.RequiredSkills.Personal, 6)
	assert.Nil(t, byID[1].Details)
}

func TestSeed_GhanaScenario(t *testing.T) {
	recs, err := Seed(testNow)
	require.NoError(t, err)
	geo, err := LoadGeography()
	require.NoError(t, err)

	// Deadlines of the seed lie in 2025; evaluate the window from before them.
	e := &finder.Engine{Regions: geo.Regions, Now: func() time.Time { return time.Date(2024, 12, 8, 0, 0, 0, 0, time.UTC) }}
	c := models.Criteria{
		Country:      "Ghana",
		Category:     models.All,
		Education:    models.All,
		Deadline:     models.AllUpcoming,
		PostedWithin: models.AllTime,
		SortBy:       models.SortLatestPostings,
	}

	got := e.Apply(recs, c)
	var ids []int64
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{14, 9, 2}, ids)
}

func TestGeography_Options(t *testing.T) {
	geo, err := LoadGeography()
	require.NoError(t, err)

	opts := geo.Options()
	require.GreaterOrEqual(t, len(opts.Countries), 7)
	assert.Equal(t, []string{
		"All",
		"International",
		"Region: Central Africa",
		"Region: East Africa",
		"Region: North Africa",
		"Region: Southern Africa",
		"Region: West Africa",
		"Algeria",
	}, opts.Countries[:8])
	assert.Equal(t, "All", opts.Categories[0])
	assert.Len(t, opts.Categories, 8)
	assert.Equal(t, []string{"All", "Any", "High School", "Bachelors", "Masters"}, opts.EducationLevels)

	assert.True(t, geo.Regions.Contains("West Africa", "Ghana"))
	assert.True(t, geo.IsCountry("Ghana"))
	assert.True(t, geo.IsCountry("International"))
	assert.False(t, geo.IsCountry("Region: West Africa"))
}

func TestLoad_FallsBackToSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		kv := storage.NewMemory()
		c := newCatalog(t, kv)
		assert.Len(t, c.All(), 17)

		raw, err := kv.Get(ctx, storage.KeyOpportunities)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"postedDate":"2024-11-16"`)
	})

	t.Run("malformed", func(t *testing.T) {
		kv := storage.NewMemory()
		require.NoError(t, kv.Set(ctx, storage.KeyOpportunities, []byte(`{"id":`)))
		assert.Len(t, newCatalog(t, kv).All(), 17)
	})

	t.Run("empty list", func(t *testing.T) {
		kv := storage.NewMemory()
		require.NoError(t, kv.Set(ctx, storage.KeyOpportunities, []byte(`[]`)))
		assert.Len(t, newCatalog(t, kv).All(), 17)
	})

	t.Run("stored list wins", func(t *testing.T) {
		kv := storage.NewMemory()
		require.NoError(t, kv.Set(ctx, storage.KeyOpportunities, []byte(`[{"id":7,"title":"Only one","postedDate":"2024-01-01"}]`)))
		all := newCatalog(t, kv).All()
		require.Len(t, all, 1)
		assert.Equal(t, "Only one", all[0].Title)
	})
}

func TestCreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	c := newCatalog(t, kv)

	created, err := c.Create(ctx, validDraft())
	require.NoError(t, err)
	assert.Equal(t, testNow.UnixMilli(), created.ID)
	assert.Equal(t, "2024-12-08", created.PostedDate)
	assert.Equal(t, created.ID, c.All()[0].ID, "new records are prepended")

	// same clock tick still yields a unique id
	second, err := c.Create(ctx, validDraft())
	require.NoError(t, err)
	assert.Equal(t, created.ID+1, second.ID)

	d := validDraft()
	d.Title = "Renamed Fellowship"
	d.Deadline = "open enrollment"
	updated, err := c.Update(ctx, created.ID, d)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.PostedDate, updated.PostedDate)
	assert.Equal(t, models.OpenEnrollment, updated.Deadline)

	got, err := c.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Fellowship", got.Title)

	// the write went through to storage
	reloaded := newCatalog(t, kv)
	got, err = reloaded.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Fellowship", got.Title)

	require.NoError(t, c.Delete(ctx, created.ID))
	_, err = c.Get(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, c.Delete(ctx, created.ID), ErrNotFound)

	_, err = c.Update(ctx, 424242, validDraft())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_InvalidDraftHasNoEffect(t *testing.T) {
	c := newCatalog(t, storage.NewMemory())
	before := len(c.All())

	d := validDraft()
	d.Title = ""
	_, err := c.Create(context.Background(), d)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "title")
	assert.Len(t, c.All(), before)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t, storage.NewMemory())
	require.NoError(t, c.Delete(ctx, 1))
	require.Len(t, c.All(), 16)

	require.NoError(t, c.Reset(ctx))
	assert.Len(t, c.All(), 17)
}

type failingKV struct{ storage.KV }

func (failingKV) Set(context.Context, string, []byte) error { return errors.New("disk full") }

func TestDelete_StorageFailureKeepsRecord(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	c := newCatalog(t, kv)
	c.kv = failingKV{kv}

	assert.Error(t, c.Delete(ctx, 1))
	_, err := c.Get(1)
	assert.NoError(t, err)
}
