// Package catalog owns the opportunity records: loading them from storage,
// falling back to the shipped seed, and writing every admin change through.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/david/youth-hub/internal/finder"
	"github.com/david/youth-hub/internal/models"
	"github.com/david/youth-hub/internal/storage"
)

var ErrNotFound = errors.New("opportunity not found")

type Catalog struct {
	mu      sync.RWMutex
	kv      storage.KV
	log     *zap.Logger
	now     func() time.Time
	records []models.Opportunity
}

// Load reads the persisted list. A missing, empty or malformed value falls
// back to the seed dataset, which is then written back.
func Load(ctx context.Context, kv storage.KV, log *zap.Logger, now func() time.Time) (*Catalog, error) {
	if now == nil {
		now = time.Now
	}
	c := &Catalog{kv: kv, log: log, now: now}

	var records []models.Opportunity
	err := storage.GetJSON(ctx, kv, storage.KeyOpportunities, &records)
	var decodeErr *storage.DecodeError
	switch {
	case err == nil && len(records) > 0:
		c.records = records
		log.Info("catalog loaded", zap.Int("records", len(records)))
		return c, nil
	case err == nil, errors.Is(err, storage.ErrNotFound):
		log.Info("no stored catalog, using seed")
	case errors.As(err, &decodeErr):
		log.Warn("stored catalog unreadable, using seed", zap.Error(err))
	default:
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if err := c.Reset(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// All returns a copy of every record in store order.
func (c *Catalog) All() []models.Opportunity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.records)
}

func (c *Catalog) Get(id int64) (models.Opportunity, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.index(id); i >= 0 {
		return c.records[i], nil
	}
	return models.Opportunity{}, ErrNotFound
}

// Create validates d, stamps it with a fresh id and today's posting date and
// prepends it.
func (c *Catalog) Create(ctx context.Context, d Draft) (models.Opportunity, error) {
	fields, err := d.Validate()
	if err != nil {
		return models.Opportunity{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	id := now.UnixMilli()
	for c.index(id) >= 0 {
		id++
	}
	rec := fields
	rec.ID = id
	rec.PostedDate = finder.FormatDate(now)

	next := append([]models.Opportunity{rec}, c.records...)
	if err := c.persist(ctx, next); err != nil {
		return models.Opportunity{}, err
	}
	c.log.Info("opportunity created", zap.Int64("id", id), zap.String("title", rec.Title))
	return rec, nil
}

// Update replaces the editable fields of id. Id and posting date are kept.
func (c *Catalog) Update(ctx context.Context, id int64, d Draft) (models.Opportunity, error) {
	fields, err := d.Validate()
	if err != nil {
		return models.Opportunity{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return models.Opportunity{}, ErrNotFound
	}
	rec := fields
	rec.ID = id
	rec.PostedDate = c.records[i].PostedDate

	next := slices.Clone(c.records)
	next[i] = rec
	if err := c.persist(ctx, next); err != nil {
		return models.Opportunity{}, err
	}
	c.log.Info("opportunity updated", zap.Int64("id", id))
	return rec, nil
}

func (c *Catalog) Delete(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return ErrNotFound
	}
	next := slices.Delete(slices.Clone(c.records), i, i+1)
	if err := c.persist(ctx, next); err != nil {
		return err
	}
	c.log.Info("opportunity deleted", zap.Int64("id", id))
	return nil
}

// Reset replaces the catalog with the seed dataset.
func (c *Catalog) Reset(ctx context.Context) error {
	seed, err := Seed(c.now())
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persist(ctx, seed)
}

// persist writes next through to storage and only then swaps it in, so a
// failed write leaves the catalog unchanged. Caller holds mu.
func (c *Catalog) persist(ctx context.Context, next []models.Opportunity) error {
	if err := storage.SetJSON(ctx, c.kv, storage.KeyOpportunities, next); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	c.records = next
	return nil
}

func (c *Catalog) index(id int64) int {
	for i, r := range c.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
