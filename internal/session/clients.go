package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/david/youth-hub/internal/storage"
)

// Track records that clientID's flags outlive their usefulness at expires,
// when its token stops verifying. Clients already past their expiry are
// dropped on the way.
func (m *Manager) Track(ctx context.Context, clientID string, expires time.Time) error {
	m.clientsMu.Lock()
	defer m.clientsMu.Unlock()

	idx, err := m.clients(ctx)
	if err != nil {
		return err
	}
	m.dropExpired(ctx, idx)
	idx[clientID] = expires
	return storage.SetJSON(ctx, m.kv, storage.KeyClients, idx)
}

// Prune drops the flags of every tracked client whose token has expired and
// returns how many were removed.
func (m *Manager) Prune(ctx context.Context) (int, error) {
	m.clientsMu.Lock()
	defer m.clientsMu.Unlock()

	idx, err := m.clients(ctx)
	if err != nil {
		return 0, err
	}
	n := m.dropExpired(ctx, idx)
	if n == 0 {
		return 0, nil
	}
	if err := storage.SetJSON(ctx, m.kv, storage.KeyClients, idx); err != nil {
		return 0, err
	}
	m.log.Info("pruned expired sessions", zap.Int("count", n))
	return n, nil
}

// Forget deletes every flag of clientID and stops tracking it.
func (m *Manager) Forget(ctx context.Context, clientID string) error {
	m.clientsMu.Lock()
	defer m.clientsMu.Unlock()

	if err := m.purge(ctx, clientID); err != nil {
		return err
	}
	idx, err := m.clients(ctx)
	if err != nil {
		return err
	}
	if _, ok := idx[clientID]; !ok {
		return nil
	}
	delete(idx, clientID)
	return storage.SetJSON(ctx, m.kv, storage.KeyClients, idx)
}

// dropExpired purges expired clients from storage and idx. A client whose
// purge fails stays in idx for the next pass. Caller holds clientsMu.
func (m *Manager) dropExpired(ctx context.Context, idx map[string]time.Time) int {
	now := m.now()
	n := 0
	for id, expires := range idx {
		if now.Before(expires) {
			continue
		}
		if err := m.purge(ctx, id); err != nil {
			m.log.Warn("dropping expired session", zap.String("client", id), zap.Error(err))
			continue
		}
		delete(idx, id)
		n++
	}
	return n
}

func (m *Manager) purge(ctx context.Context, clientID string) error {
	flags := storage.WithPrefix(m.kv, storage.SessionPrefix(clientID))
	for _, key := range storage.ClientKeys {
		if err := flags.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

// clients reads the tracked-client index. Caller holds clientsMu.
func (m *Manager) clients(ctx context.Context) (map[string]time.Time, error) {
	idx := map[string]time.Time{}
	err := storage.GetJSON(ctx, m.kv, storage.KeyClients, &idx)
	var decodeErr *storage.DecodeError
	switch {
	case err == nil, errors.Is(err, storage.ErrNotFound):
		return idx, nil
	case errors.As(err, &decodeErr):
		m.log.Warn("session index unreadable, starting empty", zap.Error(err))
		return map[string]time.Time{}, nil
	default:
		return nil, fmt.Errorf("load sessions: %w", err)
	}
}
