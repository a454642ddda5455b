package storage

import "context"

// Shared keys.
const (
	KeyOpportunities = "hub:opportunities"
	KeyUsers         = "hub:users"
	KeyClients       = "hub:clients"
	profilePrefix    = "hub:profile:"
)

// Client-scoped keys, stored under a session prefix.
const (
	KeyLoggedIn    = "hub:logged_in"
	KeyIsAdmin     = "hub:is_admin"
	KeyCurrentUser = "hub:current_user"
	KeyLanguage    = "hub:language"
)

// ClientKeys lists every key a client's session may hold.
var ClientKeys = []string{KeyLoggedIn, KeyIsAdmin, KeyCurrentUser, KeyLanguage}

func ProfileKey(email string) string {
	return profilePrefix + email
}

// SessionPrefix is the key prefix for one client's session flags. The empty
// client id is the single local client and gets no prefix.
func SessionPrefix(clientID string) string {
	if clientID == "" {
		return ""
	}
	return "session:" + clientID + ":"
}

// Prefixed scopes every key of an underlying store under a fixed prefix.
// Closing it leaves the underlying store open.
type Prefixed struct {
	kv     KV
	prefix string
}

func WithPrefix(kv KV, prefix string) *Prefixed {
	return &Prefixed{kv: kv, prefix: prefix}
}

func (p *Prefixed) key(k string) string {
	return p.prefix + k
}

func (p *Prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.kv.Get(ctx, p.key(key))
}

func (p *Prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.kv.Set(ctx, p.key(key), value)
}

func (p *Prefixed) Delete(ctx context.Context, key string) error {
	return p.kv.Delete(ctx, p.key(key))
}

func (p *Prefixed) Close() error { return nil }
