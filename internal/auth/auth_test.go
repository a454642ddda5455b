package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/david/youth-hub/internal/session"
	"github.com/david/youth-hub/internal/storage"
)

func newIssuer(t *testing.T) *Issuer {
	t.Helper()
	i, err := NewIssuer("test-secret", time.Hour, zap.NewNop())
	require.NoError(t, err)
	return i
}

func TestIssueVerify(t *testing.T) {
	i := newIssuer(t)

	claims := Claims{ClientID: NewClientID(), Email: "ama@example.com"}
	tok, err := i.Issue(claims)
	require.NoError(t, err)

	got, err := i.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, claims, got)
	assert.Equal(t, "ama@example.com", got.Email)

	other := newIssuer(t)
	other.secret = []byte("different")
	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	i.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = i.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	bad, err := newIssuer(t).Issue(Claims{ClientID: "not-a-uuid", Email: "a@b.co"})
	require.NoError(t, err)
	_, err = newIssuer(t).Verify(bad)
	assert.ErrorIs(t, err, ErrInvalidToken, "client id must be a uuid")
}

func TestNewIssuer_EphemeralSecret(t *testing.T) {
	a, err := NewIssuer("", time.Hour, zap.NewNop())
	require.NoError(t, err)
	b, err := NewIssuer("  ", time.Hour, zap.NewNop())
	require.NoError(t, err)
	assert.NotEmpty(t, a.secret)
	assert.NotEqual(t, a.secret, b.secret)
}

func TestMiddleware(t *testing.T) {
	ctx := context.Background()
	issuer := newIssuer(t)
	sessions := session.NewManager(storage.NewMemory(), session.Credential{Email: "admin@au.org", Password: "admin123"}, "social@example.com", zap.NewNop())

	claims := Claims{ClientID: NewClientID(), Email: "ama@example.com"}
	tok, err := issuer.Issue(claims)
	require.NoError(t, err)
	_, err = sessions.Session(claims.ClientID).Register(ctx, "ama@example.com", "pw")
	require.NoError(t, err)

	adminClaims := Claims{ClientID: NewClientID(), Email: "admin@au.org"}
	adminTok, err := issuer.Issue(adminClaims)
	require.NoError(t, err)
	_, err = sessions.Session(adminClaims.ClientID).Login(ctx, "admin@au.org", "admin123")
	require.NoError(t, err)

	e := echo.New()
	protected := Middleware(issuer, sessions)(func(c echo.Context) error {
		st, err := StateFromContext(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, st.Email)
	})
	adminOnly := Middleware(issuer, sessions)(RequireAdmin(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}))

	call := func(h echo.HandlerFunc, header string) (int, string) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		require.NoError(t, h(e.NewContext(req, rec)))
		return rec.Code, rec.Body.String()
	}

	code, body := call(protected, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ama@example.com", body)

	code, body = call(protected, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.JSONEq(t, `{"error":"Missing Authorization header"}`, body)
	code, _ = call(protected, "Token "+tok)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = call(protected, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(adminOnly, "Bearer "+tok)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = call(adminOnly, "Bearer "+adminTok)
	assert.Equal(t, http.StatusNoContent, code)

	// logging out ends the token too
	require.NoError(t, sessions.Session(claims.ClientID).Logout(ctx))
	code, _ = call(protected, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, code)
}
