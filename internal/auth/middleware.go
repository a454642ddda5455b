package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/david/youth-hub/internal/session"
)

type contextKey string

const (
	claimsKey  contextKey = "claims"
	sessionKey contextKey = "session"
	stateKey   contextKey = "session_state"
)

// Middleware validates the bearer token and attaches the client's session.
// A token whose session has been logged out is rejected.
func Middleware(issuer *Issuer, sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing Authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid Authorization header format"})
			}

			claims, err := issuer.Verify(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
			}

			sess := sessions.Session(claims.ClientID)
			st, err := sess.State(c.Request().Context())
			if err != nil {
				return err
			}
			if !st.LoggedIn() || st.Email != claims.Email {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Session ended"})
			}

			c.Set(string(claimsKey), claims)
			c.Set(string(sessionKey), sess)
			c.Set(string(stateKey), st)
			return next(c)
		}
	}
}

// RequireAdmin must run after Middleware.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		st, err := StateFromContext(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		if st.Phase != session.Admin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Unauthorized admin access"})
		}
		return next(c)
	}
}

func SessionFromContext(c echo.Context) (*session.Session, error) {
	s, ok := c.Get(string(sessionKey)).(*session.Session)
	if !ok {
		return nil, errors.New("session not found in context")
	}
	return s, nil
}

// StateFromContext returns the state observed when the request was
// authenticated.
func StateFromContext(c echo.Context) (session.State, error) {
	st, ok := c.Get(string(stateKey)).(session.State)
	if !ok {
		return session.State{}, errors.New("session state not found in context")
	}
	return st, nil
}

func ClaimsFromContext(c echo.Context) (Claims, error) {
	cl, ok := c.Get(string(claimsKey)).(Claims)
	if !ok {
		return Claims{}, errors.New("claims not found in context")
	}
	return cl, nil
}
