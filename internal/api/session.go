package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/david/youth-hub/internal/auth"
	"github.com/david/youth-hub/internal/models"
	"github.com/david/youth-hub/internal/session"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token   string        `json:"token"`
	State   session.State `json:"state"`
	Message string        `json:"message,omitempty"`
}

var sessionErrors = []struct {
	err    error
	status int
	key    string
}{
	{session.ErrMissingFields, http.StatusBadRequest, "errorFillAllFields"},
	{session.ErrInvalidEmail, http.StatusBadRequest, "errorInvalidEmail"},
	{session.ErrAccountExists, http.StatusConflict, "errorAccountExists"},
	{session.ErrAccountNotFound, http.StatusUnauthorized, "errorAccountNotFound"},
	{session.ErrInvalidCredentials, http.StatusUnauthorized, "errorInvalidCredentials"},
}

func (s *Server) sessionError(c echo.Context, err error) error {
	for _, m := range sessionErrors {
		if errors.Is(err, m.err) {
			return s.fail(c, m.status, m.key, nil)
		}
	}
	switch {
	case errors.Is(err, session.ErrNotLoggedIn):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrAdminSession):
		return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrInvalidProfile):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	s.Log.Error("session operation failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// signIn runs enter on a fresh client's session and issues a token for the
// resulting user.
func (s *Server) signIn(c echo.Context, status int, enter func(context.Context, *session.Session) (session.State, error)) error {
	clientID := auth.NewClientID()
	st, err := enter(c.Request().Context(), s.Sessions.Session(clientID))
	if err != nil {
		return s.sessionError(c, err)
	}
	token, err := s.Issuer.Issue(auth.Claims{ClientID: clientID, Email: st.Email})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if err := s.Sessions.Track(c.Request().Context(), clientID, s.Issuer.ExpiresAt()); err != nil {
		s.Log.Warn("tracking session expiry", zap.String("client", clientID), zap.Error(err))
	}

	resp := authResponse{Token: token, State: st}
	if st.Phase == session.ProfileComplete {
		resp.Message = s.t(c, "welcomeToTheHub", map[string]string{"name": st.Profile.Name})
	} else if st.NeedsSetup() {
		resp.Message = s.t(c, "profileSetupPrompt", nil)
	}
	return c.JSON(status, resp)
}

func (s *Server) handleSignup(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	return s.signIn(c, http.StatusCreated, func(ctx context.Context, sess *session.Session) (session.State, error) {
		return sess.Register(ctx, req.Email, req.Password)
	})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	return s.signIn(c, http.StatusOK, func(ctx context.Context, sess *session.Session) (session.State, error) {
		return sess.Login(ctx, req.Email, req.Password)
	})
}

func (s *Server) handleSocialLogin(c echo.Context) error {
	return s.signIn(c, http.StatusOK, func(ctx context.Context, sess *session.Session) (session.State, error) {
		return sess.SocialLogin(ctx)
	})
}

func (s *Server) handleLogout(c echo.Context) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}
	msg := s.t(c, "signedOut", nil)
	if err := sess.Logout(c.Request().Context()); err != nil {
		return s.sessionError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msg})
}

func (s *Server) handleSession(c echo.Context) error {
	st, err := auth.StateFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, st)
}

func (s *Server) handleGetProfile(c echo.Context) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}
	p, err := sess.Profile(c.Request().Context())
	if err != nil {
		return s.sessionError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleSaveProfile(c echo.Context) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}
	var p models.UserProfile
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	saved, err := sess.SaveProfile(c.Request().Context(), p)
	if err != nil {
		return s.sessionError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"profile": saved,
		"message": s.t(c, "profileUpdatedSuccess", nil),
	})
}

func (s *Server) handleProfileSetup(c echo.Context) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}
	var p models.UserProfile
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	st, err := sess.CompleteSetup(c.Request().Context(), p)
	if errors.Is(err, session.ErrNameRequired) {
		return s.fail(c, http.StatusBadRequest, "errorEnterName", nil)
	}
	if err != nil {
		return s.sessionError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"state":   st,
		"message": s.t(c, "profileSetupSuccess", nil),
	})
}

type bioRequest struct {
	Bio string `json:"bio"`
}

func (s *Server) handleUpdateBio(c echo.Context) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}
	var req bioRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	p, err := sess.UpdateBio(c.Request().Context(), req.Bio)
	if err != nil {
		return s.sessionError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

type languageRequest struct {
	Language string `json:"language"`
}

func (s *Server) handleGetLanguage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"language": s.language(c)})
}

func (s *Server) handleSetLanguage(c echo.Context) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}
	var req languageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := sess.SetLanguage(c.Request().Context(), req.Language); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"language": req.Language,
		"message":  s.t(c, "languageSwitched", map[string]string{"language": req.Language}),
	})
}
