package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/david/youth-hub/internal/ai"
	"github.com/david/youth-hub/internal/auth"
	"github.com/david/youth-hub/internal/catalog"
	"github.com/david/youth-hub/internal/models"
	"github.com/david/youth-hub/internal/session"
)

type matchRequest struct {
	Criteria *models.Criteria `json:"criteria,omitempty"`
	// Profile overrides the stored bio when set.
	Profile string `json:"profile,omitempty"`
}

// profileText is the stored bio of a user session. Admin sessions have
// none.
func profileText(ctx context.Context, sess *session.Session) (string, error) {
	p, err := sess.Profile(ctx)
	if errors.Is(err, session.ErrAdminSession) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return p.Bio, nil
}

func (s *Server) handleMatches(c echo.Context) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}
	var req matchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	crit := models.DefaultCriteria()
	if req.Criteria != nil {
		crit = *req.Criteria
	}

	ctx := c.Request().Context()
	text := req.Profile
	if text == "" {
		if text, err = profileText(ctx, sess); err != nil {
			return s.sessionError(c, err)
		}
	}

	recs, err := s.Assistant.FindMatches(ctx, text, s.Catalog.All())
	switch {
	case errors.Is(err, ai.ErrMissingProfile):
		return s.fail(c, http.StatusBadRequest, "errorMissingProfile", nil)
	case err != nil:
		return s.fail(c, http.StatusBadGateway, "errorMatchFailed", nil)
	}
	return c.JSON(http.StatusOK, s.listing(c, crit, recs))
}

type assistRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleAssist(c echo.Context) error {
	sess, err := auth.SessionFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	var req assistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	mode, err := ai.ParseMode(req.Mode)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	opp, err := s.Catalog.Get(id)
	if errors.Is(err, catalog.ErrNotFound) {
		return s.fail(c, http.StatusNotFound, "errorOpportunityNotFound", nil)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()
	text, err := profileText(ctx, sess)
	if err != nil {
		return s.sessionError(c, err)
	}
	content, err := s.Assistant.Draft(ctx, opp, text, mode)
	if err != nil {
		return s.fail(c, http.StatusBadGateway, "errorGenerateFailed", map[string]string{"mode": string(mode)})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"opportunityId": opp.ID,
		"mode":          mode,
		"content":       content,
	})
}
