package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/david/youth-hub/internal/catalog"
)

func (s *Server) catalogError(c echo.Context, err error) error {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error(), "fields": verr.Fields})
	case errors.Is(err, catalog.ErrNotFound):
		return s.fail(c, http.StatusNotFound, "errorOpportunityNotFound", nil)
	}
	s.Log.Error("catalog operation failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func (s *Server) handleAdminList(c echo.Context) error {
	accounts, err := s.Sessions.AccountCount(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	opps := s.Catalog.All()
	return c.JSON(http.StatusOK, map[string]any{
		"opportunities": opps,
		"total":         len(opps),
		"accounts":      accounts,
	})
}

func (s *Server) handleCreateOpportunity(c echo.Context) error {
	var d catalog.Draft
	if err := c.Bind(&d); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	opp, err := s.Catalog.Create(c.Request().Context(), d)
	if err != nil {
		return s.catalogError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"opportunity": opp,
		"message":     s.t(c, "opportunityCreatedSuccess", nil),
	})
}

func (s *Server) handleUpdateOpportunity(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	var d catalog.Draft
	if err := c.Bind(&d); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	opp, err := s.Catalog.Update(c.Request().Context(), id, d)
	if err != nil {
		return s.catalogError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"opportunity": opp,
		"message":     s.t(c, "opportunityUpdatedSuccess", nil),
	})
}

func (s *Server) handleDeleteOpportunity(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	if err := s.Catalog.Delete(c.Request().Context(), id); err != nil {
		return s.catalogError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": s.t(c, "opportunityDeletedSuccess", nil)})
}
