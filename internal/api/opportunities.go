package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/david/youth-hub/internal/catalog"
	"github.com/david/youth-hub/internal/finder"
	"github.com/david/youth-hub/internal/i18n"
	"github.com/david/youth-hub/internal/models"
)

type optionsResponse struct {
	catalog.Options
	Languages []string `json:"languages"`
}

func (s *Server) handleOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, optionsResponse{
		Options:   s.Geography.Options(),
		Languages: i18n.LanguageNames(),
	})
}

// criteriaFromQuery starts from the default selectors and overrides those
// present in the query string.
func criteriaFromQuery(c echo.Context) models.Criteria {
	crit := models.DefaultCriteria()
	q := c.QueryParams()
	set := func(dst *string, names ...string) {
		for _, name := range names {
			if q.Has(name) {
				*dst = q.Get(name)
				return
			}
		}
	}
	set(&crit.Search, "search", "q")
	set(&crit.Country, "country")
	set(&crit.Category, "sector", "category")
	set(&crit.Education, "education")
	set(&crit.Deadline, "deadline")
	set(&crit.PostedWithin, "postedWithin", "posted_within")
	set(&crit.SortBy, "sortBy", "sort")
	return crit
}

type listResponse struct {
	finder.View
	HeadingText  string               `json:"headingText"`
	Total        int                  `json:"total"`
	Local        []models.Opportunity `json:"local,omitempty"`
	LocalHeading string               `json:"localHeading,omitempty"`
}

// listing runs the pipeline for crit and merges recs, if any, on top.
func (s *Server) listing(c echo.Context, crit models.Criteria, recs []models.AIRecommendation) listResponse {
	records := s.Catalog.All()
	baseline := s.Finder.Apply(records, crit)
	resp := listResponse{
		View:  finder.Merge(recs, baseline, records, crit.SortBy),
		Total: len(baseline),
	}
	resp.HeadingText = s.t(c, resp.Heading, nil)
	if local := s.Finder.Local(records, crit.Country); len(local) > 0 {
		resp.Local = local
		resp.LocalHeading = s.t(c, "localOpportunitiesIn", map[string]string{"country": crit.Country})
	}
	return resp
}

func (s *Server) handleListOpportunities(c echo.Context) error {
	return c.JSON(http.StatusOK, s.listing(c, criteriaFromQuery(c), nil))
}

func (s *Server) handleGetOpportunity(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	opp, err := s.Catalog.Get(id)
	if errors.Is(err, catalog.ErrNotFound) {
		return s.fail(c, http.StatusNotFound, "errorOpportunityNotFound", nil)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, opp)
}

const latestJobsDefault = 3

func (s *Server) handleLatestJobs(c echo.Context) error {
	n := latestJobsDefault
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 20 {
		n = l
	}
	return c.JSON(http.StatusOK, map[string]any{
		"heading": s.t(c, "featuredJobs", nil),
		"jobs":    s.Finder.LatestJobs(s.Catalog.All(), n),
	})
}
