package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/david/youth-hub/internal/finder"
	"github.com/david/youth-hub/internal/models"
)

var geography = sync.OnceValues(LoadGeography)

// Draft is the admin form for creating or editing a record. Details may be
// given either as a structured block or as raw JSON text.
type Draft struct {
	Title          string             `json:"title"`
	Organization   string             `json:"organization"`
	Category       string             `json:"category"`
	Description    string             `json:"description"`
	Details        *models.JobDetails `json:"details,omitempty"`
	DetailsJSON    string             `json:"detailsJson,omitempty"`
	Deadline       string             `json:"deadline"`
	Country        string             `json:"country"`
	EducationLevel string             `json:"educationLevel"`
	Link           string             `json:"link"`
}

// FromOpportunity pre-fills a draft for editing.
func FromOpportunity(o models.Opportunity) Draft {
	return Draft{
		Title:          o.Title,
		Organization:   o.Organization,
		Category:       string(o.Category),
		Description:    o.Description,
		Details:        o.Details,
		Deadline:       o.Deadline,
		Country:        o.Country,
		EducationLevel: o.EducationLevel,
		Link:           o.Link,
	}
}

// ValidationError lists every rejected field of a draft.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range []string{"title", "organization", "category", "description", "details", "deadline", "country", "educationLevel", "link"} {
		if msg, ok := e.Fields[name]; ok {
			parts = append(parts, name+": "+msg)
		}
	}
	return "invalid opportunity: " + strings.Join(parts, "; ")
}

// Validate checks d and returns the record fields it describes. Id and
// posting date are left for the caller.
func (d Draft) Validate() (models.Opportunity, error) {
	errs := map[string]string{}
	required := func(name, v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			errs[name] = "is required"
		}
		return v
	}

	rec := models.Opportunity{
		Title:          sanitizeText(required("title", d.Title)),
		Organization:   sanitizeText(required("organization", d.Organization)),
		Description:    sanitizeMarkup(required("description", d.Description)),
		Deadline:       required("deadline", d.Deadline),
		Country:        strings.TrimSpace(d.Country),
		EducationLevel: strings.TrimSpace(d.EducationLevel),
		Link:           required("link", d.Link),
	}

	// markup-only input sanitizes to nothing
	for name, v := range map[string]string{"title": rec.Title, "organization": rec.Organization, "description": rec.Description} {
		if _, seen := errs[name]; !seen && v == "" {
			errs[name] = "is required"
		}
	}

	category, err := models.ParseCategory(strings.TrimSpace(d.Category))
	if err != nil {
		errs["category"] = err.Error()
	}
	rec.Category = category

	if !models.IsEducationLevel(rec.EducationLevel) {
		errs["educationLevel"] = fmt.Sprintf("must be one of %s", strings.Join(models.EducationLevels, ", "))
	}

	if rec.Deadline != "" {
		if models.IsOpenEnrollment(rec.Deadline) {
			rec.Deadline = models.OpenEnrollment
		} else if _, ok := finder.ParseDate(rec.Deadline, nil); !ok {
			errs["deadline"] = "must be a date (YYYY-MM-DD) or " + models.OpenEnrollment
		}
	}

	if msg := checkCountry(rec.Country); msg != "" {
		errs["country"] = msg
	}

	if rec.Link != "" && rec.Link != "#" {
		if u, err := url.Parse(rec.Link); err != nil || u.Scheme == "" || u.Host == "" {
			errs["link"] = "must be an absolute URL"
		}
	}

	details, err := d.details()
	if err != nil {
		errs["details"] = err.Error()
	}
	if !details.IsEmpty() {
		rec.Details = details
	}

	if len(errs) > 0 {
		return models.Opportunity{}, &ValidationError{Fields: errs}
	}
	return rec, nil
}

func (d Draft) details() (*models.JobDetails, error) {
	raw := strings.TrimSpace(d.DetailsJSON)
	if raw == "" {
		return d.Details, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	var out models.JobDetails
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid details JSON: %w", err)
	}
	return &out, nil
}

func checkCountry(country string) string {
	switch {
	case country == "":
		return "is required"
	case country == models.All || strings.HasPrefix(country, models.RegionPrefix):
		return "must name a single country or " + models.International
	}
	g, err := geography()
	if err != nil || g.IsCountry(country) {
		return ""
	}
	return fmt.Sprintf("unknown country %q", country)
}

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()

	// an opening, closing or comment tag; a bare "<" in prose is not one
	tagPattern = regexp.MustCompile(`<[a-zA-Z/!]`)
)

// sanitizeText strips every tag from a single-line field. Text without
// markup is returned untouched so entities are not introduced.
func sanitizeText(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// sanitizeMarkup keeps safe formatting in long text and drops scripts,
// iframes and event handlers. Plain text, even with "<" or "&", is stored
// as typed.
func sanitizeMarkup(s string) string {
	if !tagPattern.MatchString(s) {
		return s
	}
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}
