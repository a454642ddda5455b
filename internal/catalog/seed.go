package catalog

import (
	"embed"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/david/youth-hub/internal/finder"
	"github.com/david/youth-hub/internal/models"
)

//go:embed data/seed.yaml data/regions.yaml
var dataFS embed.FS

type seedRecord struct {
	ID             int64              `yaml:"id"`
	Title          string             `yaml:"title"`
	Organization   string             `yaml:"organization"`
	Category       string             `yaml:"category"`
	Description    string             `yaml:"description"`
	Deadline       string             `yaml:"deadline"`
	PostedDate     string             `yaml:"posted_date,omitempty"`
	PostedDaysAgo  *int               `yaml:"posted_days_ago,omitempty"` // relative to load time
	Country        string             `yaml:"country"`
	EducationLevel string             `yaml:"education_level"`
	Link           string             `yaml:"link"`
	Details        *models.JobDetails `yaml:"details,omitempty"`
}

// Seed returns the shipped dataset with relative posting dates resolved
// against now.
func Seed(now time.Time) ([]models.Opportunity, error) {
	data, err := dataFS.ReadFile("data/seed.yaml")
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}

	var raw []seedRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	out := make([]models.Opportunity, 0, len(raw))
	for _, r := range raw {
		category, err := models.ParseCategory(r.Category)
		if err != nil {
			return nil, fmt.Errorf("seed record %d: %w", r.ID, err)
		}
		posted := r.PostedDate
		if r.PostedDaysAgo != nil {
			posted = finder.FormatDate(now.AddDate(0, 0, -*r.PostedDaysAgo))
		}
		out = append(out, models.Opportunity{
			ID:             r.ID,
			Title:          r.Title,
			Organization:   r.Organization,
			Category:       category,
			Description:    r.Description,
			Details:        r.Details,
			Deadline:       r.Deadline,
			PostedDate:     posted,
			Country:        r.Country,
			EducationLevel: r.EducationLevel,
			Link:           r.Link,
		})
	}
	return out, nil
}

// Geography is the fixed region table and country list.
type Geography struct {
	Regions   finder.RegionTable `yaml:"regions"`
	Countries []string           `yaml:"countries"`
}

func LoadGeography() (*Geography, error) {
	data, err := dataFS.ReadFile("data/regions.yaml")
	if err != nil {
		return nil, fmt.Errorf("read regions: %w", err)
	}
	var g Geography
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse regions: %w", err)
	}
	sort.Strings(g.Countries)
	return &g, nil
}

// IsCountry reports whether name is a concrete country a record may carry.
func (g *Geography) IsCountry(name string) bool {
	if name == models.International {
		return true
	}
	i := sort.SearchStrings(g.Countries, name)
	return i < len(g.Countries) && g.Countries[i] == name
}

// Options are the selector values offered by a listing page.
type Options struct {
	Countries       []string `json:"countries"`
	Categories      []string `json:"categories"`
	EducationLevels []string `json:"educationLevels"`
	Deadlines       []string `json:"deadlines"`
	PostedWithin    []string `json:"postedWithin"`
	SortModes       []string `json:"sortModes"`
}

// Options lists "All", "International", the region selectors, then the
// countries, each group sorted.
func (g *Geography) Options() Options {
	countries := []string{models.All, models.International}
	countries = append(countries, g.Regions.Selectors()...)
	countries = append(countries, g.Countries...)

	categories := []string{models.All}
	for _, c := range models.Categories {
		categories = append(categories, string(c))
	}

	return Options{
		Countries:       countries,
		Categories:      categories,
		EducationLevels: append([]string{models.All}, models.EducationLevels...),
		Deadlines:       models.DeadlineOptions,
		PostedWithin:    models.PostedWithinOptions,
		SortModes:       models.SortOptions,
	}
}
