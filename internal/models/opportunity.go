package models

import (
	"fmt"
	"strings"
)

// Sentinel selector and field values with special matching semantics.
const (
	All            = "All"
	AllUpcoming    = "All Upcoming"
	AllTime        = "All Time"
	OpenEnrollment = "Open Enrollment"
	International  = "International"
	RegionPrefix   = "Region: "
)

type Category string

const (
	CategoryScholarships Category = "Scholarships"
	CategoryInternships  Category = "Internships"
	CategoryFellowships  Category = "Fellowships"
	CategoryGrants       Category = "Grants"
	CategoryJobs         Category = "Jobs"
	CategoryContests     Category = "Contests"
	CategoryTraining     Category = "Training"
)

// Categories lists the category enumeration in display order.
var Categories = []Category{
	CategoryScholarships,
	CategoryInternships,
	CategoryFellowships,
	CategoryGrants,
	CategoryJobs,
	CategoryContests,
	CategoryTraining,
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// EducationLevels are the values a record or profile may carry. "All" is a
// selector only and never stored on a record.
var EducationLevels = []string{"Any", "High School", "Bachelors", "Masters"}

func IsEducationLevel(s string) bool {
	for _, lvl := range EducationLevels {
		if lvl == s {
			return true
		}
	}
	return false
}

// Opportunity is one listing in the catalog. JSON names follow the persisted
// catalog format so the stored list round-trips verbatim.
type Opportunity struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Organization   string      `json:"organization"`
	Category       Category    `json:"category"`
	Description    string      `json:"description"`
	Details        *JobDetails `json:"details,omitempty"`
	Deadline       string      `json:"deadline"`   // ISO date or "Open Enrollment"
	PostedDate     string      `json:"postedDate"` // ISO date, immutable
	Country        string      `json:"country"`
	EducationLevel string      `json:"educationLevel"`
	Link           string      `json:"link"`
}

// IsOpenEnrollment reports whether the deadline is the rolling sentinel.
func (o Opportunity) IsOpenEnrollment() bool {
	return IsOpenEnrollment(o.Deadline)
}

// IsOpenEnrollment matches the sentinel case-insensitively. Padding is not
// ignored.
func IsOpenEnrollment(deadline string) bool {
	return strings.EqualFold(deadline, OpenEnrollment)
}

// JobDetails is the optional structured block shown on detailed listings.
// Every field is optional.
type JobDetails struct {
	Purpose                  string          `json:"purpose,omitempty" yaml:"purpose,omitempty"`
	MainFunctions            []string        `json:"mainFunctions,omitempty" yaml:"mainFunctions,omitempty"`
	SpecificResponsibilities []string        `json:"specificResponsibilities,omitempty" yaml:"specificResponsibilities,omitempty"`
	AcademicRequirements     string          `json:"academicRequirements,omitempty" yaml:"academicRequirements,omitempty"`
	RequiredSkills           *RequiredSkills `json:"requiredSkills,omitempty" yaml:"requiredSkills,omitempty"`
	MandatoryNote            string          `json:"mandatoryNote,omitempty" yaml:"mandatoryNote,omitempty"`
}

type RequiredSkills struct {
	Functional []string `json:"functional,omitempty" yaml:"functional,omitempty"`
	Personal   []string `json:"personal,omitempty" yaml:"personal,omitempty"`
}

// IsEmpty reports whether no sub-field carries content.
func (d *JobDetails) IsEmpty() bool {
	if d == nil {
		return true
	}
	skills := d.RequiredSkills != nil && (len(d.RequiredSkills.Functional) > 0 || len(d.RequiredSkills.Personal) > 0)
	return d.Purpose == "" && len(d.MainFunctions) == 0 && len(d.SpecificResponsibilities) == 0 &&
		d.AcademicRequirements == "" && !skills && d.MandatoryNote == ""
}

// AIRecommendation is one entry of an externally ranked match list.
type AIRecommendation struct {
	ID        int64  `json:"id"`
	Rationale string `json:"rationale"`
}
