package models

import "strings"

// Placeholder names written into freshly created profiles. A profile still
// carrying one of them has not been through setup.
const (
	PlaceholderName       = "New User"
	SocialPlaceholderName = "Social User"
)

const DefaultBio = "I am a new user from [Your Country], passionate about [Your Interests]. " +
	"I have skills in [Your Skills] and recently completed [Your Education]. " +
	"I am looking for opportunities in [Your Desired Field]."

type UserProfile struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Bio            string   `json:"bio"`
	Skills         []string `json:"skills"`
	Interests      []string `json:"interests"`
	Country        string   `json:"country"`
	EducationLevel string   `json:"educationLevel"`
}

// DefaultProfile builds the profile stored at first login.
func DefaultProfile(email, name string) UserProfile {
	return UserProfile{
		Name:           name,
		Email:          email,
		Bio:            DefaultBio,
		Skills:         []string{},
		Interests:      []string{},
		Country:        "Nigeria",
		EducationLevel: "Any",
	}
}

func (p UserProfile) IsPlaceholder() bool {
	return IsPlaceholderName(p.Name)
}

func IsPlaceholderName(name string) bool {
	return name == PlaceholderName || name == SocialPlaceholderName
}

// Normalize trims free text and rebuilds both tag sets.
func (p *UserProfile) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Country = strings.TrimSpace(p.Country)
	p.EducationLevel = strings.TrimSpace(p.EducationLevel)
	p.Skills = NormalizeTags(p.Skills)
	p.Interests = NormalizeTags(p.Interests)
}

// AddTag appends tag unless it is blank or already present. Order of first
// insertion is kept.
func AddTag(tags []string, tag string) []string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return tags
	}
	for _, existing := range tags {
		if existing == tag {
			return tags
		}
	}
	return append(tags, tag)
}

func RemoveTag(tags []string, tag string) []string {
	out := make([]string, 0, len(tags))
	for _, existing := range tags {
		if existing != tag {
			out = append(out, existing)
		}
	}
	return out
}

func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = AddTag(out, t)
	}
	return out
}
