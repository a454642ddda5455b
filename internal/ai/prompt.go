package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/david/youth-hub/internal/models"
)

var whitespace = regexp.MustCompile(`\s+`)

// HTMLToText converts HTML to plain text, collapsing whitespace.
func HTMLToText(html string) string {
	if !strings.ContainsAny(html, "<>&") {
		return strings.TrimSpace(whitespace.ReplaceAllString(html, " "))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(doc.Text(), " "))
}

type candidate struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
}

func matchPrompt(profile string, records []models.Opportunity) (string, error) {
	list := make([]candidate, len(records))
	for i, r := range records {
		list[i] = candidate{ID: r.ID, Title: r.Title, Description: HTMLToText(r.Description), Category: r.Category}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}

	return fmt.Sprintf(`As an expert career advisor for African youth, your task is to match a user's profile with a list of available opportunities.
Analyze the user's profile and the provided list of opportunities.
Return a JSON object containing a single key "matches". The value of "matches" should be an array of objects, with each object representing one of the top %d most relevant opportunities.
Each object in the array must have two keys:
1. "id": The numerical ID of the opportunity.
2. "rationale": A brief, one-sentence explanation of why this opportunity is a good match for the user's profile.
Do not include any opportunities that are a poor match.

USER PROFILE:
---
%s
---

AVAILABLE OPPORTUNITIES (JSON):
---
%s
---
`, MaxMatches, profile, data), nil
}

var tasks = map[Mode]string{
	ModeCV:       "Generate 3-5 key bullet points on how to tailor a CV for this specific opportunity. Focus on skills and experiences to highlight.",
	ModeLetter:   "Draft an outline for a motivation letter for this opportunity. Include an introduction, 2-3 body paragraphs with key themes to address, and a conclusion.",
	ModeProposal: "Create a basic structure for a project proposal relevant to this opportunity. Include sections like 'Problem Statement', 'Proposed Solution', 'Objectives', and 'Expected Impact'.",
}

func contentPrompt(record models.Opportunity, profile string, mode Mode) (string, error) {
	task, ok := tasks[mode]
	if !ok {
		return "", fmt.Errorf("unknown content mode %q", mode)
	}
	if strings.TrimSpace(profile) == "" {
		profile = "No profile provided. Provide general advice."
	}

	return fmt.Sprintf(`You are an expert career coach assisting African youth with their applications.
Based on the user's profile and the specific opportunity details provided, generate helpful content.
The response should be clear, concise, and encouraging. Use markdown for formatting.

USER PROFILE:
---
%s
---

OPPORTUNITY DETAILS:
---
Title: %s
Organization: %s
Description: %s
Category: %s
---

TASK: %s
`, profile, record.Title, record.Organization, HTMLToText(record.Description), record.Category, task), nil
}
