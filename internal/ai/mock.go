package ai

import (
	"context"
	"fmt"

	"github.com/david/youth-hub/internal/models"
)

const mockContent = "This is mock generated content based on your request. In a real scenario, this would be a tailored response from the AI to help with your application. It would include key points, suggested phrasing, and tips specific to the opportunity you selected."

// MockClient answers without a model: the first records in input order
// match, and every draft is the same placeholder text.
type MockClient struct{}

func (MockClient) Match(ctx context.Context, _ string, records []models.Opportunity) ([]models.AIRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := min(len(records), MaxMatches)
	out := make([]models.AIRecommendation, n)
	for i, r := range records[:n] {
		out[i] = models.AIRecommendation{
			ID:        r.ID,
			Rationale: fmt.Sprintf("This mock match for '%s' is recommended because it aligns with the skills and interests mentioned in your profile.", r.Title),
		}
	}
	return out, nil
}

func (MockClient) Generate(ctx context.Context, _ models.Opportunity, _ string, mode Mode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, ok := tasks[mode]; !ok {
		return "", fmt.Errorf("unknown content mode %q", mode)
	}
	return mockContent, nil
}
