package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/david/youth-hub/internal/models"
)

var errNoJSON = errors.New("no JSON object in model response")

type rawMatch struct {
	ID        float64 `json:"id"`
	Rationale string  `json:"rationale"`
}

// parseMatches reads a {"matches": [...]} reply. Text that is not JSON is an
// error; JSON of the wrong shape yields no matches.
func parseMatches(resp string) ([]models.AIRecommendation, error) {
	cleaned := strings.TrimSpace(resp)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	obj, ok := extractFirstJSONObject(cleaned)
	if !ok {
		return nil, errNoJSON
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &envelope); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}

	var raw []rawMatch
	if err := json.Unmarshal(envelope["matches"], &raw); err != nil || raw == nil {
		return []models.AIRecommendation{}, nil
	}

	out := make([]models.AIRecommendation, 0, len(raw))
	for _, m := range raw {
		if m.ID != math.Trunc(m.ID) {
			continue
		}
		out = append(out, models.AIRecommendation{ID: int64(m.ID), Rationale: m.Rationale})
	}
	return out, nil
}

// extractFirstJSONObject finds the first outermost balanced {...}
func extractFirstJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}

		if char == '\\' {
			escaped = true
			continue
		}

		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			if char == '{' {
				depth++
			} else if char == '}' {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}
