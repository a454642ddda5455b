// Package ai talks to the language model that ranks opportunities against a
// profile and drafts application material.
package ai

import (
	"context"
	"fmt"

	"github.com/david/youth-hub/internal/models"
)

// MaxMatches is the most recommendations a match call returns.
const MaxMatches = 3

type Mode string

const (
	ModeCV       Mode = "CV"
	ModeLetter   Mode = "Letter"
	ModeProposal Mode = "Proposal"
)

var Modes = []Mode{ModeCV, ModeLetter, ModeProposal}

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown content mode %q", s)
}

// Matcher ranks records against a free-text profile.
type Matcher interface {
	Match(ctx context.Context, profile string, records []models.Opportunity) ([]models.AIRecommendation, error)
}

// Generator drafts markdown guidance for one record. profile may be empty.
type Generator interface {
	Generate(ctx context.Context, record models.Opportunity, profile string, mode Mode) (string, error)
}

// Backend is a model provider able to do both.
type Backend interface {
	Matcher
	Generator
}
