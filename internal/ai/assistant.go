package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/david/youth-hub/internal/models"
)

var (
	ErrMissingProfile = errors.New("profile text is required")
	ErrMatchFailed    = errors.New("AI matching failed")
)

// GenerateError reports a failed draft for Mode.
type GenerateError struct {
	Mode Mode
	Err  error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("generate %s content: %v", e.Mode, e.Err)
}

func (e *GenerateError) Unwrap() error { return e.Err }

// Assistant validates input, bounds each backend call and turns failures
// into user-facing errors. There are no retries.
type Assistant struct {
	backend Backend
	timeout time.Duration
	log     *zap.Logger
}

func NewAssistant(backend Backend, timeout time.Duration, log *zap.Logger) *Assistant {
	return &Assistant{backend: backend, timeout: timeout, log: log}
}

func (a *Assistant) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

// FindMatches ranks records against profile. An empty result is not an
// error.
func (a *Assistant) FindMatches(ctx context.Context, profile string, records []models.Opportunity) ([]models.AIRecommendation, error) {
	if strings.TrimSpace(profile) == "" {
		return nil, ErrMissingProfile
	}

	ctx, cancel := a.bound(ctx)
	defer cancel()

	start := time.Now()
	recs, err := a.backend.Match(ctx, profile, records)
	if err != nil {
		a.log.Error("AI matching failed", zap.Error(err), zap.Int("candidates", len(records)))
		return nil, ErrMatchFailed
	}
	if len(recs) > MaxMatches {
		recs = recs[:MaxMatches]
	}
	a.log.Info("AI matches", zap.Int("count", len(recs)), zap.Duration("took", time.Since(start)))
	return recs, nil
}

// Draft produces application guidance for record. profile may be empty.
func (a *Assistant) Draft(ctx context.Context, record models.Opportunity, profile string, mode Mode) (string, error) {
	ctx, cancel := a.bound(ctx)
	defer cancel()

	text, err := a.backend.Generate(ctx, record, profile, mode)
	if err != nil {
		a.log.Error("AI generation failed", zap.Error(err), zap.String("mode", string(mode)), zap.Int64("id", record.ID))
		return "", &GenerateError{Mode: mode, Err: err}
	}
	return text, nil
}
