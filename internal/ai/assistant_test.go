package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/david/youth-hub/internal/models"
)

type stubBackend struct {
	recs  []models.AIRecommendation
	text  string
	err   error
	block bool
}

func (s stubBackend) Match(ctx context.Context, _ string, _ []models.Opportunity) ([]models.AIRecommendation, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.recs, s.err
}

func (s stubBackend) Generate(ctx context.Context, _ models.Opportunity, _ string, _ Mode) (string, error) {
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.text, s.err
}

func records(n int) []models.Opportunity {
	out := make([]models.Opportunity, n)
	for i := range out {
		out[i] = models.Opportunity{ID: int64(i + 1), Title: "Opp"}
	}
	return out
}

func TestFindMatches(t *testing.T) {
	ctx := context.Background()

	a := NewAssistant(stubBackend{}, time.Second, zap.NewNop())
	_, err := a.FindMatches(ctx, "   ", records(2))
	assert.ErrorIs(t, err, ErrMissingProfile)

	a = NewAssistant(stubBackend{recs: []models.AIRecommendation{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}}, time.Second, zap.NewNop())
	recs, err := a.FindMatches(ctx, "bio", records(4))
	require.NoError(t, err)
	assert.Len(t, recs, MaxMatches)

	a = NewAssistant(stubBackend{recs: []models.AIRecommendation{}}, time.Second, zap.NewNop())
	recs, err = a.FindMatches(ctx, "bio", records(4))
	require.NoError(t, err)
	assert.Empty(t, recs)

	a = NewAssistant(stubBackend{err: errors.New("quota exceeded")}, time.Second, zap.NewNop())
	_, err = a.FindMatches(ctx, "bio", records(4))
	assert.ErrorIs(t, err, ErrMatchFailed)
}

func TestFindMatches_Timeout(t *testing.T) {
	a := NewAssistant(stubBackend{block: true}, 10*time.Millisecond, zap.NewNop())
	_, err := a.FindMatches(context.Background(), "bio", records(1))
	assert.ErrorIs(t, err, ErrMatchFailed)
}

func TestDraft(t *testing.T) {
	ctx := context.Background()

	a := NewAssistant(stubBackend{text: "- tip"}, time.Second, zap.NewNop())
	text, err := a.Draft(ctx, records(1)[0], "", ModeCV)
	require.NoError(t, err)
	assert.Equal(t, "- tip", text)

	cause := errors.New("upstream down")
	a = NewAssistant(stubBackend{err: cause}, time.Second, zap.NewNop())
	_, err = a.Draft(ctx, records(1)[0], "bio", ModeLetter)
	var genErr *GenerateError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, ModeLetter, genErr.Mode)
	assert.ErrorIs(t, err, cause)
}

func TestMockClient(t *testing.T) {
	ctx := context.Background()
	var m MockClient

	recs, err := m.Match(ctx, "bio", records(5))
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, int64(1), recs[0].ID)
	assert.Contains(t, recs[0].Rationale, "This mock match for 'Opp'")

	recs, err = m.Match(ctx, "bio", nil)
	require.NoError(t, err)
	assert.Empty(t, recs)

	text, err := m.Generate(ctx, records(1)[0], "", ModeProposal)
	require.NoError(t, err)
	assert.Equal(t, mockContent, text)
}
