package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationCreateAndList(t *testing.T) {
	svc := NewRecommendationService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "Avoid caffeine after 3pm"))
	require.NoError(t, svc.Create(ctx, "Keep the bedroom dark"))

	recs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Avoid caffeine after 3pm", recs[0].Recommendation)
	assert.NotZero(t, recs[0].ID)
}

func TestRecommendationUpdate(t *testing.T) {
	svc := NewRecommendationService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "Old advice"))
	recs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	require.NoError(t, svc.Update(ctx, recs[0].ID, "New advice"))

	recs, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "New advice", recs[0].Recommendation)
}

func TestRecommendationUpdateMissingID(t *testing.T) {
	svc := NewRecommendationService(newTestDB(t))
	err := svc.Update(context.Background(), 9999, "whatever")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecommendationDeleteArchivesText(t *testing.T) {
	svc := NewRecommendationService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "No screens in bed"))
	recs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	require.NoError(t, svc.Delete(ctx, recs[0].ID))

	recs, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "No screens in bed", history[0].Recommendation)
}

func TestRecommendationDeleteMissingID(t *testing.T) {
	svc := NewRecommendationService(newTestDB(t))
	err := svc.Delete(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}
