package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jbox19/ITMajor3-FinalProject/internal/database"
	"github.com/Jbox19/ITMajor3-FinalProject/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.NewConnection(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateComputesDuration(t *testing.T) {
	svc := NewSleepService(newTestDB(t))
	ctx := context.Background()

	err := svc.Create(ctx, models.SleepLogInput{
		SleepTime: "2024-05-01 22:00",
		WakeTime:  "2024-05-02 06:30",
	})
	require.NoError(t, err)

	logs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "2024-05-01 22:00", logs[0].SleepTime)
	assert.Equal(t, "2024-05-02 06:30", logs[0].WakeTime)
	assert.InDelta(t, 8.5, logs[0].Duration, 0.001)
}

func TestCreateNegativeDurationAllowed(t *testing.T) {
	svc := NewSleepService(newTestDB(t))
	ctx := context.Background()

	// Wake before sleep is stored as-is with a negative duration.
	err := svc.Create(ctx, models.SleepLogInput{
		SleepTime: "2024-05-02 06:00",
		WakeTime:  "2024-05-01 22:00",
	})
	require.NoError(t, err)

	logs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.InDelta(t, -8.0, logs[0].Duration, 0.001)
}

func TestCreateRejectsBadTimestamp(t *testing.T) {
	svc := NewSleepService(newTestDB(t))
	ctx := context.Background()

	err := svc.Create(ctx, models.SleepLogInput{
		SleepTime: "May 1st 2024",
		WakeTime:  "2024-05-02 06:30",
	})
	assert.ErrorIs(t, err, ErrBadTimestamp)

	logs, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestDatePrefixRoundTrip(t *testing.T) {
	svc := NewSleepService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-01 22:00", WakeTime: "2024-05-02 06:00"}))
	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-15 23:00", WakeTime: "2024-05-16 07:00"}))
	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-06-01 22:00", WakeTime: "2024-06-02 06:00"}))

	day, err := svc.ListByDatePrefix(ctx, "2024-05-01")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "2024-05-01 22:00", day[0].SleepTime)

	month, err := svc.ListByDatePrefix(ctx, "2024-05")
	require.NoError(t, err)
	assert.Len(t, month, 2)

	// Every result for the narrower prefix is contained in the wider one.
	ids := map[int64]bool{}
	for _, l := range month {
		ids[l.ID] = true
	}
	for _, l := range day {
		assert.True(t, ids[l.ID])
	}

	none, err := svc.ListByDatePrefix(ctx, "2030-01")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateRecomputesDuration(t *testing.T) {
	svc := NewSleepService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-01 22:00", WakeTime: "2024-05-02 06:00"}))
	logs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	err = svc.Update(ctx, logs[0].ID, models.SleepLogInput{SleepTime: "2024-05-01 23:00", WakeTime: "2024-05-02 05:00"})
	require.NoError(t, err)

	logs, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "2024-05-01 23:00", logs[0].SleepTime)
	assert.InDelta(t, 6.0, logs[0].Duration, 0.001)
}

func TestUpdateMissingIDLeavesTableUnchanged(t *testing.T) {
	svc := NewSleepService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-01 22:00", WakeTime: "2024-05-02 06:00"}))

	err := svc.Update(ctx, 9999, models.SleepLogInput{SleepTime: "2024-05-01 23:00", WakeTime: "2024-05-02 05:00"})
	assert.ErrorIs(t, err, ErrNotFound)

	logs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "2024-05-01 22:00", logs[0].SleepTime)
}

func TestDeleteArchivesIntoHistory(t *testing.T) {
	svc := NewSleepService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-01 22:00", WakeTime: "2024-05-02 06:00"}))
	logs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	require.NoError(t, svc.Delete(ctx, logs[0].ID))

	logs, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "2024-05-01 22:00", history[0].SleepTime)
	assert.Equal(t, "2024-05-02 06:00", history[0].WakeTime)
	assert.InDelta(t, 8.0, history[0].Duration, 0.001)
}

func TestDeleteMissingID(t *testing.T) {
	svc := NewSleepService(newTestDB(t))
	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAggregatesOverEmptySet(t *testing.T) {
	svc := NewSleepService(newTestDB(t))
	ctx := context.Background()

	avg, err := svc.AverageDuration(ctx)
	require.NoError(t, err)
	assert.Zero(t, avg)

	longest, err := svc.LongestSleep(ctx)
	require.NoError(t, err)
	assert.Zero(t, longest)

	shortest, err := svc.ShortestSleep(ctx)
	require.NoError(t, err)
	assert.Zero(t, shortest)

	f, err := svc.FrequentSleepHour(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", f.Hour)
	assert.Zero(t, f.Count)
}

func TestAggregates(t *testing.T) {
	svc := NewSleepService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-01 22:00", WakeTime: "2024-05-02 06:00"})) // 8h
	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-02 23:00", WakeTime: "2024-05-03 05:00"})) // 6h
	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-03 22:00", WakeTime: "2024-05-04 08:00"})) // 10h

	avg, err := svc.AverageDuration(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, avg, 0.001)

	longest, err := svc.LongestSleep(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, longest, 0.001)

	shortest, err := svc.ShortestSleep(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, shortest, 0.001)
}

func TestFrequentHourTieBreaksToSmallestHour(t *testing.T) {
	svc := NewSleepService(newTestDB(t))
	ctx := context.Background()

	// One log at 22:00 and one at 23:00: tied counts, 22 must win.
	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-01 23:00", WakeTime: "2024-05-02 06:00"}))
	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-02 22:00", WakeTime: "2024-05-03 06:00"}))

	f, err := svc.FrequentSleepHour(ctx)
	require.NoError(t, err)
	assert.Equal(t, "22", f.Hour)
	assert.Equal(t, 1, f.Count)
}

func TestFrequentWakeHour(t *testing.T) {
	svc := NewSleepService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-01 22:00", WakeTime: "2024-05-02 06:00"}))
	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-02 22:00", WakeTime: "2024-05-03 06:30"}))
	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-03 22:00", WakeTime: "2024-05-04 07:00"}))

	f, err := svc.FrequentWakeHour(ctx)
	require.NoError(t, err)
	assert.Equal(t, "06", f.Hour)
	assert.Equal(t, 2, f.Count)
}

func TestListByMonthAndYear(t *testing.T) {
	svc := NewSleepService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-01 22:00", WakeTime: "2024-05-02 06:00"}))
	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-06-01 22:00", WakeTime: "2024-06-02 06:00"}))
	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2023-05-01 22:00", WakeTime: "2023-05-02 06:00"}))

	may, err := svc.ListByMonth(ctx, 2024, 5)
	require.NoError(t, err)
	require.Len(t, may, 1)
	assert.Equal(t, "2024-05-01 22:00", may[0].SleepTime)

	year, err := svc.ListByYear(ctx, 2024)
	require.NoError(t, err)
	assert.Len(t, year, 2)

	none, err := svc.ListByMonth(ctx, 2025, 1)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDailySummary(t *testing.T) {
	svc := NewSleepService(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-01 01:00", WakeTime: "2024-05-01 05:00"})) // 4h
	require.NoError(t, svc.Create(ctx, models.SleepLogInput{SleepTime: "2024-05-01 22:00", WakeTime: "2024-05-02 06:00"})) // 8h

	summary, err := svc.DailySummary(ctx, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", summary.Date)
	assert.Equal(t, 2, summary.LogCount)
	assert.InDelta(t, 12.0, summary.TotalDuration, 0.001)
	assert.InDelta(t, 6.0, summary.AverageDuration, 0.001)
}

func TestDailySummaryEmpty(t *testing.T) {
	svc := NewSleepService(newTestDB(t))

	summary, err := svc.DailySummary(context.Background(), "2024-05-01")
	require.NoError(t, err)
	assert.Zero(t, summary.LogCount)
	assert.Zero(t, summary.TotalDuration)
	assert.Zero(t, summary.AverageDuration)
}
