package mood

import (
	"context"
	"testing"
	"time"

	"mindcare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMoodRepo struct {
	// keyed by userID+date, matching the store's one-entry-per-day rule
	entries map[string]*models.MoodEntry
}

func newFakeMoodRepo() *fakeMoodRepo {
	return &fakeMoodRepo{entries: map[string]*models.MoodEntry{}}
}

func (f *fakeMoodRepo) Upsert(ctx context.Context, entry *models.MoodEntry) error {
	f.entries[entry.UserID+"|"+entry.Date] = entry
	return nil
}

func (f *fakeMoodRepo) ListByUser(ctx context.Context, userID, fromDate, toDate string) ([]models.MoodEntry, error) {
	var out []models.MoodEntry
	for _, e := range f.entries {
		if e.UserID != userID {
			continue
		}
		if fromDate != "" && e.Date < fromDate {
			continue
		}
		if toDate != "" && e.Date > toDate {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func TestRecordValidatesMoodAndDate(t *testing.T) {
	svc := &DefaultMoodService{Repo: newFakeMoodRepo()}

	entry, err := svc.Record(context.Background(), "user-1", models.MoodGood, "walked outside", "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, 4, entry.Score)
	assert.Equal(t, "2026-08-30", entry.Date)

	_, err = svc.Record(context.Background(), "user-1", "ecstatic", "", "2026-08-30")
	assert.Error(t, err)

	_, err = svc.Record(context.Background(), "user-1", models.MoodGood, "", "30-08-2026")
	assert.Error(t, err)
}

func TestRecordDefaultsToToday(t *testing.T) {
	repo := newFakeMoodRepo()
	svc := &DefaultMoodService{Repo: repo}

	entry, err := svc.Record(context.Background(), "user-1", models.MoodNeutral, "", "")
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01-02"), entry.Date)
}

func TestRecordSameDateOverwrites(t *testing.T) {
	repo := newFakeMoodRepo()
	svc := &DefaultMoodService{Repo: repo}

	_, err := svc.Record(context.Background(), "user-1", models.MoodBad, "", "2026-08-30")
	require.NoError(t, err)
	_, err = svc.Record(context.Background(), "user-1", models.MoodVeryGood, "better now", "2026-08-30")
	require.NoError(t, err)

	entries, err := svc.History(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.MoodVeryGood, entries[0].Mood)
}

func TestSummaryAveragesTrailingWindow(t *testing.T) {
	repo := newFakeMoodRepo()
	svc := &DefaultMoodService{Repo: repo}

	today := time.Now()
	for i, mood := range []string{models.MoodBad, models.MoodNeutral, models.MoodVeryGood} {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		_, err := svc.Record(context.Background(), "user-1", mood, "", date)
		require.NoError(t, err)
	}
	// outside the window, must not count
	old := today.AddDate(0, 0, -30).Format("2006-01-02")
	_, err := svc.Record(context.Background(), "user-1", models.MoodVeryBad, "", old)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background(), "user-1", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, summary.Days)
	assert.Equal(t, 3, summary.Entries)
	assert.InDelta(t, (2.0+3.0+5.0)/3.0, summary.AverageScore, 0.001)
}

func TestSummaryEmptyHistory(t *testing.T) {
	svc := &DefaultMoodService{Repo: newFakeMoodRepo()}

	summary, err := svc.Summary(context.Background(), "user-1", 7)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Entries)
	assert.Zero(t, summary.AverageScore)
}
