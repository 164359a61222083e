package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typist/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "typist.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func sampleStats(i int, lang string) model.SessionStats {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
	end := start.Add(20 * time.Second)
	return model.SessionStats{
		AttemptID:       fmt.Sprintf("attempt-%d", i),
		StartedAt:       start,
		EndedAt:         end,
		Lang:            lang,
		Source:          "wordlist:" + lang,
		TextLength:      50,
		SkipWordOnSpace: true,
		CountErrors:     "everytime",
		Correct:         45 + i,
		Errors:          2,
		Keystrokes:      47 + i,
		Completed:       i%2 == 0,
		DurationMs:      end.Sub(start).Milliseconds(),
	}
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := st.InsertSession(ctx, sampleStats(i, "en"), []model.CharStats{
			{Char: "a", Correct: 3, Incorrect: 1, LatencySumMs: 400, LatencyCount: 2},
		})
		require.NoError(t, err)
	}
	_, err := st.InsertSession(ctx, sampleStats(3, "de"), nil)
	require.NoError(t, err)

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, all, 4)

	en, err := st.ListSessions(ctx, model.StatsConfig{Lang: "en"})
	require.NoError(t, err)
	require.Len(t, en, 3)
	first := en[0]
	require.Equal(t, "attempt-0", first.AttemptID)
	require.Equal(t, "en", first.Lang)
	require.Equal(t, 45, first.Correct)
	require.Equal(t, 2, first.Errors)
	require.Equal(t, 47, first.Keystrokes)
	require.True(t, first.Completed)
	require.False(t, en[1].Completed)
	require.EqualValues(t, 20000, first.DurationMs)
	require.True(t, first.EndedAt.Equal(sampleStats(0, "en").EndedAt))

	since := sampleStats(2, "en").EndedAt
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 2)
}

func TestInsertSessionRejectsDuplicateAttempt(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.InsertSession(ctx, sampleStats(0, "en"), []model.CharStats{{Char: "x", Correct: 1}})
	require.NoError(t, err)
	_, err = st.InsertSession(ctx, sampleStats(0, "en"), []model.CharStats{{Char: "y", Correct: 1}})
	require.Error(t, err)

	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	aggs, err := st.ListCharAggregatesForSessions(ctx, []int64{sessions[0].SessionID})
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	require.Equal(t, "x", aggs[0].Char)
}

func TestGetWeakCharsUsesRecentWindow(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := st.InsertSession(ctx, sampleStats(i, "en"), []model.CharStats{
			{Char: "q", Correct: i, Incorrect: 1},
		})
		require.NoError(t, err)
	}

	aggs, err := st.GetWeakChars(ctx, 2, "en")
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	require.Equal(t, 3, aggs[0].Correct, "window covers the two most recent sessions")
	require.Equal(t, 2, aggs[0].Incorrect)

	none, err := st.GetWeakChars(ctx, 0, "en")
	require.NoError(t, err)
	require.Nil(t, none)

	other, err := st.GetWeakChars(ctx, 5, "fr")
	require.NoError(t, err)
	require.Empty(t, other)
}
