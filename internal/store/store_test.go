package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pioneer-academy/nmotrain/internal/catalog"
	"github.com/pioneer-academy/nmotrain/internal/flow"
	"github.com/pioneer-academy/nmotrain/internal/llm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSnapshot() flow.Snapshot {
	return flow.Snapshot{
		Phase:          "training",
		RoutingAnswers: map[string]string{"area": "Lima", "program": "PathwayConnect"},
		CatalogKey:     catalog.Key{Program: "PathwayConnect", Format: "Virtual"},
		CurrentNodeID:  "q_tech",
		VisitedHistory: []string{"welcome", "q_tech"},
		CompletedNodeIDs: []string{
			"welcome",
		},
		Answers: map[string]string{"welcome": ""},
		ConversationHistories: map[string][]flow.Turn{
			"q_tech": {{Answer: "zoom?", Feedback: "close, be specific"}},
		},
	}
}

func TestProgressRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveProgress(ctx, sampleSnapshot()))

	loaded, err := s.LoadProgress(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, sampleSnapshot(), *loaded)
}

func TestLoadProgressAbsent(t *testing.T) {
	s := openTestStore(t)

	loaded, err := s.LoadProgress(context.Background())
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestLoadProgressCorruptDataTreatedAsAbsent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.DB().ExecContext(ctx, `
		INSERT INTO progress (id, run_id, data, updated_at)
		VALUES (1, 'run', 'not json', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	loaded, err := s.LoadProgress(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestClearProgress(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveProgress(ctx, sampleSnapshot()))
	require.NoError(t, s.ClearProgress(ctx))

	loaded, err := s.LoadProgress(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)

	// Clearing an already-empty slot is fine.
	require.NoError(t, s.ClearProgress(ctx))
}

func TestSaveProgressKeepsRunID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveProgress(ctx, sampleSnapshot()))

	var first string
	require.NoError(t, s.DB().QueryRowContext(ctx,
		`SELECT run_id FROM progress WHERE id = 1`).Scan(&first))
	require.NotEmpty(t, first)

	snap := sampleSnapshot()
	snap.CurrentNodeID = "q_next"
	require.NoError(t, s.SaveProgress(ctx, snap))

	var second string
	require.NoError(t, s.DB().QueryRowContext(ctx,
		`SELECT run_id FROM progress WHERE id = 1`).Scan(&second))
	require.Equal(t, first, second, "run identity must survive re-saves")

	var count int
	require.NoError(t, s.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM progress`).Scan(&count))
	require.Equal(t, 1, count, "progress is a single slot")
}

func TestLLMRequestLog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries := []llm.RequestLogEntry{
		{Provider: "openai", Model: "gpt-4o-mini", InputTokens: 120, OutputTokens: 40, LatencyMs: 800, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", LatencyMs: 210, Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range entries {
		require.NoError(t, s.AppendLLMRequest(ctx, e))
	}

	records, err := s.RecentLLMRequests(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Most recent first.
	require.False(t, records[0].Success)
	require.Equal(t, "rate limited", records[0].ErrorMessage)
	require.True(t, records[1].Success)
	require.Equal(t, 120, records[1].InputTokens)
}

func TestRecentLLMRequestsHonorsLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendLLMRequest(ctx, llm.RequestLogEntry{
			Provider: "mock", Model: "mock", Success: true,
		}))
	}

	records, err := s.RecentLLMRequests(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.SaveProgress(context.Background(), sampleSnapshot()))
	require.NoError(t, s1.Close())

	// Re-opening an existing database must not lose the saved run.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	loaded, err := s2.LoadProgress(context.Background())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, "q_tech", loaded.CurrentNodeID)
}
