package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidhik/internal/domain"
	"vidhik/internal/domain/models"
	"vidhik/internal/domain/repositories"
)

var lease = models.Document{Name: "lease.txt", Content: "data:text/plain;base64,cmVudA=="}

func TestHistoryStore_CreateAssignsUniqueIDs(t *testing.T) {
	store := NewHistoryStore()
	fixed := time.UnixMilli(1_700_000_000_000)
	store.now = func() time.Time { return fixed }

	ctx := context.Background()
	seen := make(map[int64]bool)
	for i := 0; i < 50; i++ {
		id, err := store.Create(ctx, models.NewChatSession(lease))
		require.NoError(t, err)
		assert.False(t, seen[id], "id %d issued twice", id)
		seen[id] = true
	}
	assert.Equal(t, 50, store.Len())
}

func TestHistoryStore_CreateConcurrent(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make(chan int64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := store.Create(ctx, models.NewChatSession(lease))
			if err == nil {
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		require.False(t, seen[id])
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestHistoryStore_NewestFirst(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	first, err := store.Create(ctx, models.NewChatSession(lease))
	require.NoError(t, err)
	second, err := store.Create(ctx, models.NewCompareSession(lease, lease, &models.Comparison{Summary: "same"}))
	require.NoError(t, err)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].SessionID())
	assert.Equal(t, first, list[1].SessionID())
	assert.Equal(t, models.SessionKindCompare, list[0].Kind())
}

func TestHistoryStore_GetNewSessionHasNoAnalysis(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	id, err := store.Create(ctx, models.NewChatSession(lease))
	require.NoError(t, err)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	chat, ok := got.(*models.ChatSession)
	require.True(t, ok)
	assert.Nil(t, chat.Analysis)
	assert.Empty(t, chat.Messages)
	assert.Equal(t, lease, chat.Document)
}

func TestHistoryStore_UpdateAnalysisOnce(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	id, err := store.Create(ctx, models.NewChatSession(lease))
	require.NoError(t, err)

	analysis := &models.Analysis{Summary: "## Lease", Risks: []models.Risk{{Clause: "Late fee", Level: models.RiskHigh}}}
	updated, err := store.Update(ctx, id, repositories.SessionPatch{Analysis: analysis})
	require.NoError(t, err)
	assert.Equal(t, analysis, updated.(*models.ChatSession).Analysis)

	_, err = store.Update(ctx, id, repositories.SessionPatch{Analysis: &models.Analysis{Summary: "other"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "## Lease", got.(*models.ChatSession).Analysis.Summary)
}

func TestHistoryStore_UpdateUnknownID(t *testing.T) {
	store := NewHistoryStore()
	_, err := store.Update(context.Background(), 42, repositories.SessionPatch{
		AppendMessages: []models.Message{{Role: models.RoleUser, Text: "hi"}},
	})
	require.Error(t, err)

	var notFound *domain.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestHistoryStore_UpdateRejectsWrongVariant(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	id, err := store.Create(ctx, models.NewCompareSession(lease, lease, nil))
	require.NoError(t, err)

	_, err = store.Update(ctx, id, repositories.SessionPatch{
		AppendMessages: []models.Message{{Role: models.RoleUser, Text: "hi"}},
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = store.Update(ctx, id, repositories.SessionPatch{Comparison: &models.Comparison{Summary: "diff"}})
	require.NoError(t, err)
}

func TestHistoryStore_ReturnedSessionsAreCopies(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	id, err := store.Create(ctx, models.NewChatSession(lease))
	require.NoError(t, err)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	got.(*models.ChatSession).Messages = append(got.(*models.ChatSession).Messages, models.Message{Role: models.RoleUser, Text: "sneaky"})

	again, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, again.(*models.ChatSession).Messages)
}

func TestHistoryStore_ClearIsTotal(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := store.Create(ctx, models.NewChatSession(lease))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, 0, store.Len())
	for _, id := range ids {
		_, err := store.Get(ctx, id)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	}

	// ids are not reused after a clear
	next, err := store.Create(ctx, models.NewChatSession(lease))
	require.NoError(t, err)
	for _, id := range ids {
		assert.Greater(t, next, id)
	}
}
