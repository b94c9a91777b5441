package audit

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Record(context.Background(), Entry{Action: ActionExport}))
}

func TestMemory_Concurrent(t *testing.T) {
	var m Memory
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Record(context.Background(), Entry{Action: ActionIngest})
		}()
	}
	wg.Wait()

	assert.Len(t, m.Entries(), 20)
}

func TestMemory_EntriesIsCopy(t *testing.T) {
	var m Memory
	require.NoError(t, m.Record(context.Background(), Entry{SessionID: "a"}))

	got := m.Entries()
	got[0].SessionID = "changed"

	assert.Equal(t, "a", m.Entries()[0].SessionID)
}

func TestMemory_Recent(t *testing.T) {
	var m Memory
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, m.Record(context.Background(), Entry{SessionID: id}))
	}

	got, err := m.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].SessionID)
	assert.Equal(t, "b", got[1].SessionID)

	all, err := m.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// TestStore_RoundTrip runs against a real database when TEST_DATABASE_URL is set.
func TestStore_RoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := Open(ctx, url, 2)
	require.NoError(t, err)
	defer pool.Close()

	store := NewStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))

	session := uuid.NewString()
	require.NoError(t, store.Record(ctx, Entry{
		Action:       ActionExport,
		SessionID:    session,
		Source:       "serials.xlsx",
		Generation:   3,
		Records:      2,
		ImagesPlaced: 4,
		Pages:        1,
	}))

	entries, err := store.Recent(ctx, 100)
	require.NoError(t, err)

	var found *Entry
	for i := range entries {
		if entries[i].SessionID == session {
			found = &entries[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, ActionExport, found.Action)
	assert.Equal(t, uint64(3), found.Generation)
	assert.Equal(t, 4, found.ImagesPlaced)
	assert.NotEmpty(t, found.ID)
}
