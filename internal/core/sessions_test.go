package core

import (
	"context"
	"testing"
	"time"

	"github.com/JonMunkholm/barcodesheet/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_GetOrCreate(t *testing.T) {
	store := NewSessionStore(time.Hour, symbol.DefaultOptions())

	c, created := store.GetOrCreate("")
	require.True(t, created)
	require.NotEmpty(t, c.ID())

	again, created := store.GetOrCreate(c.ID())
	assert.False(t, created)
	assert.Same(t, c, again)

	other, created := store.GetOrCreate("unknown-id")
	assert.True(t, created)
	assert.NotEqual(t, c.ID(), other.ID())
	assert.Equal(t, 2, store.Len())
}

func TestSessionStore_Get(t *testing.T) {
	store := NewSessionStore(time.Hour, symbol.DefaultOptions())

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	c := store.Create()
	got, err := store.Get(c.ID())
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestSessionStore_Sweep(t *testing.T) {
	now := time.Now()
	store := NewSessionStore(time.Minute, symbol.DefaultOptions())
	store.now = func() time.Time { return now }

	idle := store.Create()
	busy := store.Create()
	fresh := store.Create()

	idle.touch(now.Add(-2 * time.Minute))
	busy.touch(now.Add(-2 * time.Minute))
	fresh.touch(now)

	release, err := busy.beginExport()
	require.NoError(t, err)

	assert.Equal(t, 1, store.Sweep())

	_, err = store.Get(idle.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(fresh.ID())
	assert.NoError(t, err)
	_, err = store.Get(busy.ID())
	assert.NoError(t, err, "sessions with an export in flight are kept")

	release()
}

func TestSessionStore_RunStopsOnCancel(t *testing.T) {
	store := NewSessionStore(time.Millisecond, symbol.DefaultOptions())
	store.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
