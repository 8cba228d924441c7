package memory

import (
	"context"
	"testing"
	"time"

	"td-generator-be/internal/repository/contract"
	"td-generator-be/pkg/selection"
	"td-generator-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceRepositoryRoundTrip(t *testing.T) {
	repo := NewWorkspaceRepository(time.Minute)
	ctx := context.Background()

	ws := store.NewWorkspace("w1", true)
	ws.SelectScheme("blind", []string{"properties"})
	ws.SelectProperty("properties", []string{"a", "b"})
	ws.Board.Toggle("a")
	ws.Board.Toggle("a")
	require.NoError(t, repo.Save(ctx, ws))

	got, err := repo.Get(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "blind", got.ActiveScheme)
	assert.Equal(t, selection.Fixed, got.Board.State("a"))
	assert.True(t, got.Board.AllowFixed)
}

func TestWorkspaceRepositoryReturnsCopies(t *testing.T) {
	repo := NewWorkspaceRepository(time.Minute)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, store.NewWorkspace("w1", false)))

	got, err := repo.Get(ctx, "w1")
	require.NoError(t, err)
	got.ActiveNode = "changed"

	again, err := repo.Get(ctx, "w1")
	require.NoError(t, err)
	assert.Empty(t, again.ActiveNode)
}

func TestWorkspaceRepositoryNotFound(t *testing.T) {
	repo := NewWorkspaceRepository(time.Minute)
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, contract.ErrWorkspaceNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), contract.ErrWorkspaceNotFound)

	require.NoError(t, repo.Save(ctx, store.NewWorkspace("w1", false)))
	require.NoError(t, repo.Delete(ctx, "w1"))
	_, err = repo.Get(ctx, "w1")
	assert.ErrorIs(t, err, contract.ErrWorkspaceNotFound)
}

func TestWorkspaceRepositoryGetExtendsExpiry(t *testing.T) {
	repo := NewWorkspaceRepository(300 * time.Millisecond)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, store.NewWorkspace("w1", false)))

	for i := 0; i < 3; i++ {
		time.Sleep(200 * time.Millisecond)
		_, err := repo.Get(ctx, "w1")
		require.NoError(t, err, "read %d", i)
	}

	time.Sleep(400 * time.Millisecond)
	_, err := repo.Get(ctx, "w1")
	assert.ErrorIs(t, err, contract.ErrWorkspaceNotFound)
}
