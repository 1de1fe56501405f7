package repository

import (
	"context"
	"testing"

	"diceroyale/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBagRepository_AddListRemove(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewBagRepository(testDB.DB)
	ctx := context.Background()

	first, second := testutil.SeededProductIDs[0], testutil.SeededProductIDs[2]

	added, err := repo.Add(ctx, "session-a", first)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(ctx, "session-a", first)
	require.NoError(t, err)
	assert.False(t, added, "duplicates are ignored")

	_, err = repo.Add(ctx, "session-a", second)
	require.NoError(t, err)
	_, err = repo.Add(ctx, "session-b", second)
	require.NoError(t, err)

	items, err := repo.List(ctx, "session-a")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first, items[0].Product.ID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, int64(49900), items[0].Product.Price)

	removed, err := repo.Remove(ctx, "session-a", first)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, "session-a", first)
	require.NoError(t, err)
	assert.False(t, removed)

	items, err = repo.List(ctx, "session-a")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second, items[0].Product.ID)

	other, err := repo.List(ctx, "session-b")
	require.NoError(t, err)
	assert.Len(t, other, 1, "sessions are isolated")
}

func TestBagRepository_UnknownProduct(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewBagRepository(testDB.DB)

	_, err := repo.Add(context.Background(), "session-a", "00000000-0000-0000-0000-000000000000")
	assert.Error(t, err, "foreign key violation")
}
