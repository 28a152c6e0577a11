package chromemstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryEmptyCollection(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)

	results, err := s.Query(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestInsertAndQuery(t *testing.T) {
	ctx := context.Background()
	s, err := New(Config{Collection: "test"})
	require.NoError(t, err)

	require.NoError(t, s.Insert(ctx, "about bitcoin", []float32{1, 0, 0}))
	require.NoError(t, s.Insert(ctx, "about ethereum", []float32{0, 1, 0}))
	require.NoError(t, s.Insert(ctx, "mostly bitcoin", []float32{0.9, 0.1, 0}))
	assert.Equal(t, 3, s.Count())

	results, err := s.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "about bitcoin", results[0].Text)
	assert.InDelta(t, 0, results[0].Distance, 1e-5)
	assert.Equal(t, "mostly bitcoin", results[1].Text)
	assert.Greater(t, results[1].Distance, results[0].Distance)
}

func TestQueryClampsToCollectionSize(t *testing.T) {
	ctx := context.Background()
	s, err := New(Config{})
	require.NoError(t, err)
	require.NoError(t, s.Insert(ctx, "only one", []float32{0, 0, 1}))

	results, err := s.Query(ctx, []float32{0, 0, 1}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestPersistentCollection(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := New(Config{Path: dir, Collection: "persisted"})
	require.NoError(t, err)
	require.NoError(t, s.Insert(ctx, "stored on disk", []float32{0.6, 0.8}))

	reopened, err := New(Config{Path: dir, Collection: "persisted"})
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Count())
}

func TestInsertRejectsEmptyVector(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)
	assert.Error(t, s.Insert(context.Background(), "x", nil))
}
