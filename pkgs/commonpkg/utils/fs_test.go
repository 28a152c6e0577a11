package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathExists(t *testing.T) {
	dir := t.TempDir()

	ok, err := PathExists(dir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = PathExists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnsureParentDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a", "b", "data.db")

	require.NoError(t, EnsureParentDir(target))

	info, err := os.Stat(filepath.Join(dir, "a", "b"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, EnsureParentDir("relative.db"))
}
