package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/provisioner/api"
)

func TestAllocator_Allocate(t *testing.T) {
	root := t.TempDir()
	alloc := NewAllocator(root, discardLogger())

	id, err := DeriveIdentity("ACME Corp", "example.com")
	require.NoError(t, err)

	require.NoError(t, alloc.Allocate(id))

	dir := alloc.SiteDir(id)
	for _, sub := range []string{"", CustomPagesDir, UploadsDir} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestAllocator_DuplicateIsIdempotent(t *testing.T) {
	root := t.TempDir()
	alloc := NewAllocator(root, discardLogger())

	id, err := DeriveIdentity("ACME Corp", "example.com")
	require.NoError(t, err)
	require.NoError(t, alloc.Allocate(id))

	// Second claim for the same address must report the duplicate and
	// leave the directory untouched.
	marker := filepath.Join(alloc.SiteDir(id), "marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o644))

	err = alloc.Allocate(id)
	var dup *api.DuplicateSiteError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, id.Address, dup.Address)

	_, err = os.Stat(marker)
	assert.NoError(t, err)
}

func TestAllocator_Release(t *testing.T) {
	root := t.TempDir()
	alloc := NewAllocator(root, discardLogger())

	id, err := DeriveIdentity("ACME Corp", "example.com")
	require.NoError(t, err)
	require.NoError(t, alloc.Allocate(id))
	require.NoError(t, alloc.Release(id))

	_, err = os.Stat(alloc.SiteDir(id))
	assert.True(t, os.IsNotExist(err))

	// The address can be claimed again after release.
	assert.NoError(t, alloc.Allocate(id))
}
