package site

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/provisioner/api"
)

func TestDeriveIdentity(t *testing.T) {
	tests := []struct {
		name        string
		companyName string
		wantSlug    string
	}{
		{"simple", "ACME Corp", "acmecorp"},
		{"punctuation stripped", "Fred's Soap & Candles!", "fredssoapcandles"},
		{"underscore kept", "acme_corp", "acme_corp"},
		{"digits kept", "Shop 24", "shop24"},
		{"already normalized", "acmecorp", "acmecorp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := DeriveIdentity(tt.companyName, "example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, id.Slug)
			assert.Equal(t, tt.wantSlug+".example.com", id.Address)
		})
	}
}

func TestDeriveIdentity_Idempotent(t *testing.T) {
	first, err := DeriveIdentity("Fred's Soap & Candles!", "example.com")
	require.NoError(t, err)

	// Normalizing an already-derived slug must not change it.
	second, err := DeriveIdentity(first.Slug, "example.com")
	require.NoError(t, err)
	assert.Equal(t, first.Slug, second.Slug)
}

func TestDeriveIdentity_EmptySlug(t *testing.T) {
	for _, name := range []string{"", "!!!", "...", " - "} {
		_, err := DeriveIdentity(name, "example.com")
		assert.ErrorIs(t, err, api.ErrInvalidIdentity, "company name %q", name)
	}
}

func TestIdentitySiteDir(t *testing.T) {
	id, err := DeriveIdentity("ACME Corp", "example.com")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/sites", "acmecorp.example.com"), id.SiteDir("/srv/sites"))
}
