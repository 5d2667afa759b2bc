package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	entries, err := fs.ReadDir(Migrations(), ".")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		data, err := fs.ReadFile(Migrations(), e.Name())
		require.NoError(t, err)
		body := string(data)
		assert.True(t, strings.HasPrefix(body, "-- +goose Up"), e.Name())
		assert.Contains(t, body, "-- +goose Down", e.Name())
	}
}

func TestMigrations_CreateProfileTables(t *testing.T) {
	data, err := fs.ReadFile(Migrations(), "00001_create_profile_tables.sql")
	require.NoError(t, err)

	for _, col := range []string{
		"influencer_profiles", "business_profiles", "availability_status",
		"total_followers", "average_engagement_rate", "niches", "auto_match",
	} {
		assert.Contains(t, string(data), col)
	}
}
