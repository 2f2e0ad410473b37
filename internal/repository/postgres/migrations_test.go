package postgres

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	d, err := iofs.New(migrationFiles, "migrations")
	require.NoError(t, err)
	defer d.Close()

	first, err := d.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	versions := []uint{first}
	for version := first; ; {
		next, err := d.Next(version)
		if err != nil {
			break
		}
		versions = append(versions, next)
		version = next
	}
	assert.Equal(t, []uint{1, 2}, versions)

	for _, version := range versions {
		up, _, err := d.ReadUp(version)
		require.NoError(t, err)
		up.Close()

		down, _, err := d.ReadDown(version)
		require.NoError(t, err)
		down.Close()
	}
}
