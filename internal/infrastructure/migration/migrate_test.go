package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMigrations(t *testing.T) {
	t.Run("lists up files in version order", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"20260105120100_create_lancamentos.up.sql",
			"20260105120100_create_lancamentos.down.sql",
			"20260105120000_create_empresas_usuarios.up.sql",
			"20260105120000_create_empresas_usuarios.down.sql",
			"README.md",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0o755))

		got, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"20260105120000_create_empresas_usuarios",
			"20260105120100_create_lancamentos",
		}, got)
	})

	t.Run("missing directory is empty", func(t *testing.T) {
		got, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("repository migrations come in pairs", func(t *testing.T) {
		dir := filepath.Join("..", "..", "..", "migrations")
		got, err := ListMigrations(dir)
		require.NoError(t, err)
		require.NotEmpty(t, got)
		for _, base := range got {
			assert.FileExists(t, filepath.Join(dir, base+".down.sql"))
		}
	})
}
