package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/fieldops/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add work order tags", "add_work_order_tags"},
		{"Add-Material-Units", "add_material_units"},
		{"ADD__GROUP__COLOR", "add_group_color"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_init_schema.up.sql"), []byte("--"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_init_schema.down.sql"), []byte("--"), 0o644))

	mf, err := CreateMigration(dir, "add work order tags", "Tag work orders")
	require.NoError(t, err)
	assert.Equal(t, "000002", mf.Version)
	assert.Equal(t, filepath.Join(dir, "000002_add_work_order_tags.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "000002_add_work_order_tags.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Tag work orders")
	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")

	next, err := CreateMigration(dir, "second", "")
	require.NoError(t, err)
	assert.Equal(t, "000003", next.Version)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(dir, "init", "")
	require.NoError(t, err)
	assert.Equal(t, "000001", mf.Version)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestCreateMigration_RejectsUnnumberedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "init.up.sql"), []byte("--"), 0o644))

	_, err := CreateMigration(dir, "next", "")
	assert.ErrorContains(t, err, "no numeric version")
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_add_index.up.sql":     {Data: []byte("--")},
		"000002_add_index.down.sql":   {Data: []byte("--")},
		"000001_init_schema.up.sql":   {Data: []byte("--")},
		"000001_init_schema.down.sql": {Data: []byte("--")},
		"README.md":                   {Data: []byte("docs")},
		"subdir.up.sql/keep":          {Data: []byte("")},
	}

	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init_schema", "000002_add_index"}, names)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	names, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "000001_init_schema", names[0])

	up, err := migrations.FS.ReadFile("000001_init_schema.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "'Unassigned'")
	_, err = migrations.FS.ReadFile("000001_init_schema.down.sql")
	require.NoError(t, err)
}
