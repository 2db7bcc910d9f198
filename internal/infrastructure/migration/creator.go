package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const (
	upSuffix     = ".up.sql"
	downSuffix   = ".down.sql"
	versionWidth = 6
)

var upTemplate = template.Must(template.New("up").Parse(`-- Migration: {{.Name}}
-- Created: {{.Timestamp}}
-- Description: {{.Description}}

`))

var downTemplate = template.Must(template.New("down").Parse(`-- Migration: {{.Name}} (Rollback)
-- Created: {{.Timestamp}}

`))

// MigrationFile describes a generated up/down pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes the next numbered migration pair into migrationsDir,
// e.g. 000002_add_work_order_tags.up.sql after 000001_init_schema
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, errors.New("migration name must contain letters or digits")
	}
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(os.DirFS(migrationsDir))
	if err != nil {
		return nil, err
	}
	next, err := nextVersion(existing)
	if err != nil {
		return nil, err
	}

	version := fmt.Sprintf("%0*d", versionWidth, next)
	base := version + "_" + slug
	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		Timestamp:   time.Now().Format(time.RFC3339),
		UpPath:      filepath.Join(migrationsDir, base+upSuffix),
		DownPath:    filepath.Join(migrationsDir, base+downSuffix),
	}

	if err := writeTemplate(mf.UpPath, upTemplate, mf); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := writeTemplate(mf.DownPath, downTemplate, mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return mf, nil
}

// ListMigrations returns the base names of the up migrations in fsys, in version order.
// A missing directory yields an empty list.
func ListMigrations(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), upSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), upSuffix))
	}
	sort.Strings(names)
	return names, nil
}

func nextVersion(existing []string) (int, error) {
	highest := 0
	for _, name := range existing {
		prefix, _, _ := strings.Cut(name, "_")
		v, err := strconv.Atoi(prefix)
		if err != nil {
			return 0, fmt.Errorf("migration %q has no numeric version", name)
		}
		if v > highest {
			highest = v
		}
	}
	return highest + 1, nil
}

func writeTemplate(path string, tmpl *template.Template, data *MigrationFile) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()
	return tmpl.Execute(f, data)
}

// sanitizeName lower-cases name and collapses separators into single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}
