package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	workorderapp "github.com/fieldops/backend/internal/application/workorder"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"
)

var _ workorderapp.ArchiveWriter = (*ZipArchiver)(nil)

// ZipArchiver writes image entries into a zip archive.
// Entries that cannot be opened are skipped and reported.
type ZipArchiver struct {
	now func() time.Time
}

// NewZipArchiver creates a new ZipArchiver
func NewZipArchiver() *ZipArchiver {
	return &ZipArchiver{now: time.Now}
}

// WriteArchive streams every entry into w as a zip file
func (a *ZipArchiver) WriteArchive(ctx context.Context, w io.Writer, entries []workorderapp.ArchiveEntry) (workorderapp.ArchiveSummary, error) {
	summary := workorderapp.ArchiveSummary{}
	zw := zip.NewWriter(w)
	names := make(map[string]int, len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			return summary, err
		}

		name := uniqueName(names, entry.Name)
		if err := a.writeEntry(ctx, zw, name, entry); err != nil {
			logger.L(ctx).Warn("Skipping image in archive",
				zap.String("name", entry.Name),
				zap.Error(err),
			)
			summary.Skipped = append(summary.Skipped, entry.Name)
			continue
		}
		summary.Written++
	}

	if err := zw.Close(); err != nil {
		return summary, fmt.Errorf("failed to finish archive: %w", err)
	}
	return summary, nil
}

func (a *ZipArchiver) writeEntry(ctx context.Context, zw *zip.Writer, name string, entry workorderapp.ArchiveEntry) error {
	body, err := entry.Open(ctx)
	if err != nil {
		return err
	}
	defer body.Close()

	// images are already compressed
	fw, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Store,
		Modified: a.now(),
	})
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, body)
	return err
}

// uniqueName returns name, or name with a numeric suffix when it was already used
func uniqueName(seen map[string]int, name string) string {
	name = strings.TrimLeft(path.Clean("/"+name), "/")
	if name == "" || name == "." {
		name = "image.jpg"
	}

	n := seen[name]
	seen[name] = n + 1
	if n == 0 {
		return name
	}

	ext := path.Ext(name)
	candidate := fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
	seen[candidate]++
	return candidate
}
