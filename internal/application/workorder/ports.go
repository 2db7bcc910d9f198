package workorder

import (
	"context"
	"io"
	"time"
)

// ImageStorage is the object store holding uploaded work order photos
type ImageStorage interface {
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	OpenObject(ctx context.Context, key string) (io.ReadCloser, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	DeleteObject(ctx context.Context, key string) error
}

// ImageFetcher downloads photos linked from the routing system
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// ArchiveEntry is one file of an image archive, opened lazily while writing
type ArchiveEntry struct {
	Name string
	Open func(ctx context.Context) (io.ReadCloser, error)
}

// ArchiveSummary reports what an archive run wrote
type ArchiveSummary struct {
	Written int
	Skipped []string
}

// ArchiveWriter streams entries into an archive on w
type ArchiveWriter interface {
	WriteArchive(ctx context.Context, w io.Writer, entries []ArchiveEntry) (ArchiveSummary, error)
}
