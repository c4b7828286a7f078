package export

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"ytmanifest/collection"
	"ytmanifest/storage"
)

// Sentinel errors for export attempts rejected up front.
var (
	// ErrExportInProgress indicates a prior export is still in flight.
	ErrExportInProgress = errors.New("export: already in progress")
	// ErrNothingToExport indicates the collection is empty.
	ErrNothingToExport = errors.New("export: collection is empty")
)

// Fetcher retrieves thumbnail bytes for an entry's thumbnail URL.
type Fetcher interface {
	Fetch(ctx context.Context, thumbnailURL string) ([]byte, error)
}

// Exporter writes the manifest artifact and, when enabled, per-entry
// thumbnail artifacts. It is the only component that holds the store's
// export lock.
type Exporter struct {
	store   *collection.Store
	fetcher Fetcher

	// OutputDir is where artifacts are written. Defaults to ".".
	OutputDir string
	// LockTimeout bounds how long Export waits for the cross-process file
	// lock on the manifest path.
	LockTimeout time.Duration
}

// NewExporter creates an exporter over the given store and thumbnail fetcher.
func NewExporter(store *collection.Store, fetcher Fetcher) *Exporter {
	return &Exporter{
		store:       store,
		fetcher:     fetcher,
		OutputDir:   ".",
		LockTimeout: 5 * time.Second,
	}
}

// Export writes the manifest as <fileName>.txt in OutputDir and, when the
// store's thumbnail toggle is on, one <displayName>.jpg per entry with a
// fetchable thumbnail. Individual thumbnail failures are skipped.
//
// The export lock is held for the duration and released on every path.
// On success the extension-less fileName is returned.
func (x *Exporter) Export(ctx context.Context) (string, error) {
	if !x.store.BeginExport() {
		if x.store.Len() == 0 {
			return "", ErrNothingToExport
		}
		return "", ErrExportInProgress
	}
	defer x.store.EndExport()

	fileName := x.store.FileName()
	entries := x.store.Entries()
	content := RenderManifest(entries, x.store.Prefix())

	path := filepath.Join(x.OutputDir, fileName+".txt")
	if err := x.writeManifest(path, content); err != nil {
		log.Printf("export: %v", err)
		return "", err
	}

	if x.store.DownloadThumbnails() {
		x.downloadThumbnails(ctx, entries)
	}

	return fileName, nil
}

// writeManifest writes the manifest atomically, guarded by an advisory file
// lock so two processes exporting to the same path cannot interleave.
func (x *Exporter) writeManifest(path, content string) error {
	lock := storage.NewFileLock(path)
	if err := lock.Lock(x.LockTimeout); err != nil {
		return err
	}
	defer lock.Unlock()

	writer, err := storage.NewAtomicWriter(path)
	if err != nil {
		return &storage.StorageError{Op: "write", Entity: "manifest", ID: path, Err: err}
	}
	if _, err := io.WriteString(writer, content); err != nil {
		writer.Abort()
		return &storage.StorageError{Op: "write", Entity: "manifest", ID: path, Err: err}
	}
	if err := writer.Commit(); err != nil {
		return &storage.StorageError{Op: "write", Entity: "manifest", ID: path, Err: err}
	}
	return nil
}

// downloadThumbnails fetches and writes one image per entry with a
// thumbnail, in collection order. Failures are logged and skipped so one
// bad entry cannot abort the batch.
func (x *Exporter) downloadThumbnails(ctx context.Context, entries []collection.Entry) {
	for _, entry := range entries {
		if entry.ThumbnailURL == "" {
			continue
		}

		data, err := x.fetcher.Fetch(ctx, entry.ThumbnailURL)
		if err != nil {
			log.Printf("export: thumbnail for %q: %v", entry.DisplayName(), err)
			continue
		}

		path := filepath.Join(x.OutputDir, sanitizeFilename(entry.DisplayName())+".jpg")
		if err := os.WriteFile(path, data, 0644); err != nil {
			log.Printf("export: write thumbnail %s: %v", path, err)
			continue
		}
		x.store.AddThumbnailDownloaded()
	}
}
