// Package assetstore persists image assets for the clipboard history: the
// full-resolution original and a size-bounded thumbnail, stored under a
// single lazily-created directory and addressed by filesystem path.
package assetstore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/clipvault/clipvault/internal/record"
)

// ErrNotFound is returned when a requested asset path does not exist.
var ErrNotFound = errors.New("asset not found")

// ImageMetadata describes the dimensions of a saved image pair.
type ImageMetadata struct {
	Width           int
	Height          int
	ThumbnailWidth  int
	ThumbnailHeight int
}

// SavedImage is the result of persisting one clipboard image.
type SavedImage struct {
	OriginalPath  string
	ThumbnailPath string
	Fingerprint   string
	Metadata      ImageMetadata
}

// Options configures asset naming and thumbnail bounds.
type Options struct {
	// FilePrefix is prepended to every asset filename.
	FilePrefix string
	// ThumbnailMaxWidth and ThumbnailMaxHeight bound the derived asset.
	ThumbnailMaxWidth  int
	ThumbnailMaxHeight int
	// KeepAspectRatio scales proportionally; when false the thumbnail is
	// stretched to exactly the configured bounds.
	KeepAspectRatio bool
}

// DefaultOptions mirrors the application defaults.
func DefaultOptions() Options {
	return Options{
		FilePrefix:         "clipboard",
		ThumbnailMaxWidth:  200,
		ThumbnailMaxHeight: 200,
		KeepAspectRatio:    true,
	}
}

// Store manages the asset directory. The directory is created at most once
// per Store regardless of how many entry points race into it.
type Store struct {
	dir     string
	opts    Options
	logger  *slog.Logger
	initErr error
	once    sync.Once
}

// New creates a store rooted at dir. The directory is not created until the
// first operation that needs it.
func New(dir string, opts Options, logger *slog.Logger) *Store {
	if opts.ThumbnailMaxWidth <= 0 {
		opts.ThumbnailMaxWidth = 200
	}
	if opts.ThumbnailMaxHeight <= 0 {
		opts.ThumbnailMaxHeight = 200
	}
	if opts.FilePrefix == "" {
		opts.FilePrefix = "clipboard"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, opts: opts, logger: logger}
}

// Dir returns the asset directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Init creates the asset directory if needed. Safe to call from multiple
// entry points; the mkdir runs at most once.
func (s *Store) Init() error {
	s.once.Do(func() {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			s.initErr = fmt.Errorf("failed to create asset directory: %w", err)
		}
	})
	return s.initErr
}

// SaveImage persists raw image bytes as an original plus a bounded
// thumbnail. The fingerprint is computed over the raw bytes and is the
// canonical dedup identity for the image. Filenames embed a
// nanosecond-resolution timestamp so rapid successive saves never collide.
func (s *Store) SaveImage(raw []byte) (*SavedImage, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}

	fingerprint := record.Fingerprint(raw)

	stamp := timestamp()
	originalPath := filepath.Join(s.dir, fmt.Sprintf("%s_image_%s.png", s.opts.FilePrefix, stamp))
	thumbnailPath := filepath.Join(s.dir, fmt.Sprintf("%s_thumb_%s.png", s.opts.FilePrefix, stamp))

	thumb, meta, err := makeThumbnail(raw, s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate thumbnail: %w", err)
	}

	if err := os.WriteFile(originalPath, raw, 0644); err != nil {
		return nil, fmt.Errorf("failed to write original image: %w", err)
	}
	if err := os.WriteFile(thumbnailPath, thumb, 0644); err != nil {
		// Don't leave a half-saved pair behind.
		os.Remove(originalPath)
		return nil, fmt.Errorf("failed to write thumbnail: %w", err)
	}

	return &SavedImage{
		OriginalPath:  originalPath,
		ThumbnailPath: thumbnailPath,
		Fingerprint:   fingerprint,
		Metadata:      meta,
	}, nil
}

// Read returns an asset's raw bytes. Returns ErrNotFound when the path is
// absent.
func (s *Store) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read asset: %w", err)
	}
	return data, nil
}

// ReadAsBase64 reads an asset and returns it as a data-URL-prefixed base64
// string ready for display. Returns ErrNotFound when the path is absent.
func (s *Store) ReadAsBase64(path string) (string, error) {
	data, err := s.Read(path)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Delete removes an asset by path. Returns false, not an error, when the
// path was already absent: eviction and explicit delete can race against a
// prior successful delete, so absence is a normal outcome.
func (s *Store) Delete(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to delete asset: %w", err)
}

// DeleteRecordAssets removes both asset paths referenced by an image record,
// best-effort. Failures are logged and swallowed; surfacing them would block
// an otherwise successful delete of the primary record.
func (s *Store) DeleteRecordAssets(rec *record.Record) {
	if rec == nil || !rec.IsImage() {
		return
	}
	for _, path := range []string{rec.OriginalPath, rec.ThumbnailPath} {
		if path == "" {
			continue
		}
		if _, err := s.Delete(path); err != nil {
			s.logger.Warn("failed to delete image asset", "path", path, "error", err)
		}
	}
}

// timestamp produces a filename-safe timestamp with a nanosecond
// disambiguator so two saves within the same second stay distinct.
func timestamp() string {
	now := time.Now()
	return fmt.Sprintf("%s_%09d", now.Format("20060102_150405"), now.Nanosecond())
}
