package history

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/clipvault/clipvault/internal/assetstore"
	"github.com/clipvault/clipvault/internal/record"
	"github.com/clipvault/clipvault/internal/recordlog"
)

// IngestOptions configures the ingestion paths.
type IngestOptions struct {
	// TextPreviewMaxLength bounds text previews; longer text is truncated
	// and suffixed with "...".
	TextPreviewMaxLength int
	// SensitiveKeywords rejects text payloads containing any keyword
	// (case-insensitive substring). Rejected payloads are skipped silently.
	SensitiveKeywords []string
}

// DefaultIngestOptions mirrors the application defaults.
func DefaultIngestOptions() IngestOptions {
	return IngestOptions{TextPreviewMaxLength: 100}
}

// Ingestor turns raw clipboard payloads into appended history records,
// applying preview truncation, asset persistence and deduplication.
type Ingestor struct {
	log    *recordlog.Log
	assets *assetstore.Store
	dedup  *DedupPolicy
	opts   IngestOptions
	logger *slog.Logger
}

// NewIngestor wires an ingestor over the log, asset store and dedup policy.
func NewIngestor(log *recordlog.Log, assets *assetstore.Store, dedup *DedupPolicy, opts IngestOptions, logger *slog.Logger) *Ingestor {
	if opts.TextPreviewMaxLength <= 0 {
		opts.TextPreviewMaxLength = DefaultIngestOptions().TextPreviewMaxLength
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{log: log, assets: assets, dedup: dedup, opts: opts, logger: logger}
}

// IngestText persists a text snapshot. Returns (nil, nil) when the text was
// rejected by the sensitive-keyword predicate; no record is created.
func (in *Ingestor) IngestText(text string) (*record.Record, error) {
	if containsSensitive(text, in.opts.SensitiveKeywords) {
		in.logger.Debug("text contains sensitive keyword, skipping")
		return nil, nil
	}

	fingerprint := record.FingerprintText(text)
	if _, err := in.dedup.BeforeInsert(fingerprint); err != nil {
		return nil, fmt.Errorf("failed to deduplicate text: %w", err)
	}

	rec := &record.Record{
		ID:          record.NewID(record.KindText),
		Kind:        record.KindText,
		Content:     text,
		Preview:     TruncatePreview(text, in.opts.TextPreviewMaxLength),
		Fingerprint: fingerprint,
		CreatedAt:   record.Now(),
	}

	if err := in.log.Append(rec); err != nil {
		return nil, fmt.Errorf("failed to append text record: %w", err)
	}
	return rec, nil
}

// IngestImage persists an image snapshot. The asset store computes the
// canonical fingerprint from the raw bytes; the watcher's quick in-memory
// hash is only used for tick-to-tick change detection and plays no part
// here.
func (in *Ingestor) IngestImage(raw []byte) (*record.Record, error) {
	saved, err := in.assets.SaveImage(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to save image assets: %w", err)
	}

	if _, err := in.dedup.BeforeInsert(saved.Fingerprint); err != nil {
		in.discardAssets(saved)
		return nil, fmt.Errorf("failed to deduplicate image: %w", err)
	}

	meta := saved.Metadata
	rec := &record.Record{
		ID:            record.NewID(record.KindImage),
		Kind:          record.KindImage,
		Content:       saved.OriginalPath,
		Preview:       fmt.Sprintf("%dx%d", meta.Width, meta.Height),
		ThumbnailPath: saved.ThumbnailPath,
		OriginalPath:  saved.OriginalPath,
		Fingerprint:   saved.Fingerprint,
		CreatedAt:     record.Now(),
		Metadata: map[string]any{
			"width":           meta.Width,
			"height":          meta.Height,
			"thumbnailWidth":  meta.ThumbnailWidth,
			"thumbnailHeight": meta.ThumbnailHeight,
		},
	}

	if err := in.log.Append(rec); err != nil {
		in.discardAssets(saved)
		return nil, fmt.Errorf("failed to append image record: %w", err)
	}
	return rec, nil
}

// discardAssets removes a saved original+thumbnail pair that never made it
// into the log, so a failed ingest leaves no orphaned files.
func (in *Ingestor) discardAssets(saved *assetstore.SavedImage) {
	if _, err := in.assets.Delete(saved.OriginalPath); err != nil {
		in.logger.Warn("failed to remove unreferenced image", "path", saved.OriginalPath, "error", err)
	}
	if _, err := in.assets.Delete(saved.ThumbnailPath); err != nil {
		in.logger.Warn("failed to remove unreferenced thumbnail", "path", saved.ThumbnailPath, "error", err)
	}
}

// TruncatePreview bounds text to maxLen characters, appending "..." when
// truncation occurred. Text at or under the bound is preserved verbatim.
// Counts runes, not bytes, so multi-byte text is never split mid-character.
func TruncatePreview(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}

// containsSensitive reports whether text contains any keyword,
// case-insensitively.
func containsSensitive(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
