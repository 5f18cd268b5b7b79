package history

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/clipvault/clipvault/internal/assetstore"
	"github.com/clipvault/clipvault/internal/clipboard"
	"github.com/clipvault/clipvault/internal/record"
	"github.com/clipvault/clipvault/internal/recordlog"
)

// RetentionOptions bounds history growth. Zero values disable a bound.
type RetentionOptions struct {
	// MaxRecords caps the live record count; the oldest records beyond the
	// cap are evicted with their assets.
	MaxRecords int
	// ExpirationDays purges records older than the horizon.
	ExpirationDays int
}

// Service is the API surface exposed to UI and CLI collaborators. It owns
// the record log, the asset store, the dedup policy and the ingestion
// paths, and coordinates them with the host clipboard.
type Service struct {
	log     *recordlog.Log
	assets  *assetstore.Store
	clip    clipboard.Clipboard
	ingest  *Ingestor
	dedup   *DedupPolicy
	retain  RetentionOptions
	logger  *slog.Logger
	onClear func()
}

// NewService wires a service over its collaborators.
func NewService(log *recordlog.Log, assets *assetstore.Store, clip clipboard.Clipboard, dedup *DedupPolicy, ingest *Ingestor, retain RetentionOptions, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		log:    log,
		assets: assets,
		clip:   clip,
		ingest: ingest,
		dedup:  dedup,
		retain: retain,
		logger: logger,
	}
}

// Prepare creates the asset directory ahead of polling. The watcher calls
// this on Start.
func (s *Service) Prepare() error {
	return s.assets.Init()
}

// SetOnClear registers a hook invoked after a successful ClearAll, used to
// reset the watcher's last-seen state so re-copied content is treated as
// new.
func (s *Service) SetOnClear(fn func()) {
	s.onClear = fn
}

// IngestText runs the text ingestion path and then enforces retention.
// Returns (nil, nil) when the payload was rejected.
func (s *Service) IngestText(text string) (*record.Record, error) {
	rec, err := s.ingest.IngestText(text)
	if err != nil || rec == nil {
		return rec, err
	}
	s.enforceRetention()
	return rec, nil
}

// IngestImage runs the image ingestion path and then enforces retention.
func (s *Service) IngestImage(raw []byte) (*record.Record, error) {
	rec, err := s.ingest.IngestImage(raw)
	if err != nil {
		return nil, err
	}
	s.enforceRetention()
	return rec, nil
}

// AddRecord appends an externally constructed record, filling in id,
// fingerprint and timestamp defaults. Used by the explicit add path.
func (s *Service) AddRecord(rec *record.Record) error {
	if rec == nil {
		return fmt.Errorf("nil record")
	}
	if !rec.Kind.Valid() {
		return fmt.Errorf("invalid record kind: %q", rec.Kind)
	}
	if rec.ID == "" {
		rec.ID = record.NewID(rec.Kind)
	}
	if rec.Fingerprint == "" {
		// A text fingerprint of an image record would hash its path, not
		// its pixels, and identical clipboard images would never dedup
		// against it. Callers must fingerprint image content themselves.
		if rec.IsImage() {
			return fmt.Errorf("image records require a content fingerprint")
		}
		rec.Fingerprint = record.FingerprintText(rec.Content)
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = record.Now()
	}
	if _, err := s.dedup.BeforeInsert(rec.Fingerprint); err != nil {
		return err
	}
	if err := s.log.Append(rec); err != nil {
		return err
	}
	s.enforceRetention()
	return nil
}

// QueryRecords returns a filtered, sorted, paginated record listing.
func (s *Service) QueryRecords(opts QueryOptions) ([]*record.Record, error) {
	records, err := s.log.ReadAll()
	if err != nil {
		return nil, err
	}
	return Query(records, opts), nil
}

// SearchRecords returns records matching the keyword; a blank keyword falls
// back to the default query.
func (s *Service) SearchRecords(keyword string) ([]*record.Record, error) {
	records, err := s.log.ReadAll()
	if err != nil {
		return nil, err
	}
	return Search(records, keyword), nil
}

// GetRecord returns the record with the given id, or nil when absent.
func (s *Service) GetRecord(id string) (*record.Record, error) {
	records, err := s.log.ReadAll()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, nil
}

// DeleteRecord removes a record and, for images, both of its assets. The
// log delete happens first; if it fails or matches nothing, assets are not
// touched, so from the caller's perspective the operation is all-or-nothing.
func (s *Service) DeleteRecord(id string) bool {
	rec, err := s.GetRecord(id)
	if err != nil {
		s.logger.Warn("failed to look up record for delete", "id", id, "error", err)
		return false
	}
	if rec == nil {
		return false
	}

	deleted, err := s.log.DeleteByID(id)
	if err != nil {
		s.logger.Warn("failed to delete record", "id", id, "error", err)
		return false
	}
	if !deleted {
		return false
	}

	s.assets.DeleteRecordAssets(rec)
	return true
}

// ClearAll deletes every image asset, truncates the log, clears the live OS
// clipboard and resets the watcher's history. Returns true only if both the
// log clear and the clipboard clear succeeded. A crash mid-clear can leave
// the log referencing already-deleted assets; that partial failure is
// accepted and not compensated.
func (s *Service) ClearAll() bool {
	records, err := s.log.ReadAll()
	if err != nil {
		s.logger.Warn("failed to read log before clear", "error", err)
	}
	for _, rec := range records {
		s.assets.DeleteRecordAssets(rec)
	}

	logCleared := true
	if err := s.log.Clear(); err != nil {
		s.logger.Warn("failed to clear record log", "error", err)
		logCleared = false
	}

	clipCleared := true
	if err := s.clip.Clear(); err != nil {
		s.logger.Warn("failed to clear system clipboard", "error", err)
		clipCleared = false
	}

	if s.onClear != nil {
		s.onClear()
	}

	return logCleared && clipCleared
}

// GetFullImage returns the original asset as a data-URL base64 string. It
// propagates failures: the caller has no sensible fallback to render.
func (s *Service) GetFullImage(path string) (string, error) {
	return s.assets.ReadAsBase64(path)
}

// GetThumbnail returns the derived asset as a data-URL base64 string.
func (s *Service) GetThumbnail(path string) (string, error) {
	return s.assets.ReadAsBase64(path)
}

// CopyFullImage writes the original asset back to the OS clipboard.
func (s *Service) CopyFullImage(path string) bool {
	raw, err := s.assets.Read(path)
	if err != nil {
		s.logger.Warn("failed to read image for copy", "path", path, "error", err)
		return false
	}
	if err := s.clip.WriteImage(raw); err != nil {
		s.logger.Warn("failed to write image to clipboard", "error", err)
		return false
	}
	return true
}

// CopyText writes text to the OS clipboard.
func (s *Service) CopyText(text string) bool {
	if err := s.clip.WriteText(text); err != nil {
		s.logger.Warn("failed to write text to clipboard", "error", err)
		return false
	}
	return true
}

// CheckDuplicate reports whether a live record with the fingerprint exists.
func (s *Service) CheckDuplicate(fingerprint string) (bool, error) {
	records, err := s.log.ReadAll()
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.Fingerprint == fingerprint {
			return true, nil
		}
	}
	return false, nil
}

// enforceRetention applies the record-count cap and the expiration horizon.
// Failures are logged and swallowed; retention is bookkeeping, not part of
// the ingest contract.
func (s *Service) enforceRetention() {
	if s.retain.MaxRecords <= 0 && s.retain.ExpirationDays <= 0 {
		return
	}

	records, err := s.log.ReadAll()
	if err != nil {
		s.logger.Warn("failed to read log for retention", "error", err)
		return
	}

	var doomed []*record.Record

	if s.retain.ExpirationDays > 0 {
		horizon := time.Now().AddDate(0, 0, -s.retain.ExpirationDays).UnixMilli()
		var live []*record.Record
		for _, rec := range records {
			if rec.CreatedAt < horizon {
				doomed = append(doomed, rec)
			} else {
				live = append(live, rec)
			}
		}
		records = live
	}

	if s.retain.MaxRecords > 0 && len(records) > s.retain.MaxRecords {
		sorted := append([]*record.Record(nil), records...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt < sorted[j].CreatedAt
		})
		doomed = append(doomed, sorted[:len(records)-s.retain.MaxRecords]...)
	}

	for _, rec := range doomed {
		if _, err := s.log.DeleteByID(rec.ID); err != nil {
			s.logger.Warn("failed to evict record during retention", "id", rec.ID, "error", err)
			continue
		}
		s.assets.DeleteRecordAssets(rec)
	}
}
