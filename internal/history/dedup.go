package history

import (
	"log/slog"

	"github.com/clipvault/clipvault/internal/assetstore"
	"github.com/clipvault/clipvault/internal/record"
	"github.com/clipvault/clipvault/internal/recordlog"
)

// DedupPolicy enforces "at most one live record per fingerprint". It runs
// before a new record is appended: if a live record shares the incoming
// fingerprint, the old record and its image assets are evicted first. A
// crash between eviction and append can transiently lose one record; that
// trade-off is accepted.
type DedupPolicy struct {
	enabled bool
	log     *recordlog.Log
	assets  *assetstore.Store
	logger  *slog.Logger
}

// NewDedupPolicy creates the policy. When enabled is false BeforeInsert is
// a no-op.
func NewDedupPolicy(enabled bool, log *recordlog.Log, assets *assetstore.Store, logger *slog.Logger) *DedupPolicy {
	if logger == nil {
		logger = slog.Default()
	}
	return &DedupPolicy{enabled: enabled, log: log, assets: assets, logger: logger}
}

// Enabled reports whether deduplication is active.
func (p *DedupPolicy) Enabled() bool {
	return p.enabled
}

// BeforeInsert evicts any live record sharing fingerprint and returns it,
// or nil when no duplicate existed. Image assets of the evicted record are
// deleted best-effort.
func (p *DedupPolicy) BeforeInsert(fingerprint string) (*record.Record, error) {
	if !p.enabled {
		return nil, nil
	}

	records, err := p.log.ReadAll()
	if err != nil {
		return nil, err
	}

	var old *record.Record
	for _, rec := range records {
		if rec.Fingerprint == fingerprint {
			old = rec
			break
		}
	}
	if old == nil {
		return nil, nil
	}

	if _, err := p.log.DeleteByID(old.ID); err != nil {
		return nil, err
	}
	p.logger.Debug("evicted duplicate record", "id", old.ID, "fingerprint", fingerprint)

	p.assets.DeleteRecordAssets(old)
	return old, nil
}
