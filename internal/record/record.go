// Package record defines the clipboard history record type, its identifier
// scheme, and the content fingerprint used for deduplication and poll-to-poll
// change detection.
package record

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind identifies what a record holds.
type Kind string

const (
	// KindText is a plain-text clipboard snapshot.
	KindText Kind = "text"
	// KindImage is an image snapshot; Content holds the original asset path.
	KindImage Kind = "image"
	// KindFile is reserved for future use and never produced by ingestion.
	KindFile Kind = "file"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindImage, KindFile:
		return true
	}
	return false
}

// Record is one observed clipboard snapshot.
//
// For text records Content is the full text. For image records Content equals
// OriginalPath and Preview is a "<width>x<height>" dimension string.
// Category, Tags and Metadata are not populated by the ingestion path but are
// preserved round-trip by the log.
type Record struct {
	ID            string         `json:"id"`
	Kind          Kind           `json:"kind"`
	Content       string         `json:"content"`
	Preview       string         `json:"preview"`
	ThumbnailPath string         `json:"thumbnailPath,omitempty"`
	OriginalPath  string         `json:"originalPath,omitempty"`
	Fingerprint   string         `json:"fingerprint"`
	CreatedAt     int64          `json:"createdAt"`
	Category      string         `json:"category,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// IsImage reports whether the record references image assets.
func (r *Record) IsImage() bool {
	return r.Kind == KindImage
}

// CreatedTime returns CreatedAt as a time.Time.
func (r *Record) CreatedTime() time.Time {
	return time.UnixMilli(r.CreatedAt)
}

// NewID generates a unique identifier for a record of the given kind.
// IDs are of the form "<kind>_<ULID>"; the ULID embeds the creation time
// followed by random entropy, so IDs sort in creation order and never
// collide across rapid successive calls.
func NewID(kind Kind) string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
	return string(kind) + "_" + id.String()
}

// Now returns the current time as epoch milliseconds, the unit used by
// Record.CreatedAt.
func Now() int64 {
	return time.Now().UnixMilli()
}
