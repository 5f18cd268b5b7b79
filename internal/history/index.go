// Package history holds the query layer, deduplication policy, ingestion
// paths and the service facade over the record log and asset store.
package history

import (
	"sort"
	"strings"

	"github.com/clipvault/clipvault/internal/record"
)

// Sort fields accepted by QueryOptions.SortBy.
const (
	SortByCreatedAt = "createdAt"
	SortByKind      = "kind"
)

// Sort orders accepted by QueryOptions.Order.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// DefaultQueryLimit is applied when QueryOptions.Limit is unset.
const DefaultQueryLimit = 100

// QueryOptions filters, sorts and paginates a record listing.
type QueryOptions struct {
	// Kind restricts results to one record kind when non-empty.
	Kind record.Kind
	// Category restricts results to one category when non-empty.
	Category string
	// Limit caps the page size; 0 means DefaultQueryLimit.
	Limit int
	// Offset skips that many records after filtering and sorting.
	Offset int
	// SortBy is the sort field, SortByCreatedAt when empty.
	SortBy string
	// Order is OrderAsc or OrderDesc, OrderDesc when empty.
	Order string
}

// Query filters, sorts and paginates records. The sort is stable, so records
// with equal sort keys keep their log (insertion) order. An offset past the
// end yields an empty page.
func Query(records []*record.Record, opts QueryOptions) []*record.Record {
	filtered := make([]*record.Record, 0, len(records))
	for _, rec := range records {
		if opts.Kind != "" && rec.Kind != opts.Kind {
			continue
		}
		if opts.Category != "" && rec.Category != opts.Category {
			continue
		}
		filtered = append(filtered, rec)
	}

	desc := opts.Order != OrderAsc
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = SortByCreatedAt
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		var less bool
		switch sortBy {
		case SortByKind:
			less = filtered[i].Kind < filtered[j].Kind
		default:
			less = filtered[i].CreatedAt < filtered[j].CreatedAt
		}
		if desc {
			return !less && !equalKey(filtered[i], filtered[j], sortBy)
		}
		return less
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	if offset >= len(filtered) {
		return nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end]
}

// equalKey reports whether two records compare equal on the sort field.
func equalKey(a, b *record.Record, sortBy string) bool {
	switch sortBy {
	case SortByKind:
		return a.Kind == b.Kind
	default:
		return a.CreatedAt == b.CreatedAt
	}
}

// Search returns records whose content, preview or any tag contains the
// keyword, case-insensitively, in log order. A blank keyword means "no
// filter" and falls back to the default query.
func Search(records []*record.Record, keyword string) []*record.Record {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return Query(records, QueryOptions{})
	}

	needle := strings.ToLower(keyword)
	var matched []*record.Record
	for _, rec := range records {
		if matchesKeyword(rec, needle) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// matchesKeyword checks one record against a lowercased needle.
func matchesKeyword(rec *record.Record, needle string) bool {
	if strings.Contains(strings.ToLower(rec.Content), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Preview), needle) {
		return true
	}
	for _, tag := range rec.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
