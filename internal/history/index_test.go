package history

import (
	"testing"

	"github.com/clipvault/clipvault/internal/record"
)

// rec builds a minimal record for query tests.
func rec(id string, kind record.Kind, content string, createdAt int64) *record.Record {
	return &record.Record{
		ID:          id,
		Kind:        kind,
		Content:     content,
		Preview:     content,
		Fingerprint: record.FingerprintText(content),
		CreatedAt:   createdAt,
	}
}

// TestQueryDefaultNewestFirst verifies the default sort is createdAt
// descending.
func TestQueryDefaultNewestFirst(t *testing.T) {
	records := []*record.Record{
		rec("a", record.KindText, "old", 100),
		rec("b", record.KindText, "new", 300),
		rec("c", record.KindText, "mid", 200),
	}

	got := Query(records, QueryOptions{})
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	for i, want := range []string{"b", "c", "a"} {
		if got[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, want)
		}
	}
}

// TestQueryAscending verifies the ascending order option.
func TestQueryAscending(t *testing.T) {
	records := []*record.Record{
		rec("a", record.KindText, "x", 300),
		rec("b", record.KindText, "y", 100),
	}

	got := Query(records, QueryOptions{Order: OrderAsc})
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("ascending order = [%s %s], want [b a]", got[0].ID, got[1].ID)
	}
}

// TestQueryKindFilter verifies filtering to one kind.
func TestQueryKindFilter(t *testing.T) {
	records := []*record.Record{
		rec("a", record.KindText, "x", 1),
		rec("b", record.KindImage, "y", 2),
		rec("c", record.KindText, "z", 3),
	}

	got := Query(records, QueryOptions{Kind: record.KindImage})
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("kind filter = %v, want only b", got)
	}
}

// TestQueryCategoryFilter verifies filtering by category.
func TestQueryCategoryFilter(t *testing.T) {
	a := rec("a", record.KindText, "x", 1)
	a.Category = "code"
	b := rec("b", record.KindText, "y", 2)

	got := Query([]*record.Record{a, b}, QueryOptions{Category: "code"})
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("category filter = %v, want only a", got)
	}
}

// TestQueryPagination verifies limit/offset slicing and the empty page
// beyond the end.
func TestQueryPagination(t *testing.T) {
	var records []*record.Record
	for i := 0; i < 5; i++ {
		records = append(records, rec(string(rune('a'+i)), record.KindText, "x", int64(i)))
	}

	page := Query(records, QueryOptions{Limit: 2, Offset: 1})
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	// Descending: e d c b a; offset 1 → d c.
	if page[0].ID != "d" || page[1].ID != "c" {
		t.Errorf("page = [%s %s], want [d c]", page[0].ID, page[1].ID)
	}

	if got := Query(records, QueryOptions{Offset: 99}); len(got) != 0 {
		t.Errorf("offset beyond length yielded %d records, want 0", len(got))
	}

	// Limit larger than the record count returns everything.
	if got := Query(records, QueryOptions{Limit: 100}); len(got) != 5 {
		t.Errorf("oversized limit yielded %d records, want 5", len(got))
	}
}

// TestQueryStableTieBreak verifies records with equal timestamps keep their
// insertion order.
func TestQueryStableTieBreak(t *testing.T) {
	records := []*record.Record{
		rec("first", record.KindText, "x", 100),
		rec("second", record.KindText, "y", 100),
		rec("third", record.KindText, "z", 100),
	}

	got := Query(records, QueryOptions{})
	for i, want := range []string{"first", "second", "third"} {
		if got[i].ID != want {
			t.Errorf("tie position %d = %s, want %s", i, got[i].ID, want)
		}
	}
}

// TestQuerySortByKind verifies the secondary sort field.
func TestQuerySortByKind(t *testing.T) {
	records := []*record.Record{
		rec("a", record.KindText, "x", 1),
		rec("b", record.KindImage, "y", 2),
	}

	got := Query(records, QueryOptions{SortBy: SortByKind, Order: OrderAsc})
	if got[0].Kind != record.KindImage {
		t.Errorf("first kind = %s, want image", got[0].Kind)
	}
}

// TestSearchCaseInsensitive verifies substring matching over content,
// preview and tags.
func TestSearchCaseInsensitive(t *testing.T) {
	a := rec("a", record.KindText, "Hello World", 1)
	b := rec("b", record.KindImage, "/tmp/img.png", 2)
	b.Preview = "1920x1080"
	c := rec("c", record.KindText, "unrelated", 3)
	c.Tags = []string{"GREETING"}

	records := []*record.Record{a, b, c}

	if got := Search(records, "hello"); len(got) != 1 || got[0].ID != "a" {
		t.Errorf("content search = %v, want [a]", got)
	}
	if got := Search(records, "1920"); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("preview search = %v, want [b]", got)
	}
	if got := Search(records, "greeting"); len(got) != 1 || got[0].ID != "c" {
		t.Errorf("tag search = %v, want [c]", got)
	}
	if got := Search(records, "zzz"); len(got) != 0 {
		t.Errorf("no-match search = %v, want empty", got)
	}
}

// TestSearchBlankKeywordFallsBack verifies blank input means "no filter".
func TestSearchBlankKeywordFallsBack(t *testing.T) {
	records := []*record.Record{
		rec("a", record.KindText, "x", 100),
		rec("b", record.KindText, "y", 200),
	}

	got := Search(records, "   ")
	if len(got) != 2 {
		t.Fatalf("blank search yielded %d records, want 2", len(got))
	}
	// Fallback uses the default query: newest first.
	if got[0].ID != "b" {
		t.Errorf("blank search order = %s first, want b", got[0].ID)
	}
}
