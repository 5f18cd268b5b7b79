package recordlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clipvault/clipvault/internal/record"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "history.jsonl"), nil)
}

func textRecord(content string) *record.Record {
	return &record.Record{
		ID:          record.NewID(record.KindText),
		Kind:        record.KindText,
		Content:     content,
		Preview:     content,
		Fingerprint: record.FingerprintText(content),
		CreatedAt:   record.Now(),
	}
}

// TestAppendReadRoundTrip verifies appending N records and reading them
// back yields N records with identical field values, in insertion order.
func TestAppendReadRoundTrip(t *testing.T) {
	l := newTestLog(t)

	contents := []string{"one", "two", "three"}
	var ids []string
	for _, c := range contents {
		rec := textRecord(c)
		ids = append(ids, rec.ID)
		if err := l.Append(rec); err != nil {
			t.Fatalf("Append(%q) failed: %v", c, err)
		}
	}

	records, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(records) != len(contents) {
		t.Fatalf("got %d records, want %d", len(records), len(contents))
	}
	for i, rec := range records {
		if rec.ID != ids[i] {
			t.Errorf("record %d id = %s, want %s", i, rec.ID, ids[i])
		}
		if rec.Content != contents[i] {
			t.Errorf("record %d content = %q, want %q", i, rec.Content, contents[i])
		}
		if rec.Fingerprint != record.FingerprintText(contents[i]) {
			t.Errorf("record %d fingerprint mismatch", i)
		}
	}
}

// TestReadAllEmptyLog verifies a fresh log reads as empty and creates its
// backing file.
func TestReadAllEmptyLog(t *testing.T) {
	l := newTestLog(t)

	records, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records from empty log, want 0", len(records))
	}
	if _, err := os.Stat(l.Path()); err != nil {
		t.Errorf("backing file was not created: %v", err)
	}
}

// TestCorruptLineTolerance verifies one malformed line among K good lines
// yields exactly K records with no error.
func TestCorruptLineTolerance(t *testing.T) {
	l := newTestLog(t)

	if err := l.Append(textRecord("first")); err != nil {
		t.Fatal(err)
	}

	// Inject a corrupt line directly into the file.
	f, err := os.OpenFile(l.Path(), os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("{this is not json\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if err := l.Append(textRecord("second")); err != nil {
		t.Fatal(err)
	}

	records, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Content != "first" || records[1].Content != "second" {
		t.Errorf("surviving records = %q, %q", records[0].Content, records[1].Content)
	}
}

// TestDeleteByID verifies delete removes exactly the matching record and
// compacts the file.
func TestDeleteByID(t *testing.T) {
	l := newTestLog(t)

	keep := textRecord("keep")
	doomed := textRecord("doomed")
	for _, rec := range []*record.Record{keep, doomed} {
		if err := l.Append(rec); err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := l.DeleteByID(doomed.ID)
	if err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if !deleted {
		t.Fatal("DeleteByID returned false for an existing id")
	}

	records, err := l.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].ID != keep.ID {
		t.Errorf("log after delete = %v, want only %s", records, keep.ID)
	}
}

// TestDeleteMissingIDLeavesFileUntouched verifies deleting a non-existent
// id returns false and does not rewrite the file.
func TestDeleteMissingIDLeavesFileUntouched(t *testing.T) {
	l := newTestLog(t)

	if err := l.Append(textRecord("only")); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatal(err)
	}

	deleted, err := l.DeleteByID("text_NO_SUCH_ID")
	if err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if deleted {
		t.Error("DeleteByID returned true for a missing id")
	}

	after, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("file was rewritten by a no-op delete")
	}
}

// TestDeletePreservesCorruptLines verifies compaction never drops lines it
// cannot parse.
func TestDeletePreservesCorruptLines(t *testing.T) {
	l := newTestLog(t)

	doomed := textRecord("doomed")
	if err := l.Append(doomed); err != nil {
		t.Fatal(err)
	}

	corrupt := "%%not-json%%"
	f, err := os.OpenFile(l.Path(), os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(corrupt + "\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	deleted, err := l.DeleteByID(doomed.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Fatal("expected delete to remove the record")
	}

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), corrupt) {
		t.Error("compaction dropped an unparseable line")
	}
	if strings.Contains(string(data), doomed.ID) {
		t.Error("deleted record still present after compaction")
	}
}

// TestClear verifies Clear truncates the log unconditionally.
func TestClear(t *testing.T) {
	l := newTestLog(t)

	for i := 0; i < 5; i++ {
		if err := l.Append(textRecord("x")); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	records, err := l.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records after Clear, want 0", len(records))
	}

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("file holds %d bytes after Clear, want 0", len(data))
	}
}

// TestCount verifies Count tracks parseable records only.
func TestCount(t *testing.T) {
	l := newTestLog(t)

	for i := 0; i < 3; i++ {
		if err := l.Append(textRecord("x")); err != nil {
			t.Fatal(err)
		}
	}

	n, err := l.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}
