package record

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestFingerprintDeterministic verifies equal inputs hash equally and
// different inputs differ.
func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint([]byte("hello"))
	b := Fingerprint([]byte("hello"))
	c := Fingerprint([]byte("world"))

	if a != b {
		t.Errorf("same input produced different fingerprints: %s != %s", a, b)
	}
	if a == c {
		t.Errorf("different inputs produced the same fingerprint: %s", a)
	}
	if len(a) != 32 {
		t.Errorf("fingerprint length = %d, want 32 hex chars", len(a))
	}
}

// TestFingerprintTextMatchesBytes verifies the text helper hashes the
// UTF-8 bytes of the string.
func TestFingerprintTextMatchesBytes(t *testing.T) {
	if FingerprintText("héllo") != Fingerprint([]byte("héllo")) {
		t.Error("FingerprintText diverged from Fingerprint over the same bytes")
	}
}

// TestNewIDUniqueAndOrdered verifies ids are unique, kind-prefixed, and
// sort in creation order.
func TestNewIDUniqueAndOrdered(t *testing.T) {
	seen := make(map[string]bool)
	var prev string
	for i := 0; i < 1000; i++ {
		id := NewID(KindText)
		if !strings.HasPrefix(id, "text_") {
			t.Fatalf("id %q missing kind prefix", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
		if prev != "" && id < prev {
			// ULIDs within the same millisecond share a timestamp, so
			// strict ordering is only guaranteed across milliseconds;
			// equality of the time component is acceptable.
			if id[:len("text_")+10] < prev[:len("text_")+10] {
				t.Fatalf("id %s sorts before earlier id %s", id, prev)
			}
		}
		prev = id
	}
}

// TestKindValid verifies the known kinds and rejects others.
func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindText, KindImage, KindFile} {
		if !k.Valid() {
			t.Errorf("Kind %q should be valid", k)
		}
	}
	if Kind("video").Valid() {
		t.Error("unknown kind should be invalid")
	}
}

// TestRecordRoundTrip verifies optional fields survive JSON round-trips.
func TestRecordRoundTrip(t *testing.T) {
	rec := &Record{
		ID:          NewID(KindText),
		Kind:        KindText,
		Content:     "hello",
		Preview:     "hello",
		Fingerprint: FingerprintText("hello"),
		CreatedAt:   Now(),
		Category:    "notes",
		Tags:        []string{"a", "b"},
		Metadata:    map[string]any{"size": float64(5)},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if got.Category != "notes" {
		t.Errorf("Category = %q, want notes", got.Category)
	}
	if len(got.Tags) != 2 {
		t.Errorf("Tags = %v, want 2 entries", got.Tags)
	}
	if got.Metadata["size"] != float64(5) {
		t.Errorf("Metadata[size] = %v, want 5", got.Metadata["size"])
	}
}
