package mockboard

import (
	"bytes"
	"errors"
	"testing"
)

// TestMockTextRoundTrip verifies text writes are readable and reported by
// HasText.
func TestMockTextRoundTrip(t *testing.T) {
	m := New()

	if m.HasText() {
		t.Error("fresh mock should hold no text")
	}

	if err := m.WriteText("hello"); err != nil {
		t.Fatal(err)
	}
	if !m.HasText() {
		t.Error("HasText should be true after WriteText")
	}
	text, err := m.ReadText()
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello" {
		t.Errorf("ReadText = %q, want hello", text)
	}
}

// TestMockImageRoundTrip verifies image writes copy their input.
func TestMockImageRoundTrip(t *testing.T) {
	m := New()

	data := []byte{1, 2, 3}
	if err := m.WriteImage(data); err != nil {
		t.Fatal(err)
	}
	data[0] = 99 // mutating the caller's slice must not affect the mock

	got, err := m.ReadImage()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("ReadImage = %v, want [1 2 3]", got)
	}
}

// TestMockClear verifies Clear empties both formats.
func TestMockClear(t *testing.T) {
	m := New()
	m.SetText("text")
	m.SetImage([]byte{1})

	if err := m.Clear(); err != nil {
		t.Fatal(err)
	}
	if m.HasText() || m.HasImage() {
		t.Error("mock still holds content after Clear")
	}
}

// TestMockInjectedFailures verifies the failure hooks used by watcher
// tests.
func TestMockInjectedFailures(t *testing.T) {
	m := New()
	m.SetText("x")

	wantErr := errors.New("boom")
	m.FailText(wantErr)
	if _, err := m.ReadText(); !errors.Is(err, wantErr) {
		t.Errorf("ReadText error = %v, want injected error", err)
	}

	m.FailText(nil)
	if _, err := m.ReadText(); err != nil {
		t.Errorf("ReadText after clearing failure = %v, want nil", err)
	}
}
