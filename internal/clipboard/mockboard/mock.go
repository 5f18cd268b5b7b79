// Package mockboard provides an in-memory clipboard implementation for
// testing the watcher and copy paths without touching the OS clipboard.
package mockboard

import "sync"

// MockClipboard implements clipboard.Clipboard in memory.
type MockClipboard struct {
	mu    sync.Mutex
	text  string
	image []byte

	textErr  error
	imageErr error
}

// New creates an empty mock clipboard.
func New() *MockClipboard {
	return &MockClipboard{}
}

// HasText reports whether text has been set.
func (m *MockClipboard) HasText() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text != ""
}

// ReadText returns the stored text.
func (m *MockClipboard) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.textErr != nil {
		return "", m.textErr
	}
	return m.text, nil
}

// HasImage reports whether image bytes have been set.
func (m *MockClipboard) HasImage() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.image) > 0
}

// ReadImage returns the stored image bytes.
func (m *MockClipboard) ReadImage() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.imageErr != nil {
		return nil, m.imageErr
	}
	return m.image, nil
}

// WriteText stores text as the clipboard contents.
func (m *MockClipboard) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// WriteImage stores image bytes as the clipboard contents.
func (m *MockClipboard) WriteImage(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.image = append([]byte(nil), data...)
	return nil
}

// Clear empties both formats.
func (m *MockClipboard) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = ""
	m.image = nil
	return nil
}

// SetText sets the text directly (for tests).
func (m *MockClipboard) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
}

// SetImage sets the image bytes directly (for tests).
func (m *MockClipboard) SetImage(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.image = append([]byte(nil), data...)
}

// FailText makes subsequent text reads return err (for tests).
func (m *MockClipboard) FailText(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textErr = err
}

// FailImage makes subsequent image reads return err (for tests).
func (m *MockClipboard) FailImage(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imageErr = err
}
