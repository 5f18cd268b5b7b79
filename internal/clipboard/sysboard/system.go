// Package sysboard implements the Clipboard interface on top of
// golang.design/x/clipboard, which talks to the native clipboard on macOS,
// Linux (X11) and Windows. Images are exchanged as PNG bytes.
package sysboard

import (
	"fmt"
	"sync"

	xclipboard "golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

// SystemClipboard implements clipboard.Clipboard using the native clipboard.
type SystemClipboard struct{}

// New creates a system clipboard adapter. The underlying clipboard library
// is initialized once per process on first use.
func New() *SystemClipboard {
	return &SystemClipboard{}
}

// ensureInit initializes the native clipboard binding at most once.
func ensureInit() error {
	initOnce.Do(func() {
		initErr = xclipboard.Init()
	})
	if initErr != nil {
		return fmt.Errorf("clipboard unavailable: %w", initErr)
	}
	return nil
}

// IsSupported reports whether the native clipboard can be used.
func (s *SystemClipboard) IsSupported() bool {
	return ensureInit() == nil
}

// HasText reports whether the clipboard holds text.
func (s *SystemClipboard) HasText() bool {
	if ensureInit() != nil {
		return false
	}
	return len(xclipboard.Read(xclipboard.FmtText)) > 0
}

// ReadText returns the clipboard's text contents.
func (s *SystemClipboard) ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	return string(xclipboard.Read(xclipboard.FmtText)), nil
}

// HasImage reports whether the clipboard holds an image.
func (s *SystemClipboard) HasImage() bool {
	if ensureInit() != nil {
		return false
	}
	return len(xclipboard.Read(xclipboard.FmtImage)) > 0
}

// ReadImage returns the clipboard's image contents as PNG bytes.
func (s *SystemClipboard) ReadImage() ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return xclipboard.Read(xclipboard.FmtImage), nil
}

// WriteText replaces the clipboard contents with text.
func (s *SystemClipboard) WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	xclipboard.Write(xclipboard.FmtText, []byte(text))
	return nil
}

// WriteImage replaces the clipboard contents with PNG bytes.
func (s *SystemClipboard) WriteImage(data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	xclipboard.Write(xclipboard.FmtImage, data)
	return nil
}

// Clear empties the clipboard by writing empty payloads for both formats.
func (s *SystemClipboard) Clear() error {
	if err := ensureInit(); err != nil {
		return err
	}
	xclipboard.Write(xclipboard.FmtText, nil)
	xclipboard.Write(xclipboard.FmtImage, nil)
	return nil
}
