// Package clipboard defines the host clipboard capability consumed by the
// watcher and the copy operations. Implementations live in sysboard (real
// system clipboard) and mockboard (in-memory test double).
package clipboard

// Clipboard abstracts the OS clipboard for text and image payloads.
//
// Image payloads are raw encoded bytes (PNG on every supported platform);
// data-URL strings from external callers are decoded once at this boundary
// so the core only ever handles raw bytes.
type Clipboard interface {
	// HasText reports whether the clipboard currently holds text.
	HasText() bool

	// ReadText returns the current text contents.
	ReadText() (string, error)

	// HasImage reports whether the clipboard currently holds an image.
	HasImage() bool

	// ReadImage returns the current image contents as raw encoded bytes.
	ReadImage() ([]byte, error)

	// WriteText replaces the clipboard contents with text.
	WriteText(text string) error

	// WriteImage replaces the clipboard contents with raw image bytes.
	WriteImage(data []byte) error

	// Clear empties the clipboard.
	Clear() error
}
