// Package watcher implements the polling clipboard watcher: a timer-driven
// state machine that detects clipboard changes by fingerprint comparison and
// hands changed payloads to the ingestion paths.
package watcher

import (
	"log/slog"
	"sync"
	"time"

	"github.com/clipvault/clipvault/internal/clipboard"
	"github.com/clipvault/clipvault/internal/record"
)

// DefaultInterval is the polling cadence when none is configured.
const DefaultInterval = 500 * time.Millisecond

// Sink receives changed clipboard payloads. The history service implements
// it; a returned nil record means the payload was skipped (e.g. sensitive
// text).
type Sink interface {
	IngestText(text string) (*record.Record, error)
	IngestImage(raw []byte) (*record.Record, error)
}

// Preparer is implemented by sinks that need setup before polling starts
// (the asset store creating its directory).
type Preparer interface {
	Prepare() error
}

// Watcher polls the clipboard at a fixed interval. It has two states, idle
// and polling; Start and Stop are idempotent. Ticks never overlap: a timer
// fire that arrives while the previous tick is still in flight is skipped,
// not queued, so two dedup-evict-then-append sequences can never interleave.
type Watcher struct {
	clip     clipboard.Clipboard
	sink     Sink
	interval time.Duration
	logger   *slog.Logger

	// Notify, when set, is called after every appended record so UI
	// collaborators can refresh.
	Notify func(rec *record.Record)

	mu            sync.Mutex
	running       bool
	stop          chan struct{}
	done          chan struct{}
	lastTextHash  string
	lastImageHash string

	tickMu sync.Mutex
}

// New creates a watcher. interval <= 0 selects DefaultInterval.
func New(clip clipboard.Clipboard, sink Sink, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		clip:     clip,
		sink:     sink,
		interval: interval,
		logger:   logger,
	}
}

// Start transitions idle -> polling and arms the recurring timer. Calling
// Start while already polling is a no-op; exactly one timer is ever active.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	if p, ok := w.sink.(Preparer); ok {
		if err := p.Prepare(); err != nil {
			return err
		}
	}

	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.running = true

	go w.loop(w.stop, w.done)
	w.logger.Info("clipboard watcher started", "interval", w.interval)
	return nil
}

// Stop transitions polling -> idle and cancels the timer. A tick already in
// flight is allowed to complete; Stop waits for it before returning. Calling
// Stop while idle is a no-op.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stop)
	done := w.done
	w.mu.Unlock()

	<-done
	w.logger.Info("clipboard watcher stopped")
}

// IsRunning reports whether the watcher is polling.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// ResetHistory clears the last-seen fingerprints without changing the
// idle/polling state. Called after a bulk clear so the now-identical
// clipboard content is not mistaken for "no change" forever.
func (w *Watcher) ResetHistory() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastTextHash = ""
	w.lastImageHash = ""
}

// loop drives the recurring timer until stop is closed.
func (w *Watcher) loop(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.Tick()
		}
	}
}

// Tick runs one check-and-ingest pass. Text is checked before image, but
// the two are independent. Any error is logged and swallowed: the watcher
// degrades to "missed one tick" rather than crashing. If a previous tick is
// still in flight this one is coalesced into a no-op.
func (w *Watcher) Tick() {
	if !w.tickMu.TryLock() {
		w.logger.Debug("previous tick still in flight, skipping")
		return
	}
	defer w.tickMu.Unlock()

	w.checkText()
	w.checkImage()
}

// checkText ingests the clipboard text if its hash changed since the last
// observation.
func (w *Watcher) checkText() {
	if !w.clip.HasText() {
		return
	}
	text, err := w.clip.ReadText()
	if err != nil {
		w.logger.Warn("failed to read clipboard text", "error", err)
		return
	}
	if text == "" {
		return
	}

	hash := record.FingerprintText(text)
	if !w.observeText(hash) {
		return
	}

	rec, err := w.sink.IngestText(text)
	if err != nil {
		w.logger.Warn("failed to ingest clipboard text", "error", err)
		return
	}
	w.notify(rec)
}

// checkImage ingests the clipboard image if its hash changed since the last
// observation. The hash here is only a cheap change detector; the canonical
// fingerprint is computed by the asset store from the raw bytes.
func (w *Watcher) checkImage() {
	if !w.clip.HasImage() {
		return
	}
	raw, err := w.clip.ReadImage()
	if err != nil {
		w.logger.Warn("failed to read clipboard image", "error", err)
		return
	}
	if len(raw) == 0 {
		return
	}

	hash := record.Fingerprint(raw)
	if !w.observeImage(hash) {
		return
	}

	rec, err := w.sink.IngestImage(raw)
	if err != nil {
		w.logger.Warn("failed to ingest clipboard image", "error", err)
		return
	}
	w.notify(rec)
}

// observeText records the text hash, reporting whether it changed.
func (w *Watcher) observeText(hash string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if hash == w.lastTextHash {
		return false
	}
	w.lastTextHash = hash
	return true
}

// observeImage records the image hash, reporting whether it changed.
func (w *Watcher) observeImage(hash string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if hash == w.lastImageHash {
		return false
	}
	w.lastImageHash = hash
	return true
}

// notify emits the change notification for an appended record.
func (w *Watcher) notify(rec *record.Record) {
	if rec == nil || w.Notify == nil {
		return
	}
	w.Notify(rec)
}
