package history

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/clipvault/clipvault/internal/assetstore"
	"github.com/clipvault/clipvault/internal/clipboard/mockboard"
	"github.com/clipvault/clipvault/internal/recordlog"
)

// fixture bundles a fully wired service over temp storage for tests.
type fixture struct {
	log     *recordlog.Log
	assets  *assetstore.Store
	clip    *mockboard.MockClipboard
	ingest  *Ingestor
	dedup   *DedupPolicy
	service *Service
}

// fixtureOptions tweaks the wiring per test.
type fixtureOptions struct {
	dedupEnabled bool
	ingestOpts   IngestOptions
	retain       RetentionOptions
}

func newFixture(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()

	dir := t.TempDir()
	log := recordlog.New(filepath.Join(dir, "history.jsonl"), nil)
	assets := assetstore.New(filepath.Join(dir, "images"), assetstore.DefaultOptions(), nil)
	clip := mockboard.New()

	dedup := NewDedupPolicy(opts.dedupEnabled, log, assets, nil)
	ingest := NewIngestor(log, assets, dedup, opts.ingestOpts, nil)
	service := NewService(log, assets, clip, dedup, ingest, opts.retain, nil)

	return &fixture{
		log:     log,
		assets:  assets,
		clip:    clip,
		ingest:  ingest,
		dedup:   dedup,
		service: service,
	}
}

// testPNG encodes a solid test image of the given size.
func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}
