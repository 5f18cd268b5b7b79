package assetstore

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	// Register decoders for the image formats clipboards commonly carry.
	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
)

// makeThumbnail decodes raw image bytes, scales them down to fit the
// configured bounds, and re-encodes the result as PNG. Images already within
// bounds are re-encoded at their original size. With KeepAspectRatio the
// smaller of the two scale factors is applied to both axes; without it each
// axis is capped at its bound independently, which may distort the aspect
// ratio. Dimensions are never scaled up in either mode.
func makeThumbnail(raw []byte, opts Options) ([]byte, ImageMetadata, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ImageMetadata{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	thumbWidth, thumbHeight := boundDimensions(width, height, opts)

	meta := ImageMetadata{
		Width:           width,
		Height:          height,
		ThumbnailWidth:  thumbWidth,
		ThumbnailHeight: thumbHeight,
	}

	dst := image.NewRGBA(image.Rect(0, 0, thumbWidth, thumbHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, ImageMetadata{}, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), meta, nil
}

// boundDimensions computes the thumbnail size for a source image.
func boundDimensions(width, height int, opts Options) (int, int) {
	maxW := opts.ThumbnailMaxWidth
	maxH := opts.ThumbnailMaxHeight

	if !opts.KeepAspectRatio {
		return min(width, maxW), min(height, maxH)
	}

	if width <= maxW && height <= maxH {
		return width, height
	}

	scaleW := float64(maxW) / float64(width)
	scaleH := float64(maxH) / float64(height)
	scale := min(scaleW, scaleH)

	thumbW := max(1, int(float64(width)*scale+0.5))
	thumbH := max(1, int(float64(height)*scale+0.5))
	return thumbW, thumbH
}
