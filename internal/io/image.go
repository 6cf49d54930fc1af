package ioutils

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// CoverProcessor prepares downloaded album art for ID3 embedding.
//
// Catalog art endpoints serve JPEG or PNG at arbitrary sizes; tag readers
// want a modestly sized JPEG. CoverProcessor decodes whatever arrives,
// scales it down to a bounding square when needed, and re-encodes as JPEG.
//
// Example:
//
//	proc := ioutils.NewCoverProcessor(500, true)
//	jpegBytes, err := proc.Process(artBytes)
type CoverProcessor struct {
	maxSize int  // bounding square in pixels, 0 disables resizing
	convert bool // re-encode non-JPEG input as JPEG
}

// NewCoverProcessor creates a CoverProcessor.
//
// maxSize is the bounding square in pixels; 0 keeps the original
// dimensions. convert controls whether non-JPEG input is re-encoded as
// JPEG (required for consistent APIC frames).
func NewCoverProcessor(maxSize int, convert bool) *CoverProcessor {
	return &CoverProcessor{maxSize: maxSize, convert: convert}
}

// Process returns the cover image as JPEG bytes, scaled to fit within
// the configured bounding square with aspect ratio preserved.
//
// Input already within bounds and already JPEG is returned unchanged
// when conversion is disabled. The Catmull-Rom kernel is used for
// scaling; output is encoded at quality 90.
func (p *CoverProcessor) Process(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	needsResize := p.maxSize > 0 && (width > p.maxSize || height > p.maxSize)
	if !needsResize {
		if format == "jpeg" || !p.convert {
			return data, nil
		}
		return encodeJPEG(img)
	}

	ratio := float64(width) / float64(height)
	if width >= height {
		width = p.maxSize
		height = int(float64(p.maxSize) / ratio)
	} else {
		height = p.maxSize
		width = int(float64(p.maxSize) * ratio)
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return encodeJPEG(dst)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
