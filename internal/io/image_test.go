package ioutils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeTestImage(t *testing.T, width, height int, asPNG bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	var err error
	if asPNG {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestCoverProcessorResizesLargeImage(t *testing.T) {
	data := encodeTestImage(t, 800, 400, false)
	proc := NewCoverProcessor(200, true)

	out, err := proc.Process(data)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if got := img.Bounds().Dx(); got != 200 {
		t.Errorf("width = %d, want 200", got)
	}
	if got := img.Bounds().Dy(); got != 100 {
		t.Errorf("height = %d, want 100 (aspect ratio preserved)", got)
	}
}

func TestCoverProcessorConvertsPNG(t *testing.T) {
	data := encodeTestImage(t, 100, 100, true)
	proc := NewCoverProcessor(500, true)

	out, err := proc.Process(data)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	_, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
}

func TestCoverProcessorPassThrough(t *testing.T) {
	data := encodeTestImage(t, 100, 100, false)
	proc := NewCoverProcessor(500, true)

	out, err := proc.Process(data)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("small JPEG input should pass through unchanged")
	}
}

func TestCheckWritable(t *testing.T) {
	dir := t.TempDir()
	if err := CheckWritable(dir); err != nil {
		t.Fatalf("CheckWritable(%q): %v", dir, err)
	}
	if err := CheckWritable(dir + "/nested/deeper"); err != nil {
		t.Fatalf("CheckWritable nested: %v", err)
	}
}
