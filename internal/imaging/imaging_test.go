// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 0x1e, G: 0x40, B: 0xaf, A: 0xff})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

// pngHeader returns a PNG that stops after its IHDR chunk. It declares a
// w x h greyscale image without carrying any pixel data.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth; colour type, compression, filter, interlace stay 0

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantType string
		wantExt  string
		wantErr  bool
	}{
		{"png", encodePNG(t, 2, 2), "image/png", ".png", false},
		{"jpeg", encodeJPEG(t, 2, 2), "image/jpeg", ".jpg", false},
		{"webp header", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp", ".webp", false},
		{"gif rejected", []byte("GIF89a\x01\x00\x01\x00"), "", "", true},
		{"text rejected", []byte("hello"), "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, ext, err := Detect(tt.data)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedType) {
					t.Errorf("got %v, want ErrUnsupportedType", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if ct != tt.wantType || ext != tt.wantExt {
				t.Errorf("got (%q, %q), want (%q, %q)", ct, ext, tt.wantType, tt.wantExt)
			}
		})
	}
}

func TestGenerateScalesWideImages(t *testing.T) {
	img, err := Generate(encodePNG(t, 800, 600), Thumb)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if img == nil {
		t.Fatal("expected a thumbnail for an 800px source")
	}
	if img.Width != 400 || img.Height != 300 {
		t.Errorf("size: got %dx%d, want 400x300", img.Width, img.Height)
	}
	if img.ContentType != "image/jpeg" {
		t.Errorf("content type: got %q", img.ContentType)
	}
	w, h, err := Dimensions(img.Data)
	if err != nil || w != 400 || h != 300 {
		t.Errorf("encoded dimensions: got %dx%d (%v)", w, h, err)
	}
}

func TestGenerateSkipsNarrowImages(t *testing.T) {
	for _, width := range []int{120, 400} {
		img, err := Generate(encodeJPEG(t, width, 100), Thumb)
		if err != nil {
			t.Fatalf("Generate(%d): %v", width, err)
		}
		if img != nil {
			t.Errorf("width %d: expected no thumbnail, got %dx%d", width, img.Width, img.Height)
		}
	}
}

func TestGenerateRejectsGarbage(t *testing.T) {
	if _, err := Generate([]byte("not an image"), Thumb); err == nil {
		t.Error("expected error for undecodable input")
	}
}

func TestDimensionsPixelCap(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
		wantErr       bool
	}{
		{"phone photo", 4032, 3024, false},
		{"exactly at cap", 8000, 5000, false},
		{"one row over", 8000, 5001, true},
		{"tiny file, huge canvas", 12000, 12000, true},
		{"very wide strip", 1 << 30, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := pngHeader(tt.width, tt.height)
			w, h, err := Dimensions(data)
			if tt.wantErr {
				if !errors.Is(err, ErrTooManyPixels) {
					t.Errorf("got (%d, %d, %v), want ErrTooManyPixels", w, h, err)
				}
				if _, genErr := Generate(data, Thumb); !errors.Is(genErr, ErrTooManyPixels) {
					t.Errorf("Generate: got %v, want ErrTooManyPixels", genErr)
				}
				return
			}
			if err != nil || w != int(tt.width) || h != int(tt.height) {
				t.Errorf("got (%d, %d, %v), want %dx%d", w, h, err, tt.width, tt.height)
			}
		})
	}
}
