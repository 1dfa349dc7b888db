// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging validates uploaded gallery photos and generates JPEG
// thumbnails with golang.org/x/image/draw. Thumbnails are only produced
// for sources wider than the target width; smaller photos are shown as-is.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"

	// Registered decoders for image.Decode.
	_ "image/png"

	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// MaxUploadSize is the largest accepted gallery upload (10 MB).
const MaxUploadSize = 10 << 20

// MaxPixels caps the declared width x height of an upload. A decoded
// bitmap costs up to 4 bytes per pixel regardless of the file size.
const MaxPixels = 40_000_000

var (
	// ErrUnsupportedType is returned for uploads that are not JPEG, PNG or WebP.
	ErrUnsupportedType = errors.New("imaging: unsupported image type")

	// ErrTooManyPixels is returned for images over MaxPixels.
	ErrTooManyPixels = errors.New("imaging: image dimensions too large")
)

// allowedTypes maps sniffed content types to the file extension stored in S3.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Variant describes a generated image size.
type Variant struct {
	Name    string // e.g., "thumb"
	Width   int    // Target width in pixels
	Quality int    // JPEG quality 1-100
}

// Thumb is the gallery grid thumbnail.
var Thumb = Variant{Name: "thumb", Width: 400, Quality: 80}

// ProcessedImage holds one generated variant ready for upload.
type ProcessedImage struct {
	Name        string
	Width       int
	Height      int
	Data        []byte
	ContentType string // Always "image/jpeg"
}

// Detect sniffs the content type of an upload and returns it together
// with the extension to store it under.
func Detect(data []byte) (contentType, ext string, err error) {
	contentType = http.DetectContentType(data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return contentType, ext, nil
}

// Dimensions returns the pixel size of an encoded image without decoding
// the full bitmap. Images over MaxPixels fail with ErrTooManyPixels.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("imaging: probe failed: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

// Generate scales the source down to v.Width, preserving aspect ratio,
// and encodes it as JPEG. Returns (nil, nil) when the source is not wider
// than the variant. The pixel cap is checked before anything is decoded.
func Generate(original []byte, v Variant) (*ProcessedImage, error) {
	width, height, err := Dimensions(original)
	if err != nil {
		return nil, err
	}
	if width <= v.Width {
		return nil, nil
	}

	src, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	targetHeight := height * v.Width / width
	if targetHeight < 1 {
		targetHeight = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, v.Width, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: v.Quality}); err != nil {
		return nil, fmt.Errorf("imaging: encode %s: %w", v.Name, err)
	}

	return &ProcessedImage{
		Name:        v.Name,
		Width:       v.Width,
		Height:      targetHeight,
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
	}, nil
}
