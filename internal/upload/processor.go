// Copyright (c) 2025-2026 Pierre-Louis Berthet
// SPDX-License-Identifier: GPL-3.0-or-later

// Package upload validates and stores event images. Uploaded files are
// decoded, auto-rotated from their EXIF orientation and re-encoded, so
// nothing but a well-formed image ever lands in the upload directory.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// MaxImageBytes caps the accepted upload size.
const MaxImageBytes = 10 << 20 // 10 MB

// ErrUnsupportedFormat is returned for payloads that are not a
// supported image type.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result describes a stored image.
type Result struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Processor stores validated images under a directory served at
// /uploads/.
type Processor struct {
	dir string
}

// NewProcessor creates a processor writing into dir, creating it if
// needed.
func NewProcessor(dir string) (*Processor, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Processor{dir: dir}, nil
}

// Process reads, validates and stores one uploaded image. The stored
// file gets a random name; the original filename is discarded.
func (p *Processor) Process(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedFormat
	}

	if format == "jpeg" {
		img = applyOrientation(img, readOrientation(bytes.NewReader(data)))
	}

	ext, encodeFormat := targetFormat(format)
	name := uuid.NewString() + ext
	path := filepath.Join(p.dir, name)

	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating image file: %w", err)
	}
	if err := imaging.Encode(out, img, encodeFormat); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("writing image file: %w", err)
	}

	bounds := img.Bounds()
	return &Result{
		Filename: name,
		URL:      "/uploads/" + name,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

// targetFormat maps the sniffed format to the stored extension and
// encoder. WebP has no pure-Go encoder, so it is stored as JPEG.
func targetFormat(format string) (string, imaging.Format) {
	switch format {
	case "png":
		return ".png", imaging.PNG
	case "gif":
		return ".gif", imaging.GIF
	default:
		return ".jpg", imaging.JPEG
	}
}

// readOrientation extracts the EXIF orientation tag, defaulting to 1
// (upright) when absent or unreadable.
func readOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation normalizes an image according to its EXIF
// orientation value (1-8).
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
