// Package media prepares profile images for upload.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	"github.com/nfnt/resize"

	"github.com/chirpkit/chirp/internal/param"
)

const (
	// MaxProfileImage is the largest avatar the service accepts.
	MaxProfileImage = 700 * 1024
	// MaxBackgroundImage is the largest background image the service accepts.
	MaxBackgroundImage = 800 * 1024
)

var ErrNotImage = errors.New("file is not a supported image")

var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Sniff returns the MIME type of an image from its leading bytes.
func Sniff(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return "", err
	}
	if kind == filetype.Unknown || !accepted[kind.MIME.Value] {
		return "", ErrNotImage
	}
	return kind.MIME.Value, nil
}

// Load reads an image from disk and prepares it for upload.
func Load(path string, maxBytes int) (param.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return param.File{}, err
	}
	return Prepare(filepath.Base(path), data, maxBytes)
}

// Prepare sniffs data and downscales JPEG and PNG images until they fit in maxBytes.
// GIFs are passed through untouched and rejected when too large.
func Prepare(name string, data []byte, maxBytes int) (param.File, error) {
	mime, err := Sniff(data)
	if err != nil {
		return param.File{}, fmt.Errorf("%s: %w", name, err)
	}
	if maxBytes <= 0 || len(data) <= maxBytes {
		return param.File{Name: name, Content: data, ContentType: mime}, nil
	}
	if mime == "image/gif" {
		return param.File{}, fmt.Errorf("%s: %d bytes exceeds limit of %d", name, len(data), maxBytes)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return param.File{}, fmt.Errorf("decoding %s: %w", name, err)
	}
	out, err := shrink(img, mime, len(data), maxBytes)
	if err != nil {
		return param.File{}, fmt.Errorf("%s: %w", name, err)
	}
	return param.File{Name: name, Content: out, ContentType: mime}, nil
}

func shrink(img image.Image, mime string, size, maxBytes int) ([]byte, error) {
	bounds := img.Bounds()
	// Encoded size tracks pixel area, so each side scales by the square root.
	scale := math.Sqrt(float64(maxBytes)/float64(size)) * 0.9
	for attempt := 0; attempt < 8; attempt++ {
		w := uint(math.Max(1, float64(bounds.Dx())*scale))
		h := uint(math.Max(1, float64(bounds.Dy())*scale))
		out, err := encode(resize.Resize(w, h, img, resize.Lanczos3), mime)
		if err != nil {
			return nil, err
		}
		if len(out) <= maxBytes {
			return out, nil
		}
		scale *= math.Sqrt(float64(maxBytes)/float64(len(out))) * 0.9
	}
	return nil, fmt.Errorf("could not shrink image below %d bytes", maxBytes)
}

func encode(img image.Image, mime string) ([]byte, error) {
	var buf bytes.Buffer
	switch mime {
	case "image/jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpeg.DefaultQuality}); err != nil {
			return nil, err
		}
	case "image/png":
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		if err := encoder.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		return nil, ErrNotImage
	}
	return buf.Bytes(), nil
}
