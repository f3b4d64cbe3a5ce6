package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrNotImage is returned when uploaded bytes cannot be decoded as a
// supported raster image.
var ErrNotImage = errors.New("assets: not a decodable image")

// ErrImageTooLarge is returned when an upload's dimensions exceed
// maxImagePixels before any full decode is attempted.
var ErrImageTooLarge = errors.New("assets: image dimensions too large")

// jpegQuality is the encode quality for JPEG derivatives.
const jpegQuality = 80

// maxImagePixels caps the number of pixels to prevent memory bombs.
// A small paletted PNG can expand to hundreds of MB when decoded, so the
// body size cap alone does not bound decode work.
// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
const maxImagePixels = 100_000_000

// Store writes originals and derivatives under a root directory
// (images/ by default). All returned paths are root-relative with
// forward slashes, matching what gets persisted and served.
type Store struct {
	root string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the images root directory.
func (s *Store) Root() string { return s.root }

// Decode parses uploaded bytes into an image. Only formats the store can
// also encode are accepted (JPEG, PNG, GIF), so derivatives keep the
// original's extension truthfully. Returns ErrNotImage for anything else,
// and ErrImageTooLarge when the declared dimensions exceed maxImagePixels.
func Decode(data []byte) (image.Image, string, error) {
	// Decode config first to check dimensions without full decode.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels",
			ErrImageTooLarge, cfg.Width, cfg.Height, maxImagePixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	switch format {
	case "jpeg", "png", "gif":
		return img, format, nil
	default:
		return nil, "", fmt.Errorf("%w: unsupported format %q", ErrNotImage, format)
	}
}

// extensionForFormat maps a decoded format name to a file extension.
func extensionForFormat(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "gif":
		return ".gif"
	default:
		return ".png"
	}
}

// SaveOriginal writes uploaded image bytes under <root>/originals/ with a
// freshly generated collision-free name and returns the stored path.
// Directories are created on demand; the write goes to a temporary file
// first and is renamed into place so readers never see a partial file.
func (s *Store) SaveOriginal(data []byte, format string) (string, error) {
	dir := filepath.Join(s.root, originalsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create originals dir: %w", err)
	}

	name := "image_" + uuid.NewString() + extensionForFormat(format)
	dest := filepath.Join(dir, name)
	if err := writeAtomic(dest, data); err != nil {
		return "", fmt.Errorf("save original: %w", err)
	}
	return filepath.ToSlash(dest), nil
}

// GenerateDerivatives produces one resized copy of the decoded original per
// class, named by the read-side convention, and returns the written paths.
// On any failure the derivatives written so far are removed.
func (s *Store) GenerateDerivatives(originalPath string, img image.Image, format string) ([]string, error) {
	var written []string
	for _, c := range Classes {
		dest := s.DerivativePath(c, originalPath)
		if err := os.MkdirAll(filepath.Dir(filepath.FromSlash(dest)), 0o755); err != nil {
			s.Remove(written...)
			return nil, fmt.Errorf("create %s dir: %w", c.Name, err)
		}

		scaled := fitToBox(img, c.Box)
		data, err := encode(scaled, format)
		if err != nil {
			s.Remove(written...)
			return nil, fmt.Errorf("encode %s: %w", c.Name, err)
		}

		if err := writeAtomic(filepath.FromSlash(dest), data); err != nil {
			s.Remove(written...)
			return nil, fmt.Errorf("write %s: %w", c.Name, err)
		}
		written = append(written, dest)
	}
	return written, nil
}

// Remove deletes the given files, logging rather than failing on error.
// Used for best-effort cleanup after deletes and failed uploads.
func (s *Store) Remove(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(filepath.FromSlash(p)); err != nil && !os.IsNotExist(err) {
			slog.Warn("asset remove failed", "path", p, "error", err)
		}
	}
}

// RemoveWithDerivatives deletes an original and all three of its derivatives.
func (s *Store) RemoveWithDerivatives(originalPath string) {
	paths := []string{originalPath}
	for _, c := range Classes {
		paths = append(paths, s.DerivativePath(c, originalPath))
	}
	s.Remove(paths...)
}

// encode serializes an image in the original's format.
func encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeAtomic writes data to a temporary sibling file and renames it into
// place, so concurrent readers never observe a partial write.
func writeAtomic(dest string, data []byte) error {
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
