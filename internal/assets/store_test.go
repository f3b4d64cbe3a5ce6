package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testPNG encodes a solid-color PNG of the given size.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := Decode([]byte("definitely not an image"))
	if !errors.Is(err, ErrNotImage) {
		t.Errorf("expected ErrNotImage, got %v", err)
	}
}

func TestDecodeRejectsOversizedDimensions(t *testing.T) {
	// A uniform paletted PNG with huge dimensions compresses to a tiny
	// file, so a body size cap alone does not bound decode memory. The
	// dimension check must reject it before any full decode.
	big := image.NewPaletted(image.Rect(0, 0, 11000, 11000), color.Palette{color.Black})
	var buf bytes.Buffer
	if err := png.Encode(&buf, big); err != nil {
		t.Fatalf("encode oversized png: %v", err)
	}
	if buf.Len() > 1<<20 {
		t.Fatalf("oversized png unexpectedly large on the wire: %d bytes", buf.Len())
	}

	_, _, err := Decode(buf.Bytes())
	if !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("expected ErrImageTooLarge for 11000x11000, got %v", err)
	}
}

func TestDecodePNG(t *testing.T) {
	img, format, err := Decode(testPNG(t, 10, 20))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "png" {
		t.Errorf("format: got %q, want %q", format, "png")
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 20 {
		t.Errorf("bounds: got %dx%d, want 10x20", b.Dx(), b.Dy())
	}
}

func TestSaveOriginalUniqueNames(t *testing.T) {
	s := NewStore(t.TempDir())
	data := testPNG(t, 4, 4)

	first, err := s.SaveOriginal(data, "png")
	if err != nil {
		t.Fatalf("SaveOriginal: %v", err)
	}
	second, err := s.SaveOriginal(data, "png")
	if err != nil {
		t.Fatalf("SaveOriginal: %v", err)
	}

	if first == second {
		t.Errorf("expected unique names, got %q twice", first)
	}
	for _, p := range []string{first, second} {
		if _, err := os.Stat(filepath.FromSlash(p)); err != nil {
			t.Errorf("original %q missing: %v", p, err)
		}
		if !strings.Contains(p, "/originals/") {
			t.Errorf("original %q not under originals/", p)
		}
		if !strings.HasSuffix(p, ".png") {
			t.Errorf("original %q missing png extension", p)
		}
	}
}

func TestGenerateDerivativesFitsBoxes(t *testing.T) {
	s := NewStore(t.TempDir())
	data := testPNG(t, 800, 600)

	img, format, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	orig, err := s.SaveOriginal(data, format)
	if err != nil {
		t.Fatalf("SaveOriginal: %v", err)
	}

	paths, err := s.GenerateDerivatives(orig, img, format)
	if err != nil {
		t.Fatalf("GenerateDerivatives: %v", err)
	}
	if len(paths) != len(Classes) {
		t.Fatalf("derivatives: got %d, want %d", len(paths), len(Classes))
	}

	// 800x600 scaled into each box, aspect ratio preserved; the 1200 box
	// must not upscale past the source.
	wantDims := map[int][2]int{100: {100, 75}, 400: {400, 300}, 1200: {800, 600}}
	for i, c := range Classes {
		if want := s.DerivativePath(c, orig); paths[i] != want {
			t.Errorf("%s path: got %q, want %q", c.Name, paths[i], want)
		}
		w, h := decodeDims(t, paths[i])
		if want := wantDims[c.Box]; w != want[0] || h != want[1] {
			t.Errorf("%s dims: got %dx%d, want %dx%d", c.Name, w, h, want[0], want[1])
		}
	}
}

func TestGenerateDerivativesNeverUpscales(t *testing.T) {
	s := NewStore(t.TempDir())
	data := testPNG(t, 50, 50)

	img, format, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	orig, err := s.SaveOriginal(data, format)
	if err != nil {
		t.Fatalf("SaveOriginal: %v", err)
	}

	paths, err := s.GenerateDerivatives(orig, img, format)
	if err != nil {
		t.Fatalf("GenerateDerivatives: %v", err)
	}

	for i, c := range Classes {
		w, h := decodeDims(t, paths[i])
		if w != 50 || h != 50 {
			t.Errorf("%s: got %dx%d, want 50x50 (no upscaling)", c.Name, w, h)
		}
	}
}

func TestRemoveWithDerivatives(t *testing.T) {
	s := NewStore(t.TempDir())
	data := testPNG(t, 120, 120)

	img, format, _ := Decode(data)
	orig, err := s.SaveOriginal(data, format)
	if err != nil {
		t.Fatalf("SaveOriginal: %v", err)
	}
	paths, err := s.GenerateDerivatives(orig, img, format)
	if err != nil {
		t.Fatalf("GenerateDerivatives: %v", err)
	}

	s.RemoveWithDerivatives(orig)

	for _, p := range append([]string{orig}, paths...) {
		if _, err := os.Stat(filepath.FromSlash(p)); !os.IsNotExist(err) {
			t.Errorf("expected %q removed, stat err = %v", p, err)
		}
	}
}

// decodeDims decodes a written derivative and returns its dimensions.
func decodeDims(t *testing.T, p string) (int, int) {
	t.Helper()
	data, err := os.ReadFile(filepath.FromSlash(p))
	if err != nil {
		t.Fatalf("read derivative %q: %v", p, err)
	}
	img, _, err := Decode(data)
	if err != nil {
		t.Fatalf("derivative %q not decodable: %v", p, err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}
