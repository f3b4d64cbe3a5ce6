package assets

import (
	"image"

	"golang.org/x/image/draw"
)

// fitToBox scales img so neither dimension exceeds box pixels, preserving
// aspect ratio. Images already inside the box are returned unchanged;
// derivatives are never upscaled beyond the source.
func fitToBox(img image.Image, box int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= box && h <= box {
		return img
	}

	ratio := float64(box) / float64(w)
	if rh := float64(box) / float64(h); rh < ratio {
		ratio = rh
	}
	nw := int(float64(w) * ratio)
	nh := int(float64(h) * ratio)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
