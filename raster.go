package dpm

import (
	"image"
	"image/color"
)

// ImageRef is the pixel-access contract the DP engine consumes. Any type
// satisfying it can stand in for an input or reference image; the engine
// never depends on the concrete representation.
type ImageRef interface {
	// Width returns the number of columns.
	Width() int
	// Height returns the number of rows (scanlines).
	Height() int
	// PixelAt returns the RGB channels of the pixel at (x, y).
	PixelAt(x, y int) (r, g, b byte)
}

// MutableImageRef is an ImageRef that also allows writing pixels. EdgeMap
// and the CLI's output rasters need this; the matching engine itself only
// ever requires the read-only ImageRef.
type MutableImageRef interface {
	ImageRef
	SetPixelAt(x, y int, r, g, b byte)
}

// Raster is a minimal width×height array of RGB byte pixels, addressable
// as (x, y) -> (r, g, b). It has no alpha channel: the matching engine
// never blends, it only samples, so a fourth byte per pixel would be
// dead weight.
//
// Raster implements image.Image so it interoperates with image/png and
// golang.org/x/image/bmp without a private codec.
type Raster struct {
	width  int
	height int
	data   []byte // RGB, 3 bytes per pixel, row-major
}

// NewRaster creates a new raster with the given dimensions, initialized
// to black.
func NewRaster(width, height int) *Raster {
	return &Raster{
		width:  width,
		height: height,
		data:   make([]byte, width*height*3),
	}
}

// NewRasterFromImage adapts any image.Image into a Raster, discarding
// alpha. Pixel (0,0) of the raster corresponds to img.Bounds().Min.
func NewRasterFromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	r := NewRaster(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pr, pg, pb, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r.SetPixelAt(x, y, byte(pr>>8), byte(pg>>8), byte(pb>>8))
		}
	}

	return r
}

// Width returns the number of columns.
func (r *Raster) Width() int { return r.width }

// Height returns the number of rows.
func (r *Raster) Height() int { return r.height }

// PixelAt returns the RGB channels of the pixel at (x, y). Out-of-bounds
// coordinates return black; callers that need bounds checking should
// check Width/Height themselves, matching the teacher's Pixmap contract.
func (r *Raster) PixelAt(x, y int) (rr, gg, bb byte) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return 0, 0, 0
	}
	i := (y*r.width + x) * 3
	return r.data[i], r.data[i+1], r.data[i+2]
}

// SetPixelAt sets the RGB channels of the pixel at (x, y). Out-of-bounds
// writes are silently ignored.
func (r *Raster) SetPixelAt(x, y int, rr, gg, bb byte) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return
	}
	i := (y*r.width + x) * 3
	r.data[i], r.data[i+1], r.data[i+2] = rr, gg, bb
}

// Clear fills the entire raster with a single RGB color.
func (r *Raster) Clear(rr, gg, bb byte) {
	for i := 0; i < len(r.data); i += 3 {
		r.data[i], r.data[i+1], r.data[i+2] = rr, gg, bb
	}
}

// At implements image.Image.
func (r *Raster) At(x, y int) color.Color {
	rr, gg, bb := r.PixelAt(x, y)
	return color.RGBA{R: rr, G: gg, B: bb, A: 255}
}

// Bounds implements image.Image.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// ColorModel implements image.Image.
func (r *Raster) ColorModel() color.Model {
	return color.RGBAModel
}
