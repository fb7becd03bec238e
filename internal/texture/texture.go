// Package texture turns heightfield buffers into images for previews and
// headless rendering.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"endless-terrain/internal/heightfield"
	"endless-terrain/internal/terrain"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrSize is returned when a buffer does not hold width*height samples.
var ErrSize = errors.New("texture: buffer size mismatch")

// FromColourMap copies a row-major colour buffer into an image.
func FromColourMap(colours []color.RGBA, width, height int) (*image.RGBA, error) {
	if width < 1 || height < 1 || len(colours) != width*height {
		return nil, fmt.Errorf("%w: %d colours for %dx%d", ErrSize, len(colours), width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, c := range colours {
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = c.A
	}
	return img, nil
}

// FromHeightMap maps normalized heights onto black..white. Values outside
// [0,1] are clamped.
func FromHeightMap(heights []float32, width, height int) (*image.Gray, error) {
	if width < 1 || height < 1 || len(heights) != width*height {
		return nil, fmt.Errorf("%w: %d heights for %dx%d", ErrSize, len(heights), width, height)
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i, h := range heights {
		v := math.Max(0, math.Min(1, float64(h)))
		img.Pix[i] = uint8(math.Round(v * 255))
	}
	return img, nil
}

// Upscale enlarges src by an integer factor with nearest-neighbour
// sampling, so every sample stays a sharp square. Factors below 1 are
// treated as 1.
func Upscale(src image.Image, factor int) *image.RGBA {
	factor = max(factor, 1)
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// DrawLegend writes one line per region in the top-left corner of dst, each
// with a swatch of its colour.
func DrawLegend(dst draw.Image, regions heightfield.Regions) {
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil() + 2
	d := &font.Drawer{Dst: dst, Src: image.White, Face: face}

	for i, r := range regions {
		top := 4 + i*lineHeight
		swatch := image.Rect(4, top, 4+lineHeight-2, top+lineHeight-2)
		draw.Draw(dst, swatch, image.NewUniform(r.Colour), image.Point{}, draw.Src)

		d.Dot = fixed.P(swatch.Max.X+4, top+face.Metrics().Ascent.Ceil())
		d.DrawString(fmt.Sprintf("%.2f %s", r.Height, r.Name))
	}
}

// ImageFactory is a terrain.TextureFactory producing *image.RGBA textures,
// upscaled by Scale when it is above 1.
type ImageFactory struct {
	Scale int
}

var _ terrain.TextureFactory = ImageFactory{}

// NewTexture implements terrain.TextureFactory. A malformed buffer yields a
// nil texture.
func (f ImageFactory) NewTexture(colours []color.RGBA, width, height int) terrain.Texture {
	img, err := FromColourMap(colours, width, height)
	if err != nil {
		return nil
	}
	if f.Scale > 1 {
		return Upscale(img, f.Scale)
	}
	return img
}
