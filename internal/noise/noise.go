package noise

import (
	"math"
	"math/rand"

	"endless-terrain/internal/profiling"

	"github.com/go-gl/mathgl/mgl64"
)

// octaveOffsetRange bounds the per-octave random shift. Large enough that
// octaves land in unrelated regions of the basis, small enough to keep
// float64 lattice coordinates exact.
const octaveOffsetRange = 100000

// Field is a width×height grid of normalized noise, row-major (y*Width+x).
// RawMin and RawMax are the extremes of the octave sums before normalization.
type Field struct {
	Width, Height  int
	Values         []float32
	RawMin, RawMax float64
}

// At returns the normalized value at grid position (x, y).
func (f *Field) At(x, y int) float32 {
	return f.Values[y*f.Width+x]
}

// OctaveOffsets derives one pseudo-random offset per octave from seed and
// adds the world offset to each. The same seed always yields the same list.
func OctaveOffsets(seed int64, octaves int, offset mgl64.Vec2) []mgl64.Vec2 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]mgl64.Vec2, max(octaves, 1))
	for i := range out {
		ox := float64(rng.Intn(2*octaveOffsetRange) - octaveOffsetRange)
		oy := float64(rng.Intn(2*octaveOffsetRange) - octaveOffsetRange)
		out[i] = mgl64.Vec2{ox + offset.X(), oy + offset.Y()}
	}
	return out
}

// Sample builds a fractal noise grid centred on offset. Grid cell (x, y)
// samples world coordinate offset + (x - (width-1)/2, y - (height-1)/2), so
// neighbouring grids whose centres are width-1 apart share their border
// samples exactly. Sample is a pure function of its arguments.
func Sample(seed int64, width, height int, offset mgl64.Vec2, p Params) *Field {
	defer profiling.Track("noise.Sample")()

	p = p.Sanitize()
	width = max(width, 1)
	height = max(height, 1)

	octaves := OctaveOffsets(seed, p.Octaves, offset)
	basis := newSampler(p.Basis, seed)

	halfW := float64(width-1) / 2
	halfH := float64(height-1) / 2

	raw := make([]float64, width*height)
	minV := math.Inf(1)
	maxV := math.Inf(-1)

	for y := range height {
		for x := range width {
			amplitude := 1.0
			frequency := 1.0
			sum := 0.0
			for _, o := range octaves {
				sx := (float64(x) - halfW + o.X()) / p.Scale * frequency
				sy := (float64(y) - halfH + o.Y()) / p.Scale * frequency
				sum += basis.eval(sx, sy) * amplitude
				amplitude *= p.Persistence
				frequency *= p.Lacunarity
			}
			raw[y*width+x] = sum
			minV = math.Min(minV, sum)
			maxV = math.Max(maxV, sum)
		}
	}

	f := &Field{
		Width:  width,
		Height: height,
		Values: make([]float32, len(raw)),
		RawMin: minV,
		RawMax: maxV,
	}

	switch p.Normalize {
	case Local:
		span := maxV - minV
		for i, v := range raw {
			if span > 0 {
				f.Values[i] = float32((v - minV) / span)
			}
		}
	default:
		amp := MaxAmplitude(p)
		for i, v := range raw {
			f.Values[i] = float32((v + amp) / (2 * amp))
		}
	}
	return f
}
