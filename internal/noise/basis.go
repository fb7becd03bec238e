package noise

import (
	"math"

	perlin "github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// sampler evaluates one octave of noise in [-1,1]. Implementations are
// read-only after construction so one sampler may serve many goroutines.
type sampler interface {
	eval(x, y float64) float64
}

func newSampler(b Basis, seed int64) sampler {
	switch b {
	case Perlin:
		return perlinSampler{p: perlin.NewPerlin(2, 2, 1, seed)}
	case OpenSimplex:
		return simplexSampler{n: opensimplex.New(seed)}
	default:
		return valueSampler{seed: seed}
	}
}

type valueSampler struct {
	seed int64
}

func (s valueSampler) eval(x, y float64) float64 {
	return clampUnit(valueNoise2D(x, y, s.seed)*2 - 1)
}

type perlinSampler struct {
	p *perlin.Perlin
}

func (s perlinSampler) eval(x, y float64) float64 {
	return clampUnit(s.p.Noise2D(x, y))
}

type simplexSampler struct {
	n opensimplex.Noise
}

func (s simplexSampler) eval(x, y float64) float64 {
	return clampUnit(s.n.Eval2(x, y))
}

// clampUnit keeps basis output inside [-1,1] so MaxAmplitude stays a true
// bound for Global normalization, rounding included.
func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// hash2 is a SplitMix64 mix of a lattice point and seed. Each coordinate is
// spread by its own odd multiplier first, so no lattice step maps onto
// another and the noise has no period.
func hash2(x, y, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 ^ uint64(y)*0xC2B2AE3D27D4EB4F ^ uint64(seed)*0x165667B19E3779F9
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

func latticeValue(x, y, seed int64) float64 {
	return float64(hash2(x, y, seed)&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

// valueNoise2D returns smoothly interpolated lattice noise in [0,1].
func valueNoise2D(x, y float64, seed int64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	ix, iy := int64(x0), int64(y0)

	fx := fade(x - x0)
	fy := fade(y - y0)

	v00 := latticeValue(ix, iy, seed)
	v10 := latticeValue(ix+1, iy, seed)
	v01 := latticeValue(ix, iy+1, seed)
	v11 := latticeValue(ix+1, iy+1, seed)

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fy)
}
