package heightfield

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"endless-terrain/internal/noise"
	"endless-terrain/internal/profiling"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrResolution is returned for grids smaller than 2×2.
	ErrResolution = errors.New("heightfield: resolution must be at least 2")
	// ErrNonFinite is returned when the noise produced NaN or Inf.
	ErrNonFinite = errors.New("heightfield: non-finite sample")
)

// Heightfield is the generated data of one chunk. It is never mutated after
// Generate returns and may be read from any number of goroutines.
type Heightfield struct {
	Coord  ChunkCoord
	Width  int
	Height int
	// Heights are normalized noise values, row-major (y*Width+x).
	Heights []float32
	// Elevations are multiplier*curve(height), the mesh Y of each sample.
	Elevations []float32
	// Colours are the terrain classification of each sample.
	Colours []color.RGBA
}

// HeightAt returns the normalized height at (x, y).
func (h *Heightfield) HeightAt(x, y int) float32 { return h.Heights[y*h.Width+x] }

// ElevationAt returns the precomputed mesh elevation at (x, y).
func (h *Heightfield) ElevationAt(x, y int) float32 { return h.Elevations[y*h.Width+x] }

// Options configure a Generator.
type Options struct {
	Seed       int64
	Noise      noise.Params
	Curve      Curve
	Multiplier float64
	Regions    []TerrainType
	// Offset shifts every chunk's noise origin in world units.
	Offset mgl64.Vec2
	// Resolution defaults to the package Resolution when zero.
	Resolution int
}

// Generator produces heightfields for chunk coordinates. It holds only
// immutable configuration, so Generate may run on any goroutine.
type Generator struct {
	seed       int64
	params     noise.Params
	curve      Curve
	multiplier float64
	regions    Regions
	offset     mgl64.Vec2
	resolution int
}

// NewGenerator creates a generator. Noise parameters are clamped and regions
// sorted once here.
func NewGenerator(opts Options) *Generator {
	res := opts.Resolution
	if res == 0 {
		res = Resolution
	}
	curve := opts.Curve
	if curve == nil {
		curve = Linear()
	}
	return &Generator{
		seed:       opts.Seed,
		params:     opts.Noise.Sanitize(),
		curve:      curve,
		multiplier: opts.Multiplier,
		regions:    SortRegions(opts.Regions),
		offset:     opts.Offset,
		resolution: res,
	}
}

// Resolution returns the samples per chunk edge.
func (g *Generator) Resolution() int { return g.resolution }

// ChunkSize returns the world-space chunk edge length.
func (g *Generator) ChunkSize() int { return g.resolution - 1 }

// Params returns the sanitized noise parameters.
func (g *Generator) Params() noise.Params { return g.params }

// Curve returns the height curve.
func (g *Generator) Curve() Curve { return g.curve }

// Multiplier returns the height multiplier.
func (g *Generator) Multiplier() float64 { return g.multiplier }

// Regions returns the sorted terrain regions.
func (g *Generator) Regions() Regions { return g.regions }

// Generate samples the noise field for coord and derives elevations and
// colours. Identical generators always return identical heightfields for the
// same coordinate.
func (g *Generator) Generate(coord ChunkCoord) (*Heightfield, error) {
	defer profiling.Track("heightfield.Generate")()

	if g.resolution < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrResolution, g.resolution)
	}

	centre := coord.Origin(g.ChunkSize()).Add(g.offset)
	field := noise.Sample(g.seed, g.resolution, g.resolution, centre, g.params)

	n := len(field.Values)
	hf := &Heightfield{
		Coord:      coord,
		Width:      field.Width,
		Height:     field.Height,
		Heights:    field.Values,
		Elevations: make([]float32, n),
		Colours:    make([]color.RGBA, n),
	}
	for i, v := range field.Values {
		h := float64(v)
		if math.IsNaN(h) || math.IsInf(h, 0) {
			return nil, fmt.Errorf("%w at chunk %v index %d", ErrNonFinite, coord, i)
		}
		hf.Elevations[i] = float32(g.multiplier * g.curve.Evaluate(h))
		hf.Colours[i] = g.regions.Classify(h)
	}
	return hf, nil
}

// Source produces heightfields for chunk coordinates. Implementations must
// be safe for concurrent use. *Generator is the standard Source.
type Source interface {
	Generate(coord ChunkCoord) (*Heightfield, error)
	ChunkSize() int
}

var _ Source = (*Generator)(nil)
