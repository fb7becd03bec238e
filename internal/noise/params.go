package noise

import (
	"fmt"
	"math"
	"strings"
)

// MinScale is substituted for any non-positive noise scale.
const MinScale = 0.0001

// NormalizeMode selects how accumulated octave sums are mapped into [0,1].
type NormalizeMode int

const (
	// Local rescales a grid by its own observed min/max. Higher contrast,
	// but independently generated chunks do not line up at their borders.
	Local NormalizeMode = iota
	// Global divides by the analytical maximum amplitude so every chunk
	// shares one mapping and borders stitch without seams.
	Global
)

func (m NormalizeMode) String() string {
	switch m {
	case Local:
		return "local"
	case Global:
		return "global"
	default:
		return fmt.Sprintf("NormalizeMode(%d)", int(m))
	}
}

// ParseNormalizeMode accepts "local" or "global" (case-insensitive).
func ParseNormalizeMode(s string) (NormalizeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local":
		return Local, nil
	case "global", "":
		return Global, nil
	}
	return Global, fmt.Errorf("noise: unknown normalize mode %q", s)
}

// Basis is the single-octave 2D noise function summed by Sample.
type Basis int

const (
	// Value is hashed lattice value noise with quintic interpolation.
	Value Basis = iota
	// Perlin is gradient noise from github.com/aquilax/go-perlin.
	Perlin
	// OpenSimplex is github.com/ojrac/opensimplex-go.
	OpenSimplex
)

func (b Basis) String() string {
	switch b {
	case Value:
		return "value"
	case Perlin:
		return "perlin"
	case OpenSimplex:
		return "opensimplex"
	default:
		return fmt.Sprintf("Basis(%d)", int(b))
	}
}

// ParseBasis accepts "value", "perlin" or "opensimplex" (case-insensitive).
func ParseBasis(s string) (Basis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "value", "":
		return Value, nil
	case "perlin":
		return Perlin, nil
	case "opensimplex", "simplex":
		return OpenSimplex, nil
	}
	return Value, fmt.Errorf("noise: unknown basis %q", s)
}

// Params are the octave parameters of a fractal noise field.
type Params struct {
	Scale       float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Normalize   NormalizeMode
	Basis       Basis
}

// Sanitize returns a copy with every field clamped into its valid range.
// Terrain must stay stable while parameters are edited live, so bad values
// are corrected here instead of being reported.
func (p Params) Sanitize() Params {
	if !(p.Scale > 0) || math.IsInf(p.Scale, 0) {
		p.Scale = MinScale
	}
	if p.Octaves < 1 {
		p.Octaves = 1
	}
	if math.IsNaN(p.Persistence) || p.Persistence < 0 {
		p.Persistence = 0
	}
	if p.Persistence > 1 {
		p.Persistence = 1
	}
	if !(p.Lacunarity >= 1) || math.IsInf(p.Lacunarity, 0) {
		p.Lacunarity = 1
	}
	return p
}

// MaxAmplitude is the largest absolute value an octave sum can reach when
// every octave returns values in [-1,1].
func MaxAmplitude(p Params) float64 {
	p = p.Sanitize()
	total := 0.0
	amplitude := 1.0
	for range p.Octaves {
		total += amplitude
		amplitude *= p.Persistence
	}
	return total
}
