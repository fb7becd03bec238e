package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"endless-terrain/internal/heightfield"
	"endless-terrain/internal/noise"
	"endless-terrain/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// MaxChunkRadius bounds the chunk radius override.
const MaxChunkRadius = 16

// ErrColour is returned for region colours that are not #rrggbb or #rrggbbaa.
var ErrColour = errors.New("config: invalid colour")

// Settings is the on-disk terrain configuration.
type Settings struct {
	Seed  int64       `yaml:"seed"`
	Noise NoiseConfig `yaml:"noise"`

	HeightMultiplier float64           `yaml:"height_multiplier"`
	HeightCurve      []heightfield.Key `yaml:"height_curve"`
	Regions          []RegionConfig    `yaml:"regions"`

	LODs          []LODConfig `yaml:"lods"`
	ChunkRadius   int         `yaml:"chunk_radius"`
	MoveThreshold float64     `yaml:"move_threshold"`
	Workers       int         `yaml:"workers"`
}

// NoiseConfig mirrors noise.Params with text enums.
type NoiseConfig struct {
	Scale       float64    `yaml:"scale"`
	Octaves     int        `yaml:"octaves"`
	Persistence float64    `yaml:"persistence"`
	Lacunarity  float64    `yaml:"lacunarity"`
	Normalize   string     `yaml:"normalize"`
	Basis       string     `yaml:"basis"`
	Offset      [2]float64 `yaml:"offset"`
}

// RegionConfig is one terrain band; Colour is a hex string.
type RegionConfig struct {
	Name   string  `yaml:"name"`
	Height float64 `yaml:"height"`
	Colour string  `yaml:"colour"`
}

// LODConfig is one LOD table entry.
type LODConfig struct {
	LOD             int     `yaml:"lod"`
	VisibleDistance float64 `yaml:"visible_distance"`
}

// Default returns settings for rolling islands with snowy peaks.
func Default() Settings {
	return Settings{
		Seed: 1,
		Noise: NoiseConfig{
			Scale:       50,
			Octaves:     5,
			Persistence: 0.5,
			Lacunarity:  2,
			Normalize:   "global",
			Basis:       "value",
		},
		HeightMultiplier: 36,
		HeightCurve: []heightfield.Key{
			{Time: 0, Value: 0},
			{Time: 0.4, Value: 0},
			{Time: 1, Value: 1},
		},
		Regions: []RegionConfig{
			{Name: "water deep", Height: 0.0, Colour: "#3263c3"},
			{Name: "water shallow", Height: 0.4, Colour: "#3666c6"},
			{Name: "sand", Height: 0.45, Colour: "#d2d07d"},
			{Name: "grass", Height: 0.55, Colour: "#569817"},
			{Name: "grass 2", Height: 0.6, Colour: "#3e6b12"},
			{Name: "rock", Height: 0.7, Colour: "#5a453c"},
			{Name: "rock 2", Height: 0.9, Colour: "#4b3c35"},
			{Name: "snow", Height: 1.0, Colour: "#ffffff"},
		},
		LODs: []LODConfig{
			{LOD: 0, VisibleDistance: 200},
			{LOD: 1, VisibleDistance: 400},
			{LOD: 4, VisibleDistance: 600},
		},
		MoveThreshold: terrain.DefaultMoveThreshold,
	}
}

// Load reads a YAML file on top of Default, so a file only needs the keys it
// changes.
func Load(path string) (Settings, error) {
	s := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("config: %s: %w", path, err)
	}
	return s, nil
}

// Validate reports the first setting that cannot be used. Noise parameters
// are clamped rather than rejected.
func (s Settings) Validate() error {
	if _, err := noise.ParseNormalizeMode(s.Noise.Normalize); err != nil {
		return err
	}
	if _, err := noise.ParseBasis(s.Noise.Basis); err != nil {
		return err
	}
	if _, err := s.TerrainRegions(); err != nil {
		return err
	}
	if s.ChunkRadius < 0 || s.ChunkRadius > MaxChunkRadius {
		return fmt.Errorf("chunk_radius %d outside [0,%d]", s.ChunkRadius, MaxChunkRadius)
	}
	return s.LODTable().Validate()
}

// NoiseParams converts the noise section. Unknown enum names fall back to
// the defaults; Validate reports them.
func (s Settings) NoiseParams() noise.Params {
	mode, _ := noise.ParseNormalizeMode(s.Noise.Normalize)
	basis, _ := noise.ParseBasis(s.Noise.Basis)
	return noise.Params{
		Scale:       s.Noise.Scale,
		Octaves:     s.Noise.Octaves,
		Persistence: s.Noise.Persistence,
		Lacunarity:  s.Noise.Lacunarity,
		Normalize:   mode,
		Basis:       basis,
	}.Sanitize()
}

// Curve builds the height curve, linear when no keys are set.
func (s Settings) Curve() heightfield.Curve {
	return heightfield.NewKeyframes(s.HeightCurve...)
}

// TerrainRegions parses the region colours into terrain types.
func (s Settings) TerrainRegions() ([]heightfield.TerrainType, error) {
	out := make([]heightfield.TerrainType, 0, len(s.Regions))
	for _, r := range s.Regions {
		c, err := ParseColour(r.Colour)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", r.Name, err)
		}
		out = append(out, heightfield.TerrainType{Name: r.Name, Height: r.Height, Colour: c})
	}
	return out, nil
}

// LODTable converts the lods section; Validate checks its ordering.
func (s Settings) LODTable() terrain.LODTable {
	t := make(terrain.LODTable, 0, len(s.LODs))
	for _, l := range s.LODs {
		t = append(t, terrain.LODInfo{LOD: l.LOD, VisibleDistance: l.VisibleDistance})
	}
	return t
}

// GeneratorOptions assembles everything a heightfield.Generator needs.
// Regions with bad colours are dropped; call Validate first to catch them.
func (s Settings) GeneratorOptions() heightfield.Options {
	regions, _ := s.TerrainRegions()
	return heightfield.Options{
		Seed:       s.Seed,
		Noise:      s.NoiseParams(),
		Curve:      s.Curve(),
		Multiplier: s.HeightMultiplier,
		Regions:    regions,
		Offset:     mgl64.Vec2{s.Noise.Offset[0], s.Noise.Offset[1]},
	}
}

// ParseColour parses "#rrggbb" or "#rrggbbaa"; the leading # is optional.
func ParseColour(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrColour, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrColour, s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
