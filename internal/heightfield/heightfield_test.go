package heightfield

import (
	"image/color"
	"math"
	"testing"

	"endless-terrain/internal/noise"
)

var (
	water = color.RGBA{R: 0x32, G: 0x62, B: 0xc5, A: 0xff}
	sand  = color.RGBA{R: 0xd2, G: 0xd0, B: 0x7d, A: 0xff}
	grass = color.RGBA{R: 0x56, G: 0x98, B: 0x1b, A: 0xff}
	snow  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func scenarioOptions() Options {
	return Options{
		Seed: 1,
		Noise: noise.Params{
			Scale:       50,
			Octaves:     4,
			Persistence: 0.5,
			Lacunarity:  2,
			Normalize:   noise.Global,
		},
		Multiplier: 20,
		Regions: []TerrainType{
			{Name: "Snow", Height: 0.9, Colour: snow},
			{Name: "Water", Height: 0, Colour: water},
			{Name: "Grass", Height: 0.5, Colour: grass},
			{Name: "Sand", Height: 0.4, Colour: sand},
		},
	}
}

func TestGenerateSameChunkTwiceIsIdentical(t *testing.T) {
	g := NewGenerator(scenarioOptions())
	if g.ChunkSize() != 240 {
		t.Fatalf("chunk size: got %d, want 240", g.ChunkSize())
	}
	coord := ChunkCoord{X: 3, Y: -2}
	a, err := g.Generate(coord)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := NewGenerator(scenarioOptions()).Generate(coord)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if a.Width != Resolution || a.Height != Resolution {
		t.Fatalf("size: got %dx%d", a.Width, a.Height)
	}
	for i := range a.Heights {
		if math.Float32bits(a.Heights[i]) != math.Float32bits(b.Heights[i]) {
			t.Fatalf("height %d differs", i)
		}
		if a.Elevations[i] != b.Elevations[i] || a.Colours[i] != b.Colours[i] {
			t.Fatalf("derived sample %d differs", i)
		}
	}
}

func TestClassifyHighestQualifyingThresholdWins(t *testing.T) {
	r := SortRegions(scenarioOptions().Regions)
	cases := []struct {
		h    float64
		want color.RGBA
	}{
		{0.0, water},
		{0.39, water},
		{0.4, sand},
		{0.5, grass},
		{0.89, grass},
		{0.9, snow},
		{1.0, snow},
	}
	for _, c := range cases {
		if got := r.Classify(c.h); got != c.want {
			t.Errorf("Classify(%v) = %v, want %v", c.h, got, c.want)
		}
	}
}

func TestClassifyBelowEveryRegionUsesDefault(t *testing.T) {
	r := SortRegions([]TerrainType{{Name: "Hill", Height: 0.5, Colour: grass}})
	if got := r.Classify(0.2); got != DefaultColour {
		t.Errorf("got %v, want default %v", got, DefaultColour)
	}
	if got := r.Name(0.2); got != "" {
		t.Errorf("name below regions: got %q", got)
	}
}

func TestEqualThresholdsLaterEntryWins(t *testing.T) {
	r := SortRegions([]TerrainType{
		{Name: "A", Height: 0.3, Colour: sand},
		{Name: "B", Height: 0.3, Colour: grass},
	})
	if got := r.Name(0.3); got != "B" {
		t.Errorf("got %q, want B", got)
	}
}

func TestElevationAppliesCurveAndMultiplier(t *testing.T) {
	opts := scenarioOptions()
	opts.Curve = NewKeyframes(Key{Time: 0, Value: 0}, Key{Time: 0.4, Value: 0}, Key{Time: 1, Value: 1})
	g := NewGenerator(opts)
	hf, err := g.Generate(ChunkCoord{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i, h := range hf.Heights {
		want := float32(opts.Multiplier * opts.Curve.Evaluate(float64(h)))
		if hf.Elevations[i] != want {
			t.Fatalf("elevation %d: got %v, want %v", i, hf.Elevations[i], want)
		}
		if h < 0.4 && hf.Elevations[i] != 0 {
			t.Fatalf("elevation %d below the flat band: got %v", i, hf.Elevations[i])
		}
	}
}

func TestKeyframesMonotonic(t *testing.T) {
	c := NewKeyframes(Key{Time: 1, Value: 0.2}, Key{Time: 0, Value: 0.5}, Key{Time: 0.5, Value: 0.1})
	prev := math.Inf(-1)
	for i := 0; i <= 100; i++ {
		v := c.Evaluate(float64(i) / 100)
		if v < prev {
			t.Fatalf("curve decreases at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
	if got := NewKeyframes().Evaluate(0.3); got != 0.3 {
		t.Errorf("empty keyframes should be identity, got %v", got)
	}
}

func TestGenerateRejectsTinyResolution(t *testing.T) {
	opts := scenarioOptions()
	opts.Resolution = 1
	if _, err := NewGenerator(opts).Generate(ChunkCoord{}); err == nil {
		t.Fatalf("expected error for resolution 1")
	}
}
