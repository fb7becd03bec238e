package noise

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func testParams() Params {
	return Params{
		Scale:       50,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2,
		Normalize:   Global,
	}
}

func TestHash2Deterministic(t *testing.T) {
	first := hash2(10, 20, 42)
	for i := 0; i < 100; i++ {
		if h := hash2(10, 20, 42); h != first {
			t.Fatalf("hash2 not deterministic: got %d, want %d", h, first)
		}
	}
}

func TestHash2DifferentInputs(t *testing.T) {
	if hash2(1, 0, 42) == hash2(2, 0, 42) {
		t.Errorf("hash2 should differ for different X")
	}
	if hash2(0, 1, 42) == hash2(0, 2, 42) {
		t.Errorf("hash2 should differ for different Y")
	}
	if hash2(1, 1, 100) == hash2(1, 1, 200) {
		t.Errorf("hash2 should differ for different seed")
	}
}

func TestHash2HasNoLatticePeriod(t *testing.T) {
	steps := [][2]int64{{2, -1}, {1, 1}, {-1, 2}, {4, -2}, {1, -1}}
	for x := int64(-8); x <= 8; x++ {
		for y := int64(-8); y <= 8; y++ {
			for _, s := range steps {
				if hash2(x, y, 1) == hash2(x+s[0], y+s[1], 1) {
					t.Fatalf("hash2(%d,%d) repeats at step %v", x, y, s)
				}
			}
		}
	}
}

func TestValueFieldDoesNotRepeat(t *testing.T) {
	p := testParams()
	p.Octaves = 5
	p.Basis = Value
	a := Sample(1, 64, 64, mgl64.Vec2{0, 0}, p)
	b := Sample(1, 64, 64, mgl64.Vec2{100, -50}, p)
	same := 0
	for i := range a.Values {
		if a.Values[i] == b.Values[i] {
			same++
		}
	}
	if same > len(a.Values)/100 {
		t.Fatalf("%d of %d samples repeat 100,-50 units away", same, len(a.Values))
	}
}

func TestValueNoise2DRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for i := 0; i < 1000; i++ {
		x := rng.Float64()*2000 - 1000
		y := rng.Float64()*2000 - 1000
		if v := valueNoise2D(x, y, 42); v < 0 || v > 1 {
			t.Errorf("valueNoise2D(%f, %f) = %f, expected in [0,1]", x, y, v)
		}
	}
}

func TestValueNoise2DContinuity(t *testing.T) {
	v1 := valueNoise2D(1.0, 1.0, 42)
	v2 := valueNoise2D(1.01, 1.0, 42)
	if diff := math.Abs(v1 - v2); diff >= 0.1 {
		t.Errorf("valueNoise2D not continuous: %f vs %f, diff=%f", v1, v2, diff)
	}
}

func TestSanitizeClampsInvalidParameters(t *testing.T) {
	p := Params{Scale: -3, Octaves: -2, Persistence: 1.5, Lacunarity: 0.25}.Sanitize()
	if p.Scale != MinScale {
		t.Errorf("scale: got %v, want %v", p.Scale, MinScale)
	}
	if p.Octaves != 1 {
		t.Errorf("octaves: got %d, want 1", p.Octaves)
	}
	if p.Persistence != 1 {
		t.Errorf("persistence: got %v, want 1", p.Persistence)
	}
	if p.Lacunarity != 1 {
		t.Errorf("lacunarity: got %v, want 1", p.Lacunarity)
	}

	if p := (Params{Scale: math.NaN()}).Sanitize(); p.Scale != MinScale {
		t.Errorf("NaN scale: got %v, want %v", p.Scale, MinScale)
	}
}

func TestSampleZeroScaleDoesNotPanic(t *testing.T) {
	p := testParams()
	p.Scale = 0
	f := Sample(1, 16, 16, mgl64.Vec2{}, p)
	for i, v := range f.Values {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("value %d is not finite: %v", i, v)
		}
	}
}

func TestMaxAmplitude(t *testing.T) {
	if got := MaxAmplitude(testParams()); got != 1.875 {
		t.Errorf("MaxAmplitude: got %v, want 1.875", got)
	}
	p := testParams()
	p.Persistence = 0
	if got := MaxAmplitude(p); got != 1 {
		t.Errorf("MaxAmplitude with zero persistence: got %v, want 1", got)
	}
}

func TestSampleDeterministic(t *testing.T) {
	for _, basis := range []Basis{Value, Perlin, OpenSimplex} {
		p := testParams()
		p.Basis = basis
		a := Sample(7, 33, 33, mgl64.Vec2{240, -480}, p)
		b := Sample(7, 33, 33, mgl64.Vec2{240, -480}, p)
		for i := range a.Values {
			if math.Float32bits(a.Values[i]) != math.Float32bits(b.Values[i]) {
				t.Fatalf("%v: sample %d differs: %v vs %v", basis, i, a.Values[i], b.Values[i])
			}
		}
	}
}

func TestSampleSeedChangesOutput(t *testing.T) {
	a := Sample(1, 17, 17, mgl64.Vec2{}, testParams())
	b := Sample(2, 17, 17, mgl64.Vec2{}, testParams())
	same := true
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			same = false
			break
		}
	}
	if same {
		t.Errorf("different seeds produced identical fields")
	}
}

func TestGlobalRangeWithoutClamping(t *testing.T) {
	for _, basis := range []Basis{Value, Perlin, OpenSimplex} {
		for octaves := 1; octaves <= 8; octaves++ {
			for _, persistence := range []float64{0.1, 0.5, 0.9} {
				p := Params{Scale: 23.7, Octaves: octaves, Persistence: persistence, Lacunarity: 2, Normalize: Global, Basis: basis}
				f := Sample(int64(octaves), 25, 25, mgl64.Vec2{float64(octaves) * 240, 0}, p)
				for i, v := range f.Values {
					if v < 0 || v > 1 {
						t.Fatalf("%v octaves=%d persistence=%v: value %d = %v outside [0,1]", basis, octaves, persistence, i, v)
					}
				}
			}
		}
	}
}

func TestLocalModeSpansUnitInterval(t *testing.T) {
	p := testParams()
	p.Normalize = Local
	f := Sample(3, 41, 41, mgl64.Vec2{}, p)
	lo, hi := float32(1), float32(0)
	for _, v := range f.Values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo != 0 || hi != 1 {
		t.Errorf("local mode range: got [%v,%v], want [0,1]", lo, hi)
	}
}

func TestGlobalBordersMatchBetweenNeighbours(t *testing.T) {
	const size = 65
	p := testParams()
	left := Sample(9, size, size, mgl64.Vec2{0, 0}, p)
	right := Sample(9, size, size, mgl64.Vec2{size - 1, 0}, p)
	for y := 0; y < size; y++ {
		if l, r := left.At(size-1, y), right.At(0, y); l != r {
			t.Fatalf("row %d: border mismatch %v vs %v", y, l, r)
		}
	}
}

func TestParseModes(t *testing.T) {
	if m, err := ParseNormalizeMode("Local"); err != nil || m != Local {
		t.Errorf("ParseNormalizeMode(Local) = %v, %v", m, err)
	}
	if _, err := ParseNormalizeMode("bogus"); err == nil {
		t.Errorf("expected error for unknown mode")
	}
	if b, err := ParseBasis("opensimplex"); err != nil || b != OpenSimplex {
		t.Errorf("ParseBasis(opensimplex) = %v, %v", b, err)
	}
}
