package heightfield

import (
	"math"
	"sort"
)

// Curve remaps a normalized height before it is scaled into mesh elevation.
// Implementations must be monotonic non-decreasing and safe for concurrent use.
type Curve interface {
	Evaluate(t float64) float64
}

type linearCurve struct{}

func (linearCurve) Evaluate(t float64) float64 { return t }

// Linear returns the identity curve.
func Linear() Curve { return linearCurve{} }

// Key is one control point of a Keyframes curve.
type Key struct {
	Time  float64 `yaml:"time"`
	Value float64 `yaml:"value"`
}

// Keyframes is a piecewise-linear curve through its keys. Inputs before the
// first key or after the last one hold the end values.
type Keyframes struct {
	keys []Key
}

// NewKeyframes sorts keys by time and forces values to be non-decreasing so
// the result is always a valid monotonic remap. Fewer than one key yields
// the identity curve.
func NewKeyframes(keys ...Key) Curve {
	if len(keys) == 0 {
		return Linear()
	}
	ks := make([]Key, 0, len(keys))
	for _, k := range keys {
		if math.IsNaN(k.Time) || math.IsNaN(k.Value) {
			continue
		}
		ks = append(ks, k)
	}
	if len(ks) == 0 {
		return Linear()
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].Time < ks[j].Time })
	for i := 1; i < len(ks); i++ {
		ks[i].Value = math.Max(ks[i].Value, ks[i-1].Value)
	}
	return &Keyframes{keys: ks}
}

// Evaluate implements Curve.
func (k *Keyframes) Evaluate(t float64) float64 {
	keys := k.keys
	if t <= keys[0].Time {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Value
	}
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Time > t })
	a, b := keys[i-1], keys[i]
	span := b.Time - a.Time
	if span <= 0 {
		return b.Value
	}
	return a.Value + (t-a.Time)/span*(b.Value-a.Value)
}

// Keys returns a copy of the normalized control points.
func (k *Keyframes) Keys() []Key {
	return append([]Key(nil), k.keys...)
}
