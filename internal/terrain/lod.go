package terrain

import (
	"errors"
	"fmt"

	"endless-terrain/internal/meshing"
)

// ErrLODTable is returned for empty or unordered LOD tables.
var ErrLODTable = errors.New("terrain: invalid lod table")

// LODInfo pairs a mesh LOD with the farthest distance it is used at.
type LODInfo struct {
	LOD             int
	VisibleDistance float64
}

// LODTable is ordered by ascending VisibleDistance. The last entry's
// distance is the maximum view distance and the entry is a catch-all for
// anything nearer than that but beyond the previous thresholds.
type LODTable []LODInfo

// Validate checks the table is non-empty, strictly ascending and uses
// supported LODs.
func (t LODTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty", ErrLODTable)
	}
	for i, e := range t {
		if e.LOD < 0 || e.LOD > meshing.MaxLOD {
			return fmt.Errorf("%w: entry %d lod %d outside [0,%d]", ErrLODTable, i, e.LOD, meshing.MaxLOD)
		}
		if !(e.VisibleDistance > 0) {
			return fmt.Errorf("%w: entry %d distance %v must be positive", ErrLODTable, i, e.VisibleDistance)
		}
		if i > 0 && e.VisibleDistance <= t[i-1].VisibleDistance {
			return fmt.Errorf("%w: entry %d distance %v not above %v", ErrLODTable, i, e.VisibleDistance, t[i-1].VisibleDistance)
		}
	}
	return nil
}

// MaxViewDistance is the last entry's threshold.
func (t LODTable) MaxViewDistance() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].VisibleDistance
}

// Select returns the table index for a viewer distance. The index moves past
// entry i only once distance exceeds its threshold, so a distance exactly on
// a threshold keeps the finer entry. The last entry catches everything beyond.
// The tie going to the finer entry is deliberate: the entry chosen is the
// first whose threshold is at least the distance.
func (t LODTable) Select(distance float64) int {
	idx := 0
	for i := 0; i < len(t)-1; i++ {
		if distance > t[i].VisibleDistance {
			idx = i + 1
		} else {
			break
		}
	}
	return idx
}
