package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Lightweight per-tick timing and event counters. Safe for use from the
// generation workers and the owning thread at once.

var (
	mu         sync.Mutex
	tickTotals = make(map[string]time.Duration)
	counters   = make(map[string]int64)
)

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("terrain.UpdateVisibleChunks")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		tickTotals[name] += d
		mu.Unlock()
	}
}

// Count adds delta to the named counter. Counters survive ResetTick.
func Count(name string, delta int64) {
	mu.Lock()
	counters[name] += delta
	mu.Unlock()
}

// Counter returns the current value of a counter.
func Counter(name string) int64 {
	mu.Lock()
	defer mu.Unlock()
	return counters[name]
}

// ResetTick clears the per-tick timing totals. Call at the start of each tick.
func ResetTick() {
	mu.Lock()
	clear(tickTotals)
	mu.Unlock()
}

// Snapshot returns a copy of the current per-tick totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(tickTotals))
	for k, v := range tickTotals {
		out[k] = v
	}
	return out
}

// SumWithPrefix totals every timing whose name starts with prefix.
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()
	var sum time.Duration
	for k, v := range tickTotals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// TopN formats the n largest per-tick totals, largest first.
// Example: "noise.Sample:4.2ms, meshing.Build:2.1ms"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		parts = append(parts, fmt.Sprintf("%s:%.1fms", p.name, float64(p.dur.Microseconds())/1000))
	}
	return strings.Join(parts, ", ")
}
