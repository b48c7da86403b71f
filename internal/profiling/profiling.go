package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const opLabel = "op"

var (
	mu     sync.Mutex
	totals = make(map[string]time.Duration)
	counts = make(map[string]int)

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blockmesh_operation_duration_seconds",
		Help:    "Time spent in tracked meshing and query operations.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{
		opLabel,
	})
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		operationDuration.With(prometheus.Labels{opLabel: name}).Observe(d.Seconds())
		mu.Lock()
		totals[name] += d
		counts[name]++
		mu.Unlock()
	}
}

// Reset clears the accumulated totals. The Prometheus histogram is cumulative
// and is not affected.
func Reset() {
	mu.Lock()
	clear(totals)
	clear(counts)
	mu.Unlock()
}

// Snapshot returns a copy of current totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(totals))
	for k, v := range totals {
		out[k] = v
	}
	return out
}

// Count returns how many times name has been tracked since the last Reset.
func Count(name string) int {
	mu.Lock()
	defer mu.Unlock()
	return counts[name]
}

// TopN formats the n largest totals, longest first.
// Example: "meshing.GenerateRenderMesh:4.2ms(3), spatial.Raycast:0.1ms(12)"
func TopN(n int) string {
	mu.Lock()
	type entry struct {
		name  string
		dur   time.Duration
		count int
	}
	list := make([]entry, 0, len(totals))
	for k, v := range totals {
		list = append(list, entry{name: k, dur: v, count: counts[k]})
	}
	mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		ms := float64(e.dur.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms(%d)", e.name, ms, e.count))
	}
	return strings.Join(parts, ", ")
}
