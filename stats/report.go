package stats

import (
	"fmt"
	"io"

	"github.com/sarchlab/pcsma/sim"
)

// Report holds the rates of a finished run: counts divided by the simulated
// time.
type Report struct {
	Duration             sim.VTimeInSec
	Throughput           float64
	OfferedLoad          float64
	ThroughputPerStation []float64
	Collisions           uint64
	Successes            uint64
}

// Compute turns the counts into rates over the duration. A zero duration
// gives all-zero rates.
func Compute(s Snapshot, duration sim.VTimeInSec) Report {
	r := Report{
		Duration:             duration,
		ThroughputPerStation: make([]float64, len(s.ThroughputPerStation)),
		Collisions:           s.Collisions,
		Successes:            s.Successes,
	}

	if duration <= 0 {
		return r
	}

	d := float64(duration)
	r.Throughput = float64(s.ThroughputTotal) / d
	r.OfferedLoad = float64(s.OfferedLoad) / d

	for i, n := range s.ThroughputPerStation {
		r.ThroughputPerStation[i] = float64(n) / d
	}

	return r
}

// Print writes one line per metric.
func (r Report) Print(w io.Writer) error {
	lines := []string{
		fmt.Sprintf("throughput = %f", r.Throughput),
		fmt.Sprintf("offered load = %f", r.OfferedLoad),
	}

	for i, t := range r.ThroughputPerStation {
		lines = append(lines, fmt.Sprintf("throughput[%d] = %f", i, t))
	}

	lines = append(lines,
		fmt.Sprintf("collisions = %d", r.Collisions),
		fmt.Sprintf("successes = %d", r.Successes),
	)

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}

	return nil
}
