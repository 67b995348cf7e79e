// Package stats counts what happens on the medium and turns the counts into
// the rates reported at the end of a run.
package stats

import "sync"

// Counters accumulate the run totals. They only grow.
//
// The simulation updates the counters from its event handlers while the
// monitor reads them from its own goroutine, so every access is locked.
type Counters struct {
	mu sync.Mutex

	offered    uint64
	delivered  uint64
	perStation []uint64
	collisions uint64
	successes  uint64

	collector *Collector
}

// Snapshot is a consistent copy of the counters.
type Snapshot struct {
	OfferedLoad          uint64   `json:"offered_load"`
	ThroughputTotal      uint64   `json:"throughput_total"`
	ThroughputPerStation []uint64 `json:"throughput_per_station"`
	Collisions           uint64   `json:"collisions"`
	Successes            uint64   `json:"successes"`
}

// NewCounters creates zeroed counters for the given number of stations.
func NewCounters(numStations int) *Counters {
	return &Counters{
		perStation: make([]uint64, numStations),
	}
}

// ExportTo mirrors every future update to the Prometheus collector.
func (c *Counters) ExportTo(collector *Collector) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.collector = collector
}

// RecordOffered counts a packet generated for the station.
func (c *Counters) RecordOffered(station int) {
	c.mu.Lock()
	c.offered++
	c.mu.Unlock()

	c.collector.IncOffered()
}

// RecordDelivered counts a packet the station sent on the channel.
func (c *Counters) RecordDelivered(station int) {
	c.mu.Lock()
	c.delivered++
	c.perStation[station]++
	c.mu.Unlock()

	c.collector.IncDelivered(station)
}

// RecordCollision counts a slot that resolved to Nack.
func (c *Counters) RecordCollision() {
	c.mu.Lock()
	c.collisions++
	c.mu.Unlock()

	c.collector.IncCollisions()
}

// RecordSuccess counts a completed session of the station.
func (c *Counters) RecordSuccess(station int) {
	c.mu.Lock()
	c.successes++
	c.mu.Unlock()

	c.collector.IncSessions(station)
}

// Snapshot returns a copy of the counters.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	perStation := make([]uint64, len(c.perStation))
	copy(perStation, c.perStation)

	return Snapshot{
		OfferedLoad:          c.offered,
		ThroughputTotal:      c.delivered,
		ThroughputPerStation: perStation,
		Collisions:           c.collisions,
		Successes:            c.successes,
	}
}
