package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SubsystemStation returns the RNG subsystem name of station i.
func SubsystemStation(i int) string {
	return fmt.Sprintf("station_%d", i)
}

// SubsystemTraffic returns the RNG subsystem name of the traffic source that
// feeds station i.
func SubsystemTraffic(i int) string {
	return fmt.Sprintf("traffic_%d", i)
}

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Each subsystem is seeded with masterSeed XOR fnv1a64(subsystemName), so
// adding draws in one station never shifts the sequence seen by another.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	rng := rand.New(rand.NewSource(p.seed ^ fnv1a64(name)))
	p.subsystems[name] = rng

	return rng
}

// Seed returns the master seed.
func (p *PartitionedRNG) Seed() int64 {
	return p.seed
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))

	return int64(h.Sum64())
}

// UniformInt draws an integer uniformly from [lo, hi], both ends included.
func UniformInt(rng *rand.Rand, lo, hi int) int {
	if hi < lo {
		panic("empty range")
	}

	return lo + rng.Intn(hi-lo+1)
}

// Exponential draws from an exponential distribution with the given mean.
func Exponential(rng *rand.Rand, mean float64) float64 {
	return rng.ExpFloat64() * mean
}
