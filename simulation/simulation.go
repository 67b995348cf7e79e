// Package simulation assembles and runs a complete slotted p-persistent CSMA
// model.
package simulation

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/pcsma/config"
	"github.com/sarchlab/pcsma/medium"
	"github.com/sarchlab/pcsma/monitoring"
	"github.com/sarchlab/pcsma/sim"
	"github.com/sarchlab/pcsma/slot"
	"github.com/sarchlab/pcsma/station"
	"github.com/sarchlab/pcsma/stats"
	"github.com/sarchlab/pcsma/traffic"
	"github.com/sarchlab/pcsma/tracing"
)

// ErrAlreadyRun is returned when a simulation is run a second time.
var ErrAlreadyRun = errors.New("simulation already run")

// A Simulation holds every part of one run.
type Simulation struct {
	id     string
	cfg    config.Config
	logger logrus.FieldLogger

	engine   *sim.SerialEngine
	ctx      *medium.Context
	counters *stats.Counters

	clock    *slot.Clock
	channel  *medium.Channel
	sources  []*traffic.Source
	stations []*station.Station

	components    []sim.Component
	compNameIndex map[string]int

	collector *stats.Collector
	dbTracer  *tracing.DBTracer
	monitor   *monitoring.Monitor
	progress  *monitoring.ProgressBar

	ran bool
}

// ID returns the unique id of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() config.Config {
	return s.cfg
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// Context returns the shared medium state.
func (s *Simulation) Context() *medium.Context {
	return s.ctx
}

// Counters returns the run counters.
func (s *Simulation) Counters() *stats.Counters {
	return s.counters
}

// Collector returns the Prometheus collector, if metrics are exported.
func (s *Simulation) Collector() *stats.Collector {
	return s.collector
}

// Channel returns the channel.
func (s *Simulation) Channel() *medium.Channel {
	return s.channel
}

// SlotClock returns the slot clock.
func (s *Simulation) SlotClock() *slot.Clock {
	return s.clock
}

// Stations returns the stations, by index.
func (s *Simulation) Stations() []*station.Station {
	return s.stations
}

// Sources returns the traffic sources, by station index.
func (s *Simulation) Sources() []*traffic.Source {
	return s.sources
}

// GetMonitor returns the monitor, if monitoring is on.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// registerComponent registers a component with the simulation.
func (s *Simulation) registerComponent(c sim.Component) {
	compName := c.Name()
	if _, exists := s.compNameIndex[compName]; exists {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

// Components returns all the registered components.
func (s *Simulation) Components() []sim.Component {
	return s.components
}

// GetComponentByName returns the component with the given name, or nil.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	i, ok := s.compNameIndex[name]
	if !ok {
		return nil
	}

	return s.components[i]
}

// Run starts every process, runs until the horizon and reports the rates.
func (s *Simulation) Run() (stats.Report, error) {
	if s.ran {
		return stats.Report{}, ErrAlreadyRun
	}

	s.ran = true

	s.clock.Start()

	for i := range s.stations {
		s.sources[i].Start()
		s.stations[i].Start()
	}

	s.channel.Start()

	horizon := sim.VTimeInSec(s.cfg.SimDuration)

	s.logger.WithFields(logrus.Fields{
		"id":          s.id,
		"stations":    s.cfg.NumStations,
		"horizon":     s.cfg.SimDuration,
		"persistence": s.cfg.ResolvedPersistence(),
		"seed":        s.cfg.Seed,
	}).Info("simulation started")

	err := s.engine.RunUntil(horizon)

	s.engine.Finished()

	if err != nil {
		return stats.Report{}, fmt.Errorf("simulation %s: %w", s.id, err)
	}

	return stats.Compute(s.counters.Snapshot(), horizon), nil
}

// Terminate releases the trace database and the monitoring server.
func (s *Simulation) Terminate() error {
	var errs []error

	if s.dbTracer != nil {
		errs = append(errs, s.dbTracer.Close())
	}

	if s.monitor != nil {
		errs = append(errs, s.monitor.StopServer())
	}

	return errors.Join(errs...)
}
