package simulation

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/pcsma/config"
	"github.com/sarchlab/pcsma/datarecording"
	"github.com/sarchlab/pcsma/medium"
	"github.com/sarchlab/pcsma/monitoring"
	"github.com/sarchlab/pcsma/sim"
	"github.com/sarchlab/pcsma/slot"
	"github.com/sarchlab/pcsma/station"
	"github.com/sarchlab/pcsma/stats"
	"github.com/sarchlab/pcsma/traffic"
	"github.com/sarchlab/pcsma/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	cfg    config.Config
	seed   *int64
	logger logrus.FieldLogger

	traceLog   bool
	traceDB    bool
	traceDBOut string
	tracers    []tracing.Tracer

	monitorOn   bool
	monitorPort int
	openBrowser bool
	registerer  prometheus.Registerer

	engineHooks []sim.Hook
}

// MakeBuilder creates a new builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		cfg:    config.Default(),
		logger: logrus.StandardLogger(),
	}
}

// WithConfig sets the parameters of the run.
func (b Builder) WithConfig(cfg config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithSeed overrides the seed of the configuration.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = &seed
	return b
}

// WithLogger sets the logger of the run.
func (b Builder) WithLogger(logger logrus.FieldLogger) Builder {
	b.logger = logger
	return b
}

// WithTraceLog logs every collision and every completed session.
func (b Builder) WithTraceLog() Builder {
	b.traceLog = true
	return b
}

// WithTraceDB records the slot outcomes and the sessions into a SQLite file.
// An empty name picks a unique one.
func (b Builder) WithTraceDB(name string) Builder {
	b.traceDB = true
	b.traceDBOut = name

	return b
}

// WithTracer attaches a tracer to the channel and to every station.
func (b Builder) WithTracer(t tracing.Tracer) Builder {
	b.tracers = append(append([]tracing.Tracer(nil), b.tracers...), t)
	return b
}

// WithMonitor serves the monitoring API while the simulation runs.
func (b Builder) WithMonitor() Builder {
	b.monitorOn = true
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitor in the default browser once it serves.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithRegisterer exports the counters as Prometheus metrics registered
// against reg.
func (b Builder) WithRegisterer(reg prometheus.Registerer) Builder {
	b.registerer = reg
	return b
}

// WithEngineHook attaches a hook to the engine.
func (b Builder) WithEngineHook(h sim.Hook) Builder {
	b.engineHooks = append(append([]sim.Hook(nil), b.engineHooks...), h)
	return b
}

// Build validates the configuration and builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	cfg := b.cfg
	if b.seed != nil {
		cfg.Seed = *b.seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if !b.monitorOn && (b.monitorPort != 0 || b.openBrowser) {
		return nil, fmt.Errorf(
			"monitor port and browser need monitoring to be enabled")
	}

	s := &Simulation{
		id:            xid.New().String(),
		cfg:           cfg,
		logger:        b.logger,
		compNameIndex: make(map[string]int),
	}

	s.engine = sim.NewSerialEngine()
	for _, h := range b.engineHooks {
		s.engine.AcceptHook(h)
	}

	if err := b.buildObservers(s); err != nil {
		return nil, err
	}

	b.buildModel(s)

	if err := b.attachTracers(s); err != nil {
		return nil, err
	}

	s.engine.RegisterSimulationEndHandler(endLogger{s: s})

	if s.monitor != nil {
		if _, err := s.monitor.StartServer(); err != nil {
			return nil, err
		}

		if b.openBrowser {
			if err := s.monitor.OpenInBrowser(); err != nil {
				s.logger.WithError(err).Warn("cannot open the browser")
			}
		}
	}

	return s, nil
}

func (b Builder) buildObservers(s *Simulation) error {
	s.counters = stats.NewCounters(s.cfg.NumStations)

	reg := b.registerer
	if reg == nil && b.monitorOn {
		reg = prometheus.NewRegistry()
	}

	if reg != nil {
		collector, err := stats.NewCollector(reg)
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}

		s.collector = collector
		s.counters.ExportTo(collector)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		s.monitor.RegisterEngine(s.engine)
		s.monitor.RegisterCounters(s.counters)
		s.monitor.RegisterMetricsHandler(s.collector.Handler())

		numSlots := uint64(s.cfg.SimDuration / s.cfg.SlotDuration)
		s.progress = s.monitor.CreateProgressBar("Slots", numSlots)
	}

	return nil
}

func (b Builder) buildModel(s *Simulation) {
	cfg := s.cfg
	slotDuration := sim.VTimeInSec(cfg.SlotDuration)
	rng := sim.NewPartitionedRNG(cfg.Seed)

	s.ctx = medium.NewContext("PCSMA.Medium", s.engine)

	s.clock = slot.MakeBuilder().
		WithEngine(s.engine).
		WithDuration(slotDuration).
		WithPrecondition(s.ctx).
		Build("PCSMA.SlotClock")
	s.registerComponent(s.clock)

	sourceBuilder := traffic.MakeBuilder().
		WithEngine(s.engine).
		WithLoadRecorder(s.counters).
		WithOnDuration(cfg.OnDuration).
		WithInterval(sim.VTimeInSec(cfg.PacketInterval)).
		WithMeanIdleTime(cfg.MeanIdleTime)

	stationBuilder := station.MakeBuilder().
		WithEngine(s.engine).
		WithContext(s.ctx).
		WithSlotSignal(s.clock.Signal()).
		WithSlotDuration(slotDuration).
		WithRecorder(s.counters).
		WithPersistence(cfg.ResolvedPersistence()).
		WithSessionLength(cfg.SessionLength).
		WithMaxBackoff(cfg.MaxBackoff).
		WithPersistAfterCollision(cfg.PersistAfterCollision)

	for i := 0; i < cfg.NumStations; i++ {
		queue := traffic.NewQueue()

		src := sourceBuilder.
			WithRand(rng.ForSubsystem(sim.SubsystemTraffic(i))).
			Build(sim.BuildNameWithIndex("PCSMA", "Traffic", i), i, queue)
		s.sources = append(s.sources, src)
		s.registerComponent(src)

		st := stationBuilder.
			WithRand(rng.ForSubsystem(sim.SubsystemStation(i))).
			Build(sim.BuildNameWithIndex("PCSMA", "Station", i), i, queue)
		s.stations = append(s.stations, st)
		s.registerComponent(st)
	}

	s.channel = medium.MakeBuilder().
		WithEngine(s.engine).
		WithContext(s.ctx).
		WithSlotSignal(s.clock.Signal(), s.clock).
		WithSlotDuration(slotDuration).
		WithGuardInterval(sim.VTimeInSec(cfg.GuardInterval)).
		WithCollisionRecorder(s.counters).
		Build("PCSMA.Channel")
	s.registerComponent(s.channel)
}

func (b Builder) attachTracers(s *Simulation) error {
	tracers := append([]tracing.Tracer(nil), b.tracers...)

	if b.traceLog {
		tracers = append(tracers, tracing.NewLogTracer(s.logger))
	}

	if b.traceDB {
		name := b.traceDBOut
		if name == "" {
			name = "pcsma_trace_" + s.id
		}

		backend, err := datarecording.New(name)
		if err != nil {
			return err
		}

		s.dbTracer, err = tracing.NewDBTracer(backend)
		if err != nil {
			return err
		}

		tracers = append(tracers, s.dbTracer)
	}

	for _, t := range tracers {
		tracing.CollectTrace(s.channel, t)

		for _, st := range s.stations {
			tracing.CollectTrace(st, t)
		}
	}

	if s.collector != nil || s.progress != nil {
		s.channel.AcceptHook(&progressHook{
			bar:       s.progress,
			collector: s.collector,
		})
	}

	return nil
}
