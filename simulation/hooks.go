package simulation

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/pcsma/medium"
	"github.com/sarchlab/pcsma/monitoring"
	"github.com/sarchlab/pcsma/sim"
	"github.com/sarchlab/pcsma/stats"
)

// progressHook advances the progress bar and the simulated-time gauge at
// every resolved slot.
type progressHook struct {
	bar       *monitoring.ProgressBar
	collector *stats.Collector
}

func (h *progressHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != medium.HookPosSlotResolved {
		return
	}

	o := ctx.Item.(medium.SlotOutcome)

	if h.bar != nil {
		h.bar.IncrementFinished(1)
	}

	h.collector.SetSimTime(float64(o.Time))
}

// endLogger logs the totals once the engine stops.
type endLogger struct {
	s *Simulation
}

func (h endLogger) Handle(now sim.VTimeInSec) {
	snapshot := h.s.counters.Snapshot()

	h.s.logger.WithFields(logrus.Fields{
		"id":         h.s.id,
		"now":        float64(now),
		"offered":    snapshot.OfferedLoad,
		"delivered":  snapshot.ThroughputTotal,
		"collisions": snapshot.Collisions,
		"sessions":   snapshot.Successes,
	}).Info("simulation finished")

	if h.s.progress != nil {
		h.s.monitor.CompleteProgressBar(h.s.progress)
	}
}
