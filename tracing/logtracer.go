package tracing

import "github.com/sirupsen/logrus"

// LogTracer writes one log line per collision and per completed session.
type LogTracer struct {
	logger logrus.FieldLogger
}

// NewLogTracer creates a LogTracer that writes to the logger.
func NewLogTracer(logger logrus.FieldLogger) *LogTracer {
	return &LogTracer{logger: logger}
}

// ResolveSlot logs the collisions.
func (t *LogTracer) ResolveSlot(o Outcome) {
	if o.Feedback != "Nack" {
		return
	}

	t.logger.
		WithFields(logrus.Fields{
			"slot":       o.Slot,
			"contenders": o.Contenders,
		}).
		Infof("NACK : fail at t = %4.1f", float64(int(o.Time)))
}

// EndSession logs the successful sessions.
func (t *LogTracer) EndSession(s Session) {
	t.logger.
		WithFields(logrus.Fields{
			"station": s.Station,
			"packets": s.Packets,
		}).
		Infof("ACK : ID = %d, success at t = %4.1f", s.Station, s.End)
}
