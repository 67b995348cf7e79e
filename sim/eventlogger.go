package sim

import (
	"reflect"

	"github.com/sirupsen/logrus"
)

// EventLogger is an hook that prints the event information
type EventLogger struct {
	logger logrus.FieldLogger
}

// NewEventLogger returns a new EventLogger which will write in to the logger
func NewEventLogger(logger logrus.FieldLogger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	fields := logrus.Fields{
		"time":  float64(evt.Time()),
		"event": reflect.TypeOf(evt).String(),
	}

	if named, ok := evt.Handler().(Named); ok {
		fields["handler"] = named.Name()
	}

	h.logger.WithFields(fields).Trace("event")
}
