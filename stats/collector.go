package stats

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes the counters as Prometheus metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Offered    prometheus.Counter
	Delivered  *prometheus.CounterVec
	Collisions prometheus.Counter
	Sessions   *prometheus.CounterVec
	SimTime    prometheus.Gauge
}

// NewCollector registers the metrics against the registerer, defaulting to
// the global registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	offered, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pcsma_offered_packets_total",
		Help: "Packets generated by the traffic sources.",
	}), "pcsma_offered_packets_total")
	if err != nil {
		return nil, err
	}

	delivered, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pcsma_delivered_packets_total",
		Help: "Packets sent on the channel, labeled by station.",
	}, []string{"station"}), "pcsma_delivered_packets_total")
	if err != nil {
		return nil, err
	}

	collisions, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pcsma_collisions_total",
		Help: "Slots that resolved to a collision.",
	}), "pcsma_collisions_total")
	if err != nil {
		return nil, err
	}

	sessions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pcsma_sessions_total",
		Help: "Completed transmission sessions, labeled by station.",
	}, []string{"station"}), "pcsma_sessions_total")
	if err != nil {
		return nil, err
	}

	simTime, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pcsma_simulated_time_seconds",
		Help: "Current virtual time of the simulation.",
	}), "pcsma_simulated_time_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:   gatherer,
		Offered:    offered,
		Delivered:  delivered,
		Collisions: collisions,
		Sessions:   sessions,
		SimTime:    simTime,
	}, nil
}

// Gatherer returns the gatherer the metrics are registered with.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}

	return c.gatherer
}

// Handler serves the metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}

	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// IncOffered counts a generated packet.
func (c *Collector) IncOffered() {
	if c == nil {
		return
	}

	c.Offered.Inc()
}

// IncDelivered counts a packet sent by the station.
func (c *Collector) IncDelivered(station int) {
	if c == nil {
		return
	}

	c.Delivered.WithLabelValues(strconv.Itoa(station)).Inc()
}

// IncCollisions counts a collision.
func (c *Collector) IncCollisions() {
	if c == nil {
		return
	}

	c.Collisions.Inc()
}

// IncSessions counts a completed session of the station.
func (c *Collector) IncSessions(station int) {
	if c == nil {
		return
	}

	c.Sessions.WithLabelValues(strconv.Itoa(station)).Inc()
}

// SetSimTime publishes the virtual time.
func (c *Collector) SetSimTime(t float64) {
	if c == nil {
		return
	}

	c.SimTime.Set(t)
}

func registerCounter(
	reg prometheus.Registerer,
	counter prometheus.Counter,
	name string,
) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}

			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}

		return nil, err
	}

	return counter, nil
}

func registerCounterVec(
	reg prometheus.Registerer,
	vec *prometheus.CounterVec,
	name string,
) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}

			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}

		return nil, err
	}

	return vec, nil
}

func registerGauge(
	reg prometheus.Registerer,
	gauge prometheus.Gauge,
	name string,
) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}

			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}

		return nil, err
	}

	return gauge, nil
}
