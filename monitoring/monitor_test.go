package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sarchlab/pcsma/sim"
	"github.com/sarchlab/pcsma/stats"
)

type sampleStruct struct {
	Field1 int
	Field2 string
	Field3 *sampleStruct
	Field4 []sampleStruct
}

type sampleComponent struct {
	*sim.ComponentBase

	Queue []int
	Inner sampleStruct
}

func (c *sampleComponent) Handle(_ sim.Event) error {
	return nil
}

func newSampleComponent() *sampleComponent {
	return &sampleComponent{
		ComponentBase: sim.NewComponentBase("Comp"),
		Queue:         []int{1, 2, 3},
		Inner:         sampleStruct{Field1: 7, Field2: "abc"},
	}
}

var _ = Describe("Monitor", func() {
	var (
		m        *Monitor
		engine   *sim.SerialEngine
		counters *stats.Counters
		router   http.Handler
	)

	get := func(path string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

		return rr
	}

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		counters = stats.NewCounters(2)

		m = NewMonitor()
		m.RegisterEngine(engine)
		m.RegisterCounters(counters)
		m.RegisterComponent(newSampleComponent())
		router = m.Router()
	})

	It("should report the current time", func() {
		Expect(engine.RunUntil(12.5)).To(Succeed())

		rr := get("/api/now")

		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(rr.Body.String()).To(Equal(`{"now":12.5000000000}`))
	})

	It("should pause and continue the engine", func() {
		Expect(get("/api/pause").Code).To(Equal(http.StatusOK))
		Expect(get("/api/continue").Code).To(Equal(http.StatusOK))

		Expect(engine.RunUntil(1)).To(Succeed())
	})

	It("should serve the counters", func() {
		counters.RecordOffered(0)
		counters.RecordDelivered(1)

		rr := get("/api/counters")

		Expect(rr.Code).To(Equal(http.StatusOK))

		var s stats.Snapshot
		Expect(json.Unmarshal(rr.Body.Bytes(), &s)).To(Succeed())
		Expect(s.OfferedLoad).To(Equal(uint64(1)))
		Expect(s.ThroughputPerStation).To(Equal([]uint64{0, 1}))
	})

	It("should list the components", func() {
		rr := get("/api/list_components")

		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(rr.Body.String()).To(Equal(`["Comp"]`))
	})

	It("should answer 404 for unknown components", func() {
		Expect(get("/api/component/Nope").Code).To(Equal(http.StatusNotFound))
		Expect(get("/api/component/Comp").Code).To(Equal(http.StatusOK))
	})

	It("should track progress bars", func() {
		bar := m.CreateProgressBar("Slots", 10)
		bar.IncrementFinished(4)

		var bars []ProgressBarStatus
		Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("Slots"))
		Expect(bars[0].Finished).To(Equal(uint64(4)))

		m.CompleteProgressBar(bar)
		Expect(get("/api/progress").Body.String()).To(Equal("[]"))
	})

	It("should serve over TCP until stopped", func() {
		_, err := m.URL()
		Expect(err).To(MatchError(ErrNotServing))
		Expect(m.OpenInBrowser()).To(MatchError(ErrNotServing))

		_, err = m.StartServer()
		Expect(err).NotTo(HaveOccurred())

		url, err := m.URL()
		Expect(err).NotTo(HaveOccurred())

		resp, err := http.Get(url + "/api/now")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Body.Close()).To(Succeed())

		Expect(m.StopServer()).To(Succeed())
	})

	It("should serve metrics when a handler is registered", func() {
		Expect(get("/metrics").Code).To(Equal(http.StatusNotFound))

		reg := prometheus.NewRegistry()
		collector, err := stats.NewCollector(reg)
		Expect(err).NotTo(HaveOccurred())
		collector.IncCollisions()

		m.RegisterMetricsHandler(collector.Handler())
		router = m.Router()

		rr := get("/metrics")
		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(rr.Body.String()).To(ContainSubstring("pcsma_collisions_total 1"))
	})

	Context("when walking fields", func() {
		It("should walk struct fields", func() {
			s := &sampleStruct{Field1: 1, Field2: "abc"}

			elem, err := m.walkFields(s, "Field2")

			Expect(err).NotTo(HaveOccurred())
			Expect(elem.Kind()).To(Equal(reflect.String))
			Expect(elem.String()).To(Equal("abc"))
		})

		It("should walk through pointers and slices", func() {
			s := &sampleStruct{
				Field3: &sampleStruct{
					Field4: []sampleStruct{{Field1: 5}},
				},
			}

			elem, err := m.walkFields(s, "Field3.Field4.0.Field1")

			Expect(err).NotTo(HaveOccurred())
			Expect(elem.Int()).To(Equal(int64(5)))
		})

		It("should reject bad paths", func() {
			s := &sampleStruct{Field4: []sampleStruct{{}}}

			_, err := m.walkFields(s, "Field4.x")
			Expect(err).To(HaveOccurred())

			_, err = m.walkFields(s, "Field4.3")
			Expect(err).To(HaveOccurred())

			_, err = m.walkFields(s, "Missing")
			Expect(err).To(HaveOccurred())

			_, err = m.walkFields(s, "Field3.Field1")
			Expect(err).To(HaveOccurred())
		})
	})
})
