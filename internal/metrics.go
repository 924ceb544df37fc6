package internal

import "github.com/prometheus/client_golang/prometheus"

// metricsSink abstracts away the concrete backend so VM and its tables
// never pay for metric updates when no registry was supplied.
type metricsSink interface {
	tableGrowth()
	hashRebuild()
	liveObjects(delta int)
}

type noopSink struct{}

func (noopSink) tableGrowth()     {}
func (noopSink) hashRebuild()     {}
func (noopSink) liveObjects(int)  {}

type promSink struct {
	tableGrowths prometheus.Counter
	hashRebuilds prometheus.Counter
	liveCount    prometheus.Gauge
	liveTotal    int64
}

func newPromSink(reg prometheus.Registerer) *promSink {
	s := &promSink{
		tableGrowths: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pot_table_growths_total",
			Help: "Number of PropertyTable growth operations performed.",
		}),
		hashRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pot_hash_rebuilds_total",
			Help: "Number of full hash index rebuilds performed.",
		}),
		liveCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pot_live_objects",
			Help: "Number of PropertyObjects the VM believes are live.",
		}),
	}
	reg.MustRegister(s.tableGrowths, s.hashRebuilds, s.liveCount)
	return s
}

func (s *promSink) tableGrowth() { s.tableGrowths.Inc() }
func (s *promSink) hashRebuild() { s.hashRebuilds.Inc() }
func (s *promSink) liveObjects(delta int) {
	s.liveTotal += int64(delta)
	s.liveCount.Set(float64(s.liveTotal))
}
