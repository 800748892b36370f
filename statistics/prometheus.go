package statistics

import "github.com/prometheus/client_golang/prometheus"

// prometheusExporter publishes the most recent temporal snapshot as a set
// of gauges, mirroring the counter/gauge layout used for KPI export
// elsewhere in the ecosystem (rolling-window ratios plus one counter).
type prometheusExporter struct {
	injectedLoad       prometheus.Gauge
	acceptedLoad       prometheus.Gauge
	averageMessageDelay prometheus.Gauge
	averagePacketHops  prometheus.Gauge
	bucketsClosed      prometheus.Counter
}

func newPrometheusExporter(reg prometheus.Registerer) *prometheusExporter {
	e := &prometheusExporter{
		injectedLoad: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "caminos_injected_load",
			Help: "Phits injected per server per cycle over the current temporal bucket.",
		}),
		acceptedLoad: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "caminos_accepted_load",
			Help: "Phits consumed per server per cycle over the current temporal bucket.",
		}),
		averageMessageDelay: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "caminos_average_message_delay_cycles",
			Help: "Average end-to-end message delay, in cycles, over the current temporal bucket.",
		}),
		averagePacketHops: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "caminos_average_packet_hops",
			Help: "Average router hop count per packet over the current temporal bucket.",
		}),
		bucketsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caminos_temporal_buckets_closed_total",
			Help: "Total number of temporal statistics buckets closed so far.",
		}),
	}
	reg.MustRegister(e.injectedLoad, e.acceptedLoad, e.averageMessageDelay, e.averagePacketHops, e.bucketsClosed)
	return e
}

func (e *prometheusExporter) observe(snap Snapshot) {
	e.injectedLoad.Set(snap.InjectedLoad)
	e.acceptedLoad.Set(snap.AcceptedLoad)
	e.averageMessageDelay.Set(snap.AverageMessageDelay)
	e.averagePacketHops.Set(snap.AveragePacketHops)
	e.bucketsClosed.Inc()
}
