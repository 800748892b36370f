// Package result defines the simulation's output record, a text (YAML)
// rendering of it, and a bespoke binary tagged-union codec meant for
// cheap aggregation across many runs without a full YAML parse.
package result

import "fmt"

// Result is the figure set emitted by one completed simulation run.
type Result struct {
	Cycle int64 `yaml:"cycle"`

	InjectedLoad               float64 `yaml:"injected_load"`
	AcceptedLoad               float64 `yaml:"accepted_load"`
	AverageMessageDelay        float64 `yaml:"average_message_delay"`
	AveragePacketNetworkDelay  float64 `yaml:"average_packet_network_delay"`
	ServerGenerationJainIndex  float64 `yaml:"server_generation_jain_index"`
	ServerConsumptionJainIndex float64 `yaml:"server_consumption_jain_index"`
	AveragePacketHops          float64 `yaml:"average_packet_hops"`
	TotalPacketPerHopCount     []int64 `yaml:"total_packet_per_hop_count"`
	AverageLinkUtilization     float64 `yaml:"average_link_utilization"`
	MaximumLinkUtilization     float64 `yaml:"maximum_link_utilization"`

	GitID string `yaml:"git_id"`

	RoutingStatistics          map[string]float64 `yaml:"routing_statistics,omitempty"`
	RouterAggregatedStatistics map[string]float64 `yaml:"router_aggregated_statistics,omitempty"`

	LinuxHighWaterMark *int64 `yaml:"linux_high_water_mark,omitempty"`
	UserTime           float64 `yaml:"user_time"`
	SystemTime         float64 `yaml:"system_time"`

	TemporalStatistics *TemporalStatistics `yaml:"temporal_statistics,omitempty"`

	ServerPercentiles map[string]map[string]float64 `yaml:"server_percentiles,omitempty"`
	PacketPercentiles map[string]map[string]float64 `yaml:"packet_percentiles,omitempty"`
}

// TemporalStatistics holds the per-temporal-bucket time series, one entry
// per closed bucket in order.
type TemporalStatistics struct {
	InjectedLoad        []float64 `yaml:"injected_load"`
	AcceptedLoad        []float64 `yaml:"accepted_load"`
	AverageMessageDelay []float64 `yaml:"average_message_delay"`
	AveragePacketHops   []float64 `yaml:"average_packet_hops"`
}

// Batch is the output of running several Configurations. Names, when
// non-nil, labels each Result; the bench command leaves it nil, so its
// batches are encoded unnamed.
type Batch struct {
	Names   []string
	Results []*Result
}

// percentileKey renders a percentile such as 99 as "p99", matching the
// field-name convention server_percentileP / packet_percentileP.
func percentileKey(p float64) string {
	if p == float64(int64(p)) {
		return fmt.Sprintf("p%d", int64(p))
	}
	return fmt.Sprintf("p%g", p)
}
