// Package statistics implements online accumulation of per-run,
// per-temporal-bucket, per-server and per-link figures, periodic summary
// logging, percentile computation, and optional Prometheus export.
package statistics

import (
	"math"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// percentile computes the p-th percentile (0..100) of data via linear
// interpolation between ranks, grounded on the CalculatePercentile
// helper this package's percentile accumulation is modeled after.
func percentile(data []float64, p float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, data)
	sort.Float64s(sorted)

	rank := p / 100.0 * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	if upper >= n {
		return sorted[n-1]
	}
	return sorted[lower] + (sorted[upper]-sorted[lower])*(rank-float64(lower))
}

// jainIndex computes Jain's fairness index over a set of per-source
// counts: 1.0 is perfectly fair, 1/n is maximally unfair.
func jainIndex(counts []int64) float64 {
	if len(counts) == 0 {
		return 1
	}
	var sum, sumSquares float64
	for _, c := range counts {
		f := float64(c)
		sum += f
		sumSquares += f * f
	}
	if sumSquares == 0 {
		return 1
	}
	return (sum * sum) / (float64(len(counts)) * sumSquares)
}

// TemporalBucket accumulates figures for one fixed-width window of cycles
// (statistics_temporal_step), flushed into History once full.
type TemporalBucket struct {
	StartCycle       int64
	GeneratedPhits    int64
	ConsumedPhits     int64
	ConsumedMessages  int64
	MessageDelays     []float64
	PacketHops        []float64
}

// Snapshot is one completed temporal bucket's derived figures.
type Snapshot struct {
	StartCycle          int64
	InjectedLoad         float64
	AcceptedLoad         float64
	AverageMessageDelay  float64
	AveragePacketHops    float64
}

// Statistics accumulates online figures across the run: per-temporal-step
// history, per-server generation/consumption counts (for the Jain
// fairness index), per-link utilization, and percentile samples for
// message delay and packet hop count.
type Statistics struct {
	TemporalStep int64
	ServerPercentiles []float64
	PacketPercentiles []float64

	NumServers int

	history []Snapshot
	current TemporalBucket

	serverGenerated []int64
	serverConsumed  []int64

	// serverMessageDelaySum/serverMessageDelayCount accumulate, per
	// server, the total delay and count of messages completed there, so
	// a per-server average can be computed for ServerPercentiles.
	serverMessageDelaySum   []int64
	serverMessageDelayCount []int64

	linkPhits map[linkKey]int64

	allMessageDelays []float64
	allPacketHops    []float64
	allPacketDelays  []float64

	cyclesObserved int64

	prometheus *prometheusExporter
}

type linkKey struct {
	Router, Port int
}

// New creates a Statistics accumulator for a run with the given number of
// servers, temporal-bucket width (in cycles), and percentile lists to
// report for server-level and packet-level distributions.
func New(numServers int, temporalStep int64, serverPercentiles, packetPercentiles []float64) *Statistics {
	return &Statistics{
		TemporalStep:            temporalStep,
		ServerPercentiles:       serverPercentiles,
		PacketPercentiles:       packetPercentiles,
		NumServers:              numServers,
		serverGenerated:         make([]int64, numServers),
		serverConsumed:          make([]int64, numServers),
		serverMessageDelaySum:   make([]int64, numServers),
		serverMessageDelayCount: make([]int64, numServers),
		linkPhits:               make(map[linkKey]int64),
		current:                 TemporalBucket{},
	}
}

// EnablePrometheus wires gauge/counter export on the given registerer,
// updated every time a temporal bucket closes.
func (s *Statistics) EnablePrometheus(reg prometheus.Registerer) {
	s.prometheus = newPrometheusExporter(reg)
}

// RecordGeneration records one phit generated at server.
func (s *Statistics) RecordGeneration(server int, cycle int64) {
	s.serverGenerated[server]++
	s.current.GeneratedPhits++
	s.maybeRoll(cycle)
}

// RecordConsumption records one phit consumed at server, and, when
// messageComplete is true, the just-finished message's total delay.
func (s *Statistics) RecordConsumption(server int, cycle int64, messageComplete bool, delay int64) {
	s.serverConsumed[server]++
	s.current.ConsumedPhits++
	s.maybeRoll(cycle)
	if messageComplete {
		s.current.ConsumedMessages++
		d := float64(delay)
		s.current.MessageDelays = append(s.current.MessageDelays, d)
		s.allMessageDelays = append(s.allMessageDelays, d)
		s.serverMessageDelaySum[server] += delay
		s.serverMessageDelayCount[server]++
	}
}

// RecordPacketHops records one packet's completed hop count and
// network delay (cycles from entering its first router to its tail
// phit reaching the destination server) upon completion.
func (s *Statistics) RecordPacketHops(hops int, networkDelay int64, cycle int64) {
	h := float64(hops)
	s.current.PacketHops = append(s.current.PacketHops, h)
	s.allPacketHops = append(s.allPacketHops, h)
	s.allPacketDelays = append(s.allPacketDelays, float64(networkDelay))
	s.maybeRoll(cycle)
}

// AveragePacketNetworkDelay returns the mean network delay across every
// packet recorded so far in the measured phase.
func (s *Statistics) AveragePacketNetworkDelay() float64 {
	if len(s.allPacketDelays) == 0 {
		return 0
	}
	return average(s.allPacketDelays)
}

// AverageMessageDelay returns the mean end-to-end message delay across
// every completed message recorded so far in the measured phase.
func (s *Statistics) AverageMessageDelay() float64 {
	if len(s.allMessageDelays) == 0 {
		return 0
	}
	return average(s.allMessageDelays)
}

// AveragePacketHops returns the mean hop count across every packet
// recorded so far in the measured phase.
func (s *Statistics) AveragePacketHops() float64 {
	if len(s.allPacketHops) == 0 {
		return 0
	}
	return average(s.allPacketHops)
}

// TotalPacketPerHopCount returns a histogram of packets by completed hop
// count, indexed by hop count.
func (s *Statistics) TotalPacketPerHopCount() []int64 {
	if len(s.allPacketHops) == 0 {
		return nil
	}
	maxHops := 0
	for _, h := range s.allPacketHops {
		if int(h) > maxHops {
			maxHops = int(h)
		}
	}
	out := make([]int64, maxHops+1)
	for _, h := range s.allPacketHops {
		out[int(h)]++
	}
	return out
}

// InjectedLoad returns phits generated per server per cycle across the
// entire measured phase so far.
func (s *Statistics) InjectedLoad(cyclesElapsed int64) float64 {
	return injectedOrAcceptedLoad(s.serverGenerated, s.NumServers, cyclesElapsed)
}

// AcceptedLoad returns phits consumed per server per cycle across the
// entire measured phase so far.
func (s *Statistics) AcceptedLoad(cyclesElapsed int64) float64 {
	return injectedOrAcceptedLoad(s.serverConsumed, s.NumServers, cyclesElapsed)
}

func injectedOrAcceptedLoad(perServer []int64, numServers int, cyclesElapsed int64) float64 {
	if numServers == 0 || cyclesElapsed == 0 {
		return 0
	}
	var total int64
	for _, c := range perServer {
		total += c
	}
	return float64(total) / float64(numServers) / float64(cyclesElapsed)
}

// RecordLinkUse records one phit having crossed the link arriving at
// (router, port).
func (s *Statistics) RecordLinkUse(router, port int) {
	s.linkPhits[linkKey{router, port}]++
}

// maybeRoll closes the current temporal bucket and opens a new one once
// TemporalStep cycles have elapsed, logging a summary line.
func (s *Statistics) maybeRoll(cycle int64) {
	if s.TemporalStep <= 0 {
		return
	}
	if cycle-s.current.StartCycle < s.TemporalStep {
		return
	}
	s.flush(cycle)
}

// flush closes the current bucket regardless of elapsed width. maybeRoll
// is its only caller, so a bucket still open when the run ends is not
// closed and does not appear in the temporal series.
func (s *Statistics) flush(cycle int64) {
	span := float64(cycle - s.current.StartCycle)
	if span <= 0 {
		span = 1
	}
	snap := Snapshot{
		StartCycle:   s.current.StartCycle,
		InjectedLoad: float64(s.current.GeneratedPhits) / span / float64(s.NumServers),
		AcceptedLoad: float64(s.current.ConsumedPhits) / span / float64(s.NumServers),
	}
	if len(s.current.MessageDelays) > 0 {
		snap.AverageMessageDelay = average(s.current.MessageDelays)
	}
	if len(s.current.PacketHops) > 0 {
		snap.AveragePacketHops = average(s.current.PacketHops)
	}
	s.history = append(s.history, snap)

	logrus.WithFields(logrus.Fields{
		"cycle":                cycle,
		"injected_load":        snap.InjectedLoad,
		"accepted_load":        snap.AcceptedLoad,
		"avg_message_delay":    snap.AverageMessageDelay,
		"avg_packet_hops":      snap.AveragePacketHops,
	}).Info("temporal statistics snapshot")

	if s.prometheus != nil {
		s.prometheus.observe(snap)
	}

	s.current = TemporalBucket{StartCycle: cycle}
}

func average(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Reset clears all accumulated figures; called at the warmup/measured
// boundary so measured-phase statistics start from zero. cycle is the
// boundary cycle, recorded as the new current bucket's StartCycle so the
// next maybeRoll measures elapsed width from the boundary, not from zero
// (which would otherwise fold the entire warmup length into a spurious
// first temporal bucket whenever Warmup exceeds TemporalStep).
func (s *Statistics) Reset(cycle int64) {
	for i := range s.serverGenerated {
		s.serverGenerated[i] = 0
		s.serverConsumed[i] = 0
		s.serverMessageDelaySum[i] = 0
		s.serverMessageDelayCount[i] = 0
	}
	s.linkPhits = make(map[linkKey]int64)
	s.allMessageDelays = nil
	s.allPacketHops = nil
	s.allPacketDelays = nil
	s.history = nil
	s.current = TemporalBucket{StartCycle: cycle}
}

// History returns the closed temporal-bucket snapshots in order.
func (s *Statistics) History() []Snapshot { return s.history }

// ServerGenerationJainIndex returns the fairness index of phits generated
// across servers.
func (s *Statistics) ServerGenerationJainIndex() float64 { return jainIndex(s.serverGenerated) }

// ServerConsumptionJainIndex returns the fairness index of phits consumed
// across servers.
func (s *Statistics) ServerConsumptionJainIndex() float64 { return jainIndex(s.serverConsumed) }

// PacketHopsPercentiles reports PacketPercentiles over the full
// measured-phase packet-hop-count distribution.
func (s *Statistics) PacketHopsPercentiles() map[float64]float64 {
	return percentiles(s.allPacketHops, s.PacketPercentiles)
}

// PacketDelayPercentiles reports PacketPercentiles over the full
// measured-phase packet network-delay distribution.
func (s *Statistics) PacketDelayPercentiles() map[float64]float64 {
	return percentiles(s.allPacketDelays, s.PacketPercentiles)
}

// ServerInjectedLoadPercentiles reports ServerPercentiles over the
// per-server distribution of phits generated per cycle.
func (s *Statistics) ServerInjectedLoadPercentiles(cyclesElapsed int64) map[float64]float64 {
	return percentiles(perServerRate(s.serverGenerated, cyclesElapsed), s.ServerPercentiles)
}

// ServerAcceptedLoadPercentiles reports ServerPercentiles over the
// per-server distribution of phits consumed per cycle.
func (s *Statistics) ServerAcceptedLoadPercentiles(cyclesElapsed int64) map[float64]float64 {
	return percentiles(perServerRate(s.serverConsumed, cyclesElapsed), s.ServerPercentiles)
}

// ServerAverageMessageDelayPercentiles reports ServerPercentiles over the
// per-server distribution of average completed-message delay; servers
// that completed no message in the measured phase are excluded.
func (s *Statistics) ServerAverageMessageDelayPercentiles() map[float64]float64 {
	data := make([]float64, 0, len(s.serverMessageDelaySum))
	for i, sum := range s.serverMessageDelaySum {
		if s.serverMessageDelayCount[i] == 0 {
			continue
		}
		data = append(data, float64(sum)/float64(s.serverMessageDelayCount[i]))
	}
	return percentiles(data, s.ServerPercentiles)
}

func perServerRate(counts []int64, cyclesElapsed int64) []float64 {
	if cyclesElapsed == 0 {
		return nil
	}
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = float64(c) / float64(cyclesElapsed)
	}
	return out
}

func percentiles(data []float64, ps []float64) map[float64]float64 {
	out := make(map[float64]float64, len(ps))
	for _, p := range ps {
		out[p] = percentile(data, p)
	}
	return out
}

// LinkUtilization returns the per-(router,port) phit count recorded so
// far, keyed by [router, port].
func (s *Statistics) LinkUtilization() map[[2]int]int64 {
	out := make(map[[2]int]int64, len(s.linkPhits))
	for k, v := range s.linkPhits {
		out[[2]int{k.Router, k.Port}] = v
	}
	return out
}

// AverageLinkUtilization and MaximumLinkUtilization report link
// occupancy as a fraction of the single phit-per-cycle capacity every
// link is assumed to have, over cyclesElapsed cycles.
func (s *Statistics) AverageLinkUtilization(cyclesElapsed int64) float64 {
	if len(s.linkPhits) == 0 || cyclesElapsed == 0 {
		return 0
	}
	var total float64
	for _, v := range s.linkPhits {
		total += float64(v) / float64(cyclesElapsed)
	}
	return total / float64(len(s.linkPhits))
}

func (s *Statistics) MaximumLinkUtilization(cyclesElapsed int64) float64 {
	if cyclesElapsed == 0 {
		return 0
	}
	var max float64
	for _, v := range s.linkPhits {
		u := float64(v) / float64(cyclesElapsed)
		if u > max {
			max = u
		}
	}
	return max
}
