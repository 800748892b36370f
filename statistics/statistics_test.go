package statistics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPercentileMatchesKnownQuartiles(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	require.InDelta(t, 1.0, percentile(data, 0), 1e-9)
	require.InDelta(t, 10.0, percentile(data, 100), 1e-9)
	require.InDelta(t, 5.5, percentile(data, 50), 1e-9)
}

func TestPercentileEmptyIsZero(t *testing.T) {
	require.Equal(t, 0.0, percentile(nil, 50))
}

func TestJainIndexPerfectFairness(t *testing.T) {
	require.InDelta(t, 1.0, jainIndex([]int64{10, 10, 10, 10}), 1e-9)
}

func TestJainIndexMaximallyUnfair(t *testing.T) {
	counts := []int64{100, 0, 0, 0}
	require.InDelta(t, 0.25, jainIndex(counts), 1e-9)
}

func TestStatisticsRecordGenerationAndConsumption(t *testing.T) {
	s := New(2, 10, []float64{50, 99}, []float64{50})
	s.RecordGeneration(0, 0)
	s.RecordGeneration(1, 1)
	s.RecordConsumption(1, 5, true, 5)
	require.InDelta(t, 1.0, s.ServerGenerationJainIndex(), 1e-9)

	delays := s.ServerAverageMessageDelayPercentiles()
	require.InDelta(t, 5.0, delays[50], 1e-9)
}

func TestStatisticsFlushRollsTemporalBucket(t *testing.T) {
	s := New(1, 5, nil, nil)
	s.RecordGeneration(0, 0)
	s.RecordGeneration(0, 6) // crosses the 5-cycle boundary, should roll
	require.Len(t, s.History(), 1)
}

func TestStatisticsResetClearsAccumulators(t *testing.T) {
	s := New(1, 10, nil, nil)
	s.RecordGeneration(0, 0)
	s.Reset(0)
	require.InDelta(t, 1.0, s.ServerGenerationJainIndex(), 1e-9)
	require.Empty(t, s.History())
}

func TestStatisticsResetAtWarmupBoundaryDoesNotProduceSpuriousBucket(t *testing.T) {
	// Warmup (100 cycles) exceeds TemporalStep (10): Reset must seed the
	// new bucket's StartCycle at the boundary, not at zero, or the very
	// next record would immediately roll a bucket spanning the whole
	// warmup length.
	const warmup = 100
	s := New(1, 10, nil, nil)
	s.RecordGeneration(0, 5)
	s.Reset(warmup)

	s.RecordGeneration(0, warmup+5)
	require.Empty(t, s.History(), "no bucket should close before a full TemporalStep past the boundary")

	s.RecordGeneration(0, warmup+10)
	require.Len(t, s.History(), 1)
	require.Equal(t, int64(warmup), s.History()[0].StartCycle)
}

func TestServerLoadPercentilesCoverInjectedAndAccepted(t *testing.T) {
	s := New(2, 10, []float64{0, 100}, nil)
	s.RecordGeneration(0, 0)
	s.RecordGeneration(0, 1)
	s.RecordGeneration(1, 2)
	s.RecordConsumption(0, 3, false, 0)

	const cyclesElapsed = 10
	injected := s.ServerInjectedLoadPercentiles(cyclesElapsed)
	require.InDelta(t, 0.1, injected[0], 1e-9, "server 1 injected 1/10 per cycle")
	require.InDelta(t, 0.2, injected[100], 1e-9, "server 0 injected 2/10 per cycle")

	accepted := s.ServerAcceptedLoadPercentiles(cyclesElapsed)
	require.InDelta(t, 0.0, accepted[0], 1e-9)
	require.InDelta(t, 0.1, accepted[100], 1e-9)
}

func TestPacketDelayPercentilesReportsNetworkDelayNotHops(t *testing.T) {
	s := New(1, 10, nil, []float64{50})
	s.RecordPacketHops(3, 20, 0)
	s.RecordPacketHops(3, 40, 1)

	delays := s.PacketDelayPercentiles()
	require.InDelta(t, 30.0, delays[50], 1e-9)

	hops := s.PacketHopsPercentiles()
	require.InDelta(t, 3.0, hops[50], 1e-9)
}

func TestPrometheusExportObservesSnapshot(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := New(1, 1, nil, nil)
	s.EnablePrometheus(reg)
	s.RecordGeneration(0, 0)
	s.RecordGeneration(0, 2)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}
