package simulation

import (
	"testing"

	"github.com/codefan-byte/caminos-tfg-sub000/internal/config"
	"github.com/stretchr/testify/require"
)

func smallConfig() *config.Configuration {
	cfg := config.DefaultConfiguration()
	cfg.RandomSeed = 7
	cfg.Warmup = 20
	cfg.Measured = 50
	cfg.MaximumPacketSize = 4
	cfg.Topology = config.ConfigurationValue{Kind: "ring", Sizes: []int{6}}
	cfg.Traffic = config.ConfigurationValue{Kind: "uniform", Load: 0.3, Extra: 4}
	cfg.Routing = config.ConfigurationValue{Kind: "shortest"}
	cfg.Router.VirtualChannels = 3
	cfg.Router.BufferSize = 4
	cfg.Router.Allocator = "random"
	cfg.Router.VirtualChannelPolicies = []string{"enforce-flow-control", "hops"}
	cfg.StatisticsTemporalStep = 10
	return cfg
}

func TestSimulationRunProducesSaneResult(t *testing.T) {
	cfg := smallConfig()
	require.NoError(t, config.Validate(cfg))

	sim := New(cfg)
	r := sim.Run()

	require.Equal(t, cfg.Warmup+cfg.Measured, r.Cycle)
	require.GreaterOrEqual(t, r.InjectedLoad, 0.0)
	require.GreaterOrEqual(t, r.AcceptedLoad, 0.0)
	require.LessOrEqual(t, r.AcceptedLoad, r.InjectedLoad+1e-9)
	require.GreaterOrEqual(t, r.ServerGenerationJainIndex, 0.0)
	require.LessOrEqual(t, r.ServerGenerationJainIndex, 1.0+1e-9)
	require.NotEmpty(t, r.TemporalStatistics.AcceptedLoad)
}

func TestSimulationRunOnCrossbarWithPermutationTraffic(t *testing.T) {
	cfg := smallConfig()
	cfg.Topology = config.ConfigurationValue{Kind: "crossbar", Sizes: []int{4}}
	cfg.Traffic = config.ConfigurationValue{Kind: "permutation", Load: 0.5, Extra: 2}
	cfg.Routing = config.ConfigurationValue{Kind: "shortest"}

	sim := New(cfg)
	r := sim.Run()

	require.Equal(t, cfg.Warmup+cfg.Measured, r.Cycle)
	require.GreaterOrEqual(t, r.AcceptedLoad, 0.0)
}

func TestSimulationRunsFullHorizonWhenTrafficNeverFinishes(t *testing.T) {
	cfg := smallConfig()
	cfg.Warmup = 0
	cfg.Measured = 200
	sim := New(cfg)

	finished := true
	for _, s := range sim.servers {
		if !s.Traffic.Finished() {
			finished = false
		}
	}
	require.False(t, finished, "uniform traffic never reports finished, so the full horizon should run")

	r := sim.Run()
	require.Equal(t, cfg.Warmup+cfg.Measured, r.Cycle)
}
