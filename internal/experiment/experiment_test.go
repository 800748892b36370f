package experiment

import (
	"context"
	"testing"

	"github.com/codefan-byte/caminos-tfg-sub000/internal/config"
	"github.com/stretchr/testify/require"
)

func tinyConfig(seed int64) *config.Configuration {
	cfg := config.DefaultConfiguration()
	cfg.RandomSeed = seed
	cfg.Warmup = 5
	cfg.Measured = 20
	cfg.Topology = config.ConfigurationValue{Kind: "ring", Sizes: []int{4}}
	cfg.Traffic = config.ConfigurationValue{Kind: "uniform", Load: 0.2, Extra: 2}
	cfg.Routing = config.ConfigurationValue{Kind: "shortest"}
	cfg.Router.BufferSize = 4
	return cfg
}

func TestRunExecutesEveryConfigurationConcurrently(t *testing.T) {
	cfgs := []*config.Configuration{tinyConfig(1), tinyConfig(2), tinyConfig(3)}
	names := []string{"low", "mid", "high"}

	batch, err := Run(context.Background(), cfgs, names, 2)
	require.NoError(t, err)
	require.Len(t, batch.Results, 3)
	require.Equal(t, names, batch.Names)
	for _, r := range batch.Results {
		require.Equal(t, cfgs[0].Warmup+cfgs[0].Measured, r.Cycle)
	}
}

func TestRunRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfgs := []*config.Configuration{tinyConfig(1)}
	_, err := Run(ctx, cfgs, nil, 1)
	require.Error(t, err)
}
