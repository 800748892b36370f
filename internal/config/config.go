// Package config loads the simulator's run configuration using koanf/v2:
// a YAML file overlaid with environment variable overrides on top of
// built-in defaults. Configuration deliberately stays a closed set of
// typed sections (no generic expression or experiment-expansion
// language); each polymorphic section (topology, traffic, routing
// algorithm) is a small tagged struct instead.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigurationValue is a small closed tagged union used for the
// few sections whose shape depends on a Kind discriminator (topology,
// traffic pattern, routing algorithm). Unknown fields for other kinds
// are simply left zero; validation happens in the factories of the
// owning packages (topology.New, routing.New), not here.
type ConfigurationValue struct {
	Kind string `koanf:"kind"`

	// Shared numeric knobs, interpreted per Kind.
	Sizes  []int   `koanf:"sizes"`
	Extra  int     `koanf:"extra"`
	Load   float64 `koanf:"load"`
	Params map[string]float64 `koanf:"params"`
}

// LinkClass describes one class of link (server-router, router-router,
// ...) and the cycle delay phits incur crossing it.
type LinkClass struct {
	Name  string `koanf:"name"`
	Delay int    `koanf:"delay"`
}

// RouterConfig configures the Basic router pipeline.
type RouterConfig struct {
	VirtualChannels             int      `koanf:"virtual_channels"`
	BufferSize                  int      `koanf:"buffer_size"`
	Bubble                      bool     `koanf:"bubble"`
	AllowRequestBusyPort        bool     `koanf:"allow_request_busy_port"`
	OutputPrioritizeLowestLabel bool     `koanf:"output_priorize_lowest_label"`
	Allocator                   string   `koanf:"allocator"`
	AllocatorIterations         int      `koanf:"allocator_iterations"`
	VirtualChannelPolicies      []string `koanf:"virtual_channel_policies"`
}

// Configuration is the complete, validated description of one simulation
// run.
type Configuration struct {
	RandomSeed  int64 `koanf:"random_seed"`
	Warmup      int64 `koanf:"warmup"`
	Measured    int64 `koanf:"measured"`

	MaximumPacketSize int `koanf:"maximum_packet_size"`

	Topology ConfigurationValue `koanf:"topology"`
	Traffic  ConfigurationValue `koanf:"traffic"`
	Routing  ConfigurationValue `koanf:"routing"`
	Router   RouterConfig       `koanf:"router"`

	LinkClasses []LinkClass `koanf:"link_classes"`

	StatisticsTemporalStep     int64     `koanf:"statistics_temporal_step"`
	StatisticsServerPercentiles []float64 `koanf:"statistics_server_percentiles"`
	StatisticsPacketPercentiles []float64 `koanf:"statistics_packet_percentiles"`

	// LaunchConfigurations allows a single file to describe a batch of
	// runs; Expand turns each entry into one run before dispatch. Each
	// entry is a complete Configuration and inherits nothing from this one.
	LaunchConfigurations []Configuration `koanf:"launch_configurations"`
}

// DefaultConfiguration returns a single-run sane baseline: a small ring,
// uniform traffic, shortest-path routing, random allocation.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		RandomSeed:        1,
		Warmup:            1000,
		Measured:          5000,
		MaximumPacketSize: 16,
		Topology: ConfigurationValue{
			Kind:  "ring",
			Sizes: []int{16},
		},
		Traffic: ConfigurationValue{
			Kind: "uniform",
			Load: 0.1,
		},
		Routing: ConfigurationValue{
			Kind: "shortest",
		},
		Router: RouterConfig{
			VirtualChannels:        3,
			BufferSize:             8,
			Bubble:                 false,
			AllowRequestBusyPort:   true,
			Allocator:              "random",
			AllocatorIterations:    1,
			VirtualChannelPolicies: []string{"enforce-flow-control", "hops"},
		},
		LinkClasses: []LinkClass{
			{Name: "server-router", Delay: 1},
			{Name: "router-router", Delay: 1},
		},
		StatisticsTemporalStep:      1000,
		StatisticsServerPercentiles: []float64{50, 90, 99},
		StatisticsPacketPercentiles: []float64{50, 90, 99},
	}
}

// envPrefix namespaces environment variable overrides: CAMINOS_WARMUP,
// CAMINOS_ROUTER_BUFFER_SIZE, and so on.
const envPrefix = "CAMINOS_"

// Load reads a Configuration from a YAML file at path, overlaid with
// CAMINOS_-prefixed environment variables, on top of
// DefaultConfiguration.
func Load(path string) (*Configuration, error) {
	k := koanf.New(".")

	defaults := DefaultConfiguration()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("config: load environment overrides: %w", err)
	}

	cfg := &Configuration{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration loaded from %s: %w", path, err)
	}
	return cfg, nil
}

// loadDefaults seeds koanf's base layer from DefaultConfiguration, one
// dotted key at a time, so file and environment overrides only need to
// touch the keys they actually change.
func loadDefaults(k *koanf.Koanf, d *Configuration) error {
	defaultMap := map[string]any{
		"random_seed":                   d.RandomSeed,
		"warmup":                        d.Warmup,
		"measured":                      d.Measured,
		"maximum_packet_size":           d.MaximumPacketSize,
		"topology.kind":                 d.Topology.Kind,
		"topology.sizes":                d.Topology.Sizes,
		"traffic.kind":                  d.Traffic.Kind,
		"traffic.load":                  d.Traffic.Load,
		"routing.kind":                  d.Routing.Kind,
		"router.virtual_channels":       d.Router.VirtualChannels,
		"router.buffer_size":            d.Router.BufferSize,
		"router.bubble":                 d.Router.Bubble,
		"router.allow_request_busy_port": d.Router.AllowRequestBusyPort,
		"router.allocator":              d.Router.Allocator,
		"router.allocator_iterations":   d.Router.AllocatorIterations,
		"router.virtual_channel_policies": d.Router.VirtualChannelPolicies,
		"link_classes":                  d.LinkClasses,
		"statistics_temporal_step":      d.StatisticsTemporalStep,
		"statistics_server_percentiles": d.StatisticsServerPercentiles,
		"statistics_packet_percentiles": d.StatisticsPacketPercentiles,
	}
	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}
	return nil
}

func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	for _, section := range []string{"topology", "traffic", "routing", "router"} {
		if rest, ok := strings.CutPrefix(s, section+"_"); ok {
			return section + "." + rest
		}
	}
	return s
}

// Validate rejects configurations that cannot describe a runnable
// simulation.
func Validate(cfg *Configuration) error {
	if cfg.MaximumPacketSize <= 0 {
		return fmt.Errorf("maximum_packet_size must be positive")
	}
	if cfg.Router.VirtualChannels <= 0 {
		return fmt.Errorf("router.virtual_channels must be positive")
	}
	if cfg.Router.BufferSize <= 0 {
		return fmt.Errorf("router.buffer_size must be positive")
	}
	if cfg.Warmup < 0 || cfg.Measured <= 0 {
		return fmt.Errorf("warmup must be >= 0 and measured must be > 0")
	}
	if cfg.Topology.Kind == "" {
		return fmt.Errorf("topology.kind must be set")
	}
	if cfg.Traffic.Kind == "" {
		return fmt.Errorf("traffic.kind must be set")
	}
	if cfg.Routing.Kind == "" {
		return fmt.Errorf("routing.kind must be set")
	}
	return nil
}

// Expand returns the set of runnable Configurations this file describes:
// itself alone if LaunchConfigurations is empty, or each entry as written
// otherwise. Entries are not merged with this Configuration: a field an
// entry leaves out stays at its zero value, not the base's value.
func Expand(cfg *Configuration) []*Configuration {
	if len(cfg.LaunchConfigurations) == 0 {
		return []*Configuration{cfg}
	}
	out := make([]*Configuration, len(cfg.LaunchConfigurations))
	for i := range cfg.LaunchConfigurations {
		merged := cfg.LaunchConfigurations[i]
		merged.LaunchConfigurations = nil
		out[i] = &merged
	}
	return out
}
