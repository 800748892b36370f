package result

// Value is the closed tagged union the binary and text codecs both
// target: every Result (or Batch of them) is first projected onto a
// Value tree, then that tree is rendered as bytes or re-parsed from
// them. Tag numbers below match the wire format read by the binary
// codec in codec.go.
type Value interface {
	tag() uint32
}

const (
	tagLiteral          uint32 = 0
	tagNumber           uint32 = 1
	tagObject           uint32 = 2
	tagArray            uint32 = 3
	tagExperiments      uint32 = 4
	tagNamedExperiments uint32 = 5
	tagTrue             uint32 = 6
	tagFalse            uint32 = 7
	tagNone             uint32 = 10
)

// Literal is an interned string value.
type Literal string

func (Literal) tag() uint32 { return tagLiteral }

// Number is an f64-valued scalar.
type Number float64

func (Number) tag() uint32 { return tagNumber }

// Bool is a boolean scalar, encoded as a bare tag (True or False) with
// no payload.
type Bool bool

func (b Bool) tag() uint32 {
	if b {
		return tagTrue
	}
	return tagFalse
}

// None marks an absent optional field.
type None struct{}

func (None) tag() uint32 { return tagNone }

// Entry is one (key, value) pair of an Object.
type Entry struct {
	Key   string
	Value Value
}

// Object is a named record: Result itself, or a nested struct such as
// TemporalStatistics.
type Object struct {
	Name    string
	Entries []Entry
}

func (Object) tag() uint32 { return tagObject }

// Array is a homogeneous or heterogeneous sequence, used for
// total_packet_per_hop_count and the temporal_statistics series.
type Array []Value

func (Array) tag() uint32 { return tagArray }

// Experiments is an unnamed sequence of whole Result records, the
// bench command's output when launch_configurations carries no names.
type Experiments []Value

func (Experiments) tag() uint32 { return tagExperiments }

// NamedExperiments pairs each Result with the label it was run under.
type NamedExperiments struct {
	Entries []Entry
}

func (NamedExperiments) tag() uint32 { return tagNamedExperiments }

func numberOrNone(present bool, v float64) Value {
	if !present {
		return None{}
	}
	return Number(v)
}

// ToValue projects a Result onto the closed Value tree.
func (r *Result) ToValue() Value {
	entries := []Entry{
		{"cycle", Number(r.Cycle)},
		{"injected_load", Number(r.InjectedLoad)},
		{"accepted_load", Number(r.AcceptedLoad)},
		{"average_message_delay", Number(r.AverageMessageDelay)},
		{"average_packet_network_delay", Number(r.AveragePacketNetworkDelay)},
		{"server_generation_jain_index", Number(r.ServerGenerationJainIndex)},
		{"server_consumption_jain_index", Number(r.ServerConsumptionJainIndex)},
		{"average_packet_hops", Number(r.AveragePacketHops)},
		{"total_packet_per_hop_count", int64ArrayToValue(r.TotalPacketPerHopCount)},
		{"average_link_utilization", Number(r.AverageLinkUtilization)},
		{"maximum_link_utilization", Number(r.MaximumLinkUtilization)},
		{"git_id", Literal(r.GitID)},
		{"user_time", Number(r.UserTime)},
		{"system_time", Number(r.SystemTime)},
	}

	if r.RoutingStatistics != nil {
		entries = append(entries, Entry{"routing_statistics", float64MapToValue(r.RoutingStatistics)})
	}
	if r.RouterAggregatedStatistics != nil {
		entries = append(entries, Entry{"router_aggregated_statistics", float64MapToValue(r.RouterAggregatedStatistics)})
	}
	if r.LinuxHighWaterMark != nil {
		entries = append(entries, Entry{"linux_high_water_mark", Number(*r.LinuxHighWaterMark)})
	} else {
		entries = append(entries, Entry{"linux_high_water_mark", None{}})
	}
	if r.TemporalStatistics != nil {
		entries = append(entries, Entry{"temporal_statistics", r.TemporalStatistics.toValue()})
	}
	for _, key := range []string{"server_percentiles", "packet_percentiles"} {
		m := r.ServerPercentiles
		if key == "packet_percentiles" {
			m = r.PacketPercentiles
		}
		if m == nil {
			continue
		}
		outer := make([]Entry, 0, len(m))
		for field, byPercentile := range m {
			outer = append(outer, Entry{field, float64MapToValue(byPercentile)})
		}
		entries = append(entries, Entry{key, Object{Name: key, Entries: outer}})
	}

	return Object{Name: "Result", Entries: entries}
}

func (t *TemporalStatistics) toValue() Value {
	return Object{
		Name: "TemporalStatistics",
		Entries: []Entry{
			{"injected_load", float64ArrayToValue(t.InjectedLoad)},
			{"accepted_load", float64ArrayToValue(t.AcceptedLoad)},
			{"average_message_delay", float64ArrayToValue(t.AverageMessageDelay)},
			{"average_packet_hops", float64ArrayToValue(t.AveragePacketHops)},
		},
	}
}

func int64ArrayToValue(xs []int64) Value {
	out := make(Array, len(xs))
	for i, x := range xs {
		out[i] = Number(x)
	}
	return out
}

func float64ArrayToValue(xs []float64) Value {
	out := make(Array, len(xs))
	for i, x := range xs {
		out[i] = Number(x)
	}
	return out
}

func float64MapToValue(m map[string]float64) Value {
	entries := make([]Entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, Entry{k, Number(v)})
	}
	return Object{Name: "", Entries: entries}
}

// ToValue projects a Batch onto an Experiments or NamedExperiments node,
// depending on whether every entry carries a non-empty name.
func (b *Batch) ToValue() Value {
	allNamed := len(b.Names) == len(b.Results)
	for _, n := range b.Names {
		if n == "" {
			allNamed = false
		}
	}
	if allNamed {
		entries := make([]Entry, len(b.Results))
		for i, r := range b.Results {
			entries[i] = Entry{b.Names[i], r.ToValue()}
		}
		return NamedExperiments{Entries: entries}
	}
	vs := make(Experiments, len(b.Results))
	for i, r := range b.Results {
		vs[i] = r.ToValue()
	}
	return vs
}
