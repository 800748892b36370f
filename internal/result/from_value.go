package result

import "fmt"

// FromValue reconstructs a Result from the Object tree ToValue produced,
// used by the binary codec's round trip and by the decode CLI command.
func FromValue(v Value) (*Result, error) {
	obj, ok := v.(Object)
	if !ok {
		return nil, fmt.Errorf("result: expected Object at root, got %T", v)
	}
	byKey := entryMap(obj.Entries)

	r := &Result{}
	var err error
	if r.Cycle, err = intField(byKey, "cycle"); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"injected_load", &r.InjectedLoad},
		{"accepted_load", &r.AcceptedLoad},
		{"average_message_delay", &r.AverageMessageDelay},
		{"average_packet_network_delay", &r.AveragePacketNetworkDelay},
		{"server_generation_jain_index", &r.ServerGenerationJainIndex},
		{"server_consumption_jain_index", &r.ServerConsumptionJainIndex},
		{"average_packet_hops", &r.AveragePacketHops},
		{"average_link_utilization", &r.AverageLinkUtilization},
		{"maximum_link_utilization", &r.MaximumLinkUtilization},
		{"user_time", &r.UserTime},
		{"system_time", &r.SystemTime},
	} {
		if *f.dst, err = floatField(byKey, f.key); err != nil {
			return nil, err
		}
	}

	if r.GitID, err = stringField(byKey, "git_id"); err != nil {
		return nil, err
	}

	if arr, ok := byKey["total_packet_per_hop_count"].(Array); ok {
		r.TotalPacketPerHopCount = make([]int64, len(arr))
		for i, v := range arr {
			n, ok := v.(Number)
			if !ok {
				return nil, fmt.Errorf("result: total_packet_per_hop_count[%d] is not a Number", i)
			}
			r.TotalPacketPerHopCount[i] = int64(n)
		}
	}

	if hw, ok := byKey["linux_high_water_mark"]; ok {
		if n, ok := hw.(Number); ok {
			v := int64(n)
			r.LinuxHighWaterMark = &v
		}
	}

	if obj, ok := byKey["routing_statistics"].(Object); ok {
		r.RoutingStatistics = objectToFloatMap(obj)
	}
	if obj, ok := byKey["router_aggregated_statistics"].(Object); ok {
		r.RouterAggregatedStatistics = objectToFloatMap(obj)
	}

	if obj, ok := byKey["temporal_statistics"].(Object); ok {
		r.TemporalStatistics = temporalStatisticsFromValue(obj)
	}

	if obj, ok := byKey["server_percentiles"].(Object); ok {
		r.ServerPercentiles = nestedFloatMapsFromValue(obj)
	}
	if obj, ok := byKey["packet_percentiles"].(Object); ok {
		r.PacketPercentiles = nestedFloatMapsFromValue(obj)
	}

	return r, nil
}

func entryMap(entries []Entry) map[string]Value {
	m := make(map[string]Value, len(entries))
	for _, e := range entries {
		m[e.Key] = e.Value
	}
	return m
}

func floatField(m map[string]Value, key string) (float64, error) {
	n, ok := m[key].(Number)
	if !ok {
		return 0, fmt.Errorf("result: field %q missing or not a Number", key)
	}
	return float64(n), nil
}

func intField(m map[string]Value, key string) (int64, error) {
	n, ok := m[key].(Number)
	if !ok {
		return 0, fmt.Errorf("result: field %q missing or not a Number", key)
	}
	return int64(n), nil
}

func stringField(m map[string]Value, key string) (string, error) {
	l, ok := m[key].(Literal)
	if !ok {
		return "", fmt.Errorf("result: field %q missing or not a Literal", key)
	}
	return string(l), nil
}

func objectToFloatMap(o Object) map[string]float64 {
	out := make(map[string]float64, len(o.Entries))
	for _, e := range o.Entries {
		if n, ok := e.Value.(Number); ok {
			out[e.Key] = float64(n)
		}
	}
	return out
}

func arrayToFloatSlice(v Value) []float64 {
	arr, ok := v.(Array)
	if !ok {
		return nil
	}
	out := make([]float64, len(arr))
	for i, e := range arr {
		if n, ok := e.(Number); ok {
			out[i] = float64(n)
		}
	}
	return out
}

func temporalStatisticsFromValue(o Object) *TemporalStatistics {
	m := entryMap(o.Entries)
	return &TemporalStatistics{
		InjectedLoad:        arrayToFloatSlice(m["injected_load"]),
		AcceptedLoad:        arrayToFloatSlice(m["accepted_load"]),
		AverageMessageDelay: arrayToFloatSlice(m["average_message_delay"]),
		AveragePacketHops:   arrayToFloatSlice(m["average_packet_hops"]),
	}
}

func nestedFloatMapsFromValue(o Object) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(o.Entries))
	for _, e := range o.Entries {
		if inner, ok := e.Value.(Object); ok {
			out[e.Key] = objectToFloatMap(inner)
		}
	}
	return out
}

// EncodeResult is a convenience wrapper around ToValue + Encode.
func EncodeResult(r *Result) []byte { return Encode(r.ToValue()) }

// DecodeResult is a convenience wrapper around Decode + FromValue.
func DecodeResult(data []byte) (*Result, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return FromValue(v)
}
