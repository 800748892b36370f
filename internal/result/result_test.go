package result

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	hw := int64(4096)
	return &Result{
		Cycle:                      5000,
		InjectedLoad:               0.42,
		AcceptedLoad:               0.40,
		AverageMessageDelay:        12.5,
		AveragePacketNetworkDelay:  8.25,
		ServerGenerationJainIndex:  0.99,
		ServerConsumptionJainIndex: 0.97,
		AveragePacketHops:          3.1,
		TotalPacketPerHopCount:     []int64{0, 100, 250, 40},
		AverageLinkUtilization:     0.33,
		MaximumLinkUtilization:     0.88,
		GitID:                      "deadbeef",
		UserTime:                   1.5,
		SystemTime:                 0.2,
		RoutingStatistics:          map[string]float64{"valiant_intermediate_hops": 2.0},
		LinuxHighWaterMark:         &hw,
		TemporalStatistics: &TemporalStatistics{
			InjectedLoad:        []float64{0.1, 0.2},
			AcceptedLoad:        []float64{0.1, 0.19},
			AverageMessageDelay: []float64{10, 11},
			AveragePacketHops:   []float64{3, 3.2},
		},
		ServerPercentiles: map[string]map[string]float64{
			"injected_load": {"p50": 0.4, "p99": 0.6},
		},
	}
}

func TestBinaryRoundTripPreservesAllFields(t *testing.T) {
	r := sampleResult()
	data := EncodeResult(r)
	got, err := DecodeResult(data)
	require.NoError(t, err)
	require.Equal(t, r, got)
}

func TestBinaryRoundTripZeroValueResult(t *testing.T) {
	r := &Result{}
	data := EncodeResult(r)
	got, err := DecodeResult(data)
	require.NoError(t, err)
	require.Equal(t, r.Cycle, got.Cycle)
	require.Equal(t, r.GitID, got.GitID)
}

func TestTextRoundTrip(t *testing.T) {
	r := sampleResult()
	data, err := MarshalText(r)
	require.NoError(t, err)
	got, err := UnmarshalText(data)
	require.NoError(t, err)
	require.Equal(t, r, got)
}

func TestBatchUnnamedEncodesAsExperiments(t *testing.T) {
	b := &Batch{Results: []*Result{{Cycle: 1}, {Cycle: 2}}}
	v := b.ToValue()
	_, ok := v.(Experiments)
	require.True(t, ok)

	data := Encode(v)
	decoded, err := Decode(data)
	require.NoError(t, err)
	exps, ok := decoded.(Experiments)
	require.True(t, ok)
	require.Len(t, exps, 2)
}

func TestBatchNamedEncodesAsNamedExperiments(t *testing.T) {
	b := &Batch{
		Names:   []string{"low-load", "high-load"},
		Results: []*Result{{Cycle: 1}, {Cycle: 2}},
	}
	v := b.ToValue()
	data := Encode(v)
	decoded, err := Decode(data)
	require.NoError(t, err)
	named, ok := decoded.(NamedExperiments)
	require.True(t, ok)
	require.Len(t, named.Entries, 2)
	require.Equal(t, "low-load", named.Entries[0].Key)
}

func TestStringInterningSharesOffsetForRepeats(t *testing.T) {
	v := Array{Literal("shortest"), Literal("shortest"), Literal("valiant")}
	e := &encoder{interned: make(map[string]uint32)}
	root := e.put(v)
	e.writeU32(root)

	decoded, err := Decode(e.buf)
	require.NoError(t, err)
	arr, ok := decoded.(Array)
	require.True(t, ok)
	require.Equal(t, Literal("shortest"), arr[0])
	require.Equal(t, Literal("valiant"), arr[2])
}
