package traffic

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUniformRejectsSelfMessage(t *testing.T) {
	u := NewUniform(2, 4, 1.0)
	rng := rand.New(rand.NewSource(1))
	sawSelf := false
	for i := 0; i < 100; i++ {
		msg, reason := u.GenerateMessage(0, 0, rng)
		if reason == SelfMessage {
			sawSelf = true
			require.Nil(t, msg)
			continue
		}
		require.NotNil(t, msg)
		require.NotEqual(t, msg.Origin, msg.Destination)
	}
	_ = sawSelf
}

func TestUniformSingleServerAlwaysOutsideTraffic(t *testing.T) {
	u := NewUniform(1, 4, 1.0)
	_, reason := u.GenerateMessage(0, 0, rand.New(rand.NewSource(1)))
	require.Equal(t, OriginOutsideTraffic, reason)
}

func TestUniformLoadGatesGeneration(t *testing.T) {
	u := NewUniform(4, 4, 0.0)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		require.False(t, u.ShouldGenerate(0, int64(i), rng))
	}
	u.Load = 1.0
	for i := 0; i < 50; i++ {
		require.True(t, u.ShouldGenerate(0, int64(i), rng))
	}
}

func TestPermutationFixedDestination(t *testing.T) {
	p := NewPermutation([]int{1, 2, 0}, 8, 1.0)
	msg, reason := p.GenerateMessage(0, 5, nil)
	require.Empty(t, reason)
	require.Equal(t, 0, msg.Origin)
	require.Equal(t, 1, msg.Destination)
	require.Equal(t, 8, msg.Size)
	require.EqualValues(t, 5, msg.CreationCycle)
}

func TestPermutationRejectsSelfDestination(t *testing.T) {
	p := NewPermutation([]int{0, 2, 1}, 8, 1.0)
	_, reason := p.GenerateMessage(0, 0, nil)
	require.Equal(t, SelfMessage, reason)
}

func TestPermutationRejectsOutOfRangeOrigin(t *testing.T) {
	p := NewPermutation([]int{1, 0}, 8, 1.0)
	_, reason := p.GenerateMessage(5, 0, nil)
	require.Equal(t, OriginOutsideTraffic, reason)
}
