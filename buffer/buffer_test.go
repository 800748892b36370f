package buffer

import (
	"testing"

	"github.com/codefan-byte/caminos-tfg-sub000/phit"
	"github.com/stretchr/testify/require"
)

func TestBufferOverflowPanics(t *testing.T) {
	b := NewBuffer(1)
	msg := phit.NewMessage(0, 1, 2, 0)
	pkt := phit.NewPacket(msg, 0, 2)
	b.Push(phit.NewPhit(pkt, 0))
	require.Panics(t, func() { b.Push(phit.NewPhit(pkt, 1)) })
}

func TestBufferFIFOOrder(t *testing.T) {
	b := NewBuffer(4)
	msg := phit.NewMessage(0, 1, 3, 0)
	pkt := phit.NewPacket(msg, 0, 3)
	for i := 0; i < 3; i++ {
		b.Push(phit.NewPhit(pkt, i))
	}
	for i := 0; i < 3; i++ {
		require.Equal(t, i, b.Front().Index)
		b.Pop()
	}
	require.Nil(t, b.Pop())
}

func TestCreditStatusConservation(t *testing.T) {
	c := NewCreditStatus(2, 4)
	require.True(t, c.CanSend(0, 4))
	c.NotifySent(0)
	require.Equal(t, 3, c.Available(0))
	c.Acknowledge(AcknowledgeMessage{VC: 0, Credit: 1})
	require.Equal(t, 4, c.Available(0))
}

func TestSpaceStatusUpdatesFromAck(t *testing.T) {
	s := NewSpaceStatus(8)
	s.NotifySent(0)
	require.Equal(t, 7, s.Available(0))
	s.Acknowledge(AcknowledgeMessage{Space: true, SpaceValue: 8})
	require.Equal(t, 8, s.Available(0))
}

func TestPerVCBuffersAdmissionAssignsVCOnce(t *testing.T) {
	buffers := NewPerVCBuffers(2, 4)
	msg := phit.NewMessage(0, 1, 2, 0)
	pkt := phit.NewPacket(msg, 0, 2)
	begin := phit.NewPhit(pkt, 0)
	policy := &RoundRobinAdmission{}
	buffers.Admit(begin, policy)
	require.NotNil(t, begin.VirtualChannel)

	tail := phit.NewPhit(pkt, 1)
	tail.AssignVirtualChannel(*begin.VirtualChannel)
	buffers.Admit(tail, policy)
	require.Equal(t, *begin.VirtualChannel, *tail.VirtualChannel)
}

func TestPerVCBuffersAdmitNonBeginWithoutVCPanics(t *testing.T) {
	buffers := NewPerVCBuffers(2, 4)
	msg := phit.NewMessage(0, 1, 2, 0)
	pkt := phit.NewPacket(msg, 0, 2)
	tail := phit.NewPhit(pkt, 1)
	require.Panics(t, func() { buffers.Admit(tail, &RoundRobinAdmission{}) })
}
