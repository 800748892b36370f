// Package buffer implements the bounded per-virtual-channel FIFOs used on
// router input/output ports and server injection ports, plus the
// credit/space bookkeeping (StatusAtEmissor) that provides backpressure
// across a link.
package buffer

import (
	"fmt"

	"github.com/codefan-byte/caminos-tfg-sub000/phit"
)

// Buffer is a bounded FIFO of phits. Insertion above Capacity is a fatal
// invariant violation.
type Buffer struct {
	Capacity int
	phits    []*phit.Phit
}

// NewBuffer creates an empty buffer of the given capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{Capacity: capacity}
}

// Len returns the number of phits currently queued.
func (b *Buffer) Len() int { return len(b.phits) }

// Free returns the number of additional phits the buffer can accept.
func (b *Buffer) Free() int { return b.Capacity - len(b.phits) }

// Push inserts a phit at the back of the buffer. Panics on overflow.
func (b *Buffer) Push(p *phit.Phit) {
	if len(b.phits) >= b.Capacity {
		panic(fmt.Sprintf("buffer: overflow, capacity=%d", b.Capacity))
	}
	b.phits = append(b.phits, p)
}

// Front returns the head phit without removing it, or nil if empty.
func (b *Buffer) Front() *phit.Phit {
	if len(b.phits) == 0 {
		return nil
	}
	return b.phits[0]
}

// Pop removes and returns the head phit, or nil if empty.
func (b *Buffer) Pop() *phit.Phit {
	if len(b.phits) == 0 {
		return nil
	}
	p := b.phits[0]
	b.phits = b.phits[1:]
	return p
}

// IterPhits returns the phits currently queued, in FIFO order.
func (b *Buffer) IterPhits() []*phit.Phit {
	out := make([]*phit.Phit, len(b.phits))
	copy(out, b.phits)
	return out
}

// PerVCBuffers is an array of per-virtual-channel parallel Buffers, as used
// on the input side of a router port and on the output side of server
// injection.
type PerVCBuffers struct {
	vcs []*Buffer
}

// NewPerVCBuffers creates numVCs parallel buffers, each of the given
// per-VC capacity.
func NewPerVCBuffers(numVCs, capacityPerVC int) *PerVCBuffers {
	vcs := make([]*Buffer, numVCs)
	for i := range vcs {
		vcs[i] = NewBuffer(capacityPerVC)
	}
	return &PerVCBuffers{vcs: vcs}
}

// VC returns the buffer for the given virtual channel.
func (p *PerVCBuffers) VC(vc int) *Buffer { return p.vcs[vc] }

// NumVCs returns the number of virtual channels.
func (p *PerVCBuffers) NumVCs() int { return len(p.vcs) }

// AdmissionPolicy chooses the virtual channel for a begin phit arriving
// with none yet assigned; the remaining phits of the packet inherit it.
type AdmissionPolicy interface {
	SelectVC(p *phit.Phit, buffers *PerVCBuffers) int
}

// RoundRobinAdmission assigns VCs in round-robin order across begin phits,
// regardless of occupancy. Simple default admission policy.
type RoundRobinAdmission struct {
	next int
}

func (r *RoundRobinAdmission) SelectVC(_ *phit.Phit, buffers *PerVCBuffers) int {
	vc := r.next % buffers.NumVCs()
	r.next++
	return vc
}

// Admit inserts phit p into the buffer set, selecting a VC via policy if p
// has none assigned (must be a begin phit in that case; a non-begin phit
// arriving with no VC assigned is an invariant violation).
func (p *PerVCBuffers) Admit(ph *phit.Phit, policy AdmissionPolicy) {
	if ph.VirtualChannel == nil {
		if !ph.IsBegin() {
			panic("buffer: VC assignment requested on non-begin phit without prior begin")
		}
		vc := policy.SelectVC(ph, p)
		ph.AssignVirtualChannel(vc)
	}
	p.vcs[*ph.VirtualChannel].Push(ph)
}
