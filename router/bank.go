// SPDX-License-Identifier: EPL-2.0

package router

import (
	"sync"
	"sync/atomic"
)

// bank is the fixed set of per-channel sample buffers, stored back to back
// in one slice. Every method holds mu for at most channels*frames
// additions and never allocates.
type bank struct {
	mu       sync.Mutex
	channels int
	frames   int
	samples  []float32
	owners   []int // pid of the last write per channel, guarded by mu

	// gens counts writes per channel. It is bumped under mu and may be
	// read without it.
	gens []atomic.Uint64
}

func newBank(channels, frames int) *bank {
	return &bank{
		channels: channels,
		frames:   frames,
		samples:  make([]float32, channels*frames),
		owners:   make([]int, channels),
		gens:     make([]atomic.Uint64, channels),
	}
}

func (b *bank) channel(ch int) []float32 {
	return b.samples[ch*b.frames : (ch+1)*b.frames]
}

// write overwrites the head of the channel buffer with src and zeroes the
// remainder. len(src) must not exceed b.frames.
func (b *bank) write(ch, pid int, src []float32) {
	b.mu.Lock()
	buf := b.channel(ch)
	n := copy(buf, src)
	clear(buf[n:])
	b.owners[ch] = pid
	b.gens[ch].Add(1)
	b.mu.Unlock()
}

func (b *bank) generation(ch int) uint64 {
	return b.gens[ch].Load()
}

// release silences ch on behalf of pid, which just lost its mapping. gen
// is the channel generation seen when the mapping went away. A write by
// another process since then is kept; a late write by pid itself is not.
func (b *bank) release(ch, pid int, gen uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gens[ch].Load() != gen && b.owners[ch] != pid {
		return false
	}
	clear(b.channel(ch))

	return true
}

func (b *bank) clearAll() {
	b.mu.Lock()
	clear(b.samples)
	b.mu.Unlock()
}

// mix zero-fills dst and adds every channel into it. len(dst) must not
// exceed b.frames.
func (b *bank) mix(dst []float32) {
	b.mu.Lock()
	clear(dst)
	for ch := range b.channels {
		buf := b.samples[ch*b.frames : ch*b.frames+len(dst)]
		for i, v := range buf {
			dst[i] += v
		}
	}
	b.mu.Unlock()
}
