// SPDX-License-Identifier: EPL-2.0

package router

import "sync"

// Mapping routes one process id to a channel.
type Mapping struct {
	PID     int
	Channel int
	Active  bool
}

// table is the bounded process-to-channel map. Slots are never compacted:
// an unregistered entry stays in place, inactive, until its process
// registers again. With reclaim set, a new process may also take over an
// inactive slot once the table is full.
type table struct {
	mu      sync.Mutex
	entries []Mapping
	reclaim bool
}

func newTable(capacity int) *table {
	return &table{entries: make([]Mapping, 0, capacity)}
}

// register reports whether pid was new to the table.
func (t *table) register(pid, channel int) (added bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.registerLocked(pid, channel)
}

func (t *table) registerLocked(pid, channel int) (bool, error) {
	for i := range t.entries {
		if t.entries[i].PID == pid {
			t.entries[i] = Mapping{PID: pid, Channel: channel, Active: true}
			return false, nil
		}
	}

	if len(t.entries) < cap(t.entries) {
		t.entries = append(t.entries, Mapping{PID: pid, Channel: channel, Active: true})
		return true, nil
	}

	if !t.reclaim {
		return false, ErrTableFull
	}

	for i := range t.entries {
		if !t.entries[i].Active {
			t.entries[i] = Mapping{PID: pid, Channel: channel, Active: true}
			return true, nil
		}
	}

	return false, ErrTableFull
}

// unregister deactivates the active entry for pid. shared reports whether
// another active entry still targets the same channel.
func (t *table) unregister(pid int) (channel int, shared, ok bool) {
	return t.release(pid, nil)
}

// release is unregister with a hook that runs under the table lock once
// the entry is inactive. The hook must not take any other lock.
func (t *table) release(pid int, locked func(channel int)) (channel int, shared, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexLocked(pid)
	if idx < 0 {
		return 0, false, false
	}

	t.entries[idx].Active = false
	channel = t.entries[idx].Channel

	if locked != nil {
		locked(channel)
	}

	return channel, t.channelInUseLocked(channel), true
}

func (t *table) lookup(pid int) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexLocked(pid)
	if idx < 0 {
		return 0, false
	}

	return t.entries[idx].Channel, true
}

// allocate keeps an active pid on its channel, otherwise registers it on
// the lowest channel no active entry references.
func (t *table) allocate(pid, channels int) (channel int, added bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if idx := t.indexLocked(pid); idx >= 0 {
		return t.entries[idx].Channel, false, nil
	}

	for ch := range channels {
		if t.channelInUseLocked(ch) {
			continue
		}

		added, err := t.registerLocked(pid, ch)
		if err != nil {
			return 0, false, err
		}

		return ch, added, nil
	}

	return 0, false, ErrNoFreeChannel
}

func (t *table) snapshot() []Mapping {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Mapping, 0, len(t.entries))
	for _, m := range t.entries {
		if m.Active {
			out = append(out, m)
		}
	}

	return out
}

func (t *table) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = t.entries[:0]
}

// indexLocked returns the first active entry for pid, or -1.
func (t *table) indexLocked(pid int) int {
	for i := range t.entries {
		if t.entries[i].Active && t.entries[i].PID == pid {
			return i
		}
	}

	return -1
}

func (t *table) channelInUseLocked(channel int) bool {
	for i := range t.entries {
		if t.entries[i].Active && t.entries[i].Channel == channel {
			return true
		}
	}

	return false
}
