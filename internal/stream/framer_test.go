// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"testing"
)

func TestFramer_Rechunk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		writes      []int
		wantPackets int
		wantPending int
	}{
		{"exact", []int{4}, 1, 0},
		{"short", []int{3}, 0, 3},
		{"spans two", []int{3, 3}, 1, 2},
		{"one write many packets", []int{10}, 2, 2},
		{"empty writes", []int{0, 0, 4}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := NewFramer(4)
			var packets [][]float32
			next := float32(0)

			for _, n := range tt.writes {
				frames := make([]float32, n)
				for i := range frames {
					frames[i] = next
					next++
				}
				err := f.Write(frames, func(p []float32) error {
					packets = append(packets, append([]float32(nil), p...))
					return nil
				})
				if err != nil {
					t.Fatalf("Write() error = %v", err)
				}
			}

			if len(packets) != tt.wantPackets {
				t.Fatalf("got %d packets, want %d", len(packets), tt.wantPackets)
			}
			if f.Pending() != tt.wantPending {
				t.Errorf("Pending() = %d, want %d", f.Pending(), tt.wantPending)
			}

			// Samples are numbered in write order, so packets must be contiguous.
			want := float32(0)
			for i, p := range packets {
				for j, v := range p {
					if v != want {
						t.Errorf("packet %d sample %d = %v, want %v", i, j, v, want)
					}
					want++
				}
			}
		})
	}
}

func TestFramer_EmitError(t *testing.T) {
	t.Parallel()

	f := NewFramer(2)
	boom := errors.New("boom")
	calls := 0

	err := f.Write(make([]float32, 6), func([]float32) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Write() error = %v, want %v", err, boom)
	}
	if calls != 1 {
		t.Errorf("emit called %d times, want 1", calls)
	}
}

func TestFramer_Reset(t *testing.T) {
	t.Parallel()

	f := NewFramer(4)
	_ = f.Write([]float32{1, 2, 3}, func([]float32) error { return nil })
	f.Reset()

	if f.Pending() != 0 {
		t.Errorf("Pending() after Reset = %d, want 0", f.Pending())
	}
}
