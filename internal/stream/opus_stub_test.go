// SPDX-License-Identifier: EPL-2.0

//go:build !opus

package stream

import (
	"errors"
	"testing"
)

func TestNewEncoder_OpusUnavailable(t *testing.T) {
	t.Parallel()

	if _, err := NewEncoder(CodecOpus, 48000, 64000); !errors.Is(err, ErrCodecUnavailable) {
		t.Errorf("NewEncoder(opus) error = %v, want ErrCodecUnavailable", err)
	}
}
