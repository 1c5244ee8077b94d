// SPDX-License-Identifier: EPL-2.0

//go:build !opus

package stream

import "fmt"

func newOpusEncoder(int, int) (Encoder, error) {
	return nil, fmt.Errorf("%w: opus (build with -tags opus)", ErrCodecUnavailable)
}
