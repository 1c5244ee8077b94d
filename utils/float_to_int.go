// SPDX-License-Identifier: EPL-2.0

// Package utils holds sample conversion helpers shared by the sinks.
package utils

import "encoding/binary"

// Float32ToInt16 clamps x to [-1, 1] and scales it to int16. The mix is
// unclipped, so out-of-range sums saturate here and nowhere earlier.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 keeps +1.0 from overflowing.
	return int16(x * 32767.0)
}

// Float32sToInt16s converts min(len(dst), len(src)) samples and returns
// the count.
func Float32sToInt16s(dst []int16, src []float32) int {
	n := min(len(dst), len(src))
	for i, v := range src[:n] {
		dst[i] = Float32ToInt16(v)
	}

	return n
}

// PutInt16LE writes src as little-endian int16 into dst, two bytes per
// sample, and returns the number of bytes written.
func PutInt16LE(dst []byte, src []float32) int {
	n := min(len(dst)/2, len(src))
	for i, v := range src[:n] {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(Float32ToInt16(v)))
	}

	return 2 * n
}
