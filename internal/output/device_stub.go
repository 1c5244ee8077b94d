// SPDX-License-Identifier: EPL-2.0

//go:build !malgo

package output

import "log/slog"

// Device is a placeholder when malgo support is not compiled in.
type Device struct{}

// OpenDevice always fails with ErrDeviceUnavailable.
func OpenDevice(Producer, int, int, *slog.Logger) (*Device, error) {
	return nil, ErrDeviceUnavailable
}

func (*Device) Start() error { return ErrDeviceUnavailable }
func (*Device) Close() error { return nil }
