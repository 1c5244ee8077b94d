// SPDX-License-Identifier: EPL-2.0

package output

import "errors"

var ErrDeviceUnavailable = errors.New("audio device support not enabled (build with -tags malgo)")
