// SPDX-License-Identifier: GPL-2.0-or-later

package qtime

import (
	"time"
)

var (
	startTime = time.Now()
)

// QTime returns the monotonic time since process start.
func QTime() time.Duration {
	return time.Since(startTime)
}

// Milliseconds is QTime truncated to whole milliseconds.
func Milliseconds() uint32 {
	return uint32(QTime().Milliseconds())
}
