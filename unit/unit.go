// SPDX-License-Identifier: Unlicense OR MIT

/*
Package unit implements device independent units.

Device independent pixel, or dp, is the unit for sizes independent of
the underlying display device. Pixels, or px, are display dependent.

Gesture thresholds such as touch slop and fling velocities are defined
in dps so that a drag feels the same across displays; pointer positions
arrive in pixels and thresholds are converted with a Metric.
*/
package unit

import (
	"fmt"
	"math"
)

// Dp represents device independent pixels. 1 dp will
// have the same apparent size across platforms and
// display resolutions.
type Dp float32

// Metric converts dp values to pixels.
type Metric struct {
	// PxPerDp is the device dependent density. The zero value
	// is treated as 1.
	PxPerDp float32
}

// Dp converts v to pixels.
func (c Metric) Dp(v Dp) float32 {
	return float32(v) * nonZero(c.PxPerDp)
}

// PxToDp converts v pixels to dp.
func (c Metric) PxToDp(v float32) Dp {
	return Dp(v / nonZero(c.PxPerDp))
}

func (v Dp) String() string {
	return fmt.Sprintf("%gdp", float32(v))
}

func nonZero(v float32) float32 {
	if v == 0. || math.IsNaN(float64(v)) {
		return 1
	}
	return v
}
