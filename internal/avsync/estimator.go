// ABOUTME: Audio/video drift estimator with bounded rate compensation
// ABOUTME: Exponentially-weighted diff average feeding resampler targets
package avsync

import "math"

const (
	// NoSyncThreshold is the drift, in seconds, above which no correction
	// is attempted and the shared clock is overwritten instead.
	NoSyncThreshold = 10.0

	// correctionPercentMax bounds the playback speed change used to chase
	// sync, in percent of the frame's sample count.
	correctionPercentMax = 10

	// diffAvgCount is the number of measurements accumulated before the
	// average is considered statistically meaningful.
	diffAvgCount = 20
)

// Clock is the shared reference the estimator reads every frame and, on a
// large desync, overwrites.
type Clock interface {
	Read() float64
	Write(seconds float64)
}

// Decision is the outcome of one estimation step.
type Decision struct {
	// Wanted is the target sample count for the frame, within ±10% of the
	// frame's own count.
	Wanted int
	// Compensate is true when Wanted differs from the frame's sample count
	// and the resampler must stretch or squeeze.
	Compensate bool
	// Diff is pts minus clock in seconds, kept as the observable skew.
	Diff float64
}

// Estimator tracks the running audio/video drift for a single stream. It is
// not safe for concurrent use; each stream processor owns exactly one.
type Estimator struct {
	clock    Clock
	diffCum  float64
	avgCoef  float64
	avgCount int
}

// NewEstimator creates an estimator bound to the shared clock. The decay
// coefficient is fixed so that a one-frame outlier decays to 1% of its
// weight after 20 subsequent frames.
func NewEstimator(c Clock) *Estimator {
	return &Estimator{
		clock:   c,
		avgCoef: math.Exp(math.Log(0.01) / diffAvgCount),
	}
}

// Estimate runs one sync step for a frame presented at pts seconds carrying
// samples samples at rate Hz, and decides how many output samples the frame
// should be converted to.
func (e *Estimator) Estimate(pts float64, samples, rate int) Decision {
	diff := pts - e.clock.Read()
	wanted := samples

	if !math.IsNaN(diff) && math.Abs(diff) < NoSyncThreshold {
		e.diffCum = diff + e.avgCoef*e.diffCum

		if e.avgCount < diffAvgCount {
			// Not enough measures for a correct estimate yet.
			e.avgCount++
		} else {
			avgDiff := e.diffCum * (1.0 - e.avgCoef)

			// The output fifo fullness is not known precisely, so drift
			// below roughly two frame durations is left uncorrected.
			diffThreshold := 2.0 * float64(samples) / float64(rate)

			if math.Abs(avgDiff) >= diffThreshold {
				wanted = samples + int(math.Round(diff*float64(rate)))
				minSamples := samples * (100 - correctionPercentMax) / 100
				maxSamples := samples * (100 + correctionPercentMax) / 100
				if wanted < minSamples {
					wanted = minSamples
				}
				if wanted > maxSamples {
					wanted = maxSamples
				}
			}
		}
	} else {
		// Too big a difference: may be initial pts errors. Discard the
		// accumulated history.
		e.avgCount = 0
		e.diffCum = 0
	}

	// NaN fails this comparison too, so a NaN diff resets the history above
	// but never rewrites the clock.
	if math.Abs(diff) >= NoSyncThreshold {
		e.clock.Write(pts)
	}

	return Decision{
		Wanted:     wanted,
		Compensate: wanted != samples,
		Diff:       diff,
	}
}

// Reset discards the accumulated drift history, as after a seek.
func (e *Estimator) Reset() {
	e.diffCum = 0
	e.avgCount = 0
}
