// ABOUTME: Tests for the drift estimator
// ABOUTME: Covers warmup, compensation bounds, resets and clock rewrites
package avsync

import (
	"math"
	"testing"
)

type fakeClock struct {
	t      float64
	writes int
}

func (c *fakeClock) Read() float64 { return c.t }

func (c *fakeClock) Write(seconds float64) {
	c.t = seconds
	c.writes++
}

func TestWarmupDoesNotCompensate(t *testing.T) {
	clk := &fakeClock{t: 1.050}
	e := NewEstimator(clk)

	dec := e.Estimate(1.000, 1024, 44100)

	if dec.Compensate {
		t.Error("expected no compensation during warmup")
	}
	if dec.Wanted != 1024 {
		t.Errorf("expected wanted samples 1024, got %d", dec.Wanted)
	}
	if math.Abs(dec.Diff-(-0.05)) > 1e-9 {
		t.Errorf("expected diff -0.05, got %f", dec.Diff)
	}
	if e.avgCount != 1 {
		t.Errorf("expected measurement count 1, got %d", e.avgCount)
	}
	if clk.writes != 0 {
		t.Error("small diff must not rewrite the clock")
	}
}

func TestWarmupNeverCompensatesBeforeTwentyFrames(t *testing.T) {
	clk := &fakeClock{t: -0.5}
	e := NewEstimator(clk)

	for i := 0; i < 20; i++ {
		dec := e.Estimate(0.02*float64(i), 1024, 48000)
		if dec.Compensate {
			t.Fatalf("frame %d: compensation before 20 measurements", i+1)
		}
	}
	if e.avgCount != 20 {
		t.Errorf("expected measurement count 20, got %d", e.avgCount)
	}
}

func TestLargeDiffResetsHistoryAndRewritesClock(t *testing.T) {
	clk := &fakeClock{}
	e := NewEstimator(clk)
	e.Estimate(0.5, 1024, 48000) // accumulate some history

	dec := e.Estimate(100.0, 1024, 48000)

	if e.avgCount != 0 || e.diffCum != 0 {
		t.Error("expected history reset on large diff")
	}
	if clk.t != 100.0 {
		t.Errorf("expected clock hard-set to 100.0, got %f", clk.t)
	}
	if dec.Compensate {
		t.Error("expected no compensation on large diff")
	}
}

func TestNaNResetsHistoryButNotClock(t *testing.T) {
	clk := &fakeClock{t: 2.0}
	e := NewEstimator(clk)
	e.Estimate(2.5, 1024, 48000)

	dec := e.Estimate(math.NaN(), 1024, 48000)

	if e.avgCount != 0 || e.diffCum != 0 {
		t.Error("expected history reset on NaN diff")
	}
	if clk.writes != 0 {
		t.Error("NaN diff must not rewrite the clock")
	}
	if !math.IsNaN(dec.Diff) {
		t.Errorf("expected NaN skew, got %f", dec.Diff)
	}
	if dec.Compensate {
		t.Error("expected no compensation on NaN diff")
	}
}

func TestSustainedDriftCompensatesAfterWarmup(t *testing.T) {
	clk := &fakeClock{}
	e := NewEstimator(clk)

	// Constant 0.1s drift: pts always leads the clock by 0.1.
	for i := 0; i < 20; i++ {
		clkTime := 0.02 * float64(i)
		clk.t = clkTime
		dec := e.Estimate(clkTime+0.1, 1024, 48000)
		if dec.Compensate {
			t.Fatalf("frame %d: compensation during warmup", i+1)
		}
	}

	clk.t = 0.5
	dec := e.Estimate(0.6, 1024, 48000)

	if !dec.Compensate {
		t.Fatal("expected compensation after 20 measurements of sustained drift")
	}
	// 1024 + 0.1*48000 overshoots and clamps to +10%.
	if dec.Wanted != 1024*110/100 {
		t.Errorf("expected clamped wanted samples %d, got %d", 1024*110/100, dec.Wanted)
	}
	if clk.writes != 0 {
		t.Error("sub-threshold diff must not rewrite the clock")
	}
}

func TestWantedSamplesStayWithinTenPercent(t *testing.T) {
	for _, drift := range []float64{-5.0, -0.5, -0.05, 0.05, 0.5, 5.0} {
		clk := &fakeClock{}
		e := NewEstimator(clk)
		for i := 0; i < 30; i++ {
			clk.t = 0.02 * float64(i)
			dec := e.Estimate(clk.t+drift, 1024, 48000)
			if dec.Wanted < 1024*90/100 || dec.Wanted > 1024*110/100 {
				t.Fatalf("drift %f frame %d: wanted %d outside ±10%% of 1024",
					drift, i+1, dec.Wanted)
			}
		}
	}
}

func TestAverageConvergesToConstantDiff(t *testing.T) {
	clk := &fakeClock{}
	e := NewEstimator(clk)

	const d = 0.02
	const n = 60
	for i := 0; i < n; i++ {
		clk.t = 0.02 * float64(i)
		e.Estimate(clk.t+d, 1024, 48000)
	}

	avg := e.diffCum * (1.0 - e.avgCoef)
	tolerance := d * math.Pow(e.avgCoef, n)
	if math.Abs(avg-d) > tolerance+1e-9 {
		t.Errorf("average %f did not converge to %f within %g", avg, d, tolerance)
	}
}

func TestSmallDriftBelowThresholdNotCorrected(t *testing.T) {
	clk := &fakeClock{}
	e := NewEstimator(clk)

	// 0.02s drift is below the 2*1024/48000 ≈ 0.0427s threshold.
	for i := 0; i < 40; i++ {
		clk.t = 0.02 * float64(i)
		dec := e.Estimate(clk.t+0.02, 1024, 48000)
		if dec.Compensate {
			t.Fatalf("frame %d: drift below threshold must not compensate", i+1)
		}
	}
}

func TestResetDiscardsHistory(t *testing.T) {
	clk := &fakeClock{}
	e := NewEstimator(clk)
	for i := 0; i < 25; i++ {
		e.Estimate(0.1, 1024, 48000)
	}

	e.Reset()

	if e.avgCount != 0 || e.diffCum != 0 {
		t.Error("expected empty history after reset")
	}
}
