// ABOUTME: Tests for the shared presentation clock
// ABOUTME: Covers read/write semantics and concurrent access
package clock

import (
	"sync"
	"testing"
)

func TestReadStartsAtZero(t *testing.T) {
	c := New()
	if got := c.Read(); got != 0 {
		t.Errorf("expected zero initial clock, got %f", got)
	}
}

func TestWriteOverwrites(t *testing.T) {
	c := New()
	c.Write(12.5)
	if got := c.Read(); got != 12.5 {
		t.Errorf("expected 12.5, got %f", got)
	}
	c.Write(3.25)
	if got := c.Read(); got != 3.25 {
		t.Errorf("expected 3.25, got %f", got)
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	c := New()
	var wg sync.WaitGroup

	// An audio and a video branch hammering the clock concurrently.
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func(base float64) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				c.Write(base + float64(i))
			}
		}(float64(w * 10000))
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				_ = c.Read()
			}
		}()
	}

	wg.Wait()

	if got := c.Read(); got != 999 && got != 10999 {
		t.Errorf("unexpected final clock value %f", got)
	}
}
