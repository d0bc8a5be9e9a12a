package utils

import (
	"math/rand"
	"time"
)

// Pacer injects the randomized pauses used between browser interactions.
// The pauses are an anti-detection heuristic, not a correctness mechanism,
// so tests swap in NoDelay.
type Pacer interface {
	// Pause blocks for a random duration in [min, max].
	Pause(min, max time.Duration)
}

// RandomDelay sleeps for a uniformly random interval per call.
type RandomDelay struct{}

// Pause sleeps between min and max.
func (RandomDelay) Pause(min, max time.Duration) {
	if max < min {
		min, max = max, min
	}
	d := min
	if span := max - min; span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}
	time.Sleep(d)
}

// NoDelay skips all pauses.
type NoDelay struct{}

func (NoDelay) Pause(min, max time.Duration) {}

// NewPacer returns a RandomDelay when pacing is enabled, NoDelay otherwise.
func NewPacer(enabled bool) Pacer {
	if enabled {
		return RandomDelay{}
	}
	return NoDelay{}
}
