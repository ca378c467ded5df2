// Package beep plays short chimes when listening starts, ends or fails.
package beep

import (
	"math"
	"sync"
	"sync/atomic"
)

const sampleRate = 44100

var disabled atomic.Bool

func Disable() { disabled.Store(true) }

type tone struct {
	freq   float64
	dur    float64 // seconds per pulse
	volume float64
	decay  float64
	pulses int
	gap    float64 // seconds between pulses
}

var (
	startTone = tone{freq: 1200, dur: 0.2, volume: 0.5, decay: 60, pulses: 1}
	endTone   = tone{freq: 900, dur: 0.2, volume: 0.5, decay: 40, pulses: 1}
	errorTone = tone{freq: 350, dur: 0.08, volume: 0.6, decay: 30, pulses: 2, gap: 0.05}
)

// synth renders t as mono S16 samples with an exponential decay per pulse.
func synth(t tone, rate int) []int16 {
	n := int(float64(rate) * t.dur)
	gapN := int(float64(rate) * t.gap)
	out := make([]int16, 0, t.pulses*n+(t.pulses-1)*gapN)
	for p := 0; p < t.pulses; p++ {
		if p > 0 {
			out = append(out, make([]int16, gapN)...)
		}
		for i := 0; i < n; i++ {
			x := float64(i) / float64(rate)
			env := math.Exp(-x * t.decay)
			out = append(out, int16(math.Sin(2*math.Pi*t.freq*x)*32767*t.volume*env))
		}
	}
	return out
}

var (
	cacheMu sync.Mutex
	cache   = map[tone][]int16{}
)

func samples(t tone) []int16 {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	s, ok := cache[t]
	if !ok {
		s = synth(t, sampleRate)
		cache[t] = s
	}
	return s
}

func play(t tone) {
	if disabled.Load() {
		return
	}
	go playSamples(samples(t))
}

func PlayStart() { play(startTone) }
func PlayEnd()   { play(endTone) }
func PlayError() { play(errorTone) }
