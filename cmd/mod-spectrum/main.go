package main

import (
	"flag"
	"fmt"
	"math"
	"math/cmplx"
	"os"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/ChielZ/Pentatone-sub001/preset"
	"github.com/ChielZ/Pentatone-sub001/synth"
)

// mod-spectrum holds one key, records the routed filter-cutoff trajectory at
// control rate and reports the dominant modulation frequency found in it.
// Useful for checking the LFO rate that actually reaches a destination,
// including tempo-synced rates and octave-law boundary behavior at extreme
// touch deltas.
func main() {
	key := flag.Int("key", 4, "Keyboard degree to hold")
	touchX := flag.Float64("touch", 0.5, "Initial touch position (0..1)")
	duration := flag.Float64("duration", 8.0, "Seconds of control-rate trace to record")
	presetPath := flag.String("preset", "", "Preset JSON file path (defaults when empty)")
	flag.Parse()

	params := synth.NewDefaultParams()
	if *presetPath != "" {
		var err error
		params, err = preset.LoadJSON(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "preset: %v\n", err)
			os.Exit(1)
		}
	}
	if !params.VoiceLFO.Enabled {
		// Give the trace something to measure when the preset has no LFO.
		params.VoiceLFO.Enabled = true
		params.VoiceLFO.Destination = synth.DestFilterCutoff
	}

	engine, err := synth.NewEngine(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine: %v\n", err)
		os.Exit(1)
	}

	dt := synth.DefaultTickInterval.Seconds()
	controlRate := 1.0 / dt
	numTicks := int(*duration * controlRate)
	if numTicks < 16 {
		numTicks = 16
	}

	slot := engine.Trigger(*key, *touchX)
	trace := make([]float64, numTicks)
	for i := 0; i < numTicks; i++ {
		engine.Tick(dt)
		trace[i] = engine.VoiceFrame(slot).FilterCutoff
	}

	mean := 0.0
	for _, v := range trace {
		mean += v
	}
	mean /= float64(len(trace))

	lo, hi := trace[0], trace[0]
	for _, v := range trace {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	fmt.Printf("Cutoff trace: %d ticks @ %.0f Hz control rate, mean=%.1f Hz, range=[%.1f, %.1f] Hz\n",
		numTicks, controlRate, mean, lo, hi)

	fftSize := 1
	for fftSize < numTicks {
		fftSize <<= 1
	}
	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fft plan: %v\n", err)
		os.Exit(1)
	}

	buf := make([]float64, fftSize)
	for i, v := range trace {
		hann := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(numTicks-1))
		buf[i] = (v - mean) * hann
	}
	spec := make([]complex128, fftSize/2+1)
	plan.Forward(spec, buf)

	binHz := controlRate / float64(fftSize)
	peakBin := 1
	peakMag := 0.0
	for k := 1; k < fftSize/2; k++ {
		if mag := cmplx.Abs(spec[k]); mag > peakMag {
			peakMag = mag
			peakBin = k
		}
	}

	measured := float64(peakBin) * binHz
	expected := params.VoiceLFO.RateHz(params.TempoBPM)
	fmt.Printf("Dominant modulation: %.3f Hz (bin %d, resolution %.3f Hz)\n", measured, peakBin, binHz)
	fmt.Printf("Configured LFO rate: %.3f Hz (%s -> %s)\n",
		expected, params.VoiceLFO.Waveform, params.VoiceLFO.Destination)
	if peakMag < 1e-9 {
		fmt.Println("No modulation detected on the filter cutoff.")
	}
}
