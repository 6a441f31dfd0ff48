package synth

import (
	"fmt"
	"math"
)

// Waveform selects the LFO shape.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSquare
	WaveSaw
)

func (w Waveform) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveTriangle:
		return "triangle"
	case WaveSquare:
		return "square"
	case WaveSaw:
		return "saw"
	default:
		return "waveform(?)"
	}
}

// ParseWaveform converts a preset waveform name to a Waveform.
func ParseWaveform(name string) (Waveform, error) {
	for w := WaveSine; w <= WaveSaw; w++ {
		if w.String() == name {
			return w, nil
		}
	}
	return 0, fmt.Errorf("unknown waveform %q", name)
}

// ResetMode controls when an LFO phase is reset.
type ResetMode int

const (
	// ResetFree lets the phase run continuously across notes.
	ResetFree ResetMode = iota
	// ResetTrigger restarts the phase at zero every gate-open.
	ResetTrigger
	// ResetTempoSync restarts the phase on tempo beat boundaries.
	ResetTempoSync
)

func (m ResetMode) String() string {
	switch m {
	case ResetFree:
		return "free"
	case ResetTrigger:
		return "trigger"
	case ResetTempoSync:
		return "tempo_sync"
	default:
		return "reset(?)"
	}
}

// ParseResetMode converts a preset reset-mode name to a ResetMode.
func ParseResetMode(name string) (ResetMode, error) {
	for m := ResetFree; m <= ResetTempoSync; m++ {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown reset mode %q", name)
}

// LFOSettings configures one low-frequency oscillator source.
type LFOSettings struct {
	Enabled     bool
	Destination Destination
	Amount      float64
	Waveform    Waveform
	FrequencyHz float64
	// TempoSync derives the rate from the tempo instead of FrequencyHz.
	TempoSync bool
	// BeatDivision is cycles per beat when TempoSync is set (1 = quarter note).
	BeatDivision float64
	Reset        ResetMode
}

// RateHz returns the effective oscillation rate for the given tempo.
func (s LFOSettings) RateHz(tempoBPM float64) float64 {
	if s.TempoSync {
		div := s.BeatDivision
		if div <= 0 {
			div = 1
		}
		return tempoBPM / 60.0 * div
	}
	lo, hi := DestLFOFrequency.Range()
	return clamp(s.FrequencyHz, lo, hi)
}

// advancePhase steps an LFO phase by rate*dt and wraps it into [0,1).
func advancePhase(phase, rateHz, dt float64) float64 {
	phase += rateHz * dt
	phase -= math.Floor(phase)
	return phase
}

// waveformValue evaluates a waveform at phase in [0,1), bipolar output [-1,1].
func waveformValue(w Waveform, phase float64) float64 {
	switch w {
	case WaveSine:
		return math.Sin(2 * math.Pi * phase)
	case WaveTriangle:
		if phase < 0.5 {
			return 4.0*phase - 1.0
		}
		return 3.0 - 4.0*phase
	case WaveSquare:
		if phase < 0.5 {
			return 1.0
		}
		return -1.0
	case WaveSaw:
		return 2.0*phase - 1.0
	default:
		return 0
	}
}
