package synth

// Stage identifies the current envelope segment.
type Stage int

const (
	StageIdle Stage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAttack:
		return "attack"
	case StageDecay:
		return "decay"
	case StageSustain:
		return "sustain"
	case StageRelease:
		return "release"
	default:
		return "stage(?)"
	}
}

// EnvelopeSettings holds the four segment parameters of an ADSR generator.
// Attack, Decay and Release are durations in seconds; Sustain is a level 0..1.
type EnvelopeSettings struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// Envelope is a four-stage generator advanced at control rate.
//
// Segments interpolate linearly over their configured duration. Attack starts
// from the level the envelope held when the gate opened and release starts
// from the level held when the gate closed, so retriggering or releasing
// mid-segment never produces a discontinuity.
type Envelope struct {
	settings EnvelopeSettings

	stage     Stage
	elapsed   float64 // seconds spent in the current stage
	value     float64 // current output, 0..1
	fromLevel float64 // level at the start of the current segment
}

const minSegmentTime = 0.001

// NewEnvelope creates an idle envelope with the given segment settings.
func NewEnvelope(s EnvelopeSettings) Envelope {
	e := Envelope{}
	e.Configure(s)
	return e
}

// Configure replaces the segment settings without disturbing the run state.
func (e *Envelope) Configure(s EnvelopeSettings) {
	if s.Attack < minSegmentTime {
		s.Attack = minSegmentTime
	}
	if s.Decay < minSegmentTime {
		s.Decay = minSegmentTime
	}
	if s.Release < minSegmentTime {
		s.Release = minSegmentTime
	}
	s.Sustain = clamp01(s.Sustain)
	e.settings = s
}

// Trigger opens the gate and enters the attack stage from the current level.
func (e *Envelope) Trigger() {
	e.stage = StageAttack
	e.elapsed = 0
	e.fromLevel = e.value
}

// Release closes the gate and enters the release stage from the current level.
// A release before the attack or decay completes interpolates down from
// whatever level the envelope had reached.
func (e *Envelope) Release() {
	if e.stage == StageIdle {
		return
	}
	e.stage = StageRelease
	e.elapsed = 0
	e.fromLevel = e.value
}

// ForceIdle collapses the envelope immediately, skipping the release stage.
// Voice stealing is the only caller.
func (e *Envelope) ForceIdle() {
	e.stage = StageIdle
	e.elapsed = 0
	e.value = 0
	e.fromLevel = 0
}

// IsActive reports whether the envelope is producing output.
func (e *Envelope) IsActive() bool {
	return e.stage != StageIdle
}

// Stage returns the current stage.
func (e *Envelope) Stage() Stage {
	return e.stage
}

// Value returns the output of the most recent Advance call.
func (e *Envelope) Value() float64 {
	return e.value
}

// Advance moves the envelope forward by dt seconds and returns the new output.
func (e *Envelope) Advance(dt float64) float64 {
	if dt < 0 {
		dt = 0
	}
	e.elapsed += dt

	switch e.stage {
	case StageAttack:
		if e.elapsed >= e.settings.Attack {
			e.value = 1.0
			e.enter(StageDecay)
			break
		}
		e.value = e.fromLevel + (1.0-e.fromLevel)*(e.elapsed/e.settings.Attack)

	case StageDecay:
		if e.elapsed >= e.settings.Decay {
			e.value = e.settings.Sustain
			e.enter(StageSustain)
			break
		}
		e.value = 1.0 + (e.settings.Sustain-1.0)*(e.elapsed/e.settings.Decay)

	case StageSustain:
		e.value = e.settings.Sustain

	case StageRelease:
		if e.elapsed >= e.settings.Release {
			e.value = 0
			e.enter(StageIdle)
			break
		}
		e.value = e.fromLevel * (1.0 - e.elapsed/e.settings.Release)

	case StageIdle:
		e.value = 0
	}

	return e.value
}

func (e *Envelope) enter(s Stage) {
	e.stage = s
	e.elapsed = 0
	e.fromLevel = e.value
}
