package synth

// VoiceState holds the values written only by trigger, release and
// parameter-edit events: the modulation bases and the touch positions.
// The scheduler reads this struct every tick but never writes it, and the
// routed outputs live in VoiceFrame, so a modulated value can never be
// re-read as a new base.
type VoiceState struct {
	BaseAmplitude    float64
	BaseFilterCutoff float64
	InitialTouchX    float64
	CurrentTouchX    float64
	Gate             bool
}

// VoiceFrame holds the live synthesis parameters written by the scheduler
// and read by the external audio graph.
type VoiceFrame struct {
	Frequency     float64
	DetuneRatio   float64
	ModIndex      float64
	ModMultiplier float64
	FilterCutoff  float64
	Amplitude     float64
}

// Voice is one slot of the polyphonic pool. Its identity is the slot index,
// stable for the voice's lifetime; the voice object is constructed once at
// pool initialization and reused indefinitely.
type Voice struct {
	slot     int
	key      int
	assigned bool

	state VoiceState
	frame VoiceFrame

	baseFrequency float64

	ampEnv   Envelope
	modEnv   Envelope
	auxEnv   Envelope
	lfoPhase float64

	// touchApplied guards the one-shot initial-touch routing; it is cleared
	// by trigger and set by the first applyInitialTouch call.
	touchApplied bool

	age uint64 // ticks since trigger
}

func newVoice(slot int) *Voice {
	return &Voice{slot: slot, key: -1}
}

// Slot returns the pool slot index, the voice's stable identity.
func (v *Voice) Slot() int { return v.slot }

// Key returns the keyboard degree most recently assigned to the voice.
func (v *Voice) Key() int { return v.key }

// Active reports whether the voice still occupies its slot audibly: a key is
// assigned or the amplitude envelope has not reached idle.
func (v *Voice) Active() bool {
	return v.assigned || v.ampEnv.IsActive()
}

// Frame returns a copy of the live synthesis parameters.
func (v *Voice) Frame() VoiceFrame { return v.frame }

// State returns a copy of the base-value set.
func (v *Voice) State() VoiceState { return v.state }

// Stage returns the amplitude envelope stage.
func (v *Voice) Stage() Stage { return v.ampEnv.Stage() }

// trigger opens the gate and (re)starts the voice for a key. Base values are
// recaptured from the template here, on the event path, never by tick.
func (v *Voice) trigger(frequency float64, key int, touchX float64, p *Params) {
	v.key = key
	v.assigned = true
	v.baseFrequency = frequency
	v.age = 0
	v.touchApplied = false

	v.state.Gate = true
	v.state.BaseAmplitude = p.BaseAmplitude
	v.state.BaseFilterCutoff = p.BaseFilterCutoff
	v.state.InitialTouchX = clamp01(touchX)
	v.state.CurrentTouchX = v.state.InitialTouchX

	v.ampEnv.Configure(p.AmpEnvelope)
	v.modEnv.Configure(p.ModEnvelope.EnvelopeSettings)
	v.auxEnv.Configure(p.AuxEnvelope.EnvelopeSettings)
	v.ampEnv.Trigger()
	v.modEnv.Trigger()
	v.auxEnv.Trigger()

	if p.VoiceLFO.Reset == ResetTrigger {
		v.lfoPhase = 0
	}

	v.frame.Frequency = frequency
	v.frame.DetuneRatio = centsToRatio(p.StereoSpreadCents)
	v.frame.ModIndex = p.ModIndex
	v.frame.ModMultiplier = p.ModMultiplier
	v.frame.FilterCutoff = p.BaseFilterCutoff
}

// applyInitialTouch routes the initial touch position against the amplitude
// base exactly once per trigger, synchronously on the trigger path, so the
// voice does not wait for the next scheduler tick.
func (v *Voice) applyInitialTouch(p *Params) {
	if v.touchApplied {
		return
	}
	v.touchApplied = true
	if !p.TouchInitial.Enabled {
		return
	}
	routed := Route(v.state.BaseAmplitude, v.state.InitialTouchX, p.TouchInitial.Amount, DestAmplitude)
	v.frame.Amplitude = routed * v.ampEnv.Value()
}

// release closes the gate. The key mapping is removed by the pool at the same
// moment; the voice keeps sounding through its release tail until the
// amplitude envelope reaches idle.
func (v *Voice) release() {
	v.assigned = false
	v.state.Gate = false
	v.ampEnv.Release()
	v.modEnv.Release()
	v.auxEnv.Release()
}

// steal collapses the voice immediately without a release stage. The audible
// click is the accepted trade-off for never failing an allocation.
func (v *Voice) steal() {
	v.assigned = false
	v.state.Gate = false
	v.ampEnv.ForceIdle()
	v.modEnv.ForceIdle()
	v.auxEnv.ForceIdle()
	v.frame.Amplitude = 0
}

// recaptureBases refreshes the base values after a template edit so that
// modulation continues relative to the new values.
func (v *Voice) recaptureBases(p *Params) {
	v.state.BaseAmplitude = p.BaseAmplitude
	v.state.BaseFilterCutoff = p.BaseFilterCutoff
	v.ampEnv.Configure(p.AmpEnvelope)
	v.modEnv.Configure(p.ModEnvelope.EnvelopeSettings)
	v.auxEnv.Configure(p.AuxEnvelope.EnvelopeSettings)
}

// tick advances the voice's modulation state by dt seconds and rewrites the
// frame. All enabled sources are evaluated against the same base snapshot;
// sources targeting the same destination sum their terms before a single
// Route call, and destinations untouched by any enabled source keep their
// existing frame value.
func (v *Voice) tick(dt float64, p *Params) {
	ampLevel := v.ampEnv.Advance(dt)
	modLevel := v.modEnv.Advance(dt)
	auxLevel := v.auxEnv.Advance(dt)

	var terms [numDestinations]float64
	var touched [numDestinations]bool
	add := func(d Destination, signal, amount float64) {
		terms[d] += signal * amount
		touched[d] = true
	}

	if p.ModEnvelope.Enabled {
		add(p.ModEnvelope.Destination, modLevel, p.ModEnvelope.Amount)
	}
	if p.AuxEnvelope.Enabled {
		add(p.AuxEnvelope.Destination, auxLevel, p.AuxEnvelope.Amount)
	}
	if p.KeyTracking.Enabled {
		add(DestFilterCutoff, keyTrackSignal(v.key), p.KeyTracking.Amount)
	}
	if p.TouchInitial.Enabled {
		add(DestAmplitude, v.state.InitialTouchX, p.TouchInitial.Amount)
	}
	if p.Aftertouch.Enabled {
		add(DestFilterCutoff, v.aftertouchSignal(), p.Aftertouch.Amount)
	}

	if p.VoiceLFO.Enabled {
		rate := p.VoiceLFO.RateHz(p.TempoBPM)
		if touched[DestLFOFrequency] {
			rate = Route(rate, terms[DestLFOFrequency], 1, DestLFOFrequency)
		}
		amount := p.VoiceLFO.Amount
		if touched[DestLFOAmount] {
			amount = Route(amount, terms[DestLFOAmount], 1, DestLFOAmount)
		}
		v.lfoPhase = advancePhase(v.lfoPhase, rate, dt)
		add(p.VoiceLFO.Destination, waveformValue(p.VoiceLFO.Waveform, v.lfoPhase), amount)
	}

	amp := v.state.BaseAmplitude
	if touched[DestAmplitude] {
		amp = Route(v.state.BaseAmplitude, terms[DestAmplitude], 1, DestAmplitude)
	}
	v.frame.Amplitude = amp * ampLevel

	if touched[DestFilterCutoff] {
		v.frame.FilterCutoff = Route(v.state.BaseFilterCutoff, terms[DestFilterCutoff], 1, DestFilterCutoff)
	}
	if touched[DestOscFrequency] {
		v.frame.Frequency = Route(v.baseFrequency, terms[DestOscFrequency], 1, DestOscFrequency)
	}
	if touched[DestModIndex] {
		v.frame.ModIndex = Route(p.ModIndex, terms[DestModIndex], 1, DestModIndex)
	}
	if touched[DestModMultiplier] {
		v.frame.ModMultiplier = Route(p.ModMultiplier, terms[DestModMultiplier], 1, DestModMultiplier)
	}
	if touched[DestStereoSpread] {
		cents := Route(p.StereoSpreadCents, terms[DestStereoSpread], 1, DestStereoSpread)
		v.frame.DetuneRatio = centsToRatio(cents)
	}

	v.age++
}

// aftertouchSignal is the bipolar touch excursion since the trigger.
func (v *Voice) aftertouchSignal() float64 {
	return clamp(v.state.CurrentTouchX-v.state.InitialTouchX, -1.0, 1.0)
}

// keyTrackSignal normalizes a keyboard degree to the unipolar 0..1 range.
func keyTrackSignal(key int) float64 {
	if key < 0 {
		return 0
	}
	return clamp01(float64(key) / float64(NumDegrees-1))
}
