package synth

import (
	"math"
	"testing"
)

const tickDT = 0.005

func TestVoiceTriggerCapturesBases(t *testing.T) {
	p := NewDefaultParams()
	v := newVoice(0)
	v.trigger(293.66, 2, 0.5, p)
	st := v.State()
	if st.BaseAmplitude != p.BaseAmplitude {
		t.Fatalf("base amplitude got=%v want=%v", st.BaseAmplitude, p.BaseAmplitude)
	}
	if st.BaseFilterCutoff != p.BaseFilterCutoff {
		t.Fatalf("base cutoff got=%v want=%v", st.BaseFilterCutoff, p.BaseFilterCutoff)
	}
	if st.InitialTouchX != 0.5 || st.CurrentTouchX != 0.5 {
		t.Fatalf("touch capture got init=%v cur=%v want 0.5/0.5", st.InitialTouchX, st.CurrentTouchX)
	}
	if !st.Gate {
		t.Fatalf("gate not open after trigger")
	}
	if got := v.Frame().Frequency; got != 293.66 {
		t.Fatalf("frame frequency got=%v want=293.66", got)
	}
}

func TestVoiceTickNeverWritesBases(t *testing.T) {
	p := NewDefaultParams()
	p.VoiceLFO.Enabled = true
	p.VoiceLFO.Destination = DestFilterCutoff
	p.VoiceLFO.Amount = 1.0
	v := newVoice(0)
	v.trigger(440.0, 5, 0.7, p)
	before := v.State()
	for i := 0; i < 400; i++ {
		v.tick(tickDT, p)
	}
	after := v.State()
	if before != after {
		t.Fatalf("tick mutated the base state: before=%+v after=%+v", before, after)
	}
}

func TestVoiceLFOOnCutoffOscillatesBounded(t *testing.T) {
	p := NewDefaultParams()
	p.KeyTracking.Enabled = false
	p.Aftertouch.Enabled = false
	p.VoiceLFO.Enabled = true
	p.VoiceLFO.Destination = DestFilterCutoff
	p.VoiceLFO.FrequencyHz = 2.0
	p.VoiceLFO.Amount = 1.0
	v := newVoice(0)
	v.trigger(440.0, 0, 0.5, p)

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < 200; i++ { // one full second, two LFO cycles
		v.tick(tickDT, p)
		c := v.Frame().FilterCutoff
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	base := p.BaseFilterCutoff
	if lo >= base || hi <= base {
		t.Fatalf("cutoff did not oscillate around base: lo=%v hi=%v base=%v", lo, hi, base)
	}
	// One octave of swing either way, never compounding tick over tick.
	if hi > base*2.2 || lo < base/2.2 {
		t.Fatalf("cutoff swing exceeded one octave: lo=%v hi=%v base=%v", lo, hi, base)
	}
}

func TestVoiceInitialTouchIsOneShot(t *testing.T) {
	p := NewDefaultParams()
	v := newVoice(0)
	v.trigger(440.0, 0, 1.0, p)
	v.applyInitialTouch(p)
	first := v.Frame().Amplitude
	v.applyInitialTouch(p)
	if got := v.Frame().Amplitude; got != first {
		t.Fatalf("second applyInitialTouch changed amplitude: got=%v want=%v", got, first)
	}
	v.trigger(440.0, 0, 1.0, p)
	v.applyInitialTouch(p)
	// Retrigger re-arms the one-shot.
	if !v.touchApplied {
		t.Fatalf("one-shot not re-armed by retrigger")
	}
}

func TestVoiceAftertouchSignal(t *testing.T) {
	p := NewDefaultParams()
	v := newVoice(0)
	v.trigger(440.0, 0, 0.3, p)
	if got := v.aftertouchSignal(); got != 0 {
		t.Fatalf("aftertouch before any move got=%v want=0", got)
	}
	v.state.CurrentTouchX = 0.8
	if got := v.aftertouchSignal(); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("aftertouch got=%v want=0.5", got)
	}
	v.state.CurrentTouchX = 0.0
	if got := v.aftertouchSignal(); math.Abs(got+0.3) > 1e-12 {
		t.Fatalf("negative aftertouch got=%v want=-0.3", got)
	}
}

func TestVoiceAftertouchMovesCutoffWithoutAmplitude(t *testing.T) {
	p := NewDefaultParams()
	p.KeyTracking.Enabled = false
	p.TouchInitial.Enabled = false
	v := newVoice(0)
	v.trigger(440.0, 0, 0.2, p)
	for i := 0; i < 100; i++ {
		v.tick(tickDT, p) // settle at sustain
	}
	restCutoff := v.Frame().FilterCutoff
	restAmp := v.Frame().Amplitude

	v.state.CurrentTouchX = 0.7 // +0.5 excursion, amount 2 octaves
	v.tick(tickDT, p)
	if got := v.Frame().FilterCutoff; got <= restCutoff {
		t.Fatalf("upward aftertouch did not raise cutoff: got=%v rest=%v", got, restCutoff)
	}
	want := p.BaseFilterCutoff * math.Pow(2, 0.5*p.Aftertouch.Amount)
	if got := v.Frame().FilterCutoff; math.Abs(got-want)/want > 0.05 {
		t.Fatalf("aftertouch cutoff got=%v want~%v", got, want)
	}
	if got := v.Frame().Amplitude; math.Abs(got-restAmp) > 1e-9 {
		t.Fatalf("aftertouch leaked into amplitude: got=%v rest=%v", got, restAmp)
	}
}

func TestVoiceKeyTrackingRaisesCutoffWithDegree(t *testing.T) {
	p := NewDefaultParams()
	p.Aftertouch.Enabled = false
	low := newVoice(0)
	high := newVoice(1)
	low.trigger(146.83, 0, 0.5, p)
	high.trigger(587.33, NumDegrees-1, 0.5, p)
	low.tick(tickDT, p)
	high.tick(tickDT, p)
	if l, h := low.Frame().FilterCutoff, high.Frame().FilterCutoff; h <= l {
		t.Fatalf("key tracking: high degree cutoff %v not above low degree cutoff %v", h, l)
	}
	// Degree 0 contributes nothing, so the low voice sits near its base.
	if got := low.Frame().FilterCutoff; math.Abs(got-p.BaseFilterCutoff)/p.BaseFilterCutoff > 0.05 {
		t.Fatalf("degree-0 cutoff got=%v want~%v", got, p.BaseFilterCutoff)
	}
}

func TestVoiceModEnvelopeRoutesToModIndex(t *testing.T) {
	p := NewDefaultParams()
	p.ModEnvelope.Enabled = true
	p.ModEnvelope.Destination = DestModIndex
	p.ModEnvelope.Amount = 4.0
	v := newVoice(0)
	v.trigger(440.0, 0, 0.5, p)
	for i := 0; i < 30; i++ { // past the 0.05s attack
		v.tick(tickDT, p)
	}
	if got := v.Frame().ModIndex; got <= p.ModIndex {
		t.Fatalf("mod envelope did not raise mod index: got=%v base=%v", got, p.ModIndex)
	}
}

func TestVoiceUntouchedDestinationsKeepFrameValues(t *testing.T) {
	p := NewDefaultParams()
	v := newVoice(0)
	v.trigger(440.0, 3, 0.5, p)
	before := v.Frame()
	v.tick(tickDT, p)
	after := v.Frame()
	// No enabled source targets these destinations in the default setup.
	if after.Frequency != before.Frequency {
		t.Fatalf("frequency drifted without a source: got=%v want=%v", after.Frequency, before.Frequency)
	}
	if after.ModIndex != before.ModIndex {
		t.Fatalf("mod index drifted without a source: got=%v want=%v", after.ModIndex, before.ModIndex)
	}
	if after.DetuneRatio != before.DetuneRatio {
		t.Fatalf("detune drifted without a source: got=%v want=%v", after.DetuneRatio, before.DetuneRatio)
	}
}

func TestVoiceReleaseTailThenIdle(t *testing.T) {
	p := NewDefaultParams()
	v := newVoice(0)
	v.trigger(440.0, 0, 0.5, p)
	for i := 0; i < 100; i++ {
		v.tick(tickDT, p)
	}
	v.release()
	if !v.Active() {
		t.Fatalf("voice inactive immediately after release")
	}
	for i := 0; i < 100; i++ { // 0.5s, past the 0.35s release
		v.tick(tickDT, p)
	}
	if v.Active() {
		t.Fatalf("voice still active after the release tail")
	}
	if got := v.Frame().Amplitude; got != 0 {
		t.Fatalf("amplitude after tail got=%v want=0", got)
	}
}

func TestKeyTrackSignalRange(t *testing.T) {
	if got := keyTrackSignal(0); got != 0 {
		t.Fatalf("degree 0 signal got=%v want=0", got)
	}
	if got := keyTrackSignal(NumDegrees - 1); got != 1 {
		t.Fatalf("top degree signal got=%v want=1", got)
	}
	if got := keyTrackSignal(-1); got != 0 {
		t.Fatalf("unassigned key signal got=%v want=0", got)
	}
}
