package synth

import "sync"

// GlobalState holds the pool-wide modulation bases and the shared LFO phase.
// The same single-writer rule applies as for voices: bases are written by
// parameter edits, the routed DelayFrame only by the tick.
type GlobalState struct {
	BaseDelayTime float64
	BaseDelayMix  float64
	lfoPhase      float64
}

// DelayFrame is the pool-wide routed output read by the audio graph.
type DelayFrame struct {
	Time float64
	Mix  float64
}

// Engine is the explicit context object owning the voice pool, the global
// modulation state, the tuning provider and the template parameters. It is
// created by the application and passed around instead of any global
// singleton, which keeps tests isolated.
//
// Three parties interact with it: the UI/gesture layer calls Trigger,
// UpdateAftertouch, Release and ApplyParams; the control-rate scheduler calls
// Tick; the audio graph reads frames. A single mutex serializes them, so
// every tick sees one consistent snapshot of the base values.
type Engine struct {
	mu     sync.Mutex
	params *Params
	tuning *Tuning
	pool   *Pool
	global GlobalState
	delay  DelayFrame

	// beatPhase is a shared beat clock in [0,1) advanced per tick; LFOs with
	// the tempo-sync reset policy snap to it at trigger time.
	beatPhase float64
}

// NewEngine creates an engine from a template parameter bundle. A nil bundle
// uses the defaults.
func NewEngine(params *Params) (*Engine, error) {
	if params == nil {
		params = NewDefaultParams()
	}
	scale, err := ScaleByName(params.ScaleName)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		params: params,
		tuning: NewTuning(scale, params.Key, params.Rotation, params.RootFrequency),
		pool:   NewPool(params.PoolSize),
	}
	e.global.BaseDelayTime = params.DelayTime
	e.global.BaseDelayMix = params.DelayMix
	e.delay = DelayFrame{Time: params.DelayTime, Mix: params.DelayMix}
	return e, nil
}

// PoolSize returns the fixed voice count.
func (e *Engine) PoolSize() int { return e.pool.Size() }

// Params returns the active template bundle.
func (e *Engine) Params() *Params { return e.params }

// Frequency returns the tuned frequency for a keyboard degree.
func (e *Engine) Frequency(degree int) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tuning.Frequency(degree)
}

// Trigger allocates (or retriggers) a voice for a keyboard degree and returns
// its slot index as a stable handle. The initial touch position is applied
// through the router synchronously, before any scheduler tick runs.
func (e *Engine) Trigger(key int, touchX float64) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	frequency := e.tuning.Frequency(key)
	v := e.pool.Allocate(frequency, key, touchX, e.params)
	if e.params.VoiceLFO.Reset == ResetTempoSync {
		v.lfoPhase = e.beatPhase
	}
	v.applyInitialTouch(e.params)
	return v.Slot()
}

// UpdateAftertouch records a touch move for a held key. Only CurrentTouchX is
// written here; the modulation effect is realized by the next tick, bounding
// the latency to one control period without touching scheduler state.
func (e *Engine) UpdateAftertouch(key int, touchX float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.pool.VoiceForKey(key); ok {
		v.state.CurrentTouchX = clamp01(touchX)
	}
}

// Release closes the gate for a key. The key is immediately free for
// reallocation while the voice rings out.
func (e *Engine) Release(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pool.Release(key)
}

// ApplyParams broadcasts an edited template to the engine and every active
// voice, recapturing the affected base values so modulation continues
// relative to the new values rather than stale ones. The pool size is fixed
// at construction and a changed PoolSize field is ignored.
func (e *Engine) ApplyParams(params *Params) error {
	if params == nil {
		return nil
	}
	scale, err := ScaleByName(params.ScaleName)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.params = params
	e.tuning.SetScale(scale)
	e.tuning.SetKey(params.Key)
	e.tuning.SetRotation(params.Rotation)
	for _, v := range e.pool.voices {
		if v.Active() {
			v.recaptureBases(params)
		}
	}
	e.global.BaseDelayTime = params.DelayTime
	e.global.BaseDelayMix = params.DelayMix
	e.delay = DelayFrame{Time: params.DelayTime, Mix: params.DelayMix}
	return nil
}

// SetKey transposes the tuning; sounding voices keep their frequency.
func (e *Engine) SetKey(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tuning.SetKey(key)
}

// CycleKey moves the transposition key by delta steps.
func (e *Engine) CycleKey(delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tuning.CycleKey(delta)
}

// SetRotation sets the scale mode rotation.
func (e *Engine) SetRotation(rotation int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tuning.SetRotation(rotation)
}

// Tick advances all active voices and the global modulation state by dt
// seconds. Voices are updated serially within the tick so the per-tick state
// stays consistent and the tick duration stays bounded.
func (e *Engine) Tick(dt float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.beatPhase = advancePhase(e.beatPhase, e.params.TempoBPM/60.0, dt)

	for _, v := range e.pool.voices {
		if v.Active() {
			v.tick(dt, e.params)
		}
	}

	lfo := e.params.GlobalLFO
	if !lfo.Enabled {
		return
	}
	rate := lfo.RateHz(e.params.TempoBPM)
	e.global.lfoPhase = advancePhase(e.global.lfoPhase, rate, dt)
	signal := waveformValue(lfo.Waveform, e.global.lfoPhase)
	switch lfo.Destination {
	case DestDelayMix:
		e.delay.Mix = Route(e.global.BaseDelayMix, signal, lfo.Amount, DestDelayMix)
	default:
		e.delay.Time = Route(e.global.BaseDelayTime, signal, lfo.Amount, DestDelayTime)
	}
}

// VoiceFrame returns the live synthesis parameters for a slot.
func (e *Engine) VoiceFrame(slot int) VoiceFrame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Voice(slot).Frame()
}

// VoiceActive reports whether a slot is audible.
func (e *Engine) VoiceActive(slot int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Voice(slot).Active()
}

// ActiveVoices returns the number of audible voices.
func (e *Engine) ActiveVoices() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.ActiveCount()
}

// Delay returns the pool-wide routed delay parameters.
func (e *Engine) Delay() DelayFrame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.delay
}
