package synth

// ModEnvelopeSettings configures an envelope used as a modulation source.
// Unlike the amplitude envelope its output is routed to a configurable
// destination through the Router.
type ModEnvelopeSettings struct {
	EnvelopeSettings
	Enabled     bool
	Destination Destination
	Amount      float64
}

// KeyTrackSettings configures key tracking. The source signal is the voice's
// keyboard degree normalized to 0..1; the destination is fixed to the filter
// cutoff, with Amount in octaves.
type KeyTrackSettings struct {
	Enabled bool
	Amount  float64
}

// TouchSettings configures a touch-position source. Touch-initial has a fixed
// amplitude destination (linear amount); aftertouch has a fixed filter-cutoff
// destination (amount in octaves).
type TouchSettings struct {
	Enabled bool
	Amount  float64
}

// Params is the template parameter bundle broadcast to all voices. It holds
// everything a preset persists: base values, envelope and modulation source
// settings, tuning selection, and the pool-wide delay settings. Live envelope
// timers, LFO phases and touch positions are transient and never stored here.
type Params struct {
	PoolSize      int
	TempoBPM      float64
	RootFrequency float64
	ScaleName     string
	Key           int
	Rotation      int

	BaseAmplitude     float64
	BaseFilterCutoff  float64
	StereoSpreadCents float64
	ModIndex          float64
	ModMultiplier     float64

	AmpEnvelope  EnvelopeSettings
	ModEnvelope  ModEnvelopeSettings
	AuxEnvelope  ModEnvelopeSettings
	VoiceLFO     LFOSettings
	GlobalLFO    LFOSettings
	KeyTracking  KeyTrackSettings
	TouchInitial TouchSettings
	Aftertouch   TouchSettings

	DelayTime float64
	DelayMix  float64
}

// DefaultPoolSize is the fixed voice count used when a preset does not
// override it.
const DefaultPoolSize = 5

// NewDefaultParams creates default parameters.
func NewDefaultParams() *Params {
	return &Params{
		PoolSize:      DefaultPoolSize,
		TempoBPM:      120.0,
		RootFrequency: DefaultRootFrequency,
		ScaleName:     PentatonicMajor.Name,
		Key:           0,
		Rotation:      0,

		BaseAmplitude:     0.6,
		BaseFilterCutoff:  1200.0,
		StereoSpreadCents: 6.0,
		ModIndex:          2.0,
		ModMultiplier:     2.0,

		AmpEnvelope: EnvelopeSettings{Attack: 0.01, Decay: 0.12, Sustain: 0.8, Release: 0.35},
		ModEnvelope: ModEnvelopeSettings{
			EnvelopeSettings: EnvelopeSettings{Attack: 0.05, Decay: 0.4, Sustain: 0.3, Release: 0.3},
			Enabled:          false,
			Destination:      DestModIndex,
			Amount:           4.0,
		},
		AuxEnvelope: ModEnvelopeSettings{
			EnvelopeSettings: EnvelopeSettings{Attack: 0.2, Decay: 0.6, Sustain: 0.5, Release: 0.5},
			Enabled:          false,
			Destination:      DestFilterCutoff,
			Amount:           1.0,
		},
		VoiceLFO: LFOSettings{
			Enabled:      false,
			Destination:  DestOscFrequency,
			Amount:       0.03,
			Waveform:     WaveSine,
			FrequencyHz:  5.5,
			BeatDivision: 1,
			Reset:        ResetTrigger,
		},
		GlobalLFO: LFOSettings{
			Enabled:      false,
			Destination:  DestDelayTime,
			Amount:       0.02,
			Waveform:     WaveTriangle,
			FrequencyHz:  0.25,
			BeatDivision: 1,
			Reset:        ResetFree,
		},
		KeyTracking:  KeyTrackSettings{Enabled: true, Amount: 1.0},
		TouchInitial: TouchSettings{Enabled: true, Amount: 0.4},
		Aftertouch:   TouchSettings{Enabled: true, Amount: 2.0},

		DelayTime: 0.35,
		DelayMix:  0.25,
	}
}
