package preset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ChielZ/Pentatone-sub001/synth"
)

// File is the JSON schema for instrument presets. It covers the persisted
// parameter set: base values, envelope and modulation-source settings, tuning
// selection and the global delay/LFO settings. Live envelope timers, LFO
// phases and touch positions are transient and have no place here.
type File struct {
	PoolSize      *int     `json:"pool_size"`
	TempoBPM      *float64 `json:"tempo_bpm"`
	RootFrequency *float64 `json:"root_frequency"`
	Scale         *string  `json:"scale"`
	Key           *int     `json:"key"`
	Rotation      *int     `json:"rotation"`

	BaseAmplitude     *float64 `json:"base_amplitude"`
	BaseFilterCutoff  *float64 `json:"base_filter_cutoff"`
	StereoSpreadCents *float64 `json:"stereo_spread_cents"`
	ModIndex          *float64 `json:"mod_index"`
	ModMultiplier     *float64 `json:"mod_multiplier"`

	AmpEnvelope  *EnvelopeSetting  `json:"amp_envelope"`
	ModEnvelope  *ModSourceSetting `json:"mod_envelope"`
	AuxEnvelope  *ModSourceSetting `json:"aux_envelope"`
	VoiceLFO     *LFOSetting       `json:"voice_lfo"`
	GlobalLFO    *LFOSetting       `json:"global_lfo"`
	KeyTracking  *AmountSetting    `json:"key_tracking"`
	TouchInitial *AmountSetting    `json:"touch_initial"`
	Aftertouch   *AmountSetting    `json:"aftertouch"`

	DelayTime *float64 `json:"delay_time"`
	DelayMix  *float64 `json:"delay_mix"`
}

// EnvelopeSetting is a partial ADSR override.
type EnvelopeSetting struct {
	Attack  *float64 `json:"attack"`
	Decay   *float64 `json:"decay"`
	Sustain *float64 `json:"sustain"`
	Release *float64 `json:"release"`
}

// ModSourceSetting is a partial modulation-envelope override.
type ModSourceSetting struct {
	EnvelopeSetting
	Enabled     *bool    `json:"enabled"`
	Destination *string  `json:"destination"`
	Amount      *float64 `json:"amount"`
}

// LFOSetting is a partial LFO-source override.
type LFOSetting struct {
	Enabled      *bool    `json:"enabled"`
	Destination  *string  `json:"destination"`
	Amount       *float64 `json:"amount"`
	Waveform     *string  `json:"waveform"`
	FrequencyHz  *float64 `json:"frequency_hz"`
	TempoSync    *bool    `json:"tempo_sync"`
	BeatDivision *float64 `json:"beat_division"`
	Reset        *string  `json:"reset"`
}

// AmountSetting is a partial override for the fixed-destination sources
// (key tracking, touch-initial, aftertouch).
type AmountSetting struct {
	Enabled *bool    `json:"enabled"`
	Amount  *float64 `json:"amount"`
}

// LoadJSON loads a preset JSON file and applies it on top of default params.
func LoadJSON(path string) (*synth.Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	p := synth.NewDefaultParams()
	if err := ApplyFile(p, &f); err != nil {
		return nil, err
	}
	return p, nil
}

// SaveJSON writes the full persisted parameter set as a preset file.
func SaveJSON(path string, p *synth.Params) error {
	if p == nil {
		return fmt.Errorf("nil params")
	}
	b, err := json.MarshalIndent(FromParams(p), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// FromParams builds a fully populated preset file from a parameter bundle.
func FromParams(p *synth.Params) *File {
	return &File{
		PoolSize:          intp(p.PoolSize),
		TempoBPM:          f64p(p.TempoBPM),
		RootFrequency:     f64p(p.RootFrequency),
		Scale:             strp(p.ScaleName),
		Key:               intp(p.Key),
		Rotation:          intp(p.Rotation),
		BaseAmplitude:     f64p(p.BaseAmplitude),
		BaseFilterCutoff:  f64p(p.BaseFilterCutoff),
		StereoSpreadCents: f64p(p.StereoSpreadCents),
		ModIndex:          f64p(p.ModIndex),
		ModMultiplier:     f64p(p.ModMultiplier),
		AmpEnvelope:       envelopeSetting(p.AmpEnvelope),
		ModEnvelope:       modSourceSetting(p.ModEnvelope),
		AuxEnvelope:       modSourceSetting(p.AuxEnvelope),
		VoiceLFO:          lfoSetting(p.VoiceLFO),
		GlobalLFO:         lfoSetting(p.GlobalLFO),
		KeyTracking:       &AmountSetting{Enabled: boolp(p.KeyTracking.Enabled), Amount: f64p(p.KeyTracking.Amount)},
		TouchInitial:      &AmountSetting{Enabled: boolp(p.TouchInitial.Enabled), Amount: f64p(p.TouchInitial.Amount)},
		Aftertouch:        &AmountSetting{Enabled: boolp(p.Aftertouch.Enabled), Amount: f64p(p.Aftertouch.Amount)},
		DelayTime:         f64p(p.DelayTime),
		DelayMix:          f64p(p.DelayMix),
	}
}

// ApplyFile applies a parsed preset file onto an existing params object.
func ApplyFile(dst *synth.Params, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination params")
	}
	if f == nil {
		return nil
	}

	if f.PoolSize != nil {
		if *f.PoolSize < 1 || *f.PoolSize > 64 {
			return fmt.Errorf("pool_size must be in [1,64]")
		}
		dst.PoolSize = *f.PoolSize
	}
	if f.TempoBPM != nil {
		if *f.TempoBPM <= 0 {
			return fmt.Errorf("tempo_bpm must be > 0")
		}
		dst.TempoBPM = *f.TempoBPM
	}
	if f.RootFrequency != nil {
		if *f.RootFrequency <= 0 {
			return fmt.Errorf("root_frequency must be > 0")
		}
		dst.RootFrequency = *f.RootFrequency
	}
	if f.Scale != nil {
		if _, err := synth.ScaleByName(*f.Scale); err != nil {
			return err
		}
		dst.ScaleName = *f.Scale
	}
	if f.Key != nil {
		if *f.Key < 0 || *f.Key >= synth.NumKeys {
			return fmt.Errorf("key must be in [0,%d)", synth.NumKeys)
		}
		dst.Key = *f.Key
	}
	if f.Rotation != nil {
		dst.Rotation = *f.Rotation
	}

	if f.BaseAmplitude != nil {
		if *f.BaseAmplitude < 0 || *f.BaseAmplitude > 1 {
			return fmt.Errorf("base_amplitude must be in [0,1]")
		}
		dst.BaseAmplitude = *f.BaseAmplitude
	}
	if f.BaseFilterCutoff != nil {
		lo, hi := synth.DestFilterCutoff.Range()
		if *f.BaseFilterCutoff < lo || *f.BaseFilterCutoff > hi {
			return fmt.Errorf("base_filter_cutoff must be in [%g,%g]", lo, hi)
		}
		dst.BaseFilterCutoff = *f.BaseFilterCutoff
	}
	if f.StereoSpreadCents != nil {
		if *f.StereoSpreadCents < 0 {
			return fmt.Errorf("stereo_spread_cents must be >= 0")
		}
		dst.StereoSpreadCents = *f.StereoSpreadCents
	}
	if f.ModIndex != nil {
		if *f.ModIndex < 0 {
			return fmt.Errorf("mod_index must be >= 0")
		}
		dst.ModIndex = *f.ModIndex
	}
	if f.ModMultiplier != nil {
		if *f.ModMultiplier <= 0 {
			return fmt.Errorf("mod_multiplier must be > 0")
		}
		dst.ModMultiplier = *f.ModMultiplier
	}

	if err := applyEnvelope(&dst.AmpEnvelope, f.AmpEnvelope, "amp_envelope"); err != nil {
		return err
	}
	if err := applyModSource(&dst.ModEnvelope, f.ModEnvelope, "mod_envelope"); err != nil {
		return err
	}
	if err := applyModSource(&dst.AuxEnvelope, f.AuxEnvelope, "aux_envelope"); err != nil {
		return err
	}
	if err := applyLFO(&dst.VoiceLFO, f.VoiceLFO, "voice_lfo"); err != nil {
		return err
	}
	if err := applyLFO(&dst.GlobalLFO, f.GlobalLFO, "global_lfo"); err != nil {
		return err
	}
	applyAmount(&dst.KeyTracking.Enabled, &dst.KeyTracking.Amount, f.KeyTracking)
	applyAmount(&dst.TouchInitial.Enabled, &dst.TouchInitial.Amount, f.TouchInitial)
	applyAmount(&dst.Aftertouch.Enabled, &dst.Aftertouch.Amount, f.Aftertouch)

	if f.DelayTime != nil {
		lo, hi := synth.DestDelayTime.Range()
		if *f.DelayTime < lo || *f.DelayTime > hi {
			return fmt.Errorf("delay_time must be in [%g,%g]", lo, hi)
		}
		dst.DelayTime = *f.DelayTime
	}
	if f.DelayMix != nil {
		if *f.DelayMix < 0 || *f.DelayMix > 1 {
			return fmt.Errorf("delay_mix must be in [0,1]")
		}
		dst.DelayMix = *f.DelayMix
	}
	return nil
}

func applyEnvelope(dst *synth.EnvelopeSettings, src *EnvelopeSetting, name string) error {
	if src == nil {
		return nil
	}
	apply := func(field *float64, v *float64, segment string) error {
		if v == nil {
			return nil
		}
		if *v < 0 {
			return fmt.Errorf("%s.%s must be >= 0", name, segment)
		}
		*field = *v
		return nil
	}
	if err := apply(&dst.Attack, src.Attack, "attack"); err != nil {
		return err
	}
	if err := apply(&dst.Decay, src.Decay, "decay"); err != nil {
		return err
	}
	if err := apply(&dst.Release, src.Release, "release"); err != nil {
		return err
	}
	if src.Sustain != nil {
		if *src.Sustain < 0 || *src.Sustain > 1 {
			return fmt.Errorf("%s.sustain must be in [0,1]", name)
		}
		dst.Sustain = *src.Sustain
	}
	return nil
}

func applyModSource(dst *synth.ModEnvelopeSettings, src *ModSourceSetting, name string) error {
	if src == nil {
		return nil
	}
	if err := applyEnvelope(&dst.EnvelopeSettings, &src.EnvelopeSetting, name); err != nil {
		return err
	}
	if src.Enabled != nil {
		dst.Enabled = *src.Enabled
	}
	if src.Destination != nil {
		d, err := synth.ParseDestination(*src.Destination)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		dst.Destination = d
	}
	if src.Amount != nil {
		dst.Amount = *src.Amount
	}
	return nil
}

func applyLFO(dst *synth.LFOSettings, src *LFOSetting, name string) error {
	if src == nil {
		return nil
	}
	if src.Enabled != nil {
		dst.Enabled = *src.Enabled
	}
	if src.Destination != nil {
		d, err := synth.ParseDestination(*src.Destination)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		dst.Destination = d
	}
	if src.Amount != nil {
		dst.Amount = *src.Amount
	}
	if src.Waveform != nil {
		w, err := synth.ParseWaveform(*src.Waveform)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		dst.Waveform = w
	}
	if src.FrequencyHz != nil {
		if *src.FrequencyHz <= 0 {
			return fmt.Errorf("%s.frequency_hz must be > 0", name)
		}
		dst.FrequencyHz = *src.FrequencyHz
	}
	if src.TempoSync != nil {
		dst.TempoSync = *src.TempoSync
	}
	if src.BeatDivision != nil {
		if *src.BeatDivision <= 0 {
			return fmt.Errorf("%s.beat_division must be > 0", name)
		}
		dst.BeatDivision = *src.BeatDivision
	}
	if src.Reset != nil {
		m, err := synth.ParseResetMode(*src.Reset)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		dst.Reset = m
	}
	return nil
}

func applyAmount(enabled *bool, amount *float64, src *AmountSetting) {
	if src == nil {
		return
	}
	if src.Enabled != nil {
		*enabled = *src.Enabled
	}
	if src.Amount != nil {
		*amount = *src.Amount
	}
}

func envelopeSetting(s synth.EnvelopeSettings) *EnvelopeSetting {
	return &EnvelopeSetting{
		Attack:  f64p(s.Attack),
		Decay:   f64p(s.Decay),
		Sustain: f64p(s.Sustain),
		Release: f64p(s.Release),
	}
}

func modSourceSetting(s synth.ModEnvelopeSettings) *ModSourceSetting {
	return &ModSourceSetting{
		EnvelopeSetting: *envelopeSetting(s.EnvelopeSettings),
		Enabled:         boolp(s.Enabled),
		Destination:     strp(s.Destination.String()),
		Amount:          f64p(s.Amount),
	}
}

func lfoSetting(s synth.LFOSettings) *LFOSetting {
	return &LFOSetting{
		Enabled:      boolp(s.Enabled),
		Destination:  strp(s.Destination.String()),
		Amount:       f64p(s.Amount),
		Waveform:     strp(s.Waveform.String()),
		FrequencyHz:  f64p(s.FrequencyHz),
		TempoSync:    boolp(s.TempoSync),
		BeatDivision: f64p(s.BeatDivision),
		Reset:        strp(s.Reset.String()),
	}
}

func intp(v int) *int         { return &v }
func f64p(v float64) *float64 { return &v }
func strp(v string) *string   { return &v }
func boolp(v bool) *bool      { return &v }
