package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ChielZ/Pentatone-sub001/synth"
)

func writePreset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	return path
}

func TestLoadJSONAppliesOverDefaults(t *testing.T) {
	path := writePreset(t, `{
  "pool_size": 8,
  "tempo_bpm": 96,
  "scale": "pentatonic_minor",
  "key": 3,
  "rotation": 2,
  "base_filter_cutoff": 2500,
  "amp_envelope": {"attack": 0.02, "sustain": 0.6},
  "voice_lfo": {"enabled": true, "destination": "filter_cutoff", "waveform": "triangle", "reset": "tempo_sync"},
  "aftertouch": {"amount": 3.0},
  "delay_mix": 0.4
}`)
	p, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if p.PoolSize != 8 {
		t.Fatalf("pool size got=%d want=8", p.PoolSize)
	}
	if p.TempoBPM != 96 {
		t.Fatalf("tempo got=%v want=96", p.TempoBPM)
	}
	if p.ScaleName != "pentatonic_minor" {
		t.Fatalf("scale got=%q want=pentatonic_minor", p.ScaleName)
	}
	if p.Key != 3 || p.Rotation != 2 {
		t.Fatalf("key/rotation got=%d/%d want=3/2", p.Key, p.Rotation)
	}
	if p.BaseFilterCutoff != 2500 {
		t.Fatalf("cutoff got=%v want=2500", p.BaseFilterCutoff)
	}
	if p.AmpEnvelope.Attack != 0.02 || p.AmpEnvelope.Sustain != 0.6 {
		t.Fatalf("amp envelope got=%+v", p.AmpEnvelope)
	}
	// Fields absent from the file keep their defaults.
	defaults := synth.NewDefaultParams()
	if p.AmpEnvelope.Decay != defaults.AmpEnvelope.Decay {
		t.Fatalf("decay got=%v want default %v", p.AmpEnvelope.Decay, defaults.AmpEnvelope.Decay)
	}
	if !p.VoiceLFO.Enabled || p.VoiceLFO.Destination != synth.DestFilterCutoff {
		t.Fatalf("voice LFO got=%+v", p.VoiceLFO)
	}
	if p.VoiceLFO.Waveform != synth.WaveTriangle || p.VoiceLFO.Reset != synth.ResetTempoSync {
		t.Fatalf("voice LFO waveform/reset got=%+v", p.VoiceLFO)
	}
	if p.Aftertouch.Amount != 3.0 || !p.Aftertouch.Enabled {
		t.Fatalf("aftertouch got=%+v", p.Aftertouch)
	}
	if p.DelayMix != 0.4 {
		t.Fatalf("delay mix got=%v want=0.4", p.DelayMix)
	}
}

func TestLoadJSONRejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"pool size too large", `{"pool_size": 65}`},
		{"pool size zero", `{"pool_size": 0}`},
		{"negative tempo", `{"tempo_bpm": -10}`},
		{"zero root", `{"root_frequency": 0}`},
		{"key too high", `{"key": 13}`},
		{"negative key", `{"key": -1}`},
		{"amplitude above one", `{"base_amplitude": 1.5}`},
		{"cutoff below range", `{"base_filter_cutoff": 5}`},
		{"negative attack", `{"amp_envelope": {"attack": -0.1}}`},
		{"sustain above one", `{"amp_envelope": {"sustain": 1.5}}`},
		{"zero lfo rate", `{"voice_lfo": {"frequency_hz": 0}}`},
		{"zero beat division", `{"voice_lfo": {"beat_division": 0}}`},
		{"delay time too long", `{"delay_time": 5}`},
		{"delay mix above one", `{"delay_mix": 2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePreset(t, tt.body)
			if _, err := LoadJSON(path); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadJSONRejectsUnknownNames(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown scale", `{"scale": "chromatic"}`},
		{"unknown destination", `{"mod_envelope": {"destination": "resonance"}}`},
		{"unknown waveform", `{"voice_lfo": {"waveform": "noise"}}`},
		{"unknown reset mode", `{"global_lfo": {"reset": "random"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePreset(t, tt.body)
			if _, err := LoadJSON(path); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	if _, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadJSONMalformed(t *testing.T) {
	path := writePreset(t, `{"pool_size": `)
	if _, err := LoadJSON(path); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := synth.NewDefaultParams()
	p.PoolSize = 7
	p.ScaleName = "pentatonic_minor_et"
	p.Key = 5
	p.Rotation = 3
	p.BaseAmplitude = 0.45
	p.ModEnvelope.Enabled = true
	p.ModEnvelope.Destination = synth.DestModMultiplier
	p.VoiceLFO.Enabled = true
	p.VoiceLFO.TempoSync = true
	p.VoiceLFO.BeatDivision = 4
	p.DelayTime = 0.5

	path := filepath.Join(t.TempDir(), "saved.json")
	if err := SaveJSON(path, p); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	loaded, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if *loaded != *p {
		t.Fatalf("round trip mismatch:\n got=%+v\nwant=%+v", loaded, p)
	}
}

func TestSaveJSONNilParams(t *testing.T) {
	if err := SaveJSON(filepath.Join(t.TempDir(), "x.json"), nil); err == nil {
		t.Fatalf("expected error for nil params")
	}
}

func TestApplyFileNilFileIsNoOp(t *testing.T) {
	p := synth.NewDefaultParams()
	want := *p
	if err := ApplyFile(p, nil); err != nil {
		t.Fatalf("ApplyFile: %v", err)
	}
	if *p != want {
		t.Fatalf("nil file mutated params")
	}
}
