package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"

	"github.com/ChielZ/Pentatone-sub001/preset"
	"github.com/ChielZ/Pentatone-sub001/synth"
)

func main() {
	keysFlag := flag.String("keys", "0,2,4", "Comma-separated keyboard degrees to play in sequence")
	touchX := flag.Float64("touch", 0.6, "Initial touch position (0..1)")
	aftertouchTo := flag.Float64("aftertouch-to", -1, "Glide the touch position to this value while held (disabled if < 0)")
	noteLen := flag.Float64("note-len", 0.6, "Seconds each key is held")
	gap := flag.Float64("gap", 0.15, "Seconds between key presses")
	tail := flag.Float64("tail", 1.5, "Seconds rendered after the last release")
	sampleRate := flag.Int("sample-rate", 48000, "Render sample rate in Hz")
	presetPath := flag.String("preset", "", "Preset JSON file path (defaults when empty)")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Parse()

	params := synth.NewDefaultParams()
	if *presetPath != "" {
		var err error
		params, err = preset.LoadJSON(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
	}

	keys, err := parseKeys(*keysFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -keys: %v\n", err)
		os.Exit(1)
	}

	engine, err := synth.NewEngine(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating engine: %v\n", err)
		os.Exit(1)
	}

	sr := *sampleRate
	controlFrames := int(synth.DefaultTickInterval.Seconds() * float64(sr))
	if controlFrames < 1 {
		controlFrames = 1
	}
	dt := float64(controlFrames) / float64(sr)

	noteFrames := int(*noteLen * float64(sr))
	stepFrames := noteFrames + int(*gap*float64(sr))
	totalFrames := stepFrames*len(keys) + int(*tail*float64(sr))

	fmt.Printf("Rendering %d keys for %.2f seconds at %d Hz (pool size %d)...\n",
		len(keys), float64(totalFrames)/float64(sr), sr, engine.PoolSize())

	voices := make([]*voiceNode, engine.PoolSize())
	for i := range voices {
		voices[i] = newVoiceNode(sr)
	}
	delay := newDelayNode(sr)

	samples := make([]float32, 0, totalFrames*2)
	block := make([]float32, controlFrames*2)

	rendered := 0
	for rendered < totalFrames {
		// Dispatch trigger/aftertouch/release events due in this block.
		for i, key := range keys {
			pressAt := i * stepFrames
			releaseAt := pressAt + noteFrames
			if pressAt >= rendered && pressAt < rendered+controlFrames {
				engine.Trigger(key, *touchX)
			}
			if *aftertouchTo >= 0 && rendered > pressAt && rendered < releaseAt {
				progress := float64(rendered-pressAt) / float64(noteFrames)
				engine.UpdateAftertouch(key, *touchX+(*aftertouchTo-*touchX)*progress)
			}
			if releaseAt >= rendered && releaseAt < rendered+controlFrames {
				engine.Release(key)
			}
		}

		engine.Tick(dt)

		numFrames := controlFrames
		if rendered+numFrames > totalFrames {
			numFrames = totalFrames - rendered
		}
		for i := range block {
			block[i] = 0
		}
		for slot, node := range voices {
			if engine.VoiceActive(slot) {
				node.renderInto(block, numFrames, engine.VoiceFrame(slot))
			}
		}
		delay.process(block, numFrames, engine.Delay())

		samples = append(samples, block[:numFrames*2]...)
		rendered += numFrames
	}

	file, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	encoder := wav.NewEncoder(file, sr, 16, 2, 1)
	defer encoder.Close()

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sr,
			NumChannels: 2,
		},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully wrote %s (%d frames)\n", *output, totalFrames)
}

func parseKeys(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	keys := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid key %q", part)
		}
		if key < 0 || key >= synth.NumDegrees {
			return nil, fmt.Errorf("key %d out of range [0,%d)", key, synth.NumDegrees)
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no keys given")
	}
	return keys, nil
}
