package main

import (
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"

	"github.com/ChielZ/Pentatone-sub001/synth"
)

// voiceNode renders one pool slot as a stereo two-operator FM pair. It is a
// pure consumer of the engine's parameter frames: frequency, detune, mod
// index, mod multiplier, cutoff and amplitude are read once per block and
// never written back.
type voiceNode struct {
	sampleRate float64

	carrierPhaseL float64
	carrierPhaseR float64
	modPhaseL     float64
	modPhaseR     float64
	lpStateL      float64
	lpStateR      float64
}

func newVoiceNode(sampleRate int) *voiceNode {
	return &voiceNode{sampleRate: float64(sampleRate)}
}

// renderInto adds numFrames stereo samples driven by the given frame into the
// interleaved mix buffer.
func (n *voiceNode) renderInto(mix []float32, numFrames int, frame synth.VoiceFrame) {
	if frame.Amplitude <= 0 {
		return
	}

	freqL := frame.Frequency * frame.DetuneRatio
	freqR := frame.Frequency / frame.DetuneRatio
	incL := freqL / n.sampleRate
	incR := freqR / n.sampleRate
	modIncL := freqL * frame.ModMultiplier / n.sampleRate
	modIncR := freqR * frame.ModMultiplier / n.sampleRate

	// One-pole lowpass coefficient from the routed cutoff.
	a := math.Exp(-2.0 * math.Pi * frame.FilterCutoff / n.sampleRate)

	for i := 0; i < numFrames; i++ {
		l := math.Sin(2*math.Pi*n.carrierPhaseL + frame.ModIndex*math.Sin(2*math.Pi*n.modPhaseL))
		r := math.Sin(2*math.Pi*n.carrierPhaseR + frame.ModIndex*math.Sin(2*math.Pi*n.modPhaseR))

		n.lpStateL = dspcore.FlushDenormals((1.0-a)*l + a*n.lpStateL)
		n.lpStateR = dspcore.FlushDenormals((1.0-a)*r + a*n.lpStateR)

		mix[i*2] += float32(n.lpStateL * frame.Amplitude)
		mix[i*2+1] += float32(n.lpStateR * frame.Amplitude)

		n.carrierPhaseL = wrapPhase(n.carrierPhaseL + incL)
		n.carrierPhaseR = wrapPhase(n.carrierPhaseR + incR)
		n.modPhaseL = wrapPhase(n.modPhaseL + modIncL)
		n.modPhaseR = wrapPhase(n.modPhaseR + modIncR)
	}
}

func wrapPhase(p float64) float64 {
	if p >= 1.0 {
		p -= math.Floor(p)
	}
	return p
}

// delayNode is the pool-wide stereo feedback delay consuming the engine's
// routed delay time and mix.
type delayNode struct {
	sampleRate float64
	feedback   float64
	bufL       []float64
	bufR       []float64
	writePos   int
}

func newDelayNode(sampleRate int) *delayNode {
	_, maxTime := synth.DestDelayTime.Range()
	size := int(float64(sampleRate)*maxTime) + 4
	return &delayNode{
		sampleRate: float64(sampleRate),
		feedback:   0.35,
		bufL:       make([]float64, size),
		bufR:       make([]float64, size),
	}
}

// process applies the delay in place over an interleaved stereo block.
func (d *delayNode) process(block []float32, numFrames int, frame synth.DelayFrame) {
	delaySamples := frame.Time * d.sampleRate
	if delaySamples > float64(len(d.bufL)-2) {
		delaySamples = float64(len(d.bufL) - 2)
	}
	for i := 0; i < numFrames; i++ {
		dryL := float64(block[i*2])
		dryR := float64(block[i*2+1])
		wetL := d.read(d.bufL, delaySamples)
		wetR := d.read(d.bufR, delaySamples)

		d.bufL[d.writePos] = dspcore.FlushDenormals(dryL + wetL*d.feedback)
		d.bufR[d.writePos] = dspcore.FlushDenormals(dryR + wetR*d.feedback)
		d.writePos = (d.writePos + 1) % len(d.bufL)

		block[i*2] = float32(dryL*(1.0-frame.Mix) + wetL*frame.Mix)
		block[i*2+1] = float32(dryR*(1.0-frame.Mix) + wetR*frame.Mix)
	}
}

// read taps the delay line with linear interpolation.
func (d *delayNode) read(buf []float64, delay float64) float64 {
	intDelay := int(delay)
	frac := delay - float64(intDelay)
	pos1 := (d.writePos - intDelay + len(buf)) % len(buf)
	pos2 := (d.writePos - intDelay - 1 + len(buf)) % len(buf)
	return buf[pos1]*(1.0-frac) + buf[pos2]*frac
}
