package synth

import "fmt"

// Destination identifies a routable synthesis parameter.
type Destination int

const (
	DestAmplitude Destination = iota
	DestOscFrequency
	DestModIndex
	DestModMultiplier
	DestFilterCutoff
	DestStereoSpread
	DestLFOFrequency
	DestLFOAmount
	DestDelayTime
	DestDelayMix

	numDestinations
)

// ScalingLaw selects how a modulation term is applied to a base value.
type ScalingLaw int

const (
	// LawLinear adds the scaled signal to the base.
	LawLinear ScalingLaw = iota
	// LawOctave multiplies the base by 2^(signal*amount); amount is in octaves.
	LawOctave
	// LawDirect replaces the base with the scaled signal.
	LawDirect
)

// Law returns the scaling law for the destination.
func (d Destination) Law() ScalingLaw {
	switch d {
	case DestOscFrequency, DestFilterCutoff:
		return LawOctave
	case DestStereoSpread:
		return LawDirect
	default:
		return LawLinear
	}
}

// Range returns the valid output range used for clamping.
func (d Destination) Range() (lo, hi float64) {
	switch d {
	case DestAmplitude:
		return 0.0, 1.0
	case DestOscFrequency:
		return 20.0, 8000.0
	case DestModIndex:
		return 0.0, 24.0
	case DestModMultiplier:
		return 0.25, 16.0
	case DestFilterCutoff:
		return 20.0, 20000.0
	case DestStereoSpread:
		return 0.0, 50.0
	case DestLFOFrequency:
		return 0.01, 40.0
	case DestLFOAmount:
		return 0.0, 1.0
	case DestDelayTime:
		return 0.01, 2.0
	case DestDelayMix:
		return 0.0, 1.0
	default:
		return 0.0, 1.0
	}
}

func (d Destination) String() string {
	switch d {
	case DestAmplitude:
		return "amplitude"
	case DestOscFrequency:
		return "osc_frequency"
	case DestModIndex:
		return "mod_index"
	case DestModMultiplier:
		return "mod_multiplier"
	case DestFilterCutoff:
		return "filter_cutoff"
	case DestStereoSpread:
		return "stereo_spread"
	case DestLFOFrequency:
		return "lfo_frequency"
	case DestLFOAmount:
		return "lfo_amount"
	case DestDelayTime:
		return "delay_time"
	case DestDelayMix:
		return "delay_mix"
	default:
		return fmt.Sprintf("destination(%d)", int(d))
	}
}

// ParseDestination converts a preset destination name to a Destination.
func ParseDestination(name string) (Destination, error) {
	for d := Destination(0); d < numDestinations; d++ {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown destination %q", name)
}

// Route applies a modulation term to a base value under the destination's
// scaling law and clamps the result into the destination's range.
//
// Several sources targeting the same destination within one tick are combined
// by summing their signal*amount terms and routing the sum against the stored
// base once; sources never chain through each other's output.
func Route(base, signal, amount float64, d Destination) float64 {
	lo, hi := d.Range()
	var out float64
	switch d.Law() {
	case LawOctave:
		out = base * pow2(signal*amount)
	case LawDirect:
		out = signal * amount
	default:
		out = base + signal*amount
	}
	return clamp(out, lo, hi)
}
