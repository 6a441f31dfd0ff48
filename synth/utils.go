package synth

import "github.com/cwbudde/algo-approx"

func pow2(x float64) float64 {
	const ln2 = 0.69314718055994530942
	return float64(approx.FastExp(float32(x * ln2)))
}

func centsToRatio(cents float64) float64 {
	return pow2(cents / 1200.0)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clamp01(x float64) float64 {
	return clamp(x, 0.0, 1.0)
}
