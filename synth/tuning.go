package synth

import (
	"fmt"
	"math"
)

// NumDegrees is the number of playable keys on the touch keyboard.
const NumDegrees = 18

// NumKeys is the number of transposition keys; cycling forward NumKeys steps
// returns to the identity key.
const NumKeys = 13

// DefaultRootFrequency is the identity-key root, D3.
const DefaultRootFrequency = 146.83

// Scale is an immutable per-octave ratio table relative to the root.
// Steps[0] is always 1; Just selects rational key-transposition factors.
type Scale struct {
	Name  string
	Steps []float64
	Just  bool
}

// Predefined scales. Just scales use exact small-integer ratios; the
// equal-tempered variants use deterministic 2^(k/12) constants.
var (
	PentatonicMajor = Scale{
		Name:  "pentatonic_major",
		Steps: []float64{1.0, 9.0 / 8.0, 5.0 / 4.0, 3.0 / 2.0, 5.0 / 3.0},
		Just:  true,
	}
	PentatonicMinor = Scale{
		Name:  "pentatonic_minor",
		Steps: []float64{1.0, 6.0 / 5.0, 4.0 / 3.0, 3.0 / 2.0, 9.0 / 5.0},
		Just:  true,
	}
	PentatonicMajorET = Scale{
		Name:  "pentatonic_major_et",
		Steps: []float64{semitones(0), semitones(2), semitones(4), semitones(7), semitones(9)},
	}
	PentatonicMinorET = Scale{
		Name:  "pentatonic_minor_et",
		Steps: []float64{semitones(0), semitones(3), semitones(5), semitones(7), semitones(10)},
	}
)

var scaleCatalog = []Scale{
	PentatonicMajor,
	PentatonicMinor,
	PentatonicMajorET,
	PentatonicMinorET,
}

// ScaleByName looks up a predefined scale.
func ScaleByName(name string) (Scale, error) {
	for _, s := range scaleCatalog {
		if s.Name == name {
			return s, nil
		}
	}
	return Scale{}, fmt.Errorf("unknown scale %q", name)
}

// ScaleNames lists the predefined scale names.
func ScaleNames() []string {
	names := make([]string, len(scaleCatalog))
	for i, s := range scaleCatalog {
		names[i] = s.Name
	}
	return names
}

func semitones(n int) float64 {
	return math.Exp2(float64(n) / 12.0)
}

// Key transposition factors, one fixed constant per key. The identity key's
// factor is the literal 1.0, never a computed value, so transposing away and
// back reproduces frequencies bit-for-bit. Factors are never derived by
// repeated multiplication across cycling.
var (
	keyFactorsJust = [NumKeys]float64{
		1.0,
		16.0 / 15.0,
		9.0 / 8.0,
		6.0 / 5.0,
		5.0 / 4.0,
		4.0 / 3.0,
		45.0 / 32.0,
		3.0 / 2.0,
		8.0 / 5.0,
		5.0 / 3.0,
		9.0 / 5.0,
		15.0 / 8.0,
		2.0,
	}
	keyFactorsEqual = [NumKeys]float64{
		1.0,
		semitones(1), semitones(2), semitones(3), semitones(4),
		semitones(5), semitones(6), semitones(7), semitones(8),
		semitones(9), semitones(10), semitones(11),
		2.0,
	}
)

// KeyFactor returns the transposition factor for a key index in [0,NumKeys).
func KeyFactor(scale Scale, key int) float64 {
	key = wrapKey(key)
	if scale.Just {
		return keyFactorsJust[key]
	}
	return keyFactorsEqual[key]
}

func wrapKey(key int) int {
	key %= NumKeys
	if key < 0 {
		key += NumKeys
	}
	return key
}

// Tuning converts (scale, key, rotation) into a cached table of NumDegrees
// key frequencies. The table is recomputed only on scale, key or rotation
// changes, never per lookup.
type Tuning struct {
	scale    Scale
	key      int
	rotation int
	root     float64
	table    [NumDegrees]float64
}

// NewTuning creates a tuning provider and computes its frequency table.
func NewTuning(scale Scale, key, rotation int, root float64) *Tuning {
	if root <= 0 {
		root = DefaultRootFrequency
	}
	t := &Tuning{
		scale:    scale,
		key:      wrapKey(key),
		rotation: rotation,
		root:     root,
	}
	t.rebuild()
	return t
}

// Frequency returns the frequency in Hz for a keyboard degree.
// A degree outside [0,NumDegrees) is a programming error and panics.
func (t *Tuning) Frequency(degree int) float64 {
	if degree < 0 || degree >= NumDegrees {
		panic(fmt.Sprintf("synth: tuning degree %d out of range [0,%d)", degree, NumDegrees))
	}
	return t.table[degree]
}

// Scale returns the active scale.
func (t *Tuning) Scale() Scale { return t.scale }

// Key returns the active transposition key index.
func (t *Tuning) Key() int { return t.key }

// Rotation returns the active mode rotation.
func (t *Tuning) Rotation() int { return t.rotation }

// SetScale switches the scale and recomputes the table.
func (t *Tuning) SetScale(scale Scale) {
	t.scale = scale
	t.rebuild()
}

// SetKey sets the transposition key (wrapped into [0,NumKeys)) and recomputes
// the table.
func (t *Tuning) SetKey(key int) {
	t.key = wrapKey(key)
	t.rebuild()
}

// CycleKey moves the key forward or backward by delta steps.
func (t *Tuning) CycleKey(delta int) {
	t.SetKey(t.key + delta)
}

// SetRotation sets the mode rotation and recomputes the table.
func (t *Tuning) SetRotation(rotation int) {
	t.rotation = rotation
	t.rebuild()
}

func (t *Tuning) rebuild() {
	factor := KeyFactor(t.scale, t.key)
	for d := 0; d < NumDegrees; d++ {
		t.table[d] = t.root * factor * rotatedRatio(t.scale, t.rotation, d)
	}
}

// rotatedRatio returns the ratio of rotated-scale degree d relative to the
// rotated root. Octave offsets are exact powers of two and degree 0 is the
// quotient of a value with itself, so the rotated root ratio is exactly 1.
func rotatedRatio(scale Scale, rotation, degree int) float64 {
	m := len(scale.Steps)
	if m == 0 {
		return 1.0
	}
	num := stepRatio(scale, rotation+degree)
	den := stepRatio(scale, rotation)
	return num / den
}

func stepRatio(scale Scale, idx int) float64 {
	m := len(scale.Steps)
	oct := idx / m
	step := idx % m
	if step < 0 {
		step += m
		oct--
	}
	return scale.Steps[step] * math.Ldexp(1.0, oct)
}
