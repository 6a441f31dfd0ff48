package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ChielZ/Pentatone-sub001/synth"
)

// pentatone-tune prints the 18-degree frequency table for a scale, key and
// rotation, and can verify that cycling through all transposition keys
// returns bit-identical frequencies.
func main() {
	scaleName := flag.String("scale", synth.PentatonicMajor.Name,
		fmt.Sprintf("Scale name (%s)", strings.Join(synth.ScaleNames(), ", ")))
	key := flag.Int("key", 0, "Transposition key index")
	rotation := flag.Int("rotation", 0, "Scale mode rotation")
	root := flag.Float64("root", synth.DefaultRootFrequency, "Identity-key root frequency in Hz")
	cycle := flag.Bool("cycle", false, "Cycle through all keys and verify drift-free return")
	flag.Parse()

	scale, err := synth.ScaleByName(*scaleName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	t := synth.NewTuning(scale, *key, *rotation, *root)
	fmt.Printf("Scale %s, key %d, rotation %d, root %.2f Hz\n", scale.Name, t.Key(), t.Rotation(), *root)
	for d := 0; d < synth.NumDegrees; d++ {
		fmt.Printf("  degree %2d: %10.4f Hz\n", d, t.Frequency(d))
	}

	if !*cycle {
		return
	}

	before := make([]float64, synth.NumDegrees)
	for d := range before {
		before[d] = t.Frequency(d)
	}
	for i := 0; i < synth.NumKeys; i++ {
		t.CycleKey(1)
	}
	drift := 0
	for d := range before {
		if t.Frequency(d) != before[d] {
			drift++
			fmt.Printf("  drift at degree %d: %.10f -> %.10f\n", d, before[d], t.Frequency(d))
		}
	}
	if drift == 0 {
		fmt.Printf("Cycled %d keys forward: all %d degrees bit-identical.\n", synth.NumKeys, synth.NumDegrees)
	} else {
		fmt.Fprintf(os.Stderr, "Cycled %d keys forward: %d degrees drifted.\n", synth.NumKeys, drift)
		os.Exit(1)
	}
}
