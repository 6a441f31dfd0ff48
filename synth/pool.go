package synth

// Pool owns the fixed array of voices, the key-to-slot assignment table and
// the round-robin allocation cursor. The voice count is fixed at
// construction; allocation never fails because stealing always yields a slot.
type Pool struct {
	voices []*Voice
	byKey  map[int]int
	cursor int
}

// NewPool creates a pool of n reusable voices. n values below 1 fall back to
// the default pool size.
func NewPool(n int) *Pool {
	if n < 1 {
		n = DefaultPoolSize
	}
	voices := make([]*Voice, n)
	for i := range voices {
		voices[i] = newVoice(i)
	}
	return &Pool{
		voices: voices,
		byKey:  make(map[int]int, n),
		cursor: n - 1,
	}
}

// Size returns the fixed voice count.
func (pl *Pool) Size() int { return len(pl.voices) }

// Voice returns the voice at a slot index.
func (pl *Pool) Voice(slot int) *Voice { return pl.voices[slot] }

// VoiceForKey returns the voice a key currently maps to.
func (pl *Pool) VoiceForKey(key int) (*Voice, bool) {
	slot, ok := pl.byKey[key]
	if !ok {
		return nil, false
	}
	return pl.voices[slot], true
}

// ActiveCount returns the number of sounding voices, including release tails.
func (pl *Pool) ActiveCount() int {
	count := 0
	for _, v := range pl.voices {
		if v.Active() {
			count++
		}
	}
	return count
}

// Allocate hands out a voice for a key press. A key that is already mapped
// retriggers its voice in place so rapid re-presses never spawn duplicates.
// Otherwise the first inactive slot past the cursor is used, and when the
// pool is exhausted the voice past the cursor is stolen: its key mapping is
// dropped and its envelopes collapse to idle with no fade.
func (pl *Pool) Allocate(frequency float64, key int, touchX float64, p *Params) *Voice {
	if slot, ok := pl.byKey[key]; ok {
		v := pl.voices[slot]
		v.trigger(frequency, key, touchX, p)
		return v
	}

	for i := 0; i < len(pl.voices); i++ {
		slot := (pl.cursor + 1 + i) % len(pl.voices)
		if !pl.voices[slot].Active() {
			return pl.assign(slot, frequency, key, touchX, p)
		}
	}

	slot := (pl.cursor + 1) % len(pl.voices)
	stolen := pl.voices[slot]
	if mapped, ok := pl.byKey[stolen.key]; ok && mapped == slot {
		delete(pl.byKey, stolen.key)
	}
	stolen.steal()
	return pl.assign(slot, frequency, key, touchX, p)
}

func (pl *Pool) assign(slot int, frequency float64, key int, touchX float64, p *Params) *Voice {
	v := pl.voices[slot]
	v.trigger(frequency, key, touchX, p)
	pl.byKey[key] = slot
	pl.cursor = slot
	return v
}

// Release closes the gate of the voice mapped to key. The mapping is removed
// immediately so the same key can reallocate at once, while the voice itself
// keeps sounding through its release tail.
func (pl *Pool) Release(key int) {
	slot, ok := pl.byKey[key]
	if !ok {
		return
	}
	pl.voices[slot].release()
	delete(pl.byKey, key)
}
