package advisor

// Reveal shows text one rune at a time. Each Start begins a new generation;
// steps carrying an older generation are ignored, so only one reveal is ever
// active.
type Reveal struct {
	text  []rune
	shown int
	gen   uint64
}

func (r *Reveal) Start(text string) uint64 {
	r.gen++
	r.text = []rune(text)
	r.shown = 0
	return r.gen
}

// Step advances the reveal for gen and reports whether another step is due.
func (r *Reveal) Step(gen uint64) bool {
	if gen != r.gen || r.Done() {
		return false
	}
	r.shown++
	return !r.Done()
}

func (r *Reveal) Finish() {
	r.shown = len(r.text)
}

func (r Reveal) Visible() string {
	return string(r.text[:r.shown])
}

func (r Reveal) Full() string {
	return string(r.text)
}

func (r Reveal) Done() bool {
	return r.shown >= len(r.text)
}
