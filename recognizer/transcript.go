package recognizer

import "strings"

// Transcript folds result events into the displayed text: every final
// segment so far, each followed by a space, plus the interim segments of the
// most recent event only.
//
// Final segments are keyed by absolute index (ResultIndex+i). A final
// segment redelivered at an index already folded in the current run is
// skipped.
type Transcript struct {
	finalized strings.Builder
	interim   string
	seen      map[int]bool
}

func NewTranscript() *Transcript {
	return &Transcript{seen: make(map[int]bool)}
}

// Apply folds ev and returns the new transcript. Non-result events leave it
// unchanged.
func (t *Transcript) Apply(ev Event) string {
	if ev.Kind != EventResult {
		return t.Text()
	}

	var interim strings.Builder
	for i, seg := range ev.Results {
		idx := ev.ResultIndex + i
		if !seg.Final {
			interim.WriteString(seg.Text)
			continue
		}
		if t.seen[idx] {
			continue
		}
		t.seen[idx] = true
		t.finalized.WriteString(seg.Text)
		t.finalized.WriteByte(' ')
	}
	t.interim = interim.String()
	return t.Text()
}

func (t *Transcript) Text() string {
	return t.finalized.String() + t.interim
}

// Reset drops all text. Indices already finalized in this run stay known so
// a redelivery after clearing does not bring old words back.
func (t *Transcript) Reset() {
	t.finalized.Reset()
	t.interim = ""
}

// NewRun forgets finalized indices. Hosts number segments from zero on every
// start.
func (t *Transcript) NewRun() {
	t.seen = make(map[int]bool)
}
