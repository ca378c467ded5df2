package recognizer

import "testing"

func result(index int, segs ...Segment) Event {
	return Event{Kind: EventResult, ResultIndex: index, Results: segs}
}

func final(text string) Segment   { return Segment{Text: text, Final: true} }
func interim(text string) Segment { return Segment{Text: text} }

func TestFoldFinalThenInterim(t *testing.T) {
	tr := NewTranscript()
	tr.Apply(result(0, final("hello")))
	got := tr.Apply(result(1, interim(" world")))
	if want := "hello  world"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFoldSequences(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   string
	}{
		{"empty", nil, ""},
		{"single interim", []Event{result(0, interim("hel"))}, "hel"},
		{
			"interim replaced wholesale",
			[]Event{result(0, interim("hel")), result(0, interim("hello there"))},
			"hello there",
		},
		{
			"interim dropped once finalized",
			[]Event{result(0, interim("hel")), result(0, final("hello"))},
			"hello ",
		},
		{
			"finals accumulate",
			[]Event{result(0, final("one")), result(1, final("two")), result(2, final("three"))},
			"one two three ",
		},
		{
			"mixed segments in one event",
			[]Event{result(0, final("a"), final("b"), interim("c"), interim("d"))},
			"a b cd",
		},
		{
			"only latest event interim survives",
			[]Event{result(0, final("a"), interim("x")), result(1, interim("y"))},
			"a y",
		},
		{
			"empty event clears interim",
			[]Event{result(0, interim("um")), result(0)},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranscript()
			for _, ev := range tt.events {
				tr.Apply(ev)
			}
			if got := tr.Text(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFoldSkipsRedeliveredFinal(t *testing.T) {
	tr := NewTranscript()
	tr.Apply(result(0, final("hello")))
	tr.Apply(result(1, final("world")))
	got := tr.Apply(result(0, final("hello"), final("world"), interim("again")))
	if want := "hello world again"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFoldIgnoresNonResultEvents(t *testing.T) {
	tr := NewTranscript()
	tr.Apply(result(0, final("kept"), interim("tail")))
	if got := tr.Apply(Event{Kind: EventEnd}); got != "kept tail" {
		t.Errorf("end changed transcript: %q", got)
	}
	if got := tr.Apply(Event{Kind: EventError}); got != "kept tail" {
		t.Errorf("error changed transcript: %q", got)
	}
}

func TestResetKeepsIndexMemory(t *testing.T) {
	tr := NewTranscript()
	tr.Apply(result(0, final("old")))
	tr.Reset()
	if got := tr.Text(); got != "" {
		t.Fatalf("after reset: %q", got)
	}
	if got := tr.Apply(result(0, final("old"), final("new"))); got != "new " {
		t.Errorf("got %q, want %q", got, "new ")
	}
}

func TestNewRunForgetsIndices(t *testing.T) {
	tr := NewTranscript()
	tr.Apply(result(0, final("first")))
	tr.NewRun()
	if got := tr.Apply(result(0, final("second"))); got != "first second " {
		t.Errorf("got %q, want %q", got, "first second ")
	}
}
