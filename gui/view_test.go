package gui

import (
	"testing"

	"hark/session"
)

func TestViewOfIdle(t *testing.T) {
	v := viewOf(session.State{})
	if v.Status != "Idle" || v.ToggleLabel != "Start listening" {
		t.Errorf("idle view = %+v", v)
	}
	if !v.CanSummarize {
		t.Error("summarize should be enabled when idle")
	}
	if v.Transcript == "" {
		t.Error("empty transcript should show a placeholder")
	}
}

func TestViewOfListeningAndSummarizing(t *testing.T) {
	v := viewOf(session.State{Listening: true, Summarizing: true, Transcript: "hi "})
	if v.ToggleLabel != "Stop listening" {
		t.Errorf("toggle label = %q", v.ToggleLabel)
	}
	if v.CanSummarize {
		t.Error("summarize should be disabled while summarizing")
	}
	if v.Transcript != "hi " {
		t.Errorf("transcript = %q", v.Transcript)
	}
}

func TestViewOfError(t *testing.T) {
	v := viewOf(session.State{Err: &session.Error{Kind: session.ErrEmptyInput, Message: "Nothing to summarize"}})
	if v.Error != "Nothing to summarize" {
		t.Errorf("error = %q", v.Error)
	}
}
