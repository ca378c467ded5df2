package gui

import "hark/session"

// Controller is the set of user actions the window exposes.
type Controller interface {
	ToggleListening()
	Copy()
	Clear()
	Summarize()
}

type view struct {
	Status       string
	ToggleLabel  string
	Transcript   string
	Summary      string
	Error        string
	CanSummarize bool
	SummarizeBtn string
}

func viewOf(st session.State) view {
	v := view{
		Status:       "Idle",
		ToggleLabel:  "Start listening",
		Transcript:   st.Transcript,
		Summary:      st.Summary,
		Error:        st.ErrorMessage(),
		CanSummarize: st.CanSummarize(),
		SummarizeBtn: "Summarize",
	}
	if st.Listening {
		v.Status = "Listening…"
		v.ToggleLabel = "Stop listening"
	}
	if v.Transcript == "" {
		v.Transcript = "Transcript will appear here."
	}
	if st.Summarizing {
		v.SummarizeBtn = "Summarizing…"
	}
	return v
}
