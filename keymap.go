package main

// Key bindings for the terminal UI, as reported by tea.KeyMsg.String().
const (
	keyToggle    = " "
	keyCopy      = "c"
	keyClear     = "x"
	keySummarize = "s"
	keyQuit      = "q"
	keyInterrupt = "ctrl+c"
)
