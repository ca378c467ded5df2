//go:build gui

package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"hark/session"
)

type App struct {
	ctrl   Controller
	states <-chan session.State
	title  string

	fyneApp fyne.App
	window  fyne.Window

	status     *widget.Label
	transcript *widget.Label
	summary    *widget.Label
	errLabel   *widget.Label
	toggleBtn  *widget.Button
	summarize  *widget.Button
}

func NewApp(ctrl Controller, states <-chan session.State, title string) *App {
	return &App{ctrl: ctrl, states: states, title: title}
}

// Run owns the calling goroutine until the window closes. onReady runs in
// its own goroutine once the window exists.
func (a *App) Run(onReady func()) error {
	a.fyneApp = app.NewWithID("io.hark.gui")
	a.fyneApp.Settings().SetTheme(darkTheme{})
	a.window = a.fyneApp.NewWindow(a.title)

	a.status = widget.NewLabel("Idle")
	a.status.TextStyle = fyne.TextStyle{Bold: true}

	a.transcript = widget.NewLabel("")
	a.transcript.Wrapping = fyne.TextWrapWord
	a.summary = widget.NewLabel("")
	a.summary.Wrapping = fyne.TextWrapWord
	a.errLabel = widget.NewLabel("")
	a.errLabel.Importance = widget.DangerImportance
	a.errLabel.Wrapping = fyne.TextWrapWord

	a.toggleBtn = widget.NewButtonWithIcon("Start listening", theme.MediaRecordIcon(), a.ctrl.ToggleListening)
	copyBtn := widget.NewButtonWithIcon("Copy", theme.ContentCopyIcon(), a.ctrl.Copy)
	clearBtn := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), a.ctrl.Clear)
	a.summarize = widget.NewButtonWithIcon("Summarize", theme.DocumentIcon(), a.ctrl.Summarize)

	buttons := container.NewHBox(a.toggleBtn, copyBtn, clearBtn, a.summarize)
	split := container.NewVSplit(
		widget.NewCard("Transcript", "", container.NewVScroll(a.transcript)),
		widget.NewCard("Summary", "", container.NewVScroll(a.summary)),
	)
	split.Offset = 0.65

	a.window.SetContent(container.NewBorder(
		container.NewVBox(a.status, a.errLabel),
		buttons, nil, nil, split,
	))
	a.window.Resize(fyne.NewSize(640, 520))

	if desk, ok := a.fyneApp.(desktop.App); ok {
		desk.SetSystemTrayMenu(fyne.NewMenu(a.title,
			fyne.NewMenuItem("Start/stop listening", a.ctrl.ToggleListening),
			fyne.NewMenuItem("Summarize", a.ctrl.Summarize),
		))
		desk.SetSystemTrayIcon(theme.MediaRecordIcon())
	}

	go onReady()
	go a.watch()

	a.window.ShowAndRun()
	return nil
}

func (a *App) watch() {
	for st := range a.states {
		fyne.Do(func() { a.render(st) })
	}
}

func (a *App) render(st session.State) {
	v := viewOf(st)
	a.status.SetText(v.Status)
	a.toggleBtn.SetText(v.ToggleLabel)
	if st.Listening {
		a.toggleBtn.SetIcon(theme.MediaStopIcon())
	} else {
		a.toggleBtn.SetIcon(theme.MediaRecordIcon())
	}
	a.transcript.SetText(v.Transcript)
	a.summary.SetText(v.Summary)
	a.errLabel.SetText(v.Error)
	a.summarize.SetText(v.SummarizeBtn)
	if v.CanSummarize {
		a.summarize.Enable()
	} else {
		a.summarize.Disable()
	}
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		fyne.Do(a.fyneApp.Quit)
	}
}
