//go:build !linux

package main

import (
	"os"
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	// The window toolkit owns the main thread in -gui mode; otherwise the
	// hotkey event loop needs it.
	for _, arg := range os.Args[1:] {
		if arg == "-gui" || arg == "--gui" {
			os.Exit(run())
		}
	}
	code := 0
	mainthread.Init(func() { code = run() })
	os.Exit(code)
}
