//go:build !gui

package main

import (
	"context"
	"fmt"
	"os"

	"hark/session"
)

func runGUI(context.Context, *session.Session, <-chan session.State) int {
	fmt.Fprintln(os.Stderr, "Error: hark was built without GUI support (rebuild with -tags gui)")
	return 1
}
