//go:build gui

package main

import (
	"context"

	"hark/gui"
	"hark/session"
)

func runGUI(ctx context.Context, sess *session.Session, states <-chan session.State) int {
	app := gui.NewApp(sess, states, "hark")
	err := app.Run(func() {
		select {
		case <-ctx.Done():
		case <-sess.Done():
		}
		app.Quit()
	})
	if err != nil {
		return 1
	}
	return 0
}
