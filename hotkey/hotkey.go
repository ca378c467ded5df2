package hotkey

import "context"

// Label is shown in help text.
const Label = "Ctrl+Shift+Space"

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
}

// Forward calls fn for every keydown until ctx is done.
func Forward(ctx context.Context, hk Hotkey, fn func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hk.Keydown():
			fn()
		}
	}
}
