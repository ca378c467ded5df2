package audio

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// SelectDevice asks the user to pick a capture device with the arrow keys.
// A single device is returned without prompting.
func SelectDevice(ctx Context) (*DeviceInfo, error) {
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	switch len(devices) {
	case 0:
		return nil, fmt.Errorf("no capture devices found")
	case 1:
		return &devices[0], nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("device selection needs an interactive terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	cursor := 0
	render := func() {
		fmt.Print("\r\x1b[J")
		fmt.Print("Select microphone (↑/↓, Enter to confirm, Esc to cancel):\r\n\r\n")
		for i, d := range devices {
			if i == cursor {
				fmt.Printf("  \x1b[1;36m▶ %s\x1b[0m\r\n", d.Name)
			} else {
				fmt.Printf("    %s\r\n", d.Name)
			}
		}
	}
	render()

	buf := make([]byte, 3)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		var done, cancel bool
		cursor, done, cancel = moveCursor(buf[:n], cursor, len(devices))
		if cancel {
			fmt.Print("\r\n")
			return nil, fmt.Errorf("device selection cancelled")
		}
		if done {
			fmt.Print("\r\n")
			return &devices[cursor], nil
		}
		fmt.Printf("\x1b[%dA", len(devices)+2)
		render()
	}
}

// moveCursor interprets one keypress read from a raw terminal.
func moveCursor(key []byte, cursor, n int) (next int, done, cancel bool) {
	switch {
	case len(key) == 1 && key[0] == '\r':
		return cursor, true, false
	case len(key) == 1 && (key[0] == 3 || key[0] == 0x1b):
		return cursor, false, true
	case len(key) == 1 && key[0] == 'j', len(key) == 3 && key[0] == 0x1b && key[1] == '[' && key[2] == 'B':
		if cursor < n-1 {
			cursor++
		}
	case len(key) == 1 && key[0] == 'k', len(key) == 3 && key[0] == 0x1b && key[1] == '[' && key[2] == 'A':
		if cursor > 0 {
			cursor--
		}
	}
	return cursor, false, false
}
